package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ReturnService processes partial and full returns against existing invoices.
// Refunds are valued at the rate the item was originally sold at, never the
// medicine's current MRP, and returned quantity goes straight back into stock.
type ReturnService interface {
	// ProcessReturn accepts a map of invoice item ID to returned quantity and
	// records a return receipt in one transaction. Quantities of zero are
	// skipped; an all-zero request fails with ErrEmptyReturn. A quantity that
	// would push the cumulative returns for a line past its sold quantity
	// fails with ErrReturnExceedsSold and nothing is recorded.
	ProcessReturn(ctx context.Context, invoiceID int, quantities map[int]int) (*ReturnInvoice, error)

	// GetReturnReceipt fetches a recorded return with its items.
	GetReturnReceipt(ctx context.Context, returnID int) (*ReturnInvoice, error)
}

type returnService struct {
	pool *pgxpool.Pool
}

// NewReturnService constructs a ReturnService backed by PostgreSQL.
func NewReturnService(pool *pgxpool.Pool) ReturnService {
	return &returnService{pool: pool}
}

func (s *returnService) ProcessReturn(ctx context.Context, invoiceID int, quantities map[int]int) (*ReturnInvoice, error) {
	for itemID, qty := range quantities {
		if qty < 0 {
			return nil, fmt.Errorf("return quantity for item %d cannot be negative, got %d", itemID, qty)
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// The invoice lock serializes returns against each other and against item
	// additions on the same invoice.
	if err := lockInvoice(ctx, tx, invoiceID); err != nil {
		return nil, err
	}

	items, err := fetchInvoiceItemsQ(ctx, tx, invoiceID)
	if err != nil {
		return nil, err
	}

	var returnID int
	err = tx.QueryRow(ctx, `
		INSERT INTO return_invoices (invoice_id) VALUES ($1) RETURNING id
	`, invoiceID).Scan(&returnID)
	if err != nil {
		return nil, fmt.Errorf("failed to create return for invoice %d: %w", invoiceID, err)
	}

	refund := decimal.Zero
	recorded := 0
	for _, item := range items {
		qty := quantities[item.ID]
		if qty == 0 {
			continue
		}

		// Cap against what is still returnable on this line across all prior
		// returns, not just this one.
		var alreadyReturned int
		err = tx.QueryRow(ctx, `
			SELECT COALESCE(SUM(quantity), 0)
			FROM return_items
			WHERE invoice_item_id = $1
		`, item.ID).Scan(&alreadyReturned)
		if err != nil {
			return nil, fmt.Errorf("failed to sum prior returns for item %d: %w", item.ID, err)
		}
		if qty+alreadyReturned > item.Quantity {
			return nil, fmt.Errorf("item %d sold %d, already returned %d, requested %d: %w",
				item.ID, item.Quantity, alreadyReturned, qty, ErrReturnExceedsSold)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO return_items (return_invoice_id, invoice_item_id, medicine_id, quantity, rate)
			VALUES ($1, $2, $3, $4, $5)
		`, returnID, item.ID, item.MedicineID, qty, item.Rate)
		if err != nil {
			return nil, fmt.Errorf("failed to record return item: %w", err)
		}

		// Returned units go back on the shelf.
		_, err = tx.Exec(ctx,
			"UPDATE medicines SET in_stock = in_stock + $1 WHERE id = $2",
			qty, item.MedicineID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to restock medicine %d: %w", item.MedicineID, err)
		}

		refund = refund.Add(item.Rate.Mul(decimal.NewFromInt(int64(qty))))
		recorded++
	}

	if recorded == 0 {
		return nil, fmt.Errorf("return for invoice %d has no items: %w", invoiceID, ErrEmptyReturn)
	}

	_, err = tx.Exec(ctx,
		"UPDATE return_invoices SET total_refund_amount = $1 WHERE id = $2",
		refund, returnID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set refund total on return %d: %w", returnID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit return: %w", err)
	}

	return s.GetReturnReceipt(ctx, returnID)
}

func (s *returnService) GetReturnReceipt(ctx context.Context, returnID int) (*ReturnInvoice, error) {
	var ret ReturnInvoice
	err := s.pool.QueryRow(ctx, `
		SELECT id, invoice_id, return_date, total_refund_amount
		FROM return_invoices
		WHERE id = $1
	`, returnID).Scan(&ret.ID, &ret.InvoiceID, &ret.ReturnDate, &ret.TotalRefundAmount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("return %d not found", returnID)
		}
		return nil, fmt.Errorf("failed to fetch return %d: %w", returnID, err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT ri.id, ri.return_invoice_id, ri.invoice_item_id, ri.medicine_id, m.name, ri.quantity, ri.rate
		FROM return_items ri
		JOIN medicines m ON m.id = ri.medicine_id
		WHERE ri.return_invoice_id = $1
		ORDER BY ri.id
	`, returnID)
	if err != nil {
		return nil, fmt.Errorf("failed to query return items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it ReturnItem
		if err := rows.Scan(&it.ID, &it.ReturnID, &it.InvoiceItemID, &it.MedicineID,
			&it.MedicineName, &it.Quantity, &it.Rate); err != nil {
			return nil, fmt.Errorf("failed to scan return item: %w", err)
		}
		ret.Items = append(ret.Items, it)
	}
	return &ret, nil
}
