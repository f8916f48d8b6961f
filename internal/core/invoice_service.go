package core

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// InvoiceService owns the invoice lifecycle: creation, item addition with
// stock decrement, discount application, and full recalculation of derived
// totals. Totals are recomputed from scratch after every mutation and on
// every read, so the stored values are always a cache of the last
// computation.
type InvoiceService interface {
	// CreateInvoice opens an empty invoice for a customer with zeroed totals
	// and the default 9%/9% CGST/SGST rates. The customer's active flag is
	// not re-checked here; callers offer only active customers.
	CreateInvoice(ctx context.Context, customerID int) (*Invoice, error)

	// AddInvoiceItem sells qty units of a medicine on the invoice. The item's
	// rate is fixed to the medicine's current MRP at the moment of the call.
	// Returns ErrInsufficientStock when qty exceeds on-hand stock; stock and
	// invoice are untouched in that case.
	AddInvoiceItem(ctx context.Context, invoiceID, medicineID, qty int) (*Invoice, error)

	// ApplyDiscount overwrites the invoice's discount percentage and
	// recalculates. pct must be within [0,100].
	ApplyDiscount(ctx context.Context, invoiceID int, pct decimal.Decimal) (*Invoice, error)

	// GetInvoice recalculates and persists the invoice's derived totals, then
	// returns the fresh snapshot with its items.
	GetInvoice(ctx context.Context, invoiceID int) (*Invoice, error)

	// GetInvoices lists invoices newest first. A numeric query filters by
	// invoice ID.
	GetInvoices(ctx context.Context, query string) ([]Invoice, error)
}

type invoiceService struct {
	pool *pgxpool.Pool
}

// NewInvoiceService constructs an InvoiceService backed by PostgreSQL.
func NewInvoiceService(pool *pgxpool.Pool) InvoiceService {
	return &invoiceService{pool: pool}
}

func (s *invoiceService) CreateInvoice(ctx context.Context, customerID int) (*Invoice, error) {
	// Resolve the customer first so absence surfaces as not-found, not an FK
	// violation.
	var customerName string
	err := s.pool.QueryRow(ctx, "SELECT name FROM customers WHERE id = $1", customerID).Scan(&customerName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("customer %d not found", customerID)
		}
		return nil, fmt.Errorf("failed to resolve customer %d: %w", customerID, err)
	}

	var invoiceID int
	err = s.pool.QueryRow(ctx, `
		INSERT INTO invoices (customer_id) VALUES ($1) RETURNING id
	`, customerID).Scan(&invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	return s.GetInvoice(ctx, invoiceID)
}

func (s *invoiceService) AddInvoiceItem(ctx context.Context, invoiceID, medicineID, qty int) (*Invoice, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("quantity must be positive, got %d", qty)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock the invoice header so per-invoice mutations serialize.
	if err := lockInvoice(ctx, tx, invoiceID); err != nil {
		return nil, err
	}

	// Lock the medicine row: the stock check and decrement must be atomic
	// against concurrent sales.
	var inStock int
	var rate decimal.Decimal
	err = tx.QueryRow(ctx,
		"SELECT in_stock, mrp FROM medicines WHERE id = $1 FOR UPDATE",
		medicineID,
	).Scan(&inStock, &rate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("medicine %d not found", medicineID)
		}
		return nil, fmt.Errorf("failed to lock medicine %d: %w", medicineID, err)
	}

	if qty > inStock {
		return nil, fmt.Errorf("medicine %d has %d in stock, requested %d: %w",
			medicineID, inStock, qty, ErrInsufficientStock)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO invoice_items (invoice_id, medicine_id, quantity, rate)
		VALUES ($1, $2, $3, $4)
	`, invoiceID, medicineID, qty, rate)
	if err != nil {
		return nil, fmt.Errorf("failed to insert invoice item: %w", err)
	}

	// Stock decrement precedes recalculation.
	_, err = tx.Exec(ctx,
		"UPDATE medicines SET in_stock = in_stock - $1 WHERE id = $2",
		qty, medicineID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to decrement stock for medicine %d: %w", medicineID, err)
	}

	if err := recalculateInvoiceTx(ctx, tx, invoiceID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit item addition: %w", err)
	}

	return s.GetInvoice(ctx, invoiceID)
}

func (s *invoiceService) ApplyDiscount(ctx context.Context, invoiceID int, pct decimal.Decimal) (*Invoice, error) {
	if err := ValidateDiscount(pct); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockInvoice(ctx, tx, invoiceID); err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx,
		"UPDATE invoices SET discount_percentage = $1 WHERE id = $2",
		pct, invoiceID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set discount on invoice %d: %w", invoiceID, err)
	}

	if err := recalculateInvoiceTx(ctx, tx, invoiceID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit discount: %w", err)
	}

	return s.GetInvoice(ctx, invoiceID)
}

// GetInvoice recalculates on every read so a detail view always shows totals
// derived from the current line items.
func (s *invoiceService) GetInvoice(ctx context.Context, invoiceID int) (*Invoice, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockInvoice(ctx, tx, invoiceID); err != nil {
		return nil, err
	}
	if err := recalculateInvoiceTx(ctx, tx, invoiceID); err != nil {
		return nil, err
	}

	inv, err := fetchInvoiceQ(ctx, tx, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit invoice recalculation: %w", err)
	}
	return inv, nil
}

func (s *invoiceService) GetInvoices(ctx context.Context, query string) ([]Invoice, error) {
	sql := `
		SELECT i.id, i.customer_id, c.name, i.invoice_date,
		       i.sub_total, i.discount_percentage, i.discount_amount, i.taxable_total,
		       i.cgst_percentage, i.cgst_amount, i.sgst_percentage, i.sgst_amount, i.grand_total
		FROM invoices i
		JOIN customers c ON c.id = i.customer_id
	`
	args := []any{}
	if id, err := strconv.Atoi(query); err == nil && query != "" {
		sql += " WHERE i.id = $1"
		args = append(args, id)
	}
	sql += " ORDER BY i.invoice_date DESC, i.id DESC"

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	var invoices []Invoice
	for rows.Next() {
		var inv Invoice
		if err := rows.Scan(
			&inv.ID, &inv.CustomerID, &inv.CustomerName, &inv.InvoiceDate,
			&inv.SubTotal, &inv.DiscountPercentage, &inv.DiscountAmount, &inv.TaxableTotal,
			&inv.CGSTPercentage, &inv.CGSTAmount, &inv.SGSTPercentage, &inv.SGSTAmount, &inv.GrandTotal,
		); err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}
	return invoices, nil
}

// ── shared helpers ───────────────────────────────────────────────────────────

// pgxQuerier is satisfied by both *pgxpool.Pool and pgx.Tx.
type pgxQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// lockInvoice acquires the invoice row lock, serializing mutations and
// recalculations per invoice.
func lockInvoice(ctx context.Context, tx pgx.Tx, invoiceID int) error {
	var id int
	err := tx.QueryRow(ctx, "SELECT id FROM invoices WHERE id = $1 FOR UPDATE", invoiceID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("invoice %d not found", invoiceID)
		}
		return fmt.Errorf("failed to lock invoice %d: %w", invoiceID, err)
	}
	return nil
}

// recalculateInvoiceTx recomputes every derived field of an invoice from its
// line items and persists all of them in one statement. The caller must hold
// the invoice row lock.
func recalculateInvoiceTx(ctx context.Context, tx pgx.Tx, invoiceID int) error {
	items, err := fetchInvoiceItemsQ(ctx, tx, invoiceID)
	if err != nil {
		return err
	}

	var discountPct, cgstPct, sgstPct decimal.Decimal
	err = tx.QueryRow(ctx, `
		SELECT discount_percentage, cgst_percentage, sgst_percentage
		FROM invoices WHERE id = $1
	`, invoiceID).Scan(&discountPct, &cgstPct, &sgstPct)
	if err != nil {
		return fmt.Errorf("failed to read invoice %d percentages: %w", invoiceID, err)
	}

	totals := ComputeTotals(SumLines(items), discountPct, cgstPct, sgstPct)

	_, err = tx.Exec(ctx, `
		UPDATE invoices
		SET sub_total = $1, discount_amount = $2, taxable_total = $3,
		    cgst_amount = $4, sgst_amount = $5, grand_total = $6
		WHERE id = $7
	`, totals.SubTotal, totals.DiscountAmount, totals.TaxableTotal,
		totals.CGSTAmount, totals.SGSTAmount, totals.GrandTotal, invoiceID)
	if err != nil {
		return fmt.Errorf("failed to persist invoice %d totals: %w", invoiceID, err)
	}
	return nil
}

func fetchInvoiceQ(ctx context.Context, q pgxQuerier, invoiceID int) (*Invoice, error) {
	var inv Invoice
	err := q.QueryRow(ctx, `
		SELECT i.id, i.customer_id, c.name, i.invoice_date,
		       i.sub_total, i.discount_percentage, i.discount_amount, i.taxable_total,
		       i.cgst_percentage, i.cgst_amount, i.sgst_percentage, i.sgst_amount, i.grand_total
		FROM invoices i
		JOIN customers c ON c.id = i.customer_id
		WHERE i.id = $1
	`, invoiceID).Scan(
		&inv.ID, &inv.CustomerID, &inv.CustomerName, &inv.InvoiceDate,
		&inv.SubTotal, &inv.DiscountPercentage, &inv.DiscountAmount, &inv.TaxableTotal,
		&inv.CGSTPercentage, &inv.CGSTAmount, &inv.SGSTPercentage, &inv.SGSTAmount, &inv.GrandTotal,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("invoice %d not found", invoiceID)
		}
		return nil, fmt.Errorf("failed to fetch invoice %d: %w", invoiceID, err)
	}

	items, err := fetchInvoiceItemsQ(ctx, q, invoiceID)
	if err != nil {
		return nil, err
	}
	inv.Items = items
	return &inv, nil
}

func fetchInvoiceItemsQ(ctx context.Context, q pgxQuerier, invoiceID int) ([]InvoiceItem, error) {
	rows, err := q.Query(ctx, `
		SELECT ii.id, ii.invoice_id, ii.medicine_id, m.name, ii.quantity, ii.rate
		FROM invoice_items ii
		JOIN medicines m ON m.id = ii.medicine_id
		WHERE ii.invoice_id = $1
		ORDER BY ii.id
	`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoice items: %w", err)
	}
	defer rows.Close()

	var items []InvoiceItem
	for rows.Next() {
		var it InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.MedicineID, &it.MedicineName, &it.Quantity, &it.Rate); err != nil {
			return nil, fmt.Errorf("failed to scan invoice item: %w", err)
		}
		items = append(items, it)
	}
	return items, nil
}
