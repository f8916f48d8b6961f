package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CustomOrderService tracks special procurement requests: a customer asks for
// something not in the catalog, the shop sources it from a supplier, and the
// request moves through a small status vocabulary until delivered or
// cancelled. Transitions are unrestricted so staff can correct mistakes.
type CustomOrderService interface {
	CreateCustomOrder(ctx context.Context, customerID, supplierID int, medicineName string, quantity int, notes *string) (*CustomOrder, error)
	GetCustomOrders(ctx context.Context) ([]CustomOrder, error)
	GetCustomOrder(ctx context.Context, orderID int) (*CustomOrder, error)
	// UpdateStatus overwrites the order's status. status must be one of the
	// known labels; otherwise ErrInvalidStatus.
	UpdateStatus(ctx context.Context, orderID int, status OrderStatus) (*CustomOrder, error)
}

type customOrderService struct {
	pool *pgxpool.Pool
}

// NewCustomOrderService constructs a CustomOrderService backed by PostgreSQL.
func NewCustomOrderService(pool *pgxpool.Pool) CustomOrderService {
	return &customOrderService{pool: pool}
}

func (s *customOrderService) CreateCustomOrder(ctx context.Context, customerID, supplierID int, medicineName string, quantity int, notes *string) (*CustomOrder, error) {
	if medicineName == "" {
		return nil, fmt.Errorf("medicine name is required")
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive, got %d", quantity)
	}

	var customerName string
	err := s.pool.QueryRow(ctx, "SELECT name FROM customers WHERE id = $1", customerID).Scan(&customerName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("customer %d not found", customerID)
		}
		return nil, fmt.Errorf("failed to resolve customer %d: %w", customerID, err)
	}
	var supplierName string
	err = s.pool.QueryRow(ctx, "SELECT name FROM suppliers WHERE id = $1", supplierID).Scan(&supplierName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("supplier %d not found", supplierID)
		}
		return nil, fmt.Errorf("failed to resolve supplier %d: %w", supplierID, err)
	}

	var orderID int
	err = s.pool.QueryRow(ctx, `
		INSERT INTO custom_orders (customer_id, supplier_id, medicine_name, quantity, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, customerID, supplierID, medicineName, quantity, notes).Scan(&orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to create custom order: %w", err)
	}

	return s.GetCustomOrder(ctx, orderID)
}

func (s *customOrderService) GetCustomOrders(ctx context.Context) ([]CustomOrder, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT o.id, o.customer_id, c.name, o.supplier_id, sp.name,
		       o.medicine_name, o.quantity, o.status, o.notes, o.order_date
		FROM custom_orders o
		JOIN customers c ON c.id = o.customer_id
		JOIN suppliers sp ON sp.id = o.supplier_id
		ORDER BY o.order_date DESC, o.id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query custom orders: %w", err)
	}
	defer rows.Close()

	var orders []CustomOrder
	for rows.Next() {
		var o CustomOrder
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.CustomerName, &o.SupplierID, &o.SupplierName,
			&o.MedicineName, &o.Quantity, &o.Status, &o.Notes, &o.OrderDate); err != nil {
			return nil, fmt.Errorf("failed to scan custom order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (s *customOrderService) GetCustomOrder(ctx context.Context, orderID int) (*CustomOrder, error) {
	var o CustomOrder
	err := s.pool.QueryRow(ctx, `
		SELECT o.id, o.customer_id, c.name, o.supplier_id, sp.name,
		       o.medicine_name, o.quantity, o.status, o.notes, o.order_date
		FROM custom_orders o
		JOIN customers c ON c.id = o.customer_id
		JOIN suppliers sp ON sp.id = o.supplier_id
		WHERE o.id = $1
	`, orderID).Scan(&o.ID, &o.CustomerID, &o.CustomerName, &o.SupplierID, &o.SupplierName,
		&o.MedicineName, &o.Quantity, &o.Status, &o.Notes, &o.OrderDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("custom order %d not found", orderID)
		}
		return nil, fmt.Errorf("failed to fetch custom order %d: %w", orderID, err)
	}
	return &o, nil
}

func (s *customOrderService) UpdateStatus(ctx context.Context, orderID int, status OrderStatus) (*CustomOrder, error) {
	if !ValidStatus(status) {
		return nil, fmt.Errorf("status %q: %w", status, ErrInvalidStatus)
	}

	tag, err := s.pool.Exec(ctx,
		"UPDATE custom_orders SET status = $1 WHERE id = $2",
		status, orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update custom order %d status: %w", orderID, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("custom order %d not found", orderID)
	}

	return s.GetCustomOrder(ctx, orderID)
}
