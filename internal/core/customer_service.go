package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CustomerService manages customer master records. Customers are never
// deleted: deactivation flips is_active and the row stays, so reactivation
// restores the customer with no data loss and phone uniqueness holds across
// the whole table.
type CustomerService interface {
	CreateCustomer(ctx context.Context, name, phone string, email, address *string) (*Customer, error)
	UpdateCustomer(ctx context.Context, customerID int, name, phone string, email, address *string) (*Customer, error)
	GetCustomer(ctx context.Context, customerID int) (*Customer, error)
	// GetCustomers lists customers filtered by the active flag.
	GetCustomers(ctx context.Context, active bool) ([]Customer, error)
	DeactivateCustomer(ctx context.Context, customerID int) (*Customer, error)
	ReactivateCustomer(ctx context.Context, customerID int) (*Customer, error)
}

type customerService struct {
	pool *pgxpool.Pool
}

// NewCustomerService constructs a CustomerService backed by PostgreSQL.
func NewCustomerService(pool *pgxpool.Pool) CustomerService {
	return &customerService{pool: pool}
}

// uniqueViolation is the PostgreSQL SQLSTATE for duplicate keys.
const uniqueViolation = "23505"

func isPhoneConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (s *customerService) CreateCustomer(ctx context.Context, name, phone string, email, address *string) (*Customer, error) {
	if name == "" || phone == "" {
		return nil, fmt.Errorf("customer name and phone are required")
	}

	var c Customer
	err := s.pool.QueryRow(ctx, `
		INSERT INTO customers (name, phone, email, address)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, phone, email, address, is_active
	`, name, phone, email, address).Scan(
		&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.IsActive,
	)
	if err != nil {
		if isPhoneConflict(err) {
			return nil, fmt.Errorf("phone %s: %w", phone, ErrPhoneTaken)
		}
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return &c, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, customerID int, name, phone string, email, address *string) (*Customer, error) {
	if name == "" || phone == "" {
		return nil, fmt.Errorf("customer name and phone are required")
	}

	var c Customer
	err := s.pool.QueryRow(ctx, `
		UPDATE customers
		SET name = $1, phone = $2, email = $3, address = $4
		WHERE id = $5
		RETURNING id, name, phone, email, address, is_active
	`, name, phone, email, address, customerID).Scan(
		&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("customer %d not found", customerID)
		}
		if isPhoneConflict(err) {
			return nil, fmt.Errorf("phone %s: %w", phone, ErrPhoneTaken)
		}
		return nil, fmt.Errorf("failed to update customer %d: %w", customerID, err)
	}
	return &c, nil
}

func (s *customerService) GetCustomer(ctx context.Context, customerID int) (*Customer, error) {
	var c Customer
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, phone, email, address, is_active
		FROM customers
		WHERE id = $1
	`, customerID).Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("customer %d not found", customerID)
		}
		return nil, fmt.Errorf("failed to fetch customer %d: %w", customerID, err)
	}
	return &c, nil
}

func (s *customerService) GetCustomers(ctx context.Context, active bool) ([]Customer, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, phone, email, address, is_active
		FROM customers
		WHERE is_active = $1
		ORDER BY name
	`, active)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, nil
}

func (s *customerService) DeactivateCustomer(ctx context.Context, customerID int) (*Customer, error) {
	return s.setActive(ctx, customerID, false)
}

func (s *customerService) ReactivateCustomer(ctx context.Context, customerID int) (*Customer, error) {
	return s.setActive(ctx, customerID, true)
}

func (s *customerService) setActive(ctx context.Context, customerID int, active bool) (*Customer, error) {
	var c Customer
	err := s.pool.QueryRow(ctx, `
		UPDATE customers SET is_active = $1 WHERE id = $2
		RETURNING id, name, phone, email, address, is_active
	`, active, customerID).Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("customer %d not found", customerID)
		}
		return nil, fmt.Errorf("failed to update customer %d active flag: %w", customerID, err)
	}
	return &c, nil
}
