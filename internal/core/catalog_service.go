package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// CatalogService manages suppliers and the medicine catalog, including direct
// stock top-ups that bypass invoice logic.
type CatalogService interface {
	CreateSupplier(ctx context.Context, name, contactPerson, phone, address string) (*Supplier, error)
	GetSuppliers(ctx context.Context) ([]Supplier, error)

	CreateMedicine(ctx context.Context, name, description string, supplierID, initialStock int, mrp decimal.Decimal) (*Medicine, error)
	// GetMedicines lists the catalog, optionally filtered by a
	// case-insensitive name search.
	GetMedicines(ctx context.Context, search string) ([]Medicine, error)
	// GetInStockMedicines lists only medicines with stock on hand, for sale screens.
	GetInStockMedicines(ctx context.Context) ([]Medicine, error)
	GetMedicine(ctx context.Context, medicineID int) (*Medicine, error)
	// AddStock increments a medicine's on-hand quantity. qty must be positive.
	AddStock(ctx context.Context, medicineID, qty int) (*Medicine, error)
}

type catalogService struct {
	pool *pgxpool.Pool
}

// NewCatalogService constructs a CatalogService backed by PostgreSQL.
func NewCatalogService(pool *pgxpool.Pool) CatalogService {
	return &catalogService{pool: pool}
}

func (s *catalogService) CreateSupplier(ctx context.Context, name, contactPerson, phone, address string) (*Supplier, error) {
	if name == "" {
		return nil, fmt.Errorf("supplier name is required")
	}

	var sp Supplier
	err := s.pool.QueryRow(ctx, `
		INSERT INTO suppliers (name, contact_person, phone, address)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, contact_person, phone, address, created_at
	`, name, contactPerson, phone, address).Scan(
		&sp.ID, &sp.Name, &sp.ContactPerson, &sp.Phone, &sp.Address, &sp.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create supplier: %w", err)
	}
	return &sp, nil
}

func (s *catalogService) GetSuppliers(ctx context.Context) ([]Supplier, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, contact_person, phone, address, created_at
		FROM suppliers
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []Supplier
	for rows.Next() {
		var sp Supplier
		if err := rows.Scan(&sp.ID, &sp.Name, &sp.ContactPerson, &sp.Phone, &sp.Address, &sp.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan supplier: %w", err)
		}
		suppliers = append(suppliers, sp)
	}
	return suppliers, nil
}

func (s *catalogService) CreateMedicine(ctx context.Context, name, description string, supplierID, initialStock int, mrp decimal.Decimal) (*Medicine, error) {
	if initialStock < 0 {
		return nil, fmt.Errorf("initial stock cannot be negative, got %d", initialStock)
	}
	if mrp.IsNegative() {
		return nil, fmt.Errorf("mrp cannot be negative, got %s", mrp)
	}

	// Verify the supplier exists so the caller gets a not-found error rather
	// than an FK violation.
	var supplierName string
	err := s.pool.QueryRow(ctx, "SELECT name FROM suppliers WHERE id = $1", supplierID).Scan(&supplierName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("supplier %d not found", supplierID)
		}
		return nil, fmt.Errorf("failed to resolve supplier %d: %w", supplierID, err)
	}

	var m Medicine
	err = s.pool.QueryRow(ctx, `
		INSERT INTO medicines (name, description, supplier_id, in_stock, mrp)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, description, supplier_id, in_stock, mrp, created_at
	`, name, description, supplierID, initialStock, mrp).Scan(
		&m.ID, &m.Name, &m.Description, &m.SupplierID, &m.InStock, &m.MRP, &m.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create medicine: %w", err)
	}
	m.SupplierName = supplierName
	return &m, nil
}

func (s *catalogService) GetMedicines(ctx context.Context, search string) ([]Medicine, error) {
	query := `
		SELECT m.id, m.name, m.description, m.supplier_id, sp.name, m.in_stock, m.mrp, m.created_at
		FROM medicines m
		JOIN suppliers sp ON sp.id = m.supplier_id
	`
	args := []any{}
	if search != "" {
		query += " WHERE m.name ILIKE $1"
		args = append(args, "%"+search+"%")
	}
	query += " ORDER BY m.name"

	return s.queryMedicines(ctx, query, args...)
}

func (s *catalogService) GetInStockMedicines(ctx context.Context) ([]Medicine, error) {
	return s.queryMedicines(ctx, `
		SELECT m.id, m.name, m.description, m.supplier_id, sp.name, m.in_stock, m.mrp, m.created_at
		FROM medicines m
		JOIN suppliers sp ON sp.id = m.supplier_id
		WHERE m.in_stock > 0
		ORDER BY m.name
	`)
}

func (s *catalogService) queryMedicines(ctx context.Context, query string, args ...any) ([]Medicine, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query medicines: %w", err)
	}
	defer rows.Close()

	var medicines []Medicine
	for rows.Next() {
		var m Medicine
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.SupplierID, &m.SupplierName,
			&m.InStock, &m.MRP, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan medicine: %w", err)
		}
		medicines = append(medicines, m)
	}
	return medicines, nil
}

func (s *catalogService) GetMedicine(ctx context.Context, medicineID int) (*Medicine, error) {
	var m Medicine
	err := s.pool.QueryRow(ctx, `
		SELECT m.id, m.name, m.description, m.supplier_id, sp.name, m.in_stock, m.mrp, m.created_at
		FROM medicines m
		JOIN suppliers sp ON sp.id = m.supplier_id
		WHERE m.id = $1
	`, medicineID).Scan(
		&m.ID, &m.Name, &m.Description, &m.SupplierID, &m.SupplierName,
		&m.InStock, &m.MRP, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("medicine %d not found", medicineID)
		}
		return nil, fmt.Errorf("failed to fetch medicine %d: %w", medicineID, err)
	}
	return &m, nil
}

// AddStock tops up on-hand stock under a row lock so concurrent sales against
// the same medicine cannot lose the update.
func (s *catalogService) AddStock(ctx context.Context, medicineID, qty int) (*Medicine, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("additional stock must be positive, got %d", qty)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var current int
	err = tx.QueryRow(ctx, "SELECT in_stock FROM medicines WHERE id = $1 FOR UPDATE", medicineID).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("medicine %d not found", medicineID)
		}
		return nil, fmt.Errorf("failed to lock medicine %d: %w", medicineID, err)
	}

	_, err = tx.Exec(ctx, "UPDATE medicines SET in_stock = in_stock + $1 WHERE id = $2", qty, medicineID)
	if err != nil {
		return nil, fmt.Errorf("failed to add stock to medicine %d: %w", medicineID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit stock top-up: %w", err)
	}

	return s.GetMedicine(ctx, medicineID)
}
