package core_test

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func setupTestDB(t *testing.T) (*pgxpool.Pool, context.Context) {
	t.Helper()
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database to avoid wiping the live app database.
	// Set TEST_DATABASE_URL in your .env or environment to run integration tests.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set — skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(pool.Close)

	// The schema is idempotent, so applying it on every run keeps the test DB
	// current without a separate migrate step.
	schema, err := os.ReadFile("../../migrations/001_init.sql")
	if err != nil {
		t.Fatalf("Failed to read schema: %v", err)
	}
	if _, err := pool.Exec(ctx, string(schema)); err != nil {
		t.Fatalf("Failed to apply schema: %v", err)
	}

	// Clean and seed test DB
	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE return_items, return_invoices, invoice_items, invoices,
			custom_orders, medicines, customers, suppliers RESTART IDENTITY CASCADE;

		INSERT INTO suppliers (id, name, contact_person, phone) VALUES
		(1, 'MediSupply Co', 'Ravi Menon', '080-4000-1000'),
		(2, 'PharmaDirect',  'Leela Nair', '080-4000-2000');

		INSERT INTO medicines (id, name, description, supplier_id, in_stock, mrp) VALUES
		(1, 'Paracetamol 500mg', 'Analgesic',  1, 100, 25.50),
		(2, 'Amoxicillin 250mg', 'Antibiotic', 1,  50, 80.00),
		(3, 'Cough Syrup 100ml', '',           2,   0, 99.99);

		INSERT INTO customers (id, name, phone, email, is_active) VALUES
		(1, 'Asha Rao',    '9000000001', 'asha@example.com', TRUE),
		(2, 'Vikram Shah', '9000000002', NULL,               FALSE);

		SELECT setval('suppliers_id_seq', 10);
		SELECT setval('medicines_id_seq', 10);
		SELECT setval('customers_id_seq', 10);
	`)
	if err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}

	return pool, ctx
}

// getStock reads a medicine's on-hand quantity directly, bypassing the service.
func getStock(t *testing.T, ctx context.Context, pool *pgxpool.Pool, medicineID int) int {
	t.Helper()
	var n int
	if err := pool.QueryRow(ctx, "SELECT in_stock FROM medicines WHERE id = $1", medicineID).Scan(&n); err != nil {
		t.Fatalf("Failed to read stock for medicine %d: %v", medicineID, err)
	}
	return n
}
