package core_test

import (
	"context"
	"errors"
	"testing"

	"medstore-backend/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
)

// sellParacetamol creates an invoice for customer 1 with qty units of
// medicine 1 (rate 25.50) and returns the invoice with its single item.
func sellParacetamol(t *testing.T, ctx context.Context, pool *pgxpool.Pool, qty int) *core.Invoice {
	t.Helper()
	svc := core.NewInvoiceService(pool)
	inv, err := svc.CreateInvoice(ctx, 1)
	if err != nil {
		t.Fatalf("CreateInvoice failed: %v", err)
	}
	inv, err = svc.AddInvoiceItem(ctx, inv.ID, 1, qty)
	if err != nil {
		t.Fatalf("AddInvoiceItem failed: %v", err)
	}
	return inv
}

func TestReturn_PartialRestocksAndRefundsAtSaleRate(t *testing.T) {
	pool, ctx := setupTestDB(t)
	retSvc := core.NewReturnService(pool)

	inv := sellParacetamol(t, ctx, pool, 10) // stock 100 → 90

	// Reprice after the sale; the refund must still use 25.50.
	if _, err := pool.Exec(ctx, "UPDATE medicines SET mrp = 999 WHERE id = 1"); err != nil {
		t.Fatalf("Failed to reprice medicine: %v", err)
	}

	ret, err := retSvc.ProcessReturn(ctx, inv.ID, map[int]int{inv.Items[0].ID: 4})
	if err != nil {
		t.Fatalf("ProcessReturn failed: %v", err)
	}

	// Refund = 4 × 25.50 = 102
	if !ret.TotalRefundAmount.Equal(d("102")) {
		t.Errorf("Expected refund 102, got %s", ret.TotalRefundAmount)
	}
	if len(ret.Items) != 1 || !ret.Items[0].Rate.Equal(d("25.50")) {
		t.Fatalf("Expected one return item at the original rate, got %+v", ret.Items)
	}
	if got := getStock(t, ctx, pool, 1); got != 94 {
		t.Errorf("Expected stock 94 after restocking 4, got %d", got)
	}

	// The original invoice's totals are untouched by the return.
	got, err := core.NewInvoiceService(pool).GetInvoice(ctx, inv.ID)
	if err != nil {
		t.Fatalf("GetInvoice failed: %v", err)
	}
	if !got.GrandTotal.Equal(inv.GrandTotal) {
		t.Errorf("Invoice total changed by return: %s vs %s", got.GrandTotal, inv.GrandTotal)
	}
}

func TestReturn_EmptyRejected(t *testing.T) {
	pool, ctx := setupTestDB(t)
	retSvc := core.NewReturnService(pool)

	inv := sellParacetamol(t, ctx, pool, 5)

	// All-zero quantities record nothing.
	_, err := retSvc.ProcessReturn(ctx, inv.ID, map[int]int{inv.Items[0].ID: 0})
	if !errors.Is(err, core.ErrEmptyReturn) {
		t.Errorf("Expected ErrEmptyReturn for all-zero quantities, got %v", err)
	}
	_, err = retSvc.ProcessReturn(ctx, inv.ID, map[int]int{})
	if !errors.Is(err, core.ErrEmptyReturn) {
		t.Errorf("Expected ErrEmptyReturn for empty map, got %v", err)
	}

	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM return_invoices").Scan(&count); err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Rejected returns must not leave receipts, found %d", count)
	}
}

func TestReturn_CumulativeCap(t *testing.T) {
	pool, ctx := setupTestDB(t)
	retSvc := core.NewReturnService(pool)

	inv := sellParacetamol(t, ctx, pool, 10)
	itemID := inv.Items[0].ID

	// Over-returning in one shot is rejected.
	if _, err := retSvc.ProcessReturn(ctx, inv.ID, map[int]int{itemID: 11}); !errors.Is(err, core.ErrReturnExceedsSold) {
		t.Fatalf("Expected ErrReturnExceedsSold for 11 of 10, got %v", err)
	}
	if got := getStock(t, ctx, pool, 1); got != 90 {
		t.Errorf("Stock changed on rejected return: %d", got)
	}

	// Two returns of 6 + 5 exceed the cap cumulatively.
	if _, err := retSvc.ProcessReturn(ctx, inv.ID, map[int]int{itemID: 6}); err != nil {
		t.Fatalf("First return failed: %v", err)
	}
	if _, err := retSvc.ProcessReturn(ctx, inv.ID, map[int]int{itemID: 5}); !errors.Is(err, core.ErrReturnExceedsSold) {
		t.Fatalf("Expected ErrReturnExceedsSold cumulatively, got %v", err)
	}

	// Returning the exact remainder works.
	ret, err := retSvc.ProcessReturn(ctx, inv.ID, map[int]int{itemID: 4})
	if err != nil {
		t.Fatalf("Final return failed: %v", err)
	}
	if !ret.TotalRefundAmount.Equal(d("102")) { // 4 × 25.50
		t.Errorf("Expected refund 102, got %s", ret.TotalRefundAmount)
	}
	if got := getStock(t, ctx, pool, 1); got != 100 {
		t.Errorf("Expected full stock restored to 100, got %d", got)
	}
}

func TestReturn_CapsPerLineNotPerMedicine(t *testing.T) {
	pool, ctx := setupTestDB(t)
	invSvc := core.NewInvoiceService(pool)
	retSvc := core.NewReturnService(pool)

	// Two separate lines for the same medicine: 3 and 7 units.
	inv, err := invSvc.CreateInvoice(ctx, 1)
	if err != nil {
		t.Fatalf("CreateInvoice failed: %v", err)
	}
	if _, err := invSvc.AddInvoiceItem(ctx, inv.ID, 1, 3); err != nil {
		t.Fatalf("AddInvoiceItem failed: %v", err)
	}
	inv, err = invSvc.AddInvoiceItem(ctx, inv.ID, 1, 7)
	if err != nil {
		t.Fatalf("AddInvoiceItem failed: %v", err)
	}
	if len(inv.Items) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(inv.Items))
	}
	small, big := inv.Items[0], inv.Items[1]

	// 4 against the 3-unit line must fail even though 10 were sold in total.
	if _, err := retSvc.ProcessReturn(ctx, inv.ID, map[int]int{small.ID: 4}); !errors.Is(err, core.ErrReturnExceedsSold) {
		t.Fatalf("Expected per-line cap, got %v", err)
	}

	// 3 + 7 across the two lines is fine.
	ret, err := retSvc.ProcessReturn(ctx, inv.ID, map[int]int{small.ID: 3, big.ID: 7})
	if err != nil {
		t.Fatalf("ProcessReturn failed: %v", err)
	}
	if len(ret.Items) != 2 {
		t.Errorf("Expected 2 return items, got %d", len(ret.Items))
	}
	if !ret.TotalRefundAmount.Equal(d("255")) { // 10 × 25.50
		t.Errorf("Expected refund 255, got %s", ret.TotalRefundAmount)
	}
}

func TestReturn_ReceiptFetch(t *testing.T) {
	pool, ctx := setupTestDB(t)
	retSvc := core.NewReturnService(pool)

	inv := sellParacetamol(t, ctx, pool, 5)
	ret, err := retSvc.ProcessReturn(ctx, inv.ID, map[int]int{inv.Items[0].ID: 2})
	if err != nil {
		t.Fatalf("ProcessReturn failed: %v", err)
	}

	got, err := retSvc.GetReturnReceipt(ctx, ret.ID)
	if err != nil {
		t.Fatalf("GetReturnReceipt failed: %v", err)
	}
	if got.InvoiceID != inv.ID || len(got.Items) != 1 || got.Items[0].MedicineName != "Paracetamol 500mg" {
		t.Errorf("Unexpected receipt: %+v", got)
	}

	if _, err := retSvc.GetReturnReceipt(ctx, 9999); err == nil {
		t.Error("Expected error for unknown return, got nil")
	}
}
