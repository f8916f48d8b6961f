package core_test

import (
	"errors"
	"testing"

	"medstore-backend/internal/core"
)

func TestInvoice_CreateEmpty(t *testing.T) {
	pool, ctx := setupTestDB(t)
	svc := core.NewInvoiceService(pool)

	inv, err := svc.CreateInvoice(ctx, 1)
	if err != nil {
		t.Fatalf("CreateInvoice failed: %v", err)
	}
	if !inv.GrandTotal.IsZero() || !inv.SubTotal.IsZero() {
		t.Errorf("Empty invoice must have zero totals, got sub=%s grand=%s", inv.SubTotal, inv.GrandTotal)
	}
	if !inv.CGSTPercentage.Equal(d("9")) || !inv.SGSTPercentage.Equal(d("9")) {
		t.Errorf("Expected default 9/9 tax rates, got %s/%s", inv.CGSTPercentage, inv.SGSTPercentage)
	}
	if inv.CustomerName != "Asha Rao" {
		t.Errorf("Expected joined customer name, got %q", inv.CustomerName)
	}
}

func TestInvoice_CreateForUnknownCustomer(t *testing.T) {
	pool, ctx := setupTestDB(t)
	svc := core.NewInvoiceService(pool)

	if _, err := svc.CreateInvoice(ctx, 999); err == nil {
		t.Error("Expected error for unknown customer, got nil")
	}
}

func TestInvoice_AddItem_DecrementsStockAndCapturesRate(t *testing.T) {
	pool, ctx := setupTestDB(t)
	svc := core.NewInvoiceService(pool)

	inv, err := svc.CreateInvoice(ctx, 1)
	if err != nil {
		t.Fatalf("CreateInvoice failed: %v", err)
	}

	// Paracetamol: 100 in stock @ 25.50
	inv, err = svc.AddInvoiceItem(ctx, inv.ID, 1, 4)
	if err != nil {
		t.Fatalf("AddInvoiceItem failed: %v", err)
	}

	if got := getStock(t, ctx, pool, 1); got != 96 {
		t.Errorf("Expected stock 96 after selling 4, got %d", got)
	}
	if len(inv.Items) != 1 || !inv.Items[0].Rate.Equal(d("25.50")) {
		t.Fatalf("Expected one item at rate 25.50, got %+v", inv.Items)
	}

	// sub = 4 × 25.50 = 102; no discount; cgst = sgst = 9.18; grand = 120.36
	if !inv.SubTotal.Equal(d("102")) {
		t.Errorf("Expected sub_total 102, got %s", inv.SubTotal)
	}
	if !inv.GrandTotal.Equal(d("120.36")) {
		t.Errorf("Expected grand_total 120.36, got %s", inv.GrandTotal)
	}

	// The captured rate must not move with the catalog price.
	if _, err := pool.Exec(ctx, "UPDATE medicines SET mrp = 999 WHERE id = 1"); err != nil {
		t.Fatalf("Failed to reprice medicine: %v", err)
	}
	inv, err = svc.GetInvoice(ctx, inv.ID)
	if err != nil {
		t.Fatalf("GetInvoice failed: %v", err)
	}
	if !inv.Items[0].Rate.Equal(d("25.50")) || !inv.GrandTotal.Equal(d("120.36")) {
		t.Errorf("Historical invoice drifted after reprice: rate=%s grand=%s", inv.Items[0].Rate, inv.GrandTotal)
	}
}

func TestInvoice_AddItem_InsufficientStock(t *testing.T) {
	pool, ctx := setupTestDB(t)
	svc := core.NewInvoiceService(pool)

	inv, err := svc.CreateInvoice(ctx, 1)
	if err != nil {
		t.Fatalf("CreateInvoice failed: %v", err)
	}

	// Amoxicillin has 50 in stock.
	_, err = svc.AddInvoiceItem(ctx, inv.ID, 2, 51)
	if !errors.Is(err, core.ErrInsufficientStock) {
		t.Fatalf("Expected ErrInsufficientStock, got %v", err)
	}

	// The rejection must leave both the invoice and the stock untouched.
	if got := getStock(t, ctx, pool, 2); got != 50 {
		t.Errorf("Stock changed on rejected sale: %d", got)
	}
	inv, err = svc.GetInvoice(ctx, inv.ID)
	if err != nil {
		t.Fatalf("GetInvoice failed: %v", err)
	}
	if len(inv.Items) != 0 || !inv.GrandTotal.IsZero() {
		t.Errorf("Invoice changed on rejected sale: %+v", inv)
	}

	// Selling exactly the remaining stock succeeds and drains it.
	if _, err := svc.AddInvoiceItem(ctx, inv.ID, 2, 50); err != nil {
		t.Fatalf("Selling full stock failed: %v", err)
	}
	if got := getStock(t, ctx, pool, 2); got != 0 {
		t.Errorf("Expected stock 0, got %d", got)
	}
}

func TestInvoice_Discount(t *testing.T) {
	pool, ctx := setupTestDB(t)
	svc := core.NewInvoiceService(pool)

	inv, err := svc.CreateInvoice(ctx, 1)
	if err != nil {
		t.Fatalf("CreateInvoice failed: %v", err)
	}
	if _, err := svc.AddInvoiceItem(ctx, inv.ID, 1, 4); err != nil {
		t.Fatalf("AddInvoiceItem failed: %v", err)
	}

	// sub = 102; 10% discount → taxable 91.80; tax 2×8.262; grand 108.324
	inv, err = svc.ApplyDiscount(ctx, inv.ID, d("10"))
	if err != nil {
		t.Fatalf("ApplyDiscount failed: %v", err)
	}
	if !inv.DiscountAmount.Equal(d("10.20")) {
		t.Errorf("Expected discount 10.20, got %s", inv.DiscountAmount)
	}
	if !inv.TaxableTotal.Equal(d("91.80")) {
		t.Errorf("Expected taxable 91.80, got %s", inv.TaxableTotal)
	}
	if !inv.GrandTotal.Equal(d("108.324")) {
		t.Errorf("Expected grand 108.324, got %s", inv.GrandTotal)
	}

	// Out-of-range percentages are rejected without touching the invoice.
	if _, err := svc.ApplyDiscount(ctx, inv.ID, d("101")); !errors.Is(err, core.ErrDiscountOutOfRange) {
		t.Errorf("Expected ErrDiscountOutOfRange for 101, got %v", err)
	}
	if _, err := svc.ApplyDiscount(ctx, inv.ID, d("-1")); !errors.Is(err, core.ErrDiscountOutOfRange) {
		t.Errorf("Expected ErrDiscountOutOfRange for -1, got %v", err)
	}
	inv, err = svc.GetInvoice(ctx, inv.ID)
	if err != nil {
		t.Fatalf("GetInvoice failed: %v", err)
	}
	if !inv.DiscountPercentage.Equal(d("10")) {
		t.Errorf("Discount changed by rejected update: %s", inv.DiscountPercentage)
	}
}

func TestInvoice_RecalculationIsIdempotent(t *testing.T) {
	pool, ctx := setupTestDB(t)
	svc := core.NewInvoiceService(pool)

	inv, err := svc.CreateInvoice(ctx, 1)
	if err != nil {
		t.Fatalf("CreateInvoice failed: %v", err)
	}
	if _, err := svc.AddInvoiceItem(ctx, inv.ID, 1, 3); err != nil {
		t.Fatalf("AddInvoiceItem failed: %v", err)
	}

	first, err := svc.GetInvoice(ctx, inv.ID)
	if err != nil {
		t.Fatalf("First GetInvoice failed: %v", err)
	}
	second, err := svc.GetInvoice(ctx, inv.ID)
	if err != nil {
		t.Fatalf("Second GetInvoice failed: %v", err)
	}
	if !first.GrandTotal.Equal(second.GrandTotal) || !first.TaxableTotal.Equal(second.TaxableTotal) {
		t.Errorf("Repeated reads drifted: %s vs %s", first.GrandTotal, second.GrandTotal)
	}
}

func TestInvoice_RepairsStaleStoredTotals(t *testing.T) {
	pool, ctx := setupTestDB(t)
	svc := core.NewInvoiceService(pool)

	inv, err := svc.CreateInvoice(ctx, 1)
	if err != nil {
		t.Fatalf("CreateInvoice failed: %v", err)
	}
	if _, err := svc.AddInvoiceItem(ctx, inv.ID, 1, 4); err != nil {
		t.Fatalf("AddInvoiceItem failed: %v", err)
	}

	// Corrupt the stored cache directly; the next read must repair it.
	if _, err := pool.Exec(ctx, "UPDATE invoices SET grand_total = 1, sub_total = 1 WHERE id = $1", inv.ID); err != nil {
		t.Fatalf("Failed to corrupt stored totals: %v", err)
	}

	inv, err = svc.GetInvoice(ctx, inv.ID)
	if err != nil {
		t.Fatalf("GetInvoice failed: %v", err)
	}
	if !inv.SubTotal.Equal(d("102")) || !inv.GrandTotal.Equal(d("120.36")) {
		t.Errorf("Stale totals not repaired: sub=%s grand=%s", inv.SubTotal, inv.GrandTotal)
	}
}

func TestInvoice_ListAndFilter(t *testing.T) {
	pool, ctx := setupTestDB(t)
	svc := core.NewInvoiceService(pool)

	a, err := svc.CreateInvoice(ctx, 1)
	if err != nil {
		t.Fatalf("CreateInvoice failed: %v", err)
	}
	b, err := svc.CreateInvoice(ctx, 1)
	if err != nil {
		t.Fatalf("CreateInvoice failed: %v", err)
	}

	all, err := svc.GetInvoices(ctx, "")
	if err != nil {
		t.Fatalf("GetInvoices failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("Expected 2 invoices, got %d", len(all))
	}
	if all[0].ID != b.ID {
		t.Errorf("Expected newest first, got %d before %d", all[0].ID, all[1].ID)
	}

	filtered, err := svc.GetInvoices(ctx, "1")
	if err != nil {
		t.Fatalf("Filtered GetInvoices failed: %v", err)
	}
	if len(filtered) != 1 || filtered[0].ID != a.ID {
		t.Errorf("Expected only invoice %d, got %+v", a.ID, filtered)
	}
}
