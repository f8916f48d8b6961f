package notify_test

import (
	"bytes"
	"testing"
	"time"

	"medstore-backend/internal/core"
	"medstore-backend/internal/notify"

	"github.com/shopspring/decimal"
)

func TestBuildInvoicePDF(t *testing.T) {
	addr := "12 MG Road, Bengaluru"
	customer := &core.Customer{ID: 1, Name: "Asha Rao", Phone: "9000000001", Address: &addr}
	inv := &core.Invoice{
		ID:                 42,
		CustomerID:         1,
		CustomerName:       "Asha Rao",
		InvoiceDate:        time.Date(2026, 8, 30, 11, 15, 0, 0, time.UTC),
		SubTotal:           decimal.RequireFromString("102"),
		DiscountPercentage: decimal.RequireFromString("10"),
		DiscountAmount:     decimal.RequireFromString("10.2"),
		TaxableTotal:       decimal.RequireFromString("91.8"),
		CGSTPercentage:     decimal.RequireFromString("9"),
		CGSTAmount:         decimal.RequireFromString("8.262"),
		SGSTPercentage:     decimal.RequireFromString("9"),
		SGSTAmount:         decimal.RequireFromString("8.262"),
		GrandTotal:         decimal.RequireFromString("108.324"),
		Items: []core.InvoiceItem{
			{ID: 1, InvoiceID: 42, MedicineID: 1, MedicineName: "Paracetamol 500mg", Quantity: 4, Rate: decimal.RequireFromString("25.50")},
		},
	}

	pdf, err := notify.BuildInvoicePDF(inv, customer, "MedStore Pharmacy")
	if err != nil {
		t.Fatalf("BuildInvoicePDF failed: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Errorf("Output is not a PDF, starts with %q", pdf[:min(8, len(pdf))])
	}
	if len(pdf) < 500 {
		t.Errorf("PDF suspiciously small: %d bytes", len(pdf))
	}
}

func TestBuildInvoicePDF_NoItems(t *testing.T) {
	customer := &core.Customer{ID: 1, Name: "Asha Rao", Phone: "9000000001"}
	inv := &core.Invoice{
		ID: 7, CustomerID: 1, CustomerName: "Asha Rao", InvoiceDate: time.Now(),
		SubTotal: decimal.Zero, DiscountPercentage: decimal.Zero, DiscountAmount: decimal.Zero,
		TaxableTotal: decimal.Zero, CGSTPercentage: decimal.RequireFromString("9"), CGSTAmount: decimal.Zero,
		SGSTPercentage: decimal.RequireFromString("9"), SGSTAmount: decimal.Zero, GrandTotal: decimal.Zero,
	}

	pdf, err := notify.BuildInvoicePDF(inv, customer, "MedStore Pharmacy")
	if err != nil {
		t.Fatalf("BuildInvoicePDF failed for empty invoice: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Error("Output is not a PDF")
	}
}
