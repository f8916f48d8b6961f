package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is a sales invoice header. Every field below SubTotal is derived:
// a pure function of SubTotal and the three percentage fields, recomputed in
// full on every mutation and on every read. The stored values are a cache of
// the last computation, never a source of truth.
type Invoice struct {
	ID                 int             `json:"id"`
	CustomerID         int             `json:"customer_id"`
	CustomerName       string          `json:"customer_name"` // joined from customers
	InvoiceDate        time.Time       `json:"invoice_date"`
	SubTotal           decimal.Decimal `json:"sub_total"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	DiscountAmount     decimal.Decimal `json:"discount_amount"`
	TaxableTotal       decimal.Decimal `json:"taxable_total"`
	CGSTPercentage     decimal.Decimal `json:"cgst_percentage"`
	CGSTAmount         decimal.Decimal `json:"cgst_amount"`
	SGSTPercentage     decimal.Decimal `json:"sgst_percentage"`
	SGSTAmount         decimal.Decimal `json:"sgst_amount"`
	GrandTotal         decimal.Decimal `json:"grand_total"`
	Items              []InvoiceItem   `json:"items"`
}

// InvoiceItem is one sold line. Rate is the medicine's price at the moment of
// sale and never changes afterwards, so historical invoices stay accurate
// when catalog prices move.
type InvoiceItem struct {
	ID           int             `json:"id"`
	InvoiceID    int             `json:"invoice_id"`
	MedicineID   int             `json:"medicine_id"`
	MedicineName string          `json:"medicine_name"` // joined from medicines
	Quantity     int             `json:"quantity"`
	Rate         decimal.Decimal `json:"rate"`
}

// ReturnInvoice records a refund against an original invoice. It cascades
// with that invoice.
type ReturnInvoice struct {
	ID                int             `json:"id"`
	InvoiceID         int             `json:"invoice_id"`
	ReturnDate        time.Time       `json:"return_date"`
	TotalRefundAmount decimal.Decimal `json:"total_refund_amount"`
	Items             []ReturnItem    `json:"items"`
}

// ReturnItem carries the original sale rate, not the current catalog price.
// InvoiceItemID ties it to the sold line so cumulative over-returning can be
// capped even when two lines share a medicine.
type ReturnItem struct {
	ID            int             `json:"id"`
	ReturnID      int             `json:"return_id"`
	InvoiceItemID int             `json:"invoice_item_id"`
	MedicineID    int             `json:"medicine_id"`
	MedicineName  string          `json:"medicine_name"` // joined from medicines
	Quantity      int             `json:"quantity"`
	Rate          decimal.Decimal `json:"rate"`
}
