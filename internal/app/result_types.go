package app

import "github.com/shopspring/decimal"

// EmailInvoiceResult is returned by EmailInvoice. Warning carries a delivery
// failure message when Sent is false; the operation itself still succeeded.
type EmailInvoiceResult struct {
	InvoiceID int    `json:"invoice_id"`
	Recipient string `json:"recipient,omitempty"`
	Sent      bool   `json:"sent"`
	Warning   string `json:"warning,omitempty"`
}

// DashboardResult aggregates the landing-page counters.
type DashboardResult struct {
	SupplierCount       int             `json:"supplier_count"`
	MedicineCount       int             `json:"medicine_count"`
	OutOfStockCount     int             `json:"out_of_stock_count"`
	LowStockCount       int             `json:"low_stock_count"`
	ActiveCustomerCount int             `json:"active_customer_count"`
	InvoiceCount        int             `json:"invoice_count"`
	TodaySalesTotal     decimal.Decimal `json:"today_sales_total"`
	PendingOrderCount   int             `json:"pending_order_count"`
}
