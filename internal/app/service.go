package app

import (
	"context"

	"medstore-backend/internal/core"

	"github.com/shopspring/decimal"
)

// ApplicationService is the single interface UI adapters call. It decouples
// presentation from business logic. Implementations must contain no display
// logic of any kind.
type ApplicationService interface {
	// ListSuppliers returns all suppliers ordered by name.
	ListSuppliers(ctx context.Context) ([]core.Supplier, error)

	// CreateSupplier registers a new supplier.
	CreateSupplier(ctx context.Context, req CreateSupplierRequest) (*core.Supplier, error)

	// ListMedicines returns the catalog, optionally filtered by a
	// case-insensitive name search. inStockOnly restricts to sellable items.
	ListMedicines(ctx context.Context, search string, inStockOnly bool) ([]core.Medicine, error)

	// CreateMedicine adds a catalog item under an existing supplier.
	CreateMedicine(ctx context.Context, req CreateMedicineRequest) (*core.Medicine, error)

	// AddStock tops up a medicine's on-hand quantity.
	AddStock(ctx context.Context, medicineID, quantity int) (*core.Medicine, error)

	// ListCustomers returns customers by active flag.
	ListCustomers(ctx context.Context, active bool) ([]core.Customer, error)

	// CreateCustomer registers a customer; phone must be unique storewide.
	CreateCustomer(ctx context.Context, req CustomerRequest) (*core.Customer, error)

	// UpdateCustomer overwrites a customer's contact fields.
	UpdateCustomer(ctx context.Context, customerID int, req CustomerRequest) (*core.Customer, error)

	// DeactivateCustomer soft-deletes a customer; history stays intact.
	DeactivateCustomer(ctx context.Context, customerID int) (*core.Customer, error)

	// ReactivateCustomer restores a deactivated customer.
	ReactivateCustomer(ctx context.Context, customerID int) (*core.Customer, error)

	// CreateInvoice opens an empty invoice for a customer.
	CreateInvoice(ctx context.Context, customerID int) (*core.Invoice, error)

	// GetInvoice returns an invoice with freshly recalculated totals.
	GetInvoice(ctx context.Context, invoiceID int) (*core.Invoice, error)

	// ListInvoices returns invoices newest first; a numeric query filters by ID.
	ListInvoices(ctx context.Context, query string) ([]core.Invoice, error)

	// AddInvoiceItem sells a medicine on an invoice at its current price.
	AddInvoiceItem(ctx context.Context, invoiceID, medicineID, quantity int) (*core.Invoice, error)

	// ApplyDiscount sets the invoice discount percentage within [0,100].
	ApplyDiscount(ctx context.Context, invoiceID int, pct decimal.Decimal) (*core.Invoice, error)

	// ProcessReturn records a return against an invoice and restocks.
	ProcessReturn(ctx context.Context, invoiceID int, quantities map[int]int) (*core.ReturnInvoice, error)

	// GetReturnReceipt fetches a recorded return.
	GetReturnReceipt(ctx context.Context, returnID int) (*core.ReturnInvoice, error)

	// EmailInvoice renders the invoice PDF and mails it to the customer. A
	// delivery failure is reported as a warning, not an error, since the sale
	// itself already succeeded.
	EmailInvoice(ctx context.Context, invoiceID int) (*EmailInvoiceResult, error)

	// ListCustomOrders returns custom procurement orders newest first.
	ListCustomOrders(ctx context.Context) ([]core.CustomOrder, error)

	// CreateCustomOrder opens a procurement request for an uncatalogued medicine.
	CreateCustomOrder(ctx context.Context, req CreateCustomOrderRequest) (*core.CustomOrder, error)

	// UpdateCustomOrderStatus moves a custom order to any known status label.
	UpdateCustomOrderStatus(ctx context.Context, orderID int, status core.OrderStatus) (*core.CustomOrder, error)

	// GetDashboard aggregates the landing-page counters.
	GetDashboard(ctx context.Context) (*DashboardResult, error)
}
