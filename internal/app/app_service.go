package app

import (
	"context"
	"fmt"
	"os"

	"medstore-backend/internal/core"
	"medstore-backend/internal/notify"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// lowStockThreshold marks medicines worth reordering on the dashboard.
const lowStockThreshold = 10

type appService struct {
	pool      *pgxpool.Pool
	catalog   core.CatalogService
	customers core.CustomerService
	invoices  core.InvoiceService
	returns   core.ReturnService
	orders    core.CustomOrderService
	mailer    notify.Mailer
	storeName string
}

// NewAppService constructs an appService that satisfies ApplicationService.
// mailer may be nil when no SMTP relay is configured; EmailInvoice then
// reports a warning instead of sending.
func NewAppService(
	pool *pgxpool.Pool,
	catalog core.CatalogService,
	customers core.CustomerService,
	invoices core.InvoiceService,
	returns core.ReturnService,
	orders core.CustomOrderService,
	mailer notify.Mailer,
) ApplicationService {
	storeName := os.Getenv("STORE_NAME")
	if storeName == "" {
		storeName = "MedStore Pharmacy"
	}
	return &appService{
		pool:      pool,
		catalog:   catalog,
		customers: customers,
		invoices:  invoices,
		returns:   returns,
		orders:    orders,
		mailer:    mailer,
		storeName: storeName,
	}
}

func (s *appService) ListSuppliers(ctx context.Context) ([]core.Supplier, error) {
	return s.catalog.GetSuppliers(ctx)
}

func (s *appService) CreateSupplier(ctx context.Context, req CreateSupplierRequest) (*core.Supplier, error) {
	return s.catalog.CreateSupplier(ctx, req.Name, req.ContactPerson, req.Phone, req.Address)
}

func (s *appService) ListMedicines(ctx context.Context, search string, inStockOnly bool) ([]core.Medicine, error) {
	if inStockOnly {
		return s.catalog.GetInStockMedicines(ctx)
	}
	return s.catalog.GetMedicines(ctx, search)
}

func (s *appService) CreateMedicine(ctx context.Context, req CreateMedicineRequest) (*core.Medicine, error) {
	return s.catalog.CreateMedicine(ctx, req.Name, req.Description, req.SupplierID, req.InitialStock, req.MRP)
}

func (s *appService) AddStock(ctx context.Context, medicineID, quantity int) (*core.Medicine, error) {
	return s.catalog.AddStock(ctx, medicineID, quantity)
}

func (s *appService) ListCustomers(ctx context.Context, active bool) ([]core.Customer, error) {
	return s.customers.GetCustomers(ctx, active)
}

func (s *appService) CreateCustomer(ctx context.Context, req CustomerRequest) (*core.Customer, error) {
	return s.customers.CreateCustomer(ctx, req.Name, req.Phone, req.Email, req.Address)
}

func (s *appService) UpdateCustomer(ctx context.Context, customerID int, req CustomerRequest) (*core.Customer, error) {
	return s.customers.UpdateCustomer(ctx, customerID, req.Name, req.Phone, req.Email, req.Address)
}

func (s *appService) DeactivateCustomer(ctx context.Context, customerID int) (*core.Customer, error) {
	return s.customers.DeactivateCustomer(ctx, customerID)
}

func (s *appService) ReactivateCustomer(ctx context.Context, customerID int) (*core.Customer, error) {
	return s.customers.ReactivateCustomer(ctx, customerID)
}

func (s *appService) CreateInvoice(ctx context.Context, customerID int) (*core.Invoice, error) {
	return s.invoices.CreateInvoice(ctx, customerID)
}

func (s *appService) GetInvoice(ctx context.Context, invoiceID int) (*core.Invoice, error) {
	return s.invoices.GetInvoice(ctx, invoiceID)
}

func (s *appService) ListInvoices(ctx context.Context, query string) ([]core.Invoice, error) {
	return s.invoices.GetInvoices(ctx, query)
}

func (s *appService) AddInvoiceItem(ctx context.Context, invoiceID, medicineID, quantity int) (*core.Invoice, error) {
	return s.invoices.AddInvoiceItem(ctx, invoiceID, medicineID, quantity)
}

func (s *appService) ApplyDiscount(ctx context.Context, invoiceID int, pct decimal.Decimal) (*core.Invoice, error) {
	return s.invoices.ApplyDiscount(ctx, invoiceID, pct)
}

func (s *appService) ProcessReturn(ctx context.Context, invoiceID int, quantities map[int]int) (*core.ReturnInvoice, error) {
	return s.returns.ProcessReturn(ctx, invoiceID, quantities)
}

func (s *appService) GetReturnReceipt(ctx context.Context, returnID int) (*core.ReturnInvoice, error) {
	return s.returns.GetReturnReceipt(ctx, returnID)
}

func (s *appService) EmailInvoice(ctx context.Context, invoiceID int) (*EmailInvoiceResult, error) {
	inv, err := s.invoices.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	customer, err := s.customers.GetCustomer(ctx, inv.CustomerID)
	if err != nil {
		return nil, err
	}

	result := &EmailInvoiceResult{InvoiceID: inv.ID}
	if customer.Email == nil || *customer.Email == "" {
		result.Warning = fmt.Sprintf("customer %s has no email address on file", customer.Name)
		return result, nil
	}
	result.Recipient = *customer.Email

	if s.mailer == nil {
		result.Warning = "no mail relay configured"
		return result, nil
	}

	pdf, err := notify.BuildInvoicePDF(inv, customer, s.storeName)
	if err != nil {
		return nil, err
	}

	subject := fmt.Sprintf("%s — Invoice #%d", s.storeName, inv.ID)
	body := fmt.Sprintf("Dear %s,\n\nPlease find attached invoice #%d for %s.\n\nThank you,\n%s\n",
		customer.Name, inv.ID, inv.GrandTotal.StringFixed(2), s.storeName)
	filename := fmt.Sprintf("invoice_%d.pdf", inv.ID)

	if err := s.mailer.SendPDF(*customer.Email, subject, body, filename, pdf); err != nil {
		// The invoice is already committed; a failed send must not look like a
		// failed sale.
		result.Warning = fmt.Sprintf("failed to send email: %v", err)
		return result, nil
	}

	result.Sent = true
	return result, nil
}

func (s *appService) ListCustomOrders(ctx context.Context) ([]core.CustomOrder, error) {
	return s.orders.GetCustomOrders(ctx)
}

func (s *appService) CreateCustomOrder(ctx context.Context, req CreateCustomOrderRequest) (*core.CustomOrder, error) {
	return s.orders.CreateCustomOrder(ctx, req.CustomerID, req.SupplierID, req.MedicineName, req.Quantity, req.Notes)
}

func (s *appService) UpdateCustomOrderStatus(ctx context.Context, orderID int, status core.OrderStatus) (*core.CustomOrder, error) {
	return s.orders.UpdateStatus(ctx, orderID, status)
}

func (s *appService) GetDashboard(ctx context.Context) (*DashboardResult, error) {
	var r DashboardResult
	err := s.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM suppliers),
			(SELECT COUNT(*) FROM medicines),
			(SELECT COUNT(*) FROM medicines WHERE in_stock = 0),
			(SELECT COUNT(*) FROM medicines WHERE in_stock > 0 AND in_stock < $1),
			(SELECT COUNT(*) FROM customers WHERE is_active),
			(SELECT COUNT(*) FROM invoices),
			(SELECT COALESCE(SUM(grand_total), 0) FROM invoices WHERE invoice_date::date = CURRENT_DATE),
			(SELECT COUNT(*) FROM custom_orders WHERE status = 'Pending')
	`, lowStockThreshold).Scan(
		&r.SupplierCount, &r.MedicineCount, &r.OutOfStockCount, &r.LowStockCount,
		&r.ActiveCustomerCount, &r.InvoiceCount, &r.TodaySalesTotal, &r.PendingOrderCount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard counters: %w", err)
	}
	return &r, nil
}
