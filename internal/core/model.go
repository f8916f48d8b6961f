package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supplier represents a medicine supplier master record.
type Supplier struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	ContactPerson string    `json:"contact_person"`
	Phone         string    `json:"phone"`
	Address       string    `json:"address"`
	CreatedAt     time.Time `json:"created_at"`
}

// Medicine represents a stocked catalog item. InStock never goes negative;
// the store enforces this with a CHECK constraint on top of the
// application-level guard in AddInvoiceItem.
type Medicine struct {
	ID           int             `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	SupplierID   int             `json:"supplier_id"`
	SupplierName string          `json:"supplier_name"` // joined from suppliers
	InStock      int             `json:"in_stock"`
	MRP          decimal.Decimal `json:"mrp"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Customer is soft-deleted only: deactivation flips IsActive and the row is
// never removed, so phone uniqueness spans active and inactive customers.
type Customer struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Phone    string  `json:"phone"`
	Email    *string `json:"email,omitempty"`
	Address  *string `json:"address,omitempty"`
	IsActive bool    `json:"is_active"`
}

// OrderStatus enumerates the custom order workflow labels.
//
//	Pending → Ordered → Arrived → Delivered
//	Cancelled reachable from any state
//
// The transition graph is deliberately permissive: any label from the set is
// accepted regardless of the current state.
type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusOrdered   OrderStatus = "Ordered"
	StatusArrived   OrderStatus = "Arrived"
	StatusDelivered OrderStatus = "Delivered"
	StatusCancelled OrderStatus = "Cancelled"
)

// ValidStatus reports whether s is one of the five enumerated labels.
func ValidStatus(s OrderStatus) bool {
	switch s {
	case StatusPending, StatusOrdered, StatusArrived, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// CustomOrder is a work order for a medicine not yet stocked. MedicineName is
// free text on purpose — it is not linked to the catalog.
type CustomOrder struct {
	ID           int         `json:"id"`
	CustomerID   int         `json:"customer_id"`
	CustomerName string      `json:"customer_name"` // joined from customers
	SupplierID   int         `json:"supplier_id"`
	SupplierName string      `json:"supplier_name"` // joined from suppliers
	MedicineName string      `json:"medicine_name"`
	Quantity     int         `json:"quantity"`
	Status       OrderStatus `json:"status"`
	OrderDate    time.Time   `json:"order_date"`
	Notes        *string     `json:"notes,omitempty"`
}
