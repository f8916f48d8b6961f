package app

import "github.com/shopspring/decimal"

// CreateSupplierRequest is the input for registering a supplier.
type CreateSupplierRequest struct {
	Name          string
	ContactPerson string
	Phone         string
	Address       string
}

// CreateMedicineRequest is the input for adding a catalog item.
type CreateMedicineRequest struct {
	Name         string
	Description  string
	SupplierID   int
	InitialStock int
	MRP          decimal.Decimal
}

// CustomerRequest is the input for creating or updating a customer. Email and
// Address are optional.
type CustomerRequest struct {
	Name    string
	Phone   string
	Email   *string
	Address *string
}

// CreateCustomOrderRequest is the input for opening a custom procurement
// order. MedicineName is free text, not a catalog reference.
type CreateCustomOrderRequest struct {
	CustomerID   int
	SupplierID   int
	MedicineName string
	Quantity     int
	Notes        *string
}
