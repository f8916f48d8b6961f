package core

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// InvoiceTotals holds the six derived financial fields of an invoice.
type InvoiceTotals struct {
	SubTotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxableTotal   decimal.Decimal
	CGSTAmount     decimal.Decimal
	SGSTAmount     decimal.Decimal
	GrandTotal     decimal.Decimal
}

// SumLines returns the pre-discount subtotal of a set of sold lines:
// Σ quantity × rate. Zero for an empty slice.
func SumLines(items []InvoiceItem) decimal.Decimal {
	sub := decimal.Zero
	for _, it := range items {
		sub = sub.Add(it.Rate.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sub
}

// ComputeTotals derives all invoice financial fields from the subtotal and
// the stored percentages, using exact decimal arithmetic throughout.
// Ordering matters: the discount is applied before tax, and CGST/SGST are
// each computed from the same taxable total, never compounded on each other.
func ComputeTotals(subTotal, discountPct, cgstPct, sgstPct decimal.Decimal) InvoiceTotals {
	discount := subTotal.Mul(discountPct).Div(hundred)
	taxable := subTotal.Sub(discount)
	cgst := taxable.Mul(cgstPct).Div(hundred)
	sgst := taxable.Mul(sgstPct).Div(hundred)

	return InvoiceTotals{
		SubTotal:       subTotal,
		DiscountAmount: discount,
		TaxableTotal:   taxable,
		CGSTAmount:     cgst,
		SGSTAmount:     sgst,
		GrandTotal:     taxable.Add(cgst).Add(sgst),
	}
}

// ValidateDiscount bounds a discount percentage to [0,100].
func ValidateDiscount(pct decimal.Decimal) error {
	if pct.IsNegative() || pct.GreaterThan(hundred) {
		return ErrDiscountOutOfRange
	}
	return nil
}
