package notify

import (
	"bytes"
	"fmt"

	"medstore-backend/internal/core"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/shopspring/decimal"
)

// BuildInvoicePDF renders a printable tax invoice. The layout mirrors the
// paper bills the shop hands over the counter: header, customer block, item
// table, then the totals ladder from subtotal down to grand total.
func BuildInvoicePDF(inv *core.Invoice, customer *core.Customer, storeName string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, storeName, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Tax Invoice #%d", inv.ID), "", 1, "C", false, 0, "")
	pdf.CellFormat(190, 6, fmt.Sprintf("Date: %s", inv.InvoiceDate.Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Customer block
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Billed To", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Name: %s", customer.Name), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Phone: %s", customer.Phone), "RB", 1, "L", false, 0, "")
	if customer.Address != nil && *customer.Address != "" {
		pdf.CellFormat(190, 7, fmt.Sprintf("Address: %s", *customer.Address), "LRB", 1, "L", false, 0, "")
	}
	pdf.Ln(5)

	// Item table
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(12, 7, "#", "1", 0, "C", true, 0, "")
	pdf.CellFormat(93, 7, "Medicine", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Rate", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Amount", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for i, it := range inv.Items {
		name := it.MedicineName
		if len(name) > 45 {
			name = name[:42] + "..."
		}
		amount := it.Rate.Mul(decimal.NewFromInt(int64(it.Quantity)))
		pdf.CellFormat(12, 6, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(93, 6, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%d", it.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, it.Rate.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, amount.StringFixed(2), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(3)

	// Totals ladder
	totalRow := func(label, value string, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Arial", style, 10)
		pdf.CellFormat(130, 6, "", "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, value, "1", 1, "R", false, 0, "")
	}
	totalRow("Sub Total", inv.SubTotal.StringFixed(2), false)
	totalRow(fmt.Sprintf("Disc %s%%", inv.DiscountPercentage.String()), inv.DiscountAmount.StringFixed(2), false)
	totalRow("Taxable", inv.TaxableTotal.StringFixed(2), false)
	totalRow(fmt.Sprintf("CGST %s%%", inv.CGSTPercentage.String()), inv.CGSTAmount.StringFixed(2), false)
	totalRow(fmt.Sprintf("SGST %s%%", inv.SGSTPercentage.String()), inv.SGSTAmount.StringFixed(2), false)
	totalRow("Grand Total", inv.GrandTotal.StringFixed(2), true)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}
