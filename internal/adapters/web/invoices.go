package web

import (
	"net/http"

	"github.com/shopspring/decimal"
)

func (h *Handler) listInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.svc.ListInvoices(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, invoices)
}

func (h *Handler) createInvoice(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerID int `json:"customer_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.CustomerID <= 0 {
		writeError(w, r, "customer_id is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	invoice, err := h.svc.CreateInvoice(r.Context(), req.CustomerID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, invoice)
}

func (h *Handler) getInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	invoice, err := h.svc.GetInvoice(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, invoice)
}

func (h *Handler) addInvoiceItem(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req struct {
		MedicineID int `json:"medicine_id"`
		Quantity   int `json:"quantity"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.MedicineID <= 0 {
		writeError(w, r, "medicine_id is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if req.Quantity <= 0 {
		writeError(w, r, "quantity must be positive", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	invoice, err := h.svc.AddInvoiceItem(r.Context(), id, req.MedicineID, req.Quantity)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, invoice)
}

func (h *Handler) applyDiscount(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req struct {
		DiscountPercentage string `json:"discount_percentage"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	pct, err := decimal.NewFromString(req.DiscountPercentage)
	if err != nil {
		writeError(w, r, "invalid discount_percentage", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	invoice, err := h.svc.ApplyDiscount(r.Context(), id, pct)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, invoice)
}

func (h *Handler) processReturn(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req struct {
		// invoice item ID → quantity returned
		Items map[int]int `json:"items"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	receipt, err := h.svc.ProcessReturn(r.Context(), id, req.Items)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, receipt)
}

func (h *Handler) getReturnReceipt(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	receipt, err := h.svc.GetReturnReceipt(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, receipt)
}

func (h *Handler) emailInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	result, err := h.svc.EmailInvoice(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}
