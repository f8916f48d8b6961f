package web

import (
	"net/http"

	"medstore-backend/internal/app"
	"medstore-backend/internal/core"
)

func (h *Handler) listCustomOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.ListCustomOrders(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, orders)
}

func (h *Handler) createCustomOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerID   int     `json:"customer_id"`
		SupplierID   int     `json:"supplier_id"`
		MedicineName string  `json:"medicine_name"`
		Quantity     int     `json:"quantity"`
		Notes        *string `json:"notes"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.MedicineName == "" {
		writeError(w, r, "medicine_name is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if req.Quantity <= 0 {
		writeError(w, r, "quantity must be positive", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	order, err := h.svc.CreateCustomOrder(r.Context(), app.CreateCustomOrderRequest{
		CustomerID:   req.CustomerID,
		SupplierID:   req.SupplierID,
		MedicineName: req.MedicineName,
		Quantity:     req.Quantity,
		Notes:        req.Notes,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, order)
}

func (h *Handler) updateCustomOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	order, err := h.svc.UpdateCustomOrderStatus(r.Context(), id, core.OrderStatus(req.Status))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, order)
}
