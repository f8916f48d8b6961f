package web

import (
	"net/http"

	"medstore-backend/internal/app"
)

type customerPayload struct {
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
}

func (p customerPayload) validate(w http.ResponseWriter, r *http.Request) bool {
	if p.Name == "" {
		writeError(w, r, "name is required", "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	if p.Phone == "" {
		writeError(w, r, "phone is required", "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	// Active customers by default; ?inactive=true flips the filter.
	active := r.URL.Query().Get("inactive") != "true"

	customers, err := h.svc.ListCustomers(r.Context(), active)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, customers)
}

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerPayload
	if !decodeJSON(w, r, &req) {
		return
	}
	if !req.validate(w, r) {
		return
	}

	customer, err := h.svc.CreateCustomer(r.Context(), app.CustomerRequest{
		Name: req.Name, Phone: req.Phone, Email: req.Email, Address: req.Address,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, customer)
}

func (h *Handler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req customerPayload
	if !decodeJSON(w, r, &req) {
		return
	}
	if !req.validate(w, r) {
		return
	}

	customer, err := h.svc.UpdateCustomer(r.Context(), id, app.CustomerRequest{
		Name: req.Name, Phone: req.Phone, Email: req.Email, Address: req.Address,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, customer)
}

func (h *Handler) deactivateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	customer, err := h.svc.DeactivateCustomer(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, customer)
}

func (h *Handler) reactivateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	customer, err := h.svc.ReactivateCustomer(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, customer)
}
