package web

import (
	"net/http"

	"medstore-backend/internal/app"

	"github.com/shopspring/decimal"
)

func (h *Handler) listSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.svc.ListSuppliers(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, suppliers)
}

func (h *Handler) createSupplier(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name          string `json:"name"`
		ContactPerson string `json:"contact_person"`
		Phone         string `json:"phone"`
		Address       string `json:"address"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, r, "name is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	supplier, err := h.svc.CreateSupplier(r.Context(), app.CreateSupplierRequest{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Address:       req.Address,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, supplier)
}

func (h *Handler) listMedicines(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("q")
	inStockOnly := r.URL.Query().Get("in_stock") == "true"

	medicines, err := h.svc.ListMedicines(r.Context(), search, inStockOnly)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, medicines)
}

func (h *Handler) createMedicine(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string `json:"name"`
		Description  string `json:"description"`
		SupplierID   int    `json:"supplier_id"`
		InitialStock int    `json:"initial_stock"`
		MRP          string `json:"mrp"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, r, "name is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	mrp, err := decimal.NewFromString(req.MRP)
	if err != nil {
		writeError(w, r, "invalid mrp", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	medicine, err := h.svc.CreateMedicine(r.Context(), app.CreateMedicineRequest{
		Name:         req.Name,
		Description:  req.Description,
		SupplierID:   req.SupplierID,
		InitialStock: req.InitialStock,
		MRP:          mrp,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, medicine)
}

func (h *Handler) addStock(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	medicine, err := h.svc.AddStock(r.Context(), id, req.Quantity)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, medicine)
}
