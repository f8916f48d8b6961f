package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"medstore-backend/internal/app"

	"github.com/go-chi/chi/v5"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc    app.ApplicationService
	router chi.Router
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins string) http.Handler {
	h := &Handler{svc: svc}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))
	r.Use(RequestBodyLimit(1 << 20)) // 1 MB

	r.Get("/api/health", h.health)
	r.Get("/api/dashboard", h.dashboard)

	// ── Catalog ──────────────────────────────────────────────────────────────
	r.Get("/api/suppliers", h.listSuppliers)
	r.Post("/api/suppliers", h.createSupplier)
	r.Get("/api/medicines", h.listMedicines)
	r.Post("/api/medicines", h.createMedicine)
	r.Post("/api/medicines/{id}/stock", h.addStock)

	// ── Customers ────────────────────────────────────────────────────────────
	r.Get("/api/customers", h.listCustomers)
	r.Post("/api/customers", h.createCustomer)
	r.Put("/api/customers/{id}", h.updateCustomer)
	r.Post("/api/customers/{id}/deactivate", h.deactivateCustomer)
	r.Post("/api/customers/{id}/reactivate", h.reactivateCustomer)

	// ── Invoices and returns ─────────────────────────────────────────────────
	r.Get("/api/invoices", h.listInvoices)
	r.Post("/api/invoices", h.createInvoice)
	r.Get("/api/invoices/{id}", h.getInvoice)
	r.Post("/api/invoices/{id}/items", h.addInvoiceItem)
	r.Post("/api/invoices/{id}/discount", h.applyDiscount)
	r.Post("/api/invoices/{id}/returns", h.processReturn)
	r.Post("/api/invoices/{id}/email", h.emailInvoice)
	r.Get("/api/returns/{id}", h.getReturnReceipt)

	// ── Custom orders ────────────────────────────────────────────────────────
	r.Get("/api/custom-orders", h.listCustomOrders)
	r.Post("/api/custom-orders", h.createCustomOrder)
	r.Post("/api/custom-orders/{id}/status", h.updateCustomOrderStatus)

	h.router = r
	return r
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetDashboard(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// idParam extracts the numeric {id} URL parameter. Returns false after
// writing a 400 response when it is not a valid integer.
func idParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, r, "invalid id", "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
