package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"medstore-backend/internal/core"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writeCreated writes a JSON response with status 201.
func writeCreated(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceError maps service-layer errors to stable HTTP codes. Business
// rejections get 409, validation failures 400, missing rows 404, everything
// else 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrInsufficientStock):
		writeError(w, r, err.Error(), "INSUFFICIENT_STOCK", http.StatusConflict)
	case errors.Is(err, core.ErrPhoneTaken):
		writeError(w, r, err.Error(), "PHONE_TAKEN", http.StatusConflict)
	case errors.Is(err, core.ErrReturnExceedsSold):
		writeError(w, r, err.Error(), "RETURN_EXCEEDS_SOLD", http.StatusConflict)
	case errors.Is(err, core.ErrEmptyReturn):
		writeError(w, r, err.Error(), "EMPTY_RETURN", http.StatusBadRequest)
	case errors.Is(err, core.ErrDiscountOutOfRange):
		writeError(w, r, err.Error(), "DISCOUNT_OUT_OF_RANGE", http.StatusBadRequest)
	case errors.Is(err, core.ErrInvalidStatus):
		writeError(w, r, err.Error(), "INVALID_STATUS", http.StatusBadRequest)
	case strings.Contains(err.Error(), "not found"):
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
	default:
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}
