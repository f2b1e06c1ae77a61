package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"rk-textiles/internal/app"
	"rk-textiles/internal/core"
	"rk-textiles/internal/logger"

	"github.com/shopspring/decimal"
)

// envelope is the shape of every JSON response.
type envelope struct {
	Success   bool              `json:"success"`
	Data      any               `json:"data,omitempty"`
	Count     *int              `json:"count,omitempty"`
	Message   string            `json:"message,omitempty"`
	Error     string            `json:"error,omitempty"`
	Code      string            `json:"code,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
	Available *decimal.Decimal  `json:"available,omitempty"`
	Requested *decimal.Decimal  `json:"requested,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

func writeEnvelope(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

// writeJSON writes a successful response carrying data.
func writeJSON(w http.ResponseWriter, status int, data any) {
	writeEnvelope(w, status, envelope{Success: true, Data: data})
}

// writeList writes a successful list response with its length in count.
func writeList[T any](w http.ResponseWriter, items []T) {
	if items == nil {
		items = []T{}
	}
	n := len(items)
	writeEnvelope(w, http.StatusOK, envelope{Success: true, Data: items, Count: &n})
}

// writeMessage writes a successful response that only carries a message.
func writeMessage(w http.ResponseWriter, message string, data any) {
	writeEnvelope(w, http.StatusOK, envelope{Success: true, Message: message, Data: data})
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	writeEnvelope(w, status, envelope{
		Error:     message,
		Code:      code,
		RequestID: logger.RequestID(r.Context()),
	})
}

// writeDomainError maps core errors onto HTTP statuses. Anything unclassified is
// logged and reported as a bare 500.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		nf  *core.NotFoundError
		ve  *core.ValidationError
		ise *core.InsufficientStockError
		ce  *core.ConflictError
	)
	switch {
	case errors.As(err, &nf):
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
	case errors.As(err, &ise):
		writeEnvelope(w, http.StatusBadRequest, envelope{
			Error:     err.Error(),
			Code:      "INSUFFICIENT_STOCK",
			Available: &ise.Available,
			Requested: &ise.Requested,
			RequestID: logger.RequestID(r.Context()),
		})
	case errors.As(err, &ve):
		writeEnvelope(w, http.StatusBadRequest, envelope{
			Error:     err.Error(),
			Code:      "VALIDATION_ERROR",
			Details:   app.ValidationDetails(err),
			RequestID: logger.RequestID(r.Context()),
		})
	case errors.As(err, &ce):
		writeError(w, r, err.Error(), "CONFLICT", http.StatusConflict)
	default:
		logger.Error(r.Context()).Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, r, "internal server error", "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}
