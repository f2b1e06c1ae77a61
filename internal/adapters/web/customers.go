package web

import (
	"net/http"

	"rk-textiles/internal/app"
	"rk-textiles/internal/core"
)

// listCustomers handles GET /api/customers?search=&business_type=.
func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.svc.ListCustomers(r.Context(), core.CustomerFilter{
		Search:       q.Get("search"),
		BusinessType: q.Get("business_type"),
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeList(w, result.Customers)
}

// registerCustomer handles POST /api/customers.
func (h *Handler) registerCustomer(w http.ResponseWriter, r *http.Request) {
	var req app.RegisterCustomerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	customer, err := h.svc.RegisterCustomer(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, customer)
}

// searchCustomer handles GET /api/customers/search?phone=.
func (h *Handler) searchCustomer(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")
	if phone == "" {
		writeError(w, r, "phone is required", "VALIDATION_ERROR", http.StatusBadRequest)
		return
	}
	lookup, err := h.svc.LookupCustomerByPhone(r.Context(), phone)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lookup)
}

func (h *Handler) getCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	customer, err := h.svc.GetCustomer(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (h *Handler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req app.UpdateCustomerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	customer, err := h.svc.UpdateCustomer(r.Context(), id, req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (h *Handler) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteCustomer(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeMessage(w, "Customer deleted", nil)
}
