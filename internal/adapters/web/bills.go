package web

import (
	"net/http"

	"rk-textiles/internal/app"
	"rk-textiles/internal/core"
)

// listBills handles GET /api/bills?payment_status=&customer_id=.
func (h *Handler) listBills(w http.ResponseWriter, r *http.Request) {
	customerID, ok := queryInt(w, r, "customer_id")
	if !ok {
		return
	}
	result, err := h.svc.ListBills(r.Context(), core.BillFilter{
		CustomerID:    customerID,
		PaymentStatus: r.URL.Query().Get("payment_status"),
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeList(w, result.Bills)
}

// generateBill handles POST /api/bills.
func (h *Handler) generateBill(w http.ResponseWriter, r *http.Request) {
	var req app.GenerateBillRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	bill, err := h.svc.GenerateBill(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, bill)
}

func (h *Handler) billSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.BillSummary(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// getBill returns the bill with its order and customer attached.
func (h *Handler) getBill(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	detail, err := h.svc.GetBill(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// setPaymentStatus handles PUT /api/bills/{id}/payment.
func (h *Handler) setPaymentStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req app.PaymentStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	bill, err := h.svc.SetPaymentStatus(r.Context(), id, req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bill)
}
