package web

import (
	"net/http"

	"rk-textiles/internal/app"
	"rk-textiles/internal/core"
)

// listOrders handles GET /api/orders?status=&customer_id=.
func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	customerID, ok := queryInt(w, r, "customer_id")
	if !ok {
		return
	}
	result, err := h.svc.ListOrders(r.Context(), core.OrderFilter{
		CustomerID: customerID,
		Status:     r.URL.Query().Get("status"),
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeList(w, result.Orders)
}

// createOrder handles POST /api/orders. Stock is consumed in the same transaction.
func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req app.CreateOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	order, err := h.svc.CreateOrder(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

// checkAvailability handles POST /api/orders/check-availability.
func (h *Handler) checkAvailability(w http.ResponseWriter, r *http.Request) {
	var req app.CheckAvailabilityRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	avail, err := h.svc.CheckAvailability(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, avail)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	order, err := h.svc.GetOrder(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req app.UpdateOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	order, err := h.svc.UpdateOrder(r.Context(), id, req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// cancelOrder handles DELETE /api/orders/{id}.
func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, err := h.svc.CancelOrder(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	msg := "Order cancelled"
	if c.StockRestored {
		msg = "Order cancelled and stock restored"
	}
	writeMessage(w, msg, c)
}
