package web

import (
	"net/http"

	"rk-textiles/internal/app"
	"rk-textiles/internal/core"
)

// listInventory handles GET /api/inventory?fabric_type=&low_stock=true.
func (h *Handler) listInventory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.svc.ListInventory(r.Context(), core.InventoryFilter{
		FabricType: q.Get("fabric_type"),
		LowStock:   q.Get("low_stock") == "true",
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeList(w, result.Items)
}

// addStock handles POST /api/inventory. A new (type, color) line answers 201,
// a top-up of an existing line answers 200.
func (h *Handler) addStock(w http.ResponseWriter, r *http.Request) {
	var req app.AddStockRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.AddStock(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if result.Created {
		writeJSON(w, http.StatusCreated, result.Item)
		return
	}
	writeEnvelope(w, http.StatusOK, envelope{Success: true, Data: result.Item, Message: "Stock added to existing item"})
}

func (h *Handler) lowStock(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.LowStock(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeList(w, result.Items)
}

func (h *Handler) inventorySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.InventorySummary(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) getInventoryItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	item, err := h.svc.GetInventoryItem(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) updateInventoryItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req app.UpdateInventoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	item, err := h.svc.UpdateInventoryItem(r.Context(), id, req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) deleteInventoryItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteInventoryItem(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeMessage(w, "Inventory item deleted", nil)
}
