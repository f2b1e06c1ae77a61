package web

import (
	"net/http"

	"rk-textiles/internal/app"
	"rk-textiles/internal/core"
)

func (h *Handler) listMills(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListMills(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeList(w, result.Mills)
}

// createMill handles POST /api/mills.
func (h *Handler) createMill(w http.ResponseWriter, r *http.Request) {
	var req app.CreateMillRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	mill, err := h.svc.CreateMill(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mill)
}

func (h *Handler) getMill(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	mill, err := h.svc.GetMill(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mill)
}

// listShipments handles GET /api/mills/raw-materials?mill_id=&status=.
func (h *Handler) listShipments(w http.ResponseWriter, r *http.Request) {
	millID, ok := queryInt(w, r, "mill_id")
	if !ok {
		return
	}
	result, err := h.svc.ListShipments(r.Context(), core.ShipmentFilter{
		MillID: millID,
		Status: r.URL.Query().Get("status"),
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeList(w, result.Shipments)
}

// sendToMill handles POST /api/mills/raw-materials.
func (h *Handler) sendToMill(w http.ResponseWriter, r *http.Request) {
	var req app.SendToMillRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	shipment, err := h.svc.SendToMill(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, shipment)
}

// recordProduction handles PUT /api/mills/raw-materials/{id}: the shipment is
// completed and the fabric lands in inventory.
func (h *Handler) recordProduction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req app.RecordProductionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.RecordProduction(r.Context(), id, req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeMessage(w, "Production recorded and inventory updated", result)
}

func (h *Handler) millPerformance(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.MillPerformance(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeList(w, result.Mills)
}
