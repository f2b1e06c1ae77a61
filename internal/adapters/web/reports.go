package web

import (
	"fmt"
	"net/http"
	"time"

	"rk-textiles/internal/app"
	"rk-textiles/internal/export"
)

const dateLayout = "2006-01-02"

// salesPeriod reads from_date and to_date. Both accept YYYY-MM-DD or RFC 3339;
// a bare to_date covers the whole day.
func salesPeriod(r *http.Request) (app.SalesReportRequest, error) {
	var req app.SalesReportRequest
	q := r.URL.Query()

	if raw := q.Get("from_date"); raw != "" {
		t, _, err := parseReportTime(raw)
		if err != nil {
			return req, fmt.Errorf("invalid from_date %q", raw)
		}
		req.From = t
	}
	if raw := q.Get("to_date"); raw != "" {
		t, dateOnly, err := parseReportTime(raw)
		if err != nil {
			return req, fmt.Errorf("invalid to_date %q", raw)
		}
		if dateOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		req.To = t
	}
	return req, nil
}

func parseReportTime(raw string) (time.Time, bool, error) {
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	return t, false, err
}

// salesReport handles GET /api/reports/sales?from_date=&to_date=.
func (h *Handler) salesReport(w http.ResponseWriter, r *http.Request) {
	req, err := salesPeriod(r)
	if err != nil {
		writeError(w, r, err.Error(), "VALIDATION_ERROR", http.StatusBadRequest)
		return
	}
	report, err := h.svc.SalesReport(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) inventoryReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.InventoryReport(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) customerReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.CustomerReport(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Dashboard(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// exportSales handles GET /api/reports/sales.xlsx.
func (h *Handler) exportSales(w http.ResponseWriter, r *http.Request) {
	req, err := salesPeriod(r)
	if err != nil {
		writeError(w, r, err.Error(), "VALIDATION_ERROR", http.StatusBadRequest)
		return
	}
	data, err := h.svc.ExportSalesReport(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeWorkbook(w, "sales-report", data)
}

// exportInventory handles GET /api/reports/inventory.xlsx.
func (h *Handler) exportInventory(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.ExportInventoryReport(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeWorkbook(w, "inventory-report", data)
}

func writeWorkbook(w http.ResponseWriter, name string, data []byte) {
	filename := fmt.Sprintf("%s-%s.xlsx", name, time.Now().Format(dateLayout))
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// seed handles POST /api/seed.
func (h *Handler) seed(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.SeedDemoData(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeMessage(w, "Demo data loaded", result)
}
