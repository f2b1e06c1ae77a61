package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"rk-textiles/internal/app"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

const serviceVersion = "1.0.0"

// Options carries the optional collaborators of the HTTP adapter.
type Options struct {
	AllowedOrigins []string
	Redis          *redis.Client // nil disables the response cache
	CacheTTL       time.Duration
	Ping           func(ctx context.Context) error // database health probe; nil skips it
}

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc   app.ApplicationService
	cache *responseCache
	ping  func(ctx context.Context) error
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, opts Options) http.Handler {
	h := &Handler{
		svc:   svc,
		cache: newResponseCache(opts.Redis, opts.CacheTTL),
		ping:  opts.Ping,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Metrics)
	r.Use(Recoverer)
	r.Use(CORS(opts.AllowedOrigins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, "route not found", "NOT_FOUND", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, "method not allowed", "METHOD_NOT_ALLOWED", http.StatusMethodNotAllowed)
	})

	// ── Root, health, metrics ─────────────────────────────────────────────────
	r.Get("/", h.index)
	r.Get("/health", h.health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB
		r.Use(h.cache.Invalidate)

		// ── Customers ─────────────────────────────────────────────────────────
		r.Route("/customers", func(r chi.Router) {
			r.Get("/", h.listCustomers)
			r.Post("/", h.registerCustomer)
			r.Get("/search", h.searchCustomer)
			r.Get("/{id}", h.getCustomer)
			r.Put("/{id}", h.updateCustomer)
			r.Delete("/{id}", h.deleteCustomer)
		})

		// ── Inventory ─────────────────────────────────────────────────────────
		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", h.listInventory)
			r.Post("/", h.addStock)
			r.Get("/low-stock", h.lowStock)
			r.With(h.cache.Cached).Get("/summary", h.inventorySummary)
			r.Get("/{id}", h.getInventoryItem)
			r.Put("/{id}", h.updateInventoryItem)
			r.Delete("/{id}", h.deleteInventoryItem)
		})

		// ── Orders ────────────────────────────────────────────────────────────
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.listOrders)
			r.Post("/", h.createOrder)
			r.Post("/check-availability", h.checkAvailability)
			r.Get("/{id}", h.getOrder)
			r.Put("/{id}", h.updateOrder)
			r.Delete("/{id}", h.cancelOrder)
		})

		// ── Bills ─────────────────────────────────────────────────────────────
		r.Route("/bills", func(r chi.Router) {
			r.Get("/", h.listBills)
			r.Post("/", h.generateBill)
			r.With(h.cache.Cached).Get("/summary", h.billSummary)
			r.Get("/{id}", h.getBill)
			r.Put("/{id}/payment", h.setPaymentStatus)
		})

		// ── Mills & production ────────────────────────────────────────────────
		r.Route("/mills", func(r chi.Router) {
			r.Get("/", h.listMills)
			r.Post("/", h.createMill)
			r.Get("/raw-materials", h.listShipments)
			r.Post("/raw-materials", h.sendToMill)
			r.Put("/raw-materials/{id}", h.recordProduction)
			r.With(h.cache.Cached).Get("/performance", h.millPerformance)
			r.Get("/{id}", h.getMill)
		})

		// ── Reports ───────────────────────────────────────────────────────────
		r.Route("/reports", func(r chi.Router) {
			r.With(h.cache.Cached).Get("/sales", h.salesReport)
			r.With(h.cache.Cached).Get("/inventory", h.inventoryReport)
			r.With(h.cache.Cached).Get("/customers", h.customerReport)
			r.With(h.cache.Cached).Get("/dashboard", h.dashboard)
			r.Get("/sales.xlsx", h.exportSales)
			r.Get("/inventory.xlsx", h.exportInventory)
		})

		r.Post("/seed", h.seed)
	})

	return r
}

// index describes the running service.
func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Message   string    `json:"message"`
		Version   string    `json:"version"`
		Status    string    `json:"status"`
		Timestamp time.Time `json:"timestamp"`
	}
	writeJSON(w, http.StatusOK, response{
		Message:   "R.K. Textiles API Server",
		Version:   serviceVersion,
		Status:    "running",
		Timestamp: time.Now().UTC(),
	})
}

// health reports liveness and, when a probe is configured, database reachability.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status    string    `json:"status"`
		Database  string    `json:"database,omitempty"`
		Timestamp time.Time `json:"timestamp"`
	}
	resp := response{Status: "healthy", Timestamp: time.Now().UTC()}
	status := http.StatusOK
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		resp.Database = "ok"
		if err := h.ping(ctx); err != nil {
			resp.Status = "degraded"
			resp.Database = "unavailable"
			status = http.StatusServiceUnavailable
		}
	}
	writeJSON(w, status, resp)
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

// pathID parses the {id} URL parameter, writing a 400 when it is not a positive integer.
func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, r, "invalid id", "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// queryInt parses an optional integer query parameter; absent means 0.
func queryInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		writeError(w, r, "invalid "+name, "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return n, true
}
