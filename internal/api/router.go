// Package api serves lookups, slip downloads and dataset replacement as a
// JSON/PDF HTTP API.
package api

import (
	"net/http"
	"time"

	"payslip/domain/core"
	"payslip/internal"
	"payslip/internal/payroll"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// AdminHeader carries the admin password on privileged requests.
const AdminHeader = "X-Admin-Password"

// Config holds API settings taken from configuration.
type Config struct {
	MaxUploadBytes int64
	RequestTimeout time.Duration
}

// Handler holds the services behind the API routes
type Handler struct {
	lookup  *payroll.LookupService
	updater *payroll.Updater
	cfg     Config
	logger  *internal.Logger
}

// NewHandler creates the API handler
func NewHandler(lookup *payroll.LookupService, updater *payroll.Updater, cfg Config, logger *internal.Logger) *Handler {
	if logger == nil {
		logger = internal.Discard
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}
	return &Handler{lookup: lookup, updater: updater, cfg: cfg, logger: logger}
}

// Routes builds the chi router
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(h.cfg.RequestTimeout))

	r.Get("/healthz", h.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.NoCache)

		r.Get("/employees/{id}", h.handleEmployee)
		r.Get("/employees/{id}/slip", h.handleSlip)

		r.Group(func(r chi.Router) {
			r.Use(h.requireAdmin)
			r.Put("/dataset", h.handleReplaceDataset)
			r.Get("/dataset/summary", h.handleSummary)
		})
	})
	return r
}

// requireAdmin rejects requests without the admin password header
func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.updater.Authorize(r.Header.Get(AdminHeader)) {
			h.logger.With("request_id", middleware.GetReqID(r.Context())).Warn("[API] admin request denied")
			writeError(w, core.ErrInvalidCredential)
			return
		}
		next.ServeHTTP(w, r)
	})
}
