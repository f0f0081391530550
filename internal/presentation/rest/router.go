package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/aniketri/real-insights-data/pkg/auth"
	pkgpostgres "github.com/aniketri/real-insights-data/pkg/postgres"
)

// RouterConfig carries what the HTTP surface needs.
type RouterConfig struct {
	Handlers    Handlers
	JWT         *auth.JWTService
	DB          pkgpostgres.Pinger // nil skips the readiness database check
	Metrics     http.Handler       // nil disables /metrics
	Logger      *slog.Logger
	ServiceName string
}

// API holds the HTTP handlers of the service.
type API struct {
	h       Handlers
	logger  *slog.Logger
	db      pkgpostgres.Pinger
	service string
}

// NewRouter builds the chi router: probes and metrics are public, /api/v1
// requires a bearer token.
func NewRouter(cfg RouterConfig) http.Handler {
	api := &API{h: cfg.Handlers, logger: cfg.Logger, db: cfg.DB, service: cfg.ServiceName}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", api.liveness)
	r.Get("/readyz", api.readiness)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.HTTPMiddleware(cfg.JWT, nil))

		r.Post("/amortization", api.computeSchedule)

		r.Route("/loans", func(r chi.Router) {
			r.Get("/", api.listLoans)
			r.Post("/", api.createLoan)
			r.Route("/{loanID}", func(r chi.Router) {
				r.Get("/", api.getLoan)
				r.Patch("/", api.updateLoan)
				r.Delete("/", api.deleteLoan)
				r.Get("/amortization-schedule", api.loanSchedule)
				r.Get("/notes", api.listNotes)
				r.Post("/notes", api.addNote)
				r.Put("/notes/{noteID}", api.editNote)
				r.Delete("/notes/{noteID}", api.deleteNote)
			})
		})

		r.Get("/dashboard", api.dashboard)

		r.Route("/reports", func(r chi.Router) {
			r.Get("/", api.reports)
			r.Post("/", api.createReport)
			r.Get("/{reportID}/runs", api.listReportRuns)
			r.Post("/{reportID}/runs", api.runReport)
		})

		r.Get("/export/loans", api.exportLoans)
	})

	return r
}

// RequestLogger logs every request with method, path, status, duration and request id.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			logger.InfoContext(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
				"remote_addr", r.RemoteAddr,
			)
		})
	}
}

func (a *API) liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": a.service,
	})
}

func (a *API) readiness(w http.ResponseWriter, r *http.Request) {
	if a.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pkgpostgres.HealthCheck(ctx, a.db); err != nil {
			a.logger.WarnContext(r.Context(), "readiness check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status":  "unavailable",
				"service": a.service,
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ready",
		"service": a.service,
	})
}
