// Package httptransport assembles the HTTP surface: the shared middleware
// chain, the ledger module handlers, and the operational endpoints.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pensionledger/internal/platform/metrics"
	"pensionledger/internal/platform/middleware"
	admingate "pensionledger/pkg/platform/middleware/admin"
)

// ModuleHandler registers a module's routes on the router.
type ModuleHandler interface {
	Register(r chi.Router)
}

// HealthChecker reports whether a backing dependency is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// RouterConfig carries the router's dependencies.
type RouterConfig struct {
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
	Credential admingate.Credential
	Sessions   SessionIssuer
	Modules    []ModuleHandler

	// Health lists backing dependencies checked by /healthz, keyed by name.
	// In-memory deployments leave it empty and report ok unconditionally.
	Health map[string]HealthChecker
}

// NewRouter wires the middleware chain and mounts all module handlers.
// Authentication is applied globally: it resolves the caller identity when
// a credential is presented and leaves it empty otherwise, so services can
// reject unauthorized mutations as coded domain errors while queries stay
// open.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ContentTypeJSON)
	if cfg.Metrics != nil {
		r.Use(middleware.Latency(cfg.Metrics))
	}

	var sessionValidator admingate.SessionValidator
	if cfg.Sessions != nil {
		sessionValidator = cfg.Sessions
	}
	r.Use(admingate.Authenticate(cfg.Credential, sessionValidator, cfg.Logger))

	sessionHandler := newSessionHandler(cfg.Credential, cfg.Sessions, cfg.Logger)
	sessionHandler.Register(r)

	for _, module := range cfg.Modules {
		module.Register(r)
	}

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		for name, checker := range cfg.Health {
			if err := checker.Health(req.Context()); err != nil {
				cfg.Logger.WarnContext(req.Context(), "health check failed",
					"dependency", name, "error", err.Error())
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"status":"unavailable","dependency":"` + name + `"}`))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
