// Package httptransport assembles the public HTTP surface.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tourmint/pkg/platform/middleware/admin"
	"tourmint/pkg/platform/middleware/caller"
	"tourmint/pkg/platform/middleware/request"
	"tourmint/pkg/platform/validation"
)

const requestTimeout = 30 * time.Second

// RouteRegistrar is implemented by module handlers.
type RouteRegistrar interface {
	Register(r chi.Router)
}

// OpsRegistrar is implemented by handlers that expose operator routes.
type OpsRegistrar interface {
	RegisterOps(r chi.Router)
}

// Config collects everything the router mounts.
type Config struct {
	Logger        *slog.Logger
	Metrics       request.Observer
	Tokens        caller.TokenValidator
	AdminAPIToken string
	Health        RouteRegistrar
	Public        []RouteRegistrar
	Ops           []OpsRegistrar
}

// NewRouter wires all endpoints with the shared middleware stack. Module routes
// require a caller token; ops routes require the admin token; health and
// metrics are open.
func NewRouter(cfg Config) http.Handler {
	r := chi.NewRouter()

	r.Use(request.Recovery(cfg.Logger))
	r.Use(request.RequestID)
	r.Use(request.RequestTime)
	r.Use(request.Logger(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(request.Metrics(cfg.Metrics))
	}
	r.Use(request.Timeout(requestTimeout))
	r.Use(request.ContentTypeJSON)
	r.Use(request.BodyLimit(validation.MaxBodySize))

	if cfg.Health != nil {
		cfg.Health.Register(r)
	}
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(admin.RequireAdminToken(cfg.AdminAPIToken, cfg.Logger))
		for _, h := range cfg.Ops {
			h.RegisterOps(r)
		}
	})

	r.Group(func(r chi.Router) {
		r.Use(caller.RequireCaller(cfg.Tokens, cfg.Logger))
		for _, h := range cfg.Public {
			h.Register(r)
		}
	})

	return r
}
