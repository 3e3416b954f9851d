// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/canonical/inventory-service/internal/logging"
	"github.com/canonical/inventory-service/internal/monitoring"
	"github.com/canonical/inventory-service/internal/tracing"
	"github.com/canonical/inventory-service/pkg/metrics"
	"github.com/canonical/inventory-service/pkg/status"
)

// APIInterface is implemented by every package exposing HTTP endpoints,
// paths are registered relative to the mount point.
type APIInterface interface {
	RegisterEndpoints(r chi.Router)
}

// NewRouter mounts the public APIs and, behind authn, the protected ones
// under /api. Status and metrics live under /api/v0 without authentication.
func NewRouter(
	public []APIInterface,
	protected []APIInterface,
	authn func(http.Handler) http.Handler,
	allowedOrigins []string,
	store status.PingerInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) http.Handler {
	router := chi.NewMux()

	middlewares := make(chi.Middlewares, 0)
	middlewares = append(
		middlewares,
		middleware.RequestID,
		monitoring.NewMiddleware(monitor, logger).ResponseTime(),
		middlewareCORS(allowedOrigins),
	)

	router.Use(middlewares...)

	metrics.NewAPI(logger).RegisterEndpoints(router)
	status.NewAPI(store, tracer, monitor, logger).RegisterEndpoints(router)

	router.Route("/api", func(r chi.Router) {
		for _, api := range public {
			api.RegisterEndpoints(r)
		}

		r.Group(func(r chi.Router) {
			r.Use(authn)

			for _, api := range protected {
				api.RegisterEndpoints(r)
			}
		})
	})

	return tracing.NewMiddleware(monitor, logger).OpenTelemetry(router)
}
