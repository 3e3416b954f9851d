// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package status

import (
	"context"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5"

	httptypes "github.com/canonical/inventory-service/internal/http/types"
	"github.com/canonical/inventory-service/internal/logging"
	"github.com/canonical/inventory-service/internal/monitoring"
	"github.com/canonical/inventory-service/internal/tracing"
	"github.com/canonical/inventory-service/internal/version"
)

const pingTimeout = 2 * time.Second

type BuildInfo struct {
	Version    string `json:"version"`
	CommitHash string `json:"commit_hash"`
	Name       string `json:"name"`
}

type Status struct {
	Status    string     `json:"status"`
	BuildInfo *BuildInfo `json:"buildInfo"`
}

type API struct {
	store PingerInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (a *API) RegisterEndpoints(mux chi.Router) {
	mux.Get("/api/v0/status", a.alive)
	mux.Get("/api/v0/version", a.version)
	mux.Get("/api/v0/ready", a.ready)
}

func (a *API) alive(w http.ResponseWriter, r *http.Request) {
	_, span := a.tracer.Start(r.Context(), "status.API.alive")
	defer span.End()

	a.write(w, http.StatusOK, Status{Status: "ok", BuildInfo: buildInfo()})
}

func (a *API) version(w http.ResponseWriter, r *http.Request) {
	_, span := a.tracer.Start(r.Context(), "status.API.version")
	defer span.End()

	a.write(w, http.StatusOK, buildInfo())
}

// ready reports whether the storage backend answers, the outcome also feeds
// the dependency availability gauge.
func (a *API) ready(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "status.API.ready")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	tags := map[string]string{"component": "storage"}

	if err := a.store.Ping(ctx); err != nil {
		a.logger.Errorf("storage is not reachable: %v", err)
		a.setAvailability(tags, 0)
		a.write(w, http.StatusServiceUnavailable, Status{Status: "unavailable"})
		return
	}

	a.setAvailability(tags, 1)
	a.write(w, http.StatusOK, Status{Status: "ok"})
}

func (a *API) setAvailability(tags map[string]string, value float64) {
	if err := a.monitor.SetDependencyAvailability(tags, value); err != nil {
		a.logger.Debugf("error setting dependency availability: %v", err)
	}
}

func (a *API) write(w http.ResponseWriter, status int, body any) {
	if err := httptypes.WriteJSON(w, status, body); err != nil {
		a.logger.Errorf("failed to encode response: %v", err)
	}
}

func buildInfo() *BuildInfo {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return &BuildInfo{Version: version.Version}
	}

	b := &BuildInfo{Version: version.Version, Name: info.Main.Path}
	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" {
			b.CommitHash = setting.Value
		}
	}

	return b
}

func NewAPI(store PingerInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *API {
	a := new(API)

	a.store = store

	a.tracer = tracer
	a.monitor = monitor
	a.logger = logger

	return a
}
