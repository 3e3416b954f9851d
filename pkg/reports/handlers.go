// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package reports

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	httptypes "github.com/canonical/inventory-service/internal/http/types"
	"github.com/canonical/inventory-service/internal/logging"
	"github.com/canonical/inventory-service/internal/monitoring"
	"github.com/canonical/inventory-service/internal/tracing"
	"github.com/canonical/inventory-service/internal/types"
	"github.com/canonical/inventory-service/pkg/authentication"
)

type API struct {
	service ServiceInterface
	gate    GateInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (a *API) RegisterEndpoints(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(a.gate.Require(types.RoleManager))

		r.Get("/reports", a.handleReport)
		r.Get("/analytics", a.handleAnalytics)
		r.Get("/analytics-summary", a.handleSummary)
	})
}

func (a *API) handleReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "reports.API.handleReport")
	defer span.End()

	caller, _ := authentication.GetCaller(ctx)
	q := r.URL.Query()

	window, err := ParseWindow(q.Get("start"), q.Get("end"))
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	entries, err := a.service.Report(ctx, caller.TenantID, window, Kind(q.Get("type")))
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	a.write(w, entries)
}

func (a *API) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "reports.API.handleAnalytics")
	defer span.End()

	caller, _ := authentication.GetCaller(ctx)
	q := r.URL.Query()

	window, err := ParseWindow(q.Get("start"), q.Get("end"))
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	analytics, err := a.service.Analytics(ctx, caller.TenantID, window)
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	a.write(w, analytics)
}

func (a *API) handleSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "reports.API.handleSummary")
	defer span.End()

	caller, _ := authentication.GetCaller(ctx)

	summary, err := a.service.Summary(ctx, caller.TenantID)
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	a.write(w, summary)
}

func (a *API) write(w http.ResponseWriter, body any) {
	if err := httptypes.WriteJSON(w, http.StatusOK, body); err != nil {
		a.logger.Errorf("failed to encode response: %v", err)
	}
}

func NewAPI(service ServiceInterface, gate GateInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *API {
	a := new(API)

	a.service = service
	a.gate = gate

	a.tracer = tracer
	a.monitor = monitor
	a.logger = logger

	return a
}
