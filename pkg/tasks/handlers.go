// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tasks

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	httptypes "github.com/canonical/inventory-service/internal/http/types"
	"github.com/canonical/inventory-service/internal/logging"
	"github.com/canonical/inventory-service/internal/monitoring"
	"github.com/canonical/inventory-service/internal/tracing"
	"github.com/canonical/inventory-service/internal/types"
	"github.com/canonical/inventory-service/pkg/authentication"
)

const maxBodyBytes = 1 << 16

type API struct {
	service ServiceInterface
	gate    GateInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (a *API) RegisterEndpoints(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(a.gate.Require(types.RoleStaff))

		r.Get("/tasks", a.handleList)
		r.Post("/tasks", a.handleCreate)
		r.Get("/low-stock", a.handleLowStock)
	})
}

func (a *API) handleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "tasks.API.handleList")
	defer span.End()

	caller, _ := authentication.GetCaller(ctx)

	tasks, err := a.service.ListTasks(ctx, caller.TenantID)
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	a.write(w, http.StatusOK, tasks)
}

func (a *API) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "tasks.API.handleCreate")
	defer span.End()

	caller, _ := authentication.GetCaller(ctx)

	req := new(CreateTaskRequest)
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(req); err != nil {
		httptypes.WriteError(w, types.NewValidationError("body", "invalid task: %v", err), a.logger)
		return
	}

	task, err := a.service.CreateTask(ctx, caller.TenantID, req)
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	a.write(w, http.StatusCreated, task)
}

func (a *API) handleLowStock(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "tasks.API.handleLowStock")
	defer span.End()

	caller, _ := authentication.GetCaller(ctx)

	items, err := a.service.LowStock(ctx, caller.TenantID)
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	a.write(w, http.StatusOK, items)
}

func (a *API) write(w http.ResponseWriter, status int, body any) {
	if err := httptypes.WriteJSON(w, status, body); err != nil {
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
