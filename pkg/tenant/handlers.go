// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenant

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

type userResponse struct {
	Message string      `json:"message"`
	User    *types.User `json:"user,omitempty"`
}

type API struct {
	service ServiceInterface
	gate    *Gate
	// tx wraps the admin routes so a role change and its authorization
	// tuples commit or roll back together, nil when the backend has no
	// request scoped transactions
	tx func(http.Handler) http.Handler

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (a *API) RegisterEndpoints(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(a.gate.Require(types.RoleAdmin))
		if a.tx != nil {
			r.Use(a.tx)
		}

		r.Get("/users", a.handleList)
		r.Put("/users/{id}/promote", a.handlePromote)
		r.Put("/users/{id}/demote", a.handleDemote)
		r.Delete("/users/{id}/remove", a.handleRemove)
	})
}

func (a *API) handleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "tenant.API.handleList")
	defer span.End()

	caller, _ := authentication.GetCaller(ctx)

	users, err := a.service.ListUsers(ctx, caller)
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	a.write(w, http.StatusOK, users)
}

func (a *API) handlePromote(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "tenant.API.handlePromote")
	defer span.End()

	caller, _ := authentication.GetCaller(ctx)

	user, err := a.service.Promote(ctx, caller, chi.URLParam(r, "id"))
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	a.write(w, http.StatusOK, userResponse{Message: "User promoted successfully", User: user})
}

func (a *API) handleDemote(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "tenant.API.handleDemote")
	defer span.End()

	caller, _ := authentication.GetCaller(ctx)

	user, err := a.service.Demote(ctx, caller, chi.URLParam(r, "id"))
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	a.write(w, http.StatusOK, userResponse{Message: "User demoted successfully", User: user})
}

func (a *API) handleRemove(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "tenant.API.handleRemove")
	defer span.End()

	caller, _ := authentication.GetCaller(ctx)

	if err := a.service.Remove(ctx, caller, chi.URLParam(r, "id")); err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	a.write(w, http.StatusOK, userResponse{Message: "User removed successfully"})
}

func (a *API) write(w http.ResponseWriter, status int, body any) {
	if err := httptypes.WriteJSON(w, status, body); err != nil {
		a.logger.Errorf("failed to encode response: %v", err)
	}
}

func NewAPI(service ServiceInterface, gate *Gate, tx func(http.Handler) http.Handler, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *API {
	a := new(API)

	a.service = service
	a.gate = gate
	a.tx = tx

	a.tracer = tracer
	a.monitor = monitor
	a.logger = logger

	return a
}
