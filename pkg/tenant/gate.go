// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenant

import (
	"errors"
	"net/http"

	httptypes "github.com/canonical/inventory-service/internal/http/types"
	"github.com/canonical/inventory-service/internal/logging"
	"github.com/canonical/inventory-service/internal/monitoring"
	"github.com/canonical/inventory-service/internal/tracing"
	"github.com/canonical/inventory-service/internal/types"
	"github.com/canonical/inventory-service/pkg/authentication"
)

// Gate resolves the authenticated caller and checks its role before handing
// the request over, the resolved caller travels in the request context.
type Gate struct {
	directory ServiceInterface
	authz     AuthorizerInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (g *Gate) Require(role types.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := g.tracer.Start(r.Context(), "tenant.Gate.Require")
			defer span.End()

			userID, ok := authentication.GetUserID(ctx)
			if !ok {
				httptypes.WriteError(w, types.ErrUnauthenticated, g.logger)
				return
			}

			caller, err := g.directory.Resolve(ctx, userID)
			if errors.Is(err, types.ErrNotFound) {
				g.logger.Security().AuthzFailure(userID, "tenant")
				httptypes.WriteError(w, types.ErrForbidden, g.logger)
				return
			}
			if err != nil {
				httptypes.WriteError(w, err, g.logger)
				return
			}

			allowed, err := g.authz.Check(ctx, caller.UserID, role, caller.TenantID)
			if err != nil {
				httptypes.WriteError(w, err, g.logger)
				return
			}

			if !allowed {
				g.logger.Security().AuthzFailure(caller.UserID, "tenant:"+caller.TenantID+"#"+string(role))
				httptypes.WriteError(w, types.ErrForbidden, g.logger)
				return
			}

			next.ServeHTTP(w, r.WithContext(authentication.WithCaller(ctx, caller)))
		})
	}
}

func NewGate(directory ServiceInterface, authz AuthorizerInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Gate {
	g := new(Gate)

	g.directory = directory
	g.authz = authz

	g.tracer = tracer
	g.monitor = monitor
	g.logger = logger

	return g
}
