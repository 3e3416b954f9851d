// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authorization

import (
	"context"
	"fmt"

	"github.com/canonical/inventory-service/internal/logging"
	"github.com/canonical/inventory-service/internal/monitoring"
	"github.com/canonical/inventory-service/internal/tracing"
	"github.com/canonical/inventory-service/internal/types"
)

var ErrInvalidAuthModel = fmt.Errorf("invalid authorization model schema")

var _ AuthorizerInterface = (*Authorizer)(nil)

// Authorizer keeps tenant roles as OpenFGA tuples.
type Authorizer struct {
	client AuthzClientInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (a *Authorizer) Check(ctx context.Context, userID string, relation types.Role, tenantID string) (bool, error) {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.Check")
	defer span.End()

	allowed, err := a.client.Check(ctx, UserTuple(userID), string(relation), TenantTuple(tenantID))
	if err != nil {
		return false, err
	}

	if !allowed {
		a.logger.Security().AuthzFailure(userID, TenantTuple(tenantID)+"#"+string(relation))
	}

	return allowed, nil
}

func (a *Authorizer) ValidateModel(ctx context.Context) error {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.ValidateModel")
	defer span.End()

	model := *NewAuthorizationModelProvider("v0").GetModel()

	eq, err := a.client.CompareModel(ctx, model)
	if err != nil {
		return err
	}
	if !eq {
		return ErrInvalidAuthModel
	}
	return nil
}

func (a *Authorizer) AssignRole(ctx context.Context, tenantID, userID string, role types.Role) error {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.AssignRole")
	defer span.End()

	return a.client.WriteTuple(ctx, UserTuple(userID), string(role), TenantTuple(tenantID))
}

func (a *Authorizer) RemoveRole(ctx context.Context, tenantID, userID string, role types.Role) error {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.RemoveRole")
	defer span.End()

	return a.client.DeleteTuple(ctx, UserTuple(userID), string(role), TenantTuple(tenantID))
}

func NewAuthorizer(client AuthzClientInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Authorizer {
	authorizer := new(Authorizer)
	authorizer.client = client
	authorizer.tracer = tracer
	authorizer.monitor = monitor
	authorizer.logger = logger

	return authorizer
}
