// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authorization

import (
	"context"
	"errors"

	"github.com/canonical/inventory-service/internal/logging"
	"github.com/canonical/inventory-service/internal/tracing"
	"github.com/canonical/inventory-service/internal/types"
)

var _ AuthorizerInterface = (*RoleAuthorizer)(nil)

// RoleAuthorizer answers checks from the role stored on the user record, role
// changes are already persisted by the directory so there is nothing to sync.
type RoleAuthorizer struct {
	users UserReaderInterface

	tracer tracing.TracingInterface
	logger logging.LoggerInterface
}

func (a *RoleAuthorizer) Check(ctx context.Context, userID string, relation types.Role, tenantID string) (bool, error) {
	ctx, span := a.tracer.Start(ctx, "authorization.RoleAuthorizer.Check")
	defer span.End()

	user, err := a.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	if user.TenantID != tenantID || user.Role.Rank() < relation.Rank() {
		a.logger.Security().AuthzFailure(userID, TenantTuple(tenantID)+"#"+string(relation))
		return false, nil
	}

	return true, nil
}

func (a *RoleAuthorizer) AssignRole(context.Context, string, string, types.Role) error {
	return nil
}

func (a *RoleAuthorizer) RemoveRole(context.Context, string, string, types.Role) error {
	return nil
}

func (a *RoleAuthorizer) ValidateModel(context.Context) error {
	return nil
}

func NewRoleAuthorizer(users UserReaderInterface, tracer tracing.TracingInterface, logger logging.LoggerInterface) *RoleAuthorizer {
	a := new(RoleAuthorizer)
	a.users = users
	a.tracer = tracer
	a.logger = logger

	return a
}
