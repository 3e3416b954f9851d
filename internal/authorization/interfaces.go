// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authorization

import (
	"context"

	fga "github.com/openfga/go-sdk"

	"github.com/canonical/inventory-service/internal/openfga"
	"github.com/canonical/inventory-service/internal/types"
)

type AuthorizerInterface interface {
	// Check tells whether the user holds relation, or a stronger one, on the tenant.
	Check(ctx context.Context, userID string, relation types.Role, tenantID string) (bool, error)
	AssignRole(ctx context.Context, tenantID, userID string, role types.Role) error
	RemoveRole(ctx context.Context, tenantID, userID string, role types.Role) error
	ValidateModel(ctx context.Context) error
}

type AuthzClientInterface interface {
	Check(ctx context.Context, user, relation, object string, contextualTuples ...openfga.Tuple) (bool, error)
	CompareModel(ctx context.Context, model fga.AuthorizationModel) (bool, error)
	WriteTuple(ctx context.Context, user, relation, object string) error
	DeleteTuple(ctx context.Context, user, relation, object string) error
}

type UserReaderInterface interface {
	GetUser(ctx context.Context, id string) (*types.User, error)
}
