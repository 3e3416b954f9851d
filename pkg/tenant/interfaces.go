// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenant

import (
	"context"

	"github.com/canonical/inventory-service/internal/types"
)

type ServiceInterface interface {
	Resolve(ctx context.Context, callerID string) (*types.Caller, error)
	ListUsers(ctx context.Context, caller *types.Caller) ([]*types.User, error)
	Promote(ctx context.Context, caller *types.Caller, userID string) (*types.User, error)
	Demote(ctx context.Context, caller *types.Caller, userID string) (*types.User, error)
	Remove(ctx context.Context, caller *types.Caller, userID string) error
}

type StorageInterface interface {
	GetUser(ctx context.Context, id string) (*types.User, error)
	ListUsers(ctx context.Context, tenantID string) ([]*types.User, error)
	UpdateUserRole(ctx context.Context, tenantID, userID string, role types.Role) error
	DeleteUser(ctx context.Context, tenantID, userID string) error
}

type AuthorizerInterface interface {
	Check(ctx context.Context, userID string, relation types.Role, tenantID string) (bool, error)
	AssignRole(ctx context.Context, tenantID, userID string, role types.Role) error
	RemoveRole(ctx context.Context, tenantID, userID string, role types.Role) error
}

type NotifierInterface interface {
	NotifyUser(ctx context.Context, email, subject, body string)
}
