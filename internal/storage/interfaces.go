// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"time"

	"github.com/canonical/inventory-service/internal/types"
)

// StorageInterface is the full persistence contract, implemented by the
// postgres Storage and by the firestore backend.
type StorageInterface interface {
	Ping(ctx context.Context) error

	CreateTenant(ctx context.Context, t *types.Tenant) (*types.Tenant, error)
	GetTenant(ctx context.Context, id string) (*types.Tenant, error)

	CreateUser(ctx context.Context, u *types.User) (*types.User, error)
	GetUser(ctx context.Context, id string) (*types.User, error)
	GetUserByEmail(ctx context.Context, email string) (*types.User, error)
	ListUsers(ctx context.Context, tenantID string) ([]*types.User, error)
	UpdateUserRole(ctx context.Context, tenantID, userID string, role types.Role) error
	DeleteUser(ctx context.Context, tenantID, userID string) error

	ReconcileItem(ctx context.Context, tenantID string, key types.NaturalKey, merge types.MergeFunc) (*types.InventoryItem, bool, error)
	GetItem(ctx context.Context, tenantID, id string) (*types.InventoryItem, error)
	ListItems(ctx context.Context, tenantID string) ([]*types.InventoryItem, error)
	ListItemsInWindow(ctx context.Context, tenantID string, start, end time.Time) ([]*types.InventoryItem, error)
	ListLowStock(ctx context.Context, tenantID string, threshold int64) ([]*types.InventoryItem, error)
	UpdateItem(ctx context.Context, tenantID, id string, apply func(*types.InventoryItem) error) (*types.InventoryItem, error)
	DeleteItem(ctx context.Context, tenantID, id string) error

	CreateTask(ctx context.Context, t *types.Task) (*types.Task, error)
	ListTasks(ctx context.Context, tenantID string, limit uint64) ([]*types.Task, error)
}
