// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tasks

import (
	"context"
	"net/http"

	"github.com/canonical/inventory-service/internal/types"
)

type ServiceInterface interface {
	ListTasks(ctx context.Context, tenantID string) ([]*types.Task, error)
	CreateTask(ctx context.Context, tenantID string, req *CreateTaskRequest) (*types.Task, error)
	LowStock(ctx context.Context, tenantID string) ([]*types.InventoryItem, error)
}

type StorageInterface interface {
	CreateTask(ctx context.Context, t *types.Task) (*types.Task, error)
	ListTasks(ctx context.Context, tenantID string, limit uint64) ([]*types.Task, error)
	ListLowStock(ctx context.Context, tenantID string, threshold int64) ([]*types.InventoryItem, error)
}

type GateInterface interface {
	Require(role types.Role) func(http.Handler) http.Handler
}
