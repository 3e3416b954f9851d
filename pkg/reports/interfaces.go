// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package reports

import (
	"context"
	"net/http"
	"time"

	"github.com/canonical/inventory-service/internal/types"
)

type ServiceInterface interface {
	Report(ctx context.Context, tenantID string, window Window, kind Kind) ([]*Entry, error)
	Analytics(ctx context.Context, tenantID string, window Window) (*Analytics, error)
	Summary(ctx context.Context, tenantID string) (*Summary, error)
}

type StorageInterface interface {
	ListItems(ctx context.Context, tenantID string) ([]*types.InventoryItem, error)
	ListItemsInWindow(ctx context.Context, tenantID string, start, end time.Time) ([]*types.InventoryItem, error)
	ListTasks(ctx context.Context, tenantID string, limit uint64) ([]*types.Task, error)
}

type GateInterface interface {
	Require(role types.Role) func(http.Handler) http.Handler
}
