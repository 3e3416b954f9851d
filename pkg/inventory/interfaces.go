// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package inventory

import (
	"context"
	"net/http"

	"github.com/canonical/inventory-service/internal/types"
)

type ServiceInterface interface {
	Ingest(ctx context.Context, tenantID string, items []*types.IncomingItem, actor string) ([]*types.Outcome, error)
	ListItems(ctx context.Context, tenantID string) ([]*types.InventoryItem, error)
	GetItem(ctx context.Context, tenantID, id string) (*types.InventoryItem, error)
	UpdateItem(ctx context.Context, tenantID, id string, update *types.ItemUpdate, actor string) (*types.InventoryItem, error)
	DeleteItem(ctx context.Context, tenantID, id string) error
}

type StorageInterface interface {
	ReconcileItem(ctx context.Context, tenantID string, key types.NaturalKey, merge types.MergeFunc) (*types.InventoryItem, bool, error)
	GetItem(ctx context.Context, tenantID, id string) (*types.InventoryItem, error)
	ListItems(ctx context.Context, tenantID string) ([]*types.InventoryItem, error)
	UpdateItem(ctx context.Context, tenantID, id string, apply func(*types.InventoryItem) error) (*types.InventoryItem, error)
	DeleteItem(ctx context.Context, tenantID, id string) error
}

// GateInterface resolves the caller and enforces the minimum role of a route.
type GateInterface interface {
	Require(role types.Role) func(http.Handler) http.Handler
}
