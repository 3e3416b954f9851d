// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package notifications

import (
	"context"

	"github.com/canonical/inventory-service/internal/types"
)

// DispatcherInterface never reports delivery errors, Notify and NotifyUser
// return as soon as the delivery is scheduled.
type DispatcherInterface interface {
	Notify(ctx context.Context, n *Notification)
	NotifyUser(ctx context.Context, email, subject, body string)
}

type StorageInterface interface {
	ListUsers(ctx context.Context, tenantID string) ([]*types.User, error)
	CreateTask(ctx context.Context, t *types.Task) (*types.Task, error)
}
