// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"

	"github.com/canonical/inventory-service/internal/types"
)

type contextKey int

const (
	userContextKey contextKey = iota
	callerContextKey
)

// WithUserID returns a new context with the given user ID derived from the parent context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userContextKey, userID)
}

// GetUserID retrieves the user ID from the context.
// Returns an empty string and false if the user ID is not present.
func GetUserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userContextKey).(string)
	return id, ok && id != ""
}

// WithCaller stores the caller resolved by the tenant directory.
func WithCaller(ctx context.Context, caller *types.Caller) context.Context {
	return context.WithValue(ctx, callerContextKey, caller)
}

// GetCaller is only set on routes mounted behind the tenant gate.
func GetCaller(ctx context.Context) (*types.Caller, bool) {
	c, ok := ctx.Value(callerContextKey).(*types.Caller)
	return c, ok && c != nil
}
