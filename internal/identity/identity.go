// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package identity

import (
	"errors"
	"fmt"

	"github.com/canonical/inventory-service/internal/types"
)

var (
	ErrIdentityNotFound   = fmt.Errorf("identity %w", types.ErrNotFound)
	ErrIdentityExists     = fmt.Errorf("identity already exists: %w", types.ErrConflict)
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", types.ErrUnauthenticated)
	ErrInvalidIDToken     = fmt.Errorf("invalid id token: %w", types.ErrUnauthenticated)
)

type Traits struct {
	Email     string
	FirstName string
	LastName  string
}

type Identity struct {
	ID       string
	Email    string
	Verified bool
	Traits   Traits
}

// Upstream marks a provider failure, the cause is kept for logging only.
func Upstream(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(types.ErrUpstream, err))
}
