// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package identity

import (
	"context"
)

// ProviderInterface is the narrow view of the external identity platform the
// accounts flows rely on. Lookups return ErrIdentityNotFound for unknown users.
type ProviderInterface interface {
	CreateIdentity(ctx context.Context, traits Traits, password string) (*Identity, error)
	GetIdentity(ctx context.Context, id string) (*Identity, error)
	GetIdentityByEmail(ctx context.Context, email string) (*Identity, error)
	// VerifyPassword checks the credentials and returns the matching identity.
	VerifyPassword(ctx context.Context, email, password string) (*Identity, error)
	// VerifyIDToken validates a token minted by the provider, for example after a Google sign in.
	VerifyIDToken(ctx context.Context, idToken string) (*Identity, error)
	VerificationLink(ctx context.Context, id string) (string, error)
	RecoveryLink(ctx context.Context, id string) (string, error)
}
