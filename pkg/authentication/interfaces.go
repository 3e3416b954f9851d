// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"
)

type TokenVerifierInterface interface {
	// VerifyToken verifies a raw bearer token and returns the caller id it was
	// issued to, session tokens and OIDC tokens both satisfy it
	VerifyToken(ctx context.Context, rawToken string) (string, error)
}
