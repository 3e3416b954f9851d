// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package accounts

import (
	"context"

	"github.com/canonical/inventory-service/internal/types"
)

type ServiceInterface interface {
	Signup(ctx context.Context, req *SignupRequest) (*types.User, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	// GoogleSignIn reports whether the account was provisioned by this call.
	GoogleSignIn(ctx context.Context, req *GoogleSignInRequest) (*Session, bool, error)
	ForgotPassword(ctx context.Context, email string) error
	IssueToken(ctx context.Context, idToken string) (*Session, error)
}

type StorageInterface interface {
	CreateTenant(ctx context.Context, t *types.Tenant) (*types.Tenant, error)
	GetTenant(ctx context.Context, id string) (*types.Tenant, error)
	CreateUser(ctx context.Context, u *types.User) (*types.User, error)
	GetUser(ctx context.Context, id string) (*types.User, error)
}

type AuthorizerInterface interface {
	AssignRole(ctx context.Context, tenantID, userID string, role types.Role) error
}

type SessionIssuerInterface interface {
	IssueToken(ctx context.Context, user *types.User) (string, error)
}

type NotifierInterface interface {
	NotifyUser(ctx context.Context, email, subject, body string)
}
