// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/canonical/inventory-service/internal/logging"
	"github.com/canonical/inventory-service/internal/monitoring"
	"github.com/canonical/inventory-service/internal/tracing"
	"github.com/canonical/inventory-service/internal/types"
)

func newTestSessions(t *testing.T, secret string) *SessionManager {
	t.Helper()

	logger := logging.NewNoopLogger()
	s, err := NewSessionManager(secret, 24*time.Hour, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return s
}

func TestSessionManager_RoundTrip(t *testing.T) {
	s := newTestSessions(t, "s3cret")
	user := &types.User{ID: "u1", Role: types.RoleManager, TenantID: "acme"}

	token, err := s.IssueToken(context.Background(), user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := s.Parse(context.Background(), token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if claims.UserID != "u1" || claims.Role != "manager" || claims.Company != "acme" {
		t.Errorf("unexpected claims %+v", claims)
	}

	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != 24*time.Hour {
		t.Errorf("expected 24h lifetime, got %s", got)
	}

	uid, err := s.VerifyToken(context.Background(), token)
	if err != nil || uid != "u1" {
		t.Errorf("expected u1, got %q %v", uid, err)
	}
}

func TestSessionManager_Rejects(t *testing.T) {
	s := newTestSessions(t, "s3cret")
	user := &types.User{ID: "u1", Role: types.RoleStaff, TenantID: "acme"}

	expired := newTestSessions(t, "s3cret")
	expired.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	expiredToken, _ := expired.IssueToken(context.Background(), user)

	otherSecret, _ := newTestSessions(t, "other").IssueToken(context.Background(), user)

	noneToken, _ := jwt.NewWithClaims(jwt.SigningMethodNone, SessionClaims{UserID: "u1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name  string
		token string
	}{
		{name: "expired", token: expiredToken},
		{name: "wrong secret", token: otherSecret},
		{name: "unsigned", token: noneToken},
		{name: "garbage", token: "not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.VerifyToken(context.Background(), tt.token); !errors.Is(err, types.ErrUnauthenticated) {
				t.Errorf("expected unauthenticated, got %v", err)
			}
		})
	}
}

func TestNewSessionManagerRequiresSecret(t *testing.T) {
	logger := logging.NewNoopLogger()
	if _, err := NewSessionManager("", time.Hour, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger); !errors.Is(err, ErrMissingSecret) {
		t.Errorf("expected ErrMissingSecret, got %v", err)
	}
}

func TestChainVerifier(t *testing.T) {
	sessions := newTestSessions(t, "s3cret")
	token, _ := sessions.IssueToken(context.Background(), &types.User{ID: "u1", Role: types.RoleStaff, TenantID: "acme"})

	chain := NewChainVerifier(sessions, NewNoopVerifier())

	if uid, err := chain.VerifyToken(context.Background(), token); err != nil || uid != "u1" {
		t.Errorf("expected session token to verify, got %q %v", uid, err)
	}

	if uid, err := chain.VerifyToken(context.Background(), "raw-id"); err != nil || uid != "raw-id" {
		t.Errorf("expected fallback verifier to accept, got %q %v", uid, err)
	}

	if _, err := NewChainVerifier(sessions).VerifyToken(context.Background(), "raw-id"); !errors.Is(err, types.ErrUnauthenticated) {
		t.Errorf("expected unauthenticated, got %v", err)
	}
}
