// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/canonical/inventory-service/internal/logging"
	"github.com/canonical/inventory-service/internal/monitoring"
	"github.com/canonical/inventory-service/internal/tracing"
	"github.com/canonical/inventory-service/internal/types"
)

const sessionIssuer = "inventory-service"

var ErrMissingSecret = errors.New("session secret is not configured")

// SessionClaims are the claims carried by the tokens handed out on login.
type SessionClaims struct {
	UserID  string `json:"uid"`
	Role    string `json:"role"`
	Company string `json:"company"`
	jwt.RegisteredClaims
}

// SessionManager issues and verifies HS256 session tokens.
type SessionManager struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (s *SessionManager) IssueToken(ctx context.Context, user *types.User) (string, error) {
	_, span := s.tracer.Start(ctx, "authentication.SessionManager.IssueToken")
	defer span.End()

	now := s.now()
	claims := SessionClaims{
		UserID:  user.ID,
		Role:    string(user.Role),
		Company: user.TenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return signed, nil
}

// Parse validates the raw token and returns its claims.
func (s *SessionManager) Parse(ctx context.Context, rawToken string) (*SessionClaims, error) {
	_, span := s.tracer.Start(ctx, "authentication.SessionManager.Parse")
	defer span.End()

	claims := new(SessionClaims)

	_, err := jwt.ParseWithClaims(
		rawToken,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrUnauthenticated, err)
	}

	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: token has no uid claim", types.ErrUnauthenticated)
	}

	return claims, nil
}

func (s *SessionManager) VerifyToken(ctx context.Context, rawToken string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "authentication.SessionManager.VerifyToken")
	defer span.End()

	claims, err := s.Parse(ctx, rawToken)
	if err != nil {
		s.logger.Security().AuthnFailure("unknown", "invalid_session_token")
		return "", err
	}

	return claims.UserID, nil
}

func NewSessionManager(secret string, lifetime time.Duration, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) (*SessionManager, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}

	s := new(SessionManager)

	s.secret = []byte(secret)
	s.lifetime = lifetime
	s.now = time.Now

	s.tracer = tracer
	s.monitor = monitor
	s.logger = logger

	return s, nil
}
