// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/canonical/inventory-service/internal/logging"
	"github.com/canonical/inventory-service/internal/monitoring"
	"github.com/canonical/inventory-service/internal/tracing"
	"github.com/canonical/inventory-service/internal/types"
)

type oidcClaims struct {
	Subject string   `json:"sub"`
	UserID  string   `json:"user_id"`
	Scope   string   `json:"scope"`
	Scopes  []string `json:"scp"`
}

func (c *oidcClaims) hasScope(scope string) bool {
	return slices.Contains(strings.Fields(c.Scope), scope) || slices.Contains(c.Scopes, scope)
}

// callerID prefers the firebase user_id claim, it matches sub for
// firebase tokens but survives custom subject mappings.
func (c *oidcClaims) callerID() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.Subject
}

// JWTVerifier verifies ID tokens issued by an external OIDC provider. With no
// subject allow list and no required scope every valid token is accepted.
type JWTVerifier struct {
	verifier        *oidc.IDTokenVerifier
	allowedSubjects []string
	requiredScope   string

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (v *JWTVerifier) VerifyToken(ctx context.Context, rawToken string) (string, error) {
	ctx, span := v.tracer.Start(ctx, "authentication.JWTVerifier.VerifyToken")
	defer span.End()

	token, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrUnauthenticated, err)
	}

	claims := new(oidcClaims)
	if err := token.Claims(claims); err != nil {
		v.logger.Debugf("Failed to extract claims: %v", err)
		return "", fmt.Errorf("%w: %v", types.ErrUnauthenticated, err)
	}

	if v.allowed(claims) {
		return claims.callerID(), nil
	}

	v.logger.Security().AuthzFailure(claims.Subject, "jwt_api_access")

	return "", fmt.Errorf("%w: missing required scope or subject not allowed", types.ErrUnauthenticated)
}

func (v *JWTVerifier) allowed(claims *oidcClaims) bool {
	if len(v.allowedSubjects) == 0 && v.requiredScope == "" {
		return true
	}

	if slices.Contains(v.allowedSubjects, claims.Subject) {
		return true
	}

	return v.requiredScope != "" && claims.hasScope(v.requiredScope)
}

func NewJWTVerifier(
	verifier *oidc.IDTokenVerifier,
	allowedSubjects []string,
	requiredScope string,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *JWTVerifier {
	v := new(JWTVerifier)

	v.verifier = verifier
	v.allowedSubjects = allowedSubjects
	v.requiredScope = requiredScope

	v.tracer = tracer
	v.monitor = monitor
	v.logger = logger

	return v
}
