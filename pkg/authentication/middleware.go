// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"net/http"
	"strings"

	httptypes "github.com/canonical/inventory-service/internal/http/types"
	"github.com/canonical/inventory-service/internal/logging"
	"github.com/canonical/inventory-service/internal/monitoring"
	"github.com/canonical/inventory-service/internal/tracing"
)

const (
	// KratosIdentityHeader is set by oathkeeper style gateways in front of the service
	KratosIdentityHeader = "X-Kratos-Authenticated-Identity-Id"
	// LegacyUIDHeader is the header the web frontend sends the caller id in
	LegacyUIDHeader = "uid"
)

type Middleware struct {
	verifier TokenVerifierInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (m *Middleware) Authenticate() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := m.tracer.Start(r.Context(), "authentication.Middleware.Authenticate")
			defer span.End()

			token, found := m.getBearerToken(r.Header)
			if !found {
				m.unauthorizedResponse(w, "missing authorization header")
				return
			}

			userID, err := m.verifier.VerifyToken(ctx, token)
			if err != nil {
				m.logger.Debugf("token verification failed: %v", err)
				m.logger.Security().AuthnFailure(r.RemoteAddr, "invalid bearer token")
				m.unauthorizedResponse(w, "invalid token")
				return
			}

			ctx = WithUserID(ctx, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TrustedHeader takes the caller id from a header set by an authenticating
// gateway, it is only mounted when token authentication is disabled.
func (m *Middleware) TrustedHeader() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := m.tracer.Start(r.Context(), "authentication.Middleware.TrustedHeader")
			defer span.End()

			userID := m.getHeaderIdentity(r.Header)
			if userID == "" {
				m.unauthorizedResponse(w, "missing caller identity")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(ctx, userID)))
		})
	}
}

func (m *Middleware) getHeaderIdentity(headers http.Header) string {
	if id := strings.TrimSpace(headers.Get(KratosIdentityHeader)); id != "" {
		return id
	}

	return strings.TrimSpace(headers.Get(LegacyUIDHeader))
}

func (m *Middleware) getBearerToken(headers http.Header) (string, bool) {
	bearer := headers.Get("Authorization")
	if bearer == "" {
		return "", false
	}

	// Only support "Bearer <token>" format (RFC 6750)
	if !strings.HasPrefix(bearer, "Bearer ") {
		return "", false
	}

	token := strings.TrimSpace(strings.TrimPrefix(bearer, "Bearer "))

	return token, token != ""
}

func (m *Middleware) unauthorizedResponse(w http.ResponseWriter, message string) {
	httptypes.WriteMessage(w, http.StatusUnauthorized, message, m.logger)
}

func NewMiddleware(verifier TokenVerifierInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Middleware {
	return &Middleware{
		verifier: verifier,
		tracer:   tracer,
		monitor:  monitor,
		logger:   logger,
	}
}
