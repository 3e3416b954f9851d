// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/mock/gomock"
)

//go:generate mockgen -build_flags=--mod=mod -package authentication -destination ./mock_logger.go -source=../../internal/logging/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package authentication -destination ./mock_monitor.go -source=../../internal/monitoring/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package authentication -destination ./mock_tracing.go -source=../../internal/tracing/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package authentication -destination ./mock_verifier.go -source=./interfaces.go

func TestMiddleware_Authenticate(t *testing.T) {
	tests := []struct {
		name               string
		authHeader         string
		setupMocks         func(*MockTokenVerifierInterface, *MockSecurityLoggerInterface)
		expectedStatusCode int
		expectedUserID     string
	}{
		{
			name:               "missing token",
			setupMocks:         func(*MockTokenVerifierInterface, *MockSecurityLoggerInterface) {},
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "basic credentials are not a bearer token",
			authHeader:         "Basic dXNlcjpwYXNz",
			setupMocks:         func(*MockTokenVerifierInterface, *MockSecurityLoggerInterface) {},
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:       "expired session",
			authHeader: "Bearer expired",
			setupMocks: func(v *MockTokenVerifierInterface, sec *MockSecurityLoggerInterface) {
				v.EXPECT().VerifyToken(gomock.Any(), "expired").Return("", fmt.Errorf("token is expired"))
				sec.EXPECT().AuthnFailure(gomock.Any(), "invalid bearer token")
			},
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:       "session token",
			authHeader: "Bearer session",
			setupMocks: func(v *MockTokenVerifierInterface, _ *MockSecurityLoggerInterface) {
				v.EXPECT().VerifyToken(gomock.Any(), "session").Return("user-123", nil)
			},
			expectedStatusCode: http.StatusOK,
			expectedUserID:     "user-123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockTracer := NewMockTracingInterface(ctrl)
			mockMonitor := NewMockMonitorInterface(ctrl)
			mockLogger := NewMockLoggerInterface(ctrl)
			mockSecurity := NewMockSecurityLoggerInterface(ctrl)
			mockVerifier := NewMockTokenVerifierInterface(ctrl)

			ctx := context.Background()
			mockTracer.EXPECT().Start(gomock.Any(), "authentication.Middleware.Authenticate").Return(ctx, trace.SpanFromContext(ctx))
			mockLogger.EXPECT().Debugf(gomock.Any(), gomock.Any()).AnyTimes()
			mockLogger.EXPECT().Security().Return(mockSecurity).AnyTimes()

			tt.setupMocks(mockVerifier, mockSecurity)

			middleware := NewMiddleware(mockVerifier, mockTracer, mockMonitor, mockLogger)

			var seen string
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = GetUserID(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/inventory", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()

			middleware.Authenticate()(handler).ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatusCode {
				t.Errorf("expected status %d, got %d", tt.expectedStatusCode, rr.Code)
			}

			if seen != tt.expectedUserID {
				t.Errorf("expected user id %q, got %q", tt.expectedUserID, seen)
			}
		})
	}
}

func TestMiddleware_GetBearerToken(t *testing.T) {
	tests := []struct {
		name          string
		authHeader    string
		expectedToken string
		expectedFound bool
	}{
		{
			name:          "No Authorization header",
			authHeader:    "",
			expectedToken: "",
			expectedFound: false,
		},
		{
			name:          "Bearer token",
			authHeader:    "Bearer my-token-123",
			expectedToken: "my-token-123",
			expectedFound: true,
		},
		{
			name:          "Empty bearer token",
			authHeader:    "Bearer   ",
			expectedToken: "",
			expectedFound: false,
		},
		{
			name:          "Raw token without Bearer prefix",
			authHeader:    "my-token-123",
			expectedToken: "",
			expectedFound: false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockTracer := NewMockTracingInterface(ctrl)
			mockMonitor := NewMockMonitorInterface(ctrl)
			mockLogger := NewMockLoggerInterface(ctrl)
			mockVerifier := NewMockTokenVerifierInterface(ctrl)

			middleware := NewMiddleware(mockVerifier, mockTracer, mockMonitor, mockLogger)

			headers := http.Header{}
			if test.authHeader != "" {
				headers.Set("Authorization", test.authHeader)
			}

			token, found := middleware.getBearerToken(headers)

			if token != test.expectedToken {
				t.Errorf("expected token %q, got %q", test.expectedToken, token)
			}
			if found != test.expectedFound {
				t.Errorf("expected found %v, got %v", test.expectedFound, found)
			}
		})
	}
}

func TestMiddleware_TrustedHeader(t *testing.T) {
	tests := []struct {
		name               string
		headers            map[string]string
		expectedStatusCode int
		expectedUserID     string
	}{
		{
			name:               "No identity header",
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "Gateway header",
			headers:            map[string]string{KratosIdentityHeader: "kratos-id"},
			expectedStatusCode: http.StatusOK,
			expectedUserID:     "kratos-id",
		},
		{
			name:               "Frontend uid header",
			headers:            map[string]string{LegacyUIDHeader: " firebase-uid "},
			expectedStatusCode: http.StatusOK,
			expectedUserID:     "firebase-uid",
		},
		{
			name:               "Gateway header wins",
			headers:            map[string]string{KratosIdentityHeader: "kratos-id", LegacyUIDHeader: "other"},
			expectedStatusCode: http.StatusOK,
			expectedUserID:     "kratos-id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockTracer := NewMockTracingInterface(ctrl)
			mockMonitor := NewMockMonitorInterface(ctrl)
			mockLogger := NewMockLoggerInterface(ctrl)

			ctx := context.Background()
			mockTracer.EXPECT().Start(gomock.Any(), "authentication.Middleware.TrustedHeader").Return(ctx, trace.SpanFromContext(ctx))

			middleware := NewMiddleware(nil, mockTracer, mockMonitor, mockLogger)

			var seen string
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = GetUserID(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rr := httptest.NewRecorder()

			middleware.TrustedHeader()(handler).ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatusCode {
				t.Errorf("expected status %d, got %d", tt.expectedStatusCode, rr.Code)
			}

			if seen != tt.expectedUserID {
				t.Errorf("expected user id %q, got %q", tt.expectedUserID, seen)
			}
		})
	}
}
