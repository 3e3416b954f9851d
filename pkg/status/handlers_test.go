// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package status

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/canonical/inventory-service/internal/logging"
	"github.com/canonical/inventory-service/internal/monitoring"
	"github.com/canonical/inventory-service/internal/tracing"
	"github.com/canonical/inventory-service/internal/version"
)

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func newTestMux(store PingerInterface) *chi.Mux {
	logger := logging.NewNoopLogger()
	mux := chi.NewMux()
	NewAPI(store, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger).RegisterEndpoints(mux)

	return mux
}

func TestAPI_Ready(t *testing.T) {
	tests := []struct {
		name           string
		ping           error
		expectedStatus int
	}{
		{name: "reachable", expectedStatus: http.StatusOK},
		{name: "unreachable", ping: errors.New("dial tcp: connection refused"), expectedStatus: http.StatusServiceUnavailable},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			mux := newTestMux(pingFunc(func(context.Context) error { return test.ping }))

			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v0/ready", nil))

			if w.Code != test.expectedStatus {
				t.Fatalf("expected status %d, got %d", test.expectedStatus, w.Code)
			}
		})
	}
}

func TestAPI_Version(t *testing.T) {
	mux := newTestMux(pingFunc(func(context.Context) error { return nil }))

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v0/version", nil))

	info := new(BuildInfo)
	if err := json.NewDecoder(w.Body).Decode(info); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if info.Version != version.Version {
		t.Errorf("expected version %s, got %s", version.Version, info.Version)
	}
}

func TestAPI_Status(t *testing.T) {
	mux := newTestMux(pingFunc(func(context.Context) error { return nil }))

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v0/status", nil))

	s := new(Status)
	if err := json.NewDecoder(w.Body).Decode(s); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if s.Status != "ok" || s.BuildInfo == nil {
		t.Errorf("unexpected status %+v", s)
	}
}
