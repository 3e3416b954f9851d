// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package kratos

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/canonical/inventory-service/internal/identity"
	"github.com/canonical/inventory-service/internal/logging"
	"github.com/canonical/inventory-service/internal/monitoring"
	"github.com/canonical/inventory-service/internal/tracing"
	"github.com/canonical/inventory-service/internal/types"
)

const identityJSON = `{
	"id": "6a7d2f0e-1c2b-4e55-9a51-2f7c5b1d9e10",
	"schema_id": "default",
	"schema_url": "http://kratos/schemas/default",
	"traits": {"email": "Jane@Acme.io", "name": {"first": "Jane", "last": "Doe"}},
	"verifiable_addresses": [{"value": "jane@acme.io", "verified": true, "via": "email", "status": "completed"}]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := logging.NewNoopLogger()
	return NewClient(srv.URL, srv.URL, "1h", tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger)
}

func TestClient_GetIdentityByEmail(t *testing.T) {
	testCases := []struct {
		name        string
		status      int
		body        string
		expectedErr error
	}{
		{name: "found", status: http.StatusOK, body: "[" + identityJSON + "]"},
		{name: "empty list", status: http.StatusOK, body: "[]", expectedErr: types.ErrNotFound},
		{name: "kratos down", status: http.StatusInternalServerError, body: `{"error":{"code":500,"message":"boom"}}`, expectedErr: types.ErrUpstream},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/admin/identities" || r.URL.Query().Get("credentials_identifier") != "jane@acme.io" {
					http.NotFound(w, r)
					return
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			i, err := c.GetIdentityByEmail(context.Background(), "jane@acme.io")

			if tc.expectedErr != nil {
				if !errors.Is(err, tc.expectedErr) {
					t.Fatalf("expected %v, got %v", tc.expectedErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if i.Email != "jane@acme.io" || !i.Verified || i.Traits.FirstName != "Jane" {
				t.Errorf("unexpected identity %+v", i)
			}
		})
	}
}

func TestClient_CreateIdentityConflict(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":{"code":409,"message":"exists"}}`))
	})

	_, err := c.CreateIdentity(context.Background(), identity.Traits{Email: "jane@acme.io"}, "S3cure!pass")
	if !errors.Is(err, identity.ErrIdentityExists) {
		t.Fatalf("expected ErrIdentityExists, got %v", err)
	}
}

func TestClient_GetIdentityUnverified(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "u1", "schema_id": "default", "schema_url": "http://kratos/schemas/default",
			"traits": {"email": "bob@acme.io"},
			"verifiable_addresses": [{"value": "bob@acme.io", "verified": false, "via": "email", "status": "pending"}]
		}`))
	})

	i, err := c.GetIdentity(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if i.Verified {
		t.Error("expected unverified identity")
	}
}
