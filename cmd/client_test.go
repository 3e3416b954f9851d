// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/canonical/inventory-service/pkg/authentication"
)

func testClient(t *testing.T, h http.HandlerFunc) *apiClient {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c := newAPIClient()
	c.endpoint = srv.URL
	return c
}

func TestAPIClientSendsCredentials(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/users" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("unexpected authorization header %q", got)
		}
		if got := r.Header.Get(authentication.KratosIdentityHeader); got != "user-1" {
			t.Errorf("unexpected identity header %q", got)
		}
		_, _ = w.Write([]byte(`[{"id":"user-1"}]`))
	})
	c.token = "secret"
	c.userID = "user-1"

	var out []map[string]string
	if err := c.call(context.Background(), http.MethodGet, "/users", nil, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(out) != 1 || out[0]["id"] != "user-1" {
		t.Fatalf("unexpected body %v", out)
	}
}

func TestAPIClientDecodesErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{name: "json error body", body: `{"status":403,"message":"forbidden"}`, expected: "forbidden"},
		{name: "plain text body", body: "denied\n", expected: "denied"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(test.body))
			})

			err := c.call(context.Background(), http.MethodDelete, "/users/u/remove", nil, nil)

			e := new(apiError)
			if !errors.As(err, &e) {
				t.Fatalf("expected an api error, got %v", err)
			}
			if e.status != http.StatusForbidden || e.message != test.expected {
				t.Fatalf("unexpected error %+v", e)
			}
		})
	}
}

func TestAPIClientUploadsMultipart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.csv")
	if err := os.WriteFile(path, []byte("name,price\nwidget,1\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		f, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("missing file field: %v", err)
			return
		}
		defer f.Close()

		raw, _ := io.ReadAll(f)
		if header.Filename != "items.csv" || !strings.HasPrefix(string(raw), "name,price") {
			t.Errorf("unexpected upload %s %q", header.Filename, raw)
		}
		_, _ = w.Write([]byte(`{"created":1}`))
	})

	var out map[string]int
	if err := c.upload(context.Background(), "/upload-csv", path, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out["created"] != 1 {
		t.Fatalf("unexpected body %v", out)
	}
}
