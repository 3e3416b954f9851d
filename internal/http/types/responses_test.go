// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/canonical/inventory-service/internal/logging"
	"github.com/canonical/inventory-service/internal/types"
)

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedStatus  int
		expectedMessage string
	}{
		{
			name:            "validation",
			err:             types.NewValidationError("name", "is required"),
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "name: is required",
		},
		{
			name:            "wrapped not found",
			err:             fmt.Errorf("lookup: %w", types.NotFoundError("item")),
			expectedStatus:  http.StatusNotFound,
			expectedMessage: "lookup: item not found",
		},
		{
			name:            "unauthenticated",
			err:             types.ErrUnauthenticated,
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: "unauthenticated",
		},
		{
			name:            "forbidden",
			err:             fmt.Errorf("promote: %w", types.ErrForbidden),
			expectedStatus:  http.StatusForbidden,
			expectedMessage: "forbidden",
		},
		{
			name:            "upstream detail is hidden",
			err:             fmt.Errorf("kratos said: secret detail: %w", types.ErrUpstream),
			expectedStatus:  http.StatusBadGateway,
			expectedMessage: "upstream service unavailable",
		},
		{
			name:            "unknown error is hidden",
			err:             errors.New("pq: relation users does not exist"),
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: "internal server error",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			status, message := StatusFromError(test.err)

			if status != test.expectedStatus {
				t.Errorf("expected status %d, got %d", test.expectedStatus, status)
			}
			if message != test.expectedMessage {
				t.Errorf("expected message %q, got %q", test.expectedMessage, message)
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()

	WriteError(rr, errors.New("boom"), logging.NewNoopLogger())

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}

	var body ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}

	if body.Status != http.StatusInternalServerError || body.Message != "internal server error" {
		t.Errorf("unexpected body %+v", body)
	}
}
