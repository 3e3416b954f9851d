// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenant

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"

	"github.com/canonical/inventory-service/internal/logging"
	"github.com/canonical/inventory-service/internal/monitoring"
	"github.com/canonical/inventory-service/internal/tracing"
	"github.com/canonical/inventory-service/internal/types"
	"github.com/canonical/inventory-service/pkg/authentication"
)

func newTestAPI(ctrl *gomock.Controller) (http.Handler, *MockServiceInterface) {
	return newTestAPIWithTx(ctrl, nil)
}

func newTestAPIWithTx(ctrl *gomock.Controller, tx func(http.Handler) http.Handler) (http.Handler, *MockServiceInterface) {
	svc := NewMockServiceInterface(ctrl)
	authz := NewMockAuthorizerInterface(ctrl)

	svc.EXPECT().Resolve(gomock.Any(), "admin-1").Return(admin, nil).AnyTimes()
	authz.EXPECT().Check(gomock.Any(), "admin-1", types.RoleAdmin, "acme").Return(true, nil).AnyTimes()

	logger := logging.NewNoopLogger()
	tracer := tracing.NewNoopTracer()
	monitor := monitoring.NewNoopMonitor("test", logger)

	router := chi.NewMux()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(authentication.WithUserID(r.Context(), "admin-1")))
		})
	})

	gate := NewGate(svc, authz, tracer, monitor, logger)
	NewAPI(svc, gate, tx, tracer, monitor, logger).RegisterEndpoints(router)

	return router, svc
}

func TestAPI_Users(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		path           string
		setupMocks     func(*MockServiceInterface)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:   "list",
			method: http.MethodGet,
			path:   "/users",
			setupMocks: func(svc *MockServiceInterface) {
				svc.EXPECT().ListUsers(gomock.Any(), admin).Return([]*types.User{{ID: "u2", Role: types.RoleStaff}}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "promote",
			method: http.MethodPut,
			path:   "/users/u2/promote",
			setupMocks: func(svc *MockServiceInterface) {
				svc.EXPECT().Promote(gomock.Any(), admin, "u2").Return(&types.User{ID: "u2", Role: types.RoleManager}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   "User promoted successfully",
		},
		{
			name:   "promote invalid role",
			method: http.MethodPut,
			path:   "/users/u2/promote",
			setupMocks: func(svc *MockServiceInterface) {
				svc.EXPECT().Promote(gomock.Any(), admin, "u2").Return(nil, ErrPromotion)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "demote",
			method: http.MethodPut,
			path:   "/users/u2/demote",
			setupMocks: func(svc *MockServiceInterface) {
				svc.EXPECT().Demote(gomock.Any(), admin, "u2").Return(&types.User{ID: "u2", Role: types.RoleStaff}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   "User demoted successfully",
		},
		{
			name:   "remove",
			method: http.MethodDelete,
			path:   "/users/u2/remove",
			setupMocks: func(svc *MockServiceInterface) {
				svc.EXPECT().Remove(gomock.Any(), admin, "u2").Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   "User removed successfully",
		},
		{
			name:   "remove unknown",
			method: http.MethodDelete,
			path:   "/users/u9/remove",
			setupMocks: func(svc *MockServiceInterface) {
				svc.EXPECT().Remove(gomock.Any(), admin, "u9").Return(ErrUserNotInScope)
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			router, svc := newTestAPI(ctrl)
			test.setupMocks(svc)

			req := httptest.NewRequest(test.method, test.path, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != test.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", test.expectedStatus, w.Code, w.Body.String())
			}

			if test.expectedBody == "" {
				return
			}

			var body userResponse
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if body.Message != test.expectedBody {
				t.Errorf("expected %q, got %q", test.expectedBody, body.Message)
			}
		})
	}
}

func TestAPI_AdminRoutesRunInTransaction(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	wrapped := 0
	tx := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped++
			next.ServeHTTP(w, r)
		})
	}

	router, svc := newTestAPIWithTx(ctrl, tx)
	svc.EXPECT().Demote(gomock.Any(), admin, "u2").Return(&types.User{ID: "u2", Role: types.RoleStaff}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/users/u2/demote", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if wrapped != 1 {
		t.Fatalf("expected the request to run in one transaction, got %d", wrapped)
	}
}
