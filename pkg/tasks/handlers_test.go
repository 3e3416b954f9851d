// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tasks

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"

	"github.com/canonical/inventory-service/internal/logging"
	"github.com/canonical/inventory-service/internal/monitoring"
	"github.com/canonical/inventory-service/internal/tracing"
	"github.com/canonical/inventory-service/internal/types"
	"github.com/canonical/inventory-service/pkg/authentication"
)

func TestAPI_Endpoints(t *testing.T) {
	caller := &types.Caller{UserID: "u1", TenantID: "acme", Role: types.RoleStaff}

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		setupMocks     func(*MockServiceInterface)
		expectedStatus int
	}{
		{
			name:   "list",
			method: http.MethodGet,
			path:   "/tasks",
			setupMocks: func(svc *MockServiceInterface) {
				svc.EXPECT().ListTasks(gomock.Any(), "acme").Return([]*types.Task{{ID: "t1"}}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "create",
			method: http.MethodPost,
			path:   "/tasks",
			body:   `{"title":"Restock bolts","urgency":"medium"}`,
			setupMocks: func(svc *MockServiceInterface) {
				svc.EXPECT().CreateTask(gomock.Any(), "acme", &CreateTaskRequest{Title: "Restock bolts", Urgency: types.UrgencyMedium}).
					Return(&types.Task{ID: "t1"}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:   "create without title",
			method: http.MethodPost,
			path:   "/tasks",
			body:   `{}`,
			setupMocks: func(svc *MockServiceInterface) {
				svc.EXPECT().CreateTask(gomock.Any(), "acme", gomock.Any()).Return(nil, types.NewValidationError("title", "is required"))
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "create with broken body",
			method:         http.MethodPost,
			path:           "/tasks",
			body:           `[`,
			setupMocks:     func(*MockServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "low stock",
			method: http.MethodGet,
			path:   "/low-stock",
			setupMocks: func(svc *MockServiceInterface) {
				svc.EXPECT().LowStock(gomock.Any(), "acme").Return([]*types.InventoryItem{}, nil)
			},
			expectedStatus: http.StatusOK,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc := NewMockServiceInterface(ctrl)
			gate := NewMockGateInterface(ctrl)
			gate.EXPECT().Require(types.RoleStaff).Return(func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					next.ServeHTTP(w, r.WithContext(authentication.WithCaller(r.Context(), caller)))
				})
			})
			test.setupMocks(svc)

			logger := logging.NewNoopLogger()
			router := chi.NewMux()
			NewAPI(svc, gate, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger).RegisterEndpoints(router)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(test.method, test.path, strings.NewReader(test.body)))

			if w.Code != test.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", test.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}
