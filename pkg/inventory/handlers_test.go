// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"

	"github.com/canonical/inventory-service/internal/logging"
	"github.com/canonical/inventory-service/internal/monitoring"
	"github.com/canonical/inventory-service/internal/storage"
	"github.com/canonical/inventory-service/internal/tracing"
	"github.com/canonical/inventory-service/internal/types"
	"github.com/canonical/inventory-service/pkg/authentication"
)

var testCaller = &types.Caller{UserID: "u1", DisplayName: "Jane Doe", TenantID: "acme", Role: types.RoleStaff}

func newTestRouter(ctrl *gomock.Controller, svc ServiceInterface) http.Handler {
	gate := NewMockGateInterface(ctrl)
	gate.EXPECT().Require(types.RoleStaff).Return(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(authentication.WithCaller(r.Context(), testCaller)))
		})
	})

	logger := logging.NewNoopLogger()
	router := chi.NewMux()
	NewAPI(svc, gate, 1<<20, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger).RegisterEndpoints(router)

	return router
}

func csvUpload(t *testing.T, filename, content string) (io.Reader, string) {
	t.Helper()

	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)

	fw, err := mw.CreateFormFile(uploadField, filename)
	if err != nil {
		t.Fatalf("failed to build form: %v", err)
	}
	fw.Write([]byte(content))
	mw.Close()

	return body, mw.FormDataContentType()
}

func TestAPI_AddInventory(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMocks     func(*MockServiceInterface)
		expectedStatus int
	}{
		{
			name: "created",
			body: `{"name":"Widget","supplier":"Acme","category":"Tools","quantity":10,"price":5.00}`,
			setupMocks: func(svc *MockServiceInterface) {
				svc.EXPECT().Ingest(gomock.Any(), "acme", gomock.Any(), "Jane Doe").DoAndReturn(
					func(_ context.Context, _ string, items []*types.IncomingItem, _ string) ([]*types.Outcome, error) {
						if len(items) != 1 || items[0].Name != "Widget" || *items[0].Quantity != 10 || !items[0].Price.Valid {
							t.Errorf("unexpected items %+v", items)
						}
						return []*types.Outcome{{Created: true, Item: &types.InventoryItem{ID: "i1"}}}, nil
					},
				)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "merged",
			body: `{"name":"Widget","supplier":"Acme","category":"Tools","quantity":3,"price":"6.00","companyName":" ACME "}`,
			setupMocks: func(svc *MockServiceInterface) {
				svc.EXPECT().Ingest(gomock.Any(), "acme", gomock.Any(), "Jane Doe").
					Return([]*types.Outcome{{Created: false, Item: &types.InventoryItem{ID: "i1"}}}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "fractional quantity",
			body:           `{"name":"Widget","supplier":"Acme","quantity":1.5,"price":1}`,
			setupMocks:     func(*MockServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "other company",
			body:           `{"name":"Widget","supplier":"Acme","quantity":1,"price":1,"companyName":"globex"}`,
			setupMocks:     func(*MockServiceInterface) {},
			expectedStatus: http.StatusForbidden,
		},
		{
			name: "missing field",
			body: `{"name":"Widget","quantity":1,"price":1}`,
			setupMocks: func(svc *MockServiceInterface) {
				svc.EXPECT().Ingest(gomock.Any(), "acme", gomock.Any(), "Jane Doe").
					Return([]*types.Outcome{{Err: types.NewValidationError("supplier", "is required")}}, nil)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "store failure is not leaked",
			body: `{"name":"Widget","supplier":"Acme","quantity":1,"price":1}`,
			setupMocks: func(svc *MockServiceInterface) {
				svc.EXPECT().Ingest(gomock.Any(), "acme", gomock.Any(), "Jane Doe").
					Return([]*types.Outcome{{Err: errors.New("pq: connection refused to 10.0.0.3")}}, nil)
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc := NewMockServiceInterface(ctrl)
			tt.setupMocks(svc)

			req := httptest.NewRequest(http.MethodPost, "/add-inventory", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()

			newTestRouter(ctrl, svc).ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, rr.Code, rr.Body.String())
			}
			if strings.Contains(rr.Body.String(), "10.0.0.3") {
				t.Errorf("upstream error leaked: %s", rr.Body.String())
			}
		})
	}
}

func TestAPI_UploadCSV(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := NewMockServiceInterface(ctrl)
	svc.EXPECT().Ingest(gomock.Any(), "acme", gomock.Len(2), "Jane Doe").Return([]*types.Outcome{
		{Index: 0, Created: true, Item: &types.InventoryItem{ID: "i1"}},
		{Index: 1, Err: types.NewValidationError("price", "is required")},
	}, nil)

	body, contentType := csvUpload(t, "stock.CSV", "Item Name,Description,Category,Quantity,Price,Supplier\nWidget,,Tools,1,2,Acme\nGadget,,Tools,1,,Acme\n")

	req := httptest.NewRequest(http.MethodPost, "/upload-csv", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()

	newTestRouter(ctrl, svc).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp uploadResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Created != 1 || resp.Failed != 1 || resp.Results[1].Error != "price: is required" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestAPI_UploadRejects(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  string
	}{
		{name: "spreadsheet", filename: "stock.xlsx", content: "PK"},
		{name: "malformed quantity", filename: "stock.csv", content: "Item Name,Description,Category,Quantity,Price,Supplier\nWidget,,Tools,many,2,Acme\n"},
		{name: "missing columns", filename: "stock.csv", content: "Item Name,Price\nWidget,2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			body, contentType := csvUpload(t, tt.filename, tt.content)

			req := httptest.NewRequest(http.MethodPost, "/upload-csv", body)
			req.Header.Set("Content-Type", contentType)
			rr := httptest.NewRecorder()

			newTestRouter(ctrl, NewMockServiceInterface(ctrl)).ServeHTTP(rr, req)

			if rr.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rr.Code)
			}
		})
	}
}

func TestAPI_UpdateAndDelete(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		setupMocks     func(*MockServiceInterface)
		expectedStatus int
	}{
		{
			name:   "update",
			method: http.MethodPut,
			path:   "/update-inventory/i1",
			body:   `{"soldCount":4}`,
			setupMocks: func(svc *MockServiceInterface) {
				svc.EXPECT().UpdateItem(gomock.Any(), "acme", "i1", gomock.Any(), "Jane Doe").Return(&types.InventoryItem{ID: "i1", SoldCount: 4}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "update conflict",
			method: http.MethodPut,
			path:   "/update-inventory/i1",
			body:   `{"name":"Gadget"}`,
			setupMocks: func(svc *MockServiceInterface) {
				svc.EXPECT().UpdateItem(gomock.Any(), "acme", "i1", gomock.Any(), "Jane Doe").Return(nil, storage.ErrDuplicateKey)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:   "delete missing",
			method: http.MethodDelete,
			path:   "/delete-inventory/i2",
			setupMocks: func(svc *MockServiceInterface) {
				svc.EXPECT().DeleteItem(gomock.Any(), "acme", "i2").Return(storage.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:   "list",
			method: http.MethodGet,
			path:   "/inventory?companyName=Acme",
			setupMocks: func(svc *MockServiceInterface) {
				svc.EXPECT().ListItems(gomock.Any(), "acme").Return([]*types.InventoryItem{}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "list other tenant",
			method:         http.MethodGet,
			path:           "/inventory?companyName=globex",
			setupMocks:     func(*MockServiceInterface) {},
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc := NewMockServiceInterface(ctrl)
			tt.setupMocks(svc)

			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rr := httptest.NewRecorder()

			newTestRouter(ctrl, svc).ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d: %s", tt.expectedStatus, rr.Code, rr.Body.String())
			}
		})
	}
}
