// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/canonical/inventory-service/internal/logging"
	"github.com/canonical/inventory-service/internal/monitoring"
	"github.com/canonical/inventory-service/internal/tracing"
	"github.com/canonical/inventory-service/internal/types"
)

//go:generate mockgen -build_flags=--mod=mod -package tasks -destination ./mock_interfaces.go -source=./interfaces.go

func newTestService(ctrl *gomock.Controller) (*Service, *MockStorageInterface) {
	store := NewMockStorageInterface(ctrl)
	logger := logging.NewNoopLogger()

	s := NewService(store, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger)
	s.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	return s, store
}

func TestService_CreateTask(t *testing.T) {
	tests := []struct {
		name            string
		req             *CreateTaskRequest
		expectedUrgency types.Urgency
		expectedField   string
	}{
		{name: "defaults to low", req: &CreateTaskRequest{Title: "Restock bolts"}, expectedUrgency: types.UrgencyLow},
		{name: "urgency is case insensitive", req: &CreateTaskRequest{Title: "Restock bolts", Urgency: " HIGH "}, expectedUrgency: types.UrgencyHigh},
		{name: "title required", req: &CreateTaskRequest{Title: "   "}, expectedField: "title"},
		{name: "unknown urgency", req: &CreateTaskRequest{Title: "Restock bolts", Urgency: "asap"}, expectedField: "urgency"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			s, store := newTestService(ctrl)

			if test.expectedField == "" {
				store.EXPECT().CreateTask(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, task *types.Task) (*types.Task, error) {
						if task.TenantID != "acme" || task.Urgency != test.expectedUrgency || task.CreatedAt.IsZero() {
							t.Errorf("unexpected task %+v", task)
						}
						created := *task
						created.ID = "t1"
						return &created, nil
					},
				)
			}

			task, err := s.CreateTask(context.Background(), "acme", test.req)

			if test.expectedField != "" {
				var verr *types.ValidationError
				if !errors.As(err, &verr) || verr.Fields[0].Field != test.expectedField {
					t.Fatalf("expected validation error on %s, got %v", test.expectedField, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if task.ID != "t1" {
				t.Errorf("expected stored task, got %+v", task)
			}
		})
	}
}

func TestService_LowStock(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, store := newTestService(ctrl)
	low := []*types.InventoryItem{{ID: "a", Quantity: 3}, {ID: "b", Quantity: 0}}
	store.EXPECT().ListLowStock(gomock.Any(), "acme", int64(LowStockThreshold)).Return(low, nil)

	items, err := s.LowStock(context.Background(), "acme")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("expected 2 items, got %d", len(items))
	}
}

func TestService_ListTasks(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, store := newTestService(ctrl)
	store.EXPECT().ListTasks(gomock.Any(), "acme", uint64(0)).Return(nil, errors.New("connection refused"))

	if _, err := s.ListTasks(context.Background(), "acme"); err == nil {
		t.Fatal("expected error")
	}
}
