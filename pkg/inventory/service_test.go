// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package inventory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/mock/gomock"

	"github.com/canonical/inventory-service/internal/storage"
	"github.com/canonical/inventory-service/internal/types"
	"github.com/canonical/inventory-service/pkg/notifications"
)

//go:generate mockgen -build_flags=--mod=mod -package inventory -destination ./mock_interfaces.go -source=./interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package inventory -destination ./mock_logger.go -source=../../internal/logging/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package inventory -destination ./mock_monitor.go -source=../../internal/monitoring/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package inventory -destination ./mock_tracing.go -source=../../internal/tracing/interfaces.go

type recordingDispatcher struct {
	mu   sync.Mutex
	sent []*notifications.Notification
}

func (d *recordingDispatcher) Notify(_ context.Context, n *notifications.Notification) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, n)
}

func (d *recordingDispatcher) NotifyUser(context.Context, string, string, string) {}

type serviceMocks struct {
	storage    *MockStorageInterface
	tracer     *MockTracingInterface
	monitor    *MockMonitorInterface
	logger     *MockLoggerInterface
	dispatcher *recordingDispatcher
}

func newTestService(ctrl *gomock.Controller, span string) (*Service, *serviceMocks) {
	m := &serviceMocks{
		storage:    NewMockStorageInterface(ctrl),
		tracer:     NewMockTracingInterface(ctrl),
		monitor:    NewMockMonitorInterface(ctrl),
		logger:     NewMockLoggerInterface(ctrl),
		dispatcher: new(recordingDispatcher),
	}

	m.tracer.EXPECT().Start(gomock.Any(), span).Return(context.Background(), trace.SpanFromContext(context.Background()))

	s := NewService(m.storage, m.dispatcher, m.tracer, m.monitor, m.logger)
	s.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	return s, m
}

// storeOf emulates the natural key lookup of the store over a fixed item set.
func storeOf(items map[types.NaturalKey]*types.InventoryItem) func(context.Context, string, types.NaturalKey, types.MergeFunc) (*types.InventoryItem, bool, error) {
	return func(_ context.Context, tenantID string, key types.NaturalKey, merge types.MergeFunc) (*types.InventoryItem, bool, error) {
		existing := items[key]
		next := merge(existing)
		next.TenantID = tenantID
		if existing == nil {
			next.ID = "new-" + key.Name
		}
		items[key] = next
		return next, existing == nil, nil
	}
}

func TestService_IngestCreateThenMerge(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, m := newTestService(ctrl, "inventory.Service.Ingest")
	m.tracer.EXPECT().Start(gomock.Any(), "inventory.Service.Ingest").Return(context.Background(), trace.SpanFromContext(context.Background()))

	items := make(map[types.NaturalKey]*types.InventoryItem)
	m.storage.EXPECT().ReconcileItem(gomock.Any(), "acme", types.NaturalKey{Name: "Widget", Supplier: "Acme", Category: "Tools"}, gomock.Any()).
		DoAndReturn(storeOf(items)).Times(2)
	m.monitor.EXPECT().IncIngestOutcome(map[string]string{"outcome": "created"}).Return(nil)
	m.monitor.EXPECT().IncIngestOutcome(map[string]string{"outcome": "merged"}).Return(nil)

	first, err := s.Ingest(context.Background(), "acme", []*types.IncomingItem{incoming("Widget", 10, "5.00")}, "Jane Doe")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first[0].Created || !first[0].Item.PriceDiff.IsZero() {
		t.Errorf("expected created item with zero diff, got %+v", first[0])
	}

	second, err := s.Ingest(context.Background(), "acme", []*types.IncomingItem{incoming("Widget", 3, "6.00")}, "Jane Doe")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	merged := second[0].Item
	if second[0].Created || merged.ID != "new-Widget" || merged.Quantity != 13 {
		t.Errorf("expected merge into the same record, got %+v", second[0])
	}
	if !merged.Price.Equal(decimal.RequireFromString("6")) || !merged.PriceDiff.Equal(decimal.RequireFromString("1")) || merged.PriceChange != types.PriceIncrease {
		t.Errorf("unexpected price tracking %s %s %s", merged.Price, merged.PriceDiff, merged.PriceChange)
	}

	if len(m.dispatcher.sent) != 2 {
		t.Fatalf("expected one notification per outcome, got %d", len(m.dispatcher.sent))
	}
	if m.dispatcher.sent[1].Subject != "Inventory item updated: Widget" || m.dispatcher.sent[1].TenantID != "acme" {
		t.Errorf("unexpected notification %+v", m.dispatcher.sent[1])
	}
}

func TestService_IngestBatchPolicy(t *testing.T) {
	negative := int64(-1)

	tests := []struct {
		name          string
		items         []*types.IncomingItem
		setupMocks    func(*serviceMocks)
		expectedErr   bool
		expectedFails []bool
	}{
		{
			name: "negative quantity rejects the whole batch",
			items: []*types.IncomingItem{
				incoming("Widget", 1, "1"),
				{Name: "Gadget", Supplier: "Acme", Quantity: &negative, Price: decimal.NewNullDecimal(decimal.NewFromInt(1))},
			},
			setupMocks:  func(*serviceMocks) {},
			expectedErr: true,
		},
		{
			name: "negative price rejects the whole batch",
			items: []*types.IncomingItem{
				incoming("Widget", 1, "-0.01"),
			},
			setupMocks:  func(*serviceMocks) {},
			expectedErr: true,
		},
		{
			name: "sub-cent price rejects the whole batch",
			items: []*types.IncomingItem{
				incoming("Widget", 1, "1"),
				incoming("Gadget", 1, "5.005"),
			},
			setupMocks:  func(*serviceMocks) {},
			expectedErr: true,
		},
		{
			name: "price beyond the stored range rejects the whole batch",
			items: []*types.IncomingItem{
				incoming("Widget", 1, "1000000000000"),
			},
			setupMocks:  func(*serviceMocks) {},
			expectedErr: true,
		},
		{
			name: "trailing zeros beyond cents are accepted",
			items: []*types.IncomingItem{
				incoming("Widget", 1, "5.010"),
			},
			setupMocks: func(m *serviceMocks) {
				m.storage.EXPECT().ReconcileItem(gomock.Any(), "acme", gomock.Any(), gomock.Any()).
					DoAndReturn(storeOf(make(map[types.NaturalKey]*types.InventoryItem)))
				m.monitor.EXPECT().IncIngestOutcome(map[string]string{"outcome": "created"}).Return(nil)
			},
			expectedFails: []bool{false},
		},
		{
			name:        "empty batch",
			setupMocks:  func(*serviceMocks) {},
			expectedErr: true,
		},
		{
			name: "missing fields only fail their item",
			items: []*types.IncomingItem{
				{Name: "  ", Supplier: "Acme", Price: decimal.NewNullDecimal(decimal.NewFromInt(1))},
				incoming("Widget", 1, "1"),
				{Name: "Gadget", Supplier: "Acme", Quantity: new(int64)},
			},
			setupMocks: func(m *serviceMocks) {
				m.storage.EXPECT().ReconcileItem(gomock.Any(), "acme", gomock.Any(), gomock.Any()).
					DoAndReturn(storeOf(make(map[types.NaturalKey]*types.InventoryItem)))
				m.monitor.EXPECT().IncIngestOutcome(map[string]string{"outcome": "failed"}).Return(nil).Times(2)
				m.monitor.EXPECT().IncIngestOutcome(map[string]string{"outcome": "created"}).Return(nil)
			},
			expectedFails: []bool{true, false, true},
		},
		{
			name: "store failure does not stop the batch",
			items: []*types.IncomingItem{
				incoming("Widget", 1, "1"),
				incoming("Gadget", 1, "1"),
			},
			setupMocks: func(m *serviceMocks) {
				gomock.InOrder(
					m.storage.EXPECT().ReconcileItem(gomock.Any(), "acme", gomock.Any(), gomock.Any()).Return(nil, false, errors.New("timeout")),
					m.storage.EXPECT().ReconcileItem(gomock.Any(), "acme", gomock.Any(), gomock.Any()).
						DoAndReturn(storeOf(make(map[types.NaturalKey]*types.InventoryItem))),
				)
				m.logger.EXPECT().Errorf(gomock.Any(), gomock.Any())
				m.monitor.EXPECT().IncIngestOutcome(map[string]string{"outcome": "failed"}).Return(nil)
				m.monitor.EXPECT().IncIngestOutcome(map[string]string{"outcome": "created"}).Return(nil)
			},
			expectedFails: []bool{true, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			s, m := newTestService(ctrl, "inventory.Service.Ingest")
			tt.setupMocks(m)

			outcomes, err := s.Ingest(context.Background(), "acme", tt.items, "Jane Doe")

			if tt.expectedErr {
				var verr *types.ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("expected validation error, got %v", err)
				}
				if len(m.dispatcher.sent) != 0 {
					t.Errorf("rejected batch must not notify")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			succeeded := 0
			for i, failed := range tt.expectedFails {
				if (outcomes[i].Err != nil) != failed {
					t.Errorf("outcome %d: expected failed=%v, got %v", i, failed, outcomes[i].Err)
				}
				if outcomes[i].Index != i {
					t.Errorf("outcome %d carries index %d", i, outcomes[i].Index)
				}
				if !failed {
					succeeded++
				}
			}

			if len(m.dispatcher.sent) != succeeded {
				t.Errorf("expected %d notifications, got %d", succeeded, len(m.dispatcher.sent))
			}
		})
	}
}

func TestService_IngestPriceMessages(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, _ := newTestService(ctrl, "inventory.Service.Ingest")

	_, err := s.Ingest(context.Background(), "acme", []*types.IncomingItem{
		incoming("Widget", 1, "5.005"),
		incoming("Gadget", 1, "999999999999.99"),
		incoming("Gizmo", 1, "1000000000000"),
	}, "Jane Doe")

	var verr *types.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}

	expected := "items[0].price: must have at most 2 decimal places; items[2].price: must be less than 1000000000000"
	if got := verr.Error(); got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestService_IngestMissingFieldNames(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, m := newTestService(ctrl, "inventory.Service.Ingest")
	m.monitor.EXPECT().IncIngestOutcome(gomock.Any()).Return(nil)

	outcomes, err := s.Ingest(context.Background(), "acme", []*types.IncomingItem{{Name: "Widget"}}, "Jane Doe")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := outcomes[0].Err.Error(); got != "supplier: is required; quantity: is required; price: is required" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestService_UpdateItem(t *testing.T) {
	empty := " "
	gadget := "Gadget"

	tests := []struct {
		name        string
		update      *types.ItemUpdate
		setupMocks  func(*serviceMocks)
		expectedErr error
	}{
		{
			name:   "success",
			update: &types.ItemUpdate{Price: decimal.NewNullDecimal(decimal.NewFromInt(8))},
			setupMocks: func(m *serviceMocks) {
				m.storage.EXPECT().UpdateItem(gomock.Any(), "acme", "item-1", gomock.Any()).DoAndReturn(
					func(_ context.Context, _, _ string, apply func(*types.InventoryItem) error) (*types.InventoryItem, error) {
						item := &types.InventoryItem{ID: "item-1", Price: decimal.NewFromInt(5)}
						return item, apply(item)
					},
				)
			},
		},
		{
			name:        "invalid update",
			update:      &types.ItemUpdate{Name: &empty},
			setupMocks:  func(*serviceMocks) {},
			expectedErr: &types.ValidationError{},
		},
		{
			name:        "sub-cent price",
			update:      &types.ItemUpdate{Price: decimal.NewNullDecimal(decimal.RequireFromString("8.125"))},
			setupMocks:  func(*serviceMocks) {},
			expectedErr: &types.ValidationError{},
		},
		{
			name:        "price beyond the stored range",
			update:      &types.ItemUpdate{Price: decimal.NewNullDecimal(decimal.RequireFromString("1e12"))},
			setupMocks:  func(*serviceMocks) {},
			expectedErr: &types.ValidationError{},
		},
		{
			name:   "natural key collision",
			update: &types.ItemUpdate{Name: &gadget},
			setupMocks: func(m *serviceMocks) {
				m.storage.EXPECT().UpdateItem(gomock.Any(), "acme", "item-1", gomock.Any()).Return(nil, storage.ErrDuplicateKey)
			},
			expectedErr: types.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			s, m := newTestService(ctrl, "inventory.Service.UpdateItem")
			tt.setupMocks(m)

			item, err := s.UpdateItem(context.Background(), "acme", "item-1", tt.update, "Jane Doe")

			switch expected := tt.expectedErr.(type) {
			case nil:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if item.PriceChange != types.PriceIncrease || item.UpdatedBy != "Jane Doe" {
					t.Errorf("unexpected item %+v", item)
				}
			case *types.ValidationError:
				if !errors.As(err, &expected) {
					t.Errorf("expected validation error, got %v", err)
				}
			default:
				if !errors.Is(err, tt.expectedErr) {
					t.Errorf("expected %v, got %v", tt.expectedErr, err)
				}
			}
		})
	}
}

func TestService_DeleteItemNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, m := newTestService(ctrl, "inventory.Service.DeleteItem")
	m.storage.EXPECT().DeleteItem(gomock.Any(), "acme", "missing").Return(storage.ErrNotFound)

	if err := s.DeleteItem(context.Background(), "acme", "missing"); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}
