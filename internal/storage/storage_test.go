// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/canonical/inventory-service/internal/db"
	"github.com/canonical/inventory-service/internal/logging"
	"github.com/canonical/inventory-service/internal/monitoring"
	"github.com/canonical/inventory-service/internal/tracing"
	"github.com/canonical/inventory-service/internal/types"
)

const itemID = "0195a0a2-7c1e-7a55-9d0e-3b5f2f3c4d5e"

func newTestStorage(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	logger := logging.NewNoopLogger()
	tracer := tracing.NewNoopTracer()
	monitor := monitoring.NewNoopMonitor("test", logger)

	return NewStorage(db.NewDBClientFromDB(sqlDB, tracer, monitor, logger), tracer, monitor, logger), mock
}

func itemRows() *sqlmock.Rows {
	return sqlmock.NewRows(itemColumns)
}

func addItemRow(rows *sqlmock.Rows, quantity int64, price string) *sqlmock.Rows {
	added := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	return rows.AddRow(
		itemID, "acme", "Widget", "Acme", "Tools", "small widget",
		quantity, price, int64(2), "0", "no_change",
		added, added, "user-1", "user-1",
	)
}

func widgetMerge(quantity int64, price string) types.MergeFunc {
	return func(existing *types.InventoryItem) *types.InventoryItem {
		p := decimal.RequireFromString(price)
		now := time.Now().UTC()
		if existing == nil {
			return &types.InventoryItem{
				Name: "Widget", Supplier: "Acme", Category: "Tools",
				Quantity: quantity, Price: p, PriceDiff: decimal.Zero, PriceChange: types.PriceNoChange,
				AddedAt: now, UpdatedAt: now, AddedBy: "user-2", UpdatedBy: "user-2",
			}
		}
		next := *existing
		next.Quantity += quantity
		next.PriceDiff = p.Sub(existing.Price)
		next.PriceChange = types.PriceChangeOf(next.PriceDiff)
		next.Price = p
		next.UpdatedAt = now
		next.UpdatedBy = "user-2"
		return &next
	}
}

func TestStorage_ReconcileItem(t *testing.T) {
	key := types.NaturalKey{Name: "Widget", Supplier: "Acme", Category: "Tools"}

	testCases := []struct {
		name            string
		setupMocks      func(sqlmock.Sqlmock)
		expectedCreated bool
		expectedQty     int64
		expectedErr     error
	}{
		{
			name: "creates when no item carries the key",
			setupMocks: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("pg_advisory_xact_lock").
					WithArgs(key.Hash("acme")).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery(regexp.QuoteMeta("FROM inventory_items WHERE category = $1 AND name = $2 AND supplier = $3 AND tenant_id = $4 ORDER BY added_at ASC, id ASC LIMIT 1 FOR UPDATE")).
					WithArgs("Tools", "Widget", "Acme", "acme").
					WillReturnRows(itemRows())
				mock.ExpectExec("INSERT INTO inventory_items").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
			expectedCreated: true,
			expectedQty:     10,
		},
		{
			name: "merges into the existing item",
			setupMocks: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("pg_advisory_xact_lock").WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery("FROM inventory_items").
					WillReturnRows(addItemRow(itemRows(), 3, "5.00"))
				mock.ExpectExec("UPDATE inventory_items SET").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
			expectedCreated: false,
			expectedQty:     13,
		},
		{
			name: "rolls back on write failure",
			setupMocks: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("pg_advisory_xact_lock").WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery("FROM inventory_items").WillReturnRows(itemRows())
				mock.ExpectExec("INSERT INTO inventory_items").
					WillReturnError(&pgconn.PgError{Code: "23505"})
				mock.ExpectRollback()
			},
			expectedErr: ErrDuplicateKey,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, mock := newTestStorage(t)
			tc.setupMocks(mock)

			item, created, err := s.ReconcileItem(context.Background(), "acme", key, widgetMerge(10, "6.00"))

			if tc.expectedErr != nil {
				if !errors.Is(err, tc.expectedErr) {
					t.Fatalf("expected error %v, got %v", tc.expectedErr, err)
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if created != tc.expectedCreated {
					t.Errorf("expected created %v, got %v", tc.expectedCreated, created)
				}
				if item.Quantity != tc.expectedQty {
					t.Errorf("expected quantity %d, got %d", tc.expectedQty, item.Quantity)
				}
				if item.ID == "" || item.TenantID != "acme" {
					t.Errorf("unexpected identity %q/%q", item.ID, item.TenantID)
				}
			}

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unmet expectations: %v", err)
			}
		})
	}
}

func TestStorage_ReconcileItemPriceDelta(t *testing.T) {
	s, mock := newTestStorage(t)
	key := types.NaturalKey{Name: "Widget", Supplier: "Acme", Category: "Tools"}

	mock.ExpectBegin()
	mock.ExpectExec("pg_advisory_xact_lock").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("FROM inventory_items").WillReturnRows(addItemRow(itemRows(), 10, "5.00"))
	mock.ExpectExec("UPDATE inventory_items SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	item, _, err := s.ReconcileItem(context.Background(), "acme", key, widgetMerge(3, "6.00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !item.PriceDiff.Equal(decimal.RequireFromString("1.00")) {
		t.Errorf("expected price diff 1.00, got %s", item.PriceDiff)
	}
	if item.PriceChange != types.PriceIncrease {
		t.Errorf("expected increase, got %s", item.PriceChange)
	}
	if item.AddedBy != "user-1" {
		t.Errorf("addedBy must be preserved, got %s", item.AddedBy)
	}
}

func TestStorage_GetUser(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name        string
		setupMocks  func(sqlmock.Sqlmock)
		expectedErr error
	}{
		{
			name: "found",
			setupMocks: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
					WithArgs("user-1").
					WillReturnRows(sqlmock.NewRows(userColumns).
						AddRow("user-1", "acme", "jane@acme.io", "Jane", "Doe", "manager", "active", created))
			},
		},
		{
			name: "not found",
			setupMocks: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("FROM users").WillReturnRows(sqlmock.NewRows(userColumns))
			},
			expectedErr: types.ErrNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, mock := newTestStorage(t)
			tc.setupMocks(mock)

			u, err := s.GetUser(context.Background(), "user-1")

			if tc.expectedErr != nil {
				if !errors.Is(err, tc.expectedErr) {
					t.Fatalf("expected error %v, got %v", tc.expectedErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if u.Role != types.RoleManager || u.TenantID != "acme" {
				t.Errorf("unexpected user %+v", u)
			}
		})
	}
}

func TestStorage_UpdateUserRoleNotFound(t *testing.T) {
	s, mock := newTestStorage(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET role = $1 WHERE id = $2 AND tenant_id = $3")).
		WithArgs("manager", "user-9", "acme").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.UpdateUserRole(context.Background(), "acme", "user-9", types.RoleManager)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStorage_CreateUserDuplicate(t *testing.T) {
	s, mock := newTestStorage(t)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := s.CreateUser(context.Background(), &types.User{ID: "user-1", TenantID: "acme", Email: "jane@acme.io", Role: types.RoleStaff})
	if !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
	if !errors.Is(err, types.ErrConflict) {
		t.Fatalf("duplicate key must be a conflict, got %v", err)
	}
}

func TestStorage_DeleteItemInvalidID(t *testing.T) {
	s, mock := newTestStorage(t)

	if err := s.DeleteItem(context.Background(), "acme", "not-a-uuid"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("no query should run: %v", err)
	}
}

func TestStorage_ListItemsInWindow(t *testing.T) {
	s, mock := newTestStorage(t)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE (tenant_id = $1 AND ((added_at >= $2 AND added_at < $3) OR (updated_at >= $4 AND updated_at < $5)))")).
		WithArgs("acme", start, end, start, end).
		WillReturnRows(addItemRow(itemRows(), 4, "2.50"))

	items, err := s.ListItemsInWindow(context.Background(), "acme", start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(items) != 1 || !items[0].Price.Equal(decimal.RequireFromString("2.5")) {
		t.Errorf("unexpected items %+v", items)
	}
}

func TestStorage_ListTasks(t *testing.T) {
	s, mock := newTestStorage(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM tasks WHERE tenant_id = $1 ORDER BY created_at DESC, id DESC LIMIT 2")).
		WithArgs("acme").
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "title", "description", "urgency", "created_at"}).
			AddRow("t-2", "acme", "Inventory item updated: Widget", "", "low", now).
			AddRow("t-1", "acme", "Inventory item created: Widget", "", "high", now.Add(-time.Minute)))

	tasks, err := s.ListTasks(context.Background(), "acme", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(tasks) != 2 || tasks[1].Urgency != types.UrgencyHigh {
		t.Errorf("unexpected tasks %+v", tasks)
	}
}
