// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package firestore

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/canonical/inventory-service/internal/logging"
	"github.com/canonical/inventory-service/internal/monitoring"
	"github.com/canonical/inventory-service/internal/storage"
	"github.com/canonical/inventory-service/internal/tracing"
	"github.com/canonical/inventory-service/internal/types"
)

// newEmulatorStore needs FIRESTORE_EMULATOR_HOST, the SDK picks it up on its own.
func newEmulatorStore(t *testing.T) (*Store, string) {
	t.Helper()

	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	client, err := NewClient(context.Background(), "inventory-test", "")
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	logger := logging.NewNoopLogger()
	store := NewStore(client, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger)

	return store, "tenant-" + uuid.NewString()
}

func addQuantity(qty int64, price string, actor string) types.MergeFunc {
	return func(existing *types.InventoryItem) *types.InventoryItem {
		p := decimal.RequireFromString(price)
		if existing == nil {
			return &types.InventoryItem{
				Name: "Widget", Supplier: "Acme", Category: "Tools",
				Quantity: qty, Price: p, PriceChange: types.PriceNoChange,
				AddedBy: actor, UpdatedBy: actor,
			}
		}
		next := *existing
		next.Quantity += qty
		next.PriceDiff = p.Sub(existing.Price)
		next.PriceChange = types.PriceChangeOf(next.PriceDiff)
		next.Price = p
		next.UpdatedBy = actor
		return &next
	}
}

func TestStore_ReconcileItemEmulator(t *testing.T) {
	store, tenant := newEmulatorStore(t)
	ctx := context.Background()
	key := types.NaturalKey{Name: "Widget", Supplier: "Acme", Category: "Tools"}

	first, created, err := store.ReconcileItem(ctx, tenant, key, addQuantity(10, "5.00", "u1"))
	if err != nil || !created {
		t.Fatalf("expected creation, got created=%v err=%v", created, err)
	}

	second, created, err := store.ReconcileItem(ctx, tenant, key, addQuantity(3, "6.00", "u2"))
	if err != nil || created {
		t.Fatalf("expected merge, got created=%v err=%v", created, err)
	}

	if second.ID != first.ID || second.Quantity != 13 || second.AddedBy != "u1" {
		t.Errorf("unexpected merged item %+v", second)
	}
	if second.PriceChange != types.PriceIncrease {
		t.Errorf("expected increase, got %s", second.PriceChange)
	}
}

func TestStore_ReconcileItemConcurrentEmulator(t *testing.T) {
	store, tenant := newEmulatorStore(t)
	ctx := context.Background()
	key := types.NaturalKey{Name: "Widget", Supplier: "Acme", Category: "Tools"}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := store.ReconcileItem(ctx, tenant, key, addQuantity(2, "1.00", "u1")); err != nil {
				t.Errorf("reconcile failed: %v", err)
			}
		}()
	}
	wg.Wait()

	items, err := store.ListItems(ctx, tenant)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].Quantity != 10 {
		t.Errorf("expected one item with quantity 10, got %+v", items)
	}
}

func TestStore_DeleteItemEmulator(t *testing.T) {
	store, tenant := newEmulatorStore(t)

	err := store.DeleteItem(context.Background(), tenant, "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
