// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package inventory

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/canonical/inventory-service/internal/types"
)

func incoming(name string, qty int64, price string) *types.IncomingItem {
	return &types.IncomingItem{
		Name:     name,
		Supplier: "Acme",
		Category: "Tools",
		Quantity: &qty,
		Price:    decimal.NewNullDecimal(decimal.RequireFromString(price)),
	}
}

func TestMerge(t *testing.T) {
	added := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	now := time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)

	existing := &types.InventoryItem{
		ID:          "item-1",
		Name:        "Widget",
		Supplier:    "Acme",
		Category:    "Tools",
		Description: "blue",
		Quantity:    10,
		Price:       decimal.RequireFromString("5.00"),
		SoldCount:   4,
		AddedAt:     added,
		AddedBy:     "Jane Doe",
		UpdatedAt:   added,
		UpdatedBy:   "Jane Doe",
	}

	tests := []struct {
		name           string
		in             *types.IncomingItem
		existing       *types.InventoryItem
		expectedQty    int64
		expectedPrice  string
		expectedDiff   string
		expectedChange types.PriceChange
		expectedDesc   string
	}{
		{
			name:           "create",
			in:             incoming(" Widget ", 10, "5.00"),
			expectedQty:    10,
			expectedPrice:  "5",
			expectedDiff:   "0",
			expectedChange: types.PriceNoChange,
		},
		{
			name:           "merge with price increase",
			in:             incoming("Widget", 3, "6.00"),
			existing:       existing,
			expectedQty:    13,
			expectedPrice:  "6",
			expectedDiff:   "1",
			expectedChange: types.PriceIncrease,
			expectedDesc:   "blue",
		},
		{
			name:           "merge with price decrease",
			in:             incoming("Widget", 1, "4.50"),
			existing:       existing,
			expectedQty:    11,
			expectedPrice:  "4.5",
			expectedDiff:   "-0.5",
			expectedChange: types.PriceDecrease,
			expectedDesc:   "blue",
		},
		{
			name:           "merge with same price",
			in:             incoming("Widget", 0, "5"),
			existing:       existing,
			expectedQty:    10,
			expectedPrice:  "5",
			expectedDiff:   "0",
			expectedChange: types.PriceNoChange,
			expectedDesc:   "blue",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(tt.in, "John Roe", now)(tt.existing)

			if got.Quantity != tt.expectedQty {
				t.Errorf("expected quantity %d, got %d", tt.expectedQty, got.Quantity)
			}
			if !got.Price.Equal(decimal.RequireFromString(tt.expectedPrice)) {
				t.Errorf("expected price %s, got %s", tt.expectedPrice, got.Price)
			}
			if !got.PriceDiff.Equal(decimal.RequireFromString(tt.expectedDiff)) {
				t.Errorf("expected diff %s, got %s", tt.expectedDiff, got.PriceDiff)
			}
			if got.PriceChange != tt.expectedChange {
				t.Errorf("expected change %s, got %s", tt.expectedChange, got.PriceChange)
			}
			if got.Description != tt.expectedDesc {
				t.Errorf("expected description %q, got %q", tt.expectedDesc, got.Description)
			}
			if !got.UpdatedAt.Equal(now) || got.UpdatedBy != "John Roe" {
				t.Errorf("unexpected update stamp %s %s", got.UpdatedAt, got.UpdatedBy)
			}

			if tt.existing == nil {
				if got.Name != "Widget" || got.AddedBy != "John Roe" || !got.AddedAt.Equal(now) || got.SoldCount != 0 {
					t.Errorf("unexpected created item %+v", got)
				}
				return
			}

			if got.ID != "item-1" || got.AddedBy != "Jane Doe" || !got.AddedAt.Equal(added) || got.SoldCount != 4 {
				t.Errorf("merge touched provenance %+v", got)
			}
			if tt.existing.Quantity != 10 {
				t.Errorf("merge mutated the stored item")
			}
		})
	}
}

func TestMergeReplacesDescription(t *testing.T) {
	in := incoming("Widget", 1, "5")
	in.Description = " red "

	got := Merge(in, "John Roe", time.Now())(&types.InventoryItem{Description: "blue"})

	if got.Description != "red" {
		t.Errorf("expected description to be replaced, got %q", got.Description)
	}
}

func TestMergeSamePriceAfterStorage(t *testing.T) {
	in := incoming("Widget", 2, "5.010")
	if msg := priceProblem(in.Price.Decimal); msg != "" {
		t.Fatalf("expected price to be accepted, got %q", msg)
	}

	created := Merge(in, "Jane Doe", time.Now())(nil)

	// the stores keep prices at cents
	stored := *created
	stored.Price = created.Price.Round(2)
	if !stored.Price.Equal(created.Price) {
		t.Fatalf("stored price %s differs from returned price %s", stored.Price, created.Price)
	}

	merged := Merge(incoming("Widget", 1, "5.01"), "Jane Doe", time.Now())(&stored)

	if !merged.PriceDiff.IsZero() || merged.PriceChange != types.PriceNoChange {
		t.Errorf("expected no price change, got %s %s", merged.PriceDiff, merged.PriceChange)
	}
}

func TestPriceProblem(t *testing.T) {
	tests := []struct {
		price    string
		expected string
	}{
		{price: "0", expected: ""},
		{price: "5.01", expected: ""},
		{price: "5.010", expected: ""},
		{price: "999999999999.99", expected: ""},
		{price: "5.005", expected: "must have at most 2 decimal places"},
		{price: "0.001", expected: "must have at most 2 decimal places"},
		{price: "1000000000000", expected: "must be less than 1000000000000"},
		{price: "-0.01", expected: "must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.price, func(t *testing.T) {
			if got := priceProblem(decimal.RequireFromString(tt.price)); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestApplyUpdate(t *testing.T) {
	now := time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)
	item := &types.InventoryItem{Name: "Widget", Quantity: 10, Price: decimal.RequireFromString("5"), SoldCount: 1}

	name := " Gadget "
	sold := int64(7)
	ApplyUpdate(item, &types.ItemUpdate{
		Name:      &name,
		SoldCount: &sold,
		Price:     decimal.NewNullDecimal(decimal.RequireFromString("3.25")),
	}, "Jane Doe", now)

	if item.Name != "Gadget" || item.SoldCount != 7 || item.Quantity != 10 {
		t.Errorf("unexpected item %+v", item)
	}
	if !item.PriceDiff.Equal(decimal.RequireFromString("-1.75")) || item.PriceChange != types.PriceDecrease {
		t.Errorf("unexpected price delta %s %s", item.PriceDiff, item.PriceChange)
	}
	if item.UpdatedBy != "Jane Doe" || !item.UpdatedAt.Equal(now) {
		t.Errorf("unexpected update stamp")
	}
}
