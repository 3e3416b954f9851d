// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestPriceChangeOf(t *testing.T) {
	tests := []struct {
		diff     string
		expected PriceChange
	}{
		{"1.00", PriceIncrease},
		{"-0.01", PriceDecrease},
		{"0", PriceNoChange},
	}

	for _, test := range tests {
		t.Run(test.diff, func(t *testing.T) {
			if got := PriceChangeOf(decimal.RequireFromString(test.diff)); got != test.expected {
				t.Errorf("expected %s, got %s", test.expected, got)
			}
		})
	}
}

func TestNaturalKeyHash(t *testing.T) {
	k := NaturalKey{Name: "Widget", Supplier: "Acme", Category: "Tools"}

	if k.Hash("acme") != k.Hash("acme") {
		t.Error("hash must be stable")
	}
	if k.Hash("acme") == k.Hash("other") {
		t.Error("hash must be tenant scoped")
	}

	shifted := NaturalKey{Name: "Widge", Supplier: "tAcme", Category: "Tools"}
	if k.Hash("acme") == shifted.Hash("acme") {
		t.Error("hash must separate fields")
	}
}

func TestIncomingItemKeyTrims(t *testing.T) {
	i := &IncomingItem{Name: " Widget ", Supplier: "Acme\t", Category: " Tools"}

	if got := i.Key(); got != (NaturalKey{Name: "Widget", Supplier: "Acme", Category: "Tools"}) {
		t.Errorf("unexpected key %+v", got)
	}
}

func TestInventoryItemJSONPrice(t *testing.T) {
	item := InventoryItem{Price: decimal.RequireFromString("6.00"), PriceDiff: decimal.RequireFromString("-1.5")}

	b, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := out["price"].(float64); !ok {
		t.Errorf("expected price to be a JSON number, got %T", out["price"])
	}
	if out["priceDiff"].(float64) != -1.5 {
		t.Errorf("unexpected priceDiff %v", out["priceDiff"])
	}
}

func TestValidationError(t *testing.T) {
	err := error(&ValidationError{Fields: []FieldError{
		{Field: "row 2 Quantity", Message: "must be a non-negative integer"},
		{Message: "file is empty"},
	}})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatal("expected a ValidationError")
	}

	if err.Error() != "row 2 Quantity: must be a non-negative integer; file is empty" {
		t.Errorf("unexpected message %q", err.Error())
	}

	if !errors.Is(NotFoundError("user"), ErrNotFound) {
		t.Error("NotFoundError must wrap ErrNotFound")
	}
}
