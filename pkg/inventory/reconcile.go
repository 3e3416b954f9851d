// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package inventory

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/canonical/inventory-service/internal/types"
)

// Merge returns the reconciliation step for one validated incoming item.
// Without an existing record a new one is built, otherwise quantities add up
// and the price is replaced while its delta is recorded.
func Merge(in *types.IncomingItem, actor string, now time.Time) types.MergeFunc {
	key := in.Key()
	description := strings.TrimSpace(in.Description)
	quantity := *in.Quantity
	price := in.Price.Decimal

	return func(existing *types.InventoryItem) *types.InventoryItem {
		if existing == nil {
			return &types.InventoryItem{
				Name:        key.Name,
				Supplier:    key.Supplier,
				Category:    key.Category,
				Description: description,
				Quantity:    quantity,
				Price:       price,
				PriceDiff:   decimal.Zero,
				PriceChange: types.PriceNoChange,
				AddedAt:     now,
				UpdatedAt:   now,
				AddedBy:     actor,
				UpdatedBy:   actor,
				HasPrice:    true,
			}
		}

		next := *existing

		next.Quantity = existing.Quantity + quantity
		next.PriceDiff = price.Sub(existing.Price)
		next.PriceChange = types.PriceChangeOf(next.PriceDiff)
		next.Price = price
		next.HasPrice = true
		next.UpdatedAt = now
		next.UpdatedBy = actor

		if description != "" {
			next.Description = description
		}

		return &next
	}
}

// ApplyUpdate applies a direct edit, a price change records its delta the
// same way a merge does.
func ApplyUpdate(item *types.InventoryItem, update *types.ItemUpdate, actor string, now time.Time) {
	if update.Name != nil {
		item.Name = strings.TrimSpace(*update.Name)
	}
	if update.Supplier != nil {
		item.Supplier = strings.TrimSpace(*update.Supplier)
	}
	if update.Category != nil {
		item.Category = strings.TrimSpace(*update.Category)
	}
	if update.Description != nil {
		item.Description = strings.TrimSpace(*update.Description)
	}
	if update.Quantity != nil {
		item.Quantity = *update.Quantity
	}
	if update.SoldCount != nil {
		item.SoldCount = *update.SoldCount
	}
	if update.Price.Valid {
		item.PriceDiff = update.Price.Decimal.Sub(item.Price)
		item.PriceChange = types.PriceChangeOf(item.PriceDiff)
		item.Price = update.Price.Decimal
		item.HasPrice = true
	}

	item.UpdatedAt = now
	item.UpdatedBy = actor
}
