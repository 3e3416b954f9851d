// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package firestore

import (
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/shopspring/decimal"

	"github.com/canonical/inventory-service/internal/types"
)

const (
	colCompanies     = "companies"
	colUsers         = "users"
	colInventory     = "inventory"
	colInventoryKeys = "inventoryKeys"
	colTasks         = "tasks"
)

type companyDoc struct {
	Name      string    `firestore:"name"`
	AdminID   string    `firestore:"adminId,omitempty"`
	CreatedAt time.Time `firestore:"createdAt"`
}

type userDoc struct {
	Email     string    `firestore:"email"`
	FirstName string    `firestore:"firstName"`
	LastName  string    `firestore:"lastName"`
	Role      string    `firestore:"role"`
	Status    string    `firestore:"status"`
	CreatedAt time.Time `firestore:"createdAt"`
}

// itemDoc keeps numbers as plain floats, older documents may lack a price.
type itemDoc struct {
	Name        string    `firestore:"name"`
	Supplier    string    `firestore:"supplier"`
	Category    string    `firestore:"category"`
	Description string    `firestore:"description"`
	Quantity    int64     `firestore:"quantity"`
	Price       *float64  `firestore:"price"`
	SoldCount   int64     `firestore:"soldCount"`
	PriceDiff   float64   `firestore:"priceDiff"`
	PriceChange string    `firestore:"priceChange"`
	AddedAt     time.Time `firestore:"addedAt"`
	UpdatedAt   time.Time `firestore:"updatedAt"`
	AddedBy     string    `firestore:"addedBy"`
	UpdatedBy   string    `firestore:"updatedBy"`
}

type keyDoc struct {
	ItemID string `firestore:"itemId"`
}

type taskDoc struct {
	Title       string    `firestore:"title"`
	Description string    `firestore:"description"`
	Urgency     string    `firestore:"urgency"`
	CreatedAt   time.Time `firestore:"createdAt"`
}

func toItemDoc(i *types.InventoryItem) itemDoc {
	price := i.Price.InexactFloat64()

	return itemDoc{
		Name:        i.Name,
		Supplier:    i.Supplier,
		Category:    i.Category,
		Description: i.Description,
		Quantity:    i.Quantity,
		Price:       &price,
		SoldCount:   i.SoldCount,
		PriceDiff:   i.PriceDiff.InexactFloat64(),
		PriceChange: string(i.PriceChange),
		AddedAt:     i.AddedAt.UTC(),
		UpdatedAt:   i.UpdatedAt.UTC(),
		AddedBy:     i.AddedBy,
		UpdatedBy:   i.UpdatedBy,
	}
}

func (d itemDoc) toItem(tenantID, id string) *types.InventoryItem {
	item := &types.InventoryItem{
		ID:          id,
		TenantID:    tenantID,
		Name:        d.Name,
		Supplier:    d.Supplier,
		Category:    d.Category,
		Description: d.Description,
		Quantity:    d.Quantity,
		SoldCount:   d.SoldCount,
		PriceDiff:   decimal.NewFromFloat(d.PriceDiff).Round(2),
		PriceChange: types.PriceChange(d.PriceChange),
		AddedAt:     d.AddedAt,
		UpdatedAt:   d.UpdatedAt,
		AddedBy:     d.AddedBy,
		UpdatedBy:   d.UpdatedBy,
	}

	if d.Price != nil {
		item.Price = decimal.NewFromFloat(*d.Price).Round(2)
		item.HasPrice = true
	}

	if item.PriceChange == "" {
		item.PriceChange = types.PriceNoChange
	}

	return item
}

func (d userDoc) toUser(tenantID, id string) *types.User {
	return &types.User{
		ID:        id,
		TenantID:  tenantID,
		Email:     d.Email,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Role:      types.Role(d.Role),
		Status:    d.Status,
		CreatedAt: d.CreatedAt,
	}
}

func decodeItem(tenantID string, snap *firestore.DocumentSnapshot) (*types.InventoryItem, error) {
	var d itemDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, err
	}
	return d.toItem(tenantID, snap.Ref.ID), nil
}

// oldestFirst orders duplicates of a natural key, only legacy data can hold more than one.
func oldestFirst(items []*types.InventoryItem) {
	sort.SliceStable(items, func(a, b int) bool {
		if !items[a].AddedAt.Equal(items[b].AddedAt) {
			return items[a].AddedAt.Before(items[b].AddedAt)
		}
		return items[a].ID < items[b].ID
	})
}
