// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// prices go over the wire as plain JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleStaff:
		return true
	}
	return false
}

// Rank orders roles by privilege, unknown roles rank below staff.
func (r Role) Rank() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleManager:
		return 2
	case RoleStaff:
		return 1
	}
	return 0
}

type Tenant struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	AdminID   string    `db:"admin_id" json:"adminId,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// TenantID derives the tenant slug from a company name.
func TenantID(companyName string) string {
	return strings.ToLower(strings.TrimSpace(companyName))
}

type User struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	FirstName string    `db:"first_name" json:"firstName"`
	LastName  string    `db:"last_name" json:"lastName"`
	Role      Role      `db:"role" json:"role"`
	TenantID  string    `db:"tenant_id" json:"company"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// Caller is the resolved identity a request acts on behalf of.
type Caller struct {
	UserID      string
	DisplayName string
	TenantID    string
	Role        Role
}

type NaturalKey struct {
	Name     string
	Supplier string
	Category string
}

func (k NaturalKey) Normalize() NaturalKey {
	return NaturalKey{
		Name:     strings.TrimSpace(k.Name),
		Supplier: strings.TrimSpace(k.Supplier),
		Category: strings.TrimSpace(k.Category),
	}
}

// Hash is a stable tenant scoped digest of the key, used for locks and index documents.
func (k NaturalKey) Hash(tenantID string) string {
	h := sha256.New()
	for _, part := range []string{tenantID, k.Name, k.Supplier, k.Category} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

type PriceChange string

const (
	PriceIncrease PriceChange = "increase"
	PriceDecrease PriceChange = "decrease"
	PriceNoChange PriceChange = "no_change"
)

// PriceChangeOf classifies a signed price delta.
func PriceChangeOf(diff decimal.Decimal) PriceChange {
	switch diff.Sign() {
	case 1:
		return PriceIncrease
	case -1:
		return PriceDecrease
	}
	return PriceNoChange
}

type InventoryItem struct {
	ID          string          `db:"id" json:"id"`
	TenantID    string          `db:"tenant_id" json:"-"`
	Name        string          `db:"name" json:"name"`
	Supplier    string          `db:"supplier" json:"supplier"`
	Category    string          `db:"category" json:"category"`
	Description string          `db:"description" json:"description"`
	Quantity    int64           `db:"quantity" json:"quantity"`
	Price       decimal.Decimal `db:"price" json:"price"`
	SoldCount   int64           `db:"sold_count" json:"soldCount"`
	PriceDiff   decimal.Decimal `db:"price_diff" json:"priceDiff"`
	PriceChange PriceChange     `db:"price_change" json:"priceChange"`
	AddedAt     time.Time       `db:"added_at" json:"addedAt"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updatedAt"`
	AddedBy     string          `db:"added_by" json:"addedBy"`
	UpdatedBy   string          `db:"updated_by" json:"updatedBy"`

	// HasPrice is false only for legacy documents stored without a price field.
	HasPrice bool `db:"-" json:"-"`
}

func (i *InventoryItem) Key() NaturalKey {
	return NaturalKey{Name: i.Name, Supplier: i.Supplier, Category: i.Category}
}

// IncomingItem is one row submitted for reconciliation, numeric fields are
// optional so that missing values can be told apart from zero.
type IncomingItem struct {
	Name        string              `json:"name" validate:"required"`
	Supplier    string              `json:"supplier" validate:"required"`
	Category    string              `json:"category"`
	Description string              `json:"description"`
	Quantity    *int64              `json:"quantity" validate:"required"`
	Price       decimal.NullDecimal `json:"price" validate:"required"`
}

func (i *IncomingItem) Key() NaturalKey {
	return NaturalKey{Name: i.Name, Supplier: i.Supplier, Category: i.Category}.Normalize()
}

type Outcome struct {
	Index   int            `json:"index"`
	Item    *InventoryItem `json:"item,omitempty"`
	Created bool           `json:"created"`
	Err     error          `json:"-"`
}

// ItemUpdate carries a partial update, nil fields are left untouched.
type ItemUpdate struct {
	Name        *string             `json:"name"`
	Supplier    *string             `json:"supplier"`
	Category    *string             `json:"category"`
	Description *string             `json:"description"`
	Quantity    *int64              `json:"quantity"`
	Price       decimal.NullDecimal `json:"price"`
	SoldCount   *int64              `json:"soldCount"`
}

type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

type Task struct {
	ID          string    `db:"id" json:"id"`
	TenantID    string    `db:"tenant_id" json:"-"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Urgency     Urgency   `db:"urgency" json:"urgency"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// MergeFunc computes the next state of an item from the currently stored one,
// existing is nil when no item carries the natural key yet.
type MergeFunc func(existing *InventoryItem) *InventoryItem
