// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package notifications

import (
	"fmt"
	"strings"
	"time"

	"github.com/canonical/inventory-service/internal/events"
	"github.com/canonical/inventory-service/internal/types"
)

type Notification struct {
	TenantID string
	Subject  string
	Body     string
	Urgency  types.Urgency

	// Event is published alongside the e-mails when set
	Event *events.Event
}

// ForItem describes the outcome of one reconciliation.
func ForItem(item *types.InventoryItem, created bool, actor string) *Notification {
	n := new(Notification)

	n.TenantID = item.TenantID
	n.Urgency = types.UrgencyLow

	eventType := events.ItemUpdated
	verb := "updated"
	if created {
		eventType = events.ItemCreated
		verb = "created"
	}

	n.Subject = fmt.Sprintf("Inventory item %s: %s", verb, item.Name)

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s the item %q.\n", actor, verb, item.Name)
	fmt.Fprintf(&b, "Supplier: %s\n", item.Supplier)
	fmt.Fprintf(&b, "Category: %s\n", item.Category)
	fmt.Fprintf(&b, "Quantity: %d\n", item.Quantity)

	if !created {
		b.WriteString(priceSummary(item))
		b.WriteString("\n")
	}
	n.Body = b.String()

	n.Event = &events.Event{
		Type:       eventType,
		TenantID:   item.TenantID,
		Actor:      actor,
		Item:       item,
		OccurredAt: item.UpdatedAt,
	}
	if n.Event.OccurredAt.IsZero() {
		n.Event.OccurredAt = time.Now().UTC()
	}

	return n
}

func priceSummary(item *types.InventoryItem) string {
	switch item.PriceChange {
	case types.PriceIncrease:
		return fmt.Sprintf("Price: price increased by %s to %s", item.PriceDiff.StringFixed(2), item.Price.StringFixed(2))
	case types.PriceDecrease:
		return fmt.Sprintf("Price: price decreased by %s to %s", item.PriceDiff.Abs().StringFixed(2), item.Price.StringFixed(2))
	}
	return fmt.Sprintf("Price: unchanged at %s", item.Price.StringFixed(2))
}
