// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"github.com/canonical/inventory-service/internal/logging"
	"github.com/canonical/inventory-service/internal/tracing"
	"github.com/canonical/inventory-service/internal/types"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaPublisherPublish(t *testing.T) {
	w := new(fakeWriter)
	p := NewKafkaPublisherWithWriter(w, tracing.NewNoopTracer(), logging.NewNoopLogger())

	event := &Event{
		Type:       ItemUpdated,
		TenantID:   "acme",
		Actor:      "user-1",
		Item:       &types.InventoryItem{ID: "item-1", Name: "Widget", Quantity: 13, Price: decimal.RequireFromString("6")},
		OccurredAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	if err := p.Publish(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(w.msgs) != 1 {
		t.Fatalf("expected one message, got %d", len(w.msgs))
	}

	msg := w.msgs[0]
	if string(msg.Key) != "acme" {
		t.Errorf("expected tenant key, got %q", msg.Key)
	}
	if len(msg.Headers) != 1 || string(msg.Headers[0].Value) != string(ItemUpdated) {
		t.Errorf("unexpected headers %+v", msg.Headers)
	}

	var decoded map[string]any
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("invalid payload: %v", err)
	}
	if decoded["type"] != string(ItemUpdated) || decoded["tenantId"] != "acme" {
		t.Errorf("unexpected payload %v", decoded)
	}

	if err := p.Close(); err != nil || !w.closed {
		t.Errorf("expected writer to be closed")
	}
}

func TestKafkaPublisherWriteError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker unreachable")}
	p := NewKafkaPublisherWithWriter(w, tracing.NewNoopTracer(), logging.NewNoopLogger())

	if err := p.Publish(context.Background(), &Event{Type: ItemCreated, TenantID: "acme"}); err == nil {
		t.Fatal("expected error")
	}
}
