// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/canonical/inventory-service/internal/logging"
	"github.com/canonical/inventory-service/internal/tracing"
	"github.com/canonical/inventory-service/internal/types"
)

type EventType string

const (
	ItemCreated EventType = "inventory.item.created"
	ItemUpdated EventType = "inventory.item.updated"
)

// Event is the payload published for every reconciled item, keyed by tenant
// so that a tenant's events stay ordered within a partition.
type Event struct {
	Type       EventType            `json:"type"`
	TenantID   string               `json:"tenantId"`
	Actor      string               `json:"actor"`
	Item       *types.InventoryItem `json:"item"`
	OccurredAt time.Time            `json:"occurredAt"`
}

type KafkaPublisher struct {
	writer Writer

	tracer tracing.TracingInterface
	logger logging.LoggerInterface
}

func (p *KafkaPublisher) Publish(ctx context.Context, event *Event) error {
	ctx, span := p.tracer.Start(ctx, "events.KafkaPublisher.Publish")
	defer span.End()

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.TenantID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka write error: %w", err)
	}

	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func NewKafkaPublisher(brokers []string, topic string, tracer tracing.TracingInterface, logger logging.LoggerInterface) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}

	return NewKafkaPublisherWithWriter(w, tracer, logger)
}

func NewKafkaPublisherWithWriter(w Writer, tracer tracing.TracingInterface, logger logging.LoggerInterface) *KafkaPublisher {
	p := new(KafkaPublisher)

	p.writer = w

	p.tracer = tracer
	p.logger = logger

	return p
}

// NoopPublisher drops events, used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, *Event) error { return nil }

func (NoopPublisher) Close() error { return nil }

func NewNoopPublisher() *NoopPublisher {
	return new(NoopPublisher)
}
