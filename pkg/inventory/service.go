// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/canonical/inventory-service/internal/logging"
	"github.com/canonical/inventory-service/internal/monitoring"
	"github.com/canonical/inventory-service/internal/tracing"
	"github.com/canonical/inventory-service/internal/types"
	"github.com/canonical/inventory-service/pkg/notifications"
)

type Service struct {
	storage  StorageInterface
	notifier notifications.DispatcherInterface
	validate *validator.Validate
	now      func() time.Time

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// Ingest reconciles the items one after the other in submission order.
// Malformed numbers reject the batch up front, a missing field or a store
// failure only fails its own outcome.
func (s *Service) Ingest(ctx context.Context, tenantID string, items []*types.IncomingItem, actor string) ([]*types.Outcome, error) {
	ctx, span := s.tracer.Start(ctx, "inventory.Service.Ingest")
	defer span.End()

	if len(items) == 0 {
		return nil, types.NewValidationError("items", "at least one item is required")
	}

	if err := validateBatch(items); err != nil {
		return nil, err
	}

	outcomes := make([]*types.Outcome, 0, len(items))

	for i, item := range items {
		outcome := &types.Outcome{Index: i}
		outcomes = append(outcomes, outcome)

		if err := s.validateItem(item); err != nil {
			outcome.Err = err
			s.countOutcome("failed")
			continue
		}

		reconciled, created, err := s.storage.ReconcileItem(ctx, tenantID, item.Key(), Merge(item, actor, s.now().UTC()))
		if err != nil {
			s.logger.Errorf("failed to reconcile item %d for tenant %s: %v", i, tenantID, err)
			outcome.Err = err
			s.countOutcome("failed")
			continue
		}

		outcome.Item = reconciled
		outcome.Created = created

		if created {
			s.countOutcome("created")
		} else {
			s.countOutcome("merged")
		}

		s.notifier.Notify(ctx, notifications.ForItem(reconciled, created, actor))
	}

	return outcomes, nil
}

func (s *Service) ListItems(ctx context.Context, tenantID string) ([]*types.InventoryItem, error) {
	ctx, span := s.tracer.Start(ctx, "inventory.Service.ListItems")
	defer span.End()

	items, err := s.storage.ListItems(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}

	return items, nil
}

func (s *Service) GetItem(ctx context.Context, tenantID, id string) (*types.InventoryItem, error) {
	ctx, span := s.tracer.Start(ctx, "inventory.Service.GetItem")
	defer span.End()

	return s.storage.GetItem(ctx, tenantID, id)
}

// UpdateItem edits a record in place without natural key matching, renaming
// an item onto the key of another one is a conflict.
func (s *Service) UpdateItem(ctx context.Context, tenantID, id string, update *types.ItemUpdate, actor string) (*types.InventoryItem, error) {
	ctx, span := s.tracer.Start(ctx, "inventory.Service.UpdateItem")
	defer span.End()

	if err := validateUpdate(update); err != nil {
		return nil, err
	}

	now := s.now().UTC()

	item, err := s.storage.UpdateItem(ctx, tenantID, id, func(item *types.InventoryItem) error {
		ApplyUpdate(item, update, actor, now)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update item %s: %w", id, err)
	}

	return item, nil
}

func (s *Service) DeleteItem(ctx context.Context, tenantID, id string) error {
	ctx, span := s.tracer.Start(ctx, "inventory.Service.DeleteItem")
	defer span.End()

	if err := s.storage.DeleteItem(ctx, tenantID, id); err != nil {
		return fmt.Errorf("failed to delete item %s: %w", id, err)
	}

	return nil
}

func (s *Service) countOutcome(outcome string) {
	if err := s.monitor.IncIngestOutcome(map[string]string{"outcome": outcome}); err != nil {
		s.logger.Debugf("failed to count ingest outcome: %v", err)
	}
}

func NewService(
	storage StorageInterface,
	notifier notifications.DispatcherInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Service {
	s := new(Service)

	s.storage = storage
	s.notifier = notifier
	s.validate = newValidator()
	s.now = time.Now

	s.tracer = tracer
	s.monitor = monitor
	s.logger = logger

	return s
}
