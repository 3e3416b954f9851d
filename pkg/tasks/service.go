// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/canonical/inventory-service/internal/logging"
	"github.com/canonical/inventory-service/internal/monitoring"
	"github.com/canonical/inventory-service/internal/tracing"
	"github.com/canonical/inventory-service/internal/types"
)

const LowStockThreshold = 5

type CreateTaskRequest struct {
	Title       string        `json:"title" validate:"required"`
	Description string        `json:"description"`
	Urgency     types.Urgency `json:"urgency" validate:"omitempty,oneof=low medium high"`
}

type Service struct {
	storage  StorageInterface
	validate *validator.Validate
	now      func() time.Time

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (s *Service) ListTasks(ctx context.Context, tenantID string) ([]*types.Task, error) {
	ctx, span := s.tracer.Start(ctx, "tasks.Service.ListTasks")
	defer span.End()

	tasks, err := s.storage.ListTasks(ctx, tenantID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

func (s *Service) CreateTask(ctx context.Context, tenantID string, req *CreateTaskRequest) (*types.Task, error) {
	ctx, span := s.tracer.Start(ctx, "tasks.Service.CreateTask")
	defer span.End()

	req.Title = strings.TrimSpace(req.Title)
	req.Urgency = types.Urgency(strings.ToLower(strings.TrimSpace(string(req.Urgency))))

	if err := s.validate.StructCtx(ctx, req); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			if errs[0].Field() == "Urgency" {
				return nil, types.NewValidationError("urgency", "must be one of low, medium, high")
			}
			return nil, types.NewValidationError("title", "is required")
		}
		return nil, types.NewValidationError("body", "%v", err)
	}

	if req.Urgency == "" {
		req.Urgency = types.UrgencyLow
	}

	task, err := s.storage.CreateTask(ctx, &types.Task{
		TenantID:    tenantID,
		Title:       req.Title,
		Description: req.Description,
		Urgency:     req.Urgency,
		CreatedAt:   s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// LowStock lists the items running out, quantity below the threshold.
func (s *Service) LowStock(ctx context.Context, tenantID string) ([]*types.InventoryItem, error) {
	ctx, span := s.tracer.Start(ctx, "tasks.Service.LowStock")
	defer span.End()

	items, err := s.storage.ListLowStock(ctx, tenantID, LowStockThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock items: %w", err)
	}

	return items, nil
}

func NewService(storage StorageInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Service {
	s := new(Service)

	s.storage = storage
	s.validate = validator.New(validator.WithRequiredStructEnabled())
	s.now = time.Now

	s.tracer = tracer
	s.monitor = monitor
	s.logger = logger

	return s
}
