// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/canonical/inventory-service/internal/types"
)

func (s *Storage) CreateTask(ctx context.Context, t *types.Task) (*types.Task, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.CreateTask")
	defer span.End()

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate task ID: %w", err)
	}

	created := *t
	created.ID = id.String()
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	_, err = s.db.Statement(ctx).
		Insert("tasks").
		Columns("id", "tenant_id", "title", "description", "urgency", "created_at").
		Values(created.ID, created.TenantID, created.Title, created.Description, string(created.Urgency), created.CreatedAt).
		ExecContext(ctx)

	if err != nil {
		return nil, writeError(err, "task", "insert task")
	}

	return &created, nil
}

// ListTasks returns the newest tasks first, a zero limit returns all of them.
func (s *Storage) ListTasks(ctx context.Context, tenantID string, limit uint64) ([]*types.Task, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.ListTasks")
	defer span.End()

	query := s.db.Statement(ctx).
		Select("id", "tenant_id", "title", "description", "urgency", "created_at").
		From("tasks").
		Where(sq.Eq{"tenant_id": tenantID}).
		OrderBy("created_at DESC", "id DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	rows, err := query.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*types.Task, 0)
	for rows.Next() {
		var t types.Task
		var urgency string
		if err := rows.Scan(&t.ID, &t.TenantID, &t.Title, &t.Description, &urgency, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		t.Urgency = types.Urgency(urgency)
		tasks = append(tasks, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return tasks, nil
}
