// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/canonical/inventory-service/internal/db"
	"github.com/canonical/inventory-service/internal/logging"
	"github.com/canonical/inventory-service/internal/monitoring"
	"github.com/canonical/inventory-service/internal/tracing"
	"github.com/canonical/inventory-service/internal/types"
)

var _ StorageInterface = (*Storage)(nil)

var userColumns = []string{"id", "tenant_id", "email", "first_name", "last_name", "role", "status", "created_at"}

type Storage struct {
	db db.DBClientInterface

	logger  logging.LoggerInterface
	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
}

func NewStorage(c db.DBClientInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Storage {
	s := new(Storage)

	s.db = c

	s.logger = logger
	s.tracer = tracer
	s.monitor = monitor

	return s
}

func (s *Storage) Ping(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.Ping")
	defer span.End()

	return s.db.Ping(ctx)
}

func (s *Storage) CreateTenant(ctx context.Context, t *types.Tenant) (*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.CreateTenant")
	defer span.End()

	var adminID *string
	if t.AdminID != "" {
		adminID = &t.AdminID
	}

	created := &types.Tenant{ID: t.ID, Name: t.Name, AdminID: t.AdminID}
	err := s.db.Statement(ctx).
		Insert("tenants").
		Columns("id", "name", "admin_id").
		Values(t.ID, t.Name, adminID).
		Suffix("RETURNING created_at").
		QueryRowContext(ctx).
		Scan(&created.CreatedAt)

	if err != nil {
		if IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("tenant %s: %w", t.ID, ErrDuplicateKey)
		}
		return nil, fmt.Errorf("failed to insert tenant: %w", err)
	}

	return created, nil
}

func (s *Storage) GetTenant(ctx context.Context, id string) (*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.GetTenant")
	defer span.End()

	var t types.Tenant
	var adminID *string
	err := s.db.Statement(ctx).
		Select("id", "name", "admin_id", "created_at").
		From("tenants").
		Where(sq.Eq{"id": id}).
		QueryRowContext(ctx).
		Scan(&t.ID, &t.Name, &adminID, &t.CreatedAt)

	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	if adminID != nil {
		t.AdminID = *adminID
	}

	return &t, nil
}

func (s *Storage) CreateUser(ctx context.Context, u *types.User) (*types.User, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.CreateUser")
	defer span.End()

	created := *u
	if created.Status == "" {
		created.Status = "active"
	}

	err := s.db.Statement(ctx).
		Insert("users").
		Columns("id", "tenant_id", "email", "first_name", "last_name", "role", "status").
		Values(u.ID, u.TenantID, u.Email, u.FirstName, u.LastName, string(u.Role), created.Status).
		Suffix("RETURNING created_at").
		QueryRowContext(ctx).
		Scan(&created.CreatedAt)

	if err != nil {
		return nil, writeError(err, "user", "insert user")
	}

	return &created, nil
}

func (s *Storage) GetUser(ctx context.Context, id string) (*types.User, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.GetUser")
	defer span.End()

	return s.getUser(ctx, sq.Eq{"id": id})
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.GetUserByEmail")
	defer span.End()

	return s.getUser(ctx, sq.Eq{"email": email})
}

func (s *Storage) getUser(ctx context.Context, where sq.Eq) (*types.User, error) {
	u, err := scanUser(
		s.db.Statement(ctx).
			Select(userColumns...).
			From("users").
			Where(where).
			QueryRowContext(ctx),
	)

	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return u, nil
}

func (s *Storage) ListUsers(ctx context.Context, tenantID string) ([]*types.User, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.ListUsers")
	defer span.End()

	rows, err := s.db.Statement(ctx).
		Select(userColumns...).
		From("users").
		Where(sq.Eq{"tenant_id": tenantID}).
		OrderBy("created_at ASC", "id ASC").
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]*types.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return users, nil
}

func (s *Storage) UpdateUserRole(ctx context.Context, tenantID, userID string, role types.Role) error {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.UpdateUserRole")
	defer span.End()

	res, err := s.db.Statement(ctx).
		Update("users").
		Set("role", string(role)).
		Where(sq.Eq{"id": userID, "tenant_id": tenantID}).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}

	return expectAffected(res)
}

func (s *Storage) DeleteUser(ctx context.Context, tenantID, userID string) error {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.DeleteUser")
	defer span.End()

	res, err := s.db.Statement(ctx).
		Delete("users").
		Where(sq.Eq{"id": userID, "tenant_id": tenantID}).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return expectAffected(res)
}

type rowsAffecter interface {
	RowsAffected() (int64, error)
}

func expectAffected(res rowsAffecter) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(row sq.RowScanner) (*types.User, error) {
	var u types.User
	var role string
	var createdAt time.Time

	if err := row.Scan(&u.ID, &u.TenantID, &u.Email, &u.FirstName, &u.LastName, &role, &u.Status, &createdAt); err != nil {
		return nil, err
	}

	u.Role = types.Role(role)
	u.CreatedAt = createdAt

	return &u, nil
}
