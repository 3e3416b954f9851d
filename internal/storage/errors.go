// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/canonical/inventory-service/internal/types"
)

var (
	// ErrNotFound wraps the domain sentinel so callers can match either
	ErrNotFound     = fmt.Errorf("resource %w", types.ErrNotFound)
	ErrDuplicateKey = fmt.Errorf("duplicate key violation: %w", types.ErrConflict)
	// ErrForeignKeyViolation means the row points at a tenant that is gone
	ErrForeignKeyViolation = fmt.Errorf("referenced tenant %w", types.ErrNotFound)
)

const (
	pgErrCodeUniqueViolation     = "23505"
	pgErrCodeForeignKeyViolation = "23503"
	pgErrCodeCheckViolation      = "23514"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func IsDuplicateKeyError(err error) bool {
	return pgCode(err) == pgErrCodeUniqueViolation
}

func IsForeignKeyViolation(err error) bool {
	return pgCode(err) == pgErrCodeForeignKeyViolation
}

// IsCheckViolation matches the column checks on role, urgency and price, the
// services validate first so hitting one means a caller bypassed them.
func IsCheckViolation(err error) bool {
	return pgCode(err) == pgErrCodeCheckViolation
}

// WrapDuplicateKeyError names the resource whose natural key collided.
func WrapDuplicateKeyError(err error, resource string) error {
	if !IsDuplicateKeyError(err) {
		return err
	}
	return fmt.Errorf("%s: %w", resource, ErrDuplicateKey)
}

func WrapForeignKeyError(err error, resource string) error {
	if !IsForeignKeyViolation(err) {
		return err
	}
	return fmt.Errorf("%s: %w", resource, ErrForeignKeyViolation)
}

// writeError maps a constraint failure of a write to a domain error, any other
// failure is reported as a failed op.
func writeError(err error, resource, op string) error {
	switch pgCode(err) {
	case pgErrCodeUniqueViolation:
		return WrapDuplicateKeyError(err, resource)
	case pgErrCodeForeignKeyViolation:
		return WrapForeignKeyError(err, resource)
	case pgErrCodeCheckViolation:
		var pgErr *pgconn.PgError
		errors.As(err, &pgErr)
		return types.NewValidationError(pgErr.ColumnName, "violates constraint %s", pgErr.ConstraintName)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// isNoRows matches both the database/sql and the native pgx sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows)
}
