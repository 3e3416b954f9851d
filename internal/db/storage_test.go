// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package db

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/canonical/inventory-service/internal/logging"
	"github.com/canonical/inventory-service/internal/monitoring"
	"github.com/canonical/inventory-service/internal/tracing"
)

func newTestClient(t *testing.T) (*DBClient, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	logger := logging.NewNoopLogger()
	return NewDBClientFromDB(sqlDB, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger), mock
}

func TestWithTxCommit(t *testing.T) {
	c, mock := newTestClient(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("pg_advisory_xact_lock(hashtextextended($1, 0))")).
		WithArgs("key-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := c.WithTx(context.Background(), func(ctx context.Context) error {
		return c.LockKey(ctx, "key-1")
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestWithTxRollback(t *testing.T) {
	c, mock := newTestClient(t)
	fnErr := errors.New("merge failed")

	mock.ExpectBegin()
	mock.ExpectExec("pg_advisory_xact_lock").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := c.WithTx(context.Background(), func(ctx context.Context) error {
		if err := c.LockKey(ctx, "key-1"); err != nil {
			return err
		}
		return fnErr
	})

	if !errors.Is(err, fnErr) {
		t.Fatalf("expected %v, got %v", fnErr, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestWithTxWithoutQueriesDoesNotBegin(t *testing.T) {
	c, mock := newTestClient(t)

	if err := c.WithTx(context.Background(), func(context.Context) error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestLockKeyOutsideTransaction(t *testing.T) {
	c, _ := newTestClient(t)

	if err := c.LockKey(context.Background(), "key-1"); !errors.Is(err, ErrNoTransaction) {
		t.Fatalf("expected ErrNoTransaction, got %v", err)
	}
}

func TestTransactionMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		method string
		status int
		expect func(sqlmock.Sqlmock)
	}{
		{
			name:   "read requests skip the transaction",
			method: http.MethodGet,
			status: http.StatusOK,
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name:   "successful write commits",
			method: http.MethodPut,
			status: http.StatusOK,
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 1))
				m.ExpectCommit()
			},
		},
		{
			name:   "failed write rolls back",
			method: http.MethodDelete,
			status: http.StatusBadRequest,
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 1))
				m.ExpectRollback()
			},
		},
		{
			name:   "commit failure after the response",
			method: http.MethodPost,
			status: http.StatusCreated,
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 1))
				m.ExpectCommit().WillReturnError(errors.New("connection reset"))
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c, mock := newTestClient(t)
			test.expect(mock)

			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, err := c.Statement(r.Context()).
					Update("users").
					Set("role", "manager").
					ExecContext(r.Context())
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				w.WriteHeader(test.status)
			})

			rr := httptest.NewRecorder()
			TransactionMiddleware(c, logging.NewNoopLogger())(handler).
				ServeHTTP(rr, httptest.NewRequest(test.method, "/users/1", nil))

			if rr.Code != test.status {
				t.Errorf("expected status %d, got %d", test.status, rr.Code)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unmet expectations: %v", err)
			}
		})
	}
}
