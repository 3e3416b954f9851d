// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenant

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/canonical/inventory-service/internal/logging"
	"github.com/canonical/inventory-service/internal/monitoring"
	"github.com/canonical/inventory-service/internal/storage"
	"github.com/canonical/inventory-service/internal/tracing"
	"github.com/canonical/inventory-service/internal/types"
)

//go:generate mockgen -build_flags=--mod=mod -package tenant -destination ./mock_interfaces.go -source=./interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package tenant -destination ./mock_logger.go -source=../../internal/logging/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package tenant -destination ./mock_monitor.go -source=../../internal/monitoring/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package tenant -destination ./mock_tracing.go -source=../../internal/tracing/interfaces.go

var admin = &types.Caller{UserID: "admin-1", DisplayName: "Ada Admin", TenantID: "acme", Role: types.RoleAdmin}

type serviceMocks struct {
	storage  *MockStorageInterface
	authz    *MockAuthorizerInterface
	notifier *MockNotifierInterface
}

func newTestService(ctrl *gomock.Controller) (*Service, serviceMocks) {
	m := serviceMocks{
		storage:  NewMockStorageInterface(ctrl),
		authz:    NewMockAuthorizerInterface(ctrl),
		notifier: NewMockNotifierInterface(ctrl),
	}

	logger := logging.NewNoopLogger()
	s := NewService(m.storage, m.authz, m.notifier, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger)

	return s, m
}

func TestService_Resolve(t *testing.T) {
	tests := []struct {
		name        string
		user        *types.User
		err         error
		expected    *types.Caller
		expectedErr error
	}{
		{
			name:     "member",
			user:     &types.User{ID: "u1", FirstName: "Jane", LastName: "Doe", TenantID: "acme", Role: types.RoleManager},
			expected: &types.Caller{UserID: "u1", DisplayName: "Jane Doe", TenantID: "acme", Role: types.RoleManager},
		},
		{
			name:        "no tenant",
			err:         storage.ErrNotFound,
			expectedErr: types.ErrNotFound,
		},
		{
			name:        "storage failure",
			err:         errors.New("connection reset"),
			expectedErr: errors.New("connection reset"),
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			s, m := newTestService(ctrl)
			m.storage.EXPECT().GetUser(gomock.Any(), "u1").Return(test.user, test.err)

			caller, err := s.Resolve(context.Background(), "u1")

			if test.expectedErr != nil {
				if err == nil {
					t.Fatalf("expected error, got caller %+v", caller)
				}
				if errors.Is(test.expectedErr, types.ErrNotFound) && !errors.Is(err, types.ErrNotFound) {
					t.Errorf("expected not found, got %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if *caller != *test.expected {
				t.Errorf("expected %+v, got %+v", test.expected, caller)
			}
		})
	}
}

func TestService_Promote(t *testing.T) {
	tests := []struct {
		name        string
		target      *types.User
		setupMocks  func(serviceMocks)
		expectedErr error
	}{
		{
			name:   "staff becomes manager",
			target: &types.User{ID: "u2", Email: "bob@acme.test", FirstName: "Bob", TenantID: "acme", Role: types.RoleStaff},
			setupMocks: func(m serviceMocks) {
				m.storage.EXPECT().UpdateUserRole(gomock.Any(), "acme", "u2", types.RoleManager).Return(nil)
				m.authz.EXPECT().AssignRole(gomock.Any(), "acme", "u2", types.RoleManager).Return(nil)
				m.authz.EXPECT().RemoveRole(gomock.Any(), "acme", "u2", types.RoleStaff).Return(nil)
				m.notifier.EXPECT().NotifyUser(gomock.Any(), "bob@acme.test", "You have been promoted", gomock.Any())
			},
		},
		{
			name:        "manager cannot be promoted",
			target:      &types.User{ID: "u2", TenantID: "acme", Role: types.RoleManager},
			setupMocks:  func(serviceMocks) {},
			expectedErr: ErrPromotion,
		},
		{
			name:        "user of another tenant",
			target:      &types.User{ID: "u2", TenantID: "globex", Role: types.RoleStaff},
			setupMocks:  func(serviceMocks) {},
			expectedErr: types.ErrNotFound,
		},
		{
			name:   "permission write fails",
			target: &types.User{ID: "u2", TenantID: "acme", Role: types.RoleStaff},
			setupMocks: func(m serviceMocks) {
				m.storage.EXPECT().UpdateUserRole(gomock.Any(), "acme", "u2", types.RoleManager).Return(nil)
				m.authz.EXPECT().AssignRole(gomock.Any(), "acme", "u2", types.RoleManager).Return(types.ErrUpstream)
			},
			expectedErr: types.ErrUpstream,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			s, m := newTestService(ctrl)
			m.storage.EXPECT().GetUser(gomock.Any(), "u2").Return(test.target, nil)
			test.setupMocks(m)

			user, err := s.Promote(context.Background(), admin, "u2")

			if test.expectedErr != nil {
				if !errors.Is(err, test.expectedErr) {
					t.Fatalf("expected %v, got %v", test.expectedErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if user.Role != types.RoleManager {
				t.Errorf("expected manager, got %s", user.Role)
			}
		})
	}
}

func TestService_Demote(t *testing.T) {
	tests := []struct {
		name        string
		role        types.Role
		expectedErr error
	}{
		{name: "manager becomes staff", role: types.RoleManager},
		{name: "staff cannot be demoted", role: types.RoleStaff, expectedErr: ErrDemotion},
		{name: "admin cannot be demoted", role: types.RoleAdmin, expectedErr: ErrDemotion},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			s, m := newTestService(ctrl)
			m.storage.EXPECT().GetUser(gomock.Any(), "u2").Return(&types.User{ID: "u2", TenantID: "acme", Role: test.role}, nil)

			if test.expectedErr == nil {
				m.storage.EXPECT().UpdateUserRole(gomock.Any(), "acme", "u2", types.RoleStaff).Return(nil)
				m.authz.EXPECT().AssignRole(gomock.Any(), "acme", "u2", types.RoleStaff).Return(nil)
				m.authz.EXPECT().RemoveRole(gomock.Any(), "acme", "u2", types.RoleManager).Return(nil)
			}

			user, err := s.Demote(context.Background(), admin, "u2")

			if !errors.Is(err, test.expectedErr) {
				t.Fatalf("expected %v, got %v", test.expectedErr, err)
			}
			if err == nil && user.Role != types.RoleStaff {
				t.Errorf("expected staff, got %s", user.Role)
			}
		})
	}
}

func TestService_Remove(t *testing.T) {
	tests := []struct {
		name        string
		target      *types.User
		getErr      error
		setupMocks  func(serviceMocks)
		expectedErr error
	}{
		{
			name:   "staff removed",
			target: &types.User{ID: "u2", Email: "bob@acme.test", TenantID: "acme", Role: types.RoleStaff},
			setupMocks: func(m serviceMocks) {
				m.storage.EXPECT().DeleteUser(gomock.Any(), "acme", "u2").Return(nil)
				m.authz.EXPECT().RemoveRole(gomock.Any(), "acme", "u2", types.RoleStaff).Return(nil)
				m.notifier.EXPECT().NotifyUser(gomock.Any(), "bob@acme.test", "You have been removed", gomock.Any())
			},
		},
		{
			name:        "admin is protected",
			target:      &types.User{ID: "u2", TenantID: "acme", Role: types.RoleAdmin},
			setupMocks:  func(serviceMocks) {},
			expectedErr: ErrRemoveAdmin,
		},
		{
			name:        "unknown user",
			getErr:      storage.ErrNotFound,
			setupMocks:  func(serviceMocks) {},
			expectedErr: types.ErrNotFound,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			s, m := newTestService(ctrl)
			m.storage.EXPECT().GetUser(gomock.Any(), "u2").Return(test.target, test.getErr)
			test.setupMocks(m)

			err := s.Remove(context.Background(), admin, "u2")

			if !errors.Is(err, test.expectedErr) {
				t.Fatalf("expected %v, got %v", test.expectedErr, err)
			}
		})
	}
}
