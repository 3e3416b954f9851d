// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authorization

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/mock/gomock"

	"github.com/canonical/inventory-service/internal/logging"
	"github.com/canonical/inventory-service/internal/monitoring"
	"github.com/canonical/inventory-service/internal/types"
)

//go:generate mockgen -build_flags=--mod=mod -package authorization -destination ./mock_interfaces.go -source=./interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package authorization -destination ./mock_tracing.go -source=../tracing/interfaces.go

func TestAuthorizer_Check(t *testing.T) {
	testCases := []struct {
		name           string
		setupMocks     func(*MockAuthzClientInterface)
		expectedResult bool
		expectedErr    bool
	}{
		{
			name: "success - allowed",
			setupMocks: func(mockClient *MockAuthzClientInterface) {
				mockClient.EXPECT().Check(gomock.Any(), "user:u1", "manager", "tenant:acme").Return(true, nil)
			},
			expectedResult: true,
		},
		{
			name: "success - not allowed",
			setupMocks: func(mockClient *MockAuthzClientInterface) {
				mockClient.EXPECT().Check(gomock.Any(), "user:u1", "manager", "tenant:acme").Return(false, nil)
			},
			expectedResult: false,
		},
		{
			name: "error - client error",
			setupMocks: func(mockClient *MockAuthzClientInterface) {
				mockClient.EXPECT().Check(gomock.Any(), "user:u1", "manager", "tenant:acme").Return(false, errors.New("client error"))
			},
			expectedErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockClient := NewMockAuthzClientInterface(ctrl)
			mockTracer := NewMockTracingInterface(ctrl)
			logger := logging.NewNoopLogger()

			a := NewAuthorizer(mockClient, mockTracer, monitoring.NewNoopMonitor("test", logger), logger)

			mockTracer.EXPECT().Start(gomock.Any(), "authorization.Authorizer.Check").
				Return(context.Background(), trace.SpanFromContext(context.Background()))
			tc.setupMocks(mockClient)

			result, err := a.Check(context.Background(), "u1", types.RoleManager, "acme")

			if tc.expectedErr {
				if err == nil {
					t.Error("expected error but got none")
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}

			if result != tc.expectedResult {
				t.Errorf("expected result %v, got %v", tc.expectedResult, result)
			}
		})
	}
}

func TestAuthorizer_AssignAndRemoveRole(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := NewMockAuthzClientInterface(ctrl)
	mockTracer := NewMockTracingInterface(ctrl)
	logger := logging.NewNoopLogger()

	a := NewAuthorizer(mockClient, mockTracer, monitoring.NewNoopMonitor("test", logger), logger)

	mockTracer.EXPECT().Start(gomock.Any(), gomock.Any()).
		Return(context.Background(), trace.SpanFromContext(context.Background())).Times(2)

	gomock.InOrder(
		mockClient.EXPECT().WriteTuple(gomock.Any(), "user:u1", "manager", "tenant:acme").Return(nil),
		mockClient.EXPECT().DeleteTuple(gomock.Any(), "user:u1", "staff", "tenant:acme").Return(nil),
	)

	if err := a.AssignRole(context.Background(), "acme", "u1", types.RoleManager); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := a.RemoveRole(context.Background(), "acme", "u1", types.RoleStaff); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAuthorizer_ValidateModel(t *testing.T) {
	testCases := []struct {
		name        string
		setupMocks  func(*MockAuthzClientInterface)
		expectedErr error
	}{
		{
			name: "models match",
			setupMocks: func(mockClient *MockAuthzClientInterface) {
				mockClient.EXPECT().CompareModel(gomock.Any(), gomock.Any()).Return(true, nil)
			},
		},
		{
			name: "models differ",
			setupMocks: func(mockClient *MockAuthzClientInterface) {
				mockClient.EXPECT().CompareModel(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			expectedErr: ErrInvalidAuthModel,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockClient := NewMockAuthzClientInterface(ctrl)
			mockTracer := NewMockTracingInterface(ctrl)
			logger := logging.NewNoopLogger()

			a := NewAuthorizer(mockClient, mockTracer, monitoring.NewNoopMonitor("test", logger), logger)

			mockTracer.EXPECT().Start(gomock.Any(), "authorization.Authorizer.ValidateModel").
				Return(context.Background(), trace.SpanFromContext(context.Background()))
			tc.setupMocks(mockClient)

			if err := a.ValidateModel(context.Background()); !errors.Is(err, tc.expectedErr) {
				t.Errorf("expected error %v, got %v", tc.expectedErr, err)
			}
		})
	}
}

func TestRoleAuthorizer_Check(t *testing.T) {
	testCases := []struct {
		name     string
		user     *types.User
		err      error
		relation types.Role
		tenant   string
		expected bool
		wantErr  bool
	}{
		{name: "admin passes manager gate", user: &types.User{TenantID: "acme", Role: types.RoleAdmin}, relation: types.RoleManager, tenant: "acme", expected: true},
		{name: "manager passes staff gate", user: &types.User{TenantID: "acme", Role: types.RoleManager}, relation: types.RoleStaff, tenant: "acme", expected: true},
		{name: "staff fails manager gate", user: &types.User{TenantID: "acme", Role: types.RoleStaff}, relation: types.RoleManager, tenant: "acme"},
		{name: "manager fails admin gate", user: &types.User{TenantID: "acme", Role: types.RoleManager}, relation: types.RoleAdmin, tenant: "acme"},
		{name: "other tenant", user: &types.User{TenantID: "globex", Role: types.RoleAdmin}, relation: types.RoleStaff, tenant: "acme"},
		{name: "unknown user", err: types.NotFoundError("user"), relation: types.RoleStaff, tenant: "acme"},
		{name: "store failure", err: errors.New("connection reset"), relation: types.RoleStaff, tenant: "acme", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockUsers := NewMockUserReaderInterface(ctrl)
			mockTracer := NewMockTracingInterface(ctrl)

			mockTracer.EXPECT().Start(gomock.Any(), "authorization.RoleAuthorizer.Check").
				Return(context.Background(), trace.SpanFromContext(context.Background()))
			mockUsers.EXPECT().GetUser(gomock.Any(), "u1").Return(tc.user, tc.err)

			a := NewRoleAuthorizer(mockUsers, mockTracer, logging.NewNoopLogger())

			allowed, err := a.Check(context.Background(), "u1", tc.relation, tc.tenant)

			if (err != nil) != tc.wantErr {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
			if allowed != tc.expected {
				t.Errorf("expected %v, got %v", tc.expected, allowed)
			}
		})
	}
}

func TestAuthorizationModelProvider(t *testing.T) {
	model := NewAuthorizationModelProvider("v0").GetModel()

	if model.SchemaVersion != "1.1" {
		t.Errorf("unexpected schema version %q", model.SchemaVersion)
	}

	var tenant bool
	for _, td := range model.TypeDefinitions {
		if td.Type != "tenant" {
			continue
		}
		tenant = true
		for _, rel := range []string{ADMIN_RELATION, MANAGER_RELATION, STAFF_RELATION} {
			if _, ok := td.GetRelations()[rel]; !ok {
				t.Errorf("relation %s missing", rel)
			}
		}
	}

	if !tenant {
		t.Error("tenant type missing")
	}
}

func TestAuthorizationModelProviderUnknownVersion(t *testing.T) {
	if _, err := NewAuthorizationModelProvider("v9").Model(); err == nil {
		t.Fatal("expected an error for an unknown api version")
	}
}

func TestAuthorizationModelImplication(t *testing.T) {
	model := NewAuthorizationModelProvider("v0").GetModel()

	for _, td := range model.TypeDefinitions {
		if td.Type != "tenant" {
			continue
		}

		staff := td.GetRelations()[STAFF_RELATION]
		union := staff.GetUnion()
		if len(union.GetChild()) != 2 {
			t.Fatalf("expected staff to be a union of two usersets, got %+v", staff)
		}

		computed := union.GetChild()[1].GetComputedUserset()
		if computed.GetRelation() != MANAGER_RELATION {
			t.Fatalf("expected staff to be implied by manager, got %q", computed.GetRelation())
		}
	}
}
