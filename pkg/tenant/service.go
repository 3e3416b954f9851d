// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenant

import (
	"context"
	"errors"
	"fmt"

	"github.com/canonical/inventory-service/internal/logging"
	"github.com/canonical/inventory-service/internal/monitoring"
	"github.com/canonical/inventory-service/internal/tracing"
	"github.com/canonical/inventory-service/internal/types"
)

var (
	ErrNoTenant       = fmt.Errorf("caller belongs to no tenant: %w", types.ErrNotFound)
	ErrPromotion      = types.NewValidationError("role", "only staff can be promoted to manager")
	ErrDemotion       = types.NewValidationError("role", "only managers can be demoted to staff")
	ErrRemoveAdmin    = types.NewValidationError("role", "cannot remove the admin user")
	ErrUserNotInScope = types.NotFoundError("user")
)

type Service struct {
	storage  StorageInterface
	authz    AuthorizerInterface
	notifier NotifierInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// Resolve maps an authenticated identity onto the tenant it belongs to.
func (s *Service) Resolve(ctx context.Context, callerID string) (*types.Caller, error) {
	ctx, span := s.tracer.Start(ctx, "tenant.Service.Resolve")
	defer span.End()

	user, err := s.storage.GetUser(ctx, callerID)
	if errors.Is(err, types.ErrNotFound) {
		return nil, ErrNoTenant
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve caller: %w", err)
	}

	return &types.Caller{
		UserID:      user.ID,
		DisplayName: user.DisplayName(),
		TenantID:    user.TenantID,
		Role:        user.Role,
	}, nil
}

func (s *Service) ListUsers(ctx context.Context, caller *types.Caller) ([]*types.User, error) {
	ctx, span := s.tracer.Start(ctx, "tenant.Service.ListUsers")
	defer span.End()

	users, err := s.storage.ListUsers(ctx, caller.TenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

func (s *Service) Promote(ctx context.Context, caller *types.Caller, userID string) (*types.User, error) {
	ctx, span := s.tracer.Start(ctx, "tenant.Service.Promote")
	defer span.End()

	user, err := s.changeRole(ctx, caller, userID, types.RoleStaff, types.RoleManager, ErrPromotion)
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyUser(
		ctx,
		user.Email,
		"You have been promoted",
		fmt.Sprintf("Hello %s,\n\nYou are now a manager of %s.\n", user.DisplayName(), user.TenantID),
	)

	return user, nil
}

func (s *Service) Demote(ctx context.Context, caller *types.Caller, userID string) (*types.User, error) {
	ctx, span := s.tracer.Start(ctx, "tenant.Service.Demote")
	defer span.End()

	return s.changeRole(ctx, caller, userID, types.RoleManager, types.RoleStaff, ErrDemotion)
}

// Remove deletes the membership of a user, the tenant admin cannot be removed.
func (s *Service) Remove(ctx context.Context, caller *types.Caller, userID string) error {
	ctx, span := s.tracer.Start(ctx, "tenant.Service.Remove")
	defer span.End()

	user, err := s.member(ctx, caller, userID)
	if err != nil {
		return err
	}

	if user.Role == types.RoleAdmin {
		return ErrRemoveAdmin
	}

	if err := s.storage.DeleteUser(ctx, caller.TenantID, userID); err != nil {
		return fmt.Errorf("failed to remove user: %w", err)
	}

	if err := s.authz.RemoveRole(ctx, caller.TenantID, userID, user.Role); err != nil {
		return fmt.Errorf("failed to revoke permissions: %w", err)
	}

	s.logger.Security().AdminAction(caller.UserID, "remove_user", userID)

	s.notifier.NotifyUser(
		ctx,
		user.Email,
		"You have been removed",
		fmt.Sprintf("Hello %s,\n\nYour access to %s has been revoked.\n", user.DisplayName(), user.TenantID),
	)

	return nil
}

func (s *Service) changeRole(ctx context.Context, caller *types.Caller, userID string, from, to types.Role, invalid error) (*types.User, error) {
	user, err := s.member(ctx, caller, userID)
	if err != nil {
		return nil, err
	}

	if user.Role != from {
		return nil, invalid
	}

	if err := s.storage.UpdateUserRole(ctx, caller.TenantID, userID, to); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	if err := s.authz.AssignRole(ctx, caller.TenantID, userID, to); err != nil {
		return nil, fmt.Errorf("failed to assign permissions: %w", err)
	}

	if err := s.authz.RemoveRole(ctx, caller.TenantID, userID, from); err != nil {
		return nil, fmt.Errorf("failed to revoke permissions: %w", err)
	}

	s.logger.Security().AdminAction(caller.UserID, fmt.Sprintf("set_role_%s", to), userID)

	user.Role = to

	return user, nil
}

// member loads a user of the caller's tenant, users of other tenants are
// reported as missing.
func (s *Service) member(ctx context.Context, caller *types.Caller, userID string) (*types.User, error) {
	user, err := s.storage.GetUser(ctx, userID)
	if errors.Is(err, types.ErrNotFound) {
		return nil, ErrUserNotInScope
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.TenantID != caller.TenantID {
		return nil, ErrUserNotInScope
	}

	return user, nil
}

func NewService(
	storage StorageInterface,
	authz AuthorizerInterface,
	notifier NotifierInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Service {
	s := new(Service)

	s.storage = storage
	s.authz = authz
	s.notifier = notifier

	s.tracer = tracer
	s.monitor = monitor
	s.logger = logger

	return s
}
