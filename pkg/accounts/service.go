// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package accounts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/canonical/inventory-service/internal/identity"
	"github.com/canonical/inventory-service/internal/logging"
	"github.com/canonical/inventory-service/internal/monitoring"
	"github.com/canonical/inventory-service/internal/tracing"
	"github.com/canonical/inventory-service/internal/types"
)

var (
	ErrEmailRegistered = types.NewValidationError("email", "is already registered")
	ErrUnverified      = fmt.Errorf("please verify your email before logging in: %w", types.ErrForbidden)
	ErrNoMembership    = fmt.Errorf("user not found in any company: %w", types.ErrNotFound)
	ErrUnknownEmail    = fmt.Errorf("no user found with this email: %w", types.ErrNotFound)
	// ErrProfileRequired is returned by GoogleSignIn for unknown users that
	// did not send the company and name fields.
	ErrProfileRequired = errors.New("new users must provide companyName, firstName, and lastName")
)

type Service struct {
	identities identity.ProviderInterface
	storage    StorageInterface
	authz      AuthorizerInterface
	sessions   SessionIssuerInterface
	notifier   NotifierInterface

	validate *validator.Validate
	now      func() time.Time

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (s *Service) Signup(ctx context.Context, req *SignupRequest) (*types.User, error) {
	ctx, span := s.tracer.Start(ctx, "accounts.Service.Signup")
	defer span.End()

	req.normalize()
	if err := s.validate.StructCtx(ctx, req); err != nil {
		return nil, validationError(err, req.Password)
	}

	_, err := s.identities.GetIdentityByEmail(ctx, req.Email)
	if err == nil {
		return nil, ErrEmailRegistered
	}
	if !errors.Is(err, identity.ErrIdentityNotFound) {
		return nil, err
	}

	ident, err := s.identities.CreateIdentity(
		ctx,
		identity.Traits{Email: req.Email, FirstName: req.FirstName, LastName: req.LastName},
		req.Password,
	)
	if errors.Is(err, identity.ErrIdentityExists) {
		return nil, ErrEmailRegistered
	}
	if err != nil {
		return nil, err
	}

	s.sendVerification(ctx, ident.ID, req.Email)

	return s.provision(ctx, ident.ID, req.Email, req.FirstName, req.LastName, req.CompanyName)
}

func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	ctx, span := s.tracer.Start(ctx, "accounts.Service.Login")
	defer span.End()

	email = normalizeEmail(email)
	if err := s.validate.StructCtx(ctx, &LoginRequest{Email: email, Password: password}); err != nil {
		return nil, validationError(err, "")
	}

	ident, err := s.identities.VerifyPassword(ctx, email, password)
	if errors.Is(err, identity.ErrIdentityNotFound) || errors.Is(err, types.ErrUnauthenticated) {
		s.logger.Security().AuthnFailure(email, "invalid credentials")
		return nil, identity.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !ident.Verified {
		s.logger.Security().AuthnFailure(ident.ID, "email not verified")
		return nil, ErrUnverified
	}

	return s.sessionFor(ctx, ident.ID)
}

func (s *Service) GoogleSignIn(ctx context.Context, req *GoogleSignInRequest) (*Session, bool, error) {
	ctx, span := s.tracer.Start(ctx, "accounts.Service.GoogleSignIn")
	defer span.End()

	if err := s.validate.StructCtx(ctx, req); err != nil {
		return nil, false, validationError(err, "")
	}

	ident, err := s.identities.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		s.logger.Security().AuthnFailure("google", err.Error())
		return nil, false, err
	}

	session, err := s.sessionFor(ctx, ident.ID)
	if err == nil {
		return session, false, nil
	}
	if !errors.Is(err, ErrNoMembership) {
		return nil, false, err
	}

	if !req.hasProfile() {
		return nil, false, ErrProfileRequired
	}

	user, err := s.provision(ctx, ident.ID, normalizeEmail(ident.Email), req.FirstName, req.LastName, req.CompanyName)
	if err != nil {
		return nil, false, err
	}

	token, err := s.sessions.IssueToken(ctx, user)
	if err != nil {
		return nil, false, err
	}

	return &Session{Token: token, User: user}, true, nil
}

func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	ctx, span := s.tracer.Start(ctx, "accounts.Service.ForgotPassword")
	defer span.End()

	email = normalizeEmail(email)
	if err := s.validate.StructCtx(ctx, &ForgotPasswordRequest{Email: email}); err != nil {
		return validationError(err, "")
	}

	ident, err := s.identities.GetIdentityByEmail(ctx, email)
	if errors.Is(err, identity.ErrIdentityNotFound) {
		return ErrUnknownEmail
	}
	if err != nil {
		return err
	}

	link, err := s.identities.RecoveryLink(ctx, ident.ID)
	if err != nil {
		return err
	}

	s.notifier.NotifyUser(
		ctx,
		email,
		"Reset your password",
		fmt.Sprintf("Hello,\n\nFollow this link to reset your password:\n%s\n\nIf you did not ask for a reset you can ignore this e-mail.\n", link),
	)

	return nil
}

// IssueToken exchanges an identity provider ID token for a session token.
func (s *Service) IssueToken(ctx context.Context, idToken string) (*Session, error) {
	ctx, span := s.tracer.Start(ctx, "accounts.Service.IssueToken")
	defer span.End()

	if err := s.validate.StructCtx(ctx, &IssueTokenRequest{IDToken: idToken}); err != nil {
		return nil, validationError(err, "")
	}

	ident, err := s.identities.VerifyIDToken(ctx, idToken)
	if err != nil {
		s.logger.Security().AuthnFailure("id_token", err.Error())
		return nil, err
	}

	return s.sessionFor(ctx, ident.ID)
}

func (s *Service) sessionFor(ctx context.Context, userID string) (*Session, error) {
	user, err := s.storage.GetUser(ctx, userID)
	if errors.Is(err, types.ErrNotFound) {
		return nil, ErrNoMembership
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	token, err := s.sessions.IssueToken(ctx, user)
	if err != nil {
		return nil, err
	}

	return &Session{Token: token, User: user}, nil
}

// provision attaches a new identity to its tenant, the first member of a
// tenant becomes its admin and everybody after that joins as staff.
func (s *Service) provision(ctx context.Context, userID, email, firstName, lastName, companyName string) (*types.User, error) {
	tenantID := types.TenantID(companyName)
	role := types.RoleStaff

	_, err := s.storage.GetTenant(ctx, tenantID)
	switch {
	case errors.Is(err, types.ErrNotFound):
		_, err = s.storage.CreateTenant(ctx, &types.Tenant{ID: tenantID, Name: tenantID, AdminID: userID, CreatedAt: s.now()})
		switch {
		case err == nil:
			role = types.RoleAdmin
		case errors.Is(err, types.ErrConflict):
			// somebody else founded the tenant first
		default:
			return nil, fmt.Errorf("failed to create tenant: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	user, err := s.storage.CreateUser(ctx, &types.User{
		ID:        userID,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Role:      role,
		TenantID:  tenantID,
		Status:    "active",
		CreatedAt: s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.authz.AssignRole(ctx, tenantID, userID, role); err != nil {
		return nil, fmt.Errorf("failed to assign permissions: %w", err)
	}

	s.logger.Infof("user %s joined tenant %s as %s", userID, tenantID, role)

	return user, nil
}

func (s *Service) sendVerification(ctx context.Context, userID, email string) {
	link, err := s.identities.VerificationLink(ctx, userID)
	if err != nil {
		s.logger.Warnf("failed to create verification link for %s: %v", userID, err)
		return
	}

	s.notifier.NotifyUser(
		ctx,
		email,
		"Verify your e-mail address",
		fmt.Sprintf("Hello,\n\nPlease verify your e-mail address before logging in:\n%s\n", link),
	)
}

func NewService(
	identities identity.ProviderInterface,
	storage StorageInterface,
	authz AuthorizerInterface,
	sessions SessionIssuerInterface,
	notifier NotifierInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Service {
	s := new(Service)

	s.identities = identities
	s.storage = storage
	s.authz = authz
	s.sessions = sessions
	s.notifier = notifier

	s.validate = newValidator()
	s.now = time.Now

	s.tracer = tracer
	s.monitor = monitor
	s.logger = logger

	return s
}
