// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package firebase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"

	"github.com/canonical/inventory-service/internal/identity"
	"github.com/canonical/inventory-service/internal/logging"
	"github.com/canonical/inventory-service/internal/monitoring"
	"github.com/canonical/inventory-service/internal/tracing"
)

var _ identity.ProviderInterface = (*Provider)(nil)

type authClient interface {
	CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error)
	GetUser(ctx context.Context, uid string) (*auth.UserRecord, error)
	GetUserByEmail(ctx context.Context, email string) (*auth.UserRecord, error)
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
	EmailVerificationLink(ctx context.Context, email string) (string, error)
	PasswordResetLink(ctx context.Context, email string) (string, error)
}

// passwordVerifier returns the uid owning the credentials.
type passwordVerifier func(ctx context.Context, email, password string) (string, error)

// Provider backs identities with Firebase Authentication, passwords are
// checked through the Identity Toolkit REST API since the admin SDK cannot.
type Provider struct {
	client         authClient
	verifyPassword passwordVerifier

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (p *Provider) CreateIdentity(ctx context.Context, traits identity.Traits, password string) (*identity.Identity, error) {
	ctx, span := p.tracer.Start(ctx, "firebase.Provider.CreateIdentity")
	defer span.End()

	params := (&auth.UserToCreate{}).
		Email(traits.Email).
		EmailVerified(false).
		DisplayName(strings.TrimSpace(traits.FirstName + " " + traits.LastName))

	if password != "" {
		params = params.Password(password)
	}

	record, err := p.client.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) || auth.IsUIDAlreadyExists(err) {
			return nil, identity.ErrIdentityExists
		}
		return nil, identity.Upstream("failed to create firebase user", err)
	}

	return toIdentity(record), nil
}

func (p *Provider) GetIdentity(ctx context.Context, id string) (*identity.Identity, error) {
	ctx, span := p.tracer.Start(ctx, "firebase.Provider.GetIdentity")
	defer span.End()

	record, err := p.client.GetUser(ctx, id)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return nil, identity.ErrIdentityNotFound
		}
		return nil, identity.Upstream("failed to get firebase user", err)
	}

	return toIdentity(record), nil
}

func (p *Provider) GetIdentityByEmail(ctx context.Context, email string) (*identity.Identity, error) {
	ctx, span := p.tracer.Start(ctx, "firebase.Provider.GetIdentityByEmail")
	defer span.End()

	record, err := p.client.GetUserByEmail(ctx, email)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return nil, identity.ErrIdentityNotFound
		}
		return nil, identity.Upstream("failed to get firebase user by email", err)
	}

	return toIdentity(record), nil
}

func (p *Provider) VerifyPassword(ctx context.Context, email, password string) (*identity.Identity, error) {
	ctx, span := p.tracer.Start(ctx, "firebase.Provider.VerifyPassword")
	defer span.End()

	uid, err := p.verifyPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}

	return p.GetIdentity(ctx, uid)
}

func (p *Provider) VerifyIDToken(ctx context.Context, idToken string) (*identity.Identity, error) {
	ctx, span := p.tracer.Start(ctx, "firebase.Provider.VerifyIDToken")
	defer span.End()

	token, err := p.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		p.logger.Debugf("firebase id token rejected: %v", err)
		return nil, identity.ErrInvalidIDToken
	}

	return p.GetIdentity(ctx, token.UID)
}

func (p *Provider) VerificationLink(ctx context.Context, id string) (string, error) {
	ctx, span := p.tracer.Start(ctx, "firebase.Provider.VerificationLink")
	defer span.End()

	i, err := p.GetIdentity(ctx, id)
	if err != nil {
		return "", err
	}

	link, err := p.client.EmailVerificationLink(ctx, i.Email)
	if err != nil {
		return "", identity.Upstream("failed to generate verification link", err)
	}

	return link, nil
}

func (p *Provider) RecoveryLink(ctx context.Context, id string) (string, error) {
	ctx, span := p.tracer.Start(ctx, "firebase.Provider.RecoveryLink")
	defer span.End()

	i, err := p.GetIdentity(ctx, id)
	if err != nil {
		return "", err
	}

	link, err := p.client.PasswordResetLink(ctx, i.Email)
	if err != nil {
		return "", identity.Upstream("failed to generate password reset link", err)
	}

	return link, nil
}

func toIdentity(record *auth.UserRecord) *identity.Identity {
	out := &identity.Identity{
		ID:       record.UID,
		Email:    strings.ToLower(record.Email),
		Verified: record.EmailVerified,
	}

	out.Traits.Email = record.Email
	first, last, _ := strings.Cut(strings.TrimSpace(record.DisplayName), " ")
	out.Traits.FirstName = first
	out.Traits.LastName = strings.TrimSpace(last)

	return out
}

func identityToolkitVerifier(svc *identitytoolkit.Service) passwordVerifier {
	return func(ctx context.Context, email, password string) (string, error) {
		resp, err := svc.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
			Email:    email,
			Password: password,
		}).Context(ctx).Do()

		if err != nil {
			var gerr *googleapi.Error
			if errors.As(err, &gerr) && gerr.Code == http.StatusBadRequest {
				return "", identity.ErrInvalidCredentials
			}
			return "", identity.Upstream("failed to verify password", err)
		}

		return resp.LocalId, nil
	}
}

// NewProvider initialises the Firebase app from a service account file, or
// from application default credentials when the file is empty.
func NewProvider(ctx context.Context, projectID, credentialsFile, apiKey string, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) (*Provider, error) {
	opts := []option.ClientOption{}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise firebase auth: %w", err)
	}

	svc, err := identitytoolkit.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialise identity toolkit: %w", err)
	}

	return newProvider(client, identityToolkitVerifier(svc), tracer, monitor, logger), nil
}

func newProvider(client authClient, verify passwordVerifier, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Provider {
	p := new(Provider)

	p.client = client
	p.verifyPassword = verify

	p.tracer = tracer
	p.monitor = monitor
	p.logger = logger

	return p
}
