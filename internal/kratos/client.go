// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package kratos

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	ory "github.com/ory/client-go"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/canonical/inventory-service/internal/identity"
	"github.com/canonical/inventory-service/internal/logging"
	"github.com/canonical/inventory-service/internal/monitoring"
	"github.com/canonical/inventory-service/internal/tracing"
)

const (
	schemaID       = "default"
	googleProvider = "google"
)

var _ identity.ProviderInterface = (*Client)(nil)

// Client talks to the Kratos admin API for identity management and to the
// public API for native login flows.
type Client struct {
	admin  *ory.APIClient
	public *ory.APIClient

	publicURL            string
	recoveryLinkLifetime string

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (c *Client) GetIdentityByEmail(ctx context.Context, email string) (*identity.Identity, error) {
	ctx, span := c.tracer.Start(ctx, "kratos.Client.GetIdentityByEmail")
	defer span.End()

	// NOTE: we are setting an empty page token because of https://github.com/ory/sdk/issues/461
	ids, r, err := c.admin.IdentityAPI.ListIdentities(ctx).CredentialsIdentifier(email).PageToken("").Execute()
	if err != nil {
		if r != nil && r.StatusCode == http.StatusNotFound {
			return nil, identity.ErrIdentityNotFound
		}
		return nil, identity.Upstream("failed to list identities", err)
	}

	if len(ids) == 0 {
		return nil, identity.ErrIdentityNotFound
	}

	return toIdentity(&ids[0]), nil
}

func (c *Client) CreateIdentity(ctx context.Context, traits identity.Traits, password string) (*identity.Identity, error) {
	ctx, span := c.tracer.Start(ctx, "kratos.Client.CreateIdentity")
	defer span.End()

	body := ory.CreateIdentityBody{
		SchemaId: schemaID,
		Traits: map[string]interface{}{
			"email": traits.Email,
			"name": map[string]interface{}{
				"first": traits.FirstName,
				"last":  traits.LastName,
			},
		},
	}

	if password != "" {
		body.Credentials = &ory.IdentityWithCredentials{
			Password: &ory.IdentityWithCredentialsPassword{
				Config: &ory.IdentityWithCredentialsPasswordConfig{Password: &password},
			},
		}
	}

	created, r, err := c.admin.IdentityAPI.CreateIdentity(ctx).CreateIdentityBody(body).Execute()
	if err != nil {
		if r != nil && r.StatusCode == http.StatusConflict {
			return nil, identity.ErrIdentityExists
		}
		return nil, identity.Upstream("failed to create identity", err)
	}

	return toIdentity(created), nil
}

func (c *Client) GetIdentity(ctx context.Context, id string) (*identity.Identity, error) {
	ctx, span := c.tracer.Start(ctx, "kratos.Client.GetIdentity")
	defer span.End()

	i, r, err := c.admin.IdentityAPI.GetIdentity(ctx, id).Execute()
	if err != nil {
		if r != nil && r.StatusCode == http.StatusNotFound {
			return nil, identity.ErrIdentityNotFound
		}
		return nil, identity.Upstream("failed to get identity", err)
	}

	return toIdentity(i), nil
}

func (c *Client) VerifyPassword(ctx context.Context, email, password string) (*identity.Identity, error) {
	ctx, span := c.tracer.Start(ctx, "kratos.Client.VerifyPassword")
	defer span.End()

	body := ory.UpdateLoginFlowWithPasswordMethodAsUpdateLoginFlowBody(
		&ory.UpdateLoginFlowWithPasswordMethod{
			Method:     "password",
			Identifier: email,
			Password:   password,
		},
	)

	return c.nativeLogin(ctx, body, identity.ErrInvalidCredentials)
}

// VerifyIDToken submits a Google ID token to a native login flow, Kratos
// validates it against the configured OIDC provider.
func (c *Client) VerifyIDToken(ctx context.Context, idToken string) (*identity.Identity, error) {
	ctx, span := c.tracer.Start(ctx, "kratos.Client.VerifyIDToken")
	defer span.End()

	body := ory.UpdateLoginFlowWithOidcMethodAsUpdateLoginFlowBody(
		&ory.UpdateLoginFlowWithOidcMethod{
			Method:   "oidc",
			Provider: googleProvider,
			IdToken:  &idToken,
		},
	)

	return c.nativeLogin(ctx, body, identity.ErrInvalidIDToken)
}

func (c *Client) nativeLogin(ctx context.Context, body ory.UpdateLoginFlowBody, rejected error) (*identity.Identity, error) {
	flow, _, err := c.public.FrontendAPI.CreateNativeLoginFlow(ctx).Execute()
	if err != nil {
		return nil, identity.Upstream("failed to create login flow", err)
	}

	login, r, err := c.public.FrontendAPI.UpdateLoginFlow(ctx).Flow(flow.Id).UpdateLoginFlowBody(body).Execute()
	if err != nil {
		if r != nil && r.StatusCode >= 400 && r.StatusCode < 500 {
			return nil, rejected
		}
		return nil, identity.Upstream("failed to submit login flow", err)
	}

	if login.Session.Identity == nil {
		return nil, identity.Upstream("login flow returned no identity", errors.New("empty session"))
	}

	return toIdentity(login.Session.Identity), nil
}

// VerificationLink points at the self-service verification flow, Kratos sends
// the code itself once the flow is started.
func (c *Client) VerificationLink(ctx context.Context, id string) (string, error) {
	return strings.TrimSuffix(c.publicURL, "/") + "/self-service/verification/browser", nil
}

func (c *Client) RecoveryLink(ctx context.Context, id string) (string, error) {
	ctx, span := c.tracer.Start(ctx, "kratos.Client.RecoveryLink")
	defer span.End()

	body := ory.CreateRecoveryCodeForIdentityBody{
		IdentityId: id,
		ExpiresIn:  &c.recoveryLinkLifetime,
	}

	recovery, r, err := c.admin.IdentityAPI.CreateRecoveryCodeForIdentity(ctx).CreateRecoveryCodeForIdentityBody(body).Execute()
	if err != nil {
		if r != nil && r.StatusCode == http.StatusNotFound {
			return "", identity.ErrIdentityNotFound
		}
		return "", identity.Upstream("failed to create recovery code", err)
	}

	sep := "?"
	if strings.Contains(recovery.RecoveryLink, "?") {
		sep = "&"
	}

	return fmt.Sprintf("%s%scode=%s", recovery.RecoveryLink, sep, recovery.RecoveryCode), nil
}

func toIdentity(i *ory.Identity) *identity.Identity {
	out := &identity.Identity{ID: i.Id}

	if traits, ok := i.Traits.(map[string]interface{}); ok {
		out.Traits.Email, _ = traits["email"].(string)
		if name, ok := traits["name"].(map[string]interface{}); ok {
			out.Traits.FirstName, _ = name["first"].(string)
			out.Traits.LastName, _ = name["last"].(string)
		}
	}

	out.Email = strings.ToLower(out.Traits.Email)

	for _, addr := range i.VerifiableAddresses {
		if strings.EqualFold(addr.Value, out.Email) && addr.Verified {
			out.Verified = true
		}
	}

	return out
}

func newAPIClient(url string) *ory.APIClient {
	conf := ory.NewConfiguration()
	conf.Servers = ory.ServerConfigurations{{URL: url}}
	conf.HTTPClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	return ory.NewAPIClient(conf)
}

func NewClient(adminURL, publicURL, recoveryLinkLifetime string, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Client {
	return &Client{
		admin:                newAPIClient(adminURL),
		public:               newAPIClient(publicURL),
		publicURL:            publicURL,
		recoveryLinkLifetime: recoveryLinkLifetime,
		tracer:               tracer,
		monitor:              monitor,
		logger:               logger,
	}
}
