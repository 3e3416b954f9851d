// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/canonical/inventory-service/internal/logging"
	"github.com/canonical/inventory-service/internal/monitoring"
	"github.com/canonical/inventory-service/internal/tracing"
	"github.com/canonical/inventory-service/internal/types"
)

const (
	ModeSession = "session"
	ModeOIDC    = "oidc"
	ModeNoop    = "noop"
)

var otelHTTPClient = http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}

type OIDCConfig struct {
	Issuer          string
	JWKSURL         string
	AllowedSubjects []string
	RequiredScope   string
}

// NewAuthenticator builds the bearer token verifier for the given mode.
// Session tokens are accepted in every mode but noop, in oidc mode tokens
// minted by the external issuer are accepted as well.
func NewAuthenticator(
	ctx context.Context,
	mode string,
	sessions *SessionManager,
	oidcConfig OIDCConfig,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) (TokenVerifierInterface, error) {
	switch mode {
	case ModeNoop:
		logger.Warn("token verification is disabled, bearer tokens are taken as caller ids")
		return NewNoopVerifier(), nil
	case ModeSession:
		return sessions, nil
	case ModeOIDC:
	default:
		return nil, fmt.Errorf("unknown authentication mode %q", mode)
	}

	if oidcConfig.Issuer == "" {
		return nil, fmt.Errorf("issuer is required for oidc authentication")
	}

	// use the otel instrumented client for discovery and key fetches
	ctx = oidc.ClientContext(ctx, &otelHTTPClient)

	var verifier *oidc.IDTokenVerifier

	if oidcConfig.JWKSURL != "" {
		logger.Infof("Using manual JWKS URL: %s", oidcConfig.JWKSURL)
		verifier = oidc.NewVerifier(oidcConfig.Issuer, oidc.NewRemoteKeySet(ctx, oidcConfig.JWKSURL), &oidc.Config{SkipClientIDCheck: true})
	} else {
		logger.Infof("Using OIDC discovery for issuer: %s", oidcConfig.Issuer)
		provider, err := oidc.NewProvider(ctx, oidcConfig.Issuer)
		if err != nil {
			return nil, fmt.Errorf("failed to create OIDC provider: %v", err)
		}
		verifier = provider.Verifier(&oidc.Config{SkipClientIDCheck: true})
	}

	jwtVerifier := NewJWTVerifier(verifier, oidcConfig.AllowedSubjects, oidcConfig.RequiredScope, tracer, monitor, logger)

	return NewChainVerifier(sessions, jwtVerifier), nil
}

// ChainVerifier accepts a token as soon as one of its verifiers does.
type ChainVerifier struct {
	verifiers []TokenVerifierInterface
}

func (c *ChainVerifier) VerifyToken(ctx context.Context, rawToken string) (string, error) {
	var errs []error

	for _, v := range c.verifiers {
		userID, err := v.VerifyToken(ctx, rawToken)
		if err == nil {
			return userID, nil
		}
		errs = append(errs, err)
	}

	return "", fmt.Errorf("%w: %w", types.ErrUnauthenticated, errors.Join(errs...))
}

func NewChainVerifier(verifiers ...TokenVerifierInterface) *ChainVerifier {
	c := new(ChainVerifier)
	for _, v := range verifiers {
		if v != nil {
			c.verifiers = append(c.verifiers, v)
		}
	}

	return c
}
