// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package accounts

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	httptypes "github.com/canonical/inventory-service/internal/http/types"
	"github.com/canonical/inventory-service/internal/logging"
	"github.com/canonical/inventory-service/internal/monitoring"
	"github.com/canonical/inventory-service/internal/tracing"
	"github.com/canonical/inventory-service/internal/types"
)

const maxBodyBytes = 1 << 16

type signupResponse struct {
	Message              string     `json:"message"`
	UserID               string     `json:"uid"`
	Role                 types.Role `json:"role"`
	RequiresVerification bool       `json:"requiresVerification"`
}

type sessionResponse struct {
	Message string     `json:"message,omitempty"`
	Token   string     `json:"token"`
	UserID  string     `json:"uid"`
	Role    types.Role `json:"role"`
	Company string     `json:"company"`
}

func newSessionResponse(message string, s *Session) sessionResponse {
	return sessionResponse{
		Message: message,
		Token:   s.Token,
		UserID:  s.User.ID,
		Role:    s.User.Role,
		Company: s.User.TenantID,
	}
}

type profileRequiredResponse struct {
	Error                  string `json:"error"`
	RequiresAdditionalInfo bool   `json:"requiresAdditionalInfo"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// API serves the public account endpoints, none of them require a session.
type API struct {
	service ServiceInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (a *API) RegisterEndpoints(r chi.Router) {
	r.Post("/signup", a.handleSignup)
	r.Post("/login", a.handleLogin)
	r.Post("/google-signin", a.handleGoogleSignIn)
	r.Post("/forgot-password", a.handleForgotPassword)
	r.Post("/issueToken", a.handleIssueToken)
}

func (a *API) handleSignup(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "accounts.API.handleSignup")
	defer span.End()

	req := new(SignupRequest)
	if !a.decode(w, r, req) {
		return
	}

	user, err := a.service.Signup(ctx, req)
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	a.write(w, http.StatusCreated, signupResponse{
		Message:              "Registration successful! Please verify your email before logging in.",
		UserID:               user.ID,
		Role:                 user.Role,
		RequiresVerification: true,
	})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "accounts.API.handleLogin")
	defer span.End()

	req := new(LoginRequest)
	if !a.decode(w, r, req) {
		return
	}

	session, err := a.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		a.writeLoginError(w, err)
		return
	}

	a.write(w, http.StatusOK, newSessionResponse("Login successful", session))
}

func (a *API) handleGoogleSignIn(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "accounts.API.handleGoogleSignIn")
	defer span.End()

	req := new(GoogleSignInRequest)
	if !a.decode(w, r, req) {
		return
	}

	session, created, err := a.service.GoogleSignIn(ctx, req)

	switch {
	case errors.Is(err, ErrProfileRequired):
		a.write(w, http.StatusOK, profileRequiredResponse{Error: "New users must provide companyName, firstName, and lastName", RequiresAdditionalInfo: true})
	case err != nil:
		a.writeLoginError(w, err)
	case created:
		a.write(w, http.StatusCreated, newSessionResponse("Registration successful", session))
	default:
		a.write(w, http.StatusOK, newSessionResponse("Login successful", session))
	}
}

func (a *API) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "accounts.API.handleForgotPassword")
	defer span.End()

	req := new(ForgotPasswordRequest)
	if !a.decode(w, r, req) {
		return
	}

	if err := a.service.ForgotPassword(ctx, req.Email); err != nil {
		a.writeLoginError(w, err)
		return
	}

	a.write(w, http.StatusOK, messageResponse{Message: "Password reset email sent"})
}

func (a *API) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "accounts.API.handleIssueToken")
	defer span.End()

	req := new(IssueTokenRequest)
	if !a.decode(w, r, req) {
		return
	}

	session, err := a.service.IssueToken(ctx, req.IDToken)
	if err != nil {
		a.writeLoginError(w, err)
		return
	}

	a.write(w, http.StatusOK, newSessionResponse("", session))
}

// writeLoginError keeps the specific account errors readable, they are
// otherwise reduced to a generic message for 401 and 403.
func (a *API) writeLoginError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnverified):
		httptypes.WriteMessage(w, http.StatusForbidden, "Please verify your email before logging in.", a.logger)
	case errors.Is(err, types.ErrUnauthenticated):
		httptypes.WriteMessage(w, http.StatusUnauthorized, "Invalid credentials", a.logger)
	case errors.Is(err, ErrNoMembership):
		httptypes.WriteMessage(w, http.StatusNotFound, "User not found in any company", a.logger)
	case errors.Is(err, ErrUnknownEmail):
		httptypes.WriteMessage(w, http.StatusNotFound, "No user found with this email", a.logger)
	default:
		httptypes.WriteError(w, err, a.logger)
	}
}

func (a *API) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		httptypes.WriteError(w, types.NewValidationError("body", "invalid request: %v", err), a.logger)
		return false
	}
	return true
}

func (a *API) write(w http.ResponseWriter, status int, body any) {
	if err := httptypes.WriteJSON(w, status, body); err != nil {
		a.logger.Errorf("failed to encode response: %v", err)
	}
}

func NewAPI(service ServiceInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *API {
	a := new(API)

	a.service = service

	a.tracer = tracer
	a.monitor = monitor
	a.logger = logger

	return a
}
