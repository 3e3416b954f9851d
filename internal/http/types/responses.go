// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/canonical/inventory-service/internal/logging"
	"github.com/canonical/inventory-service/internal/types"
)

// ErrorResponse is the standard json body for every failed request
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// StatusFromError maps domain errors to an http status and a message that is
// safe to return, anything unrecognised is reported without its details.
func StatusFromError(err error) (int, string) {
	var verr *types.ValidationError

	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Error()
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, types.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, types.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, types.ErrConflict):
		return http.StatusConflict, err.Error()
	case errors.Is(err, types.ErrUpstream):
		return http.StatusBadGateway, "upstream service unavailable"
	}

	return http.StatusInternalServerError, "internal server error"
}

func WriteJSON(w http.ResponseWriter, status int, body any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	return json.NewEncoder(w).Encode(body)
}

// WriteError logs server side failures with their full chain and writes the
// sanitized ErrorResponse.
func WriteError(w http.ResponseWriter, err error, logger logging.LoggerInterface) {
	status, message := StatusFromError(err)

	if status >= http.StatusInternalServerError {
		logger.Errorf("request failed: %v", err)
	} else {
		logger.Debugf("request rejected: %v", err)
	}

	if werr := WriteJSON(w, status, ErrorResponse{Status: status, Message: message}); werr != nil {
		logger.Errorf("failed to encode error response: %v", werr)
	}
}

// WriteMessage writes an ErrorResponse shaped body with an explicit status.
func WriteMessage(w http.ResponseWriter, status int, message string, logger logging.LoggerInterface) {
	if err := WriteJSON(w, status, ErrorResponse{Status: status, Message: message}); err != nil {
		logger.Errorf("failed to encode response: %v", err)
	}
}
