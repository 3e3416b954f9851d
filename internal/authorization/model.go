// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authorization

import (
	_ "embed"
	"encoding/json"
	"fmt"

	fga "github.com/openfga/go-sdk"
	"github.com/openfga/language/pkg/go/transformer"
)

//go:embed schema/v0.fga
var v0Model string

type AuthorizationModelProvider struct {
	apiVersion string
}

// Model compiles the embedded DSL for the provider's api version.
func (a *AuthorizationModelProvider) Model() (*fga.AuthorizationModel, error) {
	if a.apiVersion != "v0" {
		return nil, fmt.Errorf("no authorization model for api version %q", a.apiVersion)
	}

	raw, err := transformer.TransformDSLToJSON(v0Model)
	if err != nil {
		return nil, fmt.Errorf("failed to compile authorization model: %w", err)
	}

	model := new(fga.AuthorizationModel)
	if err := json.Unmarshal([]byte(raw), model); err != nil {
		return nil, fmt.Errorf("failed to decode authorization model: %w", err)
	}

	return model, nil
}

// GetModel is Model for the embedded schema, it panics since the DSL ships
// with the binary and a compile failure is a build defect.
func (a *AuthorizationModelProvider) GetModel() *fga.AuthorizationModel {
	model, err := a.Model()
	if err != nil {
		panic(err)
	}

	return model
}

func NewAuthorizationModelProvider(apiVersion string) *AuthorizationModelProvider {
	return &AuthorizationModelProvider{apiVersion: apiVersion}
}
