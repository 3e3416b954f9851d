// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package openfga

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"

	fga "github.com/openfga/go-sdk"
	"github.com/openfga/go-sdk/client"
	"github.com/openfga/go-sdk/credentials"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/canonical/inventory-service/internal/logging"
	"github.com/canonical/inventory-service/internal/monitoring"
	"github.com/canonical/inventory-service/internal/tracing"
)

type Client struct {
	c       *client.OpenFgaClient
	modelID string

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (c *Client) Check(ctx context.Context, user, relation, object string, contextualTuples ...Tuple) (bool, error) {
	ctx, span := c.tracer.Start(ctx, "openfga.Client.Check")
	defer span.End()

	body := client.ClientCheckRequest{
		User:     user,
		Relation: relation,
		Object:   object,
	}

	if len(contextualTuples) > 0 {
		keys := make([]client.ClientContextualTupleKey, 0, len(contextualTuples))
		for _, t := range contextualTuples {
			keys = append(keys, t.toClientTupleKey())
		}
		body.ContextualTuples = keys
	}

	check, err := c.c.Check(ctx).Body(body).Execute()
	if err != nil {
		c.logger.Errorf("issue when performing check: %s", err)
		return false, err
	}

	return check.GetAllowed(), nil
}

func (c *Client) ListObjects(ctx context.Context, user, relation, objectType string) ([]string, error) {
	ctx, span := c.tracer.Start(ctx, "openfga.Client.ListObjects")
	defer span.End()

	resp, err := c.c.ListObjects(ctx).
		Body(client.ClientListObjectsRequest{User: user, Relation: relation, Type: objectType}).
		Execute()
	if err != nil {
		c.logger.Errorf("issue when listing objects: %s", err)
		return nil, err
	}

	return resp.GetObjects(), nil
}

func (c *Client) WriteTuple(ctx context.Context, user, relation, object string) error {
	ctx, span := c.tracer.Start(ctx, "openfga.Client.WriteTuple")
	defer span.End()

	t := NewTuple(user, relation, object)

	if _, err := c.c.WriteTuples(ctx).Body(client.ClientWriteTuplesBody{t.toClientTupleKey()}).Execute(); err != nil {
		c.logger.Errorf("issue when writing tuple: %s", err)
		return err
	}

	return nil
}

func (c *Client) DeleteTuple(ctx context.Context, user, relation, object string) error {
	ctx, span := c.tracer.Start(ctx, "openfga.Client.DeleteTuple")
	defer span.End()

	t := NewTuple(user, relation, object)

	if _, err := c.c.DeleteTuples(ctx).Body(client.ClientDeleteTuplesBody{t.toClientTupleKeyWithoutCondition()}).Execute(); err != nil {
		c.logger.Errorf("issue when deleting tuple: %s", err)
		return err
	}

	return nil
}

func (c *Client) ReadModel(ctx context.Context) (*fga.AuthorizationModel, error) {
	ctx, span := c.tracer.Start(ctx, "openfga.Client.ReadModel")
	defer span.End()

	var (
		resp *client.ClientReadAuthorizationModelResponse
		err  error
	)

	if c.modelID != "" {
		resp, err = c.c.ReadAuthorizationModel(ctx).Execute()
	} else {
		resp, err = c.c.ReadLatestAuthorizationModel(ctx).Execute()
	}

	if err != nil {
		return nil, err
	}

	model := resp.GetAuthorizationModel()
	return &model, nil
}

// CompareModel reports whether the store's current model has the same type
// definitions as the given one.
func (c *Client) CompareModel(ctx context.Context, model fga.AuthorizationModel) (bool, error) {
	ctx, span := c.tracer.Start(ctx, "openfga.Client.CompareModel")
	defer span.End()

	current, err := c.ReadModel(ctx)
	if err != nil {
		return false, err
	}

	a, err := json.Marshal(current.TypeDefinitions)
	if err != nil {
		return false, err
	}
	b, err := json.Marshal(model.TypeDefinitions)
	if err != nil {
		return false, err
	}

	var left, right any
	if err := json.Unmarshal(a, &left); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, &right); err != nil {
		return false, err
	}

	return reflect.DeepEqual(left, right), nil
}

func (c *Client) CreateStore(ctx context.Context, name string) (string, error) {
	ctx, span := c.tracer.Start(ctx, "openfga.Client.CreateStore")
	defer span.End()

	store, err := c.c.CreateStore(ctx).Body(client.ClientCreateStoreRequest{Name: name}).Execute()
	if err != nil {
		return "", fmt.Errorf("failed to create store: %w", err)
	}

	return store.GetId(), nil
}

func (c *Client) SetStoreID(ctx context.Context, storeID string) {
	if err := c.c.SetStoreId(storeID); err != nil {
		c.logger.Errorf("failed to set store id: %s", err)
	}
}

func (c *Client) WriteModel(ctx context.Context, model *client.ClientWriteAuthorizationModelRequest) (string, error) {
	ctx, span := c.tracer.Start(ctx, "openfga.Client.WriteModel")
	defer span.End()

	resp, err := c.c.WriteAuthorizationModel(ctx).Body(*model).Execute()
	if err != nil {
		return "", fmt.Errorf("failed to write model: %w", err)
	}

	return resp.GetAuthorizationModelId(), nil
}

func NewClient(cfg *Config) (*Client, error) {
	c := new(Client)

	c.modelID = cfg.AuthModelID

	c.tracer = cfg.Tracer
	c.monitor = cfg.Monitor
	c.logger = cfg.Logger

	fgaClient, err := client.NewSdkClient(
		&client.ClientConfiguration{
			ApiUrl:               cfg.ApiURL(),
			StoreId:              cfg.StoreID,
			AuthorizationModelId: cfg.AuthModelID,
			Credentials: &credentials.Credentials{
				Method: credentials.CredentialsMethodApiToken,
				Config: &credentials.Config{
					ApiToken: cfg.ApiToken,
				},
			},
			Debug:      cfg.Debug,
			HTTPClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("issue when setting up openfga client: %w", err)
	}

	c.c = fgaClient

	return c, nil
}
