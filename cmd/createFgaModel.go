// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"

	"github.com/joho/godotenv"
	"github.com/openfga/go-sdk/client"
	"github.com/spf13/cobra"

	"github.com/canonical/inventory-service/internal/authorization"
	"github.com/canonical/inventory-service/internal/logging"
	"github.com/canonical/inventory-service/internal/monitoring"
	"github.com/canonical/inventory-service/internal/openfga"
	"github.com/canonical/inventory-service/internal/tracing"
)

const StoreName = "inventory-service"

// createFgaModelCmd represents the createFgaModel command
var createFgaModelCmd = &cobra.Command{
	Use:   "create-fga-model",
	Short: "Creates an openfga model",
	Long:  `Creates the company role model in openfga, optionally recording the store and model ids in a .env file read by serve`,
	Run: func(cmd *cobra.Command, args []string) {
		apiUrl, _ := cmd.Flags().GetString("fga-api-url")
		apiToken, _ := cmd.Flags().GetString("fga-api-token")
		storeId, _ := cmd.Flags().GetString("fga-store-id")
		format, _ := cmd.Flags().GetString("format")
		verbose, _ := cmd.Flags().GetBool("verbose")
		envFile, _ := cmd.Flags().GetString("env-file")

		modelId, finalStoreId, err := createModel(cmd.Context(), apiUrl, apiToken, storeId, verbose)
		if err != nil {
			cmd.PrintErrln(err)
			os.Exit(1)
		}

		if envFile != "" {
			if err := updateEnvFile(envFile, finalStoreId, modelId); err != nil {
				cmd.PrintErrln(fmt.Errorf("failed to update env file: %w", err))
				os.Exit(1)
			}
			cmd.Printf("Env file %s updated successfully\n", envFile)
		}

		if format == "json" {
			output := struct {
				StoreId string `json:"store_id"`
				ModelId string `json:"model_id"`
			}{
				StoreId: finalStoreId,
				ModelId: modelId,
			}
			if err := json.NewEncoder(cmd.OutOrStdout()).Encode(output); err != nil {
				cmd.PrintErrln(fmt.Errorf("failed to encode output: %v", err))
				os.Exit(1)
			}
		} else {
			cmd.Printf("Created model: %s\n", modelId)
			if storeId == "" {
				cmd.Printf("Created store: %s\n", finalStoreId)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(createFgaModelCmd)

	createFgaModelCmd.Flags().String("fga-api-url", "", "The openfga API URL")
	createFgaModelCmd.Flags().String("fga-api-token", "", "The openfga API token")
	createFgaModelCmd.Flags().String("fga-store-id", "", "The openfga store to create the model in, if empty one will be created")
	createFgaModelCmd.Flags().String("format", "text", "Output format (text or json)")
	createFgaModelCmd.Flags().BoolP("verbose", "v", false, "Enable verbose logging")
	createFgaModelCmd.Flags().String("env-file", "", "A .env file to record OPENFGA_STORE_ID and OPENFGA_AUTHORIZATION_MODEL_ID in")
	_ = createFgaModelCmd.MarkFlagRequired("fga-api-url")
	_ = createFgaModelCmd.MarkFlagRequired("fga-api-token")
}

func createModel(ctx context.Context, apiUrl, apiToken, storeId string, verbose bool) (string, string, error) {
	logger := logging.NewNoopLogger()
	tracer := tracing.NewNoopTracer()
	monitor := monitoring.NewNoopMonitor("", logger)

	scheme, host, err := parseURL(apiUrl)
	if err != nil {
		return "", "", fmt.Errorf("failed to parse url: %w", err)
	}

	fgaClient, err := openfga.NewClient(openfga.NewConfig(scheme, host, storeId, apiToken, "", verbose, tracer, monitor, logger))
	if err != nil {
		return "", "", fmt.Errorf("failed to create openfga client: %w", err)
	}

	if storeId == "" {
		storeId, err = fgaClient.CreateStore(ctx, StoreName)
		if err != nil {
			return "", "", fmt.Errorf("failed to create store: %w", err)
		}

		fgaClient.SetStoreID(ctx, storeId)
	}

	authzModel := authorization.NewAuthorizationModelProvider("v0").GetModel()

	modelId, err := fgaClient.WriteModel(
		ctx,
		&client.ClientWriteAuthorizationModelRequest{
			TypeDefinitions: authzModel.TypeDefinitions,
			SchemaVersion:   authzModel.SchemaVersion,
			Conditions:      authzModel.Conditions,
		},
	)
	if err != nil {
		return "", "", fmt.Errorf("failed to write model: %w", err)
	}

	return modelId, storeId, nil
}

func parseURL(s string) (string, string, error) {
	u, err := url.Parse(s)
	if err != nil {
		return "", "", err
	}
	if u.Host == "" {
		return "", "", fmt.Errorf("missing host in %q", s)
	}
	return u.Scheme, u.Host, nil
}

// updateEnvFile merges the openfga ids into path, keeping every other entry.
func updateEnvFile(path, storeId, modelId string) error {
	env, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		env = make(map[string]string)
	} else if err != nil {
		return err
	}

	env["OPENFGA_STORE_ID"] = storeId
	env["OPENFGA_AUTHORIZATION_MODEL_ID"] = modelId

	return godotenv.Write(env, path)
}
