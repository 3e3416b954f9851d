// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2/clientcredentials"
)

var (
	clientID     string
	clientSecret string
	tokenURL     string
	issuerURL    string
	scopes       []string
	tokenFormat  string
)

// tokenCmd fetches a machine token for the oidc authentication mode, the
// printed value can be passed straight to --token.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Get an access token using Client Credentials flow",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		endpoint := tokenURL
		if endpoint == "" {
			if issuerURL == "" {
				return errors.New("either --token-url or --issuer-url must be provided")
			}

			provider, err := oidc.NewProvider(ctx, issuerURL)
			if err != nil {
				return fmt.Errorf("failed to discover issuer %s: %w", issuerURL, err)
			}
			endpoint = provider.Endpoint().TokenURL
		}

		config := &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     endpoint,
			Scopes:       scopes,
		}

		t, err := config.Token(ctx)
		if err != nil {
			return fmt.Errorf("failed to get token: %w", err)
		}

		if tokenFormat == "json" {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
				"access_token": t.AccessToken,
				"token_type":   t.Type(),
				"expiry":       t.Expiry,
			})
		}

		fmt.Fprintln(cmd.OutOrStdout(), t.AccessToken)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().StringVar(&clientID, "client-id", "", "Client ID")
	tokenCmd.Flags().StringVar(&clientSecret, "client-secret", "", "Client Secret")
	tokenCmd.Flags().StringVar(&tokenURL, "token-url", "", "Token URL")
	tokenCmd.Flags().StringVar(&issuerURL, "issuer-url", "", "Issuer URL (for OIDC discovery)")
	tokenCmd.Flags().StringSliceVar(&scopes, "scopes", []string{}, "Scopes (comma-separated)")
	tokenCmd.Flags().StringVar(&tokenFormat, "format", "text", "Output format (text or json)")

	_ = tokenCmd.MarkFlagRequired("client-id")
	_ = tokenCmd.MarkFlagRequired("client-secret")
}
