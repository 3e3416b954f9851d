// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	endpoint string
	token    string
	userID   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "inventory-service",
	Short: "Inventory Service",
	Long:  `Inventory Service backend and CLI for managing company inventories and users.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", "localhost:8080", "HTTP server endpoint (e.g. http://localhost:8080)")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("INVENTORY_TOKEN"), "Bearer token, defaults to $INVENTORY_TOKEN")
	rootCmd.PersistentFlags().StringVar(&userID, "user-id", "", "Caller id sent in the trusted identity header")
}
