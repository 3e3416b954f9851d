// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/canonical/inventory-service/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Get the application's version",
	Long:  `Get the application's version and the Go toolchain it was built with`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Inventory Service Version: %s\n", version.Version)
		if info, ok := debug.ReadBuildInfo(); ok {
			fmt.Printf("Go Version: %s\n", info.GoVersion)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
