// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/canonical/inventory-service/internal/types"
)

var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Manage the inventory of the caller's company",
}

var listInventoryCmd = &cobra.Command{
	Use:   "list",
	Short: "List inventory items",
	RunE: func(cmd *cobra.Command, args []string) error {
		var items []*types.InventoryItem
		if err := newAPIClient().call(cmd.Context(), http.MethodGet, "/inventory", nil, &items); err != nil {
			return fmt.Errorf("failed to list inventory: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tSUPPLIER\tCATEGORY\tQUANTITY\tPRICE\tSOLD")
		for _, i := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%d\n", i.ID, i.Name, i.Supplier, i.Category, i.Quantity, i.Price.StringFixed(2), i.SoldCount)
		}
		return w.Flush()
	},
}

var uploadInventoryCmd = &cobra.Command{
	Use:   "upload [file.csv]",
	Short: "Upload a CSV file of inventory items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var out map[string]any
		if err := newAPIClient().upload(cmd.Context(), "/upload-csv", args[0], &out); err != nil {
			return fmt.Errorf("failed to upload %s: %w", args[0], err)
		}
		return printJSON(cmd.OutOrStdout(), out)
	},
}

var deleteInventoryCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete an inventory item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newAPIClient().call(cmd.Context(), http.MethodDelete, "/delete-inventory/"+url.PathEscape(args[0]), nil, nil); err != nil {
			return fmt.Errorf("failed to delete item: %w", err)
		}

		fmt.Printf("Item deleted: %s\n", args[0])
		return nil
	},
}

var reportKind string

var reportCmd = &cobra.Command{
	Use:   "report [start] [end]",
	Short: "Show the items added or updated between two dates",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		q.Set("start", args[0])
		q.Set("end", args[1])
		if reportKind != "" {
			q.Set("type", reportKind)
		}

		var out any
		if err := newAPIClient().call(cmd.Context(), http.MethodGet, "/reports?"+q.Encode(), nil, &out); err != nil {
			return fmt.Errorf("failed to fetch report: %w", err)
		}
		return printJSON(cmd.OutOrStdout(), out)
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the analytics summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		var out any
		if err := newAPIClient().call(cmd.Context(), http.MethodGet, "/analytics-summary", nil, &out); err != nil {
			return fmt.Errorf("failed to fetch summary: %w", err)
		}
		return printJSON(cmd.OutOrStdout(), out)
	},
}

func init() {
	rootCmd.AddCommand(inventoryCmd)
	inventoryCmd.AddCommand(listInventoryCmd)
	inventoryCmd.AddCommand(uploadInventoryCmd)
	inventoryCmd.AddCommand(deleteInventoryCmd)
	inventoryCmd.AddCommand(reportCmd)
	inventoryCmd.AddCommand(summaryCmd)

	reportCmd.Flags().StringVar(&reportKind, "type", "", "Report type (low_stock or sales_trends)")
}
