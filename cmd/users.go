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

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage the users of the caller's company",
}

var listUsersCmd = &cobra.Command{
	Use:   "list",
	Short: "List users of the company",
	RunE: func(cmd *cobra.Command, args []string) error {
		var users []*types.User
		if err := newAPIClient().call(cmd.Context(), http.MethodGet, "/users", nil, &users); err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tEMAIL\tNAME\tROLE\tSTATUS")
		for _, u := range users {
			fmt.Fprintf(w, "%s\t%s\t%s %s\t%s\t%s\n", u.ID, u.Email, u.FirstName, u.LastName, u.Role, u.Status)
		}
		return w.Flush()
	},
}

// roleCommand builds the promote and demote commands, they differ only in
// the path and wording.
func roleCommand(action string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " [user-id]",
		Short: fmt.Sprintf("%s a user of the company", action),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := new(struct {
				Message string      `json:"message"`
				User    *types.User `json:"user"`
			})

			path := fmt.Sprintf("/users/%s/%s", url.PathEscape(args[0]), action)
			if err := newAPIClient().call(cmd.Context(), http.MethodPut, path, nil, out); err != nil {
				return fmt.Errorf("failed to %s user: %w", action, err)
			}

			if out.User != nil {
				fmt.Printf("%s: %s is now %s\n", out.Message, out.User.ID, out.User.Role)
				return nil
			}
			fmt.Println(out.Message)
			return nil
		},
	}
}

var removeUserCmd = &cobra.Command{
	Use:   "remove [user-id]",
	Short: "Remove a user from the company",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := fmt.Sprintf("/users/%s/remove", url.PathEscape(args[0]))
		if err := newAPIClient().call(cmd.Context(), http.MethodDelete, path, nil, nil); err != nil {
			return fmt.Errorf("failed to remove user: %w", err)
		}

		fmt.Printf("User removed: %s\n", args[0])
		return nil
	},
}

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with email and password and print the session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if loginPassword == "" {
			loginPassword = os.Getenv("INVENTORY_PASSWORD")
		}

		out := new(struct {
			Token string `json:"token"`
		})
		in := map[string]string{"email": loginEmail, "password": loginPassword}
		if err := newAPIClient().call(cmd.Context(), http.MethodPost, "/login", in, out); err != nil {
			return fmt.Errorf("failed to log in: %w", err)
		}

		fmt.Println(out.Token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(listUsersCmd)
	usersCmd.AddCommand(roleCommand("promote"))
	usersCmd.AddCommand(roleCommand("demote"))
	usersCmd.AddCommand(removeUserCmd)

	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password, defaults to $INVENTORY_PASSWORD")
	_ = loginCmd.MarkFlagRequired("email")
}
