package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jantrick/jantrick/config"
	"github.com/jantrick/jantrick/pkg/app"
	"github.com/jantrick/jantrick/pkg/auth"
)

// jantrick admin:grant <email>
func newAdminGrantCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "admin:grant <email>",
		Short: "Grant the admin role to an existing user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.Boot(cmd.Context(), envFiles...)
			if err != nil {
				return err
			}
			defer a.Close(cmd.Context()) //nolint:errcheck

			res, err := a.Auth().Grant(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if res.MatchedCount == 0 {
				return fmt.Errorf("no user with email %q; log in once first", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is an admin.\n", args[0])
			return nil
		},
	}
}

// jantrick token <email>
func newTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token <email>",
		Short: "Mint a bearer token for email with the configured secret",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(envFiles...)
			if err != nil {
				return err
			}
			token, err := auth.NewTokens(cfg.TokenSecret).Issue(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
}
