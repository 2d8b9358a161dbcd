package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jantrick/jantrick/app/repositories"
	"github.com/jantrick/jantrick/config"
	"github.com/jantrick/jantrick/internal/kernel"
	"github.com/jantrick/jantrick/pkg/app"
)

// jantrick serve
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "serve",
		Aliases: []string{"run", "start"},
		Short:   "Apply migrations and start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.Boot(cmd.Context(), envFiles...)
			if err != nil {
				return err
			}
			defer a.Close(cmd.Context()) //nolint:errcheck
			return a.Serve(cmd.Context())
		},
	}
}

// jantrick route:list
func newRouteListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "route:list",
		Aliases: []string{"routes"},
		Short:   "List all registered routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			k := kernel.NewHTTPKernel(&config.Config{}, kernel.Deps{Stores: repositories.NewMemoryStores()})

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "METHOD\tPATH\tNAME")
			fmt.Fprintln(w, "------\t----\t----")
			for _, ri := range k.Routes() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
			}
			return w.Flush()
		},
	}
}
