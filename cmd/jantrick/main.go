// Command jantrick runs the Jantrick marketplace API and its maintenance
// tasks.
//
//	jantrick serve               # migrate, then start the HTTP server
//	jantrick route:list          # list API routes
//	jantrick migrate             # apply pending index migrations
//	jantrick migrate:rollback
//	jantrick migrate:status
//	jantrick seed                # demo catalogue + SEED_ADMIN_EMAIL
//	jantrick admin:grant <email> # bootstrap an admin
//	jantrick token <email>       # mint a bearer token
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import migrations and seeders so their init() funcs register them.
	_ "github.com/jantrick/jantrick/database/migrations"
	_ "github.com/jantrick/jantrick/database/seeders"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var envFiles []string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "jantrick",
		Short:         "Jantrick tool marketplace API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "dotenv file(s) to load (default .env)")

	// Server
	root.AddCommand(newServeCmd())
	root.AddCommand(newRouteListCmd())

	// Database
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newMigrateRollbackCmd())
	root.AddCommand(newMigrateStatusCmd())
	root.AddCommand(newSeedCmd())

	// Access
	root.AddCommand(newAdminGrantCmd())
	root.AddCommand(newTokenCmd())
	return root
}
