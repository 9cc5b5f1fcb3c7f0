// Command rentd runs the rent manager API and its billing jobs.
//
//	rentd serve      HTTP API plus /worker endpoints
//	rentd migrate    create or update the schema and exit
//	rentd trigger    call the /worker endpoints of a running instance
//	rentd schedule   run the daily jobs in-process on a cron spec
//
// @title          Rent Manager API
// @version        1.0
// @description    Multi-tenant room rental backend: leases, monthly invoices, payments, incidents and reminder jobs.
// @BasePath       /
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "rentd",
		Short:         "Rent manager API and billing jobs",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		serveCmd(),
		migrateCmd(),
		triggerCmd(),
		scheduleCmd(),
	)
	return root
}
