// Command obsplan computes the observability windows of celestial targets
// for one day at one site and keeps the observation plan.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var ov overrides

	root := &cobra.Command{
		Use:   "obsplan",
		Short: "Observability windows and observation planning",
		Long: `obsplan samples a calendar day minute by minute, finds when each target is
inside the site's azimuth/altitude corridor and keeps a table of planned
observations that never overlap.

Configuration is read from the environment (and a .env file); flags
override it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&ov.siteFile, "site", "", "Site YAML file (default $OBSPLAN_SITE_FILE, then built-in Ondrejov)")
	root.PersistentFlags().StringVar(&ov.dbPath, "db", "", "Plan database path (default $OBSPLAN_DB_PATH or plan.db)")
	root.PersistentFlags().StringVar(&ov.logLevel, "log-level", "", "debug, info, warn or error (default $OBSPLAN_LOG_LEVEL or info)")
	root.PersistentFlags().BoolVar(&ov.overnightFirst, "overnight-first", false, "List a window spanning midnight before the other windows")

	root.AddCommand(
		newWindowsCmd(&ov),
		newReserveCmd(&ov),
		newListCmd(&ov),
		newServeCmd(&ov),
		newDiagCmd(&ov),
	)
	return root
}
