package main

import (
	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	serve := newServeCmd()

	root := &cobra.Command{
		Use:   "insightsd",
		Short: "Commercial real estate debt portfolio service",
		Long: `insightsd serves loan portfolios over HTTP and gRPC: amortization
schedules, portfolio dashboards, notes, saved reports and CSV exports.

Without a subcommand it runs the server.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}

	root.AddCommand(serve, newMigrateCmd(), newScheduleCmd(), newCertsCmd())
	return root
}
