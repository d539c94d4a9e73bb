package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/dutybridge/internal/cli"
	"github.com/example/dutybridge/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "dutybridge",
		Short:   "dutybridge - ServiceNow to Flashduty incident notifications",
		Version: version.String(),
		Long: `dutybridge connects ServiceNow incidents to Flashduty on-call channels.
It ranks escalation policies against assignment groups, resolves escalation
timelines, and delivers incident notifications to the Flashduty push API.`,
	}

	// Add subcommands
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.DoctorCmd())
	rootCmd.AddCommand(cli.PoliciesCmd())
	rootCmd.AddCommand(cli.TimelineCmd())
	rootCmd.AddCommand(cli.MembersCmd())
	rootCmd.AddCommand(cli.SendCmd())
	rootCmd.AddCommand(cli.NotifyStateCmd())
	rootCmd.AddCommand(cli.ServeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
