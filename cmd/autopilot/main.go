/*
Package main is the entry point for the autopilot CLI.

autopilot is an adaptive decision loop: it records user interactions,
distills them into behavior patterns and insights, and uses what it learned
to plan, gate, and execute tasks on the user's behalf.

Usage:
  autopilot [command]

Available Commands:
  serve       Run the RPC server (stdio transport)
  run         Plan and execute a task from a free-text request
  track       Record one interaction event
  analyze     Run an analysis pass over recent interactions
  suggest     Show ranked suggestions
  insights    List generated insights
  stats       Show learning metrics and capability statistics
  cleanup     Delete interactions past the retention window
  config      Manage configuration
  version     Show version information

Examples:
  # Run as stdio RPC server for event sources
  autopilot serve

  # Plan and execute a task
  autopilot run "open terminal"

  # Record an event and recompute the pattern
  autopilot track app-open --app terminal
  autopilot analyze
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/khanglvm/autopilot/internal/cli"
	"github.com/khanglvm/autopilot/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "autopilot",
		Short: "Adaptive decision loop - learn from activity, act on it",
		Long: `autopilot watches how you work, learns your patterns, and gradually
takes over routine tasks.

The loop has three stages:
  • record  - interactions stream into a local SQLite store
  • learn   - an analysis pass distills patterns, insights, and metrics
  • act     - tasks are planned, confidence-scored, gated, and executed

Execution outcomes feed back into capability statistics, so confidence
(and with it, autonomy) grows with demonstrated success.`,
		Version: version.GetVersion(),
	}

	// Add subcommands
	rootCmd.AddCommand(cli.NewServeCmd())
	rootCmd.AddCommand(cli.NewRunCmd())
	rootCmd.AddCommand(cli.NewTrackCmd())
	rootCmd.AddCommand(cli.NewAnalyzeCmd())
	rootCmd.AddCommand(cli.NewSuggestCmd())
	rootCmd.AddCommand(cli.NewInsightsCmd())
	rootCmd.AddCommand(cli.NewStatsCmd())
	rootCmd.AddCommand(cli.NewCleanupCmd())
	rootCmd.AddCommand(cli.NewConfigCmd())
	rootCmd.AddCommand(cli.NewVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
