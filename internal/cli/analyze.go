package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewAnalyzeCmd creates the 'analyze' command for forcing an analysis pass.
func NewAnalyzeCmd() *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run an analysis pass over recent interactions",
		Long: `Recompute the user's behavior pattern from the recent interaction
window, generate insights, and refresh model state and metrics.`,
		Example: `  autopilot analyze
  autopilot analyze --user alice`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(user)
		},
	}

	cmd.Flags().StringVarP(&user, "user", "u", "default", "User to analyze")

	return cmd
}

func runAnalyze(user string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	result, err := a.engine.Analyze(user)
	if err != nil {
		return err
	}

	p := result.Pattern
	fmt.Printf("Pattern for %s (updated %s):\n", user, p.UpdatedAt.Format("15:04:05"))
	fmt.Printf("  Top apps:        %d\n", len(p.MostUsedApps))
	for i, app := range p.MostUsedApps {
		if i >= 3 {
			break
		}
		fmt.Printf("    %s (%d opens, avg %.0fs)\n", app.AppID, app.Count, app.AvgDuration)
	}
	fmt.Printf("  Sequences:       %d\n", len(p.CommonSequences))
	fmt.Printf("  Error patterns:  %d\n", len(p.ErrorPatterns))
	fmt.Printf("  New insights:    %d\n", len(result.Insights))
	for _, ins := range result.Insights {
		fmt.Printf("    [%s] %s (%.2f)\n", ins.Kind, ins.Title, ins.Confidence)
	}

	return nil
}
