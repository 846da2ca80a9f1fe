package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewStatsCmd creates the 'stats' command.
func NewStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show learning metrics, model state, and capability statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats()
		},
	}
	return cmd
}

func runStats() error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	metrics, err := a.store.GetMetrics()
	if err != nil {
		return err
	}
	state, err := a.store.GetModelState()
	if err != nil {
		return err
	}

	fmt.Println("Learning metrics:")
	if metrics == nil {
		fmt.Println("  (none yet — run 'autopilot analyze' first)")
	} else {
		fmt.Printf("  Interactions:     %d\n", metrics.TotalInteractions)
		fmt.Printf("  Unique users:     %d\n", metrics.UniqueUsers)
		fmt.Printf("  Avg session:      %.0fs\n", metrics.AvgSessionDuration)
		fmt.Printf("  Error rate:       %.2f\n", metrics.ErrorRate)
		fmt.Printf("  Success rate:     %.2f\n", metrics.SuccessRate)
		fmt.Printf("  Improvement rate: %.2f\n", metrics.ImprovementRate)
		if len(metrics.TopApps) > 0 {
			fmt.Printf("  Top apps:         %v\n", metrics.TopApps)
		}
	}

	fmt.Println("\nModel state:")
	if state == nil {
		fmt.Println("  (none yet)")
	} else {
		fmt.Printf("  Version:               %d\n", state.Version)
		fmt.Printf("  Accuracy:              %.2f\n", state.Accuracy)
		fmt.Printf("  Interactions analyzed: %d\n", state.InteractionsAnalyzed)
		fmt.Printf("  Last trained:          %s\n", state.LastTrained.Format("2006-01-02 15:04:05"))
	}

	fmt.Println("\nCapabilities:")
	for _, c := range a.pilot.Registry().List() {
		fmt.Printf("  %-18s %-8s used %-4d success %.2f avg %v\n",
			c.ID, c.Complexity, c.UsageCount, c.SuccessRate, c.AvgDuration)
	}

	return nil
}
