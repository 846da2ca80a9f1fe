package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewInsightsCmd creates the 'insights' command.
func NewInsightsCmd() *cobra.Command {
	var user, ack string
	var limit int

	cmd := &cobra.Command{
		Use:   "insights",
		Short: "List generated insights for a user",
		Example: `  autopilot insights
  autopilot insights --user alice --limit 10
  autopilot insights --ack 7f3c...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInsights(user, ack, limit)
		},
	}

	cmd.Flags().StringVarP(&user, "user", "u", "default", "User to query")
	cmd.Flags().StringVar(&ack, "ack", "", "Acknowledge the insight with this id")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum insights to list")

	return cmd
}

func runInsights(user, ack string, limit int) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if ack != "" {
		if err := a.store.AcknowledgeInsight(ack, time.Now()); err != nil {
			return err
		}
		fmt.Printf("Acknowledged insight %s.\n", ack)
		return nil
	}

	insights, err := a.store.GetInsights(user, limit)
	if err != nil {
		return err
	}

	if len(insights) == 0 {
		fmt.Println("No insights yet. Run 'autopilot analyze' after tracking some activity.")
		return nil
	}

	fmt.Printf("Insights for %s (%d):\n\n", user, len(insights))
	for _, ins := range insights {
		marker := " "
		if ins.AcknowledgedAt != nil {
			marker = "✓"
		}
		fmt.Printf("%s [%s] %s (%.2f)\n", marker, ins.Kind, ins.Title, ins.Confidence)
		fmt.Printf("    %s\n", ins.Description)
		fmt.Printf("    id: %s\n", ins.ID)
	}

	return nil
}
