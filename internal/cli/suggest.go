package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewSuggestCmd creates the 'suggest' command.
func NewSuggestCmd() *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Show ranked suggestions for a user",
		Long: `Compute ephemeral suggestions from the stored pattern and recent
activity. Suggestions are recomputed on every call and never persisted.`,
		Example: `  autopilot suggest
  autopilot suggest --user alice`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuggest(user)
		},
	}

	cmd.Flags().StringVarP(&user, "user", "u", "default", "User to suggest for")

	return cmd
}

func runSuggest(user string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	suggestions, err := a.sugg.Suggest(user)
	if err != nil {
		return err
	}

	if len(suggestions) == 0 {
		fmt.Println("No suggestions yet. Track some activity and run 'autopilot analyze'.")
		return nil
	}

	fmt.Printf("Suggestions for %s:\n\n", user)
	for i, s := range suggestions {
		fmt.Printf("%d. %s (%.2f)\n", i+1, s.Title, s.Relevance)
		fmt.Printf("   %s\n", s.Description)
	}

	return nil
}
