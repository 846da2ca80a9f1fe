package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/khanglvm/autopilot/internal/autopilot"
)

// NewRunCmd creates the 'run' command: plan, gate, and execute one task.
func NewRunCmd() *cobra.Command {
	var user string
	var yes bool

	cmd := &cobra.Command{
		Use:   "run <request>",
		Short: "Plan and execute a task from a free-text request",
		Long: `Plan a task from the request, score its confidence, pass it through the
decision gate, and execute it when the gate allows (or --yes overrides an
ask_user verdict).`,
		Example: `  autopilot run "open terminal"
  autopilot run "create file notes.txt"
  autopilot run 'write "hello" to notes.txt' --yes`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(strings.Join(args, " "), user, yes)
		},
	}

	cmd.Flags().StringVarP(&user, "user", "u", "default", "User the task belongs to")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Execute even when the gate asks for confirmation")

	return cmd
}

func runRun(request, user string, yes bool) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	task, decision, err := a.pilot.PlanTask(request)
	if err != nil {
		return err
	}

	printDecision(decision)

	execute := decision.Verdict == autopilot.VerdictExecute
	if !execute && yes && decision.Verdict == autopilot.VerdictAskUser {
		fmt.Println("Confirmation overridden with --yes.")
		execute = true
	}

	if !execute {
		fmt.Printf("Not executing (%s).\n", decision.Verdict)
		return nil
	}

	if err := a.pilot.ExecuteTask(context.Background(), user, task); err != nil {
		fmt.Printf("Task failed: %v\n", err)
	}
	printTask(task)
	return nil
}

func printDecision(d autopilot.Decision) {
	fmt.Printf("Decision: %s (confidence %.2f)\n", d.Verdict, d.Confidence)
	fmt.Printf("  Reason: %s\n", d.Reason)
	if d.EstimatedDuration > 0 {
		fmt.Printf("  Estimated duration: %v\n", d.EstimatedDuration)
	}
	for _, r := range d.Risks {
		fmt.Printf("  Risk: %s\n", r)
	}
	for _, b := range d.Benefits {
		fmt.Printf("  Benefit: %s\n", b)
	}
}

func printTask(t *autopilot.Task) {
	fmt.Printf("Task %s: %s\n", t.ID, t.Status)
	for i, step := range t.Steps {
		fmt.Printf("  %d. %s [%s]", i+1, step.Capability, step.Status)
		if step.Result != "" {
			fmt.Printf(" → %s", step.Result)
		}
		if step.Error != "" {
			fmt.Printf(" (error: %s)", step.Error)
		}
		fmt.Println()
	}
}
