package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewCleanupCmd creates the 'cleanup' command for retention enforcement.
func NewCleanupCmd() *cobra.Command {
	var retention int

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete interactions older than the retention window",
		Long: `Delete interactions recorded before the retention cutoff. The cutoff is
computed once at the start of the run, so events recorded while the
cleanup is in flight are never touched. Patterns and insights are kept.`,
		Example: `  autopilot cleanup
  autopilot cleanup --retention 7`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCleanup(retention)
		},
	}

	cmd.Flags().IntVar(&retention, "retention", 0, "Retention window in days (0 = use config, default 30)")

	return cmd
}

func runCleanup(retention int) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if retention <= 0 {
		retention = 30
		if a.cfg.Storage != nil && a.cfg.Storage.RetentionDays > 0 {
			retention = a.cfg.Storage.RetentionDays
		}
	}

	cutoff := time.Now().AddDate(0, 0, -retention)
	deleted, err := a.store.DeleteInteractionsBefore(cutoff)
	if err != nil {
		return fmt.Errorf("cleanup failed: %w", err)
	}

	fmt.Printf("Deleted %d interactions older than %d days (before %s).\n",
		deleted, retention, cutoff.Format("2006-01-02"))
	return nil
}
