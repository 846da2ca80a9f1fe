package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewTrackCmd creates the 'track' command for recording one event manually.
// The usual event sources are UI surfaces talking to the RPC server; this
// command exists for scripting and debugging.
func NewTrackCmd() *cobra.Command {
	var user, app, query, command, errMsg, action string
	var x, y, width, height int

	cmd := &cobra.Command{
		Use:   "track <type>",
		Short: "Record one interaction event",
		Long: `Record a single interaction event of the given type.

Types: app-open, app-close, window-move, window-resize, ai-query,
command-execute, error, success.`,
		Example: `  autopilot track app-open --app terminal
  autopilot track window-move --app editor --x 100 --y 50
  autopilot track error --error "file not found"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrack(args[0], user, app, query, command, errMsg, action, x, y, width, height)
		},
	}

	cmd.Flags().StringVarP(&user, "user", "u", "default", "User the event belongs to")
	cmd.Flags().StringVar(&app, "app", "", "Application id")
	cmd.Flags().StringVar(&query, "query", "", "Query text (ai-query)")
	cmd.Flags().StringVar(&command, "command", "", "Command line (command-execute)")
	cmd.Flags().StringVar(&errMsg, "error", "", "Error message (error)")
	cmd.Flags().StringVar(&action, "action", "", "Action label (success)")
	cmd.Flags().IntVar(&x, "x", 0, "Window x position (window-move)")
	cmd.Flags().IntVar(&y, "y", 0, "Window y position (window-move)")
	cmd.Flags().IntVar(&width, "width", 0, "Window width (window-resize)")
	cmd.Flags().IntVar(&height, "height", 0, "Window height (window-resize)")

	return cmd
}

func runTrack(typ, user, app, query, command, errMsg, action string, x, y, width, height int) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	switch typ {
	case "app-open":
		a.recorder.TrackAppOpen(user, app)
	case "app-close":
		a.recorder.TrackAppClose(user, app)
	case "window-move":
		a.recorder.TrackWindowMove(user, app, x, y)
	case "window-resize":
		a.recorder.TrackWindowResize(user, app, width, height)
	case "ai-query":
		a.recorder.TrackAIQuery(user, query)
	case "command-execute":
		a.recorder.TrackCommand(user, command)
	case "error":
		a.recorder.TrackError(user, errMsg)
	case "success":
		a.recorder.TrackSuccess(user, action)
	default:
		return fmt.Errorf("unknown interaction type %q", typ)
	}

	// Give the background flush a beat before teardown.
	time.Sleep(100 * time.Millisecond)
	fmt.Printf("Tracked %s for user %s.\n", typ, user)
	return nil
}
