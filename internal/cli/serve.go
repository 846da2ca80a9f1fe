package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/khanglvm/autopilot/internal/rpc"
)

// NewServeCmd creates the 'serve' command for running the RPC server.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the autopilot server (stdio transport)",
		Long: `Start the autopilot server using newline-delimited JSON-RPC over stdio.

Event sources (editor, terminal, voice front-ends) connect here to push
interactions and drive tasks:
  • track        - record one interaction event
  • run          - plan, gate, and execute a task
  • plan         - plan and gate without executing
  • suggestions  - ephemeral suggestions for a user
  • insights     - stored insights (insights/ack to acknowledge)
  • analyze      - force an analysis pass
  • stats        - metrics, model state, capability statistics
  • status       - runtime settings and recorder queue depth`,
		Example: `  autopilot serve
  echo '{"jsonrpc":"2.0","id":1,"method":"status"}' | autopilot serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	return cmd
}

// runServe starts the RPC server with signal handling. Shuts down gracefully
// on SIGINT/SIGTERM/SIGQUIT, draining the recorder queue before exit.
func runServe() error {
	a, err := newApp()
	if err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}

	server := rpc.NewServer(a.store, a.recorder, a.engine, a.sugg, a.pilot, os.Stdin, os.Stdout)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Run(ctx)
	}()

	select {
	case sig := <-sigChan:
		log.Printf("Received signal: %v, shutting down gracefully...", sig)
		cancel()
		a.close()
		log.Println("Shutdown complete")
		return nil

	case err := <-errChan:
		// Run returned (stdin closed or error). Still drain and close.
		a.close()
		if err != nil && err != context.Canceled {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}
}
