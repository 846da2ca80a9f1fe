package autopilot

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
	"time"
)

// Handler executes one capability invocation. Handlers must honor the
// context: a cancelled context fails the in-flight step.
type Handler func(ctx context.Context, params map[string]string) (string, error)

// HandlerRegistry maps capability ids to their injected handlers. Production
// wires real handlers (app launch, file I/O, AI query); tests substitute
// deterministic doubles.
type HandlerRegistry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewHandlerRegistry creates an empty handler registry.
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{handlers: map[string]Handler{}}
}

// Register binds a handler to a capability id, replacing any previous one.
func (h *HandlerRegistry) Register(capabilityID string, handler Handler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handlers[capabilityID] = handler
}

// Get returns the handler for a capability id.
func (h *HandlerRegistry) Get(capabilityID string) (Handler, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	handler, ok := h.handlers[capabilityID]
	return handler, ok
}

// simulatedDelay is the fixed execution time of the reference handlers.
const simulatedDelay = 100 * time.Millisecond

// SimulatedHandlers returns the reference handler set: a fixed-duration
// delay plus a canned result per capability. Production handlers must honor
// the same contract.
func SimulatedHandlers() *HandlerRegistry {
	reg := NewHandlerRegistry()
	for _, c := range catalog() {
		capID := c.ID
		reg.Register(capID, func(ctx context.Context, params map[string]string) (string, error) {
			select {
			case <-time.After(simulatedDelay):
				return fmt.Sprintf("%s completed", capID), nil
			case <-ctx.Done():
				return "", ctx.Err()
			}
		})
	}
	return reg
}

// OpenAppHandler returns an exec-backed handler that launches the app named
// in params["app_id"]. The process is started and left running; the handler
// does not wait for it to exit.
func OpenAppHandler() Handler {
	return func(ctx context.Context, params map[string]string) (string, error) {
		appID := params["app_id"]
		if appID == "" {
			return "", fmt.Errorf("open_app: missing app_id")
		}

		if err := ctx.Err(); err != nil {
			return "", err
		}

		cmd := exec.Command(appID)
		if err := cmd.Start(); err != nil {
			return "", fmt.Errorf("open_app: failed to start %s: %w", appID, err)
		}

		// Reap the process in the background so it never zombies.
		go cmd.Wait()

		return fmt.Sprintf("launched %s (pid %d)", appID, cmd.Process.Pid), nil
	}
}
