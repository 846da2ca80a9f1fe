package autopilot

import (
	"context"
	"errors"
	"testing"
	"time"
)

// mockProvider is a sysctx.Provider double with controllable clock and load.
type mockProvider struct {
	now     time.Time
	windows int
}

func newMockProvider() *mockProvider {
	return &mockProvider{
		now:     time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		windows: 1,
	}
}

func (p *mockProvider) Now() time.Time         { return p.now }
func (p *mockProvider) ActiveWindowCount() int { return p.windows }
func (p *mockProvider) IsWorkingHours() bool   { return true }
func (p *mockProvider) DeviceClass() string    { return "desktop" }
func (p *mockProvider) ScreenSize() string     { return "1920x1080" }

// instantHandlers returns a registry where every capability succeeds
// immediately, so tests never wait on the simulated delay.
func instantHandlers() *HandlerRegistry {
	reg := NewHandlerRegistry()
	for _, c := range catalog() {
		capID := c.ID
		reg.Register(capID, func(ctx context.Context, params map[string]string) (string, error) {
			return capID + " done", nil
		})
	}
	return reg
}

// failingHandlers succeeds everywhere except the listed capabilities.
func failingHandlers(failing ...string) *HandlerRegistry {
	reg := instantHandlers()
	for _, id := range failing {
		capID := id
		reg.Register(capID, func(ctx context.Context, params map[string]string) (string, error) {
			return "", errors.New(capID + " broke")
		})
	}
	return reg
}

// newTestPilot wires an autopilot with no recorder or engine attached.
func newTestPilot(t *testing.T, handlers *HandlerRegistry, settings Settings) *Autopilot {
	t.Helper()

	pilot, err := New(nil, nil, newMockProvider(), handlers, settings)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return pilot
}
