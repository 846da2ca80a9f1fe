package cli

import (
	"strings"
	"testing"
)

func TestNewRunCmd(t *testing.T) {
	cmd := NewRunCmd()

	if cmd == nil {
		t.Fatal("NewRunCmd() returned nil")
	}
	if !strings.HasPrefix(cmd.Use, "run") {
		t.Errorf("Expected Use to start with 'run', got %q", cmd.Use)
	}
	if cmd.Flags().Lookup("user") == nil {
		t.Error("Flag 'user' not registered")
	}
	if cmd.Flags().Lookup("yes") == nil {
		t.Error("Flag 'yes' not registered")
	}
}

func TestNewTrackCmd(t *testing.T) {
	cmd := NewTrackCmd()

	if cmd == nil {
		t.Fatal("NewTrackCmd() returned nil")
	}

	for _, flag := range []string{"user", "app", "query", "command", "error", "action", "x", "y", "width", "height"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("Flag %q not registered", flag)
		}
	}
}

func TestNewCleanupCmd(t *testing.T) {
	cmd := NewCleanupCmd()

	if cmd == nil {
		t.Fatal("NewCleanupCmd() returned nil")
	}
	if cmd.Flags().Lookup("retention") == nil {
		t.Error("Flag 'retention' not registered")
	}
}

func TestNewInsightsCmd(t *testing.T) {
	cmd := NewInsightsCmd()

	if cmd == nil {
		t.Fatal("NewInsightsCmd() returned nil")
	}
	if cmd.Flags().Lookup("ack") == nil {
		t.Error("Flag 'ack' not registered")
	}
	if cmd.Flags().Lookup("limit") == nil {
		t.Error("Flag 'limit' not registered")
	}
}

func TestCommandDescriptions(t *testing.T) {
	for _, c := range []struct {
		name  string
		short string
	}{
		{"serve", NewServeCmd().Short},
		{"run", NewRunCmd().Short},
		{"track", NewTrackCmd().Short},
		{"analyze", NewAnalyzeCmd().Short},
		{"suggest", NewSuggestCmd().Short},
		{"insights", NewInsightsCmd().Short},
		{"stats", NewStatsCmd().Short},
		{"cleanup", NewCleanupCmd().Short},
		{"config", NewConfigCmd().Short},
		{"version", NewVersionCmd().Short},
	} {
		if c.short == "" {
			t.Errorf("Command %q missing short description", c.name)
		}
	}
}
