package engine

import (
	"reflect"
	"testing"

	"github.com/khanglvm/autopilot/internal/storage"
)

func TestComputeMetrics(t *testing.T) {
	window := []storage.Interaction{
		{UserID: "alice", Type: storage.InteractionAppOpen, AppID: "terminal", Context: storage.InteractionContext{SessionDuration: 100}},
		{UserID: "alice", Type: storage.InteractionAppOpen, AppID: "terminal", Context: storage.InteractionContext{SessionDuration: 200}},
		{UserID: "bob", Type: storage.InteractionAppOpen, AppID: "editor", Context: storage.InteractionContext{SessionDuration: 300}},
		{UserID: "bob", Type: storage.InteractionSuccess, Context: storage.InteractionContext{SessionDuration: 400}},
		{UserID: "bob", Type: storage.InteractionError, Context: storage.InteractionContext{SessionDuration: 500}},
	}

	m := computeMetrics(window, nil, testBase)

	if m.TotalInteractions != 5 {
		t.Errorf("expected 5 total, got %d", m.TotalInteractions)
	}
	if m.UniqueUsers != 2 {
		t.Errorf("expected 2 users, got %d", m.UniqueUsers)
	}
	if m.AvgSessionDuration != 300 {
		t.Errorf("expected avg session 300, got %v", m.AvgSessionDuration)
	}
	if m.ErrorRate != 0.2 || m.SuccessRate != 0.2 {
		t.Errorf("expected error/success rates 0.2, got %v/%v", m.ErrorRate, m.SuccessRate)
	}
	if want := []string{"terminal", "editor"}; !reflect.DeepEqual(m.TopApps, want) {
		t.Errorf("expected top apps %v, got %v", want, m.TopApps)
	}
	if m.ImprovementRate != 0 {
		t.Errorf("expected zero improvement without prior snapshot, got %v", m.ImprovementRate)
	}
}

func TestComputeMetrics_ImprovementRate(t *testing.T) {
	window := []storage.Interaction{
		{UserID: "alice", Type: storage.InteractionSuccess},
		{UserID: "alice", Type: storage.InteractionSuccess},
		{UserID: "alice", Type: storage.InteractionError},
		{UserID: "alice", Type: storage.InteractionAppOpen, AppID: "terminal"},
	}
	previous := &storage.LearningMetrics{SuccessRate: 0.25}

	m := computeMetrics(window, previous, testBase)

	// Success rate went 0.25 -> 0.5: improvement of 1.0 (doubled).
	if m.SuccessRate != 0.5 {
		t.Fatalf("expected success rate 0.5, got %v", m.SuccessRate)
	}
	if m.ImprovementRate != 1.0 {
		t.Errorf("expected improvement rate 1.0, got %v", m.ImprovementRate)
	}
}

func TestComputeMetrics_EmptyWindow(t *testing.T) {
	m := computeMetrics(nil, nil, testBase)

	if m.TotalInteractions != 0 || m.UniqueUsers != 0 {
		t.Errorf("expected empty metrics, got %+v", m)
	}
	if m.ErrorRate != 0 || m.SuccessRate != 0 || m.AvgSessionDuration != 0 {
		t.Errorf("expected zero rates on empty window, got %+v", m)
	}
}

func TestTopApps_TieBreaking(t *testing.T) {
	opens := map[string]int{"zsh": 2, "editor": 2, "browser": 5}

	got := topApps(opens, 5)
	want := []string{"browser", "editor", "zsh"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	if got := topApps(opens, 1); len(got) != 1 || got[0] != "browser" {
		t.Errorf("expected truncation to [browser], got %v", got)
	}
}
