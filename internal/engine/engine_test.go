package engine

import (
	"reflect"
	"testing"
	"time"

	"github.com/khanglvm/autopilot/internal/storage"
)

func TestAnalyze_FullPass(t *testing.T) {
	store := newMockStore()
	eng := New(store, newMockProvider())

	// Five identical errors plus app activity.
	store.AppendInteraction(event(storage.InteractionAppOpen, "terminal", 0))
	for i := 0; i < 5; i++ {
		store.AppendInteraction(dataEvent(storage.InteractionError,
			map[string]string{"error": "disk full"}, time.Duration(i+1)*time.Minute))
	}
	store.AppendInteraction(dataEvent(storage.InteractionSuccess,
		map[string]string{"action": "saved"}, 10*time.Minute))

	result, err := eng.Analyze("alice")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if result.Pattern.ErrorPatterns["disk full"] != 5 {
		t.Errorf("expected 'disk full' mined 5 times, got %d", result.Pattern.ErrorPatterns["disk full"])
	}
	if result.Pattern.SuccessPatterns["saved"] != 1 {
		t.Errorf("expected 'saved' mined once, got %d", result.Pattern.SuccessPatterns["saved"])
	}

	// Pattern replaced in the store.
	saved, _ := store.GetPattern("alice")
	if saved == nil || saved.ErrorPatterns["disk full"] != 5 {
		t.Error("expected pattern persisted")
	}

	// The recurring error produces a warning insight among the generated set.
	var warning *storage.LearningInsight
	for i := range result.Insights {
		if result.Insights[i].Kind == storage.InsightWarning {
			warning = &result.Insights[i]
		}
	}
	if warning == nil {
		t.Fatal("expected a warning insight for the recurring error")
	}
	if warning.Action["error"] != "disk full" {
		t.Errorf("expected warning about 'disk full', got %v", warning.Action)
	}

	// Model state refreshed: accuracy = 1 success / (1 success + 5 errors).
	state, _ := store.GetModelState()
	if state == nil {
		t.Fatal("expected model state saved")
	}
	if state.Version != 1 {
		t.Errorf("expected version 1, got %d", state.Version)
	}
	if want := 1.0 / 6.0; state.Accuracy != want {
		t.Errorf("expected accuracy %v, got %v", want, state.Accuracy)
	}

	metrics, _ := store.GetMetrics()
	if metrics == nil {
		t.Fatal("expected metrics saved")
	}
	if metrics.TotalInteractions != 7 {
		t.Errorf("expected 7 interactions in metrics, got %d", metrics.TotalInteractions)
	}
}

func TestAnalyze_Idempotent(t *testing.T) {
	store := newMockStore()
	eng := New(store, newMockProvider())

	store.AppendInteraction(event(storage.InteractionAppOpen, "terminal", 0))
	store.AppendInteraction(event(storage.InteractionAppClose, "terminal", time.Minute))

	first, err := eng.Analyze("alice")
	if err != nil {
		t.Fatalf("first Analyze failed: %v", err)
	}
	second, err := eng.Analyze("alice")
	if err != nil {
		t.Fatalf("second Analyze failed: %v", err)
	}

	// Insight ids differ per pass; the mined pattern must not.
	if !reflect.DeepEqual(first.Pattern, second.Pattern) {
		t.Error("expected identical patterns from an unchanged snapshot")
	}

	// Model state accumulates across passes.
	state, _ := store.GetModelState()
	if state.Version != 2 {
		t.Errorf("expected version 2 after two passes, got %d", state.Version)
	}
	if state.InteractionsAnalyzed != 4 {
		t.Errorf("expected 4 interactions analyzed cumulatively, got %d", state.InteractionsAnalyzed)
	}
}

func TestAnalyze_WindowBound(t *testing.T) {
	store := newMockStore()
	eng := New(store, newMockProvider())
	eng.SetWindowSize(3)

	// Ten opens, but only the newest three are in the window.
	for i := 0; i < 10; i++ {
		app := "old"
		if i >= 7 {
			app = "new"
		}
		store.AppendInteraction(event(storage.InteractionAppOpen, app, time.Duration(i)*time.Minute))
	}

	result, err := eng.Analyze("alice")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(result.Pattern.MostUsedApps) != 1 || result.Pattern.MostUsedApps[0].AppID != "new" {
		t.Errorf("expected only 'new' inside the window, got %+v", result.Pattern.MostUsedApps)
	}
	if result.Pattern.MostUsedApps[0].Count != 3 {
		t.Errorf("expected 3 opens in window, got %d", result.Pattern.MostUsedApps[0].Count)
	}
}

func TestAnalyze_EmptyHistory(t *testing.T) {
	store := newMockStore()
	eng := New(store, newMockProvider())

	result, err := eng.Analyze("nobody")
	if err != nil {
		t.Fatalf("Analyze failed on empty history: %v", err)
	}
	if len(result.Pattern.MostUsedApps) != 0 || len(result.Insights) != 0 {
		t.Errorf("expected empty pattern and no insights, got %+v", result)
	}
}
