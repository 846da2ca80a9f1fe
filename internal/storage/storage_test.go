/*
Package storage provides tests for the storage layer.
*/
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// newTestStore creates an initialized store in a temp directory.
func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store := NewStoreAt(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testInteraction(userID string, typ InteractionType, ts time.Time) Interaction {
	return Interaction{
		ID:        fmt.Sprintf("%s-%s-%d", userID, typ, ts.UnixNano()),
		UserID:    userID,
		Timestamp: ts,
		Type:      typ,
		Context: InteractionContext{
			TimeOfDay:   "morning",
			DayOfWeek:   ts.Weekday().String(),
			DeviceClass: "desktop",
			ScreenSize:  "1920x1080",
		},
	}
}

// TestInit verifies database initialization and schema creation.
func TestInit(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store := NewStoreAt(dbPath)

	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file not created")
	}

	// Init is idempotent
	if err := store.Init(); err != nil {
		t.Errorf("Second Init failed: %v", err)
	}
}

// TestAppendAndGetInteractions verifies the append-only log and its
// newest-first, limit-bounded reads.
func TestAppendAndGetInteractions(t *testing.T) {
	store := newTestStore(t)

	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		in := testInteraction("alice", InteractionAppOpen, base.Add(time.Duration(i)*time.Minute))
		in.AppID = "terminal"
		in.Data = map[string]string{"n": fmt.Sprint(i)}
		if err := store.AppendInteraction(in); err != nil {
			t.Fatalf("AppendInteraction failed: %v", err)
		}
	}
	// Another user's events must not leak into alice's reads.
	if err := store.AppendInteraction(testInteraction("bob", InteractionError, base)); err != nil {
		t.Fatalf("AppendInteraction failed: %v", err)
	}

	got, err := store.GetInteractionsByUser("alice", 3)
	if err != nil {
		t.Fatalf("GetInteractionsByUser failed: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("Expected 3 interactions, got %d", len(got))
	}
	// Newest first: the K returned are the K most recent.
	if got[0].Data["n"] != "4" || got[2].Data["n"] != "2" {
		t.Errorf("Expected newest-first window [4..2], got [%s..%s]", got[0].Data["n"], got[2].Data["n"])
	}
	for _, in := range got {
		if in.UserID != "alice" {
			t.Errorf("Expected only alice's interactions, got %s", in.UserID)
		}
	}
}

// TestGetRecentInteractions verifies the cross-user read.
func TestGetRecentInteractions(t *testing.T) {
	store := newTestStore(t)

	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	store.AppendInteraction(testInteraction("alice", InteractionAppOpen, base))
	store.AppendInteraction(testInteraction("bob", InteractionAppClose, base.Add(time.Minute)))

	got, err := store.GetRecentInteractions(10)
	if err != nil {
		t.Fatalf("GetRecentInteractions failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 interactions, got %d", len(got))
	}
	if got[0].UserID != "bob" {
		t.Errorf("Expected newest (bob) first, got %s", got[0].UserID)
	}
}

// TestInteractionOrdering_FractionalSeconds verifies that timestamps whose
// fractional seconds need different digit counts still read back newest
// first and compare correctly against a retention cutoff.
func TestInteractionOrdering_FractionalSeconds(t *testing.T) {
	store := newTestStore(t)

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	older := testInteraction("alice", InteractionAppOpen, base.Add(500*time.Millisecond))
	older.Data = map[string]string{"which": "older"}
	newer := testInteraction("alice", InteractionAppOpen, base.Add(510*time.Millisecond))
	newer.Data = map[string]string{"which": "newer"}

	if err := store.AppendInteraction(older); err != nil {
		t.Fatalf("AppendInteraction failed: %v", err)
	}
	if err := store.AppendInteraction(newer); err != nil {
		t.Fatalf("AppendInteraction failed: %v", err)
	}

	got, err := store.GetRecentInteractions(10)
	if err != nil {
		t.Fatalf("GetRecentInteractions failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 interactions, got %d", len(got))
	}
	if got[0].Data["which"] != "newer" {
		t.Errorf("Expected newest first, got %q (ts %v)", got[0].Data["which"], got[0].Timestamp)
	}
	if !got[0].Timestamp.Equal(base.Add(510 * time.Millisecond)) {
		t.Errorf("Expected timestamp to round-trip, got %v", got[0].Timestamp)
	}

	// The retention cutoff compares the same column the same way.
	deleted, err := store.DeleteInteractionsBefore(base.Add(510 * time.Millisecond))
	if err != nil {
		t.Fatalf("DeleteInteractionsBefore failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Expected only the older interaction deleted, got %d", deleted)
	}
}

// TestDeleteInteractionsBefore verifies retention cleanup with a fixed cutoff.
func TestDeleteInteractionsBefore(t *testing.T) {
	store := newTestStore(t)

	cutoff := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	store.AppendInteraction(testInteraction("alice", InteractionAppOpen, cutoff.Add(-48*time.Hour)))
	store.AppendInteraction(testInteraction("alice", InteractionAppOpen, cutoff.Add(-24*time.Hour)))
	store.AppendInteraction(testInteraction("alice", InteractionAppOpen, cutoff.Add(time.Hour)))

	deleted, err := store.DeleteInteractionsBefore(cutoff)
	if err != nil {
		t.Fatalf("DeleteInteractionsBefore failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("Expected 2 deleted, got %d", deleted)
	}

	left, err := store.GetInteractionsByUser("alice", 10)
	if err != nil {
		t.Fatalf("GetInteractionsByUser failed: %v", err)
	}
	if len(left) != 1 {
		t.Errorf("Expected 1 interaction left, got %d", len(left))
	}
}

// TestPatternReplace verifies wholesale pattern replacement per user.
func TestPatternReplace(t *testing.T) {
	store := newTestStore(t)

	// Absent pattern reads as nil, not an error.
	p, err := store.GetPattern("alice")
	if err != nil {
		t.Fatalf("GetPattern failed: %v", err)
	}
	if p != nil {
		t.Fatal("Expected nil pattern for unknown user")
	}

	first := UserPattern{
		UserID:         "alice",
		MostUsedApps:   []AppUsage{{AppID: "terminal", Count: 5, AvgDuration: 120}},
		PreferredTimes: map[string]int{"morning": 5},
		ErrorPatterns:  map[string]int{"disk full": 2},
		UpdatedAt:      time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	}
	if err := store.SavePattern(first); err != nil {
		t.Fatalf("SavePattern failed: %v", err)
	}

	second := UserPattern{
		UserID:         "alice",
		MostUsedApps:   []AppUsage{{AppID: "editor", Count: 9}},
		PreferredTimes: map[string]int{"evening": 9},
		UpdatedAt:      time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC),
	}
	if err := store.SavePattern(second); err != nil {
		t.Fatalf("SavePattern (replace) failed: %v", err)
	}

	got, err := store.GetPattern("alice")
	if err != nil {
		t.Fatalf("GetPattern failed: %v", err)
	}
	if got == nil {
		t.Fatal("Expected pattern, got nil")
	}
	if len(got.MostUsedApps) != 1 || got.MostUsedApps[0].AppID != "editor" {
		t.Errorf("Expected replaced pattern with editor, got %+v", got.MostUsedApps)
	}
	if len(got.ErrorPatterns) != 0 {
		t.Errorf("Expected old error patterns gone after replace, got %v", got.ErrorPatterns)
	}
}

// TestInsightsAppendAndAcknowledge verifies the insight log and the single
// permitted mutation.
func TestInsightsAppendAndAcknowledge(t *testing.T) {
	store := newTestStore(t)

	created := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	ins := LearningInsight{
		ID:          "ins-1",
		UserID:      "alice",
		Kind:        InsightSuggestion,
		Title:       "Pin terminal for quick access",
		Description: "You opened terminal 5 times recently.",
		Confidence:  0.9,
		Actionable:  true,
		Action:      map[string]string{"type": "pin_app", "app_id": "terminal"},
		CreatedAt:   created,
	}
	if err := store.AppendInsight(ins); err != nil {
		t.Fatalf("AppendInsight failed: %v", err)
	}

	got, err := store.GetInsights("alice", 10)
	if err != nil {
		t.Fatalf("GetInsights failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Expected 1 insight, got %d", len(got))
	}
	if got[0].AcknowledgedAt != nil {
		t.Error("Expected unacknowledged insight")
	}
	if got[0].Action["app_id"] != "terminal" {
		t.Errorf("Expected action app_id 'terminal', got %q", got[0].Action["app_id"])
	}

	at := created.Add(time.Hour)
	if err := store.AcknowledgeInsight("ins-1", at); err != nil {
		t.Fatalf("AcknowledgeInsight failed: %v", err)
	}

	got, _ = store.GetInsights("alice", 10)
	if got[0].AcknowledgedAt == nil {
		t.Fatal("Expected acknowledged insight")
	}

	// Unknown id is an error.
	if err := store.AcknowledgeInsight("missing", at); err == nil {
		t.Error("Expected error acknowledging unknown insight")
	}
}

// TestModelStateSingleton verifies the single global model record.
func TestModelStateSingleton(t *testing.T) {
	store := newTestStore(t)

	state, err := store.GetModelState()
	if err != nil {
		t.Fatalf("GetModelState failed: %v", err)
	}
	if state != nil {
		t.Fatal("Expected nil model state before first save")
	}

	ms := ModelState{
		Version:              1,
		LastTrained:          time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		Accuracy:             0.8,
		InteractionsAnalyzed: 42,
		Features:             map[string]bool{"app_usage": true},
	}
	if err := store.SaveModelState(ms); err != nil {
		t.Fatalf("SaveModelState failed: %v", err)
	}

	ms.Version = 2
	ms.InteractionsAnalyzed = 84
	if err := store.SaveModelState(ms); err != nil {
		t.Fatalf("SaveModelState (replace) failed: %v", err)
	}

	got, err := store.GetModelState()
	if err != nil {
		t.Fatalf("GetModelState failed: %v", err)
	}
	if got == nil || got.Version != 2 || got.InteractionsAnalyzed != 84 {
		t.Errorf("Expected replaced state v2/84, got %+v", got)
	}
}

// TestMetricsSingleton verifies the single current metrics record.
func TestMetricsSingleton(t *testing.T) {
	store := newTestStore(t)

	m := LearningMetrics{
		TotalInteractions: 10,
		UniqueUsers:       2,
		TopApps:           []string{"terminal", "editor"},
		SuccessRate:       0.5,
		UpdatedAt:         time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	}
	if err := store.SaveMetrics(m); err != nil {
		t.Fatalf("SaveMetrics failed: %v", err)
	}

	got, err := store.GetMetrics()
	if err != nil {
		t.Fatalf("GetMetrics failed: %v", err)
	}
	if got == nil {
		t.Fatal("Expected metrics, got nil")
	}
	if got.TotalInteractions != 10 || len(got.TopApps) != 2 {
		t.Errorf("Expected saved metrics back, got %+v", got)
	}
}
