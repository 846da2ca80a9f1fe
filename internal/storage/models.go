/*
Package storage provides data models for the interaction and learning system.

These models represent recorded interactions, per-user behavior patterns,
generated insights, and the global model/metrics records consumed by the
pattern engine and the autopilot.
*/
package storage

import "time"

// InteractionType enumerates the recordable event kinds.
type InteractionType string

const (
	InteractionAppOpen      InteractionType = "app-open"
	InteractionAppClose     InteractionType = "app-close"
	InteractionWindowMove   InteractionType = "window-move"
	InteractionWindowResize InteractionType = "window-resize"
	InteractionAIQuery      InteractionType = "ai-query"
	InteractionCommand      InteractionType = "command-execute"
	InteractionError        InteractionType = "error"
	InteractionSuccess      InteractionType = "success"
)

// InteractionContext is the environmental snapshot captured with each event.
type InteractionContext struct {
	// TimeOfDay is the bucket the event fell into (morning/afternoon/evening/night).
	TimeOfDay string `json:"time_of_day"`

	// DayOfWeek is the weekday name at capture time.
	DayOfWeek string `json:"day_of_week"`

	// SessionDuration is how long the session had been running, in seconds.
	SessionDuration int64 `json:"session_duration"`

	// DeviceClass describes the host device (desktop/laptop/tablet).
	DeviceClass string `json:"device_class"`

	// ScreenSize is the primary screen resolution, e.g. "1920x1080".
	ScreenSize string `json:"screen_size"`

	// PreviousAction is the label of the action recorded immediately before.
	PreviousAction string `json:"previous_action"`
}

// Interaction represents a single recorded user/system event.
// Interactions are append-only and immutable once written.
type Interaction struct {
	// ID is a UUID assigned at capture time.
	ID string `json:"id"`

	// UserID identifies the user the event belongs to.
	UserID string `json:"user_id"`

	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	// Type is the event kind.
	Type InteractionType `json:"type"`

	// AppID is the application involved, if any.
	AppID string `json:"app_id,omitempty"`

	// Data carries free-form event details (truncated before storage).
	Data map[string]string `json:"data,omitempty"`

	// Context is the environmental snapshot at capture time.
	Context InteractionContext `json:"context"`
}

// AppUsage aggregates open count and duration for a single app.
type AppUsage struct {
	AppID       string  `json:"app_id"`
	Count       int     `json:"count"`
	AvgDuration float64 `json:"avg_duration"`
}

// SequencePattern is a recurring run of three consecutive events.
type SequencePattern struct {
	// Sequence is the ordered "type:appId" tokens of the window.
	Sequence []string `json:"sequence"`

	// Frequency is how many times the window occurred.
	Frequency int `json:"frequency"`
}

// WindowPref is the last known window geometry for an app.
type WindowPref struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// UserPattern is the per-user aggregate produced by an analysis pass.
// It is replaced wholesale on every pass, never merged.
type UserPattern struct {
	UserID string `json:"user_id"`

	// MostUsedApps are the top apps by open count, descending.
	MostUsedApps []AppUsage `json:"most_used_apps"`

	// PreferredTimes is a histogram over time-of-day buckets.
	PreferredTimes map[string]int `json:"preferred_times"`

	// CommonSequences are recurring 3-event runs, most frequent first.
	CommonSequences []SequencePattern `json:"common_sequences"`

	// ErrorPatterns maps error strings to occurrence counts.
	ErrorPatterns map[string]int `json:"error_patterns"`

	// SuccessPatterns maps action labels to occurrence counts.
	SuccessPatterns map[string]int `json:"success_patterns"`

	// WindowPrefs is the latest known geometry per app.
	WindowPrefs map[string]WindowPref `json:"window_prefs"`

	// UpdatedAt is when the pattern was computed.
	UpdatedAt time.Time `json:"updated_at"`
}

// InsightKind enumerates the generated insight categories.
type InsightKind string

const (
	InsightSuggestion   InsightKind = "suggestion"
	InsightOptimization InsightKind = "optimization"
	InsightPrediction   InsightKind = "prediction"
	InsightWarning      InsightKind = "warning"
)

// LearningInsight is a generated behavioral observation.
// Insights are append-only; only acknowledgment mutates them.
type LearningInsight struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"`
	Kind        InsightKind `json:"kind"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Confidence  float64     `json:"confidence"`
	Actionable  bool        `json:"actionable"`

	// Action is an optional machine-readable payload for actionable insights.
	Action map[string]string `json:"action,omitempty"`

	CreatedAt      time.Time  `json:"created_at"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
}

// ModelState is the single global record describing the learned model.
type ModelState struct {
	Version              int             `json:"version"`
	LastTrained          time.Time       `json:"last_trained"`
	Accuracy             float64         `json:"accuracy"`
	InteractionsAnalyzed int             `json:"interactions_analyzed"`
	Features             map[string]bool `json:"features"`
}

// LearningMetrics is the single "current" metrics record per deployment.
type LearningMetrics struct {
	TotalInteractions  int      `json:"total_interactions"`
	UniqueUsers        int      `json:"unique_users"`
	AvgSessionDuration float64  `json:"avg_session_duration"`
	TopApps            []string `json:"top_apps"`
	ErrorRate          float64  `json:"error_rate"`
	SuccessRate        float64  `json:"success_rate"`

	// ImprovementRate is the relative change in success rate versus the
	// previously stored snapshot.
	ImprovementRate float64 `json:"improvement_rate"`

	UpdatedAt time.Time `json:"updated_at"`
}
