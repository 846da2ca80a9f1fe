package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/khanglvm/autopilot/internal/storage"
)

// Fixed confidences for the deterministic insight rules.
const (
	pinSuggestionConfidence  = 0.9
	timePredictionConfidence = 0.85
	errorWarningConfidence   = 0.95
	windowAdviceConfidence   = 0.8

	// windowMoveThreshold is the move count above which the layout
	// optimization note fires.
	windowMoveThreshold = 10
)

// GenerateInsights evaluates the deterministic insight rules against a
// freshly computed pattern. Rules are evaluated on every pass; insights are
// appended, never merged.
func GenerateInsights(pattern storage.UserPattern, snapshot []storage.Interaction, now time.Time) []storage.LearningInsight {
	insights := []storage.LearningInsight{}

	newInsight := func(kind storage.InsightKind, title, desc string, confidence float64, actionable bool, action map[string]string) storage.LearningInsight {
		return storage.LearningInsight{
			ID:          uuid.NewString(),
			UserID:      pattern.UserID,
			Kind:        kind,
			Title:       title,
			Description: desc,
			Confidence:  confidence,
			Actionable:  actionable,
			Action:      action,
			CreatedAt:   now,
		}
	}

	if len(pattern.MostUsedApps) > 0 {
		top := pattern.MostUsedApps[0]
		insights = append(insights, newInsight(
			storage.InsightSuggestion,
			fmt.Sprintf("Pin %s for quick access", top.AppID),
			fmt.Sprintf("You opened %s %d times recently. Pinning it would save you a few clicks.", top.AppID, top.Count),
			pinSuggestionConfidence,
			true,
			map[string]string{"type": "pin_app", "app_id": top.AppID},
		))
	}

	if bucket, ok := dominantBucket(pattern.PreferredTimes); ok {
		insights = append(insights, newInsight(
			storage.InsightPrediction,
			fmt.Sprintf("Most active in the %s", bucket),
			fmt.Sprintf("Your activity concentrates in the %s. Expect suggestions to lean on that window.", bucket),
			timePredictionConfidence,
			false,
			nil,
		))
	}

	if topErr, freq, ok := topHistogramEntry(pattern.ErrorPatterns); ok {
		insights = append(insights, newInsight(
			storage.InsightWarning,
			"Recurring error detected",
			fmt.Sprintf("The error %q occurred %d times. Addressing it would improve reliability.", topErr, freq),
			errorWarningConfidence,
			true,
			map[string]string{"type": "investigate_error", "error": topErr},
		))
	}

	moves := 0
	for _, in := range snapshot {
		if in.Type == storage.InteractionWindowMove {
			moves++
		}
	}
	if moves > windowMoveThreshold {
		insights = append(insights, newInsight(
			storage.InsightOptimization,
			"Window layout could be saved",
			fmt.Sprintf("You rearranged windows %d times recently. A saved layout would cut that down.", moves),
			windowAdviceConfidence,
			false,
			nil,
		))
	}

	return insights
}

// dominantBucket returns the time bucket with the highest count.
func dominantBucket(hist map[string]int) (string, bool) {
	best, bestCount := "", 0
	keys := make([]string, 0, len(hist))
	for k := range hist {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if hist[k] > bestCount {
			best, bestCount = k, hist[k]
		}
	}
	return best, bestCount > 0
}

// topHistogramEntry returns the highest-frequency entry of a histogram.
func topHistogramEntry(hist map[string]int) (string, int, bool) {
	best, bestCount := "", 0
	keys := make([]string, 0, len(hist))
	for k := range hist {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if hist[k] > bestCount {
			best, bestCount = k, hist[k]
		}
	}
	return best, bestCount, bestCount > 0
}
