package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/khanglvm/autopilot/internal/storage"
)

// updateModelState refreshes the single global model record after a pass.
// Accuracy is successes over successes plus errors in the snapshot, zero
// when neither exists.
func (e *Engine) updateModelState(snapshot []storage.Interaction, now time.Time) error {
	state, err := e.store.GetModelState()
	if err != nil {
		return fmt.Errorf("failed to load model state: %w", err)
	}
	if state == nil {
		state = &storage.ModelState{
			Features: map[string]bool{
				"app_usage":    true,
				"sequences":    true,
				"error_mining": true,
				"suggestions":  true,
			},
		}
	}

	successes, errors := 0, 0
	for _, in := range snapshot {
		switch in.Type {
		case storage.InteractionSuccess:
			successes++
		case storage.InteractionError:
			errors++
		}
	}

	accuracy := 0.0
	if successes+errors > 0 {
		accuracy = float64(successes) / float64(successes+errors)
	}

	state.Version++
	state.LastTrained = now
	state.Accuracy = accuracy
	state.InteractionsAnalyzed += len(snapshot)

	if err := e.store.SaveModelState(*state); err != nil {
		return fmt.Errorf("failed to save model state: %w", err)
	}
	return nil
}

// updateMetrics recomputes the deployment-wide metrics record from the
// global recent window and replaces the stored snapshot. The improvement
// rate is the relative change in success rate versus the prior snapshot.
func (e *Engine) updateMetrics(now time.Time) error {
	window, err := e.store.GetRecentInteractions(e.window)
	if err != nil {
		return fmt.Errorf("failed to load global window: %w", err)
	}

	previous, err := e.store.GetMetrics()
	if err != nil {
		return fmt.Errorf("failed to load previous metrics: %w", err)
	}

	metrics := computeMetrics(window, previous, now)

	if err := e.store.SaveMetrics(metrics); err != nil {
		return fmt.Errorf("failed to save metrics: %w", err)
	}
	return nil
}

// computeMetrics derives the current metrics record from a global window.
func computeMetrics(window []storage.Interaction, previous *storage.LearningMetrics, now time.Time) storage.LearningMetrics {
	users := map[string]bool{}
	opens := map[string]int{}
	var sessionSum float64
	successes, errors := 0, 0

	for _, in := range window {
		users[in.UserID] = true
		sessionSum += float64(in.Context.SessionDuration)
		switch in.Type {
		case storage.InteractionAppOpen:
			if in.AppID != "" {
				opens[in.AppID]++
			}
		case storage.InteractionSuccess:
			successes++
		case storage.InteractionError:
			errors++
		}
	}

	total := len(window)
	metrics := storage.LearningMetrics{
		TotalInteractions: total,
		UniqueUsers:       len(users),
		TopApps:           topApps(opens, 5),
		UpdatedAt:         now,
	}
	if total > 0 {
		metrics.AvgSessionDuration = sessionSum / float64(total)
		metrics.ErrorRate = float64(errors) / float64(total)
		metrics.SuccessRate = float64(successes) / float64(total)
	}

	if previous != nil && previous.SuccessRate > 0 {
		metrics.ImprovementRate = (metrics.SuccessRate - previous.SuccessRate) / previous.SuccessRate
	}

	return metrics
}

// topApps ranks app ids by open count, ties broken alphabetically.
func topApps(opens map[string]int, n int) []string {
	ids := make([]string, 0, len(opens))
	for id := range opens {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if opens[ids[i]] != opens[ids[j]] {
			return opens[ids[i]] > opens[ids[j]]
		}
		return ids[i] < ids[j]
	})
	if len(ids) > n {
		ids = ids[:n]
	}
	return ids
}
