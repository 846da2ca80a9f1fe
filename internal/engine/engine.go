/*
Package engine converts a bounded window of recorded interactions into
per-user behavior patterns, generated insights, and updated model state and
deployment metrics.

An analysis pass is single-threaded and run-to-completion over its snapshot.
It is idempotent: rerunning it on an unchanged snapshot reproduces the same
pattern. Store failures propagate to the caller — silent partial learning is
treated as worse than a visible retry.
*/
package engine

import (
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/khanglvm/autopilot/internal/storage"
	"github.com/khanglvm/autopilot/internal/sysctx"
)

const (
	// defaultWindowSize is how many recent interactions a pass considers.
	defaultWindowSize = 1000

	// sequenceLength is the sliding-window size for sequence mining.
	sequenceLength = 3

	// minSequenceFrequency is the cutoff below which sequences are discarded.
	minSequenceFrequency = 2

	// maxTopApps is how many apps a pattern retains.
	maxTopApps = 10

	// maxSequences is how many sequences a pattern retains.
	maxSequences = 10
)

// Engine runs analysis passes against the persistent store.
type Engine struct {
	store    storage.Store
	provider sysctx.Provider
	window   int

	// group coalesces concurrent passes for the same user; a burst of task
	// completions triggers one pass, not one per completion.
	group singleflight.Group
}

// New creates an engine reading and writing through the given store.
func New(store storage.Store, provider sysctx.Provider) *Engine {
	return &Engine{
		store:    store,
		provider: provider,
		window:   defaultWindowSize,
	}
}

// SetWindowSize overrides the analysis window (for tests and tuning).
func (e *Engine) SetWindowSize(n int) {
	if n > 0 {
		e.window = n
	}
}

// Result carries the output of one analysis pass.
type Result struct {
	Pattern  storage.UserPattern
	Insights []storage.LearningInsight
}

// Analyze runs one analysis pass for a user: it replaces the stored pattern,
// appends newly generated insights, and refreshes model state and metrics.
// Concurrent calls for the same user share a single pass.
func (e *Engine) Analyze(userID string) (*Result, error) {
	v, err, _ := e.group.Do(userID, func() (interface{}, error) {
		return e.analyze(userID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Result), nil
}

func (e *Engine) analyze(userID string) (*Result, error) {
	recent, err := e.store.GetInteractionsByUser(userID, e.window)
	if err != nil {
		return nil, fmt.Errorf("failed to load interaction window: %w", err)
	}

	// The store returns newest first; mining needs chronological order.
	snapshot := make([]storage.Interaction, len(recent))
	for i, in := range recent {
		snapshot[len(recent)-1-i] = in
	}

	now := e.provider.Now()
	pattern := BuildPattern(userID, snapshot, now)

	if err := e.store.SavePattern(pattern); err != nil {
		return nil, fmt.Errorf("failed to save pattern: %w", err)
	}

	insights := GenerateInsights(pattern, snapshot, now)
	for _, ins := range insights {
		if err := e.store.AppendInsight(ins); err != nil {
			return nil, fmt.Errorf("failed to save insight: %w", err)
		}
	}

	if err := e.updateModelState(snapshot, now); err != nil {
		return nil, err
	}
	if err := e.updateMetrics(now); err != nil {
		return nil, err
	}

	return &Result{Pattern: pattern, Insights: insights}, nil
}
