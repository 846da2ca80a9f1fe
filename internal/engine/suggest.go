package engine

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/khanglvm/autopilot/internal/storage"
	"github.com/khanglvm/autopilot/internal/sysctx"
)

const (
	// suggestionWindow is how many recent global interactions feed the
	// time-conditioned app suggestion.
	suggestionWindow = 50

	// maxSuggestions caps the returned list.
	maxSuggestions = 5

	// defaultEpsilon keeps exploration off so suggestions always come back
	// ranked by relevance; callers opt into exploration by raising Epsilon.
	defaultEpsilon = 0.0
)

// Suggestion is an ephemeral recommendation. Suggestions are recomputed on
// demand and never persisted.
type Suggestion struct {
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	AppID       string  `json:"app_id,omitempty"`
	Relevance   float64 `json:"relevance"`
}

// Suggester produces ranked suggestions from patterns and recent activity.
// When Epsilon is raised above zero, that fraction of calls shuffles the
// ranking so the loop occasionally surfaces something other than the
// statistical favorite.
type Suggester struct {
	store    storage.Store
	provider sysctx.Provider

	// Epsilon is the exploration rate. Zero disables exploration.
	Epsilon float64

	rng *rand.Rand
}

// NewSuggester creates a suggester with exploration disabled.
func NewSuggester(store storage.Store, provider sysctx.Provider, seed int64) *Suggester {
	return &Suggester{
		store:    store,
		provider: provider,
		Epsilon:  defaultEpsilon,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Suggest computes up to five suggestions for a user, ranked by relevance.
func (s *Suggester) Suggest(userID string) ([]Suggestion, error) {
	pattern, err := s.store.GetPattern(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pattern: %w", err)
	}

	recent, err := s.store.GetRecentInteractions(suggestionWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent interactions: %w", err)
	}

	suggestions := []Suggestion{}

	if sg, ok := s.timeBucketAppSuggestion(recent); ok {
		suggestions = append(suggestions, sg)
	}
	if pattern != nil {
		if sg, ok := nextActionPrediction(*pattern, recent); ok {
			suggestions = append(suggestions, sg)
		}
		if len(pattern.ErrorPatterns) > 0 {
			suggestions = append(suggestions, Suggestion{
				Type:        "reduce_errors",
				Title:       "Reduce recurring errors",
				Description: "Recent sessions show repeated errors. Reviewing them could smooth your workflow.",
				Relevance:   0.6,
			})
		}
	}

	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].Relevance != suggestions[j].Relevance {
			return suggestions[i].Relevance > suggestions[j].Relevance
		}
		return suggestions[i].Type < suggestions[j].Type
	})

	// Explore: occasionally shuffle so the list is not always the favorite.
	if s.Epsilon > 0 && s.rng.Float64() < s.Epsilon {
		s.rng.Shuffle(len(suggestions), func(i, j int) {
			suggestions[i], suggestions[j] = suggestions[j], suggestions[i]
		})
	}

	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions, nil
}

// timeBucketAppSuggestion finds the app most opened during the current
// time-of-day bucket across the recent global window.
func (s *Suggester) timeBucketAppSuggestion(recent []storage.Interaction) (Suggestion, bool) {
	bucket := sysctx.TimeOfDayBucket(s.provider.Now())

	opens := map[string]int{}
	total := 0
	for _, in := range recent {
		if in.Type != storage.InteractionAppOpen || in.AppID == "" {
			continue
		}
		if in.Context.TimeOfDay != bucket {
			continue
		}
		opens[in.AppID]++
		total++
	}
	if total == 0 {
		return Suggestion{}, false
	}

	best, bestCount := "", 0
	ids := make([]string, 0, len(opens))
	for id := range opens {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if opens[id] > bestCount {
			best, bestCount = id, opens[id]
		}
	}

	return Suggestion{
		Type:        "open_app",
		Title:       fmt.Sprintf("Open %s", best),
		Description: fmt.Sprintf("You usually open %s around this time of day.", best),
		AppID:       best,
		Relevance:   float64(bestCount) / float64(total),
	}, true
}

// nextActionPrediction matches the latest interaction against the head token
// of a stored sequence and predicts the following action.
func nextActionPrediction(pattern storage.UserPattern, recent []storage.Interaction) (Suggestion, bool) {
	if len(recent) == 0 || len(pattern.CommonSequences) == 0 {
		return Suggestion{}, false
	}

	latest := EventToken(recent[0])
	for _, seq := range pattern.CommonSequences {
		if len(seq.Sequence) < 2 || seq.Sequence[0] != latest {
			continue
		}
		next := seq.Sequence[1]
		return Suggestion{
			Type:        "next_action",
			Title:       fmt.Sprintf("Next: %s", next),
			Description: fmt.Sprintf("After %s you usually do %s (seen %d times).", latest, next, seq.Frequency),
			Relevance:   0.5 + float64(seq.Frequency)/100.0,
		}, true
	}

	return Suggestion{}, false
}
