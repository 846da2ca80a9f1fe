package autopilot

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PlannerConfig carries the tunable planning constants. The similarity
// boost is uniform per matching history, a tunable heuristic rather than a
// similarity-weighted one.
type PlannerConfig struct {
	// SimilarityBoost is added to every step's confidence when similar
	// past successful tasks exist.
	SimilarityBoost float64

	// FallbackConfidence is the base confidence of the generic query step.
	FallbackConfidence float64

	// MaxConfidence caps every step and task confidence.
	MaxConfidence float64
}

// DefaultPlannerConfig returns the source-derived constants.
func DefaultPlannerConfig() PlannerConfig {
	return PlannerConfig{
		SimilarityBoost:    0.1,
		FallbackConfidence: 0.7,
		MaxConfidence:      0.95,
	}
}

// Strategy converts a free-text request into planned steps. The template
// planner is the default; a stronger parser can replace it without touching
// the decision gate or the executor.
type Strategy interface {
	PlanSteps(description string) []Step
}

// template binds a request pattern to a capability and base confidence.
type template struct {
	pattern    *regexp.Regexp
	capability string
	confidence float64
	params     func(match []string) map[string]string
}

// TemplatePlanner matches requests against an ordered set of fixed
// templates. Planning never fails: an unmatched request degrades to a
// single generic query step.
type TemplatePlanner struct {
	config    PlannerConfig
	templates []template
}

// NewTemplatePlanner creates the planner with the fixed template set.
func NewTemplatePlanner(config PlannerConfig) *TemplatePlanner {
	return &TemplatePlanner{
		config: config,
		templates: []template{
			{
				pattern:    regexp.MustCompile(`(?i)^open\s+(.+)$`),
				capability: "open_app",
				confidence: 0.9,
				params: func(m []string) map[string]string {
					return map[string]string{"app_id": strings.ToLower(strings.TrimSpace(m[1]))}
				},
			},
			{
				pattern:    regexp.MustCompile(`(?i)^create\s+file\s+(.+)$`),
				capability: "create_file",
				confidence: 0.85,
				params: func(m []string) map[string]string {
					return map[string]string{"path": strings.TrimSpace(m[1])}
				},
			},
			{
				pattern:    regexp.MustCompile(`(?i)^write\s+"(.+)"\s+to\s+(.+)$`),
				capability: "write_file",
				confidence: 0.85,
				params: func(m []string) map[string]string {
					return map[string]string{"content": m[1], "path": strings.TrimSpace(m[2])}
				},
			},
			{
				pattern:    regexp.MustCompile(`(?i)^(?:ask|query)\s+(.+)$`),
				capability: "ai_query",
				confidence: 0.88,
				params: func(m []string) map[string]string {
					return map[string]string{"query": strings.TrimSpace(m[1])}
				},
			},
		},
	}
}

// PlanSteps matches the description against the templates in order. The
// first match wins; no match produces the generic fallback step.
func (p *TemplatePlanner) PlanSteps(description string) []Step {
	text := strings.TrimSpace(description)

	for _, t := range p.templates {
		m := t.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		return []Step{{
			ID:         uuid.NewString(),
			Capability: t.capability,
			Params:     t.params(m),
			Status:     StepPending,
			Confidence: t.confidence,
		}}
	}

	return []Step{{
		ID:         uuid.NewString(),
		Capability: "ai_query",
		Params:     map[string]string{"query": text},
		Status:     StepPending,
		Confidence: p.config.FallbackConfidence,
	}}
}

// NewTask plans a task for a request. similar lists prior successful task
// ids with similar descriptions; when present, every step's confidence gets
// the uniform boost, capped.
func (p *TemplatePlanner) NewTask(description string, similar []string, now time.Time) Task {
	steps := p.PlanSteps(description)

	if len(similar) > 0 {
		for i := range steps {
			steps[i].Confidence += p.config.SimilarityBoost
			if steps[i].Confidence > p.config.MaxConfidence {
				steps[i].Confidence = p.config.MaxConfidence
			}
		}
	}

	return Task{
		ID:           uuid.NewString(),
		Description:  description,
		Status:       TaskPending,
		Steps:        steps,
		SimilarTasks: similar,
		CreatedAt:    now,
	}
}
