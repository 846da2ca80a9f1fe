package autopilot

// ScoringConfig carries the confidence formula's weighted-sum coefficients.
// The values are heuristic constants carried over from the source system,
// exposed as configurable defaults pending empirical tuning.
type ScoringConfig struct {
	// Base is the formula's constant term.
	Base float64

	// StepWeight scales the average step confidence.
	StepWeight float64

	// SimilarWeight scales the similar-task count, per task.
	SimilarWeight float64

	// SimilarCap bounds the similar-task contribution.
	SimilarCap float64

	// CapabilityWeight scales the average capability success rate.
	CapabilityWeight float64

	// Max caps the final score.
	Max float64
}

// DefaultScoringConfig returns the source-derived coefficients.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		Base:             0.5,
		StepWeight:       0.3,
		SimilarWeight:    0.05,
		SimilarCap:       0.2,
		CapabilityWeight: 0.2,
		Max:              0.95,
	}
}

// ScoreTask computes task confidence:
//
//	base + stepWeight*avg(step confidence)
//	     + min(similarCap, similarWeight*|similar tasks|)
//	     + capabilityWeight*avg(capability success rate)
//
// capped at Max. A task with no steps scores zero.
func ScoreTask(task Task, registry *Registry, cfg ScoringConfig) float64 {
	if len(task.Steps) == 0 {
		return 0
	}

	var stepSum, capSum float64
	for _, step := range task.Steps {
		stepSum += step.Confidence
		if c, ok := registry.Get(step.Capability); ok {
			capSum += c.SuccessRate
		}
	}
	n := float64(len(task.Steps))

	similar := cfg.SimilarWeight * float64(len(task.SimilarTasks))
	if similar > cfg.SimilarCap {
		similar = cfg.SimilarCap
	}

	score := cfg.Base + cfg.StepWeight*(stepSum/n) + similar + cfg.CapabilityWeight*(capSum/n)
	if score > cfg.Max {
		score = cfg.Max
	}
	if score < 0 {
		score = 0
	}
	return score
}
