package autopilot

import "time"

// Gate thresholds. Like the scoring coefficients these are carried-over
// heuristics, kept in one place.
const (
	lowConfidenceThreshold  = 0.7
	highConfidenceThreshold = 0.85
	autonomousThreshold     = 0.8
	highRiskFloor           = 0.6
	assistedThreshold       = 0.9

	// windowLoadThreshold is the active-window count above which the
	// system counts as loaded.
	windowLoadThreshold = 5
)

// Risk and benefit labels surfaced in decisions.
const (
	RiskComplexOperations = "contains complex operations"
	RiskLowConfidence     = "low task confidence"
	RiskHighSystemLoad    = "high system load"

	BenefitSimilarSuccess = "similar tasks succeeded before"
	BenefitHighConfidence = "high task confidence"
)

// Decide maps a task's confidence/risk profile to a verdict under the
// current settings. Produced once per task, before execution.
func Decide(task Task, registry *Registry, settings Settings, activeWindows int) Decision {
	risks := []string{}
	benefits := []string{}

	var estimated time.Duration
	hasComplex := false
	for _, step := range task.Steps {
		c, ok := registry.Get(step.Capability)
		if !ok {
			continue
		}
		estimated += c.AvgDuration
		if c.Complexity == ComplexityComplex {
			hasComplex = true
		}
	}

	if hasComplex {
		risks = append(risks, RiskComplexOperations)
	}
	if task.Confidence < lowConfidenceThreshold {
		risks = append(risks, RiskLowConfidence)
	}
	overloaded := activeWindows > windowLoadThreshold
	if overloaded {
		risks = append(risks, RiskHighSystemLoad)
	}

	if len(task.SimilarTasks) > 0 {
		benefits = append(benefits, BenefitSimilarSuccess)
	}
	if task.Confidence > highConfidenceThreshold {
		benefits = append(benefits, BenefitHighConfidence)
	}

	decision := Decision{
		TaskID:            task.ID,
		Confidence:        task.Confidence,
		EstimatedDuration: estimated,
		Risks:             risks,
		Benefits:          benefits,
	}

	noRisks := len(risks) == 0

	switch {
	case settings.Mode == ModeAutonomous && settings.AutoApprove &&
		task.Confidence > autonomousThreshold && noRisks:
		decision.Verdict = VerdictExecute
		decision.Reason = "high confidence with no identified risks"

	case settings.Mode == ModeAutonomous && settings.AutoApprove &&
		task.Confidence > highRiskFloor && settings.RiskTolerance == RiskHigh:
		decision.Verdict = VerdictExecute
		decision.Reason = "acceptable confidence under high risk tolerance"

	case settings.Mode == ModeAssisted && task.Confidence > assistedThreshold && noRisks:
		decision.Verdict = VerdictExecute
		decision.Reason = "very high confidence in assisted mode"

	case overloaded:
		decision.Verdict = VerdictDefer
		decision.Reason = "system is under load, retry later"

	case hasComplex && settings.RiskTolerance == RiskLow:
		decision.Verdict = VerdictReject
		decision.Reason = "complex operations are not allowed at low risk tolerance"

	default:
		decision.Verdict = VerdictAskUser
		decision.Reason = "confirmation required before executing"
	}

	return decision
}
