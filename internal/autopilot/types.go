/*
Package autopilot plans, risk-scores, gates, executes, and learns from
multi-step tasks.

A free-text request is matched against fixed templates to produce a
capability-backed step sequence. The decision gate maps the task's
confidence/risk profile to execute, ask_user, defer, or reject under the
runtime settings. Execution is a strict state machine: steps run in order,
the first failure aborts the task, and every outcome updates capability
statistics and feeds a new analysis pass.
*/
package autopilot

import "time"

// TaskStatus enumerates the task state machine.
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskExecuting TaskStatus = "executing"
	TaskCompleted TaskStatus = "completed"
	TaskFailed    TaskStatus = "failed"
)

// StepStatus enumerates the step state machine.
type StepStatus string

const (
	StepPending   StepStatus = "pending"
	StepExecuting StepStatus = "executing"
	StepCompleted StepStatus = "completed"
	StepFailed    StepStatus = "failed"
)

// Step is one capability invocation inside a task.
type Step struct {
	ID         string            `json:"id"`
	Capability string            `json:"capability"`
	Params     map[string]string `json:"params"`
	Status     StepStatus        `json:"status"`
	Result     string            `json:"result,omitempty"`
	Error      string            `json:"error,omitempty"`
	Duration   time.Duration     `json:"duration"`
	Confidence float64           `json:"confidence"`
}

// Task is a planned, ordered sequence of capability invocations.
type Task struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	Priority    int        `json:"priority"`
	Steps       []Step     `json:"steps"`
	CurrentStep int        `json:"current_step"`

	// Confidence is the task-level score, always within [0, 0.95].
	Confidence float64 `json:"confidence"`

	// SimilarTasks lists ids of prior successful tasks with similar
	// descriptions.
	SimilarTasks []string `json:"similar_tasks,omitempty"`

	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Verdict enumerates the gate outcomes.
type Verdict string

const (
	VerdictExecute Verdict = "execute"
	VerdictAskUser Verdict = "ask_user"
	VerdictDefer   Verdict = "defer"
	VerdictReject  Verdict = "reject"
)

// Decision is the gate's judgment for a task, produced once before
// execution and not persisted as an entity of its own.
type Decision struct {
	TaskID            string        `json:"task_id"`
	Verdict           Verdict       `json:"verdict"`
	Reason            string        `json:"reason"`
	Confidence        float64       `json:"confidence"`
	EstimatedDuration time.Duration `json:"estimated_duration"`
	Risks             []string      `json:"risks,omitempty"`
	Benefits          []string      `json:"benefits,omitempty"`
}

// LearningRecord summarizes one concluded task for the feedback loop.
type LearningRecord struct {
	TaskID         string        `json:"task_id"`
	Success        bool          `json:"success"`
	Duration       time.Duration `json:"duration"`
	StepsCompleted int           `json:"steps_completed"`
	Improvement    string        `json:"improvement,omitempty"`

	// Pattern is the executed capability sequence, discovered as a
	// candidate behavior pattern.
	Pattern []string `json:"pattern,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// Mode selects how much autonomy the gate grants.
type Mode string

const (
	ModeAssisted   Mode = "assisted"
	ModeAutonomous Mode = "autonomous"
)

// RiskTolerance adjusts the gate's thresholds.
type RiskTolerance string

const (
	RiskLow    RiskTolerance = "low"
	RiskMedium RiskTolerance = "medium"
	RiskHigh   RiskTolerance = "high"
)

// Settings are the runtime-mutable autopilot options. They affect only the
// gate and the feedback step, never planning.
type Settings struct {
	Mode               Mode          `json:"mode"`
	AutoApprove        bool          `json:"auto_approve"`
	MaxConcurrentTasks int           `json:"max_concurrent_tasks"`
	LearningEnabled    bool          `json:"learning_enabled"`
	RiskTolerance      RiskTolerance `json:"risk_tolerance"`
	NotifyOnCompletion bool          `json:"notify_on_completion"`
}

// DefaultSettings returns the conservative out-of-the-box configuration.
func DefaultSettings() Settings {
	return Settings{
		Mode:               ModeAssisted,
		AutoApprove:        false,
		MaxConcurrentTasks: 3,
		LearningEnabled:    true,
		RiskTolerance:      RiskMedium,
		NotifyOnCompletion: true,
	}
}
