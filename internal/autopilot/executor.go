package autopilot

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/khanglvm/autopilot/internal/engine"
	"github.com/khanglvm/autopilot/internal/recorder"
	"github.com/khanglvm/autopilot/internal/sysctx"
)

// StepError is the typed failure raised when a step aborts its task.
type StepError struct {
	TaskID     string
	StepID     string
	Capability string
	Err        error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %s (%s) failed: %v", e.StepID, e.Capability, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Autopilot owns the plan/gate/execute/learn loop. The store and recorder
// are passed in at construction; there is no process-wide instance.
type Autopilot struct {
	registry *Registry
	handlers *HandlerRegistry
	planner  *TemplatePlanner
	scoring  ScoringConfig
	similar  *SimilarityIndex
	recorder *recorder.Recorder
	engine   *engine.Engine
	provider sysctx.Provider
	history  *History

	mu       sync.RWMutex
	settings Settings
	tasks    map[string]*Task
}

// Option adjusts an autopilot at construction time.
type Option func(*Autopilot)

// WithPlannerConfig overrides the tunable planning constants.
func WithPlannerConfig(cfg PlannerConfig) Option {
	return func(a *Autopilot) { a.planner = NewTemplatePlanner(cfg) }
}

// WithHistoryCapacity overrides the learning history capacity.
func WithHistoryCapacity(n int) Option {
	return func(a *Autopilot) { a.history = NewHistory(n) }
}

// New wires an autopilot from its collaborators. Handlers are injected so
// tests can substitute deterministic doubles for real executors.
func New(rec *recorder.Recorder, eng *engine.Engine, provider sysctx.Provider, handlers *HandlerRegistry, settings Settings, opts ...Option) (*Autopilot, error) {
	similar, err := NewSimilarityIndex()
	if err != nil {
		return nil, err
	}

	a := &Autopilot{
		registry: NewRegistry(),
		handlers: handlers,
		planner:  NewTemplatePlanner(DefaultPlannerConfig()),
		scoring:  DefaultScoringConfig(),
		similar:  similar,
		recorder: rec,
		engine:   eng,
		provider: provider,
		history:  NewHistory(defaultHistoryCapacity),
		settings: settings,
		tasks:    map[string]*Task{},
	}

	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Registry exposes the capability catalog and statistics.
func (a *Autopilot) Registry() *Registry { return a.registry }

// History exposes the in-memory learning history.
func (a *Autopilot) History() *History { return a.history }

// Settings returns a copy of the current runtime settings.
func (a *Autopilot) Settings() Settings {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.settings
}

// UpdateSettings replaces the runtime settings. Settings affect only the
// gate and feedback, never planning.
func (a *Autopilot) UpdateSettings(s Settings) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.settings = s
}

// Task returns a retained task by id.
func (a *Autopilot) Task(id string) (*Task, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	t, ok := a.tasks[id]
	return t, ok
}

// PlanTask plans and gates a task without executing it.
func (a *Autopilot) PlanTask(description string) (*Task, Decision, error) {
	similar, err := a.similar.FindSimilar(description, 10)
	if err != nil {
		// Similarity lookup is an optimization, never a planning failure.
		log.Printf("Warning: similarity lookup failed: %v", err)
		similar = nil
	}

	task := a.planner.NewTask(description, similar, a.provider.Now())
	task.Confidence = ScoreTask(task, a.registry, a.scoring)

	decision := Decide(task, a.registry, a.Settings(), a.provider.ActiveWindowCount())

	a.mu.Lock()
	a.tasks[task.ID] = &task
	a.mu.Unlock()

	return &task, decision, nil
}

// Run plans a task for the request and executes it when the gate allows.
// The task and decision are returned either way; the caller handles
// ask_user/defer/reject verdicts.
func (a *Autopilot) Run(ctx context.Context, userID, description string) (*Task, Decision, error) {
	task, decision, err := a.PlanTask(description)
	if err != nil {
		return nil, Decision{}, err
	}

	if decision.Verdict != VerdictExecute {
		return task, decision, nil
	}

	err = a.ExecuteTask(ctx, userID, task)
	return task, decision, err
}

// ExecuteTask runs the task's steps strictly in order. A step failure
// aborts remaining steps and fails the task. Capability statistics update
// after every step regardless of outcome. No admission control happens
// here; MaxConcurrentTasks is advisory for the caller.
func (a *Autopilot) ExecuteTask(ctx context.Context, userID string, task *Task) error {
	if task.Status != TaskPending {
		return fmt.Errorf("task %s is %s, not pending", task.ID, task.Status)
	}

	task.Status = TaskExecuting
	start := time.Now()
	var stepErr *StepError

	for i := range task.Steps {
		task.CurrentStep = i
		step := &task.Steps[i]
		step.Status = StepExecuting

		result, err := a.invoke(ctx, step)
		a.registry.RecordOutcome(step.Capability, err == nil, step.Duration, a.provider.Now())

		if err != nil {
			step.Status = StepFailed
			step.Error = err.Error()
			stepErr = &StepError{TaskID: task.ID, StepID: step.ID, Capability: step.Capability, Err: err}
			break
		}

		step.Status = StepCompleted
		step.Result = result
	}

	total := time.Since(start)

	if stepErr != nil {
		task.Status = TaskFailed
		task.Error = stepErr.Err.Error()
	} else {
		task.Status = TaskCompleted
	}

	a.feedback(userID, task, total, stepErr)

	if stepErr != nil {
		return stepErr
	}
	return nil
}

// invoke runs one step's handler with timing.
func (a *Autopilot) invoke(ctx context.Context, step *Step) (string, error) {
	handler, ok := a.handlers.Get(step.Capability)
	if !ok {
		return "", fmt.Errorf("no handler registered for capability %q", step.Capability)
	}

	begin := time.Now()
	result, err := handler(ctx, step.Params)
	step.Duration = time.Since(begin)
	return result, err
}

// feedback closes the loop after a task concludes: it records the outcome
// interaction, appends a learning record, indexes successful descriptions
// for future similarity lookups, and triggers a new analysis pass.
func (a *Autopilot) feedback(userID string, task *Task, total time.Duration, stepErr *StepError) {
	completed := 0
	pattern := []string{}
	for _, step := range task.Steps {
		if step.Status == StepCompleted {
			completed++
		}
		if step.Status == StepCompleted || step.Status == StepFailed {
			pattern = append(pattern, step.Capability)
		}
	}

	rec := LearningRecord{
		TaskID:         task.ID,
		Success:        task.Status == TaskCompleted,
		Duration:       total,
		StepsCompleted: completed,
		Pattern:        pattern,
		Timestamp:      a.provider.Now(),
	}
	if stepErr != nil {
		rec.Improvement = fmt.Sprintf("capability %s needs attention", stepErr.Capability)
	}
	a.history.Append(rec)

	if a.recorder != nil {
		if task.Status == TaskCompleted {
			a.recorder.TrackSuccess(userID, "task:"+task.Description)
		} else {
			a.recorder.TrackError(userID, task.Error)
		}
	}

	if task.Status == TaskCompleted {
		if err := a.similar.Add(task.ID, task.Description); err != nil {
			log.Printf("Warning: failed to index task description: %v", err)
		}
	}

	settings := a.Settings()
	if settings.LearningEnabled && a.engine != nil {
		if _, err := a.engine.Analyze(userID); err != nil {
			log.Printf("Warning: post-task analysis failed: %v", err)
		}
	}

	if settings.NotifyOnCompletion {
		log.Printf("Task %s %s in %v (%d/%d steps)", task.ID, task.Status, total, completed, len(task.Steps))
	}
}

// Close releases the similarity index.
func (a *Autopilot) Close() error {
	return a.similar.Close()
}
