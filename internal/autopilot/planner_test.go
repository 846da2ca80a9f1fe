package autopilot

import (
	"testing"
	"time"
)

func TestPlanSteps_Templates(t *testing.T) {
	planner := NewTemplatePlanner(DefaultPlannerConfig())

	tests := []struct {
		name           string
		request        string
		wantCapability string
		wantConfidence float64
		wantParams     map[string]string
	}{
		{
			name:           "open app",
			request:        "open Terminal",
			wantCapability: "open_app",
			wantConfidence: 0.9,
			wantParams:     map[string]string{"app_id": "terminal"},
		},
		{
			name:           "create file",
			request:        "create file notes.txt",
			wantCapability: "create_file",
			wantConfidence: 0.85,
			wantParams:     map[string]string{"path": "notes.txt"},
		},
		{
			name:           "write file",
			request:        `write "hello world" to notes.txt`,
			wantCapability: "write_file",
			wantConfidence: 0.85,
			wantParams:     map[string]string{"content": "hello world", "path": "notes.txt"},
		},
		{
			name:           "ask query",
			request:        "ask what is the weather",
			wantCapability: "ai_query",
			wantConfidence: 0.88,
			wantParams:     map[string]string{"query": "what is the weather"},
		},
		{
			name:           "fallback",
			request:        "do something unusual",
			wantCapability: "ai_query",
			wantConfidence: 0.7,
			wantParams:     map[string]string{"query": "do something unusual"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps := planner.PlanSteps(tt.request)
			if len(steps) != 1 {
				t.Fatalf("expected 1 step, got %d", len(steps))
			}

			step := steps[0]
			if step.Capability != tt.wantCapability {
				t.Errorf("expected capability %s, got %s", tt.wantCapability, step.Capability)
			}
			if step.Confidence != tt.wantConfidence {
				t.Errorf("expected confidence %v, got %v", tt.wantConfidence, step.Confidence)
			}
			if step.Status != StepPending {
				t.Errorf("expected pending step, got %s", step.Status)
			}
			for k, v := range tt.wantParams {
				if step.Params[k] != v {
					t.Errorf("expected param %s=%q, got %q", k, v, step.Params[k])
				}
			}
		})
	}
}

func TestNewTask_SimilarityBoost(t *testing.T) {
	planner := NewTemplatePlanner(DefaultPlannerConfig())
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	plain := planner.NewTask("open terminal", nil, now)
	if plain.Steps[0].Confidence != 0.9 {
		t.Fatalf("expected unboosted confidence 0.9, got %v", plain.Steps[0].Confidence)
	}

	boosted := planner.NewTask("open terminal", []string{"task-1"}, now)
	// 0.9 + 0.1 boost, capped at 0.95.
	if boosted.Steps[0].Confidence != 0.95 {
		t.Errorf("expected boost capped at 0.95, got %v", boosted.Steps[0].Confidence)
	}
	if len(boosted.SimilarTasks) != 1 {
		t.Errorf("expected similar task carried on task, got %v", boosted.SimilarTasks)
	}
}

func TestNewTask_Defaults(t *testing.T) {
	planner := NewTemplatePlanner(DefaultPlannerConfig())
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	task := planner.NewTask("open terminal", nil, now)
	if task.ID == "" {
		t.Error("expected generated task id")
	}
	if task.Status != TaskPending {
		t.Errorf("expected pending task, got %s", task.Status)
	}
	if task.Description != "open terminal" {
		t.Errorf("expected description preserved, got %q", task.Description)
	}
	if !task.CreatedAt.Equal(now) {
		t.Errorf("expected creation time %v, got %v", now, task.CreatedAt)
	}
}
