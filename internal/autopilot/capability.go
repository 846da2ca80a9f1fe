package autopilot

import (
	"sort"
	"sync"
	"time"
)

// Complexity tiers a capability for the risk computation.
type Complexity string

const (
	ComplexitySimple  Complexity = "simple"
	ComplexityMedium  Complexity = "medium"
	ComplexityComplex Complexity = "complex"
)

// Capability is a named, executable unit of work with continuously tracked
// performance statistics. Capabilities are never deleted.
type Capability struct {
	ID         string     `json:"id"`
	Category   string     `json:"category"`
	Complexity Complexity `json:"complexity"`

	// Moving statistics, updated after every execution.
	SuccessRate float64       `json:"success_rate"`
	UsageCount  int           `json:"usage_count"`
	AvgDuration time.Duration `json:"avg_duration"`
	LastUsed    time.Time     `json:"last_used"`
}

// Registry holds the fixed capability catalog and its statistics.
type Registry struct {
	mu   sync.RWMutex
	caps map[string]*Capability
}

// NewRegistry creates a registry preloaded with the fixed catalog.
func NewRegistry() *Registry {
	r := &Registry{caps: map[string]*Capability{}}
	for _, c := range catalog() {
		cc := c
		r.caps[c.ID] = &cc
	}
	return r
}

// catalog is the fixed capability set.
func catalog() []Capability {
	return []Capability{
		{ID: "open_app", Category: "system", Complexity: ComplexitySimple},
		{ID: "close_app", Category: "system", Complexity: ComplexitySimple},
		{ID: "create_file", Category: "files", Complexity: ComplexitySimple},
		{ID: "write_file", Category: "files", Complexity: ComplexityMedium},
		{ID: "read_file", Category: "files", Complexity: ComplexitySimple},
		{ID: "ai_query", Category: "ai", Complexity: ComplexityMedium},
		{ID: "run_workflow", Category: "automation", Complexity: ComplexityComplex},
		{ID: "organize_windows", Category: "system", Complexity: ComplexityMedium},
	}
}

// Get returns a copy of a capability, or false if unknown.
func (r *Registry) Get(id string) (Capability, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.caps[id]
	if !ok {
		return Capability{}, false
	}
	return *c, true
}

// List returns copies of all capabilities, ordered by id.
func (r *Registry) List() []Capability {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Capability, 0, len(r.caps))
	for _, c := range r.caps {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// RecordOutcome folds one execution into a capability's moving statistics
// via incremental means. The update is order-independent: after N outcomes
// the success rate and average duration equal the plain means.
func (r *Registry) RecordOutcome(id string, success bool, duration time.Duration, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.caps[id]
	if !ok {
		return
	}

	n := float64(c.UsageCount)
	c.UsageCount++

	outcome := 0.0
	if success {
		outcome = 1.0
	}
	c.SuccessRate = (c.SuccessRate*n + outcome) / float64(c.UsageCount)
	c.AvgDuration = time.Duration((float64(c.AvgDuration)*n + float64(duration)) / float64(c.UsageCount))
	c.LastUsed = at
}
