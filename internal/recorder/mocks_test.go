package recorder

import (
	"sync"
	"time"

	"github.com/khanglvm/autopilot/internal/storage"
)

// mockStore is an in-memory Store double recording appended interactions.
type mockStore struct {
	mu           sync.Mutex
	interactions []storage.Interaction
}

func newMockStore() *mockStore {
	return &mockStore{}
}

func (m *mockStore) Init() error { return nil }

func (m *mockStore) AppendInteraction(in storage.Interaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.interactions = append(m.interactions, in)
	return nil
}

func (m *mockStore) GetInteractionsByUser(userID string, limit int) ([]storage.Interaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []storage.Interaction{}
	for i := len(m.interactions) - 1; i >= 0 && len(out) < limit; i-- {
		if m.interactions[i].UserID == userID {
			out = append(out, m.interactions[i])
		}
	}
	return out, nil
}

func (m *mockStore) GetRecentInteractions(limit int) ([]storage.Interaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []storage.Interaction{}
	for i := len(m.interactions) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.interactions[i])
	}
	return out, nil
}

func (m *mockStore) DeleteInteractionsBefore(cutoff time.Time) (int64, error) { return 0, nil }

func (m *mockStore) SavePattern(p storage.UserPattern) error { return nil }

func (m *mockStore) GetPattern(userID string) (*storage.UserPattern, error) { return nil, nil }

func (m *mockStore) AppendInsight(ins storage.LearningInsight) error { return nil }

func (m *mockStore) GetInsights(userID string, limit int) ([]storage.LearningInsight, error) {
	return nil, nil
}

func (m *mockStore) AcknowledgeInsight(id string, at time.Time) error { return nil }

func (m *mockStore) SaveModelState(ms storage.ModelState) error { return nil }

func (m *mockStore) GetModelState() (*storage.ModelState, error) { return nil, nil }

func (m *mockStore) SaveMetrics(lm storage.LearningMetrics) error { return nil }

func (m *mockStore) GetMetrics() (*storage.LearningMetrics, error) { return nil, nil }

func (m *mockStore) Close() error { return nil }

func (m *mockStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.interactions)
}

func (m *mockStore) all() []storage.Interaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]storage.Interaction, len(m.interactions))
	copy(out, m.interactions)
	return out
}

// mockProvider is a sysctx.Provider double with a controllable clock.
type mockProvider struct {
	now     time.Time
	windows int
}

func newMockProvider() *mockProvider {
	return &mockProvider{
		now:     time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		windows: 1,
	}
}

func (p *mockProvider) Now() time.Time         { return p.now }
func (p *mockProvider) ActiveWindowCount() int { return p.windows }
func (p *mockProvider) IsWorkingHours() bool   { return true }
func (p *mockProvider) DeviceClass() string    { return "desktop" }
func (p *mockProvider) ScreenSize() string     { return "1920x1080" }
