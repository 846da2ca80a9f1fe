package autopilot

import "sync"

// defaultHistoryCapacity bounds the in-memory learning history.
const defaultHistoryCapacity = 500

// History is a fixed-capacity ring buffer of learning records. When full,
// the oldest record is evicted first. History is process-memory only.
type History struct {
	mu       sync.RWMutex
	records  []LearningRecord
	start    int
	size     int
	capacity int
}

// NewHistory creates a history with the given capacity (default 500).
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = defaultHistoryCapacity
	}
	return &History{
		records:  make([]LearningRecord, capacity),
		capacity: capacity,
	}
}

// Append adds a record, evicting the oldest when at capacity.
func (h *History) Append(rec LearningRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.size < h.capacity {
		h.records[(h.start+h.size)%h.capacity] = rec
		h.size++
		return
	}
	h.records[h.start] = rec
	h.start = (h.start + 1) % h.capacity
}

// Len returns the number of stored records.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.size
}

// Records returns the stored records, oldest first.
func (h *History) Records() []LearningRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]LearningRecord, h.size)
	for i := 0; i < h.size; i++ {
		out[i] = h.records[(h.start+i)%h.capacity]
	}
	return out
}
