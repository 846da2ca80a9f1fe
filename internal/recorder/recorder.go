/*
Package recorder captures typed interaction events with contextual metadata.

The recorder mirrors the storage layer's best-effort contract: tracking never
returns an error to the caller. Events are queued on a buffered channel and
flushed to the store by a background goroutine; persistence failures are
logged and dropped. Disabling the recorder turns every track call into a
no-op.
*/
package recorder

import (
	"log"
	"strconv"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/khanglvm/autopilot/internal/storage"
	"github.com/khanglvm/autopilot/internal/sysctx"
)

const (
	// eventQueueSize is the buffer size for the event queue.
	// If full, events are dropped (non-blocking).
	eventQueueSize = 1000

	// batchFlushSize is the number of events that triggers an immediate flush.
	batchFlushSize = 10

	// flushInterval is how often pending events are flushed to the store.
	flushInterval = 50 * time.Millisecond

	// maxTextLen is the character budget for free-text fields.
	maxTextLen = 500
)

// Recorder captures interaction events in the background with non-blocking writes.
type Recorder struct {
	store    storage.Store
	provider sysctx.Provider

	queue    chan storage.Interaction
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	mu           sync.RWMutex
	enabled      bool
	lastAction   string
	sessionStart time.Time
}

// New creates a recorder writing to the given store.
func New(store storage.Store, provider sysctx.Provider) *Recorder {
	r := &Recorder{
		store:        store,
		provider:     provider,
		queue:        make(chan storage.Interaction, eventQueueSize),
		stopChan:     make(chan struct{}),
		enabled:      true,
		sessionStart: provider.Now(),
	}

	r.wg.Add(1)
	go r.processEvents()

	return r
}

// TrackAppOpen records an application launch.
func (r *Recorder) TrackAppOpen(userID, appID string) {
	r.track(userID, storage.InteractionAppOpen, appID, nil)
}

// TrackAppClose records an application exit.
func (r *Recorder) TrackAppClose(userID, appID string) {
	r.track(userID, storage.InteractionAppClose, appID, nil)
}

// TrackWindowMove records a window position change.
func (r *Recorder) TrackWindowMove(userID, appID string, x, y int) {
	r.track(userID, storage.InteractionWindowMove, appID, map[string]string{
		"x": strconv.Itoa(x),
		"y": strconv.Itoa(y),
	})
}

// TrackWindowResize records a window size change.
func (r *Recorder) TrackWindowResize(userID, appID string, width, height int) {
	r.track(userID, storage.InteractionWindowResize, appID, map[string]string{
		"width":  strconv.Itoa(width),
		"height": strconv.Itoa(height),
	})
}

// TrackAIQuery records a free-text AI request.
func (r *Recorder) TrackAIQuery(userID, query string) {
	r.track(userID, storage.InteractionAIQuery, "", map[string]string{
		"query": Truncate(query, maxTextLen),
	})
}

// TrackCommand records a command execution.
func (r *Recorder) TrackCommand(userID, command string) {
	r.track(userID, storage.InteractionCommand, "", map[string]string{
		"command": Truncate(command, maxTextLen),
	})
}

// TrackError records a failure event. The error string becomes input to
// future pattern mining, not just a log line.
func (r *Recorder) TrackError(userID, errMsg string) {
	r.track(userID, storage.InteractionError, "", map[string]string{
		"error": Truncate(errMsg, maxTextLen),
	})
}

// TrackSuccess records a successful action by label.
func (r *Recorder) TrackSuccess(userID, action string) {
	r.track(userID, storage.InteractionSuccess, "", map[string]string{
		"action": Truncate(action, maxTextLen),
	})
}

// track builds the interaction with its context snapshot and enqueues it.
// Tracking never raises to the caller.
func (r *Recorder) track(userID string, typ storage.InteractionType, appID string, data map[string]string) {
	if !r.IsEnabled() {
		return
	}

	now := r.provider.Now()

	r.mu.Lock()
	prev := r.lastAction
	r.lastAction = actionLabel(typ, appID)
	session := int64(now.Sub(r.sessionStart).Seconds())
	r.mu.Unlock()

	in := storage.Interaction{
		ID:        uuid.NewString(),
		UserID:    userID,
		Timestamp: now,
		Type:      typ,
		AppID:     appID,
		Data:      data,
		Context: storage.InteractionContext{
			TimeOfDay:       sysctx.TimeOfDayBucket(now),
			DayOfWeek:       now.Weekday().String(),
			SessionDuration: session,
			DeviceClass:     r.provider.DeviceClass(),
			ScreenSize:      r.provider.ScreenSize(),
			PreviousAction:  prev,
		},
	}

	select {
	case r.queue <- in:
		// Event queued successfully
	default:
		log.Printf("Warning: recorder queue full, dropping %s event for user %s", typ, userID)
	}
}

// LastAction returns the label of the most recently tracked event.
func (r *Recorder) LastAction() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastAction
}

// Enable enables tracking.
func (r *Recorder) Enable() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enabled = true
}

// Disable disables tracking (events are ignored).
func (r *Recorder) Disable() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enabled = false
}

// IsEnabled returns whether tracking is enabled.
func (r *Recorder) IsEnabled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enabled && r.store != nil
}

// Stop gracefully shuts down the recorder, flushing remaining events.
func (r *Recorder) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopChan)
		r.wg.Wait()
	})
}

// QueueDepth returns the current number of queued events.
func (r *Recorder) QueueDepth() int {
	return len(r.queue)
}

// processEvents runs in the background, batching and flushing events.
func (r *Recorder) processEvents() {
	defer r.wg.Done()

	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	batch := make([]storage.Interaction, 0, batchFlushSize)

	for {
		select {
		case in := <-r.queue:
			batch = append(batch, in)
			if len(batch) >= batchFlushSize {
				r.flush(batch)
				batch = make([]storage.Interaction, 0, batchFlushSize)
			}

		case <-ticker.C:
			if len(batch) > 0 {
				r.flush(batch)
				batch = make([]storage.Interaction, 0, batchFlushSize)
			}

		case <-r.stopChan:
			// Drain whatever is still queued, then exit.
			for {
				select {
				case in := <-r.queue:
					batch = append(batch, in)
					if len(batch) >= batchFlushSize {
						r.flush(batch)
						batch = make([]storage.Interaction, 0, batchFlushSize)
					}
				default:
					r.flush(batch)
					return
				}
			}
		}
	}
}

// flush writes a batch of interactions to the store.
func (r *Recorder) flush(batch []storage.Interaction) {
	for _, in := range batch {
		if err := r.store.AppendInteraction(in); err != nil {
			log.Printf("Warning: failed to record interaction: %v", err)
		}
	}
}

// actionLabel names an event for the previous-action cursor.
func actionLabel(typ storage.InteractionType, appID string) string {
	if appID == "" {
		return string(typ)
	}
	return string(typ) + ":" + appID
}

// Truncate clips text to the given character budget, never splitting a
// multi-byte rune at the boundary.
func Truncate(text string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	return string([]rune(text)[:limit])
}
