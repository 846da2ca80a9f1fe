/*
Package storage implements the persistent store behind the adaptive loop.

This package provides SQLite-based storage for interactions, per-user
patterns, insights, and the global model/metrics records. It uses
modernc.org/sqlite (a pure Go, CGo-free implementation) with the database
stored at ~/.autopilot/autopilot.db by default.

Interactions and insights are append-only logs; patterns and metrics are
single-record-per-key with full replacement on write. Unlike best-effort
tracking, store errors propagate to the caller so the analysis pass never
learns from a silently partial snapshot.
*/
package storage

import (
	"database/sql"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Store defines the interface for persistent storage operations.
type Store interface {
	// Init initializes the database and runs migrations.
	Init() error

	// AppendInteraction appends one interaction to the log.
	AppendInteraction(in Interaction) error

	// GetInteractionsByUser returns up to limit interactions for a user,
	// ordered by timestamp descending.
	GetInteractionsByUser(userID string, limit int) ([]Interaction, error)

	// GetRecentInteractions returns up to limit interactions across all
	// users, ordered by timestamp descending.
	GetRecentInteractions(limit int) ([]Interaction, error)

	// DeleteInteractionsBefore removes interactions older than cutoff.
	// The cutoff is fixed by the caller before the scan starts.
	DeleteInteractionsBefore(cutoff time.Time) (int64, error)

	// SavePattern replaces the stored pattern for the pattern's user.
	SavePattern(p UserPattern) error

	// GetPattern returns the stored pattern for a user, or nil if absent.
	GetPattern(userID string) (*UserPattern, error)

	// AppendInsight appends one insight to the log.
	AppendInsight(ins LearningInsight) error

	// GetInsights returns up to limit insights for a user, newest first.
	GetInsights(userID string, limit int) ([]LearningInsight, error)

	// AcknowledgeInsight sets the acknowledgment time on an insight.
	AcknowledgeInsight(id string, at time.Time) error

	// SaveModelState replaces the single global model state record.
	SaveModelState(ms ModelState) error

	// GetModelState returns the global model state, or nil if absent.
	GetModelState() (*ModelState, error)

	// SaveMetrics replaces the single current metrics record.
	SaveMetrics(m LearningMetrics) error

	// GetMetrics returns the current metrics, or nil if absent.
	GetMetrics() (*LearningMetrics, error)

	// Close closes the database connection.
	Close() error
}

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db       *sql.DB
	dbPath   string
	mu       sync.Mutex
	initOnce sync.Once
}

// NewStore creates a store at the default database path.
func NewStore() *SQLiteStore {
	path, err := DefaultDBPath()
	if err != nil {
		path = "autopilot.db"
	}
	return &SQLiteStore{dbPath: path}
}

// NewStoreAt creates a store backed by the database at path.
func NewStoreAt(path string) *SQLiteStore {
	return &SQLiteStore{dbPath: path}
}
