package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

// timestampLayout pins the fractional seconds to nine digits so the TEXT
// timestamp columns are fixed-width and lexicographic comparison matches
// chronological order (RFC3339Nano trims trailing zeros and does not).
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// AppendInteraction appends one interaction to the log.
func (s *SQLiteStore) AppendInteraction(in Interaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return fmt.Errorf("store not initialized")
	}

	dataJSON, err := json.Marshal(in.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal interaction data: %w", err)
	}
	contextJSON, err := json.Marshal(in.Context)
	if err != nil {
		return fmt.Errorf("failed to marshal interaction context: %w", err)
	}

	query := `
		INSERT INTO interactions (id, user_id, timestamp, type, app_id, data, context)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.Exec(query,
		in.ID,
		in.UserID,
		in.Timestamp.UTC().Format(timestampLayout),
		string(in.Type),
		in.AppID,
		string(dataJSON),
		string(contextJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to insert interaction: %w", err)
	}

	return nil
}

// GetInteractionsByUser returns up to limit interactions for a user,
// ordered by timestamp descending.
func (s *SQLiteStore) GetInteractionsByUser(userID string, limit int) ([]Interaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil, fmt.Errorf("store not initialized")
	}
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, user_id, timestamp, type, app_id, data, context
		FROM interactions
		WHERE user_id = ?
		ORDER BY timestamp DESC
		LIMIT ?
	`

	rows, err := s.db.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query interactions: %w", err)
	}
	defer rows.Close()

	return scanInteractions(rows)
}

// GetRecentInteractions returns up to limit interactions across all users,
// ordered by timestamp descending.
func (s *SQLiteStore) GetRecentInteractions(limit int) ([]Interaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil, fmt.Errorf("store not initialized")
	}
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, user_id, timestamp, type, app_id, data, context
		FROM interactions
		ORDER BY timestamp DESC
		LIMIT ?
	`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent interactions: %w", err)
	}
	defer rows.Close()

	return scanInteractions(rows)
}

// DeleteInteractionsBefore removes interactions older than cutoff and
// returns the number of deleted rows. The cutoff is formatted once up front
// so records written while the delete runs are never in range.
func (s *SQLiteStore) DeleteInteractionsBefore(cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return 0, fmt.Errorf("store not initialized")
	}

	bound := cutoff.UTC().Format(timestampLayout)

	res, err := s.db.Exec("DELETE FROM interactions WHERE timestamp < ?", bound)
	if err != nil {
		return 0, fmt.Errorf("failed to delete interactions: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		deleted = 0
	}

	// Vacuum to reclaim space
	if _, err := s.db.Exec("VACUUM"); err != nil {
		log.Printf("Warning: failed to vacuum database: %v", err)
	}

	return deleted, nil
}

// scanInteractions converts query rows into Interaction values.
func scanInteractions(rows *sql.Rows) ([]Interaction, error) {
	interactions := []Interaction{}

	for rows.Next() {
		var in Interaction
		var ts, typ, dataJSON, contextJSON string
		var appID sql.NullString

		if err := rows.Scan(&in.ID, &in.UserID, &ts, &typ, &appID, &dataJSON, &contextJSON); err != nil {
			return nil, fmt.Errorf("failed to scan interaction: %w", err)
		}

		parsed, err := time.Parse(timestampLayout, ts)
		if err != nil {
			return nil, fmt.Errorf("failed to parse interaction timestamp: %w", err)
		}
		in.Timestamp = parsed
		in.Type = InteractionType(typ)
		in.AppID = appID.String

		if dataJSON != "" {
			if err := json.Unmarshal([]byte(dataJSON), &in.Data); err != nil {
				return nil, fmt.Errorf("failed to parse interaction data: %w", err)
			}
		}
		if err := json.Unmarshal([]byte(contextJSON), &in.Context); err != nil {
			return nil, fmt.Errorf("failed to parse interaction context: %w", err)
		}

		interactions = append(interactions, in)
	}

	return interactions, rows.Err()
}
