package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// SavePattern replaces the stored pattern for the pattern's user.
func (s *SQLiteStore) SavePattern(p UserPattern) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return fmt.Errorf("store not initialized")
	}

	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal pattern: %w", err)
	}

	query := `
		INSERT OR REPLACE INTO patterns (user_id, payload, updated_at)
		VALUES (?, ?, ?)
	`

	_, err = s.db.Exec(query, p.UserID, string(payload), p.UpdatedAt.UTC().Format(timestampLayout))
	if err != nil {
		return fmt.Errorf("failed to save pattern: %w", err)
	}

	return nil
}

// GetPattern returns the stored pattern for a user, or nil if absent.
func (s *SQLiteStore) GetPattern(userID string) (*UserPattern, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil, fmt.Errorf("store not initialized")
	}

	row := s.db.QueryRow("SELECT payload FROM patterns WHERE user_id = ?", userID)

	var payload string
	if err := row.Scan(&payload); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query pattern: %w", err)
	}

	var p UserPattern
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return nil, fmt.Errorf("failed to parse pattern: %w", err)
	}

	return &p, nil
}

// AppendInsight appends one insight to the log.
func (s *SQLiteStore) AppendInsight(ins LearningInsight) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return fmt.Errorf("store not initialized")
	}

	actionJSON, err := json.Marshal(ins.Action)
	if err != nil {
		return fmt.Errorf("failed to marshal insight action: %w", err)
	}

	actionable := 0
	if ins.Actionable {
		actionable = 1
	}

	query := `
		INSERT INTO insights (id, user_id, kind, title, description, confidence, actionable, action, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.Exec(query,
		ins.ID,
		ins.UserID,
		string(ins.Kind),
		ins.Title,
		ins.Description,
		ins.Confidence,
		actionable,
		string(actionJSON),
		ins.CreatedAt.UTC().Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to insert insight: %w", err)
	}

	return nil
}

// GetInsights returns up to limit insights for a user, newest first.
func (s *SQLiteStore) GetInsights(userID string, limit int) ([]LearningInsight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil, fmt.Errorf("store not initialized")
	}
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, user_id, kind, title, description, confidence, actionable, action, created_at, acknowledged_at
		FROM insights
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := s.db.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query insights: %w", err)
	}
	defer rows.Close()

	insights := []LearningInsight{}
	for rows.Next() {
		var ins LearningInsight
		var kind, actionJSON, createdAt string
		var actionable int
		var ackAt sql.NullString

		if err := rows.Scan(&ins.ID, &ins.UserID, &kind, &ins.Title, &ins.Description,
			&ins.Confidence, &actionable, &actionJSON, &createdAt, &ackAt); err != nil {
			return nil, fmt.Errorf("failed to scan insight: %w", err)
		}

		ins.Kind = InsightKind(kind)
		ins.Actionable = actionable == 1

		if actionJSON != "" && actionJSON != "null" {
			if err := json.Unmarshal([]byte(actionJSON), &ins.Action); err != nil {
				return nil, fmt.Errorf("failed to parse insight action: %w", err)
			}
		}

		created, err := time.Parse(timestampLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse insight timestamp: %w", err)
		}
		ins.CreatedAt = created

		if ackAt.Valid {
			acked, err := time.Parse(timestampLayout, ackAt.String)
			if err != nil {
				return nil, fmt.Errorf("failed to parse acknowledgment timestamp: %w", err)
			}
			ins.AcknowledgedAt = &acked
		}

		insights = append(insights, ins)
	}

	return insights, rows.Err()
}

// AcknowledgeInsight sets the acknowledgment time on an insight.
func (s *SQLiteStore) AcknowledgeInsight(id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return fmt.Errorf("store not initialized")
	}

	res, err := s.db.Exec(
		"UPDATE insights SET acknowledged_at = ? WHERE id = ?",
		at.UTC().Format(timestampLayout), id,
	)
	if err != nil {
		return fmt.Errorf("failed to acknowledge insight: %w", err)
	}

	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("insight '%s' not found", id)
	}

	return nil
}

// SaveModelState replaces the single global model state record.
func (s *SQLiteStore) SaveModelState(ms ModelState) error {
	return s.saveSingleton("model_state", ms)
}

// GetModelState returns the global model state, or nil if absent.
func (s *SQLiteStore) GetModelState() (*ModelState, error) {
	var ms ModelState
	found, err := s.getSingleton("model_state", &ms)
	if err != nil || !found {
		return nil, err
	}
	return &ms, nil
}

// SaveMetrics replaces the single current metrics record.
func (s *SQLiteStore) SaveMetrics(m LearningMetrics) error {
	return s.saveSingleton("metrics", m)
}

// GetMetrics returns the current metrics, or nil if absent.
func (s *SQLiteStore) GetMetrics() (*LearningMetrics, error) {
	var m LearningMetrics
	found, err := s.getSingleton("metrics", &m)
	if err != nil || !found {
		return nil, err
	}
	return &m, nil
}

// saveSingleton writes the single-row JSON payload for a table.
func (s *SQLiteStore) saveSingleton(table string, v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return fmt.Errorf("store not initialized")
	}

	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", table, err)
	}

	query := fmt.Sprintf("INSERT OR REPLACE INTO %s (id, payload) VALUES (1, ?)", table)
	if _, err := s.db.Exec(query, string(payload)); err != nil {
		return fmt.Errorf("failed to save %s: %w", table, err)
	}

	return nil
}

// getSingleton reads the single-row JSON payload for a table.
func (s *SQLiteStore) getSingleton(table string, v interface{}) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return false, fmt.Errorf("store not initialized")
	}

	row := s.db.QueryRow(fmt.Sprintf("SELECT payload FROM %s WHERE id = 1", table))

	var payload string
	if err := row.Scan(&payload); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to query %s: %w", table, err)
	}

	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", table, err)
	}

	return true, nil
}
