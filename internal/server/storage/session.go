package storage

import (
	"database/sql"
	"errors"
	"time"
)

// UpsertSession creates or overwrites the session for a user (at most one row
// per user, keyed on user_id)
func (s *Store) UpsertSession(record SessionRecord) error {
	query := `INSERT INTO active_sessions (user_id, current_stage, current_score, is_active, last_updated)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			current_stage = excluded.current_stage,
			current_score = excluded.current_score,
			is_active = excluded.is_active,
			last_updated = excluded.last_updated`

	_, err := s.db.Exec(query,
		record.UserID, record.CurrentStage, record.CurrentScore,
		record.IsActive, record.LastUpdated,
	)
	return err
}

// GetSessionByUserID retrieves the session for a user
func (s *Store) GetSessionByUserID(userID string) (*SessionRecord, error) {
	var session SessionRecord
	query := `SELECT user_id, current_stage, current_score, is_active, last_updated
		FROM active_sessions WHERE user_id = ?`

	err := s.db.QueryRow(query, userID).Scan(
		&session.UserID, &session.CurrentStage, &session.CurrentScore,
		&session.IsActive, &session.LastUpdated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// CountSessions returns the total number of session rows
func (s *Store) CountSessions() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM active_sessions`).Scan(&count)
	return count, err
}

// ActiveSessionsSince returns sessions with last_updated at or after the
// cutoff, joined with their owning user. The comparison is inclusive: a
// heartbeat exactly at the cutoff still counts as live.
func (s *Store) ActiveSessionsSince(cutoff time.Time) ([]ActiveGameRecord, error) {
	query := `SELECT a.user_id, u.username, u.avatar, a.current_stage, a.current_score, a.last_updated
		FROM active_sessions a
		JOIN users u ON u.user_id = a.user_id
		WHERE a.last_updated >= ?`

	rows, err := s.db.Query(query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []ActiveGameRecord
	for rows.Next() {
		var g ActiveGameRecord
		err := rows.Scan(&g.UserID, &g.Username, &g.Avatar, &g.CurrentStage, &g.CurrentScore, &g.LastUpdated)
		if err != nil {
			return nil, err
		}
		games = append(games, g)
	}

	return games, rows.Err()
}
