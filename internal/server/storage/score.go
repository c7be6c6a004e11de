package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SubmitScore appends a score history row and raises the user's high score if
// beaten, in a single transaction. high_score_at is stamped only when the
// high score advances. Returns ErrNotFound for an unknown user, in which case
// nothing is written.
func (s *Store) SubmitScore(userID string, score, maxStage int, now time.Time) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var highScore int
	err = tx.QueryRow(`SELECT high_score FROM users WHERE user_id = ?`, userID).Scan(&highScore)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if score > highScore {
		if _, err := tx.Exec(
			`UPDATE users SET high_score = ?, high_score_at = ? WHERE user_id = ?`,
			score, now, userID,
		); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(
		`INSERT INTO scores (user_id, score, max_stage_reached, created_at) VALUES (?, ?, ?, ?)`,
		userID, score, maxStage, now,
	); err != nil {
		return err
	}

	return tx.Commit()
}

// ScoresByUser returns a user's score history, oldest first
func (s *Store) ScoresByUser(userID string) ([]ScoreRecord, error) {
	query := `SELECT id, user_id, score, max_stage_reached, created_at
		FROM scores WHERE user_id = ? ORDER BY id ASC`

	rows, err := s.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []ScoreRecord
	for rows.Next() {
		var rec ScoreRecord
		err := rows.Scan(&rec.ID, &rec.UserID, &rec.Score, &rec.MaxStageReached, &rec.CreatedAt)
		if err != nil {
			return nil, err
		}
		scores = append(scores, rec)
	}

	return scores, rows.Err()
}
