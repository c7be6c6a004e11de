package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

// CreateUser creates a user with transaction isolation to prevent race
// conditions between the uniqueness checks and the insert. Username is
// checked before email; the first conflict found is the one reported.
func (s *Store) CreateUser(record UserRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM users WHERE username = ?`, record.Username).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return ErrUsernameTaken
	}

	if err := tx.QueryRow(`SELECT COUNT(*) FROM users WHERE email = ? COLLATE NOCASE`, record.Email).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return ErrEmailTaken
	}

	query := `INSERT INTO users (
		user_id, username, email, password_hash, avatar, high_score, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = tx.Exec(query,
		record.UserID, record.Username, record.Email,
		record.PasswordHash, record.Avatar, record.HighScore, record.CreatedAt,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// GetUserByEmail retrieves a user by email with case-insensitive matching
func (s *Store) GetUserByEmail(email string) (*UserRecord, error) {
	query := `SELECT user_id, username, email, password_hash, avatar, high_score, high_score_at, created_at
		FROM users WHERE email = ? COLLATE NOCASE`
	return s.scanUser(s.db.QueryRow(query, email))
}

// GetUserByID retrieves a user by unique user ID
func (s *Store) GetUserByID(userID string) (*UserRecord, error) {
	query := `SELECT user_id, username, email, password_hash, avatar, high_score, high_score_at, created_at
		FROM users WHERE user_id = ?`
	return s.scanUser(s.db.QueryRow(query, userID))
}

// CountUsers returns the total number of user accounts
func (s *Store) CountUsers() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}

// TopUsersByHighScore returns up to limit users ordered by high score
// descending. Tiebreak order between equal scores is whatever SQLite
// produces; callers must not rely on it.
func (s *Store) TopUsersByHighScore(limit int) ([]UserRecord, error) {
	query := `SELECT user_id, username, email, password_hash, avatar, high_score, high_score_at, created_at
		FROM users ORDER BY high_score DESC LIMIT ?`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []UserRecord
	for rows.Next() {
		var user UserRecord
		err := rows.Scan(
			&user.UserID, &user.Username, &user.Email, &user.PasswordHash,
			&user.Avatar, &user.HighScore, &user.HighScoreAt, &user.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

// GetAllUsers retrieves all users, newest first (admin CLI listing)
func (s *Store) GetAllUsers() ([]UserRecord, error) {
	query := `SELECT user_id, username, email, password_hash, avatar, high_score, high_score_at, created_at
		FROM users ORDER BY created_at DESC`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []UserRecord
	for rows.Next() {
		var user UserRecord
		err := rows.Scan(
			&user.UserID, &user.Username, &user.Email, &user.PasswordHash,
			&user.Avatar, &user.HighScore, &user.HighScoreAt, &user.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

func (s *Store) scanUser(row *sql.Row) (*UserRecord, error) {
	var user UserRecord
	err := row.Scan(
		&user.UserID, &user.Username, &user.Email, &user.PasswordHash,
		&user.Avatar, &user.HighScore, &user.HighScoreAt, &user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
