package storage

import "time"

// UserRecord represents a user account in the database
type UserRecord struct {
	UserID       string     `db:"user_id"`
	Username     string     `db:"username"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	Avatar       string     `db:"avatar"`
	HighScore    int        `db:"high_score"`
	HighScoreAt  *time.Time `db:"high_score_at"` // nil until the first submission beats 0
	CreatedAt    time.Time  `db:"created_at"`
}

// ScoreRecord represents one row of the append-only score history
type ScoreRecord struct {
	ID              int64     `db:"id"`
	UserID          string    `db:"user_id"`
	Score           int       `db:"score"`
	MaxStageReached int       `db:"max_stage_reached"`
	CreatedAt       time.Time `db:"created_at"`
}

// SessionRecord represents a user's last known live-game state, at most one
// row per user
type SessionRecord struct {
	UserID       string    `db:"user_id"`
	CurrentStage int       `db:"current_stage"`
	CurrentScore int       `db:"current_score"`
	IsActive     bool      `db:"is_active"`
	LastUpdated  time.Time `db:"last_updated"`
}

// ActiveGameRecord is a session joined with its owning user, as served to
// spectators
type ActiveGameRecord struct {
	UserID       string
	Username     string
	Avatar       string
	CurrentStage int
	CurrentScore int
	LastUpdated  time.Time
}

// Schema defines the SQLite database structure
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	user_id TEXT PRIMARY KEY,
	username TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE COLLATE NOCASE,
	password_hash TEXT NOT NULL,
	avatar TEXT NOT NULL DEFAULT '🐍',
	high_score INTEGER NOT NULL DEFAULT 0,
	high_score_at DATETIME,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);
CREATE INDEX IF NOT EXISTS idx_users_high_score ON users(high_score);

CREATE TABLE IF NOT EXISTS scores (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id TEXT NOT NULL,
	score INTEGER NOT NULL,
	max_stage_reached INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (user_id) REFERENCES users(user_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_scores_user_id ON scores(user_id);

CREATE TABLE IF NOT EXISTS active_sessions (
	user_id TEXT PRIMARY KEY,
	current_stage INTEGER NOT NULL DEFAULT 0,
	current_score INTEGER NOT NULL DEFAULT 0,
	is_active INTEGER NOT NULL DEFAULT 1,
	last_updated DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (user_id) REFERENCES users(user_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_active_sessions_last_updated ON active_sessions(last_updated);
`
