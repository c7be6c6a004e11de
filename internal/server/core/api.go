package core

import "time"

// SignupRequest defines the account creation payload
type SignupRequest struct {
	Username string `json:"username" validate:"required,min=1,max=40"`
	Email    string `json:"email" validate:"required,max=255"`
	Password string `json:"password" validate:"required,min=1,max=128"`
}

// LoginRequest defines the authentication payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ScoreRequest is a finished-run score submission. The submitting user is
// derived from the bearer token, not the body. MaxStage is optional and
// defaults to 0 when the client does not report stage progress.
type ScoreRequest struct {
	Score    int `json:"score" validate:"min=0"`
	MaxStage int `json:"maxStage" validate:"omitempty,min=0"`
}

// HeartbeatRequest reports in-game progress for the spectator feed
type HeartbeatRequest struct {
	CurrentStage int `json:"current_stage" validate:"min=0"`
	CurrentScore int `json:"current_score" validate:"min=0"`
}

// UserInfo is the public view of an account (never carries the password hash)
type UserInfo struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar"`
	HighScore int       `json:"high_score"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResponse is returned by signup and login. Duplicate username/email and
// bad credentials are business outcomes, not protocol errors: they come back
// with HTTP 200 and Success=false.
type AuthResponse struct {
	Success     bool      `json:"success"`
	User        *UserInfo `json:"user,omitempty"`
	Error       string    `json:"error,omitempty"`
	AccessToken string    `json:"access_token,omitempty"`
	TokenType   string    `json:"token_type,omitempty"`
}

// LeaderboardEntry is one row of the top-10 listing. Date is the time the
// user's high score was achieved (created_at for seeded rows that never
// improved on their seed score).
type LeaderboardEntry struct {
	ID       string    `json:"id"`
	Username string    `json:"username"`
	Avatar   string    `json:"avatar"`
	Score    int       `json:"score"`
	Date     time.Time `json:"date"`
}

// ActiveGame is one live session in the spectator feed
type ActiveGame struct {
	ID       string `json:"id"` // user ID
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	Score    int    `json:"score"`
	GameMode string `json:"gameMode"`
}

// StatusResponse acknowledges a mutation
type StatusResponse struct {
	Status string `json:"status"`
}
