package service

import (
	"time"

	"snake/internal/server/storage"
)

// LeaderboardRow is one entry of the top-N listing. Date is when the high
// score was achieved, falling back to account creation for rows whose high
// score was seeded rather than earned.
type LeaderboardRow struct {
	UserID   string
	Username string
	Avatar   string
	Score    int
	Date     time.Time
}

// SubmitScore records a finished run for a user. The user's high score is
// raised when beaten and a history row is always appended, atomically.
// Returns storage.ErrNotFound for an unknown user.
func (s *Service) SubmitScore(userID string, score, maxStage int) error {
	return s.store.SubmitScore(userID, score, maxStage, time.Now().UTC())
}

// Leaderboard returns up to LeaderboardSize users ordered by high score
// descending
func (s *Service) Leaderboard() ([]LeaderboardRow, error) {
	records, err := s.store.TopUsersByHighScore(LeaderboardSize)
	if err != nil {
		return nil, err
	}

	rows := make([]LeaderboardRow, 0, len(records))
	for _, r := range records {
		date := r.CreatedAt
		if r.HighScoreAt != nil {
			date = *r.HighScoreAt
		}
		rows = append(rows, LeaderboardRow{
			UserID:   r.UserID,
			Username: r.Username,
			Avatar:   r.Avatar,
			Score:    r.HighScore,
			Date:     date,
		})
	}
	return rows, nil
}

// Heartbeat upserts the caller's live-game state, refreshing the presence
// timestamp
func (s *Service) Heartbeat(userID string, currentStage, currentScore int) error {
	return s.store.UpsertSession(storage.SessionRecord{
		UserID:       userID,
		CurrentStage: currentStage,
		CurrentScore: currentScore,
		IsActive:     true,
		LastUpdated:  time.Now().UTC(),
	})
}

// ActiveGames returns sessions whose last heartbeat falls within the
// presence window (inclusive at the boundary)
func (s *Service) ActiveGames() ([]storage.ActiveGameRecord, error) {
	cutoff := time.Now().UTC().Add(-s.presenceWindow)
	return s.store.ActiveSessionsSince(cutoff)
}
