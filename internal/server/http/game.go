package http

import (
	"errors"

	"snake/internal/server/core"
	"snake/internal/server/service"
	"snake/internal/server/storage"

	"github.com/gofiber/fiber/v2"
)

// gameModeClassic labels spectator entries; multi-mode play is not
// implemented server-side
const gameModeClassic = "classic"

// SubmitScoreHandler records a finished run for the authenticated user. The
// user comes from the bearer token subject, never from the request body; a
// token for an account that no longer exists yields 404.
func (h *HTTPHandler) SubmitScoreHandler(c *fiber.Ctx) error {
	validatedBody := c.Locals("validatedBody")
	validated, ok := c.Locals("validated").(bool)
	if !ok || !validated || validatedBody == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "validation data missing",
			Code:  core.ErrInternalError,
		})
	}
	req := *(validatedBody.(*core.ScoreRequest))

	user, err := h.currentUser(c)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(core.ErrorResponse{
				Error: "user not found",
				Code:  core.ErrUserNotFound,
			})
		}
		return err
	}

	if err := h.svc.SubmitScore(user.UserID, req.Score, req.MaxStage); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(core.ErrorResponse{
				Error: "user not found",
				Code:  core.ErrUserNotFound,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "failed to record score",
			Code:  core.ErrInternalError,
		})
	}

	return c.JSON(core.StatusResponse{Status: "ok"})
}

// LeaderboardHandler returns the top-10 users by high score, descending
func (h *HTTPHandler) LeaderboardHandler(c *fiber.Ctx) error {
	rows, err := h.svc.Leaderboard()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "failed to load leaderboard",
			Code:  core.ErrInternalError,
		})
	}

	entries := make([]core.LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, core.LeaderboardEntry{
			ID:       row.UserID,
			Username: row.Username,
			Avatar:   row.Avatar,
			Score:    row.Score,
			Date:     row.Date,
		})
	}

	return c.JSON(entries)
}

// ActiveGamesHandler returns sessions with a heartbeat inside the presence
// window
func (h *HTTPHandler) ActiveGamesHandler(c *fiber.Ctx) error {
	records, err := h.svc.ActiveGames()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "failed to load active games",
			Code:  core.ErrInternalError,
		})
	}

	games := make([]core.ActiveGame, 0, len(records))
	for _, rec := range records {
		games = append(games, core.ActiveGame{
			ID:       rec.UserID,
			Username: rec.Username,
			Avatar:   rec.Avatar,
			Score:    rec.CurrentScore,
			GameMode: gameModeClassic,
		})
	}

	return c.JSON(games)
}

// HeartbeatHandler upserts the caller's live-game state. A valid token whose
// account has since been removed is an auth failure, not a missing resource.
func (h *HTTPHandler) HeartbeatHandler(c *fiber.Ctx) error {
	validatedBody := c.Locals("validatedBody")
	validated, ok := c.Locals("validated").(bool)
	if !ok || !validated || validatedBody == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "validation data missing",
			Code:  core.ErrInternalError,
		})
	}
	req := *(validatedBody.(*core.HeartbeatRequest))

	user, err := h.currentUser(c)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(core.ErrorResponse{
				Error: "unknown account",
				Code:  core.ErrUnauthorized,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "failed to resolve account",
			Code:  core.ErrInternalError,
		})
	}

	if err := h.svc.Heartbeat(user.UserID, req.CurrentStage, req.CurrentScore); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "failed to update session",
			Code:  core.ErrInternalError,
		})
	}

	return c.JSON(core.StatusResponse{Status: "ok"})
}

// currentUser resolves the token subject placed by AuthRequired to its account
func (h *HTTPHandler) currentUser(c *fiber.Ctx) (*service.User, error) {
	subject, ok := c.Locals("subject").(string)
	if !ok || subject == "" {
		return nil, storage.ErrNotFound
	}
	return h.svc.GetUserByEmail(subject)
}
