package http

import (
	"errors"
	"regexp"

	"snake/internal/server/core"
	"snake/internal/server/service"
	"snake/internal/server/storage"

	"github.com/gofiber/fiber/v2"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Duplicate signup fields and bad credentials are business outcomes, carried
// in AuthResponse.Error on an HTTP 200
const (
	msgUsernameTaken      = "Username already registered"
	msgEmailTaken         = "Email already registered"
	msgInvalidCredentials = "Invalid email or password"
)

// SignupHandler creates a new player account and logs it in immediately
func (h *HTTPHandler) SignupHandler(c *fiber.Ctx) error {
	var req core.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid request body",
			Code:    core.ErrInvalidRequest,
			Details: err.Error(),
		})
	}

	if errs := validate.Struct(&req); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "validation failed",
			Code:    core.ErrInvalidRequest,
			Details: validationDetails(errs),
		})
	}

	// Validate email format at the boundary
	if !emailRegex.MatchString(req.Email) {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid email format",
			Code:    core.ErrInvalidRequest,
			Details: "email must be a valid email address",
		})
	}

	user, token, err := h.svc.Signup(req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrUsernameTaken):
			return c.JSON(core.AuthResponse{Success: false, Error: msgUsernameTaken})
		case errors.Is(err, storage.ErrEmailTaken):
			return c.JSON(core.AuthResponse{Success: false, Error: msgEmailTaken})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "failed to create user",
			Code:  core.ErrInternalError,
		})
	}

	return c.JSON(core.AuthResponse{
		Success:     true,
		User:        userInfo(user),
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// LoginHandler authenticates by email and returns a fresh bearer token.
// Unknown email and wrong password produce the same generic error.
func (h *HTTPHandler) LoginHandler(c *fiber.Ctx) error {
	var req core.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid request body",
			Code:    core.ErrInvalidRequest,
			Details: err.Error(),
		})
	}

	if errs := validate.Struct(&req); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "validation failed",
			Code:    core.ErrInvalidRequest,
			Details: validationDetails(errs),
		})
	}

	user, err := h.svc.Authenticate(req.Email, req.Password)
	if err != nil {
		return c.JSON(core.AuthResponse{Success: false, Error: msgInvalidCredentials})
	}

	token, err := h.svc.IssueToken(user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "failed to generate token",
			Code:  core.ErrInternalError,
		})
	}

	return c.JSON(core.AuthResponse{
		Success:     true,
		User:        userInfo(user),
		AccessToken: token,
		TokenType:   "bearer",
	})
}

func userInfo(user *service.User) *core.UserInfo {
	return &core.UserInfo{
		ID:        user.UserID,
		Username:  user.Username,
		Email:     user.Email,
		Avatar:    user.Avatar,
		HighScore: user.HighScore,
		CreatedAt: user.CreatedAt,
	}
}
