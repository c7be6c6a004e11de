package service

import (
	"errors"
	"fmt"
	"time"

	"snake/internal/server/storage"

	"github.com/google/uuid"
	"github.com/lixenwraith/auth"
)

// ErrInvalidCredentials is returned for both unknown email and wrong
// password so login failures cannot be used to enumerate accounts
var ErrInvalidCredentials = errors.New("invalid email or password")

// User represents a registered player account
type User struct {
	UserID    string
	Username  string
	Email     string
	Avatar    string
	HighScore int
	CreatedAt time.Time
}

// Signup creates a new account and returns it with a fresh bearer token.
// Username uniqueness is checked before email uniqueness; only the first
// conflict found comes back (as storage.ErrUsernameTaken / ErrEmailTaken).
func (s *Service) Signup(username, email, password string) (*User, string, error) {
	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	userID, err := s.generateUniqueUserID()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate unique ID: %w", err)
	}

	user := &User{
		UserID:    userID,
		Username:  username,
		Email:     email,
		Avatar:    s.randomAvatar(),
		CreatedAt: time.Now().UTC(),
	}

	record := storage.UserRecord{
		UserID:       user.UserID,
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: passwordHash,
		Avatar:       user.Avatar,
		CreatedAt:    user.CreatedAt,
	}

	if err := s.store.CreateUser(record); err != nil {
		return nil, "", err
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Authenticate verifies credentials by email lookup. Both a missing account
// and a wrong password return ErrInvalidCredentials.
func (s *Service) Authenticate(email, password string) (*User, error) {
	record, err := s.store.GetUserByEmail(email)
	if err != nil {
		// Hash anyway so the miss costs the same as a verify
		auth.HashPassword(password)
		return nil, ErrInvalidCredentials
	}

	if err := auth.VerifyPassword(password, record.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	return userFromRecord(record), nil
}

// GetUserByEmail resolves a token subject to its account
func (s *Service) GetUserByEmail(email string) (*User, error) {
	record, err := s.store.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}
	return userFromRecord(record), nil
}

// GetUserByID retrieves user information by user ID
func (s *Service) GetUserByID(userID string) (*User, error) {
	record, err := s.store.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	return userFromRecord(record), nil
}

// IssueToken creates a signed bearer token whose subject is the user's email
func (s *Service) IssueToken(user *User) (string, error) {
	claims := map[string]any{
		"username": user.Username,
	}
	return auth.GenerateHS256Token(s.jwtSecret, user.Email, claims, s.tokenTTL)
}

// ValidateToken verifies a bearer token and returns its subject (the email)
// with claims
func (s *Service) ValidateToken(token string) (string, map[string]any, error) {
	return auth.ValidateHS256Token(s.jwtSecret, token)
}

// generateUniqueUserID creates a unique user ID with collision detection
func (s *Service) generateUniqueUserID() (string, error) {
	const maxAttempts = 10

	for i := 0; i < maxAttempts; i++ {
		id := uuid.New().String()

		// Error means not found, ID is unique
		if _, err := s.store.GetUserByID(id); err != nil {
			return id, nil
		}
	}

	return "", fmt.Errorf("failed to generate unique user ID after %d attempts", maxAttempts)
}

func userFromRecord(record *storage.UserRecord) *User {
	return &User{
		UserID:    record.UserID,
		Username:  record.Username,
		Email:     record.Email,
		Avatar:    record.Avatar,
		HighScore: record.HighScore,
		CreatedAt: record.CreatedAt,
	}
}
