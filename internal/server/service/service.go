package service

import (
	"math/rand"
	"sync"
	"time"

	"snake/internal/server/storage"
)

const (
	// AccessTokenTTL is the policy lifetime of issued bearer tokens
	AccessTokenTTL = 30 * time.Minute

	// DefaultPresenceWindow is how recent a heartbeat must be for the
	// session to count as "currently playing"
	DefaultPresenceWindow = 10 * time.Second

	// LeaderboardSize caps the leaderboard listing
	LeaderboardSize = 10
)

// Service coordinates accounts, scores, and presence over storage
type Service struct {
	store          *storage.Store
	jwtSecret      []byte
	tokenTTL       time.Duration
	presenceWindow time.Duration

	rngMu sync.Mutex
	rng   *rand.Rand
}

// New creates a new service instance
func New(store *storage.Store, jwtSecret []byte) *Service {
	return &Service{
		store:          store,
		jwtSecret:      jwtSecret,
		tokenTTL:       AccessTokenTTL,
		presenceWindow: DefaultPresenceWindow,
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetTokenTTL overrides the bearer token lifetime
func (s *Service) SetTokenTTL(d time.Duration) {
	if d > 0 {
		s.tokenTTL = d
	}
}

// SetPresenceWindow overrides the heartbeat recency threshold
func (s *Service) SetPresenceWindow(d time.Duration) {
	if d > 0 {
		s.presenceWindow = d
	}
}

// PresenceWindow returns the active heartbeat recency threshold
func (s *Service) PresenceWindow() time.Duration {
	return s.presenceWindow
}

// GetStorageHealth returns the storage component status
func (s *Service) GetStorageHealth() string {
	if s.store.IsHealthy() {
		return "ok"
	}
	return "degraded"
}

// Shutdown gracefully shuts down the service
func (s *Service) Shutdown() error {
	return s.store.Close()
}

// avatarPalette is the fixed set of glyphs assigned at signup
var avatarPalette = [10]string{"🐍", "🎮", "👾", "🕹️", "⚡", "🔥", "💎", "🎯", "👑", "🌟"}

// pickAvatar draws a glyph from the palette using the supplied source
func pickAvatar(r *rand.Rand) string {
	return avatarPalette[r.Intn(len(avatarPalette))]
}

func (s *Service) randomAvatar() string {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return pickAvatar(s.rng)
}
