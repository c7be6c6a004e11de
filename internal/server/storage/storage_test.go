package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "snake_test.db")
	store, err := NewStore(path, true)
	require.NoError(t, err)
	require.NoError(t, store.InitDB())

	t.Cleanup(func() { store.Close() })
	return store
}

func testUser(name, email string) UserRecord {
	return UserRecord{
		UserID:       "id-" + name,
		Username:     name,
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=4$dGVzdA$dGVzdGhhc2g",
		Avatar:       "🐍",
		CreatedAt:    time.Now().UTC(),
	}
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.CreateUser(testUser("alice", "alice@example.com")))

	dup := testUser("alice", "other@example.com")
	dup.UserID = "id-alice-2"
	err := store.CreateUser(dup)
	require.ErrorIs(t, err, ErrUsernameTaken)

	count, err := store.CountUsers()
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.CreateUser(testUser("alice", "alice@example.com")))

	dup := testUser("bob", "Alice@Example.com") // email matching is case-insensitive
	err := store.CreateUser(dup)
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestCreateUser_UsernameConflictReportedFirst(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.CreateUser(testUser("alice", "alice@example.com")))

	// Both fields duplicated: the username conflict wins
	dup := testUser("alice", "alice@example.com")
	dup.UserID = "id-alice-2"
	err := store.CreateUser(dup)
	require.ErrorIs(t, err, ErrUsernameTaken)
}

func TestSubmitScore_HighScoreIsRunningMax(t *testing.T) {
	store := newTestStore(t)
	user := testUser("alice", "alice@example.com")
	require.NoError(t, store.CreateUser(user))

	base := time.Now().UTC().Truncate(time.Second)
	for i, score := range []int{5, 3, 9, 2} {
		require.NoError(t, store.SubmitScore(user.UserID, score, 0, base.Add(time.Duration(i)*time.Second)))
	}

	got, err := store.GetUserByID(user.UserID)
	require.NoError(t, err)
	require.Equal(t, 9, got.HighScore)
	require.NotNil(t, got.HighScoreAt)
	require.WithinDuration(t, base.Add(2*time.Second), *got.HighScoreAt, time.Second)

	scores, err := store.ScoresByUser(user.UserID)
	require.NoError(t, err)
	require.Len(t, scores, 4)
}

func TestSubmitScore_UnknownUserWritesNothing(t *testing.T) {
	store := newTestStore(t)

	err := store.SubmitScore("no-such-user", 10, 0, time.Now().UTC())
	require.ErrorIs(t, err, ErrNotFound)

	scores, err := store.ScoresByUser("no-such-user")
	require.NoError(t, err)
	require.Empty(t, scores)
}

func TestUpsertSession_SingleRowPerUser(t *testing.T) {
	store := newTestStore(t)
	user := testUser("alice", "alice@example.com")
	require.NoError(t, store.CreateUser(user))

	now := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 3; i++ {
		require.NoError(t, store.UpsertSession(SessionRecord{
			UserID:       user.UserID,
			CurrentStage: i,
			CurrentScore: i * 10,
			IsActive:     true,
			LastUpdated:  now.Add(time.Duration(i) * time.Second),
		}))
	}

	count, err := store.CountSessions()
	require.NoError(t, err)
	require.Equal(t, 1, count)

	session, err := store.GetSessionByUserID(user.UserID)
	require.NoError(t, err)
	require.Equal(t, 2, session.CurrentStage)
	require.Equal(t, 20, session.CurrentScore)
	require.True(t, session.IsActive)
}

func TestActiveSessionsSince_InclusiveBoundary(t *testing.T) {
	store := newTestStore(t)
	user := testUser("alice", "alice@example.com")
	require.NoError(t, store.CreateUser(user))

	cutoff := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, store.UpsertSession(SessionRecord{
		UserID:      user.UserID,
		IsActive:    true,
		LastUpdated: cutoff,
	}))

	// A heartbeat exactly at the cutoff counts as live
	games, err := store.ActiveSessionsSince(cutoff)
	require.NoError(t, err)
	require.Len(t, games, 1)
	require.Equal(t, user.UserID, games[0].UserID)
	require.Equal(t, "alice", games[0].Username)

	// One second past the cutoff does not
	games, err = store.ActiveSessionsSince(cutoff.Add(time.Second))
	require.NoError(t, err)
	require.Empty(t, games)
}

func TestTopUsersByHighScore_OrderAndLimit(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 12; i++ {
		user := testUser(fmt.Sprintf("player%02d", i), fmt.Sprintf("player%02d@example.com", i))
		require.NoError(t, store.CreateUser(user))
		if i > 0 {
			require.NoError(t, store.SubmitScore(user.UserID, i*7, 0, time.Now().UTC()))
		}
	}

	users, err := store.TopUsersByHighScore(10)
	require.NoError(t, err)
	require.Len(t, users, 10)
	for i := 1; i < len(users); i++ {
		require.GreaterOrEqual(t, users[i-1].HighScore, users[i].HighScore)
	}
}

func TestSeedFromScript(t *testing.T) {
	store := newTestStore(t)

	script := filepath.Join(t.TempDir(), "seed.sql")
	sql := `INSERT INTO users (user_id, username, email, password_hash, avatar, created_at) VALUES
		('seed-1', 'seeded_one', 'one@example.com', 'hash', '🐍', '2025-01-01 00:00:00');
		INSERT INTO users (user_id, username, email, password_hash, avatar, created_at) VALUES
		('seed-2', 'seeded_two', 'two@example.com', 'hash', '🎮', '2025-01-02 00:00:00');`
	require.NoError(t, os.WriteFile(script, []byte(sql), 0644))

	require.NoError(t, store.SeedFromScript(script))

	count, err := store.CountUsers()
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestSeedIfEmpty_RunsOnceOnly(t *testing.T) {
	store := newTestStore(t)

	script := filepath.Join(t.TempDir(), "seed.sql")
	sql := `INSERT INTO users (user_id, username, email, password_hash, avatar, created_at) VALUES
		('seed-1', 'seeded_one', 'one@example.com', 'hash', '🐍', '2025-01-01 00:00:00');`
	require.NoError(t, os.WriteFile(script, []byte(sql), 0644))

	seeded, err := store.SeedIfEmpty(script)
	require.NoError(t, err)
	require.True(t, seeded)

	// Simulates a restart against a populated store: no re-seed
	seeded, err = store.SeedIfEmpty(script)
	require.NoError(t, err)
	require.False(t, seeded)

	count, err := store.CountUsers()
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestSeedIfEmpty_SkipsMissingScriptWhenPopulated(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.CreateUser(testUser("alice", "alice@example.com")))

	// A populated store never touches the script, present or not
	seeded, err := store.SeedIfEmpty(filepath.Join(t.TempDir(), "absent.sql"))
	require.NoError(t, err)
	require.False(t, seeded)
}

func TestSeedFromScript_MissingFile(t *testing.T) {
	store := newTestStore(t)

	err := store.SeedFromScript(filepath.Join(t.TempDir(), "absent.sql"))
	require.Error(t, err)
	require.True(t, os.IsNotExist(err))
}

func TestSeedFromScript_BadStatementRollsBack(t *testing.T) {
	store := newTestStore(t)

	script := filepath.Join(t.TempDir(), "seed.sql")
	sql := `INSERT INTO users (user_id, username, email, password_hash, avatar, created_at) VALUES
		('seed-1', 'seeded_one', 'one@example.com', 'hash', '🐍', '2025-01-01 00:00:00');
		INSERT INTO nonsense VALUES (1);`
	require.NoError(t, os.WriteFile(script, []byte(sql), 0644))

	require.Error(t, store.SeedFromScript(script))

	// The whole script commits or none of it does
	count, err := store.CountUsers()
	require.NoError(t, err)
	require.Equal(t, 0, count)
}

func TestResetData(t *testing.T) {
	store := newTestStore(t)
	user := testUser("alice", "alice@example.com")
	require.NoError(t, store.CreateUser(user))
	require.NoError(t, store.SubmitScore(user.UserID, 5, 0, time.Now().UTC()))
	require.NoError(t, store.UpsertSession(SessionRecord{UserID: user.UserID, IsActive: true, LastUpdated: time.Now().UTC()}))

	require.NoError(t, store.ResetData())

	count, err := store.CountUsers()
	require.NoError(t, err)
	require.Equal(t, 0, count)

	sessions, err := store.CountSessions()
	require.NoError(t, err)
	require.Equal(t, 0, sessions)

	_, err = store.GetUserByID(user.UserID)
	require.True(t, errors.Is(err, ErrNotFound))
}
