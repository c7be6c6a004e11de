package service

import (
	"math/rand"
	"path/filepath"
	"testing"

	"snake/internal/server/storage"

	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret-minimum-32-characters-ok")

func newTestService(t *testing.T) *Service {
	t.Helper()

	path := filepath.Join(t.TempDir(), "snake_test.db")
	store, err := storage.NewStore(path, true)
	require.NoError(t, err)
	require.NoError(t, store.InitDB())

	svc := New(store, testSecret)
	t.Cleanup(func() { svc.Shutdown() })
	return svc
}

func TestSignup_CreatesUserWithToken(t *testing.T) {
	svc := newTestService(t)

	user, token, err := svc.Signup("alice", "alice@example.com", "hunter2pass")
	require.NoError(t, err)
	require.NotEmpty(t, user.UserID)
	require.Equal(t, "alice", user.Username)
	require.Equal(t, 0, user.HighScore)
	require.Contains(t, avatarPalette, user.Avatar)
	require.NotEmpty(t, token)

	// Token subject is the email, resolvable back to the account
	subject, _, err := svc.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", subject)

	resolved, err := svc.GetUserByEmail(subject)
	require.NoError(t, err)
	require.Equal(t, user.UserID, resolved.UserID)
}

func TestSignup_DuplicateUsername(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.Signup("alice", "alice@example.com", "hunter2pass")
	require.NoError(t, err)

	_, _, err = svc.Signup("alice", "other@example.com", "hunter2pass")
	require.ErrorIs(t, err, storage.ErrUsernameTaken)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.Signup("alice", "alice@example.com", "hunter2pass")
	require.NoError(t, err)

	_, _, err = svc.Signup("bob", "alice@example.com", "hunter2pass")
	require.ErrorIs(t, err, storage.ErrEmailTaken)
}

func TestAuthenticate_RoundTrip(t *testing.T) {
	svc := newTestService(t)

	created, _, err := svc.Signup("alice", "alice@example.com", "hunter2pass")
	require.NoError(t, err)

	user, err := svc.Authenticate("alice@example.com", "hunter2pass")
	require.NoError(t, err)
	require.Equal(t, created.UserID, user.UserID)
}

func TestAuthenticate_GenericFailure(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.Signup("alice", "alice@example.com", "hunter2pass")
	require.NoError(t, err)

	// Wrong password and unknown email are indistinguishable
	_, errWrongPassword := svc.Authenticate("alice@example.com", "not-the-password")
	_, errUnknownEmail := svc.Authenticate("nobody@example.com", "hunter2pass")

	require.ErrorIs(t, errWrongPassword, ErrInvalidCredentials)
	require.ErrorIs(t, errUnknownEmail, ErrInvalidCredentials)
	require.Equal(t, errWrongPassword.Error(), errUnknownEmail.Error())
}

func TestValidateToken_Malformed(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.ValidateToken("not.a.token")
	require.Error(t, err)
}

func TestPickAvatar_StaysInPalette(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 100; i++ {
		require.Contains(t, avatarPalette, pickAvatar(r))
	}
}
