package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magazyn/magazyn/internal/application/dto"
	"github.com/magazyn/magazyn/pkg/jwt"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "magazyn", "session.json"))
}

func editor() dto.SessionUser {
	return dto.SessionUser{ID: 2, Email: "waldek@example.com", Name: "Waldek", Role: "user", AccessLevel: 2}
}

func TestSaveLoad(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save(Session{User: editor(), Token: "t", ExpiresAt: time.Now().Add(time.Hour)}))

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	raw, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "waldek@example.com", got.User.Email)
}

func TestLoad_SinArchivo(t *testing.T) {
	_, err := newTestStore(t).Load()
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestLoad_Corrupto(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o700))
	require.NoError(t, os.WriteFile(s.Path(), []byte("{"), 0o600))

	_, err := s.Load()
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestLoad_Expirada(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save(Session{User: editor(), Token: "t", ExpiresAt: time.Now().Add(time.Hour)}))
	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err := s.Load()
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestSave_ExpiracionDesdeToken(t *testing.T) {
	tok, exp, err := jwt.Generate("secret", jwt.Principal{UserID: 2, AccessLevel: 2}, "magazyn", 10)
	require.NoError(t, err)

	s := newTestStore(t)
	require.NoError(t, s.Save(Session{User: editor(), Token: tok}))
	got, err := s.Load()
	require.NoError(t, err)
	assert.WithinDuration(t, exp, got.ExpiresAt, time.Second)
}

func TestRequire(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Require(1)
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	viewer := editor()
	viewer.AccessLevel = 1
	require.NoError(t, s.Save(Session{User: viewer, Token: "t", ExpiresAt: time.Now().Add(time.Hour)}))

	_, err = s.Require(1)
	assert.NoError(t, err)
	_, err = s.Require(2)
	assert.ErrorIs(t, err, ErrInsufficientAccess)
}

func TestLogout(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save(Session{User: editor(), Token: "t", ExpiresAt: time.Now().Add(time.Hour)}))
	require.NoError(t, s.Logout())

	_, err := s.Load()
	assert.ErrorIs(t, err, ErrNotLoggedIn)
	assert.NoError(t, s.Logout(), "logout sin sesión no falla")
}
