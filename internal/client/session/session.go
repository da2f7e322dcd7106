// Package session persiste la sesión del cliente de terminal en un archivo JSON
// y decide el acceso a cada vista.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/magazyn/magazyn/internal/application/dto"
	"github.com/magazyn/magazyn/pkg/jwt"
)

var (
	// ErrNotLoggedIn no hay sesión o expiró: volver al login.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrInsufficientAccess sesión válida con nivel insuficiente: volver al dashboard.
	ErrInsufficientAccess = errors.New("insufficient access level")
)

// Session lo que se guarda tras un login exitoso. Nunca contiene el password.
type Session struct {
	User      dto.SessionUser `json:"user"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
}

// Expired sesión sin token o con la expiración vencida.
func (s Session) Expired(now time.Time) bool {
	return s.Token == "" || (!s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt))
}

// Store archivo único de sesión.
type Store struct {
	path string
	now  func() time.Time
}

// NewStore store sobre path (se crea el directorio al guardar).
func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Path ruta del archivo.
func (s *Store) Path() string { return s.path }

// Save guarda la sesión con permisos 0600. Si falta ExpiresAt se toma del token.
func (s *Store) Save(sess Session) error {
	if sess.ExpiresAt.IsZero() && sess.Token != "" {
		if exp, err := jwt.ExpiresAt(sess.Token); err == nil {
			sess.ExpiresAt = exp
		}
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("session: %w", err)
	}
	return nil
}

// Load lee la sesión. Archivo ausente, ilegible o expirado → ErrNotLoggedIn.
func (s *Store) Load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotLoggedIn
	}
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("%w: archivo de sesión corrupto", ErrNotLoggedIn)
	}
	if sess.Expired(s.now()) {
		return nil, ErrNotLoggedIn
	}
	return &sess, nil
}

// Require sesión válida con nivel ≥ minLevel.
func (s *Store) Require(minLevel int) (*Session, error) {
	sess, err := s.Load()
	if err != nil {
		return nil, err
	}
	if sess.User.AccessLevel < minLevel {
		return sess, ErrInsufficientAccess
	}
	return sess, nil
}

// Logout elimina el archivo. Sin sesión no es error.
func (s *Store) Logout() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session: %w", err)
	}
	return nil
}
