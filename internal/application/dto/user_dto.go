package dto

import "time"

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionUser usuario autenticado sin password; es lo que el cliente persiste.
type SessionUser struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	AccessLevel int    `json:"accessLevel"`
}

// LoginResponse salida del login exitoso.
type LoginResponse struct {
	Success   bool        `json:"success"`
	User      SessionUser `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// MeResponse salida de GET /api/auth/me.
type MeResponse struct {
	Success bool        `json:"success"`
	User    SessionUser `json:"user"`
}
