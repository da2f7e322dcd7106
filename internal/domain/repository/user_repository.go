package repository

import (
	"context"

	"github.com/magazyn/magazyn/internal/domain/entity"
)

// UserRepository puerto de lectura del directorio de usuarios (DIP).
// El directorio es fijo: no hay alta, edición ni baja a través de la API.
type UserRepository interface {
	// FindByEmail busca por email exacto (sensible a mayúsculas). Devuelve (nil, nil) si no existe.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	// FindByID devuelve (nil, nil) si no existe.
	FindByID(ctx context.Context, id int64) (*entity.User, error)
}
