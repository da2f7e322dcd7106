package repository

import (
	"context"

	"github.com/magazyn/magazyn/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para Item (DIP).
type ItemRepository interface {
	// Create asigna ID y timestamps. Devuelve domain.ErrDuplicate si el código ya existe.
	Create(ctx context.Context, item *entity.Item) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id int64) (*entity.Item, error)
	// List devuelve todo el catálogo ordenado por fecha de creación.
	List(ctx context.Context) ([]*entity.Item, error)
	// Update reemplaza los campos editables. Devuelve domain.ErrNotFound si no existe.
	Update(ctx context.Context, item *entity.Item) error
	// Delete devuelve domain.ErrNotFound si no existe.
	Delete(ctx context.Context, id int64) error
}
