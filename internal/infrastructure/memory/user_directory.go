// Package memory implementa los puertos de persistencia en memoria del proceso.
// Se usa con STORE_DRIVER=memory y en los tests.
package memory

import (
	"context"

	"github.com/magazyn/magazyn/internal/application/auth"
	"github.com/magazyn/magazyn/internal/domain/entity"
	"github.com/magazyn/magazyn/internal/domain/repository"
)

var _ repository.UserRepository = (*UserDirectory)(nil)

// UserDirectory directorio fijo construido desde el fixture de semilla.
// Es inmutable después de NewUserDirectory, por lo que no necesita locks.
type UserDirectory struct {
	byEmail map[string]*entity.User
	byID    map[int64]*entity.User
}

// NewUserDirectory hashea los passwords del fixture con el costo indicado.
func NewUserDirectory(seed []auth.SeedUser, cost int) (*UserDirectory, error) {
	users, err := auth.HashSeed(seed, cost)
	if err != nil {
		return nil, err
	}
	d := &UserDirectory{
		byEmail: make(map[string]*entity.User, len(users)),
		byID:    make(map[int64]*entity.User, len(users)),
	}
	for _, u := range users {
		d.byEmail[u.Email] = u
		d.byID[u.ID] = u
	}
	return d, nil
}

// FindByEmail búsqueda exacta, sensible a mayúsculas.
func (d *UserDirectory) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	u, ok := d.byEmail[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

// FindByID busca por ID.
func (d *UserDirectory) FindByID(_ context.Context, id int64) (*entity.User, error) {
	u, ok := d.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}
