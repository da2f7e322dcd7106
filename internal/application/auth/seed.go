package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/magazyn/magazyn/internal/domain/entity"
)

// SeedUser registro del fixture del directorio. Password en texto plano solo aquí:
// los directorios guardan únicamente el hash bcrypt.
type SeedUser struct {
	ID          int64
	Email       string
	Password    string
	Name        string
	Role        string
	AccessLevel int
}

// DefaultSeed usuarios predefinidos del almacén.
func DefaultSeed() []SeedUser {
	return []SeedUser{
		{ID: 1, Email: "szymon@example.com", Password: "admin123", Name: "Szymon", Role: entity.RoleAdmin, AccessLevel: entity.AccessLevelAdmin},
		{ID: 2, Email: "waldek@example.com", Password: "user123", Name: "Waldek", Role: entity.RoleUser, AccessLevel: entity.AccessLevelEditor},
	}
}

// HashSeed convierte el fixture en usuarios con el password hasheado (bcrypt con el costo indicado).
// Rechaza emails o IDs repetidos.
func HashSeed(seed []SeedUser, cost int) ([]*entity.User, error) {
	emails := make(map[string]struct{}, len(seed))
	ids := make(map[int64]struct{}, len(seed))
	out := make([]*entity.User, 0, len(seed))
	for _, s := range seed {
		if _, dup := emails[s.Email]; dup {
			return nil, fmt.Errorf("semilla: email duplicado %q", s.Email)
		}
		if _, dup := ids[s.ID]; dup {
			return nil, fmt.Errorf("semilla: id duplicado %d", s.ID)
		}
		emails[s.Email] = struct{}{}
		ids[s.ID] = struct{}{}

		hash, err := bcrypt.GenerateFromPassword([]byte(s.Password), cost)
		if err != nil {
			return nil, fmt.Errorf("semilla: hash de %q: %w", s.Email, err)
		}
		out = append(out, &entity.User{
			ID:           s.ID,
			Email:        s.Email,
			PasswordHash: string(hash),
			Name:         s.Name,
			Role:         s.Role,
			AccessLevel:  s.AccessLevel,
		})
	}
	return out, nil
}
