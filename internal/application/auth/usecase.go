package auth

import (
	"context"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/magazyn/magazyn/internal/application/dto"
	"github.com/magazyn/magazyn/internal/domain"
	"github.com/magazyn/magazyn/internal/domain/entity"
	"github.com/magazyn/magazyn/internal/domain/repository"
	"github.com/magazyn/magazyn/pkg/jwt"
	"github.com/magazyn/magazyn/pkg/logger"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase autenticación contra el directorio de usuarios.
// No hay estado por sesión: cada login emite un token firmado con expiración.
type AuthUseCase struct {
	users  repository.UserRepository
	jwtCfg JWTConfig
	log    *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(users repository.UserRepository, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{users: users, jwtCfg: jwtCfg, log: log}
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// equalizeTiming compara contra un hash fijo para que un email inexistente
// cueste lo mismo que un password incorrecto.
func equalizeTiming(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("magazyn-timing"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

// Login verifica email/password (email exacto, hash bcrypt) y emite un token.
// Cualquier par que no coincida devuelve domain.ErrInvalidCredentials.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	uc.log.Info().Str("email", in.Email).Msg("login attempt")

	user, err := uc.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		equalizeTiming(in.Password)
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, exp, err := jwt.Generate(uc.jwtCfg.Secret, jwt.Principal{
		UserID:      user.ID,
		Email:       user.Email,
		Role:        user.Role,
		AccessLevel: user.AccessLevel,
	}, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Success:   true,
		User:      ToSessionUser(user),
		Token:     token,
		ExpiresAt: exp,
	}, nil
}

// Me devuelve el usuario del token. domain.ErrUnauthorized si ya no existe en el directorio.
func (uc *AuthUseCase) Me(ctx context.Context, userID int64) (*dto.MeResponse, error) {
	user, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	return &dto.MeResponse{Success: true, User: ToSessionUser(user)}, nil
}

// ToSessionUser proyecta el usuario sin el hash.
func ToSessionUser(u *entity.User) dto.SessionUser {
	return dto.SessionUser{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role,
		AccessLevel: u.AccessLevel,
	}
}
