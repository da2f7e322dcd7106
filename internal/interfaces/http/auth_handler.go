package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/magazyn/magazyn/internal/application/auth"
	"github.com/magazyn/magazyn/internal/application/dto"
	"github.com/magazyn/magazyn/internal/domain"
	"github.com/magazyn/magazyn/pkg/logger"
)

// AuthHandler maneja login y sesión.
type AuthHandler struct {
	uc  *auth.AuthUseCase
	log *logger.Logger
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, log *logger.Logger) *AuthHandler {
	return &AuthHandler{uc: uc, log: log}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	// El cuerpo es siempre JSON, sin importar el Content-Type.
	var in dto.LoginRequest
	if err := c.App().Config().JSONDecoder(c.Body(), &in); err != nil {
		h.log.Warn().Err(err).Msg("login: cuerpo inválido")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.NewError("SERVER_ERROR", msgServerError))
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.NewError("INVALID_CREDENTIALS", "invalid credentials"))
		}
		h.log.Error().Err(err).Msg("login")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.NewError("SERVER_ERROR", msgServerError))
	}
	return c.JSON(out)
}

// Me godoc
// @Summary      Usuario de la sesión actual
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MeResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	p, ok := GetPrincipal(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.NewError("UNAUTHORIZED", "not authenticated"))
	}
	out, err := h.uc.Me(c.UserContext(), p.UserID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
