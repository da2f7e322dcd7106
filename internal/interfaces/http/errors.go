package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/magazyn/magazyn/internal/application/dto"
	"github.com/magazyn/magazyn/internal/domain"
	"github.com/magazyn/magazyn/pkg/logger"
)

// Mensajes genéricos de error.
const (
	msgServerError = "server error"
	msgNotFound    = "item not found"
	msgDuplicate   = "an item with this code already exists"
	msgForbidden   = "insufficient access level"
	msgValidation  = "validation failed"
)

// ErrorHandler handler de errores de fiber: errores no controlados y panics recuperados
// terminan en el sobre {success:false, code, message}.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code := "HTTP_ERROR"
			switch fe.Code {
			case fiber.StatusNotFound:
				code = "NOT_FOUND"
			case fiber.StatusRequestEntityTooLarge:
				code = "PAYLOAD_TOO_LARGE"
			case fiber.StatusMethodNotAllowed:
				code = "METHOD_NOT_ALLOWED"
			}
			if fe.Code < fiber.StatusInternalServerError {
				return c.Status(fe.Code).JSON(dto.NewError(code, fe.Message))
			}
		}
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error no controlado")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.NewError("SERVER_ERROR", msgServerError))
	}
}

// writeError traduce errores de dominio comunes a respuestas HTTP.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.NewError("NOT_FOUND", msgNotFound))
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.NewError("FORBIDDEN", msgForbidden))
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.NewError("UNAUTHORIZED", "not authenticated"))
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.NewError("SERVER_ERROR", msgServerError))
	}
}
