package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/magazyn/magazyn/internal/application/dto"
	appinv "github.com/magazyn/magazyn/internal/application/inventory"
	"github.com/magazyn/magazyn/pkg/jwt"
)

// LocalPrincipal key de c.Locals con la identidad del token.
const LocalPrincipal = "principal"

// AuthMiddleware valida el Bearer Token JWT y deja el Principal en c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.NewError("MISSING_TOKEN", "authorization header required"))
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.NewError("INVALID_TOKEN", "expected: Bearer <token>"))
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.NewError("MISSING_TOKEN", "empty token"))
		}
		p, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.NewError("INVALID_TOKEN", "invalid or expired token"))
		}
		c.Locals(LocalPrincipal, p)
		return c.Next()
	}
}

// RequireAccessLevel exige un nivel mínimo. Usar después de AuthMiddleware.
func RequireAccessLevel(minLevel int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := GetPrincipal(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.NewError("UNAUTHORIZED", "not authenticated"))
		}
		if p.AccessLevel < minLevel {
			return c.Status(fiber.StatusForbidden).JSON(dto.NewError("FORBIDDEN", "insufficient access level"))
		}
		return c.Next()
	}
}

// GetPrincipal devuelve la identidad del token (después del middleware de auth).
func GetPrincipal(c *fiber.Ctx) (jwt.Principal, bool) {
	p, ok := c.Locals(LocalPrincipal).(jwt.Principal)
	return p, ok
}

func actorFrom(c *fiber.Ctx) appinv.Actor {
	p, _ := GetPrincipal(c)
	return appinv.Actor{UserID: p.UserID, Email: p.Email, AccessLevel: p.AccessLevel}
}
