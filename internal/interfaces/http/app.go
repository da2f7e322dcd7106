package http

import (
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/magazyn/magazyn/pkg/logger"
)

// AppConfig parámetros del servidor fiber.
type AppConfig struct {
	Name          string
	ReadTimeout   time.Duration
	ImageMaxBytes int64
	DocsPath      string // swagger.json; si no existe no se monta /docs
	Log           *logger.Logger
}

// multipartOverhead margen sobre el tamaño de imagen para los demás campos del formulario.
const multipartOverhead = 1 << 20

// NewApp crea la app fiber con recover, manejo de errores, /health y /docs.
func NewApp(cfg AppConfig) *fiber.App {
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}
	readTimeout := cfg.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = 10 * time.Second
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ReadTimeout:  readTimeout,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    int(cfg.ImageMaxBytes) + multipartOverhead,
		ErrorHandler: ErrorHandler(log),
	})
	app.Use(recover.New())

	if cfg.DocsPath != "" {
		if _, err := os.Stat(cfg.DocsPath); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.DocsPath,
				Path:     "docs",
				Title:    cfg.Name + " API",
			}))
		} else {
			log.Warn().Str("path", cfg.DocsPath).Msg("swagger.json no encontrado, /docs deshabilitado")
		}
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.Name})
	})
	return app
}
