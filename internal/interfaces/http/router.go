package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/magazyn/magazyn/internal/application/auth"
	appinv "github.com/magazyn/magazyn/internal/application/inventory"
	"github.com/magazyn/magazyn/internal/domain/entity"
	"github.com/magazyn/magazyn/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	ItemUC    *appinv.ItemUseCase
	JWTSecret string
	Log       *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	api := app.Group("/api")
	requireAuth := AuthMiddleware(deps.JWTSecret)

	// Auth
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, log.Named("auth"))
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", requireAuth, authHandler.Me)

	// Almacén (requiere Bearer Token; las escrituras nivel ≥ 2, el reporte nivel 3)
	warehouse := api.Group("/warehouse", requireAuth, RequireAccessLevel(entity.AccessLevelViewer))
	itemHandler := NewItemHandler(deps.ItemUC, log.Named("items"))
	editor := RequireAccessLevel(entity.AccessLevelEditor)

	warehouse.Get("/items", itemHandler.List)
	warehouse.Post("/items", editor, itemHandler.Create)
	warehouse.Get("/items/:id", itemHandler.GetByID)
	warehouse.Patch("/items/:id", editor, itemHandler.Update)
	warehouse.Delete("/items/:id", editor, itemHandler.Delete)
	warehouse.Get("/items/:id/image", itemHandler.Image)

	dashboardHandler := NewDashboardHandler(deps.ItemUC, log.Named("dashboard"))
	warehouse.Get("/dashboard", dashboardHandler.Dashboard)

	reportHandler := NewReportHandler(deps.ItemUC, log.Named("report"))
	warehouse.Get("/report.pdf", RequireAccessLevel(entity.AccessLevelAdmin), reportHandler.Report)
}
