package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/magazyn/magazyn/internal/application/dto"
	appinv "github.com/magazyn/magazyn/internal/application/inventory"
	"github.com/magazyn/magazyn/internal/domain/entity"
	"github.com/magazyn/magazyn/internal/domain/inventory"
	"github.com/magazyn/magazyn/pkg/logger"
)

// DashboardHandler vista del dashboard: listado filtrado y estadísticas.
type DashboardHandler struct {
	uc  *appinv.ItemUseCase
	log *logger.Logger
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appinv.ItemUseCase, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{uc: uc, log: log}
}

// Dashboard godoc
// @Summary      Dashboard del almacén
// @Description  items filtrados por search (nombre o código) y category; stats sobre el catálogo completo.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        search    query  string  false  "Texto a buscar"
// @Param        category  query  string  false  "Categoría o all"
// @Success      200  {object}  dto.DashboardResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/warehouse/dashboard [get]
func (h *DashboardHandler) Dashboard(c *fiber.Ctx) error {
	q := inventory.Query{
		Search:   c.Query("search"),
		Category: c.Query("category", entity.CategoryAll),
	}
	if q.Category != entity.CategoryAll && !entity.Category(q.Category).Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewError("INVALID_CATEGORY", "unknown category"))
	}
	out, err := h.uc.Dashboard(c.UserContext(), actorFrom(c), q)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
