package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	appinv "github.com/magazyn/magazyn/internal/application/inventory"
	"github.com/magazyn/magazyn/pkg/logger"
)

// ReportHandler reporte PDF del inventario (solo administradores).
type ReportHandler struct {
	uc  *appinv.ItemUseCase
	log *logger.Logger
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *appinv.ItemUseCase, log *logger.Logger) *ReportHandler {
	return &ReportHandler{uc: uc, log: log}
}

// Report godoc
// @Summary      Reporte de inventario en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Success      200
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/warehouse/report.pdf [get]
func (h *ReportHandler) Report(c *fiber.Ctx) error {
	doc, err := h.uc.Report(c.UserContext(), actorFrom(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="inventory-%s.pdf"`, time.Now().Format("20060102")))
	return c.Send(doc)
}
