package inventory

import (
	"context"

	"github.com/magazyn/magazyn/internal/domain/entity"
	"github.com/magazyn/magazyn/internal/domain/inventory"
)

// ReportGenerator genera el reporte PDF del inventario completo.
type ReportGenerator interface {
	InventoryReport(ctx context.Context, items []*entity.Item, stats inventory.Stats, generatedBy string) ([]byte, error)
}
