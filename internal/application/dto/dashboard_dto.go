package dto

import "github.com/magazyn/magazyn/internal/domain/inventory"

// DashboardResponse respuesta de GET /api/warehouse/dashboard.
// Items está filtrado; Stats se calcula sobre el catálogo completo.
type DashboardResponse struct {
	Success      bool              `json:"success"`
	Search       string            `json:"search"`
	Category     string            `json:"category"`
	Categories   []string          `json:"categories"`
	Items        []ItemResponse    `json:"items"`
	Stats        inventory.Stats   `json:"stats"`
	Actions      inventory.Actions `json:"actions"`
	EmptyMessage string            `json:"emptyMessage,omitempty"`
}
