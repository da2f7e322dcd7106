package inventory

import "github.com/magazyn/magazyn/internal/domain/entity"

// LowStockThreshold cantidad máxima (inclusive) considerada stock bajo.
const LowStockThreshold = 5

// StockStatus estado derivado de la cantidad; nunca se persiste.
type StockStatus string

const (
	StatusOut StockStatus = "out"
	StatusLow StockStatus = "low"
	StatusOK  StockStatus = "ok"
)

// StatusOf clasifica una cantidad: 0 → out, 1..5 → low, >5 → ok.
func StatusOf(quantity int) StockStatus {
	switch {
	case quantity <= 0:
		return StatusOut
	case quantity <= LowStockThreshold:
		return StatusLow
	default:
		return StatusOK
	}
}

// Stats contadores del dashboard, calculados siempre sobre el catálogo completo.
type Stats struct {
	Total      int `json:"total"`
	Available  int `json:"available"`
	LowStock   int `json:"lowStock"`
	OutOfStock int `json:"outOfStock"`
}

// Summarize calcula las estadísticas sobre la lista sin filtrar.
func Summarize(items []*entity.Item) Stats {
	s := Stats{Total: len(items)}
	for _, it := range items {
		switch StatusOf(it.Quantity) {
		case StatusOut:
			s.OutOfStock++
		case StatusLow:
			s.LowStock++
		case StatusOK:
			s.Available++
		}
	}
	return s
}
