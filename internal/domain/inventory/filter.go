package inventory

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/magazyn/magazyn/internal/domain/entity"
)

// Query criterios del listado: texto libre y categoría ("all" o vacío = todas).
type Query struct {
	Search   string
	Category string
}

// Active informa si algún filtro está aplicado.
func (q Query) Active() bool {
	return q.Search != "" || (q.Category != "" && q.Category != entity.CategoryAll)
}

// Filter aplica búsqueda (nombre O código, subcadena sin distinguir mayúsculas) y categoría exacta.
// Ambos filtros se combinan con AND. No modifica la lista de entrada.
func Filter(items []*entity.Item, q Query) []*entity.Item {
	out := make([]*entity.Item, 0, len(items))
	fold := cases.Fold()
	needle := fold.String(q.Search)
	for _, it := range items {
		if q.Search != "" &&
			!strings.Contains(fold.String(it.Name), needle) &&
			!strings.Contains(fold.String(it.Code), needle) {
			continue
		}
		if q.Category != "" && q.Category != entity.CategoryAll && string(it.Category) != q.Category {
			continue
		}
		out = append(out, it)
	}
	return out
}

// Mensajes del estado vacío.
const (
	EmptyFilteredMessage = "no items match the current filters"
	EmptyCatalogMessage  = "the warehouse is empty, add the first item"
)

// EmptyMessage distingue "sin resultados por filtros" de "catálogo vacío".
func EmptyMessage(q Query) string {
	if q.Active() {
		return EmptyFilteredMessage
	}
	return EmptyCatalogMessage
}
