// Package dashboard vista de inventario del cliente: carga el catálogo una vez
// y filtra localmente sin volver a la red.
package dashboard

import (
	"context"
	"fmt"

	"github.com/magazyn/magazyn/internal/application/dto"
	"github.com/magazyn/magazyn/internal/domain/entity"
	"github.com/magazyn/magazyn/internal/domain/inventory"
)

// Source de dónde sale el catálogo.
type Source interface {
	ListItems(ctx context.Context) ([]dto.ItemResponse, error)
}

// View estado de la vista. No es segura para uso concurrente.
type View struct {
	src   Source
	user  dto.SessionUser
	query inventory.Query

	items    []*entity.Item
	byID     map[int64]dto.ItemResponse
	filtered []dto.ItemResponse
	stats    inventory.Stats
	loaded   bool
}

// NewView vista para el usuario de la sesión.
func NewView(src Source, user dto.SessionUser) *View {
	return &View{
		src:   src,
		user:  user,
		query: inventory.Query{Category: entity.CategoryAll},
	}
}

// Load trae el catálogo y recalcula estadísticas y filtro.
func (v *View) Load(ctx context.Context) error {
	list, err := v.src.ListItems(ctx)
	if err != nil {
		return err
	}
	v.items = make([]*entity.Item, 0, len(list))
	v.byID = make(map[int64]dto.ItemResponse, len(list))
	for _, it := range list {
		v.items = append(v.items, &entity.Item{
			ID:       it.ID,
			Name:     it.Name,
			Code:     it.Code,
			Category: entity.Category(it.Category),
			Quantity: it.Quantity,
		})
		v.byID[it.ID] = it
	}
	v.stats = inventory.Summarize(v.items)
	v.loaded = true
	v.refilter()
	return nil
}

// SetSearch cambia el texto de búsqueda.
func (v *View) SetSearch(s string) {
	v.query.Search = s
	v.refilter()
}

// SetCategory cambia la categoría; "" equivale a all.
func (v *View) SetCategory(c string) error {
	if c == "" {
		c = entity.CategoryAll
	}
	if c != entity.CategoryAll && !entity.Category(c).Valid() {
		return fmt.Errorf("unknown category %q", c)
	}
	v.query.Category = c
	v.refilter()
	return nil
}

func (v *View) refilter() {
	if !v.loaded {
		return
	}
	matched := inventory.Filter(v.items, v.query)
	v.filtered = make([]dto.ItemResponse, 0, len(matched))
	for _, it := range matched {
		v.filtered = append(v.filtered, v.byID[it.ID])
	}
}

// Query filtros actuales.
func (v *View) Query() inventory.Query { return v.query }

// Filtered artículos visibles con los filtros actuales.
func (v *View) Filtered() []dto.ItemResponse { return v.filtered }

// Stats sobre el catálogo completo, independiente de los filtros.
func (v *View) Stats() inventory.Stats { return v.stats }

// EmptyMessage mensaje cuando no hay filas visibles; "" si las hay.
func (v *View) EmptyMessage() string {
	if len(v.filtered) > 0 {
		return ""
	}
	return inventory.EmptyMessage(v.query)
}

// Actions acciones por fila y de cabecera para el nivel del usuario.
func (v *View) Actions() inventory.Actions {
	return inventory.ActionsFor(v.user.AccessLevel)
}

// Header línea de cabecera: nombre, rol y nivel.
func (v *View) Header() string {
	return fmt.Sprintf("%s · %s (LVL %d)", v.user.Name, RoleLabel(v.user.Role), v.user.AccessLevel)
}

// RoleLabel nombre visible del rol.
func RoleLabel(role string) string {
	switch role {
	case entity.RoleAdmin:
		return "Administrator"
	case entity.RoleUser:
		return "User"
	default:
		return role
	}
}
