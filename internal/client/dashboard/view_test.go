package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magazyn/magazyn/internal/application/dto"
	"github.com/magazyn/magazyn/internal/domain/inventory"
)

type fakeSource struct {
	items []dto.ItemResponse
	calls int
	err   error
}

func (f *fakeSource) ListItems(context.Context) ([]dto.ItemResponse, error) {
	f.calls++
	return f.items, f.err
}

func catalog() []dto.ItemResponse {
	return []dto.ItemResponse{
		{ID: 1, Name: "ABCdef", Code: "X1", Category: "elektronika", Quantity: 0},
		{ID: 2, Name: "kabel", Code: "abc-2", Category: "elektronika", Quantity: 3},
		{ID: 3, Name: "Młotek", Code: "N1", Category: "narzędzia", Quantity: 10},
	}
}

func TestView_FiltraSinRed(t *testing.T) {
	src := &fakeSource{items: catalog()}
	v := NewView(src, dto.SessionUser{Name: "Waldek", Role: "user", AccessLevel: 2})
	require.NoError(t, v.Load(context.Background()))
	assert.Len(t, v.Filtered(), 3)

	v.SetSearch("abc")
	assert.Len(t, v.Filtered(), 2, "coincide por nombre o por código")

	require.NoError(t, v.SetCategory("narzędzia"))
	assert.Empty(t, v.Filtered())
	assert.Equal(t, inventory.EmptyFilteredMessage, v.EmptyMessage())

	v.SetSearch("MŁOT")
	require.Len(t, v.Filtered(), 1)
	assert.Equal(t, int64(3), v.Filtered()[0].ID)
	assert.Empty(t, v.EmptyMessage())

	assert.Equal(t, 1, src.calls)
	assert.Equal(t, inventory.Stats{Total: 3, Available: 1, LowStock: 1, OutOfStock: 1}, v.Stats())
}

func TestView_CategoriaDesconocida(t *testing.T) {
	v := NewView(&fakeSource{}, dto.SessionUser{AccessLevel: 1})
	assert.Error(t, v.SetCategory("food"))
	assert.NoError(t, v.SetCategory(""))
	assert.Equal(t, "all", v.Query().Category)
}

func TestView_CatalogoVacio(t *testing.T) {
	v := NewView(&fakeSource{}, dto.SessionUser{AccessLevel: 1})
	require.NoError(t, v.Load(context.Background()))
	assert.Equal(t, inventory.EmptyCatalogMessage, v.EmptyMessage())
	assert.Equal(t, inventory.Stats{}, v.Stats())
}

func TestView_ErrorDeCarga(t *testing.T) {
	v := NewView(&fakeSource{err: errors.New("boom")}, dto.SessionUser{AccessLevel: 1})
	assert.Error(t, v.Load(context.Background()))
}

func TestView_AccionesYCabecera(t *testing.T) {
	admin := NewView(&fakeSource{}, dto.SessionUser{Name: "Szymon", Role: "admin", AccessLevel: 3})
	assert.True(t, admin.Actions().Admin)
	assert.Equal(t, "Szymon · Administrator (LVL 3)", admin.Header())

	viewer := NewView(&fakeSource{}, dto.SessionUser{Name: "Ola", Role: "user", AccessLevel: 1})
	a := viewer.Actions()
	assert.True(t, a.View)
	assert.False(t, a.Add)
	assert.False(t, a.Edit)
	assert.False(t, a.Delete)
}
