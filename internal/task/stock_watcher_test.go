package task

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magazyn/magazyn/internal/domain/entity"
	"github.com/magazyn/magazyn/internal/domain/inventory"
	"github.com/magazyn/magazyn/pkg/logger"
)

type stubSource struct {
	items []*entity.Item
	err   error
}

func (s stubSource) Stats(context.Context) (inventory.Stats, []*entity.Item, error) {
	if s.err != nil {
		return inventory.Stats{}, nil, s.err
	}
	var short []*entity.Item
	for _, it := range s.items {
		if inventory.StatusOf(it.Quantity) != inventory.StatusOK {
			short = append(short, it)
		}
	}
	return inventory.Summarize(s.items), short, nil
}

func TestCheck_RegistraStockBajo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "debug", Output: &buf})

	w := NewStockWatcher(stubSource{items: []*entity.Item{
		{ID: 1, Code: "A", Quantity: 0},
		{ID: 2, Code: "B", Quantity: 3},
		{ID: 3, Code: "C", Quantity: 30},
	}}, "", log)

	require.NoError(t, w.Check(context.Background()))
	out := buf.String()
	assert.Contains(t, out, `"code":"A"`)
	assert.Contains(t, out, `"code":"B"`)
	assert.NotContains(t, out, `"code":"C"`)
	assert.Contains(t, out, `"out_of_stock":1`)
}

func TestCheck_Error(t *testing.T) {
	w := NewStockWatcher(stubSource{err: errors.New("db down")}, "", nil)
	assert.Error(t, w.Check(context.Background()))
}

func TestStart_SpecInvalido(t *testing.T) {
	w := NewStockWatcher(stubSource{}, "no es cron", nil)
	assert.Error(t, w.Start())
}

func TestStart_Deshabilitado(t *testing.T) {
	w := NewStockWatcher(stubSource{}, "", nil)
	require.NoError(t, w.Start())
	w.Stop()
}

func TestStart_SpecValido(t *testing.T) {
	w := NewStockWatcher(stubSource{}, "0 */15 * * * *", nil)
	require.NoError(t, w.Start())
	w.Stop()
}
