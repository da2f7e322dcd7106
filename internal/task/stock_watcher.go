// Package task tareas programadas del servidor.
package task

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/magazyn/magazyn/internal/domain/entity"
	"github.com/magazyn/magazyn/internal/domain/inventory"
	"github.com/magazyn/magazyn/pkg/logger"
)

// StockSource lo que el watcher necesita del caso de uso de artículos.
type StockSource interface {
	Stats(ctx context.Context) (inventory.Stats, []*entity.Item, error)
}

// StockWatcher revisa periódicamente el catálogo y registra artículos con stock bajo o agotado.
type StockWatcher struct {
	source  StockSource
	spec    string
	timeout time.Duration
	cron    *cron.Cron
	log     *logger.Logger
}

// NewStockWatcher spec en formato cron con segundos ("0 */15 * * * *").
func NewStockWatcher(source StockSource, spec string, log *logger.Logger) *StockWatcher {
	if log == nil {
		log = logger.Nop()
	}
	return &StockWatcher{
		source:  source,
		spec:    spec,
		timeout: 30 * time.Second,
		cron:    cron.New(cron.WithSeconds()),
		log:     log.Named("stock_watcher"),
	}
}

// Start registra el job y arranca el scheduler. Con spec vacío no hace nada.
func (w *StockWatcher) Start() error {
	if w.spec == "" {
		w.log.Info().Msg("stock watcher deshabilitado")
		return nil
	}
	if _, err := w.cron.AddFunc(w.spec, func() { _ = w.Check(context.Background()) }); err != nil {
		return fmt.Errorf("stock watcher: spec %q: %w", w.spec, err)
	}
	w.cron.Start()
	w.log.Info().Str("spec", w.spec).Msg("stock watcher iniciado")
	return nil
}

// Stop detiene el scheduler y espera al job en curso.
func (w *StockWatcher) Stop() {
	<-w.cron.Stop().Done()
}

// Check ejecuta una revisión.
func (w *StockWatcher) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	stats, short, err := w.source.Stats(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("stock watcher: no se pudo leer el catálogo")
		return err
	}
	if len(short) == 0 {
		w.log.Debug().Int("total", stats.Total).Msg("stock ok")
		return nil
	}
	for _, it := range short {
		w.log.Warn().
			Int64("item_id", it.ID).
			Str("code", it.Code).
			Int("quantity", it.Quantity).
			Str("status", string(inventory.StatusOf(it.Quantity))).
			Msg("stock bajo")
	}
	w.log.Info().
		Int("total", stats.Total).
		Int("low_stock", stats.LowStock).
		Int("out_of_stock", stats.OutOfStock).
		Msg("revisión de stock")
	return nil
}
