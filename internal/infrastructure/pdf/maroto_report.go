// Package pdf genera el reporte de inventario en PDF (A4) con Maroto v2.
//
// Layout:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título + fecha │ generado por                       │
//	│  STATS: total / disponibles / stock bajo / sin stock        │
//	│  TABLA: Código | Nombre | Categoría | Cant. | Estado | P.C. | P.V. │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appinv "github.com/magazyn/magazyn/internal/application/inventory"
	"github.com/magazyn/magazyn/internal/domain/entity"
	"github.com/magazyn/magazyn/internal/domain/inventory"
)

var _ appinv.ReportGenerator = (*ReportGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 33, Green: 64, Blue: 110}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 180, Green: 30, Blue: 30}
	colorAmber   = &props.Color{Red: 190, Green: 120, Blue: 0}
)

// ReportGenerator implementa inventory.ReportGenerator.
type ReportGenerator struct {
	appName string
	now     func() time.Time
}

// NewReportGenerator construye el generador.
func NewReportGenerator(appName string) *ReportGenerator {
	return &ReportGenerator{appName: appName, now: time.Now}
}

// InventoryReport genera el PDF y devuelve sus bytes.
func (g *ReportGenerator) InventoryReport(
	_ context.Context,
	items []*entity.Item,
	stats inventory.Stats,
	generatedBy string,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Inventory report", true).
		WithAuthor(g.appName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.appName, generatedBy, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(statsRow(stats))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(itemRows(items)...)
	if len(items) == 0 {
		m.AddRows(text.NewRow(8, inventory.EmptyCatalogMessage, props.Text{Align: align.Center, Color: colorGray, Top: 2}))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(appName, generatedBy string, at time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(appName, props.Text{Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1}),
			text.New("Inventory report", props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New(at.Format("2006-01-02 15:04"), props.Text{Size: 9, Align: align.Right, Top: 2}),
			text.New("by "+generatedBy, props.Text{Size: 8, Align: align.Right, Top: 9, Color: colorGray}),
		),
	)
}

func statsRow(s inventory.Stats) core.Row {
	cell := func(label string, v int, c *props.Color) core.Col {
		return col.New(3).Add(
			text.New(fmt.Sprintf("%d", v), props.Text{Style: fontstyle.Bold, Size: 13, Align: align.Center, Color: c, Top: 1}),
			text.New(label, props.Text{Size: 7, Align: align.Center, Top: 8, Color: colorGray}),
		)
	}
	return row.New(14).Add(
		cell("total", s.Total, colorPrimary),
		cell("available", s.Available, colorPrimary),
		cell("low stock", s.LowStock, colorAmber),
		cell("out of stock", s.OutOfStock, colorRed),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Align: a, Top: 2, Color: colorPrimary}))
	}
	return row.New(8).Add(
		h("Code", 2, align.Left),
		h("Name", 3, align.Left),
		h("Category", 2, align.Left),
		h("Qty", 1, align.Right),
		h("Status", 1, align.Center),
		h("Purchase", 1, align.Right),
		h("Sale", 2, align.Right),
	)
}

func itemRows(items []*entity.Item) []core.Row {
	rows := make([]core.Row, 0, len(items))
	for _, it := range items {
		status := inventory.StatusOf(it.Quantity)
		statusProps := props.Text{Size: 8, Align: align.Center, Top: 1}
		switch status {
		case inventory.StatusOut:
			statusProps.Color = colorRed
		case inventory.StatusLow:
			statusProps.Color = colorAmber
		}
		rows = append(rows, row.New(6).Add(
			col.New(2).Add(text.New(it.Code, props.Text{Size: 8, Top: 1})),
			col.New(3).Add(text.New(it.Name, props.Text{Size: 8, Top: 1})),
			col.New(2).Add(text.New(string(it.Category), props.Text{Size: 8, Top: 1})),
			col.New(1).Add(text.New(fmt.Sprintf("%d %s", it.Quantity, it.Unit), props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(1).Add(text.New(string(status), statusProps)),
			col.New(1).Add(text.New(money(it.PurchasePrice), props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(2).Add(text.New(money(it.SalePrice), props.Text{Size: 8, Align: align.Right, Top: 1})),
		))
	}
	return rows
}

func money(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}
	return d.StringFixed(2)
}
