// Package pdf genera la representación impresa del reporte de inventario filtrado.
//
// Layout de la página A4 horizontal:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título del reporte  │  Fuente + fecha de carga     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: una columna por columna de la fuente (se repite)    │
//	│  filas con relleno en Store_Qunt / Vendor_Balance           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: total de registros                                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/inventory-search/internal/domain/entity"
	domreport "github.com/jhoicas/inventory-search/internal/domain/report"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa report.ReportPDFGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateReportPDF genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateReportPDF(ctx context.Context, title string, table *entity.InventoryTable) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	grid := len(table.Columns)
	if grid == 0 {
		grid = 12
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithMaxGridSize(grid).
		WithLeftMargin(8).WithRightMargin(8).
		WithTopMargin(8).WithBottomMargin(8).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 7}).
		WithTitle(title, true).
		Build()

	m := maroto.New(cfg)

	// El encabezado de la tabla se repite en cada página.
	if err := m.RegisterHeader(
		headerRow(title, table, grid),
		line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}),
		tableHeaderRow(table),
	); err != nil {
		return nil, fmt.Errorf("pdf: registrar encabezado: %w", err)
	}

	for i := range table.Records {
		m.AddRows(detailRow(table, i))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(table, grid))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título (izq) y fuente + fecha de carga (der).
func headerRow(title string, table *entity.InventoryTable, grid int) core.Row {
	left := grid * 2 / 3
	if left < 1 {
		left = 1
	}
	right := grid - left

	loaded := "—"
	if !table.LoadedAt.IsZero() {
		loaded = table.LoadedAt.Format("2006-01-02 15:04")
	}
	r := row.New(14).Add(
		col.New(left).Add(
			text.New(nonEmpty(title, "Inventory Search Report"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
	)
	if right > 0 {
		r.Add(col.New(right).Add(
			text.New("Fuente: "+nonEmpty(filepath.Base(table.Source), "—"), props.Text{
				Size: 7, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New("Cargado: "+loaded, props.Text{
				Size: 7, Align: align.Right, Top: 7, Color: colorGray,
			}),
		))
	}
	return r
}

// tableHeaderRow: nombres de columna sobre fondo azul.
func tableHeaderRow(table *entity.InventoryTable) core.Row {
	cols := make([]core.Col, 0, len(table.Columns))
	for _, c := range table.Columns {
		cols = append(cols, col.New(1).Add(text.New(string(c), props.Text{
			Style: fontstyle.Bold, Size: 7, Align: align.Center,
			Color: colorWhite, Top: 2, Left: 0.5, Right: 0.5,
		})).WithStyle(&props.Cell{BackgroundColor: colorPrimary}))
	}
	return row.New(8).Add(cols...)
}

// detailRow: una fila por registro; las columnas estilizadas llevan su relleno.
func detailRow(table *entity.InventoryTable, i int) core.Row {
	fills := make(map[int]*props.Color, len(entity.StyledColumns))
	for _, dc := range domreport.RowCells(table, i) {
		if c := hexColor(domreport.HintColor(dc.Column, dc.Hint)); c != nil {
			fills[table.ColumnIndex(dc.Column)] = c
		}
	}

	cells := table.Records[i].Cells
	cols := make([]core.Col, 0, len(table.Columns))
	for j := range table.Columns {
		value := ""
		if j < len(cells) {
			value = cells[j]
		}
		c := col.New(1).Add(text.New(value, props.Text{
			Size: 7, Align: align.Left, Top: 1, Left: 0.5, Right: 0.5,
		}))
		if fill, ok := fills[j]; ok {
			c.WithStyle(&props.Cell{BackgroundColor: fill})
		}
		cols = append(cols, c)
	}
	return row.New(6).Add(cols...)
}

// footerRow: total de registros listados.
func footerRow(table *entity.InventoryTable, grid int) core.Row {
	return row.New(8).Add(col.New(grid).Add(
		text.New(fmt.Sprintf("Registros: %d", table.Len()), props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 2, Color: colorPrimary,
		}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" && s != "." {
		return s
	}
	return fallback
}

// hexColor convierte "RRGGBB" a color de Maroto; nil si está vacío o mal formado.
func hexColor(hex string) *props.Color {
	if len(hex) != 6 {
		return nil
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil
	}
	return &props.Color{Red: int(v >> 16 & 0xFF), Green: int(v >> 8 & 0xFF), Blue: int(v & 0xFF)}
}
