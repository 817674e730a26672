package spreadsheet

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/inventory-search/internal/domain"
	"github.com/jhoicas/inventory-search/internal/domain/entity"
	domreport "github.com/jhoicas/inventory-search/internal/domain/report"
)

// SheetName nombre de la única hoja exportada.
const SheetName = "Sheet1"

// Exporter implementa report.Exporter.
type Exporter struct{}

// NewExporter construye el exportador.
func NewExporter() *Exporter { return &Exporter{} }

// CSVBytes serializa la tabla como CSV UTF-8: encabezado + una línea por registro
// con los valores tal como se muestran.
func (e *Exporter) CSVBytes(table *entity.InventoryTable) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(table.Header()); err != nil {
		return nil, fmt.Errorf("csv: encabezado: %w", err)
	}
	for i := range table.Records {
		if err := w.Write(rowValues(table, i)); err != nil {
			return nil, fmt.Errorf("csv: fila %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	return buf.Bytes(), nil
}

// SpreadsheetBytes genera el libro en memoria.
func (e *Exporter) SpreadsheetBytes(table *entity.InventoryTable) ([]byte, error) {
	f, err := buildWorkbook(table)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: serializar: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteSpreadsheet escribe el libro en destinationPath, sobrescribiendo si existe.
// Escribe primero en un temporal del mismo directorio y luego renombra; el handle se
// cierra siempre y el temporal se elimina si algo falla.
func (e *Exporter) WriteSpreadsheet(ctx context.Context, table *entity.InventoryTable, destinationPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(destinationPath)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDestinationUnwritable, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s no es un directorio", domain.ErrDestinationUnwritable, dir)
	}

	f, err := buildWorkbook(table)
	if err != nil {
		return err
	}
	defer f.Close()

	tmp := filepath.Join(dir, "."+uuid.NewString()+".xlsx.tmp")
	fh, err := os.OpenFile(tmp, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDestinationUnwritable, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = fh.Close()
			_ = os.Remove(tmp)
		}
	}()

	if _, err := f.WriteTo(fh); err != nil {
		return fmt.Errorf("%w: escribir: %v", domain.ErrDestinationUnwritable, err)
	}
	if err := fh.Sync(); err != nil {
		return fmt.Errorf("%w: sync: %v", domain.ErrDestinationUnwritable, err)
	}
	if err := fh.Close(); err != nil {
		return fmt.Errorf("%w: cerrar: %v", domain.ErrDestinationUnwritable, err)
	}
	if err := os.Rename(tmp, destinationPath); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDestinationUnwritable, err)
	}
	committed = true
	return nil
}

// buildWorkbook crea una hoja con encabezado en negrita y los rellenos de color del
// reporte en las columnas estilizadas.
func buildWorkbook(table *entity.InventoryTable) (*excelize.File, error) {
	f := excelize.NewFile()
	ok := false
	defer func() {
		if !ok {
			_ = f.Close()
		}
	}()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo encabezado: %w", err)
	}
	fills := newFillStyles(f)

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return nil, fmt.Errorf("xlsx: stream writer: %w", err)
	}

	header := make([]interface{}, len(table.Columns))
	for i, c := range table.Columns {
		header[i] = excelize.Cell{StyleID: headerStyle, Value: string(c)}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return nil, fmt.Errorf("xlsx: encabezado: %w", err)
	}

	for i := range table.Records {
		values := rowValues(table, i)
		row := make([]interface{}, len(values))
		for j, v := range values {
			row[j] = excelize.Cell{Value: v}
		}
		for _, dc := range domreport.RowCells(table, i) {
			style, err := fills.get(dc.Column, dc.Hint)
			if err != nil {
				return nil, err
			}
			if style != 0 {
				j := table.ColumnIndex(dc.Column)
				row[j] = excelize.Cell{StyleID: style, Value: values[j]}
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("xlsx: celda: %w", err)
		}
		if err := sw.SetRow(cell, row); err != nil {
			return nil, fmt.Errorf("xlsx: fila %d: %w", i+1, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return nil, fmt.Errorf("xlsx: flush: %w", err)
	}
	ok = true
	return f, nil
}

// fillStyles crea bajo demanda un estilo de relleno por color.
type fillStyles struct {
	f     *excelize.File
	byHex map[string]int
}

func newFillStyles(f *excelize.File) *fillStyles {
	return &fillStyles{f: f, byHex: make(map[string]int)}
}

func (s *fillStyles) get(col entity.Column, hint entity.HighlightHint) (int, error) {
	hex := domreport.HintColor(col, hint)
	if hex == "" {
		return 0, nil
	}
	if id, ok := s.byHex[hex]; ok {
		return id, nil
	}
	id, err := s.f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{hex}},
	})
	if err != nil {
		return 0, fmt.Errorf("xlsx: estilo %s: %w", hex, err)
	}
	s.byHex[hex] = id
	return id, nil
}

// rowValues valores mostrados de la fila i, ajustados al número de columnas.
func rowValues(table *entity.InventoryTable, i int) []string {
	cells := table.Records[i].Cells
	if len(cells) == len(table.Columns) {
		return cells
	}
	out := make([]string, len(table.Columns))
	copy(out, cells)
	return out
}
