// Package spreadsheet lee la fuente del reporte de inventario (.xlsx o .csv) y
// exporta tablas filtradas a CSV y a hoja de cálculo.
package spreadsheet

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/inventory-search/internal/domain"
	"github.com/jhoicas/inventory-search/internal/domain/entity"
)

// Reader implementa report.SourceReader.
type Reader struct {
	log zerolog.Logger
	now func() time.Time
}

// NewReader construye el lector.
func NewReader(log zerolog.Logger) *Reader {
	return &Reader{log: log, now: time.Now}
}

// Read abre la fuente según su extensión y devuelve la tabla normalizada.
// Solo se lee la primera hoja de un libro.
func (r *Reader) Read(ctx context.Context, path string) (*entity.InventoryTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		rows    [][]string
		dates   dateMode
		readErr error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		rows, dates, readErr = readWorkbook(path)
	case ".csv":
		rows, readErr = readCSV(path)
		dates = dateMode{}
	default:
		return nil, fmt.Errorf("%w: extensión no soportada %q", domain.ErrSourceUnavailable, filepath.Ext(path))
	}
	if readErr != nil {
		return nil, readErr
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s no tiene encabezado", domain.ErrSourceUnavailable, path)
	}

	n := newNormalizer(dates)
	table, err := n.build(rows[0], rows[1:])
	if err != nil {
		return nil, err
	}
	table.Source = path
	table.LoadedAt = r.now()

	r.log.Info().
		Str("source", path).
		Int("rows", table.Len()).
		Int("columns", len(table.Columns)).
		Msg("fuente de inventario cargada")
	if n.badDates > 0 || n.badNumbers > 0 {
		r.log.Debug().
			Str("source", path).
			Int("invalid_dates", n.badDates).
			Int("invalid_numbers", n.badNumbers).
			Msg("celdas inválidas tratadas como vacías")
	}
	if n.truncated > 0 {
		r.log.Debug().
			Str("source", path).
			Int("truncated_rows", n.truncated).
			Msg("celdas fuera del encabezado descartadas")
	}
	return table, nil
}

// readWorkbook lee la primera hoja con valores crudos (sin formato numérico de Excel),
// de modo que las fechas llegan como número de serie.
func readWorkbook(path string) ([][]string, dateMode, error) {
	opts := excelize.Options{RawCellValue: true}
	f, err := excelize.OpenFile(path, opts)
	if err != nil {
		return nil, dateMode{}, fmt.Errorf("%w: abrir %s: %v", domain.ErrSourceUnavailable, path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, dateMode{}, fmt.Errorf("%w: %s no tiene hojas", domain.ErrSourceUnavailable, path)
	}
	rows, err := f.GetRows(sheets[0], opts)
	if err != nil {
		return nil, dateMode{}, fmt.Errorf("%w: leer hoja %q: %v", domain.ErrSourceUnavailable, sheets[0], err)
	}

	mode := dateMode{serial: true}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		mode.date1904 = *props.Date1904
	}
	return rows, mode, nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// readCSV lee un CSV delimitado por comas. Si el contenido no es UTF-8 válido se
// decodifica como Windows-1252 (exportaciones típicas de Excel en Windows).
func readCSV(path string) ([][]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if !utf8.Valid(raw) {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: decodificar %s: %v", domain.ErrSourceUnavailable, path, err)
		}
		raw = decoded
	}
	cr := csv.NewReader(bytes.NewReader(raw))
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: CSV corrupto %s: %v", domain.ErrSourceUnavailable, path, err)
	}
	return rows, nil
}
