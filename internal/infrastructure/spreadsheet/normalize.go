package spreadsheet

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/inventory-search/internal/domain"
	"github.com/jhoicas/inventory-search/internal/domain/entity"
	"github.com/jhoicas/inventory-search/pkg/numfmt"
)

// DateLayout formato de salida de las columnas de fecha.
const DateLayout = "2006-01-02"

// Decimales por columna numérica formateada.
var numericPlaces = map[entity.Column]int{
	entity.ColumnVendorBalance:   1,
	entity.ColumnStoreQuantity:   2,
	entity.ColumnLastReceiveCost: 3,
}

// Formatos de texto aceptados para fechas, en orden de prueba (mes antes que día).
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"02-Jan-2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"20060102",
}

// maxExcelSerial corresponde a 9999-12-31, la última fecha que Excel representa.
const maxExcelSerial = 2958465

// dateMode indica cómo interpretar valores numéricos en columnas de fecha.
type dateMode struct {
	serial   bool // número de serie de Excel
	date1904 bool
}

type normalizer struct {
	dates      dateMode
	badDates   int
	badNumbers int
	truncated  int // filas con más celdas que columnas en el encabezado
}

func newNormalizer(dates dateMode) *normalizer {
	return &normalizer{dates: dates}
}

// build valida el encabezado y normaliza cada fila una sola vez.
func (n *normalizer) build(header []string, rows [][]string) (*entity.InventoryTable, error) {
	columns := make([]entity.Column, len(header))
	pos := make(map[entity.Column]int, len(header))
	for i, h := range header {
		c := entity.Column(h)
		columns[i] = c
		if _, dup := pos[c]; !dup {
			pos[c] = i
		}
	}

	var missing []string
	for _, c := range entity.RequiredColumns {
		if _, ok := pos[c]; !ok {
			missing = append(missing, string(c))
		}
	}
	if len(missing) > 0 {
		return nil, &domain.SchemaError{Missing: missing}
	}

	records := make([]entity.InventoryRecord, 0, len(rows))
	for _, raw := range rows {
		if isBlank(raw) {
			continue
		}
		// Las celdas sin encabezado se descartan.
		cells := make([]string, len(columns))
		if copy(cells, raw) < len(raw) && !isBlank(raw[len(columns):]) {
			n.truncated++
		}

		rec := entity.InventoryRecord{
			Material:            cells[pos[entity.ColumnMaterial]],
			MaterialDescription: cells[pos[entity.ColumnMaterialDescription]],
			VendorNo:            cells[pos[entity.ColumnVendorNo]],
			VendorName:          cells[pos[entity.ColumnVendorName]],
		}
		rec.LastIssue = n.date(cells, pos[entity.ColumnLastIssue])
		rec.LastReceived = n.date(cells, pos[entity.ColumnLastReceived])
		rec.VendorBalance = n.number(cells, pos[entity.ColumnVendorBalance], numericPlaces[entity.ColumnVendorBalance])
		rec.StoreQuantity = n.number(cells, pos[entity.ColumnStoreQuantity], numericPlaces[entity.ColumnStoreQuantity])
		rec.LastReceiveCost = n.number(cells, pos[entity.ColumnLastReceiveCost], numericPlaces[entity.ColumnLastReceiveCost])
		rec.Cells = cells
		records = append(records, rec)
	}
	return entity.NewInventoryTable(columns, records), nil
}

// date interpreta la celda i como fecha y la reescribe como YYYY-MM-DD ("" si es inválida).
func (n *normalizer) date(cells []string, i int) *time.Time {
	raw := strings.TrimSpace(cells[i])
	if raw == "" {
		cells[i] = ""
		return nil
	}
	t, ok := n.parseDate(raw)
	if !ok {
		n.badDates++
		cells[i] = ""
		return nil
	}
	cells[i] = t.Format(DateLayout)
	return &t
}

func (n *normalizer) parseDate(raw string) (time.Time, bool) {
	// Solo se acepta como número de serie lo que cae en el rango de Excel; el resto
	// (p. ej. "20240115") se prueba con los formatos de texto.
	if n.dates.serial {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 && v <= maxExcelSerial {
			if t, err := excelize.ExcelDateToTime(v, n.dates.date1904); err == nil {
				return t, true
			}
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// number interpreta la celda i como decimal y la reescribe con places decimales y
// separador de miles. Valores vacíos o no numéricos quedan nulos y se muestran vacíos.
func (n *normalizer) number(cells []string, i int, places int) decimal.NullDecimal {
	raw := strings.TrimSpace(cells[i])
	if raw == "" {
		cells[i] = ""
		return decimal.NullDecimal{}
	}
	d, err := numfmt.Parse(raw)
	if err != nil {
		n.badNumbers++
		cells[i] = ""
		return decimal.NullDecimal{}
	}
	// Se conserva el valor redondeado para que el resaltado coincida con lo mostrado.
	d = d.Round(int32(places))
	cells[i] = numfmt.Fixed(d, places)
	return decimal.NewNullDecimal(d)
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
