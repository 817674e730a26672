package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Column identifica una columna de la fuente por su nombre exacto de encabezado.
type Column string

// Columnas requeridas de la fuente (coincidencia exacta, sensible a mayúsculas).
const (
	ColumnMaterial            Column = "Material"
	ColumnMaterialDescription Column = "Material Description"
	ColumnVendorNo            Column = "Vendor No."
	ColumnVendorName          Column = "Vendor Name"
	ColumnLastIssue           Column = "Last_issue"
	ColumnLastReceived        Column = "Last_Received"
	ColumnVendorBalance       Column = "Vendor_Balance"
	ColumnStoreQuantity       Column = "Store_Qunt"
	ColumnLastReceiveCost     Column = "last_RCV_Cost"
)

// RequiredColumns en el orden en que se reportan si faltan.
var RequiredColumns = []Column{
	ColumnMaterial,
	ColumnMaterialDescription,
	ColumnVendorNo,
	ColumnVendorName,
	ColumnLastIssue,
	ColumnLastReceived,
	ColumnVendorBalance,
	ColumnStoreQuantity,
	ColumnLastReceiveCost,
}

// StyledColumns son las únicas columnas con resaltado condicional.
var StyledColumns = []Column{ColumnStoreQuantity, ColumnVendorBalance}

// InventoryRecord es una fila del reporte.
// Cells contiene los valores tal como se muestran, en el orden de columnas de la tabla
// (fechas YYYY-MM-DD, números formateados con separador de miles, resto sin cambios).
// Los campos tipados conservan el valor de comparación calculado una sola vez en la carga.
type InventoryRecord struct {
	Material            string
	MaterialDescription string
	VendorNo            string
	VendorName          string
	LastIssue           *time.Time
	LastReceived        *time.Time
	VendorBalance       decimal.NullDecimal
	StoreQuantity       decimal.NullDecimal
	LastReceiveCost     decimal.NullDecimal
	Cells               []string
}

// InventoryTable conjunto ordenado de registros con esquema fijo.
// Es inmutable después de la carga: los filtros devuelven tablas derivadas.
type InventoryTable struct {
	Columns  []Column
	Records  []InventoryRecord
	Source   string
	LoadedAt time.Time

	index map[Column]int
}

// NewInventoryTable construye la tabla e indexa las posiciones de columna.
func NewInventoryTable(columns []Column, records []InventoryRecord) *InventoryTable {
	t := &InventoryTable{Columns: columns, Records: records}
	t.index = make(map[Column]int, len(columns))
	for i, c := range columns {
		if _, dup := t.index[c]; !dup {
			t.index[c] = i
		}
	}
	return t
}

// ColumnIndex devuelve la posición de la columna o -1 si no existe.
func (t *InventoryTable) ColumnIndex(c Column) int {
	if t == nil || t.index == nil {
		return -1
	}
	if i, ok := t.index[c]; ok {
		return i
	}
	return -1
}

// Derive crea una tabla con el mismo esquema y metadatos pero con otros registros.
func (t *InventoryTable) Derive(records []InventoryRecord) *InventoryTable {
	return &InventoryTable{
		Columns:  t.Columns,
		Records:  records,
		Source:   t.Source,
		LoadedAt: t.LoadedAt,
		index:    t.index,
	}
}

// Header devuelve los nombres de columna como strings.
func (t *InventoryTable) Header() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = string(c)
	}
	return out
}

// Len número de registros.
func (t *InventoryTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Cell devuelve el valor mostrado de la columna c en el registro r ("" si no existe).
func (t *InventoryTable) Cell(r *InventoryRecord, c Column) string {
	i := t.ColumnIndex(c)
	if i < 0 || i >= len(r.Cells) {
		return ""
	}
	return r.Cells[i]
}

// FilterCriteria patrones de subcadena sin distinción de mayúsculas; vacío = sin restricción.
type FilterCriteria struct {
	Material            string
	MaterialDescription string
	VendorNo            string
	VendorName          string
}

// IsEmpty indica si ningún criterio restringe el resultado (los blancos no cuentan).
func (c FilterCriteria) IsEmpty() bool {
	for _, v := range []string{c.Material, c.MaterialDescription, c.VendorNo, c.VendorName} {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// HighlightHint banda de color simbólica, independiente de la tecnología de renderizado.
type HighlightHint string

const (
	HighlightNone       HighlightHint = "none"
	HighlightLightRed   HighlightHint = "light-red"
	HighlightStrongRed  HighlightHint = "strong-red"
	HighlightLightGreen HighlightHint = "light-green"
)

// DisplayCell celda estilizada de una de las columnas con resaltado.
type DisplayCell struct {
	Row    int
	Column Column
	Value  string
	Hint   HighlightHint
}
