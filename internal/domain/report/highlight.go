package report

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-search/internal/domain/entity"
	"github.com/jhoicas/inventory-search/pkg/numfmt"
)

// Highlight calcula la banda de color de una celda a partir de su valor formateado.
// Si el valor no es numérico (tras quitar separadores de miles) devuelve HighlightNone.
func Highlight(column entity.Column, formattedValue string) entity.HighlightHint {
	d, err := numfmt.Parse(formattedValue)
	if err != nil {
		return entity.HighlightNone
	}
	return HighlightValue(column, decimal.NewNullDecimal(d))
}

// HighlightValue aplica las mismas reglas sobre el decimal calculado en la carga.
//
//	Store_Qunt:     == 0 → light-red, < 0 → strong-red, > 0 → light-green
//	Vendor_Balance: < 0  → light-red, resto sin estilo
func HighlightValue(column entity.Column, v decimal.NullDecimal) entity.HighlightHint {
	if !v.Valid {
		return entity.HighlightNone
	}
	switch column {
	case entity.ColumnStoreQuantity:
		switch v.Decimal.Sign() {
		case 0:
			return entity.HighlightLightRed
		case -1:
			return entity.HighlightStrongRed
		default:
			return entity.HighlightLightGreen
		}
	case entity.ColumnVendorBalance:
		if v.Decimal.IsNegative() {
			return entity.HighlightLightRed
		}
	}
	return entity.HighlightNone
}

// DisplayCells produce las celdas estilizadas (solo columnas con resaltado) de toda la tabla.
func DisplayCells(table *entity.InventoryTable) []entity.DisplayCell {
	out := make([]entity.DisplayCell, 0, table.Len()*len(entity.StyledColumns))
	for i := range table.Records {
		out = append(out, RowCells(table, i)...)
	}
	return out
}

// RowCells celdas estilizadas de la fila i. Las columnas ausentes se omiten.
func RowCells(table *entity.InventoryTable, i int) []entity.DisplayCell {
	r := &table.Records[i]
	cells := make([]entity.DisplayCell, 0, len(entity.StyledColumns))
	for _, col := range entity.StyledColumns {
		if table.ColumnIndex(col) < 0 {
			continue
		}
		value := table.Cell(r, col)
		hint := Highlight(col, value)
		if n := numericValue(r, col); n.Valid {
			hint = HighlightValue(col, n)
		}
		cells = append(cells, entity.DisplayCell{Row: i, Column: col, Value: value, Hint: hint})
	}
	return cells
}

func numericValue(r *entity.InventoryRecord, col entity.Column) decimal.NullDecimal {
	switch col {
	case entity.ColumnStoreQuantity:
		return r.StoreQuantity
	case entity.ColumnVendorBalance:
		return r.VendorBalance
	case entity.ColumnLastReceiveCost:
		return r.LastReceiveCost
	}
	return decimal.NullDecimal{}
}

// Colores de fondo por banda (hex RGB sin '#').
// light-red no es uniforme: Store_Qunt en cero usa un tono distinto a Vendor_Balance negativo.
const (
	colorStoreZero      = "FFEAEA"
	colorStoreNegative  = "FFCCCC"
	colorStorePositive  = "E6FFEA"
	colorVendorNegative = "FFE6E6"
)

// HintColor devuelve el color de fondo para la banda en la columna dada ("" = sin fondo).
func HintColor(column entity.Column, hint entity.HighlightHint) string {
	switch hint {
	case entity.HighlightLightRed:
		if column == entity.ColumnVendorBalance {
			return colorVendorNegative
		}
		return colorStoreZero
	case entity.HighlightStrongRed:
		return colorStoreNegative
	case entity.HighlightLightGreen:
		return colorStorePositive
	}
	return ""
}
