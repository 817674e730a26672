package report_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-search/internal/domain/entity"
	"github.com/jhoicas/inventory-search/internal/domain/report"
)

var testColumns = []entity.Column{
	entity.ColumnMaterial,
	entity.ColumnMaterialDescription,
	entity.ColumnVendorNo,
	entity.ColumnVendorName,
	entity.ColumnStoreQuantity,
	entity.ColumnVendorBalance,
}

// rec construye un registro con celdas coherentes con testColumns.
func rec(material, desc, vendorNo, vendorName, qty, balance string) entity.InventoryRecord {
	r := entity.InventoryRecord{
		Material:            material,
		MaterialDescription: desc,
		VendorNo:            vendorNo,
		VendorName:          vendorName,
		Cells:               []string{material, desc, vendorNo, vendorName, qty, balance},
	}
	if d, err := decimal.NewFromString(qty); err == nil {
		r.StoreQuantity = decimal.NewNullDecimal(d)
	}
	if d, err := decimal.NewFromString(balance); err == nil {
		r.VendorBalance = decimal.NewNullDecimal(d)
	}
	return r
}

func sampleTable() *entity.InventoryTable {
	return entity.NewInventoryTable(testColumns, []entity.InventoryRecord{
		rec("A1", "Steel Bolt M8", "V-100", "Acme", "0.00", "100.0"),
		rec("B2", "Copper Wire", "V-200", "Globex", "-3.00", "-50.0"),
		rec("C3", "steel nut", "v-101", "ACME Industrial", "12.50", ""),
		rec("D4", "", "", "", "", ""),
	})
}

func materials(t *entity.InventoryTable) []string {
	out := make([]string, 0, t.Len())
	for _, r := range t.Records {
		out = append(out, r.Material)
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Filter
// ──────────────────────────────────────────────────────────────────────────────

func TestFilter_SinCriteriosDevuelveTablaCompleta(t *testing.T) {
	table := sampleTable()
	out := report.Filter(table, entity.FilterCriteria{})

	assert.Equal(t, table.Columns, out.Columns)
	assert.Equal(t, table.Records, out.Records)
	assert.NotSame(t, table, out, "el filtro debe producir una tabla derivada")
}

func TestFilter_CriteriosEnBlancoNoRestringen(t *testing.T) {
	table := sampleTable()
	criteria := entity.FilterCriteria{Material: "  ", VendorName: "\t"}
	require.True(t, criteria.IsEmpty())
	assert.False(t, entity.FilterCriteria{VendorNo: "V-1"}.IsEmpty())

	out := report.Filter(table, criteria)
	assert.Equal(t, table.Records, out.Records)

	// La tabla derivada no comparte el slice de registros con la de entrada.
	out.Records[0].Material = "cambiado"
	assert.NotEqual(t, "cambiado", table.Records[0].Material)
}

func TestFilter_EscenarioVendorName(t *testing.T) {
	out := report.Filter(sampleTable(), entity.FilterCriteria{VendorName: "acm"})

	assert.Equal(t, []string{"A1", "C3"}, materials(out))
	cells := report.RowCells(out, 0)
	require.NotEmpty(t, cells)
	assert.Equal(t, entity.ColumnStoreQuantity, cells[0].Column)
	assert.Equal(t, entity.HighlightLightRed, cells[0].Hint)
}

func TestFilter_DosFilasSoloLaPrimeraCoincide(t *testing.T) {
	table := entity.NewInventoryTable(testColumns, []entity.InventoryRecord{
		rec("A1", "", "", "Acme", "0.00", ""),
		rec("B2", "", "", "Globex", "-3.00", ""),
	})
	out := report.Filter(table, entity.FilterCriteria{VendorName: "acm"})

	require.Equal(t, 1, out.Len())
	assert.Equal(t, "A1", out.Records[0].Material)
	assert.Equal(t, entity.HighlightLightRed, report.Highlight(entity.ColumnStoreQuantity, out.Cell(&out.Records[0], entity.ColumnStoreQuantity)))
}

func TestFilter_CriteriosSeCombinanConAND(t *testing.T) {
	out := report.Filter(sampleTable(), entity.FilterCriteria{
		MaterialDescription: "STEEL",
		VendorNo:            "v-10",
		VendorName:          "acme",
	})
	assert.Equal(t, []string{"A1", "C3"}, materials(out))

	out = report.Filter(sampleTable(), entity.FilterCriteria{
		MaterialDescription: "steel",
		Material:            "c",
	})
	assert.Equal(t, []string{"C3"}, materials(out))
}

func TestFilter_CampoVacioNuncaCoincide(t *testing.T) {
	out := report.Filter(sampleTable(), entity.FilterCriteria{MaterialDescription: "e"})
	assert.NotContains(t, materials(out), "D4")
}

func TestFilter_PatronSoloEspaciosNoFiltra(t *testing.T) {
	out := report.Filter(sampleTable(), entity.FilterCriteria{Material: "   "})
	assert.Equal(t, 4, out.Len())
}

func TestFilter_NoModificaLaEntrada(t *testing.T) {
	table := sampleTable()
	before := materials(table)
	_ = report.Filter(table, entity.FilterCriteria{Material: "B"})
	assert.Equal(t, before, materials(table))
}

func TestFilter_PropiedadInclusionExclusion(t *testing.T) {
	table := sampleTable()
	criteria := entity.FilterCriteria{VendorName: "ACME"}
	out := report.Filter(table, criteria)

	kept := map[string]bool{}
	for _, r := range out.Records {
		kept[r.Material] = true
		assert.Contains(t, strings.ToLower(r.VendorName), "acme")
	}
	for _, r := range table.Records {
		if !kept[r.Material] {
			assert.NotContains(t, strings.ToLower(r.VendorName), "acme")
		}
	}
}

func TestFilter_TablaNula(t *testing.T) {
	out := report.Filter(nil, entity.FilterCriteria{Material: "x"})
	require.NotNil(t, out)
	assert.Equal(t, 0, out.Len())
}

// ──────────────────────────────────────────────────────────────────────────────
// Highlight
// ──────────────────────────────────────────────────────────────────────────────

func TestHighlight_StoreQuantity(t *testing.T) {
	assert.Equal(t, entity.HighlightLightRed, report.Highlight(entity.ColumnStoreQuantity, "0.00"))
	assert.Equal(t, entity.HighlightStrongRed, report.Highlight(entity.ColumnStoreQuantity, "-5.00"))
	assert.Equal(t, entity.HighlightLightGreen, report.Highlight(entity.ColumnStoreQuantity, "12.50"))
	assert.Equal(t, entity.HighlightLightGreen, report.Highlight(entity.ColumnStoreQuantity, "1,250.00"))
	assert.Equal(t, entity.HighlightStrongRed, report.Highlight(entity.ColumnStoreQuantity, "-1,250.00"))
}

func TestHighlight_VendorBalance(t *testing.T) {
	assert.Equal(t, entity.HighlightLightRed, report.Highlight(entity.ColumnVendorBalance, "-100.0"))
	assert.Equal(t, entity.HighlightNone, report.Highlight(entity.ColumnVendorBalance, "100.0"))
	assert.Equal(t, entity.HighlightNone, report.Highlight(entity.ColumnVendorBalance, "0.0"))
}

func TestHighlight_ValorNoNumericoOColumnaSinEstilo(t *testing.T) {
	assert.Equal(t, entity.HighlightNone, report.Highlight(entity.ColumnStoreQuantity, ""))
	assert.Equal(t, entity.HighlightNone, report.Highlight(entity.ColumnStoreQuantity, "nan"))
	assert.Equal(t, entity.HighlightNone, report.Highlight(entity.ColumnLastReceiveCost, "-1.000"))
	assert.Equal(t, entity.HighlightNone, report.Highlight(entity.ColumnMaterial, "0"))
}

func TestHighlightValue_NuloSinEstilo(t *testing.T) {
	assert.Equal(t, entity.HighlightNone, report.HighlightValue(entity.ColumnStoreQuantity, decimal.NullDecimal{}))
}

func TestDisplayCells_SoloColumnasEstilizadas(t *testing.T) {
	cells := report.DisplayCells(sampleTable())
	require.Len(t, cells, 8)
	assert.Equal(t, entity.DisplayCell{Row: 1, Column: entity.ColumnStoreQuantity, Value: "-3.00", Hint: entity.HighlightStrongRed}, cells[2])
	assert.Equal(t, entity.DisplayCell{Row: 1, Column: entity.ColumnVendorBalance, Value: "-50.0", Hint: entity.HighlightLightRed}, cells[3])
}

func TestHintColor(t *testing.T) {
	assert.Equal(t, "FFEAEA", report.HintColor(entity.ColumnStoreQuantity, entity.HighlightLightRed))
	assert.Equal(t, "FFE6E6", report.HintColor(entity.ColumnVendorBalance, entity.HighlightLightRed))
	assert.Equal(t, "FFCCCC", report.HintColor(entity.ColumnStoreQuantity, entity.HighlightStrongRed))
	assert.Equal(t, "E6FFEA", report.HintColor(entity.ColumnStoreQuantity, entity.HighlightLightGreen))
	assert.Equal(t, "", report.HintColor(entity.ColumnVendorBalance, entity.HighlightNone))
}
