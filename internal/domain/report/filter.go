package report

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/jhoicas/inventory-search/internal/domain/entity"
)

// Filter devuelve los registros que cumplen todos los criterios no vacíos (AND),
// comparando subcadenas sin distinción de mayúsculas sobre el valor de texto original.
// Nunca falla y no modifica la tabla de entrada; el orden de filas se conserva.
func Filter(table *entity.InventoryTable, criteria entity.FilterCriteria) *entity.InventoryTable {
	if table == nil {
		return entity.NewInventoryTable(nil, nil)
	}
	if criteria.IsEmpty() {
		return table.Derive(append([]entity.InventoryRecord(nil), table.Records...))
	}
	fold := cases.Fold()
	preds := make([]predicate, 0, 4)
	add := func(pattern string, field func(*entity.InventoryRecord) string) {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			return
		}
		preds = append(preds, predicate{pattern: fold.String(pattern), field: field})
	}
	add(criteria.Material, func(r *entity.InventoryRecord) string { return r.Material })
	add(criteria.MaterialDescription, func(r *entity.InventoryRecord) string { return r.MaterialDescription })
	add(criteria.VendorNo, func(r *entity.InventoryRecord) string { return r.VendorNo })
	add(criteria.VendorName, func(r *entity.InventoryRecord) string { return r.VendorName })

	out := make([]entity.InventoryRecord, 0, len(table.Records))
	for i := range table.Records {
		r := &table.Records[i]
		if matchesAll(fold, r, preds) {
			out = append(out, *r)
		}
	}
	return table.Derive(out)
}

type predicate struct {
	pattern string
	field   func(*entity.InventoryRecord) string
}

func matchesAll(fold cases.Caser, r *entity.InventoryRecord, preds []predicate) bool {
	for _, p := range preds {
		v := p.field(r)
		// Un campo nulo/vacío nunca coincide con un patrón no vacío.
		if v == "" || !strings.Contains(fold.String(v), p.pattern) {
			return false
		}
	}
	return true
}
