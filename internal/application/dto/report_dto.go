package dto

import (
	"strings"
	"time"

	"github.com/jhoicas/inventory-search/internal/domain/entity"
)

// ReportQuery filtros de texto libre del reporte (query string o flags de CLI).
type ReportQuery struct {
	Material    string `query:"material" validate:"max=200"`
	Description string `query:"description" validate:"max=200"`
	VendorNo    string `query:"vendor_no" validate:"max=200"`
	VendorName  string `query:"vendor_name" validate:"max=200"`
	PageRequest
}

// Criteria convierte la consulta en criterios de filtro del dominio.
func (q ReportQuery) Criteria() entity.FilterCriteria {
	return entity.FilterCriteria{
		Material:            strings.TrimSpace(q.Material),
		MaterialDescription: strings.TrimSpace(q.Description),
		VendorNo:            strings.TrimSpace(q.VendorNo),
		VendorName:          strings.TrimSpace(q.VendorName),
	}
}

// ReportResponse tabla filtrada lista para mostrar.
type ReportResponse struct {
	Title    string       `json:"title"`
	Source   string       `json:"source"`
	LoadedAt time.Time    `json:"loaded_at"`
	Columns  []string     `json:"columns"`
	Rows     []ReportRow  `json:"rows"`
	Page     PageResponse `json:"page"`
}

// ReportRow una fila: valores mostrados en orden de columnas y bandas de color por columna estilizada.
type ReportRow struct {
	Cells      []string          `json:"cells"`
	Highlights map[string]string `json:"highlights,omitempty"`
}

// ExportResult resultado de escribir la hoja de cálculo en el destino configurado.
type ExportResult struct {
	Path string `json:"path"`
	Rows int    `json:"rows"`
}

// ReloadResult resultado de invalidar el caché y recargar la fuente.
type ReloadResult struct {
	Source      string    `json:"source"`
	Rows        int       `json:"rows"`
	Invalidated int       `json:"invalidated"`
	LoadedAt    time.Time `json:"loaded_at"`
}
