package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventory-search/internal/domain/entity"
)

// SourceKey identidad de una fuente para el caché: ruta absoluta + fecha de modificación + tamaño.
// Si el archivo cambia en disco la clave cambia y la siguiente carga lo vuelve a leer.
type SourceKey struct {
	Path    string
	ModTime time.Time
	Size    int64
}

func (k SourceKey) String() string {
	return fmt.Sprintf("%s@%d:%d", k.Path, k.ModTime.UnixNano(), k.Size)
}

// SourceReader lee y normaliza una fuente tabular completa (fechas y números formateados).
type SourceReader interface {
	Read(ctx context.Context, path string) (*entity.InventoryTable, error)
}

// TableCache guarda tablas ya normalizadas por identidad de fuente.
// Debe ser seguro para uso concurrente; cargas simultáneas de la misma clave pueden colapsarse.
type TableCache interface {
	GetOrLoad(key SourceKey, load func() (*entity.InventoryTable, error)) (*entity.InventoryTable, error)
	Invalidate(path string) int
}

// Exporter serializa una tabla a CSV y a hoja de cálculo.
type Exporter interface {
	CSVBytes(table *entity.InventoryTable) ([]byte, error)
	SpreadsheetBytes(table *entity.InventoryTable) ([]byte, error)
	WriteSpreadsheet(ctx context.Context, table *entity.InventoryTable, destinationPath string) error
}

// ReportPDFGenerator genera la representación PDF del reporte filtrado.
type ReportPDFGenerator interface {
	GenerateReportPDF(ctx context.Context, title string, table *entity.InventoryTable) ([]byte, error)
}
