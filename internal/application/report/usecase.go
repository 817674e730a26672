package report

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/inventory-search/internal/application/dto"
	"github.com/jhoicas/inventory-search/internal/domain"
	"github.com/jhoicas/inventory-search/internal/domain/entity"
	domreport "github.com/jhoicas/inventory-search/internal/domain/report"
)

// Config rutas y título del reporte (vienen de la configuración del proceso).
type Config struct {
	Title      string
	SourcePath string
	ExportPath string
}

// SearchUseCase orquesta carga → filtro → estilo → exportación del reporte de inventario.
type SearchUseCase struct {
	loader   *Loader
	exporter Exporter
	pdf      ReportPDFGenerator
	cfg      Config
	log      zerolog.Logger
}

// NewSearchUseCase construye el caso de uso. pdf puede ser nil (exportación PDF deshabilitada).
func NewSearchUseCase(loader *Loader, exporter Exporter, pdf ReportPDFGenerator, cfg Config, log zerolog.Logger) *SearchUseCase {
	return &SearchUseCase{loader: loader, exporter: exporter, pdf: pdf, cfg: cfg, log: log}
}

// Table carga la fuente (caché) y aplica los criterios.
func (uc *SearchUseCase) Table(ctx context.Context, criteria entity.FilterCriteria) (*entity.InventoryTable, error) {
	table, err := uc.loader.Load(ctx, uc.cfg.SourcePath)
	if err != nil {
		return nil, err
	}
	return domreport.Filter(table, criteria), nil
}

// Search devuelve la página solicitada de la tabla filtrada con sus bandas de color.
func (uc *SearchUseCase) Search(ctx context.Context, q dto.ReportQuery) (*dto.ReportResponse, error) {
	table, err := uc.Table(ctx, q.Criteria())
	if err != nil {
		return nil, err
	}
	from, to := q.Bounds(table.Len())
	rows := make([]dto.ReportRow, 0, to-from)
	for i := from; i < to; i++ {
		rows = append(rows, toReportRow(table, i))
	}
	return &dto.ReportResponse{
		Title:    uc.cfg.Title,
		Source:   table.Source,
		LoadedAt: table.LoadedAt,
		Columns:  table.Header(),
		Rows:     rows,
		Page:     dto.PageResponse{Limit: q.Limit, Offset: from, Total: table.Len()},
	}, nil
}

// ExportCSV CSV UTF-8 de la tabla filtrada (encabezado + valores mostrados).
func (uc *SearchUseCase) ExportCSV(ctx context.Context, criteria entity.FilterCriteria) ([]byte, error) {
	table, err := uc.Table(ctx, criteria)
	if err != nil {
		return nil, err
	}
	return uc.exporter.CSVBytes(table)
}

// ExportSpreadsheet hoja de cálculo (.xlsx) de la tabla filtrada, en memoria.
func (uc *SearchUseCase) ExportSpreadsheet(ctx context.Context, criteria entity.FilterCriteria) ([]byte, error) {
	table, err := uc.Table(ctx, criteria)
	if err != nil {
		return nil, err
	}
	return uc.exporter.SpreadsheetBytes(table)
}

// ExportPDF representación PDF de la tabla filtrada.
func (uc *SearchUseCase) ExportPDF(ctx context.Context, criteria entity.FilterCriteria) ([]byte, error) {
	if uc.pdf == nil {
		return nil, fmt.Errorf("%w: exportación PDF no configurada", domain.ErrInvalidInput)
	}
	table, err := uc.Table(ctx, criteria)
	if err != nil {
		return nil, err
	}
	return uc.pdf.GenerateReportPDF(ctx, uc.cfg.Title, table)
}

// SaveSpreadsheet escribe la hoja de cálculo filtrada en destinationPath
// (vacío = REPORT_EXPORT_PATH). Sobrescribe el archivo existente sin confirmación.
// Un fallo de escritura no invalida la tabla en memoria.
func (uc *SearchUseCase) SaveSpreadsheet(ctx context.Context, criteria entity.FilterCriteria, destinationPath string) (*dto.ExportResult, error) {
	if destinationPath == "" {
		destinationPath = uc.cfg.ExportPath
	}
	if destinationPath == "" {
		return nil, fmt.Errorf("%w: ruta de exportación no configurada", domain.ErrDestinationUnwritable)
	}
	table, err := uc.Table(ctx, criteria)
	if err != nil {
		return nil, err
	}
	if err := uc.exporter.WriteSpreadsheet(ctx, table, destinationPath); err != nil {
		uc.log.Warn().Err(err).Str("path", destinationPath).Msg("exportación a hoja de cálculo fallida")
		return nil, err
	}
	uc.log.Info().Str("path", destinationPath).Int("rows", table.Len()).Msg("hoja de cálculo exportada")
	return &dto.ExportResult{Path: destinationPath, Rows: table.Len()}, nil
}

// Reload invalida el caché de la fuente y la vuelve a cargar.
func (uc *SearchUseCase) Reload(ctx context.Context) (*dto.ReloadResult, error) {
	n := uc.loader.Invalidate(uc.cfg.SourcePath)
	table, err := uc.loader.Load(ctx, uc.cfg.SourcePath)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("source", table.Source).Int("rows", table.Len()).Int("invalidated", n).Msg("fuente recargada")
	return &dto.ReloadResult{Source: table.Source, Rows: table.Len(), Invalidated: n, LoadedAt: table.LoadedAt}, nil
}

func toReportRow(table *entity.InventoryTable, i int) dto.ReportRow {
	row := dto.ReportRow{Cells: table.Records[i].Cells}
	for _, c := range domreport.RowCells(table, i) {
		if c.Hint == entity.HighlightNone {
			continue
		}
		if row.Highlights == nil {
			row.Highlights = make(map[string]string, len(entity.StyledColumns))
		}
		row.Highlights[string(c.Column)] = string(c.Hint)
	}
	return row
}
