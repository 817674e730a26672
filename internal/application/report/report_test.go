package report_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-search/internal/application/dto"
	"github.com/jhoicas/inventory-search/internal/application/report"
	"github.com/jhoicas/inventory-search/internal/domain"
	"github.com/jhoicas/inventory-search/internal/domain/entity"
	"github.com/jhoicas/inventory-search/internal/infrastructure/cache"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// fakeReader cuenta lecturas y devuelve una tabla fija (o err).
type fakeReader struct {
	mu    sync.Mutex
	calls int
	table *entity.InventoryTable
	err   error
}

func (r *fakeReader) Read(_ context.Context, path string) (*entity.InventoryTable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	t := r.table.Derive(r.table.Records)
	t.Source = path
	t.LoadedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return t, nil
}

func (r *fakeReader) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// ctxReader falla si el contexto recibido ya está cancelado.
type ctxReader struct{ fakeReader }

func (r *ctxReader) Read(ctx context.Context, path string) (*entity.InventoryTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.fakeReader.Read(ctx, path)
}

// fakeExporter registra la última tabla recibida.
type fakeExporter struct {
	last     *entity.InventoryTable
	lastPath string
	writeErr error
}

func (e *fakeExporter) CSVBytes(t *entity.InventoryTable) ([]byte, error) {
	e.last = t
	return []byte("csv"), nil
}

func (e *fakeExporter) SpreadsheetBytes(t *entity.InventoryTable) ([]byte, error) {
	e.last = t
	return []byte("xlsx"), nil
}

func (e *fakeExporter) WriteSpreadsheet(_ context.Context, t *entity.InventoryTable, dest string) error {
	e.last = t
	e.lastPath = dest
	return e.writeErr
}

type fakePDF struct{ title string }

func (p *fakePDF) GenerateReportPDF(_ context.Context, title string, _ *entity.InventoryTable) ([]byte, error) {
	p.title = title
	return []byte("%PDF"), nil
}

func rec(material, vendorNo, vendorName, balance, qty string) entity.InventoryRecord {
	r := entity.InventoryRecord{
		Material:   material,
		VendorNo:   vendorNo,
		VendorName: vendorName,
		Cells:      []string{material, "", vendorNo, vendorName, "", "", balance, qty, ""},
	}
	if d, err := decimal.NewFromString(balance); err == nil {
		r.VendorBalance = decimal.NewNullDecimal(d)
	}
	if d, err := decimal.NewFromString(qty); err == nil {
		r.StoreQuantity = decimal.NewNullDecimal(d)
	}
	return r
}

func sampleTable() *entity.InventoryTable {
	return entity.NewInventoryTable(entity.RequiredColumns, []entity.InventoryRecord{
		rec("A1", "V10", "Acme Corp", "-3.0", "0.00"),
		rec("B2", "V20", "Beta Ltd", "15.0", "7.00"),
		rec("C3", "V30", "ACME Inc", "0.0", "-1.00"),
	})
}

// sourceFile crea un archivo real para que el cargador pueda obtener su identidad.
func sourceFile(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "Search_Report.xlsx")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	return p
}

func newUseCase(t *testing.T, reader *fakeReader, exp *fakeExporter, pdf report.ReportPDFGenerator, cfg report.Config) *report.SearchUseCase {
	t.Helper()
	c, err := cache.NewTableCache(4, zerolog.Nop())
	require.NoError(t, err)
	loader := report.NewLoader(reader, c, zerolog.Nop())
	return report.NewSearchUseCase(loader, exp, pdf, cfg, zerolog.Nop())
}

// ──────────────────────────────────────────────────────────────────────────────
// Loader
// ──────────────────────────────────────────────────────────────────────────────

func TestLoad_RutaInexistente(t *testing.T) {
	l := report.NewLoader(&fakeReader{table: sampleTable()}, nil, zerolog.Nop())

	_, err := l.Load(context.Background(), filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)

	_, err = l.Load(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)

	_, err = l.Load(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable, "un directorio no es una fuente")
}

func TestLoad_SinCacheLeeSiempre(t *testing.T) {
	reader := &fakeReader{table: sampleTable()}
	l := report.NewLoader(reader, nil, zerolog.Nop())
	src := sourceFile(t)

	_, err := l.Load(context.Background(), src)
	require.NoError(t, err)
	_, err = l.Load(context.Background(), src)
	require.NoError(t, err)

	assert.Equal(t, 2, reader.count())
	assert.Equal(t, 0, l.Invalidate(src))
}

func TestLoad_CacheEvitaRelecturaHastaQueCambieElArchivo(t *testing.T) {
	reader := &fakeReader{table: sampleTable()}
	c, err := cache.NewTableCache(4, zerolog.Nop())
	require.NoError(t, err)
	l := report.NewLoader(reader, c, zerolog.Nop())
	src := sourceFile(t)

	_, err = l.Load(context.Background(), src)
	require.NoError(t, err)
	_, err = l.Load(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 1, reader.count())

	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(src, later, later))
	_, err = l.Load(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 2, reader.count(), "una fecha de modificación nueva obliga a releer")
}

func TestLoad_CargaCompartidaIgnoraCancelacionDelLlamador(t *testing.T) {
	reader := &ctxReader{fakeReader{table: sampleTable()}}
	c, err := cache.NewTableCache(4, zerolog.Nop())
	require.NoError(t, err)
	l := report.NewLoader(reader, c, zerolog.Nop())
	src := sourceFile(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	table, err := l.Load(ctx, src)
	require.NoError(t, err)
	assert.Len(t, table.Records, 3)

	// La tabla quedó en caché para los siguientes llamadores.
	_, err = l.Load(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 1, reader.count())
}

func TestLoad_ErrorDeEsquemaSePropaga(t *testing.T) {
	schemaErr := &domain.SchemaError{Missing: []string{"Vendor_Balance"}}
	reader := &fakeReader{err: schemaErr}
	c, err := cache.NewTableCache(4, zerolog.Nop())
	require.NoError(t, err)
	l := report.NewLoader(reader, c, zerolog.Nop())

	_, err = l.Load(context.Background(), sourceFile(t))
	assert.ErrorIs(t, err, domain.ErrSchema)
	var se *domain.SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, []string{"Vendor_Balance"}, se.Missing)
}

// ──────────────────────────────────────────────────────────────────────────────
// SearchUseCase
// ──────────────────────────────────────────────────────────────────────────────

func TestSearch_FiltraYResalta(t *testing.T) {
	uc := newUseCase(t, &fakeReader{table: sampleTable()}, &fakeExporter{}, nil,
		report.Config{Title: "Reporte", SourcePath: sourceFile(t)})

	resp, err := uc.Search(context.Background(), dto.ReportQuery{VendorName: "  acm "})
	require.NoError(t, err)

	assert.Equal(t, "Reporte", resp.Title)
	assert.Equal(t, 2, resp.Page.Total)
	require.Len(t, resp.Rows, 2)
	assert.Equal(t, "A1", resp.Rows[0].Cells[0])
	assert.Equal(t, "C3", resp.Rows[1].Cells[0])

	assert.Equal(t, string(entity.HighlightLightRed), resp.Rows[0].Highlights["Store_Qunt"])
	assert.Equal(t, string(entity.HighlightLightRed), resp.Rows[0].Highlights["Vendor_Balance"])
	assert.Equal(t, string(entity.HighlightStrongRed), resp.Rows[1].Highlights["Store_Qunt"])
	_, ok := resp.Rows[1].Highlights["Vendor_Balance"]
	assert.False(t, ok, "saldo cero no se resalta")
}

func TestSearch_Paginacion(t *testing.T) {
	uc := newUseCase(t, &fakeReader{table: sampleTable()}, &fakeExporter{}, nil,
		report.Config{SourcePath: sourceFile(t)})

	resp, err := uc.Search(context.Background(), dto.ReportQuery{PageRequest: dto.PageRequest{Limit: 1, Offset: 1}})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Page.Total)
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, "B2", resp.Rows[0].Cells[0])

	resp, err = uc.Search(context.Background(), dto.ReportQuery{PageRequest: dto.PageRequest{Offset: 10}})
	require.NoError(t, err)
	assert.Empty(t, resp.Rows)
	assert.Equal(t, 3, resp.Page.Offset)
}

func TestExports_UsanLaTablaFiltrada(t *testing.T) {
	exp := &fakeExporter{}
	pdf := &fakePDF{}
	uc := newUseCase(t, &fakeReader{table: sampleTable()}, exp, pdf,
		report.Config{Title: "Reporte", SourcePath: sourceFile(t)})
	ctx := context.Background()
	criteria := entity.FilterCriteria{VendorNo: "v2"}

	b, err := uc.ExportCSV(ctx, criteria)
	require.NoError(t, err)
	assert.Equal(t, "csv", string(b))
	assert.Equal(t, 1, exp.last.Len())

	b, err = uc.ExportSpreadsheet(ctx, criteria)
	require.NoError(t, err)
	assert.Equal(t, "xlsx", string(b))

	b, err = uc.ExportPDF(ctx, criteria)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(b))
	assert.Equal(t, "Reporte", pdf.title)
}

func TestExportPDF_SinGenerador(t *testing.T) {
	uc := newUseCase(t, &fakeReader{table: sampleTable()}, &fakeExporter{}, nil,
		report.Config{SourcePath: sourceFile(t)})

	_, err := uc.ExportPDF(context.Background(), entity.FilterCriteria{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSaveSpreadsheet_RutaPorDefecto(t *testing.T) {
	exp := &fakeExporter{}
	uc := newUseCase(t, &fakeReader{table: sampleTable()}, exp, nil,
		report.Config{SourcePath: sourceFile(t), ExportPath: "/tmp/export.xlsx"})

	res, err := uc.SaveSpreadsheet(context.Background(), entity.FilterCriteria{}, "")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/export.xlsx", res.Path)
	assert.Equal(t, 3, res.Rows)
	assert.Equal(t, "/tmp/export.xlsx", exp.lastPath)

	res, err = uc.SaveSpreadsheet(context.Background(), entity.FilterCriteria{Material: "b"}, "/tmp/otro.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/otro.xlsx", res.Path)
	assert.Equal(t, 1, res.Rows)
}

func TestSaveSpreadsheet_DestinoNoEscribible(t *testing.T) {
	exp := &fakeExporter{writeErr: domain.ErrDestinationUnwritable}
	reader := &fakeReader{table: sampleTable()}
	uc := newUseCase(t, reader, exp, nil, report.Config{SourcePath: sourceFile(t), ExportPath: "/x/y.xlsx"})

	_, err := uc.SaveSpreadsheet(context.Background(), entity.FilterCriteria{}, "")
	assert.ErrorIs(t, err, domain.ErrDestinationUnwritable)

	// La tabla en memoria sigue disponible.
	resp, err := uc.Search(context.Background(), dto.ReportQuery{})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Page.Total)
	assert.Equal(t, 1, reader.count())

	uc = newUseCase(t, reader, &fakeExporter{}, nil, report.Config{SourcePath: sourceFile(t)})
	_, err = uc.SaveSpreadsheet(context.Background(), entity.FilterCriteria{}, "")
	assert.ErrorIs(t, err, domain.ErrDestinationUnwritable, "sin ruta configurada")
}

func TestReload_InvalidaYRelee(t *testing.T) {
	reader := &fakeReader{table: sampleTable()}
	uc := newUseCase(t, reader, &fakeExporter{}, nil, report.Config{SourcePath: sourceFile(t)})
	ctx := context.Background()

	_, err := uc.Search(ctx, dto.ReportQuery{})
	require.NoError(t, err)

	res, err := uc.Reload(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Invalidated)
	assert.Equal(t, 3, res.Rows)
	assert.Equal(t, 2, reader.count())
}
