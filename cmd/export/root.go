package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhoicas/inventory-search/internal/application/dto"
	appreport "github.com/jhoicas/inventory-search/internal/application/report"
	infrapdf "github.com/jhoicas/inventory-search/internal/infrastructure/pdf"
	"github.com/jhoicas/inventory-search/internal/infrastructure/spreadsheet"
	"github.com/jhoicas/inventory-search/pkg/config"
	"github.com/jhoicas/inventory-search/pkg/logger"
)

// exportOptions flags del comando raíz.
type exportOptions struct {
	source   string
	out      string
	format   string
	query    dto.ReportQuery
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &exportOptions{}
	cmd := &cobra.Command{
		Use:   "inventory-export",
		Short: "Exporta el reporte de inventario filtrado a CSV, XLSX o PDF",
		Long: `inventory-export lee la fuente del reporte (Search_Report.xlsx o CSV), aplica
los filtros de subcadena sin distinción de mayúsculas y escribe el resultado.

Sin --out, CSV se escribe en stdout y XLSX en REPORT_EXPORT_PATH.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.source, "source", "", "ruta de la fuente (por defecto REPORT_SOURCE_PATH)")
	f.StringVar(&opts.out, "out", "", "ruta de salida")
	f.StringVar(&opts.format, "format", "xlsx", "formato de salida: csv, xlsx o pdf")
	f.StringVar(&opts.query.Material, "material", "", "subcadena de Material")
	f.StringVar(&opts.query.Description, "description", "", "subcadena de Material Description")
	f.StringVar(&opts.query.VendorNo, "vendor-no", "", "subcadena de Vendor No.")
	f.StringVar(&opts.query.VendorName, "vendor-name", "", "subcadena de Vendor Name")
	f.StringVar(&opts.logLevel, "log-level", "", "nivel de log (por defecto LOG_LEVEL)")

	cmd.AddCommand(newTokenCmd())
	return cmd
}

func runExport(cmd *cobra.Command, opts *exportOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	level := cfg.Log.Level
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: level, Out: cmd.ErrOrStderr()})

	source := cfg.Report.SourcePath
	if opts.source != "" {
		source = opts.source
	}
	format := strings.ToLower(strings.TrimSpace(opts.format))

	// Una sola carga: sin caché.
	loader := appreport.NewLoader(spreadsheet.NewReader(log.Component("spreadsheet")), nil, log.Component("loader"))
	uc := appreport.NewSearchUseCase(loader, spreadsheet.NewExporter(), infrapdf.NewMarotoReportGenerator(), appreport.Config{
		Title:      cfg.Report.Title,
		SourcePath: source,
		ExportPath: cfg.Report.ExportPath,
	}, log.Component("report"))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	criteria := opts.query.Criteria()

	switch format {
	case "xlsx":
		res, err := uc.SaveSpreadsheet(ctx, criteria, opts.out)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d filas exportadas a %s\n", res.Rows, res.Path)
		return nil
	case "csv":
		b, err := uc.ExportCSV(ctx, criteria)
		if err != nil {
			return err
		}
		return writeOutput(cmd, opts.out, b)
	case "pdf":
		if opts.out == "" {
			return fmt.Errorf("--out es obligatorio para formato pdf")
		}
		b, err := uc.ExportPDF(ctx, criteria)
		if err != nil {
			return err
		}
		return writeOutput(cmd, opts.out, b)
	default:
		return fmt.Errorf("formato no soportado %q (csv, xlsx o pdf)", opts.format)
	}
}

// writeOutput escribe en out o en stdout si out está vacío.
func writeOutput(cmd *cobra.Command, out string, b []byte) error {
	if out == "" {
		_, err := cmd.OutOrStdout().Write(b)
		return err
	}
	if err := os.WriteFile(out, b, 0o644); err != nil {
		return fmt.Errorf("escribir %s: %w", out, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "archivo escrito: %s (%d bytes)\n", out, len(b))
	return nil
}
