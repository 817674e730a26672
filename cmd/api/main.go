package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appreport "github.com/jhoicas/inventory-search/internal/application/report"
	"github.com/jhoicas/inventory-search/internal/infrastructure/cache"
	infrapdf "github.com/jhoicas/inventory-search/internal/infrastructure/pdf"
	"github.com/jhoicas/inventory-search/internal/infrastructure/spreadsheet"
	httpRouter "github.com/jhoicas/inventory-search/internal/interfaces/http"
	"github.com/jhoicas/inventory-search/pkg/config"
	"github.com/jhoicas/inventory-search/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("source", cfg.Report.SourcePath).
		Msg("iniciando aplicación")

	tableCache, err := cache.NewTableCache(cfg.Report.CacheSize, log.Component("cache"))
	if err != nil {
		log.Fatal().Err(err).Msg("crear caché de tablas")
	}
	reader := spreadsheet.NewReader(log.Component("spreadsheet"))
	loader := appreport.NewLoader(reader, tableCache, log.Component("loader"))

	// PDF: representación impresa del reporte filtrado
	pdfGenerator := infrapdf.NewMarotoReportGenerator()
	reportUC := appreport.NewSearchUseCase(loader, spreadsheet.NewExporter(), pdfGenerator, appreport.Config{
		Title:      cfg.Report.Title,
		SourcePath: cfg.Report.SourcePath,
		ExportPath: cfg.Report.ExportPath,
	}, log.Component("report"))

	// Carga inicial: un fallo no detiene el servidor, la API responde 503/422 hasta que la fuente sea válida.
	if table, err := loader.Load(context.Background(), cfg.Report.SourcePath); err != nil {
		log.Warn().Err(err).Str("source", cfg.Report.SourcePath).Msg("fuente de inventario no cargada al iniciar")
	} else {
		log.Info().Int("rows", table.Len()).Msg("fuente de inventario lista")
	}
	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: la API corre sin autenticación")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 60,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventory Search API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ReportUC:  reportUC,
		Log:       log.Component("http"),
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
