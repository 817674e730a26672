package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	appreport "github.com/jhoicas/inventory-search/internal/application/report"
	"github.com/jhoicas/inventory-search/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ReportUC  *appreport.SearchUseCase
	Log       zerolog.Logger
	JWTSecret string // vacío = API sin autenticación
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", RequestLogger(deps.Log))

	reportHandler := NewReportHandler(deps.ReportUC, deps.Log)
	report := api.Group("/report", AuthMiddleware(deps.JWTSecret))

	// Lectura: cualquier rol
	report.Get("/", reportHandler.Search)
	report.Get("/export.csv", reportHandler.ExportCSV)
	report.Get("/export.xlsx", reportHandler.ExportSpreadsheet)
	report.Get("/export.pdf", reportHandler.ExportPDF)

	// Escritura en disco y recarga: solo operador
	operator := RequireRole(deps.JWTSecret, jwt.RoleOperator)
	report.Post("/export", operator, reportHandler.SaveSpreadsheet)
	report.Post("/reload", operator, reportHandler.Reload)
}
