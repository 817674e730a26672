package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventory-search/internal/application/dto"
	appreport "github.com/jhoicas/inventory-search/internal/application/report"
	"github.com/jhoicas/inventory-search/internal/domain"
)

// Nombres de archivo de las descargas.
const (
	CSVFilename         = "Sharqawi_Inventory.csv"
	SpreadsheetFilename = "Sharqawi_Inventory_Export.xlsx"
	PDFFilename         = "Sharqawi_Inventory.pdf"

	mimeCSV  = "text/csv; charset=utf-8"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimePDF  = "application/pdf"
)

// ReportHandler maneja las peticiones HTTP del reporte de inventario.
type ReportHandler struct {
	uc       *appreport.SearchUseCase
	validate *queryValidator
	log      zerolog.Logger
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *appreport.SearchUseCase, log zerolog.Logger) *ReportHandler {
	return &ReportHandler{uc: uc, validate: newQueryValidator(), log: log}
}

// Search godoc
// @Summary      Consultar el reporte filtrado
// @Tags         report
// @Produce      json
// @Param        material     query  string  false  "Subcadena de Material"
// @Param        description  query  string  false  "Subcadena de Material Description"
// @Param        vendor_no    query  string  false  "Subcadena de Vendor No."
// @Param        vendor_name  query  string  false  "Subcadena de Vendor Name"
// @Param        limit        query  int     false  "Límite (0 = todas)"  default(0)
// @Param        offset       query  int     false  "Offset"              default(0)
// @Success      200  {object}  dto.ReportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/report [get]
func (h *ReportHandler) Search(c *fiber.Ctx) error {
	q, ok, err := h.parseQuery(c)
	if !ok {
		return err
	}
	out, err := h.uc.Search(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ExportCSV godoc
// @Summary      Descargar el reporte filtrado como CSV
// @Tags         report
// @Produce      text/csv
// @Param        material     query  string  false  "Subcadena de Material"
// @Param        description  query  string  false  "Subcadena de Material Description"
// @Param        vendor_no    query  string  false  "Subcadena de Vendor No."
// @Param        vendor_name  query  string  false  "Subcadena de Vendor Name"
// @Success      200  {file}    file
// @Failure      422  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/report/export.csv [get]
func (h *ReportHandler) ExportCSV(c *fiber.Ctx) error {
	q, ok, err := h.parseQuery(c)
	if !ok {
		return err
	}
	b, err := h.uc.ExportCSV(c.UserContext(), q.Criteria())
	if err != nil {
		return writeError(c, err)
	}
	return sendAttachment(c, b, mimeCSV, CSVFilename)
}

// ExportSpreadsheet godoc
// @Summary      Descargar el reporte filtrado como hoja de cálculo
// @Tags         report
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        material     query  string  false  "Subcadena de Material"
// @Param        description  query  string  false  "Subcadena de Material Description"
// @Param        vendor_no    query  string  false  "Subcadena de Vendor No."
// @Param        vendor_name  query  string  false  "Subcadena de Vendor Name"
// @Success      200  {file}    file
// @Failure      422  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/report/export.xlsx [get]
func (h *ReportHandler) ExportSpreadsheet(c *fiber.Ctx) error {
	q, ok, err := h.parseQuery(c)
	if !ok {
		return err
	}
	b, err := h.uc.ExportSpreadsheet(c.UserContext(), q.Criteria())
	if err != nil {
		return writeError(c, err)
	}
	return sendAttachment(c, b, mimeXLSX, SpreadsheetFilename)
}

// ExportPDF godoc
// @Summary      Descargar el reporte filtrado como PDF
// @Tags         report
// @Produce      application/pdf
// @Param        material     query  string  false  "Subcadena de Material"
// @Param        description  query  string  false  "Subcadena de Material Description"
// @Param        vendor_no    query  string  false  "Subcadena de Vendor No."
// @Param        vendor_name  query  string  false  "Subcadena de Vendor Name"
// @Success      200  {file}    file
// @Failure      422  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/report/export.pdf [get]
func (h *ReportHandler) ExportPDF(c *fiber.Ctx) error {
	q, ok, err := h.parseQuery(c)
	if !ok {
		return err
	}
	b, err := h.uc.ExportPDF(c.UserContext(), q.Criteria())
	if err != nil {
		return writeError(c, err)
	}
	return sendAttachment(c, b, mimePDF, PDFFilename)
}

// SaveSpreadsheet godoc
// @Summary      Exportar el reporte filtrado a la ruta configurada
// @Description  Escribe la hoja de cálculo en REPORT_EXPORT_PATH, sobrescribiendo el archivo existente.
// @Tags         report
// @Security     Bearer
// @Produce      json
// @Param        material     query  string  false  "Subcadena de Material"
// @Param        description  query  string  false  "Subcadena de Material Description"
// @Param        vendor_no    query  string  false  "Subcadena de Vendor No."
// @Param        vendor_name  query  string  false  "Subcadena de Vendor Name"
// @Success      200  {object}  dto.ExportResult
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/report/export [post]
func (h *ReportHandler) SaveSpreadsheet(c *fiber.Ctx) error {
	q, ok, err := h.parseQuery(c)
	if !ok {
		return err
	}
	out, err := h.uc.SaveSpreadsheet(c.UserContext(), q.Criteria(), "")
	if err != nil {
		return writeError(c, err)
	}
	h.log.Info().
		Str("request_id", GetRequestID(c)).
		Str("subject", GetSubject(c)).
		Str("path", out.Path).
		Int("rows", out.Rows).
		Msg("hoja de cálculo guardada en disco")
	return c.JSON(out)
}

// Reload godoc
// @Summary      Recargar la fuente del reporte
// @Tags         report
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ReloadResult
// @Failure      422  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/report/reload [post]
func (h *ReportHandler) Reload(c *fiber.Ctx) error {
	out, err := h.uc.Reload(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	h.log.Info().
		Str("request_id", GetRequestID(c)).
		Str("subject", GetSubject(c)).
		Int("rows", out.Rows).
		Int("invalidated", out.Invalidated).
		Msg("fuente de inventario recargada")
	return c.JSON(out)
}

// parseQuery lee y valida los filtros. Si ok es false la respuesta de error ya fue escrita.
func (h *ReportHandler) parseQuery(c *fiber.Ctx) (dto.ReportQuery, bool, error) {
	var q dto.ReportQuery
	if err := c.QueryParser(&q); err != nil {
		return q, false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de consulta inválidos"})
	}
	if details := h.validate.Validate(q); len(details) > 0 {
		return q, false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: "parámetros de consulta inválidos",
			Details: details,
		})
	}
	return q, true, nil
}

func sendAttachment(c *fiber.Ctx, body []byte, contentType, filename string) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(body)
}

// writeError traduce errores de dominio a respuestas HTTP.
func writeError(c *fiber.Ctx, err error) error {
	var schemaErr *domain.SchemaError
	switch {
	case errors.As(err, &schemaErr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code:    "SCHEMA_ERROR",
			Message: "la fuente no tiene las columnas requeridas",
			Details: schemaErr.Missing,
		})
	case errors.Is(err, domain.ErrSourceUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "SOURCE_UNAVAILABLE", Message: err.Error()})
	case errors.Is(err, domain.ErrDestinationUnwritable):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DESTINATION_UNWRITABLE", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
