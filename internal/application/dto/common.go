package dto

// PageRequest paginación opcional para el listado del reporte.
// Limit 0 devuelve todas las filas.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=0,max=5000"`
	Offset int `query:"offset" validate:"min=0"`
}

// Bounds devuelve el rango [from, to) aplicado sobre total filas.
func (p PageRequest) Bounds(total int) (from, to int) {
	from = p.Offset
	if from < 0 {
		from = 0
	}
	if from > total {
		from = total
	}
	to = total
	if p.Limit > 0 && from+p.Limit < total {
		to = from + p.Limit
	}
	return from, to
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}
