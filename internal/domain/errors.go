package domain

import (
	"errors"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrInvalidInput          = errors.New("entrada inválida")
	ErrSourceUnavailable     = errors.New("fuente de inventario no disponible")
	ErrSchema                = errors.New("columnas requeridas ausentes")
	ErrDestinationUnwritable = errors.New("destino de exportación no escribible")
)

// SchemaError indica qué columnas requeridas faltan en la fuente.
// errors.Is(err, ErrSchema) es verdadero para cualquier SchemaError.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return ErrSchema.Error() + ": " + strings.Join(e.Missing, ", ")
}

func (e *SchemaError) Unwrap() error { return ErrSchema }
