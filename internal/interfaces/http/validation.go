package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// queryValidator valida structs de query string; los errores usan el nombre del tag query.
type queryValidator struct {
	v *validator.Validate
}

func newQueryValidator() *queryValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &queryValidator{v: v}
}

// Validate devuelve un mensaje por campo inválido (nil si todo es válido).
func (q *queryValidator) Validate(s interface{}) []string {
	err := q.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, formatFieldError(fe))
	}
	return out
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s admite como máximo %s caracteres", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s debe ser como máximo %s", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s debe ser al menos %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s no es válido (%s)", fe.Field(), fe.Tag())
	}
}
