// Package numfmt formatea decimales con precisión fija y separador de miles,
// y revierte ese formato para comparaciones numéricas.
package numfmt

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrEmpty valor vacío: no hay número que interpretar.
var ErrEmpty = errors.New("numfmt: valor vacío")

// Fixed formatea d con exactamente places decimales y comas de miles ("1,234.50").
// Trabaja sobre los dígitos del decimal, sin pasar por float64.
// Ej: Fixed(1234.5, 2) → "1,234.50"; Fixed(-3, 1) → "-3.0".
func Fixed(d decimal.Decimal, places int) string {
	s := d.StringFixed(int32(places))
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	return sign + groupThousands(intPart) + frac
}

// groupThousands inserta comas de miles en una cadena de dígitos.
// Ej: "25000" → "25,000", "1000000" → "1,000,000"
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	return string(buf)
}

// Parse interpreta un valor formateado quitando separadores de miles y espacios.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrEmpty
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	return decimal.NewFromString(s)
}
