// Package numwords escribe cantidades enteras con letra en español,
// como se piden en la columna "cantidad surtida con letra" del pedido.
package numwords

import (
	"errors"
	"math"
	"strings"
)

// MaxQuantity es la cantidad más grande que se sabe escribir.
const MaxQuantity = 999_999

var (
	ErrUnsupportedRange = errors.New("numwords: quantity out of supported range")
	ErrInvalidArgument  = errors.New("numwords: quantity is not a whole number")
)

var units = [...]string{"cero", "uno", "dos", "tres", "cuatro", "cinco", "seis", "siete", "ocho", "nueve"}

// 10..29 son palabras únicas (dieciséis, veintitrés...)
var tensAndTwenties = [...]string{
	"diez", "once", "doce", "trece", "catorce", "quince", "dieciséis", "diecisiete", "dieciocho", "diecinueve",
	"veinte", "veintiuno", "veintidós", "veintitrés", "veinticuatro", "veinticinco", "veintiséis", "veintisiete", "veintiocho", "veintinueve",
}

var tens = [...]string{"", "", "", "treinta", "cuarenta", "cincuenta", "sesenta", "setenta", "ochenta", "noventa"}

var hundreds = [...]string{
	"", "ciento", "doscientos", "trescientos", "cuatrocientos",
	"quinientos", "seiscientos", "setecientos", "ochocientos", "novecientos",
}

// WordsForQuantity devuelve n con letra: 21 -> "veintiuno", 2024 -> "dos mil veinticuatro".
// El cero se escribe "cero". Fuera de 0..MaxQuantity devuelve ErrUnsupportedRange.
func WordsForQuantity(n int) (string, error) {
	if n < 0 || n > MaxQuantity {
		return "", ErrUnsupportedRange
	}
	if n == 0 {
		return units[0], nil
	}

	var parts []string
	thousands, rest := n/1000, n%1000
	switch {
	case thousands == 1:
		parts = append(parts, "mil")
	case thousands > 1:
		// delante de "mil" el uno se apocopa: veintiún mil, ciento un mil
		parts = append(parts, belowThousand(thousands, true), "mil")
	}
	if rest > 0 {
		parts = append(parts, belowThousand(rest, false))
	}
	return strings.Join(parts, " "), nil
}

// WordsForAmount acepta la cantidad ya parseada de un campo numérico;
// sólo los valores enteros tienen letra.
func WordsForAmount(v float64) (string, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return "", ErrInvalidArgument
	}
	if v < 0 || v > MaxQuantity {
		return "", ErrUnsupportedRange
	}
	return WordsForQuantity(int(v))
}

// belowThousand escribe 1..999.
func belowThousand(n int, apocope bool) string {
	if n == 100 {
		return "cien"
	}
	var parts []string
	if h := n / 100; h > 0 {
		parts = append(parts, hundreds[h])
	}
	if r := n % 100; r > 0 {
		parts = append(parts, belowHundred(r, apocope))
	}
	return strings.Join(parts, " ")
}

func belowHundred(n int, apocope bool) string {
	var s string
	switch {
	case n < 10:
		s = units[n]
	case n < 30:
		s = tensAndTwenties[n-10]
	default:
		s = tens[n/10]
		if u := n % 10; u > 0 {
			s += " y " + units[u]
		}
	}
	if apocope && n%10 == 1 && n != 11 {
		switch {
		case n == 21:
			s = "veintiún"
		default:
			s = strings.TrimSuffix(s, "uno") + "un"
		}
	}
	return s
}
