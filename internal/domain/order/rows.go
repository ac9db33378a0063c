package order

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/hcg-gdl/pedido-viveres/internal/numwords"
)

// FormCapacity: renglones que trae impresos el formato del almacén.
const FormCapacity = 16

// PrintRow: un renglón tal como va en el documento impreso.
type PrintRow struct {
	Code              string `json:"code"`
	Name              string `json:"name"`
	Unit              string `json:"unit"`
	QuantityRequested string `json:"quantityRequested"`
	QuantitySupplied  string `json:"quantitySupplied"`
	Notes             string `json:"notes"`
}

// IsBlank: renglón de relleno.
func (r PrintRow) IsBlank() bool { return r == PrintRow{} }

type RowOptions struct {
	// Capacity <= 0 usa FormCapacity.
	Capacity int
	// WordsInNotes pone la cantidad surtida con letra en la columna de observaciones.
	WordsInNotes bool
}

func DefaultRowOptions() RowOptions {
	return RowOptions{Capacity: FormCapacity, WordsInNotes: true}
}

// PrintRows deriva los renglones del documento. Siempre devuelve exactamente
// Capacity renglones: rellena con renglones vacíos o corta los que sobran.
// Una cantidad inválida o <= 0 deja vacía la cantidad surtida, nunca falla.
func PrintRows(items []LineItem, opts RowOptions) []PrintRow {
	capacity := opts.Capacity
	if capacity <= 0 {
		capacity = FormCapacity
	}
	rows := make([]PrintRow, capacity)
	for i, it := range items {
		if i == capacity {
			break
		}
		rows[i] = printRow(it, opts.WordsInNotes)
	}
	return rows
}

func printRow(it LineItem, wordsInNotes bool) PrintRow {
	requested := strings.TrimSpace(it.QuantityRequested)
	notes := strings.TrimSpace(it.Notes)
	row := PrintRow{
		Code:              it.ArticleCode,
		Name:              it.ArticleName,
		Unit:              it.Unit,
		QuantityRequested: requested,
		Notes:             notes,
	}

	qty, ok := parseQuantity(requested)
	if !ok {
		return row
	}
	row.QuantitySupplied = requested
	if !wordsInNotes {
		return row
	}
	// sin letra (fracción o fuera de rango) el renglón se imprime igual
	words, err := numwords.WordsForAmount(qty)
	if err != nil {
		return row
	}
	if notes != "" {
		row.Notes = words + " / " + notes
	} else {
		row.Notes = words
	}
	return row
}

var (
	// 1,000 o 12,345.5: la coma agrupa miles, como se escribe en el almacén.
	groupedQuantity = regexp.MustCompile(`^\d{1,3}(,\d{3})+(\.\d+)?$`)
	plainQuantity   = regexp.MustCompile(`^\d+([.,]\d+)?$`)
)

// parseQuantity acepta "10", "2.5", "2,5" y "1,000" (miles); nada de signos,
// exponentes ni hexadecimal. Sólo cuenta si es > 0.
func parseQuantity(s string) (float64, bool) {
	switch {
	case groupedQuantity.MatchString(s):
		s = strings.ReplaceAll(s, ",", "")
	case plainQuantity.MatchString(s):
		s = strings.Replace(s, ",", ".", 1)
	default:
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}
