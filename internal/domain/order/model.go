package order

import "errors"

var (
	ErrNotFound     = errors.New("order: item not found")
	ErrLastItem     = errors.New("order: an order must keep at least one item")
	ErrDuplicateID  = errors.New("order: item id already in use")
	ErrInvalidField = errors.New("order: field is not editable")
)

// Field: campos que el capturista puede escribir directamente.
type Field string

const (
	FieldQuantityRequested Field = "quantityRequested"
	FieldNotes             Field = "notes"
)

// LineItem: un renglón del pedido.
// ArticleCode/ArticleName/Unit siempre se asignan juntos (ver SelectArticle).
type LineItem struct {
	ID                string `json:"id"`
	ArticleCode       string `json:"articleCode"`
	ArticleName       string `json:"articleName"`
	Unit              string `json:"unit"`
	QuantityRequested string `json:"quantityRequested"`
	QuantitySupplied  string `json:"quantitySupplied"`
	Notes             string `json:"notes"`
}

// HasArticle: el renglón tiene un artículo del catálogo.
func (it LineItem) HasArticle() bool { return it.ArticleCode != "" }

// State: renglones en orden de captura + el renglón abierto ("" = ninguno).
// Expanded es foco de la interfaz, la impresión no lo usa.
type State struct {
	Items    []LineItem `json:"items"`
	Expanded string     `json:"expanded"`
}

// Policy: reglas configurables del editor.
type Policy struct {
	// AllowEmptyOrder permite borrar el último renglón.
	AllowEmptyOrder bool
}

func (s State) indexOf(id string) int {
	for i, it := range s.Items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func (s State) clone() State {
	items := make([]LineItem, len(s.Items))
	copy(items, s.Items)
	return State{Items: items, Expanded: s.Expanded}
}

// Printable: hay al menos un renglón con artículo; sin eso no se genera el documento.
func Printable(items []LineItem) bool {
	for _, it := range items {
		if it.HasArticle() {
			return true
		}
	}
	return false
}
