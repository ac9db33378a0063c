package catalog

// Article: artículo del catálogo de víveres ya normalizado.
type Article struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Unit string `json:"unit"`
}

// Placeholder es la opción "sin selección" de la lista de artículos.
var Placeholder = Article{Code: "", Name: "Seleccione un artículo...", Unit: ""}

// IsPlaceholder: código vacío = sin artículo.
func (a Article) IsPlaceholder() bool { return a.Code == "" }
