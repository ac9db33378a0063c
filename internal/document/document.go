// Package document arma el formato impreso "Pedido al Almacén de Víveres"
// a partir del encabezado y los renglones ya derivados del pedido.
package document

import (
	"fmt"
	"strings"

	"github.com/hcg-gdl/pedido-viveres/internal/domain/order"
	"github.com/hcg-gdl/pedido-viveres/internal/domain/personnel"
)

const (
	Title    = "HOSPITAL CIVIL DE GUADALAJARA"
	Subtitle = "PEDIDO AL ALMACEN VIVERES"
)

// Column: columna de la tabla del formato; ancho en mm sobre carta horizontal.
type Column struct {
	Title   string
	WidthMM float64
	Center  bool
}

var Columns = []Column{
	{Title: "CODIGO", WidthMM: 20},
	{Title: "DESCRIPCION DEL ARTICULO", WidthMM: 85},
	{Title: "UNIDAD", WidthMM: 15, Center: true},
	{Title: "CANTIDAD\nPEDIDA", WidthMM: 20, Center: true},
	{Title: "CANTIDAD\nSURTIDA", WidthMM: 20, Center: true},
	{Title: "CANTIDAD SURTIDA CON LETRA/\nOBSERVACIONES", WidthMM: 65},
}

// Document: todo lo que se imprime, ya resuelto a texto.
type Document struct {
	BudgetLine  string
	Facility    string
	Date        string
	ServiceArea string
	Account     string
	DeliveredBy string
	ReceivedBy  string
	Rows        []order.PrintRow
}

// Build resuelve las firmas contra las listas de personal.
func Build(h order.Header, roster personnel.Roster, rows []order.PrintRow) (Document, error) {
	delivered, err := roster.Delivery(h.DeliveredByID)
	if err != nil {
		return Document{}, fmt.Errorf("delivered by: %w", err)
	}
	received, err := roster.Reception(h.ReceivedByID)
	if err != nil {
		return Document{}, fmt.Errorf("received by: %w", err)
	}
	return Document{
		BudgetLine:  h.BudgetLine,
		Facility:    h.Facility,
		Date:        h.PrintedDate(),
		ServiceArea: h.ServiceArea,
		Account:     h.Account,
		DeliveredBy: delivered.Name,
		ReceivedBy:  received.Name,
		Rows:        rows,
	}, nil
}

// Cells: valores de un renglón en el orden de Columns.
func Cells(r order.PrintRow) []string {
	return []string{r.Code, r.Name, r.Unit, r.QuantityRequested, r.QuantitySupplied, r.Notes}
}

// Filename: nombre sugerido para descargar el documento.
func (d Document) Filename(ext string) string {
	date := strings.NewReplacer("/", "-", " ", "").Replace(d.Date)
	if date == "" {
		date = "sin-fecha"
	}
	return fmt.Sprintf("pedido_viveres_%s.%s", date, ext)
}
