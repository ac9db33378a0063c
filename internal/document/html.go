package document

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/pedido.html.tmpl
var templatesFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templatesFS, "templates/pedido.html.tmpl"))

type htmlCell struct {
	Value  string
	Center bool
}

// RenderHTML escribe el formato como página HTML con hoja de estilo de impresión.
// Es también la entrada del render a PDF.
func RenderHTML(w io.Writer, d Document) error {
	rows := make([][]htmlCell, 0, len(d.Rows))
	for _, r := range d.Rows {
		cells := Cells(r)
		row := make([]htmlCell, len(cells))
		for i, v := range cells {
			row[i] = htmlCell{Value: v, Center: Columns[i].Center}
		}
		rows = append(rows, row)
	}

	data := struct {
		Title    string
		Subtitle string
		Columns  []Column
		Doc      Document
		Rows     [][]htmlCell
	}{
		Title:    Title,
		Subtitle: Subtitle,
		Columns:  Columns,
		Doc:      d,
		Rows:     rows,
	}
	if err := pageTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}
