package document

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Pedido"

// excelize: 1 = carta
const paperLetter = 1

// fila donde empieza la tabla
const tableHeaderRow = 7

// sheetWriter guarda el primer error para no revisar cada llamada de excelize.
type sheetWriter struct {
	f   *excelize.File
	err error
}

func (w *sheetWriter) do(fn func() error) {
	if w.err != nil {
		return
	}
	w.err = fn()
}

func (w *sheetWriter) style(s *excelize.Style) int {
	if w.err != nil {
		return 0
	}
	id, err := w.f.NewStyle(s)
	w.err = err
	return id
}

func (w *sheetWriter) set(cell string, v any, style int) {
	w.do(func() error { return w.f.SetCellValue(sheetName, cell, v) })
	if style != 0 {
		w.do(func() error { return w.f.SetCellStyle(sheetName, cell, cell, style) })
	}
}

func (w *sheetWriter) merge(from, to string, v any, style int) {
	w.do(func() error { return w.f.MergeCell(sheetName, from, to) })
	w.set(from, v, 0)
	if style != 0 {
		w.do(func() error { return w.f.SetCellStyle(sheetName, from, to, style) })
	}
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

var thinBorder = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
}

// RenderXLSX genera el formato como libro de Excel listo para imprimir
// en carta horizontal.
func RenderXLSX(d Document) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	w := &sheetWriter{f: f}
	w.do(func() error { return f.SetSheetName(f.GetSheetName(0), sheetName) })

	orientation, size, fit := "landscape", paperLetter, 1
	fitToPage := true
	w.do(func() error {
		return f.SetPageLayout(sheetName, &excelize.PageLayoutOptions{
			Size:        &size,
			Orientation: &orientation,
			FitToWidth:  &fit,
			FitToHeight: &fit,
		})
	})
	w.do(func() error { return f.SetSheetProps(sheetName, &excelize.SheetPropsOptions{FitToPage: &fitToPage}) })

	for i, c := range Columns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		// ~2 mm por unidad de ancho de Excel
		width := c.WidthMM / 2
		w.do(func() error { return f.SetColWidth(sheetName, col, col, width) })
	}

	lastCol := len(Columns)
	titleStyle := w.style(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	subtitleStyle := w.style(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	labelStyle := w.style(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 9}})
	valueStyle := w.style(&excelize.Style{
		Font:   &excelize.Font{Size: 9},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 1}},
	})
	headStyle := w.style(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 8},
		Border:    thinBorder,
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	bodyStyle := w.style(&excelize.Style{
		Font:      &excelize.Font{Size: 8},
		Border:    thinBorder,
		Alignment: &excelize.Alignment{Vertical: "center", WrapText: true},
	})
	bodyCenterStyle := w.style(&excelize.Style{
		Font:      &excelize.Font{Size: 8},
		Border:    thinBorder,
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	signStyle := w.style(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 8},
		Border:    thinBorder,
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "bottom", WrapText: true},
	})

	// encabezado
	w.merge("A1", cellName(lastCol, 1), Title, titleStyle)
	w.merge("A2", cellName(lastCol, 2), Subtitle, subtitleStyle)

	w.set("A4", "Partida Presupuestal:", labelStyle)
	w.set("B4", d.BudgetLine, valueStyle)
	w.set("C4", "Unidad Hospitalaria:", labelStyle)
	w.merge("D4", "F4", d.Facility, valueStyle)

	w.set("A5", "FECHA:", labelStyle)
	w.set("B5", d.Date, valueStyle)
	w.set("C5", "SERVICIO:", labelStyle)
	w.merge("D5", "E5", d.ServiceArea, valueStyle)
	w.set("F5", "CUENTA: "+d.Account, labelStyle)

	// tabla
	for i, c := range Columns {
		w.set(cellName(i+1, tableHeaderRow), c.Title, headStyle)
	}
	w.do(func() error { return f.SetRowHeight(sheetName, tableHeaderRow, 24) })

	row := tableHeaderRow + 1
	for _, r := range d.Rows {
		for i, v := range Cells(r) {
			style := bodyStyle
			if Columns[i].Center {
				style = bodyCenterStyle
			}
			w.set(cellName(i+1, row), v, style)
		}
		w.do(func() error { return f.SetRowHeight(sheetName, row, 18) })
		row++
	}

	// firmas
	row++
	w.merge(cellName(1, row), cellName(3, row), "ENTREGADO POR", labelStyle)
	w.merge(cellName(4, row), cellName(lastCol, row), "RECIBIDO POR", labelStyle)
	row++
	w.merge(cellName(1, row), cellName(3, row), d.DeliveredBy, signStyle)
	w.merge(cellName(4, row), cellName(lastCol, row), d.ReceivedBy, signStyle)
	w.do(func() error { return f.SetRowHeight(sheetName, row, 36) })

	if w.err != nil {
		return nil, fmt.Errorf("render xlsx: %w", w.err)
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
