package catalog

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestDecodeJSONFormats(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Article
	}{
		{
			name:     "Spreadsheet export shape",
			input:    `[{"Codigo":"0103","Articulo":"Frijol Negro","Unidad Medida":"KG"}]`,
			expected: []Article{{Code: "0103", Name: "Frijol Negro", Unit: "KG"}},
		},
		{
			name:     "Lowercase legacy shape",
			input:    `[{"codigo":"0201","descripcion":"Leche Entera","unidad":"LT"}]`,
			expected: []Article{{Code: "0201", Name: "Leche Entera", Unit: "LT"}},
		},
		{
			name:     "Canonical shape",
			input:    `[{"code":"0101","name":"Aceite de Maíz","unit":"PZA"}]`,
			expected: []Article{{Code: "0101", Name: "Aceite de Maíz", Unit: "PZA"}},
		},
		{
			name:     "Numeric code",
			input:    `[{"Codigo":302,"Articulo":"Pollo Entero","Unidad Medida":"KG"}]`,
			expected: []Article{{Code: "302", Name: "Pollo Entero", Unit: "KG"}},
		},
		{
			name:     "Null code stays empty",
			input:    `[{"Codigo":null,"Articulo":"Sin código"}]`,
			expected: []Article{{Code: "", Name: "Sin código"}},
		},
		{
			name:     "Empty array",
			input:    `[]`,
			expected: []Article{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			actual, err := DecodeJSON(strings.NewReader(tc.input))
			require.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestDecodeJSONMalformed(t *testing.T) {
	for _, input := range []string{``, `{`, `{"Codigo":"1"}`, `[{"Codigo":true}]`} {
		_, err := DecodeJSON(strings.NewReader(input))
		assert.ErrorIs(t, err, ErrMalformed, "input %q", input)
	}
}

func TestNewNormalizesEntries(t *testing.T) {
	c := New([]Article{
		{Code: " 0103 ", Name: " Frijol Negro ", Unit: "KG"},
		{Code: "0103", Name: "Duplicado", Unit: "KG"},
		{Code: "", Name: "Seleccione un artículo...", Unit: ""},
		{Code: "0999", Name: "", Unit: "KG"},
		{Code: "0201", Name: "Leche Entera", Unit: "LT"},
	})

	assert.Equal(t, 2, c.Len())
	articles := c.Articles()
	require.Len(t, articles, 3)
	assert.Equal(t, Placeholder, articles[0])
	assert.Equal(t, Article{Code: "0103", Name: "Frijol Negro", Unit: "KG"}, articles[1])

	a, ok := c.ByCode("0201")
	require.True(t, ok)
	assert.Equal(t, "Leche Entera", a.Name)

	a, ok = c.ByCode("")
	require.True(t, ok)
	assert.True(t, a.IsPlaceholder())

	_, ok = c.ByCode("0999")
	assert.False(t, ok)

	a, ok = c.ByName("Frijol Negro")
	require.True(t, ok)
	assert.Equal(t, "0103", a.Code)

	a, ok = c.ByName(Placeholder.Name)
	require.True(t, ok)
	assert.True(t, a.IsPlaceholder())
}

func TestArticlesReturnsCopy(t *testing.T) {
	c := New([]Article{{Code: "1", Name: "Arroz", Unit: "KG"}})
	list := c.Articles()
	list[1].Name = "changed"
	a, _ := c.ByCode("1")
	assert.Equal(t, "Arroz", a.Name)
}

func TestLoadDegradesToPlaceholder(t *testing.T) {
	c, err := Load(context.Background(), FileSource{Path: filepath.Join(t.TempDir(), "missing.json")}, discardLogger())
	require.Error(t, err)
	require.NotNil(t, c)
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, []Article{Placeholder}, c.Articles())
}

func TestFileSourceJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "articulos.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"Codigo":"0102","Articulo":"Arroz Super Extra","Unidad Medida":"KG"},
		{"Codigo":"0103","Articulo":"Frijol Negro","Unidad Medida":"KG"}
	]`), 0o644))

	c, err := Load(context.Background(), FileSource{Path: path}, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
}

func TestFileSourceXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows := [][]interface{}{
		{"Código", "Artículo", "Unidad  Medida"},
		{"0301", "Manzana Golden", "KG"},
		{"0303", "Huevo Blanco"},
		{},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	path := filepath.Join(t.TempDir(), "articulos.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	articles, err := FileSource{Path: path}.Load(context.Background())
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(articles), 2)
	assert.Equal(t, Article{Code: "0301", Name: "Manzana Golden", Unit: "KG"}, articles[0])
	assert.Equal(t, Article{Code: "0303", Name: "Huevo Blanco", Unit: ""}, articles[1])
}

func TestDecodeXLSXMissingColumns(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	require.NoError(t, f.SetCellValue(sheet, "A1", "Precio"))
	buf := &bytes.Buffer{}
	require.NoError(t, f.Write(buf))
	require.NoError(t, f.Close())

	_, err := DecodeXLSX(buf)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/articulos.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"Codigo":"0202","Articulo":"Queso Panela","Unidad Medida":"KG"}]`))
	}))
	defer srv.Close()

	articles, err := HTTPSource{URL: srv.URL + "/articulos.json", Client: srv.Client()}.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Article{{Code: "0202", Name: "Queso Panela", Unit: "KG"}}, articles)

	c, err := Load(context.Background(), HTTPSource{URL: srv.URL + "/otro.json", Client: srv.Client()}, discardLogger())
	require.Error(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestBundledCatalog(t *testing.T) {
	articles, err := FileSource{Path: "../../../data/articulos.json"}.Load(context.Background())
	require.NoError(t, err)
	c := New(articles)
	assert.Equal(t, 8, c.Len())
	a, ok := c.ByCode("0103")
	require.True(t, ok)
	assert.Equal(t, Article{Code: "0103", Name: "Frijol Negro", Unit: "KG"}, a)
}

func TestLoadLogsOutcomeOnce(t *testing.T) {
	countMsg := func(buf *bytes.Buffer, msg string) int {
		return strings.Count(buf.String(), `"msg":"`+msg+`"`)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "articulos.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"Codigo":"0101","Articulo":"Aceite de Maíz","Unidad Medida":"PZA"}]`), 0o600))

	buf := &bytes.Buffer{}
	_, err := Load(context.Background(), FileSource{Path: path}, slog.New(slog.NewJSONHandler(buf, nil)))
	require.NoError(t, err)
	assert.Equal(t, 1, countMsg(buf, "catalog loaded"))

	buf.Reset()
	_, err = Load(context.Background(), FileSource{Path: filepath.Join(dir, "nope.json")}, slog.New(slog.NewJSONHandler(buf, nil)))
	require.Error(t, err)
	assert.Zero(t, countMsg(buf, "catalog loaded"))
	assert.Equal(t, 1, countMsg(buf, "catalog unavailable, continuing without articles"))
}
