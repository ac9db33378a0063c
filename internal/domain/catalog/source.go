package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var ErrMalformed = errors.New("catalog: malformed source")

// maxCatalogBytes: el catálogo es un archivo estático chico; más que esto es un error.
const maxCatalogBytes = 8 << 20

// Source: de dónde sale el catálogo (archivo, URL estática, base de datos).
type Source interface {
	Load(ctx context.Context) ([]Article, error)
	String() string
}

// flexString acepta códigos escritos como texto o como número ("0101" o 101).
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = flexString(n.String())
	return nil
}

// rawArticle cubre las formas en que ha venido el catálogo:
// {"Codigo","Articulo","Unidad Medida"}, {"codigo","descripcion","unidad"} y {"code","name","unit"}.
// encoding/json compara las llaves sin distinguir mayúsculas.
type rawArticle struct {
	Codigo       flexString `json:"codigo"`
	Code         flexString `json:"code"`
	Articulo     string     `json:"articulo"`
	Descripcion  string     `json:"descripcion"`
	Name         string     `json:"name"`
	UnidadMedida string     `json:"unidad medida"`
	Unidad       string     `json:"unidad"`
	Unit         string     `json:"unit"`
}

func (r rawArticle) article() Article {
	return Article{
		Code: firstNonEmpty(string(r.Codigo), string(r.Code)),
		Name: firstNonEmpty(r.Articulo, r.Descripcion, r.Name),
		Unit: firstNonEmpty(r.UnidadMedida, r.Unidad, r.Unit),
	}
}

// DecodeJSON lee un arreglo JSON de artículos en cualquiera de los formatos conocidos.
func DecodeJSON(r io.Reader) ([]Article, error) {
	var raw []rawArticle
	dec := json.NewDecoder(io.LimitReader(r, maxCatalogBytes))
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	out := make([]Article, 0, len(raw))
	for _, ra := range raw {
		out = append(out, ra.article())
	}
	return out, nil
}

// DecodeXLSX lee la primera hoja de un Excel con encabezados
// Codigo / Articulo / Unidad Medida (o sus variantes).
func DecodeXLSX(r io.Reader) ([]Article, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty sheet %q", ErrMalformed, sheet)
	}

	codeCol, nameCol, unitCol := -1, -1, -1
	for i, h := range rows[0] {
		switch normalizeHeader(h) {
		case "codigo", "code":
			codeCol = i
		case "articulo", "descripcion", "descripcion del articulo", "name":
			nameCol = i
		case "unidad medida", "unidad", "unit":
			unitCol = i
		}
	}
	if codeCol < 0 || nameCol < 0 {
		return nil, fmt.Errorf("%w: sheet %q has no Codigo/Articulo columns", ErrMalformed, sheet)
	}

	out := make([]Article, 0, len(rows)-1)
	for _, row := range rows[1:] {
		out = append(out, Article{
			Code: cell(row, codeCol),
			Name: cell(row, nameCol),
			Unit: cell(row, unitCol),
		})
	}
	return out, nil
}

// FileSource: catálogo en disco, .json o .xlsx según la extensión.
type FileSource struct {
	Path string
}

func (s FileSource) String() string { return "file:" + s.Path }

func (s FileSource) Load(_ context.Context) ([]Article, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer func() { _ = f.Close() }()

	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".xlsx":
		return DecodeXLSX(f)
	default:
		return DecodeJSON(f)
	}
}

// HTTPSource: catálogo estático servido por HTTP (articulos.json).
type HTTPSource struct {
	URL     string
	Client  *http.Client
	Timeout time.Duration
}

func (s HTTPSource) String() string { return "url:" + s.URL }

func (s HTTPSource) Load(ctx context.Context) ([]Article, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch catalog: server returned status %s", resp.Status)
	}
	return DecodeJSON(resp.Body)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

var accentFolder = strings.NewReplacer("á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u")

func normalizeHeader(h string) string {
	h = accentFolder.Replace(strings.ToLower(strings.TrimSpace(h)))
	return strings.Join(strings.Fields(h), " ")
}
