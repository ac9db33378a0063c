package catalog

import (
	"context"
	"log/slog"
	"strings"
)

// Catalog: lista de artículos de sólo lectura, con el placeholder al inicio.
type Catalog struct {
	articles []Article
	byCode   map[string]int
	byName   map[string]int
}

// New arma el catálogo normalizando la entrada: se descartan filas sin código
// o sin nombre y, si un código se repite, gana el primero.
func New(articles []Article) *Catalog {
	c := &Catalog{
		articles: []Article{Placeholder},
		byCode:   make(map[string]int, len(articles)),
		byName:   make(map[string]int, len(articles)),
	}
	for _, a := range articles {
		a = Article{
			Code: strings.TrimSpace(a.Code),
			Name: strings.TrimSpace(a.Name),
			Unit: strings.TrimSpace(a.Unit),
		}
		if a.Code == "" || a.Name == "" {
			continue
		}
		if _, dup := c.byCode[a.Code]; dup {
			continue
		}
		c.byCode[a.Code] = len(c.articles)
		if _, dup := c.byName[a.Name]; !dup {
			c.byName[a.Name] = len(c.articles)
		}
		c.articles = append(c.articles, a)
	}
	return c
}

// Load lee el catálogo de src. Si la fuente falla se devuelve igual un catálogo
// usable (sólo placeholder) junto con el error, para que el formulario siga vivo.
func Load(ctx context.Context, src Source, log *slog.Logger) (*Catalog, error) {
	articles, err := src.Load(ctx)
	if err != nil {
		log.Warn("catalog unavailable, continuing without articles", "source", src.String(), "err", err)
		return New(nil), err
	}
	c := New(articles)
	if skipped := len(articles) - c.Len(); skipped > 0 {
		log.Debug("catalog entries skipped", "count", skipped)
	}
	log.Info("catalog loaded", "source", src.String(), "articles", c.Len())
	return c, nil
}

// Articles devuelve una copia con el placeholder en la posición 0.
func (c *Catalog) Articles() []Article {
	out := make([]Article, len(c.articles))
	copy(out, c.articles)
	return out
}

// Len: número de artículos reales (sin placeholder).
func (c *Catalog) Len() int { return len(c.articles) - 1 }

// ByCode busca por código; el código vacío devuelve el placeholder.
func (c *Catalog) ByCode(code string) (Article, bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Placeholder, true
	}
	i, ok := c.byCode[code]
	if !ok {
		return Article{}, false
	}
	return c.articles[i], true
}

// ByName busca por nombre visible, como hacía el <select> del formulario.
func (c *Catalog) ByName(name string) (Article, bool) {
	name = strings.TrimSpace(name)
	if name == "" || name == Placeholder.Name {
		return Placeholder, true
	}
	i, ok := c.byName[name]
	if !ok {
		return Article{}, false
	}
	return c.articles[i], true
}
