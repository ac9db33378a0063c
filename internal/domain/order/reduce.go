package order

import (
	"fmt"

	"github.com/hcg-gdl/pedido-viveres/internal/domain/catalog"
)

// Action: una interacción del capturista sobre la lista de renglones.
type Action interface {
	apply(p Policy, s State) (State, error)
}

// AddItem agrega un renglón vacío al final y lo abre.
type AddItem struct{ ID string }

// DeleteItem quita un renglón.
type DeleteItem struct{ ID string }

// UpdateField escribe cantidad pedida u observaciones.
type UpdateField struct {
	ID    string
	Field Field
	Value string
}

// SelectArticle asigna (o limpia, con el placeholder) el artículo de un renglón.
type SelectArticle struct {
	ID      string
	Article catalog.Article
}

// SetExpanded cambia el renglón abierto; ID vacío cierra todos.
type SetExpanded struct{ ID string }

// Reduce aplica a sobre s y devuelve el estado nuevo. Nunca modifica s;
// si hay error el estado devuelto es s sin cambios.
func Reduce(p Policy, s State, a Action) (State, error) {
	next, err := a.apply(p, s)
	if err != nil {
		return s, err
	}
	return next, nil
}

func (a AddItem) apply(_ Policy, s State) (State, error) {
	if a.ID == "" {
		return s, fmt.Errorf("add item: empty id")
	}
	if s.indexOf(a.ID) >= 0 {
		return s, fmt.Errorf("add item %s: %w", a.ID, ErrDuplicateID)
	}
	next := s.clone()
	next.Items = append(next.Items, LineItem{ID: a.ID})
	next.Expanded = a.ID
	return next, nil
}

func (a DeleteItem) apply(p Policy, s State) (State, error) {
	i := s.indexOf(a.ID)
	if i < 0 {
		return s, fmt.Errorf("delete item %s: %w", a.ID, ErrNotFound)
	}
	if !p.AllowEmptyOrder && len(s.Items) == 1 {
		return s, ErrLastItem
	}
	next := s.clone()
	next.Items = append(next.Items[:i], next.Items[i+1:]...)
	if s.Expanded == a.ID {
		// el foco pasa al último renglón que queda
		next.Expanded = ""
		if n := len(next.Items); n > 0 {
			next.Expanded = next.Items[n-1].ID
		}
	}
	return next, nil
}

func (a UpdateField) apply(_ Policy, s State) (State, error) {
	if a.Field != FieldQuantityRequested && a.Field != FieldNotes {
		return s, fmt.Errorf("update %q: %w", a.Field, ErrInvalidField)
	}
	i := s.indexOf(a.ID)
	if i < 0 {
		return s, nil
	}
	next := s.clone()
	switch a.Field {
	case FieldQuantityRequested:
		next.Items[i].QuantityRequested = a.Value
	case FieldNotes:
		next.Items[i].Notes = a.Value
	}
	return next, nil
}

func (a SelectArticle) apply(_ Policy, s State) (State, error) {
	i := s.indexOf(a.ID)
	if i < 0 {
		return s, nil
	}
	next := s.clone()
	it := &next.Items[i]
	if a.Article.IsPlaceholder() {
		it.ArticleCode, it.ArticleName, it.Unit = "", "", ""
	} else {
		it.ArticleCode, it.ArticleName, it.Unit = a.Article.Code, a.Article.Name, a.Article.Unit
	}
	return next, nil
}

func (a SetExpanded) apply(_ Policy, s State) (State, error) {
	if a.ID != "" && s.indexOf(a.ID) < 0 {
		return s, fmt.Errorf("expand item %s: %w", a.ID, ErrNotFound)
	}
	next := s.clone()
	next.Expanded = a.ID
	return next, nil
}
