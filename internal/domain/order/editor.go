package order

import (
	"github.com/google/uuid"

	"github.com/hcg-gdl/pedido-viveres/internal/domain/catalog"
)

// Editor es el dueño único del estado de un pedido en captura.
// No es seguro para uso concurrente; session.Session lo protege.
type Editor struct {
	policy Policy
	state  State
	newID  func() string
	issued map[string]struct{}
}

type EditorOption func(*Editor)

// maxIDAttempts: ids repetidos o vacíos que se toleran del generador antes de
// volver a uuid.
const maxIDAttempts = 16

// WithIDGenerator reemplaza uuid (para pruebas). Si gen insiste en ids ya
// emitidos, AddItem termina usando uuid.
func WithIDGenerator(gen func() string) EditorOption {
	return func(e *Editor) { e.newID = gen }
}

// NewEditor arranca con un renglón vacío abierto, como el formulario.
func NewEditor(p Policy, opts ...EditorOption) *Editor {
	e := &Editor{
		policy: p,
		newID:  uuid.NewString,
		issued: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.AddItem()
	return e
}

func (e *Editor) Policy() Policy { return e.policy }

// AddItem agrega un renglón con id nunca antes emitido en esta sesión.
func (e *Editor) AddItem() LineItem {
	gen := e.newID
	id := gen()
	for attempt := 1; ; attempt++ {
		if _, used := e.issued[id]; !used && id != "" {
			break
		}
		if attempt == maxIDAttempts {
			gen = uuid.NewString
		}
		id = gen()
	}
	e.issued[id] = struct{}{}
	// el id es nuevo, AddItem no puede fallar
	e.state, _ = Reduce(e.policy, e.state, AddItem{ID: id})
	return e.state.Items[len(e.state.Items)-1]
}

func (e *Editor) DeleteItem(id string) error {
	return e.dispatch(DeleteItem{ID: id})
}

func (e *Editor) UpdateField(id string, f Field, value string) error {
	return e.dispatch(UpdateField{ID: id, Field: f, Value: value})
}

func (e *Editor) SelectArticle(id string, a catalog.Article) error {
	return e.dispatch(SelectArticle{ID: id, Article: a})
}

func (e *Editor) SetExpanded(id string) error {
	return e.dispatch(SetExpanded{ID: id})
}

// Snapshot devuelve una copia del estado.
func (e *Editor) Snapshot() State { return e.state.clone() }

// Item busca un renglón por id.
func (e *Editor) Item(id string) (LineItem, bool) {
	i := e.state.indexOf(id)
	if i < 0 {
		return LineItem{}, false
	}
	return e.state.Items[i], true
}

// PrintRows: renglones listos para el documento; no toca el estado.
func (e *Editor) PrintRows(opts RowOptions) []PrintRow {
	return PrintRows(e.state.Items, opts)
}

func (e *Editor) dispatch(a Action) error {
	next, err := Reduce(e.policy, e.state, a)
	if err != nil {
		return err
	}
	e.state = next
	return nil
}
