package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hcg-gdl/pedido-viveres/internal/domain/order"
)

var ErrNotFound = errors.New("session: not found")

// Session: un pedido en captura. Todo acceso al editor y al encabezado
// pasa por Do para que dos pestañas no pisen el mismo estado.
type Session struct {
	ID string

	mu        sync.Mutex
	editor    *order.Editor
	header    order.Header
	updatedAt time.Time
	now       func() time.Time
}

// View: lo que el callback de Do puede leer y cambiar.
type View struct {
	Editor *order.Editor
	Header *order.Header
}

// Do ejecuta fn con la sesión bloqueada.
func (s *Session) Do(fn func(v View) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := fn(View{Editor: s.editor, Header: &s.header})
	s.updatedAt = s.now()
	return err
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

// Store guarda las sesiones en memoria; no hay persistencia de pedidos.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
	onChange func(n int)
}

type Option func(*Store)

// WithClock: reloj inyectable para pruebas.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// WithSizeHook se llama con el número de sesiones tras cada alta o baja.
func WithSizeHook(fn func(n int)) Option { return func(s *Store) { s.onChange = fn } }

func NewStore(ttl time.Duration, opts ...Option) *Store {
	s := &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
		onChange: func(int) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create abre un pedido nuevo con su editor y encabezado inicial.
func (s *Store) Create(editor *order.Editor, header order.Header) *Session {
	sess := &Session{
		ID:        uuid.NewString(),
		editor:    editor,
		header:    header,
		updatedAt: s.now(),
		now:       s.now,
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	n := len(s.sessions)
	s.mu.Unlock()
	s.onChange(n)
	return sess
}

func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return sess, nil
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	if _, ok := s.sessions[id]; !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	delete(s.sessions, id)
	n := len(s.sessions)
	s.mu.Unlock()
	s.onChange(n)
	return nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep borra las sesiones sin movimiento por más de ttl. Devuelve cuántas quitó.
func (s *Store) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	removed := 0
	for id, sess := range s.sessions {
		if sess.idleSince().Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	n := len(s.sessions)
	s.mu.Unlock()

	if removed > 0 {
		s.onChange(n)
	}
	return removed
}

// Run barre periódicamente hasta que ctx termine. every <= 0 no barre.
func (s *Store) Run(ctx context.Context, every time.Duration) {
	if every <= 0 || s.ttl <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Sweep()
		}
	}
}
