package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hcg-gdl/pedido-viveres/internal/domain/order"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestStoreLifecycle(t *testing.T) {
	var sizes []int
	s := NewStore(time.Hour, WithSizeHook(func(n int) { sizes = append(sizes, n) }))

	a := s.Create(order.NewEditor(order.Policy{}), order.Header{BudgetLine: "2212"})
	b := s.Create(order.NewEditor(order.Policy{}), order.Header{})
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, s.Len())

	got, err := s.Get(a.ID)
	require.NoError(t, err)
	assert.Same(t, a, got)

	_, err = s.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Delete(a.ID))
	assert.ErrorIs(t, s.Delete(a.ID), ErrNotFound)
	assert.Equal(t, []int{1, 2, 1}, sizes)
}

func TestSessionDo(t *testing.T) {
	s := NewStore(0)
	sess := s.Create(order.NewEditor(order.Policy{}), order.Header{Account: "1"})

	err := sess.Do(func(v View) error {
		v.Header.Account = "99"
		v.Editor.AddItem()
		return nil
	})
	require.NoError(t, err)

	_ = sess.Do(func(v View) error {
		assert.Equal(t, "99", v.Header.Account)
		assert.Len(t, v.Editor.Snapshot().Items, 2)
		return nil
	})
}

func TestSessionDoConcurrent(t *testing.T) {
	s := NewStore(0)
	sess := s.Create(order.NewEditor(order.Policy{}), order.Header{})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = sess.Do(func(v View) error {
				v.Editor.AddItem()
				return nil
			})
		}()
	}
	wg.Wait()

	_ = sess.Do(func(v View) error {
		assert.Len(t, v.Editor.Snapshot().Items, 21)
		return nil
	})
}

func TestStoreSweep(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)}
	s := NewStore(30*time.Minute, WithClock(clock.Now))

	idle := s.Create(order.NewEditor(order.Policy{}), order.Header{})
	active := s.Create(order.NewEditor(order.Policy{}), order.Header{})

	clock.Advance(20 * time.Minute)
	_ = active.Do(func(View) error { return nil })
	clock.Advance(15 * time.Minute)

	assert.Equal(t, 1, s.Sweep())
	_, err := s.Get(idle.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(active.ID)
	assert.NoError(t, err)
}

func TestStoreSweepDisabled(t *testing.T) {
	s := NewStore(0)
	s.Create(order.NewEditor(order.Policy{}), order.Header{})
	assert.Equal(t, 0, s.Sweep())
}

func TestStoreRunStops(t *testing.T) {
	s := NewStore(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
