package hook

import "sync"

// cell is the shared storage behind state and ref handles. Handles may be
// copied into goroutines, so access is locked.
type cell[T any] struct {
	mu sync.RWMutex
	v  T
}

func newCell[T any](v T) *cell[T] {
	return &cell[T]{v: v}
}

func (c *cell[T]) load() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.v
}

func (c *cell[T]) store(v T) {
	c.mu.Lock()
	c.v = v
	c.mu.Unlock()
}

func (c *cell[T]) update(f func(T) T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.v = f(c.v)
}
