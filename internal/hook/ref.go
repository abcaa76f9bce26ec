package hook

// Ref is a mutable, non-reactive slot. All copies of a Ref share the same
// storage; writing it never affects rendering by itself.
type Ref[T any] struct {
	c *cell[T]
}

// UseRef returns the ref slot at the current position, creating it with
// init on first render.
func UseRef[T any](c *Context, init func() T) Ref[T] {
	return Ref[T]{c: next(c, KindRef, func() *cell[T] { return newCell(init()) })}
}

func (r Ref[T]) Get() T {
	return r.c.load()
}

func (r Ref[T]) Set(v T) {
	r.c.store(v)
}

// Update replaces the value with f applied to the current one.
func (r Ref[T]) Update(f func(T) T) {
	r.c.update(f)
}

// Replace stores v and returns the previous value.
func (r Ref[T]) Replace(v T) T {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	old := r.c.v
	r.c.v = v
	return old
}

// Take returns the value and leaves the zero value behind.
func (r Ref[T]) Take() T {
	var zero T
	return r.Replace(zero)
}

// With calls f with the ref's value under a read lock.
func With[T, R any](r Ref[T], f func(T) R) R {
	r.c.mu.RLock()
	defer r.c.mu.RUnlock()
	return f(r.c.v)
}

// WithMut calls f with a pointer to the ref's value under a write lock.
// The pointer must not escape f.
func WithMut[T, R any](r Ref[T], f func(*T) R) R {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	return f(&r.c.v)
}
