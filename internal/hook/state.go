package hook

// State reads a state slot.
type State[T any] struct {
	c *cell[T]
}

// Get returns a copy of the current value.
func (s State[T]) Get() T {
	return s.c.load()
}

// Setter writes a state slot. Writes take effect immediately but a
// component only observes them on its next render; values already read in
// the current pass keep their old contents.
type Setter[T any] struct {
	c *cell[T]
}

// Set replaces the value.
func (s Setter[T]) Set(v T) {
	s.c.store(v)
}

// Update replaces the value with f applied to the current one. f runs under
// the cell's lock and must not touch the same state.
func (s Setter[T]) Update(f func(T) T) {
	s.c.update(f)
}

// UseState returns the state slot at the current position, creating it with
// init on first render. Nothing is scheduled on Set: the fixed-cadence render
// loop picks the new value up on the next frame.
func UseState[T any](c *Context, init func() T) (State[T], Setter[T]) {
	cl := next(c, KindState, func() *cell[T] { return newCell(init()) })
	return State[T]{c: cl}, Setter[T]{c: cl}
}

// Dispatch sends an action to a reducer.
type Dispatch[A any] func(action A)

// UseReducer is UseState driven by a reducer. Dispatch may be called from
// any goroutine.
func UseReducer[S, A any](c *Context, reducer func(S, A) S, init func() S) (State[S], Dispatch[A]) {
	state, set := UseState(c, init)
	dispatch := UseMemo(c, func() Dispatch[A] {
		return func(action A) {
			set.Update(func(s S) S { return reducer(s, action) })
		}
	})
	return state, dispatch
}
