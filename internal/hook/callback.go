package hook

// Callback is a function value that can be passed down the tree and
// compared for presence.
type Callback[I, O any] struct {
	fn func(I) O
}

// NewCallback wraps fn.
func NewCallback[I, O any](fn func(I) O) Callback[I, O] {
	return Callback[I, O]{fn: fn}
}

// Emit calls the callback. Emitting a zero Callback returns the zero value.
func (cb Callback[I, O]) Emit(in I) O {
	if cb.fn == nil {
		var zero O
		return zero
	}
	return cb.fn(in)
}

// IsZero reports whether the callback wraps no function.
func (cb Callback[I, O]) IsZero() bool {
	return cb.fn == nil
}

// Reform adapts cb to accept a different input.
func Reform[J, I, O any](cb Callback[I, O], f func(J) I) Callback[J, O] {
	return NewCallback(func(in J) O { return cb.Emit(f(in)) })
}

// Then chains f after cb.
func Then[I, O, P any](cb Callback[I, O], f func(O) P) Callback[I, P] {
	return NewCallback(func(in I) P { return f(cb.Emit(in)) })
}

// Filter returns a callback that forwards to cb only when keep accepts the
// input. Rejected inputs yield the zero value.
func Filter[I, O any](cb Callback[I, O], keep func(I) bool) Callback[I, O] {
	return NewCallback(func(in I) O {
		if !keep(in) {
			var zero O
			return zero
		}
		return cb.Emit(in)
	})
}

// UseCallback memoizes fn until deps change, so children receive the same
// Callback across renders.
func UseCallback[I, O any](c *Context, fn func(I) O, deps ...any) Callback[I, O] {
	return UseMemo(c, func() Callback[I, O] { return NewCallback(fn) }, deps...)
}

// UseEffectEvent returns a Callback that never changes identity but always
// calls the fn passed on the most recent render. Useful inside effects and
// timers that should see fresh props without re-running.
func UseEffectEvent[I, O any](c *Context, fn func(I) O) Callback[I, O] {
	latest := UseRef(c, func() func(I) O { return fn })
	latest.Set(fn)
	return UseMemo(c, func() Callback[I, O] {
		return NewCallback(func(in I) O { return latest.Get()(in) })
	})
}
