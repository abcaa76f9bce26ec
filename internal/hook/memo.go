package hook

type memoRecord[T any] struct {
	value    T
	deps     []any
	computed bool
}

// UseMemo returns factory's result, recomputing it only when deps differ
// from the previous render. With no deps the value is computed once.
func UseMemo[T any](c *Context, factory func() T, deps ...any) T {
	rec := next(c, KindMemo, func() *memoRecord[T] { return &memoRecord[T]{} })
	if !rec.computed || depsChanged(rec.deps, deps) {
		rec.value = factory()
		rec.deps = snapshot(deps)
		rec.computed = true
	}
	return rec.value
}

// UseMemoOnce computes factory on the first render only.
func UseMemoOnce[T any](c *Context, factory func() T) T {
	return UseMemo(c, factory)
}
