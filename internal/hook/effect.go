package hook

// EffectFunc is an effect body. It may return a cleanup function, which runs
// before the effect runs again and when the component unmounts.
type EffectFunc func() (cleanup func())

type effectRecord struct {
	deps    []any
	cleanup func()
	ran     bool
	always  bool
}

func (r *effectRecord) runCleanup() {
	if r.cleanup == nil {
		return
	}
	fn := r.cleanup
	r.cleanup = nil
	fn()
}

func (r *effectRecord) run(body EffectFunc, deps []any) {
	r.runCleanup()
	r.deps = snapshot(deps)
	r.ran = true
	r.cleanup = body()
}

// UseEffect runs body on the first render and again whenever deps differ
// from the previous render's deps. The previous cleanup always runs first.
// With no deps, body runs once after mount and its cleanup runs at unmount.
//
// Effects run synchronously during render and must not block.
func UseEffect(c *Context, body EffectFunc, deps ...any) {
	rec := next(c, KindEffect, func() *effectRecord { return &effectRecord{} })
	if rec.always {
		panic(invariant(c.owner, c.cursor-1, ErrSlotMismatch, "UseEffect revisits a UseEffectAlways slot"))
	}
	if !rec.ran || depsChanged(rec.deps, deps) {
		rec.run(body, deps)
	}
}

// UseEffectAlways runs body on every render, cleaning up the previous run
// first.
func UseEffectAlways(c *Context, body EffectFunc) {
	rec := next(c, KindEffect, func() *effectRecord { return &effectRecord{always: true} })
	if !rec.always {
		panic(invariant(c.owner, c.cursor-1, ErrSlotMismatch, "UseEffectAlways revisits a UseEffect slot"))
	}
	rec.run(body, nil)
}
