package hook

import (
	"context"
	"errors"
)

// FutureStatus is the progress of a UseFuture computation.
type FutureStatus int

const (
	FutureIdle FutureStatus = iota
	FuturePending
	FutureResolved
	FutureFailed
)

func (s FutureStatus) String() string {
	switch s {
	case FuturePending:
		return "pending"
	case FutureResolved:
		return "resolved"
	case FutureFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Future is a snapshot of an asynchronous computation.
type Future[T any] struct {
	Status FutureStatus
	Value  T
	Err    error

	run uint64 // increments with every started computation
}

// Done reports whether the computation finished.
func (f Future[T]) Done() bool {
	return f.Status == FutureResolved || f.Status == FutureFailed
}

// UseFuture runs fn in the background on mount and whenever deps change,
// cancelling the previous run. The returned snapshot reflects the latest
// run as of this render. An error from fn is stored in the Future rather
// than stopping the render loop.
func UseFuture[T any](c *Context, fn func(ctx context.Context) (T, error), deps ...any) Future[T] {
	state, set := UseState(c, func() Future[T] { return Future[T]{} })
	UseEffect(c, func() func() {
		var run uint64
		set.Update(func(f Future[T]) Future[T] {
			f.run++
			run = f.run
			f.Status, f.Err = FuturePending, nil
			return f
		})
		return spawn(c, "future", func(ctx context.Context) error {
			v, err := fn(ctx)
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			// A newer run may have started after the check above; only the
			// latest run may settle the state.
			set.Update(func(f Future[T]) Future[T] {
				if f.run != run {
					return f
				}
				if err != nil {
					return Future[T]{Status: FutureFailed, Err: err, run: run}
				}
				return Future[T]{Status: FutureResolved, Value: v, run: run}
			})
			return nil
		})
	}, deps...)
	return state.Get()
}
