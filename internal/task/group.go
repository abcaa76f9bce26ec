// Package task runs background work on behalf of components.
//
// Hooks never block the render goroutine. Work that has to wait (timers,
// futures) is started on a Group, receives a context that the owning effect
// cancels from its cleanup, and reports back through state cells.
package task

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrClosed is returned by Go after the group has been closed.
var ErrClosed = errors.New("task group closed")

// PanicError wraps a panic raised inside a task.
type PanicError struct {
	Name  string
	Value any
	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task %s panicked: %v", e.Name, e.Value)
}

// Group supervises the background tasks of one render root. The first task
// failure cancels every other task and is reported by Err.
type Group struct {
	ctx    context.Context
	cancel context.CancelFunc
	eg     *errgroup.Group
	logger *zap.Logger

	mu     sync.Mutex
	closed bool

	running atomic.Int64
	err     atomic.Pointer[error]
}

// NewGroup creates a group whose tasks are cancelled when parent is.
func NewGroup(parent context.Context, logger *zap.Logger) *Group {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(parent)
	eg, ctx := errgroup.WithContext(ctx)
	return &Group{ctx: ctx, cancel: cancel, eg: eg, logger: logger}
}

// Go starts fn in the background and returns a function that cancels it.
// The context passed to fn is done when the cancel function is called, when
// another task fails, or when the group is closed.
//
// Returning context.Canceled after cancellation is not a failure.
func (g *Group) Go(name string, fn func(ctx context.Context) error) (context.CancelFunc, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return func() {}, ErrClosed
	}

	ctx, cancel := context.WithCancel(g.ctx)
	g.running.Add(1)
	g.eg.Go(func() (err error) {
		defer g.running.Add(-1)
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				err = &PanicError{Name: name, Value: r, Stack: string(debug.Stack())}
			}
			if err != nil {
				g.fail(name, err)
			}
		}()

		err = fn(ctx)
		if err != nil && ctx.Err() != nil && errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	return cancel, nil
}

func (g *Group) fail(name string, err error) {
	if g.err.CompareAndSwap(nil, &err) {
		g.logger.Error("background task failed", zap.String("task", name), zap.Error(err))
	}
}

// Err returns the first task failure without blocking.
func (g *Group) Err() error {
	if p := g.err.Load(); p != nil {
		return *p
	}
	return nil
}

// Running returns the number of tasks that have not returned yet.
func (g *Group) Running() int {
	return int(g.running.Load())
}

// Close cancels all tasks and waits for them to return. It returns the
// first task failure, if any.
func (g *Group) Close() error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return g.Err()
	}
	g.closed = true
	g.mu.Unlock()

	g.cancel()
	_ = g.eg.Wait()
	return g.Err()
}
