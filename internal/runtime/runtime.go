// Package runtime drives the render loop: it owns the terminal for the
// duration of a render call, renders the root element at a fixed cadence,
// delivers at most one input event per frame and tears every component
// down when the loop stops.
package runtime

import (
	"context"
	"errors"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/hookstorm/internal/element"
	"github.com/dshills/hookstorm/internal/hook"
	"github.com/dshills/hookstorm/internal/lifecycle"
	"github.com/dshills/hookstorm/internal/renderer/backend"
	"github.com/dshills/hookstorm/internal/renderer/core"
)

// inputQueueSize bounds the events buffered between the polling goroutine
// and the render loop. Events beyond it are dropped.
const inputQueueSize = 64

// Runtime renders one element tree into a backend.
type Runtime struct {
	opts     Options
	logger   *zap.Logger
	metrics  *Metrics
	interval atomic.Int64 // frame interval in ns

	running atomic.Bool

	// Render goroutine state, valid between Mount and Unmount.
	root    *hook.Root
	tracker *lifecycle.Tracker
	pass    *element.Pass
	buf     *core.Buffer
	tree    element.Element
	frames  uint64
	last    time.Time
	stats   lifecycle.Stats
}

// New creates a runtime. Without WithBackend the runtime can be driven
// with Mount and Step but not Run.
func New(opts ...Option) *Runtime {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.normalize()

	r := &Runtime{
		opts:    o,
		logger:  o.Logger.Named("runtime"),
		metrics: NewMetrics(),
	}
	r.interval.Store(int64(frameInterval(o.FPS)))
	return r
}

// Render runs root until RequestExit is called or ctx is done. It creates
// a tcell terminal unless WithBackend is given.
func Render(ctx context.Context, root func() element.Element, opts ...Option) error {
	r := New(opts...)
	if r.opts.Backend == nil {
		term, err := backend.NewTerminal()
		if err != nil {
			return &InitError{Component: "terminal", Err: err}
		}
		r.opts.Backend = term
	}
	return r.Run(ctx, root)
}

// Metrics returns the runtime's metrics.
func (r *Runtime) Metrics() *Metrics {
	return r.metrics
}

// SetFPS changes the target frame rate. It may be called while running.
func (r *Runtime) SetFPS(fps int) {
	r.interval.Store(int64(frameInterval(fps)))
	r.logger.Info("frame rate changed", zap.Int("fps", fps))
}

// FrameInterval returns the current target time between frames.
func (r *Runtime) FrameInterval() time.Duration {
	return time.Duration(r.interval.Load())
}

// IsRunning reports whether Run is executing.
func (r *Runtime) IsRunning() bool {
	return r.running.Load()
}

// Run initializes the backend, mounts the tree built by factory and renders
// it every frame until RequestExit is called or ctx is done. The backend
// is always shut down before Run returns, including after a render error
// or a recovered panic.
func (r *Runtime) Run(ctx context.Context, factory func() element.Element) (err error) {
	b := r.opts.Backend
	if b == nil {
		return ErrNoBackend
	}
	if factory == nil {
		return ErrNilRoot
	}
	if !r.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer r.running.Store(false)

	var poller sync.WaitGroup
	defer poller.Wait()

	if err := b.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer b.Shutdown()

	if r.opts.Mouse {
		b.EnableMouse()
		defer b.DisableMouse()
	}
	if r.opts.Paste {
		b.EnablePaste()
		defer b.DisablePaste()
	}

	ResetExit()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	defer func() {
		if uerr := r.Unmount(); err == nil {
			err = uerr
		}
		r.logger.Info("render loop stopped", r.metrics.Snapshot().Fields()...)
	}()
	if err := r.Mount(ctx, factory); err != nil {
		return err
	}

	events := make(chan backend.Event, inputQueueSize)
	poller.Add(1)
	go func() {
		defer poller.Done()
		r.pollInput(ctx, b, events)
	}()

	r.logger.Info("render loop started",
		zap.String("root", r.root.ID()),
		zap.Duration("frame_interval", r.FrameInterval()))
	return r.loop(ctx, events)
}

func (r *Runtime) loop(ctx context.Context, events <-chan backend.Event) error {
	for {
		start := time.Now()

		ev := r.nextEvent(ctx, events)
		if ev != nil && r.opts.ExitOnCtrlC && ev.IsInterrupt() {
			r.logger.Debug("interrupt received")
			RequestExit()
		}
		if ShouldExit() || ctx.Err() != nil {
			return nil
		}

		if err := r.Step(time.Now(), ev); err != nil {
			return err
		}
		if err := r.root.Tasks().Err(); err != nil {
			return err
		}

		if !sleepUntil(ctx, start.Add(r.FrameInterval())) {
			return nil
		}
	}
}

// nextEvent waits up to the poll timeout for one input event.
func (r *Runtime) nextEvent(ctx context.Context, events <-chan backend.Event) *backend.Event {
	wait := min(r.opts.PollTimeout, r.FrameInterval())
	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case ev, ok := <-events:
		if !ok {
			return nil
		}
		r.metrics.RecordInput()
		return &ev
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return nil
	}
}

// pollInput feeds backend events into events until the backend shuts down
// or ctx is done. PollEvent blocks, so it runs on its own goroutine.
func (r *Runtime) pollInput(ctx context.Context, b backend.Backend, events chan<- backend.Event) {
	defer close(events)
	for {
		ev := b.PollEvent()
		if ev.Type == backend.EventNone || ctx.Err() != nil {
			return
		}
		select {
		case events <- ev:
		default:
			r.metrics.RecordInputDropped()
			r.logger.Debug("input event dropped", zap.Stringer("type", ev.Type))
		}
	}
}

func sleepUntil(ctx context.Context, deadline time.Time) bool {
	d := time.Until(deadline)
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// Mount prepares a render root and builds the tree with factory. Run calls
// it; tests call it directly and then drive frames with Step.
func (r *Runtime) Mount(ctx context.Context, factory func() element.Element) (err error) {
	if factory == nil {
		return ErrNilRoot
	}
	r.root = hook.NewRoot(hook.WithContext(ctx), hook.WithLogger(r.opts.Logger))
	r.tracker = lifecycle.NewTracker(r.root, r.logger.Named("lifecycle"))
	r.pass = element.NewPass(r.root, r.tracker)
	r.buf = core.NewBuffer(core.Rect{})
	r.frames = 0
	r.last = time.Time{}
	r.stats = lifecycle.Stats{}

	defer recoverInto(&err, r.logger)
	r.tree = factory()
	return nil
}

// Step renders exactly one frame at time now with ev as the current event
// (nil for none) and flushes it to the backend. A hook invariant violation
// is returned as the *hook.InvariantError; any other panic as a
// *RecoveredPanicError. A failed step leaves the tree unusable.
func (r *Runtime) Step(now time.Time, ev *backend.Event) (err error) {
	if r.pass == nil {
		return ErrNotMounted
	}
	defer recoverInto(&err, r.logger)
	defer r.root.EndPass()

	width, height := 0, 0
	if b := r.opts.Backend; b != nil {
		width, height = b.Size()
	}
	area := core.NewRect(0, 0, width, height)
	if r.buf.Area() != area {
		r.buf.Resize(area)
	}
	r.buf.Reset()

	var delta time.Duration
	if !r.last.IsZero() {
		delta = now.Sub(r.last)
	}
	r.root.BeginPass(ev)
	hook.Provide(r.root, hook.FrameInfo{Count: r.frames, Delta: delta, Timestamp: now})
	hook.Provide(r.root, hook.Viewport{Width: width, Height: height})

	started := time.Now()
	if _, err := r.pass.Run(r.tree, area, r.buf); err != nil {
		r.logger.Error("render failed", zap.Uint64("frame", r.frames), zap.Error(err))
		return err
	}
	if b := r.opts.Backend; b != nil {
		backend.Flush(b, r.buf)
	}

	r.metrics.RecordFrame(time.Since(started))
	stats := r.tracker.Stats()
	r.metrics.RecordLifecycle(stats.Mounts-r.stats.Mounts, stats.Unmounts-r.stats.Unmounts)
	r.stats = stats
	r.frames++
	r.last = now
	return nil
}

// Buffer returns the buffer of the last rendered frame.
func (r *Runtime) Buffer() *core.Buffer {
	return r.buf
}

// Tracker returns the lifecycle tracker of the mounted tree, or nil.
func (r *Runtime) Tracker() *lifecycle.Tracker {
	return r.tracker
}

// Unmount tears down every mounted component, running their unmount
// callbacks and effect cleanups, then stops background tasks. It returns
// the first background task failure.
func (r *Runtime) Unmount() (err error) {
	if r.tracker == nil {
		return nil
	}
	defer func() {
		r.tracker, r.pass, r.tree = nil, nil, element.Element{}
	}()
	defer recoverInto(&err, r.logger)

	gone := r.tracker.Dispose()
	r.metrics.RecordLifecycle(0, uint64(len(gone)))
	if err := r.root.Close(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// recoverInto converts a panic into an error stored in *err. Hook
// invariant violations keep their type.
func recoverInto(err *error, logger *zap.Logger) {
	v := recover()
	if v == nil {
		return
	}
	var ie *hook.InvariantError
	if e, ok := v.(error); ok && errors.As(e, &ie) {
		logger.Error("hook invariant violated", zap.Error(ie))
		*err = ie
		return
	}
	stack := string(debug.Stack())
	logger.Error("render panic recovered", zap.Any("panic", v), zap.String("stack", stack))
	*err = &RecoveredPanicError{Value: v, Stack: stack}
}
