package hook

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// minTimerDelay is the shortest delay timers accept. Zero would make an
// interval spin.
const minTimerDelay = time.Millisecond

func clampDelay(d time.Duration) time.Duration {
	return max(d, minTimerDelay)
}

// spawn starts fn on the root's task group and returns the cancel func as an
// effect cleanup.
func spawn(c *Context, name string, fn func(ctx context.Context) error) func() {
	cancel, err := c.root.tasks.Go(c.owner+":"+name, fn)
	if err != nil {
		c.root.logger.Debug("task not started", zap.String("task", name), zap.Error(err))
	}
	return cancel
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// UseTimeout calls fn once, d after mount, unless the component unmounts
// first. fn runs on a background goroutine and should only touch state
// through setters and refs. Changing d restarts the timer.
func UseTimeout(c *Context, fn func(), d time.Duration) {
	UseTimeoutWithReset(c, fn, d, nil)
}

// UseTimeoutWithReset is UseTimeout that also restarts whenever resetKey
// changes.
func UseTimeoutWithReset(c *Context, fn func(), d time.Duration, resetKey any) {
	latest := UseEffectEvent(c, func(struct{}) struct{} { fn(); return struct{}{} })
	UseEffect(c, func() func() {
		return spawn(c, "timeout", func(ctx context.Context) error {
			if sleep(ctx, clampDelay(d)) {
				latest.Emit(struct{}{})
			}
			return nil
		})
	}, d, resetKey)
}

// UseInterval calls fn every d until the component unmounts.
func UseInterval(c *Context, fn func(), d time.Duration) {
	latest := UseEffectEvent(c, func(struct{}) struct{} { fn(); return struct{}{} })
	UseEffect(c, func() func() {
		return spawn(c, "interval", func(ctx context.Context) error {
			t := time.NewTicker(clampDelay(d))
			defer t.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-t.C:
					latest.Emit(struct{}{})
				}
			}
		})
	}, d)
}

// TimeoutHandle controls a timeout started on demand.
type TimeoutHandle struct {
	c       *Context
	mu      sync.Mutex
	cancel  context.CancelFunc
	gen     uint64
	d       time.Duration
	fn      func()
	stopped bool
}

// Start (re)starts the timeout, cancelling a pending one. After the owning
// component unmounts Start does nothing.
func (t *TimeoutHandle) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped || t.c.Disposed() {
		t.c.root.logger.Debug("timeout started after unmount", zap.String("owner", t.c.owner))
		return
	}
	if t.cancel != nil {
		t.cancel()
	}
	t.gen++
	gen, d := t.gen, t.d
	t.cancel = spawn(t.c, "timeout", func(ctx context.Context) error {
		if !sleep(ctx, clampDelay(d)) {
			return nil
		}
		t.mu.Lock()
		if t.gen != gen {
			t.mu.Unlock()
			return nil
		}
		t.cancel = nil
		fn := t.fn
		t.mu.Unlock()
		fn()
		return nil
	})
}

// Cancel stops a pending timeout.
func (t *TimeoutHandle) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
		t.gen++
	}
}

func (t *TimeoutHandle) stop() {
	t.Cancel()
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
}

// Pending reports whether a timeout is waiting to fire.
func (t *TimeoutHandle) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancel != nil
}

// UseTimeoutControlled returns a handle whose timeout only starts when
// Start is called. A pending timeout is cancelled at unmount.
func UseTimeoutControlled(c *Context, fn func(), d time.Duration) *TimeoutHandle {
	h := UseRef(c, func() *TimeoutHandle { return &TimeoutHandle{c: c} }).Get()
	h.mu.Lock()
	h.fn, h.d = fn, d
	h.mu.Unlock()
	UseEffect(c, func() func() { return h.stop })
	return h
}
