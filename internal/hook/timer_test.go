package hook

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestUseTimeout_Fires(t *testing.T) {
	root := NewRoot()
	defer root.Close()
	c := NewContext(root, "Test")

	var fired atomic.Int32
	pass(c, func() { UseTimeout(c, func() { fired.Add(1) }, 5*time.Millisecond) })
	pass(c, func() { UseTimeout(c, func() { fired.Add(1) }, 5*time.Millisecond) })

	waitFor(t, func() bool { return fired.Load() == 1 })
	time.Sleep(20 * time.Millisecond)
	if n := fired.Load(); n != 1 {
		t.Errorf("expected timeout to fire once, fired %d times", n)
	}
}

func TestUseTimeout_CancelledOnUnmount(t *testing.T) {
	root := NewRoot()
	defer root.Close()
	c := NewContext(root, "Test")

	var fired atomic.Bool
	pass(c, func() { UseTimeout(c, func() { fired.Store(true) }, 30*time.Millisecond) })
	c.Dispose()

	waitFor(t, func() bool { return root.Tasks().Running() == 0 })
	time.Sleep(50 * time.Millisecond)
	if fired.Load() {
		t.Error("timeout fired after unmount")
	}
}

func TestUseTimeoutWithReset(t *testing.T) {
	root := NewRoot()
	defer root.Close()
	c := NewContext(root, "Test")

	var fired atomic.Int32
	render := func(key int) {
		pass(c, func() { UseTimeoutWithReset(c, func() { fired.Add(1) }, 40*time.Millisecond, key) })
	}
	render(1)
	time.Sleep(10 * time.Millisecond)
	render(2)

	waitFor(t, func() bool { return root.Tasks().Running() == 1 })
	waitFor(t, func() bool { return fired.Load() == 1 })
	time.Sleep(50 * time.Millisecond)
	if n := fired.Load(); n != 1 {
		t.Errorf("expected the reset timer to fire once, fired %d times", n)
	}
}

func TestUseInterval(t *testing.T) {
	root := NewRoot()
	defer root.Close()
	c := NewContext(root, "Test")

	var ticks atomic.Int32
	pass(c, func() { UseInterval(c, func() { ticks.Add(1) }, 2*time.Millisecond) })
	waitFor(t, func() bool { return ticks.Load() >= 3 })

	c.Dispose()
	waitFor(t, func() bool { return root.Tasks().Running() == 0 })
	n := ticks.Load()
	time.Sleep(10 * time.Millisecond)
	if ticks.Load() != n {
		t.Error("interval kept ticking after unmount")
	}
}

func TestUseTimeoutControlled(t *testing.T) {
	root := NewRoot()
	defer root.Close()
	c := NewContext(root, "Test")

	var fired atomic.Int32
	var h *TimeoutHandle
	pass(c, func() { h = UseTimeoutControlled(c, func() { fired.Add(1) }, 5*time.Millisecond) })

	if h.Pending() {
		t.Error("controlled timeout must not start on its own")
	}
	h.Start()
	if !h.Pending() {
		t.Error("expected pending after Start")
	}
	waitFor(t, func() bool { return fired.Load() == 1 })
	if h.Pending() {
		t.Error("expected not pending after firing")
	}

	h.Start()
	h.Cancel()
	time.Sleep(20 * time.Millisecond)
	if fired.Load() != 1 {
		t.Error("cancelled timeout fired")
	}
}

func TestClampDelay(t *testing.T) {
	if got := clampDelay(0); got != time.Millisecond {
		t.Errorf("expected 1ms, got %v", got)
	}
	if got := clampDelay(time.Second); got != time.Second {
		t.Errorf("expected 1s, got %v", got)
	}
}

func TestUseFuture(t *testing.T) {
	root := NewRoot()
	defer root.Close()
	c := NewContext(root, "Test")

	release := make(chan struct{})
	fetch := func(ctx context.Context) (string, error) {
		select {
		case <-release:
			return "data", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	var f Future[string]
	pass(c, func() { f = UseFuture(c, fetch) })
	if f.Status != FuturePending {
		t.Fatalf("expected pending, got %v", f.Status)
	}

	close(release)
	waitFor(t, func() bool {
		pass(c, func() { f = UseFuture(c, fetch) })
		return f.Done()
	})
	if f.Status != FutureResolved || f.Value != "data" {
		t.Errorf("expected resolved 'data', got %+v", f)
	}
}

func TestUseFuture_Failure(t *testing.T) {
	root := NewRoot()
	defer root.Close()
	c := NewContext(root, "Test")

	boom := errors.New("boom")
	var f Future[int]
	body := func() {
		f = UseFuture(c, func(ctx context.Context) (int, error) { return 0, boom })
	}
	pass(c, body)
	waitFor(t, func() bool { pass(c, body); return f.Done() })

	if f.Status != FutureFailed || !errors.Is(f.Err, boom) {
		t.Errorf("expected failed future with boom, got %+v", f)
	}
	if root.Tasks().Err() != nil {
		t.Errorf("future errors must not fail the task group, got %v", root.Tasks().Err())
	}
}

func TestUseFuture_CancelledOnUnmount(t *testing.T) {
	root := NewRoot()
	defer root.Close()
	c := NewContext(root, "Test")

	cancelled := make(chan struct{})
	pass(c, func() {
		UseFuture(c, func(ctx context.Context) (int, error) {
			<-ctx.Done()
			close(cancelled)
			return 0, ctx.Err()
		})
	})
	c.Dispose()

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("future was not cancelled on unmount")
	}
}

func TestUseFuture_SupersededRunIgnored(t *testing.T) {
	root := NewRoot()
	defer root.Close()
	c := NewContext(root, "Test")

	releaseOld, releaseNew := make(chan struct{}), make(chan struct{})
	fetch := func(id int) func(ctx context.Context) (string, error) {
		if id == 1 {
			return func(context.Context) (string, error) {
				<-releaseOld
				return "stale", nil
			}
		}
		return func(ctx context.Context) (string, error) {
			select {
			case <-releaseNew:
				return "fresh", nil
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}

	var f Future[string]
	body := func(id int) func() {
		return func() { f = UseFuture(c, fetch(id), id) }
	}
	pass(c, body(1))
	pass(c, body(2))

	close(releaseOld)
	waitFor(t, func() bool { return root.Tasks().Running() == 1 })
	pass(c, body(2))
	if f.Status != FuturePending {
		t.Fatalf("expected superseded result to be dropped, got %+v", f)
	}

	close(releaseNew)
	waitFor(t, func() bool { pass(c, body(2)); return f.Done() })
	if f.Value != "fresh" {
		t.Errorf("expected 'fresh', got %q", f.Value)
	}
}

func TestUseTimeoutControlled_StartAfterUnmount(t *testing.T) {
	root := NewRoot()
	defer root.Close()
	c := NewContext(root, "Test")

	var fired atomic.Int32
	var h *TimeoutHandle
	pass(c, func() { h = UseTimeoutControlled(c, func() { fired.Add(1) }, time.Millisecond) })
	c.Dispose()

	h.Start()
	if h.Pending() {
		t.Error("expected Start after unmount to do nothing")
	}
	if n := root.Tasks().Running(); n != 0 {
		t.Errorf("expected no background tasks, got %d", n)
	}
	time.Sleep(10 * time.Millisecond)
	if fired.Load() != 0 {
		t.Error("timeout fired after unmount")
	}
}
