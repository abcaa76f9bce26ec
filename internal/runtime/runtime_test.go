package runtime

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/dshills/hookstorm/internal/config"
	"github.com/dshills/hookstorm/internal/element"
	"github.com/dshills/hookstorm/internal/hook"
	"github.com/dshills/hookstorm/internal/renderer/backend"
	"github.com/dshills/hookstorm/internal/renderer/core"
)

func newTestRuntime(t *testing.T, b backend.Backend, opts ...Option) *Runtime {
	t.Helper()
	opts = append([]Option{
		WithBackend(b),
		WithFPS(maxFPS),
		WithPollTimeout(time.Millisecond),
		WithLogger(zaptest.NewLogger(t)),
	}, opts...)
	return New(opts...)
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// exitAfter renders text and requests exit once n frames have rendered.
func exitAfter(n uint64, text string) func() element.Element {
	return func() element.Element {
		return element.Named("App", func(h *hook.Context, _ core.Rect) (element.Element, error) {
			if hook.UseFrame(h).Count+1 >= n {
				RequestExit()
			}
			return element.Text(text), nil
		})
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

func TestStep_RendersFrames(t *testing.T) {
	b := backend.NewNullBackend(20, 3)
	if err := b.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	r := newTestRuntime(t, b)

	var frames []hook.FrameInfo
	app := func() element.Element {
		return element.Named("App", func(h *hook.Context, _ core.Rect) (element.Element, error) {
			frame := hook.UseFrame(h)
			frames = append(frames, frame)
			w, hgt := hook.UseTerminalDimensions(h)
			return element.Text(fmt.Sprintf("frame %d %dx%d", frame.Count, w, hgt)), nil
		})
	}

	if err := r.Mount(context.Background(), app); err != nil {
		t.Fatalf("mount: %v", err)
	}
	defer r.Unmount()

	start := time.Unix(100, 0)
	for i := range 2 {
		if err := r.Step(start.Add(time.Duration(i)*10*time.Millisecond), nil); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		want := fmt.Sprintf("frame %d 20x3", i)
		if got := firstLine(b.Screen()); got != want {
			t.Errorf("step %d: expected %q, got %q", i, want, got)
		}
	}

	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	if !frames[0].IsFirst() || frames[0].Delta != 0 {
		t.Errorf("expected first frame with zero delta, got %+v", frames[0])
	}
	if frames[1].Delta != 10*time.Millisecond {
		t.Errorf("expected 10ms delta, got %v", frames[1].Delta)
	}
	if got := r.Buffer().Line(0); got != "frame 1 20x3" {
		t.Errorf("expected buffer to hold last frame, got %q", got)
	}
}

func TestStep_FollowsResize(t *testing.T) {
	b := backend.NewNullBackend(10, 2)
	_ = b.Init()
	r := newTestRuntime(t, b)

	app := func() element.Element {
		return element.Named("App", func(h *hook.Context, _ core.Rect) (element.Element, error) {
			area := hook.UseArea(h)
			return element.Text(fmt.Sprintf("%dx%d", area.Width, area.Height)), nil
		})
	}
	if err := r.Mount(context.Background(), app); err != nil {
		t.Fatalf("mount: %v", err)
	}
	defer r.Unmount()

	if err := r.Step(time.Now(), nil); err != nil {
		t.Fatalf("step: %v", err)
	}
	b.Resize(16, 4)
	ev := backend.Event{Type: backend.EventResize, Width: 16, Height: 4}
	if err := r.Step(time.Now(), &ev); err != nil {
		t.Fatalf("step: %v", err)
	}
	if got := r.Buffer().Area(); got != core.NewRect(0, 0, 16, 4) {
		t.Errorf("expected buffer resized to 16x4, got %v", got)
	}
	if got := r.Buffer().Line(0); got != "16x4" {
		t.Errorf("expected %q, got %q", "16x4", got)
	}
}

func TestStep_NotMounted(t *testing.T) {
	r := New()
	if err := r.Step(time.Now(), nil); !errors.Is(err, ErrNotMounted) {
		t.Errorf("expected ErrNotMounted, got %v", err)
	}
	if err := r.Unmount(); err != nil {
		t.Errorf("expected unmount without mount to succeed, got %v", err)
	}
}

func TestRun_ExitRequestedFromComponent(t *testing.T) {
	b := backend.NewNullBackend(20, 2)
	r := newTestRuntime(t, b)

	if err := r.Run(testContext(t), exitAfter(3, "hello")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !b.IsShutdown() {
		t.Error("expected backend to be shut down")
	}
	if got := firstLine(b.Screen()); got != "hello" {
		t.Errorf("expected %q on screen, got %q", "hello", got)
	}
	if got := r.Metrics().Snapshot().FrameCount; got != 3 {
		t.Errorf("expected 3 frames, got %d", got)
	}
	if r.IsRunning() {
		t.Error("expected runtime to be stopped")
	}
}

func TestRun_FactoryCalledOnce(t *testing.T) {
	b := backend.NewNullBackend(10, 1)
	r := newTestRuntime(t, b)

	calls := 0
	factory := exitAfter(4, "x")
	err := r.Run(testContext(t), func() element.Element {
		calls++
		return factory()
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected factory to be called once, got %d", calls)
	}
}

func TestRun_UnmountsOnExit(t *testing.T) {
	b := backend.NewNullBackend(10, 1)
	r := newTestRuntime(t, b)

	var order []string
	child := element.Named("Child", func(h *hook.Context, _ core.Rect) (element.Element, error) {
		hook.UseEffect(h, func() func() {
			return func() { order = append(order, "child cleanup") }
		})
		return element.Text("child"), nil
	})
	app := func() element.Element {
		return element.Named("App", func(h *hook.Context, _ core.Rect) (element.Element, error) {
			hook.UseEffect(h, func() func() {
				return func() { order = append(order, "app cleanup") }
			})
			RequestExit()
			return child, nil
		})
	}

	if err := r.Run(testContext(t), app); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"child cleanup", "app cleanup"}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Errorf("expected %v, got %v", want, order)
	}
	snapshot := r.Metrics().Snapshot()
	if snapshot.Mounts != 2 || snapshot.Unmounts != 2 {
		t.Errorf("expected 2 mounts and 2 unmounts, got %d and %d", snapshot.Mounts, snapshot.Unmounts)
	}
	if r.Tracker() != nil {
		t.Error("expected tracker to be released after run")
	}
}

func TestRun_PanicIsRecovered(t *testing.T) {
	b := backend.NewNullBackend(10, 1)
	r := newTestRuntime(t, b)

	cleaned := false
	app := func() element.Element {
		return element.Named("App", func(h *hook.Context, _ core.Rect) (element.Element, error) {
			hook.UseEffect(h, func() func() {
				return func() { cleaned = true }
			})
			if hook.UseFrame(h).Count == 1 {
				panic("boom")
			}
			return element.Text("ok"), nil
		})
	}

	err := r.Run(testContext(t), app)
	var pe *RecoveredPanicError
	if !errors.As(err, &pe) {
		t.Fatalf("expected RecoveredPanicError, got %v", err)
	}
	if pe.Value != "boom" {
		t.Errorf("expected panic value %q, got %v", "boom", pe.Value)
	}
	if pe.Stack == "" {
		t.Error("expected a stack trace")
	}
	if !b.IsShutdown() {
		t.Error("expected backend to be shut down after a panic")
	}
	if !cleaned {
		t.Error("expected effect cleanup to run after a panic")
	}
}

func TestRun_PanicWithErrorUnwraps(t *testing.T) {
	sentinel := errors.New("bad state")
	b := backend.NewNullBackend(10, 1)
	r := newTestRuntime(t, b)

	err := r.Run(testContext(t), func() element.Element {
		return element.Named("App", func(*hook.Context, core.Rect) (element.Element, error) {
			panic(sentinel)
		})
	})
	if !errors.Is(err, sentinel) {
		t.Errorf("expected error to wrap %v, got %v", sentinel, err)
	}
}

func TestRun_InvariantErrorKeepsType(t *testing.T) {
	b := backend.NewNullBackend(10, 1)
	r := newTestRuntime(t, b)

	app := func() element.Element {
		return element.Named("App", func(h *hook.Context, _ core.Rect) (element.Element, error) {
			if hook.UseFrame(h).Count == 0 {
				hook.UseState(h, func() int { return 0 })
			} else {
				hook.UseRef(h, func() string { return "" })
			}
			return element.Text("x"), nil
		})
	}

	err := r.Run(testContext(t), app)
	var ie *hook.InvariantError
	if !errors.As(err, &ie) {
		t.Fatalf("expected InvariantError, got %v", err)
	}
	var pe *RecoveredPanicError
	if errors.As(err, &pe) {
		t.Error("expected invariant violations not to be wrapped as panics")
	}
	if !b.IsShutdown() {
		t.Error("expected backend to be shut down")
	}
}

func TestRun_ComponentError(t *testing.T) {
	sentinel := errors.New("no data")
	b := backend.NewNullBackend(10, 1)
	r := newTestRuntime(t, b)

	err := r.Run(testContext(t), func() element.Element {
		return element.Named("Loader", func(*hook.Context, core.Rect) (element.Element, error) {
			return element.Element{}, sentinel
		})
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected %v, got %v", sentinel, err)
	}
	var ce *element.ComponentError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ComponentError, got %T", err)
	}
	if ce.Path != "Loader[0]" {
		t.Errorf("expected path %q, got %q", "Loader[0]", ce.Path)
	}
}

func TestRun_FactoryPanic(t *testing.T) {
	b := backend.NewNullBackend(10, 1)
	r := newTestRuntime(t, b)

	err := r.Run(testContext(t), func() element.Element {
		panic("factory failed")
	})
	var pe *RecoveredPanicError
	if !errors.As(err, &pe) {
		t.Fatalf("expected RecoveredPanicError, got %v", err)
	}
	if !b.IsShutdown() {
		t.Error("expected backend to be shut down")
	}
}

func TestRun_InitError(t *testing.T) {
	sentinel := errors.New("not a terminal")
	b := backend.NewNullBackend(10, 1)
	b.FailInit(sentinel)
	r := newTestRuntime(t, b)

	err := r.Run(testContext(t), exitAfter(1, "x"))
	var ie *InitError
	if !errors.As(err, &ie) {
		t.Fatalf("expected InitError, got %v", err)
	}
	if ie.Component != "backend" {
		t.Errorf("expected component %q, got %q", "backend", ie.Component)
	}
	if !errors.Is(err, sentinel) {
		t.Errorf("expected error to wrap %v", sentinel)
	}
	if r.IsRunning() {
		t.Error("expected runtime to be stopped")
	}
}

func TestRun_ArgumentErrors(t *testing.T) {
	if err := New().Run(context.Background(), exitAfter(1, "x")); !errors.Is(err, ErrNoBackend) {
		t.Errorf("expected ErrNoBackend, got %v", err)
	}
	r := New(WithBackend(backend.NewNullBackend(1, 1)))
	if err := r.Run(context.Background(), nil); !errors.Is(err, ErrNilRoot) {
		t.Errorf("expected ErrNilRoot, got %v", err)
	}
}

func TestRun_ContextCancelStops(t *testing.T) {
	b := backend.NewNullBackend(10, 1)
	r := newTestRuntime(t, b)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := r.Run(ctx, func() element.Element { return element.Text("forever") })
	if err != nil {
		t.Fatalf("expected cancellation to stop cleanly, got %v", err)
	}
	if ctx.Err() == nil {
		t.Error("expected run to last until the context was done")
	}
	if !b.IsShutdown() {
		t.Error("expected backend to be shut down")
	}
}

func TestRun_CtrlCRequestsExit(t *testing.T) {
	b := backend.NewNullBackend(10, 1)
	b.PostEvent(backend.KeyEvent(backend.KeyCtrlC, backend.ModNone))
	r := newTestRuntime(t, b)

	ctx := testContext(t)
	if err := r.Run(ctx, func() element.Element { return element.Text("x") }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctx.Err() != nil {
		t.Error("expected Ctrl+C to stop the loop before the context expired")
	}
	if got := r.Metrics().Snapshot().InputCount; got != 1 {
		t.Errorf("expected 1 input, got %d", got)
	}
}

func TestRun_CtrlCDeliveredWhenExitDisabled(t *testing.T) {
	b := backend.NewNullBackend(10, 1)
	b.PostEvent(backend.RuneEvent('c'))
	b.PostEvent(backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: 'c', Mod: backend.ModCtrl})
	r := newTestRuntime(t, b, WithExitOnCtrlC(false))

	var interrupts atomic.Int32
	app := func() element.Element {
		return element.Named("App", func(h *hook.Context, _ core.Rect) (element.Element, error) {
			hook.UseKeyboard(h, func(ev backend.Event) {
				if ev.IsInterrupt() {
					interrupts.Add(1)
					RequestExit()
				}
			})
			return element.Text("x"), nil
		})
	}

	if err := r.Run(testContext(t), app); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := interrupts.Load(); got != 1 {
		t.Errorf("expected the component to see one interrupt, got %d", got)
	}
}

func TestRun_OneEventPerFrame(t *testing.T) {
	b := backend.NewNullBackend(10, 1)
	for _, r := range "abc" {
		b.PostEvent(backend.RuneEvent(r))
	}
	r := newTestRuntime(t, b)

	var seen []string
	app := func() element.Element {
		return element.Named("App", func(h *hook.Context, _ core.Rect) (element.Element, error) {
			hook.UseKeyboard(h, func(ev backend.Event) {
				seen = append(seen, string(ev.Rune))
			})
			if len(seen) == 3 {
				RequestExit()
			}
			return element.Text(strings.Join(seen, "")), nil
		})
	}

	if err := r.Run(testContext(t), app); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.Join(seen, ""); got != "abc" {
		t.Errorf("expected events in order %q, got %q", "abc", got)
	}
	if frames := r.Metrics().Snapshot().FrameCount; frames < 3 {
		t.Errorf("expected at least one frame per event, got %d frames", frames)
	}
}

func TestRun_AlreadyRunning(t *testing.T) {
	b := backend.NewNullBackend(10, 1)
	r := newTestRuntime(t, b)

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	ctx := testContext(t)
	go func() {
		var once atomic.Bool
		done <- r.Run(ctx, func() element.Element {
			return element.Named("App", func(*hook.Context, core.Rect) (element.Element, error) {
				if once.CompareAndSwap(false, true) {
					close(started)
				}
				select {
				case <-release:
					RequestExit()
				default:
				}
				return element.Text("x"), nil
			})
		})
	}()

	<-started
	if !r.IsRunning() {
		t.Error("expected runtime to report running")
	}
	if err := r.Run(context.Background(), exitAfter(1, "y")); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("expected ErrAlreadyRunning, got %v", err)
	}
	close(release)

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for run to stop")
	}
}

func TestRun_MouseAndPaste(t *testing.T) {
	b := backend.NewNullBackend(10, 1)
	r := newTestRuntime(t, b, WithMouse(true), WithPaste(true))

	var enabled bool
	app := func() element.Element {
		return element.Named("App", func(*hook.Context, core.Rect) (element.Element, error) {
			enabled = b.MouseEnabled()
			RequestExit()
			return element.Text("x"), nil
		})
	}
	if err := r.Run(testContext(t), app); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !enabled {
		t.Error("expected mouse reporting during the run")
	}
	if b.MouseEnabled() {
		t.Error("expected mouse reporting to be disabled after the run")
	}
}

func TestRun_TimerRequestsExit(t *testing.T) {
	b := backend.NewNullBackend(10, 1)
	r := newTestRuntime(t, b)

	app := func() element.Element {
		return element.Named("App", func(h *hook.Context, _ core.Rect) (element.Element, error) {
			hook.UseTimeout(h, RequestExit, 20*time.Millisecond)
			return element.Text("waiting"), nil
		})
	}

	ctx := testContext(t)
	if err := r.Run(ctx, app); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctx.Err() != nil {
		t.Error("expected the timer to stop the loop")
	}
}

func TestNew_Options(t *testing.T) {
	r := New(WithConfig(config.Runtime{
		FPS:         30,
		PollTimeout: 5 * time.Millisecond,
		ExitOnCtrlC: false,
		Mouse:       true,
	}))
	if r.opts.FPS != 30 || r.opts.PollTimeout != 5*time.Millisecond {
		t.Errorf("unexpected options %+v", r.opts)
	}
	if r.opts.ExitOnCtrlC || !r.opts.Mouse {
		t.Errorf("expected flags from config, got %+v", r.opts)
	}
	if got := r.FrameInterval(); got != time.Second/30 {
		t.Errorf("expected interval %v, got %v", time.Second/30, got)
	}

	r.SetFPS(10)
	if got := r.FrameInterval(); got != 100*time.Millisecond {
		t.Errorf("expected interval 100ms, got %v", got)
	}
}

func TestOptions_Normalize(t *testing.T) {
	tests := []struct {
		name     string
		opts     []Option
		fps      int
		interval time.Duration
	}{
		{"defaults", nil, DefaultFPS, time.Second / DefaultFPS},
		{"zero fps", []Option{WithFPS(0)}, DefaultFPS, time.Second / DefaultFPS},
		{"clamped", []Option{WithFPS(1000)}, maxFPS, time.Second / maxFPS},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(tt.opts...)
			if r.opts.FPS != tt.fps {
				t.Errorf("expected fps %d, got %d", tt.fps, r.opts.FPS)
			}
			if got := r.FrameInterval(); got != tt.interval {
				t.Errorf("expected interval %v, got %v", tt.interval, got)
			}
			if r.opts.PollTimeout != DefaultPollTimeout {
				t.Errorf("expected default poll timeout, got %v", r.opts.PollTimeout)
			}
		})
	}
}

func TestExitFlag(t *testing.T) {
	ResetExit()
	if ShouldExit() {
		t.Fatal("expected no exit request after reset")
	}
	RequestExit()
	if !ShouldExit() {
		t.Error("expected exit to be requested")
	}
	ResetExit()
}

func TestRecoveredPanicError(t *testing.T) {
	e := &RecoveredPanicError{Value: "oops"}
	if e.Error() != "panic: oops" {
		t.Errorf("unexpected message %q", e.Error())
	}
	if e.Unwrap() != nil {
		t.Error("expected non-error panic value not to unwrap")
	}
}
