package backend

import (
	"sync"

	"github.com/dshills/hookstorm/internal/renderer/core"
)

// NullBackend is an in-memory backend for tests. It records the last shown
// frame and serves events posted with PostEvent.
type NullBackend struct {
	mu       sync.Mutex
	width    int
	height   int
	cells    []core.Cell
	shown    []core.Cell
	shows    int
	inited   bool
	shutdown bool
	mouse    bool
	paste    bool
	initErr  error
	events   chan Event
	quit     chan struct{}
	quitOnce sync.Once
}

// NewNullBackend creates a null backend with the given dimensions.
func NewNullBackend(width, height int) *NullBackend {
	return &NullBackend{
		width:  width,
		height: height,
		events: make(chan Event, 100),
		quit:   make(chan struct{}),
	}
}

// FailInit makes the next Init call return err.
func (b *NullBackend) FailInit(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.initErr = err
}

func (b *NullBackend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initErr != nil {
		return b.initErr
	}
	b.cells = blank(b.width * b.height)
	b.inited = true
	return nil
}

func (b *NullBackend) Shutdown() {
	b.mu.Lock()
	b.shutdown = true
	b.mu.Unlock()
	b.quitOnce.Do(func() { close(b.quit) })
}

func (b *NullBackend) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

func (b *NullBackend) SetCell(x, y int, cell core.Cell) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if x >= 0 && x < b.width && y >= 0 && y < b.height && len(b.cells) == b.width*b.height {
		b.cells[y*b.width+x] = cell
		if cell.Width == 2 && x+1 < b.width {
			b.cells[y*b.width+x+1] = core.ContinuationCell()
		}
	}
}

func (b *NullBackend) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cells = blank(b.width * b.height)
}

func (b *NullBackend) Show() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.shown = append(b.shown[:0], b.cells...)
	b.shows++
}

func (b *NullBackend) HideCursor() {}

func (b *NullBackend) PollEvent() Event {
	select {
	case ev := <-b.events:
		return ev
	case <-b.quit:
		return Event{Type: EventNone}
	}
}

func (b *NullBackend) PostEvent(event Event) {
	select {
	case b.events <- event:
	default:
		// Event dropped if queue is full (non-blocking for testing)
	}
}

func (b *NullBackend) EnableMouse()  { b.setFlag(&b.mouse, true) }
func (b *NullBackend) DisableMouse() { b.setFlag(&b.mouse, false) }
func (b *NullBackend) EnablePaste()  { b.setFlag(&b.paste, true) }
func (b *NullBackend) DisablePaste() { b.setFlag(&b.paste, false) }

func (b *NullBackend) setFlag(f *bool, v bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	*f = v
}

// Resize simulates a terminal resize and queues the matching event.
func (b *NullBackend) Resize(width, height int) {
	b.mu.Lock()
	b.width = width
	b.height = height
	b.cells = blank(width * height)
	b.mu.Unlock()
	b.PostEvent(Event{Type: EventResize, Width: width, Height: height})
}

// Shows returns how many frames have been shown.
func (b *NullBackend) Shows() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.shows
}

// IsShutdown reports whether Shutdown has been called.
func (b *NullBackend) IsShutdown() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.shutdown
}

// MouseEnabled reports whether mouse reporting is on.
func (b *NullBackend) MouseEnabled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mouse
}

// Screen returns the last shown frame as text, one line per row, with
// trailing spaces trimmed.
func (b *NullBackend) Screen() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	buf := core.NewBuffer(core.NewRect(0, 0, b.width, b.height))
	if len(b.shown) == b.width*b.height {
		for i, c := range b.shown {
			buf.SetCell(i%b.width, i/b.width, c)
		}
	}
	return buf.String()
}

func blank(n int) []core.Cell {
	cells := make([]core.Cell, n)
	for i := range cells {
		cells[i] = core.EmptyCell()
	}
	return cells
}
