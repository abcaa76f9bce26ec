package hook

import "sync"

// History is a value with undo and redo stacks.
type History[T any] struct {
	mu      sync.Mutex
	past    []T
	present T
	future  []T
	max     int
}

// NewHistory creates a history holding initial. maxPast bounds the undo
// stack; zero or less means unbounded.
func NewHistory[T any](initial T, maxPast int) *History[T] {
	return &History[T]{present: initial, max: maxPast}
}

// Current returns the present value.
func (h *History[T]) Current() T {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.present
}

// Push makes v the present value. The redo stack is cleared and the oldest
// undo entries are evicted beyond the limit.
func (h *History[T]) Push(v T) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.past = append(h.past, h.present)
	if h.max > 0 && len(h.past) > h.max {
		h.past = append(h.past[:0], h.past[len(h.past)-h.max:]...)
	}
	h.present = v
	h.future = nil
}

// Undo steps back one entry. It returns false when there is nothing to undo.
func (h *History[T]) Undo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.past) == 0 {
		return false
	}
	h.future = append(h.future, h.present)
	h.present = h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	return true
}

// Redo re-applies the last undone entry. It returns false when there is
// nothing to redo.
func (h *History[T]) Redo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.future) == 0 {
		return false
	}
	h.past = append(h.past, h.present)
	h.present = h.future[len(h.future)-1]
	h.future = h.future[:len(h.future)-1]
	return true
}

func (h *History[T]) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.past) > 0
}

func (h *History[T]) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.future) > 0
}

// Past returns a copy of the undo stack, oldest first.
func (h *History[T]) Past() []T {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]T(nil), h.past...)
}

// Clear drops both stacks, keeping the present value.
func (h *History[T]) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.past, h.future = nil, nil
}

// UseHistory keeps a History in a ref slot.
func UseHistory[T any](c *Context, initial T, maxPast int) *History[T] {
	return UseRef(c, func() *History[T] { return NewHistory(initial, maxPast) }).Get()
}
