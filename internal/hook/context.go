package hook

import (
	"sync/atomic"

	"github.com/dshills/hookstorm/internal/renderer/core"
)

// Context is the hook scope of one component instance: its slots and the
// cursor that assigns them. A Context is only used from the render
// goroutine; Disposed may be called from anywhere.
type Context struct {
	root     *Root
	owner    string
	slots    []slot
	cursor   int
	area     core.Rect
	disposed atomic.Bool
}

// NewContext creates an empty hook scope. owner names the component
// instance in error messages.
func NewContext(root *Root, owner string) *Context {
	if root == nil {
		root = NewRoot()
	}
	return &Context{root: root, owner: owner}
}

// Root returns the render root this scope belongs to.
func (c *Context) Root() *Root {
	return c.root
}

// Owner returns the component instance name given to NewContext.
func (c *Context) Owner() string {
	return c.owner
}

// NextIndex returns the current cursor and advances it.
func (c *Context) NextIndex() int {
	i := c.cursor
	c.cursor++
	return i
}

// ResetIndex rewinds the cursor for a new render without touching slots.
func (c *Context) ResetIndex() {
	c.cursor = 0
}

// Cursor returns how many hooks have been called since the last reset.
func (c *Context) Cursor() int {
	return c.cursor
}

// Len returns the number of slots.
func (c *Context) Len() int {
	return len(c.slots)
}

// SetArea records the screen area the component renders into.
func (c *Context) SetArea(area core.Rect) {
	c.area = area
}

// Clear runs every outstanding effect cleanup in slot order and then
// discards all slots. The scope can be used again afterwards.
func (c *Context) Clear() {
	for i := range c.slots {
		if rec, ok := c.slots[i].value.(*effectRecord); ok {
			rec.runCleanup()
		}
	}
	c.slots = nil
	c.cursor = 0
}

// Dispose clears the scope and marks it dead. Any further hook call on it
// panics with ErrDisposed. Dispose is idempotent.
func (c *Context) Dispose() {
	if c.disposed.Load() {
		return
	}
	c.Clear()
	c.disposed.Store(true)
}

// Disposed reports whether Dispose has been called.
func (c *Context) Disposed() bool {
	return c.disposed.Load()
}

func (c *Context) checkLive(index int) {
	if c.disposed.Load() {
		panic(invariant(c.owner, index, ErrDisposed, "component is unmounted"))
	}
}
