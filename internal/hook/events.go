package hook

import "github.com/dshills/hookstorm/internal/renderer/backend"

// UseEvent returns the input event delivered for this frame, if any. Every
// component sees the same event; it is dropped once the pass ends.
func UseEvent(c *Context) (backend.Event, bool) {
	c.checkLive(-1)
	return c.root.Event()
}

// UseKeyboard calls fn when this frame carries a key event.
func UseKeyboard(c *Context, fn func(ev backend.Event)) {
	if ev, ok := UseEvent(c); ok && ev.Type == backend.EventKey {
		fn(ev)
	}
}

// UseKeyboardShortcut calls fn when this frame carries the given key. For
// KeyRune, r selects the character. mod must match exactly.
func UseKeyboardShortcut(c *Context, key backend.Key, r rune, mod backend.ModMask, fn func()) {
	UseKeyboard(c, func(ev backend.Event) {
		if ev.Key != key || ev.Mod != mod {
			return
		}
		if key == backend.KeyRune && ev.Rune != r {
			return
		}
		fn()
	})
}

// UseMouse calls fn when this frame carries a mouse event.
func UseMouse(c *Context, fn func(ev backend.Event)) {
	if ev, ok := UseEvent(c); ok && ev.Type == backend.EventMouse {
		fn(ev)
	}
}

// UseOnResize calls fn when the terminal was resized this frame.
func UseOnResize(c *Context, fn func(width, height int)) {
	if ev, ok := UseEvent(c); ok && ev.Type == backend.EventResize {
		fn(ev.Width, ev.Height)
	}
}
