// Package hook implements positional hook storage for components.
//
// Every mounted component instance owns a Context: an ordered list of slots
// plus a cursor. Each hook call takes the next index, so a component must
// call the same hooks in the same order on every render. Slots are created
// lazily on first visit and never move; a later visit that asks for a
// different kind or type of slot at the same index panics with an
// *InvariantError because the call order was broken.
//
// Contexts belonging to the same render root share a Root, which carries the
// type-keyed provider stack, the current input event and the background
// task group.
//
//	func counter(h *hook.Context, area core.Rect) (element.Element, error) {
//		count, setCount := hook.UseState(h, func() int { return 0 })
//		hook.UseKeyboard(h, func(ev backend.Event) {
//			if ev.Rune == '+' {
//				setCount.Update(func(n int) int { return n + 1 })
//			}
//		})
//		return element.Text(strconv.Itoa(count.Get())), nil
//	}
package hook
