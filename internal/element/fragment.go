package element

import (
	"github.com/dshills/hookstorm/internal/renderer/core"
	"github.com/dshills/hookstorm/internal/renderer/layout"
)

// fragment stacks its children top to bottom. Text children get as many
// rows as they have lines; the rest share what is left.
type fragment struct {
	children []Element
}

// Fragment groups elements vertically without drawing anything itself.
func Fragment(children ...Element) Element {
	return Element{kind: KindWidget, widget: fragment{children: children}, name: "Fragment"}
}

func (f fragment) Draw(core.Rect, *core.Buffer) {}

func (f fragment) Children(area core.Rect) []Child {
	kept := make([]Element, 0, len(f.children))
	constraints := make([]layout.Constraint, 0, len(f.children))
	for _, el := range f.children {
		switch el.kind {
		case KindEmpty:
			continue
		case KindText:
			constraints = append(constraints, layout.Length(el.Lines()))
		default:
			constraints = append(constraints, layout.Fill(1))
		}
		kept = append(kept, el)
	}
	rects := layout.Split(area, layout.Vertical, constraints...)
	out := make([]Child, len(kept))
	for i, el := range kept {
		out[i] = Child{Element: el, Area: rects[i]}
	}
	return out
}
