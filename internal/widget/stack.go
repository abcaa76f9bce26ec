package widget

import (
	"github.com/dshills/hookstorm/internal/element"
	"github.com/dshills/hookstorm/internal/renderer/core"
	"github.com/dshills/hookstorm/internal/renderer/layout"
)

// StackItem is one child of a Stack with the constraint that sizes it.
type StackItem struct {
	Constraint layout.Constraint
	Element    element.Element
}

// Item pairs an element with its constraint.
func Item(c layout.Constraint, el element.Element) StackItem {
	return StackItem{Constraint: c, Element: el}
}

// Stack lays its items out in a row or a column.
type Stack struct {
	Direction layout.Direction
	Items     []StackItem
}

// Column stacks items top to bottom.
func Column(items ...StackItem) element.Element {
	return Stack{Direction: layout.Vertical, Items: items}.Element()
}

// Row places items left to right.
func Row(items ...StackItem) element.Element {
	return Stack{Direction: layout.Horizontal, Items: items}.Element()
}

// Element wraps the stack for use in an element tree.
func (s Stack) Element() element.Element {
	return element.FromWidget(s)
}

func (s Stack) Draw(core.Rect, *core.Buffer) {}

func (s Stack) Children(area core.Rect) []element.Child {
	constraints := make([]layout.Constraint, len(s.Items))
	for i, it := range s.Items {
		constraints[i] = it.Constraint
	}
	rects := layout.Split(area, s.Direction, constraints...)
	children := make([]element.Child, len(s.Items))
	for i, it := range s.Items {
		children[i] = element.Child{Element: it.Element, Area: rects[i]}
	}
	return children
}
