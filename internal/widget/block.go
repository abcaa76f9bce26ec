package widget

import (
	"github.com/dshills/hookstorm/internal/element"
	"github.com/dshills/hookstorm/internal/renderer/core"
)

// BorderSet is the runes used to draw a border.
type BorderSet struct {
	Horizontal, Vertical                       rune
	TopLeft, TopRight, BottomLeft, BottomRight rune
}

// Border sets.
var (
	PlainBorder   = BorderSet{'─', '│', '┌', '┐', '└', '┘'}
	RoundedBorder = BorderSet{'─', '│', '╭', '╮', '╰', '╯'}
	DoubleBorder  = BorderSet{'═', '║', '╔', '╗', '╚', '╝'}
)

// Block draws an optional border and title and renders Child in the area
// inside it.
type Block struct {
	Title       string
	TitleStyle  core.Style
	Border      bool
	BorderSet   BorderSet // PlainBorder when zero
	BorderStyle core.Style
	Padding     int
	Child       element.Element
}

// Element wraps the block for use in an element tree.
func (b Block) Element() element.Element {
	return element.FromWidget(b)
}

// Inner returns the area left for the child.
func (b Block) Inner(area core.Rect) core.Rect {
	inner := area
	if b.Border {
		inner = inner.Inner(1)
	} else if b.Title != "" {
		inner = inner.Inset(1, 0, 0, 0)
	}
	return inner.Inner(b.Padding)
}

func (b Block) Draw(area core.Rect, buf *core.Buffer) {
	if area.IsEmpty() {
		return
	}
	if b.Border && area.Width >= 2 && area.Height >= 2 {
		b.drawBorder(area, buf)
	}
	if b.Title == "" {
		return
	}
	x, w := area.X, area.Width
	if b.Border {
		x, w = x+1, w-2
	}
	if w > 0 {
		buf.SetStringN(x, area.Y, core.Truncate(b.Title, w, "…"), b.TitleStyle, w)
	}
}

func (b Block) drawBorder(area core.Rect, buf *core.Buffer) {
	set := b.BorderSet
	if set == (BorderSet{}) {
		set = PlainBorder
	}
	put := func(x, y int, r rune) { buf.SetCell(x, y, core.NewCell(r, b.BorderStyle)) }

	right, bottom := area.Right()-1, area.Bottom()-1
	for x := area.X + 1; x < right; x++ {
		put(x, area.Y, set.Horizontal)
		put(x, bottom, set.Horizontal)
	}
	for y := area.Y + 1; y < bottom; y++ {
		put(area.X, y, set.Vertical)
		put(right, y, set.Vertical)
	}
	put(area.X, area.Y, set.TopLeft)
	put(right, area.Y, set.TopRight)
	put(area.X, bottom, set.BottomLeft)
	put(right, bottom, set.BottomRight)
}

func (b Block) Children(area core.Rect) []element.Child {
	if b.Child.IsEmpty() {
		return nil
	}
	return []element.Child{{Element: b.Child, Area: b.Inner(area)}}
}
