// Package layout splits screen areas into rows and columns and measures
// text for the widgets that draw into them.
package layout

import (
	"fmt"

	"github.com/dshills/hookstorm/internal/renderer/core"
)

// Direction is the axis along which Split divides an area.
type Direction int

const (
	Vertical   Direction = iota // top to bottom
	Horizontal                  // left to right
)

func (d Direction) String() string {
	if d == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

type constraintKind int

const (
	kindLength constraintKind = iota
	kindPercentage
	kindMin
	kindFill
)

// Constraint sizes one segment of a Split.
type Constraint struct {
	kind  constraintKind
	value int
}

// Length is a fixed number of cells.
func Length(n int) Constraint { return Constraint{kind: kindLength, value: max(n, 0)} }

// Percentage is a share of the whole area, 0 to 100.
func Percentage(p int) Constraint {
	return Constraint{kind: kindPercentage, value: min(max(p, 0), 100)}
}

// Min takes at least n cells and grows like Fill(1) when space is left.
func Min(n int) Constraint { return Constraint{kind: kindMin, value: max(n, 0)} }

// Fill shares the space left over by the other constraints in proportion
// to weight.
func Fill(weight int) Constraint { return Constraint{kind: kindFill, value: max(weight, 1)} }

func (c Constraint) String() string {
	switch c.kind {
	case kindLength:
		return fmt.Sprintf("Length(%d)", c.value)
	case kindPercentage:
		return fmt.Sprintf("Percentage(%d)", c.value)
	case kindMin:
		return fmt.Sprintf("Min(%d)", c.value)
	default:
		return fmt.Sprintf("Fill(%d)", c.value)
	}
}

func (c Constraint) base(total int) int {
	switch c.kind {
	case kindLength, kindMin:
		return c.value
	case kindPercentage:
		return total * c.value / 100
	default:
		return 0
	}
}

func (c Constraint) weight() int {
	switch c.kind {
	case kindFill:
		return c.value
	case kindMin:
		return 1
	default:
		return 0
	}
}

// Split divides area along dir, one rect per constraint, in order. Fixed
// sizes are honored first; when they overflow the area later segments are
// shortened, possibly to zero. Space left over is shared between Fill and
// Min segments by weight, with rounding leftovers going to the earliest
// ones. Segments never overlap and never leave the area.
func Split(area core.Rect, dir Direction, constraints ...Constraint) []core.Rect {
	if len(constraints) == 0 {
		return nil
	}
	total := area.Height
	if dir == Horizontal {
		total = area.Width
	}

	sizes := make([]int, len(constraints))
	left := total
	weights := 0
	for i, c := range constraints {
		sizes[i] = min(c.base(total), left)
		left -= sizes[i]
		weights += c.weight()
	}

	if left > 0 && weights > 0 {
		share := left
		for i, c := range constraints {
			if w := c.weight(); w > 0 {
				extra := share * w / weights
				sizes[i] += extra
				left -= extra
			}
		}
		for i, c := range constraints {
			if left == 0 {
				break
			}
			if c.weight() > 0 {
				sizes[i]++
				left--
			}
		}
	}

	rects := make([]core.Rect, len(constraints))
	offset := 0
	for i, size := range sizes {
		if dir == Horizontal {
			rects[i] = core.NewRect(area.X+offset, area.Y, size, area.Height)
		} else {
			rects[i] = core.NewRect(area.X, area.Y+offset, area.Width, size)
		}
		offset += size
	}
	return rects
}

// Equal splits area into n segments of equal size.
func Equal(area core.Rect, dir Direction, n int) []core.Rect {
	if n <= 0 {
		return nil
	}
	constraints := make([]Constraint, n)
	for i := range constraints {
		constraints[i] = Fill(1)
	}
	return Split(area, dir, constraints...)
}
