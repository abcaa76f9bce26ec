package core

import "fmt"

// Rect is an axis-aligned screen region. X and Y are the top-left column
// and row; Width and Height are in cells.
type Rect struct {
	X, Y          int
	Width, Height int
}

// NewRect creates a rectangle, clamping negative sizes to zero.
func NewRect(x, y, width, height int) Rect {
	return Rect{X: x, Y: y, Width: max(width, 0), Height: max(height, 0)}
}

// Right returns the exclusive right column.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the exclusive bottom row.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Area returns the number of cells in r.
func (r Rect) Area() int { return r.Width * r.Height }

// IsEmpty returns true if the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether the cell at (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Intersect returns the overlap of r and other, or the zero Rect.
func (r Rect) Intersect(other Rect) Rect {
	x0, y0 := max(r.X, other.X), max(r.Y, other.Y)
	x1, y1 := min(r.Right(), other.Right()), min(r.Bottom(), other.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Inset shrinks r by the given amounts on each side.
func (r Rect) Inset(top, right, bottom, left int) Rect {
	return NewRect(r.X+left, r.Y+top, r.Width-left-right, r.Height-top-bottom)
}

// Inner shrinks r by margin on every side.
func (r Rect) Inner(margin int) Rect {
	return r.Inset(margin, margin, margin, margin)
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d@(%d,%d)", r.Width, r.Height, r.X, r.Y)
}
