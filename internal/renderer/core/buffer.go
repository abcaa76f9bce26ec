package core

import (
	"strings"

	"github.com/rivo/uniseg"
)

// Buffer is a grid of cells covering an area of the screen. The render
// pipeline draws a fresh Buffer every frame and hands it to the backend.
type Buffer struct {
	area  Rect
	cells []Cell
}

// NewBuffer creates a buffer covering area, filled with empty cells.
func NewBuffer(area Rect) *Buffer {
	b := &Buffer{}
	b.Resize(area)
	return b
}

// Area returns the region covered by the buffer.
func (b *Buffer) Area() Rect {
	return b.area
}

// Resize changes the covered area and clears every cell.
func (b *Buffer) Resize(area Rect) {
	area = NewRect(area.X, area.Y, area.Width, area.Height)
	n := area.Area()
	if cap(b.cells) >= n {
		b.cells = b.cells[:n]
	} else {
		b.cells = make([]Cell, n)
	}
	b.area = area
	b.Reset()
}

// Reset fills the buffer with empty cells.
func (b *Buffer) Reset() {
	empty := EmptyCell()
	for i := range b.cells {
		b.cells[i] = empty
	}
}

func (b *Buffer) index(x, y int) (int, bool) {
	if !b.area.Contains(x, y) {
		return 0, false
	}
	return (y-b.area.Y)*b.area.Width + (x - b.area.X), true
}

// Cell returns the cell at (x, y). Positions outside the buffer yield an
// empty cell.
func (b *Buffer) Cell(x, y int) Cell {
	if i, ok := b.index(x, y); ok {
		return b.cells[i]
	}
	return EmptyCell()
}

// SetCell stores c at (x, y). Positions outside the buffer are ignored.
func (b *Buffer) SetCell(x, y int, c Cell) {
	if i, ok := b.index(x, y); ok {
		b.cells[i] = c
	}
}

// Fill sets every cell of rect (clipped to the buffer) to c.
func (b *Buffer) Fill(rect Rect, c Cell) {
	rect = rect.Intersect(b.area)
	for y := rect.Y; y < rect.Bottom(); y++ {
		for x := rect.X; x < rect.Right(); x++ {
			b.cells[(y-b.area.Y)*b.area.Width+(x-b.area.X)] = c
		}
	}
}

// SetStyle merges style into every cell of rect.
func (b *Buffer) SetStyle(rect Rect, style Style) {
	rect = rect.Intersect(b.area)
	for y := rect.Y; y < rect.Bottom(); y++ {
		for x := rect.X; x < rect.Right(); x++ {
			i := (y-b.area.Y)*b.area.Width + (x - b.area.X)
			b.cells[i].Style = b.cells[i].Style.Merge(style)
		}
	}
}

// SetString writes s starting at (x, y), one grapheme cluster per cell,
// stopping at the right edge of the buffer. It returns the number of
// columns written.
func (b *Buffer) SetString(x, y int, s string, style Style) int {
	return b.SetStringN(x, y, s, style, b.area.Right()-x)
}

// SetStringN is SetString limited to at most maxWidth columns. A wide
// grapheme that would straddle the limit is not drawn.
func (b *Buffer) SetStringN(x, y int, s string, style Style, maxWidth int) int {
	if y < b.area.Y || y >= b.area.Bottom() {
		return 0
	}
	maxWidth = min(maxWidth, b.area.Right()-x)
	written := 0
	state := -1
	for len(s) > 0 && written < maxWidth {
		var cluster string
		var width int
		cluster, s, width, state = uniseg.FirstGraphemeClusterInString(s, state)
		if width == 0 {
			continue
		}
		if written+width > maxWidth {
			break
		}
		runes := []rune(cluster)
		cell := Cell{Rune: runes[0], Width: width, Style: style}
		if len(runes) > 1 {
			cell.Combining = runes[1:]
		}
		b.SetCell(x+written, y, cell)
		for i := 1; i < width; i++ {
			b.SetCell(x+written+i, y, ContinuationCell())
		}
		written += width
	}
	return written
}

// String renders the buffer as text, one line per row, with trailing
// spaces trimmed. Intended for tests and debugging.
func (b *Buffer) String() string {
	var sb strings.Builder
	for row := 0; row < b.area.Height; row++ {
		var line strings.Builder
		for col := 0; col < b.area.Width; col++ {
			c := b.cells[row*b.area.Width+col]
			if c.IsContinuation() {
				continue
			}
			line.WriteRune(c.Rune)
			for _, r := range c.Combining {
				line.WriteRune(r)
			}
		}
		sb.WriteString(strings.TrimRight(line.String(), " "))
		if row < b.area.Height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Line returns row y of the buffer as text with trailing spaces trimmed.
func (b *Buffer) Line(y int) string {
	lines := strings.Split(b.String(), "\n")
	row := y - b.area.Y
	if row < 0 || row >= len(lines) {
		return ""
	}
	return lines[row]
}
