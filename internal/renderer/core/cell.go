package core

import (
	"slices"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Cell represents a single terminal cell.
type Cell struct {
	// Rune is the base character of the grapheme shown in this cell.
	Rune rune

	// Combining holds any combining runes that follow Rune in the same
	// grapheme cluster.
	Combining []rune

	// Width is the display width of this cell. Wide graphemes occupy two
	// columns; the second column holds a continuation cell.
	Width int

	Style Style
}

// EmptyCell returns an empty cell with default style.
func EmptyCell() Cell {
	return Cell{Rune: ' ', Width: 1, Style: DefaultStyle()}
}

// ContinuationCell returns the placeholder that follows a wide cell.
func ContinuationCell() Cell {
	return Cell{Style: DefaultStyle()}
}

// NewCell creates a cell with the given rune and style.
func NewCell(r rune, style Style) Cell {
	return Cell{Rune: r, Width: RuneWidth(r), Style: style}
}

// IsContinuation returns true if this is a continuation cell.
func (c Cell) IsContinuation() bool {
	return c.Width == 0 && c.Rune == 0
}

// Equals returns true if two cells are identical.
func (c Cell) Equals(other Cell) bool {
	return c.Rune == other.Rune &&
		c.Width == other.Width &&
		slices.Equal(c.Combining, other.Combining) &&
		c.Style.Equals(other.Style)
}

// RuneWidth returns the display width of a rune.
func RuneWidth(r rune) int {
	return runewidth.RuneWidth(r)
}

// StringWidth returns the display width of s measured in grapheme clusters.
func StringWidth(s string) int {
	return uniseg.StringWidth(s)
}

// Truncate shortens s to at most width columns, appending tail when it had
// to cut. The tail counts toward width.
func Truncate(s string, width int, tail string) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, tail)
}
