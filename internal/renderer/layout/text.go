package layout

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// DefaultTabWidth is the tab stop distance used when none is given.
const DefaultTabWidth = 4

// ExpandTabs replaces tabs in s with spaces up to the next tab stop,
// counting columns by display width.
func ExpandTabs(s string, tabWidth int) string {
	if !strings.ContainsRune(s, '\t') {
		return s
	}
	if tabWidth < 1 {
		tabWidth = DefaultTabWidth
	}
	var sb strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := tabWidth - col%tabWidth
			sb.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		sb.WriteRune(r)
		col += runewidth.RuneWidth(r)
	}
	return sb.String()
}

// Wrap breaks s into lines no wider than width columns. Lines break at
// spaces where possible and inside words that are wider than width.
// Existing newlines are kept.
func Wrap(s string, width int) []string {
	if width <= 0 {
		return nil
	}
	var out []string
	for _, line := range strings.Split(s, "\n") {
		out = append(out, wrapLine(line, width)...)
	}
	return out
}

func wrapLine(line string, width int) []string {
	if uniseg.StringWidth(line) <= width {
		return []string{line}
	}
	var (
		lines []string
		cur   strings.Builder
		col   int
	)
	flush := func() {
		lines = append(lines, strings.TrimRight(cur.String(), " "))
		cur.Reset()
		col = 0
	}
	for _, word := range strings.SplitAfter(line, " ") {
		w := uniseg.StringWidth(strings.TrimRight(word, " "))
		if col > 0 && col+w > width {
			flush()
		}
		if w <= width {
			cur.WriteString(word)
			col += uniseg.StringWidth(word)
			continue
		}
		// Hard break a word that cannot fit on any line.
		gr := uniseg.NewGraphemes(word)
		for gr.Next() {
			gw := gr.Width()
			if col+gw > width {
				flush()
			}
			cur.WriteString(gr.Str())
			col += gw
		}
	}
	if cur.Len() > 0 {
		lines = append(lines, strings.TrimRight(cur.String(), " "))
	}
	return lines
}
