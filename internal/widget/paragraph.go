package widget

import (
	"strings"

	"github.com/dshills/hookstorm/internal/element"
	"github.com/dshills/hookstorm/internal/renderer/core"
	"github.com/dshills/hookstorm/internal/renderer/layout"
)

// Alignment positions a line horizontally.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// Line is one styled row of a Paragraph.
type Line struct {
	Text  string
	Style core.Style
}

// Paragraph draws lines of text. Lines wider than the area are wrapped when
// Wrap is set and truncated with an ellipsis otherwise.
type Paragraph struct {
	Lines    []Line
	Style    core.Style // applied to the whole area, under the lines' styles
	Align    Alignment
	Wrap     bool
	TabWidth int
}

// NewParagraph creates a paragraph from text, one Line per text line.
func NewParagraph(text string) Paragraph {
	var p Paragraph
	for _, s := range strings.Split(text, "\n") {
		p.Lines = append(p.Lines, Line{Text: s})
	}
	return p
}

// StyledLines creates a paragraph from prepared lines.
func StyledLines(lines ...Line) Paragraph {
	return Paragraph{Lines: lines}
}

// WithStyle returns a copy with the base style set.
func (p Paragraph) WithStyle(s core.Style) Paragraph {
	p.Style = s
	return p
}

// WithAlign returns a copy with the alignment set.
func (p Paragraph) WithAlign(a Alignment) Paragraph {
	p.Align = a
	return p
}

// WithWrap returns a copy that wraps long lines.
func (p Paragraph) WithWrap() Paragraph {
	p.Wrap = true
	return p
}

// Element wraps the paragraph for use in an element tree.
func (p Paragraph) Element() element.Element {
	return element.FromWidget(p)
}

func (p Paragraph) Draw(area core.Rect, buf *core.Buffer) {
	if area.IsEmpty() {
		return
	}
	if !p.Style.IsDefault() {
		buf.SetStyle(area, p.Style)
	}

	y := area.Y
	for _, line := range p.Lines {
		style := p.Style.Merge(line.Style)
		text := layout.ExpandTabs(line.Text, p.TabWidth)

		var rows []string
		if p.Wrap {
			rows = layout.Wrap(text, area.Width)
		} else {
			rows = []string{core.Truncate(text, area.Width, "…")}
		}
		for _, row := range rows {
			if y >= area.Bottom() {
				return
			}
			x := area.X + offset(p.Align, core.StringWidth(row), area.Width)
			buf.SetStringN(x, y, row, style, area.Right()-x)
			y++
		}
	}
}

func offset(a Alignment, width, avail int) int {
	if width >= avail {
		return 0
	}
	switch a {
	case AlignCenter:
		return (avail - width) / 2
	case AlignRight:
		return avail - width
	default:
		return 0
	}
}
