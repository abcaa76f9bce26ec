package widget

import (
	"fmt"

	"github.com/dshills/hookstorm/internal/element"
	"github.com/dshills/hookstorm/internal/renderer/core"
)

// Gauge draws a horizontal progress bar on the first row of its area. The
// filled part blends from Low to High as Ratio grows.
type Gauge struct {
	Ratio float64 // 0 to 1
	Label string  // drawn centered; defaults to the percentage
	Low   core.Color
	High  core.Color
}

// Element wraps the gauge for use in an element tree.
func (g Gauge) Element() element.Element {
	return element.FromWidget(g)
}

func (g Gauge) Draw(area core.Rect, buf *core.Buffer) {
	if area.IsEmpty() {
		return
	}
	ratio := min(max(g.Ratio, 0), 1)
	filled := int(ratio * float64(area.Width))

	fill := g.Low.Blend(g.High, ratio)
	for x := area.X; x < area.X+filled; x++ {
		buf.SetCell(x, area.Y, core.NewCell(' ', core.DefaultStyle().Bg(fill)))
	}

	label := g.Label
	if label == "" {
		label = fmt.Sprintf("%d%%", int(ratio*100))
	}
	label = core.Truncate(label, area.Width, "")
	x := area.X + offset(AlignCenter, core.StringWidth(label), area.Width)
	for _, r := range label {
		style := core.DefaultStyle().Bold()
		if x < area.X+filled {
			style = style.Bg(fill)
		}
		buf.SetCell(x, area.Y, core.NewCell(r, style))
		x += max(core.RuneWidth(r), 1)
	}
}
