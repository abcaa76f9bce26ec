package main

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dshills/hookstorm/internal/element"
	"github.com/dshills/hookstorm/internal/hook"
	"github.com/dshills/hookstorm/internal/renderer/backend"
	"github.com/dshills/hookstorm/internal/renderer/core"
	"github.com/dshills/hookstorm/internal/renderer/layout"
	"github.com/dshills/hookstorm/internal/runtime"
	"github.com/dshills/hookstorm/internal/script"
	"github.com/dshills/hookstorm/internal/widget"
)

type demo struct {
	name  string
	short string
	root  func() element.Element
}

var demos = []demo{
	{"counter", "Increment and decrement a counter", counterApp},
	{"history", "Type text with undo and redo", historyApp},
	{"timer", "A stopwatch driven by a background interval", timerApp},
	{"palette", "Animated color gradients", paletteApp},
}

// theme is provided at the top of every demo and read by the frame.
type theme struct {
	title  core.Style
	border core.Style
	muted  core.Style
	accent core.Color
}

func defaultTheme() theme {
	return theme{
		title:  core.NewStyle(core.MustHex("#7aa2f7")).Add(core.AttrBold),
		border: core.NewStyle(core.MustHex("#565f89")),
		muted:  core.NewStyle(core.ColorGray).Add(core.AttrDim),
		accent: core.MustHex("#9ece6a"),
	}
}

func themed(child element.Element) element.Element {
	return element.Named("Theme", func(h *hook.Context, _ core.Rect) (element.Element, error) {
		hook.UseContextProvider(h, defaultTheme)
		return child, nil
	})
}

// frame draws a bordered box around body with a help line at the bottom.
func frame(title string, body element.Element, help string) element.Element {
	return element.Named("Frame", func(h *hook.Context, _ core.Rect) (element.Element, error) {
		th := hook.UseContext[theme](h)
		return widget.Block{
			Title:       " " + title + " ",
			TitleStyle:  th.title,
			Border:      true,
			BorderSet:   widget.RoundedBorder,
			BorderStyle: th.border,
			Child: widget.Column(
				widget.Item(layout.Fill(1), body),
				widget.Item(layout.Length(1), widget.NewParagraph(help).WithStyle(th.muted).Element()),
			),
		}.Element(), nil
	})
}

func isRune(ev backend.Event, runes ...rune) bool {
	if ev.Key != backend.KeyRune || ev.Mod.Has(backend.ModCtrl) {
		return false
	}
	for _, r := range runes {
		if ev.Rune == r {
			return true
		}
	}
	return false
}

// isCtrl matches Ctrl+letter in both the control-key and modifier forms.
func isCtrl(ev backend.Event, key backend.Key, letter rune) bool {
	if ev.Key == key {
		return true
	}
	return ev.Key == backend.KeyRune && ev.Mod.Has(backend.ModCtrl) && (ev.Rune == letter || ev.Rune == letter-'a'+'A')
}

func counterApp() element.Element {
	return themed(element.Named("Counter", counterView))
}

func counterView(h *hook.Context, _ core.Rect) (element.Element, error) {
	count, setCount := hook.UseState(h, func() int { return 0 })
	th := hook.UseContext[theme](h)

	hook.UseKeyboard(h, func(ev backend.Event) {
		switch {
		case ev.Key == backend.KeyUp || isRune(ev, '+', 'k'):
			setCount.Update(func(n int) int { return n + 1 })
		case ev.Key == backend.KeyDown || isRune(ev, '-', 'j'):
			setCount.Update(func(n int) int { return n - 1 })
		case isRune(ev, 'r'):
			setCount.Set(0)
		case isRune(ev, 'q') || ev.Key == backend.KeyEscape:
			runtime.RequestExit()
		}
	})

	style := core.NewStyle(th.accent).Add(core.AttrBold)
	if count.Get() < 0 {
		style = core.NewStyle(core.ColorRed).Add(core.AttrBold)
	}
	body := widget.StyledLines(
		widget.Line{},
		widget.Line{Text: fmt.Sprintf("Count: %d", count.Get()), Style: style},
	).WithAlign(widget.AlignCenter).Element()
	return frame("Counter", body, "↑/+ increment  ↓/- decrement  r reset  q quit"), nil
}

func historyApp() element.Element {
	return themed(element.Named("Editor", editorView))
}

func editorView(h *hook.Context, _ core.Rect) (element.Element, error) {
	text := hook.UseHistory(h, "", 100)

	hook.UseKeyboard(h, func(ev backend.Event) {
		cur := text.Current()
		switch {
		case isCtrl(ev, backend.KeyCtrlZ, 'z'):
			text.Undo()
		case isCtrl(ev, backend.KeyCtrlY, 'y'):
			text.Redo()
		case ev.Key == backend.KeyEscape:
			runtime.RequestExit()
		case ev.Key == backend.KeyBackspace:
			if cur != "" {
				r := []rune(cur)
				text.Push(string(r[:len(r)-1]))
			}
		case ev.Key == backend.KeyEnter:
			text.Push(cur + "\n")
		case ev.Key == backend.KeyRune && !ev.Mod.Has(backend.ModCtrl):
			text.Push(cur + string(ev.Rune))
		}
	})

	redo := "no"
	if text.CanRedo() {
		redo = "yes"
	}
	status := fmt.Sprintf("undo steps: %d  redo: %s", len(text.Past()), redo)
	body := widget.Column(
		widget.Item(layout.Fill(1), widget.NewParagraph(text.Current()+"▏").WithWrap().Element()),
		widget.Item(layout.Length(1), element.Text(status)),
	)
	return frame("History", body, "type to edit  ctrl+z undo  ctrl+y redo  esc quit"), nil
}

type lapAction struct {
	reset bool
	lap   time.Duration
}

func lapsReducer(laps []time.Duration, a lapAction) []time.Duration {
	if a.reset {
		return nil
	}
	return append(append([]time.Duration(nil), laps...), a.lap)
}

const tick = 100 * time.Millisecond

func timerApp() element.Element {
	return themed(element.Named("Stopwatch", stopwatchView))
}

func stopwatchView(h *hook.Context, _ core.Rect) (element.Element, error) {
	elapsed, setElapsed := hook.UseState(h, func() time.Duration { return 0 })
	paused, setPaused := hook.UseState(h, func() bool { return false })
	laps, dispatch := hook.UseReducer(h, lapsReducer, func() []time.Duration { return nil })

	isPaused := paused.Get()
	hook.UseInterval(h, func() {
		if !isPaused {
			setElapsed.Update(func(d time.Duration) time.Duration { return d + tick })
		}
	}, tick)

	hook.UseKeyboard(h, func(ev backend.Event) {
		switch {
		case isRune(ev, ' ', 'p'):
			setPaused.Update(func(p bool) bool { return !p })
		case isRune(ev, 'l'):
			dispatch(lapAction{lap: elapsed.Get()})
		case isRune(ev, 'r'):
			setElapsed.Set(0)
			dispatch(lapAction{reset: true})
		case isRune(ev, 'q') || ev.Key == backend.KeyEscape:
			runtime.RequestExit()
		}
	})

	frameInfo := hook.UseFrame(h)
	state := "running"
	if isPaused {
		state = "paused"
	}
	lines := []string{
		formatElapsed(elapsed.Get()) + "  " + state,
		fmt.Sprintf("frame %d at %.0f fps", frameInfo.Count, frameInfo.FPS()),
		"",
	}
	for i, l := range laps.Get() {
		lines = append(lines, fmt.Sprintf("lap %d  %s", i+1, formatElapsed(l)))
	}
	body := widget.NewParagraph(strings.Join(lines, "\n")).Element()
	return frame("Stopwatch", body, "space pause  l lap  r reset  q quit"), nil
}

func formatElapsed(d time.Duration) string {
	d = d.Round(tick)
	return fmt.Sprintf("%02d:%02d.%d", int(d.Minutes()), int(d.Seconds())%60, int(d/tick)%10)
}

type ramp struct {
	name      string
	low, high core.Color
}

var ramps = []ramp{
	{"ocean", core.MustHex("#0b3d91"), core.MustHex("#4fd1c5")},
	{"ember", core.MustHex("#7c1d1d"), core.MustHex("#f6ad55")},
	{"forest", core.MustHex("#1c4532"), core.MustHex("#9ae6b4")},
	{"dusk", core.MustHex("#44337a"), core.MustHex("#fbb6ce")},
}

func paletteApp() element.Element {
	return themed(element.Named("Palette", paletteView))
}

func paletteView(h *hook.Context, _ core.Rect) (element.Element, error) {
	hook.UseKeyboard(h, func(ev backend.Event) {
		if isRune(ev, 'q') || ev.Key == backend.KeyEscape {
			runtime.RequestExit()
		}
	})

	items := make([]widget.StackItem, 0, len(ramps))
	for i, r := range ramps {
		items = append(items, widget.Item(layout.Length(3), rampRow(r, float64(i)).WithKey(r.name)))
	}
	items = append(items, widget.Item(layout.Fill(1), element.Empty()))
	return frame("Palette", widget.Column(items...), "q quit"), nil
}

// rampRow renders a gradient swatch above an animated gauge.
func rampRow(r ramp, phase float64) element.Element {
	return element.Named("Ramp", func(h *hook.Context, area core.Rect) (element.Element, error) {
		colors := hook.UseMemo(h, func() []core.Color {
			return r.low.Gradient(r.high, area.Width)
		}, area.Width)

		t := hook.UseFrame(h).Timestamp
		ratio := 0.0
		if !t.IsZero() {
			secs := float64(t.UnixNano()) / float64(time.Second)
			ratio = (math.Sin(secs+phase) + 1) / 2
		}
		return widget.Column(
			widget.Item(layout.Length(1), element.Text(r.name)),
			widget.Item(layout.Length(1), element.FromWidget(swatch(colors))),
			widget.Item(layout.Length(1), widget.Gauge{Ratio: ratio, Low: r.low, High: r.high}.Element()),
		), nil
	})
}

// swatch paints one cell per color on the first row of its area.
type swatch []core.Color

func (s swatch) Draw(area core.Rect, buf *core.Buffer) {
	for i, c := range s {
		if i >= area.Width {
			return
		}
		buf.SetCell(area.X+i, area.Y, core.NewCell(' ', core.DefaultStyle().Bg(c)))
	}
}

func scriptApp(name, source string) func() element.Element {
	return func() element.Element {
		body := script.Component{Name: name, Source: source, OnExit: runtime.RequestExit}.Element()
		return themed(frame(name, body, "keys are passed to the script  q quit"))
	}
}
