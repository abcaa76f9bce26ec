package backend

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/hookstorm/internal/renderer/core"
)

// Terminal implements Backend using tcell for terminal output.
type Terminal struct {
	screen tcell.Screen
	mu     sync.Mutex
}

// NewTerminal creates a new terminal backend.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen}, nil
}

// newTerminalWithScreen wraps an existing screen, such as a
// tcell.SimulationScreen.
func newTerminalWithScreen(s tcell.Screen) *Terminal {
	return &Terminal{screen: s}
}

func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.SetStyle(tcell.StyleDefault)
	t.screen.HideCursor()
	return nil
}

func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Fini()
}

func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

func (t *Terminal) SetCell(x, y int, cell core.Cell) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.SetContent(x, y, cell.Rune, cell.Combining, convertStyle(cell.Style))
}

func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
}

func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Show()
}

func (t *Terminal) HideCursor() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.HideCursor()
}

// PollEvent is not guarded by the mutex: it blocks until input arrives and
// Fini must be able to interrupt it.
func (t *Terminal) PollEvent() Event {
	return convertEvent(t.screen.PollEvent())
}

func (t *Terminal) PostEvent(event Event) {
	switch event.Type {
	case EventKey:
		_ = t.screen.PostEvent(tcell.NewEventKey(toTcellKey(event.Key), event.Rune, toTcellMod(event.Mod))) // best-effort; queue may be full
	case EventResize:
		_ = t.screen.PostEvent(tcell.NewEventResize(event.Width, event.Height))
	}
}

func (t *Terminal) EnableMouse() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.EnableMouse()
}

func (t *Terminal) DisableMouse() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.DisableMouse()
}

func (t *Terminal) EnablePaste() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.EnablePaste()
}

func (t *Terminal) DisablePaste() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.DisablePaste()
}

var attrTable = []struct {
	ours  core.Attribute
	tcell tcell.AttrMask
}{
	{core.AttrBold, tcell.AttrBold},
	{core.AttrDim, tcell.AttrDim},
	{core.AttrItalic, tcell.AttrItalic},
	{core.AttrUnderline, tcell.AttrUnderline},
	{core.AttrBlink, tcell.AttrBlink},
	{core.AttrReverse, tcell.AttrReverse},
	{core.AttrStrikethrough, tcell.AttrStrikeThrough},
}

func convertColor(c core.Color) tcell.Color {
	switch {
	case c.IsDefault():
		return tcell.ColorDefault
	case c.Indexed:
		return tcell.PaletteColor(int(c.R))
	default:
		return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	}
}

// convertStyle converts our Style to tcell.Style.
func convertStyle(s core.Style) tcell.Style {
	var attrs tcell.AttrMask
	for _, a := range attrTable {
		if s.Attributes.Has(a.ours) {
			attrs |= a.tcell
		}
	}
	return tcell.StyleDefault.
		Foreground(convertColor(s.Foreground)).
		Background(convertColor(s.Background)).
		Attributes(attrs)
}

// keyTable pairs tcell keys with ours. The first entry for a given Key wins
// when converting back to tcell.
var keyTable = []struct {
	tcell tcell.Key
	ours  Key
}{
	{tcell.KeyRune, KeyRune},
	{tcell.KeyEscape, KeyEscape},
	{tcell.KeyEnter, KeyEnter},
	{tcell.KeyTab, KeyTab},
	{tcell.KeyBackspace2, KeyBackspace},
	{tcell.KeyBackspace, KeyBackspace},
	{tcell.KeyDelete, KeyDelete},
	{tcell.KeyInsert, KeyInsert},
	{tcell.KeyHome, KeyHome},
	{tcell.KeyEnd, KeyEnd},
	{tcell.KeyPgUp, KeyPageUp},
	{tcell.KeyPgDn, KeyPageDown},
	{tcell.KeyUp, KeyUp},
	{tcell.KeyDown, KeyDown},
	{tcell.KeyLeft, KeyLeft},
	{tcell.KeyRight, KeyRight},
	{tcell.KeyF1, KeyF1},
	{tcell.KeyF2, KeyF2},
	{tcell.KeyF3, KeyF3},
	{tcell.KeyF4, KeyF4},
	{tcell.KeyF5, KeyF5},
	{tcell.KeyF6, KeyF6},
	{tcell.KeyF7, KeyF7},
	{tcell.KeyF8, KeyF8},
	{tcell.KeyF9, KeyF9},
	{tcell.KeyF10, KeyF10},
	{tcell.KeyF11, KeyF11},
	{tcell.KeyF12, KeyF12},
	{tcell.KeyCtrlSpace, KeyCtrlSpace},
	{tcell.KeyCtrlA, KeyCtrlA},
	{tcell.KeyCtrlB, KeyCtrlB},
	{tcell.KeyCtrlC, KeyCtrlC},
	{tcell.KeyCtrlD, KeyCtrlD},
	{tcell.KeyCtrlE, KeyCtrlE},
	{tcell.KeyCtrlF, KeyCtrlF},
	{tcell.KeyCtrlG, KeyCtrlG},
	{tcell.KeyCtrlH, KeyCtrlH},
	{tcell.KeyCtrlI, KeyCtrlI},
	{tcell.KeyCtrlJ, KeyCtrlJ},
	{tcell.KeyCtrlK, KeyCtrlK},
	{tcell.KeyCtrlL, KeyCtrlL},
	{tcell.KeyCtrlM, KeyCtrlM},
	{tcell.KeyCtrlN, KeyCtrlN},
	{tcell.KeyCtrlO, KeyCtrlO},
	{tcell.KeyCtrlP, KeyCtrlP},
	{tcell.KeyCtrlQ, KeyCtrlQ},
	{tcell.KeyCtrlR, KeyCtrlR},
	{tcell.KeyCtrlS, KeyCtrlS},
	{tcell.KeyCtrlT, KeyCtrlT},
	{tcell.KeyCtrlU, KeyCtrlU},
	{tcell.KeyCtrlV, KeyCtrlV},
	{tcell.KeyCtrlW, KeyCtrlW},
	{tcell.KeyCtrlX, KeyCtrlX},
	{tcell.KeyCtrlY, KeyCtrlY},
	{tcell.KeyCtrlZ, KeyCtrlZ},
}

var (
	fromTcellKeys = make(map[tcell.Key]Key, len(keyTable))
	toTcellKeys   = make(map[Key]tcell.Key, len(keyTable))
)

func init() {
	for _, k := range keyTable {
		if _, ok := fromTcellKeys[k.tcell]; !ok {
			fromTcellKeys[k.tcell] = k.ours
		}
		if _, ok := toTcellKeys[k.ours]; !ok {
			toTcellKeys[k.ours] = k.tcell
		}
	}
}

func convertKey(k tcell.Key) Key {
	if key, ok := fromTcellKeys[k]; ok {
		return key
	}
	return KeyNone
}

func toTcellKey(k Key) tcell.Key {
	if key, ok := toTcellKeys[k]; ok {
		return key
	}
	return tcell.KeyRune
}

var modTable = []struct {
	tcell tcell.ModMask
	ours  ModMask
}{
	{tcell.ModShift, ModShift},
	{tcell.ModCtrl, ModCtrl},
	{tcell.ModAlt, ModAlt},
	{tcell.ModMeta, ModMeta},
}

func convertMod(m tcell.ModMask) ModMask {
	var result ModMask
	for _, mod := range modTable {
		if m&mod.tcell != 0 {
			result |= mod.ours
		}
	}
	return result
}

func toTcellMod(m ModMask) tcell.ModMask {
	var result tcell.ModMask
	for _, mod := range modTable {
		if m.Has(mod.ours) {
			result |= mod.tcell
		}
	}
	return result
}

// convertMouseButton converts tcell button mask to our MouseButton.
func convertMouseButton(b tcell.ButtonMask) MouseButton {
	switch {
	case b&tcell.Button1 != 0:
		return MouseLeft
	case b&tcell.Button2 != 0:
		return MouseMiddle
	case b&tcell.Button3 != 0:
		return MouseRight
	case b&tcell.WheelUp != 0:
		return MouseWheelUp
	case b&tcell.WheelDown != 0:
		return MouseWheelDown
	case b&tcell.WheelLeft != 0:
		return MouseWheelLeft
	case b&tcell.WheelRight != 0:
		return MouseWheelRight
	default:
		return MouseNone
	}
}

// convertEvent converts tcell events to our Event type. A nil event, which
// tcell returns once the screen is finalized, maps to EventNone.
func convertEvent(ev tcell.Event) Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return Event{
			Type: EventKey,
			Key:  convertKey(e.Key()),
			Rune: e.Rune(),
			Mod:  convertMod(e.Modifiers()),
		}

	case *tcell.EventMouse:
		x, y := e.Position()
		return Event{
			Type:        EventMouse,
			MouseX:      x,
			MouseY:      y,
			MouseButton: convertMouseButton(e.Buttons()),
			Mod:         convertMod(e.Modifiers()),
		}

	case *tcell.EventResize:
		w, h := e.Size()
		return Event{Type: EventResize, Width: w, Height: h}

	case *tcell.EventPaste:
		return Event{Type: EventPaste, Focused: e.Start()}

	case *tcell.EventFocus:
		return Event{Type: EventFocus, Focused: e.Focused}

	default:
		return Event{Type: EventNone}
	}
}
