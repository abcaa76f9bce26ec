package script

import (
	"strconv"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/hookstorm/internal/element"
	"github.com/dshills/hookstorm/internal/hook"
	"github.com/dshills/hookstorm/internal/renderer/backend"
	"github.com/dshills/hookstorm/internal/renderer/core"
	"github.com/dshills/hookstorm/internal/widget"
)

// Component renders a Lua script. The interpreter is created on mount and
// closed on unmount; the value returned by init and update is kept between
// frames.
type Component struct {
	// Name labels the script in error messages.
	Name   string
	Source string
	// OnExit is called when the script calls exit().
	OnExit func()
	// Options configure the interpreter.
	Options []StateOption
}

// Element wraps the component for use in an element tree.
func (c Component) Element() element.Element {
	return element.FromComponent(c)
}

// instance is the per-mount interpreter and script state.
type instance struct {
	state *State
	value lua.LValue
	err   error
}

func (c Component) mount() *instance {
	s := NewState(c.Options...)
	s.Register("exit", func(*lua.LState) int {
		if c.OnExit != nil {
			c.OnExit()
		}
		return 0
	})

	inst := &instance{state: s, value: lua.LNil}
	name := c.Name
	if name == "" {
		name = "script"
	}
	if inst.err = s.DoString(name, c.Source); inst.err != nil {
		return inst
	}
	if s.HasFunction("init") {
		inst.value, inst.err = s.Call("init")
	}
	return inst
}

// Render implements element.Component.
func (c Component) Render(h *hook.Context, area core.Rect) (element.Element, error) {
	ref := hook.UseRef(h, func() *instance { return nil })
	hook.UseEffect(h, func() func() {
		ref.Set(c.mount())
		return func() {
			if inst := ref.Get(); inst != nil {
				inst.state.Close()
			}
		}
	})

	inst := ref.Get()
	if inst == nil {
		return element.Empty(), nil
	}
	if inst.err != nil {
		return element.Element{}, inst.err
	}

	if ev, ok := hook.UseEvent(h); ok && ev.Type == backend.EventKey && inst.state.HasFunction("update") {
		next, err := inst.state.Call("update", inst.value, lua.LString(KeyName(ev)))
		if err != nil {
			return element.Element{}, err
		}
		inst.value = next
	}

	if !inst.state.HasFunction("view") {
		return element.Text(inst.value.String()), nil
	}
	frame := hook.UseFrame(h)
	out, err := inst.state.Call("view", inst.value,
		lua.LNumber(area.Width), lua.LNumber(area.Height), lua.LNumber(frame.Count))
	if err != nil {
		return element.Element{}, err
	}
	return widget.NewParagraph(lua.LVAsString(out)).Element(), nil
}

var keyNames = map[backend.Key]string{
	backend.KeyEscape:    "esc",
	backend.KeyEnter:     "enter",
	backend.KeyTab:       "tab",
	backend.KeyBackspace: "backspace",
	backend.KeyDelete:    "delete",
	backend.KeyHome:      "home",
	backend.KeyEnd:       "end",
	backend.KeyPageUp:    "pageup",
	backend.KeyPageDown:  "pagedown",
	backend.KeyUp:        "up",
	backend.KeyDown:      "down",
	backend.KeyLeft:      "left",
	backend.KeyRight:     "right",
}

// KeyName returns the name scripts see for a key event: the character
// for printable keys, "ctrl+<letter>" for control keys, and lower-case
// names such as "up" or "enter" otherwise.
func KeyName(ev backend.Event) string {
	if ev.Key == backend.KeyRune {
		if ev.Mod.Has(backend.ModCtrl) {
			return "ctrl+" + strings.ToLower(string(ev.Rune))
		}
		return string(ev.Rune)
	}
	if ev.Key >= backend.KeyCtrlA && ev.Key <= backend.KeyCtrlZ {
		return "ctrl+" + string(rune('a'+ev.Key-backend.KeyCtrlA))
	}
	if ev.Key >= backend.KeyF1 && ev.Key <= backend.KeyF12 {
		return "f" + strconv.Itoa(int(ev.Key-backend.KeyF1)+1)
	}
	if name, ok := keyNames[ev.Key]; ok {
		return name
	}
	return ""
}
