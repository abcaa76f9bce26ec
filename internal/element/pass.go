package element

import (
	"strings"

	"github.com/dshills/hookstorm/internal/hook"
	"github.com/dshills/hookstorm/internal/lifecycle"
	"github.com/dshills/hookstorm/internal/renderer/core"
)

// scope is one level of the path stack. counts numbers the siblings of
// each type so unkeyed elements get a stable index.
type scope struct {
	path   string
	counts map[string]int
}

// Pass renders element trees into a buffer, one call to Run per frame.
// It keeps the lifecycle tracker informed of every component it visits.
type Pass struct {
	root    *hook.Root
	tracker *lifecycle.Tracker
	scopes  []scope
}

// NewPass creates a pass renderer over tracker's instances.
func NewPass(root *hook.Root, tracker *lifecycle.Tracker) *Pass {
	return &Pass{root: root, tracker: tracker}
}

// Root returns the render root the pass renders under.
func (p *Pass) Root() *hook.Root {
	return p.root
}

// Tracker returns the lifecycle tracker.
func (p *Pass) Tracker() *lifecycle.Tracker {
	return p.tracker
}

// Run renders el into area of buf as one complete pass and then unmounts
// every component that was not rendered, returning their identities. When
// rendering fails nothing is unmounted; the tree is in an unknown state
// and the caller is expected to stop.
func (p *Pass) Run(el Element, area core.Rect, buf *core.Buffer) ([]lifecycle.Identity, error) {
	p.tracker.BeginPass()
	p.scopes = append(p.scopes[:0], scope{counts: make(map[string]int)})
	if err := p.Render(el, area, buf); err != nil {
		return nil, err
	}
	return p.tracker.EndPass(), nil
}

// Render renders one element during a pass. Widgets call it indirectly
// through Container.Children.
func (p *Pass) Render(el Element, area core.Rect, buf *core.Buffer) error {
	switch el.kind {
	case KindText:
		drawText(el, area, buf)
		return nil
	case KindWidget:
		return p.renderWidget(el, area, buf)
	case KindComponent:
		return p.renderComponent(el, area, buf)
	default:
		return nil
	}
}

func (p *Pass) current() *scope {
	if len(p.scopes) == 0 {
		p.scopes = append(p.scopes, scope{counts: make(map[string]int)})
	}
	return &p.scopes[len(p.scopes)-1]
}

func (p *Pass) identify(el Element) lifecycle.Identity {
	s := p.current()
	idx := s.counts[el.name]
	s.counts[el.name] = idx + 1
	return lifecycle.Identity{Parent: s.path, Type: el.name, Key: el.key, Index: idx}
}

func (p *Pass) enter(path string) {
	p.scopes = append(p.scopes, scope{path: path, counts: make(map[string]int)})
}

func (p *Pass) leave() {
	p.scopes = p.scopes[:len(p.scopes)-1]
}

func (p *Pass) renderWidget(el Element, area core.Rect, buf *core.Buffer) error {
	el.widget.Draw(area, buf)
	c, ok := el.widget.(Container)
	if !ok {
		return nil
	}
	id := p.identify(el)
	p.enter(id.String())
	defer p.leave()
	for _, child := range c.Children(area) {
		if err := p.Render(child.Element, child.Area, buf); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pass) renderComponent(el Element, area core.Rect, buf *core.Buffer) error {
	id := p.identify(el)
	path := id.String()
	inst, fresh, err := p.tracker.Touch(id)
	if err != nil {
		return &ComponentError{Path: path, Err: err}
	}
	inst.Component = el.component

	providers := p.root.Providers()
	mark := providers.Mark()
	defer providers.Restore(mark)
	hook.ProvideArea(p.root, area)
	inst.Hooks.SetArea(area)
	body := providers.Mark()

	p.enter(path)
	defer p.leave()

	var child Element
	switch {
	case fresh:
		if m, ok := el.component.(lifecycle.Mounter); ok {
			m.OnMount()
		}
		child, err = invoke(inst, el.component, area)
	case !shouldUpdate(el.component):
		child, _ = inst.Last.(Element)
		providers.Replay(inst.Provided)
	default:
		child, err = invoke(inst, el.component, area)
		if err == nil {
			if n, ok := el.component.(lifecycle.UpdateNotifier); ok {
				n.OnUpdate()
			}
		}
	}
	if err != nil {
		return err
	}
	inst.Last = child
	inst.Provided = providers.Since(body)
	return p.Render(child, area, buf)
}

func invoke(inst *lifecycle.Instance, c Component, area core.Rect) (Element, error) {
	inst.Hooks.ResetIndex()
	child, err := c.Render(inst.Hooks, area)
	if err != nil {
		return Element{}, wrap(inst.ID.String(), err)
	}
	return child, nil
}

func shouldUpdate(c Component) bool {
	u, ok := c.(lifecycle.Updater)
	return !ok || u.ShouldUpdate()
}

func drawText(el Element, area core.Rect, buf *core.Buffer) {
	if area.IsEmpty() {
		return
	}
	for i, line := range strings.Split(el.text, "\n") {
		if i >= area.Height {
			return
		}
		buf.SetStringN(area.X, area.Y+i, line, el.style, area.Width)
	}
}
