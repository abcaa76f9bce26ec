// Package element defines the element tree a render function returns and
// the pass that walks it: widgets draw into the buffer, components render
// inside their own hook scope, and text is drawn as is.
package element

import (
	"reflect"
	"runtime"
	"strings"

	"github.com/dshills/hookstorm/internal/hook"
	"github.com/dshills/hookstorm/internal/renderer/core"
)

// Kind identifies what an Element holds.
type Kind int

const (
	KindEmpty Kind = iota
	KindText
	KindWidget
	KindComponent
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindWidget:
		return "widget"
	case KindComponent:
		return "component"
	default:
		return "empty"
	}
}

// Component is a stateful element. Render is called every pass with the
// instance's hook scope and the area it was given. It must call the same
// hooks in the same order on every call.
type Component interface {
	Render(h *hook.Context, area core.Rect) (Element, error)
}

// RenderFunc adapts a plain function to Component.
type RenderFunc func(h *hook.Context, area core.Rect) (Element, error)

func (f RenderFunc) Render(h *hook.Context, area core.Rect) (Element, error) {
	return f(h, area)
}

// Widget draws itself into a buffer. Widgets have no state of their own.
type Widget interface {
	Draw(area core.Rect, buf *core.Buffer)
}

// Container is a widget with child elements, each rendered into the area
// the container assigns it after the container has drawn itself.
type Container interface {
	Widget
	Children(area core.Rect) []Child
}

// Child is one element placed by a Container.
type Child struct {
	Element Element
	Area    core.Rect
}

// Element is a node of the tree returned by render functions. The zero
// Element renders nothing.
type Element struct {
	kind      Kind
	key       string
	name      string
	text      string
	style     core.Style
	widget    Widget
	component Component
}

// Empty returns an element that renders nothing.
func Empty() Element {
	return Element{}
}

// Text returns an unstyled text element. Newlines start a new row.
func Text(s string) Element {
	return StyledText(s, core.DefaultStyle())
}

// StyledText returns a text element drawn with style.
func StyledText(s string, style core.Style) Element {
	return Element{kind: KindText, text: s, style: style}
}

// FromWidget wraps a widget.
func FromWidget(w Widget) Element {
	if w == nil {
		return Element{}
	}
	return Element{kind: KindWidget, widget: w, name: typeName(w)}
}

// FromComponent wraps a component. Its identity type is the component's Go
// type name.
func FromComponent(c Component) Element {
	if c == nil {
		return Element{}
	}
	if f, ok := c.(RenderFunc); ok {
		return Func(f)
	}
	return Element{kind: KindComponent, component: c, name: typeName(c)}
}

// Func wraps a render function. Its identity type is the function's name,
// so two different functions at the same position are different instances.
func Func(f RenderFunc) Element {
	return Named(funcName(f), f)
}

// Named wraps a render function under an explicit type name.
func Named(name string, f RenderFunc) Element {
	if f == nil {
		return Element{}
	}
	return Element{kind: KindComponent, component: f, name: sanitize(name)}
}

// WithKey returns a copy of e identified by key instead of its position
// among siblings. Elements built from dynamic lists should carry keys.
// Path separators in key are replaced with dots, so "a/b" and "a.b" name
// the same instance.
func (e Element) WithKey(key string) Element {
	e.key = pathReplacer.Replace(key)
	return e
}

// Kind returns what the element holds.
func (e Element) Kind() Kind { return e.kind }

// Key returns the element's key, if any.
func (e Element) Key() string { return e.key }

// Name returns the type name used in the element's identity.
func (e Element) Name() string { return e.name }

// Content returns the text of a text element.
func (e Element) Content() string { return e.text }

// Widget returns the wrapped widget, or nil.
func (e Element) Widget() Widget { return e.widget }

// Component returns the wrapped component, or nil.
func (e Element) Component() Component { return e.component }

// IsEmpty reports whether the element renders nothing.
func (e Element) IsEmpty() bool { return e.kind == KindEmpty }

// Lines returns the number of rows a text element occupies.
func (e Element) Lines() int {
	if e.kind != KindText {
		return 0
	}
	return strings.Count(e.text, "\n") + 1
}

func typeName(v any) string {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return sanitize(t.String())
	}
	return sanitize(t.Name())
}

func funcName(f RenderFunc) string {
	name := runtime.FuncForPC(reflect.ValueOf(f).Pointer()).Name()
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

var pathReplacer = strings.NewReplacer("/", ".", "#", ".")

// sanitize keeps identity paths parseable.
func sanitize(name string) string {
	if name == "" {
		return "anonymous"
	}
	return pathReplacer.Replace(name)
}
