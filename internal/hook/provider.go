package hook

import (
	"fmt"
	"reflect"
)

// Providers is a type-keyed stack of context values. Lookups see the most
// recent push for a type. The render pipeline takes a Mark before each
// component and Restores it afterwards, so values pushed inside a subtree
// are invisible to its later siblings.
type Providers struct {
	stacks map[reflect.Type][]any
	pushed []Provided
}

// Provided is one value pushed onto a Providers stack.
type Provided struct {
	typ   reflect.Type
	value any
}

func newProviders() *Providers {
	return &Providers{stacks: make(map[reflect.Type][]any)}
}

func (p *Providers) push(t reflect.Type, v any) {
	p.stacks[t] = append(p.stacks[t], v)
	p.pushed = append(p.pushed, Provided{typ: t, value: v})
}

func (p *Providers) lookup(t reflect.Type) (any, bool) {
	s := p.stacks[t]
	if len(s) == 0 {
		return nil, false
	}
	return s[len(s)-1], true
}

// Depth returns how many values are stacked for t.
func (p *Providers) Depth(t reflect.Type) int {
	return len(p.stacks[t])
}

// Mark returns a position that Restore can rewind to.
func (p *Providers) Mark() int {
	return len(p.pushed)
}

// Restore pops every value pushed since mark.
func (p *Providers) Restore(mark int) {
	for len(p.pushed) > mark {
		t := p.pushed[len(p.pushed)-1].typ
		p.pushed[len(p.pushed)-1] = Provided{}
		p.pushed = p.pushed[:len(p.pushed)-1]
		s := p.stacks[t]
		s[len(s)-1] = nil
		if len(s) == 1 {
			delete(p.stacks, t)
		} else {
			p.stacks[t] = s[:len(s)-1]
		}
	}
}

// Since returns a copy of the values pushed after mark, oldest first.
func (p *Providers) Since(mark int) []Provided {
	if mark >= len(p.pushed) {
		return nil
	}
	return append([]Provided(nil), p.pushed[mark:]...)
}

// Replay pushes values recorded by Since again, in order. The render
// pipeline uses it for components that skip their body but still provide
// context to the children they return.
func (p *Providers) Replay(values []Provided) {
	for _, v := range values {
		p.push(v.typ, v.value)
	}
}

// Reset empties the stack.
func (p *Providers) Reset() {
	clear(p.stacks)
	clear(p.pushed)
	p.pushed = p.pushed[:0]
}

// Provide pushes v onto root's stack for type T. The render loop uses it
// for values that exist outside any component, such as frame timing.
func Provide[T any](r *Root, v T) {
	r.providers.push(reflect.TypeFor[T](), v)
}

// UseContextProvider calls factory and makes its result visible to
// UseContext[T] in every component rendered below the caller during this
// pass. It does not use a slot; factory runs on every render.
func UseContextProvider[T any](c *Context, factory func() T) T {
	c.checkLive(-1)
	v := factory()
	c.root.providers.push(reflect.TypeFor[T](), v)
	return v
}

// UseContext returns the nearest provided value of type T. It panics with an
// *InvariantError wrapping ErrNoProvider when no ancestor provides T.
func UseContext[T any](c *Context) T {
	v, ok := TryUseContext[T](c)
	if !ok {
		panic(invariant(c.owner, -1, ErrNoProvider,
			"context value for type %s not found; wrap the component in a provider", reflect.TypeFor[T]()))
	}
	return v
}

// TryUseContext is UseContext without the panic.
func TryUseContext[T any](c *Context) (T, bool) {
	c.checkLive(-1)
	v, ok := c.root.providers.lookup(reflect.TypeFor[T]())
	if !ok {
		var zero T
		return zero, false
	}
	t, _ := v.(T) // nil interface values are stored as nil
	return t, true
}

func (p *Providers) String() string {
	return fmt.Sprintf("providers(%d types, %d values)", len(p.stacks), len(p.pushed))
}
