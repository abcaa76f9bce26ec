package hook

import (
	"fmt"
	"reflect"
)

// SlotKind tags what a slot holds.
type SlotKind uint8

const (
	KindState SlotKind = iota + 1
	KindRef
	KindEffect
	KindMemo
)

func (k SlotKind) String() string {
	switch k {
	case KindState:
		return "state"
	case KindRef:
		return "ref"
	case KindEffect:
		return "effect"
	case KindMemo:
		return "memo"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

type slot struct {
	kind  SlotKind
	value any
}

// GetOrInit returns the value stored at index, creating it with init on the
// first visit. The slot must have been created with the same kind and Go
// type; anything else panics with an *InvariantError.
//
// index must be either an existing slot or the next free one; hooks obtain
// it from NextIndex.
func GetOrInit[T any](c *Context, kind SlotKind, index int, init func() T) T {
	c.checkLive(index)

	switch {
	case index < len(c.slots):
		s := c.slots[index]
		v, ok := s.value.(T)
		if s.kind != kind || !ok {
			panic(invariant(c.owner, index, ErrSlotMismatch,
				"want %s %s, got %s %T", kind, reflect.TypeFor[T](), s.kind, s.value))
		}
		return v

	case index == len(c.slots):
		v := init()
		c.slots = append(c.slots, slot{kind: kind, value: v})
		return v

	default:
		panic(invariant(c.owner, index, ErrSlotSkipped, "store holds %d slots", len(c.slots)))
	}
}

// next takes the next index and resolves its slot.
func next[T any](c *Context, kind SlotKind, init func() T) T {
	return GetOrInit(c, kind, c.NextIndex(), init)
}
