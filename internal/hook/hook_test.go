package hook

import (
	"errors"
	"testing"
)

// pass simulates one render of a component body.
func pass(c *Context, body func()) {
	c.ResetIndex()
	body()
}

// expectInvariant runs fn and returns the *InvariantError it panics with.
func expectInvariant(t *testing.T, fn func()) (ie *InvariantError) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic, got none")
		}
		var ok bool
		if ie, ok = r.(*InvariantError); !ok {
			t.Fatalf("expected *InvariantError, got %T: %v", r, r)
		}
	}()
	fn()
	return nil
}

func TestSlotStability(t *testing.T) {
	c := NewContext(nil, "Test")

	var first, second Ref[int]
	pass(c, func() {
		UseState(c, func() string { return "a" })
		first = UseRef(c, func() int { return 1 })
	})
	first.Set(42)
	pass(c, func() {
		UseState(c, func() string { return "ignored" })
		second = UseRef(c, func() int { return 99 })
	})

	if first.c != second.c {
		t.Error("expected the same slot storage on the second pass")
	}
	if got := second.Get(); got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
	if c.Len() != 2 {
		t.Errorf("expected 2 slots, got %d", c.Len())
	}
}

func TestCursorResets(t *testing.T) {
	c := NewContext(nil, "Test")
	for i := 0; i < 3; i++ {
		pass(c, func() {
			UseRef(c, func() int { return 0 })
			UseRef(c, func() int { return 0 })
		})
		if c.Cursor() != 2 {
			t.Errorf("pass %d: expected cursor 2, got %d", i, c.Cursor())
		}
	}
}

func TestSlotTypeMismatchPanics(t *testing.T) {
	c := NewContext(nil, "Counter")
	pass(c, func() { UseState(c, func() int { return 0 }) })

	ie := expectInvariant(t, func() {
		pass(c, func() { UseState(c, func() string { return "" }) })
	})
	if !errors.Is(ie, ErrSlotMismatch) {
		t.Errorf("expected ErrSlotMismatch, got %v", ie)
	}
	if ie.Index != 0 || ie.Owner != "Counter" {
		t.Errorf("unexpected error location %+v", ie)
	}
}

func TestSlotKindMismatchPanics(t *testing.T) {
	c := NewContext(nil, "Test")
	pass(c, func() { UseState(c, func() int { return 0 }) })

	ie := expectInvariant(t, func() {
		pass(c, func() { UseRef(c, func() int { return 0 }) })
	})
	if !errors.Is(ie, ErrSlotMismatch) {
		t.Errorf("expected ErrSlotMismatch, got %v", ie)
	}
}

func TestGetOrInitRejectsSkippedIndex(t *testing.T) {
	c := NewContext(nil, "Test")
	ie := expectInvariant(t, func() {
		GetOrInit(c, KindRef, 3, func() int { return 0 })
	})
	if !errors.Is(ie, ErrSlotSkipped) {
		t.Errorf("expected ErrSlotSkipped, got %v", ie)
	}
}

func TestDisposedContextPanics(t *testing.T) {
	c := NewContext(nil, "Test")
	c.Dispose()
	c.Dispose()

	ie := expectInvariant(t, func() {
		pass(c, func() { UseState(c, func() int { return 0 }) })
	})
	if !errors.Is(ie, ErrDisposed) {
		t.Errorf("expected ErrDisposed, got %v", ie)
	}
}

func TestClearRunsCleanupsInOrder(t *testing.T) {
	c := NewContext(nil, "Test")
	var order []int
	pass(c, func() {
		UseEffect(c, func() func() { return func() { order = append(order, 1) } })
		UseState(c, func() int { return 0 })
		UseEffect(c, func() func() { return func() { order = append(order, 2) } })
	})

	c.Clear()
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("expected cleanups [1 2], got %v", order)
	}
	if c.Len() != 0 {
		t.Errorf("expected no slots after Clear, got %d", c.Len())
	}

	c.Clear()
	if len(order) != 2 {
		t.Errorf("cleanups ran again: %v", order)
	}
}

func TestInvariantErrorMessage(t *testing.T) {
	err := &InvariantError{Owner: "App/List", Index: 2, Detail: "want state int, got ref int", Err: ErrSlotMismatch}
	want := "hook App/List slot 2: slot type mismatch: want state int, got ref int"
	if got := err.Error(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	noSlot := &InvariantError{Index: -1, Err: ErrNoProvider}
	if got := noSlot.Error(); got != "hook: no provider found" {
		t.Errorf("unexpected message %q", got)
	}
}
