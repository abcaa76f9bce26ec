package hook

import (
	"errors"
	"fmt"
)

// Hook errors. All of them signal programmer mistakes and are raised as
// panics carrying an *InvariantError.
var (
	// ErrSlotMismatch means a slot was revisited with a different kind or
	// type than it was created with.
	ErrSlotMismatch = errors.New("slot type mismatch")

	// ErrSlotSkipped means a slot index was requested out of order.
	ErrSlotSkipped = errors.New("slot index out of order")

	// ErrNoProvider means UseContext found no provider for the type.
	ErrNoProvider = errors.New("no provider found")

	// ErrDisposed means a hook was called on an unmounted component.
	ErrDisposed = errors.New("hook context disposed")
)

// InvariantError describes a broken hook invariant. Continuing to render
// would read corrupted state, so it is raised with panic and recovered by the
// render loop.
type InvariantError struct {
	Owner  string // component instance that broke the invariant
	Index  int    // slot index, -1 when not slot related
	Detail string
	Err    error
}

func (e *InvariantError) Error() string {
	if e == nil {
		return ""
	}
	msg := "hook"
	if e.Owner != "" {
		msg += " " + e.Owner
	}
	if e.Index >= 0 {
		msg = fmt.Sprintf("%s slot %d", msg, e.Index)
	}
	msg = fmt.Sprintf("%s: %v", msg, e.Err)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *InvariantError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func invariant(owner string, index int, err error, format string, args ...any) *InvariantError {
	return &InvariantError{
		Owner:  owner,
		Index:  index,
		Detail: fmt.Sprintf(format, args...),
		Err:    err,
	}
}
