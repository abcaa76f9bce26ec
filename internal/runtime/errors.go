package runtime

import (
	"errors"
	"fmt"
)

// Runtime errors.
var (
	// ErrAlreadyRunning indicates Run was called on a runtime that is
	// already running.
	ErrAlreadyRunning = errors.New("runtime already running")

	// ErrNoBackend indicates the runtime has no terminal backend.
	ErrNoBackend = errors.New("no backend configured")

	// ErrNilRoot indicates Run was given no root factory.
	ErrNilRoot = errors.New("nil root factory")

	// ErrNotMounted indicates Step was called before Mount.
	ErrNotMounted = errors.New("no tree mounted")
)

// InitError wraps a failure to set up a resource the loop needs, such as
// the terminal.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	if e == nil {
		return ""
	}
	return "init " + e.Component + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// RecoveredPanicError wraps a panic recovered in the render loop that was
// not a hook invariant violation.
// The message includes the stack trace; avoid showing it to end users.
type RecoveredPanicError struct {
	Value any
	Stack string
}

func (e *RecoveredPanicError) Error() string {
	if e == nil {
		return ""
	}
	if e.Stack != "" {
		return fmt.Sprintf("panic: %v\n%s", e.Value, e.Stack)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap returns the panic value when it was an error.
func (e *RecoveredPanicError) Unwrap() error {
	if e == nil {
		return nil
	}
	err, _ := e.Value.(error)
	return err
}
