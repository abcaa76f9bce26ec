package element

import (
	"errors"
	"fmt"
)

// ComponentError is an error returned by a component's Render, or raised
// while placing it in the tree, tagged with the component's identity path.
type ComponentError struct {
	Path string // identity path of the component
	Err  error  // underlying error
}

func (e *ComponentError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return "component " + e.Path
	}
	return fmt.Sprintf("component %s: %v", e.Path, e.Err)
}

func (e *ComponentError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches both the wrapper itself and the wrapped error.
func (e *ComponentError) Is(target error) bool {
	if e == nil {
		return false
	}
	if t, ok := target.(*ComponentError); ok {
		return e == t
	}
	return errors.Is(e.Err, target)
}

// wrap tags err with path unless a component deeper in the tree already
// did.
func wrap(path string, err error) error {
	if err == nil {
		return nil
	}
	var ce *ComponentError
	if errors.As(err, &ce) {
		return err
	}
	return &ComponentError{Path: path, Err: err}
}
