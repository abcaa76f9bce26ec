// Package script renders components whose behavior is written in Lua.
//
// A script defines up to three global functions:
//
//	function init() return <state> end
//	function update(state, key) return <state> end
//	function view(state, width, height, frame) return <string> end
//
// init runs once on mount, update runs for every key press, and view runs
// every frame. Only the base, table, string and math libraries are
// available; a script can stop the render loop by calling exit().
package script

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultCallTimeout bounds a single call into a script.
const DefaultCallTimeout = 100 * time.Millisecond

var (
	// ErrStateClosed is returned when calling into a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrNotFunction is returned when a global expected to be a function
	// is something else.
	ErrNotFunction = errors.New("not a function")
)

// unsafeGlobals are removed from every state; they read files or compile
// code at runtime.
var unsafeGlobals = []string{"dofile", "loadfile", "load", "loadstring", "require", "module"}

// State is a sandboxed Lua interpreter. It is not safe for concurrent use;
// components only touch it from the render goroutine.
type State struct {
	L       *lua.LState
	timeout time.Duration
	closed  bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithCallTimeout sets how long one call may run before it is aborted.
func WithCallTimeout(d time.Duration) StateOption {
	return func(s *State) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewState creates a state with only the safe standard libraries opened.
func NewState(opts ...StateOption) *State {
	s := &State{timeout: DefaultCallTimeout}
	for _, opt := range opts {
		opt(s)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, name := range unsafeGlobals {
		L.SetGlobal(name, lua.LNil)
	}
	s.L = L
	return s
}

// Register exposes fn to scripts as a global function.
func (s *State) Register(name string, fn lua.LGFunction) {
	if s.closed {
		return
	}
	s.L.SetGlobal(name, s.L.NewFunction(fn))
}

// DoString runs a chunk of Lua code. name labels it in error messages.
func (s *State) DoString(name, code string) error {
	if s.closed {
		return ErrStateClosed
	}
	fn, err := s.L.Load(strings.NewReader(code), name)
	if err != nil {
		return fmt.Errorf("compiling %s: %w", name, err)
	}
	return s.bounded(func() error {
		s.L.Push(fn)
		return s.L.PCall(0, lua.MultRet, nil)
	})
}

// HasFunction reports whether the global name is a function.
func (s *State) HasFunction(name string) bool {
	if s.closed {
		return false
	}
	return s.L.GetGlobal(name).Type() == lua.LTFunction
}

// Call calls the global function name and returns its first result, or
// LNil when it returns nothing.
func (s *State) Call(name string, args ...lua.LValue) (lua.LValue, error) {
	if s.closed {
		return lua.LNil, ErrStateClosed
	}
	fn := s.L.GetGlobal(name)
	if fn.Type() != lua.LTFunction {
		return lua.LNil, fmt.Errorf("%s: %w (got %s)", name, ErrNotFunction, fn.Type())
	}

	var ret lua.LValue = lua.LNil
	err := s.bounded(func() error {
		if err := s.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
			return err
		}
		ret = s.L.Get(-1)
		s.L.Pop(1)
		return nil
	})
	if err != nil {
		return lua.LNil, fmt.Errorf("calling %s: %w", name, err)
	}
	return ret, nil
}

// bounded runs fn with the call timeout installed on the interpreter.
func (s *State) bounded(fn func() error) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// Close releases the interpreter. It is safe to call more than once.
func (s *State) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.L.Close()
}

// IsClosed reports whether Close has been called.
func (s *State) IsClosed() bool {
	return s.closed
}
