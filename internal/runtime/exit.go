package runtime

import "sync/atomic"

var exitRequested atomic.Bool

// RequestExit asks every running render loop to stop after the current
// frame. It is safe to call from any goroutine, including effects and
// timers.
func RequestExit() {
	exitRequested.Store(true)
}

// ShouldExit reports whether an exit has been requested.
func ShouldExit() bool {
	return exitRequested.Load()
}

// ResetExit clears a pending exit request. Run calls it on start.
func ResetExit() {
	exitRequested.Store(false)
}
