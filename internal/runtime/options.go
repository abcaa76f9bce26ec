package runtime

import (
	"time"

	"go.uber.org/zap"

	"github.com/dshills/hookstorm/internal/config"
	"github.com/dshills/hookstorm/internal/renderer/backend"
)

// Defaults.
const (
	DefaultFPS         = 60
	DefaultPollTimeout = 16 * time.Millisecond
	maxFPS             = 240
)

// Options configures a Runtime.
type Options struct {
	// Backend is the terminal. Render creates a tcell terminal when nil.
	Backend backend.Backend

	// FPS is the target frame rate.
	FPS int

	// PollTimeout bounds how long a frame waits for an input event.
	PollTimeout time.Duration

	// ExitOnCtrlC makes Ctrl+C call RequestExit.
	ExitOnCtrlC bool

	// Mouse and Paste enable the matching terminal reporting.
	Mouse bool
	Paste bool

	// Logger receives runtime diagnostics. Nop when nil.
	Logger *zap.Logger
}

// DefaultOptions returns the default runtime options.
func DefaultOptions() Options {
	return Options{
		FPS:         DefaultFPS,
		PollTimeout: DefaultPollTimeout,
		ExitOnCtrlC: true,
	}
}

// Option modifies Options.
type Option func(*Options)

// WithBackend sets the terminal backend.
func WithBackend(b backend.Backend) Option {
	return func(o *Options) { o.Backend = b }
}

// WithFPS sets the target frame rate.
func WithFPS(fps int) Option {
	return func(o *Options) { o.FPS = fps }
}

// WithPollTimeout sets the input poll timeout.
func WithPollTimeout(d time.Duration) Option {
	return func(o *Options) { o.PollTimeout = d }
}

// WithExitOnCtrlC controls whether Ctrl+C requests exit.
func WithExitOnCtrlC(enabled bool) Option {
	return func(o *Options) { o.ExitOnCtrlC = enabled }
}

// WithMouse enables mouse reporting.
func WithMouse(enabled bool) Option {
	return func(o *Options) { o.Mouse = enabled }
}

// WithPaste enables bracketed paste.
func WithPaste(enabled bool) Option {
	return func(o *Options) { o.Paste = enabled }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithConfig applies the runtime section of a loaded configuration.
func WithConfig(cfg config.Runtime) Option {
	return func(o *Options) {
		o.FPS = cfg.FPS
		o.PollTimeout = cfg.PollTimeout
		o.ExitOnCtrlC = cfg.ExitOnCtrlC
		o.Mouse = cfg.Mouse
		o.Paste = cfg.Paste
	}
}

func (o *Options) normalize() {
	if o.FPS <= 0 {
		o.FPS = DefaultFPS
	}
	o.FPS = min(o.FPS, maxFPS)
	if o.PollTimeout <= 0 {
		o.PollTimeout = DefaultPollTimeout
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}

func frameInterval(fps int) time.Duration {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return time.Second / time.Duration(min(fps, maxFPS))
}
