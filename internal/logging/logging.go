// Package logging holds the process-wide zap logger.
//
// The logger is a no-op until SetLogger is called. While the render loop
// owns the terminal, logs must go to a file; New builds such a logger.
package logging

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	logger *zap.Logger
	once   sync.Once
)

// Logger returns the process logger. It uses a no-op logger by default.
func Logger() *zap.Logger {
	once.Do(func() {
		mu.Lock()
		if logger == nil {
			logger = zap.NewNop()
		}
		mu.Unlock()
	})
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// SetLogger replaces the process logger. A nil logger restores the no-op
// default.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	once.Do(func() {})
	mu.Lock()
	logger = l
	mu.Unlock()
}

// Named returns a child of the process logger scoped to a component.
func Named(component string) *zap.Logger {
	return Logger().Named(component)
}

// ParseLevel parses a level name. Accepts debug, info, warn/warning and
// error, case-insensitively.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info", "":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}

// Options configures New.
type Options struct {
	Level string
	// File receives the log output. An empty path disables logging.
	File string
	// Development switches to zap's human-readable console encoder.
	Development bool
}

// Handle is a logger together with its adjustable level.
type Handle struct {
	*zap.Logger
	Level zap.AtomicLevel
}

// SetLevel changes the level of a running logger.
func (h *Handle) SetLevel(s string) error {
	lvl, err := ParseLevel(s)
	if err != nil {
		return err
	}
	h.Level.SetLevel(lvl)
	return nil
}

// New builds a file logger from opts.
func New(opts Options) (*Handle, error) {
	lvl, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	atom := zap.NewAtomicLevelAt(lvl)
	if opts.File == "" {
		return &Handle{Logger: zap.NewNop(), Level: atom}, nil
	}

	cfg := zap.NewProductionConfig()
	if opts.Development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = atom
	cfg.OutputPaths = []string{opts.File}
	cfg.ErrorOutputPaths = []string{opts.File}
	cfg.DisableStacktrace = !opts.Development

	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger for %s: %w", opts.File, err)
	}
	return &Handle{Logger: l, Level: atom}, nil
}
