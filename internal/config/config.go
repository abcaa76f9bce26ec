package config

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dshills/hookstorm/internal/config/loader"
	"github.com/dshills/hookstorm/internal/logging"
)

// Limits enforced by Validate.
const (
	MaxFPS         = 240
	MaxPollTimeout = time.Second
)

// Runtime configures the render loop.
type Runtime struct {
	FPS         int
	PollTimeout time.Duration
	ExitOnCtrlC bool
	Mouse       bool
	Paste       bool
}

// Logging configures the log file. Nothing is logged without a file since
// the terminal belongs to the UI.
type Logging struct {
	Level       string
	File        string
	Development bool
}

// Config is the complete hookstorm configuration.
type Config struct {
	Runtime Runtime
	Logging Logging

	// Source is the file the configuration was read from, if any.
	Source string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Runtime: Runtime{
			FPS:         60,
			PollTimeout: 16 * time.Millisecond,
			ExitOnCtrlC: true,
		},
		Logging: Logging{Level: "info"},
	}
}

type loadOptions struct {
	fs  loader.FileSystem
	env *loader.EnvLoader
}

// LoadOption configures Load.
type LoadOption func(*loadOptions)

// WithFS reads the configuration file from fsys.
func WithFS(fsys loader.FileSystem) LoadOption {
	return func(o *loadOptions) { o.fs = fsys }
}

// WithEnv reads environment overrides with env. A nil env disables them.
func WithEnv(env *loader.EnvLoader) LoadOption {
	return func(o *loadOptions) { o.env = env }
}

// Load merges the defaults, the file at path (skipped when path is empty
// or the file does not exist) and the environment, then validates the
// result.
func Load(path string, opts ...LoadOption) (Config, error) {
	o := loadOptions{
		fs:  loader.DefaultFS(),
		env: loader.NewEnvLoader(loader.DefaultEnvPrefix),
	}
	for _, opt := range opts {
		opt(&o)
	}

	merged := make(map[string]any)
	if path != "" {
		data, err := loader.ForPath(o.fs, path).Load()
		if err != nil {
			return Config{}, err
		}
		merged = loader.DeepMerge(merged, data)
	}
	if o.env != nil {
		data, err := o.env.Load()
		if err != nil {
			return Config{}, fmt.Errorf("reading environment: %w", err)
		}
		merged = loader.DeepMerge(merged, data)
	}

	cfg, err := Decode(merged)
	if err != nil {
		return Config{}, err
	}
	cfg.Source = path
	return cfg, cfg.Validate()
}

// Decode applies the settings in data on top of Default. Keys match
// case-insensitively; unknown keys are ignored.
func Decode(data map[string]any) (Config, error) {
	cfg := Default()
	d := decoder{data: data}

	d.int("runtime.fps", &cfg.Runtime.FPS)
	d.duration("runtime.pollTimeout", &cfg.Runtime.PollTimeout)
	d.bool("runtime.exitOnCtrlC", &cfg.Runtime.ExitOnCtrlC)
	d.bool("runtime.mouse", &cfg.Runtime.Mouse)
	d.bool("runtime.paste", &cfg.Runtime.Paste)
	d.string("logging.level", &cfg.Logging.Level)
	d.string("logging.file", &cfg.Logging.File)
	d.bool("logging.development", &cfg.Logging.Development)

	return cfg, d.err
}

// Validate reports the first setting with an unusable value.
func (c Config) Validate() error {
	if c.Runtime.FPS < 1 || c.Runtime.FPS > MaxFPS {
		return &ValidationError{Path: "runtime.fps", Message: fmt.Sprintf("must be between 1 and %d", MaxFPS), Value: c.Runtime.FPS}
	}
	if c.Runtime.PollTimeout <= 0 || c.Runtime.PollTimeout > MaxPollTimeout {
		return &ValidationError{Path: "runtime.pollTimeout", Message: "must be positive and at most 1s", Value: c.Runtime.PollTimeout}
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return &ValidationError{Path: "logging.level", Message: err.Error(), Value: c.Logging.Level}
	}
	return nil
}

// LoggingOptions converts the logging section for logging.New.
func (c Config) LoggingOptions() logging.Options {
	return logging.Options{
		Level:       c.Logging.Level,
		File:        c.Logging.File,
		Development: c.Logging.Development,
	}
}

// decoder reads typed values out of a merged map, keeping the first error.
type decoder struct {
	data map[string]any
	err  error
}

func (d *decoder) lookup(path string) (any, bool) {
	current := d.data
	parts := strings.Split(path, ".")
	for i, part := range parts {
		v, ok := lookupFold(current, part)
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return v, true
		}
		if current, ok = v.(map[string]any); !ok {
			return nil, false
		}
	}
	return nil, false
}

func lookupFold(m map[string]any, key string) (any, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

func (d *decoder) fail(path, expected string, v any) {
	if d.err == nil {
		d.err = &TypeError{Path: path, Expected: expected, Actual: fmt.Sprintf("%T", v)}
	}
}

func (d *decoder) int(path string, dst *int) {
	v, ok := d.lookup(path)
	if !ok {
		return
	}
	switch n := v.(type) {
	case int64:
		*dst = int(n)
	case int:
		*dst = n
	case float64:
		if n != math.Trunc(n) {
			d.fail(path, "integer", v)
			return
		}
		*dst = int(n)
	default:
		d.fail(path, "integer", v)
	}
}

// duration accepts Go duration strings, durations, and integers read as
// milliseconds.
func (d *decoder) duration(path string, dst *time.Duration) {
	v, ok := d.lookup(path)
	if !ok {
		return
	}
	switch t := v.(type) {
	case time.Duration:
		*dst = t
	case int64:
		*dst = time.Duration(t) * time.Millisecond
	case int:
		*dst = time.Duration(t) * time.Millisecond
	case string:
		parsed, err := time.ParseDuration(t)
		if err != nil {
			d.fail(path, "duration", v)
			return
		}
		*dst = parsed
	default:
		d.fail(path, "duration", v)
	}
}

func (d *decoder) bool(path string, dst *bool) {
	v, ok := d.lookup(path)
	if !ok {
		return
	}
	b, ok := v.(bool)
	if !ok {
		d.fail(path, "bool", v)
		return
	}
	*dst = b
}

func (d *decoder) string(path string, dst *string) {
	v, ok := d.lookup(path)
	if !ok {
		return
	}
	s, ok := v.(string)
	if !ok {
		d.fail(path, "string", v)
		return
	}
	*dst = s
}
