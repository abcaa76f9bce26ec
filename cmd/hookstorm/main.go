// Package main is the entry point for the hookstorm demo runner.
package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/dshills/hookstorm/internal/config"
	"github.com/dshills/hookstorm/internal/element"
	"github.com/dshills/hookstorm/internal/logging"
	"github.com/dshills/hookstorm/internal/renderer/backend"
	"github.com/dshills/hookstorm/internal/runtime"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

var errNotTerminal = errors.New("stdin and stdout must be a terminal")

// flags holds the persistent command line flags.
type flags struct {
	configPath string
	logFile    string
	logLevel   string
	fps        int
	mouse      bool
	watch      bool
}

func main() {
	os.Exit(run())
}

func run() int {
	root := newRootCmd()
	if err := root.ExecuteContext(context.Background()); err != nil {
		report(err)
		return 1
	}
	return 0
}

func report(err error) {
	label := color.New(color.FgRed, color.Bold)
	fmt.Fprintf(os.Stderr, "%s %v\n", label.Sprint("error:"), err)

	var pe *runtime.RecoveredPanicError
	if errors.As(err, &pe) {
		fmt.Fprintln(os.Stderr, color.New(color.Faint).Sprint("the render loop panicked; rerun with --log-file for the stack trace"))
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:           "hookstorm",
		Short:         "Hook-based terminal UI runtime demos",
		Long:          `hookstorm renders small component trees built with hooks to show the runtime at work.`,
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&f.configPath, "config", "c", "", "path to a TOML or YAML configuration file")
	pf.StringVar(&f.logFile, "log-file", "", "write logs to this file")
	pf.StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.IntVar(&f.fps, "fps", 0, "target frame rate")
	pf.BoolVar(&f.mouse, "mouse", false, "enable mouse reporting")
	pf.BoolVar(&f.watch, "watch", true, "reload the configuration file when it changes")

	for _, d := range demos {
		root.AddCommand(&cobra.Command{
			Use:   d.name,
			Short: d.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runDemo(cmd, f, d.root)
			},
		})
	}
	root.AddCommand(newScriptCmd(f))
	root.AddCommand(newConfigCmd(f))
	return root
}

//go:embed scripts/snake.lua
var defaultScript string

// newScriptCmd renders a Lua script, or the built-in snake without one.
func newScriptCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "script [file.lua]",
		Short: "Render a component written in Lua",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, source := "snake.lua", defaultScript
			if len(args) == 1 {
				data, err := os.ReadFile(args[0])
				if err != nil {
					return err
				}
				name, source = filepath.Base(args[0]), string(data)
			}
			return runDemo(cmd, f, scriptApp(name, source))
		},
	}
}

// newConfigCmd prints the effective configuration.
func newConfigCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			key := color.New(color.FgCyan)
			out := cmd.OutOrStdout()
			source := cfg.Source
			if source == "" {
				source = "(defaults)"
			}
			fmt.Fprintf(out, "%s %s\n", key.Sprint("source:"), source)
			fmt.Fprintf(out, "%s %d\n", key.Sprint("runtime.fps:"), cfg.Runtime.FPS)
			fmt.Fprintf(out, "%s %v\n", key.Sprint("runtime.pollTimeout:"), cfg.Runtime.PollTimeout)
			fmt.Fprintf(out, "%s %t\n", key.Sprint("runtime.exitOnCtrlC:"), cfg.Runtime.ExitOnCtrlC)
			fmt.Fprintf(out, "%s %t\n", key.Sprint("runtime.mouse:"), cfg.Runtime.Mouse)
			fmt.Fprintf(out, "%s %t\n", key.Sprint("runtime.paste:"), cfg.Runtime.Paste)
			fmt.Fprintf(out, "%s %s\n", key.Sprint("logging.level:"), cfg.Logging.Level)
			fmt.Fprintf(out, "%s %s\n", key.Sprint("logging.file:"), cfg.Logging.File)
			return nil
		},
	}
}

// loadConfig reads the configuration and applies flags the user set.
func loadConfig(cmd *cobra.Command, f *flags) (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return cfg, fmt.Errorf("loading configuration: %w", err)
	}
	changed := cmd.Flags().Changed
	if changed("fps") {
		cfg.Runtime.FPS = f.fps
	}
	if changed("mouse") {
		cfg.Runtime.Mouse = f.mouse
	}
	if changed("log-file") {
		cfg.Logging.File = f.logFile
	}
	if changed("log-level") {
		cfg.Logging.Level = f.logLevel
	}
	return cfg, cfg.Validate()
}

func runDemo(cmd *cobra.Command, f *flags, root func() element.Element) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errNotTerminal
	}

	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.LoggingOptions())
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	logging.SetLogger(log.Logger)

	tty, err := backend.NewTerminal()
	if err != nil {
		return &runtime.InitError{Component: "terminal", Err: err}
	}

	rt := runtime.New(
		runtime.WithBackend(tty),
		runtime.WithConfig(cfg.Runtime),
		runtime.WithLogger(log.Logger),
	)

	if f.watch && cfg.Source != "" {
		w, err := config.Watch(cfg.Source, func(next config.Config, err error) {
			if err != nil {
				return
			}
			rt.SetFPS(next.Runtime.FPS)
			if err := log.SetLevel(next.Logging.Level); err != nil {
				log.Warn("ignoring log level", zap.Error(err))
			}
		}, config.WithWatcherLogger(log.Named("config")))
		if err != nil {
			log.Warn("config watch unavailable", zap.Error(err))
		} else {
			defer w.Close()
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	log.Info("starting demo", zap.String("demo", cmd.Name()), zap.Int("fps", cfg.Runtime.FPS))
	return rt.Run(ctx, root)
}
