package main

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/alexisbeaulieu97/hivelab/internal/config"
	"github.com/alexisbeaulieu97/hivelab/internal/element"
	"github.com/alexisbeaulieu97/hivelab/internal/engine"
	"github.com/alexisbeaulieu97/hivelab/internal/logger"
	"github.com/alexisbeaulieu97/hivelab/internal/resolver"
	hiveerrors "github.com/alexisbeaulieu97/hivelab/pkg/errors"
)

// appContext bundles the services every command builds at startup.
type appContext struct {
	Config   *config.Config
	Log      *logger.Logger
	Registry *element.Registry
	Resolver *resolver.Resolver

	logOpts logger.Options
}

func newAppContext(flags *rootFlags, stderr io.Writer) (*appContext, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}

	level := cfg.Log.Level
	if flags.verbose {
		level = "debug"
	}

	app := &appContext{
		Config: cfg,
		logOpts: logger.Options{
			Level:         level,
			HumanReadable: humanReadableLogs(flags, cfg.Log, stderr),
			Writer:        stderr,
		},
	}
	if app.Log, err = logger.New(app.logOpts); err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	policy, err := resolver.ParseDuplicatePolicy(cfg.Resolver.DuplicateTargets)
	if err != nil {
		return nil, hiveerrors.NewValidationError("resolver.duplicate_targets", "unsupported policy", err)
	}

	app.Registry = element.NewDefaultRegistry(app.componentLogger("registry"))
	app.Resolver = resolver.New(app.Registry,
		resolver.WithDuplicatePolicy(policy),
		resolver.WithLogger(app.componentLogger("resolver")),
	)
	return app, nil
}

// componentLogger returns a logger stamped with component. The options were
// already accepted by logger.New, so a failure falls back to the base logger.
func (a *appContext) componentLogger(component string) *logger.Logger {
	opts := a.logOpts
	opts.Component = component
	log, err := logger.New(opts)
	if err != nil {
		return a.Log
	}
	return log
}

func (a *appContext) engine(opts ...engine.Option) *engine.Engine {
	opts = append([]engine.Option{engine.WithLogger(a.componentLogger("engine"))}, opts...)
	return engine.New(a.Registry, a.Resolver, opts...)
}

// humanReadableLogs picks console output for interactive stderr unless the
// flags or config say otherwise.
func humanReadableLogs(flags *rootFlags, cfg config.LogConfig, stderr io.Writer) bool {
	if flags.jsonLogs {
		return false
	}
	if cfg.HumanReadable != nil {
		return *cfg.HumanReadable
	}
	return isTerminal(stderr)
}

func isTerminal(w io.Writer) bool {
	if file, ok := w.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	return false
}
