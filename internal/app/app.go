package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vk/nsreg/internal/ctxlog"
	"github.com/vk/nsreg/internal/globalenv"
	"github.com/vk/nsreg/internal/hclhost"
	"github.com/vk/nsreg/internal/metrics"
	"github.com/vk/nsreg/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	env      *globalenv.Env
	registry *registry.Registry
	host     *hclhost.Host
	metrics  *prometheus.Registry
}

// NewApp is the constructor for the main application. Results are written
// to outW and logs to logW. It installs a fresh registry into its own global
// environment, runs the given Go modules (all builtins when none are given)
// and then loads the configured HCL module paths.
//
// A Go module that fails to load is a programmer error and panics. Problems
// in user-supplied HCL are returned as errors.
func NewApp(outW, logW io.Writer, cfg *Config, modules ...registry.Body) (*App, error) {
	logger := newLogger(cfg, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	promReg := prometheus.NewRegistry()
	env := globalenv.New()
	reg, err := registry.Install(env,
		registry.WithLogger(logger),
		registry.WithObserver(metrics.New(promReg)),
	)
	if err != nil {
		// A fresh environment cannot already hold the bindings.
		panic(fmt.Errorf("failed to install registry: %w", err))
	}
	logger.Debug("Registry installed into global environment.")

	if len(modules) == 0 {
		modules = coreModules
	}
	if err := registry.LoadAll(env, modules...); err != nil {
		panic(err)
	}
	logger.Debug("All Go modules loaded.", "count", len(modules))

	host, err := hclhost.New(env)
	if err != nil {
		panic(fmt.Errorf("failed to create HCL host: %w", err))
	}
	if len(cfg.ModulePaths) > 0 {
		if err := host.LoadFiles(ctx, cfg.ModulePaths...); err != nil {
			return nil, fmt.Errorf("failed to load modules: %w", err)
		}
	}
	logger.Debug("Module registry ready.", "modules", reg.Len(), "last_created", reg.LastCreated())

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		env:      env,
		registry: reg,
		host:     host,
		metrics:  promReg,
	}, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Env returns the global environment the registry is installed in.
func (a *App) Env() *globalenv.Env {
	return a.env
}
