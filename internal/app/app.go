package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/ctxlog"
	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/manifest"
	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/registry"
)

// App encapsulates the harness's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	plan     *manifest.Plan
	config   *Config
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
func NewApp(outW io.Writer, cfg *Config, modules ...registry.Module) *App {
	logger := buildLogger(cfg, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	// Create and populate the registry with the control library.
	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All control modules registered.", "count", len(modules), "targets", len(reg.TargetNames()))

	var plan *manifest.Plan
	if cfg.ManifestPath != "" {
		var err error
		plan, err = manifest.Load(ctx, cfg.ManifestPath)
		if err != nil {
			// A failure to load the manifest is a fatal startup error.
			panic(fmt.Errorf("failed to load manifest: %w", err))
		}
		applyOverrides(plan, cfg)
		logger.Debug("Manifest loaded into execution plan.", "units", len(plan.Units))
	}

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		plan:     plan,
		config:   cfg,
	}
}

// applyOverrides layers explicit CLI flags over the manifest's batch block.
func applyOverrides(plan *manifest.Plan, cfg *Config) {
	if cfg.Concurrency > 0 {
		plan.Options.Concurrency = cfg.Concurrency
	}
	if cfg.FailFastSet {
		plan.Options.FailFast = cfg.FailFast
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
