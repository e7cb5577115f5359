package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/apsbeam/beamglue/internal/config"
	"github.com/apsbeam/beamglue/internal/iconfig"
	"github.com/apsbeam/beamglue/internal/namespace"
	"github.com/apsbeam/beamglue/internal/registry"
)

// App encapsulates one beamline session startup: the instrument config, the
// factory registry, and the device namespace.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	loader    config.Loader
	iconfig   *iconfig.Config
	factories *registry.Registry
	devices   *namespace.Registry
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger, factory
// registry, and device namespace. With no modules given it registers the
// compiled-in device set.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, modules ...registry.Module) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	icfg, err := iconfig.Load(appConfig.IconfigPath())
	if err != nil {
		// A failure to load the instrument config is a fatal startup error.
		panic(fmt.Errorf("failed to load instrument config: %w", err))
	}
	logger.Debug("Instrument config loaded.", "path", appConfig.IconfigPath())

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All device modules registered.",
		"modules", len(modules), "factories", reg.Identifiers())

	return &App{
		outW:      outW,
		logger:    logger,
		loader:    loader,
		iconfig:   icfg,
		factories: reg,
		devices:   namespace.New(),
	}
}

// Devices returns the session device namespace. Plans and interactive
// console users look devices up here after Run completes.
func (a *App) Devices() *namespace.Registry {
	return a.devices
}

// Factories returns the application's factory registry. This is primarily
// for testing.
func (a *App) Factories() *registry.Registry {
	return a.factories
}

// Iconfig returns the parsed instrument config.
func (a *App) Iconfig() *iconfig.Config {
	return a.iconfig
}
