package app

import (
	"context"
	"fmt"

	"github.com/apsbeam/beamglue/internal/ctxlog"
	"github.com/apsbeam/beamglue/internal/fsutil"
	"github.com/apsbeam/beamglue/internal/sequencer"
)

// Run drives the device load sequence and prints the operator summary. It
// returns an error only for session-level problems (bad manifest order
// config, misuse); individual device failures are reported, not raised, so
// the session stays usable in partial-failure states.
func (a *App) Run(ctx context.Context, appConfig *Config) (*sequencer.Report, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	paths, err := a.iconfig.ManifestPaths(appConfig.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("resolving manifest order: %w", err)
	}
	if len(paths) == 0 {
		// No manifest order configured: fall back to every .hcl in the
		// config directory, lexically, so file naming fixes the load order.
		paths, err = fsutil.FindFilesByExtension(appConfig.ConfigDir, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("discovering manifests: %w", err)
		}
		a.logger.Warn("No DEVICE_MANIFESTS configured; discovered manifests by extension.", "count", len(paths))
	}
	a.logger.Info("Device manifests resolved.", "count", len(paths), "paths", paths)

	seq := sequencer.New(a.loader, a.factories, a.devices)
	report, err := seq.Load(ctx, paths...)
	if err != nil {
		return nil, fmt.Errorf("device load sequence: %w", err)
	}

	a.logger.Info("Session startup complete.",
		"session", report.Session.String(),
		"devices", report.Loaded,
		"failures", len(report.Failures),
		"baseline", len(a.devices.FindByLabel(a.baselineLabel())))
	fmt.Fprintln(a.outW, report.Summary())

	a.logger.Debug("App.Run method finished.")
	return report, nil
}

// baselineLabel returns the configured baseline-stream label, defaulting to
// "baseline" when the feature is enabled without a label.
func (a *App) baselineLabel() string {
	if !a.iconfig.Baseline.Enable {
		return ""
	}
	if a.iconfig.Baseline.Label == "" {
		return "baseline"
	}
	return a.iconfig.Baseline.Label
}
