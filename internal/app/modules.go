package app

import (
	"github.com/apsbeam/beamglue/devices/amplifier"
	"github.com/apsbeam/beamglue/devices/epics"
	"github.com/apsbeam/beamglue/devices/scaler"
	"github.com/apsbeam/beamglue/devices/shutter"
	"github.com/apsbeam/beamglue/devices/sim"
	"github.com/apsbeam/beamglue/internal/registry"
)

// coreModules is the definitive list of all device modules that are compiled
// into the beamglue binary.
var coreModules = []registry.Module{
	&sim.Module{},
	&epics.Module{},
	&scaler.Module{},
	&amplifier.Module{},
	&shutter.Module{},
}
