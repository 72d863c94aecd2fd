package preflight

import (
	"cozycast/internal/config"
	"cozycast/internal/deps"
)

// CheckSystemDeps evaluates the external binaries a broadcast run shells out
// to. Both the run and status commands use this to avoid duplicating the
// requirements list.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "SoX",
			Command:     cfg.SoxBinary(),
			Description: "Required for audio mixing",
		},
		{
			Name:        "soxi",
			Command:     cfg.SoxiBinary(),
			Description: "Required for audio duration probing",
		},
	}
	if cfg.Camera.Enabled && len(cfg.Camera.Command) > 0 {
		requirements = append(requirements, deps.Requirement{
			Name:        "Camera command",
			Command:     cfg.Camera.Command[0],
			Description: "Reports camera events",
		})
	}
	if cfg.Thermostat.Enabled && len(cfg.Thermostat.Command) > 0 {
		requirements = append(requirements, deps.Requirement{
			Name:        "Thermostat command",
			Command:     cfg.Thermostat.Command[0],
			Description: "Reports thermostat status",
		})
	}
	return deps.CheckBinaries(requirements)
}
