package preflight

import (
	"context"

	"cozycast/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Checks are only run when the corresponding feature is enabled.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Data directory", cfg.Paths.DataDir))
	results = append(results, CheckBedFile(cfg.Paths.BedFile))

	results = append(results, CheckCredential("Script generation API key", cfg.LLM.APIKey))
	results = append(results, CheckCredential("Speech synthesis API key", cfg.TTS.APIKey))
	results = append(results, CheckCredential("Speech synthesis voice", cfg.TTS.VoiceID))

	if cfg.Weather.Enabled {
		results = append(results, CheckCredential("Weather API key", cfg.Weather.APIKey))
	}
	if cfg.Inbox.Enabled {
		results = append(results, CheckCredential("Inbox host", cfg.Inbox.Host))
		results = append(results, CheckCredential("Inbox username", cfg.Inbox.Username))
		results = append(results, CheckCredential("Inbox password", cfg.Inbox.Password))
	}

	return results
}
