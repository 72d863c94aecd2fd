package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateStation(); err != nil {
		return err
	}
	if err := c.validateCollectors(); err != nil {
		return err
	}
	if err := c.validateMix(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	if strings.TrimSpace(c.Paths.BedFile) == "" {
		return errors.New("paths.bed_file must be set")
	}
	return nil
}

func (c *Config) validateStation() error {
	if strings.TrimSpace(c.Station.Name) == "" {
		return errors.New("station.name must be set")
	}
	if strings.TrimSpace(c.Station.Broadcaster) == "" {
		return errors.New("station.broadcaster must be set")
	}
	if c.Weather.Enabled {
		if c.Station.Latitude < -90 || c.Station.Latitude > 90 {
			return errors.New("station.latitude must be between -90 and 90")
		}
		if c.Station.Longitude < -180 || c.Station.Longitude > 180 {
			return errors.New("station.longitude must be between -180 and 180")
		}
	}
	return nil
}

func (c *Config) validateCollectors() error {
	if c.Camera.Enabled && len(c.Camera.Command) == 0 {
		return errors.New("camera.command must be set when camera collection is enabled")
	}
	if c.Thermostat.Enabled && len(c.Thermostat.Command) == 0 {
		return errors.New("thermostat.command must be set when thermostat collection is enabled")
	}
	if c.Inbox.Enabled {
		if c.Inbox.Port <= 0 || c.Inbox.Port > 65535 {
			return fmt.Errorf("inbox.port %d is out of range", c.Inbox.Port)
		}
	}
	return nil
}

func (c *Config) validateMix() error {
	if c.Mix.SampleRate <= 0 {
		return errors.New("mix.sample_rate must be positive")
	}
	for name, value := range map[string]float64{
		"mix.lead_in_seconds":   c.Mix.LeadInSeconds,
		"mix.fade_in_seconds":   c.Mix.FadeInSeconds,
		"mix.fade_stop_seconds": c.Mix.FadeStopSeconds,
		"mix.fade_out_seconds":  c.Mix.FadeOutSeconds,
	} {
		if value < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	for name, value := range map[string]float64{
		"mix.bed_gain":    c.Mix.BedGain,
		"mix.vocals_gain": c.Mix.VocalsGain,
		"mix.tail_gain":   c.Mix.TailGain,
	} {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	if c.Mix.NormalizeDB > 0 {
		return errors.New("mix.normalize_db must be zero or negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "auto", "console", "json":
	default:
		return fmt.Errorf("logging.format %q is not supported", c.Logging.Format)
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not supported", c.Logging.Level)
	}
	return nil
}
