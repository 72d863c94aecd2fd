package config

import (
	"os"
	"strconv"
	"strings"
)

// Environment variables override their config-file counterparts so the job
// can run credential-free config files (e.g. under a scheduler).
func (c *Config) normalize() error {
	for _, field := range []*string{&c.Paths.DataDir, &c.Paths.LogDir, &c.Paths.BedFile, &c.Paths.OutputFile} {
		if strings.TrimSpace(*field) == "" {
			continue
		}
		expanded, err := expandPath(*field)
		if err != nil {
			return err
		}
		*field = expanded
	}

	applyEnvString(&c.Weather.APIKey, "OPENWEATHERMAP_API_KEY")
	applyEnvFloat(&c.Station.Latitude, "LATITUDE")
	applyEnvFloat(&c.Station.Longitude, "LONGITUDE")
	applyEnvString(&c.Inbox.Host, "IMAP_HOST")
	applyEnvString(&c.Inbox.Username, "IMAP_USERNAME")
	applyEnvString(&c.Inbox.Password, "IMAP_PASSWORD")
	applyEnvString(&c.LLM.APIKey, "OPENAI_API_KEY")
	applyEnvString(&c.TTS.APIKey, "ELEVENLABS_API_KEY")
	applyEnvString(&c.TTS.VoiceID, "ELEVENLABS_VOICE_ID")
	applyEnvString(&c.Notifications.NtfyTopic, "NTFY_TOPIC")

	if c.Collectors.MaxConcurrent <= 0 {
		c.Collectors.MaxConcurrent = defaultMaxConcurrent
	}
	if c.Camera.TimeoutSeconds <= 0 {
		c.Camera.TimeoutSeconds = defaultCmdTimeout
	}
	if c.Thermostat.TimeoutSeconds <= 0 {
		c.Thermostat.TimeoutSeconds = defaultCmdTimeout
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNtfyTimeout
	}
	return nil
}

func applyEnvString(target *string, key string) {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		*target = strings.TrimSpace(value)
	}
}

func applyEnvFloat(target *float64, key string) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return
	}
	*target = parsed
}
