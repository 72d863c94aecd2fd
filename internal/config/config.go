package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and fixed-file configuration.
type Paths struct {
	DataDir    string `toml:"data_dir"`
	LogDir     string `toml:"log_dir"`
	BedFile    string `toml:"bed_file"`
	OutputFile string `toml:"output_file"`
}

// Station describes the on-air identity woven into the script prompt.
type Station struct {
	Name        string  `toml:"name"`
	Broadcaster string  `toml:"broadcaster"`
	Latitude    float64 `toml:"latitude"`
	Longitude   float64 `toml:"longitude"`
}

// Weather contains configuration for the OpenWeatherMap collector.
type Weather struct {
	Enabled bool   `toml:"enabled"`
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
	Units   string `toml:"units"`
}

// Inbox contains configuration for the IMAP shipping-update collector.
type Inbox struct {
	Enabled     bool     `toml:"enabled"`
	Host        string   `toml:"host"`
	Port        int      `toml:"port"`
	Username    string   `toml:"username"`
	Password    string   `toml:"password"`
	Mailbox     string   `toml:"mailbox"`
	SearchTerms []string `toml:"search_terms"`
}

// Camera contains configuration for the camera-event collector command.
type Camera struct {
	Enabled        bool     `toml:"enabled"`
	Command        []string `toml:"command"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
}

// Thermostat contains configuration for the thermostat-status collector command.
type Thermostat struct {
	Enabled        bool     `toml:"enabled"`
	Command        []string `toml:"command"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
}

// Collectors contains shared event-collection settings.
type Collectors struct {
	MaxConcurrent int `toml:"max_concurrent"`
}

// LLM contains script-generation connection settings.
type LLM struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
	Model   string `toml:"model"`
}

// TTS contains ElevenLabs speech-synthesis settings.
type TTS struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
	VoiceID string `toml:"voice_id"`
	ModelID string `toml:"model_id"`
}

// Mix contains the broadcast mix timing and gain policy. Defaults match the
// tuning the bed track was produced against.
type Mix struct {
	SampleRate      int     `toml:"sample_rate"`
	LeadInSeconds   float64 `toml:"lead_in_seconds"`
	FadeInSeconds   float64 `toml:"fade_in_seconds"`
	FadeStopSeconds float64 `toml:"fade_stop_seconds"`
	FadeOutSeconds  float64 `toml:"fade_out_seconds"`
	BedGain         float64 `toml:"bed_gain"`
	VocalsGain      float64 `toml:"vocals_gain"`
	TailGain        float64 `toml:"tail_gain"`
	NormalizeDB     float64 `toml:"normalize_db"`
}

// Notifications contains ntfy push notification settings.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for cozycast.
type Config struct {
	Paths         Paths         `toml:"paths"`
	Station       Station       `toml:"station"`
	Weather       Weather       `toml:"weather"`
	Inbox         Inbox         `toml:"inbox"`
	Camera        Camera        `toml:"camera"`
	Thermostat    Thermostat    `toml:"thermostat"`
	Collectors    Collectors    `toml:"collectors"`
	LLM           LLM           `toml:"llm"`
	TTS           TTS           `toml:"tts"`
	Mix           Mix           `toml:"mix"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/cozycast/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and credential fields resolved against
// the environment.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("cozycast.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a run needs.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir, c.RecordsDir(), c.WorkRoot()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// RecordsDir returns the directory holding immutable per-run record files.
func (c *Config) RecordsDir() string {
	return filepath.Join(c.Paths.DataDir, "records")
}

// LatestRecordPath returns the path of the latest broadcast record snapshot.
func (c *Config) LatestRecordPath() string {
	return filepath.Join(c.Paths.DataDir, "broadcast.json")
}

// HistoryDBPath returns the run-history database location.
func (c *Config) HistoryDBPath() string {
	return filepath.Join(c.Paths.DataDir, "history.db")
}

// WorkRoot returns the scratch directory root for mixing intermediates.
func (c *Config) WorkRoot() string {
	return filepath.Join(c.Paths.DataDir, "work")
}

// OutputPath returns the final broadcast audio destination.
func (c *Config) OutputPath() string {
	if strings.TrimSpace(c.Paths.OutputFile) != "" {
		return c.Paths.OutputFile
	}
	return filepath.Join(c.Paths.DataDir, "broadcast.mp3")
}

// SoxBinary returns the sox executable name.
func (c *Config) SoxBinary() string {
	return "sox"
}

// SoxiBinary returns the soxi executable name used for duration probing.
func (c *Config) SoxiBinary() string {
	return "soxi"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
