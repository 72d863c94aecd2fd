package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"cozycast/internal/broadcast"
	"cozycast/internal/config"
	"cozycast/internal/events"
	"cozycast/internal/history"
	"cozycast/internal/logging"
	"cozycast/internal/mixer"
	"cozycast/internal/notifications"
	"cozycast/internal/pipeline"
	"cozycast/internal/scriptgen"
	"cozycast/internal/sox"
	"cozycast/internal/tts"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Produce a broadcast now",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger, err := buildLogger(cfg)
			if err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}

			runner, historyStore, err := buildRunner(cfg, logger)
			if err != nil {
				return err
			}
			defer historyStore.Close()

			record, err := runner.Run(runCtx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Broadcast ready: %s (%d events)\n", record.AudioFile, len(record.Events))
			return nil
		},
	}
}

func buildLogger(cfg *config.Config) (*slog.Logger, error) {
	return logging.NewFileLogger(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}, cfg.Paths.LogDir, "cozycast.log")
}

func buildRunner(cfg *config.Config, logger *slog.Logger) (*pipeline.Runner, *history.Store, error) {
	collectors, err := buildCollectors(cfg)
	if err != nil {
		return nil, nil, err
	}

	generator, err := scriptgen.New(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Model)
	if err != nil {
		return nil, nil, err
	}

	var ttsOpts []tts.Option
	if cfg.TTS.BaseURL != "" {
		ttsOpts = append(ttsOpts, tts.WithBaseURL(cfg.TTS.BaseURL))
	}
	if cfg.TTS.ModelID != "" {
		ttsOpts = append(ttsOpts, tts.WithModelID(cfg.TTS.ModelID))
	}
	synth, err := tts.NewClient(cfg.TTS.APIKey, cfg.TTS.VoiceID, ttsOpts...)
	if err != nil {
		return nil, nil, err
	}

	chain := sox.NewChain(sox.WithBinary(cfg.SoxBinary()), sox.WithLogger(logger))
	probe := sox.NewProbe(sox.WithProbeBinary(cfg.SoxiBinary()))
	audioMixer, err := mixer.New(chain, probe, cfg.Paths.BedFile, cfg.WorkRoot(), mixSettings(cfg), logger)
	if err != nil {
		return nil, nil, err
	}

	historyStore, err := history.Open(cfg.HistoryDBPath())
	if err != nil {
		return nil, nil, err
	}

	store := broadcast.NewStore(cfg.LatestRecordPath(), cfg.RecordsDir(), logger)
	notifier := notifications.NewService(cfg)

	runner, err := pipeline.NewRunner(cfg, store, collectors, generator, synth, audioMixer, historyStore, notifier, logger)
	if err != nil {
		historyStore.Close()
		return nil, nil, err
	}
	return runner, historyStore, nil
}

func buildCollectors(cfg *config.Config) ([]events.Collector, error) {
	var collectors []events.Collector

	if cfg.Weather.Enabled {
		opts := []events.WeatherOption{events.WithWeatherUnits(cfg.Weather.Units)}
		if cfg.Weather.BaseURL != "" {
			opts = append(opts, events.WithWeatherBaseURL(cfg.Weather.BaseURL))
		}
		weather, err := events.NewWeather(cfg.Weather.APIKey, cfg.Station.Latitude, cfg.Station.Longitude, opts...)
		if err != nil {
			return nil, fmt.Errorf("configure weather collector: %w", err)
		}
		collectors = append(collectors, weather)
	}
	if cfg.Inbox.Enabled {
		inbox, err := events.NewInbox(cfg.Inbox.Host, cfg.Inbox.Port, cfg.Inbox.Username, cfg.Inbox.Password, cfg.Inbox.Mailbox, cfg.Inbox.SearchTerms)
		if err != nil {
			return nil, fmt.Errorf("configure inbox collector: %w", err)
		}
		collectors = append(collectors, inbox)
	}
	if cfg.Camera.Enabled {
		camera, err := events.NewCamera(cfg.Camera.Command, time.Duration(cfg.Camera.TimeoutSeconds)*time.Second)
		if err != nil {
			return nil, fmt.Errorf("configure camera collector: %w", err)
		}
		collectors = append(collectors, camera)
	}
	if cfg.Thermostat.Enabled {
		thermostat, err := events.NewThermostat(cfg.Thermostat.Command, time.Duration(cfg.Thermostat.TimeoutSeconds)*time.Second)
		if err != nil {
			return nil, fmt.Errorf("configure thermostat collector: %w", err)
		}
		collectors = append(collectors, thermostat)
	}
	return collectors, nil
}

// mixSettings maps the configured mix policy onto the mixer defaults. Zero
// values keep the stock tuning.
func mixSettings(cfg *config.Config) mixer.Settings {
	settings := mixer.DefaultSettings()
	if cfg.Mix.SampleRate > 0 {
		settings.SampleRate = cfg.Mix.SampleRate
	}
	if cfg.Mix.LeadInSeconds > 0 {
		settings.LeadInSeconds = cfg.Mix.LeadInSeconds
	}
	if cfg.Mix.FadeInSeconds > 0 {
		settings.FadeInSeconds = cfg.Mix.FadeInSeconds
		settings.CompressFadeSeconds = cfg.Mix.FadeInSeconds
	}
	if cfg.Mix.FadeStopSeconds > 0 {
		settings.FadeStopSeconds = cfg.Mix.FadeStopSeconds
	}
	if cfg.Mix.FadeOutSeconds > 0 {
		settings.FadeOutSeconds = cfg.Mix.FadeOutSeconds
	}
	if cfg.Mix.BedGain > 0 {
		settings.BedGain = cfg.Mix.BedGain
	}
	if cfg.Mix.VocalsGain > 0 {
		settings.VocalsGain = cfg.Mix.VocalsGain
	}
	if cfg.Mix.TailGain > 0 {
		settings.TailGain = cfg.Mix.TailGain
	}
	if cfg.Mix.NormalizeDB != 0 {
		settings.NormalizeDB = cfg.Mix.NormalizeDB
	}
	return settings
}
