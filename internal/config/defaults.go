package config

const (
	defaultDataDir        = "~/.local/share/cozycast"
	defaultLogDir         = "~/.local/share/cozycast/logs"
	defaultBedFile        = "~/.local/share/cozycast/radio_intro_outro.mp3"
	defaultStationName    = "1.101 Cozy Castle Radio"
	defaultBroadcaster    = "Hotsy Totsy Harry Fitzgerald"
	defaultWeatherBaseURL = "https://api.openweathermap.org"
	defaultWeatherUnits   = "imperial"
	defaultIMAPPort       = 993
	defaultMailbox        = "INBOX"
	defaultLLMModel       = "gpt-5"
	defaultTTSBaseURL     = "https://api.elevenlabs.io"
	defaultTTSModelID     = "eleven_monolingual_v1"
	defaultLogFormat      = "auto"
	defaultLogLevel       = "info"
	defaultNtfyTimeout    = 10
	defaultMaxConcurrent  = 4
	defaultCmdTimeout     = 60
)

// DefaultMix returns the mix policy the bed track was tuned against.
func DefaultMix() Mix {
	return Mix{
		SampleRate:      44100,
		LeadInSeconds:   10,
		FadeInSeconds:   5,
		FadeStopSeconds: 25,
		FadeOutSeconds:  20,
		BedGain:         0.3,
		VocalsGain:      1.2,
		TailGain:        0.4,
		NormalizeDB:     -3,
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			BedFile: defaultBedFile,
		},
		Station: Station{
			Name:        defaultStationName,
			Broadcaster: defaultBroadcaster,
		},
		Weather: Weather{
			Enabled: true,
			BaseURL: defaultWeatherBaseURL,
			Units:   defaultWeatherUnits,
		},
		Inbox: Inbox{
			Enabled: true,
			Port:    defaultIMAPPort,
			Mailbox: defaultMailbox,
			SearchTerms: []string{
				"Shipped",
				"Out for Delivery",
				"Delivered",
				"on its way",
				"shipped",
				"on the way",
			},
		},
		Camera: Camera{
			Enabled:        true,
			Command:        []string{"python3", "get_wyze_events.py"},
			TimeoutSeconds: defaultCmdTimeout,
		},
		Thermostat: Thermostat{
			Enabled:        true,
			Command:        []string{"python3", "get_honeywell_status.py"},
			TimeoutSeconds: defaultCmdTimeout,
		},
		Collectors: Collectors{
			MaxConcurrent: defaultMaxConcurrent,
		},
		LLM: LLM{
			Model: defaultLLMModel,
		},
		TTS: TTS{
			BaseURL: defaultTTSBaseURL,
			ModelID: defaultTTSModelID,
		},
		Mix: DefaultMix(),
		Notifications: Notifications{
			RequestTimeout: defaultNtfyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
