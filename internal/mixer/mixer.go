package mixer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cozycast/internal/logging"
	"cozycast/internal/sox"
)

// EffectChain is the signal-processing capability the mixer composes.
type EffectChain interface {
	Resample(ctx context.Context, input, output string, rate int) error
	Pad(ctx context.Context, input, output string, seconds float64, edge sox.Edge) error
	Fade(ctx context.Context, input, output string, fadeIn, stop, fadeOut float64) error
	Mix(ctx context.Context, inputs []sox.MixInput, output string) error
	Compress(ctx context.Context, input, output string, fadeIn float64, compand sox.Compand, normDB float64) error
	DownmixMono(ctx context.Context, input, output string) error
}

// DurationProbe measures audio file lengths.
type DurationProbe interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// Settings holds the mix timing and gain policy. The defaults are the values
// the bed track was produced against; they are named here so tuning never
// touches the algorithm.
type Settings struct {
	SampleRate          int
	LeadInSeconds       float64
	FadeInSeconds       float64
	FadeStopSeconds     float64
	FadeOutSeconds      float64
	BedGain             float64
	VocalsGain          float64
	TailGain            float64
	CompressFadeSeconds float64
	Compand             sox.Compand
	NormalizeDB         float64
}

// DefaultCompand is the broadcast compression curve: knee points at
// -70/-60/-20 dB against a -5 dB threshold and -90 dB floor, 0.3 s attack
// and 1 s release.
func DefaultCompand() sox.Compand {
	return sox.Compand{
		AttackRelease: "0.3,1",
		Transfer:      "6:-70,-60,-20",
		Gain:          "-5",
		InitialVolume: "-90",
		Delay:         "0.2",
	}
}

// DefaultSettings returns the stock mix policy.
func DefaultSettings() Settings {
	return Settings{
		SampleRate:          44100,
		LeadInSeconds:       10,
		FadeInSeconds:       5,
		FadeStopSeconds:     25,
		FadeOutSeconds:      20,
		BedGain:             0.3,
		VocalsGain:          1.2,
		TailGain:            0.4,
		CompressFadeSeconds: 5,
		Compand:             DefaultCompand(),
		NormalizeDB:         -3,
	}
}

// Mixer combines one narration track with the fixed intro/outro bed into a
// single finished broadcast file.
type Mixer struct {
	chain    EffectChain
	probe    DurationProbe
	settings Settings
	bedFile  string
	workRoot string
	logger   *slog.Logger
}

// New constructs a Mixer. bedFile is the pre-produced music bed; workRoot is
// the directory scratch work dirs are created under.
func New(chain EffectChain, probe DurationProbe, bedFile, workRoot string, settings Settings, logger *slog.Logger) (*Mixer, error) {
	if chain == nil || probe == nil {
		return nil, errors.New("mixer requires an effect chain and a duration probe")
	}
	if strings.TrimSpace(bedFile) == "" {
		return nil, errors.New("mixer requires a bed file path")
	}
	if strings.TrimSpace(workRoot) == "" {
		return nil, errors.New("mixer requires a work root")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Mixer{
		chain:    chain,
		probe:    probe,
		settings: settings,
		bedFile:  bedFile,
		workRoot: workRoot,
		logger:   logging.NewComponentLogger(logger, "mixer"),
	}, nil
}

// Mix produces the finished narration+bed file at outputPath. Stages run in
// a fixed order; a failing stage aborts the mix naming the stage. All
// intermediates live in a scratch dir removed on every exit path.
func (m *Mixer) Mix(ctx context.Context, narrationFile, outputPath string) error {
	if strings.TrimSpace(narrationFile) == "" {
		return errors.New("mix: narration file required")
	}
	if strings.TrimSpace(outputPath) == "" {
		return errors.New("mix: output path required")
	}

	start := time.Now()
	vocalsLength, err := m.probe.Duration(ctx, narrationFile)
	if err != nil {
		return fmt.Errorf("mix: probe narration: %w", err)
	}
	bedLength, err := m.probe.Duration(ctx, m.bedFile)
	if err != nil {
		return fmt.Errorf("mix: probe bed: %w", err)
	}
	m.logger.Info("mixing broadcast",
		logging.Float64("vocals_seconds", vocalsLength),
		logging.Float64("bed_seconds", bedLength),
	)

	if err := os.MkdirAll(m.workRoot, 0o755); err != nil {
		return fmt.Errorf("mix: ensure work root: %w", err)
	}
	workDir, err := os.MkdirTemp(m.workRoot, "mix-")
	if err != nil {
		return fmt.Errorf("mix: create work directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	bedResampled := filepath.Join(workDir, "bed_resampled.mp3")
	paddedVocals := filepath.Join(workDir, "padded_vocals.mp3")
	fadedBed := filepath.Join(workDir, "faded_bed.mp3")
	paddedBed := filepath.Join(workDir, "padded_bed.mp3")
	mixed := filepath.Join(workDir, "mixed_broadcast.wav")
	compressed := filepath.Join(workDir, "compressed_broadcast.wav")

	if err := os.Remove(outputPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("mix: clear previous output: %w", err)
	}

	s := m.settings
	if err := m.chain.Resample(ctx, m.bedFile, bedResampled, s.SampleRate); err != nil {
		return fmt.Errorf("mix: resample bed: %w", err)
	}
	if err := m.chain.Pad(ctx, narrationFile, paddedVocals, s.LeadInSeconds, sox.EdgeStart); err != nil {
		return fmt.Errorf("mix: pad vocals: %w", err)
	}
	if err := m.chain.Fade(ctx, bedResampled, fadedBed, s.FadeInSeconds, s.FadeStopSeconds, s.FadeOutSeconds); err != nil {
		return fmt.Errorf("mix: fade bed: %w", err)
	}
	if err := m.chain.Pad(ctx, fadedBed, paddedBed, vocalsLength, sox.EdgeEnd); err != nil {
		return fmt.Errorf("mix: pad bed tail: %w", err)
	}
	inputs := []sox.MixInput{
		{Path: fadedBed, Gain: s.BedGain},
		{Path: paddedVocals, Gain: s.VocalsGain},
		{Path: paddedBed, Gain: s.TailGain},
	}
	if err := m.chain.Mix(ctx, inputs, mixed); err != nil {
		return fmt.Errorf("mix: combine tracks: %w", err)
	}
	if err := m.chain.Compress(ctx, mixed, compressed, s.CompressFadeSeconds, s.Compand, s.NormalizeDB); err != nil {
		return fmt.Errorf("mix: compress: %w", err)
	}
	if err := m.chain.DownmixMono(ctx, compressed, outputPath); err != nil {
		return fmt.Errorf("mix: downmix: %w", err)
	}

	m.logger.Info("broadcast mixed",
		logging.String("output", outputPath),
		logging.Duration("elapsed", time.Since(start)),
	)
	return nil
}
