package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"cozycast/internal/broadcast"
	"cozycast/internal/config"
	"cozycast/internal/events"
	"cozycast/internal/history"
	"cozycast/internal/logging"
	"cozycast/internal/notifications"
)

// ScriptGenerator turns the composed prompt into narration text.
type ScriptGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Synthesizer renders narration text as spoken audio at outputPath.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, outputPath string) error
}

// AudioMixer combines the narration file with the music bed into outputPath.
type AudioMixer interface {
	Mix(ctx context.Context, narrationFile, outputPath string) error
}

// ErrRunInProgress is returned when another broadcast run holds the lock.
var ErrRunInProgress = errors.New("another broadcast run is in progress")

// Runner drives one complete broadcast: collect events, write the script,
// synthesize narration, and mix the finished audio. The record is persisted
// after every stage so a crash leaves a complete account of how far the run
// got.
type Runner struct {
	cfg        *config.Config
	store      *broadcast.Store
	collectors []events.Collector
	generator  ScriptGenerator
	synth      Synthesizer
	mixer      AudioMixer
	history    *history.Store
	notifier   notifications.Service
	logger     *slog.Logger

	now      func() time.Time
	newRunID func() string
}

// Option customizes a Runner.
type Option func(*Runner)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// WithRunIDSource overrides run identifier generation.
func WithRunIDSource(source func() string) Option {
	return func(r *Runner) {
		if source != nil {
			r.newRunID = source
		}
	}
}

// NewRunner wires the pipeline together. The history store and notifier may
// be nil; the relevant steps are skipped.
func NewRunner(
	cfg *config.Config,
	store *broadcast.Store,
	collectors []events.Collector,
	generator ScriptGenerator,
	synth Synthesizer,
	mixer AudioMixer,
	historyStore *history.Store,
	notifier notifications.Service,
	logger *slog.Logger,
	opts ...Option,
) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("pipeline requires a config")
	}
	if store == nil {
		return nil, errors.New("pipeline requires a record store")
	}
	if generator == nil || synth == nil || mixer == nil {
		return nil, errors.New("pipeline requires generator, synthesizer, and mixer")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if notifier == nil {
		notifier = notifications.NewService(cfg)
	}
	runner := &Runner{
		cfg:        cfg,
		store:      store,
		collectors: collectors,
		generator:  generator,
		synth:      synth,
		mixer:      mixer,
		history:    historyStore,
		notifier:   notifier,
		logger:     logging.NewComponentLogger(logger, "pipeline"),
		now:        time.Now,
		newRunID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(runner)
	}
	return runner, nil
}

// Run produces one broadcast end to end and returns the final record. Only a
// single run may execute at a time; a held lock fails fast with
// ErrRunInProgress.
func (r *Runner) Run(ctx context.Context) (*broadcast.Record, error) {
	lock := flock.New(filepath.Join(r.cfg.Paths.DataDir, "cozycast.lock"))
	acquired, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !acquired {
		return nil, ErrRunInProgress
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			r.logger.Warn("release run lock", logging.Error(err))
		}
	}()

	start := r.now()
	record := broadcast.NewRecord()
	record.RunID = r.newRunID()
	record.CreatedAt = start.Format(time.RFC3339)

	runLogger := r.logger.With(logging.String(logging.FieldRunID, record.RunID))
	runLogger.Info("broadcast run starting",
		logging.String("station", r.cfg.Station.Name),
		logging.Int("collectors", len(r.collectors)),
	)
	if _, err := r.store.Save(record); err != nil {
		return record, fmt.Errorf("persist new record: %w", err)
	}
	if err := r.notifier.NotifyBroadcastStarted(ctx, r.cfg.Station.Name); err != nil {
		runLogger.Warn("started notification failed", logging.Error(err))
	}

	collected, err := events.CollectAll(ctx, r.cfg.Collectors.MaxConcurrent, r.collectors...)
	if err != nil {
		return record, r.fail(ctx, record, start, "collect events", err)
	}
	record.AppendEvents(collected...)
	runLogger.Info("events collected", logging.Int("events", len(record.Events)))
	if _, err := r.store.Save(record); err != nil {
		return record, r.fail(ctx, record, start, "persist events", err)
	}

	record.ScriptPrompt = broadcast.ComposePrompt(r.cfg.Station.Name, r.cfg.Station.Broadcaster, start, record.Events)
	if _, err := r.store.Save(record); err != nil {
		return record, r.fail(ctx, record, start, "persist prompt", err)
	}

	script, err := r.generator.Generate(ctx, record.ScriptPrompt)
	if err != nil {
		return record, r.fail(ctx, record, start, "generate script", err)
	}
	record.Script = script
	runLogger.Info("script generated", logging.Int("characters", len(script)))
	if _, err := r.store.Save(record); err != nil {
		return record, r.fail(ctx, record, start, "persist script", err)
	}

	if err := os.MkdirAll(r.cfg.WorkRoot(), 0o755); err != nil {
		return record, r.fail(ctx, record, start, "ensure work root", err)
	}
	narration, err := os.CreateTemp(r.cfg.WorkRoot(), "narration-*.mp3")
	if err != nil {
		return record, r.fail(ctx, record, start, "create narration file", err)
	}
	narrationPath := narration.Name()
	narration.Close()
	defer os.Remove(narrationPath)

	if err := r.synth.Synthesize(ctx, record.Script, narrationPath); err != nil {
		return record, r.fail(ctx, record, start, "synthesize narration", err)
	}
	runLogger.Info("narration synthesized", logging.String("file", narrationPath))

	outputPath := r.cfg.OutputPath()
	if err := r.mixer.Mix(ctx, narrationPath, outputPath); err != nil {
		return record, r.fail(ctx, record, start, "mix broadcast", err)
	}

	record.AudioFile = outputPath
	record.Error = ""
	if _, err := r.store.Save(record); err != nil {
		return record, r.fail(ctx, record, start, "persist result", err)
	}

	elapsed := r.now().Sub(start)
	r.recordHistory(ctx, record, start, elapsed)
	if err := r.notifier.NotifyBroadcastCompleted(ctx, r.cfg.Station.Name, outputPath, len(record.Events), elapsed); err != nil {
		runLogger.Warn("completed notification failed", logging.Error(err))
	}
	runLogger.Info("broadcast run complete",
		logging.String("output", outputPath),
		logging.Duration("elapsed", elapsed),
	)
	return record, nil
}

// fail persists the failure on the record, records history, and notifies
// before returning the wrapped error.
func (r *Runner) fail(ctx context.Context, record *broadcast.Record, start time.Time, stage string, cause error) error {
	err := fmt.Errorf("%s: %w", stage, cause)
	record.Error = err.Error()
	if _, saveErr := r.store.Save(record); saveErr != nil {
		r.logger.Error("persist failed record", logging.Error(saveErr))
	}
	r.recordHistory(ctx, record, start, r.now().Sub(start))
	if notifyErr := r.notifier.NotifyBroadcastFailed(ctx, r.cfg.Station.Name, err); notifyErr != nil {
		r.logger.Warn("failure notification failed", logging.Error(notifyErr))
	}
	r.logger.Error("broadcast run failed",
		logging.String(logging.FieldRunID, record.RunID),
		logging.String(logging.FieldStage, stage),
		logging.Error(cause),
	)
	return err
}

func (r *Runner) recordHistory(ctx context.Context, record *broadcast.Record, start time.Time, elapsed time.Duration) {
	if r.history == nil {
		return
	}
	_, err := r.history.Record(ctx, history.Run{
		RunID:          record.RunID,
		CreatedAt:      start,
		Script:         record.Script,
		AudioFile:      record.AudioFile,
		ErrorMessage:   record.Error,
		EventCount:     len(record.Events),
		ElapsedSeconds: elapsed.Seconds(),
	})
	if err != nil {
		r.logger.Warn("record run history", logging.Error(err))
	}
}
