package broadcast

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cozycast/internal/logging"
)

// Store persists broadcast records: one immutable file per run under the
// records directory plus a rewritten "latest" snapshot that downstream
// consumers read.
type Store struct {
	latestPath string
	recordsDir string
	logger     *slog.Logger
}

// NewStore constructs a record store.
func NewStore(latestPath, recordsDir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Store{
		latestPath: latestPath,
		recordsDir: recordsDir,
		logger:     logging.NewComponentLogger(logger, "broadcast"),
	}
}

// Load returns the latest persisted record. Missing or unreadable state is
// not an error: the caller always gets a valid, fully-initialized record.
// Silent state loss is still surfaced as a warning.
func (s *Store) Load() *Record {
	data, err := os.ReadFile(s.latestPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("broadcast state unreadable, starting fresh",
				logging.String("path", s.latestPath),
				logging.Error(err),
			)
		}
		return NewRecord()
	}

	record := NewRecord()
	if err := json.Unmarshal(data, record); err != nil {
		s.logger.Warn("broadcast state corrupt, starting fresh",
			logging.String("path", s.latestPath),
			logging.Error(err),
		)
		return NewRecord()
	}
	if record.Events == nil {
		record.Events = []string{}
	}
	return record
}

// Save serializes the full record: the per-run file keyed by its creation
// time, then the latest snapshot, each rewritten wholesale. It returns the
// record to allow chaining into the calling sequence.
func (s *Store) Save(record *Record) (*Record, error) {
	if record == nil {
		return nil, errors.New("save: record is nil")
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("save: encode record: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(s.recordsDir, 0o755); err != nil {
		return nil, fmt.Errorf("save: ensure records directory: %w", err)
	}
	runPath := filepath.Join(s.recordsDir, "broadcast-"+runStamp(record)+".json")
	if err := os.WriteFile(runPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("save: write run record: %w", err)
	}
	if err := os.WriteFile(s.latestPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("save: write latest record: %w", err)
	}
	return record, nil
}

// LatestPath returns the location of the latest snapshot.
func (s *Store) LatestPath() string {
	return s.latestPath
}

func runStamp(record *Record) string {
	if created, err := time.Parse(time.RFC3339, record.CreatedAt); err == nil {
		return created.UTC().Format("20060102T150405Z")
	}
	if id := strings.TrimSpace(record.RunID); id != "" {
		return id
	}
	return "unknown"
}
