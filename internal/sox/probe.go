package sox

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

// Probe reads audio durations via soxi. It inspects container metadata only
// and never decodes audio content.
type Probe struct {
	binary string
}

// ProbeOption configures a Probe.
type ProbeOption func(*Probe)

// WithProbeBinary overrides the default soxi binary name.
func WithProbeBinary(binary string) ProbeOption {
	return func(p *Probe) {
		if strings.TrimSpace(binary) != "" {
			p.binary = binary
		}
	}
}

// NewProbe constructs a Probe using defaults.
func NewProbe(opts ...ProbeOption) *Probe {
	probe := &Probe{binary: "soxi"}
	for _, opt := range opts {
		opt(probe)
	}
	return probe
}

// Duration returns the audio length of path in seconds. A missing file is
// not an error: it reports 0 so downstream padding math degrades to zero
// padding instead of aborting.
func (p *Probe) Duration(ctx context.Context, path string) (float64, error) {
	if strings.TrimSpace(path) == "" {
		return 0, errors.New("soxi duration: empty path")
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("soxi duration: stat %s: %w", path, err)
	}

	cmd := commandContext(ctx, p.binary, "-D", path)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("soxi duration: %w", err)
	}
	value := strings.TrimSpace(string(output))
	seconds, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("soxi duration: parse %q: %w", value, err)
	}
	return seconds, nil
}
