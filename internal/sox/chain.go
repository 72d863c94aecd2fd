package sox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"

	"cozycast/internal/logging"
)

var commandContext = exec.CommandContext

// Edge selects which end of a file silence is inserted at.
type Edge string

const (
	EdgeStart Edge = "start"
	EdgeEnd   Edge = "end"
)

// MixInput pairs an input file with the linear gain it is scaled by.
type MixInput struct {
	Path string
	Gain float64
}

// Compand describes a sox dynamic-range compression curve.
type Compand struct {
	AttackRelease string // attack,release seconds, e.g. "0.3,1"
	Transfer      string // knee and level points, e.g. "6:-70,-60,-20"
	Gain          string // post-transfer gain in dB
	InitialVolume string // assumed initial level in dB
	Delay         string // lookahead delay in seconds
}

func (p Compand) args() []string {
	return []string{"compand", p.AttackRelease, p.Transfer, p.Gain, p.InitialVolume, p.Delay}
}

// Chain wraps the sox binary as a sequence of discrete file-to-file
// transforms. Every operation runs one sox invocation and fails loudly on a
// non-zero exit.
type Chain struct {
	binary string
	logger *slog.Logger
}

// Option configures a Chain.
type Option func(*Chain)

// WithBinary overrides the default sox binary name.
func WithBinary(binary string) Option {
	return func(c *Chain) {
		if strings.TrimSpace(binary) != "" {
			c.binary = binary
		}
	}
}

// WithLogger attaches a logger for per-operation debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Chain) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewChain constructs a Chain using defaults.
func NewChain(opts ...Option) *Chain {
	chain := &Chain{binary: "sox", logger: logging.NewNop()}
	for _, opt := range opts {
		opt(chain)
	}
	return chain
}

// Resample rewrites input at the target sample rate.
func (c *Chain) Resample(ctx context.Context, input, output string, rate int) error {
	if rate <= 0 {
		return fmt.Errorf("sox resample: invalid rate %d", rate)
	}
	return c.run(ctx, "resample", input, output, "rate", "-h", strconv.Itoa(rate))
}

// Pad inserts seconds of silence at the given edge of input.
func (c *Chain) Pad(ctx context.Context, input, output string, seconds float64, edge Edge) error {
	if seconds < 0 {
		return fmt.Errorf("sox pad: negative duration %v", seconds)
	}
	length := formatSeconds(seconds)
	switch edge {
	case EdgeStart:
		return c.run(ctx, "pad", input, output, "pad", length+"@0")
	case EdgeEnd:
		return c.run(ctx, "pad", input, output, "pad", "0", length)
	default:
		return fmt.Errorf("sox pad: unknown edge %q", edge)
	}
}

// Fade applies amplitude ramps at both ends of input: fadeIn seconds up,
// a fade-out of fadeOut seconds ending at stop seconds.
func (c *Chain) Fade(ctx context.Context, input, output string, fadeIn, stop, fadeOut float64) error {
	return c.run(ctx, "fade", input, output,
		"fade", formatSeconds(fadeIn), formatSeconds(stop), formatSeconds(fadeOut))
}

// Mix sums the inputs, each scaled by its gain, into output. Inputs are
// aligned from time zero; offsets are achieved by padding beforehand.
func (c *Chain) Mix(ctx context.Context, inputs []MixInput, output string) error {
	if len(inputs) < 2 {
		return errors.New("sox mix: at least two inputs required")
	}
	args := []string{"-M"}
	for _, in := range inputs {
		if strings.TrimSpace(in.Path) == "" {
			return errors.New("sox mix: empty input path")
		}
		args = append(args, "-v", strconv.FormatFloat(in.Gain, 'f', -1, 64), in.Path)
	}
	args = append(args, output)
	return c.runRaw(ctx, "mix", args)
}

// Compress applies a short fade-in, the compand curve, and peak
// normalization to normDB.
func (c *Chain) Compress(ctx context.Context, input, output string, fadeIn float64, compand Compand, normDB float64) error {
	args := []string{input, output, "fade", formatSeconds(fadeIn)}
	args = append(args, compand.args()...)
	args = append(args, "norm", strconv.FormatFloat(normDB, 'f', -1, 64))
	return c.runRaw(ctx, "compress", args)
}

// DownmixMono collapses all channels of input into one.
func (c *Chain) DownmixMono(ctx context.Context, input, output string) error {
	return c.run(ctx, "downmix", input, output, "remix", "-")
}

func (c *Chain) run(ctx context.Context, op, input, output string, effect ...string) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("sox %s: empty input path", op)
	}
	if strings.TrimSpace(output) == "" {
		return fmt.Errorf("sox %s: empty output path", op)
	}
	args := append([]string{input, output}, effect...)
	return c.runRaw(ctx, op, args)
}

func (c *Chain) runRaw(ctx context.Context, op string, args []string) error {
	cmd := commandContext(ctx, c.binary, args...)
	combined, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("sox %s: %w: %s", op, err, strings.TrimSpace(string(combined)))
	}
	c.logger.Debug("sox stage complete",
		logging.String("op", op),
		logging.String("args", strings.Join(args, " ")),
	)
	return nil
}

func formatSeconds(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
