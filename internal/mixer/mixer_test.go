package mixer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cozycast/internal/sox"
)

type recordedStage struct {
	name string
	args string
}

type fakeChain struct {
	stages   []recordedStage
	failAt   string
	workDirs map[string]struct{}
}

func (f *fakeChain) record(name, args string) error {
	f.stages = append(f.stages, recordedStage{name: name, args: args})
	if f.failAt == name {
		return fmt.Errorf("%s exploded", name)
	}
	return nil
}

func (f *fakeChain) noteWorkDir(path string) {
	if f.workDirs == nil {
		f.workDirs = make(map[string]struct{})
	}
	f.workDirs[filepath.Dir(path)] = struct{}{}
}

func (f *fakeChain) Resample(_ context.Context, input, output string, rate int) error {
	f.noteWorkDir(output)
	return f.record("resample", fmt.Sprintf("%s %s %d", filepath.Base(input), filepath.Base(output), rate))
}

func (f *fakeChain) Pad(_ context.Context, input, output string, seconds float64, edge sox.Edge) error {
	f.noteWorkDir(output)
	return f.record("pad", fmt.Sprintf("%s %s %v %s", filepath.Base(input), filepath.Base(output), seconds, edge))
}

func (f *fakeChain) Fade(_ context.Context, input, output string, fadeIn, stop, fadeOut float64) error {
	f.noteWorkDir(output)
	return f.record("fade", fmt.Sprintf("%s %s %v %v %v", filepath.Base(input), filepath.Base(output), fadeIn, stop, fadeOut))
}

func (f *fakeChain) Mix(_ context.Context, inputs []sox.MixInput, output string) error {
	parts := make([]string, 0, len(inputs)+1)
	for _, in := range inputs {
		parts = append(parts, fmt.Sprintf("%s@%v", filepath.Base(in.Path), in.Gain))
	}
	parts = append(parts, filepath.Base(output))
	return f.record("mix", strings.Join(parts, " "))
}

func (f *fakeChain) Compress(_ context.Context, input, output string, fadeIn float64, compand sox.Compand, normDB float64) error {
	return f.record("compress", fmt.Sprintf("%s %s %v %s %v", filepath.Base(input), filepath.Base(output), fadeIn, compand.Transfer, normDB))
}

func (f *fakeChain) DownmixMono(_ context.Context, input, output string) error {
	return f.record("downmix", fmt.Sprintf("%s %s", filepath.Base(input), filepath.Base(output)))
}

type fakeProbe struct {
	durations map[string]float64
	err       error
}

func (f *fakeProbe) Duration(_ context.Context, path string) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.durations[filepath.Base(path)], nil
}

func newTestMixer(t *testing.T, chain EffectChain, probe DurationProbe) (*Mixer, string) {
	t.Helper()
	workRoot := t.TempDir()
	bedFile := filepath.Join(t.TempDir(), "bed.mp3")
	if err := os.WriteFile(bedFile, []byte("bed"), 0o644); err != nil {
		t.Fatalf("write bed: %v", err)
	}
	m, err := New(chain, probe, bedFile, workRoot, DefaultSettings(), nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return m, workRoot
}

func TestMixStageOrderAndParameters(t *testing.T) {
	chain := &fakeChain{}
	probe := &fakeProbe{durations: map[string]float64{"narration.mp3": 95.5, "bed.mp3": 60}}
	m, _ := newTestMixer(t, chain, probe)

	output := filepath.Join(t.TempDir(), "broadcast.mp3")
	if err := m.Mix(context.Background(), "narration.mp3", output); err != nil {
		t.Fatalf("Mix returned error: %v", err)
	}

	wantOrder := []string{"resample", "pad", "fade", "pad", "mix", "compress", "downmix"}
	if len(chain.stages) != len(wantOrder) {
		t.Fatalf("stage count = %d, want %d (%v)", len(chain.stages), len(wantOrder), chain.stages)
	}
	for i, want := range wantOrder {
		if chain.stages[i].name != want {
			t.Fatalf("stage %d = %s, want %s", i, chain.stages[i].name, want)
		}
	}

	if got := chain.stages[0].args; got != "bed.mp3 bed_resampled.mp3 44100" {
		t.Fatalf("resample args = %q", got)
	}
	if got := chain.stages[1].args; got != "narration.mp3 padded_vocals.mp3 10 start" {
		t.Fatalf("vocals pad args = %q", got)
	}
	if got := chain.stages[2].args; got != "bed_resampled.mp3 faded_bed.mp3 5 25 20" {
		t.Fatalf("fade args = %q", got)
	}
	if got := chain.stages[3].args; got != "faded_bed.mp3 padded_bed.mp3 95.5 end" {
		t.Fatalf("bed tail pad args = %q", got)
	}
	if got := chain.stages[4].args; got != "faded_bed.mp3@0.3 padded_vocals.mp3@1.2 padded_bed.mp3@0.4 mixed_broadcast.wav" {
		t.Fatalf("mix args = %q", got)
	}
	if got := chain.stages[5].args; got != "mixed_broadcast.wav compressed_broadcast.wav 5 6:-70,-60,-20 -3" {
		t.Fatalf("compress args = %q", got)
	}
	if got := chain.stages[6].args; got != "compressed_broadcast.wav "+filepath.Base(output) {
		t.Fatalf("downmix args = %q", got)
	}
}

func TestMixCleansWorkDirectory(t *testing.T) {
	chain := &fakeChain{}
	probe := &fakeProbe{durations: map[string]float64{}}
	m, workRoot := newTestMixer(t, chain, probe)

	output := filepath.Join(t.TempDir(), "broadcast.mp3")
	if err := m.Mix(context.Background(), "narration.mp3", output); err != nil {
		t.Fatalf("Mix returned error: %v", err)
	}

	entries, err := os.ReadDir(workRoot)
	if err != nil {
		t.Fatalf("read work root: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("work root not cleaned, found %d entries", len(entries))
	}
}

func TestMixCleansWorkDirectoryOnFailure(t *testing.T) {
	chain := &fakeChain{failAt: "mix"}
	probe := &fakeProbe{durations: map[string]float64{}}
	m, workRoot := newTestMixer(t, chain, probe)

	err := m.Mix(context.Background(), "narration.mp3", filepath.Join(t.TempDir(), "broadcast.mp3"))
	if err == nil {
		t.Fatal("expected error from failing stage")
	}
	if !strings.Contains(err.Error(), "combine tracks") {
		t.Fatalf("error %q does not name the failing stage", err)
	}

	entries, err := os.ReadDir(workRoot)
	if err != nil {
		t.Fatalf("read work root: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("work root not cleaned after failure, found %d entries", len(entries))
	}
}

func TestMixRemovesPreviousOutput(t *testing.T) {
	chain := &fakeChain{}
	probe := &fakeProbe{durations: map[string]float64{}}
	m, _ := newTestMixer(t, chain, probe)

	output := filepath.Join(t.TempDir(), "broadcast.mp3")
	if err := os.WriteFile(output, []byte("stale"), 0o644); err != nil {
		t.Fatalf("write stale output: %v", err)
	}
	if err := m.Mix(context.Background(), "narration.mp3", output); err != nil {
		t.Fatalf("Mix returned error: %v", err)
	}
	if _, err := os.Stat(output); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("stale output not removed: %v", err)
	}
}

func TestMixProbeFailureAborts(t *testing.T) {
	chain := &fakeChain{}
	probe := &fakeProbe{err: errors.New("probe broken")}
	m, _ := newTestMixer(t, chain, probe)

	err := m.Mix(context.Background(), "narration.mp3", filepath.Join(t.TempDir(), "broadcast.mp3"))
	if err == nil {
		t.Fatal("expected error from failing probe")
	}
	if len(chain.stages) != 0 {
		t.Fatalf("stages ran despite probe failure: %v", chain.stages)
	}
}

func TestMixValidatesInputs(t *testing.T) {
	chain := &fakeChain{}
	probe := &fakeProbe{}
	m, _ := newTestMixer(t, chain, probe)

	if err := m.Mix(context.Background(), "", "out.mp3"); err == nil {
		t.Fatal("expected error for empty narration path")
	}
	if err := m.Mix(context.Background(), "narration.mp3", ""); err == nil {
		t.Fatal("expected error for empty output path")
	}
}

func TestNewValidatesArguments(t *testing.T) {
	if _, err := New(nil, &fakeProbe{}, "bed.mp3", "/tmp", DefaultSettings(), nil); err == nil {
		t.Fatal("expected error for nil chain")
	}
	if _, err := New(&fakeChain{}, nil, "bed.mp3", "/tmp", DefaultSettings(), nil); err == nil {
		t.Fatal("expected error for nil probe")
	}
	if _, err := New(&fakeChain{}, &fakeProbe{}, " ", "/tmp", DefaultSettings(), nil); err == nil {
		t.Fatal("expected error for empty bed file")
	}
	if _, err := New(&fakeChain{}, &fakeProbe{}, "bed.mp3", " ", DefaultSettings(), nil); err == nil {
		t.Fatal("expected error for empty work root")
	}
}
