package events

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"
)

func setHelperCommand(t *testing.T, mode string, captured *[]string) {
	t.Helper()
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		if captured != nil {
			*captured = append([]string{name}, args...)
		}
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", fmt.Sprintf("EVENTS_HELPER_MODE=%s", mode))
		return cmd
	}
	t.Cleanup(func() {
		commandContext = original
	})
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	switch os.Getenv("EVENTS_HELPER_MODE") {
	case "camera":
		fmt.Println(`[
  {"time": 1788210000, "camera_name": "Front Door", "alarm_type": "MOTION", "tags": ["person", "package"]},
  {"time": 1788210100, "camera_name": "Back Yard", "alarm_type": "sound", "tags": ["dog"]},
  {"time": 1788210200, "camera_name": "Driveway", "alarm_type": "Motion", "tags": []}
]`)
		os.Exit(0)
	case "thermostat":
		fmt.Println(`{"mode": "cool", "temperature": 71}`)
		os.Exit(0)
	case "badjson":
		fmt.Println("nope")
		os.Exit(0)
	case "failure":
		fmt.Fprintln(os.Stderr, "device unreachable")
		os.Exit(1)
	default:
		os.Exit(0)
	}
}

func TestCameraCollect(t *testing.T) {
	var captured []string
	setHelperCommand(t, "camera", &captured)

	collector, err := NewCamera([]string{"camera-events", "--json"}, time.Minute)
	if err != nil {
		t.Fatalf("NewCamera returned error: %v", err)
	}

	got, err := collector.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}
	want := []string{
		"Front Door detected Motion and saw a person and a package",
		"Back Yard detected Sound and heard a dog",
		"Driveway detected Motion",
	}
	if len(got) != len(want) {
		t.Fatalf("Collect returned %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d = %q, want %q", i, got[i], want[i])
		}
	}
	if captured[0] != "camera-events" || captured[1] != "--json" {
		t.Fatalf("unexpected command invocation %v", captured)
	}
}

func TestCameraCollectBadJSON(t *testing.T) {
	setHelperCommand(t, "badjson", nil)

	collector, err := NewCamera([]string{"camera-events"}, 0)
	if err != nil {
		t.Fatalf("NewCamera returned error: %v", err)
	}
	if _, err := collector.Collect(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestCameraCollectCommandFailureIncludesStderr(t *testing.T) {
	setHelperCommand(t, "failure", nil)

	collector, err := NewCamera([]string{"camera-events"}, 0)
	if err != nil {
		t.Fatalf("NewCamera returned error: %v", err)
	}
	_, err = collector.Collect(context.Background())
	if err == nil {
		t.Fatal("expected error from failing command")
	}
	if !strings.Contains(err.Error(), "device unreachable") {
		t.Fatalf("error %q missing command stderr", err)
	}
}

func TestNewCameraRequiresCommand(t *testing.T) {
	if _, err := NewCamera(nil, 0); err == nil {
		t.Fatal("expected error for empty command")
	}
}

func TestThermostatCollect(t *testing.T) {
	setHelperCommand(t, "thermostat", nil)

	collector, err := NewThermostat([]string{"thermostat-status"}, time.Minute)
	if err != nil {
		t.Fatalf("NewThermostat returned error: %v", err)
	}

	got, err := collector.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}
	want := "The thermostat is set to cool and the indoor temperature is 71"
	if len(got) != 1 || got[0] != want {
		t.Fatalf("Collect returned %v, want [%q]", got, want)
	}
}

func TestThermostatCollectBadJSON(t *testing.T) {
	setHelperCommand(t, "badjson", nil)

	collector, err := NewThermostat([]string{"thermostat-status"}, 0)
	if err != nil {
		t.Fatalf("NewThermostat returned error: %v", err)
	}
	if _, err := collector.Collect(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}
