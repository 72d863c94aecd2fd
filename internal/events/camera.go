package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var commandContext = exec.CommandContext

// CameraCollector invokes an external command that reports camera events as
// a JSON array and renders each as a narrated sentence.
type CameraCollector struct {
	command []string
	timeout time.Duration
	caser   cases.Caser
}

// NewCamera constructs a camera collector around the given command line.
func NewCamera(command []string, timeout time.Duration) (*CameraCollector, error) {
	if len(command) == 0 {
		return nil, errors.New("camera command required")
	}
	return &CameraCollector{
		command: command,
		timeout: timeout,
		caser:   cases.Title(language.AmericanEnglish),
	}, nil
}

// Name implements Collector.
func (c *CameraCollector) Name() string { return "camera" }

type cameraEvent struct {
	Time       json.Number `json:"time"`
	CameraName string      `json:"camera_name"`
	AlarmType  string      `json:"alarm_type"`
	Tags       []string    `json:"tags"`
}

// Collect runs the command and returns one string per reported event.
func (c *CameraCollector) Collect(ctx context.Context) ([]string, error) {
	output, err := runCollectorCommand(ctx, c.command, c.timeout)
	if err != nil {
		return nil, err
	}

	var reported []cameraEvent
	if err := json.Unmarshal(output, &reported); err != nil {
		return nil, fmt.Errorf("decode camera events: %w", err)
	}

	rendered := make([]string, 0, len(reported))
	for _, event := range reported {
		alarm := c.caser.String(strings.ToLower(strings.TrimSpace(event.AlarmType)))
		text := fmt.Sprintf("%s detected %s", strings.TrimSpace(event.CameraName), alarm)
		if len(event.Tags) > 0 {
			verb := "saw"
			if strings.EqualFold(event.AlarmType, "sound") {
				verb = "heard"
			}
			described := make([]string, 0, len(event.Tags))
			for _, tag := range event.Tags {
				described = append(described, "a "+tag)
			}
			text = fmt.Sprintf("%s and %s %s", text, verb, strings.Join(described, " and "))
		}
		rendered = append(rendered, text)
	}
	return rendered, nil
}

func runCollectorCommand(ctx context.Context, command []string, timeout time.Duration) ([]byte, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	cmd := commandContext(ctx, command[0], command[1:]...)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("run %s: %w: %s", command[0], err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("run %s: %w", command[0], err)
	}
	return output, nil
}
