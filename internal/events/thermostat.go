package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ThermostatCollector invokes an external command that reports the thermostat
// status as a JSON object and renders it as one sentence.
type ThermostatCollector struct {
	command []string
	timeout time.Duration
}

// NewThermostat constructs a thermostat collector around the given command line.
func NewThermostat(command []string, timeout time.Duration) (*ThermostatCollector, error) {
	if len(command) == 0 {
		return nil, errors.New("thermostat command required")
	}
	return &ThermostatCollector{command: command, timeout: timeout}, nil
}

// Name implements Collector.
func (c *ThermostatCollector) Name() string { return "thermostat" }

type thermostatStatus struct {
	Mode        string      `json:"mode"`
	Temperature json.Number `json:"temperature"`
}

// Collect runs the command and returns a single status string.
func (c *ThermostatCollector) Collect(ctx context.Context) ([]string, error) {
	output, err := runCollectorCommand(ctx, c.command, c.timeout)
	if err != nil {
		return nil, err
	}

	var status thermostatStatus
	if err := json.Unmarshal(output, &status); err != nil {
		return nil, fmt.Errorf("decode thermostat status: %w", err)
	}

	return []string{
		fmt.Sprintf("The thermostat is set to %s and the indoor temperature is %s", status.Mode, status.Temperature),
	}, nil
}
