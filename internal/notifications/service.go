package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cozycast/internal/config"
)

const userAgent = "Cozycast-Go/0.1.0"

// Service defines the notification surface exposed to the broadcast pipeline.
type Service interface {
	NotifyBroadcastStarted(ctx context.Context, station string) error
	NotifyBroadcastCompleted(ctx context.Context, station, audioFile string, events int, duration time.Duration) error
	NotifyBroadcastFailed(ctx context.Context, station string, err error) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &http.Client{Timeout: timeout}
	return &ntfyService{
		endpoint: topic,
		client:   client,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyBroadcastStarted(ctx context.Context, station string) error {
	station = strings.TrimSpace(station)
	data := payload{
		title:   "Cozycast - Broadcast Started",
		message: fmt.Sprintf("Producing a new broadcast for %s", station),
		tags:    []string{"cozycast", "broadcast", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyBroadcastCompleted(ctx context.Context, station, audioFile string, events int, duration time.Duration) error {
	station = strings.TrimSpace(station)
	audioFile = strings.TrimSpace(audioFile)
	duration = duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}
	message := fmt.Sprintf("Broadcast ready for %s: %d events narrated in %s", station, events, duration)
	if audioFile != "" {
		message = fmt.Sprintf("%s\nFile: %s", message, audioFile)
	}
	data := payload{
		title:    "Cozycast - Broadcast Ready",
		message:  message,
		tags:     []string{"cozycast", "broadcast", "completed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyBroadcastFailed(ctx context.Context, station string, err error) error {
	var builder strings.Builder
	builder.WriteString("Broadcast failed")
	if station = strings.TrimSpace(station); station != "" {
		builder.WriteString(" for ")
		builder.WriteString(station)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Cozycast - Error",
		message:  builder.String(),
		tags:     []string{"cozycast", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Cozycast - Test",
		message:  "Notification system test",
		tags:     []string{"cozycast", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyBroadcastStarted(context.Context, string) error { return nil }
func (noopService) NotifyBroadcastCompleted(context.Context, string, string, int, time.Duration) error {
	return nil
}
func (noopService) NotifyBroadcastFailed(context.Context, string, error) error { return nil }
func (noopService) TestNotification(context.Context) error                     { return nil }
