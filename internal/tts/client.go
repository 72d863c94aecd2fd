// Package tts streams synthesized narration audio from the ElevenLabs
// text-to-speech API into a local file.
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

const defaultBaseURL = "https://api.elevenlabs.io"

// Client wraps the ElevenLabs streaming synthesis endpoint.
type Client struct {
	apiKey     string
	voiceID    string
	modelID    string
	baseURL    string
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the default API base (useful for tests).
func WithBaseURL(base string) Option {
	return func(c *Client) {
		base = strings.TrimSpace(base)
		if base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithModelID overrides the default voice model.
func WithModelID(modelID string) Option {
	return func(c *Client) {
		modelID = strings.TrimSpace(modelID)
		if modelID != "" {
			c.modelID = modelID
		}
	}
}

// NewClient constructs an ElevenLabs client.
func NewClient(apiKey, voiceID string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("elevenlabs api key required")
	}
	if strings.TrimSpace(voiceID) == "" {
		return nil, errors.New("elevenlabs voice id required")
	}
	client := &Client{
		apiKey:  strings.TrimSpace(apiKey),
		voiceID: strings.TrimSpace(voiceID),
		modelID: "eleven_monolingual_v1",
		baseURL: defaultBaseURL,
		// Streaming responses scale with script length, so no client timeout;
		// cancellation comes from ctx.
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type synthesisRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

// Synthesize streams spoken audio for text into outputPath. A non-success
// response or interrupted stream fails, and any partial file is removed.
func (c *Client) Synthesize(ctx context.Context, text, outputPath string) error {
	if strings.TrimSpace(text) == "" {
		return errors.New("synthesize: text required")
	}
	if strings.TrimSpace(outputPath) == "" {
		return errors.New("synthesize: output path required")
	}

	encoded, err := json.Marshal(synthesisRequest{Text: text, ModelID: c.modelID})
	if err != nil {
		return fmt.Errorf("synthesize: encode request: %w", err)
	}
	endpoint := fmt.Sprintf("%s/v1/text-to-speech/%s/stream", c.baseURL, c.voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("synthesize: build request: %w", err)
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("synthesize: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("synthesize: http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("synthesize: create output: %w", err)
	}
	if _, err := io.Copy(file, resp.Body); err != nil {
		file.Close()
		os.Remove(outputPath)
		return fmt.Errorf("synthesize: stream audio: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(outputPath)
		return fmt.Errorf("synthesize: close output: %w", err)
	}
	return nil
}
