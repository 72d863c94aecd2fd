// Package scriptgen turns the composed event prompt into narration text via
// the OpenAI chat completions API.
package scriptgen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Generator produces broadcast scripts from prompts.
type Generator struct {
	model string
	opts  []option.RequestOption
}

// New constructs a Generator. baseURL is optional and mainly useful for
// tests or OpenAI-compatible endpoints.
func New(apiKey, baseURL, model string) (*Generator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("script generation api key required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("script generation model required")
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if strings.TrimSpace(baseURL) != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Generator{model: model, opts: opts}, nil
}

// Generate returns the narration text for the given prompt.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", errors.New("generate: prompt required")
	}

	client := openai.NewClient(g.opts...)
	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("generate script: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("generate script: empty choices")
	}
	script := strings.TrimSpace(resp.Choices[0].Message.Content)
	if script == "" {
		return "", errors.New("generate script: empty content")
	}
	return script, nil
}
