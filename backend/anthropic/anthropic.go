// Package anthropic provides a backend adapter for the Anthropic Claude
// Messages API. Each conversation keeps its own message history so
// session continuity is preserved across sequential generation requests.
package anthropic

import (
	"context"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/intellikit/intellikit/backend"
	"github.com/intellikit/intellikit/core"
)

// Options configures the Anthropic backend adapter (model id, max
// tokens, temperature, API key). Extend via functional options to
// preserve stability.
type Options struct {
	Model       anthropic.Model
	MaxTokens   int64
	Temperature float64
	APIKey      string
}

// Backend wraps the Anthropic Messages API behind the generic
// backend.Backend interface.
type Backend struct {
	client *anthropic.Client
	opts   Options
}

// NewBackend creates a new Anthropic backend using the official client.
func NewBackend(optFns ...func(o *Options)) *Backend {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		MaxTokens:   1024,
		Temperature: 0.7,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := anthropic.NewClient(clientOpts...)

	return &Backend{client: &client, opts: opts}
}

// NewBackendFromClient creates a new Anthropic backend from an existing client.
func NewBackendFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Backend {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		MaxTokens:   1024,
		Temperature: 0.7,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Backend{client: client, opts: opts}
}

// Availability implements backend.Backend. The Messages API has no ping
// endpoint, so the verdict is based on credential presence; request
// failures still surface per message as model_unavailable.
func (b *Backend) Availability(ctx context.Context) backend.Availability {
	if b.opts.APIKey == "" && os.Getenv("ANTHROPIC_API_KEY") == "" {
		return backend.Availability{Available: false, Reason: "anthropic api key not configured"}
	}
	return backend.Availability{Available: true}
}

// Open implements backend.Backend. Establishing a conversation is local:
// the Messages API is stateless, so state lives in the handle's history.
func (b *Backend) Open(ctx context.Context, instructions string) (backend.Conversation, error) {
	return &conversation{backend: b, instructions: instructions}, nil
}

type conversation struct {
	backend      *Backend
	instructions string
	history      []anthropic.MessageParam
}

// Generate implements backend.Conversation.
func (c *conversation) Generate(ctx context.Context, prompt, content string, format core.OutputFormat) (core.Result, error) {
	user := fmt.Sprintf("%s\n\n%s\n\n%s", prompt, content, backend.FormatDirective(format))
	messages := append(append([]anthropic.MessageParam{}, c.history...),
		anthropic.NewUserMessage(anthropic.NewTextBlock(user)))

	params := anthropic.MessageNewParams{
		Model:       c.backend.opts.Model,
		Messages:    messages,
		MaxTokens:   c.backend.opts.MaxTokens,
		Temperature: anthropic.Float(c.backend.opts.Temperature),
	}
	if c.instructions != "" {
		params.System = []anthropic.TextBlockParam{{Text: c.instructions}}
	}

	resp, err := c.backend.client.Messages.New(ctx, params)
	if err != nil {
		return core.Result{}, fmt.Errorf("%w: anthropic api error: %v", backend.ErrUnavailable, err)
	}
	if string(resp.StopReason) == "refusal" {
		return core.Result{}, fmt.Errorf("%w: anthropic refusal stop reason", backend.ErrGuardrailBlocked)
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.AsText().Text
		}
	}

	c.history = append(c.history,
		anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		anthropic.NewAssistantMessage(anthropic.NewTextBlock(text)))

	return backend.DecodeResult(text, format), nil
}

// Close implements backend.Conversation. History is process-local; there
// is nothing to release provider-side.
func (c *conversation) Close() error {
	c.history = nil
	return nil
}
