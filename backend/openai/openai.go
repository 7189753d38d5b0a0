// Package openai provides a backend adapter for the OpenAI Chat
// Completions API. It mirrors the anthropic adapter: per-conversation
// message history, shape-constrained prompting, and mapping of the
// content_filter finish reason onto the guardrail error.
package openai

import (
	"context"
	"fmt"
	"os"

	"github.com/intellikit/intellikit/backend"
	"github.com/intellikit/intellikit/core"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Options configure the OpenAI backend adapter. Fields mirror a subset
// of Chat Completion parameters intentionally kept minimal.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
	APIKey              string
}

// Backend wraps the OpenAI Chat Completions API behind the generic
// backend.Backend interface.
type Backend struct {
	client *openai.Client
	opts   Options
}

// NewBackend creates a new OpenAI backend using the official client.
func NewBackend(optFns ...func(o *Options)) *Backend {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 1024,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := openai.NewClient(clientOpts...)

	return &Backend{client: &client, opts: opts}
}

// NewBackendFromClient creates a new OpenAI backend from an existing client.
func NewBackendFromClient(client *openai.Client, optFns ...func(o *Options)) *Backend {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 1024,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Backend{client: client, opts: opts}
}

// Availability implements backend.Backend.
func (b *Backend) Availability(ctx context.Context) backend.Availability {
	if b.opts.APIKey == "" && os.Getenv("OPENAI_API_KEY") == "" {
		return backend.Availability{Available: false, Reason: "openai api key not configured"}
	}
	return backend.Availability{Available: true}
}

// Open implements backend.Backend.
func (b *Backend) Open(ctx context.Context, instructions string) (backend.Conversation, error) {
	return &conversation{backend: b, instructions: instructions}, nil
}

type conversation struct {
	backend      *Backend
	instructions string
	history      []openai.ChatCompletionMessageParamUnion
}

// Generate implements backend.Conversation.
func (c *conversation) Generate(ctx context.Context, prompt, content string, format core.OutputFormat) (core.Result, error) {
	user := fmt.Sprintf("%s\n\n%s\n\n%s", prompt, content, backend.FormatDirective(format))

	var messages []openai.ChatCompletionMessageParamUnion
	if c.instructions != "" {
		messages = append(messages, openai.SystemMessage(c.instructions))
	}
	messages = append(messages, c.history...)
	messages = append(messages, openai.UserMessage(user))

	params := openai.ChatCompletionNewParams{
		Messages:            messages,
		Model:               c.backend.opts.Model,
		Temperature:         openai.Float(c.backend.opts.Temperature),
		MaxCompletionTokens: openai.Int(c.backend.opts.MaxCompletionTokens),
	}

	resp, err := c.backend.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return core.Result{}, fmt.Errorf("%w: openai api error: %v", backend.ErrUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return core.Result{}, fmt.Errorf("%w: no choices returned", backend.ErrUnavailable)
	}

	ch0 := resp.Choices[0]
	if ch0.FinishReason == "content_filter" {
		return core.Result{}, fmt.Errorf("%w: openai content filter", backend.ErrGuardrailBlocked)
	}

	text := ch0.Message.Content
	c.history = append(c.history, openai.UserMessage(user), openai.AssistantMessage(text))

	return backend.DecodeResult(text, format), nil
}

// Close implements backend.Conversation.
func (c *conversation) Close() error {
	c.history = nil
	return nil
}
