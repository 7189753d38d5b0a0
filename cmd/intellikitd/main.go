// Command intellikitd runs the generation sidecar. It speaks the
// line-delimited JSON protocol on stdin/stdout and writes all
// diagnostics to stderr; it is meant to be spawned and owned by a single
// parent process, not run interactively.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/intellikit/intellikit"
	"github.com/intellikit/intellikit/backend"
	anthropicbackend "github.com/intellikit/intellikit/backend/anthropic"
	openaibackend "github.com/intellikit/intellikit/backend/openai"
	"github.com/intellikit/intellikit/config"
	"github.com/intellikit/intellikit/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "intellikitd: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:     logging.ParseLevel(cfg.Logging.Level),
		Format:    cfg.Logging.Format,
		Output:    os.Stderr,
		Component: "intellikitd",
	})

	// SIGINT/SIGTERM cancel the context; the server closes every session
	// before returning.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sc := intellikit.New(func(o *intellikit.Options) {
		o.Backend = buildBackend(cfg)
		o.Logger = logger
		o.IdleTimeout = cfg.IdleTimeout
		o.SweepInterval = cfg.SweepInterval
		o.MaxContentChars = cfg.MaxContentChars
	})

	logger.Info("starting sidecar",
		"provider", cfg.Provider,
		"idle_timeout", cfg.IdleTimeout,
		"max_content_chars", cfg.MaxContentChars)

	if err := sc.Serve(ctx); err != nil {
		logger.Error("sidecar stopped with error", "error", err)
		os.Exit(1)
	}
}

func buildBackend(cfg config.Config) backend.Backend {
	switch cfg.Provider {
	case config.ProviderAnthropic:
		return anthropicbackend.NewBackend(func(o *anthropicbackend.Options) {
			if cfg.Anthropic.APIKey != "" {
				o.APIKey = cfg.Anthropic.APIKey
			}
			if cfg.Anthropic.Model != "" {
				o.Model = anthropic.Model(cfg.Anthropic.Model)
			}
		})
	case config.ProviderOpenAI:
		return openaibackend.NewBackend(func(o *openaibackend.Options) {
			if cfg.OpenAI.APIKey != "" {
				o.APIKey = cfg.OpenAI.APIKey
			}
			if cfg.OpenAI.Model != "" {
				o.Model = cfg.OpenAI.Model
			}
		})
	default:
		return backend.NewMockBackend()
	}
}
