// Package intellikit provides a high-level façade over the sidecar's
// server, session and backend abstractions. Most applications interact
// with this package by:
//  1. Creating a Sidecar via New() (optionally overriding the backend,
//     streams and logger)
//  2. Calling Serve() with a context, which processes commands on the
//     input stream until shutdown, end of input or cancellation
//
// The façade delegates the request loop to server.Server while keeping
// setup ergonomics concise. All defaults are safe for local development
// and testing; production deployments supply a real provider backend and
// a structured logger.
package intellikit

import (
	"context"
	"io"
	"time"

	"github.com/intellikit/intellikit/backend"
	"github.com/intellikit/intellikit/logging"
	"github.com/intellikit/intellikit/server"
	"github.com/intellikit/intellikit/session"
)

// Options configures the Sidecar instance.
type Options struct {
	// Input is the command stream (defaults to stdin).
	Input io.Reader

	// Output is the response stream (defaults to stdout). It carries
	// response envelopes and nothing else.
	Output io.Writer

	// Backend is the generation capability (defaults to the in-memory
	// mock so the sidecar runs without credentials).
	Backend backend.Backend

	// IdleTimeout is how long a session may sit idle before eviction.
	IdleTimeout time.Duration

	// SweepInterval is how often the idle sweep scans the session table.
	SweepInterval time.Duration

	// MaxContentChars caps message content length; longer content is
	// silently truncated before reaching the backend.
	MaxContentChars int

	// Logger (defaults to NoOp logger if nil). Diagnostics go to the
	// logger only, never to Output.
	Logger logging.Logger
}

// Sidecar is the high-level façade aggregating the request loop and its
// session table.
type Sidecar struct {
	opts Options
	srv  *server.Server
}

// New creates a new Sidecar instance with optional overrides.
func New(optFns ...func(o *Options)) *Sidecar {
	opts := Options{
		IdleTimeout:     session.DefaultIdleTimeout,
		SweepInterval:   session.DefaultSweepInterval,
		MaxContentChars: server.DefaultMaxContentChars,
		Logger:          logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	srv := server.New(func(o *server.Options) {
		if opts.Input != nil {
			o.Input = opts.Input
		}
		if opts.Output != nil {
			o.Output = opts.Output
		}
		o.Backend = opts.Backend
		o.Logger = opts.Logger
		o.IdleTimeout = opts.IdleTimeout
		o.SweepInterval = opts.SweepInterval
		o.MaxContentChars = opts.MaxContentChars
	})

	return &Sidecar{opts: opts, srv: srv}
}

// Serve processes commands until a shutdown command, end of input, or
// context cancellation. It returns nil for every orderly stop.
func (s *Sidecar) Serve(ctx context.Context) error {
	return s.srv.Run(ctx)
}
