package backend

import (
	"context"
	"errors"

	"github.com/intellikit/intellikit/core"
)

// ErrUnavailable signals the backend is temporarily or permanently
// unable to produce a result. Adapters wrap provider failures with it so
// the dispatch layer can surface model_unavailable.
var ErrUnavailable = errors.New("backend unavailable")

// ErrGuardrailBlocked signals the backend refused to produce output for
// an input due to a content-safety policy.
var ErrGuardrailBlocked = errors.New("generation blocked by guardrail")

// Availability is a backend readiness verdict. Reason is best-effort
// human-readable context for an unavailable backend.
type Availability struct {
	Available bool
	Reason    string
}

// Backend is the opaque generation capability. Implementations must be
// safe for use from the request loop and the availability check; they
// never need to tolerate concurrent Generate calls on one conversation,
// since at most one command is in flight process-wide.
type Backend interface {
	// Availability reports whether the capability can currently serve
	// generation requests. It must not panic; internal failures collapse
	// to an unavailable verdict.
	Availability(ctx context.Context) Availability

	// Open establishes a fresh conversational handle, optionally seeded
	// with system instructions.
	Open(ctx context.Context, instructions string) (Conversation, error)
}

// Conversation is an established conversational handle. Generate
// constrains the backend to return exactly the declared output shape;
// Close releases provider-side resources.
type Conversation interface {
	Generate(ctx context.Context, prompt, content string, format core.OutputFormat) (core.Result, error)
	Close() error
}
