package backend

import (
	"context"
	"fmt"
	"sync"

	"github.com/intellikit/intellikit/core"
)

// MockBackend is a lightweight in-memory Backend useful for tests and
// for running the sidecar without any provider credentials. Responses
// are keyed by prompt; unknown prompts get a deterministic echo.
type MockBackend struct {
	mu           sync.Mutex
	availability Availability
	responses    map[string]core.Result
	openErr      error
	generateErr  error
	opened       int
	closed       int
	lastContent  string
}

// NewMockBackend constructs an available MockBackend with no canned
// responses.
func NewMockBackend() *MockBackend {
	return &MockBackend{
		availability: Availability{Available: true},
		responses:    make(map[string]core.Result),
	}
}

// SetAvailability overrides the readiness verdict.
func (m *MockBackend) SetAvailability(av Availability) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.availability = av
}

// AddResponse registers a deterministic canned result for a prompt.
func (m *MockBackend) AddResponse(prompt string, res core.Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[prompt] = res
}

// FailOpen makes subsequent Open calls fail with err.
func (m *MockBackend) FailOpen(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.openErr = err
}

// FailGenerate makes subsequent Generate calls fail with err.
func (m *MockBackend) FailGenerate(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generateErr = err
}

// OpenCount returns how many conversations were established.
func (m *MockBackend) OpenCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opened
}

// ClosedCount returns how many conversations were released.
func (m *MockBackend) ClosedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Availability implements Backend.
func (m *MockBackend) Availability(ctx context.Context) Availability {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.availability
}

// Open implements Backend.
func (m *MockBackend) Open(ctx context.Context, instructions string) (Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.openErr != nil {
		return nil, m.openErr
	}
	m.opened++
	return &mockConversation{backend: m, instructions: instructions}, nil
}

// LastContent exposes the content passed to the most recent Generate on
// any conversation, letting tests observe truncation without a real
// provider.
func (m *MockBackend) LastContent() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastContent
}

type mockConversation struct {
	backend      *MockBackend
	instructions string
}

func (c *mockConversation) Generate(ctx context.Context, prompt, content string, format core.OutputFormat) (core.Result, error) {
	c.backend.mu.Lock()
	defer c.backend.mu.Unlock()
	c.backend.lastContent = content
	if c.backend.generateErr != nil {
		return core.Result{}, c.backend.generateErr
	}
	if res, ok := c.backend.responses[prompt]; ok {
		return res, nil
	}
	if format == core.FormatStringList {
		return core.StringListResult([]string{prompt}), nil
	}
	return core.TextResult(fmt.Sprintf("mock response to: %s", prompt)), nil
}

func (c *mockConversation) Close() error {
	c.backend.mu.Lock()
	defer c.backend.mu.Unlock()
	c.backend.closed++
	return nil
}
