package server

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intellikit/intellikit/backend"
	"github.com/intellikit/intellikit/core"
	"github.com/intellikit/intellikit/logging"
	"github.com/intellikit/intellikit/session"
)

func newTestExecutor(t *testing.T, mock *backend.MockBackend) *Executor {
	t.Helper()
	sessions := session.NewManager(mock)
	return NewExecutor(mock, sessions, logging.NoOpLogger{}, DefaultMaxContentChars)
}

func openSession(t *testing.T, e *Executor) string {
	t.Helper()
	resp := e.OpenSession(context.Background(), core.Command{Kind: core.KindOpenSession})
	require.True(t, resp.OK)
	require.NotEmpty(t, resp.SessionID)
	return resp.SessionID
}

func messageCmd(sessionID, prompt, content, format string) core.Command {
	return core.Command{
		Kind:         core.KindMessage,
		SessionID:    sessionID,
		Prompt:       prompt,
		Content:      content,
		OutputFormat: format,
	}
}

func TestExecutor_MessageValidationOrder(t *testing.T) {
	mock := backend.NewMockBackend()
	e := newTestExecutor(t, mock)
	id := openSession(t, e)

	tests := []struct {
		name string
		cmd  core.Command
		code core.Code
	}{
		{"missing session id", messageCmd("", "p", "c", "text"), core.CodeSessionIDRequired},
		{"missing prompt", messageCmd(id, "", "c", "text"), core.CodePromptRequired},
		{"missing content", messageCmd(id, "p", "", "text"), core.CodeContentRequired},
		{"missing format", messageCmd(id, "p", "c", ""), core.CodeOutputFormatRequired},
		{"unknown format", messageCmd(id, "p", "c", "xml"), core.CodeUnknownOutputFormat},
		{"unknown session after validation", messageCmd("ghost", "p", "c", "text"), core.CodeSessionNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := e.Message(context.Background(), tt.cmd)
			assert.False(t, resp.OK)
			assert.Equal(t, string(tt.code), resp.Error)
		})
	}

	// Field validation fires before the session lookup: a malformed
	// message against an unknown session reports the field error.
	resp := e.Message(context.Background(), messageCmd("ghost", "", "c", "text"))
	assert.Equal(t, string(core.CodePromptRequired), resp.Error)

	// None of the rejected messages reached the backend.
	assert.Empty(t, mock.LastContent())
}

func TestExecutor_MessageText(t *testing.T) {
	mock := backend.NewMockBackend()
	mock.AddResponse("summarize", core.TextResult("a short summary"))
	e := newTestExecutor(t, mock)
	id := openSession(t, e)

	resp := e.Message(context.Background(), messageCmd(id, "summarize", "long document", "text"))
	require.True(t, resp.OK)
	require.NotNil(t, resp.Result)
	assert.Equal(t, core.FormatText, resp.Result.Format)
	assert.Equal(t, "a short summary", resp.Result.Text)
}

func TestExecutor_MessageStringList(t *testing.T) {
	mock := backend.NewMockBackend()
	mock.AddResponse("list topics", core.StringListResult([]string{"go", "sidecars"}))
	e := newTestExecutor(t, mock)
	id := openSession(t, e)

	resp := e.Message(context.Background(), messageCmd(id, "list topics", "long document", "string_list"))
	require.True(t, resp.OK)
	require.NotNil(t, resp.Result)
	assert.Equal(t, []string{"go", "sidecars"}, resp.Result.List)
}

func TestExecutor_MessageTruncatesContent(t *testing.T) {
	mock := backend.NewMockBackend()
	sessions := session.NewManager(mock)
	e := NewExecutor(mock, sessions, logging.NoOpLogger{}, 5)
	id := openSession(t, e)

	resp := e.Message(context.Background(), messageCmd(id, "p", "hello there", "text"))
	require.True(t, resp.OK)
	assert.Equal(t, "hello", mock.LastContent())
}

func TestExecutor_TruncationKeepsRunesIntact(t *testing.T) {
	mock := backend.NewMockBackend()
	sessions := session.NewManager(mock)
	e := NewExecutor(mock, sessions, logging.NoOpLogger{}, 3)
	id := openSession(t, e)

	resp := e.Message(context.Background(), messageCmd(id, "p", "日本語テキスト", "text"))
	require.True(t, resp.OK)
	assert.Equal(t, "日本語", mock.LastContent())
}

func TestExecutor_MessageUnderLimitUntouched(t *testing.T) {
	mock := backend.NewMockBackend()
	e := newTestExecutor(t, mock)
	id := openSession(t, e)

	content := strings.Repeat("x", DefaultMaxContentChars)
	resp := e.Message(context.Background(), messageCmd(id, "p", content, "text"))
	require.True(t, resp.OK)
	assert.Equal(t, content, mock.LastContent())
}

func TestExecutor_MessageGuardrailBlocked(t *testing.T) {
	mock := backend.NewMockBackend()
	mock.FailGenerate(fmt.Errorf("%w: provider refused", backend.ErrGuardrailBlocked))
	e := newTestExecutor(t, mock)
	id := openSession(t, e)

	resp := e.Message(context.Background(), messageCmd(id, "p", "c", "text"))
	assert.False(t, resp.OK)
	assert.Equal(t, string(core.CodeGuardrailBlocked), resp.Error)
}

func TestExecutor_MessageBackendFailure(t *testing.T) {
	mock := backend.NewMockBackend()
	mock.FailGenerate(errors.New("connection reset"))
	e := newTestExecutor(t, mock)
	id := openSession(t, e)

	resp := e.Message(context.Background(), messageCmd(id, "p", "c", "text"))
	assert.False(t, resp.OK)
	assert.Equal(t, string(core.CodeModelUnavailable), resp.Error)

	// The session survives a failed generation.
	resp = e.CloseSession(core.Command{Kind: core.KindCloseSession, SessionID: id})
	assert.True(t, resp.OK)
}

func TestExecutor_SessionsAreIndependent(t *testing.T) {
	mock := backend.NewMockBackend()
	e := newTestExecutor(t, mock)
	first := openSession(t, e)
	second := openSession(t, e)
	require.NotEqual(t, first, second)

	resp := e.CloseSession(core.Command{Kind: core.KindCloseSession, SessionID: first})
	require.True(t, resp.OK)

	// The surviving session still serves messages.
	resp = e.Message(context.Background(), messageCmd(second, "p", "c", "text"))
	assert.True(t, resp.OK)

	resp = e.Message(context.Background(), messageCmd(first, "p", "c", "text"))
	assert.Equal(t, string(core.CodeSessionNotFound), resp.Error)
}

func TestExecutor_MessagesReuseOneConversation(t *testing.T) {
	mock := backend.NewMockBackend()
	e := newTestExecutor(t, mock)
	id := openSession(t, e)

	for i := 0; i < 3; i++ {
		resp := e.Message(context.Background(), messageCmd(id, "p", "c", "text"))
		require.True(t, resp.OK)
	}
	assert.Equal(t, 1, mock.OpenCount(), "one conversation per session")
}

func TestExecutor_OpenSessionBackendFailure(t *testing.T) {
	mock := backend.NewMockBackend()
	mock.FailOpen(errors.New("no capacity"))
	e := newTestExecutor(t, mock)

	resp := e.OpenSession(context.Background(), core.Command{Kind: core.KindOpenSession})
	assert.False(t, resp.OK)
	assert.Equal(t, string(core.CodeModelUnavailable), resp.Error)
}

func TestExecutor_CloseSession(t *testing.T) {
	e := newTestExecutor(t, backend.NewMockBackend())
	id := openSession(t, e)

	resp := e.CloseSession(core.Command{Kind: core.KindCloseSession, SessionID: id})
	assert.True(t, resp.OK)

	resp = e.CloseSession(core.Command{Kind: core.KindCloseSession, SessionID: id})
	assert.Equal(t, string(core.CodeSessionNotFound), resp.Error)

	resp = e.CloseSession(core.Command{Kind: core.KindCloseSession})
	assert.Equal(t, string(core.CodeSessionIDRequired), resp.Error)
}

func TestExecutor_ShutdownClosesAllSessions(t *testing.T) {
	mock := backend.NewMockBackend()
	e := newTestExecutor(t, mock)
	openSession(t, e)
	openSession(t, e)

	resp := e.Shutdown()
	assert.True(t, resp.OK)
	assert.Equal(t, 2, mock.ClosedCount())
	assert.Equal(t, 0, e.sessions.Len())
}

func TestExecutor_CheckAvailability(t *testing.T) {
	mock := backend.NewMockBackend()
	e := newTestExecutor(t, mock)

	resp := e.CheckAvailability(context.Background())
	require.True(t, resp.OK)
	require.NotNil(t, resp.Available)
	assert.True(t, *resp.Available)

	mock.SetAvailability(backend.Availability{Available: false, Reason: "maintenance"})
	resp = e.CheckAvailability(context.Background())
	require.True(t, resp.OK)
	require.NotNil(t, resp.Available)
	assert.False(t, *resp.Available)
	assert.Equal(t, "maintenance", resp.Reason)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in      string
		max     int
		want    string
		dropped int
	}{
		{"hello", 10, "hello", 0},
		{"hello", 5, "hello", 0},
		{"hello", 3, "hel", 2},
		{"hello", 0, "hello", 0},
		{"héllo", 2, "hé", 3},
		{"", 5, "", 0},
	}
	for _, tt := range tests {
		got, dropped := truncate(tt.in, tt.max)
		assert.Equal(t, tt.want, got, "truncate(%q, %d)", tt.in, tt.max)
		assert.Equal(t, tt.dropped, dropped, "dropped for truncate(%q, %d)", tt.in, tt.max)
	}
}
