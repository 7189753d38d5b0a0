package server

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/intellikit/intellikit/backend"
	"github.com/intellikit/intellikit/core"
	"github.com/intellikit/intellikit/logging"
	"github.com/intellikit/intellikit/protocol"
	"github.com/intellikit/intellikit/session"
)

// DefaultMaxContentChars is the per-message content ceiling. Content
// beyond it is truncated before reaching the backend.
const DefaultMaxContentChars = 10000

// Executor resolves parsed commands into response envelopes. It owns the
// per-command validation and the mapping of backend failures onto wire
// error codes; framing and ordering belong to the Server.
type Executor struct {
	backend         backend.Backend
	sessions        *session.Manager
	logger          logging.Logger
	maxContentChars int
}

// NewExecutor constructs an Executor. maxContentChars <= 0 disables
// truncation.
func NewExecutor(b backend.Backend, sessions *session.Manager, logger logging.Logger, maxContentChars int) *Executor {
	return &Executor{backend: b, sessions: sessions, logger: logger, maxContentChars: maxContentChars}
}

// CheckAvailability resolves a check-availability command. The verdict is
// always a success envelope; an unavailable or even panicking backend is
// reported as available:false, never as a command failure.
func (e *Executor) CheckAvailability(ctx context.Context) protocol.Response {
	av := e.availability(ctx)
	return protocol.AvailabilityResult(av.Available, av.Reason)
}

func (e *Executor) availability(ctx context.Context) (av backend.Availability) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("availability check panicked", "panic", r)
			av = backend.Availability{Available: false, Reason: "availability check failed"}
		}
	}()
	return e.backend.Availability(ctx)
}

// OpenSession resolves an open-session command.
func (e *Executor) OpenSession(ctx context.Context, cmd core.Command) protocol.Response {
	id, err := e.sessions.Open(ctx, cmd.Instructions)
	if err != nil {
		e.logger.Error("open session failed", "error", err)
		return protocol.Failure(core.CodeModelUnavailable)
	}
	return protocol.SessionOpened(id)
}

// Message resolves a message command. All field validation happens
// before the session lookup, so a malformed message leaves no trace: no
// activity refresh, no backend call.
func (e *Executor) Message(ctx context.Context, cmd core.Command) protocol.Response {
	if cmd.SessionID == "" {
		return protocol.Failure(core.CodeSessionIDRequired)
	}
	if cmd.Prompt == "" {
		return protocol.Failure(core.CodePromptRequired)
	}
	if cmd.Content == "" {
		return protocol.Failure(core.CodeContentRequired)
	}
	if cmd.OutputFormat == "" {
		return protocol.Failure(core.CodeOutputFormatRequired)
	}
	format, ok := core.ParseOutputFormat(cmd.OutputFormat)
	if !ok {
		return protocol.Failure(core.CodeUnknownOutputFormat)
	}

	sess, ok := e.sessions.Acquire(cmd.SessionID)
	if !ok {
		return protocol.Failure(core.CodeSessionNotFound)
	}
	defer e.sessions.Release(cmd.SessionID)

	content := cmd.Content
	if trimmed, dropped := truncate(content, e.maxContentChars); dropped > 0 {
		e.logger.Warn("content truncated",
			"session_id", cmd.SessionID,
			"max_chars", e.maxContentChars,
			"dropped_chars", dropped)
		content = trimmed
	}

	start := time.Now()
	res, err := sess.Conversation.Generate(ctx, cmd.Prompt, content, format)
	logging.LogGenerate(e.logger, string(format), utf8.RuneCountInString(content), time.Since(start), err)
	if err != nil {
		if errors.Is(err, backend.ErrGuardrailBlocked) {
			return protocol.Failure(core.CodeGuardrailBlocked)
		}
		return protocol.Failure(core.CodeModelUnavailable)
	}
	return protocol.MessageResult(res)
}

// CloseSession resolves a close-session command. Closing an unknown or
// already closed session reports session_not_found.
func (e *Executor) CloseSession(cmd core.Command) protocol.Response {
	if cmd.SessionID == "" {
		return protocol.Failure(core.CodeSessionIDRequired)
	}
	if !e.sessions.Close(cmd.SessionID) {
		return protocol.Failure(core.CodeSessionNotFound)
	}
	return protocol.Success()
}

// Shutdown resolves a shutdown command: every live session is closed and
// the success envelope is handed back for the Server to flush before the
// loop stops.
func (e *Executor) Shutdown() protocol.Response {
	n := e.sessions.CloseAll()
	e.logger.Info("shutdown requested", "sessions_closed", n)
	return protocol.Success()
}

// truncate cuts s to at most max characters, never splitting a rune. It
// returns the possibly shortened string and the number of characters
// dropped; max <= 0 means no limit.
func truncate(s string, max int) (string, int) {
	if max <= 0 {
		return s, 0
	}
	seen := 0
	for i := range s {
		if seen == max {
			return s[:i], utf8.RuneCountInString(s[i:])
		}
		seen++
	}
	return s, 0
}
