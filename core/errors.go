package core

import "errors"

// Code is a stable machine-readable error code surfaced on the wire in
// failure envelopes. Codes never change meaning between releases; the
// parent process branches on them.
type Code string

const (
	// CodeInvalidJSON marks a line that is not a valid JSON object.
	CodeInvalidJSON Code = "invalid_json"
	// CodeUnknownCommand marks a command kind outside the closed set.
	CodeUnknownCommand Code = "unknown_command"
	// CodeSessionIDRequired marks a command missing its session_id.
	CodeSessionIDRequired Code = "session_id_required"
	// CodeSessionNotFound marks a reference to a session id that was
	// never opened, already closed, or evicted.
	CodeSessionNotFound Code = "session_not_found"
	// CodePromptRequired marks a message without a prompt.
	CodePromptRequired Code = "prompt_required"
	// CodeContentRequired marks a message without content.
	CodeContentRequired Code = "content_required"
	// CodeOutputFormatRequired marks a message without an output format.
	CodeOutputFormatRequired Code = "output_format_required"
	// CodeUnknownOutputFormat marks an unrecognized output format value.
	CodeUnknownOutputFormat Code = "unknown_output_format"
	// CodeGuardrailBlocked marks a content-safety rejection by the backend.
	CodeGuardrailBlocked Code = "guardrail_blocked"
	// CodeModelUnavailable marks a backend that cannot produce a result.
	CodeModelUnavailable Code = "model_unavailable"
	// CodeInternalError marks an unexpected fault caught at the crash
	// boundary. It appears in no per-command table.
	CodeInternalError Code = "internal_error"
)

// CodeError couples a wire error code with an optional underlying cause.
// The cause is diagnostic only and never leaves the process; the wire
// carries just the code.
type CodeError struct {
	Code Code
	Err  error
}

// Error implements the error interface.
func (e *CodeError) Error() string {
	if e.Err != nil {
		return string(e.Code) + ": " + e.Err.Error()
	}
	return string(e.Code)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As.
func (e *CodeError) Unwrap() error { return e.Err }

// NewCodeError returns a CodeError carrying only a code.
func NewCodeError(code Code) *CodeError { return &CodeError{Code: code} }

// WrapCode attaches a wire code to an underlying error.
func WrapCode(code Code, err error) *CodeError { return &CodeError{Code: code, Err: err} }

// CodeFromError extracts the wire code from err, falling back to
// internal_error for faults no layer classified.
func CodeFromError(err error) Code {
	var ce *CodeError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return CodeInternalError
}
