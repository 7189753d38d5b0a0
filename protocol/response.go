package protocol

import "github.com/intellikit/intellikit/core"

// Response is the envelope written back for every command: a success
// carrying kind-specific fields, or a failure carrying a stable error
// code. One response per command, in request order.
type Response struct {
	OK        bool         `json:"ok"`
	SessionID string       `json:"session_id,omitempty"`
	Result    *core.Result `json:"result,omitempty"`
	Available *bool        `json:"available,omitempty"`
	Reason    string       `json:"reason,omitempty"`
	Error     string       `json:"error,omitempty"`
}

// Success returns the bare {ok:true} envelope used by close-session and
// shutdown.
func Success() Response { return Response{OK: true} }

// SessionOpened returns the open-session success envelope.
func SessionOpened(id string) Response { return Response{OK: true, SessionID: id} }

// MessageResult returns the message success envelope carrying a typed
// generation result.
func MessageResult(res core.Result) Response { return Response{OK: true, Result: &res} }

// AvailabilityResult returns the check-availability success envelope.
// The verdict itself is carried in the available/reason fields; the
// envelope is ok:true even when the backend is unavailable.
func AvailabilityResult(available bool, reason string) Response {
	return Response{OK: true, Available: &available, Reason: reason}
}

// Failure returns the {ok:false, error:code} envelope.
func Failure(code core.Code) Response { return Response{OK: false, Error: string(code)} }
