package server

import (
	"context"
	"fmt"
	"time"

	"github.com/intellikit/intellikit/core"
	"github.com/intellikit/intellikit/logging"
	"github.com/intellikit/intellikit/protocol"
)

// Dispatch routes one parsed command to its handler and returns the
// response plus whether the request loop should stop. It is the crash
// boundary: a panic anywhere below is recovered into an internal_error
// envelope with the stack logged, and the loop keeps running.
func (e *Executor) Dispatch(ctx context.Context, cmd core.Command) (resp protocol.Response, stop bool) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			logging.ErrorWithStack(e.logger, fmt.Errorf("panic: %v", r),
				"command dispatch panicked", "command", string(cmd.Kind))
			resp = protocol.Failure(core.CodeInternalError)
			stop = false
		}
		logging.LogCommand(e.logger, string(cmd.Kind), time.Since(start), resp.OK, resp.Error)
	}()

	switch cmd.Kind {
	case core.KindCheckAvailability:
		return e.CheckAvailability(ctx), false
	case core.KindOpenSession:
		return e.OpenSession(ctx, cmd), false
	case core.KindMessage:
		return e.Message(ctx, cmd), false
	case core.KindCloseSession:
		return e.CloseSession(cmd), false
	case core.KindShutdown:
		return e.Shutdown(), true
	default:
		// Parse already rejects unknown kinds; this is unreachable unless
		// a caller bypasses it.
		return protocol.Failure(core.CodeUnknownCommand), false
	}
}
