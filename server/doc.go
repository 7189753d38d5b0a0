// Package server wires the protocol framer, the command executor and the
// session table into the sidecar's request loop. The loop is strictly
// sequential: one command is read, dispatched and answered before the
// next is read, so response order always matches request order. The only
// concurrency is the session idle sweep, which runs alongside the loop
// and shares nothing with it except the session manager's mutex.
//
// The dispatch path is a crash boundary: a panic inside any handler is
// recovered, logged with a stack trace to stderr, and answered with an
// internal_error envelope. The loop itself never terminates on a bad
// command; it stops only on a shutdown command, end of input, or context
// cancellation.
package server
