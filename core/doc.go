// Package core provides the foundational domain types for IntelliKit. It
// defines the core abstractions for:
//
//   - Commands (the closed set of protocol requests and their fields)
//   - Output shapes (the declared structure of a generated result)
//   - Results (typed generation outcomes marshalled to the wire form)
//   - Error codes (the stable machine-readable failure vocabulary)
//
// The package intentionally keeps implementation concerns (framing,
// session bookkeeping, backend adapters) out of scope, exposing small
// value types so higher layers stay decoupled from one another.
package core
