// Package session owns the session table: the only shared mutable state
// between the request-processing path and the idle-eviction sweep. All
// access goes through the Manager, whose mutex makes lookups, inserts,
// removals and the sweep mutually exclusive. Sessions never leave the
// Manager's ownership; the executor borrows one for the duration of a
// single message via Acquire/Release, which also pins it against
// eviction while a generation is in flight.
package session
