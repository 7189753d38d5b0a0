// Package protocol implements the wire layer of the NDJSON command
// protocol: a Framer that reads one newline-terminated payload at a time
// and writes one flushed JSON response per line, plus the parser that
// turns raw payloads into core.Command values. The Framer is the only
// component allowed to touch the raw input/output channels; diagnostics
// never pass through it, keeping the output a pure response stream.
package protocol
