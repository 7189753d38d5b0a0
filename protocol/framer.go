package protocol

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Framer owns the raw input and output channels. It splits input on
// newline boundaries and writes each response as a single JSON value
// followed by a newline, flushed immediately so the parent process can
// read it without buffering delay.
type Framer struct {
	r *bufio.Reader
	w *bufio.Writer
}

// NewFramer wraps the given channels. Neither reader nor writer is
// closed by the Framer; lifetime belongs to the caller.
func NewFramer(r io.Reader, w io.Writer) *Framer {
	return &Framer{r: bufio.NewReader(r), w: bufio.NewWriter(w)}
}

// ReadLine returns the next non-blank payload without its line
// terminator. Blank lines (empty or whitespace only) produce no payload
// and are silently skipped. Returns io.EOF once input is exhausted; a
// final line without a trailing newline is still delivered.
func (f *Framer) ReadLine() ([]byte, error) {
	for {
		line, err := f.r.ReadBytes('\n')
		payload := bytes.TrimSpace(line)
		if len(payload) > 0 {
			return payload, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// WriteResponse serializes resp onto the output channel as one line and
// flushes. A marshalling or write failure is returned to the caller; it
// indicates the output channel itself is unusable, not a protocol error.
func (f *Framer) WriteResponse(resp Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}
	if _, err := f.w.Write(data); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	if err := f.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("write response terminator: %w", err)
	}
	return f.w.Flush()
}
