package testutil

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
	"testing"
)

// Script joins command lines into a newline-delimited input stream.
func Script(lines ...string) io.Reader {
	return strings.NewReader(strings.Join(lines, "\n") + "\n")
}

// WireResponse mirrors the response envelope as seen on the wire, with
// the result field kept raw so tests can assert its exact JSON shape.
type WireResponse struct {
	OK        bool            `json:"ok"`
	SessionID string          `json:"session_id"`
	Result    json.RawMessage `json:"result"`
	Available *bool           `json:"available"`
	Reason    string          `json:"reason"`
	Error     string          `json:"error"`
}

// DecodeResponses reads every response line from r. A line that fails to
// decode fails the test immediately: the output stream must carry
// nothing but response envelopes.
func DecodeResponses(t *testing.T, r io.Reader) []WireResponse {
	t.Helper()
	var responses []WireResponse
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var resp WireResponse
		if err := json.Unmarshal([]byte(line), &resp); err != nil {
			t.Fatalf("non-envelope output line %q: %v", line, err)
		}
		responses = append(responses, resp)
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan output: %v", err)
	}
	return responses
}
