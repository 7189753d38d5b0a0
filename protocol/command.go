package protocol

import (
	"encoding/json"

	"github.com/intellikit/intellikit/core"
)

// wireCommand mirrors the raw JSON shape of an incoming command line.
// All fields beyond the kind are optional at parse time; per-command
// presence rules are enforced later so error codes stay specific.
type wireCommand struct {
	Command      string `json:"command"`
	SessionID    string `json:"session_id"`
	Instructions string `json:"instructions"`
	Prompt       string `json:"prompt"`
	Content      string `json:"content"`
	OutputFormat string `json:"output_format"`
}

// Parse decodes a single payload into a core.Command. A payload that is
// not a JSON object yields invalid_json; a JSON object whose command
// kind is outside the closed set yields unknown_command. Field-level
// validation is deliberately left to the dispatch layer.
func Parse(line []byte) (core.Command, *core.CodeError) {
	var wire wireCommand
	if err := json.Unmarshal(line, &wire); err != nil {
		return core.Command{}, core.WrapCode(core.CodeInvalidJSON, err)
	}

	kind := core.Kind(wire.Command)
	if !core.KnownKind(kind) {
		return core.Command{}, core.NewCodeError(core.CodeUnknownCommand)
	}

	return core.Command{
		Kind:         kind,
		SessionID:    wire.SessionID,
		Instructions: wire.Instructions,
		Prompt:       wire.Prompt,
		Content:      wire.Content,
		OutputFormat: wire.OutputFormat,
	}, nil
}
