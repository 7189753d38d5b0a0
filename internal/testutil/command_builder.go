package testutil

import "encoding/json"

// CommandBuilder provides a fluent helper for constructing raw command
// lines in tests.
// Example:
//
//	line := NewCommand("message").Session(id).Prompt("summarize").Content(body).Format("text").Line()
//
// Chain only the fields you need; absent fields stay off the wire so
// validation paths can be exercised precisely.
type CommandBuilder struct {
	fields map[string]any
}

// NewCommand creates a builder for the given command kind.
func NewCommand(kind string) *CommandBuilder {
	return &CommandBuilder{fields: map[string]any{"command": kind}}
}

// Session sets the session_id field (chainable).
func (b *CommandBuilder) Session(id string) *CommandBuilder {
	b.fields["session_id"] = id
	return b
}

// Instructions sets the instructions field (chainable).
func (b *CommandBuilder) Instructions(s string) *CommandBuilder {
	b.fields["instructions"] = s
	return b
}

// Prompt sets the prompt field (chainable).
func (b *CommandBuilder) Prompt(s string) *CommandBuilder {
	b.fields["prompt"] = s
	return b
}

// Content sets the content field (chainable).
func (b *CommandBuilder) Content(s string) *CommandBuilder {
	b.fields["content"] = s
	return b
}

// Format sets the output_format field (chainable).
func (b *CommandBuilder) Format(s string) *CommandBuilder {
	b.fields["output_format"] = s
	return b
}

// Set assigns an arbitrary field, for lines that deliberately deviate
// from the protocol shape (chainable).
func (b *CommandBuilder) Set(key string, value any) *CommandBuilder {
	b.fields[key] = value
	return b
}

// Line serializes the command as a single JSON line without a trailing
// newline.
func (b *CommandBuilder) Line() string {
	data, err := json.Marshal(b.fields)
	if err != nil {
		panic(err) // maps of marshalable values cannot fail
	}
	return string(data)
}
