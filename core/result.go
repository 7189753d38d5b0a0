package core

import "encoding/json"

// OutputFormat is the declared constraint on the structure of a
// generated result. The wire values are fixed by the protocol's parent
// client and must not change.
type OutputFormat string

const (
	// FormatStringList constrains a result to a list of strings.
	FormatStringList OutputFormat = "string_list"
	// FormatText constrains a result to plain text.
	FormatText OutputFormat = "text"
)

// ParseOutputFormat maps a raw wire value onto an OutputFormat,
// reporting whether the value is recognized.
func ParseOutputFormat(s string) (OutputFormat, bool) {
	switch OutputFormat(s) {
	case FormatStringList:
		return FormatStringList, true
	case FormatText:
		return FormatText, true
	default:
		return "", false
	}
}

// Result is the typed outcome of a constrained generation: plain text or
// a list of strings, per the declared OutputFormat. Exactly one of the
// value fields is meaningful, selected by Format.
type Result struct {
	Format OutputFormat
	Text   string
	List   []string
}

// TextResult wraps plain text as a Result.
func TextResult(s string) Result { return Result{Format: FormatText, Text: s} }

// StringListResult wraps a list of strings as a Result.
func StringListResult(items []string) Result {
	return Result{Format: FormatStringList, List: items}
}

// MarshalJSON emits the raw wire shape: a JSON string for text results
// and a JSON array of strings for string_list results. An empty list
// marshals as [] rather than null so the parent can decode it uniformly.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Format == FormatStringList {
		if r.List == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(r.List)
	}
	return json.Marshal(r.Text)
}
