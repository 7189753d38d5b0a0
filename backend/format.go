package backend

import (
	"encoding/json"
	"strings"

	"github.com/intellikit/intellikit/core"
)

// FormatDirective returns the instruction suffix adapters append to a
// prompt so remote models emit the declared output shape. Providers
// without native structured output rely on it plus DecodeResult.
func FormatDirective(format core.OutputFormat) string {
	switch format {
	case core.FormatStringList:
		return "Respond with a JSON array of strings and nothing else."
	default:
		return "Respond with plain text only."
	}
}

// DecodeResult turns raw model text into a typed core.Result for the
// declared output shape. For string_list it first tries strict JSON
// (tolerating a fenced code block), then falls back to one item per
// bulleted or plain line. It never fails on shape alone; an empty model
// reply decodes to an empty result.
func DecodeResult(text string, format core.OutputFormat) core.Result {
	if format == core.FormatText {
		return core.TextResult(strings.TrimSpace(text))
	}

	raw := strings.TrimSpace(stripCodeFence(text))
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err == nil {
		return core.StringListResult(items)
	}

	items = items[:0]
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*• \t")
		line = strings.TrimSuffix(line, ",")
		line = strings.Trim(line, `"`)
		if line == "" || line == "[" || line == "]" {
			continue
		}
		items = append(items, line)
	}
	return core.StringListResult(items)
}

// stripCodeFence removes a surrounding markdown code fence, with or
// without a language tag.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
