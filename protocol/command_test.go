package protocol

import (
	"testing"

	"github.com/intellikit/intellikit/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_InvalidJSON(t *testing.T) {
	for _, line := range []string{
		"not json at all",
		"{truncated",
		`"a bare string"`,
		`[1,2,3]`,
		`42`,
	} {
		_, perr := Parse([]byte(line))
		require.NotNil(t, perr, "line %q should fail to parse", line)
		assert.Equal(t, core.CodeInvalidJSON, perr.Code, "line %q", line)
	}
}

func TestParse_UnknownCommand(t *testing.T) {
	for _, line := range []string{
		`{"command":"reboot"}`,
		`{"command":""}`,
		`{"prompt":"no command field"}`,
	} {
		_, perr := Parse([]byte(line))
		require.NotNil(t, perr, "line %q", line)
		assert.Equal(t, core.CodeUnknownCommand, perr.Code, "line %q", line)
	}
}

func TestParse_MessageFields(t *testing.T) {
	cmd, perr := Parse([]byte(`{"command":"message","session_id":"s-1","prompt":"summarize","content":"body","output_format":"text"}`))
	require.Nil(t, perr)
	assert.Equal(t, core.KindMessage, cmd.Kind)
	assert.Equal(t, "s-1", cmd.SessionID)
	assert.Equal(t, "summarize", cmd.Prompt)
	assert.Equal(t, "body", cmd.Content)
	assert.Equal(t, "text", cmd.OutputFormat)
}

func TestParse_OptionalFieldsDefaultEmpty(t *testing.T) {
	cmd, perr := Parse([]byte(`{"command":"open-session"}`))
	require.Nil(t, perr)
	assert.Equal(t, core.KindOpenSession, cmd.Kind)
	assert.Empty(t, cmd.Instructions)

	cmd, perr = Parse([]byte(`{"command":"open-session","instructions":"be terse"}`))
	require.Nil(t, perr)
	assert.Equal(t, "be terse", cmd.Instructions)
}
