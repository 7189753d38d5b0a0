package backend

import (
	"context"
	"errors"
	"testing"

	"github.com/intellikit/intellikit/core"
)

func TestMockBackend_CannedAndDefaultResponses(t *testing.T) {
	ctx := context.Background()
	m := NewMockBackend()
	m.AddResponse("tags", core.StringListResult([]string{"go"}))

	conv, err := m.Open(ctx, "be terse")
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	res, err := conv.Generate(ctx, "tags", "body", core.FormatStringList)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(res.List) != 1 || res.List[0] != "go" {
		t.Errorf("canned response not returned: %+v", res)
	}

	res, err = conv.Generate(ctx, "unseen", "body", core.FormatText)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if res.Text == "" {
		t.Error("default text response should not be empty")
	}
	if m.LastContent() != "body" {
		t.Errorf("LastContent = %q", m.LastContent())
	}
}

func TestMockBackend_FailureModesAndCounters(t *testing.T) {
	ctx := context.Background()
	m := NewMockBackend()

	conv, err := m.Open(ctx, "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	m.FailGenerate(ErrGuardrailBlocked)
	if _, err := conv.Generate(ctx, "p", "c", core.FormatText); !errors.Is(err, ErrGuardrailBlocked) {
		t.Errorf("expected guardrail error, got %v", err)
	}

	m.FailOpen(ErrUnavailable)
	if _, err := m.Open(ctx, ""); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected unavailable error, got %v", err)
	}

	if err := conv.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if m.OpenCount() != 1 || m.ClosedCount() != 1 {
		t.Errorf("counters: opened=%d closed=%d", m.OpenCount(), m.ClosedCount())
	}
}
