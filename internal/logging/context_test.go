package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"trackdig/internal/services"
)

func TestWithContextCarriesRunAnnotations(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	ctx := services.WithRunID(context.Background(), "run-123")
	ctx = services.WithSource(ctx, "beatport")
	ctx = services.WithPhase(ctx, "searching")

	WithContext(ctx, base).Info("source collected")

	out := buf.String()
	for _, want := range []string{`"run_id":"run-123"`, `"source":"beatport"`, `"phase":"searching"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output missing %s:\n%s", want, out)
		}
	}
}

func TestWithContextWithoutAnnotationsReturnsBaseLogger(t *testing.T) {
	base := NewNop()
	if got := WithContext(context.Background(), base); got != base {
		t.Fatal("an unannotated context must not allocate a derived logger")
	}
}

func TestContextFieldsSkipsEmptyValues(t *testing.T) {
	ctx := services.WithRunID(context.Background(), "run-9")
	fields := ContextFields(ctx)
	if len(fields) != 1 {
		t.Fatalf("expected only run_id, got %v", fields)
	}
	if fields[0].Key != FieldRunID {
		t.Fatalf("key = %q", fields[0].Key)
	}
}
