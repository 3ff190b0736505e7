package observability

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNopTracer(t *testing.T) {
	tracer := NopTracer()
	ctx := context.Background()
	ctx2, span := tracer.StartSpan(ctx, "test")
	if ctx2 != ctx {
		t.Fatalf("nop tracer should return same context")
	}
	span.SetTag("key", "value")
	span.SetError(nil)
	span.Finish()
}

func TestSlogLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	logger.Info("detected",
		String("engine", "tesseract"),
		Int("chars", 42),
		Float64("confidence", 0.91))

	out := buf.String()
	for _, want := range []string{"detected", "engine=tesseract", "chars=42", "confidence=0.91"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in output: %s", want, out)
		}
	}
}

func TestSlogLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	logger.With(String("code", "001")).Warn("fetch failed")
	if !strings.Contains(buf.String(), "code=001") {
		t.Fatalf("With fields not carried: %s", buf.String())
	}
}
