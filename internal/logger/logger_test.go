package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"teamboard/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestLogger(t *testing.T) {
	t.Run("JSONAddsTraceContext", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.NewWithWriter(&buf, true)

		traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
		require.NoError(t, err)
		spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
		require.NoError(t, err)
		spanCtx := trace.NewSpanContext(trace.SpanContextConfig{
			TraceID:    traceID,
			SpanID:     spanID,
			TraceFlags: trace.FlagsSampled,
		})
		ctx := trace.ContextWithSpanContext(context.Background(), spanCtx)

		log.InfoContext(ctx, "project created", "id", 7)

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "project created", entry["msg"])
		assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", entry["trace_id"])
		assert.Equal(t, "00f067aa0ba902b7", entry["span_id"])
		assert.EqualValues(t, 7, entry["id"])
	})

	t.Run("JSONWithoutSpan", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.NewWithWriter(&buf, true)

		log.Info("plain")

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.NotContains(t, entry, "trace_id")
	})

	t.Run("TextColorsErrors", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.NewWithWriter(&buf, false)

		log.Error("boom", "cause", "db down")

		out := buf.String()
		assert.Contains(t, out, "level=ERROR")
		assert.Contains(t, out, "[31mboom")
		assert.Contains(t, out, "cause=\"db down\"")
	})

	t.Run("TextKeepsWithAttrs", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.NewWithWriter(&buf, false).With("service", "teamboard")

		log.Debug("hello")

		assert.Contains(t, buf.String(), "service=teamboard")
		assert.Contains(t, buf.String(), "msg=hello")
	})
}
