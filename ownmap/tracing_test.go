package ownmap

import (
	"bytes"
	"context"
	"testing"

	tracing "github.com/jamesrr39/go-tracing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartSpan(t *testing.T) {
	t.Run("without a trace", func(t *testing.T) {
		end := StartSpan(context.Background(), "no-op")
		assert.NotPanics(t, end)
	})

	t.Run("with a trace", func(t *testing.T) {
		tracer := tracing.NewTracer(bytes.NewBuffer(nil))
		trace := tracing.StartTrace(tracer, "test")

		ctx := context.WithValue(context.Background(), tracing.TraceCtxKey, trace)
		ctx = context.WithValue(ctx, tracing.TracerCtxKey, tracer)

		end := StartSpan(ctx, "render")
		end()

		require.Len(t, trace.Spans, 1)
		assert.Equal(t, "render", trace.Spans[0].Name)
	})
}
