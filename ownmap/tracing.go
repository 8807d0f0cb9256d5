package ownmap

import (
	"context"

	tracing "github.com/jamesrr39/go-tracing"
)

// StartSpan starts a tracing span when ctx carries a trace (i.e. it came through the tracing middleware).
// The returned func ends the span. Without a trace both are no-ops, so callers outside HTTP requests don't need a tracer.
func StartSpan(ctx context.Context, name string) func() {
	if ctx.Value(tracing.TracerCtxKey) == nil || ctx.Value(tracing.TraceCtxKey) == nil {
		return func() {}
	}

	span := tracing.StartSpan(ctx, name)
	return func() {
		span.End(ctx)
	}
}
