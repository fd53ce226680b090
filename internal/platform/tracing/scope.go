// Package tracing starts OpenTelemetry child spans for one instrumented
// package.
package tracing

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var noopSpan = trace.SpanFromContext(context.Background())

// Scope only creates spans below a valid parent span. Requests the server
// middleware chose not to trace (health probes, metric scrapes) therefore
// produce no orphan root spans from helpers further down.
type Scope struct {
	name     string
	provider trace.TracerProvider
	allow    func(spanName string) bool
}

type Option func(*Scope)

// WithFilter drops spans whose name fails fn.
func WithFilter(fn func(spanName string) bool) Option {
	return func(s *Scope) { s.allow = fn }
}

// WithTracerProvider pins the provider instead of resolving the global one on
// every call.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Scope) { s.provider = tp }
}

func NewScope(instrumentationName string, opts ...Option) Scope {
	s := Scope{name: instrumentationName}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

func (s Scope) Start(ctx context.Context, spanName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if strings.TrimSpace(spanName) == "" {
		return ctx, noopSpan
	}
	if !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, noopSpan
	}
	if s.allow != nil && !s.allow(spanName) {
		return ctx, noopSpan
	}

	provider := s.provider
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	return provider.Tracer(s.name).Start(ctx, spanName, trace.WithAttributes(attrs...))
}
