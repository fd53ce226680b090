package httpapi

import (
	"context"
	"strings"

	"github.com/riskibarqy/league-forecast/internal/platform/tracing"
	"go.opentelemetry.io/otel/trace"
)

// Middleware and response helpers run on every request; only handler spans
// are worth exporting.
var apiSpans = tracing.NewScope("league-forecast/internal/interfaces/httpapi", tracing.WithFilter(isHandlerSpan))

func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return apiSpans.Start(ctx, name)
}

func isHandlerSpan(name string) bool {
	return strings.HasPrefix(name, "httpapi.Handler.")
}
