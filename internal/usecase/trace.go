package usecase

import (
	"context"

	"github.com/riskibarqy/league-forecast/internal/platform/tracing"
	"go.opentelemetry.io/otel/trace"
)

var usecaseSpans = tracing.NewScope("league-forecast/internal/usecase")

func startUsecaseSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return usecaseSpans.Start(ctx, name)
}
