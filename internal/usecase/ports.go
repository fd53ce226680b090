package usecase

import (
	"context"

	"github.com/riskibarqy/league-forecast/internal/domain/rawdata"
	"github.com/riskibarqy/league-forecast/internal/reconcile"
)

// PredictionProvider is the remote prediction service. Each fetch returns
// the raw payload alongside the decoded records so callers can archive it,
// including when the shape check fails.
type PredictionProvider interface {
	FetchSeasons(ctx context.Context) ([]string, rawdata.Payload, error)
	FetchStandings(ctx context.Context, season string) ([]reconcile.Record, rawdata.Payload, error)
	FetchTeam(ctx context.Context, season, team string) (reconcile.Record, rawdata.Payload, error)
	FetchSquad(ctx context.Context, team string) ([]reconcile.Record, rawdata.Payload, error)
	// Health returns the reported status string; "ok" means healthy.
	Health(ctx context.Context) (string, error)
}
