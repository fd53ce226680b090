package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/league-forecast/internal/domain/rawdata"
	qb "github.com/riskibarqy/league-forecast/internal/platform/querybuilder"
)

const rawPayloadsTable = "raw_payloads"

// An identical body fetched again only refreshes fetched_at and outcome.
const rawPayloadConflictClause = `ON CONFLICT (source, resource, entity_key, payload_hash)
DO UPDATE SET
    outcome = EXCLUDED.outcome,
    fetched_at = EXCLUDED.fetched_at`

var rawPayloadColumns = mustColumns(rawPayloadTableModel{})

type RawPayloadRepository struct {
	db *sqlx.DB
}

func NewRawPayloadRepository(db *sqlx.DB) *RawPayloadRepository {
	return &RawPayloadRepository{db: db}
}

func (r *RawPayloadRepository) Save(ctx context.Context, payload rawdata.Payload) error {
	return r.SaveMany(ctx, []rawdata.Payload{payload})
}

func (r *RawPayloadRepository) SaveMany(ctx context.Context, items []rawdata.Payload) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx save raw payloads: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range items {
		query, args, err := qb.InsertModel(rawPayloadsTable, toRawPayloadInsertModel(item), rawPayloadConflictClause)
		if err != nil {
			return fmt.Errorf("build save raw payload query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("save raw payload resource=%s key=%s: %w", item.Resource, item.EntityKey, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save raw payloads tx: %w", err)
	}

	return nil
}

func (r *RawPayloadRepository) ListRecent(ctx context.Context, filter rawdata.Filter) ([]rawdata.Payload, error) {
	query, args, err := buildListRecentQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("build list raw payloads query: %w", err)
	}

	var rows []rawPayloadTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list raw payloads: %w", err)
	}

	out := make([]rawdata.Payload, 0, len(rows))
	for _, row := range rows {
		out = append(out, rawdata.Payload{
			Source:      row.Source,
			Resource:    row.Resource,
			EntityKey:   row.EntityKey,
			PayloadJSON: row.Payload,
			PayloadHash: row.PayloadHash,
			Outcome:     rawdata.Outcome(row.Outcome),
			FetchedAt:   row.FetchedAt.UTC(),
		})
	}

	return out, nil
}

func buildListRecentQuery(filter rawdata.Filter) (string, []any, error) {
	return qb.Select(rawPayloadColumns...).From(rawPayloadsTable).
		Where(
			qb.EqIfSet("resource", filter.Resource),
			qb.EqIfSet("outcome", string(filter.Outcome)),
		).
		OrderBy("fetched_at DESC", "id DESC").
		Limit(filter.EffectiveLimit()).
		ToSQL()
}

func toRawPayloadInsertModel(item rawdata.Payload) rawPayloadInsertModel {
	return rawPayloadInsertModel{
		Source:      item.Source,
		Resource:    item.Resource,
		EntityKey:   item.EntityKey,
		Payload:     item.PayloadJSON,
		PayloadHash: item.PayloadHash,
		Outcome:     string(item.Outcome),
		FetchedAt:   item.FetchedAt.UTC(),
	}
}

func mustColumns(model any) []string {
	cols, err := qb.Columns(model)
	if err != nil {
		panic(err)
	}
	return cols
}
