package postgres

import (
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/league-forecast/internal/domain/rawdata"
	qb "github.com/riskibarqy/league-forecast/internal/platform/querybuilder"
)

func TestBuildListRecentQuery(t *testing.T) {
	t.Parallel()

	t.Run("no filters", func(t *testing.T) {
		query, args, err := buildListRecentQuery(rawdata.Filter{})
		if err != nil {
			t.Fatalf("build query: %v", err)
		}
		wantHead := "SELECT id, source, resource, entity_key, payload, payload_hash, outcome, fetched_at, created_at FROM raw_payloads"
		if !strings.HasPrefix(query, wantHead) {
			t.Fatalf("unexpected select list: %s", query)
		}
		if strings.Contains(query, "WHERE") {
			t.Fatalf("unexpected WHERE clause: %s", query)
		}
		if !strings.HasSuffix(query, "ORDER BY fetched_at DESC, id DESC LIMIT $1") {
			t.Fatalf("unexpected query tail: %s", query)
		}
		if len(args) != 1 || args[0] != rawdata.DefaultListLimit {
			t.Fatalf("unexpected args: %+v", args)
		}
	})

	t.Run("resource and outcome", func(t *testing.T) {
		query, args, err := buildListRecentQuery(rawdata.Filter{
			Resource: "team",
			Outcome:  rawdata.OutcomeShape,
			Limit:    10_000,
		})
		if err != nil {
			t.Fatalf("build query: %v", err)
		}
		if !strings.Contains(query, "WHERE resource = $1 AND outcome = $2") {
			t.Fatalf("unexpected where clause: %s", query)
		}
		if len(args) != 3 || args[1] != "shape_error" || args[2] != rawdata.MaxListLimit {
			t.Fatalf("unexpected args: %+v", args)
		}
	})
}

func TestRawPayloadInsertQuery(t *testing.T) {
	t.Parallel()

	fetchedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.FixedZone("WIB", 7*3600))
	payload := rawdata.NewPayload("predictor", "squad", "2024/2025|Arsenal", []byte(`{"squad":[]}`), rawdata.OutcomeAccepted, fetchedAt)

	model := toRawPayloadInsertModel(payload)
	if model.FetchedAt.Location() != time.UTC {
		t.Fatalf("expected UTC fetched_at, got %s", model.FetchedAt.Location())
	}

	query, args, err := qb.InsertModel(rawPayloadsTable, model, rawPayloadConflictClause)
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}
	if !strings.HasPrefix(query, "INSERT INTO raw_payloads (source, resource, entity_key, payload, payload_hash, outcome, fetched_at) VALUES ($1, $2, $3, $4, $5, $6, $7)") {
		t.Fatalf("unexpected insert query: %s", query)
	}
	if !strings.Contains(query, "ON CONFLICT (source, resource, entity_key, payload_hash)") {
		t.Fatalf("missing conflict clause: %s", query)
	}
	if len(args) != 7 || args[4] != payload.PayloadHash {
		t.Fatalf("unexpected args: %+v", args)
	}
}
