package querybuilder

import (
	"strings"
	"testing"
)

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "payload").
		From("raw_payloads").
		Where(Eq("resource", "standings"), EqIfSet("outcome", ""), Eq("source", "predictor")).
		OrderBy("fetched_at DESC", "id DESC").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, payload FROM raw_payloads WHERE resource = $1 AND source = $2 ORDER BY fetched_at DESC, id DESC LIMIT $3"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != "standings" || args[1] != "predictor" || args[2] != 10 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilderRequiresTable(t *testing.T) {
	if _, _, err := Select("id").ToSQL(); err == nil {
		t.Fatalf("expected error without table")
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("raw_payloads").
		Columns("source", "resource").
		Values("predictor", "team").
		Suffix("ON CONFLICT DO NOTHING").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO raw_payloads (source, resource) VALUES ($1, $2) ON CONFLICT DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "predictor" || args[1] != "team" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModel(t *testing.T) {
	type row struct {
		Source   string `db:"source"`
		Resource string `db:"resource,omitempty"`
		Skipped  string `db:"-"`
		internal string
	}

	query, args, err := InsertModel("raw_payloads", row{Source: "predictor", Resource: "squad", internal: "x"}, "")
	if err != nil {
		t.Fatalf("build insert model query: %v", err)
	}
	if query != "INSERT INTO raw_payloads (source, resource) VALUES ($1, $2)" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 2 || args[1] != "squad" {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := InsertModel("raw_payloads", (*row)(nil), ""); err == nil {
		t.Fatalf("expected error for nil model")
	}
	if _, _, err := InsertModel("raw_payloads", "not a struct", ""); err == nil {
		t.Fatalf("expected error for non-struct model")
	}
}

func TestColumns(t *testing.T) {
	type row struct {
		ID        int64  `db:"id"`
		Payload   string `db:"payload"`
		Ignored   string
		CreatedAt string `db:" created_at "`
	}

	cols, err := Columns(&row{})
	if err != nil {
		t.Fatalf("columns: %v", err)
	}
	if strings.Join(cols, ",") != "id,payload,created_at" {
		t.Fatalf("unexpected columns: %v", cols)
	}

	// Callers may mutate the result without touching the cached plan.
	cols[0] = "mutated"
	again, _ := Columns(row{})
	if again[0] != "id" {
		t.Fatalf("cached plan was mutated: %v", again)
	}

	type empty struct{ Name string }
	if _, err := Columns(empty{}); err == nil {
		t.Fatalf("expected error for struct without db tags")
	}
}

func TestInsertBuilderMultiRowAndMismatch(t *testing.T) {
	query, args, err := InsertInto("raw_payloads").
		Columns("source", "resource").
		Values("predictor", "seasons").
		Values("predictor", "standings").
		ToSQL()
	if err != nil {
		t.Fatalf("build multi-row insert: %v", err)
	}
	if query != "INSERT INTO raw_payloads (source, resource) VALUES ($1, $2), ($3, $4)" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 4 || args[3] != "standings" {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := InsertInto("raw_payloads").Columns("source", "resource").Values("predictor").ToSQL(); err == nil {
		t.Fatalf("expected error for short row")
	}
	if _, _, err := InsertInto("raw_payloads").Columns("source").ToSQL(); err == nil {
		t.Fatalf("expected error without rows")
	}
}
