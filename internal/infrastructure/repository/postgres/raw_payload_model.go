package postgres

import "time"

type rawPayloadTableModel struct {
	ID          int64     `db:"id"`
	Source      string    `db:"source"`
	Resource    string    `db:"resource"`
	EntityKey   string    `db:"entity_key"`
	Payload     string    `db:"payload"`
	PayloadHash string    `db:"payload_hash"`
	Outcome     string    `db:"outcome"`
	FetchedAt   time.Time `db:"fetched_at"`
	CreatedAt   time.Time `db:"created_at"`
}

type rawPayloadInsertModel struct {
	Source      string    `db:"source"`
	Resource    string    `db:"resource"`
	EntityKey   string    `db:"entity_key"`
	Payload     string    `db:"payload"`
	PayloadHash string    `db:"payload_hash"`
	Outcome     string    `db:"outcome"`
	FetchedAt   time.Time `db:"fetched_at"`
}
