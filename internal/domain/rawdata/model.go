package rawdata

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Outcome records how a fetched body was classified.
type Outcome string

const (
	OutcomeAccepted Outcome = "accepted"
	OutcomeShape    Outcome = "shape_error"
	OutcomeNotFound Outcome = "not_found"
)

// Payload is an archived upstream response body, kept for schema-drift
// diagnostics. The view model itself is never persisted.
type Payload struct {
	Source      string
	Resource    string
	EntityKey   string
	PayloadJSON string
	PayloadHash string
	Outcome     Outcome
	FetchedAt   time.Time
}

func NewPayload(source, resource, entityKey string, body []byte, outcome Outcome, fetchedAt time.Time) Payload {
	sum := sha256.Sum256(body)
	return Payload{
		Source:      source,
		Resource:    resource,
		EntityKey:   entityKey,
		PayloadJSON: string(body),
		PayloadHash: hex.EncodeToString(sum[:]),
		Outcome:     outcome,
		FetchedAt:   fetchedAt.UTC(),
	}
}
