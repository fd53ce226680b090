package rawdata

import "context"

// Filter narrows ListRecent. Empty fields match everything.
type Filter struct {
	Resource string
	Outcome  Outcome
	Limit    int
}

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// EffectiveLimit clamps Limit into [1, MaxListLimit].
func (f Filter) EffectiveLimit() int {
	switch {
	case f.Limit <= 0:
		return DefaultListLimit
	case f.Limit > MaxListLimit:
		return MaxListLimit
	default:
		return f.Limit
	}
}

// Matches reports whether p passes the resource and outcome filters.
func (f Filter) Matches(p Payload) bool {
	if f.Resource != "" && f.Resource != p.Resource {
		return false
	}
	if f.Outcome != "" && f.Outcome != p.Outcome {
		return false
	}
	return true
}

type Repository interface {
	Save(ctx context.Context, payload Payload) error
	ListRecent(ctx context.Context, filter Filter) ([]Payload, error)
}
