package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/league-forecast/internal/domain/rawdata"
)

const defaultRawPayloadCapacity = 500

// RawPayloadRepository keeps the most recent payloads in a fixed-size ring.
// Older entries are overwritten once capacity is reached.
type RawPayloadRepository struct {
	mu    sync.RWMutex
	items []rawdata.Payload
	next  int
	full  bool
}

func NewRawPayloadRepository(capacity int) *RawPayloadRepository {
	if capacity <= 0 {
		capacity = defaultRawPayloadCapacity
	}
	return &RawPayloadRepository{items: make([]rawdata.Payload, capacity)}
}

func (r *RawPayloadRepository) Save(_ context.Context, payload rawdata.Payload) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[r.next] = payload
	r.next = (r.next + 1) % len(r.items)
	if r.next == 0 {
		r.full = true
	}
	return nil
}

// ListRecent returns matching payloads newest first.
func (r *RawPayloadRepository) ListRecent(_ context.Context, filter rawdata.Filter) ([]rawdata.Payload, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	size := r.next
	if r.full {
		size = len(r.items)
	}
	limit := filter.EffectiveLimit()

	out := make([]rawdata.Payload, 0, min(limit, size))
	for i := 0; i < size && len(out) < limit; i++ {
		idx := (r.next - 1 - i + len(r.items)) % len(r.items)
		if item := r.items[idx]; filter.Matches(item) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *RawPayloadRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.full {
		return len(r.items)
	}
	return r.next
}
