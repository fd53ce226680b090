package coordinator

import (
	"github.com/riskibarqy/league-forecast/internal/domain/leaguestanding"
	"github.com/riskibarqy/league-forecast/internal/domain/squad"
	"github.com/riskibarqy/league-forecast/internal/domain/teamstats"
)

type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateFailed  State = "failed"
)

// Status is the bookkeeping part of a slot. Generation only grows; a
// result is committed only when it carries the current generation.
type Status struct {
	State      State  `json:"state"`
	Generation uint64 `json:"generation"`
	Advisory   string `json:"advisory,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Slot holds the last committed data for one resource. A failed slot still
// carries fallback data when the resource has one.
type Slot[T any] struct {
	Status
	Data T `json:"data"`
}

// View is a snapshot of every slot for one selection. Committed slices are
// replaced, never mutated, so a snapshot is safe to read after the lock is
// released.
type View struct {
	Selection Selection                  `json:"selection"`
	Seasons   Slot[[]string]             `json:"seasons"`
	Standings Slot[[]leaguestanding.Row] `json:"standings"`
	Team      Slot[*teamstats.TeamStats] `json:"team"`
	Squad     Slot[[]squad.Member]       `json:"squad"`
}

func (v *View) status(r Resource) *Status {
	switch r {
	case ResourceSeasons:
		return &v.Seasons.Status
	case ResourceStandings:
		return &v.Standings.Status
	case ResourceTeam:
		return &v.Team.Status
	case ResourceSquad:
		return &v.Squad.Status
	default:
		return nil
	}
}

// Loading reports whether any slot is waiting on a fetch.
func (v View) Loading() bool {
	for _, r := range Resources {
		if v.status(r).State == StateLoading {
			return true
		}
	}
	return false
}

// Failed lists resources whose last fetch degraded to fallback data.
func (v View) Failed() []Resource {
	var out []Resource
	for _, r := range Resources {
		if v.status(r).State == StateFailed {
			out = append(out, r)
		}
	}
	return out
}

// reset returns a slot to idle, bumping the generation so any in-flight
// result for it is dropped.
func (v *View) reset(r Resource) {
	st := v.status(r)
	gen := st.Generation + 1
	switch r {
	case ResourceTeam:
		v.Team = Slot[*teamstats.TeamStats]{}
	case ResourceSquad:
		v.Squad = Slot[[]squad.Member]{}
	case ResourceStandings:
		v.Standings = Slot[[]leaguestanding.Row]{}
	case ResourceSeasons:
		v.Seasons = Slot[[]string]{}
	}
	st = v.status(r)
	st.State = StateIdle
	st.Generation = gen
}
