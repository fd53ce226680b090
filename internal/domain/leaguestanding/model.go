package leaguestanding

import (
	"errors"
	"sort"
	"strings"
)

// SeasonLength is the fixed number of matches in a league season.
const SeasonLength = 38

var ErrEmptyTeam = errors.New("standing row has empty team name")

// Row is one line of a predicted league table.
type Row struct {
	Team          string  `json:"team"`
	Points        float64 `json:"points"`
	Rank          int     `json:"rank"`
	MatchesPlayed int     `json:"matchesPlayed"`
	Wins          int     `json:"wins"`
	Draws         int     `json:"draws"`
	Losses        int     `json:"losses"`
}

func (r Row) Validate() error {
	if strings.TrimSpace(r.Team) == "" {
		return ErrEmptyTeam
	}
	return nil
}

// Reconcile clamps negative counts to zero and makes matchesPlayed agree
// with the win/draw/loss split when the two disagree.
func (r Row) Reconcile() Row {
	r.Wins = max(r.Wins, 0)
	r.Draws = max(r.Draws, 0)
	r.Losses = max(r.Losses, 0)
	if total := r.Wins + r.Draws + r.Losses; total != r.MatchesPlayed && total > 0 {
		r.MatchesPlayed = total
	}
	r.MatchesPlayed = max(r.MatchesPlayed, 0)
	return r
}

// SortByRank orders rows by rank ascending, keeping input order for ties.
func SortByRank(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Rank < rows[j].Rank
	})
}

// AssignRanksByPoints sorts rows by points descending (stable) and numbers
// them 1..N.
func AssignRanksByPoints(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Points > rows[j].Points
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
}

// Teams returns the team names in row order.
func Teams(rows []Row) []string {
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Team)
	}
	return out
}
