package reconcile

import (
	"errors"
	"strings"

	"github.com/riskibarqy/league-forecast/internal/domain/leaguestanding"
	"github.com/riskibarqy/league-forecast/internal/domain/season"
	"github.com/riskibarqy/league-forecast/internal/domain/squad"
	"github.com/riskibarqy/league-forecast/internal/domain/teamstats"
)

var (
	// ErrNotFound marks a record the upstream returned in place of a team,
	// such as {"error": "team not found"} or an empty object.
	ErrNotFound = errors.New("record reports team not found")
	// ErrNoRows marks a non-empty standings payload with no usable rows.
	ErrNoRows = errors.New("standings payload has no usable rows")
)

// Normalizer maps raw records onto canonical view models. It is stateless
// apart from its Resolver and safe for concurrent use. Applying it to its
// own serialised output is a no-op.
type Normalizer struct {
	resolver *Resolver
}

func NewNormalizer(resolver *Resolver) *Normalizer {
	if resolver == nil {
		resolver = NewResolver()
	}
	return &Normalizer{resolver: resolver}
}

func (n *Normalizer) Resolver() *Resolver {
	return n.resolver
}

// IsNotFound reports whether rec is an upstream "not found" marker rather
// than team data.
func (n *Normalizer) IsNotFound(rec Record) bool {
	if len(rec) == 0 {
		return true
	}
	if n.resolver.Lookup(rec, FieldTeam).Known || n.resolver.Lookup(rec, FieldPoints).Known {
		return false
	}
	for _, key := range []string{"error", "detail", "message"} {
		if _, ok := rec[key]; ok {
			return true
		}
	}
	return false
}

// Team normalises one team-detail record. The returned Team may be empty
// when the record omits it; callers substitute the requested name.
func (n *Normalizer) Team(rec Record) (teamstats.TeamStats, error) {
	if n.IsNotFound(rec) {
		return teamstats.TeamStats{}, ErrNotFound
	}
	r := n.resolver

	out := teamstats.TeamStats{}
	out.Team, _ = r.Resolve(rec, FieldTeam).Text()
	if raw, ok := r.Resolve(rec, FieldSeason).Text(); ok {
		if label, err := season.Normalize(raw); err == nil {
			out.Season = label
		}
	}

	points := r.Resolve(rec, FieldPoints)
	if p, ok := points.Float(); ok {
		out.Points = teamstats.Float(p)
	}

	c := n.counts(rec)
	out.MatchesPlayed = c.matches
	out.Wins = c.wins
	out.Draws = c.draws
	out.Losses = c.losses

	out.GoalsScored = nonNegativeInt(r.Resolve(rec, FieldGoalsScored))
	out.GoalsConceded = nonNegativeInt(r.Resolve(rec, FieldGoalsConceded))
	out.CleanSheets = nonNegativeInt(r.Resolve(rec, FieldCleanSheets))

	if v, ok := r.Resolve(rec, FieldPossessionPct).Float(); ok {
		out.PossessionPct = teamstats.Float(clamp(v, 0, 100))
	}

	if v, ok := r.Lookup(rec, FieldWinRate).Float(); ok {
		out.WinRate = teamstats.Float(clamp(v, 0, 100))
	} else if c.wins != nil && c.matches != nil && *c.matches > 0 {
		out.WinRate = teamstats.Float(float64(*c.wins) / float64(*c.matches) * 100)
	}

	if rank, ok := r.Resolve(rec, FieldPredictedRank).Int(); ok && rank >= 1 {
		out.PredictedRank = teamstats.Int(rank)
	}
	out.ManagerRating = floatPtr(r.Resolve(rec, FieldManagerRating))
	out.TierScore = floatPtr(r.Resolve(rec, FieldTierScore))
	out.AvgPoints3Yr = floatPtr(r.Resolve(rec, FieldAvgPoints3Yr))

	out.RelegationRisk, out.RelegationScore = n.risk(rec)
	out.TopScorer = topScorer(r.Resolve(rec, FieldTopScorer))
	out.KeyPlayers = keyPlayers(r.Resolve(rec, FieldKeyPlayers))
	out.TransfersIn = transfers(r.Resolve(rec, FieldTransfersIn))
	out.TransfersOut = transfers(r.Resolve(rec, FieldTransfersOut))

	return out, nil
}

// Standings normalises a standings array. Rows without a team name are
// dropped; ranks fall back to the 1-based array position; the result is
// sorted by rank.
func (n *Normalizer) Standings(recs []Record) ([]leaguestanding.Row, error) {
	rows := make([]leaguestanding.Row, 0, len(recs))
	for i, rec := range recs {
		team, ok := n.resolver.Resolve(rec, FieldTeam).Text()
		if !ok {
			continue
		}
		row := leaguestanding.Row{Team: team, Rank: i + 1}
		if p, ok := n.resolver.Resolve(rec, FieldPoints).Float(); ok {
			row.Points = p
		}
		if rank, ok := n.resolver.Resolve(rec, FieldPredictedRank).Int(); ok && rank >= 1 {
			row.Rank = rank
		}
		c := n.counts(rec)
		row.MatchesPlayed = derefInt(c.matches)
		row.Wins = derefInt(c.wins)
		row.Draws = derefInt(c.draws)
		row.Losses = derefInt(c.losses)
		rows = append(rows, row.Reconcile())
	}
	if len(rows) == 0 && len(recs) > 0 {
		return nil, ErrNoRows
	}
	leaguestanding.SortByRank(rows)
	return rows, nil
}

var (
	memberNameKeys        = []string{"name", "Name", "player", "Player", "playerName"}
	memberPositionKeys    = []string{"position", "Position", "pos"}
	memberAgeKeys         = []string{"age", "Age"}
	memberNationalityKeys = []string{"nationality", "Nationality", "country"}
	memberNumberKeys      = []string{"shirtNumber", "number", "Number", "jerseyNumber"}
	memberPhotoKeys       = []string{"photoUrl", "photo", "photoURL", "image_path"}
)

// Squad normalises a squad array. Players without a name are dropped and
// missing photos get the default placeholder.
func (n *Normalizer) Squad(recs []Record) []squad.Member {
	out := make([]squad.Member, 0, len(recs))
	for _, rec := range recs {
		name := firstText(rec, memberNameKeys)
		if name == "" {
			continue
		}
		member := squad.Member{
			Name:        name,
			Nationality: firstText(rec, memberNationalityKeys),
			PhotoURL:    firstText(rec, memberPhotoKeys),
		}
		if pos, ok := squad.ParsePosition(firstText(rec, memberPositionKeys)); ok {
			member.Position = pos
		}
		if age, ok := firstNumber(rec, memberAgeKeys); ok && age > 0 {
			member.Age = teamstats.Int(teamstats.Round(age))
		}
		if number, ok := firstNumber(rec, memberNumberKeys); ok && number > 0 {
			member.ShirtNumber = teamstats.Int(teamstats.Round(number))
		}
		if member.PhotoURL == "" {
			member.PhotoURL = squad.DefaultPhotoURL
		}
		out = append(out, member)
	}
	return out
}

type counts struct {
	matches, wins, draws, losses *int
}

// counts resolves the match record and makes it internally consistent. A
// fully reported split wins over matchesPlayed. Otherwise matchesPlayed is
// fixed: reported counts claim it first and derived counts fit in what is
// left, with a derived loss count taking the remainder.
func (n *Normalizer) counts(rec Record) counts {
	r := n.resolver
	m, okM := r.Resolve(rec, FieldMatchesPlayed).Int()
	wv, dv, lv := r.Resolve(rec, FieldWins), r.Resolve(rec, FieldDraws), r.Resolve(rec, FieldLosses)
	w, okW := wv.Int()
	d, okD := dv.Int()
	l, okL := lv.Int()

	var out counts
	if okM {
		out.matches = teamstats.Int(max(m, 0))
	}
	if !okW || !okD || !okL {
		if okW {
			out.wins = teamstats.Int(max(w, 0))
		}
		if okD {
			out.draws = teamstats.Int(max(d, 0))
		}
		return out
	}

	m, w, d, l = max(m, 0), max(w, 0), max(d, 0), max(l, 0)
	if !wv.Derived() && !dv.Derived() && !lv.Derived() {
		row := leaguestanding.Row{MatchesPlayed: m, Wins: w, Draws: d, Losses: l}.Reconcile()
		m = row.MatchesPlayed
	} else {
		room := m
		take := func(v int) int {
			v = min(v, room)
			room -= v
			return v
		}
		if !wv.Derived() {
			w = take(w)
		}
		if !dv.Derived() {
			d = take(d)
		}
		if !lv.Derived() {
			l = take(l)
		}
		if wv.Derived() {
			w = take(w)
		}
		if dv.Derived() {
			d = take(d)
		}
		if lv.Derived() {
			l = room
		}
	}
	out.matches = teamstats.Int(m)
	out.wins = teamstats.Int(w)
	out.draws = teamstats.Int(d)
	out.losses = teamstats.Int(l)
	return out
}

// risk prefers an explicit band label over one computed from the score.
func (n *Normalizer) risk(rec Record) (teamstats.RelegationRisk, *float64) {
	score := floatPtr(n.resolver.Resolve(rec, FieldRelegationScore))
	if label, ok := n.resolver.Resolve(rec, FieldRelegationRisk).Text(); ok {
		if risk, ok := teamstats.ParseRisk(label); ok {
			return risk, score
		}
	}
	if score != nil {
		return teamstats.RiskFromScore(*score), score
	}
	return teamstats.RiskUnknown, nil
}

func topScorer(v Value) *teamstats.TopScorer {
	if !v.Known {
		return nil
	}
	switch raw := v.Raw().(type) {
	case string:
		return &teamstats.TopScorer{Name: strings.TrimSpace(raw)}
	case map[string]any:
		name := firstText(raw, memberNameKeys)
		if name == "" {
			return nil
		}
		out := &teamstats.TopScorer{Name: name}
		if goals, ok := firstNumber(raw, []string{"goals", "Goals"}); ok && goals > 0 {
			out.Goals = teamstats.Round(goals)
		}
		return out
	}
	return nil
}

func keyPlayers(v Value) []teamstats.KeyPlayer {
	items, _ := v.Raw().([]any)
	out := make([]teamstats.KeyPlayer, 0, len(items))
	for _, item := range items {
		switch raw := item.(type) {
		case string:
			if name := strings.TrimSpace(raw); name != "" {
				out = append(out, teamstats.KeyPlayer{Name: name})
			}
		case map[string]any:
			name := firstText(raw, memberNameKeys)
			if name == "" {
				continue
			}
			out = append(out, teamstats.KeyPlayer{Name: name, Position: firstText(raw, memberPositionKeys)})
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

var (
	transferCounterpartKeys = []string{"counterpart", "from", "to", "club"}
	transferFeeKeys         = []string{"fee", "Fee"}
)

func transfers(v Value) []teamstats.Transfer {
	items, _ := v.Raw().([]any)
	out := make([]teamstats.Transfer, 0, len(items))
	for _, item := range items {
		raw, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name := firstText(raw, memberNameKeys)
		if name == "" {
			continue
		}
		out = append(out, teamstats.Transfer{
			Name:        name,
			Counterpart: firstText(raw, transferCounterpartKeys),
			Fee:         firstText(raw, transferFeeKeys),
		})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func firstText(rec map[string]any, keys []string) string {
	for _, key := range keys {
		if s, ok := rec[key].(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}

func firstNumber(rec map[string]any, keys []string) (float64, bool) {
	for _, key := range keys {
		if f, ok := toFloat(rec[key]); ok {
			return f, true
		}
	}
	return 0, false
}

func floatPtr(v Value) *float64 {
	if f, ok := v.Float(); ok {
		return teamstats.Float(f)
	}
	return nil
}

func nonNegativeInt(v Value) *int {
	if i, ok := v.Int(); ok {
		return teamstats.Int(max(i, 0))
	}
	return nil
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
