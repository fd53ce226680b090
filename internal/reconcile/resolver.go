// Package reconcile turns schema-drifting upstream records into canonical
// view models. Field names differ between producers (PascalCase, camelCase,
// abbreviations); the Resolver hides that behind one alias table per field.
package reconcile

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/riskibarqy/league-forecast/internal/domain/leaguestanding"
	"github.com/riskibarqy/league-forecast/internal/domain/teamstats"
)

// Record is one raw upstream object as decoded from JSON.
type Record map[string]any

// Field is a canonical field name. Its string form is also the JSON key of
// the canonical view model.
type Field string

const (
	FieldTeam            Field = "team"
	FieldSeason          Field = "season"
	FieldPoints          Field = "points"
	FieldMatchesPlayed   Field = "matchesPlayed"
	FieldWins            Field = "wins"
	FieldDraws           Field = "draws"
	FieldLosses          Field = "losses"
	FieldGoalsScored     Field = "goalsScored"
	FieldGoalsConceded   Field = "goalsConceded"
	FieldCleanSheets     Field = "cleanSheets"
	FieldPossessionPct   Field = "possessionPct"
	FieldWinRate         Field = "winRate"
	FieldPredictedRank   Field = "predictedRank"
	FieldManagerRating   Field = "managerRating"
	FieldTierScore       Field = "tierScore"
	FieldAvgPoints3Yr    Field = "avgPoints3Yr"
	FieldRelegationRisk  Field = "relegationRisk"
	FieldRelegationScore Field = "relegationScore"
	FieldTopScorer       Field = "topScorer"
	FieldKeyPlayers      Field = "keyPlayers"
	FieldTransfersIn     Field = "transfersIn"
	FieldTransfersOut    Field = "transfersOut"
)

type kind int

const (
	kindText kind = iota
	kindNumber
	kindLabel
	kindObject
	kindList
)

type fieldSpec struct {
	kind    kind
	aliases []string
}

// defaultSpecs lists aliases in priority order; the canonical name is first.
var defaultSpecs = map[Field]fieldSpec{
	FieldTeam:            {kindText, []string{"team", "Team", "teamName", "TeamName", "name"}},
	FieldSeason:          {kindText, []string{"season", "Season"}},
	FieldPoints:          {kindNumber, []string{"points", "Points", "pts", "Pts"}},
	FieldMatchesPlayed:   {kindNumber, []string{"matchesPlayed", "Matches", "matches", "MP", "played", "Played"}},
	FieldWins:            {kindNumber, []string{"wins", "Win", "Wins", "W", "won"}},
	FieldDraws:           {kindNumber, []string{"draws", "Draw", "Draws", "D", "drawn"}},
	FieldLosses:          {kindNumber, []string{"losses", "Loss", "Losses", "L", "lost"}},
	FieldGoalsScored:     {kindNumber, []string{"goalsScored", "GF", "goalsFor", "goals_for"}},
	FieldGoalsConceded:   {kindNumber, []string{"goalsConceded", "GA", "goalsAgainst", "goals_against"}},
	FieldCleanSheets:     {kindNumber, []string{"cleanSheets", "CleanSheets", "CS", "clean_sheets"}},
	FieldPossessionPct:   {kindNumber, []string{"possessionPct", "possession", "Possession"}},
	FieldWinRate:         {kindNumber, []string{"winRate", "WinRate"}},
	FieldPredictedRank:   {kindNumber, []string{"predictedRank", "PredictedRank", "rank", "Rank", "position"}},
	FieldManagerRating:   {kindNumber, []string{"managerRating", "ManagerRating"}},
	FieldTierScore:       {kindNumber, []string{"tierScore", "TierScore"}},
	FieldAvgPoints3Yr:    {kindNumber, []string{"avgPoints3Yr", "avgPoints", "AvgPoints3Yrs", "AvgPoints3Yr"}},
	FieldRelegationRisk:  {kindLabel, []string{"relegationRisk", "RelegationRisk"}},
	FieldRelegationScore: {kindNumber, []string{"relegationScore", "relegationRiskScore", "RelegationRisk", "relegationRisk"}},
	FieldTopScorer:       {kindObject, []string{"topScorer", "TopScorer"}},
	FieldKeyPlayers:      {kindList, []string{"keyPlayers", "KeyPlayers"}},
	FieldTransfersIn:     {kindList, []string{"transfersIn", "TransfersIn"}},
	FieldTransfersOut:    {kindList, []string{"transfersOut", "TransfersOut"}},
}

// Value is the outcome of resolving one field. The zero Value is unknown.
type Value struct {
	raw    any
	Known  bool
	Source string
}

const derivedPrefix = "derived:"

func known(raw any, source string) Value {
	return Value{raw: raw, Known: true, Source: source}
}

func derived(raw any, from string) Value {
	return Value{raw: raw, Known: true, Source: derivedPrefix + from}
}

func (v Value) Raw() any { return v.raw }

// Derived reports whether the value came from a derivation rather than an alias.
func (v Value) Derived() bool {
	return strings.HasPrefix(v.Source, derivedPrefix)
}

func (v Value) Float() (float64, bool) {
	if !v.Known {
		return 0, false
	}
	return toFloat(v.raw)
}

// Int rounds numeric values half-up.
func (v Value) Int() (int, bool) {
	f, ok := v.Float()
	if !ok {
		return 0, false
	}
	return teamstats.Round(f), true
}

func (v Value) Text() (string, bool) {
	if !v.Known {
		return "", false
	}
	s, ok := v.raw.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// Derivation computes a field from other fields when no alias is present.
type Derivation func(r *Resolver, rec Record) Value

// Resolver is immutable after construction and safe for concurrent use.
type Resolver struct {
	specs       map[Field]fieldSpec
	derivations map[Field]Derivation
}

type Option func(*Resolver)

// WithExtraAliases appends lower-priority aliases for a field.
func WithExtraAliases(f Field, aliases ...string) Option {
	return func(r *Resolver) {
		spec, ok := r.specs[f]
		if !ok {
			return
		}
		spec.aliases = append(append([]string(nil), spec.aliases...), aliases...)
		r.specs[f] = spec
	}
}

func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		specs:       make(map[Field]fieldSpec, len(defaultSpecs)),
		derivations: defaultDerivations(),
	}
	for f, spec := range defaultSpecs {
		r.specs[f] = spec
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Aliases returns the alias list of f in priority order.
func (r *Resolver) Aliases(f Field) []string {
	return append([]string(nil), r.specs[f].aliases...)
}

// Lookup returns the first alias whose value is present, non-null and
// usable for the field's kind. It never runs derivations.
func (r *Resolver) Lookup(rec Record, f Field) Value {
	spec, ok := r.specs[f]
	if !ok || rec == nil {
		return Value{}
	}
	for _, alias := range spec.aliases {
		raw, present := rec[alias]
		if !present || raw == nil {
			continue
		}
		if accepts(spec.kind, raw) {
			return known(raw, alias)
		}
	}
	return Value{}
}

// Resolve looks the field up and falls back to its derivation. An
// unresolvable field yields the unknown Value; Resolve never panics.
func (r *Resolver) Resolve(rec Record, f Field) Value {
	if v := r.Lookup(rec, f); v.Known {
		return v
	}
	if derive, ok := r.derivations[f]; ok {
		return derive(r, rec)
	}
	return Value{}
}

func accepts(k kind, raw any) bool {
	switch k {
	case kindText:
		s, ok := raw.(string)
		return ok && strings.TrimSpace(s) != ""
	case kindNumber:
		_, ok := toFloat(raw)
		return ok
	case kindLabel:
		s, ok := raw.(string)
		if !ok {
			return false
		}
		_, ok = teamstats.ParseRisk(s)
		return ok
	case kindObject:
		switch v := raw.(type) {
		case map[string]any:
			return len(v) > 0
		case string:
			return strings.TrimSpace(v) != ""
		}
		return false
	case kindList:
		_, ok := raw.([]any)
		return ok
	}
	return false
}

func toFloat(raw any) (float64, bool) {
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), "%")), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func defaultDerivations() map[Field]Derivation {
	return map[Field]Derivation{
		FieldCleanSheets: func(r *Resolver, rec Record) Value {
			conceded, ok := r.Resolve(rec, FieldGoalsConceded).Int()
			if !ok {
				return Value{}
			}
			return derived(float64(teamstats.CleanSheetsFromConceded(conceded)), string(FieldGoalsConceded))
		},
		FieldMatchesPlayed: func(r *Resolver, rec Record) Value {
			w, okW := r.Lookup(rec, FieldWins).Int()
			d, okD := r.Lookup(rec, FieldDraws).Int()
			l, okL := r.Lookup(rec, FieldLosses).Int()
			if okW && okD && okL && w+d+l > 0 {
				return derived(float64(w+d+l), "record")
			}
			return derived(float64(leaguestanding.SeasonLength), "season-length")
		},
		FieldWins: func(r *Resolver, rec Record) Value {
			points, ok := r.Lookup(rec, FieldPoints).Float()
			if !ok {
				return Value{}
			}
			return derived(float64(teamstats.Round(points*0.8/3)), string(FieldPoints))
		},
		FieldDraws: func(r *Resolver, rec Record) Value {
			points, ok := r.Lookup(rec, FieldPoints).Float()
			if !ok {
				return Value{}
			}
			return derived(float64(teamstats.Round(points*0.2)), string(FieldPoints))
		},
		FieldLosses: func(r *Resolver, rec Record) Value {
			m, okM := r.Resolve(rec, FieldMatchesPlayed).Int()
			w, okW := r.Resolve(rec, FieldWins).Int()
			d, okD := r.Resolve(rec, FieldDraws).Int()
			if !okM || !okW || !okD {
				return Value{}
			}
			return derived(float64(max(m-w-d, 0)), "record")
		},
		FieldWinRate: func(r *Resolver, rec Record) Value {
			w, okW := r.Resolve(rec, FieldWins).Float()
			m, okM := r.Resolve(rec, FieldMatchesPlayed).Float()
			if !okW || !okM || m <= 0 {
				return Value{}
			}
			return derived(w/m*100, "record")
		},
		FieldPossessionPct: func(r *Resolver, rec Record) Value {
			score, ok := r.Lookup(rec, FieldTierScore).Float()
			if !ok {
				return Value{}
			}
			return derived(clamp(45+score*5, 35, 65), string(FieldTierScore))
		},
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
