// Package synthetic produces plausible stand-in standings and team details
// when the prediction service cannot. All constants come from a tier.Profile.
package synthetic

import (
	"errors"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"

	"github.com/riskibarqy/league-forecast/internal/domain/leaguestanding"
	"github.com/riskibarqy/league-forecast/internal/domain/teamstats"
	"github.com/riskibarqy/league-forecast/internal/domain/tier"
)

var ErrInvalidTeamName = errors.New("team name must not be blank")

type Generator struct {
	classifier *tier.Classifier
	profile    tier.Profile

	mu  sync.Mutex
	rng *rand.Rand
}

type Option func(*Generator)

// WithSeed makes the generator's output reproducible.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

func WithRand(rng *rand.Rand) Option {
	return func(g *Generator) {
		if rng != nil {
			g.rng = rng
		}
	}
}

func NewGenerator(profile tier.Profile, opts ...Option) *Generator {
	g := &Generator{
		classifier: tier.NewClassifierFromProfile(profile),
		profile:    profile,
		rng:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Roster returns a copy of the profile's default team list.
func (g *Generator) Roster() []string {
	return append([]string(nil), g.profile.Roster...)
}

// Standings returns exactly one row per team, ranked 1..N by descending
// synthesized points. Teams are visited in tier order so equal points
// resolve in favour of the stronger tier.
func (g *Generator) Standings(teams []string) ([]leaguestanding.Row, error) {
	names := make([]string, len(teams))
	for i, team := range teams {
		names[i] = strings.TrimSpace(team)
		if names[i] == "" {
			return nil, ErrInvalidTeamName
		}
	}
	sort.SliceStable(names, func(i, j int) bool {
		return g.classifier.Classify(names[i]) < g.classifier.Classify(names[j])
	})

	g.mu.Lock()
	defer g.mu.Unlock()

	rows := make([]leaguestanding.Row, 0, len(names))
	for _, name := range names {
		c := g.profile.For(g.classifier.Classify(name))
		wins, draws, losses := split(c)
		rows = append(rows, leaguestanding.Row{
			Team:          name,
			Points:        g.points(c),
			MatchesPlayed: leaguestanding.SeasonLength,
			Wins:          wins,
			Draws:         draws,
			Losses:        losses,
		})
	}
	leaguestanding.AssignRanksByPoints(rows)
	return rows, nil
}

// TeamDetail fills every TeamStats field. A rank <= 0 is drawn from the
// tier's rank band.
func (g *Generator) TeamDetail(team, season string, rank int) (teamstats.TeamStats, error) {
	name := strings.TrimSpace(team)
	if name == "" {
		return teamstats.TeamStats{}, ErrInvalidTeamName
	}
	t := g.classifier.Classify(name)
	c := g.profile.For(t)

	g.mu.Lock()
	defer g.mu.Unlock()

	wins, draws, losses := split(c)
	conceded := teamstats.Round(g.uniform(c.GoalsConceded))
	if rank <= 0 {
		rank = g.rank(c.RankBand)
	}
	score := g.uniform(c.RelegationScore)
	risk := teamstats.RiskFromScore(score)
	if t == tier.Top {
		risk = teamstats.RiskNone
	}

	return teamstats.TeamStats{
		Team:            name,
		Season:          season,
		Points:          teamstats.Float(g.points(c)),
		MatchesPlayed:   teamstats.Int(leaguestanding.SeasonLength),
		Wins:            teamstats.Int(wins),
		Draws:           teamstats.Int(draws),
		Losses:          teamstats.Int(losses),
		GoalsScored:     teamstats.Int(teamstats.Round(g.uniform(c.GoalsScored))),
		GoalsConceded:   teamstats.Int(conceded),
		CleanSheets:     teamstats.Int(teamstats.CleanSheetsFromConceded(conceded)),
		PossessionPct:   teamstats.Float(g.uniform(c.Possession)),
		WinRate:         teamstats.Float(float64(wins) / leaguestanding.SeasonLength * 100),
		PredictedRank:   teamstats.Int(rank),
		ManagerRating:   teamstats.Float(g.uniform(c.ManagerRating)),
		TierScore:       teamstats.Float(g.uniform(c.TierScore)),
		AvgPoints3Yr:    teamstats.Float(g.uniform(c.AvgPoints3Yr)),
		RelegationRisk:  risk,
		RelegationScore: teamstats.Float(score),
		TopScorer: &teamstats.TopScorer{
			Name:  name + " No. 9",
			Goals: teamstats.Round(g.uniform(c.TopScorerGoals)),
		},
		KeyPlayers: []teamstats.KeyPlayer{
			{Name: name + " No. 1", Position: "Goalkeeper"},
			{Name: name + " No. 8", Position: "Midfielder"},
			{Name: name + " No. 10", Position: "Forward"},
		},
		TransfersIn:  []teamstats.Transfer{{Name: "Unnamed signing", Counterpart: "Undisclosed club", Fee: "Undisclosed"}},
		TransfersOut: []teamstats.Transfer{{Name: "Unnamed departure", Counterpart: "Undisclosed club", Fee: "Undisclosed"}},
	}, nil
}

func split(c tier.Constants) (wins, draws, losses int) {
	wins = teamstats.Round(leaguestanding.SeasonLength * c.WinRate)
	draws = teamstats.Round(leaguestanding.SeasonLength * c.DrawRate)
	losses = max(leaguestanding.SeasonLength-wins-draws, 0)
	return wins, draws, losses
}

// callers hold g.mu for the helpers below.

func (g *Generator) points(c tier.Constants) float64 {
	return c.BasePoints + g.uniform(g.profile.PointsJitter)
}

func (g *Generator) uniform(r tier.Range) float64 {
	return r.Min + g.rng.Float64()*(r.Max-r.Min)
}

func (g *Generator) rank(band tier.Range) int {
	lo, hi := int(band.Min), int(band.Max)
	if n := len(g.profile.Roster); n > 0 {
		hi = min(hi, n)
	}
	lo = max(lo, 1)
	if hi < lo {
		return lo
	}
	return lo + g.rng.IntN(hi-lo+1)
}
