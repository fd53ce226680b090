package tier

import (
	"errors"
	"fmt"
)

// Range bounds one synthetic parameter. Continuous values are drawn from
// [Min, Max); RankBand is an inclusive integer band [Min, Max].
type Range struct {
	Min float64 `koanf:"min"`
	Max float64 `koanf:"max"`
}

func (r Range) Valid() bool {
	return r.Min <= r.Max
}

// Constants are the synthetic-data parameters for one tier.
type Constants struct {
	BasePoints      float64 `koanf:"base_points"`
	WinRate         float64 `koanf:"win_rate"`
	DrawRate        float64 `koanf:"draw_rate"`
	ManagerRating   Range   `koanf:"manager_rating"`
	TierScore       Range   `koanf:"tier_score"`
	AvgPoints3Yr    Range   `koanf:"avg_points_3yr"`
	Possession      Range   `koanf:"possession"`
	GoalsScored     Range   `koanf:"goals_scored"`
	GoalsConceded   Range   `koanf:"goals_conceded"`
	RelegationScore Range   `koanf:"relegation_score"`
	TopScorerGoals  Range   `koanf:"top_scorer_goals"`
	// RankBand includes both ends.
	RankBand        Range   `koanf:"rank_band"`
}

type Membership struct {
	Top []string `koanf:"top"`
	Mid []string `koanf:"mid"`
}

// Profile is the single source of fallback truth: tier membership, the
// default roster and per-tier constants.
type Profile struct {
	Members      Membership `koanf:"members"`
	Roster       []string   `koanf:"roster"`
	PointsJitter Range      `koanf:"points_jitter"`
	Top          Constants  `koanf:"top"`
	Mid          Constants  `koanf:"mid"`
	Other        Constants  `koanf:"other"`
}

func (p Profile) For(t Tier) Constants {
	switch t {
	case Top:
		return p.Top
	case Mid:
		return p.Mid
	default:
		return p.Other
	}
}

func (p Profile) Validate() error {
	var errs []error
	if len(p.Roster) == 0 {
		errs = append(errs, errors.New("roster must not be empty"))
	}
	if !p.PointsJitter.Valid() {
		errs = append(errs, errors.New("points_jitter min must be <= max"))
	}
	for _, t := range []Tier{Top, Mid, Other} {
		if err := p.For(t).validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", t, err))
		}
	}
	return errors.Join(errs...)
}

func (c Constants) validate() error {
	if c.WinRate < 0 || c.DrawRate < 0 || c.WinRate+c.DrawRate > 1 {
		return fmt.Errorf("win_rate %.2f and draw_rate %.2f must be >= 0 and sum to at most 1", c.WinRate, c.DrawRate)
	}
	ranges := map[string]Range{
		"manager_rating":   c.ManagerRating,
		"tier_score":       c.TierScore,
		"avg_points_3yr":   c.AvgPoints3Yr,
		"possession":       c.Possession,
		"goals_scored":     c.GoalsScored,
		"goals_conceded":   c.GoalsConceded,
		"relegation_score": c.RelegationScore,
		"top_scorer_goals": c.TopScorerGoals,
		"rank_band":        c.RankBand,
	}
	for name, r := range ranges {
		if !r.Valid() {
			return fmt.Errorf("%s min %.2f exceeds max %.2f", name, r.Min, r.Max)
		}
	}
	return nil
}

// DefaultProfile reflects the Premier League 2023/24 field.
func DefaultProfile() Profile {
	return Profile{
		Members: Membership{
			Top: []string{"Man City", "Liverpool", "Chelsea", "Arsenal", "Man United", "Tottenham"},
			Mid: []string{"Newcastle", "Aston Villa", "West Ham", "Brighton", "Brentford", "Crystal Palace", "Wolves", "Fulham", "Everton"},
		},
		Roster: []string{
			"Arsenal", "Aston Villa", "Bournemouth", "Brentford", "Brighton",
			"Burnley", "Chelsea", "Crystal Palace", "Everton", "Fulham",
			"Liverpool", "Luton", "Man City", "Man United", "Newcastle",
			"Nott'm Forest", "Sheffield United", "Tottenham", "West Ham", "Wolves",
		},
		PointsJitter: Range{Min: -5, Max: 10},
		Top: Constants{
			BasePoints:      80,
			WinRate:         0.65,
			DrawRate:        0.20,
			ManagerRating:   Range{Min: 0.80, Max: 0.95},
			TierScore:       Range{Min: 2.7, Max: 3.0},
			AvgPoints3Yr:    Range{Min: 72, Max: 88},
			Possession:      Range{Min: 55, Max: 65},
			GoalsScored:     Range{Min: 70, Max: 95},
			GoalsConceded:   Range{Min: 25, Max: 40},
			RelegationScore: Range{Min: 0, Max: 15},
			TopScorerGoals:  Range{Min: 18, Max: 32},
			RankBand:        Range{Min: 1, Max: 6},
		},
		Mid: Constants{
			BasePoints:      60,
			WinRate:         0.42,
			DrawRate:        0.26,
			ManagerRating:   Range{Min: 0.65, Max: 0.80},
			TierScore:       Range{Min: 1.8, Max: 2.5},
			AvgPoints3Yr:    Range{Min: 50, Max: 65},
			Possession:      Range{Min: 46, Max: 55},
			GoalsScored:     Range{Min: 48, Max: 65},
			GoalsConceded:   Range{Min: 40, Max: 55},
			RelegationScore: Range{Min: 10, Max: 45},
			TopScorerGoals:  Range{Min: 10, Max: 18},
			RankBand:        Range{Min: 7, Max: 12},
		},
		Other: Constants{
			BasePoints:      40,
			WinRate:         0.26,
			DrawRate:        0.26,
			ManagerRating:   Range{Min: 0.55, Max: 0.70},
			TierScore:       Range{Min: 1.0, Max: 1.7},
			AvgPoints3Yr:    Range{Min: 32, Max: 46},
			Possession:      Range{Min: 38, Max: 47},
			GoalsScored:     Range{Min: 30, Max: 45},
			GoalsConceded:   Range{Min: 55, Max: 78},
			RelegationScore: Range{Min: 35, Max: 90},
			TopScorerGoals:  Range{Min: 6, Max: 13},
			RankBand:        Range{Min: 13, Max: 20},
		},
	}
}
