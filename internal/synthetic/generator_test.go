package synthetic

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/league-forecast/internal/domain/leaguestanding"
	"github.com/riskibarqy/league-forecast/internal/domain/teamstats"
	"github.com/riskibarqy/league-forecast/internal/domain/tier"
)

func TestStandings_BackendFailureScenario(t *testing.T) {
	t.Parallel()

	for seed := uint64(0); seed < 50; seed++ {
		g := NewGenerator(tier.DefaultProfile(), WithSeed(seed))
		rows, err := g.Standings([]string{"Burnley", "Man City", "Luton"})
		require.NoError(t, err)
		require.Len(t, rows, 3)

		assert.Equal(t, "Man City", rows[0].Team)
		assert.Equal(t, 1, rows[0].Rank)
		assert.GreaterOrEqual(t, rows[0].Points, 75.0)

		for _, row := range rows[1:] {
			assert.Contains(t, []string{"Burnley", "Luton"}, row.Team)
			assert.GreaterOrEqual(t, row.Points, 35.0)
			assert.Less(t, row.Points, 50.0)
		}
	}
}

func TestStandings_Structure(t *testing.T) {
	t.Parallel()

	g := NewGenerator(tier.DefaultProfile(), WithSeed(7))
	roster := g.Roster()
	rows, err := g.Standings(roster)
	require.NoError(t, err)
	require.Len(t, rows, len(roster))

	ranks := make([]int, 0, len(rows))
	for i, row := range rows {
		ranks = append(ranks, row.Rank)
		assert.Equal(t, leaguestanding.SeasonLength, row.Wins+row.Draws+row.Losses)
		if i > 0 {
			assert.GreaterOrEqual(t, rows[i-1].Points, row.Points)
		}
	}
	sort.Ints(ranks)
	for i, rank := range ranks {
		assert.Equal(t, i+1, rank)
	}
	assert.ElementsMatch(t, roster, leaguestanding.Teams(rows))
}

func TestStandings_SeedIsDeterministic(t *testing.T) {
	t.Parallel()

	teams := []string{"Arsenal", "Fulham", "Luton", "Everton"}
	a, err := NewGenerator(tier.DefaultProfile(), WithSeed(42)).Standings(teams)
	require.NoError(t, err)
	b, err := NewGenerator(tier.DefaultProfile(), WithSeed(42)).Standings(teams)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestStandings_RejectsBlankNames(t *testing.T) {
	t.Parallel()

	g := NewGenerator(tier.DefaultProfile())
	_, err := g.Standings([]string{"Arsenal", "  "})
	assert.ErrorIs(t, err, ErrInvalidTeamName)

	rows, err := g.Standings(nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestTeamDetail_IsComplete(t *testing.T) {
	t.Parallel()

	g := NewGenerator(tier.DefaultProfile(), WithSeed(3))
	for _, team := range []string{"Man City", "Brighton", "Luton", "Unknown FC"} {
		stats, err := g.TeamDetail(team, "2024/2025", 0)
		require.NoError(t, err)
		assert.True(t, stats.Complete(), team)
		assert.Equal(t, "2024/2025", stats.Season)
		assert.Len(t, stats.KeyPlayers, 3)
		assert.Equal(t, teamstats.CleanSheetsFromConceded(*stats.GoalsConceded), *stats.CleanSheets)
		assert.Equal(t, leaguestanding.SeasonLength, *stats.Wins+*stats.Draws+*stats.Losses)
	}
}

func TestTeamDetail_TierConstraints(t *testing.T) {
	t.Parallel()

	g := NewGenerator(tier.DefaultProfile(), WithSeed(11))
	for i := 0; i < 25; i++ {
		top, err := g.TeamDetail("Arsenal", "", 0)
		require.NoError(t, err)
		assert.Equal(t, teamstats.RiskNone, top.RelegationRisk)
		assert.GreaterOrEqual(t, *top.PredictedRank, 1)
		assert.LessOrEqual(t, *top.PredictedRank, 6)

		other, err := g.TeamDetail("Luton", "", 0)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, *other.PredictedRank, 13)
		assert.LessOrEqual(t, *other.PredictedRank, 20)
		assert.Equal(t, teamstats.RiskFromScore(*other.RelegationScore), other.RelegationRisk)
	}
}

func TestTeamDetail_KeepsRequestedRank(t *testing.T) {
	t.Parallel()

	g := NewGenerator(tier.DefaultProfile(), WithSeed(1))
	stats, err := g.TeamDetail(" Luton ", "", 4)
	require.NoError(t, err)
	assert.Equal(t, "Luton", stats.Team)
	assert.Equal(t, 4, *stats.PredictedRank)

	_, err = g.TeamDetail("", "", 1)
	assert.ErrorIs(t, err, ErrInvalidTeamName)
}

func TestRank_BandIncludesBothEnds(t *testing.T) {
	t.Parallel()

	g := NewGenerator(tier.DefaultProfile(), WithSeed(5))
	seen := map[int]bool{}
	for i := 0; i < 200; i++ {
		rank := g.rank(tier.Range{Min: 2, Max: 3})
		require.Contains(t, []int{2, 3}, rank)
		seen[rank] = true
	}
	assert.True(t, seen[2], "lower bound never drawn")
	assert.True(t, seen[3], "upper bound never drawn")

	assert.Equal(t, 4, g.rank(tier.Range{Min: 4, Max: 4}))
}
