package reconcile

import (
	"errors"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/league-forecast/internal/domain/squad"
	"github.com/riskibarqy/league-forecast/internal/domain/teamstats"
)

func decode(t *testing.T, raw string) Record {
	t.Helper()
	var rec Record
	require.NoError(t, sonic.UnmarshalString(raw, &rec))
	return rec
}

func roundTrip(t *testing.T, stats teamstats.TeamStats) Record {
	t.Helper()
	body, err := sonic.Marshal(stats)
	require.NoError(t, err)
	var rec Record
	require.NoError(t, sonic.Unmarshal(body, &rec))
	return rec
}

func TestNormalizerTeam_DerivesMissingFields(t *testing.T) {
	t.Parallel()

	n := NewNormalizer(nil)
	got, err := n.Team(decode(t, `{"Team":"Brentford","Points":74.5,"GA":30}`))
	require.NoError(t, err)

	assert.Equal(t, "Brentford", got.Team)
	require.NotNil(t, got.CleanSheets)
	assert.Equal(t, 23, *got.CleanSheets)
	assert.Equal(t, 38, *got.MatchesPlayed)
	assert.Equal(t, 20, *got.Wins)
	assert.Equal(t, 15, *got.Draws)
	assert.Equal(t, 3, *got.Losses)
	assert.InDelta(t, 20.0/38*100, *got.WinRate, 1e-9)
	assert.Nil(t, got.ManagerRating)
	assert.Equal(t, teamstats.RiskUnknown, got.RelegationRisk)
}

func TestNormalizerTeam_AliasedRecordsAgree(t *testing.T) {
	t.Parallel()

	n := NewNormalizer(nil)
	canonical, err := n.Team(decode(t, `{"team":"Everton","points":48,"wins":12,"draws":12,"losses":14,"goalsConceded":51,"relegationScore":42}`))
	require.NoError(t, err)
	aliased, err := n.Team(decode(t, `{"TeamName":"Everton","Pts":48,"W":12,"D":12,"L":14,"GA":51,"RelegationRisk":42}`))
	require.NoError(t, err)

	assert.Equal(t, canonical, aliased)
	assert.Equal(t, teamstats.RiskMedium, aliased.RelegationRisk)
}

func TestNormalizerTeam_Idempotent(t *testing.T) {
	t.Parallel()

	n := NewNormalizer(nil)
	inputs := []string{
		`{"Team":"Brentford","Points":74.5,"GA":30}`,
		`{"team":"Luton","Points":20,"Win":30,"Draw":10,"matches":38,"TierScore":1.2}`,
		`{"name":"Fulham","W":15,"D":8,"L":20,"Matches":40,"Possession":"48%","relegationRisk":"low","RelegationRisk":70}`,
		`{"Team":"Chelsea","wins":-2,"draws":5,"losses":30,"topScorer":"Palmer","keyPlayers":["Palmer",{"name":"Caicedo","position":"MF"}]}`,
		`{"team":"Wolves","season":"2024/25","PredictedRank":0,"transfersIn":[{"name":"Strand Larsen","from":"Celta","fee":"£23m"}],"TopScorer":{"Name":"Cunha","Goals":15}}`,
		`{"Pts":61}`,
	}
	for _, in := range inputs {
		first, err := n.Team(decode(t, in))
		require.NoError(t, err, in)
		second, err := n.Team(roundTrip(t, first))
		require.NoError(t, err, in)
		assert.Equal(t, first, second, in)
	}
}

func TestNormalizerTeam_ReportedSplitOverridesMatches(t *testing.T) {
	t.Parallel()

	n := NewNormalizer(nil)
	got, err := n.Team(decode(t, `{"team":"Fulham","W":15,"D":8,"L":20,"Matches":40}`))
	require.NoError(t, err)
	assert.Equal(t, 43, *got.MatchesPlayed)
}

func TestNormalizerTeam_DerivedLossesFitInsideMatches(t *testing.T) {
	t.Parallel()

	n := NewNormalizer(nil)
	got, err := n.Team(decode(t, `{"team":"Luton","Win":30,"Draw":10,"matches":38}`))
	require.NoError(t, err)
	assert.Equal(t, 38, *got.MatchesPlayed)
	assert.Equal(t, 30, *got.Wins)
	assert.Equal(t, 8, *got.Draws)
	assert.Equal(t, 0, *got.Losses)
}

func TestNormalizerTeam_DerivedWinsAndDrawsYieldToReportedLosses(t *testing.T) {
	t.Parallel()

	n := NewNormalizer(nil)
	got, err := n.Team(Record{"Points": 74.5, "L": 10})
	require.NoError(t, err)
	assert.Equal(t, 38, *got.MatchesPlayed)
	assert.Equal(t, 20, *got.Wins)
	assert.Equal(t, 8, *got.Draws)
	assert.Equal(t, 10, *got.Losses)

	got, err = n.Team(Record{"Points": 30, "W": 5, "L": 30, "matches": 38})
	require.NoError(t, err)
	assert.Equal(t, 38, *got.MatchesPlayed)
	assert.Equal(t, 5, *got.Wins)
	assert.Equal(t, 3, *got.Draws)
	assert.Equal(t, 30, *got.Losses)
}

func TestNormalizerTeam_ExplicitRiskBeatsScore(t *testing.T) {
	t.Parallel()

	n := NewNormalizer(nil)
	got, err := n.Team(decode(t, `{"team":"Burnley","relegationRisk":"Low","relegationScore":85}`))
	require.NoError(t, err)
	assert.Equal(t, teamstats.RiskLow, got.RelegationRisk)
	assert.Equal(t, 85.0, *got.RelegationScore)

	got, err = n.Team(decode(t, `{"team":"Burnley","relegationScore":85}`))
	require.NoError(t, err)
	assert.Equal(t, teamstats.RiskHigh, got.RelegationRisk)
}

func TestNormalizerTeam_NotFound(t *testing.T) {
	t.Parallel()

	n := NewNormalizer(nil)
	for _, in := range []string{`{}`, `{"error":"Team not found"}`, `{"detail":"Not Found"}`} {
		_, err := n.Team(decode(t, in))
		assert.True(t, errors.Is(err, ErrNotFound), in)
	}

	_, err := n.Team(nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNormalizerStandings(t *testing.T) {
	t.Parallel()

	n := NewNormalizer(nil)
	var recs []Record
	require.NoError(t, sonic.UnmarshalString(`[
		{"Team":"Arsenal","Points":84,"W":26,"D":6,"L":6},
		{"Team":"Man City","Points":91,"PredictedRank":1},
		{"Team":"","Points":10},
		{"name":"Luton","pts":26,"rank":20}
	]`, &recs))

	rows, err := n.Standings(recs)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Arsenal", rows[0].Team)
	assert.Equal(t, 1, rows[0].Rank, "positional rank from array index")
	assert.Equal(t, 26, rows[0].Wins)
	assert.Equal(t, 38, rows[0].MatchesPlayed)

	assert.Equal(t, "Man City", rows[1].Team, "rank ties keep input order")
	assert.Equal(t, 1, rows[1].Rank)
	assert.Equal(t, 38, rows[1].MatchesPlayed)
	assert.Equal(t, 38, rows[1].Wins+rows[1].Draws+rows[1].Losses)

	assert.Equal(t, "Luton", rows[2].Team)
	assert.Equal(t, 20, rows[2].Rank)
	assert.Equal(t, 26.0, rows[2].Points)
}

func TestNormalizerStandings_NoUsableRows(t *testing.T) {
	t.Parallel()

	n := NewNormalizer(nil)
	_, err := n.Standings([]Record{{"Points": 10.0}})
	assert.ErrorIs(t, err, ErrNoRows)

	rows, err := n.Standings(nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestNormalizerSquad(t *testing.T) {
	t.Parallel()

	n := NewNormalizer(nil)
	var recs []Record
	require.NoError(t, sonic.UnmarshalString(`[
		{"name":"Bernd Leno","position":"Goalkeeper","age":32,"nationality":"Germany","number":1,"photo":"https://img/leno.png"},
		{"Name":"Raul Jimenez","Position":"Attacker","shirtNumber":"7"},
		{"position":"MF"}
	]`, &recs))

	got := n.Squad(recs)
	require.Len(t, got, 2)

	assert.Equal(t, squad.PositionGoalkeeper, got[0].Position)
	assert.Equal(t, 32, *got[0].Age)
	assert.Equal(t, 1, *got[0].ShirtNumber)
	assert.Equal(t, "https://img/leno.png", got[0].PhotoURL)

	assert.Equal(t, squad.PositionForward, got[1].Position)
	assert.Equal(t, 7, *got[1].ShirtNumber)
	assert.Nil(t, got[1].Age)
	assert.Equal(t, squad.DefaultPhotoURL, got[1].PhotoURL)
}
