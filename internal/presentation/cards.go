package presentation

import (
	"fmt"
	"strconv"

	"github.com/riskibarqy/league-forecast/internal/domain/leaguestanding"
	"github.com/riskibarqy/league-forecast/internal/domain/squad"
	"github.com/riskibarqy/league-forecast/internal/domain/teamstats"
)

type Stat struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Card is the rendered team-detail panel.
type Card struct {
	Team              string   `json:"team"`
	Season            string   `json:"season"`
	CrestURL          string   `json:"crestUrl"`
	PredictedPosition string   `json:"predictedPosition"`
	Zone              Zone     `json:"zone,omitempty"`
	Statistics        []Stat   `json:"statistics"`
	Metrics           []Stat   `json:"metrics"`
	TopScorer         string   `json:"topScorer"`
	KeyPlayers        []string `json:"keyPlayers"`
	TransfersIn       []string `json:"transfersIn"`
	TransfersOut      []string `json:"transfersOut"`
}

// TeamCard renders stats. totalTeams sizes the relegation band; pass 0 when
// the table size is unknown.
func TeamCard(stats teamstats.TeamStats, totalTeams int) Card {
	card := Card{
		Team:              stats.Team,
		Season:            stats.Season,
		CrestURL:          CrestURL(stats.Team),
		PredictedPosition: Missing,
		TopScorer:         Missing,
		KeyPlayers:        []string{},
		TransfersIn:       []string{},
		TransfersOut:      []string{},
	}
	if stats.PredictedRank != nil {
		card.PredictedPosition = Ordinal(*stats.PredictedRank)
		card.Zone = ZoneBand(*stats.PredictedRank, totalTeams)
	}

	card.Statistics = []Stat{
		{"Points", Fixed(stats.Points, 1)},
		{"Win Rate", Percent(stats.WinRate)},
		{"Record", record(stats)},
		{"Goals Scored", Count(stats.GoalsScored)},
		{"Goals Conceded", Count(stats.GoalsConceded)},
		{"Clean Sheets", Count(stats.CleanSheets)},
		{"Avg. Possession", Percent(stats.PossessionPct)},
	}

	risk := Missing
	if stats.RelegationRisk != teamstats.RiskUnknown {
		risk = stats.RelegationRisk.String()
	}
	card.Metrics = []Stat{
		{"Manager Rating", Fixed(stats.ManagerRating, 2)},
		{"Tier Score", Fixed(stats.TierScore, 1)},
		{"3 Year Avg. Points", Fixed(stats.AvgPoints3Yr, 1)},
		{"Relegation Risk", risk},
	}

	if ts := stats.TopScorer; ts != nil && ts.Name != "" {
		card.TopScorer = fmt.Sprintf("%s (%d goals)", ts.Name, ts.Goals)
	}
	for _, p := range stats.KeyPlayers {
		if p.Position == "" {
			card.KeyPlayers = append(card.KeyPlayers, p.Name)
			continue
		}
		card.KeyPlayers = append(card.KeyPlayers, p.Name+" - "+p.Position)
	}
	for _, tr := range stats.TransfersIn {
		card.TransfersIn = append(card.TransfersIn, transferLine(tr, "from"))
	}
	for _, tr := range stats.TransfersOut {
		card.TransfersOut = append(card.TransfersOut, transferLine(tr, "to"))
	}
	return card
}

func record(stats teamstats.TeamStats) string {
	if stats.Wins == nil || stats.Draws == nil || stats.Losses == nil {
		return Missing
	}
	return fmt.Sprintf("%d-%d-%d", *stats.Wins, *stats.Draws, *stats.Losses)
}

func transferLine(tr teamstats.Transfer, direction string) string {
	line := tr.Name
	if tr.Counterpart != "" {
		line += " " + direction + " " + tr.Counterpart
	}
	if tr.Fee != "" {
		line += " (" + tr.Fee + ")"
	}
	return line
}

// TableLine is one rendered standings row.
type TableLine struct {
	Rank     int    `json:"rank"`
	Position string `json:"position"`
	Team     string `json:"team"`
	CrestURL string `json:"crestUrl"`
	Points   string `json:"points"`
	Played   int    `json:"played"`
	Won      int    `json:"won"`
	Drawn    int    `json:"drawn"`
	Lost     int    `json:"lost"`
	Zone     Zone   `json:"zone,omitempty"`
}

func StandingsTable(rows []leaguestanding.Row) []TableLine {
	out := make([]TableLine, 0, len(rows))
	for _, row := range rows {
		points := row.Points
		out = append(out, TableLine{
			Rank:     row.Rank,
			Position: Ordinal(row.Rank),
			Team:     row.Team,
			CrestURL: CrestURL(row.Team),
			Points:   Fixed(&points, 1),
			Played:   row.MatchesPlayed,
			Won:      row.Wins,
			Drawn:    row.Draws,
			Lost:     row.Losses,
			Zone:     ZoneBand(row.Rank, len(rows)),
		})
	}
	return out
}

type PlayerCard struct {
	Name        string `json:"name"`
	Position    string `json:"position"`
	Age         string `json:"age"`
	Number      string `json:"number"`
	Nationality string `json:"nationality"`
	PhotoURL    string `json:"photoUrl"`
}

func SquadCards(members []squad.Member) []PlayerCard {
	out := make([]PlayerCard, 0, len(members))
	for _, m := range members {
		card := PlayerCard{
			Name:        m.Name,
			Position:    m.Position.Label(),
			Age:         Count(m.Age),
			Number:      Missing,
			Nationality: m.Nationality,
			PhotoURL:    m.PhotoURL,
		}
		if m.ShirtNumber != nil {
			card.Number = "#" + strconv.Itoa(*m.ShirtNumber)
		}
		if card.Nationality == "" {
			card.Nationality = Missing
		}
		if card.PhotoURL == "" {
			card.PhotoURL = squad.DefaultPhotoURL
		}
		out = append(out, card)
	}
	return out
}
