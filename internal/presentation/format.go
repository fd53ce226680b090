// Package presentation turns canonical view models into display strings.
// Everything here is pure; fixed-precision rounding happens only here.
package presentation

import (
	"strconv"

	"github.com/riskibarqy/league-forecast/internal/domain/teamstats"
)

// Missing is shown for values no source could provide.
const Missing = "-"

// OrdinalSuffix returns "st", "nd", "rd" or "th" for n, with the 11th,
// 12th and 13th exceptions.
func OrdinalSuffix(n int) string {
	j, k := n%10, n%100
	switch {
	case j == 1 && k != 11:
		return "st"
	case j == 2 && k != 12:
		return "nd"
	case j == 3 && k != 13:
		return "rd"
	default:
		return "th"
	}
}

// Ordinal renders 21 as "21st". Non-positive positions are Missing.
func Ordinal(n int) string {
	if n <= 0 {
		return Missing
	}
	return strconv.Itoa(n) + OrdinalSuffix(n)
}

func RiskLabel(score float64) string {
	return teamstats.RiskFromScore(score).String()
}

type Zone string

const (
	ZoneNone       Zone = ""
	ZoneUCL        Zone = "UCL"
	ZoneEuropa     Zone = "Europa"
	ZoneConference Zone = "Conference"
	ZoneRelegation Zone = "Relegation"
)

// ZoneBand checks the bands in priority order so a rank lands in at most one.
func ZoneBand(rank, totalTeams int) Zone {
	switch {
	case rank <= 0:
		return ZoneNone
	case rank <= 4:
		return ZoneUCL
	case rank <= 6:
		return ZoneEuropa
	case rank == 7:
		return ZoneConference
	case totalTeams > 0 && rank > totalTeams-3:
		return ZoneRelegation
	default:
		return ZoneNone
	}
}

func Fixed(v *float64, precision int) string {
	if v == nil {
		return Missing
	}
	return strconv.FormatFloat(*v, 'f', precision, 64)
}

func Percent(v *float64) string {
	if v == nil {
		return Missing
	}
	return Fixed(v, 1) + "%"
}

func Count(v *int) string {
	if v == nil {
		return Missing
	}
	return strconv.Itoa(*v)
}

const PlaceholderCrest = "/placeholder-logo.png"

var crestIDs = map[string]int{
	"Arsenal":          57,
	"Aston Villa":      58,
	"Bournemouth":      1044,
	"Brentford":        402,
	"Brighton":         397,
	"Burnley":          328,
	"Chelsea":          61,
	"Crystal Palace":   354,
	"Everton":          62,
	"Fulham":           63,
	"Leicester":        338,
	"Liverpool":        64,
	"Luton":            389,
	"Man City":         65,
	"Man United":       66,
	"Newcastle":        67,
	"Nott'm Forest":    351,
	"Sheffield United": 356,
	"Tottenham":        73,
	"West Ham":         563,
	"Wolves":           76,
}

// CrestURL falls back to the placeholder for teams without a known crest.
func CrestURL(team string) string {
	id, ok := crestIDs[team]
	if !ok {
		return PlaceholderCrest
	}
	return "https://crests.football-data.org/" + strconv.Itoa(id) + ".svg"
}
