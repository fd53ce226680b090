package teamstats

import (
	"math"
	"strings"
)

// RelegationRisk is the four-step risk band. The empty value means unknown.
type RelegationRisk string

const (
	RiskUnknown RelegationRisk = ""
	RiskNone    RelegationRisk = "None"
	RiskLow     RelegationRisk = "Low"
	RiskMedium  RelegationRisk = "Medium"
	RiskHigh    RelegationRisk = "High"
)

// RiskFromScore is the single mapping from a numeric relegation score to a
// band. It is monotone non-decreasing in score.
func RiskFromScore(score float64) RelegationRisk {
	switch {
	case score < 20:
		return RiskNone
	case score < 40:
		return RiskLow
	case score < 60:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// ParseRisk accepts the band labels case-insensitively.
func ParseRisk(label string) (RelegationRisk, bool) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "none":
		return RiskNone, true
	case "low":
		return RiskLow, true
	case "medium":
		return RiskMedium, true
	case "high":
		return RiskHigh, true
	default:
		return RiskUnknown, false
	}
}

func (r RelegationRisk) String() string {
	return string(r)
}

// roundHalfUp rounds .5 towards positive infinity.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

// Round is exported for derivations that must agree with CleanSheetsFromConceded.
func Round(v float64) int {
	return int(roundHalfUp(v))
}
