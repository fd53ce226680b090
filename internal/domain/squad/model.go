package squad

import "strings"

// DefaultPhotoURL is shown for players without a photo.
const DefaultPhotoURL = "https://api.sportmonks.com/images/default-player.png"

type Position string

const (
	PositionUnknown    Position = ""
	PositionGoalkeeper Position = "GK"
	PositionDefender   Position = "DF"
	PositionMidfielder Position = "MF"
	PositionForward    Position = "FW"
)

// Member is one projected squad player.
type Member struct {
	Name        string   `json:"name"`
	Position    Position `json:"position,omitempty"`
	Age         *int     `json:"age,omitempty"`
	Nationality string   `json:"nationality,omitempty"`
	ShirtNumber *int     `json:"shirtNumber,omitempty"`
	PhotoURL    string   `json:"photoUrl"`
}

var positionAliases = map[string]Position{
	"gk":         PositionGoalkeeper,
	"g":          PositionGoalkeeper,
	"goalkeeper": PositionGoalkeeper,
	"keeper":     PositionGoalkeeper,
	"df":         PositionDefender,
	"d":          PositionDefender,
	"def":        PositionDefender,
	"defender":   PositionDefender,
	"mf":         PositionMidfielder,
	"m":          PositionMidfielder,
	"mid":        PositionMidfielder,
	"midfielder": PositionMidfielder,
	"fw":         PositionForward,
	"f":          PositionForward,
	"fwd":        PositionForward,
	"forward":    PositionForward,
	"attacker":   PositionForward,
	"striker":    PositionForward,
}

// ParsePosition maps codes and position words onto the four squad lines.
func ParsePosition(raw string) (Position, bool) {
	p, ok := positionAliases[strings.ToLower(strings.TrimSpace(raw))]
	return p, ok
}

// Label is the long form used on squad cards.
func (p Position) Label() string {
	switch p {
	case PositionGoalkeeper:
		return "Goalkeeper"
	case PositionDefender:
		return "Defender"
	case PositionMidfielder:
		return "Midfielder"
	case PositionForward:
		return "Forward"
	default:
		return "Unknown"
	}
}
