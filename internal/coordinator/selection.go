package coordinator

import (
	"fmt"
	"strings"

	"github.com/riskibarqy/league-forecast/internal/domain/season"
)

// Resource names one independently fetched slot of the view.
type Resource string

const (
	ResourceSeasons   Resource = "seasons"
	ResourceStandings Resource = "standings"
	ResourceTeam      Resource = "team"
	ResourceSquad     Resource = "squad"
)

// Resources lists every slot in display order.
var Resources = []Resource{ResourceSeasons, ResourceStandings, ResourceTeam, ResourceSquad}

// Selection is the user's current choice. It is a value; transitions go
// through Reduce.
type Selection struct {
	Season string `json:"season"`
	Team   string `json:"team,omitempty"`
}

func (s Selection) HasTeam() bool {
	return s.Team != ""
}

type ActionKind string

const (
	ActionSelectSeason ActionKind = "select_season"
	ActionSelectTeam   ActionKind = "select_team"
	ActionClearTeam    ActionKind = "clear_team"
)

type Action struct {
	Kind  ActionKind
	Value string
}

func SelectSeason(label string) Action { return Action{Kind: ActionSelectSeason, Value: label} }
func SelectTeam(team string) Action    { return Action{Kind: ActionSelectTeam, Value: team} }
func ClearTeam() Action                { return Action{Kind: ActionClearTeam} }

// Validate rejects actions that Reduce would ignore.
func (a Action) Validate() error {
	switch a.Kind {
	case ActionSelectSeason:
		if _, err := season.Normalize(a.Value); err != nil {
			return err
		}
	case ActionSelectTeam:
		if strings.TrimSpace(a.Value) == "" {
			return fmt.Errorf("%s requires a team name", a.Kind)
		}
	case ActionClearTeam:
	default:
		return fmt.Errorf("unknown action %q", a.Kind)
	}
	return nil
}

// Reduce applies an action. Invalid actions return the selection unchanged.
// Changing season keeps the selected team.
func Reduce(sel Selection, a Action) Selection {
	switch a.Kind {
	case ActionSelectSeason:
		if label, err := season.Normalize(a.Value); err == nil {
			sel.Season = label
		}
	case ActionSelectTeam:
		if team := strings.TrimSpace(a.Value); team != "" {
			sel.Team = team
		}
	case ActionClearTeam:
		sel.Team = ""
	}
	return sel
}

// Changed lists the resources whose inputs differ between prev and next.
// Seasons never depend on the selection.
func Changed(prev, next Selection) []Resource {
	var out []Resource
	seasonChanged := prev.Season != next.Season
	teamChanged := prev.Team != next.Team

	if seasonChanged {
		out = append(out, ResourceStandings)
	}
	if seasonChanged || teamChanged {
		if next.HasTeam() || teamChanged {
			out = append(out, ResourceTeam)
		}
	}
	if teamChanged {
		out = append(out, ResourceSquad)
	}
	return out
}
