package coordinator

import (
	"reflect"
	"testing"
)

func TestReduce(t *testing.T) {
	t.Parallel()

	base := Selection{Season: "2023/2024", Team: "Arsenal"}
	tests := []struct {
		name   string
		action Action
		want   Selection
	}{
		{name: "season change keeps team", action: SelectSeason("2024/25"), want: Selection{Season: "2024/2025", Team: "Arsenal"}},
		{name: "invalid season ignored", action: SelectSeason("soon"), want: base},
		{name: "team trimmed", action: SelectTeam("  Luton "), want: Selection{Season: "2023/2024", Team: "Luton"}},
		{name: "blank team ignored", action: SelectTeam("  "), want: base},
		{name: "clear team", action: ClearTeam(), want: Selection{Season: "2023/2024"}},
		{name: "unknown action", action: Action{Kind: "rewind"}, want: base},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Reduce(base, tc.action)
			if got != tc.want {
				t.Fatalf("unexpected selection: got=%+v want=%+v", got, tc.want)
			}
		})
	}
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	sel := Selection{Season: "2023/2024"}
	_ = Reduce(sel, SelectTeam("Fulham"))
	if sel.Team != "" {
		t.Fatalf("input selection mutated: %+v", sel)
	}
}

func TestActionValidate(t *testing.T) {
	t.Parallel()

	valid := []Action{SelectSeason("2023-24"), SelectTeam("Fulham"), ClearTeam()}
	for _, a := range valid {
		if err := a.Validate(); err != nil {
			t.Fatalf("expected %+v to be valid: %v", a, err)
		}
	}
	invalid := []Action{SelectSeason("2023/2025"), SelectTeam(""), {Kind: "jump"}}
	for _, a := range invalid {
		if err := a.Validate(); err == nil {
			t.Fatalf("expected %+v to be rejected", a)
		}
	}
}

func TestChanged(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		prev Selection
		next Selection
		want []Resource
	}{
		{name: "no change", prev: Selection{Season: "2023/2024"}, next: Selection{Season: "2023/2024"}, want: nil},
		{name: "season without team", prev: Selection{Season: "2023/2024"}, next: Selection{Season: "2024/2025"}, want: []Resource{ResourceStandings}},
		{
			name: "season with team",
			prev: Selection{Season: "2023/2024", Team: "Wolves"},
			next: Selection{Season: "2024/2025", Team: "Wolves"},
			want: []Resource{ResourceStandings, ResourceTeam},
		},
		{
			name: "team selected",
			prev: Selection{Season: "2023/2024"},
			next: Selection{Season: "2023/2024", Team: "Wolves"},
			want: []Resource{ResourceTeam, ResourceSquad},
		},
		{
			name: "team cleared",
			prev: Selection{Season: "2023/2024", Team: "Wolves"},
			next: Selection{Season: "2023/2024"},
			want: []Resource{ResourceTeam, ResourceSquad},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Changed(tc.prev, tc.next)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("unexpected resources: got=%v want=%v", got, tc.want)
			}
		})
	}
}
