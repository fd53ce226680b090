package squad

import "testing"

func TestParsePosition(t *testing.T) {
	t.Parallel()

	cases := map[string]Position{
		"Goalkeeper": PositionGoalkeeper,
		"GK":         PositionGoalkeeper,
		"Defender":   PositionDefender,
		" def ":      PositionDefender,
		"Midfielder": PositionMidfielder,
		"MF":         PositionMidfielder,
		"Attacker":   PositionForward,
		"forward":    PositionForward,
	}
	for in, want := range cases {
		got, ok := ParsePosition(in)
		if !ok || got != want {
			t.Fatalf("ParsePosition(%q) = %q, %v; want %q", in, got, ok, want)
		}
	}

	if _, ok := ParsePosition("sweeper"); ok {
		t.Fatalf("unexpected match for unknown position")
	}
}

func TestPositionLabel(t *testing.T) {
	t.Parallel()

	if PositionForward.Label() != "Forward" {
		t.Fatalf("unexpected label %q", PositionForward.Label())
	}
	if PositionUnknown.Label() != "Unknown" {
		t.Fatalf("unexpected label %q", PositionUnknown.Label())
	}
}
