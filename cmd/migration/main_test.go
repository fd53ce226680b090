package main

import "testing"

func TestParseSteps(t *testing.T) {
	if got, err := parseSteps(nil); err != nil || got != 1 {
		t.Fatalf("parseSteps(nil)=%d,%v want 1,nil", got, err)
	}
	if got, err := parseSteps([]string{" 3 "}); err != nil || got != 3 {
		t.Fatalf("parseSteps(3)=%d,%v want 3,nil", got, err)
	}
	for _, bad := range []string{"0", "-1", "x"} {
		if _, err := parseSteps([]string{bad}); err == nil {
			t.Fatalf("parseSteps(%q) expected error", bad)
		}
	}
}

func TestParseVersionAndTarget(t *testing.T) {
	if got, err := parseVersion("1"); err != nil || got != 1 {
		t.Fatalf("parseVersion(1)=%d,%v", got, err)
	}
	if _, err := parseVersion("-2"); err == nil {
		t.Fatalf("expected negative version to fail")
	}
	if got, err := parseTarget("12"); err != nil || got != 12 {
		t.Fatalf("parseTarget(12)=%d,%v", got, err)
	}
	if _, err := parseTarget("-1"); err == nil {
		t.Fatalf("expected negative target to fail")
	}
}
