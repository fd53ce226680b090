package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/riskibarqy/league-forecast/internal/domain/tier"
	"github.com/smartystreets/goconvey/convey"
)

const testProfileYAML = `
members:
  top: ["Man City", "Arsenal"]
  mid: ["Brighton"]
roster: ["Man City", "Arsenal", "Brighton", "Luton"]
top:
  base_points: 85
  win_rate: 0.7
  draw_rate: 0.15
`

func TestLoadTierProfile(t *testing.T) {
	convey.Convey("Given a tier profile loader", t, func() {
		convey.Convey("When no file and no env overrides are present", func() {
			profile, err := LoadTierProfile("")

			convey.Convey("Then it returns the built-in profile", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(profile.Roster, convey.ShouldResemble, tier.DefaultProfile().Roster)
				convey.So(profile.Top.BasePoints, convey.ShouldEqual, 80)
			})
		})

		convey.Convey("When a YAML file overrides part of the profile", func() {
			path := filepath.Join(t.TempDir(), "tiers.yaml")
			convey.So(os.WriteFile(path, []byte(testProfileYAML), 0o600), convey.ShouldBeNil)

			profile, err := LoadTierProfile(path)

			convey.Convey("Then file values replace defaults and untouched keys survive", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(profile.Roster, convey.ShouldResemble, []string{"Man City", "Arsenal", "Brighton", "Luton"})
				convey.So(profile.Members.Top, convey.ShouldResemble, []string{"Man City", "Arsenal"})
				convey.So(profile.Top.BasePoints, convey.ShouldEqual, 85)
				convey.So(profile.Top.WinRate, convey.ShouldEqual, 0.7)
				convey.So(profile.Mid.BasePoints, convey.ShouldEqual, tier.DefaultProfile().Mid.BasePoints)
			})
		})

		convey.Convey("When the file does not exist", func() {
			_, err := LoadTierProfile(filepath.Join(t.TempDir(), "missing.yaml"))

			convey.Convey("Then loading fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestLoadTierProfile_EnvOverrides(t *testing.T) {
	t.Setenv("TIER_OTHER__BASE_POINTS", "38")
	t.Setenv("TIER_POINTS_JITTER__MAX", "6")

	profile, err := LoadTierProfile("")
	if err != nil {
		t.Fatalf("load tier profile: %v", err)
	}
	if profile.Other.BasePoints != 38 {
		t.Fatalf("unexpected other base points: %v", profile.Other.BasePoints)
	}
	if profile.PointsJitter.Max != 6 || profile.PointsJitter.Min != -5 {
		t.Fatalf("unexpected points jitter: %+v", profile.PointsJitter)
	}
}

func TestLoadTierProfile_RejectsInvalidRates(t *testing.T) {
	t.Setenv("TIER_MID__WIN_RATE", "0.9")
	t.Setenv("TIER_MID__DRAW_RATE", "0.3")

	if _, err := LoadTierProfile(""); err == nil {
		t.Fatalf("expected error when win_rate + draw_rate exceeds 1")
	}
}
