package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/riskibarqy/league-forecast/internal/domain/tier"
)

const tierEnvPrefix = "TIER_"

// LoadTierProfile layers the tier profile from, lowest to highest:
//  1. tier.DefaultProfile()
//  2. the YAML file at path, when path is set
//  3. env vars with prefix TIER_, where "__" separates nesting levels
//     (TIER_TOP__BASE_POINTS=82 sets top.base_points).
func LoadTierProfile(path string) (tier.Profile, error) {
	k := koanf.New(".")

	if path = strings.TrimSpace(path); path != "" {
		if _, err := os.Stat(path); err != nil {
			return tier.Profile{}, fmt.Errorf("tier profile %s: %w", path, err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return tier.Profile{}, fmt.Errorf("load tier profile %s: %w", path, err)
		}
	}

	envProvider := env.Provider(tierEnvPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, tierEnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return tier.Profile{}, fmt.Errorf("load tier profile env: %w", err)
	}

	// ZeroFields makes a configured list replace the default list instead
	// of being merged into it element by element.
	profile := tier.DefaultProfile()
	conf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook:       mapstructure.StringToSliceHookFunc(","),
			Result:           &profile,
			WeaklyTypedInput: true,
			ZeroFields:       true,
		},
	}
	if err := k.UnmarshalWithConf("", &profile, conf); err != nil {
		return tier.Profile{}, fmt.Errorf("decode tier profile: %w", err)
	}
	if err := profile.Validate(); err != nil {
		return tier.Profile{}, fmt.Errorf("invalid tier profile: %w", err)
	}
	return profile, nil
}
