// Package tier buckets teams into strength tiers and holds the per-tier
// constants the synthetic generator draws from.
package tier

import "strings"

// Tier orders Top < Mid < Other so sorting by tier puts the strongest first.
type Tier int

const (
	Top Tier = iota
	Mid
	Other
)

func (t Tier) String() string {
	switch t {
	case Top:
		return "Top"
	case Mid:
		return "Mid"
	default:
		return "Other"
	}
}

// Classifier maps a team name to its tier. It is immutable after
// construction and safe for concurrent use.
type Classifier struct {
	top map[string]struct{}
	mid map[string]struct{}
}

func NewClassifier(top, mid []string) *Classifier {
	return &Classifier{
		top: toSet(top),
		mid: toSet(mid),
	}
}

// NewClassifierFromProfile uses the profile's membership lists.
func NewClassifierFromProfile(p Profile) *Classifier {
	return NewClassifier(p.Members.Top, p.Members.Mid)
}

// Classify is total: unknown and empty names are Other. Top wins when a
// name appears in both lists.
func (c *Classifier) Classify(team string) Tier {
	name := strings.TrimSpace(team)
	if _, ok := c.top[name]; ok {
		return Top
	}
	if _, ok := c.mid[name]; ok {
		return Mid
	}
	return Other
}

func toSet(names []string) map[string]struct{} {
	out := make(map[string]struct{}, len(names))
	for _, name := range names {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			out[trimmed] = struct{}{}
		}
	}
	return out
}
