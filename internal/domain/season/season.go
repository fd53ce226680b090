// Package season handles league season labels of the form "YYYY/YYYY".
package season

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidLabel = errors.New("invalid season label")

// defaultLabels is the simulated horizon: the 2024/2025 base season plus
// six projected seasons.
var defaultLabels = []string{
	"2024/2025",
	"2025/2026",
	"2026/2027",
	"2027/2028",
	"2028/2029",
	"2029/2030",
	"2030/2031",
}

// DefaultList returns a fresh copy of the fallback season list.
func DefaultList() []string {
	out := make([]string, len(defaultLabels))
	copy(out, defaultLabels)
	return out
}

// Normalize canonicalises a label. Short forms such as "2023/24" expand to
// "2023/2024"; the end year must follow the start year.
func Normalize(raw string) (string, error) {
	label := strings.TrimSpace(raw)
	label = strings.ReplaceAll(label, "-", "/")
	start, end, ok := strings.Cut(label, "/")
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidLabel, raw)
	}

	startYear, err := parseYear(start)
	if err != nil || len(start) != 4 {
		return "", fmt.Errorf("%w: %q", ErrInvalidLabel, raw)
	}

	var endYear int
	switch len(end) {
	case 2:
		suffix, err := strconv.Atoi(end)
		if err != nil {
			return "", fmt.Errorf("%w: %q", ErrInvalidLabel, raw)
		}
		endYear = startYear/100*100 + suffix
		if endYear < startYear {
			endYear += 100
		}
	case 4:
		endYear, err = parseYear(end)
		if err != nil {
			return "", fmt.Errorf("%w: %q", ErrInvalidLabel, raw)
		}
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidLabel, raw)
	}

	if endYear != startYear+1 {
		return "", fmt.Errorf("%w: %q spans %d to %d", ErrInvalidLabel, raw, startYear, endYear)
	}
	return fmt.Sprintf("%04d/%04d", startYear, endYear), nil
}

// NormalizeList canonicalises labels, drops invalid or duplicate ones and
// keeps the first-seen order.
func NormalizeList(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		label, err := Normalize(item)
		if err != nil {
			continue
		}
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	return out
}

func parseYear(raw string) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if v < 1800 || v > 2999 {
		return 0, fmt.Errorf("year %d out of range", v)
	}
	return v, nil
}
