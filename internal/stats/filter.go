package stats

import (
	"fmt"
	"strings"
)

// MatchMode selects how a TeamFilter compares team names.
type MatchMode string

const (
	// MatchExact requires the team field to equal the filter name.
	MatchExact MatchMode = "exact"
	// MatchContains accepts any team field containing the filter name.
	// "Arsenal" matches both "Arsenal FC" and "Arsenal Women".
	MatchContains MatchMode = "contains"
	// MatchToken compares case-insensitively after stripping club affixes,
	// so "Arsenal" matches "Arsenal FC" but not "Arsenal Women".
	MatchToken MatchMode = "token"
)

// ParseMatchMode parses a configured mode. Empty means MatchContains.
func ParseMatchMode(s string) (MatchMode, error) {
	switch m := MatchMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return MatchContains, nil
	case MatchExact, MatchContains, MatchToken:
		return m, nil
	default:
		return "", fmt.Errorf("unknown team match mode %q (want exact, contains or token)", s)
	}
}

// TeamFilter is the team predicate applied before any merge.
type TeamFilter struct {
	Name string    `json:"name" yaml:"team"`
	Mode MatchMode `json:"mode" yaml:"match_mode"`
}

// Match reports whether a row's team field passes the filter.
// An empty team field never matches.
func (f TeamFilter) Match(team string) bool {
	if team == "" || f.Name == "" {
		return false
	}
	switch f.Mode {
	case MatchExact:
		return team == f.Name
	case MatchToken:
		want := normalizeClub(f.Name)
		return want != "" && normalizeClub(team) == want
	default:
		return strings.Contains(team, f.Name)
	}
}

func (f TeamFilter) String() string {
	mode := f.Mode
	if mode == "" {
		mode = MatchContains
	}
	return fmt.Sprintf("%s(%s)", mode, f.Name)
}

// clubAffixes are dropped by MatchToken. Sides like "Women" or "U21"
// are deliberately absent so they stay distinct clubs.
var clubAffixes = map[string]bool{
	"fc": true, "afc": true, "cf": true, "sc": true, "ac": true,
	"ssc": true, "sv": true, "vfb": true, "vfl": true, "cd": true,
	"ud": true, "club": true, "f.c.": true, "a.f.c.": true,
}

func normalizeClub(name string) string {
	fields := strings.Fields(strings.ToLower(name))
	kept := fields[:0]
	for _, f := range fields {
		if !clubAffixes[f] {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, " ")
}
