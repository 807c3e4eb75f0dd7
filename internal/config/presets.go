package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/albapepper/teamstats/internal/stats"
)

// Preset pins one club's selection: which league to fetch, how its name
// appears in the provider's team column, and the attack minutes cutoff.
type Preset struct {
	Name       string          `yaml:"name" json:"name"`
	League     string          `yaml:"league" json:"league"`
	Team       string          `yaml:"team" json:"team"`
	MatchMode  stats.MatchMode `yaml:"match_mode" json:"match_mode"`
	MinMinutes int             `yaml:"min_minutes" json:"min_minutes"`
}

// Filter returns the preset's team filter.
func (p Preset) Filter() stats.TeamFilter {
	mode := p.MatchMode
	if mode == "" {
		mode = stats.MatchContains
	}
	return stats.TeamFilter{Name: p.Team, Mode: mode}
}

// Presets is an ordered list of club presets.
type Presets []Preset

type presetsFile struct {
	Presets Presets `yaml:"presets"`
}

// DefaultPresets are the clubs shipped with the tool.
var DefaultPresets = Presets{
	{Name: "arsenal", League: "ENG-Premier League", Team: "Arsenal", MatchMode: stats.MatchContains, MinMinutes: 400},
	{Name: "benfica", League: "POR-Primeira Liga", Team: "Benfica", MatchMode: stats.MatchContains, MinMinutes: 300},
	{Name: "porto", League: "POR-Primeira Liga", Team: "Porto", MatchMode: stats.MatchToken, MinMinutes: 300},
	{Name: "sporting", League: "POR-Primeira Liga", Team: "Sporting CP", MatchMode: stats.MatchExact, MinMinutes: 300},
}

// LoadPresets reads a YAML presets file. An empty path returns DefaultPresets.
func LoadPresets(path string) (Presets, error) {
	if path == "" {
		return DefaultPresets, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read presets %s: %w", path, err)
	}
	return ParsePresets(raw)
}

// ParsePresets decodes and validates presets YAML.
func ParsePresets(raw []byte) (Presets, error) {
	var file presetsFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode presets: %w", err)
	}

	seen := make(map[string]bool, len(file.Presets))
	for i, p := range file.Presets {
		if p.Name == "" || p.League == "" || p.Team == "" {
			return nil, fmt.Errorf("preset %d: name, league and team are required", i)
		}
		key := strings.ToLower(p.Name)
		if seen[key] {
			return nil, fmt.Errorf("preset %q defined twice", p.Name)
		}
		seen[key] = true

		mode, err := stats.ParseMatchMode(string(p.MatchMode))
		if err != nil {
			return nil, fmt.Errorf("preset %q: %w", p.Name, err)
		}
		file.Presets[i].MatchMode = mode
		if p.MinMinutes < 0 {
			return nil, fmt.Errorf("preset %q: min_minutes must not be negative", p.Name)
		}
	}
	return file.Presets, nil
}

// Find looks up a preset by case-insensitive name.
func (ps Presets) Find(name string) (Preset, bool) {
	for _, p := range ps {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Preset{}, false
}
