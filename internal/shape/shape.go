// Package shape turns raw per-category season tables into the team-filtered
// per-player views used for presentation: attack (goals against expected
// goals), creation (expected assists and progressive passes) and defense
// (tackles won and interceptions).
//
// Shaping is purely transformational. Input tables are never mutated.
package shape

import (
	"github.com/albapepper/teamstats/internal/stats"
)

// AttackRow compares finishing output with expected goals.
type AttackRow struct {
	Player        string  `json:"player"`
	Team          string  `json:"team"`
	Minutes       float64 `json:"minutes"`
	Goals         float64 `json:"goals"`
	ExpectedGoals float64 `json:"expected_goals"`
	Difference    float64 `json:"difference"`
}

// CreationRow carries chance creation and ball progression.
type CreationRow struct {
	Player                string  `json:"player"`
	Team                  string  `json:"team"`
	ExpectedAssistedGoals float64 `json:"expected_assisted_goals"`
	ProgressivePasses     float64 `json:"progressive_passes"`
}

// DefenseRow carries ball-winning actions.
type DefenseRow struct {
	Player        string  `json:"player"`
	Team          string  `json:"team"`
	TacklesWon    float64 `json:"tackles_won"`
	Interceptions float64 `json:"interceptions"`
}

// Views is the shaped output. Slices are never nil.
type Views struct {
	Attack   []AttackRow   `json:"attack"`
	Creation []CreationRow `json:"creation"`
	Defense  []DefenseRow  `json:"defense"`
}

// Options tune shaping. MinMinutes applies to the attack view only;
// zero disables it.
type Options struct {
	MinMinutes int
}

// Shape filters every category table by team, then builds the three views.
// A missing or nil category is treated as an empty table. A non-empty table
// lacking a required column yields a *stats.ShapeMismatchError.
func Shape(tables map[stats.Category]*stats.Table, filter stats.TeamFilter, opts Options) (Views, error) {
	filtered := make(map[stats.Category]*stats.Table, len(stats.AllCategories))
	for _, c := range stats.AllCategories {
		if err := checkColumns(c, tables[c]); err != nil {
			return Views{}, err
		}
		filtered[c] = tables[c].Filter(filter)
	}

	return Views{
		Attack:   attack(filtered[stats.CategoryStandard], filtered[stats.CategoryShooting], opts.MinMinutes),
		Creation: creation(filtered[stats.CategoryPassing]),
		Defense:  defense(filtered[stats.CategoryDefense]),
	}, nil
}

// FilterTeam applies f to every table. Categories absent from tables stay absent.
func FilterTeam(tables map[stats.Category]*stats.Table, f stats.TeamFilter) map[stats.Category]*stats.Table {
	out := make(map[stats.Category]*stats.Table, len(tables))
	for c, t := range tables {
		out[c] = t.Filter(f)
	}
	return out
}

// checkColumns runs on the unfiltered table so schema drift is reported
// even when the team has no rows.
func checkColumns(c stats.Category, t *stats.Table) error {
	if t.Len() == 0 {
		return nil
	}
	for _, col := range stats.RequiredColumns[c] {
		if !t.HasColumn(col) {
			return &stats.ShapeMismatchError{Category: c, Column: col}
		}
	}
	return nil
}

type playerKey struct {
	player string
	team   string
}

// attack inner-merges standard and shooting rows on (player, team).
// Repeated keys pair by occurrence, so the k-th stint in standard joins the
// k-th stint in shooting and unmatched stints drop out.
func attack(standard, shooting *stats.Table, minMinutes int) []AttackRow {
	rows := make([]AttackRow, 0, standard.Len())
	if standard.Len() == 0 || shooting.Len() == 0 {
		return rows
	}

	xg := make(map[playerKey][]stats.Row, shooting.Len())
	for _, r := range shooting.Rows {
		k := playerKey{r.Player, r.Team}
		xg[k] = append(xg[k], r)
	}

	seen := make(map[playerKey]int, standard.Len())
	for _, r := range standard.Rows {
		k := playerKey{r.Player, r.Team}
		i := seen[k]
		seen[k]++
		matches := xg[k]
		if i >= len(matches) {
			continue
		}

		minutes, ok1 := r.Value(stats.ColMinutes)
		goals, ok2 := r.Value(stats.ColGoals)
		expected, ok3 := matches[i].Value(stats.ColExpectedGoals)
		if !ok1 || !ok2 || !ok3 {
			continue
		}
		if minMinutes > 0 && minutes < float64(minMinutes) {
			continue
		}

		rows = append(rows, AttackRow{
			Player:        r.Player,
			Team:          r.Team,
			Minutes:       minutes,
			Goals:         goals,
			ExpectedGoals: expected,
			Difference:    goals - expected,
		})
	}
	return rows
}

func creation(passing *stats.Table) []CreationRow {
	rows := make([]CreationRow, 0, passing.Len())
	if passing == nil {
		return rows
	}
	for _, r := range passing.Rows {
		xag, ok1 := r.Value(stats.ColExpectedAssisted)
		prgp, ok2 := r.Value(stats.ColProgressivePasses)
		if !ok1 || !ok2 {
			continue
		}
		rows = append(rows, CreationRow{
			Player:                r.Player,
			Team:                  r.Team,
			ExpectedAssistedGoals: xag,
			ProgressivePasses:     prgp,
		})
	}
	return rows
}

func defense(def *stats.Table) []DefenseRow {
	rows := make([]DefenseRow, 0, def.Len())
	if def == nil {
		return rows
	}
	for _, r := range def.Rows {
		tklw, ok1 := r.Value(stats.ColTacklesWon)
		intc, ok2 := r.Value(stats.ColInterceptions)
		if !ok1 || !ok2 {
			continue
		}
		rows = append(rows, DefenseRow{
			Player:        r.Player,
			Team:          r.Team,
			TacklesWon:    tklw,
			Interceptions: intc,
		})
	}
	return rows
}
