package shape

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/teamstats/internal/stats"
)

func row(player, team string, values map[string]float64) stats.Row {
	return stats.Row{Player: player, Team: team, Values: values}
}

func table(c stats.Category, rows ...stats.Row) *stats.Table {
	return &stats.Table{
		League:   "ENG-Premier League",
		Season:   "2023-2024",
		Category: c,
		Columns:  stats.RequiredColumns[c],
		Rows:     rows,
	}
}

func arsenalFixture() map[stats.Category]*stats.Table {
	return map[stats.Category]*stats.Table{
		stats.CategoryStandard: table(stats.CategoryStandard,
			row("Bukayo Saka", "Arsenal", map[string]float64{"minutes": 1200, "goals": 10}),
			row("Gabriel Martinelli", "Arsenal", map[string]float64{"minutes": 900, "goals": 6}),
			row("Reiss Nelson", "Arsenal", map[string]float64{"minutes": 500, "goals": 2}),
			row("Cole Palmer", "Chelsea", map[string]float64{"minutes": 2500, "goals": 22}),
			row("Eddie Nketiah", "Arsenal", map[string]float64{"minutes": 350, "goals": 5}),
		),
		stats.CategoryShooting: table(stats.CategoryShooting,
			row("Bukayo Saka", "Arsenal", map[string]float64{"xg": 8.5}),
			row("Gabriel Martinelli", "Arsenal", map[string]float64{"xg": 7.0}),
			row("Cole Palmer", "Chelsea", map[string]float64{"xg": 17.9}),
			row("Eddie Nketiah", "Arsenal", map[string]float64{"xg": 4.1}),
		),
		stats.CategoryPassing: table(stats.CategoryPassing,
			row("Martin Ødegaard", "Arsenal", map[string]float64{"xg_assist": 7.9, "progressive_passes": 310}),
			row("Declan Rice", "Arsenal", map[string]float64{"xg_assist": 5.2, "progressive_passes": 250}),
			row("Enzo Fernández", "Chelsea", map[string]float64{"xg_assist": 4.4, "progressive_passes": 270}),
		),
		stats.CategoryDefense: table(stats.CategoryDefense,
			row("William Saliba", "Arsenal", map[string]float64{"tackles_won": 20, "interceptions": 31}),
			row("Declan Rice", "Arsenal", map[string]float64{"tackles_won": 45, "interceptions": 28}),
			row("Moisés Caicedo", "Chelsea", map[string]float64{"tackles_won": 60, "interceptions": 40}),
		),
	}
}

var arsenal = stats.TeamFilter{Name: "Arsenal", Mode: stats.MatchContains}

func TestShapeArsenalScenario(t *testing.T) {
	views, err := Shape(arsenalFixture(), arsenal, Options{MinMinutes: 400})
	require.NoError(t, err)

	expectAttack := []AttackRow{
		{Player: "Bukayo Saka", Team: "Arsenal", Minutes: 1200, Goals: 10, ExpectedGoals: 8.5, Difference: 1.5},
		{Player: "Gabriel Martinelli", Team: "Arsenal", Minutes: 900, Goals: 6, ExpectedGoals: 7.0, Difference: -1.0},
	}
	require.Empty(t, cmp.Diff(expectAttack, views.Attack))

	expectCreation := []CreationRow{
		{Player: "Martin Ødegaard", Team: "Arsenal", ExpectedAssistedGoals: 7.9, ProgressivePasses: 310},
		{Player: "Declan Rice", Team: "Arsenal", ExpectedAssistedGoals: 5.2, ProgressivePasses: 250},
	}
	require.Empty(t, cmp.Diff(expectCreation, views.Creation))

	expectDefense := []DefenseRow{
		{Player: "William Saliba", Team: "Arsenal", TacklesWon: 20, Interceptions: 31},
		{Player: "Declan Rice", Team: "Arsenal", TacklesWon: 45, Interceptions: 28},
	}
	require.Empty(t, cmp.Diff(expectDefense, views.Defense))
}

func TestShapeDropsPlayersWithoutShootingRow(t *testing.T) {
	tables := map[stats.Category]*stats.Table{
		stats.CategoryStandard: table(stats.CategoryStandard,
			row("Reiss Nelson", "Arsenal", map[string]float64{"minutes": 500, "goals": 2}),
		),
		stats.CategoryShooting: table(stats.CategoryShooting,
			row("Bukayo Saka", "Arsenal", map[string]float64{"xg": 8.5}),
		),
	}
	views, err := Shape(tables, arsenal, Options{})
	require.NoError(t, err)
	require.Empty(t, views.Attack)
}

func TestShapeEmptyTables(t *testing.T) {
	empty := map[stats.Category]*stats.Table{
		stats.CategoryStandard: {Category: stats.CategoryStandard},
		stats.CategoryShooting: {Category: stats.CategoryShooting},
		stats.CategoryPassing:  {Category: stats.CategoryPassing},
		stats.CategoryDefense:  {Category: stats.CategoryDefense},
	}
	for _, tables := range []map[stats.Category]*stats.Table{empty, nil, {}} {
		views, err := Shape(tables, arsenal, Options{MinMinutes: 300})
		require.NoError(t, err)
		require.NotNil(t, views.Attack)
		require.NotNil(t, views.Creation)
		require.NotNil(t, views.Defense)
		require.Empty(t, views.Attack)
		require.Empty(t, views.Creation)
		require.Empty(t, views.Defense)
	}
}

func TestShapeDifferenceIsExact(t *testing.T) {
	views, err := Shape(arsenalFixture(), stats.TeamFilter{Name: "e", Mode: stats.MatchContains}, Options{})
	require.NoError(t, err)
	require.NotEmpty(t, views.Attack)
	for _, r := range views.Attack {
		require.Equal(t, r.Goals-r.ExpectedGoals, r.Difference, r.Player)
	}
}

func TestShapeMinutesThresholdIsMonotonic(t *testing.T) {
	tables := arsenalFixture()
	prev := -1
	for _, threshold := range []int{0, 100, 350, 351, 400, 500, 501, 900, 1200, 1201, 5000} {
		views, err := Shape(tables, arsenal, Options{MinMinutes: threshold})
		require.NoError(t, err)
		if prev >= 0 {
			require.LessOrEqual(t, len(views.Attack), prev, "threshold %d", threshold)
		}
		prev = len(views.Attack)
	}

	views, err := Shape(tables, arsenal, Options{MinMinutes: 900})
	require.NoError(t, err)
	require.Len(t, views.Attack, 2, "rows at exactly the threshold are kept")
}

func TestShapeThresholdOnlyAffectsAttack(t *testing.T) {
	tables := arsenalFixture()
	low, err := Shape(tables, arsenal, Options{})
	require.NoError(t, err)
	high, err := Shape(tables, arsenal, Options{MinMinutes: 100000})
	require.NoError(t, err)

	require.Empty(t, high.Attack)
	require.Equal(t, low.Creation, high.Creation)
	require.Equal(t, low.Defense, high.Defense)
}

func TestShapeFiltersBeforeMerge(t *testing.T) {
	// Same name on two clubs: the Chelsea shooting row must never join the
	// Arsenal standard row.
	tables := map[stats.Category]*stats.Table{
		stats.CategoryStandard: table(stats.CategoryStandard,
			row("Jorginho", "Arsenal", map[string]float64{"minutes": 800, "goals": 1}),
		),
		stats.CategoryShooting: table(stats.CategoryShooting,
			row("Jorginho", "Chelsea", map[string]float64{"xg": 3.2}),
		),
	}
	views, err := Shape(tables, arsenal, Options{})
	require.NoError(t, err)
	require.Empty(t, views.Attack)
}

func TestShapeKeepsMultipleStints(t *testing.T) {
	tables := map[stats.Category]*stats.Table{
		stats.CategoryStandard: table(stats.CategoryStandard,
			row("Player A", "Arsenal", map[string]float64{"minutes": 600, "goals": 3}),
			row("Player A", "Arsenal", map[string]float64{"minutes": 700, "goals": 4}),
			row("Player A", "Arsenal", map[string]float64{"minutes": 800, "goals": 5}),
		),
		stats.CategoryShooting: table(stats.CategoryShooting,
			row("Player A", "Arsenal", map[string]float64{"xg": 2.5}),
			row("Player A", "Arsenal", map[string]float64{"xg": 3.5}),
		),
	}
	views, err := Shape(tables, arsenal, Options{})
	require.NoError(t, err)
	require.Len(t, views.Attack, 2)
	require.Equal(t, 0.5, views.Attack[0].Difference)
	require.Equal(t, 0.5, views.Attack[1].Difference)
}

func TestShapeTokenModeExcludesWomenSide(t *testing.T) {
	tables := map[stats.Category]*stats.Table{
		stats.CategoryDefense: table(stats.CategoryDefense,
			row("Saliba", "Arsenal FC", map[string]float64{"tackles_won": 20, "interceptions": 31}),
			row("Williamson", "Arsenal Women", map[string]float64{"tackles_won": 25, "interceptions": 22}),
		),
	}

	substring, err := Shape(tables, arsenal, Options{})
	require.NoError(t, err)
	require.Len(t, substring.Defense, 2)

	token, err := Shape(tables, stats.TeamFilter{Name: "Arsenal", Mode: stats.MatchToken}, Options{})
	require.NoError(t, err)
	require.Len(t, token.Defense, 1)
	require.Equal(t, "Arsenal FC", token.Defense[0].Team)
}

func TestShapeMissingColumn(t *testing.T) {
	tables := arsenalFixture()
	broken := *tables[stats.CategoryDefense]
	broken.Columns = []string{stats.ColTacklesWon}
	tables[stats.CategoryDefense] = &broken

	_, err := Shape(tables, arsenal, Options{})
	require.ErrorIs(t, err, stats.ErrShapeMismatch)

	var mismatch *stats.ShapeMismatchError
	require.ErrorAs(t, err, &mismatch)
	require.Equal(t, stats.CategoryDefense, mismatch.Category)
	require.Equal(t, stats.ColInterceptions, mismatch.Column)
}

func TestShapeDropsNullMetrics(t *testing.T) {
	tables := map[stats.Category]*stats.Table{
		stats.CategoryPassing: table(stats.CategoryPassing,
			row("Trialist", "Arsenal", map[string]float64{"progressive_passes": 3}),
			row("Declan Rice", "Arsenal", map[string]float64{"xg_assist": 5.2, "progressive_passes": 250}),
		),
	}
	views, err := Shape(tables, arsenal, Options{})
	require.NoError(t, err)
	require.Len(t, views.Creation, 1)
	require.Equal(t, "Declan Rice", views.Creation[0].Player)
}

func TestShapeDoesNotMutateInput(t *testing.T) {
	tables := arsenalFixture()
	before := len(tables[stats.CategoryStandard].Rows)
	_, err := Shape(tables, arsenal, Options{MinMinutes: 400})
	require.NoError(t, err)
	require.Len(t, tables[stats.CategoryStandard].Rows, before)
}

func TestFilterTeam(t *testing.T) {
	filtered := FilterTeam(arsenalFixture(), arsenal)
	require.Len(t, filtered, 4)
	for c, tbl := range filtered {
		for _, r := range tbl.Rows {
			require.Equal(t, "Arsenal", r.Team, c)
		}
	}
	again := FilterTeam(filtered, arsenal)
	require.Empty(t, cmp.Diff(filtered, again))
}
