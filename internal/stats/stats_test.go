package stats

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSeason(t *testing.T) {
	testCases := []struct {
		season string
		valid  bool
	}{
		{season: "2023-2024", valid: true},
		{season: "1999-2000", valid: true},
		{season: "2023", valid: false},
		{season: "2023-24", valid: false},
		{season: "2023/2024", valid: false},
		{season: "2023-2025", valid: false},
		{season: "2024-2023", valid: false},
		{season: " 2023-2024", valid: false},
		{season: "", valid: false},
	}

	for _, test := range testCases {
		err := ValidateSeason(test.season)
		if test.valid {
			require.NoError(t, err, test.season)
			continue
		}
		require.Error(t, err, test.season)
		require.ErrorIs(t, err, ErrInvalidSeasonFormat)

		var typed *InvalidSeasonFormatError
		require.True(t, errors.As(err, &typed))
		require.Equal(t, test.season, typed.Season)
	}
}

func TestSeasonStartYear(t *testing.T) {
	year, err := SeasonStartYear("2021-2022")
	require.NoError(t, err)
	require.Equal(t, 2021, year)

	_, err = SeasonStartYear("2021")
	require.ErrorIs(t, err, ErrInvalidSeasonFormat)
}

func TestTeamFilterMatch(t *testing.T) {
	testCases := []struct {
		filter TeamFilter
		team   string
		expect bool
	}{
		{filter: TeamFilter{Name: "Arsenal", Mode: MatchContains}, team: "Arsenal", expect: true},
		{filter: TeamFilter{Name: "Arsenal", Mode: MatchContains}, team: "Arsenal FC", expect: true},
		{filter: TeamFilter{Name: "Arsenal", Mode: MatchContains}, team: "Arsenal Women", expect: true},
		{filter: TeamFilter{Name: "Arsenal", Mode: MatchContains}, team: "arsenal", expect: false},
		{filter: TeamFilter{Name: "Arsenal", Mode: ""}, team: "Arsenal FC", expect: true},

		{filter: TeamFilter{Name: "Arsenal", Mode: MatchToken}, team: "Arsenal FC", expect: true},
		{filter: TeamFilter{Name: "Arsenal", Mode: MatchToken}, team: "arsenal", expect: true},
		{filter: TeamFilter{Name: "Arsenal", Mode: MatchToken}, team: "Arsenal Women", expect: false},
		{filter: TeamFilter{Name: "Arsenal FC", Mode: MatchToken}, team: "Arsenal", expect: true},
		{filter: TeamFilter{Name: "FC", Mode: MatchToken}, team: "AFC", expect: false},

		{filter: TeamFilter{Name: "Arsenal", Mode: MatchExact}, team: "Arsenal", expect: true},
		{filter: TeamFilter{Name: "Arsenal", Mode: MatchExact}, team: "Arsenal FC", expect: false},

		{filter: TeamFilter{Name: "Arsenal", Mode: MatchContains}, team: "", expect: false},
		{filter: TeamFilter{Name: "", Mode: MatchContains}, team: "Arsenal", expect: false},
	}

	for _, test := range testCases {
		got := test.filter.Match(test.team)
		assert.Equal(t, test.expect, got, "%s against %q", test.filter, test.team)
	}
}

func TestParseMatchMode(t *testing.T) {
	mode, err := ParseMatchMode("")
	require.NoError(t, err)
	require.Equal(t, MatchContains, mode)

	mode, err = ParseMatchMode(" Token ")
	require.NoError(t, err)
	require.Equal(t, MatchToken, mode)

	_, err = ParseMatchMode("fuzzy")
	require.Error(t, err)
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("Shooting")
	require.NoError(t, err)
	require.Equal(t, CategoryShooting, c)

	_, err = ParseCategory("keepers")
	require.Error(t, err)
}

func TestTableFilterIsIdempotent(t *testing.T) {
	table := &Table{
		Category: CategoryStandard,
		Columns:  []string{ColMinutes, ColGoals},
		Rows: []Row{
			{Player: "Saka", Team: "Arsenal", Values: map[string]float64{ColMinutes: 1200}},
			{Player: "Palmer", Team: "Chelsea", Values: map[string]float64{ColMinutes: 1500}},
			{Player: "Russo", Team: "Arsenal Women", Values: map[string]float64{ColMinutes: 900}},
			{Player: "Unknown", Team: "", Values: map[string]float64{ColMinutes: 10}},
		},
	}

	for _, mode := range []MatchMode{MatchExact, MatchContains, MatchToken} {
		f := TeamFilter{Name: "Arsenal", Mode: mode}
		once := table.Filter(f)
		twice := once.Filter(f)
		require.Equal(t, once.Rows, twice.Rows, "mode %s", mode)
		for _, r := range once.Rows {
			require.NotEmpty(t, r.Team)
		}
	}

	require.Len(t, table.Filter(TeamFilter{Name: "Arsenal", Mode: MatchContains}).Rows, 2)
	require.Len(t, table.Filter(TeamFilter{Name: "Arsenal", Mode: MatchToken}).Rows, 1)
	require.Len(t, table.Rows, 4)
}

func TestSourceUnavailableMessage(t *testing.T) {
	cause := fmt.Errorf("connection reset")
	err := &SourceUnavailableError{
		League:   "ENG-Premier League",
		Season:   "2023-2024",
		Category: CategoryPassing,
		Err:      cause,
	}
	require.ErrorIs(t, err, ErrSourceUnavailable)
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "wait about 15 minutes")

	err.Status = 429
	err.RetryAfter = 90 * time.Second
	require.Contains(t, err.Error(), "HTTP 429")
	require.Contains(t, err.Error(), "wait about 2 minutes")
}

func TestShapeMismatchError(t *testing.T) {
	err := error(&ShapeMismatchError{Category: CategoryDefense, Column: ColTacklesWon})
	require.ErrorIs(t, err, ErrShapeMismatch)
	require.NotErrorIs(t, err, ErrSourceUnavailable)
	require.Contains(t, err.Error(), "defense")
	require.Contains(t, err.Error(), "tackles_won")
}
