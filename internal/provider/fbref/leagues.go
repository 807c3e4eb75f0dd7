package fbref

import (
	"fmt"
	"sort"

	"github.com/albapepper/teamstats/internal/stats"
)

// League maps a league id to its FBref competition. Calendar-year leagues
// publish a season under its start year: "2023-2024" reads FBref's "2023".
type League struct {
	ID           string `json:"id"`      // e.g. "ENG-Premier League"
	CompID       int    `json:"comp_id"` // FBref competition number
	Slug         string `json:"slug"`    // URL name, e.g. "Premier-League"
	CalendarYear bool   `json:"calendar_year,omitempty"`
}

var leagues = map[string]League{
	"ENG-Premier League":      {ID: "ENG-Premier League", CompID: 9, Slug: "Premier-League"},
	"ESP-La Liga":             {ID: "ESP-La Liga", CompID: 12, Slug: "La-Liga"},
	"ITA-Serie A":             {ID: "ITA-Serie A", CompID: 11, Slug: "Serie-A"},
	"GER-Bundesliga":          {ID: "GER-Bundesliga", CompID: 20, Slug: "Bundesliga"},
	"FRA-Ligue 1":             {ID: "FRA-Ligue 1", CompID: 13, Slug: "Ligue-1"},
	"ENG-Championship":        {ID: "ENG-Championship", CompID: 10, Slug: "Championship"},
	"USA-Major League Soccer": {ID: "USA-Major League Soccer", CompID: 22, Slug: "Major-League-Soccer", CalendarYear: true},
	"POR-Primeira Liga":       {ID: "POR-Primeira Liga", CompID: 32, Slug: "Primeira-Liga"},
	"NED-Eredivisie":          {ID: "NED-Eredivisie", CompID: 23, Slug: "Eredivisie"},
}

// LookupLeague resolves a league id.
func LookupLeague(id string) (League, error) {
	l, ok := leagues[id]
	if !ok {
		return League{}, fmt.Errorf("%w %q", stats.ErrUnknownLeague, id)
	}
	return l, nil
}

// Leagues returns every supported league sorted by id.
func Leagues() []League {
	out := make([]League, 0, len(leagues))
	for _, l := range leagues {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// pagePath returns the stats page path for a category, relative to the base
// URL. season must already be validated.
func (l League) pagePath(season string, category stats.Category) string {
	page := string(category)
	if category == stats.CategoryStandard {
		page = "stats"
	}
	label := season
	if l.CalendarYear {
		label = season[:4]
	}
	return fmt.Sprintf("/en/comps/%d/%s/%s/%s-%s-Stats", l.CompID, label, page, label, l.Slug)
}
