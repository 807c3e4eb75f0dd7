package fbref

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/albapepper/teamstats/internal/stats"
)

// columns lists, per category, the data-stat attributes kept from a page.
// Keys are already the canonical column names used by the shaper.
var columns = map[stats.Category][]string{
	stats.CategoryStandard: {stats.ColMinutes, stats.ColGoals, "assists", "games", "games_starts", "xg", "npxg"},
	stats.CategoryShooting: {stats.ColExpectedGoals, "shots", "shots_on_target", "npxg", "goals"},
	stats.CategoryPassing:  {stats.ColExpectedAssisted, stats.ColProgressivePasses, "passes_completed", "passes", "assisted_shots"},
	stats.CategoryDefense:  {stats.ColTacklesWon, stats.ColInterceptions, "tackles", "blocks", "clearances"},
}

// skipRowClasses mark repeated header and separator rows inside tbody.
var skipRowClasses = []string{"thead", "over_header", "spacer", "partial_table"}

// ParseTable extracts the player table for category from an FBref page.
// A page without the table yields *stats.ShapeMismatchError.
func ParseTable(page []byte, category stats.Category) (*stats.Table, error) {
	clean := bytes.ReplaceAll(page, []byte("<!--"), nil)
	clean = bytes.ReplaceAll(clean, []byte("-->"), nil)

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(clean))
	if err != nil {
		return nil, fmt.Errorf("parse %s page: %w", category, err)
	}

	tableID := "stats_" + string(category)
	table := doc.Find("table#" + tableID).First()
	if table.Length() == 0 {
		return nil, &stats.ShapeMismatchError{Category: category, Column: "table:" + tableID}
	}

	header := headerStats(table)
	out := &stats.Table{Category: category, Rows: []stats.Row{}}
	for _, col := range columns[category] {
		if header[col] {
			out.Columns = append(out.Columns, col)
		}
	}

	table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		class := tr.AttrOr("class", "")
		for _, skip := range skipRowClasses {
			if hasClass(class, skip) {
				return
			}
		}
		player := strings.TrimSpace(tr.Find("[data-stat='player']").First().Text())
		if player == "" {
			return
		}
		row := stats.Row{
			Player: player,
			Team:   strings.TrimSpace(tr.Find("[data-stat='team']").First().Text()),
			Values: make(map[string]float64, len(out.Columns)),
		}
		for _, col := range out.Columns {
			if v, ok := parseNumber(tr.Find("[data-stat='" + col + "']").First().Text()); ok {
				row.Values[col] = v
			}
		}
		out.Rows = append(out.Rows, row)
	})

	return out, nil
}

// headerStats collects the data-stat attributes of the table's last header row.
func headerStats(table *goquery.Selection) map[string]bool {
	seen := make(map[string]bool)
	table.Find("thead tr").Last().Find("th").Each(func(_ int, th *goquery.Selection) {
		if stat, ok := th.Attr("data-stat"); ok {
			seen[stat] = true
		}
	})
	return seen
}

func hasClass(classAttr, name string) bool {
	for _, c := range strings.Fields(classAttr) {
		if c == name {
			return true
		}
	}
	return false
}

// parseNumber reads "1,234" or "8.5". Blank cells are nulls.
func parseNumber(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
