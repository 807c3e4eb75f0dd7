// Package render presents shaped views and raw tables: go-pretty tables for
// the terminal and an excelize workbook for spreadsheets.
package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/albapepper/teamstats/internal/pipeline"
	"github.com/albapepper/teamstats/internal/shape"
	"github.com/albapepper/teamstats/internal/stats"
)

// Ranked applies the top-n rankings used for presentation. n <= 0 keeps the
// shaper's source order.
func Ranked(v shape.Views, n int) shape.Views {
	if n <= 0 {
		return v
	}
	return shape.Views{
		Attack:   shape.TopFinishers(v.Attack, n),
		Creation: shape.TopCreators(v.Creation, n),
		Defense:  shape.TopDefenders(v.Defense, n),
	}
}

// Views writes the three views and the summary as terminal tables.
func Views(w io.Writer, res pipeline.Result, top int) {
	v := Ranked(res.Views, top)
	fmt.Fprintf(w, "%s · %s · %s\n\n", res.Team, res.League, res.Season)

	atk := newWriter(w, "Finishing: goals vs expected goals")
	atk.AppendHeader(table.Row{"Player", "Min", "Gls", "xG", "Gls - xG"})
	for _, r := range v.Attack {
		atk.AppendRow(table.Row{r.Player, num(r.Minutes, 0), num(r.Goals, 0), num(r.ExpectedGoals, 1), signed(r.Difference)})
	}
	atk.Render()
	fmt.Fprintln(w)

	cre := newWriter(w, "Creation: expected assists and progressive passes")
	cre.AppendHeader(table.Row{"Player", "xAG", "PrgP"})
	for _, r := range v.Creation {
		cre.AppendRow(table.Row{r.Player, num(r.ExpectedAssistedGoals, 1), num(r.ProgressivePasses, 0)})
	}
	cre.Render()
	fmt.Fprintln(w)

	def := newWriter(w, "Defense: tackles won and interceptions")
	def.AppendHeader(table.Row{"Player", "TklW", "Int"})
	for _, r := range v.Defense {
		def.AppendRow(table.Row{r.Player, num(r.TacklesWon, 0), num(r.Interceptions, 0)})
	}
	def.Render()
	fmt.Fprintln(w)

	Summary(w, res.Summary)
}

// Summary writes the aggregate figures as a two-column table.
func Summary(w io.Writer, s shape.Summary) {
	t := newWriter(w, "Summary")
	for _, kv := range summaryRows(s) {
		t.AppendRow(table.Row{kv.label, kv.value})
	}
	t.Render()
}

// Table writes a raw category table with its columns in provider order.
func Table(w io.Writer, t *stats.Table) {
	tw := newWriter(w, fmt.Sprintf("%s %s %s (%d rows)", t.League, t.Season, t.Category, t.Len()))
	header := table.Row{"Player", "Team"}
	for _, c := range t.Columns {
		header = append(header, c)
	}
	tw.AppendHeader(header)
	for _, r := range t.Rows {
		row := table.Row{r.Player, r.Team}
		for _, c := range t.Columns {
			if v, ok := r.Value(c); ok {
				row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
			} else {
				row = append(row, "")
			}
		}
		tw.AppendRow(row)
	}
	tw.Render()
}

func newWriter(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(title)
	t.SetStyle(table.StyleRounded)
	t.Style().Title.Align = text.AlignLeft
	return t
}

type summaryRow struct {
	label string
	value string
}

func summaryRows(s shape.Summary) []summaryRow {
	return []summaryRow{
		{"Attack players", strconv.Itoa(s.AttackPlayers)},
		{"Total goals", num(s.TotalGoals, 0)},
		{"Total xG", num(s.TotalExpectedGoals, 1)},
		{"Mean goals - xG", signed(s.MeanDifference)},
		{"Creation players", strconv.Itoa(s.CreationPlayers)},
		{"Total xAG", num(s.TotalExpectedAssist, 1)},
		{"Median progressive passes", num(s.MedianProgressive, 1)},
		{"Defense players", strconv.Itoa(s.DefensePlayers)},
		{"Total tackles won", num(s.TotalTacklesWon, 0)},
		{"Total interceptions", num(s.TotalInterceptions, 0)},
	}
}

func num(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

func signed(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	if v > 0 {
		return "+" + s
	}
	return s
}
