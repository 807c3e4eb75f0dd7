package render

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/albapepper/teamstats/internal/pipeline"
)

// Sheet names of the exported workbook.
const (
	SheetAttack   = "Attack"
	SheetCreation = "Creation"
	SheetDefense  = "Defense"
	SheetSummary  = "Summary"
)

// Workbook builds an XLSX workbook with one sheet per view and a summary
// sheet. Rows keep the shaper's order.
func Workbook(res pipeline.Result) (*excelize.File, error) {
	f := excelize.NewFile()

	attack := [][]any{{"Player", "Team", "Minutes", "Goals", "xG", "Goals - xG"}}
	for _, r := range res.Views.Attack {
		attack = append(attack, []any{r.Player, r.Team, r.Minutes, r.Goals, r.ExpectedGoals, r.Difference})
	}
	creation := [][]any{{"Player", "Team", "xAG", "Progressive passes"}}
	for _, r := range res.Views.Creation {
		creation = append(creation, []any{r.Player, r.Team, r.ExpectedAssistedGoals, r.ProgressivePasses})
	}
	defense := [][]any{{"Player", "Team", "Tackles won", "Interceptions"}}
	for _, r := range res.Views.Defense {
		defense = append(defense, []any{r.Player, r.Team, r.TacklesWon, r.Interceptions})
	}
	summary := [][]any{
		{"League", res.League},
		{"Season", res.Season},
		{"Team", res.Team},
	}
	for _, kv := range summaryRows(res.Summary) {
		summary = append(summary, []any{kv.label, kv.value})
	}

	sheets := []struct {
		name string
		rows [][]any
	}{
		{SheetAttack, attack},
		{SheetCreation, creation},
		{SheetDefense, defense},
		{SheetSummary, summary},
	}
	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", s.name, err)
		}
		if err := writeRows(f, s.name, s.rows); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

// WriteXLSX saves the workbook for res at path.
func WriteXLSX(path string, res pipeline.Result) error {
	f, err := Workbook(res)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}
