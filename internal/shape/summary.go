package shape

import (
	descstats "github.com/montanaflynn/stats"
)

// Summary holds team-level aggregates over the shaped views. Means and
// medians are zero for empty views.
type Summary struct {
	AttackPlayers       int     `json:"attack_players"`
	TotalGoals          float64 `json:"total_goals"`
	TotalExpectedGoals  float64 `json:"total_expected_goals"`
	MeanDifference      float64 `json:"mean_difference"`
	CreationPlayers     int     `json:"creation_players"`
	TotalExpectedAssist float64 `json:"total_expected_assisted_goals"`
	MedianProgressive   float64 `json:"median_progressive_passes"`
	DefensePlayers      int     `json:"defense_players"`
	TotalTacklesWon     float64 `json:"total_tackles_won"`
	TotalInterceptions  float64 `json:"total_interceptions"`
}

// Summarize aggregates v.
func Summarize(v Views) Summary {
	goals := make(descstats.Float64Data, len(v.Attack))
	xg := make(descstats.Float64Data, len(v.Attack))
	diff := make(descstats.Float64Data, len(v.Attack))
	for i, r := range v.Attack {
		goals[i], xg[i], diff[i] = r.Goals, r.ExpectedGoals, r.Difference
	}

	xag := make(descstats.Float64Data, len(v.Creation))
	prgp := make(descstats.Float64Data, len(v.Creation))
	for i, r := range v.Creation {
		xag[i], prgp[i] = r.ExpectedAssistedGoals, r.ProgressivePasses
	}

	tklw := make(descstats.Float64Data, len(v.Defense))
	intc := make(descstats.Float64Data, len(v.Defense))
	for i, r := range v.Defense {
		tklw[i], intc[i] = r.TacklesWon, r.Interceptions
	}

	return Summary{
		AttackPlayers:       len(v.Attack),
		TotalGoals:          orZero(goals.Sum()),
		TotalExpectedGoals:  orZero(xg.Sum()),
		MeanDifference:      orZero(diff.Mean()),
		CreationPlayers:     len(v.Creation),
		TotalExpectedAssist: orZero(xag.Sum()),
		MedianProgressive:   orZero(prgp.Median()),
		DefensePlayers:      len(v.Defense),
		TotalTacklesWon:     orZero(tklw.Sum()),
		TotalInterceptions:  orZero(intc.Sum()),
	}
}

// orZero swallows descstats.EmptyInputErr, the only error these calls return.
func orZero(v float64, err error) float64 {
	if err != nil {
		return 0
	}
	return v
}
