package shape

import (
	"cmp"
	"slices"
)

// The shaper keeps source order. These helpers serve callers that want a
// ranking; each returns a sorted copy and leaves its input untouched.

// TopDefenders returns the n rows with the most tackles won, ties broken
// by interceptions. n <= 0 returns every row.
func TopDefenders(rows []DefenseRow, n int) []DefenseRow {
	out := slices.Clone(rows)
	slices.SortStableFunc(out, func(a, b DefenseRow) int {
		if c := cmp.Compare(b.TacklesWon, a.TacklesWon); c != 0 {
			return c
		}
		return cmp.Compare(b.Interceptions, a.Interceptions)
	})
	return head(out, n)
}

// TopFinishers returns the n attack rows that most outperform their
// expected goals.
func TopFinishers(rows []AttackRow, n int) []AttackRow {
	out := slices.Clone(rows)
	slices.SortStableFunc(out, func(a, b AttackRow) int {
		return cmp.Compare(b.Difference, a.Difference)
	})
	return head(out, n)
}

// TopCreators returns the n creation rows with the highest expected assists.
func TopCreators(rows []CreationRow, n int) []CreationRow {
	out := slices.Clone(rows)
	slices.SortStableFunc(out, func(a, b CreationRow) int {
		if c := cmp.Compare(b.ExpectedAssistedGoals, a.ExpectedAssistedGoals); c != 0 {
			return c
		}
		return cmp.Compare(b.ProgressivePasses, a.ProgressivePasses)
	})
	return head(out, n)
}

func head[T any](rows []T, n int) []T {
	if n > 0 && n < len(rows) {
		return rows[:n]
	}
	if rows == nil {
		return []T{}
	}
	return rows
}
