// Package stats defines the season-level stat tables that providers
// normalize into, the team filter applied to them, and the error taxonomy
// shared by the fetch and shaping layers.
//
// Providers output these types, the shaper consumes them. Swapping the
// provider never changes the shaper.
package stats

import (
	"fmt"
	"strings"
)

// Category is one of the season stat tables offered by the provider.
type Category string

const (
	CategoryStandard Category = "standard"
	CategoryShooting Category = "shooting"
	CategoryPassing  Category = "passing"
	CategoryDefense  Category = "defense"
)

// AllCategories lists every category in fetch order.
var AllCategories = []Category{
	CategoryStandard,
	CategoryShooting,
	CategoryPassing,
	CategoryDefense,
}

// Canonical metric keys. These match the provider's data-stat attributes.
const (
	ColMinutes           = "minutes"
	ColGoals             = "goals"
	ColExpectedGoals     = "xg"
	ColExpectedAssisted  = "xg_assist"
	ColProgressivePasses = "progressive_passes"
	ColTacklesWon        = "tackles_won"
	ColInterceptions     = "interceptions"
)

// RequiredColumns lists the metric columns the shaper reads from each category.
var RequiredColumns = map[Category][]string{
	CategoryStandard: {ColMinutes, ColGoals},
	CategoryShooting: {ColExpectedGoals},
	CategoryPassing:  {ColExpectedAssisted, ColProgressivePasses},
	CategoryDefense:  {ColTacklesWon, ColInterceptions},
}

// ParseCategory validates a category name.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllCategories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown stat category %q (want standard, shooting, passing or defense)", s)
}

func (c Category) String() string { return string(c) }
