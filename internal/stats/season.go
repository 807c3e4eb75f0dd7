package stats

import (
	"regexp"
	"strconv"
)

var seasonPattern = regexp.MustCompile(`^(\d{4})-(\d{4})$`)

// ValidateSeason checks the provider's "YYYY-YYYY" season format. The end
// year must follow the start year.
func ValidateSeason(season string) error {
	m := seasonPattern.FindStringSubmatch(season)
	if m == nil {
		return &InvalidSeasonFormatError{Season: season}
	}
	start, _ := strconv.Atoi(m[1])
	end, _ := strconv.Atoi(m[2])
	if end != start+1 {
		return &InvalidSeasonFormatError{Season: season}
	}
	return nil
}

// SeasonStartYear returns the first year of a validated season.
func SeasonStartYear(season string) (int, error) {
	if err := ValidateSeason(season); err != nil {
		return 0, err
	}
	return strconv.Atoi(season[:4])
}
