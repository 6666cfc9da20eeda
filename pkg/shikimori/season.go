package shikimori

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Season is a broadcast quarter as the catalog names it ("spring_2025").
type Season struct {
	Name string
	Year int
}

func (s Season) String() string { return fmt.Sprintf("%s_%d", s.Name, s.Year) }

// CurrentSeason maps t to its quarter: Jan-Mar winter, Apr-Jun spring,
// Jul-Sep summer, Oct-Dec fall.
func CurrentSeason(t time.Time) Season {
	names := [4]string{"winter", "spring", "summer", "fall"}
	return Season{Name: names[(int(t.Month())-1)/3], Year: t.Year()}
}

func ParseSeason(s string) (Season, error) {
	name, year, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "_")
	if !ok {
		return Season{}, fmt.Errorf("season %q: want <season>_<year>", s)
	}
	switch name {
	case "winter", "spring", "summer", "fall":
	default:
		return Season{}, fmt.Errorf("season %q: unknown season %q", s, name)
	}
	y, err := strconv.Atoi(year)
	if err != nil || y < 1900 {
		return Season{}, fmt.Errorf("season %q: bad year", s)
	}
	return Season{Name: name, Year: y}, nil
}
