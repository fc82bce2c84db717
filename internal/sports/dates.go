package sports

import (
	"time"
	_ "time/tzdata"
)

// Eastern is the zone all dates and game times are expressed in.
var Eastern = mustLoad("America/New_York")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// YesterdayOf returns midnight of the day before now, in loc.
func YesterdayOf(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = Eastern
	}
	n := now.In(loc)
	return time.Date(n.Year(), n.Month(), n.Day()-1, 0, 0, 0, 0, loc)
}

// DateLabel formats a day as "Monday, January 02, 2006".
func DateLabel(t time.Time) string {
	return t.Format("Monday, January 02, 2006")
}

// DayLabel formats a schedule day as its weekday abbreviation, "Mon".
func DayLabel(t time.Time) string {
	return t.Format("Mon")
}

// TimeLabel formats a start time in Eastern as "07:05 PM ET".
func TimeLabel(t time.Time) string {
	return t.In(Eastern).Format("03:04 PM") + " ET"
}

// ISODate formats a day as YYYY-MM-DD.
func ISODate(t time.Time) string {
	return t.Format("2006-01-02")
}

// SplitSeasonYear returns the season year for leagues whose season spans
// two calendar years and is named after the year it ends (NBA). The season
// rolls over in October.
func SplitSeasonYear(t time.Time) int {
	if t.Month() >= time.October {
		return t.Year() + 1
	}
	return t.Year()
}

// StartSeasonYear returns the season year for leagues named after the year
// they start (EPL). The season rolls over in August.
func StartSeasonYear(t time.Time) int {
	if t.Month() >= time.August {
		return t.Year()
	}
	return t.Year() - 1
}
