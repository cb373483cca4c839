// Package nypd implements the shooting-incident pipeline: derive the
// time-bucket and flag columns from the raw incident records, summarize by
// precinct and borough, and fit a logistic model of the murder flag with a
// seeded train/test split.
package nypd

import (
	"fmt"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/KaramelBytes/statloom-cli/internal/dataset"
)

// Derived column names.
const (
	ColHour     = "Hour"
	ColYear     = "Year"
	ColMonthEnd = "MonthEnd"
	ColSeason   = "Season"
	ColDayNight = "DayNight"
	ColCaught   = "Caught"
	ColMurder   = "Murder"
)

// Season labels.
const (
	SeasonSummer    = "summer"
	SeasonNotSummer = "not summer"
)

const (
	dateLayout = "1/2/2006"
	timeLayout = "15:04:05"
)

// unknownPerp is the set of perpetrator-identifier values that mean the
// perpetrator was never identified.
var unknownPerp = map[string]bool{
	"":        true,
	"UNKNOWN": true,
	"(null)":  true,
}

// Season labels a month as summer or not. The canonical rule is summer =
// months 5 through 9 inclusive (May through September).
func Season(m time.Month) string {
	if m >= time.May && m <= time.September {
		return SeasonSummer
	}
	return SeasonNotSummer
}

// DayNight labels an hour of day: day is the open interval (6, 18).
func DayNight(hour int) string {
	if hour > 6 && hour < 18 {
		return "day"
	}
	return "night"
}

// CaughtFlag is 1 when the perpetrator-identifier field carries a real value
// and 0 when it is missing or in the unknown set.
func CaughtFlag(value string, isNA bool) int {
	if isNA || unknownPerp[value] {
		return 0
	}
	return 1
}

// MurderFlag is 1 only for the exact, case-sensitive source token "true".
func MurderFlag(value string) int {
	if value == "true" {
		return 1
	}
	return 0
}

// Clean derives the hour, year, month-end, season, day/night, caught and
// murder columns from the raw incident table. A date or time that does not
// parse aborts the pipeline: downstream stages cannot tolerate missing
// occurrence timestamps.
func Clean(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	n := df.Nrow()
	dates := df.Col("OCCUR_DATE").Records()
	times := df.Col("OCCUR_TIME").Records()
	perp := df.Col("PERP_RACE")
	murder := df.Col("STATISTICAL_MURDER_FLAG")
	loc := df.Col("LOC_OF_OCCUR_DESC")

	hours := make([]int, n)
	years := make([]int, n)
	monthEnds := make([]string, n)
	seasons := make([]string, n)
	dayNights := make([]string, n)
	caught := make([]int, n)
	murders := make([]int, n)
	locs := make([]string, n)

	for i := 0; i < n; i++ {
		d, err := time.Parse(dateLayout, dates[i])
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("parse occurrence date %q: %w", dates[i], err)
		}
		t, err := time.Parse(timeLayout, times[i])
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("parse occurrence time %q: %w", times[i], err)
		}
		hours[i] = t.Hour()
		years[i] = d.Year()
		monthEnds[i] = dataset.EndOfMonth(d).Format("2006-01-02")
		seasons[i] = Season(d.Month())
		dayNights[i] = DayNight(t.Hour())

		pe := perp.Elem(i)
		caught[i] = CaughtFlag(pe.String(), pe.IsNA())

		me := murder.Elem(i)
		if me.IsNA() {
			murders[i] = 0
		} else {
			murders[i] = MurderFlag(me.String())
		}

		le := loc.Elem(i)
		if le.IsNA() {
			locs[i] = "UNKNOWN"
		} else {
			locs[i] = le.String()
		}
	}

	out := df.
		Mutate(series.New(hours, series.Int, ColHour)).
		Mutate(series.New(years, series.Int, ColYear)).
		Mutate(series.New(monthEnds, series.String, ColMonthEnd)).
		Mutate(series.New(seasons, series.String, ColSeason)).
		Mutate(series.New(dayNights, series.String, ColDayNight)).
		Mutate(series.New(caught, series.Int, ColCaught)).
		Mutate(series.New(murders, series.Int, ColMurder)).
		Mutate(series.New(locs, series.String, "LOC_OF_OCCUR_DESC"))
	if out.Err != nil {
		return dataframe.DataFrame{}, out.Err
	}
	return out, nil
}
