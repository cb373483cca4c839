// Package covid implements the COVID-19 state time-series pipeline: melt the
// wide case/death tables to long form, roll county rows up to states, join
// population, summarize and rank regions, and fit deaths-on-cases linear
// models for the per-capita extremes.
package covid

import (
	"fmt"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/KaramelBytes/statloom-cli/internal/dataset"
	"github.com/KaramelBytes/statloom-cli/internal/ingest"
)

// Canonical column names used throughout the pipeline.
const (
	ColState      = "State"
	ColCountry    = "Country"
	ColDate       = "Date"
	ColCases      = "Cases"
	ColDeaths     = "Deaths"
	ColMonthEnd   = "MonthEnd"
	ColPopulation = "Population"
	ColDeathPct   = "DeathPct"
	ColPerCapita  = "CasesPerCapita"
	ColGroup      = "Group"
	ColPredicted  = "PredictedDeaths"
)

const dateLayout = "1/2/06"

// meltWide reshapes one wide time-series source to long form and sums
// duplicate (state, country, date) keys so county rows roll up into one
// state row per date.
func meltWide(df dataframe.DataFrame, sch ingest.Schema, valName string) (dataframe.DataFrame, error) {
	dateCols := sch.DateColumns(df.Names())
	keep := append([]string{"Province_State", "Country_Region"}, dateCols...)
	sub := df.Select(keep)
	if sub.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("select time-series columns: %w", sub.Err)
	}
	long, err := dataset.Melt(sub, []string{"Province_State", "Country_Region"}, ColDate, valName)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	long = long.Rename(ColState, "Province_State").Rename(ColCountry, "Country_Region")
	if long.Err != nil {
		return dataframe.DataFrame{}, long.Err
	}
	return dataset.GroupSum(long, []string{ColState, ColCountry, ColDate}, valName)
}

// Clean melts cases and deaths and left-joins deaths onto cases by
// (state, country, date). Unmatched rows keep a missing death count; nothing
// is dropped here.
func Clean(cases, deaths dataframe.DataFrame) (dataframe.DataFrame, error) {
	longCases, err := meltWide(cases, ingest.CasesWide(), ColCases)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("clean cases: %w", err)
	}
	longDeaths, err := meltWide(deaths, ingest.DeathsWide(), ColDeaths)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("clean deaths: %w", err)
	}
	joined := longCases.LeftJoin(longDeaths, ColState, ColCountry, ColDate)
	if joined.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("join deaths onto cases: %w", joined.Err)
	}
	return withMonthEnd(joined)
}

// withMonthEnd appends the month-end marker derived from the date column.
func withMonthEnd(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	dates := df.Col(ColDate).Records()
	ends := make([]string, len(dates))
	for i, d := range dates {
		t, err := time.Parse(dateLayout, d)
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("parse date %q: %w", d, err)
		}
		ends[i] = dataset.EndOfMonth(t).Format("2006-01-02")
	}
	out := df.Mutate(series.New(ends, series.String, ColMonthEnd))
	if out.Err != nil {
		return dataframe.DataFrame{}, out.Err
	}
	return out, nil
}

// StatePopulation filters the lookup table to state-level US rows (blank
// county identifier) and reduces it to one population value per state.
func StatePopulation(lookup dataframe.DataFrame) (dataframe.DataFrame, error) {
	states := lookup.Filter(
		dataframe.F{Colname: "Country_Region", Comparator: series.Eq, Comparando: "US"},
	).Filter(
		dataframe.F{Colname: "Admin2", Comparator: series.CompFunc,
			Comparando: func(el series.Element) bool { return el.IsNA() }},
	)
	if states.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("filter population lookup: %w", states.Err)
	}
	states = states.Rename(ColState, "Province_State").
		Rename(ColCountry, "Country_Region")
	if states.Err != nil {
		return dataframe.DataFrame{}, states.Err
	}
	return dataset.GroupSum(states, []string{ColState, ColCountry}, ColPopulation)
}
