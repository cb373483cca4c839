package covid

import (
	"fmt"
	"math"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/KaramelBytes/statloom-cli/internal/dataset"
)

// DiamondPrincess is a cruise-ship pseudo-region present in the source data.
// It is excluded from every region ranking.
const DiamondPrincess = "Diamond Princess"

// Totals reduces the long table to one row per state carrying the cumulative
// case and death counts at the latest date present for that state. Counts are
// cumulative in the source, so the latest row is the state total; the counts
// are read as-is, with no cross-date monotonicity enforced.
func Totals(long dataframe.DataFrame) (dataframe.DataFrame, error) {
	names := long.Names()
	idx := map[string]int{}
	for i, n := range names {
		idx[n] = i
	}
	for _, c := range []string{ColState, ColCountry, ColDate, ColCases, ColDeaths} {
		if _, ok := idx[c]; !ok {
			return dataframe.DataFrame{}, fmt.Errorf("totals: no such column %q", c)
		}
	}

	type acc struct {
		country string
		date    time.Time
		cases   float64
		deaths  float64
	}
	order := []string{}
	byState := map[string]*acc{}
	for _, rec := range long.Records()[1:] {
		state := rec[idx[ColState]]
		t, err := time.Parse(dateLayout, rec[idx[ColDate]])
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("totals: parse date %q: %w", rec[idx[ColDate]], err)
		}
		a, ok := byState[state]
		if !ok {
			a = &acc{}
			byState[state] = a
			order = append(order, state)
		}
		if !ok || t.After(a.date) {
			a.country = rec[idx[ColCountry]]
			a.date = t
			a.cases = parseFloat(rec[idx[ColCases]])
			a.deaths = parseFloat(rec[idx[ColDeaths]])
		}
	}

	statesCol := make([]string, len(order))
	countryCol := make([]string, len(order))
	casesCol := make([]float64, len(order))
	deathsCol := make([]float64, len(order))
	for i, s := range order {
		a := byState[s]
		statesCol[i] = s
		countryCol[i] = a.country
		casesCol[i] = a.cases
		deathsCol[i] = a.deaths
	}
	out := dataframe.New(
		series.New(statesCol, series.String, ColState),
		series.New(countryCol, series.String, ColCountry),
		series.New(casesCol, series.Float, ColCases),
		series.New(deathsCol, series.Float, ColDeaths),
	)
	if out.Err != nil {
		return dataframe.DataFrame{}, out.Err
	}
	return out, nil
}

func parseFloat(s string) float64 {
	var f float64
	if _, err := fmt.Sscanf(s, "%g", &f); err != nil {
		return math.NaN()
	}
	return f
}

// Summary joins population onto the per-state totals and derives the ratio
// fields from the aggregated sums (ratio-of-sums, never a mean of per-row
// ratios): death percentage to 1 decimal and cases per capita to 3 decimals.
// The Diamond Princess pseudo-region is excluded, and rows missing population
// or cases-per-capita are dropped from ranked output by policy.
func Summary(totals, population dataframe.DataFrame) (dataframe.DataFrame, error) {
	joined := totals.LeftJoin(population, ColState, ColCountry)
	if joined.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("join population: %w", joined.Err)
	}

	cases := joined.Col(ColCases).Float()
	deaths := joined.Col(ColDeaths).Float()
	pop := joined.Col(ColPopulation).Float()

	pct := make([]float64, len(cases))
	percap := make([]float64, len(cases))
	for i := range cases {
		if cases[i] > 0 {
			pct[i] = dataset.Round(deaths[i]/cases[i]*100, 1)
		} else {
			pct[i] = math.NaN()
		}
		if pop[i] > 0 {
			percap[i] = dataset.Round(cases[i]/pop[i], 3)
		} else {
			percap[i] = math.NaN()
		}
	}
	joined = joined.
		Mutate(series.New(pct, series.Float, ColDeathPct)).
		Mutate(series.New(percap, series.Float, ColPerCapita))
	if joined.Err != nil {
		return dataframe.DataFrame{}, joined.Err
	}

	out := joined.Filter(
		dataframe.F{Colname: ColState, Comparator: series.Neq, Comparando: DiamondPrincess},
	).Filter(
		dataframe.F{Colname: ColPerCapita, Comparator: series.CompFunc,
			Comparando: func(el series.Element) bool { return !el.IsNA() }},
	).Filter(
		dataframe.F{Colname: ColPopulation, Comparator: series.CompFunc,
			Comparando: func(el series.Element) bool { return !el.IsNA() }},
	)
	if out.Err != nil {
		return dataframe.DataFrame{}, out.Err
	}
	return out, nil
}

// Rank returns the top-N and bottom-N states by cases per capita. The
// selections are disjoint whenever 2N does not exceed the state count.
func Rank(summary dataframe.DataFrame, n int) (top, bottom dataframe.DataFrame, err error) {
	top, err = dataset.TopN(summary, ColPerCapita, n)
	if err != nil {
		return dataframe.DataFrame{}, dataframe.DataFrame{}, err
	}
	bottom, err = dataset.BottomN(summary, ColPerCapita, n)
	if err != nil {
		return dataframe.DataFrame{}, dataframe.DataFrame{}, err
	}
	return top, bottom, nil
}
