package nypd

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/KaramelBytes/statloom-cli/internal/dataset"
)

// PrecinctSummary counts incidents and identified perpetrators per precinct
// and derives the percent caught from the per-precinct sums (1 decimal),
// ranked by incident count with the top n precincts kept.
func PrecinctSummary(df dataframe.DataFrame, n int) (dataframe.DataFrame, error) {
	counts, err := dataset.GroupCount(df, []string{"PRECINCT"}, "Incidents")
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("precinct summary: %w", err)
	}
	sums, err := dataset.GroupSum(df, []string{"PRECINCT"}, ColCaught)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("precinct summary: %w", err)
	}
	joined := counts.LeftJoin(sums, "PRECINCT")
	if joined.Err != nil {
		return dataframe.DataFrame{}, joined.Err
	}

	total := joined.Col("Incidents").Float()
	caught := joined.Col(ColCaught).Float()
	pct := make([]float64, len(total))
	for i := range total {
		pct[i] = dataset.Round(caught[i]/total[i]*100, 1)
	}
	joined = joined.Mutate(series.New(pct, series.Float, "PctCaught"))
	if joined.Err != nil {
		return dataframe.DataFrame{}, joined.Err
	}
	return dataset.TopN(joined, "Incidents", n)
}

// BoroughMurders cross-tabulates the murder flag by borough: incidents,
// murders, and the murder share of each borough's own total.
func BoroughMurders(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	counts, err := dataset.GroupCount(df, []string{"BORO"}, "Incidents")
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("borough murders: %w", err)
	}
	sums, err := dataset.GroupSum(df, []string{"BORO"}, ColMurder)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("borough murders: %w", err)
	}
	joined := counts.LeftJoin(sums, "BORO")
	if joined.Err != nil {
		return dataframe.DataFrame{}, joined.Err
	}

	total := joined.Col("Incidents").Float()
	murders := joined.Col(ColMurder).Float()
	pct := make([]float64, len(total))
	for i := range total {
		pct[i] = dataset.Round(murders[i]/total[i]*100, 1)
	}
	joined = joined.Mutate(series.New(pct, series.Float, "PctMurder"))
	if joined.Err != nil {
		return dataframe.DataFrame{}, joined.Err
	}
	return joined, nil
}

// SeasonDayNight tabulates incident counts across the season and day/night
// buckets.
func SeasonDayNight(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	return dataset.GroupCount(df, []string{ColSeason, ColDayNight}, "Incidents")
}
