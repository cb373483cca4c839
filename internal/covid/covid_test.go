package covid

import (
	"math"
	"strconv"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/statloom-cli/internal/ingest"
)

const (
	casesCSV = "Province_State,Country_Region,1/31/21,2/28/21,3/31/21\n" +
		"Alpha,US,10,20,30\n" +
		"Alpha,US,5,10,15\n" +
		"Beta,US,100,200,300\n"
	deathsCSV = "Admin2,Province_State,Country_Region,Population,1/31/21,2/28/21,3/31/21\n" +
		"A1,Alpha,US,50,1,2,3\n" +
		"A2,Alpha,US,50,1,2,3\n" +
		"B1,Beta,US,200,10,30,50\n"
	lookupCSV = "UID,Admin2,Province_State,Country_Region,Population\n" +
		"1,,Alpha,US,150\n" +
		"2,A1,Alpha,US,50\n" +
		"3,,Beta,US,100\n" +
		"4,,Gamma,CA,999\n"
)

// rows indexes a dataframe's records by column name for lookup-style asserts.
func rows(t *testing.T, df dataframe.DataFrame) []map[string]string {
	t.Helper()
	records := df.Records()
	out := make([]map[string]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		m := map[string]string{}
		for i, name := range records[0] {
			m[name] = rec[i]
		}
		out = append(out, m)
	}
	return out
}

func cell(t *testing.T, m map[string]string, col string) float64 {
	t.Helper()
	f, err := strconv.ParseFloat(m[col], 64)
	require.NoError(t, err, "column %s: %q", col, m[col])
	return f
}

func TestCleanRollsUpCountyRows(t *testing.T) {
	cases, err := ingest.Parse([]byte(casesCSV), ingest.Source{Location: "mem"}, ingest.CasesWide())
	require.NoError(t, err)
	deaths, err := ingest.Parse([]byte(deathsCSV), ingest.Source{Location: "mem"}, ingest.DeathsWide())
	require.NoError(t, err)

	long, err := Clean(cases, deaths)
	require.NoError(t, err)
	assert.Equal(t, 6, long.Nrow(), "2 states x 3 dates")

	byKey := map[string]map[string]string{}
	for _, r := range rows(t, long) {
		byKey[r[ColState]+"|"+r[ColDate]] = r
	}

	// duplicate state rows are summed, never overwritten
	alpha := byKey["Alpha|1/31/21"]
	require.NotNil(t, alpha)
	assert.Equal(t, 15.0, cell(t, alpha, ColCases))
	assert.Equal(t, 2.0, cell(t, alpha, ColDeaths))
	assert.Equal(t, "2021-01-31", alpha[ColMonthEnd])

	beta := byKey["Beta|3/31/21"]
	require.NotNil(t, beta)
	assert.Equal(t, 300.0, cell(t, beta, ColCases))
	assert.Equal(t, 50.0, cell(t, beta, ColDeaths))
	assert.Equal(t, "2021-03-31", beta[ColMonthEnd])
}

func TestStatePopulationKeepsStateLevelUSRows(t *testing.T) {
	lookup, err := ingest.Parse([]byte(lookupCSV), ingest.Source{Location: "mem"}, ingest.PopulationLookup())
	require.NoError(t, err)

	pop, err := StatePopulation(lookup)
	require.NoError(t, err)

	assert.Equal(t, []string{"Alpha", "Beta"}, pop.Col(ColState).Records())
	assert.Equal(t, []float64{150, 100}, pop.Col(ColPopulation).Float())
}

func TestTotalsUseLatestDate(t *testing.T) {
	long := dataframe.New(
		series.New([]string{"Alpha", "Alpha", "Beta", "Beta"}, series.String, ColState),
		series.New([]string{"US", "US", "US", "US"}, series.String, ColCountry),
		series.New([]string{"2/28/21", "1/31/21", "1/31/21", "2/28/21"}, series.String, ColDate),
		series.New([]float64{30, 15, 100, 200}, series.Float, ColCases),
		series.New([]float64{4, 2, 10, 30}, series.Float, ColDeaths),
	)
	totals, err := Totals(long)
	require.NoError(t, err)

	assert.Equal(t, []string{"Alpha", "Beta"}, totals.Col(ColState).Records())
	assert.Equal(t, []float64{30, 200}, totals.Col(ColCases).Float())
	assert.Equal(t, []float64{4, 30}, totals.Col(ColDeaths).Float())
}

func TestSummaryRatiosAndExclusions(t *testing.T) {
	totals := dataframe.New(
		series.New([]string{"Alpha", "Beta", DiamondPrincess, "Gamma"}, series.String, ColState),
		series.New([]string{"US", "US", "US", "US"}, series.String, ColCountry),
		series.New([]float64{30, 200, 50, 10}, series.Float, ColCases),
		series.New([]float64{4, 30, 1, 0}, series.Float, ColDeaths),
	)
	population := dataframe.New(
		series.New([]string{"Alpha", "Beta", DiamondPrincess}, series.String, ColState),
		series.New([]string{"US", "US", "US"}, series.String, ColCountry),
		series.New([]float64{150, 100, 10}, series.Float, ColPopulation),
	)

	summary, err := Summary(totals, population)
	require.NoError(t, err)

	// Diamond Princess is excluded; Gamma has no population row and is dropped
	assert.Equal(t, []string{"Alpha", "Beta"}, summary.Col(ColState).Records())

	// ratio-of-sums from the row's own totals, rounded to 1 and 3 decimals
	assert.Equal(t, []float64{13.3, 15}, summary.Col(ColDeathPct).Float())
	assert.Equal(t, []float64{0.2, 2}, summary.Col(ColPerCapita).Float())
}

func TestRankDisjointExtremes(t *testing.T) {
	summary := dataframe.New(
		series.New([]string{"s1", "s2", "s3", "s4", "s5"}, series.String, ColState),
		series.New([]float64{5, 1, 4, 2, 3}, series.Float, ColPerCapita),
	)
	top, bottom, err := Rank(summary, 2)
	require.NoError(t, err)

	assert.Equal(t, []string{"s1", "s3"}, top.Col(ColState).Records())
	assert.Equal(t, []string{"s2", "s4"}, bottom.Col(ColState).Records())

	overlap := map[string]bool{}
	for _, s := range top.Col(ColState).Records() {
		overlap[s] = true
	}
	for _, s := range bottom.Col(ColState).Records() {
		assert.False(t, overlap[s], "top and bottom selections must be disjoint")
	}
}

func TestFitRegressions(t *testing.T) {
	long := dataframe.New(
		series.New([]string{"Alpha", "Alpha", "Alpha", "Alpha", "Beta", "Beta", "Beta"}, series.String, ColState),
		series.New([]float64{10, 20, 30, math.NaN(), 100, 200, 300}, series.Float, ColCases),
		series.New([]float64{1, 2, 3, 9, 20, 40, 60}, series.Float, ColDeaths),
	)

	regs := FitRegressions(long, []string{"Alpha"}, []string{"Beta"})
	require.Len(t, regs, 3)
	for _, r := range regs {
		require.NoError(t, r.Err, "regression %s", r.Name)
	}

	// deaths are exactly 0.1 * cases for the high subset; the NaN row is
	// filtered before fitting
	high := regs[0]
	assert.Equal(t, 3, high.Predictions.Nrow())
	assert.Equal(t, []string{"(intercept)", ColCases}, high.Model.Cols)
	assert.InDelta(t, 0.0, high.Model.Coef[0], 1e-9)
	assert.InDelta(t, 0.1, high.Model.Coef[1], 1e-9)

	// the subset indicator is a linear combination of the state offsets and
	// comes out aliased, not as a failed fit
	combined := regs[2]
	assert.Equal(t, "combined", combined.Name)
	assert.Equal(t, 6, combined.Predictions.Nrow())
	assert.Contains(t, combined.Model.Cols, ColGroup+"="+GroupLow)
	assert.Equal(t, []string{ColGroup + "=" + GroupLow}, combined.Model.Aliased)
}
