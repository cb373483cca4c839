package covid

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/statloom-cli/internal/ingest"
)

// stubFetcher serves fixture bytes keyed by source location.
type stubFetcher map[string][]byte

func (s stubFetcher) Fetch(_ context.Context, src ingest.Source) ([]byte, error) {
	b, ok := s[src.Location]
	if !ok {
		return nil, &ingest.SourceError{Source: src.Location, Err: fmt.Errorf("no fixture")}
	}
	return b, nil
}

func TestRunPipeline(t *testing.T) {
	f := stubFetcher{
		"cases.csv":  []byte(casesCSV),
		"deaths.csv": []byte(deathsCSV),
		"lookup.csv": []byte(lookupCSV),
	}
	opts := Options{
		Cases:      ingest.Source{Name: "cases", Location: "cases.csv"},
		Deaths:     ingest.Source{Name: "deaths", Location: "deaths.csv"},
		Population: ingest.Source{Name: "population", Location: "lookup.csv"},
		TopN:       1,
	}

	res, err := Run(context.Background(), f, opts)
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Len(t, res.Sources, 3)
	assert.Equal(t, 6, res.Long.Nrow())
	assert.Equal(t, 2, res.Summary.Nrow())

	// Beta: 300 cases / 100 population = 3.0 per capita, far above Alpha's 0.3
	assert.Equal(t, []string{"Beta"}, res.Top.Col(ColState).Records())
	assert.Equal(t, []string{"Alpha"}, res.Bottom.Col(ColState).Records())

	require.Len(t, res.Regressions, 3)
	for _, r := range res.Regressions {
		assert.NoError(t, r.Err, "regression %s", r.Name)
	}
	assert.False(t, res.Failed())
}

func TestRunAbortsOnMissingSource(t *testing.T) {
	f := stubFetcher{}
	opts := Options{
		Cases:      ingest.Source{Name: "cases", Location: "cases.csv"},
		Deaths:     ingest.Source{Name: "deaths", Location: "deaths.csv"},
		Population: ingest.Source{Name: "population", Location: "lookup.csv"},
		TopN:       1,
	}
	_, err := Run(context.Background(), f, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cases.csv")
}
