package covid

import (
	"context"
	"log/slog"

	"github.com/go-gota/gota/dataframe"
	"github.com/google/uuid"

	"github.com/KaramelBytes/statloom-cli/internal/ingest"
)

// Options selects the three dataset sources and the ranking depth.
type Options struct {
	Cases      ingest.Source
	Deaths     ingest.Source
	Population ingest.Source
	TopN       int
}

// Result carries every derived table of one pipeline run. Regression entries
// with a non-nil Err are invalid and must be flagged as such when presented.
type Result struct {
	RunID   string
	Sources []ingest.Source

	Long        dataframe.DataFrame
	Summary     dataframe.DataFrame
	Top, Bottom dataframe.DataFrame
	Regressions []Regression
}

// Run executes the pipeline start to finish. Ingestion or cleaning errors
// abort the run; modeling errors are recorded per regression and do not
// invalidate the summary tables.
func Run(ctx context.Context, f ingest.Fetcher, opts Options) (*Result, error) {
	res := &Result{
		RunID:   uuid.NewString(),
		Sources: []ingest.Source{opts.Cases, opts.Deaths, opts.Population},
	}
	log := slog.With("pipeline", "covid", "run_id", res.RunID)

	log.Info("ingesting sources")
	cases, err := ingest.Load(ctx, f, opts.Cases, ingest.CasesWide())
	if err != nil {
		return nil, err
	}
	deaths, err := ingest.Load(ctx, f, opts.Deaths, ingest.DeathsWide())
	if err != nil {
		return nil, err
	}
	lookup, err := ingest.Load(ctx, f, opts.Population, ingest.PopulationLookup())
	if err != nil {
		return nil, err
	}

	log.Info("reshaping time series", "case_rows", cases.Nrow(), "death_rows", deaths.Nrow())
	res.Long, err = Clean(cases, deaths)
	if err != nil {
		return nil, err
	}

	population, err := StatePopulation(lookup)
	if err != nil {
		return nil, err
	}
	totals, err := Totals(res.Long)
	if err != nil {
		return nil, err
	}
	res.Summary, err = Summary(totals, population)
	if err != nil {
		return nil, err
	}

	res.Top, res.Bottom, err = Rank(res.Summary, opts.TopN)
	if err != nil {
		return nil, err
	}
	log.Info("ranked regions", "states", res.Summary.Nrow(), "n", opts.TopN)

	res.Regressions = FitRegressions(res.Long,
		res.Top.Col(ColState).Records(),
		res.Bottom.Col(ColState).Records())
	for _, r := range res.Regressions {
		if r.Err != nil {
			log.Warn("regression invalid", "model", r.Name, "err", r.Err)
		} else {
			log.Info("regression fitted", "model", r.Name, "rows", r.Predictions.Nrow())
		}
	}
	return res, nil
}

// Failed reports whether any regression ended in error; callers use it to set
// a non-zero exit code while still presenting the valid tables.
func (r *Result) Failed() bool {
	for _, reg := range r.Regressions {
		if reg.Err != nil {
			return true
		}
	}
	return false
}
