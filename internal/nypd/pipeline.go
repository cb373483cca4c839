package nypd

import (
	"context"
	"log/slog"

	"github.com/go-gota/gota/dataframe"
	"github.com/google/uuid"

	"github.com/KaramelBytes/statloom-cli/internal/ingest"
)

// Options selects the incident source, the precinct ranking depth, and the
// train/test split parameters.
type Options struct {
	Data       ingest.Source
	TopN       int
	SplitRatio float64
	Seed       int64
}

// Result carries every derived table of one pipeline run. A Classification
// with a non-nil Err or AUCErr is presented as invalid, but the summary
// tables above it remain valid.
type Result struct {
	RunID   string
	Sources []ingest.Source

	Incidents      dataframe.DataFrame
	Precincts      dataframe.DataFrame
	Boroughs       dataframe.DataFrame
	SeasonDayNight dataframe.DataFrame
	Classification Classification
}

// Run executes the pipeline start to finish. Ingestion or cleaning errors
// abort the run; a modeling error is recorded on the classification and does
// not invalidate the summaries.
func Run(ctx context.Context, f ingest.Fetcher, opts Options) (*Result, error) {
	res := &Result{
		RunID:   uuid.NewString(),
		Sources: []ingest.Source{opts.Data},
	}
	log := slog.With("pipeline", "shootings", "run_id", res.RunID)

	log.Info("ingesting incidents")
	raw, err := ingest.Load(ctx, f, opts.Data, ingest.Incidents())
	if err != nil {
		return nil, err
	}

	res.Incidents, err = Clean(raw)
	if err != nil {
		return nil, err
	}
	log.Info("cleaned incidents", "rows", res.Incidents.Nrow())

	res.Precincts, err = PrecinctSummary(res.Incidents, opts.TopN)
	if err != nil {
		return nil, err
	}
	res.Boroughs, err = BoroughMurders(res.Incidents)
	if err != nil {
		return nil, err
	}
	res.SeasonDayNight, err = SeasonDayNight(res.Incidents)
	if err != nil {
		return nil, err
	}

	res.Classification = Classify(res.Incidents, opts.SplitRatio, opts.Seed)
	switch {
	case res.Classification.Err != nil:
		log.Warn("classification invalid", "err", res.Classification.Err)
	case res.Classification.AUCErr != nil:
		log.Warn("AUC undefined", "err", res.Classification.AUCErr)
	default:
		log.Info("classification fitted",
			"train", res.Classification.TrainRows,
			"test", res.Classification.TestRows,
			"auc", res.Classification.AUC)
	}
	return res, nil
}

// Failed reports whether the modeling stage ended in error; callers use it to
// set a non-zero exit code while still presenting the valid tables.
func (r *Result) Failed() bool {
	return r.Classification.Err != nil || r.Classification.AUCErr != nil
}
