package report

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/KaramelBytes/statloom-cli/internal/covid"
	"github.com/KaramelBytes/statloom-cli/internal/ingest"
	"github.com/KaramelBytes/statloom-cli/internal/nypd"
)

// previewRows caps the long time-series table in rendered output; the
// summaries are printed in full.
const previewRows = 15

// FromCovid assembles the report for a COVID pipeline run.
func FromCovid(res *covid.Result) *Report {
	r := &Report{
		Pipeline:  "covid",
		RunID:     res.RunID,
		Sources:   sourceList(res.Sources),
		Generated: time.Now(),
	}
	r.Tables = append(r.Tables,
		FromFrame("state time series", res.Long, previewRows),
		FromFrame("state summary", res.Summary, 0),
		FromFrame("top states by cases per capita", res.Top, 0),
		FromFrame("bottom states by cases per capita", res.Bottom, 0),
	)
	for _, reg := range res.Regressions {
		title := "regression: " + reg.Name
		if reg.Err != nil {
			r.Tables = append(r.Tables, Invalid(title, reg.Err))
			continue
		}
		r.Tables = append(r.Tables, coefficientTable(title, reg.Model.Cols, reg.Model.Coef))
	}
	return r
}

// FromShootings assembles the report for a shootings pipeline run.
func FromShootings(res *nypd.Result) *Report {
	r := &Report{
		Pipeline:  "shootings",
		RunID:     res.RunID,
		Sources:   sourceList(res.Sources),
		Generated: time.Now(),
	}
	r.Tables = append(r.Tables,
		FromFrame("precinct summary", res.Precincts, 0),
		FromFrame("murders by borough", res.Boroughs, 0),
		FromFrame("season and day-night tabulation", res.SeasonDayNight, 0),
	)

	cls := res.Classification
	if cls.Err != nil {
		r.Tables = append(r.Tables, Invalid("murder classification", cls.Err))
		return r
	}
	r.Tables = append(r.Tables,
		coefficientTable("murder classification coefficients", cls.Model.Cols, cls.Model.Coef))

	cm := cls.Confusion
	r.Tables = append(r.Tables, Table{
		Title:  "confusion matrix",
		Header: []string{"", "predicted 0", "predicted 1"},
		Rows: [][]string{
			{"actual 0", strconv.Itoa(cm.TrueNegative), strconv.Itoa(cm.FalsePositive)},
			{"actual 1", strconv.Itoa(cm.FalseNegative), strconv.Itoa(cm.TruePositive)},
		},
		Note: fmt.Sprintf("test rows: %d, train rows: %d", cls.TestRows, cls.TrainRows),
	})

	auc := Table{Title: "AUC", Header: []string{"metric", "value"}}
	if cls.AUCErr != nil {
		auc = Invalid("AUC", cls.AUCErr)
	} else {
		auc.Rows = [][]string{{"AUC", fmt.Sprintf("%.4f", cls.AUC)}}
	}
	r.Tables = append(r.Tables, auc)
	return r
}

func coefficientTable(title string, cols []string, coef []float64) Table {
	t := Table{Title: title, Header: []string{"term", "estimate"}}
	for i, c := range cols {
		est := fmt.Sprintf("%.6g", coef[i])
		if math.IsNaN(coef[i]) {
			est = "aliased"
		}
		t.Rows = append(t.Rows, []string{c, est})
	}
	return t
}

func sourceList(srcs []ingest.Source) []string {
	out := make([]string, len(srcs))
	for i, s := range srcs {
		out[i] = fmt.Sprintf("%s (%s)", s.Name, s.Location)
	}
	return out
}
