package nypd

import (
	"fmt"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/KaramelBytes/statloom-cli/internal/model"
)

// ColMonthIndex is the month-end expressed as months since the table's
// earliest month, so the fit gets a numeric trend term that is not collinear
// with the year column at float precision.
const ColMonthIndex = "MonthIndex"

// Classification bundles the fitted logistic model with its held-out
// evaluation. Err marks a failed fit; AUCErr marks an undefined metric over a
// single-class test partition, which is reported distinctly from a low AUC.
type Classification struct {
	Model       *model.LogisticModel
	TrainRows   int
	TestRows    int
	Confusion   model.Confusion
	AUC         float64
	Predictions dataframe.DataFrame
	Err         error
	AUCErr      error
}

// Features selects the model columns from the cleaned incident table. The
// derived murder flag is the single canonical outcome used for both the
// confusion matrix and the AUC.
func Features(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	monthEnds := df.Col(ColMonthEnd).Records()
	idx := make([]int, len(monthEnds))
	base := 0
	for i, me := range monthEnds {
		t, err := time.Parse("2006-01-02", me)
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("model features: parse month end %q: %w", me, err)
		}
		m := t.Year()*12 + int(t.Month()) - 1
		if i == 0 || m < base {
			base = m
		}
		idx[i] = m
	}
	for i := range idx {
		idx[i] -= base
	}

	out := df.Select([]string{ColYear, ColHour, ColSeason, "BORO", "LOC_OF_OCCUR_DESC", ColMurder})
	if out.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("model features: %w", out.Err)
	}
	out = out.Mutate(series.New(idx, series.Int, ColMonthIndex))
	if out.Err != nil {
		return dataframe.DataFrame{}, out.Err
	}
	return out, nil
}

// Classify splits the incident table into deterministic train/test
// partitions, fits the logistic model on the training rows, and evaluates on
// the held-out rows: probabilities thresholded at 0.5 into a confusion
// matrix, plus AUC over the raw probabilities.
func Classify(df dataframe.DataFrame, ratio float64, seed int64) Classification {
	features, err := Features(df)
	if err != nil {
		return Classification{Err: err}
	}

	spec := model.Spec{
		Numeric:     []string{ColYear, ColMonthIndex, ColHour},
		Categorical: []string{ColSeason, "BORO", "LOC_OF_OCCUR_DESC"},
		Response:    ColMurder,
	}
	design, err := model.Build(features, spec)
	if err != nil {
		return Classification{Err: err}
	}

	train, test, err := model.Split(features.Nrow(), ratio, seed)
	if err != nil {
		return Classification{Err: err}
	}

	fitted, err := model.FitLogistic(design.Rows(train))
	if err != nil {
		return Classification{TrainRows: len(train), TestRows: len(test), Err: err}
	}

	testDesign := design.Rows(test)
	probs := fitted.Probabilities(testDesign)
	actual := make([]int, len(test))
	for i := range test {
		actual[i] = int(testDesign.Y.AtVec(i))
	}

	out := Classification{
		Model:     fitted,
		TrainRows: len(train),
		TestRows:  len(test),
		Confusion: model.ConfusionMatrix(actual, probs, 0.5),
	}
	out.AUC, out.AUCErr = model.AUC(actual, probs)

	preds := features.Subset(test)
	if preds.Err == nil {
		predicted := make([]int, len(probs))
		for i, p := range probs {
			if p >= 0.5 {
				predicted[i] = 1
			}
		}
		preds = preds.
			Mutate(series.New(probs, series.Float, "Probability")).
			Mutate(series.New(predicted, series.Int, "Predicted"))
	}
	if preds.Err != nil {
		out.Err = preds.Err
		return out
	}
	out.Predictions = preds
	return out
}
