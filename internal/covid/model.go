package covid

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/KaramelBytes/statloom-cli/internal/model"
)

// Group labels for the combined regression's subset indicator.
const (
	GroupHigh = "high-per-capita"
	GroupLow  = "low-per-capita"
)

// Regression bundles one fitted deaths-on-cases model with its feature table
// and in-sample predictions. A failed fit leaves Err set and the outputs
// empty; the surrounding tables remain valid.
type Regression struct {
	Name        string
	Model       *model.LinearModel
	Predictions dataframe.DataFrame
	Err         error
}

// Features filters the long table to the given states and rows with both
// counts present, labels them with the group tag, and keeps the model
// columns. These are descriptive in-sample fits: no train/test split.
func Features(long dataframe.DataFrame, states []string, group string) (dataframe.DataFrame, error) {
	sub := long.Filter(
		dataframe.F{Colname: ColState, Comparator: series.In, Comparando: states},
	).Filter(
		dataframe.F{Colname: ColCases, Comparator: series.CompFunc,
			Comparando: func(el series.Element) bool { return !el.IsNA() }},
	).Filter(
		dataframe.F{Colname: ColDeaths, Comparator: series.CompFunc,
			Comparando: func(el series.Element) bool { return !el.IsNA() }},
	)
	if sub.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("model features: %w", sub.Err)
	}
	sub = sub.Select([]string{ColState, ColCases, ColDeaths})
	if sub.Err != nil {
		return dataframe.DataFrame{}, sub.Err
	}
	labels := make([]string, sub.Nrow())
	for i := range labels {
		labels[i] = group
	}
	sub = sub.Mutate(series.New(labels, series.String, ColGroup))
	if sub.Err != nil {
		return dataframe.DataFrame{}, sub.Err
	}
	return sub, nil
}

// fitOne fits deaths ~ intercept + cases + state offsets, optionally with the
// group indicator, and attaches the fitted values as a prediction column.
func fitOne(name string, features dataframe.DataFrame, withGroup bool) Regression {
	spec := model.Spec{
		Numeric:     []string{ColCases},
		Categorical: []string{ColState},
		Response:    ColDeaths,
	}
	if withGroup {
		spec.Categorical = append(spec.Categorical, ColGroup)
	}
	design, err := model.Build(features, spec)
	if err != nil {
		return Regression{Name: name, Err: err}
	}
	fitted, err := model.FitOLS(design)
	if err != nil {
		return Regression{Name: name, Err: err}
	}
	preds := features.Mutate(series.New(fitted.Fitted(design), series.Float, ColPredicted))
	if preds.Err != nil {
		return Regression{Name: name, Err: preds.Err}
	}
	return Regression{Name: name, Model: fitted, Predictions: preds}
}

// FitRegressions runs the three descriptive fits: the highest per-capita
// subset, the lowest, and both combined with a subset-membership indicator.
func FitRegressions(long dataframe.DataFrame, topStates, bottomStates []string) []Regression {
	out := make([]Regression, 0, 3)

	high, highErr := Features(long, topStates, GroupHigh)
	if highErr != nil {
		out = append(out, Regression{Name: "high per-capita states", Err: highErr})
	} else {
		out = append(out, fitOne("high per-capita states", high, false))
	}

	low, lowErr := Features(long, bottomStates, GroupLow)
	if lowErr != nil {
		out = append(out, Regression{Name: "low per-capita states", Err: lowErr})
	} else {
		out = append(out, fitOne("low per-capita states", low, false))
	}

	if highErr == nil && lowErr == nil {
		combined := high.Concat(low)
		if combined.Err != nil {
			out = append(out, Regression{Name: "combined", Err: combined.Err})
		} else {
			out = append(out, fitOne("combined", combined, true))
		}
	}
	return out
}
