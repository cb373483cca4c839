package model

import "fmt"

// FitError indicates a fit that did not complete (e.g. IRLS failed to
// converge within its iteration budget).
type FitError struct {
	Model  string
	Reason string
}

func (e *FitError) Error() string {
	return fmt.Sprintf("%s fit failed: %s", e.Model, e.Reason)
}

// SingularModelError indicates a rank-deficient design matrix, typically from
// over-specified categorical levels.
type SingularModelError struct {
	Rank int
	Cols int
}

func (e *SingularModelError) Error() string {
	return fmt.Sprintf("singular design matrix: rank %d < %d columns", e.Rank, e.Cols)
}

// DegenerateMetricError indicates an evaluation metric that is undefined for
// the given data (e.g. AUC over a single-class test partition). It is
// distinct from a computed-but-poor metric value.
type DegenerateMetricError struct {
	Metric string
	Reason string
}

func (e *DegenerateMetricError) Error() string {
	return fmt.Sprintf("%s undefined: %s", e.Metric, e.Reason)
}
