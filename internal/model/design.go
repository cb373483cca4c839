// Package model fits the regression models of the analysis pipelines:
// ordinary least squares with categorical offsets for the COVID pipeline and
// a logistic fit with a seeded train/test split for the shootings pipeline.
package model

import (
	"fmt"
	"math"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/mat"
)

// Spec declares the feature columns of a design matrix. Categorical columns
// are one-hot encoded with their first-seen level dropped as the reference,
// so the intercept absorbs the reference cell.
type Spec struct {
	Numeric     []string
	Categorical []string
	Response    string
}

// Design is a dense design matrix with response vector and coefficient
// labels. Cols[0] is always the intercept.
type Design struct {
	Cols []string
	X    *mat.Dense
	Y    *mat.VecDense
}

// Build constructs the design matrix for the given rows. Rows with a NaN in
// any numeric feature or the response are rejected rather than silently
// dropped: callers filter before modeling.
func Build(df dataframe.DataFrame, spec Spec) (*Design, error) {
	n := df.Nrow()
	if n == 0 {
		return nil, fmt.Errorf("design: empty feature table")
	}

	numeric := make([][]float64, len(spec.Numeric))
	for i, c := range spec.Numeric {
		s := df.Col(c)
		if s.Err != nil {
			return nil, fmt.Errorf("design: %w", s.Err)
		}
		numeric[i] = s.Float()
	}

	// One-hot columns per categorical, reference level dropped.
	type catCol struct {
		name   string
		levels []string
		index  map[string]int
		rows   []string
	}
	cats := make([]catCol, len(spec.Categorical))
	for i, c := range spec.Categorical {
		s := df.Col(c)
		if s.Err != nil {
			return nil, fmt.Errorf("design: %w", s.Err)
		}
		rows := s.Records()
		cc := catCol{name: c, index: map[string]int{}, rows: rows}
		for _, v := range rows {
			if _, ok := cc.index[v]; !ok {
				cc.index[v] = len(cc.levels)
				cc.levels = append(cc.levels, v)
			}
		}
		cats[i] = cc
	}

	cols := []string{"(intercept)"}
	cols = append(cols, spec.Numeric...)
	for _, cc := range cats {
		for _, lvl := range cc.levels[1:] {
			cols = append(cols, cc.name+"="+lvl)
		}
	}
	p := len(cols)

	ys := df.Col(spec.Response)
	if ys.Err != nil {
		return nil, fmt.Errorf("design: %w", ys.Err)
	}
	yv := ys.Float()

	x := mat.NewDense(n, p, nil)
	y := mat.NewVecDense(n, nil)
	for r := 0; r < n; r++ {
		if math.IsNaN(yv[r]) {
			return nil, fmt.Errorf("design: NaN response in row %d", r)
		}
		y.SetVec(r, yv[r])
		x.Set(r, 0, 1)
		j := 1
		for i := range spec.Numeric {
			v := numeric[i][r]
			if math.IsNaN(v) {
				return nil, fmt.Errorf("design: NaN in %q row %d", spec.Numeric[i], r)
			}
			x.Set(r, j, v)
			j++
		}
		for _, cc := range cats {
			lvl := cc.index[cc.rows[r]]
			for k := 1; k < len(cc.levels); k++ {
				if lvl == k {
					x.Set(r, j, 1)
				}
				j++
			}
		}
	}
	return &Design{Cols: cols, X: x, Y: y}, nil
}

// Rows returns a design restricted to the given row indexes. Column labels
// are shared, so categorical encodings stay consistent between train and test
// partitions built from the same full design.
func (d *Design) Rows(idx []int) *Design {
	_, p := d.X.Dims()
	x := mat.NewDense(len(idx), p, nil)
	y := mat.NewVecDense(len(idx), nil)
	for i, r := range idx {
		for j := 0; j < p; j++ {
			x.Set(i, j, d.X.At(r, j))
		}
		y.SetVec(i, d.Y.AtVec(r))
	}
	return &Design{Cols: d.Cols, X: x, Y: y}
}

// rank counts singular values above a scale-relative tolerance.
func rank(vals []float64, rows, cols int) int {
	if len(vals) == 0 {
		return 0
	}
	max := vals[0]
	dim := rows
	if cols > dim {
		dim = cols
	}
	tol := float64(dim) * max * 1e-12
	r := 0
	for _, v := range vals {
		if v > tol {
			r++
		}
	}
	return r
}
