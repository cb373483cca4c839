package model

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// LinearModel holds OLS coefficients labeled by design column. Aliased lists
// columns that are exact linear combinations of earlier ones; their
// coefficients are NaN and they contribute nothing to fitted values.
type LinearModel struct {
	Cols    []string
	Coef    []float64
	Aliased []string
}

// FitOLS fits ordinary least squares via SVD. Columns that are linearly
// dependent on earlier columns are dropped from the solve and reported as
// aliased, the way a combined-subset fit's membership indicator aliases
// against the per-region offsets. A design with no usable columns is a
// SingularModelError.
func FitOLS(d *Design) (*LinearModel, error) {
	n, p := d.X.Dims()

	pivots, aliased := independentColumns(d.X)
	if len(pivots) == 0 {
		return nil, &SingularModelError{Rank: 0, Cols: p}
	}

	xr := mat.NewDense(n, len(pivots), nil)
	for i := 0; i < n; i++ {
		for j, c := range pivots {
			xr.Set(i, j, d.X.At(i, c))
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(xr, mat.SVDThin); !ok {
		return nil, &FitError{Model: "ols", Reason: "SVD factorization did not converge"}
	}
	vals := svd.Values(nil)
	if r := rank(vals, n, len(pivots)); r < len(pivots) {
		return nil, &SingularModelError{Rank: r, Cols: p}
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	// beta = V * diag(1/s) * U^T * y
	scaled := mat.NewVecDense(len(pivots), nil)
	for j := range pivots {
		var dot float64
		for i := 0; i < n; i++ {
			dot += u.At(i, j) * d.Y.AtVec(i)
		}
		scaled.SetVec(j, dot/vals[j])
	}
	beta := mat.NewVecDense(len(pivots), nil)
	beta.MulVec(&v, scaled)

	coef := make([]float64, p)
	for j := range coef {
		coef[j] = math.NaN()
	}
	for j, c := range pivots {
		coef[c] = beta.AtVec(j)
	}
	m := &LinearModel{Cols: append([]string(nil), d.Cols...), Coef: coef}
	for _, c := range aliased {
		m.Aliased = append(m.Aliased, d.Cols[c])
	}
	return m, nil
}

// independentColumns selects a maximal left-to-right set of linearly
// independent columns by modified Gram-Schmidt. The remainder are aliased.
func independentColumns(x *mat.Dense) (pivots, aliased []int) {
	n, p := x.Dims()
	basis := make([][]float64, 0, p)
	for j := 0; j < p; j++ {
		v := make([]float64, n)
		var norm0 float64
		for i := 0; i < n; i++ {
			v[i] = x.At(i, j)
			norm0 += v[i] * v[i]
		}
		norm0 = math.Sqrt(norm0)
		for _, q := range basis {
			var dot float64
			for i := 0; i < n; i++ {
				dot += q[i] * v[i]
			}
			for i := 0; i < n; i++ {
				v[i] -= dot * q[i]
			}
		}
		var norm float64
		for i := 0; i < n; i++ {
			norm += v[i] * v[i]
		}
		norm = math.Sqrt(norm)
		if norm0 == 0 || norm <= 1e-10*norm0 {
			aliased = append(aliased, j)
			continue
		}
		for i := 0; i < n; i++ {
			v[i] /= norm
		}
		basis = append(basis, v)
		pivots = append(pivots, j)
	}
	return pivots, aliased
}

// Fitted returns the model's fitted value for every row of the design matrix
// it was trained on (in-sample predictions). Aliased columns are skipped.
func (m *LinearModel) Fitted(d *Design) []float64 {
	n, p := d.X.Dims()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		var s float64
		for j := 0; j < p; j++ {
			if math.IsNaN(m.Coef[j]) {
				continue
			}
			s += d.X.At(i, j) * m.Coef[j]
		}
		out[i] = s
	}
	return out
}
