package model

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	irlsMaxIter = 25
	irlsTol     = 1e-8
	// weight floor keeps the working weights away from zero when a fitted
	// probability saturates
	irlsMinWeight = 1e-10
)

// LogisticModel holds logistic-regression coefficients labeled by design
// column.
type LogisticModel struct {
	Cols       []string
	Coef       []float64
	Iterations int
}

// FitLogistic fits a binary logistic regression by iteratively reweighted
// least squares. The response must be 0/1. A rank-deficient design is a
// SingularModelError; non-convergence within the iteration budget or a
// numerically singular weighted system is a FitError.
func FitLogistic(d *Design) (*LogisticModel, error) {
	n, p := d.X.Dims()

	var svd mat.SVD
	if ok := svd.Factorize(d.X, mat.SVDThin); !ok {
		return nil, &FitError{Model: "logistic", Reason: "SVD factorization did not converge"}
	}
	if r := rank(svd.Values(nil), n, p); r < p {
		return nil, &SingularModelError{Rank: r, Cols: p}
	}

	beta := mat.NewVecDense(p, nil)
	eta := mat.NewVecDense(n, nil)
	xtwx := mat.NewDense(p, p, nil)
	xtwz := mat.NewVecDense(p, nil)

	for iter := 1; iter <= irlsMaxIter; iter++ {
		eta.MulVec(d.X, beta)

		// Weighted normal equations: (X'WX) beta = X'Wz with
		// z = eta + (y-mu)/w, w = mu(1-mu).
		xtwx.Zero()
		for j := 0; j < p; j++ {
			xtwz.SetVec(j, 0)
		}
		for i := 0; i < n; i++ {
			mu := sigmoid(eta.AtVec(i))
			w := mu * (1 - mu)
			if w < irlsMinWeight {
				w = irlsMinWeight
			}
			z := eta.AtVec(i) + (d.Y.AtVec(i)-mu)/w
			for j := 0; j < p; j++ {
				xij := d.X.At(i, j)
				xtwz.SetVec(j, xtwz.AtVec(j)+w*xij*z)
				for k := j; k < p; k++ {
					xtwx.Set(j, k, xtwx.At(j, k)+w*xij*d.X.At(i, k))
				}
			}
		}
		for j := 0; j < p; j++ {
			for k := 0; k < j; k++ {
				xtwx.Set(j, k, xtwx.At(k, j))
			}
		}

		next := mat.NewVecDense(p, nil)
		if err := next.SolveVec(xtwx, xtwz); err != nil {
			return nil, &FitError{Model: "logistic", Reason: "weighted normal equations are numerically singular"}
		}

		var delta float64
		for j := 0; j < p; j++ {
			diff := math.Abs(next.AtVec(j) - beta.AtVec(j))
			if diff > delta {
				delta = diff
			}
		}
		beta.CopyVec(next)
		if delta < irlsTol {
			coef := make([]float64, p)
			copy(coef, beta.RawVector().Data)
			return &LogisticModel{
				Cols:       append([]string(nil), d.Cols...),
				Coef:       coef,
				Iterations: iter,
			}, nil
		}
	}
	return nil, &FitError{Model: "logistic", Reason: "IRLS did not converge"}
}

// Probabilities returns the predicted probability for every row of the
// design matrix.
func (m *LogisticModel) Probabilities(d *Design) []float64 {
	n, p := d.X.Dims()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		var eta float64
		for j := 0; j < p; j++ {
			eta += d.X.At(i, j) * m.Coef[j]
		}
		out[i] = sigmoid(eta)
	}
	return out
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
