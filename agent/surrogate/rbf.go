package surrogate

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// rbfTrainer fits a radial-basis-function interpolant: one Gaussian basis
// centered on each training point, weights from a regularized linear solve.
// It is a mean-only predictor; PredictWithUncertainty synthesizes its std.
// Eligible only once enough data has accumulated (see the orchestrator's
// widening threshold).
type rbfTrainer struct {
	reg float64
}

// NewRBF returns the radial-basis-function family trainer.
func NewRBF() Trainer {
	return &rbfTrainer{reg: 1e-8}
}

func (t *rbfTrainer) Name() string { return FamilyRBF }

func (t *rbfTrainer) Fit(X [][]float64, y []float64) (Model, error) {
	n := len(X)
	if n == 0 || len(y) != n {
		return nil, fmt.Errorf("rbf: need matching non-empty X and y, got %d/%d", n, len(y))
	}

	sc := newScaler(X)
	Xs := sc.transform(X)
	ell := medianDistance(Xs)

	phi := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := rbfKernel(Xs[i], Xs[j], ell)
			if i == j {
				v += t.reg
			}
			phi.SetSym(i, j, v)
		}
	}

	var chol mat.Cholesky
	if !chol.Factorize(phi) {
		return nil, fmt.Errorf("rbf: basis matrix not positive definite (n=%d)", n)
	}
	w := mat.NewVecDense(n, nil)
	if err := chol.SolveVecTo(w, mat.NewVecDense(n, y)); err != nil {
		return nil, fmt.Errorf("rbf: solve for weights: %w", err)
	}

	return &rbfModel{scaler: sc, centers: Xs, w: w, ell: ell}, nil
}

type rbfModel struct {
	scaler  *scaler
	centers [][]float64
	w       *mat.VecDense
	ell     float64
}

func (m *rbfModel) Predict(X [][]float64) []float64 {
	Xs := m.scaler.transform(X)
	out := make([]float64, len(Xs))
	for p, x := range Xs {
		var sum float64
		for i, c := range m.centers {
			sum += m.w.AtVec(i) * rbfKernel(x, c, m.ell)
		}
		out[p] = sum
	}
	return out
}
