package surrogate

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// gpTrainer fits a Gaussian-process regressor with an RBF kernel. Inputs
// are rescaled to the unit cube and targets standardized before fitting;
// the kernel length scale comes from the median pairwise distance.
type gpTrainer struct {
	noise float64
}

// NewGaussianProcess returns the GP family trainer.
func NewGaussianProcess() Trainer {
	return &gpTrainer{noise: 1e-6}
}

func (t *gpTrainer) Name() string { return FamilyGaussianProcess }

func (t *gpTrainer) Fit(X [][]float64, y []float64) (Model, error) {
	n := len(X)
	if n == 0 || len(y) != n {
		return nil, fmt.Errorf("gp: need matching non-empty X and y, got %d/%d", n, len(y))
	}

	sc := newScaler(X)
	Xs := sc.transform(X)

	yMean := stat.Mean(y, nil)
	yStd := stat.StdDev(y, nil)
	if math.IsNaN(yStd) || yStd == 0 {
		yStd = 1
	}
	ys := make([]float64, n)
	for i, v := range y {
		ys[i] = (v - yMean) / yStd
	}

	ell := medianDistance(Xs)

	// Factorize K + noise*I, inflating the nugget if the matrix is not
	// positive definite at the base noise level.
	var chol mat.Cholesky
	noise := t.noise
	for attempt := 0; ; attempt++ {
		K := mat.NewSymDense(n, nil)
		for i := 0; i < n; i++ {
			for j := i; j < n; j++ {
				v := rbfKernel(Xs[i], Xs[j], ell)
				if i == j {
					v += noise
				}
				K.SetSym(i, j, v)
			}
		}
		if chol.Factorize(K) {
			break
		}
		if attempt >= 6 {
			return nil, fmt.Errorf("gp: kernel matrix not positive definite after nugget inflation (noise=%g)", noise)
		}
		noise *= 100
	}

	alpha := mat.NewVecDense(n, nil)
	if err := chol.SolveVecTo(alpha, mat.NewVecDense(n, ys)); err != nil {
		return nil, fmt.Errorf("gp: solve for alpha: %w", err)
	}

	return &gpModel{
		scaler: sc,
		X:      Xs,
		chol:   chol,
		alpha:  alpha,
		ell:    ell,
		noise:  noise,
		yMean:  yMean,
		yStd:   yStd,
	}, nil
}

type gpModel struct {
	scaler *scaler
	X      [][]float64
	chol   mat.Cholesky
	alpha  *mat.VecDense
	ell    float64
	noise  float64
	yMean  float64
	yStd   float64
}

func (m *gpModel) Predict(X [][]float64) []float64 {
	mean, _ := m.PredictWithStd(X)
	return mean
}

func (m *gpModel) PredictWithStd(X [][]float64) ([]float64, []float64) {
	Xs := m.scaler.transform(X)
	n := len(m.X)
	mean := make([]float64, len(Xs))
	std := make([]float64, len(Xs))

	k := mat.NewVecDense(n, nil)
	v := mat.NewVecDense(n, nil)
	for p, x := range Xs {
		for i := 0; i < n; i++ {
			k.SetVec(i, rbfKernel(x, m.X[i], m.ell))
		}
		mean[p] = mat.Dot(k, m.alpha)*m.yStd + m.yMean

		variance := 1.0 + m.noise
		if err := m.chol.SolveVecTo(v, k); err == nil {
			variance -= mat.Dot(k, v)
		}
		if variance < 0 {
			variance = 0
		}
		std[p] = math.Sqrt(variance) * m.yStd
	}
	return mean, std
}

// rbfKernel is the squared-exponential kernel on inputs already scaled to
// the unit cube.
func rbfKernel(a, b []float64, ell float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Exp(-sum / (2 * ell * ell))
}

// medianDistance is the median pairwise Euclidean distance, a standard
// length-scale heuristic. Falls back to 0.5 for degenerate sets.
func medianDistance(X [][]float64) float64 {
	var dists []float64
	for i := 0; i < len(X); i++ {
		for j := i + 1; j < len(X); j++ {
			var sum float64
			for d := range X[i] {
				diff := X[i][d] - X[j][d]
				sum += diff * diff
			}
			dists = append(dists, math.Sqrt(sum))
		}
	}
	if len(dists) == 0 {
		return 0.5
	}
	sort.Float64s(dists)
	med := dists[len(dists)/2]
	if med <= 1e-12 {
		return 0.5
	}
	return med
}

// scaler maps each input dimension onto [0, 1] using the training ranges.
type scaler struct {
	lo, span []float64
}

func newScaler(X [][]float64) *scaler {
	dim := len(X[0])
	lo := make([]float64, dim)
	hi := make([]float64, dim)
	for d := 0; d < dim; d++ {
		lo[d], hi[d] = math.Inf(1), math.Inf(-1)
	}
	for _, x := range X {
		for d, v := range x {
			lo[d] = math.Min(lo[d], v)
			hi[d] = math.Max(hi[d], v)
		}
	}
	span := make([]float64, dim)
	for d := range span {
		span[d] = hi[d] - lo[d]
		if span[d] <= 0 {
			span[d] = 1
		}
	}
	return &scaler{lo: lo, span: span}
}

func (s *scaler) transform(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i, x := range X {
		v := make([]float64, len(x))
		for d := range x {
			v[d] = (x[d] - s.lo[d]) / s.span[d]
		}
		out[i] = v
	}
	return out
}
