package agent

import (
	"math/rand"
)

// Sampler generates candidate parameter vectors inside declared bounds.
// Implementations must be deterministic: the same seed and the same n yield
// the same design, so a crashed generation can be replayed exactly.
type Sampler interface {
	Sample(n int) [][]float64
}

// LatinHypercube is the preferred space-filling strategy: one stratified
// sample per interval slice and dimension, independently shuffled per
// dimension. Each Sample call reseeds from the configured seed, mirroring
// the reproducible-design contract.
type LatinHypercube struct {
	bounds Bounds
	seed   int64
}

// NewLatinHypercube builds a Latin hypercube sampler over bounds.
func NewLatinHypercube(bounds Bounds, seed int64) *LatinHypercube {
	return &LatinHypercube{bounds: bounds, seed: seed}
}

// Sample returns n vectors spread evenly across the bounded region.
// n <= 0 returns an empty slice.
func (s *LatinHypercube) Sample(n int) [][]float64 {
	if n <= 0 {
		return [][]float64{}
	}
	rng := rand.New(rand.NewSource(s.seed))
	dim := s.bounds.Dim()

	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, dim)
	}
	for d := 0; d < dim; d++ {
		// One jittered draw per stratum, then shuffle the column.
		col := make([]float64, n)
		for j := 0; j < n; j++ {
			col[j] = (float64(j) + rng.Float64()) / float64(n)
		}
		rng.Shuffle(n, func(a, b int) { col[a], col[b] = col[b], col[a] })

		lo, hi := s.bounds[d][0], s.bounds[d][1]
		for j := 0; j < n; j++ {
			out[j][d] = lo + col[j]*(hi-lo)
		}
	}
	return out
}

// Uniform draws each component independently from its bound. Used when
// space-filling coverage is not required; interchangeable with
// LatinHypercube behind the Sampler interface.
type Uniform struct {
	bounds Bounds
	seed   int64
}

// NewUniform builds a uniform-random sampler over bounds.
func NewUniform(bounds Bounds, seed int64) *Uniform {
	return &Uniform{bounds: bounds, seed: seed}
}

// Sample returns n independent uniform draws. n <= 0 returns an empty slice.
func (s *Uniform) Sample(n int) [][]float64 {
	if n <= 0 {
		return [][]float64{}
	}
	rng := rand.New(rand.NewSource(s.seed))
	dim := s.bounds.Dim()

	out := make([][]float64, n)
	for i := range out {
		v := make([]float64, dim)
		for d := 0; d < dim; d++ {
			lo, hi := s.bounds[d][0], s.bounds[d][1]
			v[d] = lo + rng.Float64()*(hi-lo)
		}
		out[i] = v
	}
	return out
}
