package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatinHypercube_Sample_ReturnsNVectorsInBounds(t *testing.T) {
	bounds := Bounds{{400, 1800}, {0.15, 0.55}}
	s := NewLatinHypercube(bounds, 77)

	for _, n := range []int{1, 5, 100} {
		got := s.Sample(n)
		require.Len(t, got, n)
		for _, x := range got {
			assert.True(t, bounds.Contains(x), "sample %v outside bounds", x)
		}
	}
}

func TestLatinHypercube_Sample_NonPositiveN_ReturnsEmpty(t *testing.T) {
	s := NewLatinHypercube(DefaultBounds, 1)
	assert.Empty(t, s.Sample(0))
	assert.Empty(t, s.Sample(-3))
}

func TestLatinHypercube_Sample_SameSeed_SameDesign(t *testing.T) {
	a := NewLatinHypercube(DefaultBounds, 42).Sample(20)
	b := NewLatinHypercube(DefaultBounds, 42).Sample(20)
	assert.Equal(t, a, b)
}

func TestLatinHypercube_Sample_RepeatedCall_SameDesign(t *testing.T) {
	// Each Sample call reseeds, so a replayed generation gets the same batch.
	s := NewLatinHypercube(DefaultBounds, 42)
	assert.Equal(t, s.Sample(20), s.Sample(20))
}

func TestLatinHypercube_Sample_DifferentSeed_DifferentDesign(t *testing.T) {
	a := NewLatinHypercube(DefaultBounds, 1).Sample(20)
	b := NewLatinHypercube(DefaultBounds, 2).Sample(20)
	assert.NotEqual(t, a, b)
}

func TestLatinHypercube_Sample_StratifiesEachDimension(t *testing.T) {
	// One point per interval slice and dimension: with n samples every
	// stratum [j/n, (j+1)/n) of each dimension holds exactly one point.
	bounds := Bounds{{0, 1}, {10, 20}}
	n := 10
	got := NewLatinHypercube(bounds, 7).Sample(n)
	require.Len(t, got, n)

	for d := 0; d < bounds.Dim(); d++ {
		lo, hi := bounds[d][0], bounds[d][1]
		occupied := make([]int, n)
		for _, x := range got {
			u := (x[d] - lo) / (hi - lo)
			stratum := int(u * float64(n))
			if stratum == n { // upper edge
				stratum = n - 1
			}
			occupied[stratum]++
		}
		for j, c := range occupied {
			assert.Equal(t, 1, c, "dimension %d stratum %d", d, j)
		}
	}
}

func TestUniform_Sample_InBoundsAndDeterministic(t *testing.T) {
	bounds := Bounds{{-5, 5}}
	a := NewUniform(bounds, 9).Sample(50)
	b := NewUniform(bounds, 9).Sample(50)
	require.Len(t, a, 50)
	for _, x := range a {
		assert.True(t, bounds.Contains(x))
	}
	assert.Equal(t, a, b)
	assert.Empty(t, NewUniform(bounds, 9).Sample(0))
}
