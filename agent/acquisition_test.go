package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rankModel scores each pool point by its first component, with a fixed
// per-point std so the LCB ordering is controlled exactly.
type rankModel struct{ std float64 }

func (m rankModel) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, x := range X {
		out[i] = x[0]
	}
	return out
}

func (m rankModel) PredictWithStd(X [][]float64) ([]float64, []float64) {
	mean := m.Predict(X)
	std := make([]float64, len(X))
	for i := range std {
		std[i] = m.std
	}
	return mean, std
}

func TestSelectBatch_RanksByLowerConfidenceBound(t *testing.T) {
	pool := [][]float64{{3}, {1}, {2}}
	got := SelectBatch(rankModel{}, pool, 2, 1.96)

	require.Len(t, got, 2)
	assert.Equal(t, [][]float64{{1}, {2}}, got)
}

func TestSelectBatch_UncertaintyCanPromoteWorseMean(t *testing.T) {
	// Point {10} has the worse mean but a huge std: with z=1.96 its LCB
	// undercuts the certain point {1}.
	pool := [][]float64{{1}, {10}}
	model := uncertainPair{}
	got := SelectBatch(model, pool, 1, 1.96)

	require.Len(t, got, 1)
	assert.Equal(t, []float64{10}, got[0])
}

type uncertainPair struct{}

func (uncertainPair) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, x := range X {
		out[i] = x[0]
	}
	return out
}

func (uncertainPair) PredictWithStd(X [][]float64) ([]float64, []float64) {
	mean := uncertainPair{}.Predict(X)
	std := make([]float64, len(X))
	for i, x := range X {
		if x[0] == 10 {
			std[i] = 100
		}
	}
	return mean, std
}

func TestSelectBatch_TiesKeepPoolOrder(t *testing.T) {
	// Constant predictor: every score ties, stable sort preserves pool order.
	pool := [][]float64{{5, 0}, {1, 1}, {9, 2}}
	got := SelectBatch(constModel{}, pool, 3, 1.96)
	assert.Equal(t, pool, got)
}

type constModel struct{}

func (constModel) Predict(X [][]float64) []float64 { return make([]float64, len(X)) }
func (constModel) PredictWithStd(X [][]float64) ([]float64, []float64) {
	return make([]float64, len(X)), make([]float64, len(X))
}

func TestSelectBatch_BatchLargerThanPool_ReturnsWholePool(t *testing.T) {
	pool := [][]float64{{2}, {1}}
	got := SelectBatch(rankModel{}, pool, 10, 1.96)
	assert.Equal(t, [][]float64{{1}, {2}}, got)
}

func TestSelectBatch_EmptyPoolOrZeroBatch_ReturnsEmpty(t *testing.T) {
	assert.Empty(t, SelectBatch(rankModel{}, nil, 5, 1.96))
	assert.Empty(t, SelectBatch(rankModel{}, [][]float64{{1}}, 0, 1.96))
}
