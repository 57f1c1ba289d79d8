package agent

import (
	"sort"

	"github.com/gokay-avci/UnifiedLAB/agent/surrogate"
)

// SelectBatch ranks every pool member by its lower confidence bound
// (mean − z·std, minimization objective) and returns the batchSize best in
// ascending score order. Ties keep pool order (stable sort). A batchSize
// larger than the pool returns the whole pool.
func SelectBatch(model any, pool [][]float64, batchSize int, z float64) [][]float64 {
	if batchSize <= 0 || len(pool) == 0 {
		return [][]float64{}
	}
	if batchSize > len(pool) {
		batchSize = len(pool)
	}

	mean, std := surrogate.PredictWithUncertainty(model, pool)
	score := make([]float64, len(pool))
	for i := range pool {
		score[i] = mean[i] - z*std[i]
	}

	idx := make([]int, len(pool))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return score[idx[a]] < score[idx[b]] })

	batch := make([][]float64, batchSize)
	for i := 0; i < batchSize; i++ {
		batch[i] = pool[idx[i]]
	}
	return batch
}
