package surrogate

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// forestTrainer fits a bagged ensemble of regression trees. The spread of
// the per-tree predictions doubles as the uncertainty estimate.
type forestTrainer struct {
	trees    int
	maxDepth int
	minLeaf  int
	seed     int64
}

// NewRandomForest returns the random-forest family trainer. The seed makes
// the bootstrap draws reproducible across fits.
func NewRandomForest(seed int64) Trainer {
	return &forestTrainer{trees: 64, maxDepth: 8, minLeaf: 2, seed: seed}
}

func (t *forestTrainer) Name() string { return FamilyRandomForest }

func (t *forestTrainer) Fit(X [][]float64, y []float64) (Model, error) {
	n := len(X)
	if n == 0 || len(y) != n {
		return nil, fmt.Errorf("forest: need matching non-empty X and y, got %d/%d", n, len(y))
	}
	rng := rand.New(rand.NewSource(t.seed))

	trees := make([]*treeNode, t.trees)
	for i := range trees {
		// Bootstrap resample with replacement.
		bx := make([][]float64, n)
		by := make([]float64, n)
		for j := 0; j < n; j++ {
			k := rng.Intn(n)
			bx[j] = X[k]
			by[j] = y[k]
		}
		trees[i] = buildTree(bx, by, t.maxDepth, t.minLeaf)
	}
	return &forestModel{trees: trees}, nil
}

type forestModel struct {
	trees []*treeNode
}

func (m *forestModel) Predict(X [][]float64) []float64 {
	mean, _ := m.PredictWithStd(X)
	return mean
}

func (m *forestModel) PredictWithStd(X [][]float64) ([]float64, []float64) {
	mean := make([]float64, len(X))
	std := make([]float64, len(X))
	votes := make([]float64, len(m.trees))
	for i, x := range X {
		for j, tr := range m.trees {
			votes[j] = tr.predict(x)
		}
		mean[i] = stat.Mean(votes, nil)
		sd := stat.StdDev(votes, nil)
		if math.IsNaN(sd) {
			sd = 0
		}
		std[i] = sd
	}
	return mean, std
}

// treeNode is one node of a regression tree: either a split on a feature
// threshold or a leaf holding the mean target of its samples.
type treeNode struct {
	feature     int
	threshold   float64
	left, right *treeNode
	value       float64
	leaf        bool
}

func buildTree(X [][]float64, y []float64, depth, minLeaf int) *treeNode {
	if depth == 0 || len(y) < 2*minLeaf || constant(y) {
		return &treeNode{leaf: true, value: stat.Mean(y, nil)}
	}
	feature, threshold, ok := bestSplit(X, y, minLeaf)
	if !ok {
		return &treeNode{leaf: true, value: stat.Mean(y, nil)}
	}

	var lx, rx [][]float64
	var ly, ry []float64
	for i, x := range X {
		if x[feature] <= threshold {
			lx = append(lx, x)
			ly = append(ly, y[i])
		} else {
			rx = append(rx, x)
			ry = append(ry, y[i])
		}
	}
	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      buildTree(lx, ly, depth-1, minLeaf),
		right:     buildTree(rx, ry, depth-1, minLeaf),
	}
}

// bestSplit scans every feature and candidate threshold for the split with
// the lowest weighted variance of the two sides.
func bestSplit(X [][]float64, y []float64, minLeaf int) (int, float64, bool) {
	n := len(y)
	dim := len(X[0])
	bestScore := math.Inf(1)
	var bestFeature int
	var bestThreshold float64
	found := false

	idx := make([]int, n)
	for feature := 0; feature < dim; feature++ {
		for i := range idx {
			idx[i] = i
		}
		sort.Slice(idx, func(a, b int) bool { return X[idx[a]][feature] < X[idx[b]][feature] })

		for cut := minLeaf; cut <= n-minLeaf; cut++ {
			lo, hi := X[idx[cut-1]][feature], X[idx[cut]][feature]
			if lo == hi {
				continue
			}
			var lv, rv []float64
			for _, i := range idx[:cut] {
				lv = append(lv, y[i])
			}
			for _, i := range idx[cut:] {
				rv = append(rv, y[i])
			}
			score := sse(lv) + sse(rv)
			if score < bestScore {
				bestScore = score
				bestFeature = feature
				bestThreshold = (lo + hi) / 2
				found = true
			}
		}
	}
	return bestFeature, bestThreshold, found
}

func sse(y []float64) float64 {
	m := stat.Mean(y, nil)
	var sum float64
	for _, v := range y {
		d := v - m
		sum += d * d
	}
	return sum
}

func constant(y []float64) bool {
	for _, v := range y {
		if v != y[0] {
			return false
		}
	}
	return true
}

func (n *treeNode) predict(x []float64) float64 {
	for !n.leaf {
		if x[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}
