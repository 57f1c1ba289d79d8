package surrogate

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// Selection is the outcome of a model comparison: the winning family,
// refitted on the full training set, plus per-family validation scores.
type Selection struct {
	name   string
	model  Model
	scores map[string]float64
}

// BestModelName returns the name of the winning family.
func (s *Selection) BestModelName() string { return s.name }

// BestModel returns the refitted winner.
func (s *Selection) BestModel() Model { return s.model }

// Scores returns the cross-validated RMSE per compared family.
func (s *Selection) Scores() map[string]float64 { return s.scores }

// Predict delegates mean prediction to the winner.
func (s *Selection) Predict(X [][]float64) []float64 { return s.model.Predict(X) }

// Comparator runs a cross-validated comparison of candidate families and
// refits the winner. Two concrete implementations exist because the family
// subset moved from setup time to construction time across backend
// generations; newComparator probes which convention the registry speaks.
type Comparator interface {
	Compare(X [][]float64, y []float64, folds int) (*Selection, error)
}

// newComparator prefers the newer subset-at-construction convention and
// falls back to the legacy construct-then-setup convention when the
// registry does not implement it. The fallback is invisible to callers.
func newComparator(reg Registry, names []string, log *logrus.Logger) (Comparator, error) {
	if sr, ok := reg.(SubsetRegistry); ok {
		sub, err := sr.WithSubset(names)
		if err != nil {
			return nil, err
		}
		return &subsetComparator{reg: sub, log: log}, nil
	}
	c := &legacyComparator{reg: reg, log: log}
	if err := c.setup(names); err != nil {
		return nil, err
	}
	return c, nil
}

// subsetComparator holds a registry already restricted to the candidate
// families (newer convention).
type subsetComparator struct {
	reg Registry
	log *logrus.Logger
}

func (c *subsetComparator) Compare(X [][]float64, y []float64, folds int) (*Selection, error) {
	return compareFamilies(c.reg, c.reg.Names(), X, y, folds, c.log)
}

// legacyComparator is constructed over the full registry and receives the
// candidate subset through a separate setup step (older convention).
type legacyComparator struct {
	reg   Registry
	names []string
	log   *logrus.Logger
}

func (c *legacyComparator) setup(names []string) error {
	for _, name := range names {
		if _, ok := c.reg.Trainer(name); !ok {
			return fmt.Errorf("surrogate: unknown model family %q", name)
		}
	}
	c.names = names
	return nil
}

func (c *legacyComparator) Compare(X [][]float64, y []float64, folds int) (*Selection, error) {
	return compareFamilies(c.reg, c.names, X, y, folds, c.log)
}

// compareFamilies scores every candidate family by k-fold cross-validated
// RMSE and refits the best one on the full training set. Folds are
// contiguous and deterministic.
func compareFamilies(reg Registry, names []string, X [][]float64, y []float64, folds int, log *logrus.Logger) (*Selection, error) {
	n := len(X)
	if n == 0 {
		return nil, fmt.Errorf("surrogate: empty training set")
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("surrogate: no candidate families")
	}
	if folds > n {
		folds = n
	}
	if folds < 2 {
		folds = 2
	}

	scores := make(map[string]float64, len(names))
	bestScore := math.Inf(1)
	var bestName string

	for _, name := range names {
		tr, ok := reg.Trainer(name)
		if !ok {
			return nil, fmt.Errorf("surrogate: unknown model family %q", name)
		}
		score, err := crossValidate(tr, X, y, folds)
		if err != nil {
			return nil, fmt.Errorf("surrogate: cross-validating %s: %w", name, err)
		}
		log.Debugf("family %s: cv-rmse=%.6g (folds=%d, n=%d)", name, score, folds, n)
		scores[name] = score
		if score < bestScore {
			bestScore = score
			bestName = name
		}
	}

	tr, _ := reg.Trainer(bestName)
	model, err := tr.Fit(X, y)
	if err != nil {
		return nil, fmt.Errorf("surrogate: refitting %s: %w", bestName, err)
	}
	log.Infof("selected %s (cv-rmse=%.6g)", bestName, bestScore)
	return &Selection{name: bestName, model: model, scores: scores}, nil
}

// crossValidate returns the RMSE over held-out contiguous folds.
func crossValidate(tr Trainer, X [][]float64, y []float64, folds int) (float64, error) {
	n := len(X)
	var sq float64
	var count int

	for f := 0; f < folds; f++ {
		lo := f * n / folds
		hi := (f + 1) * n / folds
		if lo == hi {
			continue
		}
		trainX := make([][]float64, 0, n-(hi-lo))
		trainY := make([]float64, 0, n-(hi-lo))
		trainX = append(trainX, X[:lo]...)
		trainX = append(trainX, X[hi:]...)
		trainY = append(trainY, y[:lo]...)
		trainY = append(trainY, y[hi:]...)
		if len(trainX) == 0 {
			continue
		}

		model, err := tr.Fit(trainX, trainY)
		if err != nil {
			return 0, err
		}
		pred := model.Predict(X[lo:hi])
		for i, p := range pred {
			d := p - y[lo+i]
			if math.IsNaN(d) || math.IsInf(d, 0) {
				return 0, fmt.Errorf("non-finite prediction in fold %d", f)
			}
			sq += d * d
			count++
		}
	}
	if count == 0 {
		return 0, fmt.Errorf("no holdout predictions (n=%d, folds=%d)", n, folds)
	}
	return math.Sqrt(sq / float64(count)), nil
}
