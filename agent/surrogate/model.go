package surrogate

import (
	"fmt"
	"sort"
)

// Family names understood by the default registry.
const (
	FamilyGaussianProcess = "GaussianProcess"
	FamilyRandomForest    = "RandomForest"
	FamilyRBF             = "RadialBasisFunctions"
)

// Model predicts the mean outcome for a batch of parameter vectors.
type Model interface {
	Predict(X [][]float64) []float64
}

// UncertaintyModel additionally reports a predictive standard deviation
// per point. Families without a native uncertainty estimate implement only
// Model; PredictWithUncertainty synthesizes a std for them.
type UncertaintyModel interface {
	Model
	PredictWithStd(X [][]float64) (mean, std []float64)
}

// Trainer fits one model family on a training set.
type Trainer interface {
	Name() string
	Fit(X [][]float64, y []float64) (Model, error)
}

// Registry resolves family names to trainers.
type Registry interface {
	Trainer(name string) (Trainer, bool)
	Names() []string
}

// SubsetRegistry is the newer backend convention: the candidate family
// subset is bound at construction time. Registries predating it accept the
// subset at setup time instead (see legacyComparator).
type SubsetRegistry interface {
	Registry
	WithSubset(names []string) (Registry, error)
}

// mapRegistry is the in-repo family registry. It implements SubsetRegistry.
type mapRegistry struct {
	trainers map[string]Trainer
}

// NewRegistry builds a registry over the given trainers.
func NewRegistry(trainers ...Trainer) Registry {
	m := make(map[string]Trainer, len(trainers))
	for _, tr := range trainers {
		m[tr.Name()] = tr
	}
	return &mapRegistry{trainers: m}
}

// DefaultRegistry returns the standard family set. The seed feeds the
// randomized families (the forest's bootstrap draws).
func DefaultRegistry(seed int64) Registry {
	return NewRegistry(
		NewGaussianProcess(),
		NewRandomForest(seed),
		NewRBF(),
	)
}

func (r *mapRegistry) Trainer(name string) (Trainer, bool) {
	tr, ok := r.trainers[name]
	return tr, ok
}

func (r *mapRegistry) Names() []string {
	names := make([]string, 0, len(r.trainers))
	for name := range r.trainers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WithSubset returns a registry restricted to the named families.
func (r *mapRegistry) WithSubset(names []string) (Registry, error) {
	m := make(map[string]Trainer, len(names))
	for _, name := range names {
		tr, ok := r.trainers[name]
		if !ok {
			return nil, fmt.Errorf("surrogate: unknown model family %q", name)
		}
		m[name] = tr
	}
	return &mapRegistry{trainers: m}, nil
}
