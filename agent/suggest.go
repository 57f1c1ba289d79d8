package agent

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/gokay-avci/UnifiedLAB/agent/surrogate"
)

// DefaultBatchSize is used when a request does not name a batch size.
const DefaultBatchSize = 10

// Fitter abstracts the surrogate backend adapter: train the named candidate
// families and return an opaque trained predictor plus the chosen family
// name. The predictor is consumed through surrogate.PredictWithUncertainty.
type Fitter interface {
	FitAndSelect(X [][]float64, y []float64, folds int, names []string) (model any, name string, err error)
}

// surrogateFitter adapts *surrogate.Adapter to the Fitter interface,
// keeping the model return opaque and nil on failure.
type surrogateFitter struct {
	a *surrogate.Adapter
}

// NewFitter wraps the surrogate adapter for orchestrator use.
func NewFitter(a *surrogate.Adapter) Fitter { return surrogateFitter{a: a} }

func (f surrogateFitter) FitAndSelect(X [][]float64, y []float64, folds int, names []string) (any, string, error) {
	sel, name, err := f.a.FitAndSelect(X, y, folds, names)
	if err != nil {
		return nil, "", err
	}
	return sel, name, nil
}

// Sink is the fire-and-forget diagnostics port. Implementations write
// advisory artifacts (snapshot CSV, surface plot); the orchestrator logs
// their errors and never lets them affect the suggestion.
type Sink interface {
	SnapshotTrainingSet(X [][]float64, y []float64) error
	PlotSurface(model any, bounds Bounds, obs [][]float64, gen int, label string) error
}

// SuggestParams carries the per-call knobs from the request payload.
// Non-positive sizes fall back to the tuning defaults.
type SuggestParams struct {
	Gen           int // iteration index; 0 is the warm-start generation
	WarmStartSize int
	BatchSize     int
}

// Orchestrator runs the suggestion state machine. It is stateless across
// calls: every Suggest receives the whole ledger and builds (and discards)
// its own model.
type Orchestrator struct {
	bounds  Bounds
	seed    int64
	tuning  Tuning
	sampler Sampler
	fitter  Fitter
	diag    Sink
}

// NewOrchestrator wires the engine for one search region. diag may be nil.
func NewOrchestrator(bounds Bounds, seed int64, tuning Tuning, fitter Fitter, diag Sink) *Orchestrator {
	return &Orchestrator{
		bounds:  bounds,
		seed:    seed,
		tuning:  tuning,
		sampler: NewLatinHypercube(bounds, seed),
		fitter:  fitter,
		diag:    diag,
	}
}

// NewDefaultOrchestrator builds an orchestrator over the standard family
// registry.
func NewDefaultOrchestrator(bounds Bounds, seed int64, tuning Tuning, diag Sink) *Orchestrator {
	adapter := surrogate.NewAdapter(surrogate.DefaultRegistry(seed))
	return NewOrchestrator(bounds, seed, tuning, NewFitter(adapter), diag)
}

// Suggest runs the state machine exactly once and always returns a result:
//
//	Genesis       gen == 0             → warm-start space-filling batch
//	LowData       valid < MinValid     → random space-filling batch
//	ModelGuided   otherwise            → fit, select, LCB acquisition
//	CrashFallback fit failure          → space-filling batch + crash report
//
// No state retries; a batch is produced regardless of modeling failure.
func (o *Orchestrator) Suggest(ledger []Record, p SuggestParams) SuggestionResult {
	warm := p.WarmStartSize
	if warm <= 0 {
		warm = o.tuning.WarmStartSize
	}
	batch := p.BatchSize
	if batch <= 0 {
		batch = DefaultBatchSize
	}

	if p.Gen == 0 {
		return SuggestionResult{
			Candidates: o.sampler.Sample(warm),
			Reasoning:  "Warm_Start_LHS",
			Metadata:   "Genesis",
		}
	}

	ts := NewReducer(o.tuning.DedupDigits).Reduce(ledger)
	o.snapshot(ts)
	valid := ts.Len()

	if valid < o.tuning.MinValid {
		return SuggestionResult{
			Candidates: o.sampler.Sample(batch),
			Reasoning:  fmt.Sprintf("Fallback_Random(Data=%d)", valid),
			Metadata:   "LowData",
		}
	}

	names := []string{surrogate.FamilyGaussianProcess, surrogate.FamilyRandomForest}
	if valid > o.tuning.WideThreshold {
		names = append(names, surrogate.FamilyRBF)
	}
	folds := o.tuning.CVFolds
	if folds > valid {
		folds = valid
	}

	model, name, err := o.fitter.FitAndSelect(o.jitter(ts.X), ts.Y, folds, names)
	if err != nil {
		logrus.Errorf("[crash gen %d] surrogate fit: %v", p.Gen, err)
		report := err.Error()
		var fe *surrogate.FitError
		if errors.As(err, &fe) {
			report = fe.Report()
		}
		return SuggestionResult{
			Candidates: o.sampler.Sample(batch),
			Reasoning:  "Fallback_Crash",
			Metadata:   report,
		}
	}

	pool := o.sampler.Sample(o.tuning.PoolSize)
	cands := SelectBatch(model, pool, batch, o.tuning.ZScore)
	o.plot(model, ts.X, p.Gen, name)

	return SuggestionResult{
		Candidates: cands,
		Reasoning:  "AL_" + name,
		Metadata:   "Success_" + name,
	}
}

// jitter adds a small deterministic Gaussian perturbation to training
// inputs so duplicate-adjacent points do not degenerate the kernel matrix.
func (o *Orchestrator) jitter(X [][]float64) [][]float64 {
	if o.tuning.JitterScale <= 0 {
		return X
	}
	rng := rand.New(rand.NewSource(o.seed))
	out := make([][]float64, len(X))
	for i, x := range X {
		v := make([]float64, len(x))
		for d := range x {
			v[d] = x[d] + rng.NormFloat64()*o.tuning.JitterScale
		}
		out[i] = v
	}
	return out
}

func (o *Orchestrator) snapshot(ts TrainingSet) {
	if o.diag == nil {
		return
	}
	if err := o.diag.SnapshotTrainingSet(ts.X, ts.Y); err != nil {
		logrus.Warnf("snapshot write failed: %v", err)
	}
}

func (o *Orchestrator) plot(model any, obs [][]float64, gen int, label string) {
	if o.diag == nil {
		return
	}
	if err := o.diag.PlotSurface(model, o.bounds, obs, gen, label); err != nil {
		logrus.Warnf("surface plot failed: %v", err)
	}
}
