package agent

import (
	"fmt"
	"math"
)

// Record statuses accepted by the history reducer. Anything else (pending,
// failed, empty) never contributes to training data.
const (
	StatusOK        = "OK"
	StatusCompleted = "Completed"
	StatusFailed    = "Failed"
	StatusPending   = "Pending"
)

// Bounds is an ordered list of [lower, upper] intervals, one per tunable
// dimension. For the MgO Buckingham fit the dimensions are the
// pre-exponential factor A and the decay length rho.
type Bounds [][2]float64

// DefaultBounds is the search region used when a request carries none.
var DefaultBounds = Bounds{{400.0, 1800.0}, {0.15, 0.55}}

// Dim returns the number of tunable dimensions.
func (b Bounds) Dim() int { return len(b) }

// Validate checks that every interval is well-formed.
func (b Bounds) Validate() error {
	if len(b) == 0 {
		return fmt.Errorf("bounds: no dimensions declared")
	}
	for i, iv := range b {
		if !(iv[0] < iv[1]) {
			return fmt.Errorf("bounds: dimension %d has lower %v >= upper %v", i, iv[0], iv[1])
		}
	}
	return nil
}

// Contains reports whether x lies componentwise within the bounds.
func (b Bounds) Contains(x []float64) bool {
	if len(x) != len(b) {
		return false
	}
	for i, v := range x {
		if v < b[i][0] || v > b[i][1] {
			return false
		}
	}
	return true
}

// Record is a single entry of the evaluation ledger as supplied by the host.
// Energy is present only for completed evaluations.
type Record struct {
	Candidate []float64 `json:"candidate"`
	Status    string    `json:"status"`
	Energy    *float64  `json:"energy"`
}

// Trainable reports whether the record may contribute to training data:
// a success status with a present, finite energy.
func (r Record) Trainable() bool {
	if r.Status != StatusOK && r.Status != StatusCompleted {
		return false
	}
	if r.Energy == nil {
		return false
	}
	return !math.IsNaN(*r.Energy) && !math.IsInf(*r.Energy, 0)
}

// TrainingSet holds deduplicated parallel slices of accepted candidates and
// their energies. Produced by Reducer.Reduce; no two entries share a
// rounding key.
type TrainingSet struct {
	X [][]float64
	Y []float64
}

// Len returns the number of training points. This count is the
// warm-start-vs-model signal for the Orchestrator.
func (ts TrainingSet) Len() int { return len(ts.X) }

// SuggestionResult is the outcome of one suggestion call: the candidate
// batch, a label identifying the code path that produced it, and free-form
// model metadata (model name, data-volume note, or a crash report).
type SuggestionResult struct {
	Candidates [][]float64
	Reasoning  string
	Metadata   string
}
