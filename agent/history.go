package agent

import (
	"math"
	"strconv"
	"strings"
)

// Reducer turns a raw evaluation ledger into a TrainingSet: only successful
// records with finite energies are accepted, and near-identical candidates
// collapse to the first occurrence via a fixed-precision rounding key.
type Reducer struct {
	digits int
}

// NewReducer builds a reducer with the given rounding precision
// (decimal digits of the dedup key).
func NewReducer(digits int) *Reducer {
	return &Reducer{digits: digits}
}

// Reduce filters and deduplicates the ledger. Insertion order defines
// precedence: later duplicates are dropped silently. Feeding the same
// record twice yields the same TrainingSet as feeding it once.
func (r *Reducer) Reduce(ledger []Record) TrainingSet {
	var ts TrainingSet
	seen := make(map[string]struct{}, len(ledger))

	for _, rec := range ledger {
		if !rec.Trainable() {
			continue
		}
		key := roundKey(rec.Candidate, r.digits)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		x := make([]float64, len(rec.Candidate))
		copy(x, rec.Candidate)
		ts.X = append(ts.X, x)
		ts.Y = append(ts.Y, *rec.Energy)
	}
	return ts
}

// roundKey renders the candidate at fixed precision so floating-point
// near-duplicates share a key.
func roundKey(x []float64, digits int) string {
	scale := math.Pow(10, float64(digits))
	var sb strings.Builder
	for i, v := range x {
		if i > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(strconv.FormatFloat(math.Round(v*scale)/scale, 'f', digits, 64))
	}
	return sb.String()
}
