// Package protocol implements the JSON task envelope spoken with the host
// process: one request object in, one response object out. SUGGEST drives
// the suggestion engine; CALCULATE passes a candidate through to the
// external simulator. Stdout stays clean for JSON — all logging goes to
// stderr.
package protocol

import (
	"fmt"

	"github.com/gokay-avci/UnifiedLAB/agent"
)

// Task kinds understood by Dispatch.
const (
	TaskSuggest   = "SUGGEST"
	TaskCalculate = "CALCULATE"
)

// Response statuses. A modeling crash is NOT a failure: the engine falls
// back internally and still answers SUCCESS. FAILURE is reserved for
// requests that cannot be parsed or dispatched at all.
const (
	StatusSuccess = "SUCCESS"
	StatusFailure = "FAILURE"
)

// DefaultSeed seeds the samplers when the request config carries none.
const DefaultSeed int64 = 77

// Request is the envelope read from the host.
type Request struct {
	Task    string  `json:"task"`
	Payload Payload `json:"payload"`
	Config  Config  `json:"config"`
}

// Payload carries the union of task arguments. SUGGEST uses history through
// batch_size; CALCULATE uses candidate and job_id. The X_known/y_known pair
// is a legacy form hydrated into a history when history is absent.
type Payload struct {
	History       []agent.Record `json:"history"`
	XKnown        [][]float64    `json:"X_known"`
	YKnown        []float64      `json:"y_known"`
	Bounds        [][2]float64   `json:"bounds"`
	GenCounter    int            `json:"gen_counter"`
	WarmStartSize int            `json:"warm_start_size"`
	BatchSize     int            `json:"batch_size"`
	Candidate     []float64      `json:"candidate"`
	JobID         string         `json:"job_id"`
}

// Config is the request-level configuration block.
type Config struct {
	RandomSeed *int64 `json:"random_seed"`
}

// Seed returns the configured seed or the default.
func (c Config) Seed() int64 {
	if c.RandomSeed != nil {
		return *c.RandomSeed
	}
	return DefaultSeed
}

// Response is the envelope written back to the host.
type Response struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

// SuggestData is the SUGGEST success payload.
type SuggestData struct {
	RawCandidates [][]float64 `json:"raw_candidates"`
	Reasoning     string      `json:"reasoning"`
	ModelMetadata string      `json:"model_metadata"`
}

// CalculateData is the CALCULATE success payload.
type CalculateData struct {
	Energy   float64 `json:"energy"`
	TTotalMS float64 `json:"t_total_ms"`
}

func failure(format string, args ...any) Response {
	return Response{Status: StatusFailure, Error: fmt.Sprintf(format, args...)}
}
