package protocol

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/gokay-avci/UnifiedLAB/agent"
)

// Suggester is the suggestion engine as seen from the protocol boundary.
type Suggester interface {
	Suggest(ledger []agent.Record, p agent.SuggestParams) agent.SuggestionResult
}

// Calculator runs one simulator evaluation for a 2-vector candidate.
type Calculator interface {
	Run(ctx context.Context, a, rho float64, jobID string) (energy, elapsedMS float64, err error)
}

// Server dispatches task requests. A fresh Suggester is built per SUGGEST
// call since bounds and seed arrive with the request.
type Server struct {
	Tuning agent.Tuning
	Calc   Calculator

	// NewSuggester overrides orchestrator construction (tests, alternative
	// engines). Nil uses the default orchestrator with Diag.
	NewSuggester func(bounds agent.Bounds, seed int64) Suggester
	Diag         agent.Sink
}

// NewServer builds a server with the default suggestion engine.
func NewServer(tuning agent.Tuning, calc Calculator, diag agent.Sink) *Server {
	return &Server{Tuning: tuning, Calc: calc, Diag: diag}
}

func (s *Server) suggester(bounds agent.Bounds, seed int64) Suggester {
	if s.NewSuggester != nil {
		return s.NewSuggester(bounds, seed)
	}
	return agent.NewDefaultOrchestrator(bounds, seed, s.Tuning, s.Diag)
}

// Dispatch routes one request. Only unparsable or undispatchable requests
// yield FAILURE; an in-band modeling crash is still SUCCESS with a
// fallback batch.
func (s *Server) Dispatch(ctx context.Context, req Request) Response {
	switch req.Task {
	case TaskSuggest:
		return s.suggest(req)
	case TaskCalculate:
		return s.calculate(ctx, req)
	default:
		return failure("unknown task %q", req.Task)
	}
}

func (s *Server) suggest(req Request) Response {
	bounds := agent.DefaultBounds
	if len(req.Payload.Bounds) > 0 {
		bounds = agent.Bounds(req.Payload.Bounds)
	}
	if err := bounds.Validate(); err != nil {
		return failure("%v", err)
	}

	ledger := req.Payload.History
	if len(ledger) == 0 && len(req.Payload.XKnown) > 0 {
		ledger = hydrateLedger(req.Payload.XKnown, req.Payload.YKnown)
	}
	logrus.Infof("suggest: gen=%d history=%d bounds=%v", req.Payload.GenCounter, len(ledger), bounds)

	result := s.suggester(bounds, req.Config.Seed()).Suggest(ledger, agent.SuggestParams{
		Gen:           req.Payload.GenCounter,
		WarmStartSize: req.Payload.WarmStartSize,
		BatchSize:     req.Payload.BatchSize,
	})
	return Response{Status: StatusSuccess, Data: SuggestData{
		RawCandidates: result.Candidates,
		Reasoning:     result.Reasoning,
		ModelMetadata: result.Metadata,
	}}
}

func (s *Server) calculate(ctx context.Context, req Request) Response {
	if s.Calc == nil {
		return failure("no simulator configured")
	}
	c := req.Payload.Candidate
	if len(c) != 2 {
		return failure("calculate: candidate must be a 2-vector, got %d components", len(c))
	}
	energy, elapsed, err := s.Calc.Run(ctx, c[0], c[1], req.Payload.JobID)
	if err != nil {
		return failure("%v", err)
	}
	return Response{Status: StatusSuccess, Data: CalculateData{Energy: energy, TTotalMS: elapsed}}
}

// hydrateLedger builds success records from the legacy X_known/y_known
// parallel arrays.
func hydrateLedger(X [][]float64, y []float64) []agent.Record {
	n := len(X)
	if len(y) < n {
		n = len(y)
	}
	ledger := make([]agent.Record, 0, n)
	for i := 0; i < n; i++ {
		e := y[i]
		ledger = append(ledger, agent.Record{Candidate: X[i], Status: agent.StatusOK, Energy: &e})
	}
	return ledger
}

// ServeStream handles the whole-stream framing: read one JSON request from
// r, write exactly one JSON response line to w. An empty stream is a no-op
// (host closed the pipe without a task). Parse failures produce a FAILURE
// response rather than an error; only transport problems are returned.
func (s *Server) ServeStream(ctx context.Context, r io.Reader, w io.Writer) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("protocol: read request: %w", err)
	}
	if len(raw) == 0 {
		return nil
	}

	var resp Response
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		resp = failure("parse request: %v", err)
	} else {
		resp = s.Dispatch(ctx, req)
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(resp); err != nil {
		return fmt.Errorf("protocol: write response: %w", err)
	}
	return nil
}
