// Package agent implements the active-learning suggestion engine for the
// UnifiedLAB materials pipeline: given the full history of evaluated
// (parameter, energy) pairs, it decides which batch of candidate parameters
// to evaluate next.
//
// # Reading Guide
//
// Start with these three files to understand the engine:
//   - types.go: Bounds, Record, TrainingSet, SuggestionResult
//   - suggest.go: the Orchestrator state machine and the fallback ladder
//   - sampler.go: Latin hypercube / uniform space-filling samplers
//
// # Architecture
//
// The agent package defines the decision policy; supporting concerns live in
// sub-packages:
//   - agent/surrogate/: model families, cross-validated selection, and the
//     backend adapter that packages fit failures into a single FitError
//   - agent/diag/: fire-and-forget snapshot and plot sink
//
// One Suggest call is a single pass through a four-state machine
// (Genesis, LowData, ModelGuided, CrashFallback) and always terminates with
// a SuggestionResult. The engine is stateless across calls: history is
// supplied whole on every invocation, the trained model lives for one call,
// and snapshot/plot artifacts are write-only side channels.
package agent
