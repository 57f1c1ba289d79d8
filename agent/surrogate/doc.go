// Package surrogate provides the model backend of the suggestion engine:
// cheap statistical predictors trained to approximate the expensive
// simulator, a cross-validated comparison that picks the best family for
// the data at hand, and a uniform mean/uncertainty prediction call that
// works across predictor shapes.
//
// Model families are registered by name (GaussianProcess, RandomForest,
// RadialBasisFunctions). The Adapter hides a calling-convention difference
// between backend generations: newer registries bind the family subset at
// construction, older ones take it at setup time. The convention is probed
// once when the adapter is built, never per fit.
//
// Every fit failure — numerical, data-shape, or a panic inside a family —
// surfaces as a single *FitError carrying the cause, the captured backend
// log, and a stack trace. Callers report it; they are not expected to
// recover from it here.
package surrogate
