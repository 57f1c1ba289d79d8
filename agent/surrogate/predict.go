package surrogate

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// PredictWithUncertainty resolves a predictor from m and returns per-point
// mean and standard deviation over the pool. It tries, in order: m itself,
// a nested best model, and a nested plain model, preferring native
// uncertainty output. When only mean prediction is reachable, the std is
// synthesized as the sample std of the returned means, constant across the
// pool. A predictor-free m yields a flat zero mean with unit std.
func PredictWithUncertainty(m any, pool [][]float64) (mean, std []float64) {
	cands := unwrap(m)

	for _, c := range cands {
		if um, ok := c.(UncertaintyModel); ok {
			return um.PredictWithStd(pool)
		}
	}
	for _, c := range cands {
		if pm, ok := c.(Model); ok {
			mean = pm.Predict(pool)
			sd := stat.StdDev(mean, nil)
			if math.IsNaN(sd) {
				sd = 0
			}
			std = make([]float64, len(mean))
			for i := range std {
				std[i] = sd
			}
			return mean, std
		}
	}

	mean = make([]float64, len(pool))
	std = make([]float64, len(pool))
	for i := range std {
		std[i] = 1
	}
	return mean, std
}

// unwrap lists the predictor candidates nested in m: the value itself, a
// BestModel() attribute, and a Model() attribute, skipping nils.
func unwrap(m any) []any {
	var out []any
	if m != nil {
		out = append(out, m)
	}
	if bm, ok := m.(interface{ BestModel() Model }); ok {
		if inner := bm.BestModel(); inner != nil {
			out = append(out, inner)
		}
	}
	if pm, ok := m.(interface{ Model() Model }); ok {
		if inner := pm.Model(); inner != nil {
			out = append(out, inner)
		}
	}
	return out
}
