package agent

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning groups the decision-policy knobs of the suggestion engine.
// Fields omitted from a tuning file keep their defaults, so partial
// configs are safe.
type Tuning struct {
	WarmStartSize int     `yaml:"warm_start_size"` // Genesis batch size when the request carries none
	MinValid      int     `yaml:"min_valid"`       // training points required before model-guided search
	DedupDigits   int     `yaml:"dedup_digits"`    // decimal digits of the dedup rounding key
	PoolSize      int     `yaml:"pool_size"`       // dense candidate pool scored per iteration
	ZScore        float64 `yaml:"z_score"`         // LCB confidence multiplier
	WideThreshold int     `yaml:"wide_threshold"`  // training points above which the RBF family becomes eligible
	CVFolds       int     `yaml:"cv_folds"`        // cross-validation folds for model selection (capped at Len)
	JitterScale   float64 `yaml:"jitter_scale"`    // Gaussian noise added to training inputs before fitting
}

// DefaultTuning returns the engine defaults. The 5-digit dedup key matches
// the pipeline's historical behavior and is a tunable, not a law.
func DefaultTuning() Tuning {
	return Tuning{
		WarmStartSize: 100,
		MinValid:      5,
		DedupDigits:   5,
		PoolSize:      5000,
		ZScore:        1.96,
		WideThreshold: 50,
		CVFolds:       5,
		JitterScale:   1e-5,
	}
}

// LoadTuning reads a YAML tuning file over the defaults.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("tuning: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("tuning: parse %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return t, err
	}
	return t, nil
}

// Validate rejects settings the state machine cannot run with.
func (t Tuning) Validate() error {
	if t.MinValid < 1 {
		return fmt.Errorf("tuning: min_valid must be >= 1, got %d", t.MinValid)
	}
	if t.DedupDigits < 0 {
		return fmt.Errorf("tuning: dedup_digits must be >= 0, got %d", t.DedupDigits)
	}
	if t.PoolSize < 1 {
		return fmt.Errorf("tuning: pool_size must be >= 1, got %d", t.PoolSize)
	}
	if t.ZScore < 0 {
		return fmt.Errorf("tuning: z_score must be >= 0, got %v", t.ZScore)
	}
	if t.CVFolds < 2 {
		return fmt.Errorf("tuning: cv_folds must be >= 2, got %d", t.CVFolds)
	}
	return nil
}
