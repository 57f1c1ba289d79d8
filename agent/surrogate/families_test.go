package surrogate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// quad is a smooth test objective on [0,1]^2.
func quad(x []float64) float64 {
	return (x[0]-0.3)*(x[0]-0.3) + (x[1]-0.7)*(x[1]-0.7)
}

func gridTrainingSet(side int) ([][]float64, []float64) {
	var X [][]float64
	var y []float64
	for i := 0; i < side; i++ {
		for j := 0; j < side; j++ {
			x := []float64{float64(i) / float64(side-1), float64(j) / float64(side-1)}
			X = append(X, x)
			y = append(y, quad(x))
		}
	}
	return X, y
}

func TestGaussianProcess_Fit_InterpolatesTrainingPoints(t *testing.T) {
	X, y := gridTrainingSet(5)
	model, err := NewGaussianProcess().Fit(X, y)
	require.NoError(t, err)

	pred := model.Predict(X)
	for i := range y {
		assert.InDelta(t, y[i], pred[i], 0.05, "point %v", X[i])
	}
}

func TestGaussianProcess_PredictWithStd_LowerAtTrainingPoints(t *testing.T) {
	X, y := gridTrainingSet(4)
	model, err := NewGaussianProcess().Fit(X, y)
	require.NoError(t, err)

	um, ok := model.(UncertaintyModel)
	require.True(t, ok, "GP must expose native uncertainty")

	_, atTrain := um.PredictWithStd(X[:1])
	_, far := um.PredictWithStd([][]float64{{5, 5}})
	assert.Less(t, atTrain[0], far[0])
}

func TestGaussianProcess_Fit_DuplicateInputs_InflatesNuggetInsteadOfFailing(t *testing.T) {
	// Identical rows make the kernel matrix singular at the base noise
	// level; the fit must still succeed via nugget inflation.
	X := [][]float64{{0.5, 0.5}, {0.5, 0.5}, {0.1, 0.9}, {0.9, 0.1}}
	y := []float64{1, 1, 2, 3}

	model, err := NewGaussianProcess().Fit(X, y)
	require.NoError(t, err)
	pred := model.Predict([][]float64{{0.5, 0.5}})
	assert.False(t, math.IsNaN(pred[0]))
}

func TestGaussianProcess_Fit_EmptyInput_Errors(t *testing.T) {
	_, err := NewGaussianProcess().Fit(nil, nil)
	assert.Error(t, err)
}

func TestRandomForest_Fit_ConstantTarget_PredictsConstantWithZeroStd(t *testing.T) {
	X := [][]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	y := []float64{7, 7, 7, 7}

	model, err := NewRandomForest(1).Fit(X, y)
	require.NoError(t, err)

	um := model.(UncertaintyModel)
	mean, std := um.PredictWithStd([][]float64{{0.5, 0.5}})
	assert.InDelta(t, 7.0, mean[0], 1e-12)
	assert.InDelta(t, 0.0, std[0], 1e-12)
}

func TestRandomForest_Fit_SeparableData_SplitsCorrectly(t *testing.T) {
	// Strong step function in the first feature; a forest must recover
	// the two plateaus.
	var X [][]float64
	var y []float64
	for i := 0; i < 20; i++ {
		v := float64(i) / 19
		X = append(X, []float64{v, 0.5})
		if v < 0.5 {
			y = append(y, -10)
		} else {
			y = append(y, 10)
		}
	}

	model, err := NewRandomForest(3).Fit(X, y)
	require.NoError(t, err)

	pred := model.Predict([][]float64{{0.1, 0.5}, {0.9, 0.5}})
	assert.Less(t, pred[0], 0.0)
	assert.Greater(t, pred[1], 0.0)
}

func TestRandomForest_Fit_SameSeed_SameModel(t *testing.T) {
	X, y := gridTrainingSet(4)
	a, err := NewRandomForest(42).Fit(X, y)
	require.NoError(t, err)
	b, err := NewRandomForest(42).Fit(X, y)
	require.NoError(t, err)

	probe := [][]float64{{0.2, 0.8}, {0.6, 0.4}}
	assert.Equal(t, a.Predict(probe), b.Predict(probe))
}

func TestRBF_Fit_InterpolatesTrainingPoints(t *testing.T) {
	X, y := gridTrainingSet(4)
	model, err := NewRBF().Fit(X, y)
	require.NoError(t, err)

	pred := model.Predict(X)
	for i := range y {
		assert.InDelta(t, y[i], pred[i], 0.02, "point %v", X[i])
	}
}

func TestRBF_Model_IsMeanOnly(t *testing.T) {
	// The RBF family deliberately lacks native uncertainty; callers get a
	// synthesized std through PredictWithUncertainty.
	X, y := gridTrainingSet(3)
	model, err := NewRBF().Fit(X, y)
	require.NoError(t, err)

	_, hasStd := model.(UncertaintyModel)
	assert.False(t, hasStd)
}

func TestDefaultRegistry_ExposesAllFamilies(t *testing.T) {
	reg := DefaultRegistry(1)
	assert.Equal(t, []string{FamilyGaussianProcess, FamilyRBF, FamilyRandomForest}, reg.Names())

	for _, name := range reg.Names() {
		_, ok := reg.Trainer(name)
		assert.True(t, ok, name)
	}
}
