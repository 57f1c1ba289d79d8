package surrogate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// panicTrainer simulates a numerical backend blowing up mid-fit.
type panicTrainer struct{}

func (panicTrainer) Name() string { return "panicking" }
func (panicTrainer) Fit(X [][]float64, y []float64) (Model, error) {
	panic("matrix is singular")
}

func TestAdapter_FitAndSelect_Success(t *testing.T) {
	a := NewAdapter(NewRegistry(
		biasTrainer{name: "good", bias: 0.1},
		biasTrainer{name: "bad", bias: 10},
	))

	X, y := flatTrainingSet(10)
	sel, chosen, err := a.FitAndSelect(X, y, 5, []string{"good", "bad"})
	require.NoError(t, err)

	assert.Equal(t, "good", chosen)
	assert.Equal(t, "good", sel.BestModelName())
	assert.NotNil(t, sel.BestModel())
}

func TestAdapter_FitAndSelect_UnknownFamily_ReturnsFitError(t *testing.T) {
	a := NewAdapter(NewRegistry(biasTrainer{name: "known"}))

	X, y := flatTrainingSet(6)
	_, _, err := a.FitAndSelect(X, y, 3, []string{"absent"})

	var fe *FitError
	require.ErrorAs(t, err, &fe)
	assert.ErrorContains(t, fe.Cause, "absent")
}

func TestAdapter_FitAndSelect_PanicRecoveredAsFitError(t *testing.T) {
	a := NewAdapter(NewRegistry(panicTrainer{}))

	X, y := flatTrainingSet(6)
	_, _, err := a.FitAndSelect(X, y, 3, []string{"panicking"})

	var fe *FitError
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Cause.Error(), "matrix is singular")
	assert.NotEmpty(t, fe.Stack)
}

func TestAdapter_CapturesBackendLogPerAttempt(t *testing.T) {
	a := NewAdapter(NewRegistry(biasTrainer{name: "m"}))
	X, y := flatTrainingSet(8)

	// A failed attempt after a successful one must not carry the earlier
	// attempt's log lines.
	_, _, err := a.FitAndSelect(X, y, 4, []string{"m"})
	require.NoError(t, err)

	_, _, err = a.FitAndSelect(X, y, 4, []string{"absent"})
	var fe *FitError
	require.ErrorAs(t, err, &fe)
	assert.NotContains(t, fe.BackendLog, "selected m")
}

func TestFitError_Report_HasAllSections(t *testing.T) {
	fe := &FitError{
		Cause:      assert.AnError,
		BackendLog: "family GaussianProcess: cv-rmse=1.5",
		Stack:      []byte("goroutine 1 [running]"),
	}

	report := fe.Report()
	assert.True(t, strings.HasPrefix(report, "ERROR: "))
	assert.Contains(t, report, "TRACE:\ngoroutine 1 [running]")
	assert.Contains(t, report, "INTERNAL LOGS:\nfamily GaussianProcess")
}

func TestFitError_Report_EmptyLogPlaceholder(t *testing.T) {
	fe := &FitError{Cause: assert.AnError}
	assert.Contains(t, fe.Report(), "INTERNAL LOGS:\nNo logs.")
}

func TestFitError_Unwrap(t *testing.T) {
	fe := &FitError{Cause: assert.AnError}
	assert.ErrorIs(t, fe, assert.AnError)
}
