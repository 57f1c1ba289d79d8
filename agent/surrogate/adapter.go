package surrogate

import (
	"bytes"
	"fmt"
	"runtime/debug"

	"github.com/sirupsen/logrus"
)

// Adapter is the suggestion engine's entry point into the model backend.
// It owns the backend's diagnostic logger (captured per fit attempt) and
// converts every failure mode — including panics from numerical code —
// into a *FitError.
type Adapter struct {
	reg Registry
	log *logrus.Logger
	buf *bytes.Buffer
}

// NewAdapter builds an adapter over a family registry. The calling
// convention of the registry (subset-at-construction vs legacy setup) is
// probed inside newComparator; the probe result depends only on the
// registry type, so it is effectively fixed here for the adapter's life.
func NewAdapter(reg Registry) *Adapter {
	buf := &bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(buf)
	log.SetLevel(logrus.DebugLevel)
	return &Adapter{reg: reg, log: log, buf: buf}
}

// FitAndSelect trains the named candidate families, selects the best by
// cross-validated RMSE, and refits it on the full training set. On any
// failure the returned error is a *FitError carrying the cause, the
// captured backend log, and a stack trace.
func (a *Adapter) FitAndSelect(X [][]float64, y []float64, folds int, names []string) (sel *Selection, chosen string, err error) {
	a.buf.Reset()

	defer func() {
		if r := recover(); r != nil {
			err = &FitError{
				Cause:      fmt.Errorf("panic during fit: %v", r),
				BackendLog: a.buf.String(),
				Stack:      debug.Stack(),
			}
		}
	}()

	comp, cerr := newComparator(a.reg, names, a.log)
	if cerr != nil {
		return nil, "", &FitError{Cause: cerr, BackendLog: a.buf.String(), Stack: debug.Stack()}
	}
	sel, cerr = comp.Compare(X, y, folds)
	if cerr != nil {
		return nil, "", &FitError{Cause: cerr, BackendLog: a.buf.String(), Stack: debug.Stack()}
	}
	return sel, sel.BestModelName(), nil
}
