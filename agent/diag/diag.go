// Package diag implements the fire-and-forget diagnostics sink: an
// advisory CSV snapshot of the current training set and a predicted-surface
// plot per generation. Nothing here is read back by the engine; failures
// are returned for the caller to log and are never fatal.
package diag

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/gokay-avci/UnifiedLAB/agent"
	"github.com/gokay-avci/UnifiedLAB/agent/surrogate"
)

// gridSide is the resolution of the plotted prediction surface per axis.
const gridSide = 50

// Sink writes snapshot and plot artifacts under fixed paths, overwriting
// on every call.
type Sink struct {
	SnapshotPath string
	PlotDir      string

	// Reference marks a known-good parameter point on the surface plot
	// (e.g. the Catlow MgO Buckingham fit). Nil omits the marker.
	Reference []float64
}

// New builds a sink and creates the plot directory.
func New(snapshotPath, plotDir string) (*Sink, error) {
	if err := os.MkdirAll(plotDir, 0o755); err != nil {
		return nil, fmt.Errorf("diag: create plot dir: %w", err)
	}
	return &Sink{SnapshotPath: snapshotPath, PlotDir: plotDir}, nil
}

// SnapshotTrainingSet overwrites the advisory CSV snapshot with the
// deduplicated training data. Two-dimensional data keeps the pipeline's
// historical A/rho column names.
func (s *Sink) SnapshotTrainingSet(X [][]float64, y []float64) error {
	f, err := os.Create(s.SnapshotPath)
	if err != nil {
		return fmt.Errorf("diag: create snapshot %s: %w", s.SnapshotPath, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	dim := 0
	if len(X) > 0 {
		dim = len(X[0])
	}
	header := make([]string, 0, dim+1)
	if dim == 2 {
		header = append(header, "A", "rho")
	} else {
		for d := 0; d < dim; d++ {
			header = append(header, fmt.Sprintf("x%d", d+1))
		}
	}
	header = append(header, "energy")
	if err := w.Write(header); err != nil {
		return fmt.Errorf("diag: write snapshot header: %w", err)
	}

	row := make([]string, dim+1)
	for i, x := range X {
		for d, v := range x {
			row[d] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		row[dim] = strconv.FormatFloat(y[i], 'g', -1, 64)
		if err := w.Write(row); err != nil {
			return fmt.Errorf("diag: write snapshot row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// PlotSurface renders the model's predicted mean over a bounds-aligned
// 50×50 grid as a heat map, overlays the observed points, and writes
// plots/gen_<g>.png. Only two-dimensional search regions are plottable.
func (s *Sink) PlotSurface(model any, bounds agent.Bounds, obs [][]float64, gen int, label string) error {
	if bounds.Dim() != 2 {
		return fmt.Errorf("diag: surface plot needs 2 dimensions, got %d", bounds.Dim())
	}

	xs := linspace(bounds[0][0], bounds[0][1], gridSide)
	ys := linspace(bounds[1][0], bounds[1][1], gridSide)
	grid := make([][]float64, 0, gridSide*gridSide)
	for _, yv := range ys {
		for _, xv := range xs {
			grid = append(grid, []float64{xv, yv})
		}
	}
	mean, _ := surrogate.PredictWithUncertainty(model, grid)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Gen %d (%s)", gen, label)
	p.X.Label.Text = "A"
	p.Y.Label.Text = "rho"

	hm := plotter.NewHeatMap(&surfaceGrid{xs: xs, ys: ys, z: mean}, palette.Heat(25, 1))
	p.Add(hm)

	pts := make(plotter.XYs, len(obs))
	for i, o := range obs {
		pts[i].X, pts[i].Y = o[0], o[1]
	}
	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("diag: scatter: %w", err)
	}
	p.Add(sc)

	if len(s.Reference) == 2 {
		ref, err := plotter.NewScatter(plotter.XYs{{X: s.Reference[0], Y: s.Reference[1]}})
		if err == nil {
			ref.GlyphStyle.Radius = vg.Points(6)
			p.Add(ref)
		}
	}

	path := filepath.Join(s.PlotDir, fmt.Sprintf("gen_%d.png", gen))
	if err := p.Save(10*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("diag: save plot %s: %w", path, err)
	}
	return nil
}

// surfaceGrid adapts a row-major prediction grid to plotter.GridXYZ.
type surfaceGrid struct {
	xs, ys []float64
	z      []float64
}

func (g *surfaceGrid) Dims() (c, r int)   { return len(g.xs), len(g.ys) }
func (g *surfaceGrid) Z(c, r int) float64 { return g.z[r*len(g.xs)+c] }
func (g *surfaceGrid) X(c int) float64    { return g.xs[c] }
func (g *surfaceGrid) Y(r int) float64    { return g.ys[r] }

func linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}
