// Package physics provides the lightweight Lennard-Jones kernel behind the
// mock evaluator daemon: pairwise energy and forces for noble-gas-like
// systems, with an orthorhombic minimum-image convention when a lattice is
// present. It exists so the pipeline can be exercised end to end without a
// licensed simulator.
package physics

import "math"

// Default Lennard-Jones parameters of the mock evaluator.
const (
	DefaultEpsilon = 5.0 // well depth, eV
	DefaultSigma   = 2.5 // zero-crossing distance, Angstrom
)

// Atom is one site of a structure.
type Atom struct {
	Symbol   string     `json:"symbol"`
	Position [3]float64 `json:"position"`
}

// Lattice holds the cell vectors of a periodic structure.
type Lattice struct {
	Vectors [3][3]float64 `json:"vectors"`
}

// Structure is the evaluator's input: a set of atoms, optionally periodic.
type Structure struct {
	Atoms   []Atom   `json:"atoms"`
	Lattice *Lattice `json:"lattice"`
}

// LennardJones computes total energy (eV) and per-atom forces (eV/A) with
// an O(N^2) pairwise loop. Periodic structures use the minimum-image
// convention on the cell diagonal. Pairs closer than 1e-3 A are skipped to
// avoid the singularity.
func LennardJones(s Structure, epsilon, sigma float64) (float64, [][3]float64) {
	n := len(s.Atoms)
	forces := make([][3]float64, n)

	var box [3]float64
	periodic := s.Lattice != nil
	if periodic {
		for d := 0; d < 3; d++ {
			box[d] = s.Lattice.Vectors[d][d]
		}
	}

	var energy float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			var rv [3]float64
			for d := 0; d < 3; d++ {
				rv[d] = s.Atoms[j].Position[d] - s.Atoms[i].Position[d]
				if periodic && box[d] != 0 {
					rv[d] -= box[d] * math.Round(rv[d]/box[d])
				}
			}
			r := math.Sqrt(rv[0]*rv[0] + rv[1]*rv[1] + rv[2]*rv[2])
			if r < 1e-3 {
				continue
			}

			sr6 := math.Pow(sigma/r, 6)
			sr12 := sr6 * sr6
			energy += 4 * epsilon * (sr12 - sr6)

			fmag := (24 * epsilon / r) * (2*sr12 - sr6)
			for d := 0; d < 3; d++ {
				f := fmag * rv[d] / r
				forces[j][d] += f
				forces[i][d] -= f
			}
		}
	}
	return energy, forces
}
