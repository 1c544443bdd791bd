package model

import (
	"math"

	"github.com/wildstyl3r/eloss/internal/constants"
	"github.com/wildstyl3r/eloss/internal/units"
)

// gaussianLoss stands in for the Landau evaluator with a gaussian of the
// given peak and standard deviation, deliberately left unnormalized.
type gaussianLoss struct {
	peak, sigma float64
}

func (g gaussianLoss) Density(dE []float64, energy units.EV, thickness units.Angstrom) []float64 {
	density := make([]float64, len(dE))
	for i := range dE {
		x := (dE[i] - g.peak) / g.sigma
		density[i] = 3. * math.Exp(-0.5*x*x)
	}
	return density
}

func (g gaussianLoss) MPLAndFWHM(energy units.KeV, thickness units.Angstrom) (peak, fwhm float64) {
	return g.peak, g.sigma * constants.FWHMToSigma
}

// recordingLoss remembers the arguments of the last MPLAndFWHM call.
type recordingLoss struct {
	gaussianLoss
	energy    units.KeV
	thickness units.Angstrom
}

func (r *recordingLoss) MPLAndFWHM(energy units.KeV, thickness units.Angstrom) (peak, fwhm float64) {
	r.energy, r.thickness = energy, thickness
	return r.gaussianLoss.MPLAndFWHM(energy, thickness)
}

// zeroLoss returns nothing at all.
type zeroLoss struct{}

func (zeroLoss) Density(dE []float64, energy units.EV, thickness units.Angstrom) []float64 {
	return make([]float64, len(dE))
}

func (zeroLoss) MPLAndFWHM(energy units.KeV, thickness units.Angstrom) (peak, fwhm float64) {
	return 0, 0
}

func near(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

func angstrom(t float64) units.Angstrom {
	return units.Angstrom(t)
}

func ev(e float64) units.EV {
	return units.EV(e)
}
