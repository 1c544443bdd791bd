package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/wildstyl3r/eloss/internal/constants"
	"github.com/wildstyl3r/eloss/internal/units"
	"github.com/wildstyl3r/eloss/internal/utils"
)

// FilterWindow is the pass band of the energy filter.
type FilterWindow struct {
	Position float64 // [eV]
	Width    float64 // [eV]
}

// ComponentResult is what passes the filter of one electron population.
type ComponentResult struct {
	Fraction float64
	Spread   float64 // [eV]
}

// ElasticComponent returns the fraction and energy spread of the zero loss
// electrons passing window. A nil window keeps the whole spectrum.
func (o *EnergyFilterOptimizer) ElasticComponent(energy units.EV, thickness units.Angstrom, window *FilterWindow) (ComponentResult, error) {
	dE := o.grid()
	dE, p, fraction, err := o.applyWindow(window, dE, o.zeroLossDensity(dE), ElasticFraction(float64(thickness)))
	if err != nil {
		return ComponentResult{}, err
	}
	return ComponentResult{Fraction: fraction, Spread: spread(dE, p)}, nil
}

// InelasticComponent returns the fraction and energy spread of the
// inelastically scattered electrons passing window.
func (o *EnergyFilterOptimizer) InelasticComponent(energy units.EV, thickness units.Angstrom, window *FilterWindow) (ComponentResult, error) {
	dE := o.grid()
	p, err := o.inelasticDensity(dE, energy, thickness)
	if err != nil {
		return ComponentResult{}, err
	}
	dE, p, fraction, err := o.applyWindow(window, dE, p, 1.-ElasticFraction(float64(thickness)))
	if err != nil {
		return ComponentResult{}, err
	}
	if len(p) == 0 || !(floats.Sum(p) > 0) {
		return ComponentResult{Fraction: fraction}, nil
	}

	// The Landau tail has no finite variance, so the window is narrowed with
	// a gaussian envelope of twice the MPL sigma around the peak.
	peak, fwhm := o.landau.MPLAndFWHM(energy.KeV(), thickness)
	sigma := fwhm / constants.FWHMToSigma
	weights := make([]float64, len(p))
	for i := range p {
		d := dE[i] - peak
		weights[i] = p[i] * math.Exp(-0.5*d*d/((2*sigma)*(2*sigma)))
	}
	mass := floats.Sum(weights)
	if !(mass > 0) {
		return ComponentResult{Fraction: fraction}, nil
	}
	floats.Scale(1./mass, weights)
	return ComponentResult{Fraction: fraction, Spread: spread(dE, weights)}, nil
}

// applyWindow scales fraction by the share of p inside window and returns
// views of dE and p limited to it.
func (o *EnergyFilterOptimizer) applyWindow(window *FilterWindow, dE, p []float64, fraction float64) ([]float64, []float64, float64, error) {
	if window == nil {
		return dE, p, fraction, nil
	}
	x0, x1, err := o.bounds(*window, len(p))
	if err != nil {
		return nil, nil, 0, err
	}
	c := floats.CumSum(make([]float64, len(p)), p)
	floats.Scale(o.config.DEStep, c)
	fraction *= c[x1] - c[x0]
	return dE[x0:x1:x1], p[x0:x1:x1], fraction, nil
}

// bounds converts window to grid indices clamped to [0, n-1].
func (o *EnergyFilterOptimizer) bounds(window FilterWindow, n int) (x0, x1 int, err error) {
	if math.IsNaN(window.Position) || math.IsInf(window.Position, 0) || !(window.Width >= 0) {
		return 0, 0, fmt.Errorf("%w: filter window %+v", ErrInvalidArgument, window)
	}
	lower := math.Floor((window.Position - window.Width/2. - o.config.DEMin) / o.config.DEStep)
	upper := math.Ceil((window.Position + window.Width/2. - o.config.DEMin) / o.config.DEStep)
	lower = utils.Clamp(lower, 0, float64(n-1))
	upper = utils.Clamp(upper, 0, float64(n-1))
	if upper <= lower {
		return 0, 0, fmt.Errorf("%w: %v eV wide at %v eV on [%v, %v) eV", ErrDegenerateWindow,
			window.Width, window.Position, o.config.DEMin, o.config.DEMax)
	}
	return int(lower), int(upper), nil
}

// spread is the weighted standard deviation of dE scaled by sqrt(2).
func spread(dE, weights []float64) float64 {
	if len(weights) == 0 || !(floats.Sum(weights) > 0) {
		return 0
	}
	return math.Sqrt(stat.Moment(2, dE, weights)) * math.Sqrt2
}
