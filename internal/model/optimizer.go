package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/wildstyl3r/eloss/internal/landau"
	"github.com/wildstyl3r/eloss/internal/units"
	"github.com/wildstyl3r/eloss/internal/utils"
)

// NoFilter as a filter width means the whole spectrum is kept.
const NoFilter = 0.

// FilterConfiguration fixes the energy loss grid of an optimizer.
type FilterConfiguration struct {
	EnergySpread float64 // [eV]
	DEMin        float64 // [eV]
	DEMax        float64 // [eV]
	DEStep       float64 // [eV]
}

func DefaultFilterConfiguration() FilterConfiguration {
	return FilterConfiguration{
		EnergySpread: 0.8,
		DEMin:        -10,
		DEMax:        200,
		DEStep:       0.01,
	}
}

// EnergyFilterOptimizer finds the energy filter placement keeping the most
// electrons when the inelastic scattering is taken into account.
// Its methods do not modify the optimizer and may be called concurrently.
type EnergyFilterOptimizer struct {
	config FilterConfiguration
	landau landau.Evaluator
}

// NewEnergyFilterOptimizer uses landau.New() when evaluator is nil.
func NewEnergyFilterOptimizer(config FilterConfiguration, evaluator landau.Evaluator) (*EnergyFilterOptimizer, error) {
	if !(config.EnergySpread > 0) {
		return nil, fmt.Errorf("%w: energy spread %v eV must be positive", ErrInvalidArgument, config.EnergySpread)
	}
	if !(config.DEStep > 0) {
		return nil, fmt.Errorf("%w: energy loss step %v eV must be positive", ErrInvalidArgument, config.DEStep)
	}
	if !(config.DEMax > config.DEMin) {
		return nil, fmt.Errorf("%w: energy loss range [%v, %v) eV is empty", ErrInvalidArgument, config.DEMin, config.DEMax)
	}
	if evaluator == nil {
		evaluator = landau.New()
	}
	return &EnergyFilterOptimizer{config: config, landau: evaluator}, nil
}

func (o *EnergyFilterOptimizer) Config() FilterConfiguration {
	return o.config
}

func (o *EnergyFilterOptimizer) grid() []float64 {
	return utils.Arange(o.config.DEMin, o.config.DEMax, o.config.DEStep)
}

func (o *EnergyFilterOptimizer) zeroLossDensity(dE []float64) []float64 {
	s2 := o.config.EnergySpread * o.config.EnergySpread
	norm := 1. / math.Sqrt(math.Pi*s2)
	density := make([]float64, len(dE))
	for i := range dE {
		density[i] = norm * math.Exp(-dE[i]*dE[i]/s2)
	}
	return density
}

// inelasticDensity is the evaluator output normalized to unit integral over the grid.
func (o *EnergyFilterOptimizer) inelasticDensity(dE []float64, energy units.EV, thickness units.Angstrom) ([]float64, error) {
	density := o.landau.Density(dE, energy, thickness)
	mass := utils.TableIntegrate(density, nil, o.config.DEStep)
	if !(mass > 0) || math.IsInf(mass, 0) {
		return nil, fmt.Errorf("%w: inelastic integral %v at %v eV, %v A", ErrEmptyDistribution, mass, energy, thickness)
	}
	floats.Scale(1./mass, density)
	return density, nil
}

// EnergyLossDistribution returns the energy loss grid and the probability
// density of the elastic and inelastic electrons together.
func (o *EnergyFilterOptimizer) EnergyLossDistribution(energy units.EV, thickness units.Angstrom) (dE, density []float64, err error) {
	dE = o.grid()
	inelastic, err := o.inelasticDensity(dE, energy, thickness)
	if err != nil {
		return nil, nil, err
	}
	elasticFraction := ElasticFraction(float64(thickness))
	density = make([]float64, len(dE))
	floats.ScaleTo(density, elasticFraction, o.zeroLossDensity(dE))
	floats.AddScaled(density, 1.-elasticFraction, inelastic)
	return dE, density, nil
}

// PickFilterPosition returns the filter position [eV] keeping the most
// electrons for the given filter width [eV]. With NoFilter it returns the
// density weighted sum of the losses divided by the sum of the losses.
func (o *EnergyFilterOptimizer) PickFilterPosition(energy units.EV, thickness units.Angstrom, filterWidth float64) (float64, error) {
	if !(energy > 0) || !(thickness > 0) {
		return 0, fmt.Errorf("%w: energy %v eV and thickness %v A must be positive", ErrInvalidArgument, energy, thickness)
	}
	if !(filterWidth >= 0) || math.IsInf(filterWidth, 0) {
		return 0, fmt.Errorf("%w: filter width %v eV", ErrInvalidArgument, filterWidth)
	}

	dE, distribution, err := o.EnergyLossDistribution(energy, thickness)
	if err != nil {
		return 0, err
	}

	if filterWidth == NoFilter {
		return floats.Dot(dE, distribution) / floats.Sum(dE), nil
	}
	kernel := flatTopKernel(len(distribution), filterWidth/o.config.DEStep)
	electrons := convolveSame(distribution, kernel)
	return dE[utils.Argmax(electrons)], nil
}

// FilterResult is the outcome of placing a filter of Width at Position.
type FilterResult struct {
	Position  float64 // [eV]
	Width     float64 // [eV]
	Elastic   ComponentResult
	Inelastic ComponentResult
}

// Evaluate places the filter and reports what passes it.
func (o *EnergyFilterOptimizer) Evaluate(energy units.EV, thickness units.Angstrom, filterWidth float64) (FilterResult, error) {
	position, err := o.PickFilterPosition(energy, thickness, filterWidth)
	if err != nil {
		return FilterResult{}, err
	}
	result := FilterResult{Position: position, Width: filterWidth}

	var window *FilterWindow
	if filterWidth != NoFilter {
		window = &FilterWindow{Position: position, Width: filterWidth}
	}
	if result.Elastic, err = o.ElasticComponent(energy, thickness, window); err != nil {
		return FilterResult{}, fmt.Errorf("elastic component: %w", err)
	}
	if result.Inelastic, err = o.InelasticComponent(energy, thickness, window); err != nil {
		return FilterResult{}, fmt.Errorf("inelastic component: %w", err)
	}
	return result, nil
}
