package model

import (
	"fmt"
	"math"

	"github.com/wildstyl3r/eloss/internal/constants"
	"github.com/wildstyl3r/eloss/internal/geometry"
	"github.com/wildstyl3r/eloss/internal/landau"
	"github.com/wildstyl3r/eloss/internal/units"
)

// FractionModel selects which electrons are counted by FractionOfElectrons.
type FractionModel int

const (
	Unfiltered FractionModel = iota
	ZeroLoss
	MPLoss
)

// CCCorrected counts every electron, same as Unfiltered.
const CCCorrected = Unfiltered

func ParseFractionModel(tag string) (FractionModel, error) {
	switch tag {
	case "", "unfiltered", "cc_corrected":
		return Unfiltered, nil
	case "zero_loss":
		return ZeroLoss, nil
	case "mp_loss":
		return MPLoss, nil
	}
	return Unfiltered, fmt.Errorf("%w: unknown fraction model %q", ErrInvalidArgument, tag)
}

func (fm FractionModel) String() string {
	switch fm {
	case ZeroLoss:
		return "zero_loss"
	case MPLoss:
		return "mp_loss"
	default:
		return "unfiltered"
	}
}

// ElasticFraction is the share of electrons crossing thickness [A] without
// inelastic scattering.
func ElasticFraction(thickness float64) float64 {
	return math.Exp(-thickness / constants.MeanFreePath)
}

func ZeroLossFraction(shape geometry.Shape, angle float64) (float64, error) {
	thickness, err := geometry.EffectiveThickness(shape, angle)
	if err != nil {
		return 0, err
	}
	return ElasticFraction(thickness), nil
}

func MPLossFraction(shape geometry.Shape, angle float64) (float64, error) {
	thickness, err := geometry.EffectiveThickness(shape, angle)
	if err != nil {
		return 0, err
	}
	return 1. - ElasticFraction(thickness), nil
}

func FractionOfElectrons(shape geometry.Shape, angle float64, fm FractionModel) (float64, error) {
	switch fm {
	case ZeroLoss:
		return ZeroLossFraction(shape, angle)
	case MPLoss:
		return MPLossFraction(shape, angle)
	case Unfiltered:
		return 1., nil
	}
	return 0, fmt.Errorf("%w: fraction model %d", ErrInvalidArgument, fm)
}

// MostProbableLoss returns the peak of the inelastic energy loss distribution
// and its gaussian equivalent sigma, both in eV.
func MostProbableLoss(evaluator landau.Evaluator, energy units.KeV, shape geometry.Shape, angle float64) (peak, sigma float64, err error) {
	thickness, err := geometry.EffectiveThickness(shape, angle)
	if err != nil {
		return 0, 0, err
	}
	thickness = min(thickness, constants.MaxThickness)
	peak, fwhm := evaluator.MPLAndFWHM(energy, units.Angstrom(thickness))
	return peak, fwhm / constants.FWHMToSigma, nil
}
