package model

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/wildstyl3r/eloss/internal/config"
	"github.com/wildstyl3r/eloss/internal/geometry"
	"github.com/wildstyl3r/eloss/internal/landau"
	"github.com/wildstyl3r/eloss/internal/units"
)

// AngleResult is the filter placement for one tilt of the specimen.
type AngleResult struct {
	Angle     float64 // [deg]
	Thickness float64 // [A]
	Fraction  float64 // of the configured FractionModel
	MPL       float64 // [eV]
	MPLSigma  float64 // [eV]
	FilterResult
}

// Scenario evaluates one configured model at each of its tilt angles.
type Scenario struct {
	Name       string
	Parameters config.ModelParameters
	Shape      geometry.Shape
	Fraction   FractionModel
	Optimizer  *EnergyFilterOptimizer

	// Results are ordered as Parameters.Angles, failed angles left out.
	Results []AngleResult

	log logrus.FieldLogger
}

// NewScenario uses landau.New() when evaluator is nil and the standard
// logrus logger when logger is nil.
func NewScenario(name string, parameters config.ModelParameters, evaluator landau.Evaluator, logger logrus.FieldLogger) (*Scenario, error) {
	shape, err := parameters.ShapeDescriptor()
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", name, err)
	}
	fraction, err := ParseFractionModel(parameters.Fraction)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", name, err)
	}
	if !(parameters.Energy > 0) {
		return nil, fmt.Errorf("%w: model %s: energy %v eV must be positive", ErrInvalidArgument, name, parameters.Energy)
	}
	optimizer, err := NewEnergyFilterOptimizer(FilterConfiguration{
		EnergySpread: parameters.EnergySpread,
		DEMin:        parameters.DEMin,
		DEMax:        parameters.DEMax,
		DEStep:       parameters.DEStep,
	}, evaluator)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", name, err)
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Scenario{
		Name:       name,
		Parameters: parameters,
		Shape:      shape,
		Fraction:   fraction,
		Optimizer:  optimizer,
		log:        logger.WithField("model", name),
	}, nil
}

func (s *Scenario) Energy() units.EV {
	return units.EV(s.Parameters.Energy)
}

func (s *Scenario) evaluateAngle(angle float64) (AngleResult, error) {
	thickness, err := geometry.EffectiveThickness(s.Shape, angle)
	if err != nil {
		return AngleResult{}, err
	}
	fraction, err := FractionOfElectrons(s.Shape, angle, s.Fraction)
	if err != nil {
		return AngleResult{}, err
	}
	peak, sigma, err := MostProbableLoss(s.Optimizer.landau, s.Energy().KeV(), s.Shape, angle)
	if err != nil {
		return AngleResult{}, err
	}
	filter, err := s.Optimizer.Evaluate(s.Energy(), units.Angstrom(thickness), s.Parameters.FilterWidth)
	if err != nil {
		return AngleResult{}, err
	}
	s.log.WithFields(logrus.Fields{
		"angle":     angle,
		"thickness": thickness,
		"position":  filter.Position,
	}).Debug("angle evaluated")
	return AngleResult{
		Angle:        angle,
		Thickness:    thickness,
		Fraction:     fraction,
		MPL:          peak,
		MPLSigma:     sigma,
		FilterResult: filter,
	}, nil
}

type angleOutcome struct {
	index  int
	result AngleResult
	err    error
}

// Run evaluates every angle on Parameters.Threads() workers. The angles that
// fail are reported together after the others are stored in Results.
func (s *Scenario) Run() error {
	angles := s.Parameters.Angles
	jobs := make(chan int, len(angles))
	outcomes := make(chan angleOutcome, len(angles))

	var wg sync.WaitGroup
	for range min(max(s.Parameters.Threads(), 1), max(len(angles), 1)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range jobs {
				result, err := s.evaluateAngle(angles[index])
				outcomes <- angleOutcome{index: index, result: result, err: err}
			}
		}()
	}
	for index := range angles {
		jobs <- index
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	results := make([]*AngleResult, len(angles))
	var errs []error
	for outcome := range outcomes {
		if outcome.err != nil {
			s.log.WithField("angle", angles[outcome.index]).WithError(outcome.err).Warn("angle skipped")
			errs = append(errs, fmt.Errorf("angle %v: %w", angles[outcome.index], outcome.err))
			continue
		}
		results[outcome.index] = &outcome.result
	}

	s.Results = s.Results[:0]
	for _, r := range results {
		if r != nil {
			s.Results = append(s.Results, *r)
		}
	}
	s.log.WithFields(logrus.Fields{
		"angles": len(angles),
		"failed": len(errs),
	}).Info("model done")
	return errors.Join(errs...)
}
