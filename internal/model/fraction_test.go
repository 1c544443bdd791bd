package model

import (
	"errors"
	"math"
	"testing"

	"github.com/wildstyl3r/eloss/internal/constants"
	"github.com/wildstyl3r/eloss/internal/geometry"
)

var testShapes = []geometry.Shape{
	geometry.Cube{Length: 1000},
	geometry.Cuboid{LengthX: 4000, LengthY: 4000, LengthZ: 2500},
	geometry.Cylinder{Length: 10000, Radius: 750},
}

func TestZeroLossPlusMPLossIsOne(t *testing.T) {
	for _, shape := range testShapes {
		for _, angle := range []float64{-60, -20, 0, 15, 45, 70} {
			zl, err := ZeroLossFraction(shape, angle)
			if err != nil {
				t.Fatal(err)
			}
			mp, err := MPLossFraction(shape, angle)
			if err != nil {
				t.Fatal(err)
			}
			if !near(zl+mp, 1., 1e-12) {
				t.Errorf("%T at %v deg: %v + %v != 1", shape, angle, zl, mp)
			}
		}
	}
}

func TestFractionOfElectrons(t *testing.T) {
	shape := geometry.Cube{Length: 3150}
	tests := []struct {
		model FractionModel
		want  float64
	}{
		{Unfiltered, 1},
		{CCCorrected, 1},
		{ZeroLoss, math.Exp(-1)},
		{MPLoss, 1 - math.Exp(-1)},
	}
	for _, tt := range tests {
		got, err := FractionOfElectrons(shape, 0, tt.model)
		if err != nil {
			t.Fatal(err)
		}
		if !near(got, tt.want, 1e-9) {
			t.Errorf("%v: fraction = %v, want %v", tt.model, got, tt.want)
		}
	}
	if _, err := FractionOfElectrons(shape, 0, FractionModel(42)); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("err = %v, want ErrInvalidArgument", err)
	}
	if _, err := FractionOfElectrons(nil, 0, ZeroLoss); !errors.Is(err, geometry.ErrInvalidShape) {
		t.Errorf("err = %v, want ErrInvalidShape", err)
	}
}

func TestParseFractionModel(t *testing.T) {
	tests := map[string]FractionModel{
		"":             Unfiltered,
		"unfiltered":   Unfiltered,
		"cc_corrected": CCCorrected,
		"zero_loss":    ZeroLoss,
		"mp_loss":      MPLoss,
	}
	for tag, want := range tests {
		got, err := ParseFractionModel(tag)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("%q parsed as %v, want %v", tag, got, want)
		}
	}
	if _, err := ParseFractionModel("energy_filtered"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestMostProbableLoss(t *testing.T) {
	evaluator := &recordingLoss{gaussianLoss: gaussianLoss{peak: 15, sigma: 4}}
	peak, sigma, err := MostProbableLoss(evaluator, 300, geometry.Cube{Length: 1000}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if peak != 15 || !near(sigma, 4, 1e-12) {
		t.Errorf("peak, sigma = %v, %v, want 15, 4", peak, sigma)
	}
	if evaluator.energy != 300 || !near(float64(evaluator.thickness), 1000, 1e-6) {
		t.Errorf("evaluator called with %v keV, %v A", evaluator.energy, evaluator.thickness)
	}

	if _, _, err := MostProbableLoss(evaluator, 300, geometry.Cube{Length: 1000}, 89.9999); err != nil {
		t.Fatal(err)
	}
	if float64(evaluator.thickness) != constants.MaxThickness {
		t.Errorf("thickness at grazing tilt = %v, want clamp at %v", evaluator.thickness, constants.MaxThickness)
	}
}
