package model

import (
	"errors"
	"math"
	"testing"

	"github.com/wildstyl3r/eloss/internal/geometry"
	"github.com/wildstyl3r/eloss/internal/landau"
	"github.com/wildstyl3r/eloss/internal/units"
)

func TestElasticComponentAtZeroTilt(t *testing.T) {
	thickness, err := geometry.EffectiveThickness(geometry.Cube{Length: 1000}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !near(thickness, 1000, 1e-6) {
		t.Fatalf("thickness = %v, want 1000", thickness)
	}
	o := newTestOptimizer(t, DefaultFilterConfiguration(), gaussianLoss{peak: 20, sigma: 5})
	elastic, err := o.ElasticComponent(300000, angstrom(thickness), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !near(elastic.Fraction, math.Exp(-thickness/3150), 1e-12) || !near(elastic.Fraction, 0.728, 1e-3) {
		t.Errorf("fraction = %v, want exp(-1000/3150)", elastic.Fraction)
	}
	// exp(-dE^2/s^2) has a standard deviation of s/sqrt(2)
	if !near(elastic.Spread, 0.8, 1e-6) {
		t.Errorf("spread = %v, want 0.8", elastic.Spread)
	}
}

func TestComponentFractionsMatchFractionOfElectrons(t *testing.T) {
	o := newTestOptimizer(t, DefaultFilterConfiguration(), gaussianLoss{peak: 20, sigma: 5})
	for _, shape := range testShapes {
		for _, angle := range []float64{0, 30, 60} {
			thickness, err := geometry.EffectiveThickness(shape, angle)
			if err != nil {
				t.Fatal(err)
			}
			elastic, err := o.ElasticComponent(300000, angstrom(thickness), nil)
			if err != nil {
				t.Fatal(err)
			}
			inelastic, err := o.InelasticComponent(300000, angstrom(thickness), nil)
			if err != nil {
				t.Fatal(err)
			}
			zl, _ := FractionOfElectrons(shape, angle, ZeroLoss)
			mp, _ := FractionOfElectrons(shape, angle, MPLoss)
			all, _ := FractionOfElectrons(shape, angle, Unfiltered)
			if !near(elastic.Fraction, zl, 1e-12) || !near(inelastic.Fraction, mp, 1e-12) {
				t.Errorf("%T at %v deg: components %v, %v, fractions %v, %v", shape, angle, elastic.Fraction, inelastic.Fraction, zl, mp)
			}
			if !near(elastic.Fraction+inelastic.Fraction, all, 1e-12) {
				t.Errorf("%T at %v deg: %v + %v != %v", shape, angle, elastic.Fraction, inelastic.Fraction, all)
			}
		}
	}
}

func TestWindowSpanningTheGrid(t *testing.T) {
	o := newTestOptimizer(t, DefaultFilterConfiguration(), gaussianLoss{peak: 20, sigma: 5})
	window := &FilterWindow{Position: 95, Width: 1000}

	full, err := o.ElasticComponent(300000, 1000, nil)
	if err != nil {
		t.Fatal(err)
	}
	windowed, err := o.ElasticComponent(300000, 1000, window)
	if err != nil {
		t.Fatal(err)
	}
	if !near(windowed.Fraction, full.Fraction, 1e-6) || !near(windowed.Spread, full.Spread, 1e-6) {
		t.Errorf("elastic windowed %+v, full %+v", windowed, full)
	}

	full, err = o.InelasticComponent(300000, 1000, nil)
	if err != nil {
		t.Fatal(err)
	}
	windowed, err = o.InelasticComponent(300000, 1000, window)
	if err != nil {
		t.Fatal(err)
	}
	if !near(windowed.Fraction, full.Fraction, 1e-6) || !near(windowed.Spread, full.Spread, 1e-6) {
		t.Errorf("inelastic windowed %+v, full %+v", windowed, full)
	}
}

func TestWindowOutsideTheGrid(t *testing.T) {
	o := newTestOptimizer(t, DefaultFilterConfiguration(), gaussianLoss{peak: 20, sigma: 5})
	for _, window := range []FilterWindow{
		{Position: 500, Width: 10},
		{Position: -100, Width: 10},
		{Position: 250, Width: 90},
	} {
		if _, err := o.ElasticComponent(300000, 1000, &window); !errors.Is(err, ErrDegenerateWindow) {
			t.Errorf("elastic %+v: err = %v, want ErrDegenerateWindow", window, err)
		}
		if _, err := o.InelasticComponent(300000, 1000, &window); !errors.Is(err, ErrDegenerateWindow) {
			t.Errorf("inelastic %+v: err = %v, want ErrDegenerateWindow", window, err)
		}
	}
	if _, err := o.ElasticComponent(300000, 1000, &FilterWindow{Position: math.NaN(), Width: 10}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("nan position: err = %v, want ErrInvalidArgument", err)
	}
}

func TestNarrowWindowCutsElectronsAndSpread(t *testing.T) {
	o := newTestOptimizer(t, DefaultFilterConfiguration(), gaussianLoss{peak: 20, sigma: 5})
	full, err := o.ElasticComponent(300000, 1000, nil)
	if err != nil {
		t.Fatal(err)
	}
	narrow, err := o.ElasticComponent(300000, 1000, &FilterWindow{Position: 0, Width: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	if narrow.Fraction >= full.Fraction || narrow.Fraction <= 0 {
		t.Errorf("narrow window fraction %v, full %v", narrow.Fraction, full.Fraction)
	}
	if narrow.Spread >= full.Spread || narrow.Spread <= 0 {
		t.Errorf("narrow window spread %v, full %v", narrow.Spread, full.Spread)
	}
}

func TestElasticFractionDecreasesWithThickness(t *testing.T) {
	o := newTestOptimizer(t, DefaultFilterConfiguration(), gaussianLoss{peak: 20, sigma: 5})
	for _, window := range []*FilterWindow{nil, {Position: 0, Width: 2}} {
		previous := math.Inf(1)
		for _, thickness := range []float64{100, 1000, 5000, 20000} {
			elastic, err := o.ElasticComponent(300000, angstrom(thickness), window)
			if err != nil {
				t.Fatal(err)
			}
			if elastic.Fraction >= previous {
				t.Errorf("window %v: fraction %v at %v A not below %v", window, elastic.Fraction, thickness, previous)
			}
			previous = elastic.Fraction
		}
	}
}

func TestInelasticSpreadIsReweighted(t *testing.T) {
	evaluator := &recordingLoss{gaussianLoss: gaussianLoss{peak: 20, sigma: 3}}
	o := newTestOptimizer(t, DefaultFilterConfiguration(), evaluator)
	inelastic, err := o.InelasticComponent(300000, 1000, nil)
	if err != nil {
		t.Fatal(err)
	}
	// a gaussian of sigma s under an envelope of sigma 2s has sigma 2s/sqrt(5)
	want := 2 * 3 / math.Sqrt(5) * math.Sqrt2
	if !near(inelastic.Spread, want, 1e-3) {
		t.Errorf("spread = %v, want %v", inelastic.Spread, want)
	}
	if evaluator.energy != units.KeV(300) {
		t.Errorf("MPL evaluated at %v keV, want 300", evaluator.energy)
	}
}

func TestInelasticEnvelopeUnderflow(t *testing.T) {
	o := newTestOptimizer(t, DefaultFilterConfiguration(), gaussianLoss{peak: 150, sigma: 0.1})
	// density and envelope both vanish inside the window
	inelastic, err := o.InelasticComponent(300000, 1000, &FilterWindow{Position: 0, Width: 4})
	if err != nil {
		t.Fatal(err)
	}
	if inelastic.Spread != 0 || inelastic.Fraction != 0 {
		t.Errorf("component = %+v, want zero", inelastic)
	}
}

func TestComponentsWithLandau(t *testing.T) {
	config := FilterConfiguration{EnergySpread: 0.8, DEMin: -10, DEMax: 200, DEStep: 0.05}
	o := newTestOptimizer(t, config, landau.New())
	result, err := o.Evaluate(300000, 1000, 20)
	if err != nil {
		t.Fatal(err)
	}
	base := 1 - math.Exp(-1000./3150.)
	if result.Inelastic.Fraction <= 0 || result.Inelastic.Fraction >= base {
		t.Errorf("inelastic fraction %v, want within (0, %v)", result.Inelastic.Fraction, base)
	}
	if result.Inelastic.Spread <= 0 || math.IsNaN(result.Inelastic.Spread) {
		t.Errorf("inelastic spread %v", result.Inelastic.Spread)
	}
	if result.Elastic.Spread <= 0 || result.Elastic.Spread > 0.8+1e-6 {
		t.Errorf("elastic spread %v", result.Elastic.Spread)
	}
}
