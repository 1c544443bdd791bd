// Package landau evaluates the energy loss straggling of fast electrons in a
// thin layer following the Landau theory.
package landau

import (
	"math"
	"math/cmplx"
	"sync"

	"gonum.org/v1/gonum/integrate/quad"

	"github.com/wildstyl3r/eloss/internal/constants"
	"github.com/wildstyl3r/eloss/internal/units"
	"github.com/wildstyl3r/eloss/internal/utils"
)

// Evaluator gives the inelastic energy loss distribution of a beam of the
// given energy after crossing the given thickness.
type Evaluator interface {
	// Density returns the (not necessarily normalized) probability density
	// of every energy loss in dE [eV].
	Density(dE []float64, energy units.EV, thickness units.Angstrom) []float64
	// MPLAndFWHM returns the most probable loss and the full width at half
	// maximum of the same distribution, both in eV.
	MPLAndFWHM(energy units.KeV, thickness units.Angstrom) (peak, fwhm float64)
}

// Material holds the stopping parameters of the specimen.
type Material struct {
	ZOverA         float64 // [mol g^-1]
	MassDensity    float64 // [g cm^-3]
	MeanExcitation float64 // [eV]
}

func New() *Material {
	return &Material{
		ZOverA:         constants.IceZOverA,
		MassDensity:    constants.IceDensity,
		MeanExcitation: constants.IceMeanExcitation,
	}
}

// scale returns the Landau width xi and the most probable loss, both in eV,
// for an electron of the given kinetic energy [eV] crossing thickness [A].
func (m *Material) scale(kinetic, thickness float64) (xi, mpl float64) {
	gamma := 1. + kinetic/constants.ElectronRestEnergy
	gamma2 := gamma * gamma
	beta2 := 1. - 1./gamma2
	xi = 0.5 * constants.BetheK * m.ZOverA * m.MassDensity * thickness * constants.Angstrom2cm / beta2
	mpl = xi * (math.Log(2.*constants.ElectronRestEnergy*beta2*gamma2/m.MeanExcitation) +
		math.Log(xi/m.MeanExcitation) + 0.2 - beta2)
	return
}

func (m *Material) MPLAndFWHM(energy units.KeV, thickness units.Angstrom) (peak, fwhm float64) {
	if energy <= 0 || thickness <= 0 {
		return 0, 0
	}
	xi, mpl := m.scale(float64(energy.EV()), float64(thickness))
	return mpl, universal().fwhm * xi
}

func (m *Material) Density(dE []float64, energy units.EV, thickness units.Angstrom) []float64 {
	density := make([]float64, len(dE))
	if energy <= 0 || thickness <= 0 {
		return density
	}
	xi, mpl := m.scale(float64(energy), float64(thickness))
	u := universal()
	for i := range dE {
		density[i] = u.phi((dE[i]-mpl)/xi+u.mode) / xi
	}
	return density
}

const (
	lambdaMin       = -5.    // phi is below 1e-20 further left
	lambdaSplit     = 20.    // linear table up to here, logarithmic after
	lambdaMax       = 20000. // phi ~ 1/lambda^2 further right
	linearStep      = 0.005
	logStep         = 0.001
	quadratureNodes = 256
)

// table is the universal Landau density phi(lambda) sampled once per process.
type table struct {
	linear []float64 // at lambdaMin + i*linearStep
	log    []float64 // at lambdaSplit * exp(i*logStep)
	mode   float64
	fwhm   float64
}

var (
	tableOnce sync.Once
	shared    *table
)

func universal() *table {
	tableOnce.Do(func() {
		shared = newTable()
	})
	return shared
}

func newTable() *table {
	q := newQuadrature(quadratureNodes)
	t := &table{
		linear: make([]float64, int(math.Round((lambdaSplit-lambdaMin)/linearStep))+1),
		log:    make([]float64, int(math.Ceil(math.Log(lambdaMax/lambdaSplit)/logStep))+2),
	}
	for i := range t.linear {
		t.linear[i] = max(0, q.phi(lambdaMin+float64(i)*linearStep))
	}
	for i := range t.log {
		t.log[i] = max(0, q.phi(lambdaSplit*math.Exp(float64(i)*logStep)))
	}

	mode, peak := utils.TernarySearchMax(t.phi, -2., 2., 1e-9)
	belowHalf := func(lambda float64) bool {
		return t.phi(lambda) < 0.5*peak
	}
	t.mode = mode
	t.fwhm = utils.Edge(belowHalf, mode, lambdaSplit, 1e-9) - utils.Edge(belowHalf, mode, lambdaMin, 1e-9)
	return t
}

func (t *table) phi(lambda float64) float64 {
	switch {
	case lambda < lambdaMin:
		return 0
	case lambda < lambdaSplit:
		return interpolate(t.linear, (lambda-lambdaMin)/linearStep)
	case lambda < lambdaMax:
		return interpolate(t.log, math.Log(lambda/lambdaSplit)/logStep)
	default:
		return 1. / (lambda * lambda)
	}
}

func interpolate(s []float64, position float64) float64 {
	i := int(position)
	if i >= len(s)-1 {
		return s[len(s)-1]
	}
	f := position - float64(i)
	return math.FMA(s[i+1]-s[i], f, s[i])
}

// quadrature is a Gauss-Legendre rule on [0, 1].
type quadrature struct {
	x, w []float64
}

func newQuadrature(n int) quadrature {
	q := quadrature{x: make([]float64, n), w: make([]float64, n)}
	quad.Legendre{}.FixedLocations(q.x, q.w, 0, 1)
	return q
}

func (q quadrature) phi(lambda float64) float64 {
	if lambda < 0 {
		return q.contour(lambda)
	}
	return q.realAxis(lambda)
}

// phi(l) = 1/pi int_0^inf exp(-t ln t - l t) sin(pi t) dt, stable for l >= 0
func (q quadrature) realAxis(lambda float64) float64 {
	upper := 30. / (1. + lambda)
	var sum float64
	for i := range q.x {
		t := q.x[i] * upper
		sum += q.w[i] * math.Exp(-t*math.Log(t)-lambda*t) * math.Sin(math.Pi*t)
	}
	return sum * upper / math.Pi
}

// phi(l) = 1/pi int_0^inf Re exp(s ln s + l s) dy along s = s0 + iy,
// s0 = exp(-1 - l) being the saddle point of the exponent
func (q quadrature) contour(lambda float64) float64 {
	s0 := math.Exp(-1. - lambda)
	upper := 40. + 10.*math.Sqrt(s0)
	l := complex(lambda, 0)
	var sum float64
	for i := range q.x {
		s := complex(s0, q.x[i]*upper)
		sum += q.w[i] * real(cmplx.Exp(s*cmplx.Log(s)+l*s))
	}
	return sum * upper / math.Pi
}
