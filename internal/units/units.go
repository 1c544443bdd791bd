// Package units holds the quantities that cross the Landau evaluator boundary.
// Beam energy is passed in eV to the density and in keV to the most probable
// loss fit; keeping them as distinct types makes every conversion visible.
package units

type EV float64

type KeV float64

type Angstrom float64

func (e EV) KeV() KeV {
	return KeV(e / 1000.)
}

func (k KeV) EV() EV {
	return EV(k * 1000.)
}
