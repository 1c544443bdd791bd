package config

import (
	"fmt"

	"github.com/wildstyl3r/eloss/internal/utils"
)

var unitToBase = map[string]float64{
	"A":   1,   // [A]
	"nm":  10,  // [A]
	"um":  1e4, // [A]
	"eV":  1,   // [eV]
	"keV": 1e3, // [eV]
	"MeV": 1e6, // [eV]
}

type UnitClass int

const (
	Length UnitClass = iota
	Energy
)

var unitsInClass = map[UnitClass][]string{
	Length: {"A", "nm", "um"},
	Energy: {"eV", "keV", "MeV"},
}

var classesOfUnits = map[string]UnitClass{
	"A":   Length,
	"nm":  Length,
	"um":  Length,
	"eV":  Energy,
	"keV": Energy,
	"MeV": Energy,
}

var defaultUnits = []string{"A", "eV"}

type UnitElement = struct {
	Class UnitClass
	Power int
}

// checkUnits appends the default unit of every class missing from units.
// Units of an already listed class are reported as conflicts.
func checkUnits(units []string) (extended []string, err error) {
	classes := map[UnitClass]struct{}{}
	var conflicts, unknown []string
	for _, unit := range units {
		class, known := classesOfUnits[unit]
		if !known {
			unknown = append(unknown, unit)
			continue
		}
		if _, some := classes[class]; some {
			conflicts = append(conflicts, unit)
		} else {
			classes[class] = struct{}{}
		}
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: unknown units %v", ErrInvalidConfig, unknown)
	}
	if len(conflicts) > 0 {
		return nil, fmt.Errorf("%w: unit conflict %v", ErrInvalidConfig, conflicts)
	}
	extended = append([]string{}, units...)
	for _, unit := range defaultUnits {
		if _, some := classes[classesOfUnits[unit]]; !some {
			extended = append(extended, unit)
		}
	}
	return extended, nil
}

// Base converts v measured in units to base units (A, eV) when direct is set,
// and back from base units otherwise.
func Base(v float64, classes []UnitElement, units []string, direct bool) float64 {
	for i := range classes {
		uc := classes[i]
		unit := utils.Intersect(unitsInClass[uc.Class], units)
		if unit == nil {
			continue
		}
		factor := unitToBase[*unit]
		for range utils.IntAbs(uc.Power) {
			if direct == (uc.Power > 0) {
				v *= factor
			} else {
				v /= factor
			}
		}
	}
	return v
}

// UnitName returns the unit of class listed in units, or the base unit.
func UnitName(class UnitClass, units []string) string {
	if unit := utils.Intersect(unitsInClass[class], units); unit != nil {
		return *unit
	}
	return unitsInClass[class][0]
}
