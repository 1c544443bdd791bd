package geometry

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/wildstyl3r/eloss/internal/constants"
)

var ErrInvalidShape = errors.New("invalid shape")

// Shape is one of Cube, Cuboid or Cylinder.
type Shape interface {
	shape()
}

type Cube struct {
	Length float64 // [A]
}

type Cuboid struct {
	LengthX, LengthY, LengthZ float64 // [A]
}

// Cylinder lies with its axis perpendicular to the beam.
type Cylinder struct {
	Length float64 // [A]
	Radius float64 // [A]
}

func (Cube) shape()     {}
func (Cuboid) shape()   {}
func (Cylinder) shape() {}

// EffectiveThickness returns the path length of the beam through the shape
// tilted by angle degrees.
func EffectiveThickness(s Shape, angle float64) (float64, error) {
	switch s := s.(type) {
	case Cube:
		return slab(s.Length, angle), nil
	case Cuboid:
		return slab(s.LengthZ, angle), nil
	case Cylinder:
		return 2. * s.Radius, nil
	default:
		return 0, fmt.Errorf("%w: %T", ErrInvalidShape, s)
	}
}

func slab(d0, angle float64) float64 {
	return d0 / (math.Cos(math.Pi*angle/180.) + constants.CosineGuard)
}

// ParseShape builds a shape from its configuration tag and dimensions.
func ParseShape(kind string, length, lengthX, lengthY, lengthZ, radius float64) (Shape, error) {
	switch strings.ToLower(kind) {
	case "cube":
		return Cube{Length: length}, nil
	case "cuboid":
		return Cuboid{LengthX: lengthX, LengthY: lengthY, LengthZ: lengthZ}, nil
	case "cylinder":
		return Cylinder{Length: length, Radius: radius}, nil
	}
	return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidShape, kind)
}
