package geometry

import (
	"errors"
	"math"
	"testing"
)

func TestEffectiveThickness(t *testing.T) {
	tests := []struct {
		name  string
		shape Shape
		angle float64
		want  float64
	}{
		{"cube flat", Cube{Length: 1000}, 0, 1000},
		{"cube tilted", Cube{Length: 1000}, 60, 2000},
		{"cuboid uses z", Cuboid{LengthX: 5000, LengthY: 3000, LengthZ: 800}, 0, 800},
		{"cuboid tilted", Cuboid{LengthX: 5000, LengthY: 3000, LengthZ: 800}, -60, 1600},
		{"cylinder flat", Cylinder{Length: 10000, Radius: 500}, 0, 1000},
		{"cylinder tilted", Cylinder{Length: 10000, Radius: 500}, 70, 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EffectiveThickness(tt.shape, tt.angle)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("thickness = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEffectiveThicknessGrazing(t *testing.T) {
	got, err := EffectiveThickness(Cube{Length: 1000}, 90)
	if err != nil {
		t.Fatal(err)
	}
	if math.IsInf(got, 0) || math.IsNaN(got) || got < 1e12 {
		t.Errorf("thickness at 90 deg = %v, want large finite value", got)
	}
}

func TestEffectiveThicknessInvalidShape(t *testing.T) {
	if _, err := EffectiveThickness(nil, 0); !errors.Is(err, ErrInvalidShape) {
		t.Errorf("err = %v, want ErrInvalidShape", err)
	}
}

func TestParseShape(t *testing.T) {
	s, err := ParseShape("Cylinder", 0, 0, 0, 0, 250)
	if err != nil {
		t.Fatal(err)
	}
	if c, ok := s.(Cylinder); !ok || c.Radius != 250 {
		t.Errorf("shape = %#v", s)
	}
	if _, err := ParseShape("sphere", 1, 1, 1, 1, 1); !errors.Is(err, ErrInvalidShape) {
		t.Errorf("err = %v, want ErrInvalidShape", err)
	}
}
