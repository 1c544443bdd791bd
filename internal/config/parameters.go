package config

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/wildstyl3r/eloss/internal/geometry"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	OutputDir string
	Models    map[string]ModelParameters
	ModelParameters
	Threads int

	InputUnits  []string
	OutputUnits []string
}

type ShapeParameters struct {
	Type    string  // cube, cuboid or cylinder
	Length  float64 // [A]
	LengthX float64 // [A]
	LengthY float64 // [A]
	LengthZ float64 // [A]
	Radius  float64 // [A]
}

type ModelParameters struct {
	Shape  ShapeParameters
	Angles []float64 // [deg]

	Energy       float64 // [eV]
	EnergySpread float64 // [eV]
	DEMin        float64 // [eV]
	DEMax        float64 // [eV]
	DEStep       float64 // [eV]
	FilterWidth  float64 // [eV], 0 keeps the whole spectrum
	Fraction     string

	MakeDir          bool
	SaveDistribution bool

	_outputUnits []string
	_threads     int
}

func (p *ModelParameters) OutputUnits() []string {
	return p._outputUnits
}

func (p *ModelParameters) SetOutputUnits(u []string) {
	p._outputUnits = u
}

func (p *ModelParameters) Threads() int {
	return p._threads
}

func (p *ModelParameters) SetThreads(threads int) {
	p._threads = threads
}

// ShapeDescriptor parses the configured specimen shape.
func (p *ModelParameters) ShapeDescriptor() (geometry.Shape, error) {
	s := p.Shape
	return geometry.ParseShape(s.Type, s.Length, s.LengthX, s.LengthY, s.LengthZ, s.Radius)
}

// LoadConfig decodes configFileName, with or without the .toml extension.
func LoadConfig(configFileName string) (Config, toml.MetaData, error) {
	var config Config
	meta, err := toml.DecodeFile(strings.TrimSuffix(configFileName, ".toml")+".toml", &config)
	if err != nil {
		return config, meta, err
	}

	config.InputUnits, err = checkUnits(config.InputUnits)
	if err != nil {
		return config, meta, fmt.Errorf("input units: %w", err)
	}
	if len(config.OutputUnits) == 0 {
		config.OutputUnits = config.InputUnits
	}
	config.OutputUnits, err = checkUnits(config.OutputUnits)
	if err != nil {
		return config, meta, fmt.Errorf("output units: %w", err)
	}

	if len(config.Models) == 0 {
		return config, meta, fmt.Errorf("%w: no models provided", ErrInvalidConfig)
	}
	return config, meta, nil
}

var defaultValues = map[string]any{ // in A and eV
	"Angles":       []float64{0},
	"Energy":       300000.,
	"EnergySpread": 0.8,
	"DEMin":        -10.,
	"DEMax":        200.,
	"DEStep":       0.01,
	"FilterWidth":  0.,
	"Fraction":     "",
	"MakeDir":      true,
}

var valueUnits = map[string][]UnitElement{
	"Shape": {
		{Class: Length, Power: 1},
	},
	"Energy": {
		{Class: Energy, Power: 1},
	},
	"EnergySpread": {
		{Class: Energy, Power: 1},
	},
	"DEMin": {
		{Class: Energy, Power: 1},
	},
	"DEMax": {
		{Class: Energy, Power: 1},
	},
	"DEStep": {
		{Class: Energy, Power: 1},
	},
	"FilterWidth": {
		{Class: Energy, Power: 1},
	},
}

func (modelConfig *ModelParameters) toBase(parameterNames, units []string) {
	modelConfigReflect := reflect.ValueOf(modelConfig).Elem()
	for _, name := range parameterNames {
		field := modelConfigReflect.FieldByName(name)
		switch {
		case field.CanFloat():
			field.SetFloat(Base(field.Float(), valueUnits[name], units, true))
		case field.Kind() == reflect.Struct:
			for i := range field.NumField() {
				if field.Field(i).CanFloat() {
					field.Field(i).SetFloat(Base(field.Field(i).Float(), valueUnits[name], units, true))
				}
			}
		}
	}
}

/*
field value priority:
1. model table
2. global
3. default

values from the file are converted from the input units, defaults are already in A and eV
*/

func (modelConfig *ModelParameters) CheckAndUnify(modelName string, config *Config, meta *toml.MetaData) error {
	var discoveredParameters []string

	modelConfigReflect := reflect.ValueOf(modelConfig).Elem()
	globalConfigReflect := reflect.ValueOf(&config.ModelParameters).Elem()
	modelConfigType := modelConfigReflect.Type()
	for i := range modelConfigReflect.NumField() {
		field := modelConfigType.Field(i)
		if !field.IsExported() {
			continue
		}
		if meta.IsDefined("Models", modelName, field.Name) {
			discoveredParameters = append(discoveredParameters, field.Name)
		} else if meta.IsDefined(field.Name) {
			modelConfigReflect.Field(i).Set(globalConfigReflect.Field(i))
			discoveredParameters = append(discoveredParameters, field.Name)
		}
	}

	modelConfig.toBase(discoveredParameters, config.InputUnits)

	for fieldName := range defaultValues {
		if !slices.Contains(discoveredParameters, fieldName) {
			modelConfigReflect.FieldByName(fieldName).Set(reflect.ValueOf(defaultValues[fieldName]))
		}
	}

	var problems []string
	if !slices.Contains(discoveredParameters, "Shape") {
		problems = append(problems, "Shape is required")
	} else if _, err := modelConfig.ShapeDescriptor(); err != nil {
		problems = append(problems, err.Error())
	}
	if len(modelConfig.Angles) == 0 {
		problems = append(problems, "Angles is empty")
	}
	if !(modelConfig.Energy > 0) {
		problems = append(problems, fmt.Sprintf("Energy %v must be positive", modelConfig.Energy))
	}
	if !(modelConfig.EnergySpread > 0) {
		problems = append(problems, fmt.Sprintf("EnergySpread %v must be positive", modelConfig.EnergySpread))
	}
	if !(modelConfig.DEStep > 0) {
		problems = append(problems, fmt.Sprintf("DEStep %v must be positive", modelConfig.DEStep))
	}
	if !(modelConfig.DEMax > modelConfig.DEMin) {
		problems = append(problems, fmt.Sprintf("DEMax %v must exceed DEMin %v", modelConfig.DEMax, modelConfig.DEMin))
	}
	if !(modelConfig.FilterWidth >= 0) {
		problems = append(problems, fmt.Sprintf("FilterWidth %v must not be negative", modelConfig.FilterWidth))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: model %s: %s", ErrInvalidConfig, modelName, strings.Join(problems, "; "))
	}

	modelConfig._outputUnits = config.OutputUnits
	modelConfig._threads = config.Threads
	return nil
}
