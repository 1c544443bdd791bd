package model

import (
	"github.com/spf13/pflag"

	"github.com/wildstyl3r/eloss/internal/config"
	"github.com/wildstyl3r/eloss/internal/units"
)

type DataItem struct {
	saveFlag   *bool
	fileSuffix string
}

type Column struct {
	Name string
	Unit []config.UnitElement
}

type SequentialDataItem struct {
	DataItem
	columns []Column
	values  func(*DataExtractor) (args []float64, values [][]float64, err error)
	enabled func(*DataExtractor) bool
}

type DataFlags struct {
	all         *bool
	sequentials map[string]SequentialDataItem
	outputPath  string
}

var (
	lengthUnit  = []config.UnitElement{{Class: config.Length, Power: 1}}
	energyUnit  = []config.UnitElement{{Class: config.Energy, Power: 1}}
	densityUnit = []config.UnitElement{{Class: config.Energy, Power: -1}}
)

// NewDataFlags registers an output selection flag per data item on fs.
func NewDataFlags(fs *pflag.FlagSet) DataFlags {
	return DataFlags{
		all: fs.Bool("all", false, "save every available output"),
		sequentials: map[string]SequentialDataItem{
			"Filter": {
				DataItem: DataItem{
					saveFlag:   fs.Bool("filter", true, "save filter position and components per angle"),
					fileSuffix: "filter",
				},
				columns: []Column{
					{"angle (deg)", nil},
					{"thickness", lengthUnit},
					{"fraction", nil},
					{"mpl", energyUnit},
					{"mpl sigma", energyUnit},
					{"position", energyUnit},
					{"width", energyUnit},
					{"elastic fraction", nil},
					{"elastic spread", energyUnit},
					{"inelastic fraction", nil},
					{"inelastic spread", energyUnit},
				},
				values: func(de *DataExtractor) (args []float64, values [][]float64, err error) {
					for _, r := range de.scenario.Results {
						args = append(args, r.Angle)
						values = append(values, []float64{
							r.Thickness, r.Fraction, r.MPL, r.MPLSigma, r.Position, r.Width,
							r.Elastic.Fraction, r.Elastic.Spread, r.Inelastic.Fraction, r.Inelastic.Spread,
						})
					}
					return args, values, nil
				},
			},
			"Distribution": {
				DataItem: DataItem{
					saveFlag:   fs.Bool("distribution", false, "save the energy loss distribution at the first angle"),
					fileSuffix: "distribution",
				},
				columns: []Column{
					{"energy loss", energyUnit},
					{"density", densityUnit},
				},
				values: func(de *DataExtractor) (args []float64, values [][]float64, err error) {
					if len(de.scenario.Results) == 0 {
						return nil, nil, nil
					}
					dE, density, err := de.scenario.Optimizer.EnergyLossDistribution(de.scenario.Energy(), units.Angstrom(de.scenario.Results[0].Thickness))
					if err != nil {
						return nil, nil, err
					}
					for i := range dE {
						values = append(values, []float64{density[i]})
					}
					return dE, values, nil
				},
				enabled: func(de *DataExtractor) bool {
					return de.scenario.Parameters.SaveDistribution
				},
			},
		},
	}
}

func (df *DataFlags) SetOutputPath(path string) {
	df.outputPath = path
}

func (df *DataFlags) GetOutputPath() string {
	return df.outputPath
}
