package model

import (
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"

	"github.com/wildstyl3r/eloss/internal/config"
	"github.com/wildstyl3r/eloss/internal/utils"
)

type DataExtractor struct {
	scenario *Scenario
}

func NewDataExtractor(scenario *Scenario) *DataExtractor {
	return &DataExtractor{scenario: scenario}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func columnLabel(c Column, outputUnits []string) string {
	if len(c.Unit) == 0 {
		return c.Name
	}
	label := c.Name + " ("
	for i, u := range c.Unit {
		if i > 0 {
			label += " "
		}
		label += config.UnitName(u.Class, outputUnits)
		if u.Power != 1 {
			label += "^" + strconv.Itoa(u.Power)
		}
	}
	return label + ")"
}

// Save writes every selected data item of the scenario into its own CSV file.
func (de *DataExtractor) Save(df DataFlags) error {
	outputUnits := de.scenario.Parameters.OutputUnits()
	var errs []error
	for name, output := range df.sequentials {
		if !*output.saveFlag && !*df.all && (output.enabled == nil || !output.enabled(de)) {
			continue
		}
		if err := de.save(df.outputPath, output, outputUnits); err != nil {
			errs = append(errs, fmt.Errorf("unable to save %s: %w", name, err))
			continue
		}
		de.scenario.log.WithField("output", name).Debug("saved")
	}
	return errors.Join(errs...)
}

func (de *DataExtractor) save(outputPath string, output SequentialDataItem, outputUnits []string) error {
	args, values, err := output.values(de)
	if err != nil {
		return err
	}
	file, err := utils.OpenFile(de.scenario.Parameters.MakeDir, outputPath, output.fileSuffix, de.scenario.Name)
	if err != nil {
		return err
	}
	defer file.Close()

	header := make([]string, len(output.columns))
	for i := range output.columns {
		header[i] = columnLabel(output.columns[i], outputUnits)
	}
	rows := [][]string{header}
	for x := range args {
		row := []string{formatFloat(config.Base(args[x], output.columns[0].Unit, outputUnits, false))}
		for i := range values[x] {
			row = append(row, formatFloat(config.Base(values[x][i], output.columns[i+1].Unit, outputUnits, false)))
		}
		rows = append(rows, row)
	}
	w := csv.NewWriter(file)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("error writing csv: %w", err)
	}
	return nil
}

var SummaryColumns = []string{
	"model", "angle (deg)", "thickness (A)", "position (eV)", "width (eV)",
	"elastic fraction", "elastic spread (eV)", "inelastic fraction", "inelastic spread (eV)",
}

// SummaryRows lists the results of the scenario in base units, one row per angle.
func (de *DataExtractor) SummaryRows() utils.CSV {
	rows := make(utils.CSV, 0, len(de.scenario.Results))
	for _, r := range de.scenario.Results {
		rows = append(rows, []string{
			de.scenario.Name,
			formatFloat(r.Angle),
			formatFloat(r.Thickness),
			formatFloat(r.Position),
			formatFloat(r.Width),
			formatFloat(r.Elastic.Fraction),
			formatFloat(r.Elastic.Spread),
			formatFloat(r.Inelastic.Fraction),
			formatFloat(r.Inelastic.Spread),
		})
	}
	return rows
}
