package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/facette/natsort"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wildstyl3r/eloss/internal/config"
	"github.com/wildstyl3r/eloss/internal/geometry"
	"github.com/wildstyl3r/eloss/internal/landau"
	"github.com/wildstyl3r/eloss/internal/model"
	"github.com/wildstyl3r/eloss/internal/units"
	"github.com/wildstyl3r/eloss/internal/utils"
)

func newRunCommand() *cobra.Command {
	var input string
	var threads int
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Evaluate every model of a toml configuration and save the results as csv",
		Args:  cobra.NoArgs,
	}
	df := model.NewDataFlags(cmd.Flags())
	cmd.Flags().StringVarP(&input, "input", "i", "eloss", "model configuration in toml format")
	cmd.Flags().IntVarP(&threads, "threads", "t", runtime.NumCPU(), "angles evaluated concurrently")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, meta, err := config.LoadConfig(input)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("threads") || cfg.Threads <= 0 {
			cfg.Threads = threads
		}
		return run(&cfg, &meta, df)
	}
	return cmd
}

func run(cfg *config.Config, meta *toml.MetaData, df model.DataFlags) error {
	startTime := time.Now()
	log.Infof("Current time: %s", startTime.UTC().Format(time.UnixDate))

	if cfg.OutputDir != "" && cfg.OutputDir != "." {
		if err := os.MkdirAll(cfg.OutputDir, 0750); err != nil {
			return err
		}
	}
	df.SetOutputPath(cfg.OutputDir)

	names := make([]string, 0, len(cfg.Models))
	for name := range cfg.Models {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return natsort.Compare(names[i], names[j])
	})

	evaluator := landau.New()
	var summary utils.CSV
	var errs []error
	for _, modelName := range names {
		parameters := cfg.Models[modelName]
		if err := parameters.CheckAndUnify(modelName, cfg, meta); err != nil {
			log.WithError(err).Error("model skipped")
			errs = append(errs, err)
			continue
		}
		scenario, err := model.NewScenario(modelName, parameters, evaluator, log)
		if err != nil {
			log.WithError(err).Error("model skipped")
			errs = append(errs, err)
			continue
		}
		if err := scenario.Run(); err != nil {
			errs = append(errs, fmt.Errorf("model %s: %w", modelName, err))
		}
		extractor := model.NewDataExtractor(scenario)
		if err := extractor.Save(df); err != nil {
			log.WithField("model", modelName).WithError(err).Error("saving failed")
			errs = append(errs, err)
		}
		summary = append(summary, extractor.SummaryRows()...)
	}

	if len(summary) > 0 {
		if err := utils.WriteAsCSV(summary, cfg.OutputDir, "", "summary", model.SummaryColumns); err != nil {
			errs = append(errs, err)
		}
	}
	log.WithFields(logrus.Fields{
		"models":  len(names),
		"elapsed": time.Since(startTime),
	}).Info("done")
	return errors.Join(errs...)
}

func newThicknessCommand() *cobra.Command {
	var shape config.ShapeParameters
	var angles []float64
	cmd := &cobra.Command{
		Use:   "thickness",
		Short: "Print the effective thickness and the electron fractions per tilt angle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := geometry.ParseShape(shape.Type, shape.Length, shape.LengthX, shape.LengthY, shape.LengthZ, shape.Radius)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
			fmt.Fprintln(w, "angle (deg)\tthickness (A)\tzero loss\tmp loss")
			for _, angle := range angles {
				thickness, err := geometry.EffectiveThickness(s, angle)
				if err != nil {
					return err
				}
				zl, _ := model.FractionOfElectrons(s, angle, model.ZeroLoss)
				mp, _ := model.FractionOfElectrons(s, angle, model.MPLoss)
				fmt.Fprintf(w, "%g\t%.6g\t%.6f\t%.6f\n", angle, thickness, zl, mp)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&shape.Type, "shape", "cube", "cube, cuboid or cylinder")
	cmd.Flags().Float64Var(&shape.Length, "length", 1000, "cube edge or cylinder length [A]")
	cmd.Flags().Float64Var(&shape.LengthX, "length-x", 0, "cuboid x edge [A]")
	cmd.Flags().Float64Var(&shape.LengthY, "length-y", 0, "cuboid y edge [A]")
	cmd.Flags().Float64Var(&shape.LengthZ, "length-z", 0, "cuboid edge along the beam [A]")
	cmd.Flags().Float64Var(&shape.Radius, "radius", 0, "cylinder radius [A]")
	cmd.Flags().Float64SliceVarP(&angles, "angle", "a", []float64{0}, "tilt angles [deg]")
	return cmd
}

func newPositionCommand() *cobra.Command {
	var energy, thickness, width float64
	filter := model.DefaultFilterConfiguration()
	cmd := &cobra.Command{
		Use:   "position",
		Short: "Place the energy filter for one specimen thickness",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			optimizer, err := model.NewEnergyFilterOptimizer(filter, nil)
			if err != nil {
				return err
			}
			log.WithFields(logrus.Fields{
				"energy":    energy,
				"thickness": thickness,
				"width":     width,
			}).Debug("placing filter")
			result, err := optimizer.Evaluate(units.EV(energy), units.Angstrom(thickness), width)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
			fmt.Fprintf(w, "position (eV)\t%.4f\n", result.Position)
			fmt.Fprintf(w, "width (eV)\t%g\n", result.Width)
			fmt.Fprintf(w, "elastic fraction\t%.6f\n", result.Elastic.Fraction)
			fmt.Fprintf(w, "elastic spread (eV)\t%.4f\n", result.Elastic.Spread)
			fmt.Fprintf(w, "inelastic fraction\t%.6f\n", result.Inelastic.Fraction)
			fmt.Fprintf(w, "inelastic spread (eV)\t%.4f\n", result.Inelastic.Spread)
			return w.Flush()
		},
	}
	cmd.Flags().Float64VarP(&energy, "energy", "e", 300000, "beam energy [eV]")
	cmd.Flags().Float64VarP(&thickness, "thickness", "d", 1000, "specimen thickness [A]")
	cmd.Flags().Float64VarP(&width, "width", "w", model.NoFilter, "filter width [eV], 0 keeps the whole spectrum")
	cmd.Flags().Float64Var(&filter.EnergySpread, "spread", filter.EnergySpread, "energy spread of the zero loss peak [eV]")
	cmd.Flags().Float64Var(&filter.DEMin, "de-min", filter.DEMin, "lower end of the energy loss grid [eV]")
	cmd.Flags().Float64Var(&filter.DEMax, "de-max", filter.DEMax, "upper end of the energy loss grid [eV]")
	cmd.Flags().Float64Var(&filter.DEStep, "de-step", filter.DEStep, "energy loss grid step [eV]")
	return cmd
}
