/*
 * model.go, part of gomappings.
 *
 * Copyright 2025 Raul Mera <rmera{at}usachDOTcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	mappings "github.com/rmera/gomappings"
	"github.com/rmera/gomappings/catalog"
	"github.com/rmera/gomappings/run"
)

//modelFlags are the command line parameters of a single model.
type modelFlags struct {
	params string
	id     string
	p      mappings.Params
	noDust bool
}

func (f *modelFlags) register(fs *pflag.FlagSet) {
	d := mappings.DefaultParams()
	fs.StringVar(&f.params, "params", "", "YAML file with the model parameters. Flags override it")
	fs.StringVar(&f.id, "id", "", "ID string for the MAPPINGS output (default built from the parameters)")
	fs.StringVar(&f.p.Abund, "abundance", "", "Abundance file (default: MAPPINGS default)")
	fs.StringVar(&f.p.Depl, "depletion", "", "Depletion file (default: MAPPINGS default)")
	fs.StringVar(&f.p.Spec, "spectrum", "", "Ionizing spectrum file (default: "+mappings.DefaultSpectrum+")")
	fs.IntVar(&f.p.Age, "age", d.Age, "Age index n, age = (n-1)*0.5 Myr")
	fs.StringVar(&f.p.Geometry, "geometry", d.Geometry, "Geometry, S (spherical) or P (plane parallel)")
	fs.Float64Var(&f.p.Pressure, "pressure", d.Pressure, "log(P/k)")
	fs.Float64Var(&f.p.Temperature, "temperature", d.Temperature, "log of the initial electron temperature")
	fs.Float64Var(&f.p.FillingFactor, "filling-factor", d.FillingFactor, "Filling factor (0<f<=1)")
	fs.Float64Var(&f.p.Ionization, "ionization", d.Ionization, "log of the ionization parameter Q")
	fs.Float64Var(&f.p.StepSize, "step", d.StepSize, "Step value of the photon absorption fraction")
	fs.Float64Var(&f.p.Luminosity, "luminosity", d.Luminosity, "log of the bolometric luminosity (erg/s)")
	fs.StringVar(&f.p.Output, "output", "", "Output path")
	fs.BoolVar(&f.noDust, "no-dust", false, "Do not include dust")
	fs.StringVar(&f.p.Dust.DeplPath, "dust-depletion", "", "Dust depletion file")
	fs.Float64Var(&f.p.Dust.PAHFraction, "pah-fraction", d.Dust.PAHFraction, "Fraction of the carbon dust depletion in PAHs")
	fs.StringVar(&f.p.Dust.PAHSwitch, "pah-switch", d.Dust.PAHSwitch, "PAH switch value on QHDH")
	fs.BoolVar(&f.p.Dust.EvalTemperature, "dust-temperatures", false, "Evaluate dust temperatures and IR flux")
	fs.BoolVar(&f.p.Dust.GraphiteCospatial, "graphite-cospatial", false, "Graphite grains cospatial with PAHs")
	fs.BoolVar(&f.p.Dust.GrainDestruction, "grain-destruction", false, "Allow grain destruction")
	fs.StringVar(&f.p.Dust.Distribution, "grain-distribution", d.Dust.Distribution, "Grain size distribution, M (MRN), P (power law) or S (shattering)")
}

//readParams reads the parameters of the model called model from a YAML file, over the defaults.
func readParams(model, name string) (mappings.Params, error) {
	P := mappings.DefaultParams()
	data, err := os.ReadFile(name)
	if err != nil {
		return P, mappings.NewError(mappings.ErrFileNotFound, model, "unable to read parameter file", "readParams").WithFile(name).WithCause(err)
	}
	if err := yaml.Unmarshal(data, &P); err != nil {
		return P, mappings.NewError(mappings.ErrInvalidValue, model, "unable to parse parameter file", "readParams").WithFile(name).WithCause(err)
	}
	return P, nil
}

//model builds the model called name from the parameter file, if any, and the flags
//that were set in the command line.
func (f *modelFlags) model(fs *pflag.FlagSet, name string) (*mappings.InputModel, error) {
	P := mappings.DefaultParams()
	if f.params != "" {
		var err error
		if P, err = readParams(name, f.params); err != nil {
			return nil, mappings.ErrDecorate(err, "model")
		}
	}
	set := func(flag string, apply func()) {
		if fs.Changed(flag) {
			apply()
		}
	}
	set("abundance", func() { P.Abund = f.p.Abund })
	set("depletion", func() { P.Depl = f.p.Depl })
	set("spectrum", func() { P.Spec = f.p.Spec })
	set("age", func() { P.Age = f.p.Age })
	set("geometry", func() { P.Geometry = f.p.Geometry })
	set("pressure", func() { P.Pressure = f.p.Pressure })
	set("temperature", func() { P.Temperature = f.p.Temperature })
	set("filling-factor", func() { P.FillingFactor = f.p.FillingFactor })
	set("ionization", func() { P.Ionization = f.p.Ionization })
	set("step", func() { P.StepSize = f.p.StepSize })
	set("luminosity", func() { P.Luminosity = f.p.Luminosity })
	set("output", func() { P.Output = f.p.Output })
	set("dust-depletion", func() { P.Dust.DeplPath = f.p.Dust.DeplPath; P.Dust.Include = true })
	set("pah-fraction", func() { P.Dust.PAHFraction = f.p.Dust.PAHFraction })
	set("pah-switch", func() { P.Dust.PAHSwitch = f.p.Dust.PAHSwitch })
	set("dust-temperatures", func() { P.Dust.EvalTemperature = f.p.Dust.EvalTemperature })
	set("graphite-cospatial", func() { P.Dust.GraphiteCospatial = f.p.Dust.GraphiteCospatial })
	set("grain-destruction", func() { P.Dust.GrainDestruction = f.p.Dust.GrainDestruction })
	set("grain-distribution", func() { P.Dust.Distribution = f.p.Dust.Distribution })
	if f.noDust {
		P.Dust.Include = false
	}
	return mappings.FromParams(name, P)
}

func newPreviewCmd(a *app) *cobra.Command {
	f := &modelFlags{}
	var summary bool
	cmd := &cobra.Command{
		Use:   "preview <name>",
		Short: "Print the MAPPINGS input file for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			M, err := f.model(cmd.Flags(), args[0])
			if err != nil {
				return err
			}
			if summary {
				if err := M.Summary(cmd.OutOrStdout()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout())
			}
			deck, err := M.Preview(f.id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), deck)
			return nil
		},
	}
	f.register(cmd.Flags())
	cmd.Flags().BoolVar(&summary, "summary", false, "Print a summary of the parameters before the input")
	return cmd
}

func newWriteCmd(a *app) *cobra.Command {
	f := &modelFlags{}
	var filename string
	cmd := &cobra.Command{
		Use:   "write <name>",
		Short: "Write the MAPPINGS input file for a model into the lab directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			M, err := f.model(cmd.Flags(), args[0])
			if err != nil {
				return err
			}
			path, err := mappings.WriteInputFile(a.cfg.MappingsLab(), M, filename, f.id)
			if err != nil {
				return err
			}
			a.logger.Info("Input file written", zap.String("model", M.Name()), zap.String("path", path))
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	f.register(cmd.Flags())
	cmd.Flags().StringVarP(&filename, "file", "f", "", "Input file name in the lab directory (default <name>.mv)")
	return cmd
}

//handle returns a run handle set up from the configuration.
func (a *app) handle() *run.Handle {
	H := run.NewHandle(a.cfg.MappingsLab(), a.logger)
	H.KeepLogs(a.cfg.KeepLogs)
	return H
}

func newRunCmd(a *app) *cobra.Command {
	f := &modelFlags{}
	var record bool
	cmd := &cobra.Command{
		Use:   "run <name>",
		Short: "Write and run a MAPPINGS model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			M, err := f.model(cmd.Flags(), args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			R, runErr := a.handle().RunModel(ctx, M, f.id)
			if R != nil {
				fmt.Fprintln(cmd.OutOrStdout(), R)
				if record {
					if err := a.record(cmd, M, R); err != nil {
						return err
					}
				}
			}
			return runErr
		},
	}
	f.register(cmd.Flags())
	cmd.Flags().BoolVar(&record, "record", true, "Record the run in the catalog")
	return cmd
}

//record stores one run in the catalog.
func (a *app) record(cmd *cobra.Command, M *mappings.InputModel, R *run.Result) error {
	cat, err := catalog.Open(cmd.Context(), a.cfg.CatalogPath())
	if err != nil {
		return err
	}
	defer cat.Close()
	id, err := cat.Record(cmd.Context(), M, R)
	if err != nil {
		return err
	}
	a.logger.Debug("Run recorded", zap.String("model", M.Name()), zap.String("id", id))
	return nil
}
