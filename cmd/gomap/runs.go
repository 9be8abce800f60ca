/*
 * runs.go, part of gomappings.
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
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rmera/gomappings/catalog"
	"github.com/rmera/gomappings/report"
	"github.com/rmera/gomappings/run"
)

func writeRecords(w io.Writer, recs []*catalog.Record) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tMODEL\tSTARTED\tTIME\tSTATUS\tID STRING")
	for _, r := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", r.ID, r.Model, r.Started.Format("2006-01-02 15:04:05"), run.FormatElapsed(r.Elapsed), r.Status, r.IDString)
	}
	return tw.Flush()
}

func writeRecord(w io.Writer, r *catalog.Record, log bool) error {
	fmt.Fprintf(w, "ID:        %s\n", r.ID)
	fmt.Fprintf(w, "Model:     %s\n", r.Model)
	fmt.Fprintf(w, "ID string: %s\n", r.IDString)
	fmt.Fprintf(w, "Input:     %s\n", r.Input)
	fmt.Fprintf(w, "Started:   %s\n", r.Started.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Time:      %s\n", run.FormatElapsed(r.Elapsed))
	fmt.Fprintf(w, "Status:    %s (exit code %d)\n", r.Status, r.ExitCode)
	if r.Error != "" {
		fmt.Fprintf(w, "Error:     %s\n", r.Error)
	}
	fmt.Fprintf(w, "Parameters:\n  %+v\n", r.Params)
	if !log || r.Log == "" {
		return nil
	}
	data, err := run.ReadLog(r.Log)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Log (%s):\n", r.Log)
	_, err = w.Write(data)
	return err
}

func newRunsCmd(a *app) *cobra.Command {
	var (
		latest bool
		show   string
		log    bool
		del    string
	)
	cmd := &cobra.Command{
		Use:   "runs [model]",
		Short: "List the runs in the catalog",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cat, err := catalog.Open(ctx, a.cfg.CatalogPath())
			if err != nil {
				return err
			}
			defer cat.Close()
			out := cmd.OutOrStdout()
			switch {
			case del != "":
				if err := cat.Delete(ctx, del); err != nil {
					return err
				}
				a.logger.Info("Run deleted", zap.String("id", del))
				return nil
			case show != "":
				r, err := cat.Get(ctx, show)
				if err != nil {
					return err
				}
				return writeRecord(out, r, log)
			}
			var recs []*catalog.Record
			if latest && len(args) == 0 {
				recs, err = cat.Latest(ctx)
			} else {
				var model string
				if len(args) > 0 {
					model = args[0]
				}
				recs, err = cat.Runs(ctx, model)
				if latest && len(recs) > 1 {
					recs = recs[:1]
				}
			}
			if err != nil {
				return err
			}
			return writeRecords(out, recs)
		},
	}
	cmd.Flags().BoolVarP(&latest, "latest", "l", false, "Only the most recent run of each model")
	cmd.Flags().StringVar(&show, "show", "", "Show the run with this ID")
	cmd.Flags().BoolVar(&log, "log", false, "With --show, also print the MAPPINGS log of the run")
	cmd.Flags().StringVar(&del, "delete", "", "Delete the run with this ID from the catalog")
	return cmd
}

func newReportCmd(a *app) *cobra.Command {
	var (
		plotDir string
		bins    int
		latest  bool
	)
	cmd := &cobra.Command{
		Use:   "report [model]",
		Short: "Summarize the runs in the catalog, optionally plotting them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cat, err := catalog.Open(ctx, a.cfg.CatalogPath())
			if err != nil {
				return err
			}
			defer cat.Close()
			var recs []*catalog.Record
			if latest && len(args) == 0 {
				recs, err = cat.Latest(ctx)
			} else {
				var model string
				if len(args) > 0 {
					model = args[0]
				}
				recs, err = cat.Runs(ctx, model)
			}
			if err != nil {
				return err
			}
			if err := report.Summarize(recs).Write(cmd.OutOrStdout()); err != nil {
				return err
			}
			if plotDir == "" || len(recs) == 0 {
				return nil
			}
			if err := os.MkdirAll(plotDir, 0755); err != nil {
				return err
			}
			gridPlot := filepath.Join(plotDir, "grid.png")
			if err := report.PlotGrid(recs, gridPlot); err != nil {
				return err
			}
			a.logger.Info("Plot written", zap.String("file", gridPlot))
			timesPlot := filepath.Join(plotDir, "times.png")
			if err := report.PlotTimes(recs, bins, timesPlot); err != nil {
				//no successful runs is not an error for a report.
				a.logger.Warn("Run time histogram not written", zap.Error(err))
				return nil
			}
			a.logger.Info("Plot written", zap.String("file", timesPlot))
			return nil
		},
	}
	cmd.Flags().StringVarP(&plotDir, "plot-dir", "p", "", "Write the grid and run time plots to this directory")
	cmd.Flags().IntVar(&bins, "bins", 10, "Number of bins of the run time histogram")
	cmd.Flags().BoolVarP(&latest, "latest", "l", false, "Only consider the most recent run of each model")
	return cmd
}
