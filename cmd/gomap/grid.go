/*
 * grid.go, part of gomappings.
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
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	mappings "github.com/rmera/gomappings"
	"github.com/rmera/gomappings/catalog"
	"github.com/rmera/gomappings/grid"
	"github.com/rmera/gomappings/run"
)

func newGridCmd(a *app) *cobra.Command {
	var (
		dryRun    bool
		workers   int
		keepGoing bool
	)
	cmd := &cobra.Command{
		Use:   "grid <file.hcl|dir>...",
		Short: "Expand, write and run one or more grids of models",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			G, err := grid.Load(args...)
			if err != nil {
				return err
			}
			models, err := G.Expand()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if dryRun {
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				for _, M := range models {
					fmt.Fprintf(tw, "%s\t%s\n", M.Name(), M.IDString())
				}
				fmt.Fprintf(tw, "%d models\n", len(models))
				return tw.Flush()
			}
			if !cmd.Flags().Changed("workers") {
				workers = a.cfg.Workers
			}
			if !cmd.Flags().Changed("keep-going") {
				keepGoing = a.cfg.KeepGoing
			}
			cat, err := catalog.Open(cmd.Context(), a.cfg.CatalogPath())
			if err != nil {
				return err
			}
			defer cat.Close()

			var done int
			total := len(models)
			B := &run.Batch{
				Handle:    a.handle(),
				Workers:   workers,
				KeepGoing: keepGoing,
				OnDone: func(ctx context.Context, M *mappings.InputModel, R *run.Result) error {
					done++
					fmt.Fprintf(out, "[%d/%d] %s\n", done, total, R)
					//the run context may be cancelled already, but the result is still worth keeping.
					_, err := cat.Record(context.WithoutCancel(ctx), M, R)
					return err
				},
			}
			a.logger.Info("Running grid", zap.Int("models", total), zap.Int("workers", workers))
			results, err := B.Run(cmd.Context(), models)
			var ok int
			for _, R := range results {
				if R.OK() {
					ok++
				}
			}
			fmt.Fprintf(out, "%d of %d models run successfully\n", ok, total)
			return err
		},
	}
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Only list the models of the grid")
	cmd.Flags().IntVarP(&workers, "workers", "j", 1, "Maximum number of map52 processes at the same time (default from the configuration)")
	cmd.Flags().BoolVarP(&keepGoing, "keep-going", "k", false, "Run every model even after failures (default from the configuration)")
	return cmd
}
