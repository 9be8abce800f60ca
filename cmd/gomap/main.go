/*
 * main.go, part of gomappings.
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

//gomap writes and runs MAPPINGS V photoionization models, alone or in grids,
//and keeps a catalog of the runs.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rmera/gomappings/config"
)

//app holds what the commands share. It is filled by the root command before any subcommand runs.
type app struct {
	configFile string
	verbose    bool
	cfg        *config.Config
	logger     *zap.Logger

	//set by tests, so the logger is not built from the configuration
	testLogger *zap.Logger
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "gomap",
		Short: "Write and run MAPPINGS V models",
		Long: `gomap builds MAPPINGS V input files from a set of parameters and runs map52 on them.
Grids of models can be given as HCL files. Every run is recorded in a SQLite catalog,
which can be listed and summarized.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			if a.testLogger != nil {
				a.logger = a.testLogger
				return nil
			}
			a.logger, err = cfg.Logger(a.verbose)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVarP(&a.configFile, "config", "c", defaultConfigFile(), "Configuration file (YAML)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(newPreviewCmd(a))
	root.AddCommand(newWriteCmd(a))
	root.AddCommand(newRunCmd(a))
	root.AddCommand(newGridCmd(a))
	root.AddCommand(newRunsCmd(a))
	root.AddCommand(newReportCmd(a))
	return root
}

func defaultConfigFile() string {
	if f := os.Getenv("GOMAP_CONFIG"); f != "" {
		return f
	}
	return "~/.config/gomappings/config.yaml"
}

func execute(ctx context.Context, args []string, out io.Writer) error {
	a := &app{}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(os.Stderr)
	return root.ExecuteContext(ctx)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := execute(ctx, os.Args[1:], os.Stdout)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
