/*
 * batch.go, part of gomappings.
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

package run

import (
	"context"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	mappings "github.com/rmera/gomappings"
)

//Batch runs many models, each with its own copy of Handle.
type Batch struct {
	Handle *Handle

	//Maximum number of map52 processes running at the same time. Values below 1 mean 1.
	//Note that MAPPINGS writes some of its files with fixed names, so running
	//more than one process in the same lab may not be safe.
	Workers int

	//If false, the first failure cancels the remaining models.
	//If true, all models are run and all errors are returned together. Models left
	//out because ctx was cancelled count as failures.
	KeepGoing bool

	//OnDone, if not nil, is called after each model that was started, one call at a time.
	//An error returned by OnDone is treated as a failure of that model.
	OnDone func(ctx context.Context, M *mappings.InputModel, R *Result) error
}

//Run writes and runs all the models. The results are returned in the same order as
//the models. The result for a model that could not be started is nil.
func (B *Batch) Run(ctx context.Context, models []*mappings.InputModel) ([]*Result, error) {
	if B.Handle == nil {
		return nil, mappings.NewError(mappings.ErrRunFailed, "", "batch without handle", "Batch.Run")
	}
	workers := B.Workers
	if workers < 1 {
		workers = 1
	}
	results := make([]*Result, len(models))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	runctx := gctx
	if B.KeepGoing {
		runctx = ctx
	}
	var mu sync.Mutex //serializes OnDone and the error collection.
	var errs error
	B.Handle.logger.Info("Starting batch", zap.Int("models", len(models)), zap.Int("workers", workers), zap.Bool("keep_going", B.KeepGoing))
	for i, M := range models {
		i, M := i, M
		g.Go(func() error {
			if err := runctx.Err(); err != nil {
				if !B.KeepGoing {
					return err
				}
				mu.Lock()
				defer mu.Unlock()
				errs = multierr.Append(errs, mappings.NewError(mappings.ErrRunFailed, M.Name(), "not run", "Batch.Run").WithCause(err))
				return nil
			}
			H := B.Handle.clone()
			R, err := H.RunModel(runctx, M, "")
			results[i] = R
			mu.Lock()
			defer mu.Unlock()
			if B.OnDone != nil && R != nil {
				err = multierr.Append(err, B.OnDone(ctx, M, R))
			}
			if err == nil {
				return nil
			}
			if B.KeepGoing {
				errs = multierr.Append(errs, err)
				return nil
			}
			return err
		})
	}
	err := g.Wait()
	if B.KeepGoing {
		err = errs
	}
	failed := 0
	for _, R := range results {
		if !R.OK() {
			failed++
		}
	}
	B.Handle.logger.Info("Batch finished", zap.Int("models", len(models)), zap.Int("failed", failed))
	return results, err
}
