/*
 * batch_test.go, part of gomappings.
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
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/multierr"

	mappings "github.com/rmera/gomappings"
)

//Fails for the models whose input asks for age index 5.
const pickyMap52 = `#!/bin/sh
if grep -q "^5 .*Age of the HII region" ; then
  echo "cannot do age 5" >&2
  exit 1
fi
echo ok
`

func batchModels(Te *testing.T, n int) []*mappings.InputModel {
	Te.Helper()
	models := make([]*mappings.InputModel, 0, n)
	for i := 1; i <= n; i++ {
		M, err := mappings.NewInputModel(fmt.Sprintf("m%02d", i))
		require.NoError(Te, err)
		require.NoError(Te, M.SetAge(i))
		models = append(models, M)
	}
	return models
}

func TestBatch(Te *testing.T) {
	defer goleak.VerifyNone(Te, goleak.IgnoreCurrent())
	lab := newLab(Te, fakeMap52)
	H := NewHandle(lab, nil)
	H.KeepLogs(false)
	var done int32
	B := &Batch{
		Handle:  H,
		Workers: 3,
		OnDone: func(ctx context.Context, M *mappings.InputModel, R *Result) error {
			atomic.AddInt32(&done, 1)
			if M.Name() != R.Name {
				return fmt.Errorf("result %s delivered for model %s", R.Name, M.Name())
			}
			return nil
		},
	}
	models := batchModels(Te, 8)
	results, err := B.Run(context.Background(), models)
	require.NoError(Te, err)
	require.Len(Te, results, 8)
	for i, R := range results {
		require.NotNil(Te, R)
		assert.True(Te, R.OK())
		assert.Equal(Te, models[i].Name(), R.Name)
		_, err := os.Stat(filepath.Join(lab.Dir, models[i].Name()+".mv"))
		assert.NoError(Te, err)
	}
	assert.Equal(Te, int32(8), atomic.LoadInt32(&done))
	assert.Equal(Te, "gomappings", H.Name(), "the batch must not change the template handle")
}

func TestBatchKeepGoing(Te *testing.T) {
	defer goleak.VerifyNone(Te, goleak.IgnoreCurrent())
	lab := newLab(Te, pickyMap52)
	H := NewHandle(lab, nil)
	H.KeepLogs(false)
	B := &Batch{Handle: H, Workers: 2, KeepGoing: true}
	results, err := B.Run(context.Background(), batchModels(Te, 6))
	require.Error(Te, err)
	assert.Len(Te, multierr.Errors(err), 1)
	assert.True(Te, mappings.IsMessage(err, mappings.ErrRunFailed))
	for i, R := range results {
		require.NotNil(Te, R)
		assert.Equal(Te, i != 4, R.OK(), "model %d", i)
	}
}

func TestBatchKeepGoingCancelled(Te *testing.T) {
	defer goleak.VerifyNone(Te, goleak.IgnoreCurrent())
	lab := newLab(Te, fakeMap52)
	H := NewHandle(lab, nil)
	H.KeepLogs(false)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	B := &Batch{
		Handle:    H,
		Workers:   1,
		KeepGoing: true,
		OnDone: func(ctx context.Context, M *mappings.InputModel, R *Result) error {
			cancel()
			return nil
		},
	}
	results, err := B.Run(ctx, batchModels(Te, 4))
	require.Error(Te, err)
	assert.Len(Te, multierr.Errors(err), 3)
	assert.True(Te, mappings.IsMessage(err, mappings.ErrRunFailed))
	assert.ErrorIs(Te, err, context.Canceled)
	assert.True(Te, results[0].OK())
	for i := 1; i < 4; i++ {
		assert.Nil(Te, results[i], "model %d", i)
	}
}

func TestBatchStopOnError(Te *testing.T) {
	defer goleak.VerifyNone(Te, goleak.IgnoreCurrent())
	lab := newLab(Te, pickyMap52)
	H := NewHandle(lab, nil)
	H.KeepLogs(false)
	B := &Batch{Handle: H, Workers: 1}
	results, err := B.Run(context.Background(), batchModels(Te, 8))
	require.Error(Te, err)
	assert.True(Te, mappings.IsMessage(err, mappings.ErrRunFailed))
	//With one worker the models run in order, so nothing after the failure is started.
	for i := 0; i < 4; i++ {
		assert.True(Te, results[i].OK())
	}
	assert.False(Te, results[4].OK())
	for i := 5; i < 8; i++ {
		assert.Nil(Te, results[i])
	}
}

func TestBatchBadModel(Te *testing.T) {
	lab := newLab(Te, fakeMap52)
	H := NewHandle(lab, nil)
	good, err := mappings.NewInputModel("good")
	require.NoError(Te, err)
	bad, err := mappings.NewInputModel("bad")
	require.NoError(Te, err)
	require.NoError(Te, bad.SetGrainDistribution("S"))
	B := &Batch{Handle: H, KeepGoing: true}
	results, err := B.Run(context.Background(), []*mappings.InputModel{good, bad})
	require.Error(Te, err)
	assert.True(Te, mappings.IsMessage(err, mappings.ErrUnsupported))
	assert.True(Te, results[0].OK())
	assert.Nil(Te, results[1])

	_, err = (&Batch{}).Run(context.Background(), nil)
	assert.Error(Te, err)
}
