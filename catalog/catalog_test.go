/*
 * catalog_test.go, part of gomappings.
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

package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mappings "github.com/rmera/gomappings"
	"github.com/rmera/gomappings/run"
)

func openTest(Te *testing.T) *Catalog {
	Te.Helper()
	C, err := Open(context.Background(), filepath.Join(Te.TempDir(), "runs.db"))
	require.NoError(Te, err)
	Te.Cleanup(func() { C.Close() })
	return C
}

func model(Te *testing.T, name string, logq float64) *mappings.InputModel {
	Te.Helper()
	M, err := mappings.NewInputModel(name)
	require.NoError(Te, err)
	require.NoError(Te, M.SetIonization(logq))
	return M
}

func TestRecordAndQuery(Te *testing.T) {
	ctx := context.Background()
	C := openTest(Te)
	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	M := model(Te, "hii", 7.5)
	ok := &run.Result{Name: "hii", ID: M.IDString(), Input: "/lab/hii.mv", Log: "/lab/hii.log.zst", Started: t0, Elapsed: 90 * time.Second, ExitCode: 0}
	id1, err := C.Record(ctx, M, ok)
	require.NoError(Te, err)
	assert.NotEmpty(Te, id1)

	failed := &run.Result{Name: "hii", Input: "/lab/hii.mv", Started: t0.Add(time.Hour), Elapsed: time.Second, ExitCode: 2, Err: errors.New("boom")}
	id2, err := C.Record(ctx, M, failed)
	require.NoError(Te, err)
	assert.NotEqual(Te, id1, id2)

	other := model(Te, "other", 8.5)
	_, err = C.Record(ctx, other, &run.Result{Name: "other", Started: t0.Add(30 * time.Minute), Elapsed: 2 * time.Second})
	require.NoError(Te, err)

	recs, err := C.Runs(ctx, "hii")
	require.NoError(Te, err)
	require.Len(Te, recs, 2)
	assert.Equal(Te, id2, recs[0].ID, "newest first")
	assert.Equal(Te, StatusFailed, recs[0].Status)
	assert.Equal(Te, "boom", recs[0].Error)
	assert.Equal(Te, 2, recs[0].ExitCode)
	assert.False(Te, recs[0].OK())

	r := recs[1]
	assert.True(Te, r.OK())
	assert.Equal(Te, "hii", r.Model)
	assert.Equal(Te, M.IDString(), r.IDString)
	assert.Equal(Te, M.Params(), r.Params)
	assert.Equal(Te, 7.5, r.Params.Ionization)
	assert.True(Te, t0.Equal(r.Started))
	assert.Equal(Te, 90*time.Second, r.Elapsed)
	assert.Equal(Te, "/lab/hii.log.zst", r.Log)

	all, err := C.Runs(ctx, "")
	require.NoError(Te, err)
	assert.Len(Te, all, 3)

	latest, err := C.Latest(ctx)
	require.NoError(Te, err)
	require.Len(Te, latest, 2)
	assert.Equal(Te, id2, latest[0].ID)
	assert.Equal(Te, "other", latest[1].Model)

	got, err := C.Get(ctx, id1)
	require.NoError(Te, err)
	assert.Equal(Te, r, got)

	require.NoError(Te, C.Delete(ctx, id1))
	_, err = C.Get(ctx, id1)
	assert.True(Te, mappings.IsMessage(err, mappings.ErrCatalog))
	assert.Error(Te, C.Delete(ctx, id1))

	none, err := C.Runs(ctx, "nobody")
	require.NoError(Te, err)
	assert.Empty(Te, none)
}

func TestReopen(Te *testing.T) {
	ctx := context.Background()
	path := filepath.Join(Te.TempDir(), "persist.db")
	C, err := Open(ctx, path)
	require.NoError(Te, err)
	assert.Equal(Te, path, C.Path())
	_, err = C.Record(ctx, model(Te, "kept", 8), &run.Result{Name: "kept", Started: time.Now()})
	require.NoError(Te, err)
	require.NoError(Te, C.Close())

	C, err = Open(ctx, path)
	require.NoError(Te, err)
	defer C.Close()
	recs, err := C.Runs(ctx, "kept")
	require.NoError(Te, err)
	assert.Len(Te, recs, 1)
}

func TestMemory(Te *testing.T) {
	C, err := Open(context.Background(), ":memory:")
	require.NoError(Te, err)
	defer C.Close()
	_, err = C.Add(context.Background(), &Record{Model: "m", Params: mappings.DefaultParams(), Status: StatusOK, Started: time.Now()})
	assert.NoError(Te, err)
}
