/*
 * run_test.go, part of gomappings.
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
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	mappings "github.com/rmera/gomappings"
)

//A stand-in for map52: it copies the input it receives to received.mv in the
//working directory and prints a short report.
const fakeMap52 = `#!/bin/sh
cat > received.mv
echo "MAPPINGS V fake run, $(wc -l < received.mv) answers"
echo "some warning" >&2
`

const failingMap52 = `#!/bin/sh
cat > /dev/null
echo "model exploded" >&2
exit 3
`

const slowMap52 = `#!/bin/sh
exec sleep 30
`

//newLab returns a lab in a temporary directory with the given script as map52.
func newLab(Te *testing.T, script string) *mappings.Lab {
	Te.Helper()
	dir := Te.TempDir()
	require.NoError(Te, os.WriteFile(filepath.Join(dir, mappings.DefaultExecutable), []byte(script), 0o755))
	return &mappings.Lab{Dir: dir, Executable: mappings.DefaultExecutable}
}

func TestRunModel(Te *testing.T) {
	lab := newLab(Te, fakeMap52)
	core, logs := observer.New(zap.InfoLevel)
	H := NewHandle(lab, zap.New(core))
	M, err := mappings.NewInputModel("hii_test")
	require.NoError(Te, err)

	R, err := H.RunModel(context.Background(), M, "")
	require.NoError(Te, err)
	assert.True(Te, R.OK())
	assert.Equal(Te, 0, R.ExitCode)
	assert.Equal(Te, "hii_test", R.Name)
	assert.Equal(Te, M.IDString(), R.ID)
	assert.Equal(Te, filepath.Join(lab.Dir, "hii_test.mv"), R.Input)
	assert.False(Te, R.Started.IsZero())

	//map52 must have read exactly the input file, in the lab directory.
	want, err := os.ReadFile(R.Input)
	require.NoError(Te, err)
	got, err := os.ReadFile(filepath.Join(lab.Dir, "received.mv"))
	require.NoError(Te, err)
	assert.Equal(Te, string(want), string(got))

	out, err := ReadLog(R.Log)
	require.NoError(Te, err)
	assert.Contains(Te, string(out), "MAPPINGS V fake run")
	assert.Contains(Te, string(out), "some warning")

	assert.Equal(Te, 1, logs.FilterMessage("Running MAPPINGS model").Len())
	assert.Equal(Te, 1, logs.FilterMessageSnippet("successfully run in").Len())
}

func TestRunWithoutLogs(Te *testing.T) {
	lab := newLab(Te, fakeMap52)
	H := NewHandle(lab, nil)
	H.KeepLogs(false)
	M, err := mappings.NewInputModel("quiet")
	require.NoError(Te, err)
	R, err := H.RunModel(context.Background(), M, "custom_id")
	require.NoError(Te, err)
	assert.Equal(Te, "", R.Log)
	assert.Equal(Te, "custom_id", R.ID)
	_, err = os.Stat(H.LogPath())
	assert.True(Te, os.IsNotExist(err))
}

func TestRunMissingFiles(Te *testing.T) {
	dir := Te.TempDir()
	H := NewHandle(&mappings.Lab{Dir: dir}, nil)
	H.SetName("nothing")
	_, err := H.Run(context.Background(), "")
	require.Error(Te, err)
	assert.True(Te, mappings.IsMessage(err, mappings.ErrNoExecutable))

	lab := newLab(Te, fakeMap52)
	H.SetLab(lab)
	_, err = H.Run(context.Background(), "")
	require.Error(Te, err)
	assert.True(Te, mappings.IsMessage(err, mappings.ErrNoInput))
	var merr *mappings.Error
	require.ErrorAs(Te, err, &merr)
	assert.Equal(Te, filepath.Join(lab.Dir, "nothing.mv"), merr.FileName())

	H.SetCommand("/does/not/exist/map52")
	assert.Equal(Te, "/does/not/exist/map52", H.Command())
	_, err = H.Run(context.Background(), "")
	assert.True(Te, mappings.IsMessage(err, mappings.ErrNoExecutable))
	assert.Equal(Te, mappings.DefaultExecutable, lab.Executable, "the handle must not modify the lab it was given")
}

func TestRunFailure(Te *testing.T) {
	lab := newLab(Te, failingMap52)
	H := NewHandle(lab, nil)
	M, err := mappings.NewInputModel("broken")
	require.NoError(Te, err)
	R, err := H.RunModel(context.Background(), M, "")
	require.Error(Te, err)
	require.NotNil(Te, R)
	assert.False(Te, R.OK())
	assert.Equal(Te, 3, R.ExitCode)
	assert.True(Te, mappings.IsMessage(err, mappings.ErrRunFailed))
	assert.Contains(Te, R.String(), "failed")
	out, err := ReadLog(R.Log)
	require.NoError(Te, err)
	assert.Equal(Te, "model exploded\n", string(out))
}

func TestRunCancel(Te *testing.T) {
	lab := newLab(Te, slowMap52)
	H := NewHandle(lab, nil)
	M, err := mappings.NewInputModel("slow")
	require.NoError(Te, err)
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	start := time.Now()
	R, err := H.RunModel(ctx, M, "")
	require.Error(Te, err)
	assert.Less(Te, time.Since(start), 10*time.Second)
	require.NotNil(Te, R)
	assert.False(Te, R.OK())
	assert.True(Te, strings.Contains(err.Error(), context.DeadlineExceeded.Error()))
}

func TestReadLogMissing(Te *testing.T) {
	_, err := ReadLog(filepath.Join(Te.TempDir(), "none.log.zst"))
	assert.True(Te, mappings.IsMessage(err, mappings.ErrNoLog))
}

func TestFormatElapsed(Te *testing.T) {
	assert.Equal(Te, "0m 1.50s", FormatElapsed(1500*time.Millisecond))
	assert.Equal(Te, "2m 3.25s", FormatElapsed(2*time.Minute+3250*time.Millisecond))
}
