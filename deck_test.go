/*
 * deck_test.go, part of gomappings.
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

package mappings

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultDeck = `no    : use default abundance
no    : no offsets
yes   : include dust
no    : use default depletions
no    : allow grain destruction
M     : MRN distribution
yes   : Include PAH molecules?
0.3   : fraction of Carbon Dust Depletion in PAHs
Q     : PAH switch on QHDH < Value
4e2   : PAH switch on Value
no    : graphite grains to be cospatial with PAHs
no    : Evaluate dust temperatures and IR flux?
P6    : the main Mappings model to use
D     : Default ionisation values
H     : Input spectral energy distribution data (usually Starburst99)
Q/inputs/cont_a05t23isp_vm802.spectrum  : default spectrum
9     : Age of the HII region. Age = (n-1)*0.5 Myr
X     : eXit with current source
S     : Spherical Geometry. (For Plane parallel, 'P', different options)
L     : Source by Luminosity
T     : Total or Ionising Luminosity
40.00    : bolometric source luminosity (log erg/s)
B     : isoBaric, (const pressure)
6.00 :  Pressure regime (p/k, <10 as log)
4.00     : log(Initial temperature)
1.00     : filling factor (0<f<=1)
q     : Give initial radius in terms of distance or Q(N) (d/q) ***nb old  options
8.00 :   Q at inner radius (< 100 as log)
y     : Volume integration over the whole sphere? (y/n)
E     : Equilibrium ionization balance.
0.0200  : Step value of the photon absorption fraction  *******
A     : Ionisation bounded, 99% neutral **********
A   : Standard output
SPH_test_model_Q800_Pk6.00_t9 : ID string
X   : end model
`

func TestDefaultDeck(Te *testing.T) {
	M, err := NewInputModel("test_model")
	require.NoError(Te, err)
	deck, err := M.Preview("")
	require.NoError(Te, err)
	if diff := cmp.Diff(defaultDeck, deck); diff != "" {
		Te.Errorf("unexpected default input (-want +got):\n%s", diff)
	}
}

func TestIDString(Te *testing.T) {
	M, err := NewInputModel("n1")
	require.NoError(Te, err)
	assert.Equal(Te, "SPH_n1_Q800_Pk6.00_t9", M.IDString())
	require.NoError(Te, M.SetGeometry("P"))
	require.NoError(Te, M.SetIonization(7.25))
	require.NoError(Te, M.SetPressure(5.5))
	require.NoError(Te, M.SetAge(2))
	assert.Equal(Te, "PP_n1_Q725_Pk5.50_t2", M.IDString())
}

func TestCustomDeck(Te *testing.T) {
	dir := Te.TempDir()
	M, err := NewInputModel("custom")
	require.NoError(Te, err)
	abund := touch(Te, dir, "gc.abn")
	depl := touch(Te, dir, "gc.dpl")
	spec := touch(Te, dir, "sb99.spectrum")
	require.NoError(Te, M.SetAbund(abund))
	require.NoError(Te, M.SetDepl(depl))
	require.NoError(Te, M.SetSpec(spec))
	require.NoError(Te, M.SetGeometry("P"))
	require.NoError(Te, M.SetStepSize(0.015))
	require.NoError(Te, M.SetDust(Dust{Include: true, DeplPath: depl, PAHFraction: 1, PAHSwitch: "1e3", GraphiteCospatial: true, GrainDestruction: true}))

	deck, err := M.Preview("myid")
	require.NoError(Te, err)
	lines := strings.Split(strings.TrimSuffix(deck, "\n"), "\n")
	want := []string{
		"yes   : change abundance",
		abund,
		"no    : no more changes",
		"no    : no offsets",
		"yes   : include dust",
		"yes   : change depletions",
		depl + `\`,
		"no    : no more changes",
		"yes   : allow grain destruction",
		"M     : MRN distribution",
		"yes   : Include PAH molecules?",
		"1.0   : fraction of Carbon Dust Depletion in PAHs",
		"Q     : PAH switch on QHDH < Value",
		"1e3   : PAH switch on Value",
		"yes   : graphite grains to be cospatial with PAHs",
		"no    : Evaluate dust temperatures and IR flux?",
	}
	if diff := cmp.Diff(want, lines[:len(want)]); diff != "" {
		Te.Errorf("unexpected input header (-want +got):\n%s", diff)
	}
	assert.Contains(Te, lines, spec)
	assert.Contains(Te, lines, "P     : Plane parallel geometry. (For Plane parallel, 'P', different options)")
	assert.Contains(Te, lines, "0.0150  : Step value of the photon absorption fraction  *******")
	assert.Equal(Te, "myid : ID string", lines[len(lines)-2])
}

func TestDustlessDeck(Te *testing.T) {
	dir := Te.TempDir()
	M, err := NewInputModel("nodust")
	require.NoError(Te, err)
	//Without dust the depletions are not asked for.
	require.NoError(Te, M.SetDepl(touch(Te, dir, "x.dpl")))
	M.DisableDust()
	deck, err := M.Preview("")
	require.NoError(Te, err)
	assert.True(Te, strings.HasPrefix(deck, "no    : use default abundance\nno    : no offsets\nno    : include dust\nP6 "))
	assert.NotContains(Te, deck, "depletions")
}

func TestUnsupportedDistribution(Te *testing.T) {
	dir := Te.TempDir()
	M, err := NewInputModel("grains")
	require.NoError(Te, err)
	require.NoError(Te, M.SetGrainDistribution("P"))
	_, err = M.Preview("")
	require.Error(Te, err)
	assert.True(Te, IsMessage(err, ErrUnsupported))

	L := &Lab{Dir: dir}
	_, err = WriteInputFile(L, M, "", "")
	require.Error(Te, err)
	_, statErr := os.Stat(L.InputPath("grains"))
	assert.True(Te, os.IsNotExist(statErr), "no partial input must be left behind")

	//Without dust the distribution is irrelevant.
	M.DisableDust()
	_, err = M.Preview("")
	assert.NoError(Te, err)
}

func TestWriteInputFile(Te *testing.T) {
	dir := Te.TempDir()
	L := &Lab{Dir: dir, Executable: DefaultExecutable}
	M, err := NewInputModel("test_model")
	require.NoError(Te, err)

	path, err := WriteInputFile(L, M, "", "")
	require.NoError(Te, err)
	assert.Equal(Te, filepath.Join(dir, "test_model.mv"), path)
	b, err := os.ReadFile(path)
	require.NoError(Te, err)
	assert.Equal(Te, defaultDeck, string(b))

	path, err = WriteInputFile(L, M, "other.mv", "ID2")
	require.NoError(Te, err)
	assert.Equal(Te, filepath.Join(dir, "other.mv"), path)
	b, err = os.ReadFile(path)
	require.NoError(Te, err)
	assert.Contains(Te, string(b), "ID2 : ID string\n")

	L2 := &Lab{Dir: filepath.Join(dir, "does", "not", "exist")}
	_, err = WriteInputFile(L2, M, "", "")
	assert.True(Te, IsMessage(err, ErrCantInput))
}

func TestLab(Te *testing.T) {
	dir := Te.TempDir()
	L := &Lab{Dir: dir}
	assert.Equal(Te, filepath.Join(dir, "map52"), L.Command())
	assert.True(Te, IsMessage(L.Check(), ErrNoExecutable))
	touch(Te, dir, "map52")
	assert.NoError(Te, L.Check())
	require.NoError(Te, os.Mkdir(filepath.Join(dir, "direxe"), 0o755))
	L.Executable = "direxe"
	assert.Error(Te, L.Check())
	L.Executable = "/opt/mappings/map52"
	assert.Equal(Te, "/opt/mappings/map52", L.Command())

	Te.Setenv("MAPPINGS_LAB", dir)
	assert.Equal(Te, dir, DefaultLab().Dir)
	Te.Setenv("MAPPINGS_LAB", "")
	home, err := os.UserHomeDir()
	if err == nil {
		assert.Equal(Te, filepath.Join(home, "mappings520", "lab"), DefaultLab().Dir)
	}
	assert.Equal(Te, "/abs/path", ExpandHome("/abs/path"))
}
