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

//Package grid reads grids of MAPPINGS models from HCL files. A grid file contains
//one or more model blocks. The pressure, ionization and age attributes take lists,
//and a block expands into one model for each combination of their values:
//
//	model "hii" {
//	  spectrum   = "${env.HOME}/spectra/sb99_4myr.spectrum"
//	  geometry   = "S"
//	  pressure   = [5.0, 6.0, 7.0]
//	  ionization = [7.0, 7.5, 8.0]
//	  age        = [9]
//
//	  dust {
//	    depletion    = "dust.dpl"
//	    pah_fraction = 0.3
//	  }
//	}
//
//Relative file names are taken from the directory of the grid file. Expressions
//can use the environment variables through the env object.
package grid

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	mappings "github.com/rmera/gomappings"
)

type hclGridFile struct {
	Models []*hclModel `hcl:"model,block"`
}

type hclModel struct {
	Name          string    `hcl:"name,label"`
	Abundance     *string   `hcl:"abundance,optional"`
	Depletion     *string   `hcl:"depletion,optional"`
	Spectrum      *string   `hcl:"spectrum,optional"`
	Geometry      *string   `hcl:"geometry,optional"`
	Temperature   *float64  `hcl:"temperature,optional"`
	Luminosity    *float64  `hcl:"luminosity,optional"`
	FillingFactor *float64  `hcl:"filling_factor,optional"`
	StepSize      *float64  `hcl:"step_size,optional"`
	Output        *string   `hcl:"output,optional"`
	Pressure      []float64 `hcl:"pressure,optional"`
	Ionization    []float64 `hcl:"ionization,optional"`
	Age           []int     `hcl:"age,optional"`
	Dust          *hclDust  `hcl:"dust,block"`
}

type hclDust struct {
	Include           *bool    `hcl:"include,optional"`
	Depletion         *string  `hcl:"depletion,optional"`
	PAHFraction       *float64 `hcl:"pah_fraction,optional"`
	PAHSwitch         *string  `hcl:"pah_switch,optional"`
	EvalTemperature   *bool    `hcl:"eval_temperature,optional"`
	GraphiteCospatial *bool    `hcl:"graphite_cospatial,optional"`
	GrainDestruction  *bool    `hcl:"grain_destruction,optional"`
	Distribution      *string  `hcl:"distribution,optional"`
}

//Spec is a model block of a grid file: the base parameters plus
//the lists of values to be combined.
type Spec struct {
	Name       string
	File       string //the file where the block was defined
	Base       mappings.Params
	Pressure   []float64
	Ionization []float64
	Age        []int
}

//Grid is a set of model blocks.
type Grid struct {
	Specs []*Spec
}

//Len returns the number of models the grid expands into.
func (G *Grid) Len() int {
	n := 0
	for _, s := range G.Specs {
		n += s.Len()
	}
	return n
}

func lenOrOne(n int) int {
	if n == 0 {
		return 1
	}
	return n
}

//Len returns the number of models the block expands into.
func (S *Spec) Len() int {
	return lenOrOne(len(S.Pressure)) * lenOrOne(len(S.Ionization)) * lenOrOne(len(S.Age))
}

//evalContext exposes the environment variables to the grid files as env.NAME.
func evalContext() *hcl.EvalContext {
	env := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		env[k] = cty.StringVal(v)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(env),
		},
	}
}

//Parse reads a grid from the HCL source src. filename is used for the error
//messages and to resolve relative file names.
func Parse(src []byte, filename string) (*Grid, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, mappings.NewError(mappings.ErrGrid, "", "syntax error", "Parse").WithFile(filename).WithCause(diags)
	}
	return decode(f, filename)
}

func decode(f *hcl.File, filename string) (*Grid, error) {
	var root hclGridFile
	diags := gohcl.DecodeBody(f.Body, evalContext(), &root)
	if diags.HasErrors() {
		return nil, mappings.NewError(mappings.ErrGrid, "", "unable to decode", "decode").WithFile(filename).WithCause(diags)
	}
	G := &Grid{Specs: make([]*Spec, 0, len(root.Models))}
	for _, m := range root.Models {
		G.Specs = append(G.Specs, translate(m, filename))
	}
	if err := G.checkNames(); err != nil {
		return nil, err
	}
	return G, nil
}

//Load reads all the grid files given. Directories are searched recursively for .hcl files.
func Load(paths ...string) (*Grid, error) {
	files, err := findHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, mappings.NewError(mappings.ErrGrid, "", "no grid files found in "+strings.Join(paths, ", "), "Load")
	}
	parser := hclparse.NewParser()
	G := &Grid{}
	for _, file := range files {
		f, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, mappings.NewError(mappings.ErrGrid, "", "syntax error", "Load").WithFile(file).WithCause(diags)
		}
		g, err := decode(f, file)
		if err != nil {
			return nil, mappings.ErrDecorate(err, "Load")
		}
		G.Specs = append(G.Specs, g.Specs...)
	}
	if err := G.checkNames(); err != nil {
		return nil, mappings.ErrDecorate(err, "Load")
	}
	return G, nil
}

//findHCLFiles returns the .hcl files among paths, walking the directories.
//The list is sorted within each directory and contains no repetitions.
func findHCLFiles(paths []string) ([]string, error) {
	var all []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			all = append(all, p)
		}
	}
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, mappings.NewError(mappings.ErrGrid, "", "cannot access grid path", "findHCLFiles").WithFile(path).WithCause(err)
		}
		if !info.IsDir() {
			add(path)
			continue
		}
		var found []string
		err = filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() && filepath.Ext(p) == ".hcl" {
				found = append(found, p)
			}
			return nil
		})
		if err != nil {
			return nil, mappings.NewError(mappings.ErrGrid, "", "cannot walk grid directory", "findHCLFiles").WithFile(path).WithCause(err)
		}
		sort.Strings(found)
		for _, p := range found {
			add(p)
		}
	}
	return all, nil
}

func (G *Grid) checkNames() error {
	where := make(map[string]string)
	for _, s := range G.Specs {
		if prev, ok := where[s.Name]; ok {
			return mappings.NewError(mappings.ErrGrid, s.Name, fmt.Sprintf("model block defined twice (also in %s)", prev), "checkNames").WithFile(s.File)
		}
		where[s.Name] = s.File
	}
	return nil
}

//relative returns path joined to the directory of file, unless path is absolute or empty.
func relative(file, path string) string {
	path = mappings.ExpandHome(path)
	if path == "" || file == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(filepath.Dir(file), path)
}

func translate(m *hclModel, file string) *Spec {
	P := mappings.DefaultParams()
	setS := func(dst *string, src *string, isPath bool) {
		if src == nil {
			return
		}
		*dst = *src
		if isPath {
			*dst = relative(file, *src)
		}
	}
	setF := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	setB := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	setS(&P.Abund, m.Abundance, true)
	setS(&P.Depl, m.Depletion, true)
	setS(&P.Spec, m.Spectrum, true)
	setS(&P.Geometry, m.Geometry, false)
	setS(&P.Output, m.Output, true)
	setF(&P.Temperature, m.Temperature)
	setF(&P.Luminosity, m.Luminosity)
	setF(&P.FillingFactor, m.FillingFactor)
	setF(&P.StepSize, m.StepSize)
	if d := m.Dust; d != nil {
		//a dust block means dust, unless it says otherwise.
		P.Dust.Include = true
		setB(&P.Dust.Include, d.Include)
		setS(&P.Dust.DeplPath, d.Depletion, true)
		setF(&P.Dust.PAHFraction, d.PAHFraction)
		setS(&P.Dust.PAHSwitch, d.PAHSwitch, false)
		setB(&P.Dust.EvalTemperature, d.EvalTemperature)
		setB(&P.Dust.GraphiteCospatial, d.GraphiteCospatial)
		setB(&P.Dust.GrainDestruction, d.GrainDestruction)
		setS(&P.Dust.Distribution, d.Distribution, false)
	}
	return &Spec{
		Name:       m.Name,
		File:       file,
		Base:       P,
		Pressure:   m.Pressure,
		Ionization: m.Ionization,
		Age:        m.Age,
	}
}

//Expand returns one model for each combination of pressure, ionization and age
//in each block. The models are called name_pP_qQ_tAGE, with P and Q to two decimals.
//Two models with the same name would share their input and log files, so
//combinations that give a repeated name are an error.
func (G *Grid) Expand() ([]*mappings.InputModel, error) {
	models := make([]*mappings.InputModel, 0, G.Len())
	from := make(map[string]string)
	for _, s := range G.Specs {
		m, err := s.Expand()
		if err != nil {
			return nil, mappings.ErrDecorate(err, "Grid.Expand")
		}
		for _, M := range m {
			if prev, ok := from[M.Name()]; ok {
				return nil, mappings.NewError(mappings.ErrGrid, M.Name(), fmt.Sprintf("model name produced by blocks %q and %q", prev, s.Name), "Grid.Expand").WithFile(s.File)
			}
			from[M.Name()] = s.Name
		}
		models = append(models, m...)
	}
	return models, nil
}

//Expand returns the models for the block, see Grid.Expand.
func (S *Spec) Expand() ([]*mappings.InputModel, error) {
	ps := S.Pressure
	if len(ps) == 0 {
		ps = []float64{S.Base.Pressure}
	}
	qs := S.Ionization
	if len(qs) == 0 {
		qs = []float64{S.Base.Ionization}
	}
	ages := S.Age
	if len(ages) == 0 {
		ages = []int{S.Base.Age}
	}
	models := make([]*mappings.InputModel, 0, S.Len())
	seen := make(map[string]bool, S.Len())
	for _, p := range ps {
		for _, q := range qs {
			for _, a := range ages {
				P := S.Base
				P.Pressure = p
				P.Ionization = q
				P.Age = a
				name := fmt.Sprintf("%s_p%.2f_q%.2f_t%d", S.Name, p, q, a)
				if seen[name] {
					return nil, mappings.NewError(mappings.ErrGrid, name, "repeated or too close pressure, ionization or age values", "Spec.Expand").WithFile(S.File)
				}
				seen[name] = true
				M, err := mappings.FromParams(name, P)
				if err != nil {
					if e, ok := err.(*mappings.Error); ok && S.File != "" {
						e.Decorate("in " + S.File)
					}
					return nil, mappings.ErrDecorate(err, "Spec.Expand")
				}
				models = append(models, M)
			}
		}
	}
	return models, nil
}
