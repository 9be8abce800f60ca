/*
 * input.go, part of gomappings.
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
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

//Geometries
const (
	Spherical     = "S"
	PlaneParallel = "P"
)

//Default values for the MAPPINGS V model parameters.
const (
	DefaultAgeIndex      = 9
	DefaultPressure      = 6.0
	DefaultTemperature   = 4.0
	DefaultFillingFactor = 1.0
	DefaultIonization    = 8.0
	DefaultStepSize      = 0.02
	DefaultLuminosity    = 40.0
)

//InputModel contains the parameters for a MAPPINGS V photoionization model,
//and can build the corresponding input file. Use NewInputModel to obtain one,
//the zero value is not usable.
type InputModel struct {
	name        string
	abund       string //empty means the MAPPINGS default
	depl        string
	spec        string
	age         int
	geometry    string
	pressure    float64 //log(p/k)
	temperature float64 //log Te, only the starting guess
	ff          float64
	logq        float64
	step        float64
	luminosity  float64 //log erg/s
	output      string
	dust        Dust
}

//NewInputModel returns a model with the given name and the default parameters.
//The name is used for the input and output files of MAPPINGS.
func NewInputModel(name string) (*InputModel, error) {
	if strings.TrimSpace(name) == "" {
		return nil, NewError(ErrNoName, "", "model name cannot be empty", "NewInputModel")
	}
	if err := checkLine("", "model name", name, "NewInputModel"); err != nil {
		return nil, err
	}
	M := &InputModel{name: name}
	M.SetDefaults()
	return M, nil
}

//SetDefaults sets all the parameters, except for the name, to their default values.
func (M *InputModel) SetDefaults() {
	M.abund = ""
	M.depl = ""
	M.spec = ""
	M.age = DefaultAgeIndex
	M.geometry = Spherical
	M.pressure = DefaultPressure
	M.temperature = DefaultTemperature
	M.ff = DefaultFillingFactor
	M.logq = DefaultIonization
	M.step = DefaultStepSize
	M.luminosity = DefaultLuminosity
	M.output = ""
	M.dust = DefaultDust()
}

//Name returns the name of the model.
func (M *InputModel) Name() string {
	return M.name
}

//checkLine returns an error if s contains control characters. map52 reads one
//answer per line, so a line break in a value shifts all the answers after it.
func checkLine(model, what, s, caller string) error {
	if strings.IndexFunc(s, unicode.IsControl) >= 0 {
		return NewError(ErrInvalidValue, model, fmt.Sprintf("%s %q contains control characters", what, s), caller)
	}
	return nil
}

//checkFile returns an error if path is not empty and doesn't exist.
func checkFile(model, kind, path, caller string) error {
	if path == "" {
		return nil
	}
	if err := checkLine(model, kind+" file", path, caller); err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return NewError(ErrFileNotFound, model, kind+" file not found", caller).WithFile(path)
	}
	return nil
}

//checkNumber returns an error if v is NaN or infinite.
func checkNumber(model, what string, v float64, caller string) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NewError(ErrInvalidValue, model, what+" must be a finite number", caller)
	}
	return nil
}

//SetAbund sets the abundance file. An empty string means the MAPPINGS default.
func (M *InputModel) SetAbund(path string) error {
	if err := checkFile(M.name, "abundance", path, "SetAbund"); err != nil {
		return err
	}
	M.abund = path
	return nil
}

//Abund returns the abundance file, or an empty string if the default is used.
func (M *InputModel) Abund() string {
	return M.abund
}

//SetDepl sets the depletion file. An empty string means the MAPPINGS default.
func (M *InputModel) SetDepl(path string) error {
	if err := checkFile(M.name, "depletion", path, "SetDepl"); err != nil {
		return err
	}
	M.depl = path
	return nil
}

func (M *InputModel) Depl() string {
	return M.depl
}

//SetSpec sets the ionizing spectrum file. An empty string means the MAPPINGS default.
func (M *InputModel) SetSpec(path string) error {
	if err := checkFile(M.name, "spectrum", path, "SetSpec"); err != nil {
		return err
	}
	M.spec = path
	return nil
}

func (M *InputModel) Spec() string {
	return M.spec
}

//SetAge sets the age index for the stellar population. The age is (index-1)*0.5 Myr.
func (M *InputModel) SetAge(index int) error {
	if index < 0 {
		return NewError(ErrInvalidValue, M.name, "age index must be non-negative", "SetAge")
	}
	M.age = index
	return nil
}

func (M *InputModel) Age() int {
	return M.age
}

//AgeMyr returns the age of the HII region in Myr that corresponds to the age index.
func (M *InputModel) AgeMyr() float64 {
	return float64(M.age-1) * 0.5
}

//SetGeometry sets the geometry, "S" for spherical or "P" for plane-parallel.
//The case is ignored.
func (M *InputModel) SetGeometry(geo string) error {
	g := strings.ToUpper(geo)
	if g != Spherical && g != PlaneParallel {
		return NewError(ErrInvalidValue, M.name, "geometry must be 'S' (spherical) or 'P' (plane-parallel)", "SetGeometry")
	}
	M.geometry = g
	return nil
}

func (M *InputModel) Geometry() string {
	return M.geometry
}

//SetPressure sets the log pressure, log(p/k).
func (M *InputModel) SetPressure(logp float64) error {
	if err := checkNumber(M.name, "pressure", logp, "SetPressure"); err != nil {
		return err
	}
	M.pressure = logp
	return nil
}

func (M *InputModel) Pressure() float64 {
	return M.pressure
}

//SetTemperature sets the log of the starting electron temperature. The
//temperature is a free parameter of the model, this is only the initial guess.
func (M *InputModel) SetTemperature(logTe float64) error {
	if err := checkNumber(M.name, "temperature", logTe, "SetTemperature"); err != nil {
		return err
	}
	M.temperature = logTe
	return nil
}

func (M *InputModel) Temperature() float64 {
	return M.temperature
}

//SetFillingFactor sets the volume fraction filled by ionized gas, 0<ff<=1.
func (M *InputModel) SetFillingFactor(ff float64) error {
	if err := checkNumber(M.name, "filling factor", ff, "SetFillingFactor"); err != nil {
		return err
	}
	if ff <= 0 || ff > 1 {
		return NewError(ErrInvalidValue, M.name, fmt.Sprintf("filling factor must satisfy 0<f<=1, got %g", ff), "SetFillingFactor")
	}
	M.ff = ff
	return nil
}

func (M *InputModel) FillingFactor() float64 {
	return M.ff
}

//SetIonization sets the log of the ionization parameter at the inner radius.
func (M *InputModel) SetIonization(logq float64) error {
	if err := checkNumber(M.name, "ionization parameter", logq, "SetIonization"); err != nil {
		return err
	}
	M.logq = logq
	return nil
}

func (M *InputModel) Ionization() float64 {
	return M.logq
}

//SetStepSize sets the step of the photon absorption fraction. It must be positive.
func (M *InputModel) SetStepSize(step float64) error {
	if err := checkNumber(M.name, "step size", step, "SetStepSize"); err != nil {
		return err
	}
	if step <= 0 {
		return NewError(ErrInvalidValue, M.name, "step size must be positive", "SetStepSize")
	}
	M.step = step
	return nil
}

func (M *InputModel) StepSize() float64 {
	return M.step
}

//SetLuminosity sets the log of the bolometric luminosity of the source, in erg/s.
func (M *InputModel) SetLuminosity(logL float64) error {
	if err := checkNumber(M.name, "luminosity", logL, "SetLuminosity"); err != nil {
		return err
	}
	M.luminosity = logL
	return nil
}

func (M *InputModel) Luminosity() float64 {
	return M.luminosity
}

//SetOutput sets the path for the model results, creating its parent
//directory if needed.
func (M *InputModel) SetOutput(path string) error {
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return NewError(ErrInvalidValue, M.name, "unable to create output directory", "SetOutput").WithFile(path).WithCause(err)
		}
	}
	M.output = path
	return nil
}

func (M *InputModel) Output() string {
	return M.output
}

//Validate checks again that all the files set for the model exist. All the
//problems found are reported in one error.
func (M *InputModel) Validate() error {
	var problems []string
	files := []struct{ kind, path string }{
		{"abundance", M.abund},
		{"depletion", M.depl},
		{"spectrum", M.spec},
	}
	for _, f := range files {
		if f.path == "" {
			continue
		}
		if _, err := os.Stat(f.path); err != nil {
			problems = append(problems, fmt.Sprintf("%s file not found: %s", f.kind, f.path))
		}
	}
	if M.dust.Include && M.dust.DeplPath != "" {
		if _, err := os.Stat(M.dust.DeplPath); err != nil {
			problems = append(problems, "dust depletion file not found: "+M.dust.DeplPath)
		}
	}
	if len(problems) > 0 {
		return NewError(ErrValidation, M.name, strings.Join(problems, "; "), "Validate")
	}
	return nil
}

func (M *InputModel) String() string {
	return "MAPPINGS InputModel: " + M.name
}
