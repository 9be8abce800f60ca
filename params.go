/*
 * params.go, part of gomappings.
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

//Params is a snapshot of all the settings of an InputModel, suitable
//for serialization.
type Params struct {
	Abund         string  `json:"abund,omitempty" yaml:"abundance,omitempty"`
	Depl          string  `json:"depl,omitempty" yaml:"depletion,omitempty"`
	Spec          string  `json:"spec,omitempty" yaml:"spectrum,omitempty"`
	Age           int     `json:"age_index" yaml:"age"`
	Geometry      string  `json:"geometry" yaml:"geometry"`
	Pressure      float64 `json:"log_pressure" yaml:"pressure"`
	Temperature   float64 `json:"log_temperature" yaml:"temperature"`
	FillingFactor float64 `json:"filling_factor" yaml:"filling_factor"`
	Ionization    float64 `json:"log_q" yaml:"ionization"`
	StepSize      float64 `json:"step_size" yaml:"step_size"`
	Luminosity    float64 `json:"log_luminosity" yaml:"luminosity"`
	Output        string  `json:"output,omitempty" yaml:"output,omitempty"`
	Dust          Dust    `json:"dust" yaml:"dust"`
}

//DefaultParams returns the parameters of a freshly created model.
func DefaultParams() Params {
	M := &InputModel{}
	M.SetDefaults()
	return M.Params()
}

//Params returns the current parameters of the model.
func (M *InputModel) Params() Params {
	return Params{
		Abund:         M.abund,
		Depl:          M.depl,
		Spec:          M.spec,
		Age:           M.age,
		Geometry:      M.geometry,
		Pressure:      M.pressure,
		Temperature:   M.temperature,
		FillingFactor: M.ff,
		Ionization:    M.logq,
		StepSize:      M.step,
		Luminosity:    M.luminosity,
		Output:        M.output,
		Dust:          M.dust,
	}
}

//FromParams returns a new model with the given name and parameters.
//All the parameters go through the same checks as with the setters.
func FromParams(name string, P Params) (*InputModel, error) {
	M, err := NewInputModel(name)
	if err != nil {
		return nil, ErrDecorate(err, "FromParams")
	}
	setters := []func() error{
		func() error { return M.SetAbund(P.Abund) },
		func() error { return M.SetDepl(P.Depl) },
		func() error { return M.SetSpec(P.Spec) },
		func() error { return M.SetAge(P.Age) },
		func() error { return M.SetGeometry(P.Geometry) },
		func() error { return M.SetPressure(P.Pressure) },
		func() error { return M.SetTemperature(P.Temperature) },
		func() error { return M.SetFillingFactor(P.FillingFactor) },
		func() error { return M.SetIonization(P.Ionization) },
		func() error { return M.SetStepSize(P.StepSize) },
		func() error { return M.SetLuminosity(P.Luminosity) },
		func() error { return M.SetOutput(P.Output) },
		func() error { return M.restoreDust(P.Dust) },
	}
	for _, set := range setters {
		if err := set(); err != nil {
			return nil, ErrDecorate(err, "FromParams")
		}
	}
	return M, nil
}

//restoreDust sets the dust parameters without requiring a depletion file, as
//the default models don't have one.
func (M *InputModel) restoreDust(D Dust) error {
	if D.DeplPath != "" {
		return M.SetDust(D)
	}
	if D.Distribution == "" {
		D.Distribution = MRN
	}
	if D.PAHSwitch == "" {
		D.PAHSwitch = DefaultDust().PAHSwitch
	}
	D, err := M.checkDust(D, "restoreDust")
	if err != nil {
		return err
	}
	M.dust = D
	return nil
}
