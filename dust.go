/*
 * dust.go, part of gomappings.
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
	"strings"
)

//Grain size distributions
const (
	MRN        = "M" //Mathis, Rumpl & Nordsieck
	PowerLaw   = "P" //N(a) = k a^alpha
	Shattering = "S" //Grain shattering profile
)

//Dust contains the dust settings of a model.
type Dust struct {
	Include           bool    `json:"include_dust" yaml:"include"`
	DeplPath          string  `json:"depl_path" yaml:"depletion"`
	PAHFraction       float64 `json:"pah_fraction" yaml:"pah_fraction"` //fraction of the carbon dust depletion in PAHs
	PAHSwitch         string  `json:"pah_switch_value" yaml:"pah_switch"`
	EvalTemperature   bool    `json:"eval_dust_temp" yaml:"eval_temperature"` //evaluate dust temperatures and IR flux
	GraphiteCospatial bool    `json:"graphite_cospatial" yaml:"graphite_cospatial"`
	GrainDestruction  bool    `json:"allow_grain_destruction" yaml:"grain_destruction"`
	Distribution      string  `json:"grain_distribution" yaml:"distribution"`
}

//DefaultDust returns the default dust settings: dust included, with
//MRN grains and 30% of the carbon depletion in PAHs.
func DefaultDust() Dust {
	return Dust{
		Include:      true,
		PAHFraction:  0.3,
		PAHSwitch:    "4e2",
		Distribution: MRN,
	}
}

func (D Dust) String() string {
	if !D.Include {
		return "no dust"
	}
	return fmt.Sprintf("dust (depletion %s, grains %s, PAH fraction %g, PAH switch %s)", D.DeplPath, D.Distribution, D.PAHFraction, D.PAHSwitch)
}

func validDistribution(d string) (string, bool) {
	d = strings.ToUpper(d)
	switch d {
	case MRN, PowerLaw, Shattering:
		return d, true
	}
	return d, false
}

//SetDust sets all the dust parameters. An empty DeplPath, PAHSwitch or Distribution
//keeps the value previously set. Including dust requires a dust depletion file,
//given now or before.
func (M *InputModel) SetDust(D Dust) error {
	if D.Include && D.DeplPath == "" && M.dust.DeplPath == "" {
		return NewError(ErrNoDustDepletion, M.name, "", "SetDust")
	}
	if D.DeplPath != "" {
		if err := checkFile(M.name, "dust depletion", D.DeplPath, "SetDust"); err != nil {
			return err
		}
	} else {
		D.DeplPath = M.dust.DeplPath
	}
	if D.PAHSwitch == "" {
		D.PAHSwitch = M.dust.PAHSwitch
	}
	if D.Distribution == "" {
		D.Distribution = M.dust.Distribution
	}
	D, err := M.checkDust(D, "SetDust")
	if err != nil {
		return err
	}
	M.dust = D
	return nil
}

//checkDust validates the values of D that don't depend on files, and returns D
//with the grain distribution in upper case.
func (M *InputModel) checkDust(D Dust, caller string) (Dust, error) {
	if math.IsNaN(D.PAHFraction) || D.PAHFraction < 0 || D.PAHFraction > 1 {
		return D, NewError(ErrInvalidValue, M.name, "PAH fraction must be a number between 0 and 1", caller)
	}
	if err := checkLine(M.name, "PAH switch value", D.PAHSwitch, caller); err != nil {
		return D, err
	}
	var ok bool
	if D.Distribution, ok = validDistribution(D.Distribution); !ok {
		return D, NewError(ErrInvalidValue, M.name, "grain distribution must be one of M (MRN), P (power law) or S (grain shattering profile)", caller)
	}
	return D, nil
}

//EnableDust includes dust with the given dust depletion file, and
//the default values for all the other dust parameters.
func (M *InputModel) EnableDust(deplPath string) error {
	D := DefaultDust()
	D.DeplPath = deplPath
	if err := M.SetDust(D); err != nil {
		return ErrDecorate(err, "EnableDust")
	}
	return nil
}

//DisableDust excludes dust from the model. The other dust settings are kept.
func (M *InputModel) DisableDust() {
	M.dust.Include = false
}

//SetGrainDestruction sets whether grain destruction is allowed.
func (M *InputModel) SetGrainDestruction(allow bool) {
	M.dust.GrainDestruction = allow
}

//SetGrainDistribution sets the grain size distribution: "M" for MRN, "P" for a power
//law or "S" for a grain shattering profile. The case is ignored.
func (M *InputModel) SetGrainDistribution(distribution string) error {
	d, ok := validDistribution(distribution)
	if !ok {
		return NewError(ErrInvalidValue, M.name, "grain distribution must be one of M (MRN), P (power law) or S (grain shattering profile)", "SetGrainDistribution")
	}
	M.dust.Distribution = d
	return nil
}

//DustSettings returns a copy of the current dust settings.
func (M *InputModel) DustSettings() Dust {
	return M.dust
}
