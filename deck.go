/*
 * deck.go, part of gomappings.
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
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
)

//DefaultSpectrum is the ionizing spectrum used when none is set, relative to the lab directory.
const DefaultSpectrum = "Q/inputs/cont_a05t23isp_vm802.spectrum"

//IDString returns the ID string that MAPPINGS will use for the model output,
//built from the geometry, name, ionization parameter, pressure and age index.
func (M *InputModel) IDString() string {
	geo := "SPH"
	if M.geometry == PlaneParallel {
		geo = "PP"
	}
	q := strings.Replace(fmt.Sprintf("%.2f", M.logq), ".", "", 1)
	return fmt.Sprintf("%s_%s_Q%s_Pk%.2f_t%d", geo, M.name, q, M.pressure, M.age)
}

//yesno returns a MAPPINGS answer line for a yes/no question.
func yesno(b bool, comment string) string {
	if b {
		return "yes   : " + comment
	}
	return "no    : " + comment
}

//fraction formats f the way MAPPINGS expects a plain fraction, always with a decimal point.
func fraction(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

//deckLines returns the lines of the MAPPINGS input for the model, in the order in which
//map52 asks the questions.
func (M *InputModel) deckLines(id string) ([]string, error) {
	lines := make([]string, 0, 48)
	if M.abund != "" {
		lines = append(lines, "yes   : change abundance", M.abund, "no    : no more changes")
	} else {
		lines = append(lines, "no    : use default abundance")
	}
	lines = append(lines, "no    : no offsets", yesno(M.dust.Include, "include dust"))
	if M.dust.Include {
		if M.depl != "" {
			lines = append(lines, "yes   : change depletions", M.depl+`\`, "no    : no more changes")
		} else {
			lines = append(lines, "no    : use default depletions")
		}
		lines = append(lines, yesno(M.dust.GrainDestruction, "allow grain destruction"))
		//Only MRN has a known set of answers. The other distributions ask further questions.
		if M.dust.Distribution != MRN {
			return nil, NewError(ErrUnsupported, M.name, fmt.Sprintf("grain distribution %q cannot be written to an input file, only M (MRN) is supported", M.dust.Distribution), "deckLines")
		}
		lines = append(lines,
			"M     : MRN distribution",
			"yes   : Include PAH molecules?",
			fraction(M.dust.PAHFraction)+"   : fraction of Carbon Dust Depletion in PAHs",
			"Q     : PAH switch on QHDH < Value",
			M.dust.PAHSwitch+"   : PAH switch on Value",
			yesno(M.dust.GraphiteCospatial, "graphite grains to be cospatial with PAHs"),
			yesno(M.dust.EvalTemperature, "Evaluate dust temperatures and IR flux?"),
		)
	}
	lines = append(lines,
		"P6    : the main Mappings model to use",
		"D     : Default ionisation values",
		"H     : Input spectral energy distribution data (usually Starburst99)",
	)
	if M.spec != "" {
		lines = append(lines, M.spec)
	} else {
		lines = append(lines, DefaultSpectrum+"  : default spectrum")
	}
	geodesc := "Spherical Geometry"
	if M.geometry == PlaneParallel {
		geodesc = "Plane parallel geometry"
	}
	lines = append(lines,
		fmt.Sprintf("%d     : Age of the HII region. Age = (n-1)*0.5 Myr", M.age),
		"X     : eXit with current source",
		fmt.Sprintf("%s     : %s. (For Plane parallel, 'P', different options)", M.geometry, geodesc),
		"L     : Source by Luminosity",
		"T     : Total or Ionising Luminosity",
		fmt.Sprintf("%.2f    : bolometric source luminosity (log erg/s)", M.luminosity),
		"B     : isoBaric, (const pressure)",
		fmt.Sprintf("%.2f :  Pressure regime (p/k, <10 as log)", M.pressure),
		fmt.Sprintf("%.2f     : log(Initial temperature)", M.temperature),
		fmt.Sprintf("%.2f     : filling factor (0<f<=1)", M.ff),
		"q     : Give initial radius in terms of distance or Q(N) (d/q) ***nb old  options",
		fmt.Sprintf("%.2f :   Q at inner radius (< 100 as log)", M.logq),
		"y     : Volume integration over the whole sphere? (y/n)",
		"E     : Equilibrium ionization balance.",
		fmt.Sprintf("%.4f  : Step value of the photon absorption fraction  *******", M.step),
		"A     : Ionisation bounded, 99% neutral **********",
		"A   : Standard output",
		id+" : ID string",
		"X   : end model",
	)
	return lines, nil
}

//BuildInput writes the MAPPINGS V input (.mv) for the model to w. If id is empty,
//the string given by IDString is used.
func (M *InputModel) BuildInput(w io.Writer, id string) error {
	if id == "" {
		id = M.IDString()
	}
	lines, err := M.deckLines(id)
	if err != nil {
		return ErrDecorate(err, "BuildInput")
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return NewError(ErrCantInput, M.name, "", "BuildInput").WithCause(err)
		}
	}
	return nil
}

//Preview returns the input that BuildInput would write, without writing anything.
func (M *InputModel) Preview(id string) (string, error) {
	var b bytes.Buffer
	if err := M.BuildInput(&b, id); err != nil {
		return "", ErrDecorate(err, "Preview")
	}
	return b.String(), nil
}
