/*
 * summary.go, part of gomappings.
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
	"io"
)

func orDefault(s string) string {
	if s == "" {
		return "default"
	}
	return s
}

//Summary writes a human-readable table of the model parameters to w.
func (M *InputModel) Summary(w io.Writer) error {
	var err error
	p := func(format string, a ...interface{}) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(w, format+"\n", a...)
	}
	p("MAPPINGS Model: %s", M.name)
	p("  Age index: %d (%.1f Myr)", M.age, M.AgeMyr())
	p("  Geometry: %s", M.geometry)
	p("  Log Pressure: %.2f", M.pressure)
	p("  Log Temperature: %.2f", M.temperature)
	p("  Filling Factor: %.2f", M.ff)
	p("  Log Ionization Parameter: %.2f", M.logq)
	p("  Step Size: %.4f", M.step)
	p("  Log Luminosity: %.2f", M.luminosity)
	p("  Abundance file: %s", orDefault(M.abund))
	p("  Depletion file: %s", orDefault(M.depl))
	p("  Spectrum file: %s", orDefault(M.spec))
	p("  Include dust: %t", M.dust.Include)
	if M.dust.Include {
		p("    Dust depletion file: %s", orDefault(M.dust.DeplPath))
		p("    Allow grain destruction: %t", M.dust.GrainDestruction)
		p("    Grain distribution: %s", M.dust.Distribution)
		p("    PAH fraction: %g", M.dust.PAHFraction)
		p("    PAH switch value: %s", M.dust.PAHSwitch)
		p("    Evaluate dust temperatures: %t", M.dust.EvalTemperature)
		p("    Graphite grains cospatial: %t", M.dust.GraphiteCospatial)
	}
	p("  Output path: %s", orDefault(M.output))
	return err
}
