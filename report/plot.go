/*
 * plot.go, part of gomappings.
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

package report

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	mappings "github.com/rmera/gomappings"
	"github.com/rmera/gomappings/catalog"
)

//Default plot size
const (
	PlotWidth  = 5 * vg.Inch
	PlotHeight = 5 * vg.Inch
)

func plotError(info, caller, filename string, cause error) error {
	return mappings.NewError(mappings.ErrPlot, "", info, caller).WithFile(filename).WithCause(cause)
}

func basicPlot(title, x, y string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = x
	p.Y.Label.Text = y
	p.Add(plotter.NewGrid())
	return p
}

//PlotGrid plots the log ionization parameter against the log pressure of each
//run in records, with succeeded and failed runs as different series, and saves
//the plot to filename. The format is taken from the file extension.
func PlotGrid(records []*catalog.Record, filename string) error {
	var ok, failed plotter.XYs
	for _, r := range records {
		if r == nil {
			continue
		}
		point := plotter.XY{X: r.Params.Pressure, Y: r.Params.Ionization}
		if r.OK() {
			ok = append(ok, point)
		} else {
			failed = append(failed, point)
		}
	}
	if len(ok)+len(failed) == 0 {
		return plotError("no runs to plot", "PlotGrid", filename, nil)
	}
	p := basicPlot("MAPPINGS runs", "log P/k", "log Q")
	series := []struct {
		name  string
		data  plotter.XYs
		color color.RGBA
		shape draw.GlyphDrawer
	}{
		{"succeeded", ok, color.RGBA{B: 200, A: 255}, draw.CircleGlyph{}},
		{"failed", failed, color.RGBA{R: 220, A: 255}, draw.CrossGlyph{}},
	}
	for _, v := range series {
		if len(v.data) == 0 {
			continue
		}
		s, err := plotter.NewScatter(v.data)
		if err != nil {
			return plotError("unable to build scatter", "PlotGrid", filename, err)
		}
		s.GlyphStyle.Color = v.color
		s.GlyphStyle.Shape = v.shape
		s.GlyphStyle.Radius = vg.Points(3)
		p.Add(s)
		p.Legend.Add(v.name, s)
	}
	if err := p.Save(PlotWidth, PlotHeight, filename); err != nil {
		return plotError("unable to save plot", "PlotGrid", filename, err)
	}
	return nil
}

//PlotTimes saves to filename a histogram with the given number of bins
//of the run times, in seconds, of the successful runs in records.
func PlotTimes(records []*catalog.Record, bins int, filename string) error {
	var times plotter.Values
	for _, r := range records {
		if r != nil && r.OK() {
			times = append(times, r.Elapsed.Seconds())
		}
	}
	if len(times) == 0 {
		return plotError("no successful runs to plot", "PlotTimes", filename, nil)
	}
	if bins < 1 {
		bins = 10
	}
	p := basicPlot("MAPPINGS run times", "time (s)", "runs")
	h, err := plotter.NewHist(times, bins)
	if err != nil {
		return plotError("unable to build histogram", "PlotTimes", filename, err)
	}
	h.FillColor = color.RGBA{R: 120, G: 150, B: 220, A: 255}
	p.Add(h)
	if err := p.Save(PlotWidth, PlotHeight, filename); err != nil {
		return plotError("unable to save plot", "PlotTimes", filename, err)
	}
	return nil
}
