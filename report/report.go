/*
 * report.go, part of gomappings.
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

//Package report computes statistics and plots over the runs stored in a catalog.
package report

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/rmera/gomappings/catalog"
)

//Summary contains the statistics for a set of runs. Times are in seconds,
//and only consider successful runs.
type Summary struct {
	Runs   int
	OK     int
	Failed int
	Models int
	Total  float64
	Mean   float64
	StdDev float64
	Median float64
	Min    float64
	Max    float64
}

//Summarize returns the statistics for the given records.
func Summarize(records []*catalog.Record) Summary {
	var S Summary
	models := make(map[string]bool)
	times := make([]float64, 0, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		S.Runs++
		models[r.Model] = true
		if !r.OK() {
			S.Failed++
			continue
		}
		S.OK++
		times = append(times, r.Elapsed.Seconds())
	}
	S.Models = len(models)
	if len(times) == 0 {
		return S
	}
	sort.Float64s(times)
	S.Total = floats.Sum(times)
	S.Mean = stat.Mean(times, nil)
	if len(times) > 1 {
		S.StdDev = stat.StdDev(times, nil)
	}
	S.Median = stat.Quantile(0.5, stat.Empirical, times, nil)
	S.Min = floats.Min(times)
	S.Max = floats.Max(times)
	return S
}

//Write writes the summary as a table to w.
func (S Summary) Write(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Runs\t%d\n", S.Runs)
	fmt.Fprintf(tw, "Models\t%d\n", S.Models)
	fmt.Fprintf(tw, "Succeeded\t%d\n", S.OK)
	fmt.Fprintf(tw, "Failed\t%d\n", S.Failed)
	if S.OK > 0 {
		fmt.Fprintf(tw, "Total time (s)\t%.2f\n", S.Total)
		fmt.Fprintf(tw, "Mean time (s)\t%.2f\n", S.Mean)
		fmt.Fprintf(tw, "Std. dev. (s)\t%.2f\n", S.StdDev)
		fmt.Fprintf(tw, "Median time (s)\t%.2f\n", S.Median)
		fmt.Fprintf(tw, "Fastest (s)\t%.2f\n", S.Min)
		fmt.Fprintf(tw, "Slowest (s)\t%.2f\n", S.Max)
	}
	return tw.Flush()
}
