/*
 * doc.go, part of gomappings.
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

/*Package mappings is the main package of the gomappings library. It builds, validates and writes
input files for the MAPPINGS V photoionization and shock code, so that models can be set up
and run from Go programs instead of answering map52's questions by hand.


	**gomappings Capabilities**


    Sets up photoionization models (InputModel) with checked parameters: abundance,
	depletion and spectrum files, age of the stellar population, geometry, pressure,
	starting temperature, filling factor, ionization parameter, step size, luminosity
	and the dust settings.

    Writes the answer script (.mv file) that map52 reads on its standard input.

    Runs map52 on one model or on many concurrently, keeping compressed logs (package run).

    Expands grids of models from HCL files (package grid).

    Keeps a catalog of the runs in a SQLite database (package catalog).

    Summarizes and plots the runs in a catalog (package report).

The MAPPINGS V code itself is not included, and must be obtained and compiled separately.
Please cite the MAPPINGS references if you use this library for your research.
*/
package mappings
