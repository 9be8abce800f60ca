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

//Package run drives the MAPPINGS V executable. A Handle writes the input for a model
//into the lab directory, feeds it to map52 and keeps a compressed log of what the
//program printed. A Batch runs many models with a bounded number of concurrent processes.
//
//In order to use this part of the library you need a compiled MAPPINGS V (map52).
//Please cite the MAPPINGS references if you use it.
package run
