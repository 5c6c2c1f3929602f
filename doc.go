/*
 * doc.go, part of gomd.
 *
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
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
 *
 * goChem and gomd are currently developed at the Universidad de Santiago de Chile
 * (USACH)
 *
 */

/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

/*Package md is the main package of the gomd library. It provides the atom and topology
structures of a spatially decomposed molecular dynamics simulation, together with the
contracts that force models, neighbor lists and the communication layer satisfy.

	**gomd Capabilities**

    Holds owned (local) and ghost atoms in one System, distinguished by index range.

    Builds binned, stencil-based neighbor lists (full, half Newton-on, half
	Newton-off, per type-pair cutoffs) in the neigh package.

    Pairwise and many-body force models (Lennard-Jones, second-moment tight
	binding) in the pair package, bonded 2, 3 and 4-body models in the bonded
	package. Forces, energies and virials are accumulated through a Tally.

    Multi-pass models exchange per-atom quantities between passes through a Comm,
	implemented for in-process ranks in the comm package.

    Replicates periodic systems keeping tags and bonded topology consistent.

    Persists coefficients in binary restart files (optionally zstd-compressed)
	and in text data files.

Positions, velocities and forces are kept in v3.Matrix objects, which are gonum
Dense matrices with 3 columns, one row per atom. Local atoms occupy the rows
[0, NLocal) and ghost atoms the rows [NLocal, NLocal+NGhost).

Many functions here panic instead of returning errors when given out-of-range
indexes or nil systems: that means the program is wrong and should crash.
Configuration and capacity problems are returned as errors and are fatal for the run.*/
package md
