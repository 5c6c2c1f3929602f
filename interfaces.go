/*
 * interfaces.go, part of gomd.
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

package md

import "io"

//Errors

//Error is the interface for errors that all packages in this library implement. The Decorate method allows to add and retrieve info from the
//error, without changing it's type or wrapping it around something else.
type Error interface {
	Error() string
	Decorate(string) []string //Each call returns the "decoration" slice of strings resulting from the current call. If passed an empty string, it just returns the current value.
	Critical() bool
}

//Comm is the communication layer seen by one rank. Buffers hold stride
//floats per atom, local atoms first, then ghosts, in the order of the System
//the rank was given. All ranks must call the same sequence of exchanges.
type Comm interface {
	//Forward copies the values of each owned atom into all its ghost images.
	Forward(buf []float64, stride int) error

	//Reverse adds the values accumulated on each ghost into its owner.
	Reverse(buf []float64, stride int) error

	//MaxFloat returns the maximum of v over all ranks.
	MaxFloat(v float64) (float64, error)

	//SumFloats sums vals element-wise over all ranks, in place.
	SumFloats(vals []float64) error

	Rank() int
	Size() int
}

//ListRequest is what a force model needs from the neighbor list builder.
type ListRequest struct {
	Full  bool //full list instead of half
	Ghost bool //neighbors of ghost atoms are also needed
}

//Pair is the contract of pairwise and many-body (cluster) potentials that
//work on a neighbor list.
type Pair interface {
	//Style returns the name of the style, e.g. "lj/cut"
	Style() string

	//Settings processes the global options of the style.
	Settings(args []string) error

	//Coeff sets the coefficients for one or more type pairs. The first two
	//arguments are type ranges. Nothing is set if any argument is invalid.
	Coeff(args []string) error

	//InitOne is called once per type pair i<=j after all Coeff calls, and
	//returns the cutoff for the pair.
	InitOne(i, j int) (float64, error)

	//Compute adds the forces, and, if requested in ctx.Tally, energies and virials.
	Compute(ctx *Context) error

	//Request returns the kind of neighbor list the style needs.
	Request() ListRequest

	//CommSize returns the number of floats per atom the style exchanges
	//in forward and reverse communications.
	CommSize() (forward, reverse int)
}

//Singler is implemented by pair styles that can evaluate one isolated pair.
//fforce is the force divided by r.
type Singler interface {
	Single(i, j, itype, jtype int, rsq, factor float64) (eng, fforce float64)
}

//Bonded is the part of the contract shared by the bonded styles.
type Bonded interface {
	Style() string
	Coeff(args []string) error

	//Init checks that all types are set.
	Init() error
	Compute(ctx *Context) error
}

//BondStyle is a 2-body bonded interaction.
type BondStyle interface {
	Bonded
	EquilibriumDistance(btype int) float64
}

//AngleStyle is a 3-body bonded interaction.
type AngleStyle interface {
	Bonded
	//EquilibriumAngle returns the angle in radians
	EquilibriumAngle(atype int) float64
}

//DihedralStyle is a 4-body bonded interaction.
type DihedralStyle interface {
	Bonded
	//Multiplicity returns the periodicity of the dihedral type
	Multiplicity(dtype int) int
}

//Restarter is implemented by styles that persist their coefficients in
//binary restart files.
type Restarter interface {
	Style() string
	WriteRestartSettings(w io.Writer) error
	ReadRestartSettings(r io.Reader) error
	WriteRestart(w io.Writer) error
	ReadRestart(r io.Reader) error
}

//DataRecord is one line of coefficients in a text data file.
type DataRecord struct {
	I, J   int //J is 0 for per-type records
	Params []float64
}

//DataWriter is implemented by styles that can write their coefficients
//in text form. The records, turned into strings and prefixed by I and J, are valid Coeff arguments.
type DataWriter interface {
	Style() string
	DataRecords(all bool) []DataRecord
}
