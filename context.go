/*
 * context.go, part of gomd.
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

//ListKind is the kind of neighbor list.
type ListKind int

const (
	//HalfNewtonOff lists each pair once among local atoms, and pairs with ghosts from the side of the local atom.
	//Pairs across rank boundaries are thus found by both ranks.
	HalfNewtonOff ListKind = iota
	//HalfNewtonOn lists each pair, including pairs with ghosts, only once over all ranks.
	HalfNewtonOn
	//Full lists every neighbor of every atom.
	Full
)

func (k ListKind) String() string {
	switch k {
	case HalfNewtonOff:
		return "half/newtoff"
	case HalfNewtonOn:
		return "half/newton"
	case Full:
		return "full"
	}
	return "unknown"
}

//Neighbor is one entry of a neighbor list.
type Neighbor struct {
	Index   int          //index of the atom in the System
	Special SpecialClass //NotSpecial for ordinary pairs
}

//NeighList holds, for each atom in IList, the atoms within the
//neighbor cutoff of it.
type NeighList struct {
	Kind  ListKind
	IList []int
	Rows  [][]Neighbor //Rows[ii] are the neighbors of IList[ii]
	//Inum is the number of entries of IList that are local atoms. Entries
	//beyond it are ghosts, present only in lists that requested them.
	Inum int
	//Multi is set when the list was built with per-type cutoffs.
	Multi bool
}

//Neighbors returns the neighbors of the atom IList[ii].
func (L *NeighList) Neighbors(ii int) []Neighbor {
	return L.Rows[ii]
}

//NPairs returns the number of entries in the whole list.
func (L *NeighList) NPairs() int {
	n := 0
	for _, r := range L.Rows {
		n += len(r)
	}
	return n
}

//Half reports whether the list contains each pair only once.
func (L *NeighList) Half() bool {
	return L.Kind != Full
}

//BondTerm is a bond between two atoms given by their indexes in the System.
type BondTerm struct {
	Atoms [2]int
	Type  int
}

//AngleTerm is an angle among three atoms given by their indexes in the System.
type AngleTerm struct {
	Atoms [3]int
	Type  int
}

//DihedralTerm is a dihedral among four atoms given by their indexes in the System.
type DihedralTerm struct {
	Atoms [4]int
	Type  int
}

//Context is everything a force computation gets from the caller for one evaluation.
type Context struct {
	Sys       *System
	List      *NeighList
	Bonds     []BondTerm
	Angles    []AngleTerm
	Dihedrals []DihedralTerm
	//Newton is true when forces on ghost atoms are computed and later sent back to
	//their owners, so that each pair is computed once.
	Newton bool
	//NewtonBond is the same as Newton, for the bonded terms.
	NewtonBond bool
	Comm       Comm
	Tally      *Tally //can be nil if no energy or virial is needed
	Metrics    *Metrics
	Threads    *Threads
	Special    SpecialWeights
}

//SpecialFactor returns the factor that scales the interaction of a neighbor pair.
func (C *Context) SpecialFactor(n Neighbor) float64 {
	if n.Special == NotSpecial {
		return 1
	}
	return C.Special[n.Special]
}
