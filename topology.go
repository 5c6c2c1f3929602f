/*
 * topology.go, part of gomd.
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

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"
)

//Bond joins two atoms, given by their tags.
type Bond struct {
	Type  int
	Atoms [2]int64
}

//Angle is a 3-body term. The second atom is the vertex.
type Angle struct {
	Type  int
	Atoms [3]int64
}

//Dihedral is a 4-body term around the bond between the second and third atoms.
type Dihedral struct {
	Type  int
	Atoms [4]int64
}

//Topology contains the bonded terms of a system, referencing atoms by tag, so it does
//not change when atoms are reordered or migrate between ranks.
type Topology struct {
	Bonds     []Bond
	Angles    []Angle
	Dihedrals []Dihedral
}

//Copy returns a deep copy of the topology.
func (T *Topology) Copy() *Topology {
	if T == nil {
		return nil
	}
	return &Topology{
		Bonds:     append([]Bond(nil), T.Bonds...),
		Angles:    append([]Angle(nil), T.Angles...),
		Dihedrals: append([]Dihedral(nil), T.Dihedrals...),
	}
}

//MaxTag returns the largest tag referenced by any term.
func (T *Topology) MaxTag() int64 {
	var m int64
	if T == nil {
		return 0
	}
	up := func(t int64) {
		if t > m {
			m = t
		}
	}
	for _, b := range T.Bonds {
		up(b.Atoms[0])
		up(b.Atoms[1])
	}
	for _, a := range T.Angles {
		for _, t := range a.Atoms {
			up(t)
		}
	}
	for _, d := range T.Dihedrals {
		for _, t := range d.Atoms {
			up(t)
		}
	}
	return m
}

//SpecialClass says how close two atoms are in the bond graph.
type SpecialClass uint8

const (
	NotSpecial SpecialClass = iota
	Special12               //directly bonded
	Special13               //two bonds apart
	Special14               //three bonds apart
)

//SpecialPartner is an atom, given by its tag, in the special list of another atom.
type SpecialPartner struct {
	Tag   int64
	Class SpecialClass
}

//SpecialWeights are the factors that scale non-bonded interactions, indexed by
//SpecialClass. A weight of 0 excludes the pair from neighbor lists.
type SpecialWeights [4]float64

//DefaultSpecial excludes 1-2, 1-3 and 1-4 pairs.
var DefaultSpecial = SpecialWeights{1, 0, 0, 0}

//Specials returns, for each atom tag present in the bonds, the atoms within three bonds of it.
func (T *Topology) Specials() map[int64][]SpecialPartner {
	g := simple.NewUndirectedGraph()
	for _, b := range T.Bonds {
		if b.Atoms[0] == b.Atoms[1] {
			continue
		}
		g.SetEdge(simple.Edge{F: simple.Node(b.Atoms[0]), T: simple.Node(b.Atoms[1])})
	}
	ret := make(map[int64][]SpecialPartner)
	nodes := g.Nodes()
	for nodes.Next() {
		from := nodes.Node()
		var partners []SpecialPartner
		bf := traverse.BreadthFirst{}
		bf.Walk(g, from, func(n graph.Node, d int) bool {
			if d > 3 {
				return true
			}
			if d > 0 {
				partners = append(partners, SpecialPartner{Tag: n.ID(), Class: SpecialClass(d)})
			}
			return false
		})
		ret[from.ID()] = partners
	}
	return ret
}

//SetSpecial fills the special lists of the local atoms of S from the map produced by Topology.Specials.
func (S *System) SetSpecial(specials map[int64][]SpecialPartner) {
	if specials == nil {
		S.Special = nil
		return
	}
	S.Special = make([][]SpecialPartner, S.NLocal)
	for i := 0; i < S.NLocal; i++ {
		S.Special[i] = specials[S.Tag[i]]
	}
}

//SpecialOf returns the class of the atom with tag jtag in the special list of local atom i.
func (S *System) SpecialOf(i int, jtag int64) SpecialClass {
	if S.Special == nil || i >= len(S.Special) {
		return NotSpecial
	}
	for _, p := range S.Special[i] {
		if p.Tag == jtag {
			return p.Class
		}
	}
	return NotSpecial
}
