/*
 * system.go, part of gomd.
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
	"fmt"

	"github.com/rmera/gomd/v3"
	"gonum.org/v1/gonum/spatial/r3"
)

//Atom contains the information of one atom, used to build and inspect Systems.
//In a System, the same information is stored per-field for all atoms.
type Atom struct {
	Tag  int64 //global, unique and persistent identifier
	Type int   //1-indexed
	Mol  int64 //molecule ID, 0 if none
	Q    float64
	X, V r3.Vec
}

//System contains the atoms owned by one rank, followed by its ghost atoms.
//Local atoms are those with indexes in [0, NLocal), ghosts those in
//[NLocal, NLocal+NGhost).
type System struct {
	X, V, F *v3.Matrix
	Type    []int
	Tag     []int64
	Mol     []int64
	Q       []float64
	Mass    []float64 //per type, Mass[0] is not used
	NLocal  int
	NGhost  int
	NTypes  int
	Box     *Box
	//Special holds, for each local atom, the atoms excluded or scaled in
	//non-bonded interactions. It can be nil.
	Special [][]SpecialPartner
	images  map[int64][]int
}

//NewSystem returns a System with room for nlocal local and nghost ghost atoms, all zeroed.
func NewSystem(nlocal, nghost, ntypes int, box *Box) *System {
	if nlocal < 0 || nghost < 0 || ntypes < 1 {
		panic(fmt.Sprintf("NewSystem: invalid sizes %d %d %d", nlocal, nghost, ntypes))
	}
	n := nlocal + nghost
	S := &System{
		X:      v3.Zeros(n),
		V:      v3.Zeros(n),
		F:      v3.Zeros(n),
		Type:   make([]int, n),
		Tag:    make([]int64, n),
		Mol:    make([]int64, n),
		Q:      make([]float64, n),
		Mass:   make([]float64, ntypes+1),
		NLocal: nlocal,
		NGhost: nghost,
		NTypes: ntypes,
		Box:    box,
	}
	for i := range S.Mass {
		S.Mass[i] = 1
	}
	return S
}

//FromAtoms returns a System with the given atoms. The first nlocal are local atoms,
//the rest are ghosts.
func FromAtoms(atoms []Atom, nlocal, ntypes int, box *Box) *System {
	S := NewSystem(nlocal, len(atoms)-nlocal, ntypes, box)
	for i, a := range atoms {
		S.SetAtom(i, a)
	}
	return S
}

//NAll returns the number of local plus ghost atoms
func (S *System) NAll() int {
	return S.NLocal + S.NGhost
}

//Len returns the number of local atoms.
func (S *System) Len() int {
	return S.NLocal
}

//Atom returns the information of the atom with index i.
//Panics if out of range.
func (S *System) Atom(i int) Atom {
	if i >= S.NAll() {
		panic("System: Requested Atom out of bounds")
	}
	return Atom{Tag: S.Tag[i], Type: S.Type[i], Mol: S.Mol[i], Q: S.Q[i], X: S.X.Vec(i), V: S.V.Vec(i)}
}

//SetAtom sets the atom with index i to a. The force is not changed.
func (S *System) SetAtom(i int, a Atom) {
	if i >= S.NAll() {
		panic("System: Tried to set Atom out of bounds")
	}
	S.Tag[i] = a.Tag
	S.Type[i] = a.Type
	S.Mol[i] = a.Mol
	S.Q[i] = a.Q
	S.X.SetVec(i, a.X)
	S.V.SetVec(i, a.V)
	S.images = nil
}

//LocalAtoms returns the information of all local atoms.
func (S *System) LocalAtoms() []Atom {
	ret := make([]Atom, S.NLocal)
	for i := range ret {
		ret[i] = S.Atom(i)
	}
	return ret
}

//SetMass sets the mass of atom type t.
func (S *System) SetMass(t int, m float64) error {
	if t < 1 || t > S.NTypes {
		return NewConfigError("SetMass", "atom type %d out of range [1,%d]", t, S.NTypes)
	}
	if m <= 0 {
		return NewConfigError("SetMass", "mass for type %d must be positive, got %g", t, m)
	}
	S.Mass[t] = m
	return nil
}

//Check verifies that types are in range and that local tags are positive and unique.
func (S *System) Check() error {
	seen := make(map[int64]bool, S.NLocal)
	for i := 0; i < S.NAll(); i++ {
		if S.Type[i] < 1 || S.Type[i] > S.NTypes {
			return NewConfigError("Check", "atom %d has type %d, out of range [1,%d]", i, S.Type[i], S.NTypes)
		}
		if i >= S.NLocal {
			continue
		}
		if S.Tag[i] <= 0 {
			return NewConfigError("Check", "atom %d has non-positive tag %d", i, S.Tag[i])
		}
		if seen[S.Tag[i]] {
			return NewConfigError("Check", "tag %d is repeated", S.Tag[i])
		}
		seen[S.Tag[i]] = true
	}
	return nil
}

//MaxTag returns the largest tag among the local atoms
func (S *System) MaxTag() int64 {
	var m int64
	for _, t := range S.Tag[:S.NLocal] {
		if t > m {
			m = t
		}
	}
	return m
}

//MaxMol returns the largest molecule ID among the local atoms
func (S *System) MaxMol() int64 {
	var m int64
	for _, t := range S.Mol[:S.NLocal] {
		if t > m {
			m = t
		}
	}
	return m
}

//MapTags builds the tag to index map, including ghost images.
//It is called lazily by Map and ClosestImage.
func (S *System) MapTags() {
	S.images = make(map[int64][]int, S.NAll())
	for i := 0; i < S.NAll(); i++ {
		S.images[S.Tag[i]] = append(S.images[S.Tag[i]], i)
	}
}

//Map returns the index of the atom with the given tag, preferring the local
//copy over ghost images, or -1 if the atom is not present.
func (S *System) Map(tag int64) int {
	if S.images == nil {
		S.MapTags()
	}
	imgs := S.images[tag]
	if len(imgs) == 0 {
		return -1
	}
	return imgs[0] //locals are stored first
}

//ClosestImage returns the index of the copy of the atom with the given tag that is
//closest to atom i, or -1 if there is none.
func (S *System) ClosestImage(i int, tag int64) int {
	if S.images == nil {
		S.MapTags()
	}
	imgs := S.images[tag]
	if len(imgs) == 0 {
		return -1
	}
	xi := S.X.Row3(i)
	best := -1
	bestsq := 0.0
	for _, j := range imgs {
		xj := S.X.Row3(j)
		dx := xi[0] - xj[0]
		dy := xi[1] - xj[1]
		dz := xi[2] - xj[2]
		rsq := dx*dx + dy*dy + dz*dz
		if best < 0 || rsq < bestsq {
			best = j
			bestsq = rsq
		}
	}
	return best
}

//ZeroForces sets to zero the forces on local atoms and, if ghosts is true, ghost atoms.
func (S *System) ZeroForces(ghosts bool) {
	f := S.F.Raw()
	n := S.NLocal
	if ghosts {
		n = S.NAll()
	}
	for i := range f[:3*n] {
		f[i] = 0
	}
}

//Copy returns a deep copy of the System.
func (S *System) Copy() *System {
	N := NewSystem(S.NLocal, S.NGhost, S.NTypes, S.Box.Copy())
	N.X.Copy(S.X)
	N.V.Copy(S.V)
	N.F.Copy(S.F)
	copy(N.Type, S.Type)
	copy(N.Tag, S.Tag)
	copy(N.Mol, S.Mol)
	copy(N.Q, S.Q)
	copy(N.Mass, S.Mass)
	if S.Special != nil {
		N.Special = make([][]SpecialPartner, len(S.Special))
		for i, v := range S.Special {
			N.Special[i] = append([]SpecialPartner(nil), v...)
		}
	}
	return N
}
