/*
 * list.go, part of gomd.
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

package bonded

import (
	md "github.com/rmera/gomd"
)

//Lists holds the bonded terms computed on one rank, with atoms given by their indexes in the System.
type Lists struct {
	Bonds     []md.BondTerm
	Angles    []md.AngleTerm
	Dihedrals []md.DihedralTerm
}

//resolve finds the indexes of the atoms of a term. The anchor is the local copy of
//atom tags[anchor]; the other atoms are the images closest to it.
func resolve(S *md.System, tags []int64, anchor int, idx []int) error {
	a := S.Map(tags[anchor])
	for k, t := range tags {
		if k == anchor {
			idx[k] = a
			continue
		}
		idx[k] = S.ClosestImage(a, t)
		if idx[k] < 0 {
			return md.NewConfigError("resolve", "atom %d of a bonded term with atom %d is missing, the ghost cutoff may be too short", t, tags[anchor])
		}
	}
	return nil
}

func local(S *md.System, tag int64) bool {
	i := S.Map(tag)
	return i >= 0 && i < S.NLocal
}

//entries returns the index sets under which the term with atoms tags is computed
//on the rank holding S. With newton, the owner of atom tags[owner] computes the term
//once and the forces on ghost atoms are later sent back. Without it, the term is
//computed once from the point of view of each local atom, keeping only the forces
//on local atoms. Views where another local atom has a lower index are duplicates
//and are skipped.
func entries(S *md.System, tags []int64, owner int, newton bool, idx []int) ([][]int, error) {
	var ret [][]int
	for k, t := range tags {
		if (newton && k != owner) || !local(S, t) {
			continue
		}
		if err := resolve(S, tags, k, idx); err != nil {
			return nil, err
		}
		if !newton && !lowest(idx, k) {
			continue
		}
		ret = append(ret, append([]int(nil), idx...))
	}
	return ret, nil
}

func lowest(idx []int, k int) bool {
	for _, i := range idx {
		if i < idx[k] {
			return false
		}
	}
	return true
}

//Build returns the terms of top that the rank holding S has to compute.
//With newton, bonds are computed by the owner of their first atom and angles and
//dihedrals by the owner of their second atom.
func Build(S *md.System, top *md.Topology, newton bool) (*Lists, error) {
	L := &Lists{}
	if top == nil {
		return L, nil
	}
	var idx [4]int
	for _, b := range top.Bonds {
		e, err := entries(S, b.Atoms[:], 0, newton, idx[:2])
		if err != nil {
			return nil, md.ErrDecorate(err, "Build")
		}
		for _, v := range e {
			L.Bonds = append(L.Bonds, md.BondTerm{Atoms: [2]int{v[0], v[1]}, Type: b.Type})
		}
	}
	for _, a := range top.Angles {
		e, err := entries(S, a.Atoms[:], 1, newton, idx[:3])
		if err != nil {
			return nil, md.ErrDecorate(err, "Build")
		}
		for _, v := range e {
			L.Angles = append(L.Angles, md.AngleTerm{Atoms: [3]int{v[0], v[1], v[2]}, Type: a.Type})
		}
	}
	for _, d := range top.Dihedrals {
		e, err := entries(S, d.Atoms[:], 1, newton, idx[:4])
		if err != nil {
			return nil, md.ErrDecorate(err, "Build")
		}
		for _, v := range e {
			L.Dihedrals = append(L.Dihedrals, md.DihedralTerm{Atoms: [4]int{v[0], v[1], v[2], v[3]}, Type: d.Type})
		}
	}
	return L, nil
}

//Set copies the lists into ctx.
func (L *Lists) Set(ctx *md.Context) {
	ctx.Bonds, ctx.Angles, ctx.Dihedrals = L.Bonds, L.Angles, L.Dihedrals
}
