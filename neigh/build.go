/*
 * build.go, part of gomd.
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

package neigh

import (
	md "github.com/rmera/gomd"
)

//builder produces the rows of a neighbor list of one kind.
type builder struct {
	kind    md.ListKind
	ghost   bool
	multi   bool
	nsq     bool
	cutsq   [][]float64 //neighbor cutoffs squared, per type pair
	special md.SpecialWeights
	binner  *Binner
	full    *Stencil   //single-cutoff stencils
	half    *Stencil
	mfull   []*Stencil //per-type stencils for multi lists
	mhalf   []*Stencil
	sys     *md.System
}

//above reports whether position a is above b, comparing z, then y, then x.
//It decides which of two atoms in the same bin owns a pair with a ghost.
func above(a, b []float64) bool {
	if a[2] != b[2] {
		return a[2] > b[2]
	}
	if a[1] != b[1] {
		return a[1] > b[1]
	}
	return a[0] > b[0]
}

//tryAdd appends j to the row of i if the pair is closer than the neighbor cutoff
//and not excluded.
func (b *builder) tryAdd(i, j int, xi []float64, itype int, row []md.Neighbor) []md.Neighbor {
	S := b.sys
	xj := S.X.Row3(j)
	dx := xi[0] - xj[0]
	dy := xi[1] - xj[1]
	dz := xi[2] - xj[2]
	rsq := dx*dx + dy*dy + dz*dz
	if rsq >= b.cutsq[itype][S.Type[j]] {
		return row
	}
	cls := md.NotSpecial
	if S.Special != nil && i < S.NLocal {
		cls = S.SpecialOf(i, S.Tag[j])
		if cls != md.NotSpecial && b.special[cls] == 0 {
			return row
		}
	}
	return append(row, md.Neighbor{Index: j, Special: cls})
}

//accept applies the ordering rule of the list kind to a pair found through
//a stencil bin. Pairs in the own bin of a local atom are handled
//by the caller in half lists with Newton on.
func (b *builder) accept(i, j int, halfOn bool) bool {
	switch {
	case halfOn:
		return true
	case b.kind == md.Full:
		return j != i
	}
	return j > i
}

//binRow returns the neighbors of atom i, found by searching the stencil bins.
func (b *builder) binRow(i int, row []md.Neighbor) []md.Neighbor {
	S := b.sys
	B := b.binner
	xi := S.X.Row3(i)
	itype := S.Type[i]
	ibin := B.AtomBin[i]
	ci := B.Unindex(ibin)
	halfOn := b.kind == md.HalfNewtonOn && i < S.NLocal
	if halfOn {
		for _, j := range B.InBin(ibin) {
			if j == i {
				continue
			}
			if j < S.NLocal {
				if j < i {
					continue
				}
			} else if !above(S.X.Row3(j), xi) {
				continue
			}
			row = b.tryAdd(i, j, xi, itype, row)
		}
	}
	st := b.full
	if halfOn {
		st = b.half
	}
	var cutsq []float64
	if b.multi {
		cutsq = b.cutsq[itype]
		st = b.mfull[itype]
		if halfOn {
			st = b.mhalf[itype]
		}
	}
	for _, e := range st.Entries {
		jb := B.Index([3]int{ci[0] + e.DX, ci[1] + e.DY, ci[2] + e.DZ})
		if jb < 0 {
			continue
		}
		for _, j := range B.InBin(jb) {
			if cutsq != nil && cutsq[S.Type[j]] < e.DistSq {
				continue
			}
			if !b.accept(i, j, halfOn) {
				continue
			}
			row = b.tryAdd(i, j, xi, itype, row)
		}
	}
	return row
}

//row dispatches to the binned or the all-pairs search.
func (b *builder) row(i int, row []md.Neighbor) []md.Neighbor {
	if b.nsq {
		return b.nsqRow(i, row)
	}
	return b.binRow(i, row)
}

//fill builds the list L for the atoms of S.
func (b *builder) fill(L *md.NeighList, S *md.System, th *md.Threads) {
	b.sys = S
	n := S.NLocal
	if b.ghost {
		n = S.NAll()
	}
	L.Kind = b.kind
	L.Multi = b.multi
	L.Inum = S.NLocal
	if cap(L.IList) < n {
		L.IList = make([]int, n)
	}
	L.IList = L.IList[:n]
	if cap(L.Rows) < n {
		rows := make([][]md.Neighbor, n)
		copy(rows, L.Rows)
		L.Rows = rows
	}
	L.Rows = L.Rows[:n]
	for ii := range L.IList {
		L.IList[ii] = ii
	}
	th.For(n, func(ii, _ int) {
		L.Rows[ii] = b.row(L.IList[ii], L.Rows[ii][:0])
	})
}
