/*
 * stencil.go, part of gomd.
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
	"sort"
)

//StencilEntry is the displacement, in bins, from the bin of an atom to a bin
//that can contain its neighbors.
type StencilEntry struct {
	DX, DY, DZ int
	DistSq     float64 //smallest squared distance between points of the two bins
}

//Stencil is the set of bins to search around the bin of an atom, sorted by increasing
//distance.
type Stencil struct {
	Entries []StencilEntry
	Half    bool
	Cut     float64
}

//binDistance returns the smallest squared distance between a point in a
//bin and a point in the bin displaced from it by (i,j,k).
func (B *Binner) binDistance(i, j, k int) float64 {
	axis := func(n int, size float64) float64 {
		switch {
		case n > 0:
			return float64(n-1) * size
		case n < 0:
			return float64(n+1) * size
		}
		return 0
	}
	dx := axis(i, B.Size[0])
	dy := axis(j, B.Size[1])
	dz := axis(k, B.Size[2])
	return dx*dx + dy*dy + dz*dz
}

//upper reports whether the displacement belongs to the upper half of a stencil.
//Exactly one of d and -d is in the upper half, for any non-zero d.
func upper(i, j, k int) bool {
	return k > 0 || (k == 0 && j > 0) || (k == 0 && j == 0 && i > 0)
}

//NewStencil returns the stencil for the cutoff cut. If half is true, only the
//upper half of the bins is included; the central bin is always excluded then, as it is
//treated separately.
func (B *Binner) NewStencil(cut float64, half bool) *Stencil {
	var s [3]int
	for d := 0; d < 3; d++ {
		s[d] = int(cut * B.inv[d])
		if float64(s[d])*B.Size[d] < cut {
			s[d]++
		}
	}
	cutsq := cut * cut
	st := &Stencil{Half: half, Cut: cut}
	for k := -s[2]; k <= s[2]; k++ {
		for j := -s[1]; j <= s[1]; j++ {
			for i := -s[0]; i <= s[0]; i++ {
				if half && !upper(i, j, k) {
					continue
				}
				dsq := B.binDistance(i, j, k)
				if dsq < cutsq {
					st.Entries = append(st.Entries, StencilEntry{DX: i, DY: j, DZ: k, DistSq: dsq})
				}
			}
		}
	}
	sort.SliceStable(st.Entries, func(a, b int) bool {
		return st.Entries[a].DistSq < st.Entries[b].DistSq
	})
	return st
}
