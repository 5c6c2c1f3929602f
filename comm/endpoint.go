/*
 * endpoint.go, part of gomd.
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

package comm

import (
	"math"
	"sort"

	md "github.com/rmera/gomd"
	"gonum.org/v1/gonum/spatial/r3"
)

//Endpoint is the view of the World from one rank. It implements md.Comm.
//All ranks must call the same exchanges in the same order.
type Endpoint struct {
	w    *World
	rank int
}

//Rank returns the rank of the endpoint.
func (E *Endpoint) Rank() int { return E.rank }

//Size returns the number of ranks in the World.
func (E *Endpoint) Size() int { return len(E.w.ranks) }

//System returns the atoms of the rank. The System is replaced by Exchange.
func (E *Endpoint) System() *md.System {
	return E.w.ranks[E.rank].sys
}

//SubDomain returns the bounds of the region owned by the rank.
func (E *Endpoint) SubDomain() (lo, hi r3.Vec) {
	return E.w.SubDomain(E.rank)
}

//CutGhost returns the distance beyond the sub-domain up to which ghost atoms are kept.
func (E *Endpoint) CutGhost() float64 {
	return E.w.CutGhost
}

func checkStride(buf []float64, stride int, S *md.System) error {
	if stride < 1 {
		return md.NewConfigError("comm", "invalid stride %d", stride)
	}
	if len(buf) < stride*S.NAll() {
		return md.NewConfigError("comm", "buffer of %d values is too short for %d atoms with stride %d", len(buf), S.NAll(), stride)
	}
	return nil
}

//Forward copies the values of each owned atom into all its ghost images.
func (E *Endpoint) Forward(buf []float64, stride int) error {
	W := E.w
	rd := W.ranks[E.rank]
	if err := checkStride(buf, stride, rd.sys); err != nil {
		return md.ErrDecorate(err, "Forward")
	}
	W.bufs[E.rank] = buf
	if err := W.bar.wait(); err != nil {
		return md.ErrDecorate(err, "Forward")
	}
	nlocal := rd.sys.NLocal
	for g, s := range rd.sources {
		src := W.bufs[s.rank][s.index*stride : (s.index+1)*stride]
		copy(buf[(nlocal+g)*stride:(nlocal+g+1)*stride], src)
	}
	return md.ErrDecorate(W.bar.wait(), "Forward")
}

//Reverse adds the values accumulated on each ghost into its owner.
//The ghost values are left untouched.
func (E *Endpoint) Reverse(buf []float64, stride int) error {
	W := E.w
	rd := W.ranks[E.rank]
	if err := checkStride(buf, stride, rd.sys); err != nil {
		return md.ErrDecorate(err, "Reverse")
	}
	W.bufs[E.rank] = buf
	if err := W.bar.wait(); err != nil {
		return md.ErrDecorate(err, "Reverse")
	}
	for _, s := range rd.incoming {
		src := W.bufs[s.rank][s.ghost*stride : (s.ghost+1)*stride]
		dst := buf[s.local*stride : (s.local+1)*stride]
		for k := range dst {
			dst[k] += src[k]
		}
	}
	return md.ErrDecorate(W.bar.wait(), "Reverse")
}

//UpdateGhosts copies the positions of the owned atoms into their ghost
//images, applying the periodic shift of each image.
func (E *Endpoint) UpdateGhosts() error {
	W := E.w
	rd := W.ranks[E.rank]
	x := rd.sys.X.Raw()
	W.bufs[E.rank] = x
	if err := W.bar.wait(); err != nil {
		return md.ErrDecorate(err, "UpdateGhosts")
	}
	prd := W.Box.Prd()
	nlocal := rd.sys.NLocal
	for g, s := range rd.sources {
		src := W.bufs[s.rank][3*s.index : 3*s.index+3]
		dst := x[3*(nlocal+g) : 3*(nlocal+g)+3]
		dst[0] = src[0] + float64(s.shift[0])*prd.X
		dst[1] = src[1] + float64(s.shift[1])*prd.Y
		dst[2] = src[2] + float64(s.shift[2])*prd.Z
	}
	return md.ErrDecorate(W.bar.wait(), "UpdateGhosts")
}

//Exchange moves the atoms that left their sub-domain to their new owners, and
//rebuilds the ghosts. The previous System of every rank is discarded.
func (E *Endpoint) Exchange() error {
	W := E.w
	if err := W.bar.wait(); err != nil {
		return md.ErrDecorate(err, "Exchange")
	}
	var derr error
	if E.rank == 0 {
		var atoms []md.Atom
		for _, rd := range W.ranks {
			atoms = append(atoms, rd.sys.LocalAtoms()...)
		}
		derr = W.distribute(atoms)
	}
	if err := W.bar.wait(); err != nil {
		return md.ErrDecorate(err, "Exchange")
	}
	return md.ErrDecorate(derr, "Exchange")
}

//MaxFloat returns the maximum of v over all ranks.
func (E *Endpoint) MaxFloat(v float64) (float64, error) {
	W := E.w
	W.vals[E.rank] = v
	if err := W.bar.wait(); err != nil {
		return 0, md.ErrDecorate(err, "MaxFloat")
	}
	m := math.Inf(-1)
	for _, x := range W.vals {
		m = math.Max(m, x)
	}
	return m, md.ErrDecorate(W.bar.wait(), "MaxFloat")
}

//SumFloats sums vals element-wise over all ranks, in place. All ranks must pass
//slices of the same length.
func (E *Endpoint) SumFloats(vals []float64) error {
	W := E.w
	W.sums[E.rank] = vals
	if err := W.bar.wait(); err != nil {
		return md.ErrDecorate(err, "SumFloats")
	}
	tot := make([]float64, len(vals))
	for _, s := range W.sums {
		if len(s) != len(vals) {
			W.bar.abort()
			return md.NewConfigError("SumFloats", "ranks reduced arrays of different lengths")
		}
		for k := range tot {
			tot[k] += s[k]
		}
	}
	if err := W.bar.wait(); err != nil {
		return md.ErrDecorate(err, "SumFloats")
	}
	copy(vals, tot)
	return nil
}

//Gather returns, on rank 0, the local atoms of all ranks sorted by tag. The other
//ranks get nil.
func (E *Endpoint) Gather() ([]md.Atom, error) {
	W := E.w
	if err := W.bar.wait(); err != nil {
		return nil, md.ErrDecorate(err, "Gather")
	}
	var ret []md.Atom
	if E.rank == 0 {
		ret = W.Atoms()
	}
	return ret, md.ErrDecorate(W.bar.wait(), "Gather")
}

func sortByTag(atoms []md.Atom) {
	sort.Slice(atoms, func(i, j int) bool { return atoms[i].Tag < atoms[j].Tag })
}
