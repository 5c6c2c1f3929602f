/*
 * bin.go, part of gomd.
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
	"math"

	md "github.com/rmera/gomd"
	"gonum.org/v1/gonum/spatial/r3"
)

//Binner sorts atoms into a regular grid of bins. The grid is aligned with the
//global box, so a bin has the same shape on every rank, and periodic images
//of an atom fall in bins displaced by whole numbers of bins. Each rank only
//keeps the bins that cover its sub-domain extended by the ghost cutoff.
type Binner struct {
	Size    [3]float64 //bin lengths
	inv     [3]float64
	NBin    [3]int //bins per box length
	lo      [3]int //global coordinates of the first bin kept
	MBin    [3]int //bins kept per dimension
	boxlo   r3.Vec
	Start   []int //atoms of bin b are Atoms[Start[b]:Start[b+1]]
	Atoms   []int
	AtomBin []int //bin of each atom
	count   []int
}

//NewBinner returns a Binner with bins as close as possible to binsize, but not smaller, that
//covers the sub-domain [sublo,subhi) extended by cutghost.
func NewBinner(box *md.Box, binsize float64, sublo, subhi r3.Vec, cutghost float64) (*Binner, error) {
	if binsize <= 0 {
		return nil, md.NewConfigError("NewBinner", "bin size must be positive, got %g", binsize)
	}
	B := &Binner{boxlo: box.Lo}
	prd := box.Prd()
	total := 1
	for d := 0; d < 3; d++ {
		l := md.Comp(prd, d)
		n := int(math.Floor(l / binsize))
		if n < 1 {
			n = 1
		}
		B.NBin[d] = n
		B.Size[d] = l / float64(n)
		B.inv[d] = 1 / B.Size[d]
		lo := md.Comp(sublo, d) - cutghost
		hi := md.Comp(subhi, d) + cutghost
		B.lo[d] = B.coord(lo, d) - 1
		hiBin := B.coord(hi, d) + 1
		B.MBin[d] = hiBin - B.lo[d] + 1
		total *= B.MBin[d]
		if total > md.MaxBufferLen {
			return nil, md.NewCapacityError("NewBinner", "too many bins for bin size %g", binsize)
		}
	}
	B.Start = make([]int, total+1)
	B.count = make([]int, total)
	return B, nil
}

//coord returns the global bin coordinate of the position x along d.
func (B *Binner) coord(x float64, d int) int {
	return int(math.Floor((x - md.Comp(B.boxlo, d)) * B.inv[d]))
}

//NBins returns the number of bins kept.
func (B *Binner) NBins() int {
	return B.MBin[0] * B.MBin[1] * B.MBin[2]
}

//Coords returns the local bin coordinates of the position x. Positions outside of the
//range kept are put in the outermost bins.
func (B *Binner) Coords(x []float64) [3]int {
	var c [3]int
	for d := 0; d < 3; d++ {
		v := int(math.Floor((x[d]-md.Comp(B.boxlo, d))*B.inv[d])) - B.lo[d]
		if v < 0 {
			v = 0
		} else if v >= B.MBin[d] {
			v = B.MBin[d] - 1
		}
		c[d] = v
	}
	return c
}

//Index returns the bin index for local bin coordinates c, or -1 if c is out of range.
func (B *Binner) Index(c [3]int) int {
	for d := 0; d < 3; d++ {
		if c[d] < 0 || c[d] >= B.MBin[d] {
			return -1
		}
	}
	return (c[2]*B.MBin[1]+c[1])*B.MBin[0] + c[0]
}

//Unindex returns the local bin coordinates of bin b.
func (B *Binner) Unindex(b int) [3]int {
	x := b % B.MBin[0]
	b /= B.MBin[0]
	return [3]int{x, b % B.MBin[1], b / B.MBin[1]}
}

//Bin sorts the first n atoms of S into bins. Within a bin, atoms keep their order,
//so local atoms come before ghosts.
func (B *Binner) Bin(S *md.System, n int) {
	nb := B.NBins()
	if cap(B.AtomBin) < n {
		B.AtomBin = make([]int, n, n+n/2)
		B.Atoms = make([]int, n, n+n/2)
	}
	B.AtomBin = B.AtomBin[:n]
	B.Atoms = B.Atoms[:n]
	for b := range B.count {
		B.count[b] = 0
	}
	for i := 0; i < n; i++ {
		b := B.Index(B.Coords(S.X.Row3(i)))
		B.AtomBin[i] = b
		B.count[b]++
	}
	B.Start[0] = 0
	for b := 0; b < nb; b++ {
		B.Start[b+1] = B.Start[b] + B.count[b]
		B.count[b] = B.Start[b]
	}
	for i := 0; i < n; i++ {
		b := B.AtomBin[i]
		B.Atoms[B.count[b]] = i
		B.count[b]++
	}
}

//InBin returns the atoms in bin b.
func (B *Binner) InBin(b int) []int {
	return B.Atoms[B.Start[b]:B.Start[b+1]]
}
