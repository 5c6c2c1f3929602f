/*
 * box.go, part of gomd.
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
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

//Box is an orthogonal simulation box.
type Box struct {
	Lo, Hi   r3.Vec
	Periodic [3]bool
}

//NewBox returns a box periodic in all directions, or an error if the box
//has no volume.
func NewBox(lo, hi r3.Vec) (*Box, error) {
	b := &Box{Lo: lo, Hi: hi, Periodic: [3]bool{true, true, true}}
	p := b.Prd()
	if p.X <= 0 || p.Y <= 0 || p.Z <= 0 {
		return nil, NewConfigError("NewBox", "box bounds %v %v define no volume", lo, hi)
	}
	return b, nil
}

//Copy returns a copy of the box.
func (B *Box) Copy() *Box {
	b := *B
	return &b
}

//Prd returns the box lengths.
func (B *Box) Prd() r3.Vec {
	return r3.Sub(B.Hi, B.Lo)
}

//Volume returns the volume of the box
func (B *Box) Volume() float64 {
	p := B.Prd()
	return p.X * p.Y * p.Z
}

func (B *Box) String() string {
	return fmt.Sprintf("box [%g %g) [%g %g) [%g %g) periodic %v", B.Lo.X, B.Hi.X, B.Lo.Y, B.Hi.Y, B.Lo.Z, B.Hi.Z, B.Periodic)
}

//Comp returns the dth component of v.
func Comp(v r3.Vec, d int) float64 {
	switch d {
	case 0:
		return v.X
	case 1:
		return v.Y
	case 2:
		return v.Z
	}
	panic("Comp: dimension out of range")
}

//SetComp returns v with its dth component set to val.
func SetComp(v r3.Vec, d int, val float64) r3.Vec {
	switch d {
	case 0:
		v.X = val
	case 1:
		v.Y = val
	case 2:
		v.Z = val
	default:
		panic("SetComp: dimension out of range")
	}
	return v
}

//Wrap puts the position x back in the box along the periodic dimensions.
//It returns the number of box lengths the position was shifted by.
func (B *Box) Wrap(x []float64) [3]int {
	var img [3]int
	for d := 0; d < 3; d++ {
		if !B.Periodic[d] {
			continue
		}
		lo := Comp(B.Lo, d)
		l := Comp(B.Hi, d) - lo
		n := math.Floor((x[d] - lo) / l)
		if n != 0 {
			x[d] -= n * l
			img[d] = int(n)
		}
		//floating point can leave x[d] == hi after the shift.
		if x[d] >= lo+l {
			x[d] = lo
		}
	}
	return img
}

//MinImage returns the minimum image of the separation d.
func (B *Box) MinImage(d r3.Vec) r3.Vec {
	p := B.Prd()
	for k := 0; k < 3; k++ {
		if !B.Periodic[k] {
			continue
		}
		l := Comp(p, k)
		v := Comp(d, k)
		v -= l * math.Round(v/l)
		d = SetComp(d, k, v)
	}
	return d
}

//SubDomain returns the bounds of the sub-box of coordinates coord in a
//processor grid of dimensions grid.
func (B *Box) SubDomain(grid, coord [3]int) (lo, hi r3.Vec) {
	p := B.Prd()
	for d := 0; d < 3; d++ {
		l := Comp(p, d) / float64(grid[d])
		blo := Comp(B.Lo, d)
		lo = SetComp(lo, d, blo+float64(coord[d])*l)
		if coord[d] == grid[d]-1 {
			hi = SetComp(hi, d, Comp(B.Hi, d)) //avoids round-off gaps at the upper edge
		} else {
			hi = SetComp(hi, d, blo+float64(coord[d]+1)*l)
		}
	}
	return lo, hi
}
