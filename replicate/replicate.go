/*
 * replicate.go, part of gomd.
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

//Package replicate builds larger periodic systems by repeating a configuration
//along the box vectors.
package replicate

import (
	"math"

	md "github.com/rmera/gomd"
	"gonum.org/v1/gonum/spatial/r3"
)

//MaxTag is the largest atom tag, or molecule ID, a replicated system can have.
const MaxTag = math.MaxInt32

//Result is a replicated configuration.
type Result struct {
	Atoms []md.Atom
	Box   *md.Box
	Top   *md.Topology
	//MaxTag and MaxMol are the largest tag and molecule ID of the original system,
	//the offsets between consecutive images.
	MaxTag, MaxMol int64
	N              [3]int
}

//Image returns the ordinal of the image with coordinates (ix, iy, iz) in a grid of n images.
func Image(n [3]int, ix, iy, iz int) int {
	return ix + n[0]*(iy+n[1]*iz)
}

//Tag returns the tag, in image img, of the atom with tag `tag` in the original system.
func (R *Result) Tag(tag int64, img int) int64 {
	return tag + R.MaxTag*int64(img)
}

//Origin returns the tag in the original system, and the image, of an atom of the replicated one.
func (R *Result) Origin(tag int64) (orig int64, img int) {
	return (tag-1)%R.MaxTag + 1, int((tag - 1) / R.MaxTag)
}

func (R *Result) mol(mol int64, img int) int64 {
	if mol <= 0 {
		return mol
	}
	return mol + R.MaxMol*int64(img)
}

//Replicate returns the configuration obtained by repeating atoms, with their box and
//topology, n[0]×n[1]×n[2] times. In image k the atom with tag t gets the tag
//t + k*maxtag, where maxtag is the largest tag of the original atoms, and the same
//applies to molecule IDs and to the tags in the topology. top can be nil.
//Molecules crossing a periodic boundary are made whole before being copied, and
//each copy is then wrapped into the new box, so every term keeps the geometry
//it had in the original system.
func Replicate(atoms []md.Atom, box *md.Box, top *md.Topology, n [3]int) (*Result, error) {
	if n[0] < 1 || n[1] < 1 || n[2] < 1 {
		return nil, md.NewConfigError("Replicate", "invalid number of images %v", n)
	}
	if box == nil {
		return nil, md.NewConfigError("Replicate", "a box is needed")
	}
	for d := 0; d < 3; d++ {
		if n[d] > 1 && !box.Periodic[d] {
			return nil, md.NewConfigError("Replicate", "cannot replicate along the non-periodic dimension %d", d)
		}
	}
	R := &Result{N: n}
	for _, a := range atoms {
		if a.Tag <= 0 {
			return nil, md.NewConfigError("Replicate", "atom tags must be positive, got %d", a.Tag)
		}
		R.MaxTag = max(R.MaxTag, a.Tag)
		R.MaxMol = max(R.MaxMol, a.Mol)
	}
	if m := top.MaxTag(); m > R.MaxTag {
		return nil, md.NewConfigError("Replicate", "topology references atom %d, which does not exist", m)
	}
	nimg := int64(n[0]) * int64(n[1]) * int64(n[2])
	if R.MaxTag > 0 && R.MaxTag > MaxTag/nimg {
		return nil, md.NewCapacityError("Replicate", "%d images of a system with tags up to %d overflow the largest tag %d", nimg, R.MaxTag, int64(MaxTag))
	}
	if R.MaxMol > 0 && R.MaxMol > MaxTag/nimg {
		return nil, md.NewCapacityError("Replicate", "%d images of a system with molecule IDs up to %d overflow the largest ID %d", nimg, R.MaxMol, int64(MaxTag))
	}
	x, err := unwrap(atoms, box, top)
	if err != nil {
		return nil, err
	}
	prd := box.Prd()
	R.Box = box.Copy()
	R.Box.Hi = r3.Add(box.Lo, r3.Vec{X: prd.X * float64(n[0]), Y: prd.Y * float64(n[1]), Z: prd.Z * float64(n[2])})
	R.Atoms = make([]md.Atom, 0, len(atoms)*int(nimg))
	if top != nil {
		R.Top = &md.Topology{
			Bonds:     make([]md.Bond, 0, len(top.Bonds)*int(nimg)),
			Angles:    make([]md.Angle, 0, len(top.Angles)*int(nimg)),
			Dihedrals: make([]md.Dihedral, 0, len(top.Dihedrals)*int(nimg)),
		}
	}
	for iz := 0; iz < n[2]; iz++ {
		for iy := 0; iy < n[1]; iy++ {
			for ix := 0; ix < n[0]; ix++ {
				img := Image(n, ix, iy, iz)
				shift := r3.Vec{X: prd.X * float64(ix), Y: prd.Y * float64(iy), Z: prd.Z * float64(iz)}
				for i, a := range atoms {
					a.Tag = R.Tag(a.Tag, img)
					a.Mol = R.mol(a.Mol, img)
					a.X = R.wrap(r3.Add(x[i], shift))
					R.Atoms = append(R.Atoms, a)
				}
				R.remap(top, img)
			}
		}
	}
	return R, nil
}

//wrap puts v in the replicated box.
func (R *Result) wrap(v r3.Vec) r3.Vec {
	x := []float64{v.X, v.Y, v.Z}
	R.Box.Wrap(x)
	return r3.Vec{X: x[0], Y: x[1], Z: x[2]}
}

//remap appends to R.Top the terms of top with their tags moved to image img.
func (R *Result) remap(top *md.Topology, img int) {
	if top == nil {
		return
	}
	for _, b := range top.Bonds {
		for k := range b.Atoms {
			b.Atoms[k] = R.Tag(b.Atoms[k], img)
		}
		R.Top.Bonds = append(R.Top.Bonds, b)
	}
	for _, a := range top.Angles {
		for k := range a.Atoms {
			a.Atoms[k] = R.Tag(a.Atoms[k], img)
		}
		R.Top.Angles = append(R.Top.Angles, a)
	}
	for _, d := range top.Dihedrals {
		for k := range d.Atoms {
			d.Atoms[k] = R.Tag(d.Atoms[k], img)
		}
		R.Top.Dihedrals = append(R.Top.Dihedrals, d)
	}
}
