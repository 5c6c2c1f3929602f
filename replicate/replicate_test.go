/*
 * replicate_test.go, part of gomd.
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

package replicate

import (
	"errors"
	"testing"

	md "github.com/rmera/gomd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

//dimers returns a box with 3 diatomic molecules and one free atom.
func dimers(Te *testing.T) ([]md.Atom, *md.Box, *md.Topology) {
	box, err := md.NewBox(r3.Vec{}, r3.Vec{X: 6, Y: 5, Z: 4})
	require.NoError(Te, err)
	var atoms []md.Atom
	top := &md.Topology{}
	for m := int64(1); m <= 3; m++ {
		x := r3.Vec{X: float64(m), Y: 1, Z: 1}
		atoms = append(atoms,
			md.Atom{Tag: 2*m - 1, Type: 1, Mol: m, X: x},
			md.Atom{Tag: 2 * m, Type: 2, Mol: m, X: r3.Add(x, r3.Vec{Y: 1.1})})
		top.Bonds = append(top.Bonds, md.Bond{Type: 1, Atoms: [2]int64{2*m - 1, 2 * m}})
	}
	atoms = append(atoms, md.Atom{Tag: 7, Type: 1, X: r3.Vec{X: 5, Y: 4, Z: 3}})
	top.Angles = append(top.Angles, md.Angle{Type: 1, Atoms: [3]int64{1, 2, 3}})
	top.Dihedrals = append(top.Dihedrals, md.Dihedral{Type: 1, Atoms: [4]int64{1, 2, 3, 4}})
	return atoms, box, top
}

func TestIdentity(Te *testing.T) {
	atoms, box, top := dimers(Te)
	R, err := Replicate(atoms, box, top, [3]int{1, 1, 1})
	require.NoError(Te, err)
	assert.Equal(Te, atoms, R.Atoms)
	assert.Equal(Te, top, R.Top)
	assert.Equal(Te, box, R.Box)
	assert.NotSame(Te, box, R.Box)
}

func TestDoubling(Te *testing.T) {
	atoms, box, top := dimers(Te)
	R, err := Replicate(atoms, box, top, [3]int{2, 1, 1})
	require.NoError(Te, err)
	require.Len(Te, R.Atoms, 2*len(atoms))
	assert.InDelta(Te, 12, R.Box.Hi.X, 1e-12)
	assert.InDelta(Te, 2*box.Volume(), R.Box.Volume(), 1e-9)

	tags := map[int64]bool{}
	byTag := map[int64]md.Atom{}
	for _, a := range R.Atoms {
		assert.False(Te, tags[a.Tag], "tag %d repeated", a.Tag)
		tags[a.Tag] = true
		byTag[a.Tag] = a
		orig, img := R.Origin(a.Tag)
		o := atoms[orig-1]
		assert.Equal(Te, o.Type, a.Type)
		assert.Equal(Te, a.Tag, R.Tag(orig, img))
		assert.InDelta(Te, o.X.X+6*float64(img), a.X.X, 1e-12)
		if o.Mol == 0 {
			assert.Zero(Te, a.Mol)
		} else {
			assert.Equal(Te, o.Mol+3*int64(img), a.Mol)
		}
	}
	//image 0 keeps tags 1-7, image 1 has 8-14.
	for t := int64(1); t <= 14; t++ {
		assert.True(Te, tags[t])
	}

	require.Len(Te, R.Top.Bonds, 6)
	for _, b := range R.Top.Bonds {
		_, i0 := R.Origin(b.Atoms[0])
		_, i1 := R.Origin(b.Atoms[1])
		assert.Equal(Te, i0, i1)
		assert.Equal(Te, byTag[b.Atoms[0]].Mol, byTag[b.Atoms[1]].Mol)
		d := r3.Norm(r3.Sub(byTag[b.Atoms[0]].X, byTag[b.Atoms[1]].X))
		assert.InDelta(Te, 1.1, d, 1e-12)
	}
	require.Len(Te, R.Top.Angles, 2)
	assert.Equal(Te, [3]int64{8, 9, 10}, R.Top.Angles[1].Atoms)
	require.Len(Te, R.Top.Dihedrals, 2)
	assert.Equal(Te, [4]int64{8, 9, 10, 11}, R.Top.Dihedrals[1].Atoms)

	//the original is not modified
	a2, _, t2 := dimers(Te)
	assert.Equal(Te, a2, atoms)
	assert.Equal(Te, t2, top)
}

func TestBoundaryMolecule(Te *testing.T) {
	box, err := md.NewBox(r3.Vec{}, r3.Vec{X: 6, Y: 5, Z: 4})
	require.NoError(Te, err)
	atoms := []md.Atom{
		{Tag: 1, Type: 1, Mol: 1, X: r3.Vec{X: 0.1, Y: 1, Z: 1}},
		{Tag: 2, Type: 1, Mol: 1, X: r3.Vec{X: 5.9, Y: 1, Z: 1}},
		{Tag: 3, Type: 1, Mol: 1, X: r3.Vec{X: 5.9, Y: 4.8, Z: 1}},
	}
	top := &md.Topology{
		Bonds:  []md.Bond{{Type: 1, Atoms: [2]int64{1, 2}}, {Type: 1, Atoms: [2]int64{2, 3}}},
		Angles: []md.Angle{{Type: 1, Atoms: [3]int64{1, 2, 3}}},
	}
	R, err := Replicate(atoms, box, top, [3]int{2, 2, 1})
	require.NoError(Te, err)
	byTag := map[int64]r3.Vec{}
	for _, a := range R.Atoms {
		for d := 0; d < 3; d++ {
			assert.GreaterOrEqual(Te, md.Comp(a.X, d), md.Comp(R.Box.Lo, d))
			assert.Less(Te, md.Comp(a.X, d), md.Comp(R.Box.Hi, d))
		}
		byTag[a.Tag] = a.X
	}
	require.Len(Te, R.Top.Bonds, 8)
	for i, b := range R.Top.Bonds {
		d := R.Box.MinImage(r3.Sub(byTag[b.Atoms[1]], byTag[b.Atoms[0]]))
		want := 0.2
		if i%2 == 1 {
			want = 1.2
		}
		assert.InDelta(Te, want, r3.Norm(d), 1e-9, "bond %v", b.Atoms)
	}
	//each copy keeps its tags within one image
	for _, b := range R.Top.Bonds {
		_, i0 := R.Origin(b.Atoms[0])
		_, i1 := R.Origin(b.Atoms[1])
		assert.Equal(Te, i0, i1)
	}
}

func TestImageOrder(Te *testing.T) {
	atoms, box, _ := dimers(Te)
	n := [3]int{2, 3, 2}
	R, err := Replicate(atoms, box, nil, n)
	require.NoError(Te, err)
	assert.Nil(Te, R.Top)
	require.Len(Te, R.Atoms, 12*len(atoms))
	for _, a := range R.Atoms {
		orig, img := R.Origin(a.Tag)
		ix, iy, iz := img%2, (img/2)%3, img/6
		assert.Equal(Te, img, Image(n, ix, iy, iz))
		want := r3.Add(atoms[orig-1].X, r3.Vec{X: 6 * float64(ix), Y: 5 * float64(iy), Z: 4 * float64(iz)})
		assert.InDelta(Te, 0, r3.Norm(r3.Sub(want, a.X)), 1e-12)
	}
}

func TestErrors(Te *testing.T) {
	atoms, box, top := dimers(Te)
	_, err := Replicate(atoms, box, top, [3]int{0, 1, 1})
	assert.True(Te, errors.Is(err, md.ErrConfig))

	big := append([]md.Atom(nil), atoms...)
	big[0].Tag = MaxTag / 2
	_, err = Replicate(big, box, nil, [3]int{3, 1, 1})
	require.Error(Te, err)
	assert.True(Te, errors.Is(err, md.ErrCapacity))

	_, err = Replicate(big, box, nil, [3]int{2, 1, 1})
	assert.NoError(Te, err)

	bad := &md.Topology{Bonds: []md.Bond{{Type: 1, Atoms: [2]int64{1, 99}}}}
	_, err = Replicate(atoms, box, bad, [3]int{2, 1, 1})
	assert.True(Te, errors.Is(err, md.ErrConfig))

	//tag 7 exists, but not tag 5
	gap := append([]md.Atom(nil), atoms[:4]...)
	gap = append(gap, atoms[6])
	bad = &md.Topology{Bonds: []md.Bond{{Type: 1, Atoms: [2]int64{1, 5}}}}
	_, err = Replicate(gap, box, bad, [3]int{2, 1, 1})
	assert.True(Te, errors.Is(err, md.ErrConfig))

	box.Periodic[1] = false
	_, err = Replicate(atoms, box, nil, [3]int{1, 2, 1})
	assert.True(Te, errors.Is(err, md.ErrConfig))
}
