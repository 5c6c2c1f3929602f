/*
 * neigh_test.go, part of gomd.
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
	"fmt"
	"math/rand"
	"testing"

	md "github.com/rmera/gomd"
	"github.com/rmera/gomd/comm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

type tagPair [2]int64

func key(a, b int64) tagPair {
	if a > b {
		a, b = b, a
	}
	return tagPair{a, b}
}

//testAtoms returns a slightly disordered fcc crystal, with two atom types.
func testAtoms(Te *testing.T) ([]md.Atom, *md.Box) {
	atoms, box, err := md.Lattice("fcc", 1.6, [3]int{4, 4, 4})
	require.NoError(Te, err)
	r := rand.New(rand.NewSource(3))
	for i := range atoms {
		atoms[i].X = r3.Add(atoms[i].X, r3.Vec{X: 0.2 * (r.Float64() - 0.5), Y: 0.2 * (r.Float64() - 0.5), Z: 0.2 * (r.Float64() - 0.5)})
		atoms[i].Type = 1 + int(atoms[i].Tag%2)
	}
	return atoms, box
}

func cutTable(multi bool) [][]float64 {
	c := [][]float64{{0, 0, 0}, {0, 2, 2}, {0, 2, 2}}
	if multi {
		c = [][]float64{{0, 0, 0}, {0, 2, 1.5}, {0, 1.5, 1}}
	}
	return c
}

//reference returns all pairs closer than the neighbor cutoff, by minimum image.
func reference(atoms []md.Atom, box *md.Box, cut [][]float64, skin float64) map[tagPair]bool {
	ref := map[tagPair]bool{}
	for i := range atoms {
		for j := i + 1; j < len(atoms); j++ {
			c := cut[atoms[i].Type][atoms[j].Type] + skin
			d := box.MinImage(r3.Sub(atoms[i].X, atoms[j].X))
			if r3.Norm2(d) < c*c {
				ref[key(atoms[i].Tag, atoms[j].Tag)] = true
			}
		}
	}
	return ref
}

func TestListsMatchBruteForce(Te *testing.T) {
	atoms, box := testAtoms(Te)
	const skin = 0.3
	grids := [][3]int{{1, 1, 1}, {2, 1, 1}, {2, 2, 1}}
	kinds := []struct {
		name   string
		full   bool
		newton bool
		want   float64
	}{
		{"half/newton", false, true, 1},
		{"half/newtoff", false, false, 1},
		{"full", true, false, 2},
	}
	for _, multi := range []bool{false, true} {
		cut := cutTable(multi)
		ref := reference(atoms, box, cut, skin)
		require.NotEmpty(Te, ref)
		for _, nsq := range []bool{false, true} {
			for _, grid := range grids {
				for _, k := range kinds {
					name := fmt.Sprintf("%s multi=%v nsq=%v grid=%v", k.name, multi, nsq, grid)
					Te.Run(name, func(Te *testing.T) {
						W, err := comm.NewWorld(grid, box, atoms, 2, nil, 2+skin, nil)
						require.NoError(Te, err)
						counts := map[tagPair]float64{}
						for r := 0; r < W.Size(); r++ {
							S := W.System(r)
							opts := DefaultOptions()
							opts.Skin = skin
							opts.NSQ = nsq
							opts.Multi = multi
							M, err := NewManager(opts, md.ListRequest{Full: k.full}, k.newton, cut)
							require.NoError(Te, err)
							M.SetDomain(W.SubDomain(r))
							L, err := M.Build(S, md.NewThreads(3), nil)
							require.NoError(Te, err)
							assert.Equal(Te, S.NLocal, len(L.IList))
							for ii, i := range L.IList {
								seen := map[int]bool{}
								for _, n := range L.Neighbors(ii) {
									require.False(Te, seen[n.Index], "repeated neighbor")
									seen[n.Index] = true
									w := 1.0
									if k.name == "half/newtoff" && n.Index >= S.NLocal {
										w = 0.5
									}
									counts[key(S.Tag[i], S.Tag[n.Index])] += w
								}
							}
						}
						for p := range ref {
							assert.InDelta(Te, k.want, counts[p], 1e-12, "pair %v", p)
						}
						assert.Equal(Te, len(ref), len(counts))
					})
				}
			}
		}
	}
}

func TestCutoffIsExclusive(Te *testing.T) {
	box, err := md.NewBox(r3.Vec{}, r3.Vec{X: 10, Y: 10, Z: 10})
	require.NoError(Te, err)
	atoms := []md.Atom{
		{Tag: 1, Type: 1, X: r3.Vec{X: 1, Y: 5, Z: 5}},
		{Tag: 2, Type: 1, X: r3.Vec{X: 3, Y: 5, Z: 5}},
		{Tag: 3, Type: 1, X: r3.Vec{X: 5, Y: 5, Z: 5}},
		{Tag: 4, Type: 1, X: r3.Vec{X: 6.999, Y: 5, Z: 5}},
	}
	cut := [][]float64{{0, 0}, {0, 2}}
	for _, nsq := range []bool{false, true} {
		W, err := comm.NewWorld([3]int{1, 1, 1}, box, atoms, 1, nil, 2, nil)
		require.NoError(Te, err)
		S := W.System(0)
		opts := DefaultOptions()
		opts.Skin = 0
		opts.NSQ = nsq
		M, err := NewManager(opts, md.ListRequest{}, true, cut)
		require.NoError(Te, err)
		M.SetDomain(W.SubDomain(0))
		L, err := M.Build(S, md.NewThreads(1), nil)
		require.NoError(Te, err)
		var pairs []tagPair
		for ii, i := range L.IList {
			for _, n := range L.Neighbors(ii) {
				pairs = append(pairs, key(S.Tag[i], S.Tag[n.Index]))
			}
		}
		//1-2 and 2-3 are exactly at the cutoff
		assert.Equal(Te, []tagPair{{3, 4}}, pairs, "nsq=%v", nsq)
	}
}

func TestStencil(Te *testing.T) {
	box, err := md.NewBox(r3.Vec{}, r3.Vec{X: 10, Y: 10, Z: 10})
	require.NoError(Te, err)
	B, err := NewBinner(box, 1.0, box.Lo, box.Hi, 2)
	require.NoError(Te, err)
	full := B.NewStencil(2, false)
	half := B.NewStencil(2, true)
	in := map[[3]int]bool{}
	for _, e := range half.Entries {
		d := [3]int{e.DX, e.DY, e.DZ}
		assert.NotEqual(Te, [3]int{}, d)
		assert.False(Te, in[[3]int{-e.DX, -e.DY, -e.DZ}], "both %v and its opposite in half stencil", d)
		in[d] = true
	}
	assert.Equal(Te, 2*len(half.Entries)+1, len(full.Entries))
	for k := 1; k < len(full.Entries); k++ {
		assert.LessOrEqual(Te, full.Entries[k-1].DistSq, full.Entries[k].DistSq)
	}
	assert.Equal(Te, 0.0, full.Entries[0].DistSq)
}

func TestBinning(Te *testing.T) {
	atoms, box := testAtoms(Te)
	S := md.FromAtoms(atoms, len(atoms), 2, box)
	B, err := NewBinner(box, 1.3, box.Lo, box.Hi, 0)
	require.NoError(Te, err)
	assert.Equal(Te, [3]int{4, 4, 4}, B.NBin)
	assert.InDelta(Te, 1.6, B.Size[0], 1e-12)
	B.Bin(S, S.NAll())
	n := 0
	for b := 0; b < B.NBins(); b++ {
		prev := -1
		for _, i := range B.InBin(b) {
			assert.Equal(Te, b, B.AtomBin[i])
			assert.Greater(Te, i, prev)
			prev = i
			n++
		}
	}
	assert.Equal(Te, S.NAll(), n)
	_, err = NewBinner(box, 0, box.Lo, box.Hi, 0)
	assert.Error(Te, err)
}

func TestSpecialExclusion(Te *testing.T) {
	atoms, box := testAtoms(Te)
	for i := range atoms {
		atoms[i].Type = 1
	}
	//bond each atom to the next one in tag order, within the first unit cell and its neighbor.
	top := &md.Topology{}
	for t := int64(1); t < 8; t++ {
		top.Bonds = append(top.Bonds, md.Bond{Type: 1, Atoms: [2]int64{t, t + 1}})
	}
	specials := top.Specials()
	W, err := comm.NewWorld([3]int{1, 1, 1}, box, atoms, 1, nil, 2.3, specials)
	require.NoError(Te, err)
	S := W.System(0)
	opts := DefaultOptions()
	opts.Special = md.SpecialWeights{1, 0, 0.5, 1}
	M, err := NewManager(opts, md.ListRequest{}, true, [][]float64{{0, 0}, {0, 2}})
	require.NoError(Te, err)
	L, err := M.Build(S, md.NewThreads(1), nil)
	require.NoError(Te, err)
	found13 := false
	for ii, i := range L.IList {
		for _, n := range L.Neighbors(ii) {
			cls := S.SpecialOf(i, S.Tag[n.Index])
			assert.NotEqual(Te, md.Special12, cls, "1-2 pair %d %d not excluded", S.Tag[i], S.Tag[n.Index])
			assert.Equal(Te, cls, n.Special)
			if n.Special == md.Special13 {
				found13 = true
			}
		}
	}
	assert.True(Te, found13)
}

func TestDecide(Te *testing.T) {
	atoms, box := testAtoms(Te)
	W, err := comm.NewWorld([3]int{1, 1, 1}, box, atoms, 2, nil, 2.3, nil)
	require.NoError(Te, err)
	S := W.System(0)
	opts := DefaultOptions()
	opts.Every = 2
	opts.Delay = 4
	M, err := NewManager(opts, md.ListRequest{}, true, cutTable(false))
	require.NoError(Te, err)
	_, err = M.Build(S, nil, nil)
	require.NoError(Te, err)
	for step := 1; step < 4; step++ {
		b, err := M.Decide(S, nil)
		require.NoError(Te, err)
		assert.False(Te, b, "step %d", step)
	}
	S.X.AddToVec(0, 0.2, 0, 0)
	b, err := M.Decide(S, nil)
	require.NoError(Te, err)
	assert.True(Te, b)
	assert.Equal(Te, 1, M.Dangerous)

	_, err = M.Build(S, nil, nil)
	require.NoError(Te, err)
	for step := 1; step <= 6; step++ {
		b, err := M.Decide(S, nil)
		require.NoError(Te, err)
		assert.False(Te, b)
	}
	assert.Equal(Te, 2, M.Builds)
}

func TestManagerErrors(Te *testing.T) {
	opts := DefaultOptions()
	opts.Every = 3
	opts.Delay = 4
	_, err := NewManager(opts, md.ListRequest{}, true, cutTable(false))
	assert.Error(Te, err)
	_, err = NewManager(DefaultOptions(), md.ListRequest{Ghost: true}, true, cutTable(false))
	assert.Error(Te, err)
	_, err = NewManager(DefaultOptions(), md.ListRequest{Ghost: true, Full: true}, true, cutTable(false))
	assert.NoError(Te, err)
}

func TestGhostRows(Te *testing.T) {
	atoms, box := testAtoms(Te)
	W, err := comm.NewWorld([3]int{1, 1, 1}, box, atoms, 2, nil, 2.3, nil)
	require.NoError(Te, err)
	S := W.System(0)
	M, err := NewManager(DefaultOptions(), md.ListRequest{Ghost: true, Full: true}, false, cutTable(false))
	require.NoError(Te, err)
	L, err := M.Build(S, md.NewThreads(1), nil)
	require.NoError(Te, err)
	assert.Equal(Te, S.NAll(), len(L.IList))
	assert.Equal(Te, S.NLocal, L.Inum)
}
