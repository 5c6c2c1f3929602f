/*
 * helpers_test.go, part of gomd.
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

package pair

import (
	"math/rand"
	"testing"

	md "github.com/rmera/gomd"
	"github.com/rmera/gomd/comm"
	"github.com/rmera/gomd/neigh"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

//result is what a parallel force evaluation returns.
type result struct {
	forces map[int64]r3.Vec
	energy float64
	virial [6]float64
}

type runOpts struct {
	grid    [3]int
	newton  bool
	threads int
	//wrap, if not nil, replaces the communication layer seen by the pair style.
	wrap func(md.Comm) md.Comm
}

//evaluate computes the forces on atoms with the pair style returned by newStyle,
//one instance per rank.
func evaluate(Te *testing.T, atoms []md.Atom, box *md.Box, ntypes int, newStyle func() md.Pair, o runOpts) result {
	probe := newStyle()
	cut, maxcut := cutoffs(Te, probe, ntypes)
	opts := neigh.DefaultOptions()
	W, err := comm.NewWorld(o.grid, box, atoms, ntypes, nil, maxcut+opts.Skin, nil)
	require.NoError(Te, err)
	forces := make([]map[int64]r3.Vec, W.Size())
	var res result
	err = W.Run(func(e *comm.Endpoint) error {
		S := e.System()
		style := newStyle()
		if _, _, err := cutoffsErr(style, ntypes); err != nil {
			return err
		}
		M, err := neigh.NewManager(opts, style.Request(), o.newton, cut)
		if err != nil {
			return err
		}
		M.SetDomain(e.SubDomain())
		th := md.NewThreads(o.threads)
		L, err := M.Build(S, th, nil)
		if err != nil {
			return err
		}
		var t md.Tally
		if err := t.Setup(md.EGlobal, md.VGlobal, S.NAll(), o.newton); err != nil {
			return err
		}
		var c md.Comm = e
		if o.wrap != nil {
			c = o.wrap(e)
		}
		S.ZeroForces(true)
		ctx := &md.Context{Sys: S, List: L, Newton: o.newton, Comm: c, Tally: &t, Threads: th, Special: md.DefaultSpecial}
		if err := style.Compute(ctx); err != nil {
			return err
		}
		if t.FdotR() {
			t.VirialFdotR(S)
		}
		if o.newton {
			if err := e.Reverse(S.F.Raw(), 3); err != nil {
				return err
			}
		}
		tot := append([]float64{t.Energy}, t.Virial[:]...)
		if err := e.SumFloats(tot); err != nil {
			return err
		}
		f := map[int64]r3.Vec{}
		for i := 0; i < S.NLocal; i++ {
			f[S.Tag[i]] = S.F.Vec(i)
		}
		forces[e.Rank()] = f
		if e.Rank() == 0 {
			res.energy = tot[0]
			copy(res.virial[:], tot[1:])
		}
		return nil
	})
	require.NoError(Te, err)
	res.forces = map[int64]r3.Vec{}
	for _, f := range forces {
		for k, v := range f {
			res.forces[k] = v
		}
	}
	require.Len(Te, res.forces, len(atoms))
	return res
}

func cutoffsErr(p md.Pair, ntypes int) ([][]float64, float64, error) {
	cut := make([][]float64, ntypes+1)
	maxc := 0.0
	for i := range cut {
		cut[i] = make([]float64, ntypes+1)
	}
	for i := 1; i <= ntypes; i++ {
		for j := i; j <= ntypes; j++ {
			c, err := p.InitOne(i, j)
			if err != nil {
				return nil, 0, err
			}
			cut[i][j], cut[j][i] = c, c
			if c > maxc {
				maxc = c
			}
		}
	}
	return cut, maxc, nil
}

func cutoffs(Te *testing.T, p md.Pair, ntypes int) ([][]float64, float64) {
	cut, maxc, err := cutoffsErr(p, ntypes)
	require.NoError(Te, err)
	return cut, maxc
}

//copper returns an smatb style with parameters for copper.
func copper(Te *testing.T) func() md.Pair {
	return func() md.Pair {
		s := NewSMATB(1)
		err := s.Coeff([]string{"1", "1", "2.5562", "10.55", "2.43", "0.0894", "1.2799", "4.08707719", "5.0056268338740553"})
		if err != nil {
			panic(err) //called from the rank goroutines
		}
		return s
	}
}

//crystal returns a slightly disordered fcc crystal.
func crystal(Te *testing.T, a float64, n int, seed int64) ([]md.Atom, *md.Box) {
	atoms, box, err := md.Lattice("fcc", a, [3]int{n, n, n})
	require.NoError(Te, err)
	r := rand.New(rand.NewSource(seed))
	for i := range atoms {
		atoms[i].X = r3.Add(atoms[i].X, r3.Vec{X: 0.2 * (r.Float64() - 0.5), Y: 0.2 * (r.Float64() - 0.5), Z: 0.2 * (r.Float64() - 0.5)})
	}
	return atoms, box
}

//dropComm skips every exchange of per-atom data.
type dropComm struct {
	md.Comm
}

func (d dropComm) Forward(buf []float64, stride int) error { return nil }
func (d dropComm) Reverse(buf []float64, stride int) error { return nil }
