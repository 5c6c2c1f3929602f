/*
 * histo_test.go, part of gomd.
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

package histo

import (
	"encoding/json"
	"sync"
	"testing"

	md "github.com/rmera/gomd"
	"github.com/rmera/gomd/comm"
	"github.com/rmera/gomd/pair"
	"github.com/rmera/gomd/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestData(Te *testing.T) {
	D := NewData([]float64{0, 1, 2, 3}, []float64{0.5, 1.5, 1.7, 2.9, 3.5, -1})
	assert.Equal(Te, []float64{1, 2, 1}, D.View())
	assert.Equal(Te, 4, D.Total())
	D.Normalize()
	assert.InDelta(Te, 1.0, D.Sum(), 1e-12)
	D.AddData(0.1, 0.2, 0.3, 0.4)
	assert.True(Te, D.Normalized())
	assert.InDelta(Te, 1.0, D.Sum(), 1e-12)
	D.UnNormalize()
	assert.InDeltaSlice(Te, []float64{5, 2, 1}, D.View(), 1e-12)
	assert.Equal(Te, []float64{0.5, 1.5, 2.5}, D.Centers())

	j, err := json.Marshal(D)
	require.NoError(Te, err)
	D2 := new(Data)
	require.NoError(Te, json.Unmarshal(j, D2))
	assert.Equal(Te, D.CopyDividers(), D2.CopyDividers())
	require.NoError(Te, D2.Add(D))
	assert.InDeltaSlice(Te, []float64{10, 4, 2}, D2.View(), 1e-12)
	assert.Error(Te, D2.Add(NewData([]float64{0, 1}, nil)))
	assert.Error(Te, json.Unmarshal([]byte(`{"dividers":[0,1],"histo":[1,2]}`), D2))
}

//sample returns the RDF of an fcc lattice with constant a, up to rmax, from one force computation.
func sample(Te *testing.T, grid [3]int, newton bool, rmax float64) *RDF {
	atoms, box, err := md.Lattice("fcc", 1.6, [3]int{4, 4, 4})
	require.NoError(Te, err)
	W, err := comm.NewWorld(grid, box, atoms, 1, nil, 2.8, nil)
	require.NoError(Te, err)
	var ret *RDF
	var mu sync.Mutex
	err = W.Run(func(e *comm.Endpoint) error {
		L := pair.NewLJCut(1)
		if err := L.Settings([]string{"2.5"}); err != nil {
			return err
		}
		if err := L.Coeff([]string{"1", "1", "1.0", "1.0"}); err != nil {
			return err
		}
		opts := sim.DefaultOptions()
		opts.Newton = newton
		E, err := sim.NewEngine(e, sim.Styles{Pair: L}, nil, opts)
		if err != nil {
			return err
		}
		if _, err := E.Compute(false); err != nil {
			return err
		}
		R, err := NewRDF(rmax, 100)
		if err != nil {
			return err
		}
		if err := R.Sample(E.System(), E.List(), e); err != nil {
			return err
		}
		mu.Lock()
		if e.Rank() == 0 {
			ret = R
		}
		mu.Unlock()
		return nil
	})
	require.NoError(Te, err)
	return ret
}

func TestRDF(Te *testing.T) {
	R := sample(Te, [3]int{1, 1, 1}, true, 2.0)
	assert.Equal(Te, 1, R.Samples())
	//12, 6 and 24 neighbors at a/sqrt(2), a and a*sqrt(1.5)
	assert.InDelta(Te, 42.0, R.Histogram().Sum()/256, 1e-9)
	r, g := R.G()
	require.Len(Te, r, 100)
	for k := range r {
		if r[k] < 1.0 {
			assert.Equal(Te, 0.0, g[k])
		}
	}
	assert.Greater(Te, floats.Max(g), 1.0)
	for _, grid := range [][3]int{{2, 1, 1}, {2, 2, 1}} {
		for _, newton := range []bool{true, false} {
			R2 := sample(Te, grid, newton, 2.0)
			assert.InDeltaSlice(Te, R.Histogram().View(), R2.Histogram().View(), 1e-9, "grid %v newton %v", grid, newton)
		}
	}
	_, err := NewRDF(0, 10)
	assert.Error(Te, err)
}
