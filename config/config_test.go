/*
 * config_test.go, part of gomd.
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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rmera/gomd/restart"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const input = `
[system]
lattice = bcc
a = 2.0
cells = 3 3 2
ntypes = 2
mass = 1.0 2.0
temperature = 0.8

[neighbor]
skin = 0.5
every = 2
check = false
special = 0.0 0.0 0.5

[pair]
style = lj/cut
settings = 2.5
coeff = 1 1 1.0 1.0
coeff = 2 2 0.5 1.2
coeff = 1 2 0.7 1.1

[bond]
style = harmonic
coeff = 1 100 1.4

[run]
steps = 50
dt = 0.002
grid = 2 1 1
newton = false
`

func TestRead(Te *testing.T) {
	c, err := ReadString(input)
	require.NoError(Te, err)
	assert.Equal(Te, "bcc", c.System.Lattice)
	cells, err := c.Cells()
	require.NoError(Te, err)
	assert.Equal(Te, [3]int{3, 3, 2}, cells)
	grid, err := c.Grid()
	require.NoError(Te, err)
	assert.Equal(Te, [3]int{2, 1, 1}, grid)
	m, err := c.Masses()
	require.NoError(Te, err)
	assert.Equal(Te, []float64{0, 1, 2}, m)
	assert.Len(Te, c.Pair.Coeff, 3)
	assert.Equal(Te, 2, c.Pair.NTypes)
	assert.Equal(Te, 1, c.Bond.NTypes)
	//defaults
	assert.Equal(Te, 1, c.Run.Threads)
	assert.Equal(Te, 10, c.Run.Thermo)
	assert.Equal(Te, 10, c.Output.Dump)
	assert.Equal(Te, 100, c.Output.RDFBins)
	assert.True(Te, c.Run.NewtonBond)
	o, err := c.SimOptions()
	require.NoError(Te, err)
	assert.False(Te, o.Newton)
	assert.False(Te, o.Neigh.Check)
	assert.Equal(Te, 2, o.Neigh.Every)
	assert.Equal(Te, 0.5, o.Neigh.Skin)
	assert.Equal(Te, 0.5, o.Neigh.Special[3])
	assert.Equal(Te, 1.0, o.Neigh.Special[0])
}

func TestStyles(Te *testing.T) {
	c, err := ReadString(input)
	require.NoError(Te, err)
	st, err := c.Styles()
	require.NoError(Te, err)
	require.NotNil(Te, st.Bond)
	assert.Nil(Te, st.Angle)
	assert.Equal(Te, "lj/cut", st.Pair.Style())
	cut, err := st.Pair.InitOne(1, 2)
	require.NoError(Te, err)
	assert.Equal(Te, 2.5, cut)
	assert.Equal(Te, 1.4, st.Bond.EquilibriumDistance(1))

	//the same coefficients, now from a restart file
	path := filepath.Join(Te.TempDir(), "coeffs.rst")
	sections, err := Sections(st)
	require.NoError(Te, err)
	require.Len(Te, sections, 2)
	require.NoError(Te, restart.WriteFile(path, sections...))
	c.Pair.Coeff = nil
	c.Bond.Coeff = nil
	c.Output.ReadRestart = path
	st2, err := c.Styles()
	require.NoError(Te, err)
	cut2, err := st2.Pair.InitOne(1, 2)
	require.NoError(Te, err)
	assert.Equal(Te, cut, cut2)
	assert.Equal(Te, 1.4, st2.Bond.EquilibriumDistance(1))

	src, err := Sources(st2, true)
	require.NoError(Te, err)
	assert.Equal(Te, "pair", src[0].Kind)
	assert.True(Te, src[0].All)
}

func TestReadFile(Te *testing.T) {
	path := filepath.Join(Te.TempDir(), "in.gcfg")
	require.NoError(Te, os.WriteFile(path, []byte(input), 0644))
	c, err := Read(path)
	require.NoError(Te, err)
	assert.Equal(Te, 50, c.Run.Steps)
	_, err = Read(filepath.Join(Te.TempDir(), "missing.gcfg"))
	assert.Error(Te, err)
}

func TestErrors(Te *testing.T) {
	bad := map[string]string{
		"no pair style":  "[system]\nlattice = fcc\n",
		"unknown field":  "[pair]\nstyle = lj/cut\ncolor = red\n",
		"short triple":   "[pair]\nstyle = lj/cut\n[system]\ncells = 3 3\n",
		"zero cells":     "[pair]\nstyle = lj/cut\n[system]\ncells = 3 0 3\n",
		"masses":         "[pair]\nstyle = lj/cut\n[system]\nmass = 1 2\n",
		"special":        "[pair]\nstyle = lj/cut\n[neighbor]\nspecial = 0 0 2\n",
		"timestep":       "[pair]\nstyle = lj/cut\n[run]\ndt = 0\n",
		"plot range":     "[pair]\nstyle = lj/cut\n[output]\nplotrmin = 2\nplotrmax = 1\n",
		"lattice const":  "[pair]\nstyle = lj/cut\n[system]\na = -1\n",
		"rdf bins":       "[pair]\nstyle = lj/cut\n[output]\nrdfbins = 0\n",
		"negative temp.": "[pair]\nstyle = lj/cut\n[system]\ntemperature = -1\n",
	}
	for name, in := range bad {
		_, err := ReadString(in)
		assert.Error(Te, err, name)
	}
	c, err := ReadString("[pair]\nstyle = morse\n")
	require.NoError(Te, err)
	_, err = c.Styles()
	assert.Error(Te, err)
	c, err = ReadString("[pair]\nstyle = lj/cut\ncoeff = 1 1 1.0\n")
	require.NoError(Te, err)
	_, err = c.Styles()
	assert.Error(Te, err)
}
