/*
 * dcd_test.go, part of gomd.
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

package traj

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	md "github.com/rmera/gomd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestWriteRead(Te *testing.T) {
	atoms, box, err := md.Lattice("bcc", 1.5, [3]int{2, 3, 2})
	require.NoError(Te, err)
	name := filepath.Join(Te.TempDir(), "run.dcd")
	W, err := Create(name, len(atoms), 0, 10, 0.005)
	require.NoError(Te, err)
	for f := 0; f < 3; f++ {
		for i := range atoms {
			atoms[i].X.X += 0.1
		}
		require.NoError(Te, W.Write(atoms, box))
	}
	assert.Equal(Te, 3, W.Frames())
	assert.Error(Te, W.Write(atoms[1:], box))
	require.NoError(Te, W.Close())

	R, err := Open(name)
	require.NoError(Te, err)
	defer R.Close()
	assert.Equal(Te, len(atoms), R.NAtoms())
	assert.Equal(Te, 3, R.Len())
	x := make([]r3.Vec, R.NAtoms())
	for f := 0; f < 3; f++ {
		prd, err := R.Next(x)
		require.NoError(Te, err)
		assert.InDelta(Te, box.Prd().Y, prd.Y, 1e-12)
		assert.InDelta(Te, box.Prd().Z, prd.Z, 1e-12)
	}
	//the last frame is the current state
	for i, a := range atoms {
		assert.InDelta(Te, a.X.X, x[i].X, 1e-5)
		assert.InDelta(Te, a.X.Y, x[i].Y, 1e-5)
		assert.InDelta(Te, a.X.Z, x[i].Z, 1e-5)
	}
	_, err = R.Next(x)
	assert.Equal(Te, io.EOF, err)
}

func TestBadFiles(Te *testing.T) {
	dir := Te.TempDir()
	_, err := Create(filepath.Join(dir, "empty.dcd"), 0, 0, 1, 1)
	assert.Error(Te, err)
	name := filepath.Join(dir, "bad.dcd")
	require.NoError(Te, os.WriteFile(name, []byte("this is not a trajectory at all, but it is long enough to have a header........................................"), 0644))
	_, err = Open(name)
	assert.Error(Te, err)
	_, err = Open(filepath.Join(dir, "missing.dcd"))
	assert.Error(Te, err)
}
