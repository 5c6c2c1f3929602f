/*
 * restart_test.go, part of gomd.
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

package restart

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	md "github.com/rmera/gomd"
	"github.com/rmera/gomd/bonded"
	"github.com/rmera/gomd/pair"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func styles(Te *testing.T) (*pair.LJCut, *bonded.BondHarmonic, *bonded.AngleQuartic) {
	L := pair.NewLJCut(2)
	require.NoError(Te, L.Settings([]string{"2.5", "2.0", "mix", "arithmetic"}))
	require.NoError(Te, L.Coeff([]string{"1", "1", "1.0", "1.0"}))
	require.NoError(Te, L.Coeff([]string{"2", "2", "0.5", "1.5", "3.0"}))
	B := bonded.NewBondHarmonic(1)
	require.NoError(Te, B.Coeff([]string{"1", "100", "1.4"}))
	A := bonded.NewAngleQuartic(2)
	require.NoError(Te, A.Coeff([]string{"*", "105", "30", "-10", "5"}))
	return L, B, A
}

func TestBinaryFiles(Te *testing.T) {
	dir := Te.TempDir()
	L, B, A := styles(Te)
	for _, name := range []string{"coeffs.rst", "coeffs.rst.zst"} {
		path := filepath.Join(dir, name)
		require.NoError(Te, WriteFile(path, Section{"pair", L}, Section{"bond", B}, Section{"angle", A}))
		L2, B2, A2 := pair.NewLJCut(2), bonded.NewBondHarmonic(1), bonded.NewAngleQuartic(2)
		require.NoError(Te, ReadFile(path, Section{"pair", L2}, Section{"bond", B2}, Section{"angle", A2}))
		assert.Equal(Te, L.DataRecords(false), L2.DataRecords(false))
		assert.Equal(Te, B.DataRecords(true), B2.DataRecords(true))
		assert.Equal(Te, A.DataRecords(true), A2.DataRecords(true))
		for i := 1; i <= 2; i++ {
			for j := i; j <= 2; j++ {
				c1, err := L.InitOne(i, j)
				require.NoError(Te, err)
				c2, err := L2.InitOne(i, j)
				require.NoError(Te, err)
				assert.Equal(Te, c1, c2)
			}
		}
	}
	plain, err := os.ReadFile(filepath.Join(dir, "coeffs.rst"))
	require.NoError(Te, err)
	assert.True(Te, bytes.HasPrefix(plain, []byte(magic)))
	zst, err := os.ReadFile(filepath.Join(dir, "coeffs.rst.zst"))
	require.NoError(Te, err)
	assert.False(Te, bytes.HasPrefix(zst, []byte(magic)))
}

func TestBinaryMismatch(Te *testing.T) {
	L, B, _ := styles(Te)
	var buf bytes.Buffer
	require.NoError(Te, Write(&buf, Section{"pair", L}, Section{"bond", B}))
	data := buf.Bytes()

	err := Read(bytes.NewReader(data), Section{"pair", pair.NewSMATB(2)}, Section{"bond", bonded.NewBondHarmonic(1)})
	require.Error(Te, err)
	assert.True(Te, errors.Is(err, md.ErrConfig))

	err = Read(bytes.NewReader(data), Section{"pair", pair.NewLJCut(2)})
	assert.Error(Te, err)

	bad := append([]byte("NOTGOMD"), data[len(magic):]...)
	err = Read(bytes.NewReader(bad), Section{"pair", pair.NewLJCut(2)}, Section{"bond", bonded.NewBondHarmonic(1)})
	assert.Error(Te, err)

	err = Read(bytes.NewReader(data[:len(data)-3]), Section{"pair", pair.NewLJCut(2)}, Section{"bond", bonded.NewBondHarmonic(1)})
	assert.Error(Te, err)

	err = ReadFile(filepath.Join(Te.TempDir(), "missing.rst"), Section{"pair", pair.NewLJCut(2)})
	require.Error(Te, err)
	e, ok := err.(*Error)
	require.True(Te, ok)
	assert.Contains(Te, e.FileName(), "missing.rst")
}

func TestDataFiles(Te *testing.T) {
	L, B, A := styles(Te)
	for i := 1; i <= 2; i++ {
		for j := i; j <= 2; j++ {
			_, err := L.InitOne(i, j)
			require.NoError(Te, err)
		}
	}
	S := pair.NewSMATB(1)
	require.NoError(Te, S.Coeff([]string{"1", "1", "2.5562", "10.55", "2.43", "0.0894", "1.2799", "4.08707719", "5.0056268338740553"}))
	var buf bytes.Buffer
	require.NoError(Te, WriteData(&buf,
		Source{Kind: "pair", Style: L, All: true},
		Source{Kind: "smatb", Style: S},
		Source{Kind: "bond", Style: B},
		Source{Kind: "angle", Style: A}))
	assert.True(Te, strings.Contains(buf.String(), "[[section]]"))
	D, err := ReadData(&buf)
	require.NoError(Te, err)
	require.Len(Te, D.Sections, 4)
	assert.Nil(Te, D.Section("dihedral"))

	L2 := pair.NewLJCut(2)
	require.NoError(Te, L2.Settings([]string{"2.5", "2.0", "mix", "arithmetic"}))
	require.NoError(Te, D.Section("pair").Apply(L2, true))
	assert.Equal(Te, L.DataRecords(true), L2.DataRecords(true))

	S2 := pair.NewSMATB(1)
	require.NoError(Te, D.Section("smatb").Apply(S2, true))
	assert.Equal(Te, S.DataRecords(true), S2.DataRecords(true))

	B2 := bonded.NewBondHarmonic(1)
	require.NoError(Te, D.Section("bond").Apply(B2, false))
	assert.Equal(Te, B.DataRecords(true), B2.DataRecords(true))

	A2 := bonded.NewAngleQuartic(2)
	require.NoError(Te, D.Section("angle").Apply(A2, false))
	assert.InDelta(Te, A.EquilibriumAngle(2), A2.EquilibriumAngle(2), 1e-12)

	assert.Error(Te, D.Section("bond").Apply(bonded.NewAngleQuartic(1), false))
	assert.Error(Te, D.Section("pair").Apply(B2, false))
}
