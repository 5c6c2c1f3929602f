/*
 * restart.go, part of gomd.
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
	"encoding/binary"
	"io"

	md "github.com/rmera/gomd"
)

//Coefficients are stored in the native byte order of the machine that writes them.
var order = binary.NativeEndian

func writeFloats(w io.Writer, vals ...float64) error {
	return binary.Write(w, order, vals)
}

func readFloats(r io.Reader, n int) ([]float64, error) {
	vals := make([]float64, n)
	if err := binary.Read(r, order, vals); err != nil {
		return nil, err
	}
	return vals, nil
}

func writeInts(w io.Writer, vals ...int32) error {
	return binary.Write(w, order, vals)
}

func readInts(r io.Reader, n int) ([]int32, error) {
	vals := make([]int32, n)
	if err := binary.Read(r, order, vals); err != nil {
		return nil, err
	}
	return vals, nil
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

//write writes, for each pair i<=j in increasing order, a one-byte flag
//that says whether the pair was set, followed, if it was, by its parameters.
func (t *table) write(w io.Writer) error {
	for i := 1; i <= t.n; i++ {
		for j := i; j <= t.n; j++ {
			var flag byte
			if t.set[i][j] {
				flag = 1
			}
			if _, err := w.Write([]byte{flag}); err != nil {
				return md.NewConfigError("WriteRestart", "writing coefficients: %v", err)
			}
			if flag == 0 {
				continue
			}
			if err := writeFloats(w, t.p[i][j]...); err != nil {
				return md.NewConfigError("WriteRestart", "writing coefficients: %v", err)
			}
		}
	}
	return nil
}

//read reads the layout produced by write. Pairs not set in the file are unset
//in the table.
func (t *table) read(r io.Reader) error {
	np := len(t.p[0][0])
	flag := make([]byte, 1)
	for i := 1; i <= t.n; i++ {
		for j := i; j <= t.n; j++ {
			if _, err := io.ReadFull(r, flag); err != nil {
				return md.NewConfigError("ReadRestart", "reading flag of pair %d %d: %v", i, j, err)
			}
			t.set[i][j] = flag[0] != 0
			if !t.set[i][j] {
				continue
			}
			vals, err := readFloats(r, np)
			if err != nil {
				return md.NewConfigError("ReadRestart", "reading coefficients of pair %d %d: %v", i, j, err)
			}
			copy(t.p[i][j], vals)
		}
	}
	return nil
}

//records returns the parameters as data records. If all is false only the
//like pairs are returned, with J set to 0.
func (t *table) records(all bool) []md.DataRecord {
	var ret []md.DataRecord
	for i := 1; i <= t.n; i++ {
		if !all {
			ret = append(ret, md.DataRecord{I: i, Params: append([]float64(nil), t.p[i][i]...)})
			continue
		}
		for j := i; j <= t.n; j++ {
			ret = append(ret, md.DataRecord{I: i, J: j, Params: append([]float64(nil), t.p[i][j]...)})
		}
	}
	return ret
}
