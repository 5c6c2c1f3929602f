/*
 * buffer.go, part of gomd.
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

import "math"

//MaxBufferLen is the largest number of elements a Buffer can hold. Atom indexes
//are kept representable as 32-bit integers.
const MaxBufferLen = math.MaxInt32

//Buffer is a growable slice of floats used for per-atom scratch data. It grows
//geometrically, so repeated small increases in the number of atoms do not
//cause a reallocation each time.
type Buffer struct {
	data []float64
}

//Cap returns the current capacity of the buffer.
func (B *Buffer) Cap() int {
	return cap(B.data)
}

//Reserve ensures that the buffer can hold at least capacity elements without
//reallocating. The contents are kept.
func (B *Buffer) Reserve(capacity int) error {
	if capacity > MaxBufferLen {
		return NewCapacityError("Buffer.Reserve", "requested %d elements, above the limit of %d", capacity, MaxBufferLen)
	}
	if capacity <= cap(B.data) {
		return nil
	}
	newcap := cap(B.data) + cap(B.data)/2 + 16
	if newcap < capacity {
		newcap = capacity
	}
	if newcap > MaxBufferLen {
		newcap = MaxBufferLen
	}
	nd := make([]float64, len(B.data), newcap)
	copy(nd, B.data)
	B.data = nd
	return nil
}

//Ensure returns a slice of size elements backed by the buffer. Elements that
//were in the buffer before keep their values.
func (B *Buffer) Ensure(size int) ([]float64, error) {
	if err := B.Reserve(size); err != nil {
		return nil, errDecorate(err, "Buffer.Ensure")
	}
	B.data = B.data[:size]
	return B.data, nil
}

//Zeroed is like Ensure, but all the returned elements are set to zero.
func (B *Buffer) Zeroed(size int) ([]float64, error) {
	d, err := B.Ensure(size)
	if err != nil {
		return nil, errDecorate(err, "Buffer.Zeroed")
	}
	for i := range d {
		d[i] = 0
	}
	return d, nil
}

//Data returns the current contents of the buffer.
func (B *Buffer) Data() []float64 {
	return B.data
}
