/*
 * threads.go, part of gomd.
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

import (
	parallel "github.com/dgravesa/go-parallel/parallel"
	"gonum.org/v1/gonum/floats"
)

//Threads runs loops over atoms on several goroutines. Each goroutine writes
//its forces, energies and virials to its own Accum, which are added
//together at the end, so no two goroutines write to the same memory.
//The zero value, or a nil *Threads, runs everything serially.
type Threads struct {
	N      int
	accums []Accum
	fbuf   []Buffer
	ebuf   []Buffer
	vbuf   []Buffer
	sbuf   []Buffer
}

//NewThreads returns a Threads that uses n goroutines.
func NewThreads(n int) *Threads {
	if n < 1 {
		n = 1
	}
	return &Threads{N: n}
}

//Num returns the number of goroutines used.
func (T *Threads) Num() int {
	if T == nil || T.N < 1 {
		return 1
	}
	return T.N
}

//For calls fn(i, tid) for every i in [0,n). tid identifies the goroutine running the call
//and is always smaller than Num().
func (T *Threads) For(n int, fn func(i, tid int)) {
	if T.Num() == 1 || n < 2 {
		for i := 0; i < n; i++ {
			fn(i, 0)
		}
		return
	}
	parallel.WithNumGoroutines(T.Num()).For(n, fn)
}

//Accums returns one zeroed accumulator per goroutine, sized for the atoms of S and the
//quantities requested in t. t can be nil, in which case only forces are accumulated.
//With a single goroutine, the accumulator writes directly into S and t.
func (T *Threads) Accums(t *Tally, S *System) ([]*Accum, error) {
	n := T.Num()
	if T == nil {
		T = &Threads{}
	}
	if len(T.accums) != n {
		T.accums = make([]Accum, n)
		T.fbuf = make([]Buffer, n)
		T.ebuf = make([]Buffer, n)
		T.vbuf = make([]Buffer, n)
	}
	nall := S.NAll()
	ret := make([]*Accum, n)
	var err error
	for k := range T.accums {
		a := &T.accums[k]
		a.reset(t)
		a.EAtom, a.VAtom = nil, nil
		if n == 1 {
			a.F = S.F.Raw()
			if t != nil {
				a.EAtom, a.VAtom = t.EAtom, t.VAtom
			}
			ret[k] = a
			continue
		}
		if a.F, err = T.fbuf[k].Zeroed(3 * nall); err != nil {
			return nil, errDecorate(err, "Threads.Accums")
		}
		if t != nil && t.EAtom != nil {
			if a.EAtom, err = T.ebuf[k].Zeroed(nall); err != nil {
				return nil, errDecorate(err, "Threads.Accums")
			}
		}
		if t != nil && t.VAtom != nil {
			if a.VAtom, err = T.vbuf[k].Zeroed(6 * nall); err != nil {
				return nil, errDecorate(err, "Threads.Accums")
			}
		}
		ret[k] = a
	}
	return ret, nil
}

//Reduce adds the contents of the accumulators to S and t.
func (T *Threads) Reduce(accs []*Accum, t *Tally, S *System) {
	f := S.F.Raw()[:3*S.NAll()]
	for _, a := range accs {
		if len(accs) > 1 {
			floats.Add(f, a.F[:len(f)])
			if t != nil && a.EAtom != nil {
				floats.Add(t.EAtom, a.EAtom)
			}
			if t != nil && a.VAtom != nil {
				floats.Add(t.VAtom, a.VAtom)
			}
		}
		if t == nil {
			continue
		}
		t.Energy += a.Energy
		t.ECoul += a.ECoul
		for k := range t.Virial {
			t.Virial[k] += a.Virial[k]
		}
	}
}

//Scalars returns one zeroed array of size elements per goroutine, for
//per-atom quantities other than forces.
func (T *Threads) Scalars(size int) ([][]float64, error) {
	n := T.Num()
	if T == nil {
		T = &Threads{}
	}
	if len(T.sbuf) != n {
		T.sbuf = make([]Buffer, n)
	}
	ret := make([][]float64, n)
	var err error
	for k := range ret {
		if ret[k], err = T.sbuf[k].Zeroed(size); err != nil {
			return nil, errDecorate(err, "Threads.Scalars")
		}
	}
	return ret, nil
}

//SumScalars adds all the parts element-wise into dst.
func SumScalars(dst []float64, parts [][]float64) {
	for _, p := range parts {
		floats.Add(dst, p[:len(dst)])
	}
}
