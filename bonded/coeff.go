/*
 * coeff.go, part of gomd.
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

package bonded

import (
	"encoding/binary"
	"io"

	md "github.com/rmera/gomd"
)

//typeTable holds the parameters of each bonded type, indexed from 1.
type typeTable struct {
	n   int
	set []bool
	p   [][]float64
}

func newTypeTable(ntypes, nparams int) *typeTable {
	t := &typeTable{n: ntypes, set: make([]bool, ntypes+1), p: make([][]float64, ntypes+1)}
	for i := range t.p {
		t.p[i] = make([]float64, nparams)
	}
	return t
}

//parse validates "type-range p1 p2 ..." and returns the range and the parameters.
//Nothing is modified.
func (t *typeTable) parse(args []string) (lo, hi int, vals []float64, err error) {
	np := len(t.p[0])
	if len(args) != np+1 {
		return 0, 0, nil, md.NewConfigError("Coeff", "expected %d arguments, got %d", np+1, len(args))
	}
	if lo, hi, err = md.TypeRange(args[0], t.n); err != nil {
		return 0, 0, nil, err
	}
	if vals, err = md.Floats(args[1:]); err != nil {
		return 0, 0, nil, err
	}
	return lo, hi, vals, nil
}

func (t *typeTable) assign(lo, hi int, vals []float64) {
	for i := lo; i <= hi; i++ {
		copy(t.p[i], vals)
		t.set[i] = true
	}
}

//init fails if any type was not given coefficients.
func (t *typeTable) init(style string) error {
	for i := 1; i <= t.n; i++ {
		if !t.set[i] {
			return md.NewConfigError("Init", "%s coefficients for type %d are not set", style, i)
		}
	}
	return nil
}

//params returns the parameters of type t, or an error if t is out of range.
func (t *typeTable) params(style string, typ int) ([]float64, error) {
	if typ < 1 || typ > t.n {
		return nil, md.NewConfigError("Compute", "%s has %d types but a term of type %d was found", style, t.n, typ)
	}
	return t.p[typ], nil
}

//write writes, for each type, a one-byte flag followed, if the type is set, by its
//parameters in the native byte order.
func (t *typeTable) write(w io.Writer) error {
	for i := 1; i <= t.n; i++ {
		var flag byte
		if t.set[i] {
			flag = 1
		}
		if _, err := w.Write([]byte{flag}); err != nil {
			return md.NewConfigError("WriteRestart", "%v", err)
		}
		if flag == 0 {
			continue
		}
		if err := binary.Write(w, binary.NativeEndian, t.p[i]); err != nil {
			return md.NewConfigError("WriteRestart", "%v", err)
		}
	}
	return nil
}

func (t *typeTable) read(r io.Reader) error {
	flag := make([]byte, 1)
	for i := 1; i <= t.n; i++ {
		if _, err := io.ReadFull(r, flag); err != nil {
			return md.NewConfigError("ReadRestart", "reading type %d: %v", i, err)
		}
		t.set[i] = flag[0] != 0
		if !t.set[i] {
			continue
		}
		if err := binary.Read(r, binary.NativeEndian, t.p[i]); err != nil {
			return md.NewConfigError("ReadRestart", "reading type %d: %v", i, err)
		}
	}
	return nil
}

func (t *typeTable) records() []md.DataRecord {
	ret := make([]md.DataRecord, 0, t.n)
	for i := 1; i <= t.n; i++ {
		ret = append(ret, md.DataRecord{I: i, Params: append([]float64(nil), t.p[i]...)})
	}
	return ret
}

//run calls fn for each of n terms, spread over the goroutines of ctx, and
//adds the results to the System and Tally of ctx.
func run(ctx *md.Context, n int, fn func(k int, a *md.Accum) error) error {
	if n == 0 {
		return nil
	}
	accs, err := ctx.Threads.Accums(ctx.Tally, ctx.Sys)
	if err != nil {
		return err
	}
	errs := make([]error, len(accs))
	ctx.Threads.For(n, func(k, tid int) {
		if errs[tid] != nil {
			return
		}
		errs[tid] = fn(k, accs[tid])
	})
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	ctx.Threads.Reduce(accs, ctx.Tally, ctx.Sys)
	return nil
}

//apply adds the forces f to the atoms idx, skipping ghosts if newton is false.
func apply(a *md.Accum, idx []int, f [][3]float64, nlocal int, newton bool) {
	for k, i := range idx {
		if newton || i < nlocal {
			a.AddForce(i, f[k][0], f[k][1], f[k][2])
		}
	}
}
