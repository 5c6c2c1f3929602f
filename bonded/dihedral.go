/*
 * dihedral.go, part of gomd.
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
	"io"
	"math"

	md "github.com/rmera/gomd"
	"gonum.org/v1/gonum/spatial/r3"
)

//DihedralHarmonic is the potential E = K[1 + d cos(n phi)], with d = ±1 and n >= 0.
type DihedralHarmonic struct {
	t *typeTable //K, d, n
}

func NewDihedralHarmonic(ntypes int) *DihedralHarmonic {
	return &DihedralHarmonic{t: newTypeTable(ntypes, 3)}
}

func (D *DihedralHarmonic) Style() string { return "harmonic" }

//Coeff takes a type range, K, d and n.
func (D *DihedralHarmonic) Coeff(args []string) error {
	lo, hi, v, err := D.t.parse(args)
	if err != nil {
		return md.ErrDecorate(err, "DihedralHarmonic.Coeff")
	}
	if v[0] < 0 {
		return md.NewConfigError("DihedralHarmonic.Coeff", "negative stiffness %g, use the sign to shift the minima", v[0])
	}
	if v[1] != 1 && v[1] != -1 {
		return md.NewConfigError("DihedralHarmonic.Coeff", "sign must be 1 or -1, got %g", v[1])
	}
	if v[2] < 0 || v[2] != math.Trunc(v[2]) {
		return md.NewConfigError("DihedralHarmonic.Coeff", "multiplicity must be a non-negative integer, got %g", v[2])
	}
	D.t.assign(lo, hi, v)
	return nil
}

func (D *DihedralHarmonic) Init() error {
	return md.ErrDecorate(D.t.init("dihedral harmonic"), "DihedralHarmonic.Init")
}

func (D *DihedralHarmonic) Multiplicity(dtype int) int { return int(D.t.p[dtype][2]) }

//Phi returns the dihedral angle defined by 4 positions, in (-pi, pi].
func Phi(x1, x2, x3, x4 r3.Vec) float64 {
	b1 := r3.Sub(x2, x1)
	b2 := r3.Sub(x3, x2)
	b3 := r3.Sub(x4, x3)
	m := r3.Cross(b1, b2)
	n := r3.Cross(b2, b3)
	return math.Atan2(r3.Norm(b2)*r3.Dot(b1, n), r3.Dot(m, n))
}

//phiGradient returns the derivatives of the dihedral angle with respect to the
//positions of the 4 atoms. ok is false for collinear atoms, where the angle is undefined.
func phiGradient(b1, b2, b3 r3.Vec) (g [4]r3.Vec, ok bool) {
	m := r3.Cross(b1, b2)
	n := r3.Cross(b2, b3)
	msq := r3.Dot(m, m)
	nsq := r3.Dot(n, n)
	b2sq := r3.Dot(b2, b2)
	if msq == 0 || nsq == 0 || b2sq == 0 {
		return g, false
	}
	lb2 := math.Sqrt(b2sq)
	g[0] = r3.Scale(-lb2/msq, m)
	g[3] = r3.Scale(lb2/nsq, n)
	p1 := r3.Dot(b1, b2) / b2sq
	p3 := r3.Dot(b3, b2) / b2sq
	g[1] = r3.Sub(r3.Scale(p1-1, g[0]), r3.Scale(p3, g[3]))
	g[2] = r3.Sub(r3.Scale(p3-1, g[3]), r3.Scale(p1, g[0]))
	return g, true
}

func (D *DihedralHarmonic) Compute(ctx *md.Context) error {
	S := ctx.Sys
	newton := ctx.NewtonBond
	pos := func(i int) r3.Vec {
		r := S.X.Row3(i)
		return r3.Vec{X: r[0], Y: r[1], Z: r[2]}
	}
	err := run(ctx, len(ctx.Dihedrals), func(k int, a *md.Accum) error {
		d := ctx.Dihedrals[k]
		p, err := D.t.params("dihedral harmonic", d.Type)
		if err != nil {
			return err
		}
		x1, x2, x3, x4 := pos(d.Atoms[0]), pos(d.Atoms[1]), pos(d.Atoms[2]), pos(d.Atoms[3])
		b1, b2, b3 := r3.Sub(x2, x1), r3.Sub(x3, x2), r3.Sub(x4, x3)
		g, ok := phiGradient(b1, b2, b3)
		if !ok {
			return nil
		}
		kk, sign, mult := p[0], p[1], p[2]
		phi := Phi(x1, x2, x3, x4)
		e := kk * (1 + sign*math.Cos(mult*phi))
		dedphi := -kk * sign * mult * math.Sin(mult*phi)
		var f [4][3]float64
		for c := range g {
			f[c] = [3]float64{-dedphi * g[c].X, -dedphi * g[c].Y, -dedphi * g[c].Z}
		}
		rel := [][3]float64{
			{-b1.X, -b1.Y, -b1.Z},
			{},
			{b2.X, b2.Y, b2.Z},
			{b2.X + b3.X, b2.Y + b3.Y, b2.Z + b3.Z},
		}
		idx := d.Atoms[:]
		apply(a, idx, f[:], S.NLocal, newton)
		a.EvTallyBonded(idx, S.NLocal, newton, e, rel, f[:])
		return nil
	})
	return md.ErrDecorate(err, "DihedralHarmonic.Compute")
}

func (D *DihedralHarmonic) WriteRestartSettings(w io.Writer) error { return nil }
func (D *DihedralHarmonic) ReadRestartSettings(r io.Reader) error  { return nil }
func (D *DihedralHarmonic) WriteRestart(w io.Writer) error         { return D.t.write(w) }
func (D *DihedralHarmonic) ReadRestart(r io.Reader) error          { return D.t.read(r) }
func (D *DihedralHarmonic) DataRecords(all bool) []md.DataRecord   { return D.t.records() }
