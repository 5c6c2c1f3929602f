/*
 * angle.go, part of gomd.
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
)

const smallSin = 0.001

//angleKernel computes the energy of an angle term and the forces on the end atoms. del1 and del2
//are the positions of the end atoms relative to the vertex. dE returns the energy and its
//derivative for a deviation dtheta from the equilibrium angle. The angle is undefined if
//an end atom sits on the vertex, and such terms contribute nothing.
func angleKernel(del1, del2 [3]float64, theta0 float64, dE func(dtheta float64) (float64, float64)) (e float64, f1, f3 [3]float64) {
	rsq1 := del1[0]*del1[0] + del1[1]*del1[1] + del1[2]*del1[2]
	rsq2 := del2[0]*del2[0] + del2[1]*del2[1] + del2[2]*del2[2]
	if rsq1 == 0 || rsq2 == 0 {
		return 0, f1, f3
	}
	r1 := math.Sqrt(rsq1)
	r2 := math.Sqrt(rsq2)
	c := (del1[0]*del2[0] + del1[1]*del2[1] + del1[2]*del2[2]) / (r1 * r2)
	c = math.Max(-1, math.Min(1, c))
	s := math.Sqrt(1 - c*c)
	if s < smallSin {
		s = smallSin
	}
	e, de := dE(math.Acos(c) - theta0)
	a := -de / s
	a11 := a * c / rsq1
	a12 := -a / (r1 * r2)
	a22 := a * c / rsq2
	for k := 0; k < 3; k++ {
		f1[k] = a11*del1[k] + a12*del2[k]
		f3[k] = a22*del2[k] + a12*del1[k]
	}
	return e, f1, f3
}

//computeAngles runs the kernel over the angles in ctx.
func computeAngles(ctx *md.Context, t *typeTable, style string, dE func(p []float64, dtheta float64) (float64, float64)) error {
	S := ctx.Sys
	x := S.X.Raw()
	newton := ctx.NewtonBond
	return run(ctx, len(ctx.Angles), func(k int, a *md.Accum) error {
		an := ctx.Angles[k]
		p, err := t.params(style, an.Type)
		if err != nil {
			return err
		}
		i1, i2, i3 := an.Atoms[0], an.Atoms[1], an.Atoms[2]
		var del1, del2 [3]float64
		for c := 0; c < 3; c++ {
			del1[c] = x[3*i1+c] - x[3*i2+c]
			del2[c] = x[3*i3+c] - x[3*i2+c]
		}
		e, f1, f3 := angleKernel(del1, del2, p[0], func(d float64) (float64, float64) { return dE(p, d) })
		f2 := [3]float64{-f1[0] - f3[0], -f1[1] - f3[1], -f1[2] - f3[2]}
		f := [][3]float64{f1, f2, f3}
		idx := an.Atoms[:]
		apply(a, idx, f, S.NLocal, newton)
		a.EvTallyBonded(idx, S.NLocal, newton, e, [][3]float64{del1, {}, del2}, f)
		return nil
	})
}

//parseAngle reads the coefficients of an angle style whose first parameter is
//the equilibrium angle in degrees, and stores it in radians. The second parameter
//is the stiffness.
func parseAngle(t *typeTable, args []string, caller string) error {
	lo, hi, v, err := t.parse(args)
	if err != nil {
		return md.ErrDecorate(err, caller)
	}
	if v[0] < 0 || v[0] > 180 {
		return md.NewConfigError(caller, "equilibrium angle %g out of range [0,180]", v[0])
	}
	if v[1] < 0 {
		return md.NewConfigError(caller, "negative stiffness %g", v[1])
	}
	v[0] *= math.Pi / 180
	t.assign(lo, hi, v)
	return nil
}

func angleRecords(t *typeTable) []md.DataRecord {
	r := t.records()
	for _, d := range r {
		d.Params[0] *= 180 / math.Pi
	}
	return r
}

//AngleHarmonic is the potential E = K(theta-theta0)^2
type AngleHarmonic struct {
	t *typeTable //theta0, K
}

func NewAngleHarmonic(ntypes int) *AngleHarmonic {
	return &AngleHarmonic{t: newTypeTable(ntypes, 2)}
}

func (A *AngleHarmonic) Style() string { return "harmonic" }

//Coeff takes a type range, K and theta0 in degrees.
func (A *AngleHarmonic) Coeff(args []string) error {
	if len(args) == 3 {
		args = []string{args[0], args[2], args[1]}
	}
	return parseAngle(A.t, args, "AngleHarmonic.Coeff")
}

func (A *AngleHarmonic) Init() error {
	return md.ErrDecorate(A.t.init("angle harmonic"), "AngleHarmonic.Init")
}

func (A *AngleHarmonic) EquilibriumAngle(atype int) float64 { return A.t.p[atype][0] }

func (A *AngleHarmonic) Compute(ctx *md.Context) error {
	err := computeAngles(ctx, A.t, "angle harmonic", func(p []float64, d float64) (float64, float64) {
		tk := p[1] * d
		return tk * d, 2 * tk
	})
	return md.ErrDecorate(err, "AngleHarmonic.Compute")
}

func (A *AngleHarmonic) WriteRestartSettings(w io.Writer) error { return nil }
func (A *AngleHarmonic) ReadRestartSettings(r io.Reader) error  { return nil }
func (A *AngleHarmonic) WriteRestart(w io.Writer) error         { return A.t.write(w) }
func (A *AngleHarmonic) ReadRestart(r io.Reader) error          { return A.t.read(r) }

//DataRecords returns K and theta0 in degrees for each type.
func (A *AngleHarmonic) DataRecords(all bool) []md.DataRecord {
	r := angleRecords(A.t)
	for _, d := range r {
		d.Params[0], d.Params[1] = d.Params[1], d.Params[0]
	}
	return r
}

//AngleQuartic is the potential E = K2 d^2 + K3 d^3 + K4 d^4, with d = theta-theta0.
type AngleQuartic struct {
	t *typeTable //theta0, K2, K3, K4
}

func NewAngleQuartic(ntypes int) *AngleQuartic {
	return &AngleQuartic{t: newTypeTable(ntypes, 4)}
}

func (A *AngleQuartic) Style() string { return "quartic" }

//Coeff takes a type range, theta0 in degrees, K2, K3 and K4.
func (A *AngleQuartic) Coeff(args []string) error {
	return parseAngle(A.t, args, "AngleQuartic.Coeff")
}

func (A *AngleQuartic) Init() error {
	return md.ErrDecorate(A.t.init("angle quartic"), "AngleQuartic.Init")
}

func (A *AngleQuartic) EquilibriumAngle(atype int) float64 { return A.t.p[atype][0] }

func (A *AngleQuartic) Compute(ctx *md.Context) error {
	err := computeAngles(ctx, A.t, "angle quartic", func(p []float64, d float64) (float64, float64) {
		d2 := d * d
		d3 := d2 * d
		return p[1]*d2 + p[2]*d3 + p[3]*d3*d, 2*p[1]*d + 3*p[2]*d2 + 4*p[3]*d3
	})
	return md.ErrDecorate(err, "AngleQuartic.Compute")
}

func (A *AngleQuartic) WriteRestartSettings(w io.Writer) error { return nil }
func (A *AngleQuartic) ReadRestartSettings(r io.Reader) error  { return nil }
func (A *AngleQuartic) WriteRestart(w io.Writer) error         { return A.t.write(w) }
func (A *AngleQuartic) ReadRestart(r io.Reader) error          { return A.t.read(r) }

//DataRecords returns theta0 in degrees, K2, K3 and K4 for each type.
func (A *AngleQuartic) DataRecords(all bool) []md.DataRecord { return angleRecords(A.t) }
