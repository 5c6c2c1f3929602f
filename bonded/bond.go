/*
 * bond.go, part of gomd.
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

//BondHarmonic is the potential E = K(r-r0)^2
type BondHarmonic struct {
	t *typeTable //K, r0
}

//NewBondHarmonic returns a harmonic bond style for ntypes bond types.
func NewBondHarmonic(ntypes int) *BondHarmonic {
	return &BondHarmonic{t: newTypeTable(ntypes, 2)}
}

func (B *BondHarmonic) Style() string { return "harmonic" }

//Coeff takes a type range, K and r0.
func (B *BondHarmonic) Coeff(args []string) error {
	lo, hi, v, err := B.t.parse(args)
	if err != nil {
		return md.ErrDecorate(err, "BondHarmonic.Coeff")
	}
	if v[0] < 0 {
		return md.NewConfigError("BondHarmonic.Coeff", "negative stiffness %g", v[0])
	}
	if v[1] < 0 {
		return md.NewConfigError("BondHarmonic.Coeff", "negative equilibrium distance %g", v[1])
	}
	B.t.assign(lo, hi, v)
	return nil
}

func (B *BondHarmonic) Init() error {
	return md.ErrDecorate(B.t.init("bond harmonic"), "BondHarmonic.Init")
}

func (B *BondHarmonic) EquilibriumDistance(btype int) float64 {
	return B.t.p[btype][1]
}

//Single returns the energy of a bond of length r, and the force on the
//first atom divided by r.
func (B *BondHarmonic) Single(btype int, rsq float64) (eng, fforce float64) {
	p := B.t.p[btype]
	r := math.Sqrt(rsq)
	dr := r - p[1]
	rk := p[0] * dr
	if r > 0 {
		fforce = -2 * rk / r
	}
	return rk * dr, fforce
}

func (B *BondHarmonic) Compute(ctx *md.Context) error {
	S := ctx.Sys
	x := S.X.Raw()
	newton := ctx.NewtonBond
	err := run(ctx, len(ctx.Bonds), func(k int, a *md.Accum) error {
		b := ctx.Bonds[k]
		if _, err := B.t.params("bond harmonic", b.Type); err != nil {
			return err
		}
		i1, i2 := b.Atoms[0], b.Atoms[1]
		var del [3]float64
		for c := range del {
			del[c] = x[3*i1+c] - x[3*i2+c]
		}
		e, fb := B.Single(b.Type, del[0]*del[0]+del[1]*del[1]+del[2]*del[2])
		f := [][3]float64{{del[0] * fb, del[1] * fb, del[2] * fb}, {-del[0] * fb, -del[1] * fb, -del[2] * fb}}
		idx := b.Atoms[:]
		apply(a, idx, f, S.NLocal, newton)
		a.EvTallyBonded(idx, S.NLocal, newton, e, [][3]float64{del, {}}, f)
		return nil
	})
	return md.ErrDecorate(err, "BondHarmonic.Compute")
}

func (B *BondHarmonic) WriteRestartSettings(w io.Writer) error { return nil }
func (B *BondHarmonic) ReadRestartSettings(r io.Reader) error  { return nil }
func (B *BondHarmonic) WriteRestart(w io.Writer) error         { return B.t.write(w) }
func (B *BondHarmonic) ReadRestart(r io.Reader) error          { return B.t.read(r) }
func (B *BondHarmonic) DataRecords(all bool) []md.DataRecord   { return B.t.records() }
