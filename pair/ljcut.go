/*
 * ljcut.go, part of gomd.
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
	"io"
	"math"
	"strconv"
	"strings"

	md "github.com/rmera/gomd"
)

//LJ parameters, in table order.
const (
	ljEps = iota
	ljSigma
	ljCut
	ljNParams
)

//LJCut is the 12-6 Lennard-Jones potential, truncated at a cutoff. Optionally,
//the energy is shifted to zero at the cutoff, or taken smoothly to zero with a quintic
//polynomial starting at an inner cutoff.
type LJCut struct {
	ntypes    int
	cutGlobal float64
	inner     float64 //0 if no smoothing
	mix       MixRule
	shift     bool
	t         *table
	lj1, lj2  [][]float64
	lj3, lj4  [][]float64
	offset    [][]float64
	cutsq     [][]float64
	smooth    [][]Quintic //Start == 0 if the pair is not smoothed
	ready     [][]bool
	cutSet    [][]bool //the pair was given its own cutoff
}

//NewLJCut returns an lj/cut style for ntypes atom types.
func NewLJCut(ntypes int) *LJCut {
	L := &LJCut{ntypes: ntypes, t: newTable(ntypes, ljNParams)}
	L.lj1 = square(ntypes)
	L.lj2 = square(ntypes)
	L.lj3 = square(ntypes)
	L.lj4 = square(ntypes)
	L.offset = square(ntypes)
	L.cutsq = square(ntypes)
	L.smooth = make([][]Quintic, ntypes+1)
	L.ready = make([][]bool, ntypes+1)
	L.cutSet = make([][]bool, ntypes+1)
	for i := range L.smooth {
		L.smooth[i] = make([]Quintic, ntypes+1)
		L.ready[i] = make([]bool, ntypes+1)
		L.cutSet[i] = make([]bool, ntypes+1)
	}
	return L
}

func square(n int) [][]float64 {
	ret := make([][]float64, n+1)
	for i := range ret {
		ret[i] = make([]float64, n+1)
	}
	return ret
}

func (L *LJCut) Style() string { return "lj/cut" }

//Settings takes the global cutoff, optionally followed by an inner cutoff and the keywords
//"mix <rule>" and "shift yes|no".
func (L *LJCut) Settings(args []string) error {
	if len(args) < 1 {
		return md.NewConfigError("Settings", "lj/cut needs a global cutoff")
	}
	cut, err := strconv.ParseFloat(args[0], 64)
	if err != nil || cut <= 0 {
		return md.NewConfigError("Settings", "invalid global cutoff %q", args[0])
	}
	inner := 0.0
	rest := args[1:]
	if len(rest) > 0 {
		if v, err := strconv.ParseFloat(rest[0], 64); err == nil {
			if v <= 0 || v >= cut {
				return md.NewConfigError("Settings", "inner cutoff %g must be in (0, %g)", v, cut)
			}
			inner = v
			rest = rest[1:]
		}
	}
	mix, shift := L.mix, L.shift
	for len(rest) > 0 {
		if len(rest) < 2 {
			return md.NewConfigError("Settings", "keyword %q needs a value", rest[0])
		}
		switch strings.ToLower(rest[0]) {
		case "mix":
			if mix, err = ParseMixRule(rest[1]); err != nil {
				return md.ErrDecorate(err, "Settings")
			}
		case "shift":
			switch strings.ToLower(rest[1]) {
			case "yes":
				shift = true
			case "no":
				shift = false
			default:
				return md.NewConfigError("Settings", "shift must be yes or no, got %q", rest[1])
			}
		default:
			return md.NewConfigError("Settings", "unknown keyword %q", rest[0])
		}
		rest = rest[2:]
	}
	if inner > 0 && shift {
		md.Warnf("lj/cut: energy shift ignored, the inner cutoff already takes the energy to zero")
	}
	L.cutGlobal, L.inner, L.mix, L.shift = cut, inner, mix, shift
	//pairs without an explicit cutoff follow the global one.
	for i := 1; i <= L.ntypes; i++ {
		for j := i; j <= L.ntypes; j++ {
			if L.t.set[i][j] && !L.cutSet[i][j] {
				L.t.p[i][j][ljCut] = cut
			}
		}
	}
	return nil
}

//Coeff takes "i j epsilon sigma [cutoff]".
func (L *LJCut) Coeff(args []string) error {
	ilo, ihi, jlo, jhi, vals, err := coeffArgs(args, L.ntypes, 2, 3)
	if err != nil {
		return md.ErrDecorate(err, "lj/cut")
	}
	if vals[0] < 0 || vals[1] <= 0 {
		return md.NewConfigError("Coeff", "lj/cut needs epsilon >= 0 and sigma > 0, got %g %g", vals[0], vals[1])
	}
	cut := L.cutGlobal
	if len(vals) == 3 {
		if vals[2] <= 0 {
			return md.NewConfigError("Coeff", "lj/cut cutoff must be positive, got %g", vals[2])
		}
		cut = vals[2]
	}
	L.t.assign(ilo, ihi, jlo, jhi, []float64{vals[0], vals[1], cut})
	for i := ilo; i <= ihi; i++ {
		for j := imax(jlo, i); j <= jhi; j++ {
			L.cutSet[i][j] = len(vals) == 3
		}
	}
	return nil
}

//InitOne mixes the parameters of i,j if they were not given, and derives the
//constants used in Compute.
func (L *LJCut) InitOne(i, j int) (float64, error) {
	if i > j {
		i, j = j, i
	}
	p := L.t.p
	if !L.t.set[i][j] {
		if !L.t.set[i][i] || !L.t.set[j][j] {
			return 0, md.NewConfigError("InitOne", "lj/cut coefficients for types %d %d are not set and cannot be mixed", i, j)
		}
		p[i][j][ljEps] = L.mix.MixEnergy(p[i][i][ljEps], p[j][j][ljEps], p[i][i][ljSigma], p[j][j][ljSigma])
		p[i][j][ljSigma] = L.mix.MixDistance(p[i][i][ljSigma], p[j][j][ljSigma])
		p[i][j][ljCut] = L.mix.MixDistance(p[i][i][ljCut], p[j][j][ljCut])
	}
	eps, sig, cut := p[i][j][ljEps], p[i][j][ljSigma], p[i][j][ljCut]
	if cut <= 0 {
		return 0, md.NewConfigError("InitOne", "lj/cut has no cutoff for types %d %d", i, j)
	}
	s6 := math.Pow(sig, 6)
	s12 := s6 * s6
	lj1, lj2, lj3, lj4 := 48*eps*s12, 24*eps*s6, 4*eps*s12, 4*eps*s6
	offset := 0.0
	var q Quintic
	if L.inner > 0 {
		if L.inner >= cut {
			md.Warnf("lj/cut: inner cutoff %g is not below the cutoff %g of types %d %d, no smoothing for them", L.inner, cut, i, j)
		} else {
			f, f1, f2 := ljDerivatives(L.inner, lj3, lj4)
			q = NewQuintic(L.inner, cut, f, f1, f2)
		}
	}
	if q.Start == 0 && L.shift {
		ratio := sig / cut
		offset = 4 * eps * (math.Pow(ratio, 12) - math.Pow(ratio, 6))
	}
	for _, ij := range [][2]int{{i, j}, {j, i}} {
		a, b := ij[0], ij[1]
		L.lj1[a][b], L.lj2[a][b], L.lj3[a][b], L.lj4[a][b] = lj1, lj2, lj3, lj4
		L.offset[a][b] = offset
		L.cutsq[a][b] = cut * cut
		L.smooth[a][b] = q
		L.ready[a][b] = true
	}
	L.t.symmetrize(i, j)
	return cut, nil
}

//ljDerivatives returns the energy and its first two derivatives at r.
func ljDerivatives(r, lj3, lj4 float64) (e, e1, e2 float64) {
	r2inv := 1 / (r * r)
	r6inv := r2inv * r2inv * r2inv
	e = r6inv * (lj3*r6inv - lj4)
	e1 = r6inv * (-12*lj3*r6inv + 6*lj4) / r
	e2 = r6inv * (156*lj3*r6inv - 42*lj4) * r2inv
	return
}

//pair returns the energy and the force divided by r for a pair of types at squared
//distance rsq, which must be inside the cutoff.
func (L *LJCut) pair(itype, jtype int, rsq float64) (eng, fpair float64) {
	q := L.smooth[itype][jtype]
	if q.Start > 0 && rsq > q.Start*q.Start {
		r := math.Sqrt(rsq)
		v, d := q.Eval(r)
		return v, -d / r
	}
	r2inv := 1 / rsq
	r6inv := r2inv * r2inv * r2inv
	forcelj := r6inv * (L.lj1[itype][jtype]*r6inv - L.lj2[itype][jtype])
	eng = r6inv*(L.lj3[itype][jtype]*r6inv-L.lj4[itype][jtype]) - L.offset[itype][jtype]
	return eng, forcelj * r2inv
}

//Single returns the energy and the force divided by r of one pair.
func (L *LJCut) Single(i, j, itype, jtype int, rsq, factor float64) (eng, fforce float64) {
	if rsq >= L.cutsq[itype][jtype] || rsq == 0 {
		return 0, 0
	}
	e, f := L.pair(itype, jtype, rsq)
	return factor * e, factor * f
}

//Compute adds the Lennard-Jones forces for the pairs in the list.
func (L *LJCut) Compute(ctx *md.Context) error {
	defer ctx.Metrics.Start(md.StagePair)()
	S := ctx.Sys
	if err := L.check(S); err != nil {
		return md.ErrDecorate(err, "Compute")
	}
	accs, err := ctx.Threads.Accums(ctx.Tally, S)
	if err != nil {
		return md.ErrDecorate(err, "Compute")
	}
	list := ctx.List
	full := list.Kind == md.Full
	newton := ctx.Newton && list.Kind == md.HalfNewtonOn
	nlocal := S.NLocal
	x := S.X.Raw()
	inum := list.Inum
	ctx.Threads.For(inum, func(ii, tid int) {
		a := accs[tid]
		i := list.IList[ii]
		xi := x[3*i : 3*i+3]
		itype := S.Type[i]
		for _, n := range list.Rows[ii] {
			j := n.Index
			factor := ctx.SpecialFactor(n)
			delx := xi[0] - x[3*j]
			dely := xi[1] - x[3*j+1]
			delz := xi[2] - x[3*j+2]
			rsq := delx*delx + dely*dely + delz*delz
			jtype := S.Type[j]
			if rsq >= L.cutsq[itype][jtype] || rsq == 0 {
				continue
			}
			e, fpair := L.pair(itype, jtype, rsq)
			e *= factor
			fpair *= factor
			a.AddForce(i, delx*fpair, dely*fpair, delz*fpair)
			if full {
				a.EvTallyFull(i, e, 0, fpair, delx, dely, delz)
				continue
			}
			if newton || j < nlocal {
				a.AddForce(j, -delx*fpair, -dely*fpair, -delz*fpair)
			}
			a.EvTally(i, j, nlocal, newton, e, 0, fpair, delx, dely, delz)
		}
	})
	ctx.Threads.Reduce(accs, ctx.Tally, S)
	return nil
}

func (L *LJCut) check(S *md.System) error {
	if S.NTypes != L.ntypes {
		return md.NewConfigError("check", "lj/cut was set up for %d types, the system has %d", L.ntypes, S.NTypes)
	}
	for i := 1; i <= L.ntypes; i++ {
		for j := i; j <= L.ntypes; j++ {
			if !L.ready[i][j] {
				return md.NewConfigError("check", "lj/cut was not initialized for types %d %d", i, j)
			}
		}
	}
	return nil
}

//Request returns a half list.
func (L *LJCut) Request() md.ListRequest { return md.ListRequest{} }

//CommSize returns 0,0, as lj/cut needs no exchanges.
func (L *LJCut) CommSize() (forward, reverse int) { return 0, 0 }

//Cut returns the cutoff of a pair of types, or the global one before InitOne is called.
func (L *LJCut) Cut(i, j int) float64 {
	if L.ready[i][j] {
		return math.Sqrt(L.cutsq[i][j])
	}
	return L.cutGlobal
}

//WriteRestartSettings writes the global cutoff, the inner cutoff and the shift and mix flags.
func (L *LJCut) WriteRestartSettings(w io.Writer) error {
	if err := writeFloats(w, L.cutGlobal, L.inner); err != nil {
		return md.NewConfigError("WriteRestartSettings", "%v", err)
	}
	if err := writeInts(w, boolInt(L.shift), int32(L.mix)); err != nil {
		return md.NewConfigError("WriteRestartSettings", "%v", err)
	}
	return nil
}

//ReadRestartSettings reads what WriteRestartSettings writes.
func (L *LJCut) ReadRestartSettings(r io.Reader) error {
	f, err := readFloats(r, 2)
	if err != nil {
		return md.NewConfigError("ReadRestartSettings", "%v", err)
	}
	in, err := readInts(r, 2)
	if err != nil {
		return md.NewConfigError("ReadRestartSettings", "%v", err)
	}
	if in[1] < 0 || int(in[1]) >= len(mixNames) {
		return md.NewConfigError("ReadRestartSettings", "invalid mixing rule %d", in[1])
	}
	L.cutGlobal, L.inner = f[0], f[1]
	L.shift, L.mix = in[0] != 0, MixRule(in[1])
	return nil
}

//WriteRestart writes the settings and then epsilon, sigma and the cutoff of every pair set.
func (L *LJCut) WriteRestart(w io.Writer) error {
	if err := L.WriteRestartSettings(w); err != nil {
		return err
	}
	return md.ErrDecorate(L.t.write(w), "lj/cut")
}

//ReadRestart reads what WriteRestart writes. The cutoffs read count as given
//for each pair, so a later Settings call does not change them.
func (L *LJCut) ReadRestart(r io.Reader) error {
	if err := L.ReadRestartSettings(r); err != nil {
		return err
	}
	if err := L.t.read(r); err != nil {
		return md.ErrDecorate(err, "lj/cut")
	}
	for i := 1; i <= L.ntypes; i++ {
		for j := i; j <= L.ntypes; j++ {
			L.cutSet[i][j] = L.t.set[i][j]
		}
	}
	return nil
}

//DataRecords returns epsilon, sigma and the cutoff per type, or per pair if all is true.
func (L *LJCut) DataRecords(all bool) []md.DataRecord {
	return L.t.records(all)
}
