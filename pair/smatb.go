/*
 * smatb.go, part of gomd.
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

	md "github.com/rmera/gomd"
)

//SMATB parameters, in table order.
const (
	smR0 = iota
	smP
	smQ
	smA
	smQSI
	smCutStart
	smCutEnd
	smNParams
)

//SMATB is the second-moment approximation to the tight-binding potential. The energy of atom i
//is
//
//	E_i = sum_j A exp(p(1-r_ij/r0)) - sqrt(sum_j QSI^2 exp(2q(1-r_ij/r0)))
//
//where both exponentials are replaced by quintic polynomials between the start and the
//end of the cutoff region. As the band term of an atom depends on all its neighbors, the
//forces are computed in two passes: the first one accumulates the band sums, which are
//then exchanged with the other ranks, and the second one computes the forces.
type SMATB struct {
	ntypes int
	t      *table
	rep    [][]Quintic //repulsive tails
	band   [][]Quintic //band tails, before squaring
	cutsq  [][]float64
	ready  [][]bool
	eb     md.Buffer
}

//NewSMATB returns an smatb style for ntypes atom types.
func NewSMATB(ntypes int) *SMATB {
	S := &SMATB{ntypes: ntypes, t: newTable(ntypes, smNParams), cutsq: square(ntypes)}
	S.rep = make([][]Quintic, ntypes+1)
	S.band = make([][]Quintic, ntypes+1)
	S.ready = make([][]bool, ntypes+1)
	for i := range S.rep {
		S.rep[i] = make([]Quintic, ntypes+1)
		S.band[i] = make([]Quintic, ntypes+1)
		S.ready[i] = make([]bool, ntypes+1)
	}
	return S
}

func (S *SMATB) Style() string { return "smatb" }

//Settings accepts no arguments.
func (S *SMATB) Settings(args []string) error {
	if len(args) > 0 {
		return md.NewConfigError("Settings", "smatb accepts no settings, got %v", args)
	}
	return nil
}

//Coeff takes "i j r0 p q A QSI cutoff_start cutoff_end".
func (S *SMATB) Coeff(args []string) error {
	ilo, ihi, jlo, jhi, vals, err := coeffArgs(args, S.ntypes, smNParams, smNParams)
	if err != nil {
		return md.ErrDecorate(err, "smatb")
	}
	if vals[smR0] <= 0 {
		return md.NewConfigError("Coeff", "smatb needs r0 > 0, got %g", vals[smR0])
	}
	if vals[smCutStart] <= 0 || vals[smCutEnd] <= vals[smCutStart] {
		return md.NewConfigError("Coeff", "smatb needs 0 < cutoff_start < cutoff_end, got %g %g", vals[smCutStart], vals[smCutEnd])
	}
	S.t.assign(ilo, ihi, jlo, jhi, vals)
	return nil
}

//InitOne builds the polynomial tails of the pair. There is no mixing, all pairs must be set.
func (S *SMATB) InitOne(i, j int) (float64, error) {
	if i > j {
		i, j = j, i
	}
	if !S.t.set[i][j] {
		return 0, md.NewConfigError("InitOne", "smatb coefficients for types %d %d are not set", i, j)
	}
	p := S.t.p[i][j]
	r0, cs, ce := p[smR0], p[smCutStart], p[smCutEnd]
	//repulsive term A exp(p(1-r/r0)) and band term QSI exp(q(1-r/r0)), with their derivatives at cs.
	ep := p[smA] * math.Exp(p[smP]*(1-cs/r0))
	rep := NewQuintic(cs, ce, ep, -p[smP]/r0*ep, p[smP]*p[smP]/(r0*r0)*ep)
	eq := p[smQSI] * math.Exp(p[smQ]*(1-cs/r0))
	band := NewQuintic(cs, ce, eq, -p[smQ]/r0*eq, p[smQ]*p[smQ]/(r0*r0)*eq)
	for _, ij := range [][2]int{{i, j}, {j, i}} {
		a, b := ij[0], ij[1]
		S.rep[a][b] = rep
		S.band[a][b] = band
		S.cutsq[a][b] = ce * ce
		S.ready[a][b] = true
	}
	S.t.symmetrize(i, j)
	return ce, nil
}

//bandTerm returns the contribution of a neighbor at distance r to the band sum.
func (S *SMATB) bandTerm(itype, jtype int, r float64) float64 {
	p := S.t.p[itype][jtype]
	if r < p[smCutStart] {
		return p[smQSI] * p[smQSI] * math.Exp(2*p[smQ]*(1-r/p[smR0]))
	}
	v, _ := S.band[itype][jtype].Eval(r)
	return v * v
}

//Compute adds the SMATB forces. It exchanges the band sums with the other ranks
//through ctx.Comm, which can only be nil for a system without ghosts.
func (S *SMATB) Compute(ctx *md.Context) error {
	defer ctx.Metrics.Start(md.StagePair)()
	sys := ctx.Sys
	if err := S.check(sys, ctx); err != nil {
		return md.ErrDecorate(err, "Compute")
	}
	list := ctx.List
	newton := ctx.Newton && list.Kind == md.HalfNewtonOn
	nlocal := sys.NLocal
	nall := sys.NAll()
	x := sys.X.Raw()
	th := ctx.Threads
	eb, err := S.eb.Zeroed(nall)
	if err != nil {
		return md.ErrDecorate(err, "Compute")
	}
	parts, err := th.Scalars(nall)
	if err != nil {
		return md.ErrDecorate(err, "Compute")
	}
	//first pass: band sums.
	th.For(list.Inum, func(ii, tid int) {
		part := parts[tid]
		i := list.IList[ii]
		xi := x[3*i : 3*i+3]
		itype := sys.Type[i]
		for _, n := range list.Rows[ii] {
			j := n.Index
			delx := xi[0] - x[3*j]
			dely := xi[1] - x[3*j+1]
			delz := xi[2] - x[3*j+2]
			rsq := delx*delx + dely*dely + delz*delz
			jtype := sys.Type[j]
			if rsq >= S.cutsq[itype][jtype] || rsq == 0 {
				continue
			}
			b := S.bandTerm(itype, jtype, math.Sqrt(rsq))
			part[i] += b
			if newton || j < nlocal {
				part[j] += b
			}
		}
	})
	md.SumScalars(eb, parts)
	if newton && sys.NGhost > 0 {
		stop := ctx.Metrics.Start(md.StageComm)
		err := ctx.Comm.Reverse(eb, 1)
		stop()
		if err != nil {
			return md.ErrDecorate(err, "Compute")
		}
	}
	accs, err := th.Accums(ctx.Tally, sys)
	if err != nil {
		return md.ErrDecorate(err, "Compute")
	}
	//the band energy, and the inverse of the square root of the band sum for the second pass.
	for i := 0; i < nlocal; i++ {
		root := math.Sqrt(eb[i])
		if root != 0 {
			eb[i] = 1 / root
		} else {
			eb[i] = 0
		}
		accs[0].EAtomTally(i, -root)
	}
	if sys.NGhost > 0 {
		stop := ctx.Metrics.Start(md.StageComm)
		err := ctx.Comm.Forward(eb, 1)
		stop()
		if err != nil {
			return md.ErrDecorate(err, "Compute")
		}
	}
	//second pass: forces and repulsive energy.
	th.For(list.Inum, func(ii, tid int) {
		a := accs[tid]
		i := list.IList[ii]
		xi := x[3*i : 3*i+3]
		itype := sys.Type[i]
		for _, n := range list.Rows[ii] {
			j := n.Index
			delx := xi[0] - x[3*j]
			dely := xi[1] - x[3*j+1]
			delz := xi[2] - x[3*j+2]
			rsq := delx*delx + dely*dely + delz*delz
			jtype := sys.Type[j]
			if rsq >= S.cutsq[itype][jtype] || rsq == 0 {
				continue
			}
			r := math.Sqrt(rsq)
			p := S.t.p[itype][jtype]
			var erep, fr, fb float64
			if r < p[smCutStart] {
				espo := 1 - r/p[smR0]
				erep = p[smA] * math.Exp(p[smP]*espo)
				fr = 2 * erep * p[smP] / p[smR0]
				fb = -p[smQSI] * p[smQSI] * math.Exp(2*p[smQ]*espo) * p[smQ] / p[smR0]
			} else {
				var d float64
				erep, d = S.rep[itype][jtype].Eval(r)
				fr = -2 * d
				bv, bd := S.band[itype][jtype].Eval(r)
				fb = bd * bv
			}
			jowned := newton || j < nlocal
			a.EAtomTally(i, erep)
			if jowned {
				a.EAtomTally(j, erep)
			}
			fpair := (fb*(eb[i]+eb[j]) + fr) / r
			a.AddForce(i, delx*fpair, dely*fpair, delz*fpair)
			if jowned {
				a.AddForce(j, -delx*fpair, -dely*fpair, -delz*fpair)
			}
			a.EvTally(i, j, nlocal, newton, 0, 0, fpair, delx, dely, delz)
		}
	})
	th.Reduce(accs, ctx.Tally, sys)
	return nil
}

func (S *SMATB) check(sys *md.System, ctx *md.Context) error {
	if sys.NTypes != S.ntypes {
		return md.NewConfigError("check", "smatb was set up for %d types, the system has %d", S.ntypes, sys.NTypes)
	}
	if ctx.List.Kind == md.Full {
		return md.NewConfigError("check", "smatb needs a half neighbor list")
	}
	if ctx.Comm == nil && sys.NGhost > 0 {
		return md.NewConfigError("check", "smatb needs a communication layer when there are ghost atoms")
	}
	for i := 1; i <= S.ntypes; i++ {
		for j := i; j <= S.ntypes; j++ {
			if !S.ready[i][j] {
				return md.NewConfigError("check", "smatb was not initialized for types %d %d", i, j)
			}
		}
	}
	return nil
}

//Request returns a half list.
func (S *SMATB) Request() md.ListRequest { return md.ListRequest{} }

//CommSize returns 1,1: the band sum of each atom is exchanged in both directions.
func (S *SMATB) CommSize() (forward, reverse int) { return 1, 1 }

//WriteRestartSettings writes the shift, mix and tail flags, which smatb does not use, as zeros.
func (S *SMATB) WriteRestartSettings(w io.Writer) error {
	if err := writeInts(w, 0, 0, 0); err != nil {
		return md.NewConfigError("WriteRestartSettings", "%v", err)
	}
	return nil
}

//ReadRestartSettings reads what WriteRestartSettings writes.
func (S *SMATB) ReadRestartSettings(r io.Reader) error {
	if _, err := readInts(r, 3); err != nil {
		return md.NewConfigError("ReadRestartSettings", "%v", err)
	}
	return nil
}

//WriteRestart writes the settings and then r0, p, q, A, QSI and both cutoffs of every pair set.
func (S *SMATB) WriteRestart(w io.Writer) error {
	if err := S.WriteRestartSettings(w); err != nil {
		return err
	}
	return md.ErrDecorate(S.t.write(w), "smatb")
}

//ReadRestart reads what WriteRestart writes.
func (S *SMATB) ReadRestart(r io.Reader) error {
	if err := S.ReadRestartSettings(r); err != nil {
		return err
	}
	return md.ErrDecorate(S.t.read(r), "smatb")
}

//DataRecords returns the parameters per type, or per pair if all is true.
func (S *SMATB) DataRecords(all bool) []md.DataRecord {
	return S.t.records(all)
}
