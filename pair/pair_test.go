/*
 * pair_test.go, part of gomd.
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
	"bytes"
	"errors"
	"math"
	"testing"

	md "github.com/rmera/gomd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestQuinticMatchesAtBothEnds(Te *testing.T) {
	f := func(r float64) float64 { return 3 * math.Exp(-2*r) }
	q := NewQuintic(1.5, 2.5, f(1.5), -2*f(1.5), 4*f(1.5))
	v, d := q.Eval(1.5)
	assert.InDelta(Te, f(1.5), v, 1e-12)
	assert.InDelta(Te, -2*f(1.5), d, 1e-12)
	assert.InDelta(Te, 4*f(1.5), q.Second(1.5), 1e-10)
	v, d = q.Eval(2.5)
	assert.Equal(Te, 0.0, v)
	assert.Equal(Te, 0.0, d)
	assert.Equal(Te, 0.0, q.Second(2.5))
}

func TestSMATBTailContinuity(Te *testing.T) {
	s := copper(Te)().(*SMATB)
	_, err := s.InitOne(1, 1)
	require.NoError(Te, err)
	p := s.t.p[1][1]
	cs := p[smCutStart]
	rep := p[smA] * math.Exp(p[smP]*(1-cs/p[smR0]))
	v, d := s.rep[1][1].Eval(cs)
	assert.InDelta(Te, rep, v, 1e-12)
	assert.InDelta(Te, -p[smP]/p[smR0]*rep, d, 1e-12)
	band := p[smQSI] * math.Exp(p[smQ]*(1-cs/p[smR0]))
	v, d = s.band[1][1].Eval(cs)
	assert.InDelta(Te, band, v, 1e-12)
	assert.InDelta(Te, -p[smQ]/p[smR0]*band, d, 1e-12)
	//the band term is the same on both sides of the start of the tail.
	assert.InDelta(Te, s.bandTerm(1, 1, cs-1e-9), s.bandTerm(1, 1, cs+1e-9), 1e-8)
}

func TestInitOneSymmetry(Te *testing.T) {
	L := NewLJCut(3)
	require.NoError(Te, L.Settings([]string{"2.5", "mix", "arithmetic"}))
	require.NoError(Te, L.Coeff([]string{"1", "1", "1.0", "1.0"}))
	require.NoError(Te, L.Coeff([]string{"2", "2", "0.5", "1.2", "3.0"}))
	require.NoError(Te, L.Coeff([]string{"3", "3", "0.2", "0.8"}))
	require.NoError(Te, L.Coeff([]string{"1", "3", "0.7", "0.9", "2.0"}))
	S := NewSMATB(2)
	require.NoError(Te, S.Coeff([]string{"*", "*", "2.5562", "10.55", "2.43", "0.0894", "1.2799", "4.08", "5.0"}))
	require.NoError(Te, S.Coeff([]string{"1", "2", "2.6", "10.0", "2.5", "0.09", "1.3", "4.0", "5.2"}))
	for _, p := range []md.Pair{L, S} {
		n := 3
		if p == md.Pair(S) {
			n = 2
		}
		for i := 1; i <= n; i++ {
			for j := 1; j <= n; j++ {
				cij, err := p.InitOne(i, j)
				require.NoError(Te, err)
				cji, err := p.InitOne(j, i)
				require.NoError(Te, err)
				assert.Equal(Te, cij, cji, "%s %d %d", p.Style(), i, j)
			}
		}
	}
	//mixed cutoff and parameters of lj/cut 1-2, arithmetic rule.
	c, err := L.InitOne(1, 2)
	require.NoError(Te, err)
	assert.InDelta(Te, 2.75, c, 1e-12)
	assert.InDelta(Te, 1.1, L.t.p[1][2][ljSigma], 1e-12)
	assert.InDelta(Te, math.Sqrt(0.5), L.t.p[1][2][ljEps], 1e-12)
	//explicit pair is not mixed
	c, err = L.InitOne(3, 1)
	require.NoError(Te, err)
	assert.Equal(Te, 2.0, c)
}

func TestMixRules(Te *testing.T) {
	r, err := ParseMixRule("SixthPower")
	require.NoError(Te, err)
	assert.Equal(Te, SixthPower, r)
	assert.InDelta(Te, 1.0, r.MixDistance(1, 1), 1e-12)
	assert.InDelta(Te, 2.0, r.MixEnergy(2, 2, 1, 1), 1e-12)
	assert.InDelta(Te, 2.0, Geometric.MixDistance(1, 4), 1e-12)
	_, err = ParseMixRule("harmonic")
	assert.Error(Te, err)
}

//twoAtoms returns a system of two atoms at distance r along a generic direction, and the half list
//containing the pair.
func twoAtoms(r float64) (*md.System, *md.NeighList) {
	dir := r3.Unit(r3.Vec{X: 1, Y: 2, Z: -0.5})
	atoms := []md.Atom{{Tag: 1, Type: 1}, {Tag: 2, Type: 1, X: r3.Scale(r, dir)}}
	S := md.FromAtoms(atoms, 2, 1, nil)
	L := &md.NeighList{Kind: md.HalfNewtonOn, IList: []int{0, 1}, Inum: 2, Rows: [][]md.Neighbor{{{Index: 1}}, {}}}
	return S, L
}

func lj(Te *testing.T, settings ...string) *LJCut {
	L := NewLJCut(1)
	require.NoError(Te, L.Settings(settings))
	require.NoError(Te, L.Coeff([]string{"1", "1", "1.0", "1.0"}))
	_, err := L.InitOne(1, 1)
	require.NoError(Te, err)
	return L
}

func TestLJNewtonThirdLaw(Te *testing.T) {
	for _, settings := range [][]string{{"2.5"}, {"2.5", "shift", "yes"}, {"2.5", "2.0"}} {
		L := lj(Te, settings...)
		for _, r := range []float64{0.95, 1.12, 1.5, 2.1, 2.45} {
			S, list := twoAtoms(r)
			ctx := &md.Context{Sys: S, List: list, Newton: true}
			require.NoError(Te, L.Compute(ctx))
			f1, f2 := S.F.Vec(0), S.F.Vec(1)
			assert.InDelta(Te, 0, r3.Norm(r3.Add(f1, f2)), 1e-12, "r=%g %v", r, settings)
			assert.Greater(Te, r3.Norm(f1), 0.0)
		}
	}
}

func TestLJCutoffExample(Te *testing.T) {
	L := lj(Te, "2.5")
	rc := 2.5
	S, list := twoAtoms(0.9 * rc)
	var t md.Tally
	require.NoError(Te, t.Setup(md.EGlobal, md.VGlobal, S.NAll(), false))
	require.NoError(Te, L.Compute(&md.Context{Sys: S, List: list, Tally: &t}))
	assert.Greater(Te, r3.Norm(S.F.Vec(0)), 0.0)
	assert.NotEqual(Te, 0.0, t.Energy)

	S, list = twoAtoms(1.1 * rc)
	require.NoError(Te, t.Setup(md.EGlobal, md.VGlobal, S.NAll(), false))
	require.NoError(Te, L.Compute(&md.Context{Sys: S, List: list, Tally: &t}))
	assert.Equal(Te, r3.Vec{}, S.F.Vec(0))
	assert.Equal(Te, r3.Vec{}, S.F.Vec(1))
	assert.Equal(Te, 0.0, t.Energy)
	assert.Equal(Te, [6]float64{}, t.Virial)
}

func TestLJSmoothing(Te *testing.T) {
	L := lj(Te, "2.5", "2.0")
	const h = 1e-7
	e1, f1 := L.Single(0, 1, 1, 1, (2.0-h)*(2.0-h), 1)
	e2, f2 := L.Single(0, 1, 1, 1, (2.0+h)*(2.0+h), 1)
	assert.InDelta(Te, e1, e2, 1e-6)
	assert.InDelta(Te, f1, f2, 1e-5)
	e, f := L.Single(0, 1, 1, 1, (2.5-h)*(2.5-h), 1)
	assert.InDelta(Te, 0, e, 1e-12)
	assert.InDelta(Te, 0, f, 1e-10)
	//shifted potential goes to zero at the cutoff, but its force does not
	S := lj(Te, "2.5", "shift", "yes")
	e, f = S.Single(0, 1, 1, 1, (2.5-h)*(2.5-h), 1)
	assert.InDelta(Te, 0, e, 1e-6)
	assert.Less(Te, f, 0.0)
	//the special factor scales everything
	e, f = S.Single(0, 1, 1, 1, 1.2, 0.5)
	e0, f0 := S.Single(0, 1, 1, 1, 1.2, 1)
	assert.InDelta(Te, 0.5*e0, e, 1e-14)
	assert.InDelta(Te, 0.5*f0, f, 1e-14)
}

func TestCoincidentAtoms(Te *testing.T) {
	smatb := copper(Te)()
	_, err := smatb.InitOne(1, 1)
	require.NoError(Te, err)
	for _, style := range []md.Pair{lj(Te, "2.5"), lj(Te, "2.5", "2.0"), smatb} {
		S, list := twoAtoms(0)
		var t md.Tally
		require.NoError(Te, t.Setup(md.EGlobal, md.VGlobal, S.NAll(), false))
		require.NoError(Te, style.Compute(&md.Context{Sys: S, List: list, Newton: true, Tally: &t}))
		assert.Equal(Te, r3.Vec{}, S.F.Vec(0), style.Style())
		assert.Equal(Te, r3.Vec{}, S.F.Vec(1), style.Style())
		assert.Equal(Te, 0.0, t.Energy, style.Style())
		assert.Equal(Te, [6]float64{}, t.Virial, style.Style())
	}
	e, f := lj(Te, "2.5").Single(0, 1, 1, 1, 0, 1)
	assert.Zero(Te, e)
	assert.Zero(Te, f)
}

func TestFullListMatchesHalf(Te *testing.T) {
	L := lj(Te, "2.5")
	S, half := twoAtoms(1.3)
	var th md.Tally
	require.NoError(Te, th.Setup(md.EGlobal, md.VGlobal, 2, false))
	require.NoError(Te, L.Compute(&md.Context{Sys: S, List: half, Tally: &th}))
	fhalf := S.F.Vec(0)
	S2, _ := twoAtoms(1.3)
	full := &md.NeighList{Kind: md.Full, IList: []int{0, 1}, Inum: 2, Rows: [][]md.Neighbor{{{Index: 1}}, {{Index: 0}}}}
	var tf md.Tally
	require.NoError(Te, tf.Setup(md.EGlobal, md.VGlobal, 2, false))
	require.NoError(Te, L.Compute(&md.Context{Sys: S2, List: full, Tally: &tf}))
	assert.InDelta(Te, 0, r3.Norm(r3.Sub(fhalf, S2.F.Vec(0))), 1e-12)
	assert.InDelta(Te, th.Energy, tf.Energy, 1e-12)
	assert.InDeltaSlice(Te, th.Virial[:], tf.Virial[:], 1e-12)
}

func TestCoeffValidation(Te *testing.T) {
	L := NewLJCut(2)
	require.NoError(Te, L.Settings([]string{"2.5"}))
	for _, bad := range [][]string{
		{"1", "1", "1.0"},
		{"1", "3", "1.0", "1.0"},
		{"1", "1", "1.0", "-1.0"},
		{"2", "1", "1.0", "1.0"},
		{"1", "1", "x", "1.0"},
		{"1", "1", "1.0", "1.0", "2.0", "3.0"},
	} {
		err := L.Coeff(bad)
		require.Error(Te, err, "%v", bad)
		assert.True(Te, errors.Is(err, md.ErrConfig))
	}
	for i := 1; i <= 2; i++ {
		for j := 1; j <= 2; j++ {
			assert.False(Te, L.t.set[i][j], "pair %d %d set by a failed call", i, j)
		}
	}
	_, err := L.InitOne(1, 2)
	assert.Error(Te, err)
	assert.Error(Te, L.Settings([]string{"2.5", "3.0"}))
	assert.Error(Te, L.Settings([]string{"2.5", "mix"}))
	assert.Error(Te, L.Settings([]string{}))

	S := NewSMATB(1)
	assert.Error(Te, S.Settings([]string{"1"}))
	assert.NoError(Te, S.Settings(nil))
	assert.Error(Te, S.Coeff([]string{"1", "1", "2.5"}))
	assert.Error(Te, S.Coeff([]string{"1", "1", "2.5562", "10.55", "2.43", "0.0894", "1.2799", "5", "4"}))
	_, err = S.InitOne(1, 1)
	assert.Error(Te, err)
}

func TestLJSettingsCutoffs(Te *testing.T) {
	L := NewLJCut(3)
	require.NoError(Te, L.Coeff([]string{"1", "1", "1.0", "1.0"}))
	require.NoError(Te, L.Settings([]string{"2.5"}))
	require.NoError(Te, L.Coeff([]string{"2", "2", "1.0", "1.0"}))
	require.NoError(Te, L.Coeff([]string{"3", "3", "1.0", "1.0", "1.8"}))
	require.NoError(Te, L.Settings([]string{"3.0"}))
	for _, c := range []struct {
		i    int
		want float64
	}{{1, 3.0}, {2, 3.0}, {3, 1.8}} {
		cut, err := L.InitOne(c.i, c.i)
		require.NoError(Te, err)
		assert.Equal(Te, c.want, cut, "type %d", c.i)
	}
	//an explicit cutoff survives a restart and later settings
	var buf bytes.Buffer
	require.NoError(Te, L.WriteRestart(&buf))
	L2 := NewLJCut(3)
	require.NoError(Te, L2.ReadRestart(&buf))
	require.NoError(Te, L2.Settings([]string{"2.0"}))
	cut, err := L2.InitOne(3, 3)
	require.NoError(Te, err)
	assert.Equal(Te, 1.8, cut)
}

func TestRestartLayout(Te *testing.T) {
	L := NewLJCut(2)
	require.NoError(Te, L.Settings([]string{"2.5", "mix", "sixthpower", "shift", "yes"}))
	require.NoError(Te, L.Coeff([]string{"1", "1", "1.0", "1.0"}))
	require.NoError(Te, L.Coeff([]string{"2", "2", "0.5", "1.5", "3.0"}))
	var buf bytes.Buffer
	require.NoError(Te, L.WriteRestart(&buf))
	//settings: two floats and two ints. Pairs 1-1 and 2-2 are set, 1-2 is not.
	assert.Equal(Te, 2*8+2*4+3+2*3*8, buf.Len())
	L2 := NewLJCut(2)
	require.NoError(Te, L2.ReadRestart(&buf))
	assert.Equal(Te, L.DataRecords(false), L2.DataRecords(false))
	assert.Equal(Te, SixthPower, L2.mix)
	assert.True(Te, L2.shift)
	assert.False(Te, L2.t.set[1][2])

	S := copper(Te)().(*SMATB)
	buf.Reset()
	require.NoError(Te, S.WriteRestart(&buf))
	assert.Equal(Te, 3*4+1+7*8, buf.Len())
	S2 := NewSMATB(1)
	require.NoError(Te, S2.ReadRestart(&buf))
	assert.Equal(Te, S.DataRecords(true), S2.DataRecords(true))
	_, err := S2.InitOne(1, 1)
	assert.NoError(Te, err)

	err = S2.ReadRestart(bytes.NewReader([]byte{0, 0, 0, 0}))
	assert.Error(Te, err)
}

func TestSMATBForcesAreEnergyGradient(Te *testing.T) {
	cluster, _ := crystal(Te, 3.615, 2, 11)
	for i := range cluster {
		cluster[i].X = r3.Add(cluster[i].X, r3.Vec{X: 15, Y: 15, Z: 15})
	}
	box, err := md.NewBox(r3.Vec{}, r3.Vec{X: 40, Y: 40, Z: 40})
	require.NoError(Te, err)
	o := runOpts{grid: [3]int{1, 1, 1}, newton: true}
	ref := evaluate(Te, cluster, box, 1, copper(Te), o)
	const h = 1e-5
	for _, k := range []int{0, 5, 17} {
		for d := 0; d < 3; d++ {
			plus := append([]md.Atom(nil), cluster...)
			minus := append([]md.Atom(nil), cluster...)
			plus[k].X = md.SetComp(plus[k].X, d, md.Comp(plus[k].X, d)+h)
			minus[k].X = md.SetComp(minus[k].X, d, md.Comp(minus[k].X, d)-h)
			ep := evaluate(Te, plus, box, 1, copper(Te), o).energy
			em := evaluate(Te, minus, box, 1, copper(Te), o).energy
			fd := -(ep - em) / (2 * h)
			assert.InDelta(Te, fd, md.Comp(ref.forces[cluster[k].Tag], d), 1e-5, "atom %d dim %d", k, d)
		}
	}
}

func TestSMATBDecompositions(Te *testing.T) {
	atoms, box := crystal(Te, 3.615, 3, 5)
	ref := evaluate(Te, atoms, box, 1, copper(Te), runOpts{grid: [3]int{1, 1, 1}, newton: true})
	assert.Less(Te, ref.energy, 0.0)
	cases := []runOpts{
		{grid: [3]int{1, 1, 1}, newton: false},
		{grid: [3]int{2, 1, 1}, newton: true},
		{grid: [3]int{2, 1, 1}, newton: false},
		{grid: [3]int{1, 1, 1}, newton: true, threads: 4},
		{grid: [3]int{2, 1, 1}, newton: true, threads: 3},
	}
	for _, o := range cases {
		res := evaluate(Te, atoms, box, 1, copper(Te), o)
		assert.InDelta(Te, ref.energy, res.energy, 1e-8, "%+v", o)
		assert.InDeltaSlice(Te, ref.virial[:], res.virial[:], 1e-7, "%+v", o)
		for tag, f := range ref.forces {
			assert.InDelta(Te, 0, r3.Norm(r3.Sub(f, res.forces[tag])), 1e-9, "atom %d %+v", tag, o)
		}
	}
}

func TestSMATBExchangeIsNeeded(Te *testing.T) {
	atoms, box := crystal(Te, 3.615, 3, 5)
	ref := evaluate(Te, atoms, box, 1, copper(Te), runOpts{grid: [3]int{2, 1, 1}, newton: true})
	wrap := func(c md.Comm) md.Comm { return dropComm{c} }
	for _, newton := range []bool{true, false} {
		bad := evaluate(Te, atoms, box, 1, copper(Te), runOpts{grid: [3]int{2, 1, 1}, newton: newton, wrap: wrap})
		maxdiff := 0.0
		for tag, f := range ref.forces {
			maxdiff = math.Max(maxdiff, r3.Norm(r3.Sub(f, bad.forces[tag])))
		}
		assert.Greater(Te, maxdiff, 1e-3, "newton %v", newton)
	}
}

func TestLJDecompositions(Te *testing.T) {
	atoms, box := crystal(Te, 1.6, 4, 9)
	newLJ := func() md.Pair {
		L := NewLJCut(1)
		if err := L.Settings([]string{"2.5"}); err != nil {
			panic(err)
		}
		if err := L.Coeff([]string{"1", "1", "1.0", "1.0"}); err != nil {
			panic(err)
		}
		return L
	}
	ref := evaluate(Te, atoms, box, 1, newLJ, runOpts{grid: [3]int{1, 1, 1}, newton: true})
	for _, o := range []runOpts{{grid: [3]int{2, 2, 1}, newton: true}, {grid: [3]int{1, 2, 1}, newton: false, threads: 2}} {
		res := evaluate(Te, atoms, box, 1, newLJ, o)
		assert.InDelta(Te, ref.energy, res.energy, 1e-8)
		assert.InDeltaSlice(Te, ref.virial[:], res.virial[:], 1e-7)
		for tag, f := range ref.forces {
			assert.InDelta(Te, 0, r3.Norm(r3.Sub(f, res.forces[tag])), 1e-9, "atom %d", tag)
		}
	}
}
