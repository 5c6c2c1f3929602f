/*
 * engine.go, part of gomd.
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

//Package sim runs the per-step force pipeline of one rank and integrates the
//equations of motion.
package sim

import (
	"math"

	md "github.com/rmera/gomd"
	"github.com/rmera/gomd/bonded"
	"github.com/rmera/gomd/comm"
	"github.com/rmera/gomd/neigh"
)

//Styles are the force styles of a run. Pair is required, the bonded
//styles can be nil. Every rank needs its own instances.
type Styles struct {
	Pair     md.Pair
	Bond     md.BondStyle
	Angle    md.AngleStyle
	Dihedral md.DihedralStyle
}

func (s Styles) bonded() []md.Bonded {
	var ret []md.Bonded
	if s.Bond != nil {
		ret = append(ret, s.Bond)
	}
	if s.Angle != nil {
		ret = append(ret, s.Angle)
	}
	if s.Dihedral != nil {
		ret = append(ret, s.Dihedral)
	}
	return ret
}

//Options control the force pipeline.
type Options struct {
	Newton     bool
	NewtonBond bool
	Threads    int
	Neigh      neigh.Options
}

//DefaultOptions returns Newton on for all interactions, one goroutine per rank and the default neighbor options.
func DefaultOptions() Options {
	return Options{Newton: true, NewtonBond: true, Threads: 1, Neigh: neigh.DefaultOptions()}
}

//Thermo holds the thermodynamic state of the whole system after a force computation.
type Thermo struct {
	Step   int64
	PE     float64 //potential energy
	EPair  float64
	EBond  float64 //all the bonded terms
	KE     float64
	Temp   float64
	Press  float64
	Virial [6]float64
	NAtoms int64
}

//Engine computes the forces on the atoms of one rank.
type Engine struct {
	ep      *comm.Endpoint
	styles  Styles
	top     *md.Topology
	opts    Options
	Neigh   *neigh.Manager
	Threads *md.Threads
	Metrics *md.Metrics
	list    *md.NeighList
	bonds   *bonded.Lists
	ptally  md.Tally
	btally  md.Tally
	built   bool
	step    int64 //number of force computations before the current one
}

//Cutoffs calls InitOne on every pair of types of p, and returns the cutoff table, indexed
//from 1, and the largest cutoff.
func Cutoffs(p md.Pair, ntypes int) ([][]float64, float64, error) {
	cut := make([][]float64, ntypes+1)
	for i := range cut {
		cut[i] = make([]float64, ntypes+1)
	}
	maxc := 0.0
	for i := 1; i <= ntypes; i++ {
		for j := i; j <= ntypes; j++ {
			c, err := p.InitOne(i, j)
			if err != nil {
				return nil, 0, md.ErrDecorate(err, "Cutoffs")
			}
			cut[i][j], cut[j][i] = c, c
			maxc = math.Max(maxc, c)
		}
	}
	return cut, maxc, nil
}

//NewEngine initializes the styles and returns an Engine for the rank of ep. top can be nil
//if there are no bonded styles.
func NewEngine(ep *comm.Endpoint, styles Styles, top *md.Topology, opts Options) (*Engine, error) {
	if styles.Pair == nil {
		return nil, md.NewConfigError("NewEngine", "a pair style is needed")
	}
	S := ep.System()
	cut, _, err := Cutoffs(styles.Pair, S.NTypes)
	if err != nil {
		return nil, md.ErrDecorate(err, "NewEngine")
	}
	for _, b := range styles.bonded() {
		if err := b.Init(); err != nil {
			return nil, md.ErrDecorate(err, "NewEngine")
		}
	}
	if len(styles.bonded()) > 0 && top == nil {
		return nil, md.NewConfigError("NewEngine", "bonded styles were given without a topology")
	}
	M, err := neigh.NewManager(opts.Neigh, styles.Pair.Request(), opts.Newton, cut)
	if err != nil {
		return nil, md.ErrDecorate(err, "NewEngine")
	}
	if M.CutGhost() > ep.CutGhost() {
		return nil, md.NewConfigError("NewEngine", "ghost cutoff %g is shorter than the neighbor cutoff %g", ep.CutGhost(), M.CutGhost())
	}
	M.SetDomain(ep.SubDomain())
	E := &Engine{
		ep:      ep,
		styles:  styles,
		top:     top,
		opts:    opts,
		Neigh:   M,
		Threads: md.NewThreads(opts.Threads),
		Metrics: &md.Metrics{},
	}
	return E, nil
}

//System returns the atoms of the rank. It changes when atoms are exchanged between ranks.
func (E *Engine) System() *md.System {
	return E.ep.System()
}

//List returns the current neighbor list.
func (E *Engine) List() *md.NeighList {
	return E.list
}

//rebuild exchanges atoms between ranks and builds the neighbor and bonded lists.
func (E *Engine) rebuild() error {
	stop := E.Metrics.Start(md.StageComm)
	err := E.ep.Exchange()
	stop()
	if err != nil {
		return err
	}
	S := E.ep.System()
	if E.list, err = E.Neigh.Build(S, E.Threads, E.Metrics); err != nil {
		return err
	}
	E.Metrics.DangerousBuilds = int64(E.Neigh.Dangerous)
	if len(E.styles.bonded()) > 0 {
		stop := E.Metrics.Start(md.StageBond)
		E.bonds, err = bonded.Build(S, E.top, E.opts.NewtonBond)
		stop()
		if err != nil {
			return err
		}
	}
	E.built = true
	return nil
}

//Compute runs one step of the force pipeline: the neighbor lists are rebuilt if
//needed, or ghost positions updated otherwise, and all the forces computed. If thermo is true,
//energies and virials are also computed and reduced over all ranks; all ranks must
//pass the same value.
func (E *Engine) Compute(thermo bool) (*Thermo, error) {
	rebuild := !E.built
	if E.built {
		var err error
		stop := E.Metrics.Start(md.StageNeigh)
		rebuild, err = E.Neigh.Decide(E.ep.System(), E.ep)
		stop()
		if err != nil {
			return nil, md.ErrDecorate(err, "Compute")
		}
	}
	if rebuild {
		if err := E.rebuild(); err != nil {
			return nil, md.ErrDecorate(err, "Compute")
		}
	} else {
		stop := E.Metrics.Start(md.StageComm)
		err := E.ep.UpdateGhosts()
		stop()
		if err != nil {
			return nil, md.ErrDecorate(err, "Compute")
		}
	}
	S := E.ep.System()
	S.ZeroForces(true)
	var ef md.EFlag
	var vf md.VFlag
	if thermo {
		ef, vf = md.EGlobal, md.VGlobal
	}
	if err := E.ptally.Setup(ef, vf, S.NAll(), E.opts.Newton); err != nil {
		return nil, md.ErrDecorate(err, "Compute")
	}
	ctx := &md.Context{
		Sys:        S,
		List:       E.list,
		Newton:     E.opts.Newton,
		NewtonBond: E.opts.NewtonBond,
		Comm:       E.ep,
		Tally:      &E.ptally,
		Metrics:    E.Metrics,
		Threads:    E.Threads,
		Special:    E.opts.Neigh.Special,
	}
	if err := E.styles.Pair.Compute(ctx); err != nil {
		return nil, md.ErrDecorate(err, "Compute")
	}
	//only pair forces must be in S.F here
	if E.ptally.FdotR() {
		E.ptally.VirialFdotR(S)
	}
	if err := E.computeBonded(ctx, ef, vf); err != nil {
		return nil, md.ErrDecorate(err, "Compute")
	}
	if E.opts.Newton || E.opts.NewtonBond {
		stop := E.Metrics.Start(md.StageComm)
		err := E.ep.Reverse(S.F.Raw(), 3)
		stop()
		if err != nil {
			return nil, md.ErrDecorate(err, "Compute")
		}
	}
	E.Metrics.Steps++
	defer func() { E.step++ }()
	if !thermo {
		return nil, nil
	}
	t, err := E.thermo()
	return t, md.ErrDecorate(err, "Compute")
}

//computeBonded runs the bonded styles, tallying their virial term by term.
func (E *Engine) computeBonded(ctx *md.Context, ef md.EFlag, vf md.VFlag) error {
	bs := E.styles.bonded()
	if len(bs) == 0 {
		E.btally = md.Tally{}
		return nil
	}
	defer E.Metrics.Start(md.StageBond)()
	if err := E.btally.Setup(ef, vf, ctx.Sys.NAll(), false); err != nil {
		return err
	}
	E.bonds.Set(ctx)
	ctx.Tally = &E.btally
	for _, b := range bs {
		if err := b.Compute(ctx); err != nil {
			return err
		}
	}
	return nil
}

func kinetic(S *md.System) float64 {
	ke := 0.0
	v := S.V.Raw()
	for i := 0; i < S.NLocal; i++ {
		m := S.Mass[S.Type[i]]
		ke += 0.5 * m * (v[3*i]*v[3*i] + v[3*i+1]*v[3*i+1] + v[3*i+2]*v[3*i+2])
	}
	return ke
}

//thermo reduces the energies, virials and kinetic energy over all ranks.
func (E *Engine) thermo() (*Thermo, error) {
	S := E.ep.System()
	vals := []float64{E.ptally.Energy + E.ptally.ECoul, E.btally.Energy, kinetic(S), float64(S.NLocal)}
	for k := range E.ptally.Virial {
		vals = append(vals, E.ptally.Virial[k]+E.btally.Virial[k])
	}
	stop := E.Metrics.Start(md.StageComm)
	err := E.ep.SumFloats(vals)
	stop()
	if err != nil {
		return nil, err
	}
	t := &Thermo{Step: E.step, EPair: vals[0], EBond: vals[1], NAtoms: int64(vals[3])}
	t.PE = t.EPair + t.EBond
	copy(t.Virial[:], vals[4:])
	t.setKinetic(vals[2], S.Box.Volume())
	return t, nil
}

//setKinetic sets the kinetic energy, and the temperature and pressure that
//depend on it, in reduced units.
func (t *Thermo) setKinetic(ke, volume float64) {
	t.KE = ke
	t.Temp = 0
	if dof := 3*float64(t.NAtoms) - 3; dof > 0 {
		t.Temp = 2 * t.KE / dof
	}
	t.Press = (2*t.KE + t.Virial[0] + t.Virial[1] + t.Virial[2]) / (3 * volume)
}

//refreshKinetic recomputes the kinetic terms of t from the current velocities.
func (E *Engine) refreshKinetic(t *Thermo) error {
	S := E.ep.System()
	ke := []float64{kinetic(S)}
	if err := E.ep.SumFloats(ke); err != nil {
		return err
	}
	t.setKinetic(ke[0], S.Box.Volume())
	return nil
}
