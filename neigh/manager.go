/*
 * manager.go, part of gomd.
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

package neigh

import (
	"math"

	md "github.com/rmera/gomd"
	"gonum.org/v1/gonum/spatial/r3"
)

//Options control how and when neighbor lists are built.
type Options struct {
	Skin  float64 //added to the force cutoffs to obtain the neighbor cutoffs
	Every int     //steps between checks
	Delay int     //steps after a build before the next check
	//Check enables the displacement check. Without it, lists are rebuilt every time
	//a check is due.
	Check bool
	Once  bool //build the list only once
	//BinSize is the requested bin length. If 0, the largest neighbor cutoff is used.
	BinSize float64
	NSQ     bool //search all pairs instead of using bins
	Multi   bool //use per-type cutoffs and stencils
	Special md.SpecialWeights
}

//DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{Skin: 0.3, Every: 1, Check: true, Special: md.DefaultSpecial}
}

//Manager builds neighbor lists and decides when they have to be rebuilt.
type Manager struct {
	opts        Options
	req         md.ListRequest
	b           *builder
	ntypes      int
	cutneigh    [][]float64
	cutNeighMax float64
	sublo       r3.Vec
	subhi       r3.Vec
	domainSet   bool
	box         md.Box
	list        *md.NeighList
	xhold       []float64
	ago         int
	Builds      int
	Dangerous   int
}

//NewManager returns a Manager for lists of the kind requested by a force model.
//cutforce holds the force cutoff for each pair of types, indexed from 1.
//newton says whether pairs with ghosts are computed only once over all ranks.
func NewManager(opts Options, req md.ListRequest, newton bool, cutforce [][]float64) (*Manager, error) {
	if opts.Skin < 0 {
		return nil, md.NewConfigError("NewManager", "negative skin %g", opts.Skin)
	}
	if opts.Every < 1 || opts.Delay < 0 {
		return nil, md.NewConfigError("NewManager", "invalid every %d or delay %d", opts.Every, opts.Delay)
	}
	if opts.Delay > 0 && opts.Delay%opts.Every != 0 {
		return nil, md.NewConfigError("NewManager", "delay %d must be 0 or a multiple of every %d", opts.Delay, opts.Every)
	}
	if opts.BinSize < 0 {
		return nil, md.NewConfigError("NewManager", "negative bin size %g", opts.BinSize)
	}
	ntypes := len(cutforce) - 1
	if ntypes < 1 {
		return nil, md.NewConfigError("NewManager", "no atom types in cutoff table")
	}
	kind := md.HalfNewtonOff
	switch {
	case req.Full:
		kind = md.Full
	case newton:
		kind = md.HalfNewtonOn
	}
	if req.Ghost && kind == md.HalfNewtonOn {
		return nil, md.NewConfigError("NewManager", "neighbor lists of ghost atoms need a full list or Newton off")
	}
	M := &Manager{opts: opts, req: req, ntypes: ntypes}
	M.cutneigh = make([][]float64, ntypes+1)
	cutsq := make([][]float64, ntypes+1)
	for i := 1; i <= ntypes; i++ {
		M.cutneigh[i] = make([]float64, ntypes+1)
		cutsq[i] = make([]float64, ntypes+1)
		if len(cutforce[i]) != ntypes+1 {
			return nil, md.NewConfigError("NewManager", "cutoff table is not square")
		}
		for j := 1; j <= ntypes; j++ {
			c := cutforce[i][j] + opts.Skin
			M.cutneigh[i][j] = c
			cutsq[i][j] = c * c
			M.cutNeighMax = math.Max(M.cutNeighMax, c)
		}
	}
	M.b = &builder{kind: kind, ghost: req.Ghost, multi: opts.Multi, nsq: opts.NSQ, cutsq: cutsq, special: opts.Special}
	M.list = &md.NeighList{Kind: kind}
	return M, nil
}

//Kind returns the kind of lists built.
func (M *Manager) Kind() md.ListKind {
	return M.b.kind
}

//CutNeighMax returns the largest neighbor cutoff.
func (M *Manager) CutNeighMax() float64 {
	return M.cutNeighMax
}

//CutGhost returns the distance from the sub-domain up to which ghost atoms are needed.
func (M *Manager) CutGhost() float64 {
	return M.cutNeighMax
}

//SetDomain sets the sub-domain owned by the rank. If it is never called, the whole box is used.
func (M *Manager) SetDomain(lo, hi r3.Vec) {
	M.sublo, M.subhi = lo, hi
	M.domainSet = true
	M.b.binner = nil
}

//List returns the last list built.
func (M *Manager) List() *md.NeighList {
	return M.list
}

//Decide is called once per step and reports whether the lists must be rebuilt.
//With the displacement check, all ranks must call it, as the result is reduced over comm,
//which can be nil for a single rank.
func (M *Manager) Decide(S *md.System, comm md.Comm) (bool, error) {
	M.ago++
	if M.ago < M.opts.Delay || M.ago%M.opts.Every != 0 {
		return false, nil
	}
	if M.opts.Once && M.Builds > 0 {
		return false, nil
	}
	if !M.opts.Check {
		return true, nil
	}
	return M.checkDistance(S, comm)
}

//checkDistance reports whether any atom moved more than half the skin since the last build.
func (M *Manager) checkDistance(S *md.System, comm md.Comm) (bool, error) {
	flag := 0.0
	if len(M.xhold) != 3*S.NLocal {
		flag = 1 //atoms were added or removed
	} else {
		trigger := 0.5 * M.opts.Skin
		triggersq := trigger * trigger
		x := S.X.Raw()
		for i := 0; i < 3*S.NLocal; i += 3 {
			dx := x[i] - M.xhold[i]
			dy := x[i+1] - M.xhold[i+1]
			dz := x[i+2] - M.xhold[i+2]
			if dx*dx+dy*dy+dz*dz > triggersq {
				flag = 1
				break
			}
		}
	}
	if comm != nil {
		var err error
		if flag, err = comm.MaxFloat(flag); err != nil {
			return false, md.ErrDecorate(err, "checkDistance")
		}
	}
	if flag == 0 {
		return false, nil
	}
	every := M.opts.Every
	if M.opts.Delay > every {
		every = M.opts.Delay
	}
	if M.ago == every {
		M.Dangerous++ //atoms may have moved more than the skin allows
	}
	return true, nil
}

//Build bins the atoms of S and builds the neighbor list, which is also returned.
//The positions of the local atoms are saved for later displacement checks.
func (M *Manager) Build(S *md.System, th *md.Threads, m *md.Metrics) (*md.NeighList, error) {
	defer m.Start(md.StageNeigh)()
	if S.NAll() > md.MaxBufferLen {
		return nil, md.NewCapacityError("Build", "%d atoms, more than the %d supported", S.NAll(), md.MaxBufferLen)
	}
	if S.NTypes != M.ntypes {
		return nil, md.NewConfigError("Build", "system has %d atom types, cutoffs were given for %d", S.NTypes, M.ntypes)
	}
	if !M.opts.NSQ {
		if err := M.setupBins(S.Box); err != nil {
			return nil, md.ErrDecorate(err, "Build")
		}
		M.b.binner.Bin(S, S.NAll())
	}
	M.b.fill(M.list, S, th)
	if cap(M.xhold) < 3*S.NLocal {
		M.xhold = make([]float64, 3*S.NLocal)
	}
	M.xhold = M.xhold[:3*S.NLocal]
	copy(M.xhold, S.X.Raw()[:3*S.NLocal])
	M.ago = 0
	M.Builds++
	if m != nil {
		m.Builds++
	}
	return M.list, nil
}

//setupBins creates the bins and stencils, unless they already exist for the same box.
func (M *Manager) setupBins(box *md.Box) error {
	if M.b.binner != nil && *box == M.box {
		return nil
	}
	M.box = *box
	if !M.domainSet {
		M.sublo, M.subhi = box.Lo, box.Hi
	}
	size := M.opts.BinSize
	if size == 0 {
		size = M.cutNeighMax
	}
	if size <= 0 {
		return md.NewConfigError("setupBins", "cannot bin atoms with zero cutoff and no bin size")
	}
	B, err := NewBinner(box, size, M.sublo, M.subhi, M.CutGhost())
	if err != nil {
		return md.ErrDecorate(err, "setupBins")
	}
	M.b.binner = B
	M.b.full = B.NewStencil(M.cutNeighMax, false)
	M.b.half = B.NewStencil(M.cutNeighMax, true)
	if M.opts.Multi {
		M.b.mfull = make([]*Stencil, M.ntypes+1)
		M.b.mhalf = make([]*Stencil, M.ntypes+1)
		for i := 1; i <= M.ntypes; i++ {
			c := 0.0
			for j := 1; j <= M.ntypes; j++ {
				c = math.Max(c, M.cutneigh[i][j])
			}
			M.b.mfull[i] = B.NewStencil(c, false)
			M.b.mhalf[i] = B.NewStencil(c, true)
		}
	}
	return nil
}
