/*
 * world.go, part of gomd.
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

package comm

import (
	"math"
	"sync"

	md "github.com/rmera/gomd"
	"gonum.org/v1/gonum/spatial/r3"
)

//source identifies the owner of a ghost atom and the periodic shift, in box
//lengths, from the owner's position to the ghost's.
type source struct {
	rank  int
	index int
	shift [3]int
}

//sink is a ghost atom of rank `rank` whose owner is the rank holding the list.
type sink struct {
	rank  int
	ghost int
	local int
}

type rankData struct {
	sys      *md.System
	lo, hi   r3.Vec
	sources  []source //one per ghost
	incoming []sink   //ghosts, on any rank, of the atoms owned here
}

//World is a set of ranks, each owning the atoms in one sub-domain of a box split into
//a grid. Ranks are goroutines of the same process; each one talks to the
//others through its Endpoint.
type World struct {
	Grid     [3]int
	Box      *md.Box
	CutGhost float64
	NTypes   int
	Mass     []float64
	specials map[int64][]md.SpecialPartner
	ranks    []*rankData
	bar      *barrier
	bufs     [][]float64
	vals     []float64
	sums     [][]float64
	mu       sync.Mutex
	firstErr error
}

//Grid returns a grid of p ranks, split along the longest box dimensions first.
func Grid(p int, box *md.Box) [3]int {
	g := [3]int{1, 1, 1}
	best := math.Inf(1)
	prd := box.Prd()
	for x := 1; x <= p; x++ {
		if p%x != 0 {
			continue
		}
		for y := 1; y <= p/x; y++ {
			if (p/x)%y != 0 {
				continue
			}
			z := p / x / y
			//surface of a sub-domain, a proxy for the amount of communication.
			lx, ly, lz := prd.X/float64(x), prd.Y/float64(y), prd.Z/float64(z)
			area := lx*ly + ly*lz + lx*lz
			if area < best {
				best = area
				g = [3]int{x, y, z}
			}
		}
	}
	return g
}

//NewWorld distributes atoms over a grid of ranks. Ghost atoms are created for all atoms,
//and their periodic images, within cutghost of each sub-domain. specials can be nil.
func NewWorld(grid [3]int, box *md.Box, atoms []md.Atom, ntypes int, mass []float64, cutghost float64, specials map[int64][]md.SpecialPartner) (*World, error) {
	if grid[0] < 1 || grid[1] < 1 || grid[2] < 1 {
		return nil, md.NewConfigError("NewWorld", "invalid processor grid %v", grid)
	}
	if cutghost < 0 {
		return nil, md.NewConfigError("NewWorld", "negative ghost cutoff %g", cutghost)
	}
	n := grid[0] * grid[1] * grid[2]
	W := &World{Grid: grid, Box: box.Copy(), CutGhost: cutghost, NTypes: ntypes, specials: specials}
	W.Mass = make([]float64, ntypes+1)
	for i := range W.Mass {
		W.Mass[i] = 1
	}
	copy(W.Mass, mass)
	W.bar = newBarrier(n)
	W.bufs = make([][]float64, n)
	W.vals = make([]float64, n)
	W.sums = make([][]float64, n)
	W.ranks = make([]*rankData, n)
	for r := range W.ranks {
		lo, hi := W.Box.SubDomain(grid, W.coords(r))
		W.ranks[r] = &rankData{lo: lo, hi: hi}
	}
	if err := W.distribute(atoms); err != nil {
		return nil, md.ErrDecorate(err, "NewWorld")
	}
	return W, nil
}

//Size returns the number of ranks.
func (W *World) Size() int {
	return len(W.ranks)
}

func (W *World) coords(r int) [3]int {
	return [3]int{r % W.Grid[0], (r / W.Grid[0]) % W.Grid[1], r / (W.Grid[0] * W.Grid[1])}
}

//rankOf returns the rank owning a position inside the box.
func (W *World) rankOf(x r3.Vec) int {
	prd := W.Box.Prd()
	var c [3]int
	for d := 0; d < 3; d++ {
		f := (md.Comp(x, d) - md.Comp(W.Box.Lo, d)) / md.Comp(prd, d)
		c[d] = int(f * float64(W.Grid[d]))
		if c[d] >= W.Grid[d] {
			c[d] = W.Grid[d] - 1
		}
		if c[d] < 0 {
			c[d] = 0
		}
	}
	return (c[2]*W.Grid[1]+c[1])*W.Grid[0] + c[0]
}

//distribute assigns the atoms to their ranks and builds the ghosts and the
//exchange lists.
func (W *World) distribute(atoms []md.Atom) error {
	if len(atoms) > md.MaxBufferLen {
		return md.NewCapacityError("distribute", "%d atoms, more than the %d supported", len(atoms), md.MaxBufferLen)
	}
	owned := make([][]md.Atom, len(W.ranks))
	for _, a := range atoms {
		x := []float64{a.X.X, a.X.Y, a.X.Z}
		W.Box.Wrap(x)
		a.X = r3.Vec{X: x[0], Y: x[1], Z: x[2]}
		r := W.rankOf(a.X)
		owned[r] = append(owned[r], a)
	}
	prd := W.Box.Prd()
	var nimg [3]int
	for d := 0; d < 3; d++ {
		if W.Box.Periodic[d] && W.CutGhost > 0 {
			nimg[d] = int(math.Ceil(W.CutGhost / md.Comp(prd, d)))
		}
	}
	for r, rd := range W.ranks {
		var ghosts []md.Atom
		rd.sources = rd.sources[:0]
		rd.incoming = nil
		elo := r3.Sub(rd.lo, r3.Vec{X: W.CutGhost, Y: W.CutGhost, Z: W.CutGhost})
		ehi := r3.Add(rd.hi, r3.Vec{X: W.CutGhost, Y: W.CutGhost, Z: W.CutGhost})
		for q := range W.ranks {
			for i, a := range owned[q] {
				for sz := -nimg[2]; sz <= nimg[2]; sz++ {
					for sy := -nimg[1]; sy <= nimg[1]; sy++ {
						for sx := -nimg[0]; sx <= nimg[0]; sx++ {
							if q == r && sx == 0 && sy == 0 && sz == 0 {
								continue
							}
							shift := [3]int{sx, sy, sz}
							p := shifted(a.X, shift, prd)
							if !inside(p, elo, ehi) {
								continue
							}
							g := a
							g.X = p
							ghosts = append(ghosts, g)
							rd.sources = append(rd.sources, source{rank: q, index: i, shift: shift})
						}
					}
				}
			}
		}
		all := append(append([]md.Atom(nil), owned[r]...), ghosts...)
		if len(all) > md.MaxBufferLen {
			return md.NewCapacityError("distribute", "rank %d would hold %d atoms", r, len(all))
		}
		S := md.FromAtoms(all, len(owned[r]), W.NTypes, W.Box.Copy())
		copy(S.Mass, W.Mass)
		if W.specials != nil {
			S.SetSpecial(W.specials)
		}
		rd.sys = S
	}
	for r, rd := range W.ranks {
		for g, s := range rd.sources {
			o := W.ranks[s.rank]
			o.incoming = append(o.incoming, sink{rank: r, ghost: rd.sys.NLocal + g, local: s.index})
		}
	}
	return nil
}

func shifted(x r3.Vec, shift [3]int, prd r3.Vec) r3.Vec {
	return r3.Vec{
		X: x.X + float64(shift[0])*prd.X,
		Y: x.Y + float64(shift[1])*prd.Y,
		Z: x.Z + float64(shift[2])*prd.Z,
	}
}

func inside(p, lo, hi r3.Vec) bool {
	return p.X >= lo.X && p.X < hi.X && p.Y >= lo.Y && p.Y < hi.Y && p.Z >= lo.Z && p.Z < hi.Z
}

//System returns the atoms of rank r.
func (W *World) System(r int) *md.System {
	return W.ranks[r].sys
}

//SubDomain returns the bounds of the region owned by rank r.
func (W *World) SubDomain(r int) (lo, hi r3.Vec) {
	return W.ranks[r].lo, W.ranks[r].hi
}

//Atoms returns the local atoms of all ranks, sorted by tag.
func (W *World) Atoms() []md.Atom {
	var ret []md.Atom
	for _, rd := range W.ranks {
		ret = append(ret, rd.sys.LocalAtoms()...)
	}
	sortByTag(ret)
	return ret
}

//Run calls fn concurrently once per rank, and waits for all of them to return.
//If any call fails, the others are released from their pending exchanges with an error.
//The first error is returned.
func (W *World) Run(fn func(e *Endpoint) error) error {
	var wg sync.WaitGroup
	W.firstErr = nil
	for r := range W.ranks {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			if err := fn(&Endpoint{w: W, rank: r}); err != nil {
				W.mu.Lock()
				if W.firstErr == nil {
					W.firstErr = err
				}
				W.mu.Unlock()
				W.bar.abort()
			}
		}(r)
	}
	wg.Wait()
	W.bar = newBarrier(len(W.ranks))
	return W.firstErr
}
