/*
 * tally.go, part of gomd.
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

package md

//EFlag says which energies have to be computed.
type EFlag uint8

const (
	EGlobal EFlag = 1 << iota //total energy
	EAtom                     //per-atom energy
)

//VFlag says which virials have to be computed.
type VFlag uint8

const (
	VGlobal VFlag = 1 << iota //total virial
	VAtom                     //per-atom virial
)

//Tally holds the energies and virials requested from a force computation.
//The virial has the components xx, yy, zz, xy, xz, yz.
type Tally struct {
	EFlag  EFlag
	VFlag  VFlag
	Energy float64
	ECoul  float64
	Virial [6]float64
	EAtom  []float64 //one per local and ghost atom
	VAtom  []float64 //six per local and ghost atom
	fdotr  bool
	eatom  Buffer
	vatom  Buffer
}

//Setup zeroes the accumulators and allocates the per-atom arrays, if requested, for nall atoms.
//The global virial is obtained from the forces and positions (see VirialFdotR)
//when newton is true and no per-atom virial is requested.
func (T *Tally) Setup(eflag EFlag, vflag VFlag, nall int, newton bool) error {
	T.EFlag = eflag
	T.VFlag = vflag
	T.Energy = 0
	T.ECoul = 0
	T.Virial = [6]float64{}
	T.fdotr = newton && vflag&VGlobal != 0 && vflag&VAtom == 0
	var err error
	T.EAtom, T.VAtom = nil, nil
	if eflag&EAtom != 0 {
		if T.EAtom, err = T.eatom.Zeroed(nall); err != nil {
			return errDecorate(err, "Tally.Setup")
		}
	}
	if vflag&VAtom != 0 {
		if T.VAtom, err = T.vatom.Zeroed(6 * nall); err != nil {
			return errDecorate(err, "Tally.Setup")
		}
	}
	return nil
}

//FdotR reports whether the global virial is left to VirialFdotR.
func (T *Tally) FdotR() bool {
	return T.fdotr
}

//Any reports whether any energy or virial is requested.
func (T *Tally) Any() bool {
	return T != nil && (T.EFlag != 0 || T.VFlag != 0)
}

//Add adds the global quantities of o to T.
func (T *Tally) Add(o *Tally) {
	T.Energy += o.Energy
	T.ECoul += o.ECoul
	for k := range T.Virial {
		T.Virial[k] += o.Virial[k]
	}
}

//Accum receives the forces, energies and virials produced by one worker.
type Accum struct {
	F       []float64 //3 per atom
	Energy  float64
	ECoul   float64
	Virial  [6]float64
	EAtom   []float64
	VAtom   []float64
	eglobal bool
	vglobal bool
}

func (A *Accum) reset(t *Tally) {
	A.Energy, A.ECoul = 0, 0
	A.Virial = [6]float64{}
	A.eglobal = t != nil && t.EFlag&EGlobal != 0
	A.vglobal = t != nil && t.VFlag&VGlobal != 0 && !t.fdotr
}

//AddForce adds (fx,fy,fz) to the force on atom i.
func (A *Accum) AddForce(i int, fx, fy, fz float64) {
	A.F[3*i] += fx
	A.F[3*i+1] += fy
	A.F[3*i+2] += fz
}

//EvTally adds the energy and virial of the pair i,j. With newton false, only
//the half belonging to local atoms is counted. del is xi-xj and fpair the force divided by r.
func (A *Accum) EvTally(i, j, nlocal int, newton bool, evdwl, ecoul, fpair, delx, dely, delz float64) {
	if A.eglobal {
		if newton {
			A.Energy += evdwl
			A.ECoul += ecoul
		} else {
			if i < nlocal {
				A.Energy += 0.5 * evdwl
				A.ECoul += 0.5 * ecoul
			}
			if j < nlocal {
				A.Energy += 0.5 * evdwl
				A.ECoul += 0.5 * ecoul
			}
		}
	}
	if A.EAtom != nil {
		half := 0.5 * (evdwl + ecoul)
		if newton || i < nlocal {
			A.EAtom[i] += half
		}
		if newton || j < nlocal {
			A.EAtom[j] += half
		}
	}
	if !A.vglobal && A.VAtom == nil {
		return
	}
	v := [6]float64{delx * delx * fpair, dely * dely * fpair, delz * delz * fpair,
		delx * dely * fpair, delx * delz * fpair, dely * delz * fpair}
	if A.vglobal {
		w := 1.0
		if !newton {
			w = 0
			if i < nlocal {
				w += 0.5
			}
			if j < nlocal {
				w += 0.5
			}
		}
		for k := range v {
			A.Virial[k] += w * v[k]
		}
	}
	if A.VAtom != nil {
		for k := range v {
			if newton || i < nlocal {
				A.VAtom[6*i+k] += 0.5 * v[k]
			}
			if newton || j < nlocal {
				A.VAtom[6*j+k] += 0.5 * v[k]
			}
		}
	}
}

//EvTallyFull adds the energy and virial of the pair i,j found from the side of i in a full
//list. The pair is found again from j, so only half is counted here, all of it on i.
func (A *Accum) EvTallyFull(i int, evdwl, ecoul, fpair, delx, dely, delz float64) {
	if A.eglobal {
		A.Energy += 0.5 * evdwl
		A.ECoul += 0.5 * ecoul
	}
	if A.EAtom != nil {
		A.EAtom[i] += 0.5 * (evdwl + ecoul)
	}
	if !A.vglobal && A.VAtom == nil {
		return
	}
	v := [6]float64{delx * delx * fpair, dely * dely * fpair, delz * delz * fpair,
		delx * dely * fpair, delx * delz * fpair, dely * delz * fpair}
	for k := range v {
		if A.vglobal {
			A.Virial[k] += 0.5 * v[k]
		}
		if A.VAtom != nil {
			A.VAtom[6*i+k] += 0.5 * v[k]
		}
	}
}

//EAtomTally adds e to the per-atom energy of i and, if global energies are
//requested, to the total.
func (A *Accum) EAtomTally(i int, e float64) {
	if A.eglobal {
		A.Energy += e
	}
	if A.EAtom != nil {
		A.EAtom[i] += e
	}
}

//EvTallyBonded adds the energy and virial of a bonded term over the atoms idx.
//rel holds the positions of the atoms relative to any common point and f the forces on
//them. With newton false, only the fraction belonging to local atoms is counted.
func (A *Accum) EvTallyBonded(idx []int, nlocal int, newton bool, e float64, rel, f [][3]float64) {
	n := float64(len(idx))
	frac := 1.0
	if !newton {
		nl := 0
		for _, i := range idx {
			if i < nlocal {
				nl++
			}
		}
		frac = float64(nl) / n
	}
	if A.eglobal {
		A.Energy += frac * e
	}
	if A.EAtom != nil {
		for _, i := range idx {
			if newton || i < nlocal {
				A.EAtom[i] += e / n
			}
		}
	}
	if !A.vglobal && A.VAtom == nil {
		return
	}
	var v [6]float64
	for k := range rel {
		r, fk := rel[k], f[k]
		v[0] += r[0] * fk[0]
		v[1] += r[1] * fk[1]
		v[2] += r[2] * fk[2]
		v[3] += r[0] * fk[1]
		v[4] += r[0] * fk[2]
		v[5] += r[1] * fk[2]
	}
	if A.vglobal {
		for k := range v {
			A.Virial[k] += frac * v[k]
		}
	}
	if A.VAtom != nil {
		for _, i := range idx {
			if newton || i < nlocal {
				for k := range v {
					A.VAtom[6*i+k] += v[k] / n
				}
			}
		}
	}
}

//VirialFdotR adds to T the global virial computed as the sum of x⊗f over local and ghost
//atoms. It must be called after all the forces have been computed, and
//before they are communicated back to their owners.
func (T *Tally) VirialFdotR(S *System) {
	x := S.X.Raw()
	f := S.F.Raw()
	for i := 0; i < S.NAll(); i++ {
		xi := x[3*i : 3*i+3]
		fi := f[3*i : 3*i+3]
		T.Virial[0] += fi[0] * xi[0]
		T.Virial[1] += fi[1] * xi[1]
		T.Virial[2] += fi[2] * xi[2]
		T.Virial[3] += fi[1] * xi[0]
		T.Virial[4] += fi[2] * xi[0]
		T.Virial[5] += fi[2] * xi[1]
	}
}
