/*
 * verlet.go, part of gomd.
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

package sim

import (
	md "github.com/rmera/gomd"
)

//Verlet integrates the equations of motion at constant energy with the
//velocity Verlet algorithm.
type Verlet struct {
	E  *Engine
	Dt float64
}

//NewVerlet returns an integrator with time step dt.
func NewVerlet(E *Engine, dt float64) (*Verlet, error) {
	if dt <= 0 {
		return nil, md.NewConfigError("NewVerlet", "the time step must be positive, got %g", dt)
	}
	return &Verlet{E: E, Dt: dt}, nil
}

//kick adds half a time step of acceleration to the velocities of the local atoms.
func (V *Verlet) kick() {
	S := V.E.System()
	v := S.V.Raw()
	f := S.F.Raw()
	for i := 0; i < S.NLocal; i++ {
		dtfm := 0.5 * V.Dt / S.Mass[S.Type[i]]
		for c := 3 * i; c < 3*i+3; c++ {
			v[c] += dtfm * f[c]
		}
	}
}

func (V *Verlet) drift() {
	S := V.E.System()
	x := S.X.Raw()
	v := S.V.Raw()
	for c := 0; c < 3*S.NLocal; c++ {
		x[c] += V.Dt * v[c]
	}
}

//Setup computes the initial forces, and returns the initial state.
func (V *Verlet) Setup() (*Thermo, error) {
	t, err := V.E.Compute(true)
	return t, md.ErrDecorate(err, "Verlet.Setup")
}

//Step advances the system one time step. The state is returned if thermo is
//true, nil otherwise.
func (V *Verlet) Step(thermo bool) (*Thermo, error) {
	V.kick()
	V.drift()
	t, err := V.E.Compute(thermo)
	if err != nil {
		return nil, md.ErrDecorate(err, "Verlet.Step")
	}
	V.kick()
	if thermo {
		//the kinetic energy was computed before the last half step
		if err := V.E.refreshKinetic(t); err != nil {
			return nil, md.ErrDecorate(err, "Verlet.Step")
		}
	}
	return t, nil
}

//Run advances the system nsteps steps, calling fn with the state every
//`every` steps and at the last one. fn can be nil. every < 1 means only the last step.
//An error from fn stops the run.
func (V *Verlet) Run(nsteps, every int, fn func(*Thermo) error) error {
	for s := 1; s <= nsteps; s++ {
		want := s == nsteps || (every > 0 && s%every == 0)
		t, err := V.Step(want)
		if err != nil {
			return err
		}
		if want && fn != nil {
			if err := fn(t); err != nil {
				return err
			}
		}
	}
	return nil
}
