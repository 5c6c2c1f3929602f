/*
 * lattice.go, part of gomd.
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

import (
	"math"
	"math/rand"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

var unitCells = map[string][]r3.Vec{
	"sc":  {{X: 0, Y: 0, Z: 0}},
	"bcc": {{X: 0, Y: 0, Z: 0}, {X: 0.5, Y: 0.5, Z: 0.5}},
	"fcc": {{X: 0, Y: 0, Z: 0}, {X: 0.5, Y: 0.5, Z: 0}, {X: 0.5, Y: 0, Z: 0.5}, {X: 0, Y: 0.5, Z: 0.5}},
}

//Lattice returns the atoms of a cubic lattice of the given style ("sc", "bcc" or "fcc")
//with lattice constant a, repeated n times along each direction, and the periodic box that contains it.
//All atoms have type 1 and tags starting from 1.
func Lattice(style string, a float64, n [3]int) ([]Atom, *Box, error) {
	cell, ok := unitCells[strings.ToLower(style)]
	if !ok {
		return nil, nil, NewConfigError("Lattice", "unknown lattice style %q", style)
	}
	if a <= 0 || n[0] < 1 || n[1] < 1 || n[2] < 1 {
		return nil, nil, NewConfigError("Lattice", "invalid lattice constant %g or repetitions %v", a, n)
	}
	total := len(cell) * n[0] * n[1] * n[2]
	if total > math.MaxInt32 {
		return nil, nil, NewCapacityError("Lattice", "%d atoms requested", total)
	}
	box, err := NewBox(r3.Vec{}, r3.Vec{X: a * float64(n[0]), Y: a * float64(n[1]), Z: a * float64(n[2])})
	if err != nil {
		return nil, nil, errDecorate(err, "Lattice")
	}
	atoms := make([]Atom, 0, total)
	var tag int64
	for k := 0; k < n[2]; k++ {
		for j := 0; j < n[1]; j++ {
			for i := 0; i < n[0]; i++ {
				origin := r3.Vec{X: float64(i), Y: float64(j), Z: float64(k)}
				for _, c := range cell {
					tag++
					atoms = append(atoms, Atom{Tag: tag, Type: 1, X: r3.Scale(a, r3.Add(origin, c))})
				}
			}
		}
	}
	return atoms, box, nil
}

//Velocities assigns random velocities to the atoms, drawn from a normal
//distribution with the variance that corresponds to the temperature t, for
//unit masses and Boltzmann constant. The total momentum is then removed.
func Velocities(atoms []Atom, t float64, seed int64) {
	if len(atoms) == 0 {
		return
	}
	r := rand.New(rand.NewSource(seed))
	sd := math.Sqrt(t)
	var sum r3.Vec
	for i := range atoms {
		v := r3.Vec{X: r.NormFloat64() * sd, Y: r.NormFloat64() * sd, Z: r.NormFloat64() * sd}
		atoms[i].V = v
		sum = r3.Add(sum, v)
	}
	mean := r3.Scale(1/float64(len(atoms)), sum)
	for i := range atoms {
		atoms[i].V = r3.Sub(atoms[i].V, mean)
	}
}
