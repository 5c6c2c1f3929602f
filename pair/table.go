/*
 * table.go, part of gomd.
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
	md "github.com/rmera/gomd"
)

//table holds the parameters of every type pair, indexed from 1, and whether
//each upper-triangle pair was given explicitly.
type table struct {
	n   int
	set [][]bool
	p   [][][]float64
}

func newTable(ntypes, nparams int) *table {
	t := &table{n: ntypes, set: make([][]bool, ntypes+1), p: make([][][]float64, ntypes+1)}
	for i := range t.set {
		t.set[i] = make([]bool, ntypes+1)
		t.p[i] = make([][]float64, ntypes+1)
		for j := range t.p[i] {
			t.p[i][j] = make([]float64, nparams)
		}
	}
	return t
}

//coeffArgs parses the two type ranges and the numeric parameters of a
//coefficient command, with between min and max numbers. Nothing is modified.
func coeffArgs(args []string, ntypes, min, max int) (ilo, ihi, jlo, jhi int, vals []float64, err error) {
	if len(args) < 2+min || len(args) > 2+max {
		if min == max {
			err = md.NewConfigError("Coeff", "expected %d arguments, got %d", 2+min, len(args))
		} else {
			err = md.NewConfigError("Coeff", "expected %d to %d arguments, got %d", 2+min, 2+max, len(args))
		}
		return
	}
	if ilo, ihi, err = md.TypeRange(args[0], ntypes); err != nil {
		return
	}
	if jlo, jhi, err = md.TypeRange(args[1], ntypes); err != nil {
		return
	}
	if vals, err = md.Floats(args[2:]); err != nil {
		return
	}
	//the upper triangle is stored, so only pairs with j>=i count.
	count := 0
	for i := ilo; i <= ihi; i++ {
		for j := imax(jlo, i); j <= jhi; j++ {
			count++
		}
	}
	if count == 0 {
		err = md.NewConfigError("Coeff", "type ranges %s %s select no pairs with i<=j", args[0], args[1])
	}
	return
}

//assign sets the parameters of all the pairs i<=j in the ranges.
func (t *table) assign(ilo, ihi, jlo, jhi int, vals []float64) {
	for i := ilo; i <= ihi; i++ {
		for j := imax(jlo, i); j <= jhi; j++ {
			copy(t.p[i][j], vals)
			t.set[i][j] = true
		}
	}
}

//symmetrize copies the parameters of i,j into j,i.
func (t *table) symmetrize(i, j int) {
	copy(t.p[j][i], t.p[i][j])
	t.set[j][i] = t.set[i][j]
}

func imax(a, b int) int {
	if a > b {
		return a
	}
	return b
}
