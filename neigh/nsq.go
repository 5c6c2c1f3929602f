/*
 * nsq.go, part of gomd.
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
	md "github.com/rmera/gomd"
)

//ownsGhostPair decides whether local atom i keeps the pair with ghost j in a
//half list with Newton on, so that of the two ranks that see the pair only one keeps it.
//The rule depends only on the tags, except for periodic images of the same atom.
func ownsGhostPair(itag, jtag int64, xi, xj []float64) bool {
	switch {
	case itag > jtag:
		return (itag+jtag)%2 != 0
	case itag < jtag:
		return (itag+jtag)%2 != 1
	}
	return above(xj, xi)
}

//nsqRow returns the neighbors of atom i by checking every other atom.
func (b *builder) nsqRow(i int, row []md.Neighbor) []md.Neighbor {
	S := b.sys
	xi := S.X.Row3(i)
	itype := S.Type[i]
	halfOn := b.kind == md.HalfNewtonOn && i < S.NLocal
	start := i + 1
	if b.kind == md.Full {
		start = 0
	}
	for j := start; j < S.NAll(); j++ {
		if j == i {
			continue
		}
		if halfOn && j >= S.NLocal && !ownsGhostPair(S.Tag[i], S.Tag[j], xi, S.X.Row3(j)) {
			continue
		}
		row = b.tryAdd(i, j, xi, itype, row)
	}
	return row
}
