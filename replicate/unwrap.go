/*
 * unwrap.go, part of gomd.
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

package replicate

import (
	md "github.com/rmera/gomd"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"
	"gonum.org/v1/gonum/spatial/r3"
)

//termGraph joins the atoms consecutive in any bonded term of top.
func termGraph(top *md.Topology) *simple.UndirectedGraph {
	g := simple.NewUndirectedGraph()
	join := func(a, b int64) {
		if a == b {
			return
		}
		g.SetEdge(simple.Edge{F: simple.Node(a), T: simple.Node(b)})
	}
	for _, b := range top.Bonds {
		join(b.Atoms[0], b.Atoms[1])
	}
	for _, a := range top.Angles {
		join(a.Atoms[0], a.Atoms[1])
		join(a.Atoms[1], a.Atoms[2])
	}
	for _, d := range top.Dihedrals {
		join(d.Atoms[0], d.Atoms[1])
		join(d.Atoms[1], d.Atoms[2])
		join(d.Atoms[2], d.Atoms[3])
	}
	return g
}

//unwrap returns the positions of the atoms in top with every molecule made whole:
//starting from one atom, each bonded partner is placed at the minimum image of its
//separation from the atom it was reached from. Atoms not in top keep their positions.
func unwrap(atoms []md.Atom, box *md.Box, top *md.Topology) ([]r3.Vec, error) {
	x := make([]r3.Vec, len(atoms))
	index := make(map[int64]int, len(atoms))
	for i, a := range atoms {
		x[i] = a.X
		index[a.Tag] = i
	}
	if top == nil {
		return x, nil
	}
	g := termGraph(top)
	nodes := g.Nodes()
	for nodes.Next() {
		if _, ok := index[nodes.Node().ID()]; !ok {
			return nil, md.NewConfigError("Replicate", "topology references atom %d, which does not exist", nodes.Node().ID())
		}
	}
	done := make(map[int64]bool, g.Nodes().Len())
	bf := traverse.BreadthFirst{
		Traverse: func(e graph.Edge) bool {
			from, to := e.From().ID(), e.To().ID()
			if !done[to] {
				i, j := index[from], index[to]
				d := box.MinImage(r3.Sub(atoms[j].X, atoms[i].X))
				x[j] = r3.Add(x[i], d)
				done[to] = true
			}
			return true
		},
	}
	nodes.Reset()
	for nodes.Next() {
		root := nodes.Node()
		if done[root.ID()] {
			continue
		}
		done[root.ID()] = true
		bf.Walk(g, root, nil)
	}
	return x, nil
}
