/*
 * rdf.go, part of gomd.
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

package histo

import (
	"math"

	md "github.com/rmera/gomd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

//RDF accumulates the radial distribution function g(r) of a system over
//several samples. All ranks keep the same, global, histogram.
type RDF struct {
	data    *Data
	rmax    float64
	samples int
	norm    float64 //sum over samples of N*rho
	dists   []float64
}

//NewRDF returns an RDF with nbins bins up to rmax. rmax can't exceed the
//cutoff of the neighbor lists it will be sampled from.
func NewRDF(rmax float64, nbins int) (*RDF, error) {
	if rmax <= 0 || nbins < 1 {
		return nil, md.NewConfigError("NewRDF", "invalid range %g or number of bins %d", rmax, nbins)
	}
	div := make([]float64, nbins+1)
	floats.Span(div, 0, rmax)
	return &RDF{data: NewData(div, nil), rmax: rmax}, nil
}

//Sample adds the pairs in the neighbor list of the system to the RDF. Every rank must call it.
func (R *RDF) Sample(S *md.System, list *md.NeighList, c md.Comm) error {
	R.dists = R.dists[:0]
	rmaxsq := R.rmax * R.rmax
	for ii := 0; ii < list.Inum; ii++ {
		i := list.IList[ii]
		xi := S.X.Vec(i)
		for _, n := range list.Rows[ii] {
			j := n.Index
			d := r3.Sub(xi, S.X.Vec(j))
			rsq := r3.Dot(d, d)
			if rsq >= rmaxsq {
				continue
			}
			r := math.Sqrt(rsq)
			//every ordered pair i-j counts once over all ranks.
			switch {
			case list.Kind == md.Full:
				R.dists = append(R.dists, r)
			case list.Kind == md.HalfNewtonOff && j >= S.NLocal:
				R.dists = append(R.dists, r)
			default:
				R.dists = append(R.dists, r, r)
			}
		}
	}
	local := NewData(R.data.dividers, R.dists)
	buf := append(local.Copy(), float64(S.NLocal))
	if err := c.SumFloats(buf); err != nil {
		return md.ErrDecorate(err, "RDF.Sample")
	}
	n := buf[len(buf)-1]
	floats.Add(R.data.histo, buf[:len(buf)-1])
	R.data.total += int(floats.Sum(buf[:len(buf)-1]))
	R.norm += n * n / S.Box.Volume()
	R.samples++
	return nil
}

//Samples returns the number of samples taken.
func (R *RDF) Samples() int { return R.samples }

//Histogram returns the accumulated counts of ordered pairs.
func (R *RDF) Histogram() *Data { return R.data }

//G returns the center of each bin and the value of g(r) there.
func (R *RDF) G() (r, g []float64) {
	r = R.data.Centers()
	g = make([]float64, len(r))
	if R.samples == 0 {
		return r, g
	}
	div := R.data.dividers
	for k, v := range R.data.histo {
		shell := 4.0 / 3.0 * math.Pi * (math.Pow(div[k+1], 3) - math.Pow(div[k], 3))
		g[k] = v / (R.norm * shell)
	}
	return r, g
}
