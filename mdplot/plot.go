/*
 * plot.go, part of gomd.
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

//Package mdplot draws the energy and force curves of pair styles, and other
//functions of the distance between atoms.
package mdplot

import (
	"fmt"
	"math"

	md "github.com/rmera/gomd"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

//Curve samples the energy and the force of a pair of atoms of types itype and jtype at
//n distances evenly spaced in [rmin, rmax].
func Curve(s md.Singler, itype, jtype int, rmin, rmax float64, n int) (energy, force plotter.XYs, err error) {
	if n < 2 || rmin <= 0 || rmax <= rmin {
		return nil, nil, md.NewConfigError("Curve", "invalid range [%g,%g] or number of points %d", rmin, rmax, n)
	}
	energy = make(plotter.XYs, n)
	force = make(plotter.XYs, n)
	dr := (rmax - rmin) / float64(n-1)
	for k := 0; k < n; k++ {
		r := rmin + float64(k)*dr
		e, f := s.Single(0, 1, itype, jtype, r*r, 1)
		energy[k].X, energy[k].Y = r, e
		force[k].X, force[k].Y = r, f*r
	}
	return energy, force, nil
}

//Options control the appearance of the plots.
type Options struct {
	Title      string
	RMin, RMax float64
	Points     int
	//YMax is the largest value shown. If 0, it is chosen from the well depth.
	YMax float64
}

func newPlot(title, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = "r"
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())
	return p
}

//Plots returns one plot with the energy and one with the force curves of each
//pair of types in pairs.
func Plots(s md.Singler, pairs [][2]int, o Options) (energy, force *plot.Plot, err error) {
	if o.Points == 0 {
		o.Points = 200
	}
	energy = newPlot(o.Title, "E")
	force = newPlot(o.Title, "F")
	emin, fmin := 0.0, 0.0
	for k, ij := range pairs {
		e, f, err := Curve(s, ij[0], ij[1], o.RMin, o.RMax, o.Points)
		if err != nil {
			return nil, nil, md.ErrDecorate(err, "Plots")
		}
		name := fmt.Sprintf("%d-%d", ij[0], ij[1])
		for _, c := range []struct {
			p   *plot.Plot
			xys plotter.XYs
		}{{energy, e}, {force, f}} {
			l, err := plotter.NewLine(c.xys)
			if err != nil {
				return nil, nil, fmt.Errorf("Plots: %w", err)
			}
			l.Color = colors(k, len(pairs))
			l.Width = vg.Points(1.5)
			c.p.Add(l)
			c.p.Legend.Add(name, l)
		}
		for i := range e {
			emin = math.Min(emin, e[i].Y)
			fmin = math.Min(fmin, f[i].Y)
		}
	}
	//the repulsive wall would hide the well otherwise
	energy.Y.Max, force.Y.Max = o.YMax, o.YMax
	if o.YMax == 0 {
		energy.Y.Max = math.Max(-3*emin, 1)
		force.Y.Max = math.Max(-3*fmin, 1)
	}
	energy.Y.Min = math.Min(1.1*emin, -0.1*energy.Y.Max)
	force.Y.Min = math.Min(1.1*fmin, -0.1*force.Y.Max)
	energy.X.Min, energy.X.Max = o.RMin, o.RMax
	force.X.Min, force.X.Max = o.RMin, o.RMax
	return energy, force, nil
}

//Save writes the energy and force plots of the pairs to the files
//name_energy.png and name_force.png.
func Save(s md.Singler, pairs [][2]int, o Options, name string) error {
	e, f, err := Plots(s, pairs, o)
	if err != nil {
		return err
	}
	if err := e.Save(6*vg.Inch, 4*vg.Inch, name+"_energy.png"); err != nil {
		return fmt.Errorf("Save: %w", err)
	}
	if err := f.Save(6*vg.Inch, 4*vg.Inch, name+"_force.png"); err != nil {
		return fmt.Errorf("Save: %w", err)
	}
	return nil
}

//SaveXY plots y as a function of r and saves it as name.png.
func SaveXY(title, ylabel string, r, y []float64, name string) error {
	if len(r) != len(y) || len(r) < 2 {
		return md.NewConfigError("SaveXY", "can't plot %d values against %d distances", len(y), len(r))
	}
	xy := make(plotter.XYs, len(r))
	for k := range r {
		xy[k].X, xy[k].Y = r[k], y[k]
	}
	p := newPlot(title, ylabel)
	l, err := plotter.NewLine(xy)
	if err != nil {
		return fmt.Errorf("SaveXY: %w", err)
	}
	l.Color = colors(0, 1)
	p.Add(l)
	if err := p.Save(6*vg.Inch, 4*vg.Inch, name+".png"); err != nil {
		return fmt.Errorf("SaveXY: %w", err)
	}
	return nil
}
