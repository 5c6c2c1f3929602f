/*
 * main.go, part of gomd.
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

//gomd runs a molecular dynamics simulation of a lattice, as described in a gcfg input file.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"sync"

	md "github.com/rmera/gomd"
	"github.com/rmera/gomd/comm"
	"github.com/rmera/gomd/config"
	"github.com/rmera/gomd/histo"
	"github.com/rmera/gomd/mdplot"
	"github.com/rmera/gomd/replicate"
	"github.com/rmera/gomd/restart"
	"github.com/rmera/gomd/sim"
	"github.com/rmera/gomd/traj"
)

const exampleConfig = `[system]
lattice = fcc
a = 1.6796
cells = 4 4 4
replicate = 1 1 1
temperature = 1.0
seed = 1

[neighbor]
skin = 0.3
every = 1
check = true

[pair]
style = lj/cut
settings = 2.5
coeff = 1 1 1.0 1.0

; [bond], [angle] and [dihedral] styles are accepted, but a lattice has no
; bonded terms, so they contribute nothing to the forces. They are still
; written to the restart and data files.

[run]
steps = 100
dt = 0.005
thermo = 10
threads = 1
grid = 1 1 1

[output]
restart = coeffs.rst.zst
data = coeffs.toml
plot = lj
trajectory = run.dcd
dump = 20
rdf = rdf
`

func main() {
	os.Exit(gomd())
}

//gomd runs the program and returns its exit code, so deferred calls run before exiting.
func gomd() int {
	example := flag.Bool("example", false, "Print an example input file and exit")
	np := flag.Int("np", 0, "Number of ranks. If given, the grid is chosen automatically and the one in the input is ignored")
	cpuprofile := flag.String("cpuprofile", "", "Write a CPU profile to this file")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] input.gcfg\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if *example {
		fmt.Print(exampleConfig)
		return 0
	}
	if flag.NArg() != 1 {
		flag.Usage()
		return 1
	}
	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Print(err)
			return 1
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Print(err)
			return 1
		}
		defer pprof.StopCPUProfile()
	}
	c, err := config.Read(flag.Arg(0))
	if err != nil {
		log.Print(err)
		return 1
	}
	if err := run(c, *np); err != nil {
		log.Print(err)
		return 1
	}
	return 0
}

func lattice(c *config.Config) ([]md.Atom, *md.Box, error) {
	cells, err := c.Cells()
	if err != nil {
		return nil, nil, err
	}
	rep, err := c.Replicate()
	if err != nil {
		return nil, nil, err
	}
	atoms, box, err := md.Lattice(c.System.Lattice, c.System.A, cells)
	if err != nil {
		return nil, nil, err
	}
	res, err := replicate.Replicate(atoms, box, nil, rep)
	if err != nil {
		return nil, nil, err
	}
	md.Velocities(res.Atoms, c.System.Temperature, c.System.Seed)
	log.Printf("%d atoms in a %v box", len(res.Atoms), res.Box.Prd())
	return res.Atoms, res.Box, nil
}

func plotPair(c *config.Config, st sim.Styles) error {
	s, ok := st.Pair.(md.Singler)
	if !ok {
		md.Warnf("pair style %s can't be plotted", st.Pair.Style())
		return nil
	}
	var pairs [][2]int
	for i := 1; i <= c.Pair.NTypes; i++ {
		for j := i; j <= c.Pair.NTypes; j++ {
			pairs = append(pairs, [2]int{i, j})
		}
	}
	o := mdplot.Options{Title: st.Pair.Style(), RMin: c.Output.PlotRMin, RMax: c.Output.PlotRMax, Points: 200}
	return mdplot.Save(s, pairs, o, c.Output.Plot)
}

func writeOutput(c *config.Config, st sim.Styles) error {
	if c.Output.Restart != "" {
		sections, err := config.Sections(st)
		if err != nil {
			return err
		}
		if err := restart.WriteFile(c.Output.Restart, sections...); err != nil {
			return err
		}
		log.Printf("coefficients written to %s", c.Output.Restart)
	}
	if c.Output.Data == "" {
		return nil
	}
	sources, err := config.Sources(st, true)
	if err != nil {
		return err
	}
	f, err := os.Create(c.Output.Data)
	if err != nil {
		return err
	}
	if err := restart.WriteData(f, sources...); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func run(c *config.Config, np int) error {
	atoms, box, err := lattice(c)
	if err != nil {
		return err
	}
	grid, err := c.Grid()
	if err != nil {
		return err
	}
	if np > 0 {
		grid = comm.Grid(np, box)
	}
	masses, err := c.Masses()
	if err != nil {
		return err
	}
	opts, err := c.SimOptions()
	if err != nil {
		return err
	}
	probe, err := c.Styles()
	if err != nil {
		return err
	}
	_, maxc, err := sim.Cutoffs(probe.Pair, c.Pair.NTypes)
	if err != nil {
		return err
	}
	if c.Output.Plot != "" {
		if err := plotPair(c, probe); err != nil {
			return err
		}
	}
	var top *md.Topology
	if probe.Bond != nil || probe.Angle != nil || probe.Dihedral != nil {
		md.Warnf("lattices have no bonded terms, the [bond], [angle] and [dihedral] styles only go to the output files")
		top = &md.Topology{}
	}
	W, err := comm.NewWorld(grid, box, atoms, c.System.NTypes, masses, maxc+opts.Neigh.Skin, nil)
	if err != nil {
		return err
	}
	var dcd *traj.Writer
	if c.Output.Trajectory != "" {
		if dcd, err = traj.Create(c.Output.Trajectory, len(atoms), 0, c.Output.Dump, c.Run.Dt); err != nil {
			return err
		}
	}
	log.Printf("running %d steps on a %v grid of ranks, %d threads each", c.Run.Steps, grid, opts.Threads)
	var mu sync.Mutex
	metrics := new(md.Metrics)
	var final sim.Styles
	var rdf *histo.RDF
	err = W.Run(func(e *comm.Endpoint) error {
		st, err := c.Styles()
		if err != nil {
			return err
		}
		E, err := sim.NewEngine(e, st, top, opts)
		if err != nil {
			return err
		}
		V, err := sim.NewVerlet(E, c.Run.Dt)
		if err != nil {
			return err
		}
		var R *histo.RDF
		if c.Output.RDF != "" {
			if R, err = histo.NewRDF(maxc, c.Output.RDFBins); err != nil {
				return err
			}
		}
		t, err := V.Setup()
		if err != nil {
			return err
		}
		for s := 0; s <= c.Run.Steps; s++ {
			thermo := s == 0 || s == c.Run.Steps || s%c.Run.Thermo == 0
			dump := s%c.Output.Dump == 0
			if s > 0 {
				if t, err = V.Step(thermo); err != nil {
					return err
				}
			}
			if thermo && e.Rank() == 0 {
				report(t)
			}
			if !dump {
				continue
			}
			if err := frame(e, E, R, dcd); err != nil {
				return err
			}
		}
		mu.Lock()
		defer mu.Unlock()
		metrics.Merge(E.Metrics)
		if e.Rank() == 0 {
			final = st
			rdf = R
		}
		return nil
	})
	if dcd != nil {
		if cerr := dcd.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return err
	}
	log.Printf("timings over all ranks:\n%s", metrics)
	if rdf != nil {
		if err := writeRDF(c.Output.RDF, rdf); err != nil {
			return err
		}
	}
	return writeOutput(c, final)
}

func report(t *sim.Thermo) {
	log.Printf("step %8d  PE %12.6f  KE %12.6f  Etot %12.6f  T %9.5f  P %10.5f", t.Step, t.PE, t.KE, t.PE+t.KE, t.Temp, t.Press)
}

//frame samples the RDF and writes a trajectory frame, if they are requested.
//All ranks must call it.
func frame(e *comm.Endpoint, E *sim.Engine, R *histo.RDF, dcd *traj.Writer) error {
	if R != nil {
		if err := R.Sample(E.System(), E.List(), e); err != nil {
			return err
		}
	}
	if dcd == nil {
		return nil
	}
	atoms, err := e.Gather()
	if err != nil || e.Rank() != 0 {
		return err
	}
	return dcd.Write(atoms, E.System().Box)
}

func writeRDF(name string, R *histo.RDF) error {
	r, g := R.G()
	if err := mdplot.SaveXY(fmt.Sprintf("g(r), %d samples", R.Samples()), "g(r)", r, g, name); err != nil {
		return err
	}
	j, err := json.MarshalIndent(R.Histogram(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(name+".json", j, 0644)
}
