/*
 * config.go, part of gomd.
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

//Package config reads the gcfg (git-config-like) input files of gomd runs.
package config

import (
	"fmt"
	"strconv"
	"strings"

	md "github.com/rmera/gomd"
	"github.com/rmera/gomd/bonded"
	"github.com/rmera/gomd/neigh"
	"github.com/rmera/gomd/pair"
	"github.com/rmera/gomd/restart"
	"github.com/rmera/gomd/sim"
	"gopkg.in/gcfg.v1"
)

//SystemConfig describes the initial configuration.
type SystemConfig struct {
	Lattice     string
	A           float64
	Cells       string //repetitions of the unit cell, "nx ny nz"
	Replicate   string //images of the whole lattice, "nx ny nz"
	NTypes      int
	Mass        string //one mass per atom type
	Temperature float64
	Seed        int64
}

//NeighborConfig holds the neighbor list options.
type NeighborConfig struct {
	Skin    float64
	Every   int
	Delay   int
	Check   bool
	Once    bool
	BinSize float64
	NSQ     bool
	Multi   bool
	Special string //weights of the 1-2, 1-3 and 1-4 pairs
}

//StyleConfig holds one force style. Coeff can be given many times.
type StyleConfig struct {
	Style    string
	NTypes   int
	Settings string
	Coeff    []string
}

//RunConfig holds the integration options.
type RunConfig struct {
	Steps      int
	Dt         float64
	Thermo     int
	Threads    int
	Grid       string //ranks along each dimension, "nx ny nz"
	Newton     bool
	NewtonBond bool
}

//OutputConfig names the files read and written by a run. Empty names are ignored.
type OutputConfig struct {
	ReadRestart string
	Restart     string
	Data        string
	Plot        string
	PlotRMin    float64
	PlotRMax    float64
	Trajectory  string //DCD file
	Dump        int    //steps between trajectory frames and RDF samples
	RDF         string //base name of the g(r) plot and JSON histogram
	RDFBins     int
}

//Config is the content of an input file.
type Config struct {
	System   SystemConfig
	Neighbor NeighborConfig
	Pair     StyleConfig
	Bond     StyleConfig
	Angle    StyleConfig
	Dihedral StyleConfig
	Run      RunConfig
	Output   OutputConfig
}

//Default returns the values used for everything an input file doesn't set.
func Default() *Config {
	c := new(Config)
	c.System = SystemConfig{Lattice: "fcc", A: 1.6796, Cells: "4 4 4", Replicate: "1 1 1", NTypes: 1, Temperature: 1.0, Seed: 1}
	c.Neighbor = NeighborConfig{Skin: 0.3, Every: 1, Check: true, Special: "0 0 0"}
	c.Run = RunConfig{Steps: 100, Dt: 0.005, Thermo: 10, Threads: 1, Grid: "1 1 1", Newton: true, NewtonBond: true}
	c.Output = OutputConfig{PlotRMin: 0.8, RDFBins: 100}
	return c
}

//Read reads the input file fname on top of the default values, and checks the result.
func Read(fname string) (*Config, error) {
	c := Default()
	if err := gcfg.ReadFileInto(c, fname); err != nil {
		return nil, err
	}
	if err := c.CheckInit(); err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	return c, nil
}

//ReadString is like Read, for the content of an input file.
func ReadString(s string) (*Config, error) {
	c := Default()
	if err := gcfg.ReadStringInto(c, s); err != nil {
		return nil, err
	}
	if err := c.CheckInit(); err != nil {
		return nil, err
	}
	return c, nil
}

func triple(name, s string) ([3]int, error) {
	var ret [3]int
	f := strings.Fields(s)
	if len(f) != 3 {
		return ret, fmt.Errorf("%s needs 3 integers, got %q", name, s)
	}
	for i, v := range f {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return ret, fmt.Errorf("invalid value %q in %s", v, name)
		}
		ret[i] = n
	}
	return ret, nil
}

func floats(name, s string) ([]float64, error) {
	var ret []float64
	for _, v := range strings.Fields(s) {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q in %s", v, name)
		}
		ret = append(ret, f)
	}
	return ret, nil
}

//Cells returns the repetitions of the unit cell.
func (c *Config) Cells() ([3]int, error) { return triple("Cells", c.System.Cells) }

//Replicate returns the number of images of the lattice along each dimension.
func (c *Config) Replicate() ([3]int, error) { return triple("Replicate", c.System.Replicate) }

//Grid returns the number of ranks along each dimension.
func (c *Config) Grid() ([3]int, error) { return triple("Grid", c.Run.Grid) }

//Masses returns the per-type masses, or nil if all masses are 1.
func (c *Config) Masses() ([]float64, error) {
	m, err := floats("Mass", c.System.Mass)
	if err != nil || len(m) == 0 {
		return nil, err
	}
	if len(m) != c.System.NTypes {
		return nil, fmt.Errorf("%d masses given for %d atom types", len(m), c.System.NTypes)
	}
	for _, v := range m {
		if v <= 0 {
			return nil, fmt.Errorf("non-positive mass %g", v)
		}
	}
	return append([]float64{0}, m...), nil
}

//CheckInit checks the values read and fills in the ones that depend on others.
func (c *Config) CheckInit() error {
	if _, err := c.Cells(); err != nil {
		return err
	}
	if _, err := c.Replicate(); err != nil {
		return err
	}
	if _, err := c.Grid(); err != nil {
		return err
	}
	if c.System.A <= 0 {
		return fmt.Errorf("non-positive lattice constant %g", c.System.A)
	}
	if c.System.NTypes < 1 {
		return fmt.Errorf("invalid number of atom types %d", c.System.NTypes)
	}
	if _, err := c.Masses(); err != nil {
		return err
	}
	if c.System.Temperature < 0 {
		return fmt.Errorf("negative temperature %g", c.System.Temperature)
	}
	if c.Pair.Style == "" {
		return fmt.Errorf("no pair style given")
	}
	if c.Pair.NTypes == 0 {
		c.Pair.NTypes = c.System.NTypes
	}
	for _, s := range []*StyleConfig{&c.Bond, &c.Angle, &c.Dihedral} {
		if s.Style != "" && s.NTypes == 0 {
			s.NTypes = 1
		}
	}
	if c.Run.Steps < 0 || c.Run.Dt <= 0 {
		return fmt.Errorf("invalid number of steps %d or timestep %g", c.Run.Steps, c.Run.Dt)
	}
	if c.Run.Thermo <= 0 {
		c.Run.Thermo = max(c.Run.Steps, 1)
	}
	if c.Output.Dump <= 0 {
		c.Output.Dump = c.Run.Thermo
	}
	if c.Output.RDFBins < 1 {
		return fmt.Errorf("invalid number of RDF bins %d", c.Output.RDFBins)
	}
	if c.Run.Threads < 1 {
		c.Run.Threads = 1
	}
	if _, err := c.special(); err != nil {
		return err
	}
	if c.Output.PlotRMax == 0 {
		c.Output.PlotRMax = 3 * c.Output.PlotRMin
	}
	if c.Output.PlotRMin <= 0 || c.Output.PlotRMax <= c.Output.PlotRMin {
		return fmt.Errorf("invalid plot range %g-%g", c.Output.PlotRMin, c.Output.PlotRMax)
	}
	return nil
}

func (c *Config) special() (md.SpecialWeights, error) {
	w := md.SpecialWeights{1, 0, 0, 0}
	f, err := floats("Special", c.Neighbor.Special)
	if err != nil {
		return w, err
	}
	if len(f) != 3 {
		return w, fmt.Errorf("Special needs 3 weights, got %q", c.Neighbor.Special)
	}
	for i, v := range f {
		if v < 0 || v > 1 {
			return w, fmt.Errorf("special weight %g out of [0,1]", v)
		}
		w[i+1] = v
	}
	return w, nil
}

//NeighOptions returns the neighbor list options of the configuration.
func (c *Config) NeighOptions() (neigh.Options, error) {
	sp, err := c.special()
	if err != nil {
		return neigh.Options{}, err
	}
	n := c.Neighbor
	return neigh.Options{Skin: n.Skin, Every: n.Every, Delay: n.Delay, Check: n.Check, Once: n.Once,
		BinSize: n.BinSize, NSQ: n.NSQ, Multi: n.Multi, Special: sp}, nil
}

//SimOptions returns the force pipeline options of the configuration.
func (c *Config) SimOptions() (sim.Options, error) {
	no, err := c.NeighOptions()
	if err != nil {
		return sim.Options{}, err
	}
	return sim.Options{Newton: c.Run.Newton, NewtonBond: c.Run.NewtonBond, Threads: c.Run.Threads, Neigh: no}, nil
}

func coeffs(s md.Bonded, lines []string) error {
	for _, l := range lines {
		if err := s.Coeff(strings.Fields(l)); err != nil {
			return err
		}
	}
	return nil
}

//Styles creates the force styles of the configuration. The coefficients come from the
//restart file named in the Output section if there is one, and from the Coeff lines otherwise.
//Each call returns new instances.
func (c *Config) Styles() (sim.Styles, error) {
	var st sim.Styles
	p, err := pair.New(c.Pair.Style, c.Pair.NTypes)
	if err != nil {
		return st, err
	}
	st.Pair = p
	if c.Bond.Style != "" {
		if st.Bond, err = bonded.NewBond(c.Bond.Style, c.Bond.NTypes); err != nil {
			return st, err
		}
	}
	if c.Angle.Style != "" {
		if st.Angle, err = bonded.NewAngle(c.Angle.Style, c.Angle.NTypes); err != nil {
			return st, err
		}
	}
	if c.Dihedral.Style != "" {
		if st.Dihedral, err = bonded.NewDihedral(c.Dihedral.Style, c.Dihedral.NTypes); err != nil {
			return st, err
		}
	}
	if c.Output.ReadRestart != "" {
		sections, err := Sections(st)
		if err != nil {
			return st, err
		}
		return st, restart.ReadFile(c.Output.ReadRestart, sections...)
	}
	if err := p.Settings(strings.Fields(c.Pair.Settings)); err != nil {
		return st, err
	}
	for _, l := range c.Pair.Coeff {
		if err := p.Coeff(strings.Fields(l)); err != nil {
			return st, err
		}
	}
	if st.Bond != nil {
		if err := coeffs(st.Bond, c.Bond.Coeff); err != nil {
			return st, err
		}
	}
	if st.Angle != nil {
		if err := coeffs(st.Angle, c.Angle.Coeff); err != nil {
			return st, err
		}
	}
	if st.Dihedral != nil {
		if err := coeffs(st.Dihedral, c.Dihedral.Coeff); err != nil {
			return st, err
		}
	}
	return st, nil
}

type persistent interface {
	md.Restarter
	md.DataWriter
}

func named(st sim.Styles) (kinds []string, styles []persistent, err error) {
	all := []struct {
		kind string
		s    interface{}
		set  bool
	}{
		{"pair", st.Pair, st.Pair != nil},
		{"bond", st.Bond, st.Bond != nil},
		{"angle", st.Angle, st.Angle != nil},
		{"dihedral", st.Dihedral, st.Dihedral != nil},
	}
	for _, v := range all {
		if !v.set {
			continue
		}
		p, ok := v.s.(persistent)
		if !ok {
			return nil, nil, md.NewConfigError("Sections", "%s style can't be written to restart files", v.kind)
		}
		kinds = append(kinds, v.kind)
		styles = append(styles, p)
	}
	return kinds, styles, nil
}

//Sections returns the restart sections for the styles that are set, in a fixed order.
func Sections(st sim.Styles) ([]restart.Section, error) {
	kinds, styles, err := named(st)
	if err != nil {
		return nil, err
	}
	ret := make([]restart.Section, len(kinds))
	for i := range kinds {
		ret[i] = restart.Section{Kind: kinds[i], Style: styles[i]}
	}
	return ret, nil
}

//Sources returns the data file sources for the styles that are set. allPairs requests the
//coefficients of all pairs of atom types, not only those of like types.
func Sources(st sim.Styles, allPairs bool) ([]restart.Source, error) {
	kinds, styles, err := named(st)
	if err != nil {
		return nil, err
	}
	ret := make([]restart.Source, len(kinds))
	for i := range kinds {
		ret[i] = restart.Source{Kind: kinds[i], Style: styles[i], All: allPairs}
	}
	return ret, nil
}
