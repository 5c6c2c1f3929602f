/*
 * data.go, part of gomd.
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

package restart

import (
	"io"
	"strconv"

	md "github.com/rmera/gomd"
	"github.com/pelletier/go-toml"
)

//Coeff is one line of coefficients. J is zero for per-type coefficients.
type Coeff struct {
	I      int       `toml:"i"`
	J      int       `toml:"j,omitempty"`
	Params []float64 `toml:"params"`
}

//DataSection holds the coefficients of one style.
type DataSection struct {
	Kind   string  `toml:"kind"`
	Style  string  `toml:"style"`
	Coeffs []Coeff `toml:"coeff"`
}

//Data is the content of a text data file.
type Data struct {
	Sections []DataSection `toml:"section"`
}

//Source is a style whose coefficients go into a data file. All selects, for pair
//styles, the records of all type pairs instead of only those of like types.
type Source struct {
	Kind  string
	Style md.DataWriter
	All   bool
}

//Coeffer is anything that takes coefficients as arguments, such as all the force styles.
type Coeffer interface {
	Style() string
	Coeff(args []string) error
}

//WriteData writes the coefficients of the sources to w in TOML format.
func WriteData(w io.Writer, sources ...Source) error {
	var d Data
	for _, s := range sources {
		sec := DataSection{Kind: s.Kind, Style: s.Style.Style()}
		for _, r := range s.Style.DataRecords(s.All) {
			sec.Coeffs = append(sec.Coeffs, Coeff{I: r.I, J: r.J, Params: r.Params})
		}
		d.Sections = append(d.Sections, sec)
	}
	b, err := toml.Marshal(d)
	if err != nil {
		return newError("", "WriteData", "%v", err)
	}
	if _, err := w.Write(b); err != nil {
		return newError("", "WriteData", "%v", err)
	}
	return nil
}

//ReadData parses a data file written by WriteData.
func ReadData(r io.Reader) (*Data, error) {
	d := new(Data)
	if err := toml.NewDecoder(r).Decode(d); err != nil {
		return nil, newError("", "ReadData", "%v", err)
	}
	return d, nil
}

//Section returns the section of the given kind, or nil.
func (D *Data) Section(kind string) *DataSection {
	for i := range D.Sections {
		if D.Sections[i].Kind == kind {
			return &D.Sections[i]
		}
	}
	return nil
}

//Apply passes every coefficient line of the section to c.Coeff. If pairwise is true, the
//arguments start with two types, as pair styles expect, and per-type lines are
//applied to the like pair. Otherwise they start with one type.
func (S *DataSection) Apply(c Coeffer, pairwise bool) error {
	if S.Style != c.Style() {
		return newError("", "Apply", "the data is for %s style %q, not %q", S.Kind, S.Style, c.Style())
	}
	for _, l := range S.Coeffs {
		args := []string{strconv.Itoa(l.I)}
		if pairwise {
			j := l.J
			if j == 0 {
				j = l.I
			}
			args = append(args, strconv.Itoa(j))
		} else if l.J != 0 {
			return newError("", "Apply", "%s coefficients for the type pair %d %d", S.Kind, l.I, l.J)
		}
		args = append(args, md.FormatFloats(l.Params)...)
		if err := c.Coeff(args); err != nil {
			return errDecorate(err, "Apply")
		}
	}
	return nil
}
