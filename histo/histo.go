/*
 * histo.go, part of gomd.
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

//Package histo accumulates histograms, and from them, radial distribution functions.
package histo

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

//Data is a histogram with fixed dividers. Values outside the dividers are not counted.
type Data struct {
	normalized bool
	total      int
	dividers   []float64
	histo      []float64
}

//NewData returns a histogram with the given dividers, which must be sorted, filled with
//rawdata. rawdata can be nil. rawdata is sorted in place.
func NewData(dividers []float64, rawdata []float64) *Data {
	d := &Data{dividers: append([]float64(nil), dividers...)}
	d.histo = make([]float64, len(dividers)-1)
	d.AddData(rawdata...)
	return d
}

//AddData adds the given points to the histogram, sorting them in place.
func (D *Data) AddData(points ...float64) {
	if len(points) == 0 {
		return
	}
	norma := D.normalized
	if norma {
		D.UnNormalize()
	}
	sort.Float64s(points)
	//stat.Histogram panics with values out of range.
	lo := sort.SearchFloat64s(points, D.dividers[0])
	hi := sort.SearchFloat64s(points, D.dividers[len(D.dividers)-1])
	points = points[lo:hi]
	if len(points) > 0 {
		floats.Add(D.histo, stat.Histogram(nil, D.dividers, points, nil))
	}
	D.total += len(points)
	if norma {
		D.Normalize()
	}
}

//Add adds the counts of a, which must have the same dividers, to the histogram.
//Neither histogram can be normalized.
func (D *Data) Add(a *Data) error {
	if !floats.Equal(D.dividers, a.dividers) {
		return fmt.Errorf("histo: dividers of added histograms don't match")
	}
	if D.normalized || a.normalized {
		return fmt.Errorf("histo: can't add normalized histograms")
	}
	floats.Add(D.histo, a.histo)
	D.total += a.total
	return nil
}

//Normalized returns true if the histogram is normalized.
func (D *Data) Normalized() bool { return D.normalized }

//Normalize scales the histogram so it adds up to 1.
func (D *Data) Normalize() { D.normaunnorma(true) }

//UnNormalize returns the histogram to counts.
func (D *Data) UnNormalize() { D.normaunnorma(false) }

func (D *Data) normaunnorma(normalize bool) {
	if D.total <= 0 || normalize == D.normalized {
		return
	}
	n := float64(D.total)
	if normalize {
		n = 1 / n
	}
	D.normalized = normalize
	floats.Scale(n, D.histo)
}

//Total returns the number of points counted.
func (D *Data) Total() int { return D.total }

//Sum returns the sum of the bins.
func (D *Data) Sum() float64 { return floats.Sum(D.histo) }

//View returns the bins themselves, not a copy.
func (D *Data) View() []float64 { return D.histo }

//Copy copies the bins into dest, if given and large enough, or into a new slice.
func (D *Data) Copy(dest ...[]float64) []float64 {
	return copyTo(D.histo, dest...)
}

//CopyDividers copies the dividers like Copy does with the bins.
func (D *Data) CopyDividers(dest ...[]float64) []float64 {
	return copyTo(D.dividers, dest...)
}

//Centers returns the middle point of each bin.
func (D *Data) Centers() []float64 {
	ret := make([]float64, len(D.histo))
	for i := range ret {
		ret[i] = 0.5 * (D.dividers[i] + D.dividers[i+1])
	}
	return ret
}

func copyTo(src []float64, dest ...[]float64) []float64 {
	var d []float64
	if len(dest) > 0 && len(dest[0]) >= len(src) {
		d = dest[0][:len(src)]
	} else {
		d = make([]float64, len(src))
	}
	copy(d, src)
	return d
}

//String prints the histogram in 3 lines: a header, the bin limits and the values.
func (D *Data) String() string {
	ret := fmt.Sprintf("Normalized: %v, TotalData: %d\n", D.normalized, D.total)
	d := make([]string, 0, len(D.histo))
	h := make([]string, 0, len(D.histo))
	for i, v := range D.histo {
		d = append(d, fmt.Sprintf("%4.2f-%4.2f", D.dividers[i], D.dividers[i+1]))
		h = append(h, fmt.Sprintf("%9.3f", v))
	}
	return ret + fmt.Sprintf("%s\n%s", strings.Join(d, " "), strings.Join(h, " "))
}

type jsonData struct {
	Normalized bool      `json:"normalized"`
	Total      int       `json:"total"`
	Dividers   []float64 `json:"dividers"`
	Histo      []float64 `json:"histo"`
}

func (D *Data) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonData{Normalized: D.normalized, Total: D.total, Dividers: D.dividers, Histo: D.histo})
}

func (D *Data) UnmarshalJSON(b []byte) error {
	var a jsonData
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	if len(a.Dividers) != len(a.Histo)+1 {
		return fmt.Errorf("histo: %d dividers for %d bins", len(a.Dividers), len(a.Histo))
	}
	D.normalized, D.total, D.dividers, D.histo = a.Normalized, a.Total, a.Dividers, a.Histo
	return nil
}
