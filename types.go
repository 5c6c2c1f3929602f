/*
 * types.go, part of gomd.
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
	"strconv"
	"strings"
)

//TypeRange parses a range of atom types, as given in coefficient commands.
//The valid forms are "n", "*", "n*", "*m" and "n*m", with n,m between 1 and ntypes.
//It returns the first and last types of the range, inclusive.
func TypeRange(s string, ntypes int) (lo, hi int, err error) {
	star := strings.Index(s, "*")
	if star < 0 {
		lo, err = strconv.Atoi(s)
		if err != nil {
			return 0, 0, NewConfigError("TypeRange", "invalid type %q", s)
		}
		hi = lo
	} else {
		lo, hi = 1, ntypes
		if star > 0 {
			if lo, err = strconv.Atoi(s[:star]); err != nil {
				return 0, 0, NewConfigError("TypeRange", "invalid type range %q", s)
			}
		}
		if star < len(s)-1 {
			if hi, err = strconv.Atoi(s[star+1:]); err != nil {
				return 0, 0, NewConfigError("TypeRange", "invalid type range %q", s)
			}
		}
	}
	if lo < 1 || hi > ntypes || lo > hi {
		return 0, 0, NewConfigError("TypeRange", "type range %q outside [1,%d]", s, ntypes)
	}
	return lo, hi, nil
}

//Floats parses all elements of args as floats.
func Floats(args []string) ([]float64, error) {
	ret := make([]float64, len(args))
	var err error
	for i, v := range args {
		if ret[i], err = strconv.ParseFloat(v, 64); err != nil {
			return nil, NewConfigError("Floats", "expected a number, got %q", v)
		}
	}
	return ret, nil
}

//FormatFloats turns vals into strings that Floats parses back exactly.
func FormatFloats(vals []float64) []string {
	ret := make([]string, len(vals))
	for i, v := range vals {
		ret[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return ret
}
