/*
 * switch.go, part of gomd.
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

//Quintic is the polynomial P(x) = A3 x^3 + A4 x^4 + A5 x^5, with x = r - End, used to
//take a function smoothly to zero between Start and End. P, P' and P'' are
//zero at End, and match the value and the first two derivatives of the original function at Start.
type Quintic struct {
	A3, A4, A5 float64
	Start, End float64
}

//NewQuintic returns the polynomial that matches, at start, the value f and the first and
//second derivatives f1 and f2 of a function, and goes to zero at end.
func NewQuintic(start, end, f, f1, f2 float64) Quintic {
	d := start - end
	d2 := d * d
	d3 := d2 * d
	return Quintic{
		A3:    (20*f - 8*f1*d + f2*d2) / (2 * d3),
		A4:    (-15*f + 7*f1*d - f2*d2) / (d3 * d),
		A5:    (12*f - 6*f1*d + f2*d2) / (2 * d3 * d2),
		Start: start,
		End:   end,
	}
}

//Eval returns the value of the polynomial and its derivative at distance r.
func (Q Quintic) Eval(r float64) (val, deriv float64) {
	x := r - Q.End
	x2 := x * x
	x3 := x2 * x
	val = x3 * (Q.A3 + x*(Q.A4+x*Q.A5))
	deriv = x2 * (3*Q.A3 + x*(4*Q.A4+5*x*Q.A5))
	return val, deriv
}

//Second returns the second derivative of the polynomial at distance r.
func (Q Quintic) Second(r float64) float64 {
	x := r - Q.End
	return x * (6*Q.A3 + x*(12*Q.A4+20*x*Q.A5))
}
