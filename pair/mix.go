/*
 * mix.go, part of gomd.
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

import (
	"math"
	"strings"

	md "github.com/rmera/gomd"
)

//MixRule says how parameters of unlike type pairs are obtained from those of like pairs.
type MixRule int

const (
	Geometric MixRule = iota
	Arithmetic
	SixthPower
)

var mixNames = []string{"geometric", "arithmetic", "sixthpower"}

func (m MixRule) String() string {
	if m < 0 || int(m) >= len(mixNames) {
		return "unknown"
	}
	return mixNames[m]
}

//ParseMixRule returns the rule with the given name.
func ParseMixRule(s string) (MixRule, error) {
	for i, n := range mixNames {
		if strings.EqualFold(s, n) {
			return MixRule(i), nil
		}
	}
	return 0, md.NewConfigError("ParseMixRule", "unknown mixing rule %q", s)
}

//MixEnergy returns the energy parameter for an unlike pair.
func (m MixRule) MixEnergy(eps1, eps2, sig1, sig2 float64) float64 {
	if m == SixthPower {
		s13 := sig1 * sig1 * sig1
		s23 := sig2 * sig2 * sig2
		return 2 * math.Sqrt(eps1*eps2) * s13 * s23 / (s13*s13 + s23*s23)
	}
	return math.Sqrt(eps1 * eps2)
}

//MixDistance returns the distance parameter for an unlike pair.
func (m MixRule) MixDistance(sig1, sig2 float64) float64 {
	switch m {
	case Arithmetic:
		return 0.5 * (sig1 + sig2)
	case SixthPower:
		return math.Pow(0.5*(math.Pow(sig1, 6)+math.Pow(sig2, 6)), 1.0/6.0)
	}
	return math.Sqrt(sig1 * sig2)
}
