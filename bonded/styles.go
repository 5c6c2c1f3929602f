/*
 * styles.go, part of gomd.
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

package bonded

import (
	md "github.com/rmera/gomd"
)

//NewBond returns a bond style by name.
func NewBond(style string, ntypes int) (md.BondStyle, error) {
	if ntypes < 1 {
		return nil, md.NewConfigError("NewBond", "invalid number of bond types %d", ntypes)
	}
	if style == "harmonic" {
		return NewBondHarmonic(ntypes), nil
	}
	return nil, md.NewConfigError("NewBond", "unknown bond style %q", style)
}

//NewAngle returns an angle style by name.
func NewAngle(style string, ntypes int) (md.AngleStyle, error) {
	if ntypes < 1 {
		return nil, md.NewConfigError("NewAngle", "invalid number of angle types %d", ntypes)
	}
	switch style {
	case "harmonic":
		return NewAngleHarmonic(ntypes), nil
	case "quartic":
		return NewAngleQuartic(ntypes), nil
	}
	return nil, md.NewConfigError("NewAngle", "unknown angle style %q", style)
}

//NewDihedral returns a dihedral style by name.
func NewDihedral(style string, ntypes int) (md.DihedralStyle, error) {
	if ntypes < 1 {
		return nil, md.NewConfigError("NewDihedral", "invalid number of dihedral types %d", ntypes)
	}
	if style == "harmonic" {
		return NewDihedralHarmonic(ntypes), nil
	}
	return nil, md.NewConfigError("NewDihedral", "unknown dihedral style %q", style)
}
