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

package pair

import (
	md "github.com/rmera/gomd"
)

//New returns a pair style by name, for ntypes atom types.
func New(style string, ntypes int) (md.Pair, error) {
	if ntypes < 1 {
		return nil, md.NewConfigError("New", "invalid number of atom types %d", ntypes)
	}
	switch style {
	case "lj/cut":
		return NewLJCut(ntypes), nil
	case "smatb":
		return NewSMATB(ntypes), nil
	}
	return nil, md.NewConfigError("New", "unknown pair style %q", style)
}
