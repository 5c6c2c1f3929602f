/*
 * errors.go, part of gomd.
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
	"fmt"
	"log"
)

//Kind classifies errors following the error taxonomy of gomd.
type Kind int

const (
	//KindConfig are configuration errors: wrong argument count or type, unset
	//coefficients, incompatible flags.
	KindConfig Kind = iota + 1
	//KindCapacity are numeric-capacity errors: tag overflow, buffers beyond
	//the representable index range.
	KindCapacity
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "configuration"
	case KindCapacity:
		return "capacity"
	}
	return "unknown"
}

//CError is the error type of the md package. Both kinds of errors are critical,
//meaning the run should stop, since all ranks must remain in lockstep.
type CError struct {
	msg  string
	deco []string
	kind Kind
}

//Sentinels to be used with errors.Is
var (
	ErrConfig   = &CError{kind: KindConfig}
	ErrCapacity = &CError{kind: KindCapacity}
)

//NewConfigError returns a configuration error, decorated with the caller's name.
func NewConfigError(caller, format string, a ...interface{}) error {
	return &CError{msg: fmt.Sprintf(format, a...), deco: []string{caller}, kind: KindConfig}
}

//NewCapacityError returns a capacity error, decorated with the caller's name.
func NewCapacityError(caller, format string, a ...interface{}) error {
	return &CError{msg: fmt.Sprintf(format, a...), deco: []string{caller}, kind: KindCapacity}
}

func (err *CError) Error() string {
	return fmt.Sprintf("gomd %s error: %s", err.kind, err.msg)
}

//Decorate adds dec to the decoration slice of the error, unless dec is empty,
//and returns the slice.
func (err *CError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//Critical is always true for CErrors.
func (err *CError) Critical() bool { return true }

//Kind returns the kind of the error
func (err *CError) Kind() Kind { return err.kind }

//Is reports whether target is the sentinel of the same kind.
func (err *CError) Is(target error) bool {
	t, ok := target.(*CError)
	return ok && t.msg == "" && t.kind == err.kind
}

//errDecorate is a helper function that asserts that the error
//implements md.Error and decorates the error with the caller's name before returning it.
//if used with a non-md.Error error, it will just return the error.
func errDecorate(err error, caller string) error {
	err2, ok := err.(Error)
	if !ok {
		return err
	}
	err2.Decorate(caller)
	return err2
}

//ErrDecorate is errDecorate for the other packages of the library.
func ErrDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	return errDecorate(err, caller)
}

//Warnf reports a non-fatal advisory. Execution continues.
func Warnf(format string, a ...interface{}) {
	log.Printf("gomd warning: "+format, a...)
}
