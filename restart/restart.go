/*
 * restart.go, part of gomd.
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

//Package restart persists the coefficients of the force styles, in native binary
//restart files, optionally zstd-compressed, and in TOML data files.
package restart

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	md "github.com/rmera/gomd"
)

const (
	magic   = "GOMDRST"
	version = 1
)

//Section is one style stored in a restart file. Kind tells which role the style
//has, "pair", "bond", "angle" or "dihedral".
type Section struct {
	Kind  string
	Style md.Restarter
}

//Error is the error type of the restart package.
type Error struct {
	message  string
	filename string //the file with problems, or empty string if none.
	deco     []string
	critical bool
}

func (err *Error) Error() string {
	if err.filename == "" {
		return fmt.Sprintf("restart error: %s", err.message)
	}
	return fmt.Sprintf("restart file %s error: %s", err.filename, err.message)
}

//Decorate adds dec to the decoration slice of the error, unless dec is empty, and returns the slice.
func (err *Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//FileName returns the file associated to the error, if any.
func (err *Error) FileName() string { return err.filename }

//Critical returns true if the error is critical, false otherwise
func (err *Error) Critical() bool { return err.critical }

//Is makes restart errors match md.ErrConfig, since a bad restart
//leaves the styles without usable coefficients.
func (err *Error) Is(target error) bool {
	return target == md.ErrConfig
}

func newError(filename, caller, format string, a ...interface{}) *Error {
	return &Error{message: fmt.Sprintf(format, a...), filename: filename, deco: []string{caller}, critical: true}
}

func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(md.Error); ok {
		e.Decorate(caller)
	}
	return err
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.NativeEndian, int32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	var n int32
	if err := binary.Read(r, binary.NativeEndian, &n); err != nil {
		return "", err
	}
	if n < 0 || n > 1024 {
		return "", fmt.Errorf("invalid string length %d", n)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", err
	}
	return string(b), nil
}

//Write writes the header and the sections to w. For each section, its kind and style
//name are followed by what the style writes in WriteRestart, its settings and coefficients.
func Write(w io.Writer, sections ...Section) error {
	head := append([]byte(magic), version)
	if _, err := w.Write(head); err != nil {
		return newError("", "Write", "writing header: %v", err)
	}
	if err := binary.Write(w, binary.NativeEndian, int32(len(sections))); err != nil {
		return newError("", "Write", "writing header: %v", err)
	}
	for _, s := range sections {
		if err := writeString(w, s.Kind); err != nil {
			return newError("", "Write", "writing %s section: %v", s.Kind, err)
		}
		if err := writeString(w, s.Style.Style()); err != nil {
			return newError("", "Write", "writing %s section: %v", s.Kind, err)
		}
		if err := s.Style.WriteRestart(w); err != nil {
			return errDecorate(err, "Write")
		}
	}
	return nil
}

//Read reads from r the sections written by Write into the given styles, which must be of the same
//kinds and styles, and in the same order, as the ones written.
func Read(r io.Reader, sections ...Section) error {
	head := make([]byte, len(magic)+1)
	if _, err := io.ReadFull(r, head); err != nil {
		return newError("", "Read", "reading header: %v", err)
	}
	if string(head[:len(magic)]) != magic {
		return newError("", "Read", "not a gomd restart file")
	}
	if head[len(magic)] != version {
		return newError("", "Read", "unsupported version %d", head[len(magic)])
	}
	var n int32
	if err := binary.Read(r, binary.NativeEndian, &n); err != nil {
		return newError("", "Read", "reading header: %v", err)
	}
	if int(n) != len(sections) {
		return newError("", "Read", "the file has %d sections, %d were expected", n, len(sections))
	}
	for _, s := range sections {
		kind, err := readString(r)
		if err != nil {
			return newError("", "Read", "reading section: %v", err)
		}
		style, err := readString(r)
		if err != nil {
			return newError("", "Read", "reading section: %v", err)
		}
		if kind != s.Kind || style != s.Style.Style() {
			return newError("", "Read", "found %s style %q where %s style %q was expected", kind, style, s.Kind, s.Style.Style())
		}
		if err := s.Style.ReadRestart(r); err != nil {
			return errDecorate(err, "Read")
		}
	}
	return nil
}

func compressed(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".zst")
}

//WriteFile writes the sections to the file name, compressed with zstd if the name ends in ".zst".
func WriteFile(name string, sections ...Section) error {
	f, err := os.Create(name)
	if err != nil {
		return newError(name, "WriteFile", "%v", err)
	}
	defer f.Close()
	var buf bytes.Buffer
	if err := Write(&buf, sections...); err != nil {
		if e, ok := err.(*Error); ok {
			e.filename = name
		}
		return errDecorate(err, "WriteFile")
	}
	if !compressed(name) {
		_, err = buf.WriteTo(f)
	} else {
		var z *zstd.Encoder
		if z, err = zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBestCompression)); err != nil {
			return newError(name, "WriteFile", "%v", err)
		}
		if _, err = buf.WriteTo(z); err == nil {
			err = z.Close()
		}
	}
	if err != nil {
		return newError(name, "WriteFile", "%v", err)
	}
	return errDecorate(f.Close(), "WriteFile")
}

//ReadFile reads the sections from the file name, which is decompressed if the name ends in ".zst".
func ReadFile(name string, sections ...Section) error {
	f, err := os.Open(name)
	if err != nil {
		return newError(name, "ReadFile", "%v", err)
	}
	defer f.Close()
	var r io.Reader = bufio.NewReader(f)
	if compressed(name) {
		z, err := zstd.NewReader(r)
		if err != nil {
			return newError(name, "ReadFile", "%v", err)
		}
		defer z.Close()
		r = z
	}
	if err := Read(r, sections...); err != nil {
		if e, ok := err.(*Error); ok {
			e.filename = name
		}
		return errDecorate(err, "ReadFile")
	}
	return nil
}
