/*
 * dcd.go, part of gomd.
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

//Package traj writes and reads trajectories in the CHARMM/NAMD DCD format.
package traj

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	md "github.com/rmera/gomd"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	headSize  = 84
	titleSize = 80
	cellSize  = 48
)

//Error is the error type of the traj package.
type Error struct {
	message  string
	filename string
	deco     []string
	critical bool
}

func (err *Error) Error() string {
	return fmt.Sprintf("trajectory %s error: %s", err.filename, err.message)
}

//Decorate adds dec to the decoration slice of the error, unless dec is empty, and returns the slice.
func (err *Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//FileName returns the trajectory associated to the error.
func (err *Error) FileName() string { return err.filename }

//Critical returns true if the error is critical, false otherwise
func (err *Error) Critical() bool { return err.critical }

func newError(filename, caller, format string, a ...interface{}) *Error {
	return &Error{message: fmt.Sprintf(format, a...), filename: filename, deco: []string{caller}, critical: true}
}

//Writer writes frames to a DCD file. Each frame carries the box lengths.
type Writer struct {
	f        *os.File
	w        *bufio.Writer
	filename string
	natoms   int32
	frames   int32
	endian   binary.ByteOrder
	buf      [3][]float32
}

//Create creates the DCD file name for natoms atoms. istart is the step of the first
//frame, every the steps between frames and dt the time step.
func Create(name string, natoms, istart, every int, dt float64) (*Writer, error) {
	if natoms < 1 || every < 1 {
		return nil, newError(name, "Create", "invalid number of atoms %d or frame interval %d", natoms, every)
	}
	f, err := os.Create(name)
	if err != nil {
		return nil, newError(name, "Create", "%v", err)
	}
	W := &Writer{f: f, w: bufio.NewWriter(f), filename: name, natoms: int32(natoms), endian: binary.LittleEndian}
	for i := range W.buf {
		W.buf[i] = make([]float32, natoms)
	}
	if err := W.header(int32(istart), int32(every), float32(dt)); err != nil {
		f.Close()
		return nil, err
	}
	return W, nil
}

func (W *Writer) put(data ...interface{}) error {
	for _, d := range data {
		if err := binary.Write(W.w, W.endian, d); err != nil {
			return newError(W.filename, "binary.Write", "%v", err)
		}
	}
	return nil
}

func (W *Writer) header(istart, every int32, dt float32) error {
	ctrl := make([]byte, headSize-4)
	NB := func(off int) *bytes.Buffer { return bytes.NewBuffer(ctrl[off:off]) }
	//frame count (updated on Close), first step, interval
	binary.Write(NB(4), W.endian, istart)
	binary.Write(NB(8), W.endian, every)
	binary.Write(NB(36), W.endian, dt)
	//a unit cell goes with each frame
	binary.Write(NB(40), W.endian, int32(1))
	//CHARMM version, any non-zero value
	binary.Write(NB(76), W.endian, int32(24))
	title := make([]byte, titleSize)
	copy(title, "gomd trajectory")
	err := W.put(int32(headSize), []byte("CORD"), ctrl, int32(headSize),
		int32(4+titleSize), int32(1), title, int32(4+titleSize),
		int32(4), W.natoms, int32(4))
	if err != nil {
		err.(*Error).Decorate("header")
	}
	return err
}

//Write appends a frame with the positions of the atoms, which must be as many as
//the trajectory has, in the order they are to be stored.
func (W *Writer) Write(atoms []md.Atom, box *md.Box) error {
	if int32(len(atoms)) != W.natoms {
		return newError(W.filename, "Write", "%d atoms given for a trajectory of %d", len(atoms), W.natoms)
	}
	prd := box.Prd()
	//A, gamma, B, beta, alpha, C
	cell := []float64{prd.X, 90, prd.Y, 90, 90, prd.Z}
	if err := W.put(int32(cellSize), cell, int32(cellSize)); err != nil {
		return md.ErrDecorate(err, "Write")
	}
	for i, a := range atoms {
		W.buf[0][i] = float32(a.X.X)
		W.buf[1][i] = float32(a.X.Y)
		W.buf[2][i] = float32(a.X.Z)
	}
	size := 4 * W.natoms
	for _, b := range W.buf {
		if err := W.put(size, b, size); err != nil {
			return md.ErrDecorate(err, "Write")
		}
	}
	W.frames++
	return nil
}

//Frames returns the number of frames written so far.
func (W *Writer) Frames() int { return int(W.frames) }

//Close writes the final number of frames to the header and closes the file.
func (W *Writer) Close() error {
	err := W.w.Flush()
	if err == nil {
		//the frame count is the first control integer, after the block size and "CORD".
		var b [4]byte
		W.endian.PutUint32(b[:], uint32(W.frames))
		_, err = W.f.WriteAt(b[:], 8)
	}
	if cerr := W.f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return newError(W.filename, "Close", "%v", err)
	}
	return nil
}

//Reader reads DCD files with one unit cell per frame, such as those
//written by Writer, in either byte order.
type Reader struct {
	f        *os.File
	r        *bufio.Reader
	filename string
	natoms   int32
	frames   int32
	cell     bool
	endian   binary.ByteOrder
	buf      []float32
}

//Open opens the DCD file name and reads its header.
func Open(name string) (*Reader, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, newError(name, "Open", "%v", err)
	}
	R := &Reader{f: f, r: bufio.NewReader(f), filename: name, endian: binary.LittleEndian}
	if err := R.header(); err != nil {
		f.Close()
		return nil, md.ErrDecorate(err, "Open")
	}
	R.buf = make([]float32, R.natoms)
	return R, nil
}

func (R *Reader) get(data ...interface{}) error {
	for _, d := range data {
		if err := binary.Read(R.r, R.endian, d); err != nil {
			return err
		}
	}
	return nil
}

//marker reads a block size and checks it.
func (R *Reader) marker(want int32) error {
	var got int32
	if err := R.get(&got); err != nil {
		return err
	}
	if got != want {
		return newError(R.filename, "marker", "wrong block size %d, expected %d", got, want)
	}
	return nil
}

func (R *Reader) header() error {
	var check int32
	if err := R.get(&check); err != nil {
		return newError(R.filename, "header", "%v", err)
	}
	if check != headSize {
		R.endian = binary.BigEndian
	}
	magic := make([]byte, 4)
	ctrl := make([]byte, headSize-4)
	if err := R.get(magic, ctrl); err != nil {
		return newError(R.filename, "header", "%v", err)
	}
	if string(magic) != "CORD" {
		return newError(R.filename, "header", "wrong magic number %q", magic)
	}
	var fixed, cell, charmm int32
	rd := func(off int, v interface{}) { binary.Read(bytes.NewReader(ctrl[off:]), R.endian, v) }
	rd(0, &R.frames)
	rd(32, &fixed)
	rd(40, &cell)
	rd(76, &charmm)
	if charmm == 0 {
		return newError(R.filename, "header", "X-PLOR DCD files are not supported")
	}
	if fixed != 0 {
		return newError(R.filename, "header", "fixed atoms are not supported")
	}
	R.cell = cell != 0
	if err := R.marker(headSize); err != nil {
		return md.ErrDecorate(err, "header")
	}
	var size, ntitle int32
	if err := R.get(&size, &ntitle); err != nil {
		return newError(R.filename, "header", "%v", err)
	}
	if ntitle < 0 || size != 4+titleSize*ntitle {
		return newError(R.filename, "header", "malformed title block")
	}
	if _, err := R.r.Discard(int(titleSize * ntitle)); err != nil {
		return newError(R.filename, "header", "%v", err)
	}
	if err := R.marker(size); err != nil {
		return md.ErrDecorate(err, "header")
	}
	if err := R.marker(4); err != nil {
		return md.ErrDecorate(err, "header")
	}
	if err := R.get(&R.natoms); err != nil || R.natoms < 1 {
		return newError(R.filename, "header", "invalid number of atoms")
	}
	return md.ErrDecorate(R.marker(4), "header")
}

//NAtoms returns the number of atoms per frame.
func (R *Reader) NAtoms() int { return int(R.natoms) }

//Len returns the number of frames stated in the header.
func (R *Reader) Len() int { return int(R.frames) }

//Next reads the next frame into x, which must hold NAtoms vectors, and returns the
//box lengths of the frame, zero if the file has no unit cells. At the end of the
//file, io.EOF is returned.
func (R *Reader) Next(x []r3.Vec) (r3.Vec, error) {
	var prd r3.Vec
	if len(x) < int(R.natoms) {
		return prd, newError(R.filename, "Next", "room for %d atoms, the trajectory has %d", len(x), R.natoms)
	}
	if R.cell {
		var size int32
		if err := R.get(&size); err != nil {
			if errors.Is(err, io.EOF) {
				return prd, io.EOF
			}
			return prd, newError(R.filename, "Next", "%v", err)
		}
		cell := make([]float64, 6)
		if size != cellSize {
			return prd, newError(R.filename, "Next", "wrong unit cell block size %d", size)
		}
		if err := R.get(cell); err != nil {
			return prd, newError(R.filename, "Next", "%v", err)
		}
		if err := R.marker(cellSize); err != nil {
			return prd, md.ErrDecorate(err, "Next")
		}
		prd = r3.Vec{X: cell[0], Y: cell[2], Z: cell[5]}
	}
	size := 4 * R.natoms
	for c := 0; c < 3; c++ {
		if err := R.marker(size); err != nil {
			if c == 0 && !R.cell && errors.Is(err, io.EOF) {
				return prd, io.EOF
			}
			return prd, md.ErrDecorate(err, "Next")
		}
		if err := R.get(R.buf); err != nil {
			return prd, newError(R.filename, "Next", "%v", err)
		}
		if err := R.marker(size); err != nil {
			return prd, md.ErrDecorate(err, "Next")
		}
		for i, v := range R.buf {
			switch c {
			case 0:
				x[i].X = float64(v)
			case 1:
				x[i].Y = float64(v)
			case 2:
				x[i].Z = float64(v)
			}
		}
	}
	return prd, nil
}

//Close closes the file.
func (R *Reader) Close() error {
	return R.f.Close()
}
