// Copyright 2018 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Package asm disassembles EVM runtime bytecode: a variable-width
// instruction iterator with bounded look-behind (this file), a
// single-pass scanner that recognizes a selector dispatch prologue
// (disassembler.go), and a cycle-safe tag collapser over the resulting
// jump graph (tags.go).
package asm

import (
	"github.com/pkg/errors"

	"github.com/kila6/whatsabi/core/vm"
)

// ErrBufferUnderflow is returned by At/ValueAt when the requested
// relative slot is older than the look-behind buffer retains. Rule
// evaluation in the disassembler treats this error as "rule doesn't
// apply", so it never escapes Disassemble.
var ErrBufferUnderflow = errors.New("asm: buffer underflow")

const defaultLookBehind = 4

// Iterator steps forward through a byte sequence one instruction at a
// time, tracking the byte position of each instruction it has visited
// in a fixed-size ring so that pattern rules can look back a bounded
// number of instructions without random seeking.
type Iterator struct {
	code []byte

	nextPos  int
	nextStep int

	behind   []int // ring buffer of byte positions, oldest first
	behindAt int    // index of the oldest slot
	filled   int    // number of valid entries in behind

	op  vm.OpCode
	arg []byte
}

// NewIterator returns an Iterator over code with a look-behind buffer
// of size lookBehind, clamped to a minimum of 1.
func NewIterator(code []byte, lookBehind int) *Iterator {
	if lookBehind < 1 {
		lookBehind = 1
	}
	return &Iterator{
		code:   code,
		behind: make([]int, lookBehind),
	}
}

// HasMore reports whether another instruction remains to be decoded.
func (it *Iterator) HasMore() bool {
	return it.nextPos < len(it.code)
}

// Next advances one instruction and returns its opcode. It returns
// vm.STOP without advancing once the code is exhausted.
func (it *Iterator) Next() vm.OpCode {
	if !it.HasMore() {
		return vm.STOP
	}
	pos := it.nextPos
	it.push(pos)

	op := vm.OpCode(it.code[pos])
	it.op = op

	width := vm.PushWidth(op)
	end := pos + 1 + width
	if end > len(it.code) {
		end = len(it.code)
	}
	if width > 0 {
		it.arg = it.code[pos+1 : end]
	} else {
		it.arg = nil
	}

	it.nextPos = end
	it.nextStep++
	return op
}

// push records byte position pos as the most recent instruction,
// evicting the oldest entry once the ring is full.
func (it *Iterator) push(pos int) {
	n := len(it.behind)
	if it.filled < n {
		it.behind[(it.behindAt+it.filled)%n] = pos
		it.filled++
	} else {
		it.behind[it.behindAt] = pos
		it.behindAt = (it.behindAt + 1) % n
	}
}

// Step returns the instruction index of the most recently decoded
// instruction, or -1 before the first call to Next.
func (it *Iterator) Step() int {
	return it.nextStep - 1
}

// Pos returns the byte position of the most recently decoded
// instruction, or -1 before the first call to Next.
func (it *Iterator) Pos() int {
	if it.filled == 0 {
		return -1
	}
	pos, _ := it.slot(1)
	return pos
}

// slot returns the byte position stored n slots back, where n=1 is the
// current instruction, n=2 the previous one, and so on.
func (it *Iterator) slot(n int) (int, bool) {
	size := len(it.behind)
	if n < 1 || n > it.filled {
		return 0, false
	}
	idx := (it.behindAt + it.filled - n + size) % size
	return it.behind[idx], true
}

// At resolves p to an absolute byte position: non-negative values are
// taken as absolute positions directly; negative values index the
// look-behind buffer (At(-1) is the current instruction, At(-2) the
// previous one, ...). At does not check that the resolved position is
// an instruction boundary; peeking into the middle of a PUSH operand
// is the caller's mistake, not this package's to prevent.
func (it *Iterator) At(p int) (vm.OpCode, error) {
	abs, err := it.resolve(p)
	if err != nil {
		return 0, err
	}
	if abs < 0 || abs >= len(it.code) {
		return vm.STOP, nil
	}
	return vm.OpCode(it.code[abs]), nil
}

func (it *Iterator) resolve(p int) (int, error) {
	if p >= 0 {
		return p, nil
	}
	pos, ok := it.slot(-p)
	if !ok {
		return 0, errors.Wrapf(ErrBufferUnderflow, "relative slot %d not in look-behind buffer", p)
	}
	return pos, nil
}

// Value returns the immediate operand of the current instruction if it
// is a PUSHn, or an empty slice otherwise.
func (it *Iterator) Value() []byte {
	return it.arg
}

// ValueAt returns the immediate operand of the instruction at p (same
// resolution rules as At) if it is a PUSHn, or an empty slice
// otherwise.
func (it *Iterator) ValueAt(p int) ([]byte, error) {
	abs, err := it.resolve(p)
	if err != nil {
		return nil, err
	}
	if abs < 0 || abs >= len(it.code) {
		return nil, nil
	}
	op := vm.OpCode(it.code[abs])
	width := vm.PushWidth(op)
	if width == 0 {
		return nil, nil
	}
	end := abs + 1 + width
	if end > len(it.code) {
		end = len(it.code)
	}
	return it.code[abs+1 : end], nil
}
