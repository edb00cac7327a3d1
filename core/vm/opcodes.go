// Copyright 2014 The go-ethereum Authors
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

// Package vm holds the subset of the EVM instruction set that the
// disassembly and static-analysis engine in core/asm cares about. It
// does not implement opcode execution; that is out of scope for a
// bytecode analyzer that never runs the contract.
package vm

import (
	"strconv"

	mapset "github.com/deckarep/golang-set/v2"
)

// OpCode is a single EVM instruction byte.
type OpCode byte

const (
	STOP         OpCode = 0x00
	EQ           OpCode = 0x14
	ISZERO       OpCode = 0x15
	CALLVALUE    OpCode = 0x34
	CALLDATALOAD OpCode = 0x35
	CALLDATASIZE OpCode = 0x36
	CALLDATACOPY OpCode = 0x37
	SLOAD        OpCode = 0x54
	SSTORE       OpCode = 0x55
	JUMP         OpCode = 0x56
	JUMPI        OpCode = 0x57
	JUMPDEST     OpCode = 0x5b
	PUSH1        OpCode = 0x60
	PUSH32       OpCode = 0x7f
	DUP1         OpCode = 0x80
	LOG1         OpCode = 0xa1
	LOG4         OpCode = 0xa4
	RETURN       OpCode = 0xf3
)

var opCodeNames = map[OpCode]string{
	STOP:         "STOP",
	EQ:           "EQ",
	ISZERO:       "ISZERO",
	CALLVALUE:    "CALLVALUE",
	CALLDATALOAD: "CALLDATALOAD",
	CALLDATASIZE: "CALLDATASIZE",
	CALLDATACOPY: "CALLDATACOPY",
	SLOAD:        "SLOAD",
	SSTORE:       "SSTORE",
	JUMP:         "JUMP",
	JUMPI:        "JUMPI",
	JUMPDEST:     "JUMPDEST",
	DUP1:         "DUP1",
	RETURN:       "RETURN",
}

// String returns the mnemonic for op, falling back to a PUSHn/LOGn
// label for the ranges this package recognizes, or a hex literal for
// anything else the scanner has no opinion about.
func (op OpCode) String() string {
	if name, ok := opCodeNames[op]; ok {
		return name
	}
	switch {
	case IsPush(op):
		return "PUSH" + strconv.Itoa(PushWidth(op))
	case IsLog(op):
		return "LOG" + strconv.Itoa(int(op-LOG1+1))
	default:
		return "OPCODE(0x" + strconv.FormatUint(uint64(op), 16) + ")"
	}
}

// PushWidth returns the number of immediate operand bytes op carries,
// or 0 if op is not a PUSH instruction.
func PushWidth(op OpCode) int {
	if !IsPush(op) {
		return 0
	}
	return int(op) - int(PUSH1) + 1
}

// IsPush reports whether op is PUSH1..PUSH32.
func IsPush(op OpCode) bool {
	return op >= PUSH1 && op <= PUSH32
}

// IsLog reports whether op is LOG1..LOG4.
func IsLog(op OpCode) bool {
	return op >= LOG1 && op <= LOG4
}

// interestingOps is the set of opcodes the tag collapser (core/asm) and
// ABI synthesizer (abi) care about when classifying a function's
// input/output presence and state mutability. It is built once; the
// disassembler consults it per-opcode during a scan.
var interestingOps = mapset.NewSet(STOP, RETURN, CALLDATALOAD, CALLDATASIZE, CALLDATACOPY, SLOAD, SSTORE)

// Interesting returns the package-wide interesting-opcode set.
func Interesting() mapset.Set[OpCode] {
	return interestingOps
}
