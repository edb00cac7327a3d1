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

// Package whatsabi reconstructs an approximate ABI for a deployed EVM
// smart contract from its runtime bytecode alone, for the case where
// no source-level ABI was ever published. It does not fetch bytecode
// from a chain, resolve selector/topic preimages against a signature
// database, or format its output for a particular consumer; those
// are a caller's concerns. This package only disassembles and infers.
package whatsabi

import (
	"encoding/hex"
	"strings"

	"github.com/kila6/whatsabi/abi"
	"github.com/kila6/whatsabi/core/asm"
)

// ABIFromBytecode disassembles hexCode and synthesizes the ABI it
// implies. hexCode may carry an optional "0x" prefix.
func ABIFromBytecode(hexCode string, opts ...asm.Option) ([]abi.Entry, error) {
	prog, err := Disassemble(hexCode, opts...)
	if err != nil {
		return nil, err
	}
	return abi.Synthesize(prog), nil
}

// Disassemble decodes hexCode and runs the single-pass disassembly
// scan, returning the resulting Program. It is exposed separately from
// ABIFromBytecode for tooling that wants the structured intermediate
// result, a Graphviz dump of the jump-dest graph, say (see
// (*asm.Program).DOT), rather than the synthesized ABI.
func Disassemble(hexCode string, opts ...asm.Option) (*asm.Program, error) {
	code, err := decodeHex(hexCode)
	if err != nil {
		return nil, err
	}
	return asm.Disassemble(code, opts...), nil
}

func decodeHex(hexCode string) ([]byte, error) {
	hexCode = strings.TrimPrefix(hexCode, "0x")
	hexCode = strings.TrimPrefix(hexCode, "0X")
	code, err := hex.DecodeString(hexCode)
	if err != nil {
		return nil, malformedInput(err)
	}
	return code, nil
}
