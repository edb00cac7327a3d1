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

// Package abi maps a disassembled Program to the approximate ABI it
// implies: one record per discovered selector, classified by the
// opcodes reachable from its destination, plus one record per
// candidate event topic. It does not decode parameter types: every
// parameter, in or out, is the opaque placeholder "bytes", and it
// never claims "pure" mutability, since a dynamic jump could bypass
// the SLOAD/SSTORE surface this package can see.
package abi

import (
	"github.com/kila6/whatsabi/core/asm"
	"github.com/kila6/whatsabi/core/vm"
)

// Param is a placeholder parameter: this engine infers presence, never
// concrete Solidity types.
type Param struct {
	Type string `json:"type"`
}

// Entry is one emitted ABI record, either a function or an event.
// Both shapes share a struct so that a slice of Entry round-trips
// through JSON the way a consumer would expect an ABI array to.
type Entry struct {
	Type            string  `json:"type"`
	Selector        string  `json:"selector,omitempty"`
	Payable         bool    `json:"payable"`
	StateMutability string  `json:"stateMutability,omitempty"`
	Inputs          []Param `json:"inputs,omitempty"`
	Outputs         []Param `json:"outputs,omitempty"`
	Hash            string  `json:"hash,omitempty"`
}

var bytesParam = []Param{{Type: "bytes"}}

// Synthesize maps prog's discovered selectors and event candidates to
// ABI entries. Functions are emitted in prog.SelectorOrder (the order
// their selectors were first seen), followed by events in the order
// they were collected.
func Synthesize(prog *asm.Program) []Entry {
	entries := make([]Entry, 0, len(prog.Jumps)+len(prog.EventCandidates))

	for _, selector := range prog.SelectorOrder {
		dest := prog.Jumps[selector]
		if _, ok := prog.Dests[int(dest)]; !ok {
			continue
		}
		entries = append(entries, functionEntry(prog, selector, int(dest)))
	}
	for _, topic := range prog.EventCandidates {
		entries = append(entries, Entry{Type: "event", Hash: topic})
	}
	return entries
}

func functionEntry(prog *asm.Program, selector string, dest int) Entry {
	tags := asm.CollapseTags(prog.Dests, dest)

	_, guarded := prog.NotPayable[dest]
	payable := !guarded

	entry := Entry{
		Type:     "function",
		Selector: selector,
		Payable:  payable,
	}

	if tags.Contains(vm.RETURN) {
		entry.Outputs = bytesParam
	}
	if tags.Contains(vm.CALLDATALOAD) || tags.Contains(vm.CALLDATASIZE) || tags.Contains(vm.CALLDATACOPY) {
		entry.Inputs = bytesParam
	}

	switch {
	case payable:
		entry.StateMutability = "payable"
	case !tags.Contains(vm.SSTORE):
		entry.StateMutability = "view"
	default:
		entry.StateMutability = "nonpayable"
	}

	return entry
}
