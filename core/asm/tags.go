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

package asm

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/kila6/whatsabi/core/vm"
)

// CollapseTags returns the union of fn's own op tags with the
// collapsed tags of every function reachable via fn.Jumps, walking the
// jump graph recorded in dests. The jump graph may contain cycles or
// destinations that were never seen as a JUMPDEST (an invalid target,
// or one this scanner couldn't statically resolve); cycles are cut by
// the visited set below and unknown destinations are skipped, rather
// than trusting the graph to be well-formed.
func CollapseTags(dests map[int]*Function, start int) mapset.Set[vm.OpCode] {
	visited := mapset.NewSet[int]()
	result := mapset.NewSet[vm.OpCode]()
	collapse(dests, start, visited, result)
	return result
}

func collapse(dests map[int]*Function, at int, visited mapset.Set[int], result mapset.Set[vm.OpCode]) {
	if visited.Contains(at) {
		return
	}
	visited.Add(at)

	fn, ok := dests[at]
	if !ok {
		return
	}
	fn.OpTags.Each(func(op vm.OpCode) bool {
		result.Add(op)
		return false
	})
	for _, dest := range fn.Jumps {
		collapse(dests, int(dest), visited, result)
	}
}
