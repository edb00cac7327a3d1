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
	"fmt"
	"sort"
	"strings"
)

// DOT renders the jump-dest graph of a Program as Graphviz "dot"
// source. It is a pure formatting helper: no file I/O, no flags. The
// tool that decides what to do with the text is someone else's
// concern.
func (p *Program) DOT() string {
	starts := make([]int, 0, len(p.Dests))
	for start := range p.Dests {
		starts = append(starts, start)
	}
	sort.Ints(starts)

	var b strings.Builder
	b.WriteString("digraph program {\n")
	for _, start := range starts {
		fn := p.Dests[start]
		b.WriteString(fmt.Sprintf("  n%d [label=\"0x%x\"];\n", start, start))
		for _, dest := range fn.Jumps {
			if _, ok := p.Dests[int(dest)]; ok {
				b.WriteString(fmt.Sprintf("  n%d -> n%d;\n", start, dest))
			}
		}
	}
	b.WriteString("}\n")
	return b.String()
}
