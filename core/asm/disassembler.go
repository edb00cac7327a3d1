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
	"encoding/hex"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/holiman/uint256"

	"github.com/kila6/whatsabi/core/vm"
	"github.com/kila6/whatsabi/log"
)

// Function is one basic block: the span from a JUMPDEST (exclusive of
// what precedes it) up to the next JUMPDEST or the end of the code.
type Function struct {
	Start  int               // byte offset of the JUMPDEST
	Step   int               // instruction index of the JUMPDEST
	OpTags mapset.Set[vm.OpCode]
	Jumps  []uint64 // candidate destinations this block may transfer control to
	End    int       // byte offset of the last instruction before the next JUMPDEST, -1 until closed
}

// Program is the result of a single-pass disassembly.
type Program struct {
	Dests           map[int]*Function // JUMPDEST byte offset -> Function
	Jumps           map[string]uint64 // 4-byte selector ("0x"+8 hex) -> destination byte offset
	SelectorOrder   []string          // selectors in first-seen order, for deterministic output
	NotPayable      map[int]struct{}  // JUMPDEST offsets guarded by CALLVALUE DUP1 ISZERO
	EventCandidates []string          // operand of the most recent PUSH32 (as "0x"+hex) at each LOGn
}

// setSelector records dest for selector, overwriting any earlier
// destination but keeping the selector's original position in
// SelectorOrder. Map iteration order in Go is randomized, and the ABI
// synthesizer needs a deterministic, repeatable ordering to satisfy
// "re-running disassembly on the same input is deterministic".
func (p *Program) setSelector(selector string, dest uint64) {
	if _, seen := p.Jumps[selector]; !seen {
		p.SelectorOrder = append(p.SelectorOrder, selector)
	}
	p.Jumps[selector] = dest
}

func newProgram() *Program {
	return &Program{
		Dests:      make(map[int]*Function),
		Jumps:      make(map[string]uint64),
		NotPayable: make(map[int]struct{}),
	}
}

// Option configures a Disassemble call.
type Option func(*options)

type options struct {
	lookBehind   int
	maxOffset    uint64
	hasMaxOffset bool
}

// WithLookBehind overrides the iterator's look-behind buffer size.
// The pattern rules in this package need at most 4; a caller embedding
// its own additional rules may request more.
func WithLookBehind(n int) Option {
	return func(o *options) { o.lookBehind = n }
}

// WithMaxOffset overrides the dynamic-jump pruning upper bound, which
// otherwise defaults to len(code)/2. The default is a rough heuristic
// approximation of the true maximum instruction offset, which isn't
// known until the scan completes; tightening it only reduces noise in
// Function.Jumps, it is never load-bearing for correctness.
func WithMaxOffset(max uint64) Option {
	return func(o *options) { o.maxOffset, o.hasMaxOffset = max, true }
}

// scanner carries the mutable state of a single Disassemble pass.
type scanner struct {
	it   *Iterator
	prog *Program

	current     *Function
	inJumpTable bool
	lastPush32  []byte

	minOffset    uint64
	maxOffset    uint64
	maxOffsetLen int
}

// Disassemble runs a single-pass scan over code and returns the
// resulting Program. It never fails: a byte sequence that is pure
// garbage yields a sparse or empty Program, not an error.
func Disassemble(code []byte, opts ...Option) *Program {
	o := options{lookBehind: defaultLookBehind}
	for _, opt := range opts {
		opt(&o)
	}

	s := &scanner{
		it:          NewIterator(code, o.lookBehind),
		prog:        newProgram(),
		inJumpTable: true,
		maxOffset:   uint64(len(code) / 2),
	}
	if o.hasMaxOffset {
		s.maxOffset = o.maxOffset
	}
	s.maxOffsetLen = 32

	for s.it.HasMore() {
		op := s.it.Next()
		s.step(op)
	}
	return s.prog
}

func (s *scanner) step(op vm.OpCode) {
	switch {
	case op == vm.PUSH32:
		s.captureLastPush32()
	case vm.IsLog(op) && len(s.lastPush32) > 0:
		s.recordEventTopic()
	case op == vm.JUMPDEST:
		s.openBasicBlock()
	default:
		s.applyInstructionRules(op)
	}
}

// captureLastPush32 remembers the operand of a PUSH32, the width most
// event topics are pushed with before a LOGn.
func (s *scanner) captureLastPush32() {
	s.lastPush32 = s.it.Value()
}

// recordEventTopic records the most recently captured PUSH32 operand
// as an event-topic candidate. lastPush32 is intentionally not cleared
// afterwards: a compiler emitting two LOGs after one PUSH32 would
// attribute both to the same topic. This mirrors the source this
// scanner was distilled from and is a known approximation, not a bug
// to be fixed here.
func (s *scanner) recordEventTopic() {
	s.prog.EventCandidates = append(s.prog.EventCandidates, "0x"+hex.EncodeToString(s.lastPush32))
}

// openBasicBlock starts a new Function at a JUMPDEST, closing off
// whichever block preceded it.
func (s *scanner) openBasicBlock() {
	pos := s.it.Pos()
	if s.current != nil {
		s.current.End = pos - 1
	}

	fn := &Function{
		Start:  pos,
		Step:   s.it.Step(),
		OpTags: mapset.NewSet[vm.OpCode](),
		End:    -1,
	}
	s.current = fn
	s.prog.Dests[pos] = fn

	if s.nonPayableGuard(pos) {
		s.prog.NotPayable[pos] = struct{}{}
	}

	if s.inJumpTable && s.byteAt(pos+1) == byte(vm.CALLDATASIZE) {
		s.inJumpTable = false
		s.minOffset = uint64(s.it.Step() + 1)
	}
}

func (s *scanner) nonPayableGuard(pos int) bool {
	return s.byteAt(pos+1) == byte(vm.CALLVALUE) &&
		s.byteAt(pos+2) == byte(vm.DUP1) &&
		s.byteAt(pos+3) == byte(vm.ISZERO)
}

func (s *scanner) byteAt(pos int) byte {
	b, err := s.it.At(pos)
	if err != nil {
		return 0
	}
	return byte(b)
}

// applyInstructionRules evaluates the remaining pattern rules, in
// order, for every instruction that isn't a PUSH32, a LOG following
// one, or a JUMPDEST. Look-behind of 4 is required; callers within the
// first three instructions of the code never hold that much history,
// so BufferUnderflow is checked for and silently treated as "rule
// doesn't apply" rather than propagated.
func (s *scanner) applyInstructionRules(op vm.OpCode) {
	s.recordIntraFunctionBranch(op)
	s.tagInterestingOp(op)
	if s.collectDynamicJump(op) {
		return
	}
	s.detectSelector(op)
}

// recordIntraFunctionBranch records a JUMP/JUMPI whose target was
// pushed immediately before it as a candidate destination of the
// current basic block.
func (s *scanner) recordIntraFunctionBranch(op vm.OpCode) bool {
	if op != vm.JUMP && op != vm.JUMPI {
		return false
	}
	prev, err := s.it.At(-2)
	if err != nil || !vm.IsPush(prev) {
		return false
	}
	v, err := s.it.ValueAt(-2)
	if err != nil {
		return false
	}
	dest := new(uint256.Int).SetBytes(v)
	if !dest.IsUint64() {
		return false
	}
	if s.current != nil {
		s.current.Jumps = append(s.current.Jumps, dest.Uint64())
	}
	return true
}

// tagInterestingOp adds op to the current block's tag set if it is
// one of the opcodes the ABI synthesizer classifies state mutability
// and input/output presence from.
func (s *scanner) tagInterestingOp(op vm.OpCode) {
	if s.current == nil || !vm.Interesting().Contains(op) {
		return
	}
	s.current.OpTags.Add(op)
}

// collectDynamicJump records a pushed value as a candidate jump
// target once the scan has moved past the selector-dispatch prologue.
// It reports whether it applied, which suppresses selector detection
// for the same instruction.
func (s *scanner) collectDynamicJump(op vm.OpCode) bool {
	if s.inJumpTable || !vm.IsPush(op) {
		return false
	}
	v := s.it.Value()
	log.Debug("dynamic jump candidate", "pc", s.it.Pos(), "bytes", hex.EncodeToString(v))

	if len(v) > s.maxOffsetLen {
		return true
	}
	n := new(uint256.Int).SetBytes(v)
	if !n.IsUint64() {
		return true
	}
	val := n.Uint64()
	if val < s.minOffset || val > s.maxOffset {
		return true
	}
	if s.current != nil {
		s.current.Jumps = append(s.current.Jumps, val)
	}
	return true
}

// detectSelector looks for a selector-dispatch comparison while still
// inside the jump table. Pattern A is tried first; pattern B (the
// zero-selector peephole) only applies when pattern A does not match.
func (s *scanner) detectSelector(op vm.OpCode) {
	if !s.inJumpTable || op != vm.JUMPI {
		return
	}
	if s.patternA() {
		return
	}
	s.patternB()
}

func (s *scanner) patternA() bool {
	p2, err2 := s.it.At(-2)
	p3, err3 := s.it.At(-3)
	p4, err4 := s.it.At(-4)
	if err2 != nil || err3 != nil || err4 != nil {
		return false
	}
	if !vm.IsPush(p2) || p3 != vm.EQ || !vm.IsPush(p4) {
		return false
	}
	selBytes, err := s.it.ValueAt(-4)
	if err != nil {
		return false
	}
	destBytes, err := s.it.ValueAt(-2)
	if err != nil {
		return false
	}
	dest := new(uint256.Int).SetBytes(destBytes)
	if !dest.IsUint64() {
		return false
	}
	s.prog.setSelector(selectorHex(selBytes), dest.Uint64())
	return true
}

func (s *scanner) patternB() {
	p2, err2 := s.it.At(-2)
	p3, err3 := s.it.At(-3)
	if err2 != nil || err3 != nil {
		return
	}
	if !vm.IsPush(p2) || p3 != vm.ISZERO {
		return
	}
	destBytes, err := s.it.ValueAt(-2)
	if err != nil {
		return
	}
	dest := new(uint256.Int).SetBytes(destBytes)
	if !dest.IsUint64() {
		return
	}
	s.prog.setSelector("0x00000000", dest.Uint64())
}

// selectorHex formats sel as "0x"+8 lower-case hex digits, left-padding
// with zero bytes when the compiler shrank the PUSH immediate for a
// selector with leading zero bytes.
func selectorHex(sel []byte) string {
	if len(sel) < 4 {
		padded := make([]byte, 4)
		copy(padded[4-len(sel):], sel)
		sel = padded
	}
	return fmt.Sprintf("0x%s", hex.EncodeToString(sel[len(sel)-4:]))
}
