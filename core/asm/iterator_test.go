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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kila6/whatsabi/core/vm"
)

func TestIteratorBasicStepping(t *testing.T) {
	// PUSH1 0x01 PUSH1 0x02 ADD STOP
	code := []byte{0x60, 0x01, 0x60, 0x02, 0x01, 0x00}
	it := NewIterator(code, 4)

	require.True(t, it.HasMore())
	assert.Equal(t, vm.PUSH1, it.Next())
	assert.Equal(t, 0, it.Pos())
	assert.Equal(t, 0, it.Step())
	assert.Equal(t, []byte{0x01}, it.Value())

	assert.Equal(t, vm.PUSH1, it.Next())
	assert.Equal(t, 2, it.Pos())
	assert.Equal(t, 1, it.Step())

	assert.Equal(t, vm.OpCode(0x01), it.Next()) // ADD
	assert.Equal(t, 4, it.Pos())
	assert.Equal(t, vm.STOP, it.Next())
	assert.Equal(t, 5, it.Pos())
	assert.False(t, it.HasMore())
}

func TestIteratorHaltsAtEnd(t *testing.T) {
	it := NewIterator([]byte{0x00}, 4)
	require.Equal(t, vm.STOP, it.Next())
	require.False(t, it.HasMore())
	// Exhausted reads yield STOP without advancing further.
	assert.Equal(t, vm.STOP, it.Next())
	assert.Equal(t, 0, it.Step()) // step stays put; no crash on repeated Next
}

func TestIteratorSkipsPushOperand(t *testing.T) {
	// PUSH2 0xAAAA JUMPDEST: the 0xAA 0xAA bytes must never be decoded
	// as opcodes even though 0xAA happens not to be meaningful here;
	// what matters is that Next() only yields two instructions.
	code := []byte{0x61, 0xAA, 0xAA, 0x5b}
	it := NewIterator(code, 4)
	assert.Equal(t, vm.PUSH1+1, it.Next()) // PUSH2
	assert.Equal(t, vm.JUMPDEST, it.Next())
	assert.False(t, it.HasMore())
}

func TestIteratorTruncatedPush(t *testing.T) {
	// PUSH32 with only 2 bytes of operand available.
	code := []byte{byte(vm.PUSH32), 0x01, 0x02}
	it := NewIterator(code, 4)
	assert.Equal(t, vm.PUSH32, it.Next())
	assert.Equal(t, []byte{0x01, 0x02}, it.Value())
	assert.False(t, it.HasMore())
}

func TestIteratorLookBehind(t *testing.T) {
	// PUSH1 0x04 EQ PUSH1 0x10 JUMPI
	code := []byte{0x60, 0x04, 0x14, 0x60, 0x10, 0x57}
	it := NewIterator(code, 4)
	for it.HasMore() {
		it.Next()
	}
	// Now positioned at JUMPI (last instruction).
	op, err := it.At(-1)
	require.NoError(t, err)
	assert.Equal(t, vm.JUMPI, op)

	op, err = it.At(-2)
	require.NoError(t, err)
	assert.Equal(t, vm.PUSH1, op)

	op, err = it.At(-4)
	require.NoError(t, err)
	assert.Equal(t, vm.PUSH1, op)
}

func TestIteratorBufferUnderflow(t *testing.T) {
	code := []byte{0x00, 0x00}
	it := NewIterator(code, 4)
	it.Next()
	_, err := it.At(-2)
	assert.ErrorIs(t, err, ErrBufferUnderflow)
}

func TestIteratorAbsolutePosition(t *testing.T) {
	code := []byte{0x5b, 0x00}
	it := NewIterator(code, 1)
	it.Next()
	op, err := it.At(1)
	require.NoError(t, err)
	assert.Equal(t, vm.STOP, op)
}

func TestIteratorLookBehindClamped(t *testing.T) {
	it := NewIterator([]byte{0x00}, 0)
	it.Next()
	// A size of 0 is clamped to 1; the single most recent slot exists.
	_, err := it.At(-1)
	require.NoError(t, err)
}
