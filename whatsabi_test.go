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

package whatsabi

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisassembleStripsHexPrefix(t *testing.T) {
	lower, err := Disassemble("0x5b34f3")
	require.NoError(t, err)
	upper, err := Disassemble("0X5b34f3")
	require.NoError(t, err)
	bare, err := Disassemble("5b34f3")
	require.NoError(t, err)

	assert.Equal(t, bare, lower)
	assert.Equal(t, bare, upper)
	assert.Contains(t, bare.Dests, 0)
}

func TestABIFromBytecodeEndToEnd(t *testing.T) {
	// PUSH4 0x18160ddd EQ PUSH1 0x09 JUMPI JUMPDEST CALLVALUE RETURN
	entries, err := ABIFromBytecode("0x6318160ddd14600957" + "5b34f3")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "0x18160ddd", entries[0].Selector)
}

func TestDisassembleOddLengthHexIsMalformed(t *testing.T) {
	_, err := Disassemble("0x123")
	require.Error(t, err)
	assert.True(t, errors.Is(err, &MalformedInputError{}))

	var malformed *MalformedInputError
	require.True(t, errors.As(err, &malformed))
	assert.Error(t, malformed.Unwrap())
}

func TestABIFromBytecodeInvalidHexCharsIsMalformed(t *testing.T) {
	_, err := ABIFromBytecode("0xzz")
	require.Error(t, err)
	assert.True(t, errors.Is(err, &MalformedInputError{}))
}

func TestDisassembleEmptyInputIsNotAnError(t *testing.T) {
	prog, err := Disassemble("0x")
	require.NoError(t, err)
	assert.Empty(t, prog.Dests)
}

func TestMalformedInputErrorMessageMentionsCause(t *testing.T) {
	_, err := Disassemble("xy")
	require.Error(t, err)
	var malformed *MalformedInputError
	require.True(t, errors.As(err, &malformed))
	assert.Contains(t, malformed.Error(), "whatsabi: malformed bytecode hex")
	assert.Contains(t, malformed.Error(), malformed.Unwrap().Error())
}
