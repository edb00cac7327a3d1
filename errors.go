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

import "github.com/pkg/errors"

// MalformedInputError wraps the encoding/hex decode failure that
// ABIFromBytecode and Disassemble surface for an input that isn't
// valid hex (odd length, non-hex characters, ...). It satisfies
// errors.Is against itself and errors.As for unwrapping the original
// decode error.
type MalformedInputError struct {
	cause error
}

func (e *MalformedInputError) Error() string {
	return "whatsabi: malformed bytecode hex: " + e.cause.Error()
}

func (e *MalformedInputError) Unwrap() error {
	return e.cause
}

func (e *MalformedInputError) Is(target error) bool {
	_, ok := target.(*MalformedInputError)
	return ok
}

func malformedInput(cause error) error {
	return errors.WithStack(&MalformedInputError{cause: cause})
}
