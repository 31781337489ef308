// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.


// Package encoding converts between LC-3 source literals, signed integers and
// the fixed-width two's-complement fields packed into instruction words.
package encoding

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrOutOfRange = errors.New("value out of range")

// RangeError reports a value that does not fit a signed field of Bits width.
type RangeError struct {
	Value int
	Bits  uint
}

func (err *RangeError) Error() string {
	return fmt.Sprintf("%d does not fit in %d bits", err.Value, err.Bits)
}

func (err *RangeError) Unwrap() error {
	return ErrOutOfRange
}

// Decodes a hexidecimal string in the formats: 0xFFFF, xFFFF, 0xFF, xFF
func DecodeHex(s string) (uint16, error) {
	if i := strings.IndexAny(s, "xX"); i == 0 {
		s = "0" + s
	} else if i == -1 || i != 1 {
		return 0, errors.New("Invalid hex string")
	}

	result, err := strconv.ParseUint(s, 0, 16)

	if err != nil {
		return 0, err
	}

	return uint16(result), nil
}

// Decodes a base-10 string in the formats: #123, #-123, 123, -123
func DecodeInt(s string) (int, error) {
	if i := strings.Index(s, "#"); i == 0 {
		s = s[1:]
	}

	result, err := strconv.ParseInt(s, 10, 32)

	if err != nil {
		return 0, err
	}

	return int(result), nil
}

// Limits returns the inclusive range of a signed field of the given width.
func Limits(bits uint) (lower int, upper int) {
	return -(1 << (bits - 1)), (1 << (bits - 1)) - 1
}

// ToComplement packs value into a bits-wide two's-complement field.
func ToComplement(value int, bits uint) (uint16, error) {
	if bits == 0 || bits > 16 {
		panic("Invalid field width")
	}

	lower, upper := Limits(bits)

	if value < lower || value > upper {
		return 0, &RangeError{value, bits}
	}

	return uint16(value & ((1 << bits) - 1)), nil
}

// FromComplement recovers the signed value of a bits-wide field.
func FromComplement(field uint16, bits uint) int {
	return int(int16(SignExtend(field&uint16((1<<bits)-1), uint16(bits))))
}

func SignExtend(value uint16, bitcount uint16) uint16 {
	if (value>>(bitcount-1))&0x1 == 1 {
		value |= (0xFFFF << bitcount)
	}

	return value
}
