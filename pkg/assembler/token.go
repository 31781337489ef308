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


package assembler

import (
	"strings"

	"github.com/lassandro/lc3asm/pkg/encoding"
)

func (token Token) expect(tokenType TokenType) error {
	if token.Type != tokenType {
		return &TypeMismatchError{token.Position, tokenType, token.Type}
	}

	return nil
}

// RegisterID returns the register number of an R0..R7 token.
func (token Token) RegisterID() (uint16, error) {
	if err := token.expect(TOKEN_REGISTER); err != nil {
		return 0, err
	}

	return uint16(token.Value[1] - '0'), nil
}

// Immediate returns the numeric value of a #decimal or xHEX literal without
// regard to field width. Hex literals are unsigned.
func (token Token) Immediate() (int, error) {
	if err := token.expect(TOKEN_IMMEDIATE); err != nil {
		return 0, err
	}

	if token.Value[0] == '#' {
		result, err := encoding.DecodeInt(token.Value)

		if err != nil {
			return 0, &LexError{token.Position, token.Value, "Invalid numeric literal"}
		}

		return result, nil
	}

	result, err := encoding.DecodeHex(token.Value)

	if err != nil {
		return 0, &LexError{token.Position, token.Value, "Invalid numeric literal"}
	}

	return int(result), nil
}

// Count returns the value of a plain decimal number.
func (token Token) Count() (int, error) {
	if err := token.expect(TOKEN_NUMBER); err != nil {
		return 0, err
	}

	result, err := encoding.DecodeInt(token.Value)

	if err != nil {
		return 0, &LexError{token.Position, token.Value, "Invalid numeric literal"}
	}

	return result, nil
}

// LabelName returns the identifier of a label token.
func (token Token) LabelName() (string, error) {
	if err := token.expect(TOKEN_LABEL); err != nil {
		return "", err
	}

	return token.Value, nil
}

// StringContent strips the quotes of a string token and decodes its escapes.
// Unknown escapes are kept verbatim.
func (token Token) StringContent() (string, error) {
	if err := token.expect(TOKEN_STRING); err != nil {
		return "", err
	}

	raw := token.Value[1 : len(token.Value)-1]

	var builder strings.Builder
	builder.Grow(len(raw))

	escape := false

	for _, char := range raw {
		if !escape {
			if char == '\\' {
				escape = true
			} else {
				builder.WriteRune(char)
			}

			continue
		}

		escape = false

		switch char {
		case 'n':
			builder.WriteRune('\n')
		case 't':
			builder.WriteRune('\t')
		case 'b':
			builder.WriteRune('\b')
		case '"':
			builder.WriteRune('"')
		case '\\':
			builder.WriteRune('\\')
		default:
			builder.WriteRune('\\')
			builder.WriteRune(char)
		}
	}

	return builder.String(), nil
}

func (token Token) String() string {
	switch token.Type {
	case TOKEN_IMMEDIATE:
		return "I:" + token.Value
	case TOKEN_REGISTER:
		return "R:" + token.Value
	case TOKEN_OPERATOR:
		return "O:" + token.Value
	case TOKEN_LABEL:
		return "L:" + token.Value
	case TOKEN_NUMBER:
		return "N:" + token.Value
	case TOKEN_STRING:
		return "S:" + token.Value
	default:
		return "?:" + token.Value
	}
}
