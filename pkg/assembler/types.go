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
	"fmt"
	"strings"
)

type TokenType uint
type OperatorType uint

type Cursor struct {
	Line     int
	Column   int
	Byte     int64
	Size     int64
	LineByte int64
}

// Token is a classified unit of source text. Content holds the text exactly as
// written, except for operators which are stored upper case.
type Token struct {
	Type     TokenType
	Position Cursor
	Value    string
}

// RawInstruction is one source line grouped into an optional label, an
// operator and its operands, before any address is known.
type RawInstruction struct {
	Label         string
	LabelPosition Cursor
	Operator      string
	Type          OperatorType
	Operands      []Token
	Position      Cursor
}

func (t TokenType) String() string {
	switch t {
	case TOKEN_IMMEDIATE:
		return "Immediate"
	case TOKEN_REGISTER:
		return "Register"
	case TOKEN_OPERATOR:
		return "Operator"
	case TOKEN_LABEL:
		return "Label"
	case TOKEN_NUMBER:
		return "Number"
	case TOKEN_STRING:
		return "String"
	default:
		return "<invalid>"
	}
}

type TokenError interface {
	GetPosition() Cursor
}

type LexError struct {
	Position Cursor
	Received string
	Reason   string
}

func (err *LexError) GetPosition() Cursor {
	return err.Position
}

func (err *LexError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: %s '%s'",
		err.Position.Line,
		err.Position.Column,
		err.Reason,
		err.Received,
	)
}

type TypeMismatchError struct {
	Position Cursor
	Required TokenType
	Received TokenType
}

func (err *TypeMismatchError) GetPosition() Cursor {
	return err.Position
}

func (err *TypeMismatchError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Token type mismatch\n\twant:%s\n\thave:%s",
		err.Position.Line,
		err.Position.Column,
		err.Required,
		err.Received,
	)
}

type ArityError struct {
	Position Cursor
	Operator string
	Required int
	Received int
}

func (err *ArityError) GetPosition() Cursor {
	return err.Position
}

func (err *ArityError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Invalid number of operands for %s\n\twant:%d\n\thave:%d",
		err.Position.Line,
		err.Position.Column,
		err.Operator,
		err.Required,
		err.Received,
	)
}

type OperandKindMismatchError struct {
	Position Cursor
	Required []TokenType
	Received TokenType
}

func (err *OperandKindMismatchError) GetPosition() Cursor {
	return err.Position
}

func (err *OperandKindMismatchError) Error() string {
	var requiredString string

	requiredStrings := make([]string, 0, len(err.Required))

	for _, tokenType := range err.Required {
		requiredStrings = append(requiredStrings, tokenType.String())
	}

	if count := len(requiredStrings); count == 1 {
		requiredString = requiredStrings[0]
	} else if count == 2 {
		requiredString = requiredStrings[0] + " or " + requiredStrings[1]
	} else if count > 2 {
		requiredString = strings.Join(
			requiredStrings[:len(requiredStrings)-1], ", ",
		) + ", or " + requiredStrings[len(requiredStrings)-1]
	}

	return fmt.Sprintf(
		"%02d:%02d: Invalid operand\n\twant:%s\n\thave:%s",
		err.Position.Line,
		err.Position.Column,
		requiredString,
		err.Received,
	)
}

type UnknownOperatorError struct {
	Position Cursor
	Received string
}

func (err *UnknownOperatorError) GetPosition() Cursor {
	return err.Position
}

func (err *UnknownOperatorError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Unknown operator '%s'",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type DuplicateLabelError struct {
	Position Cursor
	Received string
}

func (err *DuplicateLabelError) GetPosition() Cursor {
	return err.Position
}

func (err *DuplicateLabelError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Redeclaration of label '%s'",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type UndefinedLabelError struct {
	Position Cursor
	Received string
}

func (err *UndefinedLabelError) GetPosition() Cursor {
	return err.Position
}

func (err *UndefinedLabelError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Unknown label '%s'",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type DuplicateOriginError struct {
	Position Cursor
}

func (err *DuplicateOriginError) GetPosition() Cursor {
	return err.Position
}

func (err *DuplicateOriginError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: .ORIG inside an open origin block",
		err.Position.Line,
		err.Position.Column,
	)
}

// OutsideAddressableAreaError is raised for anything but .ORIG appearing
// before the first .ORIG or after an .END.
type OutsideAddressableAreaError struct {
	Position Cursor
	Operator string
}

func (err *OutsideAddressableAreaError) GetPosition() Cursor {
	return err.Position
}

func (err *OutsideAddressableAreaError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: %s outside of addressable area",
		err.Position.Line,
		err.Position.Column,
		err.Operator,
	)
}

type OutOfRangeError struct {
	Position Cursor
	Value    int
	Bits     uint
}

func (err *OutOfRangeError) GetPosition() Cursor {
	return err.Position
}

func (err *OutOfRangeError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Value exceeds allowed size\n\twant:%d bits\n\thave:%d",
		err.Position.Line,
		err.Position.Column,
		err.Bits,
		err.Value,
	)
}

type OversizedBinaryError struct {
	Position Cursor
}

func (err *OversizedBinaryError) GetPosition() Cursor {
	return err.Position
}

func (err *OversizedBinaryError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Binary exceeds addressable memory",
		err.Position.Line,
		err.Position.Column,
	)
}
