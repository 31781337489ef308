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
	"sort"
	"unicode/utf8"

	"github.com/golang/glog"
)

// SymbolTable maps each label to the address of the first word of the
// construct it names. It is built once by Link and read-only afterwards.
type SymbolTable struct {
	labels map[string]uint16
}

type Symbol struct {
	Label string
	Addr  uint16
}

// LabelAddress resolves a label. The returned *UndefinedLabelError carries no
// position; callers holding the referencing token attach their own.
func (st *SymbolTable) LabelAddress(label string) (uint16, error) {
	addr, exists := st.labels[label]

	if !exists {
		return 0, &UndefinedLabelError{Received: label}
	}

	return addr, nil
}

func (st *SymbolTable) Len() int {
	return len(st.labels)
}

// Symbols lists every label ordered by address, then by name.
func (st *SymbolTable) Symbols() []Symbol {
	symbols := make([]Symbol, 0, len(st.labels))

	for label, addr := range st.labels {
		symbols = append(symbols, Symbol{label, addr})
	}

	sort.Slice(symbols, func(i, j int) bool {
		if symbols[i].Addr != symbols[j].Addr {
			return symbols[i].Addr < symbols[j].Addr
		}

		return symbols[i].Label < symbols[j].Label
	})

	return symbols
}

// Link assigns every label the address of the construct it is attached to.
func Link(instructions []RawInstruction) (*SymbolTable, error) {
	symbols := &SymbolTable{labels: make(map[string]uint16)}

	err := walk(instructions, func(instruction *RawInstruction, addr uint16) error {
		if instruction.Label == "" {
			return nil
		}

		if _, exists := symbols.labels[instruction.Label]; exists {
			return &DuplicateLabelError{
				instruction.LabelPosition, instruction.Label,
			}
		}

		symbols.labels[instruction.Label] = addr

		if glog.V(2) {
			glog.Infof("label %s = %#04x", instruction.Label, addr)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return symbols, nil
}

type visitor func(instruction *RawInstruction, addr uint16) error

// walk tracks the origin blocks of a program and visits each instruction with
// the address of its first word. Link and Generate both derive addresses from
// it, so they cannot disagree.
func walk(instructions []RawInstruction, visit visitor) error {
	var open bool
	var addr uint32

	for i := range instructions {
		instruction := &instructions[i]

		switch instruction.Type {
		case DIRECTIVE_ORIG:
			if open {
				return &DuplicateOriginError{instruction.Position}
			}

			origin, err := originAddress(instruction)

			if err != nil {
				return err
			}

			open = true
			addr = uint32(origin)

			if err := visit(instruction, origin); err != nil {
				return err
			}

			continue

		case DIRECTIVE_END:
			if !open {
				return &OutsideAddressableAreaError{
					instruction.Position, instruction.Operator,
				}
			}

			open = false

			// A block may fill memory up to xFFFF, leaving nothing to name
			if addr > 0xFFFF && instruction.Label != "" {
				return &OversizedBinaryError{instruction.LabelPosition}
			}

			if err := visit(instruction, uint16(addr)); err != nil {
				return err
			}

			continue
		}

		if !open {
			return &OutsideAddressableAreaError{
				instruction.Position, instruction.Operator,
			}
		}

		size, err := wordCount(instruction)

		if err != nil {
			return err
		}

		if addr > 0xFFFF || addr+size > 1<<16 {
			return &OversizedBinaryError{instruction.Position}
		}

		if err := visit(instruction, uint16(addr)); err != nil {
			return err
		}

		addr += size
	}

	return nil
}

// wordCount is the number of words an instruction or data directive occupies.
func wordCount(instruction *RawInstruction) (uint32, error) {
	switch instruction.Type {
	case DIRECTIVE_BLKW:
		count, err := blockSize(instruction.Operands[0])

		if err != nil {
			return 0, err
		}

		// Non-positive counts reserve nothing
		if count < 0 {
			return 0, nil
		}

		return uint32(count), nil

	case DIRECTIVE_STRINGZ:
		content, err := stringOperand(instruction.Operands[0])

		if err != nil {
			return 0, err
		}

		return uint32(utf8.RuneCountInString(content)) + 1, nil

	case DIRECTIVE_ORIG, DIRECTIVE_END:
		return 0, nil
	}

	return 1, nil
}

func originAddress(instruction *RawInstruction) (uint16, error) {
	operand := instruction.Operands[0]

	var value int
	var err error

	switch operand.Type {
	case TOKEN_IMMEDIATE:
		value, err = operand.Immediate()
	case TOKEN_NUMBER:
		value, err = operand.Count()
	default:
		return 0, &OperandKindMismatchError{
			operand.Position,
			[]TokenType{TOKEN_IMMEDIATE, TOKEN_NUMBER},
			operand.Type,
		}
	}

	if err != nil {
		return 0, err
	}

	if value < 0 || value > 0xFFFF {
		return 0, &OutOfRangeError{operand.Position, value, FIELD_WORD}
	}

	return uint16(value), nil
}

func blockSize(operand Token) (int, error) {
	switch operand.Type {
	case TOKEN_NUMBER:
		return operand.Count()
	case TOKEN_IMMEDIATE:
		return operand.Immediate()
	}

	return 0, &OperandKindMismatchError{
		operand.Position,
		[]TokenType{TOKEN_NUMBER, TOKEN_IMMEDIATE},
		operand.Type,
	}
}

func stringOperand(operand Token) (string, error) {
	if operand.Type != TOKEN_STRING {
		return "", &OperandKindMismatchError{
			operand.Position,
			[]TokenType{TOKEN_STRING},
			operand.Type,
		}
	}

	return operand.StringContent()
}
