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
	"errors"

	"github.com/golang/glog"

	"github.com/lassandro/lc3asm/pkg/encoding"
)

// Segment is the contiguous run of words assembled from one origin block.
type Segment struct {
	Origin uint16
	Words  []uint16
}

type Program struct {
	Segments []Segment
	Symbols  *SymbolTable

	// Address of the first word of each construct to its source line
	Lines map[uint16]int
}

// Words concatenates every segment in program order.
func (p *Program) Words() []uint16 {
	var size int

	for _, segment := range p.Segments {
		size += len(segment.Words)
	}

	words := make([]uint16, 0, size)

	for _, segment := range p.Segments {
		words = append(words, segment.Words...)
	}

	return words
}

type codeGenerator struct {
	symbols *SymbolTable
	program *Program
}

// Generate encodes instructions against a completed symbol table.
func Generate(instructions []RawInstruction, symbols *SymbolTable) (*Program, error) {
	gen := codeGenerator{
		symbols: symbols,
		program: &Program{Symbols: symbols, Lines: make(map[uint16]int)},
	}

	if err := walk(instructions, gen.visit); err != nil {
		return nil, err
	}

	return gen.program, nil
}

func (gen *codeGenerator) visit(instruction *RawInstruction, addr uint16) error {
	switch instruction.Type {
	case DIRECTIVE_ORIG:
		gen.program.Segments = append(gen.program.Segments, Segment{Origin: addr})
		return nil
	case DIRECTIVE_END:
		return nil
	}

	words, err := gen.encode(instruction, addr)

	if err != nil {
		return err
	}

	if glog.V(2) {
		glog.Infof("%#04x %-8s %04x", addr, instruction.Operator, words)
	}

	segment := &gen.program.Segments[len(gen.program.Segments)-1]
	segment.Words = append(segment.Words, words...)
	gen.program.Lines[addr] = instruction.Position.Line

	return nil
}

func (gen *codeGenerator) register(operand Token) (uint16, error) {
	if operand.Type != TOKEN_REGISTER {
		return 0, &OperandKindMismatchError{
			operand.Position, []TokenType{TOKEN_REGISTER}, operand.Type,
		}
	}

	return operand.RegisterID()
}

func (gen *codeGenerator) label(operand Token) (uint16, error) {
	if operand.Type != TOKEN_LABEL {
		return 0, &OperandKindMismatchError{
			operand.Position, []TokenType{TOKEN_LABEL}, operand.Type,
		}
	}

	addr, err := gen.symbols.LabelAddress(operand.Value)

	if err != nil {
		return 0, &UndefinedLabelError{operand.Position, operand.Value}
	}

	return addr, nil
}

// pcOffset is the distance from the incremented PC of the instruction at addr
// to the label named by operand.
func (gen *codeGenerator) pcOffset(operand Token, addr uint16, bits uint) (uint16, error) {
	target, err := gen.label(operand)

	if err != nil {
		return 0, err
	}

	return pack(operand, int(target)-(int(addr)+1), bits)
}

func (gen *codeGenerator) immediate(operand Token, bits uint) (uint16, error) {
	if operand.Type != TOKEN_IMMEDIATE {
		return 0, &OperandKindMismatchError{
			operand.Position, []TokenType{TOKEN_IMMEDIATE}, operand.Type,
		}
	}

	value, err := operand.Immediate()

	if err != nil {
		return 0, err
	}

	return pack(operand, value, bits)
}

func pack(operand Token, value int, bits uint) (uint16, error) {
	field, err := encoding.ToComplement(value, bits)

	var rangeErr *encoding.RangeError

	if errors.As(err, &rangeErr) {
		return 0, &OutOfRangeError{operand.Position, rangeErr.Value, rangeErr.Bits}
	} else if err != nil {
		return 0, err
	}

	return field, nil
}

func (gen *codeGenerator) encode(instruction *RawInstruction, addr uint16) ([]uint16, error) {
	operands := instruction.Operands

	var scratch uint16

	switch instruction.Type {
	// ADD  |0001    |DR   |SR1  |0|00 |SR2   | Register  addition
	// ADD  |0001    |DR   |SR1  |1|imm5      | Immediate addition
	// AND  |0101    |DR   |SR1  |0|00 |SR2   | Register  bitwise
	// AND  |0101    |DR   |SR1  |1|imm5      | Immediate bitwise
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case INSTRUCTION_ADD, INSTRUCTION_AND:
		if instruction.Type == INSTRUCTION_ADD {
			scratch = OP_ADD << 12
		} else {
			scratch = OP_AND << 12
		}

		dr, err := gen.register(operands[0])

		if err != nil {
			return nil, err
		}

		sr1, err := gen.register(operands[1])

		if err != nil {
			return nil, err
		}

		scratch |= dr<<9 | sr1<<6

		switch operands[2].Type {
		case TOKEN_IMMEDIATE:
			imm5, err := gen.immediate(operands[2], FIELD_IMM5)

			if err != nil {
				return nil, err
			}

			scratch |= 1<<5 | imm5
		case TOKEN_REGISTER:
			sr2, err := gen.register(operands[2])

			if err != nil {
				return nil, err
			}

			scratch |= sr2
		default:
			return nil, &OperandKindMismatchError{
				operands[2].Position,
				[]TokenType{TOKEN_REGISTER, TOKEN_IMMEDIATE},
				operands[2].Type,
			}
		}

	// BR   |0000    |N|Z|P|PCoffset9         | Conditional branch
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case INSTRUCTION_BR:
		cond, _ := parseCondition(instruction.Operator[2:])

		offset, err := gen.pcOffset(operands[0], addr, FIELD_PCOFFSET9)

		if err != nil {
			return nil, err
		}

		scratch = OP_BR<<12 | cond<<9 | offset

	// JMP  |1100    |000  |BaseR|000000      | Jump
	// JSRR |0100    |0|00 |BaseR|000000      | Jump to subroutine register
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case INSTRUCTION_JMP, INSTRUCTION_JSRR:
		base, err := gen.register(operands[0])

		if err != nil {
			return nil, err
		}

		if instruction.Type == INSTRUCTION_JMP {
			scratch = OP_JMP << 12
		} else {
			scratch = OP_JSR << 12
		}

		scratch |= base << 6

	// RET  |1100    |000  |111  |000000      | Return
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case INSTRUCTION_RET:
		scratch = OP_JMP<<12 | 7<<6

	// JSR  |0100    |1|PCoffset11            | Jump to subroutine
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case INSTRUCTION_JSR:
		offset, err := gen.pcOffset(operands[0], addr, FIELD_PCOFFSET11)

		if err != nil {
			return nil, err
		}

		scratch = OP_JSR<<12 | 1<<11 | offset

	// LD   |0010    |DR   |PCoffset9         | Load
	// LDI  |1010    |DR   |PCoffset9         | Load indirect
	// ST   |0011    |SR   |PCoffset9         | Store
	// STI  |1011    |SR   |PCoffset9         | Store indirect
	// LEA  |1110    |DR   |PCoffset9         | Load effective address
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case INSTRUCTION_LD,
		INSTRUCTION_LDI,
		INSTRUCTION_LEA,
		INSTRUCTION_ST,
		INSTRUCTION_STI:
		switch instruction.Type {
		case INSTRUCTION_LD:
			scratch = OP_LD << 12
		case INSTRUCTION_LDI:
			scratch = OP_LDI << 12
		case INSTRUCTION_LEA:
			scratch = OP_LEA << 12
		case INSTRUCTION_ST:
			scratch = OP_ST << 12
		case INSTRUCTION_STI:
			scratch = OP_STI << 12
		}

		reg, err := gen.register(operands[0])

		if err != nil {
			return nil, err
		}

		offset, err := gen.pcOffset(operands[1], addr, FIELD_PCOFFSET9)

		if err != nil {
			return nil, err
		}

		scratch |= reg<<9 | offset

	// LDR  |0110    |DR   |BaseR|offset6     | Load base+offset
	// STR  |0111    |SR   |BaseR|offset6     | Store base+offset
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case INSTRUCTION_LDR, INSTRUCTION_STR:
		if instruction.Type == INSTRUCTION_LDR {
			scratch = OP_LDR << 12
		} else {
			scratch = OP_STR << 12
		}

		reg, err := gen.register(operands[0])

		if err != nil {
			return nil, err
		}

		base, err := gen.register(operands[1])

		if err != nil {
			return nil, err
		}

		offset, err := gen.immediate(operands[2], FIELD_OFFSET6)

		if err != nil {
			return nil, err
		}

		scratch |= reg<<9 | base<<6 | offset

	// NOT  |1001    |DR   |SR   |1|11111     | Bitwise complement
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case INSTRUCTION_NOT:
		dr, err := gen.register(operands[0])

		if err != nil {
			return nil, err
		}

		sr, err := gen.register(operands[1])

		if err != nil {
			return nil, err
		}

		scratch = OP_NOT<<12 | dr<<9 | sr<<6 | 0x3F

	// RTI  |1000    |000000000000            | Return from interrupt
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case INSTRUCTION_RTI:
		scratch = OP_RTI << 12

	// TRAP |1111    |0000   |trapvect8       | System call
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case INSTRUCTION_TRAP:
		if operands[0].Type != TOKEN_IMMEDIATE {
			return nil, &OperandKindMismatchError{
				operands[0].Position,
				[]TokenType{TOKEN_IMMEDIATE},
				operands[0].Type,
			}
		}

		vector, err := operands[0].Immediate()

		if err != nil {
			return nil, err
		}

		scratch = OP_TRAP<<12 | uint16(vector)&0xFF

	// .FILL #, .FILL LABEL
	case DIRECTIVE_FILL:
		switch operands[0].Type {
		case TOKEN_LABEL:
			target, err := gen.label(operands[0])

			if err != nil {
				return nil, err
			}

			scratch = target
		case TOKEN_IMMEDIATE:
			value, err := operands[0].Immediate()

			if err != nil {
				return nil, err
			}

			if value < -(1<<15) || value > 0xFFFF {
				return nil, &OutOfRangeError{operands[0].Position, value, FIELD_WORD}
			}

			scratch = uint16(value)
		default:
			return nil, &OperandKindMismatchError{
				operands[0].Position,
				[]TokenType{TOKEN_IMMEDIATE, TOKEN_LABEL},
				operands[0].Type,
			}
		}

	// .BLKW #
	case DIRECTIVE_BLKW:
		count, err := wordCount(instruction)

		if err != nil {
			return nil, err
		}

		return make([]uint16, count), nil

	// .STRINGZ "..."
	case DIRECTIVE_STRINGZ:
		content, err := stringOperand(operands[0])

		if err != nil {
			return nil, err
		}

		words := make([]uint16, 0, len(content)+1)

		for _, char := range content {
			if char > 0xFFFF {
				return nil, &OutOfRangeError{operands[0].Position, int(char), FIELD_WORD}
			}

			words = append(words, uint16(char))
		}

		return append(words, 0), nil

	default:
		return nil, &UnknownOperatorError{instruction.Position, instruction.Operator}
	}

	return []uint16{scratch}, nil
}
