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

const (
	TOKEN_NONE TokenType = iota
	TOKEN_IMMEDIATE
	TOKEN_REGISTER
	TOKEN_OPERATOR
	TOKEN_LABEL
	TOKEN_NUMBER
	TOKEN_STRING
)

// Field widths of the signed operands packed into instruction words
const (
	FIELD_IMM5       uint = 5
	FIELD_OFFSET6    uint = 6
	FIELD_TRAPVEC8   uint = 8
	FIELD_PCOFFSET9  uint = 9
	FIELD_PCOFFSET11 uint = 11
	FIELD_WORD       uint = 16
)

const (
	OPERATOR_INVALID OperatorType = iota

	// Assembly Instructions
	INSTRUCTION_ADD
	INSTRUCTION_AND
	INSTRUCTION_BR
	INSTRUCTION_JMP
	INSTRUCTION_JSR
	INSTRUCTION_JSRR
	INSTRUCTION_LD
	INSTRUCTION_LDI
	INSTRUCTION_LDR
	INSTRUCTION_LEA
	INSTRUCTION_NOT
	INSTRUCTION_RET
	INSTRUCTION_RTI
	INSTRUCTION_ST
	INSTRUCTION_STI
	INSTRUCTION_STR
	INSTRUCTION_TRAP

	// Assembler Directives
	DIRECTIVE_ORIG
	DIRECTIVE_FILL
	DIRECTIVE_BLKW
	DIRECTIVE_STRINGZ
	DIRECTIVE_END
)

const (
	OP_ADD  uint16 = 0b0001
	OP_AND  uint16 = 0b0101
	OP_BR   uint16 = 0b0000
	OP_JMP  uint16 = 0b1100
	OP_JSR  uint16 = 0b0100
	OP_LD   uint16 = 0b0010
	OP_LDI  uint16 = 0b1010
	OP_LDR  uint16 = 0b0110
	OP_LEA  uint16 = 0b1110
	OP_NOT  uint16 = 0b1001
	OP_RTI  uint16 = 0b1000
	OP_ST   uint16 = 0b0011
	OP_STI  uint16 = 0b1011
	OP_STR  uint16 = 0b0111
	OP_TRAP uint16 = 0b1111
)

const (
	COND_N uint16 = 0x4
	COND_Z uint16 = 0x2
	COND_P uint16 = 0x1
)

// Keyed by the normalized (upper case) mnemonic. Conditional branches are
// matched separately, see parseOperator.
var operators = map[string]OperatorType{
	"ADD":      INSTRUCTION_ADD,
	"AND":      INSTRUCTION_AND,
	"JMP":      INSTRUCTION_JMP,
	"JSR":      INSTRUCTION_JSR,
	"JSRR":     INSTRUCTION_JSRR,
	"LD":       INSTRUCTION_LD,
	"LDI":      INSTRUCTION_LDI,
	"LDR":      INSTRUCTION_LDR,
	"LEA":      INSTRUCTION_LEA,
	"NOT":      INSTRUCTION_NOT,
	"RET":      INSTRUCTION_RET,
	"RTI":      INSTRUCTION_RTI,
	"ST":       INSTRUCTION_ST,
	"STI":      INSTRUCTION_STI,
	"STR":      INSTRUCTION_STR,
	"TRAP":     INSTRUCTION_TRAP,
	".ORIG":    DIRECTIVE_ORIG,
	".FILL":    DIRECTIVE_FILL,
	".BLKW":    DIRECTIVE_BLKW,
	".STRINGZ": DIRECTIVE_STRINGZ,
	".END":     DIRECTIVE_END,
}

var operandCounts = map[OperatorType]int{
	INSTRUCTION_ADD:   3,
	INSTRUCTION_AND:   3,
	INSTRUCTION_BR:    1,
	INSTRUCTION_JMP:   1,
	INSTRUCTION_JSR:   1,
	INSTRUCTION_JSRR:  1,
	INSTRUCTION_LD:    2,
	INSTRUCTION_LDI:   2,
	INSTRUCTION_LDR:   3,
	INSTRUCTION_LEA:   2,
	INSTRUCTION_NOT:   2,
	INSTRUCTION_RET:   0,
	INSTRUCTION_RTI:   0,
	INSTRUCTION_ST:    2,
	INSTRUCTION_STI:   2,
	INSTRUCTION_STR:   3,
	INSTRUCTION_TRAP:  1,
	DIRECTIVE_ORIG:    1,
	DIRECTIVE_FILL:    1,
	DIRECTIVE_BLKW:    1,
	DIRECTIVE_STRINGZ: 1,
	DIRECTIVE_END:     0,
}
