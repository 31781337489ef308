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
	"io"
	"strings"
)

// TokenSource is anything yielding tokens in source order, ending with io.EOF.
type TokenSource interface {
	Next() (Token, error)
}

func parseOperator(ident string) OperatorType {
	if operator, exists := operators[ident]; exists {
		return operator
	}

	if strings.HasPrefix(ident, "BR") {
		if _, ok := parseCondition(ident[2:]); ok {
			return INSTRUCTION_BR
		}
	}

	return OPERATOR_INVALID
}

// parseCondition maps a BR suffix onto its N|Z|P bits. Each flag may appear
// once, in any order, and no suffix means unconditional.
func parseCondition(suffix string) (uint16, bool) {
	if suffix == "" {
		return COND_N | COND_Z | COND_P, true
	}

	var cond uint16

	for _, char := range strings.ToUpper(suffix) {
		var flag uint16

		switch char {
		case 'N':
			flag = COND_N
		case 'Z':
			flag = COND_Z
		case 'P':
			flag = COND_P
		default:
			return 0, false
		}

		if cond&flag != 0 {
			return 0, false
		}

		cond |= flag
	}

	return cond, true
}

// Parse groups tokens by source line into raw instructions. Every non-empty
// line yields exactly one instruction.
func Parse(tokens TokenSource) ([]RawInstruction, error) {
	var instructions []RawInstruction
	var line []Token

	for {
		token, err := tokens.Next()

		if err != nil && err != io.EOF {
			return nil, err
		}

		if len(line) > 0 && (err == io.EOF || token.Position.Line != line[0].Position.Line) {
			instruction, lineErr := parseLine(line)

			if lineErr != nil {
				return nil, lineErr
			}

			instructions = append(instructions, instruction)
			line = line[:0]
		}

		if err == io.EOF {
			return instructions, nil
		}

		line = append(line, token)
	}
}

func parseLine(tokens []Token) (RawInstruction, error) {
	var instruction RawInstruction

	keyword := &tokens[0]

	if keyword.Type == TOKEN_LABEL {
		instruction.Label = keyword.Value
		instruction.LabelPosition = keyword.Position

		// A label must be followed by the operator it names
		if len(tokens) == 1 {
			return instruction, &UnknownOperatorError{keyword.Position, keyword.Value}
		}

		tokens = tokens[1:]
		keyword = &tokens[0]
	}

	if keyword.Type != TOKEN_OPERATOR {
		return instruction, &UnknownOperatorError{keyword.Position, keyword.Value}
	}

	instruction.Operator = keyword.Value
	instruction.Position = keyword.Position

	if instruction.Type = parseOperator(keyword.Value); instruction.Type == OPERATOR_INVALID {
		return instruction, &UnknownOperatorError{keyword.Position, keyword.Value}
	}

	operands := make([]Token, len(tokens)-1)
	copy(operands, tokens[1:])

	if count := len(operands); count != operandCounts[instruction.Type] {
		return instruction, &ArityError{
			keyword.Position,
			instruction.Operator,
			operandCounts[instruction.Type],
			count,
		}
	}

	instruction.Operands = operands

	return instruction, nil
}
