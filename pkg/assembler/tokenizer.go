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

	"github.com/lassandro/lc3asm/pkg/encoding"
)

// Tokenizer splits source text into tokens on demand. Its only state is the
// read position, so Reset replays the same sequence.
type Tokenizer struct {
	source   string
	offset   int
	line     int
	lineByte int
}

func NewTokenizer(source string) *Tokenizer {
	return &Tokenizer{source: source, line: 1}
}

func (tk *Tokenizer) Reset() {
	tk.offset = 0
	tk.line = 1
	tk.lineByte = 0
}

// Next returns the next token in source order, or io.EOF once the source is
// exhausted.
func (tk *Tokenizer) Next() (Token, error) {
	for tk.offset < len(tk.source) {
		switch char := tk.source[tk.offset]; {
		case char == '\n':
			tk.offset++
			tk.line++
			tk.lineByte = tk.offset

		// Operand separators are whitespace as far as tokens are concerned
		case isSpace(char) || char == ',':
			tk.offset++

		// Comments
		case char == ';':
			for tk.offset < len(tk.source) && tk.source[tk.offset] != '\n' {
				tk.offset++
			}

		// String Literal
		case char == '"':
			return tk.scanString()

		default:
			return tk.scanWord()
		}
	}

	return Token{}, io.EOF
}

// Tokenize collects every token of source.
func Tokenize(source string) ([]Token, error) {
	tk := NewTokenizer(source)
	tokens := make([]Token, 0, len(source)/4)

	for {
		token, err := tk.Next()

		if err == io.EOF {
			return tokens, nil
		} else if err != nil {
			return nil, err
		}

		tokens = append(tokens, token)
	}
}

func (tk *Tokenizer) cursor(start int) Cursor {
	return Cursor{
		Line:     tk.line,
		Column:   start - tk.lineByte + 1,
		Byte:     int64(start),
		Size:     int64(tk.offset - start),
		LineByte: int64(tk.lineByte),
	}
}

func (tk *Tokenizer) scanString() (Token, error) {
	start := tk.offset
	escape := false

	tk.offset++

	for tk.offset < len(tk.source) && tk.source[tk.offset] != '\n' {
		char := tk.source[tk.offset]
		tk.offset++

		if escape {
			escape = false
		} else if char == '\\' {
			escape = true
		} else if char == '"' {
			return Token{TOKEN_STRING, tk.cursor(start), tk.source[start:tk.offset]}, nil
		}
	}

	return Token{}, &LexError{
		tk.cursor(start),
		strings.TrimRight(tk.source[start:tk.offset], "\r"),
		"Unterminated string literal",
	}
}

func (tk *Tokenizer) scanWord() (Token, error) {
	start := tk.offset

	for tk.offset < len(tk.source) {
		char := tk.source[tk.offset]

		if char == '\n' || char == ',' || char == ';' || isSpace(char) {
			break
		}

		tk.offset++
	}

	text := tk.source[start:tk.offset]
	position := tk.cursor(start)

	tokenType, value, ok := classify(text)

	if !ok {
		return Token{}, &LexError{position, text, "Unrecognized token"}
	}

	return Token{tokenType, position, value}, nil
}

// classify applies the token categories in priority order.
func classify(text string) (TokenType, string, bool) {
	switch {
	case isRegister(text):
		return TOKEN_REGISTER, text, true

	// Base 10 Literal (i.e. #42, #-1)
	case text[0] == '#':
		_, err := encoding.DecodeInt(text)
		return TOKEN_IMMEDIATE, text, err == nil

	// Hex Literal (i.e. x2A, no leading zero)
	case (text[0] == 'x' || text[0] == 'X') && isHex(text[1:]):
		_, err := encoding.DecodeHex(text)
		return TOKEN_IMMEDIATE, text, err == nil

	case isDecimal(text):
		_, err := encoding.DecodeInt(text)
		return TOKEN_NUMBER, text, err == nil

	// Assembler Directives
	case text[0] == '.':
		return TOKEN_OPERATOR, strings.ToUpper(text), isIdentifier(text[1:])

	case parseOperator(strings.ToUpper(text)) != OPERATOR_INVALID:
		return TOKEN_OPERATOR, strings.ToUpper(text), true

	case isIdentifier(text):
		return TOKEN_LABEL, text, true
	}

	return TOKEN_NONE, text, false
}

func isSpace(char byte) bool {
	return char == ' ' || char == '\t' || char == '\r' || char == '\v' || char == '\f'
}

func isRegister(text string) bool {
	return len(text) == 2 &&
		(text[0] == 'R' || text[0] == 'r') &&
		text[1] >= '0' && text[1] <= '7'
}

func isHex(text string) bool {
	if len(text) == 0 {
		return false
	}

	for i := 0; i < len(text); i++ {
		char := text[i]

		if !(char >= '0' && char <= '9') &&
			!(char >= 'a' && char <= 'f') &&
			!(char >= 'A' && char <= 'F') {
			return false
		}
	}

	return true
}

func isDecimal(text string) bool {
	if text[0] == '-' || text[0] == '+' {
		text = text[1:]
	}

	if len(text) == 0 {
		return false
	}

	for i := 0; i < len(text); i++ {
		if text[i] < '0' || text[i] > '9' {
			return false
		}
	}

	return true
}

func isIdentifier(text string) bool {
	if len(text) == 0 {
		return false
	}

	for i := 0; i < len(text); i++ {
		char := text[i]

		switch {
		case char == '_',
			char >= 'a' && char <= 'z',
			char >= 'A' && char <= 'Z':
		case char >= '0' && char <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}

	return true
}
