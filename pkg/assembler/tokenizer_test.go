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


package assembler_test

import (
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/lassandro/lc3asm/pkg/assembler"
)

type tokenCase struct {
	Input  string
	Types  []assembler.TokenType
	Values []string
}

func TestTokenizerClassification(t *testing.T) {
	const (
		I = assembler.TOKEN_IMMEDIATE
		R = assembler.TOKEN_REGISTER
		O = assembler.TOKEN_OPERATOR
		L = assembler.TOKEN_LABEL
		N = assembler.TOKEN_NUMBER
		S = assembler.TOKEN_STRING
	)

	tests := []tokenCase{
		{
			Input:  "R0 r7 R8",
			Types:  []assembler.TokenType{R, R, L},
			Values: []string{"R0", "r7", "R8"},
		},
		{
			Input:  "#10 #-5 #+3 x3000 X1f",
			Types:  []assembler.TokenType{I, I, I, I, I},
			Values: []string{"#10", "#-5", "#+3", "x3000", "X1f"},
		},
		{
			Input:  "12 -1",
			Types:  []assembler.TokenType{N, N},
			Values: []string{"12", "-1"},
		},
		{
			Input:  `"a b" "q\"x" ""`,
			Types:  []assembler.TokenType{S, S, S},
			Values: []string{`"a b"`, `"q\"x"`, `""`},
		},
		{
			Input:  ".orig .Stringz .foo",
			Types:  []assembler.TokenType{O, O, O},
			Values: []string{".ORIG", ".STRINGZ", ".FOO"},
		},
		{
			Input:  "add brNZ BRp ret jsrr",
			Types:  []assembler.TokenType{O, O, O, O, O},
			Values: []string{"ADD", "BRNZ", "BRP", "RET", "JSRR"},
		},
		{
			Input:  "LOOP x _tmp1 BRANCH HALT",
			Types:  []assembler.TokenType{L, L, L, L, L},
			Values: []string{"LOOP", "x", "_tmp1", "BRANCH", "HALT"},
		},
		{
			Input:  "ADD R1,R2,#3 ; comment \"ignored",
			Types:  []assembler.TokenType{O, R, R, I},
			Values: []string{"ADD", "R1", "R2", "#3"},
		},
		{
			Input:  "; only a comment\n\n   \t\n",
			Types:  []assembler.TokenType{},
			Values: []string{},
		},
	}

	for _, test := range tests {
		tokens, err := assembler.Tokenize(test.Input)

		if err != nil {
			t.Fatalf("Tokenize(%q): %s", test.Input, err)
		}

		types := make([]assembler.TokenType, 0, len(tokens))
		values := make([]string, 0, len(tokens))

		for _, token := range tokens {
			types = append(types, token.Type)
			values = append(values, token.Value)
		}

		if !reflect.DeepEqual(types, test.Types) {
			t.Errorf("Tokenize(%q) types = %v; want %v", test.Input, types, test.Types)
		}

		if !reflect.DeepEqual(values, test.Values) {
			t.Errorf("Tokenize(%q) values = %q; want %q", test.Input, values, test.Values)
		}
	}
}

func TestTokenizerErrors(t *testing.T) {
	inputs := []string{
		`"abc`,
		"\"abc\nRET\"",
		"#",
		"#1x",
		"1abc",
		"a-b",
		".",
		"x10000",
		"99999999999",
		"LABEL:",
	}

	for _, input := range inputs {
		_, err := assembler.Tokenize(input)

		var lexErr *assembler.LexError

		if !errors.As(err, &lexErr) {
			t.Errorf("Tokenize(%q) error = %v; want LexError", input, err)
			continue
		}

		if lexErr.Position.Line != 1 {
			t.Errorf("Tokenize(%q) error line = %d; want 1", input, lexErr.Position.Line)
		}
	}
}

func TestTokenizerPosition(t *testing.T) {
	tokens, err := assembler.Tokenize("  ADD R1\n\tLD R0, X")

	if err != nil {
		t.Fatal(err)
	}

	want := []assembler.Cursor{
		{Line: 1, Column: 3, Byte: 2, Size: 3, LineByte: 0},
		{Line: 1, Column: 7, Byte: 6, Size: 2, LineByte: 0},
		{Line: 2, Column: 2, Byte: 10, Size: 2, LineByte: 9},
		{Line: 2, Column: 5, Byte: 13, Size: 2, LineByte: 9},
		{Line: 2, Column: 9, Byte: 17, Size: 1, LineByte: 9},
	}

	if len(tokens) != len(want) {
		t.Fatalf("Token count mismatch\n\twant:%d\n\thave:%d", len(want), len(tokens))
	}

	for i, token := range tokens {
		if token.Position != want[i] {
			t.Errorf(
				"Position mismatch (%s)\n\twant:%+v\n\thave:%+v",
				token, want[i], token.Position,
			)
		}
	}
}

func TestTokenizerRestart(t *testing.T) {
	tk := assembler.NewTokenizer(".ORIG x3000\nA .STRINGZ \"hi\"\n.END")

	collect := func() []assembler.Token {
		var tokens []assembler.Token

		for {
			token, err := tk.Next()

			if err == io.EOF {
				return tokens
			} else if err != nil {
				t.Fatal(err)
			}

			tokens = append(tokens, token)
		}
	}

	first := collect()

	if _, err := tk.Next(); err != io.EOF {
		t.Fatalf("Exhausted tokenizer returned %v; want io.EOF", err)
	}

	tk.Reset()
	second := collect()

	if len(first) != 6 || !reflect.DeepEqual(first, second) {
		t.Fatalf("Restarted sequence differs\n\twant:%v\n\thave:%v", first, second)
	}
}

func TestTokenAccessors(t *testing.T) {
	tokens, err := assembler.Tokenize(`R5 #-5 x3000 -1 LOOP "a\tb\\c\q"`)

	if err != nil {
		t.Fatal(err)
	}

	if reg, err := tokens[0].RegisterID(); err != nil || reg != 5 {
		t.Errorf("RegisterID() = %d, %v; want 5", reg, err)
	}

	if value, err := tokens[1].Immediate(); err != nil || value != -5 {
		t.Errorf("Immediate() = %d, %v; want -5", value, err)
	}

	if value, err := tokens[2].Immediate(); err != nil || value != 0x3000 {
		t.Errorf("Immediate() = %#x, %v; want 0x3000", value, err)
	}

	if value, err := tokens[3].Count(); err != nil || value != -1 {
		t.Errorf("Count() = %d, %v; want -1", value, err)
	}

	if label, err := tokens[4].LabelName(); err != nil || label != "LOOP" {
		t.Errorf("LabelName() = %q, %v; want LOOP", label, err)
	}

	if content, err := tokens[5].StringContent(); err != nil || content != "a\tb\\c\\q" {
		t.Errorf("StringContent() = %q, %v; want %q", content, err, "a\tb\\c\\q")
	}
}

func TestTokenTypeMismatch(t *testing.T) {
	tokens, err := assembler.Tokenize(`R1 #1 LOOP "s" 3`)

	if err != nil {
		t.Fatal(err)
	}

	checks := []struct {
		Name     string
		Call     func() error
		Required assembler.TokenType
		Received assembler.TokenType
	}{
		{
			"Immediate of Register",
			func() error { _, err := tokens[0].Immediate(); return err },
			assembler.TOKEN_IMMEDIATE, assembler.TOKEN_REGISTER,
		},
		{
			"RegisterID of Immediate",
			func() error { _, err := tokens[1].RegisterID(); return err },
			assembler.TOKEN_REGISTER, assembler.TOKEN_IMMEDIATE,
		},
		{
			"StringContent of Label",
			func() error { _, err := tokens[2].StringContent(); return err },
			assembler.TOKEN_STRING, assembler.TOKEN_LABEL,
		},
		{
			"LabelName of String",
			func() error { _, err := tokens[3].LabelName(); return err },
			assembler.TOKEN_LABEL, assembler.TOKEN_STRING,
		},
		{
			"Count of Immediate",
			func() error { _, err := tokens[1].Count(); return err },
			assembler.TOKEN_NUMBER, assembler.TOKEN_IMMEDIATE,
		},
		{
			"Immediate of Number",
			func() error { _, err := tokens[4].Immediate(); return err },
			assembler.TOKEN_IMMEDIATE, assembler.TOKEN_NUMBER,
		},
	}

	for _, check := range checks {
		var mismatch *assembler.TypeMismatchError

		if err := check.Call(); !errors.As(err, &mismatch) {
			t.Errorf("%s: error = %v; want TypeMismatchError", check.Name, err)
			continue
		}

		if mismatch.Required != check.Required || mismatch.Received != check.Received {
			t.Errorf(
				"%s: mismatch want:%s/%s have:%s/%s",
				check.Name,
				check.Required, check.Received,
				mismatch.Required, mismatch.Received,
			)
		}
	}
}
