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


// Package assembler translates LC-3 assembly source into 16-bit machine words.
//
// Assembly runs in four stages, each consuming the complete output of the one
// before it:
//
//	source -> Tokenizer -> Parse -> Link -> Generate -> Program
//
// Link walks every instruction once to build the symbol table, so forward
// references resolve the same as backward ones. Generate walks the same
// instructions again and encodes them. The first error aborts assembly and no
// words are returned.
package assembler

import (
	"io"

	"github.com/golang/glog"
)

// Assemble reads all of input and assembles it.
func Assemble(input io.Reader) (*Program, error) {
	source, err := io.ReadAll(input)

	if err != nil {
		return nil, err
	}

	return AssembleString(string(source))
}

func AssembleString(source string) (*Program, error) {
	instructions, err := Parse(NewTokenizer(source))

	if err != nil {
		return nil, err
	}

	glog.V(1).Infof("parsed %d instructions", len(instructions))

	symbols, err := Link(instructions)

	if err != nil {
		return nil, err
	}

	glog.V(1).Infof("linked %d labels", symbols.Len())

	program, err := Generate(instructions, symbols)

	if err != nil {
		return nil, err
	}

	glog.V(1).Infof(
		"generated %d words in %d segments",
		len(program.Words()), len(program.Segments),
	)

	return program, nil
}
