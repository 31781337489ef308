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


// Package object reads and writes assembled programs.
//
// An object file is a sequence of segments, each stored as its origin, its
// word count and then its words, all big-endian. A debug file is a gob
// encoded SymTable stored alongside the object file with the extension
// ".lc3db".
package object

import (
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/lassandro/lc3asm/pkg/assembler"
)

var ErrSegmentSize = errors.New("segment does not fit in an object file")

type SymTable struct {
	// Absolute path of the assembled source, empty for stdin
	Source string
	Labels map[uint16]string
	Lines  map[uint16]int
}

func NewSymTable(source string, program *assembler.Program) *SymTable {
	table := SymTable{
		Source: source,
		Labels: make(map[uint16]string),
		Lines:  make(map[uint16]int, len(program.Lines)),
	}

	// Symbols are ordered by address, so the first label at an address wins
	for _, symbol := range program.Symbols.Symbols() {
		if _, ok := table.Labels[symbol.Addr]; !ok {
			table.Labels[symbol.Addr] = symbol.Label
		}
	}

	for addr, line := range program.Lines {
		table.Lines[addr] = line
	}

	return &table
}

func Write(output io.Writer, segments []assembler.Segment) error {
	for _, segment := range segments {
		if len(segment.Words) > 0xFFFF {
			return fmt.Errorf("%#04x: %w", segment.Origin, ErrSegmentSize)
		}

		header := [2]uint16{segment.Origin, uint16(len(segment.Words))}

		if err := binary.Write(output, binary.BigEndian, header); err != nil {
			return err
		}

		if err := binary.Write(output, binary.BigEndian, segment.Words); err != nil {
			return err
		}
	}

	return nil
}

func Read(input io.Reader) ([]assembler.Segment, error) {
	var segments []assembler.Segment

	for {
		var header [2]uint16

		if err := binary.Read(input, binary.BigEndian, &header); err != nil {
			if errors.Is(err, io.EOF) {
				return segments, nil
			}

			return nil, err
		}

		segment := assembler.Segment{
			Origin: header[0],
			Words:  make([]uint16, header[1]),
		}

		if int(segment.Origin)+len(segment.Words) > 1<<16 {
			return nil, fmt.Errorf("%#04x: %w", segment.Origin, ErrSegmentSize)
		}

		if err := binary.Read(input, binary.BigEndian, segment.Words); err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}

			return nil, err
		}

		segments = append(segments, segment)
	}
}

func WriteSymTable(output io.Writer, table *SymTable) error {
	return gob.NewEncoder(output).Encode(table)
}

func ReadSymTable(input io.Reader) (*SymTable, error) {
	var table SymTable

	if err := gob.NewDecoder(input).Decode(&table); err != nil {
		return nil, err
	}

	return &table, nil
}

// DebugPath names the debug file that accompanies an object file.
func DebugPath(objectPath string) string {
	return strings.TrimSuffix(objectPath, filepath.Ext(objectPath)) + ".lc3db"
}
