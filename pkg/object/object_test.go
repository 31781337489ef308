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


package object_test

import (
	"bytes"
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/lassandro/lc3asm/pkg/assembler"
	"github.com/lassandro/lc3asm/pkg/object"
)

func TestWriteLayout(t *testing.T) {
	var buffer bytes.Buffer

	segments := []assembler.Segment{
		{Origin: 0x3000, Words: []uint16{0x1283, 0xF025}},
		{Origin: 0x4000, Words: []uint16{}},
	}

	if err := object.Write(&buffer, segments); err != nil {
		t.Fatal(err)
	}

	want := []byte{
		0x30, 0x00, 0x00, 0x02, 0x12, 0x83, 0xF0, 0x25,
		0x40, 0x00, 0x00, 0x00,
	}

	if have := buffer.Bytes(); !bytes.Equal(have, want) {
		t.Fatalf("Object layout mismatch\nwant:% x\nhave:% x", want, have)
	}

	result, err := object.Read(&buffer)

	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(result, segments) {
		t.Fatalf("Segment mismatch\nwant:%v\nhave:%v", segments, result)
	}
}

func TestReadAssembled(t *testing.T) {
	program, err := assembler.AssembleString(
		".ORIG x3000\nLEA R0, MSG\nTRAP x22\nTRAP x25\n" +
			"MSG .STRINGZ \"hi\"\n.END\n.ORIG x0030\n.FILL x4000\n.END\n",
	)

	if err != nil {
		t.Fatal(err)
	}

	var buffer bytes.Buffer

	if err := object.Write(&buffer, program.Segments); err != nil {
		t.Fatal(err)
	}

	result, err := object.Read(&buffer)

	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(result, program.Segments) {
		t.Fatalf("Segment mismatch\nwant:%v\nhave:%v", program.Segments, result)
	}
}

func TestReadTruncated(t *testing.T) {
	cases := []struct {
		Name  string
		Input []byte
	}{
		{"Header", []byte{0x30, 0x00, 0x00}},
		{"Words", []byte{0x30, 0x00, 0x00, 0x02, 0x12, 0x83}},
		{"OddByte", []byte{0x30, 0x00, 0x00, 0x01, 0x12}},
	}

	for _, test := range cases {
		t.Run(test.Name, func(t *testing.T) {
			_, err := object.Read(bytes.NewReader(test.Input))

			if !errors.Is(err, io.ErrUnexpectedEOF) {
				t.Fatalf("Expected io.ErrUnexpectedEOF\nhave:%v", err)
			}
		})
	}
}

func TestReadPastMemory(t *testing.T) {
	input := []byte{0xFF, 0xFF, 0x00, 0x02, 0x00, 0x01, 0x00, 0x02}

	if _, err := object.Read(bytes.NewReader(input)); !errors.Is(
		err, object.ErrSegmentSize,
	) {
		t.Fatalf("Expected ErrSegmentSize\nhave:%v", err)
	}
}

func TestSymTable(t *testing.T) {
	program, err := assembler.AssembleString(
		".ORIG x3000\nSTART ADD R1, R1, #1\n\nLOOP BRnzp LOOP\n.END\n",
	)

	if err != nil {
		t.Fatal(err)
	}

	table := object.NewSymTable("/tmp/loop.asm", program)

	var buffer bytes.Buffer

	if err := object.WriteSymTable(&buffer, table); err != nil {
		t.Fatal(err)
	}

	result, err := object.ReadSymTable(&buffer)

	if err != nil {
		t.Fatal(err)
	}

	want := &object.SymTable{
		Source: "/tmp/loop.asm",
		Labels: map[uint16]string{0x3000: "START", 0x3001: "LOOP"},
		Lines:  map[uint16]int{0x3000: 2, 0x3001: 4},
	}

	if !reflect.DeepEqual(result, want) {
		t.Fatalf("Symbol table mismatch\nwant:%+v\nhave:%+v", want, result)
	}
}

func TestDebugPath(t *testing.T) {
	cases := map[string]string{
		"out.bin":         "out.lc3db",
		"dir/prog.obj":    "dir/prog.lc3db",
		"noext":           "noext.lc3db",
		"a.b/with.dots.o": "a.b/with.dots.lc3db",
	}

	for input, want := range cases {
		if have := object.DebugPath(input); have != want {
			t.Errorf("Debug path mismatch\nwant:%s\nhave:%s", want, have)
		}
	}
}
