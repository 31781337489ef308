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


package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lassandro/lc3asm/pkg/object"
)

const helloSource = `; prints a greeting
        .ORIG x3000
        LEA R0, MSG
        TRAP x22
        TRAP x25
MSG     .STRINGZ "Hello"
        .END
`

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)

	err := root.Execute()

	return stdout.String(), stderr.String(), err
}

func writeSource(t *testing.T, name string, source string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)

	if err := os.WriteFile(path, []byte(source), 0666); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestBuild(t *testing.T) {
	path := writeSource(t, "hello.asm", helloSource)

	if _, stderr, err := execute(t, "", "build", "--debug", path); err != nil {
		t.Fatalf("%v\n%s", err, stderr)
	}

	binary := strings.TrimSuffix(path, ".asm") + ".bin"

	file, err := os.Open(binary)

	if err != nil {
		t.Fatal(err)
	}

	defer file.Close()

	segments, err := object.Read(file)

	if err != nil {
		t.Fatal(err)
	}

	want := []uint16{0xE002, 0xF022, 0xF025, 'H', 'e', 'l', 'l', 'o', 0}

	if len(segments) != 1 || segments[0].Origin != 0x3000 {
		t.Fatalf("Segment mismatch\nhave:%v", segments)
	}

	for i, word := range want {
		if have := segments[0].Words[i]; have != word {
			t.Fatalf(
				"Word mismatch\nwant:%#04x (want[%d])\nhave:%#04x", word, i, have,
			)
		}
	}

	debug, err := os.Open(object.DebugPath(binary))

	if err != nil {
		t.Fatal(err)
	}

	defer debug.Close()

	table, err := object.ReadSymTable(debug)

	if err != nil {
		t.Fatal(err)
	}

	if table.Source != path {
		t.Errorf("Source mismatch\nwant:%s\nhave:%s", path, table.Source)
	}

	if table.Labels[0x3003] != "MSG" {
		t.Errorf("Label mismatch\nwant:MSG\nhave:%q", table.Labels[0x3003])
	}

	if table.Lines[0x3001] != 4 {
		t.Errorf("Line mismatch\nwant:4\nhave:%d", table.Lines[0x3001])
	}
}

func TestBuildStdin(t *testing.T) {
	output := filepath.Join(t.TempDir(), "prog.obj")

	if _, stderr, err := execute(
		t, helloSource, "build", "-o", output,
	); err != nil {
		t.Fatalf("%v\n%s", err, stderr)
	}

	if _, err := os.Stat(output); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(object.DebugPath(output)); !os.IsNotExist(err) {
		t.Fatalf("Unexpected debug file\nhave:%v", err)
	}
}

func TestBuildDiagnostic(t *testing.T) {
	path := writeSource(
		t, "bad.asm", ".ORIG x3000\n\tADD R1, R2, #16\n.END\n",
	)

	_, stderr, err := execute(t, "", "build", path)

	if !errors.Is(err, errReported) {
		t.Fatalf("Expected a reported diagnostic\nhave:%v", err)
	}

	lines := strings.Split(strings.TrimRight(stderr, "\n"), "\n")

	if !strings.HasPrefix(lines[0], path+":02:") {
		t.Errorf("Diagnostic prefix mismatch\nhave:%q", lines[0])
	}

	want := "\t" + strings.Repeat(" ", 12) + "^~~"

	if have := lines[len(lines)-1]; have != want {
		t.Errorf("Underline mismatch\nwant:%q\nhave:%q", want, have)
	}

	if lines[len(lines)-2] != "\tADD R1, R2, #16" {
		t.Errorf("Source line mismatch\nhave:%q", lines[len(lines)-2])
	}
}

func TestRun(t *testing.T) {
	path := writeSource(t, "hello.asm", helloSource)

	stdout, stderr, err := execute(t, "", "run", path)

	if err != nil {
		t.Fatalf("%v\n%s", err, stderr)
	}

	if stdout != "Hello" {
		t.Fatalf("Display mismatch\nwant:%q\nhave:%q", "Hello", stdout)
	}

	if _, _, err := execute(t, "", "build", path); err != nil {
		t.Fatal(err)
	}

	stdout, _, err = execute(
		t, "", "run", strings.TrimSuffix(path, ".asm")+".bin",
	)

	if err != nil {
		t.Fatal(err)
	}

	if stdout != "Hello" {
		t.Fatalf("Object display mismatch\nwant:%q\nhave:%q", "Hello", stdout)
	}
}

func TestRunStepLimit(t *testing.T) {
	path := writeSource(t, "loop.asm", ".ORIG x3000\nLOOP BRnzp LOOP\n.END\n")

	if _, _, err := execute(
		t, "", "run", "--max-steps", "50", path,
	); err == nil || !strings.Contains(err.Error(), "step limit") {
		t.Fatalf("Expected step limit error\nhave:%v", err)
	}
}

func TestDump(t *testing.T) {
	path := writeSource(t, "hello.asm", helloSource)

	cases := []struct {
		Flag string
		Want string
	}{
		{"--tokens", "Hello"},
		{"--instructions", "STRINGZ"},
		{"--symbols", "MSG"},
	}

	for _, test := range cases {
		t.Run(test.Flag, func(t *testing.T) {
			stdout, stderr, err := execute(t, "", "dump", test.Flag, path)

			if err != nil {
				t.Fatalf("%v\n%s", err, stderr)
			}

			if !strings.Contains(stdout, test.Want) {
				t.Fatalf("Dump missing %q\nhave:%s", test.Want, stdout)
			}
		})
	}

	if _, _, err := execute(
		t, "", "dump", "--tokens", "--symbols", path,
	); err == nil {
		t.Fatal("Expected exclusive stage flags to be rejected")
	}
}

func TestOutputPath(t *testing.T) {
	if have := outputPath(stdinName); have != "out.bin" {
		t.Errorf("Output path mismatch\nwant:out.bin\nhave:%s", have)
	}

	if have := outputPath("dir/prog.asm"); have != "dir/prog.bin" {
		t.Errorf("Output path mismatch\nwant:dir/prog.bin\nhave:%s", have)
	}
}
