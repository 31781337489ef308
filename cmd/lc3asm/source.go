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
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lassandro/lc3asm/pkg/assembler"
)

const stdinName = "<stdin>"

// readSource loads the named file, or stdin when no file is given and stdin
// is not a terminal.
func readSource(cmd *cobra.Command, args []string) (string, string, error) {
	if len(args) == 1 {
		if stat, err := os.Stat(args[0]); err != nil {
			return "", "", err
		} else if stat.IsDir() {
			return "", "", errors.New(
				args[0] + " is not a valid LC-3 assembly file",
			)
		}

		data, err := os.ReadFile(args[0])

		return args[0], string(data), err
	}

	input := cmd.InOrStdin()

	if isTerminal(input) {
		return "", "", errors.New("no input file given\n" + cmd.UseLine())
	}

	data, err := io.ReadAll(input)

	return stdinName, string(data), err
}

// outputPath swaps the source extension for ".bin"
func outputPath(name string) string {
	if name == stdinName {
		return "out.bin"
	}

	return strings.TrimSuffix(name, filepath.Ext(name)) + ".bin"
}

// report prints err against the source line it points at. Errors without a
// position are printed with the input name alone.
func report(cmd *cobra.Command, name string, source string, err error) error {
	colour := isTerminal(cmd.ErrOrStderr())

	prefix := name + ":"

	if colour {
		prefix = "\033[1m" + prefix + "\033[0m"
	}

	var tokenErr assembler.TokenError

	if !errors.As(err, &tokenErr) {
		cmd.PrintErrln(prefix, err)
		return errReported
	}

	cursor := tokenErr.GetPosition()
	line := sourceLine(source, cursor)
	mark := underline(line, cursor)

	if colour {
		mark = "\033[31m" + mark + "\033[0m"
	}

	cmd.PrintErrf("%s%s\n%s\n%s\n", prefix, err, line, mark)

	return errReported
}

func sourceLine(source string, cursor assembler.Cursor) string {
	if cursor.LineByte < 0 || cursor.LineByte > int64(len(source)) {
		return ""
	}

	line := source[cursor.LineByte:]

	if end := strings.IndexByte(line, '\n'); end >= 0 {
		line = line[:end]
	}

	return strings.TrimRight(line, "\r")
}

// underline draws a caret under the token at cursor, keeping tabs so the
// caret lines up with the printed source line.
func underline(line string, cursor assembler.Cursor) string {
	column := int(cursor.Byte - cursor.LineByte)

	if column < 0 {
		column = 0
	} else if column > len(line) {
		column = len(line)
	}

	var builder strings.Builder

	for _, char := range []byte(line[:column]) {
		if char == '\t' {
			builder.WriteByte('\t')
		} else {
			builder.WriteByte(' ')
		}
	}

	builder.WriteByte('^')

	size := int(cursor.Size)

	if rest := len(line) - column; size > rest {
		size = rest
	}

	if size > 1 {
		builder.WriteString(strings.Repeat("~", size-1))
	}

	return builder.String()
}
