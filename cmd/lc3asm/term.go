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
	"io"
	"os"

	"golang.org/x/term"
)

func isTerminal(stream interface{}) bool {
	file, ok := stream.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

// enterRawTerm switches the terminal behind file to unbuffered, unechoed
// input. The returned function restores the previous state.
func enterRawTerm(file *os.File) (func(), error) {
	fd := int(file.Fd())

	state, err := term.MakeRaw(fd)

	if err != nil {
		return nil, err
	}

	return func() {
		if err := term.Restore(fd, state); err != nil {
			panic(err)
		}
	}, nil
}

// rawWriter restores the carriage return that raw mode stops adding to
// each newline.
type rawWriter struct {
	out io.Writer
}

func (w rawWriter) Write(buffer []byte) (int, error) {
	if _, err := w.out.Write(
		bytes.ReplaceAll(buffer, []byte("\n"), []byte("\r\n")),
	); err != nil {
		return 0, err
	}

	return len(buffer), nil
}
