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
	"os"
	"path/filepath"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/lassandro/lc3asm/pkg/assembler"
	"github.com/lassandro/lc3asm/pkg/object"
)

func newBuildCmd() *cobra.Command {
	var outvar string
	var debugvar bool

	cmd := &cobra.Command{
		Use:   "build [-o outfile] [--debug] [filename]",
		Short: "Assemble a source file into an object file",
		Long: `Build assembles filename, or stdin when no filename is given, and
writes the resulting segments as an object file. By default the object file
takes the source name with the extension ".bin", or "out.bin" for stdin.`,
		Args: cobra.MaximumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			name, source, err := readSource(cmd, args)

			if err != nil {
				return err
			}

			program, err := assembler.AssembleString(source)

			if err != nil {
				return report(cmd, name, source, err)
			}

			if outvar == "" {
				outvar = outputPath(name)
			}

			var buffer bytes.Buffer

			if err := object.Write(&buffer, program.Segments); err != nil {
				return err
			}

			if err := os.WriteFile(outvar, buffer.Bytes(), 0666); err != nil {
				return err
			}

			glog.V(1).Infof(
				"wrote %d segments (%d words) to %s",
				len(program.Segments), len(program.Words()), outvar,
			)

			if !debugvar {
				return nil
			}

			var absolute string

			if name != stdinName {
				if absolute, err = filepath.Abs(name); err != nil {
					glog.Warningf("debug source path: %v", err)
					absolute = ""
				}
			}

			buffer.Reset()

			table := object.NewSymTable(absolute, program)

			if err := object.WriteSymTable(&buffer, table); err != nil {
				return err
			}

			return os.WriteFile(object.DebugPath(outvar), buffer.Bytes(), 0666)
		},
	}

	cmd.Flags().StringVarP(
		&outvar, "out", "o", "",
		"Specifies a precise name for the output file, "+
			"overriding the default means of determining it",
	)

	cmd.Flags().BoolVar(
		&debugvar, "debug", false,
		"Specifies whether to generate debugging information as a symbol "+
			"table. The table will use the output filename with extension "+
			"'.lc3db'",
	)

	return cmd
}
