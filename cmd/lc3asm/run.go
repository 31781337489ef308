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
	"bufio"
	"errors"
	"os"
	"path/filepath"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/lassandro/lc3asm/pkg/assembler"
	"github.com/lassandro/lc3asm/pkg/machine"
	"github.com/lassandro/lc3asm/pkg/object"
)

// loadSegments assembles source files in memory and reads anything else as
// an object file.
func loadSegments(cmd *cobra.Command, filename string) ([]assembler.Segment, error) {
	switch filepath.Ext(filename) {
	case ".asm", ".s":
		name, source, err := readSource(cmd, []string{filename})

		if err != nil {
			return nil, err
		}

		program, err := assembler.AssembleString(source)

		if err != nil {
			return nil, report(cmd, name, source, err)
		}

		return program.Segments, nil
	}

	file, err := os.Open(filename)

	if err != nil {
		return nil, err
	}

	defer file.Close()

	return object.Read(bufio.NewReader(file))
}

func newRunCmd() *cobra.Command {
	var maxSteps uint64

	cmd := &cobra.Command{
		Use:   "run [--max-steps n] filename",
		Short: "Execute a source or object file",
		Long: `Run loads filename into an LC-3 machine and executes it from the origin of
its first segment until HALT. Files ending in .asm or .s are assembled first,
anything else is read as an object file written by build. The keyboard is
stdin and the display is stdout.`,
		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			segments, err := loadSegments(cmd, args[0])

			if err != nil {
				return err
			}

			if len(segments) == 0 {
				return errors.New(args[0] + " contains no segments")
			}

			var mc machine.Machine

			mc.Reset()

			for _, segment := range segments {
				if err := mc.Load(segment.Origin, segment.Words); err != nil {
					return err
				}
			}

			mc.State.Program = segments[0].Origin

			input := cmd.InOrStdin()
			display := cmd.OutOrStdout()

			if file, ok := input.(*os.File); ok && isTerminal(file) {
				restore, err := enterRawTerm(file)

				if err != nil {
					return err
				}

				defer restore()

				display = rawWriter{display}
			}

			mc.Devices = &machine.DeviceHandler{
				Keyboard: bufio.NewReader(input),
				Display:  display,
			}

			err = mc.Run(maxSteps)

			glog.V(1).Infof("executed %d instructions", mc.Steps)

			return err
		},
	}

	cmd.Flags().Uint64Var(
		&maxSteps, "max-steps", 0,
		"Stops with an error after this many instructions, 0 for no limit",
	)

	return cmd
}
