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
	"flag"
	"os"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
)

// Returned once a diagnostic has already been printed
var errReported = errors.New("assembly failed")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "lc3asm",
		Short: "Assembler and test harness for LC-3 programs",
		Long: `lc3asm translates LC-3 assembly into 16-bit machine words.

Programs are written as one or more .ORIG/.END blocks. The build command
writes an object file of segments, run executes a source or object file on a
small LC-3 machine, and dump prints the intermediate stages of assembly.`,

		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// glog only reads its flags once the Go flag set is parsed
			return flag.CommandLine.Parse([]string{})
		},
	}

	root.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	root.AddCommand(newBuildCmd(), newRunCmd(), newDumpCmd())

	return root
}

func lc3asm() int {
	root := newRootCmd()

	if err := root.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			root.PrintErrln("lc3asm:", err)
		}

		return 1
	}

	return 0
}

func main() {
	code := lc3asm()
	glog.Flush()
	os.Exit(code)
}
