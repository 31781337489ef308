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
	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"

	"github.com/lassandro/lc3asm/pkg/assembler"
)

func newDumpCmd() *cobra.Command {
	var tokens bool
	var instructions bool
	var symbols bool

	cmd := &cobra.Command{
		Use:   "dump [--tokens|--instructions|--symbols] [filename]",
		Short: "Print an intermediate stage of assembly",
		Long: `Dump runs filename, or stdin when no filename is given, through the
assembler up to the requested stage and pretty-prints the result. Without a
stage flag the parsed instructions are printed.`,
		Args: cobra.MaximumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			name, source, err := readSource(cmd, args)

			if err != nil {
				return err
			}

			printer := pp.New()
			printer.SetOutput(cmd.OutOrStdout())
			printer.SetColoringEnabled(isTerminal(cmd.OutOrStdout()))

			if tokens {
				list, err := assembler.Tokenize(source)

				if err != nil {
					return report(cmd, name, source, err)
				}

				_, err = printer.Println(list)
				return err
			}

			parsed, err := assembler.Parse(assembler.NewTokenizer(source))

			if err != nil {
				return report(cmd, name, source, err)
			}

			if !symbols {
				_, err = printer.Println(parsed)
				return err
			}

			table, err := assembler.Link(parsed)

			if err != nil {
				return report(cmd, name, source, err)
			}

			_, err = printer.Println(table.Symbols())
			return err
		},
	}

	cmd.Flags().BoolVar(&tokens, "tokens", false, "Prints the token stream")
	cmd.Flags().BoolVar(
		&instructions, "instructions", false, "Prints the parsed instructions",
	)
	cmd.Flags().BoolVar(
		&symbols, "symbols", false, "Prints the symbol table by address",
	)

	cmd.MarkFlagsMutuallyExclusive("tokens", "instructions", "symbols")

	return cmd
}
