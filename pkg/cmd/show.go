// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"fmt"
	"os"

	"github.com/consensys/go-vcdstep/pkg/cmd/view"
	"github.com/consensys/go-vcdstep/pkg/util/termio"
	"github.com/spf13/cobra"
)

// showCmd prints one or more steps of a trace file as tables.
var showCmd = &cobra.Command{
	Use:   "show [flags] trace_file",
	Short: "Print the steps of a trace file.",
	Long: `Print the state reconstructed at one (or every) rising clock edge of a
	trace file as tables, with valid reorder buffer and issue queue entries
	highlighted.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		configureLogging(cmd)
		//
		history, err := readStepHistory(args[0], getCatalog(cmd))
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		var (
			all     = !cmd.Flags().Changed("step")
			n       = GetUint(cmd, "step")
			ansi    = GetFlag(cmd, "ansi-escapes") && termio.IsTerminal(os.Stdout)
			printer = view.NewPrinter().
				AnsiEscapes(ansi).
				Hex(GetFlag(cmd, "hex")).
				MaxCellWidth(GetUint(cmd, "max-width"))
		)
		//
		if !all && n >= uint(len(history)) {
			fmt.Printf("step %d out of range (trace has %d steps)\n", n, len(history))
			os.Exit(2)
		}
		//
		for i, step := range history {
			if all || uint(i) == n {
				if err := printer.Print(os.Stdout, uint(i), step); err != nil {
					fmt.Println(err)
					os.Exit(2)
				}
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().UintP("step", "s", 0, "show only the given step (counting from 0)")
	showCmd.Flags().Bool("hex", false, "show register contents and operands in hex")
	showCmd.Flags().Uint("max-width", 16, "specify maximum width of a table cell")
	showCmd.Flags().Bool("ansi-escapes", true, "specify whether to allow ANSI escapes or not (e.g. for colour)")
}
