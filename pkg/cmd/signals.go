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
	"strings"

	"github.com/consensys/go-vcdstep/pkg/util/file"
	"github.com/consensys/go-vcdstep/pkg/util/termio"
	"github.com/consensys/go-vcdstep/pkg/vcd"
	"github.com/spf13/cobra"
)

// signalsCmd lists the variables declared in the header of a trace file.
var signalsCmd = &cobra.Command{
	Use:   "signals [flags] trace_file",
	Short: "List the signals declared in a trace file.",
	Long: `List the signals declared in the header of a trace file, along with
	their identifier codes and widths.  This is useful for diagnosing traces
	which fail to resolve.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		configureLogging(cmd)
		//
		header := readTraceHeader(args[0])
		prefix := splitScope(GetString(cmd, "scope"))
		//
		var rows [][]string
		//
		header.Walk(func(path file.Path, v *vcd.Var) {
			if prefix.PrefixOf(path) {
				rows = append(rows, []string{path.String(), string(v.Code), fmt.Sprintf("%d", v.Width), v.Kind})
			}
		})
		//
		tp := termio.NewTablePrinter(4, uint(1+len(rows)))
		tp.SetRow(0, "signal", "code", "width", "kind")
		tp.SetRowEscape(0, termio.BoldAnsiEscape().FgColour(termio.TERM_WHITE))
		tp.AnsiEscapes(termio.IsTerminal(os.Stdout))
		tp.SetMaxWidths(termio.TerminalWidth(os.Stdout, 120))
		//
		for i, row := range rows {
			tp.SetRow(uint(i+1), row...)
		}
		//
		if err := tp.Print(os.Stdout); err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
	},
}

// Read just the header of a trace file, or report the failure and exit.
func readTraceHeader(filename string) *vcd.Header {
	f, err := os.Open(filename)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	defer f.Close()
	//
	header, err := vcd.NewParser(f).ParseHeader()
	if err != nil {
		fmt.Printf("%s:%s\n", filename, err.Error())
		os.Exit(2)
	}
	//
	return header
}

// Split a dotted scope (e.g. "TOP.core.rob") into a path.
func splitScope(scope string) file.Path {
	if scope == "" {
		return file.NewPath()
	}
	//
	return file.NewPath(strings.Split(scope, ".")...)
}

func init() {
	rootCmd.AddCommand(signalsCmd)
	signalsCmd.Flags().String("scope", "", "only list signals within the given (dotted) scope")
}
