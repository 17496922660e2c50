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
	"io"
	"os"

	"github.com/consensys/go-vcdstep/pkg/uarch"
	"github.com/pkg/profile"
	"github.com/segmentio/encoding/json"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// decodeCmd decodes a trace file into JSON.
var decodeCmd = &cobra.Command{
	Use:   "decode [flags] trace_file",
	Short: "Decode a trace file into a sequence of steps.",
	Long: `Decode a value change dump into one step per rising clock edge,
	written as JSON.  Each step holds the commit and rename map tables, the
	physical register file, the reorder buffer and the issue queue.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		configureLogging(cmd)
		//
		var (
			catalog = getCatalog(cmd)
			output  = GetString(cmd, "output")
			indent  = GetFlag(cmd, "indent")
			profdir = GetString(cmd, "profile")
		)
		//
		if err := decodeTrace(args[0], catalog, output, indent, profdir); err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
	},
}

// Decode a trace file and write out its steps, optionally profiling the whole
// run.  The profile is written before returning, whether or not the decode
// succeeded.
func decodeTrace(filename string, catalog *uarch.Catalog, output string, indent bool, profdir string) error {
	if profdir != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(profdir), profile.Quiet).Stop()
	}
	//
	history, err := readStepHistory(filename, catalog)
	if err != nil {
		return err
	}
	//
	return writeStepHistory(output, history, indent)
}

// Write a history of steps as JSON into a given file, or onto stdout for "-".
func writeStepHistory(filename string, history uarch.History, indent bool) error {
	if filename == "-" {
		return encodeStepHistory(os.Stdout, history, indent)
	}
	//
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	//
	if err = closeAfter(f, func(w io.Writer) error { return encodeStepHistory(w, history, indent) }); err != nil {
		return err
	}
	//
	log.Debugf("wrote %d steps to %s", len(history), filename)
	//
	return nil
}

// Run a given write against a writer and then close it.  A failure to close
// is reported only if the write itself succeeded.
func closeAfter(wc io.WriteCloser, write func(io.Writer) error) error {
	err := write(wc)
	//
	if cerr := wc.Close(); err == nil {
		err = cerr
	}
	//
	return err
}

func encodeStepHistory(w io.Writer, history uarch.History, indent bool) error {
	encoder := json.NewEncoder(w)
	//
	if indent {
		encoder.SetIndent("", "  ")
	}
	//
	return encoder.Encode(history)
}

func init() {
	rootCmd.AddCommand(decodeCmd)
	decodeCmd.Flags().StringP("output", "o", "-", "specify output file (or - for stdout)")
	decodeCmd.Flags().Bool("indent", false, "indent JSON output")
	decodeCmd.Flags().String("profile", "", "write a CPU profile of the decode into the given directory")
}
